package database

// Source (transactional) schema. Natural keys carry unique constraints so
// the resolver's insert-if-absent pattern is enforced by the store, and
// foreign keys enforce the load order: country before city, city before
// address, address before customer, category/supplier before product.
var sourceSchemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS country (
	    id BIGINT PRIMARY KEY AUTO_INCREMENT,
	    name VARCHAR(100) NOT NULL,
	    UNIQUE KEY uk_country_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS city (
	    id BIGINT PRIMARY KEY AUTO_INCREMENT,
	    name VARCHAR(100) NOT NULL,
	    country_id BIGINT NOT NULL,
	    FOREIGN KEY (country_id) REFERENCES country(id),
	    UNIQUE KEY uk_city_name_country (name, country_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS address (
	    id BIGINT PRIMARY KEY AUTO_INCREMENT,
	    street VARCHAR(255) NOT NULL,
	    city_id BIGINT NOT NULL,
	    postal_code VARCHAR(20),
	    FOREIGN KEY (city_id) REFERENCES city(id),
	    UNIQUE KEY uk_address_street_city (street, city_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS customer (
	    id BIGINT PRIMARY KEY,
	    first_name VARCHAR(100) NOT NULL,
	    last_name VARCHAR(100) NOT NULL,
	    birthdate DATE,
	    email VARCHAR(255),
	    phone VARCHAR(50),
	    create_date DATE,
	    address_id BIGINT NOT NULL,
	    FOREIGN KEY (address_id) REFERENCES address(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS supplier (
	    id BIGINT PRIMARY KEY AUTO_INCREMENT,
	    name VARCHAR(200) NOT NULL,
	    UNIQUE KEY uk_supplier_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS category (
	    id BIGINT PRIMARY KEY,
	    name VARCHAR(100) NOT NULL,
	    description TEXT
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS product (
	    id BIGINT PRIMARY KEY,
	    name VARCHAR(255) NOT NULL,
	    description TEXT,
	    price DECIMAL(10,2) NOT NULL,
	    quantity INT NOT NULL DEFAULT 0,
	    category_id BIGINT NOT NULL,
	    supplier_id BIGINT NOT NULL,
	    FOREIGN KEY (category_id) REFERENCES category(id),
	    FOREIGN KEY (supplier_id) REFERENCES supplier(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS orders (
	    id BIGINT PRIMARY KEY,
	    customer_id BIGINT NOT NULL,
	    date DATE NOT NULL,
	    amount DECIMAL(10,2) NOT NULL,
	    FOREIGN KEY (customer_id) REFERENCES customer(id),
	    INDEX idx_orders_date (date)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS order_line (
	    order_id BIGINT NOT NULL,
	    product_id BIGINT NOT NULL,
	    quantity INT NOT NULL,
	    unit_price DECIMAL(10,2) NOT NULL,
	    PRIMARY KEY (order_id, product_id),
	    FOREIGN KEY (order_id) REFERENCES orders(id),
	    FOREIGN KEY (product_id) REFERENCES product(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Warehouse (star) schema. Every table's primary/unique key is the business
// key the loader dedups on, so INSERT IGNORE makes reruns of the load phase
// no-ops for rows already present.
var warehouseSchemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS dim_customer (
	    customer_id BIGINT PRIMARY KEY,
	    first_name VARCHAR(100) NOT NULL,
	    last_name VARCHAR(100) NOT NULL,
	    email VARCHAR(255),
	    address VARCHAR(255),
	    start_date DATE NOT NULL,
	    end_date DATE NULL,
	    is_current BOOLEAN NOT NULL DEFAULT TRUE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS dim_product (
	    product_id BIGINT PRIMARY KEY,
	    name VARCHAR(255) NOT NULL,
	    category BIGINT,
	    price DECIMAL(10,2) NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS dim_time (
	    date DATE PRIMARY KEY,
	    month INT NOT NULL,
	    quarter INT NOT NULL,
	    year INT NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS dim_order (
	    order_id BIGINT PRIMARY KEY,
	    customer_id BIGINT NOT NULL,
	    order_date DATE NOT NULL,
	    total_amount DECIMAL(10,2) NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS fact_sales (
	    order_id BIGINT NOT NULL,
	    product_id BIGINT NOT NULL,
	    customer_id BIGINT NOT NULL,
	    date DATE NOT NULL,
	    quantity_sold INT NOT NULL,
	    total_sales DECIMAL(12,2) NOT NULL,
	    PRIMARY KEY (order_id, product_id),
	    INDEX idx_fact_sales_date (date),
	    INDEX idx_fact_sales_customer (customer_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS fact_payment (
	    payment_id BIGINT PRIMARY KEY,
	    order_id BIGINT NOT NULL,
	    customer_id BIGINT NOT NULL,
	    date DATE NOT NULL,
	    amount DECIMAL(10,2) NOT NULL,
	    INDEX idx_fact_payment_date (date)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Drop order is the reverse of create order so foreign keys never dangle.
var sourceDropStatements = []string{
	"DROP TABLE IF EXISTS order_line",
	"DROP TABLE IF EXISTS orders",
	"DROP TABLE IF EXISTS product",
	"DROP TABLE IF EXISTS category",
	"DROP TABLE IF EXISTS supplier",
	"DROP TABLE IF EXISTS customer",
	"DROP TABLE IF EXISTS address",
	"DROP TABLE IF EXISTS city",
	"DROP TABLE IF EXISTS country",
}

var warehouseDropStatements = []string{
	"DROP TABLE IF EXISTS fact_payment",
	"DROP TABLE IF EXISTS fact_sales",
	"DROP TABLE IF EXISTS dim_order",
	"DROP TABLE IF EXISTS dim_time",
	"DROP TABLE IF EXISTS dim_product",
	"DROP TABLE IF EXISTS dim_customer",
}

// SourceTables lists the transactional tables in load order.
var SourceTables = []string{
	"country", "city", "address", "customer",
	"supplier", "category", "product",
	"orders", "order_line",
}

// WarehouseTables lists the star-schema tables in load order.
var WarehouseTables = []string{
	"dim_customer", "dim_product", "dim_time", "dim_order",
	"fact_sales", "fact_payment",
}

// SetupSourceSchema creates the transactional tables
func (db *DB) SetupSourceSchema() error {
	return db.execAll(sourceSchemaStatements)
}

// SetupWarehouseSchema creates the star-schema tables
func (db *DB) SetupWarehouseSchema() error {
	return db.execAll(warehouseSchemaStatements)
}

// DropSourceSchema removes the transactional tables
func (db *DB) DropSourceSchema() error {
	return db.execAll(sourceDropStatements)
}

// DropWarehouseSchema removes the star-schema tables
func (db *DB) DropWarehouseSchema() error {
	return db.execAll(warehouseDropStatements)
}

func (db *DB) execAll(statements []string) error {
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
