package etl

import (
	"fmt"

	"github.com/mpetrov/retaildwh/internal/database"
	"github.com/mpetrov/retaildwh/internal/models"
	"go.uber.org/zap"
)

const (
	dimCustomerQuery = `
	SELECT c.id, c.first_name, c.last_name, COALESCE(c.email, ''), a.street
	FROM customer c
	JOIN address a ON c.address_id = a.id`

	insertDimCustomerSQL = `
	INSERT IGNORE INTO dim_customer
	    (customer_id, first_name, last_name, email, address, start_date, end_date, is_current)
	VALUES (?, ?, ?, ?, ?, ?, NULL, TRUE)`

	dimProductQuery = `SELECT id, name, category_id, price FROM product`

	insertDimProductSQL = `
	INSERT IGNORE INTO dim_product (product_id, name, category, price)
	VALUES (?, ?, ?, ?)`

	dimTimeQuery = `SELECT DISTINCT date FROM orders`

	insertDimTimeSQL = `
	INSERT IGNORE INTO dim_time (date, month, quarter, year)
	VALUES (?, ?, ?, ?)`

	orderQuery = `SELECT id, customer_id, date, amount FROM orders`

	insertDimOrderSQL = `
	INSERT IGNORE INTO dim_order (order_id, customer_id, order_date, total_amount)
	VALUES (?, ?, ?, ?)`

	insertFactSalesSQL = `
	INSERT IGNORE INTO fact_sales (order_id, product_id, customer_id, date, quantity_sold, total_sales)
	VALUES (?, ?, ?, ?, ?, ?)`

	insertFactPaymentSQL = `
	INSERT IGNORE INTO fact_payment (payment_id, order_id, customer_id, date, amount)
	VALUES (?, ?, ?, ?, ?)`
)

// Loader upserts dimension and fact rows into the warehouse. Every insert
// is keyed on the table's business key and skips rows already present, so
// the whole load phase can be rerun without duplicating rows.
type Loader struct {
	source    database.Conn
	warehouse database.Conn
	logger    *zap.Logger
}

func NewLoader(source, warehouse database.Conn, logger *zap.Logger) *Loader {
	return &Loader{source: source, warehouse: warehouse, logger: logger}
}

// LoadDimensions loads the customer, product, time and order dimensions
// from the source store.
func (l *Loader) LoadDimensions() error {
	if err := l.loadDimCustomers(); err != nil {
		return err
	}
	if err := l.loadDimProducts(); err != nil {
		return err
	}
	if err := l.loadDimTime(); err != nil {
		return err
	}
	return l.loadDimOrders()
}

// LoadFacts inserts one fact_sales row per extracted record, keyed on
// (order_id, product_id).
func (l *Loader) LoadFacts(records []models.SalesRecord) error {
	inserted := 0
	for _, rec := range records {
		fact := models.FactSales{
			OrderID:      rec.OrderID,
			ProductID:    rec.ProductID,
			CustomerID:   rec.CustomerID,
			Date:         rec.OrderDate,
			QuantitySold: rec.Quantity,
			TotalSales:   rec.TotalSales,
		}
		res, err := l.warehouse.Exec(insertFactSalesSQL,
			fact.OrderID, fact.ProductID, fact.CustomerID, fact.Date,
			fact.QuantitySold, fact.TotalSales)
		if err != nil {
			return fmt.Errorf("failed to insert fact_sales %d/%d: %w", fact.OrderID, fact.ProductID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	l.logger.Info("loaded fact_sales",
		zap.Int("records", len(records)), zap.Int("inserted", inserted))
	return nil
}

// LoadPayments inserts one fact_payment row per order header. The source
// system settles each order with a single payment, so payment_id is the
// order id.
func (l *Loader) LoadPayments() error {
	orders, err := l.queryOrders()
	if err != nil {
		return err
	}

	inserted := 0
	for _, o := range orders {
		payment := models.FactPayment{
			PaymentID:  o.OrderID,
			OrderID:    o.OrderID,
			CustomerID: o.CustomerID,
			Date:       o.OrderDate,
			Amount:     o.TotalAmount,
		}
		res, err := l.warehouse.Exec(insertFactPaymentSQL,
			payment.PaymentID, payment.OrderID, payment.CustomerID, payment.Date, payment.Amount)
		if err != nil {
			return fmt.Errorf("failed to insert fact_payment %d: %w", payment.PaymentID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	l.logger.Info("loaded fact_payment",
		zap.Int("orders", len(orders)), zap.Int("inserted", inserted))
	return nil
}

func (l *Loader) loadDimCustomers() error {
	rows, err := l.source.Query(dimCustomerQuery)
	if err != nil {
		return fmt.Errorf("failed to read customers: %w", err)
	}
	defer rows.Close()

	var customers []models.DimCustomer
	for rows.Next() {
		var c models.DimCustomer
		if err := rows.Scan(&c.CustomerID, &c.FirstName, &c.LastName, &c.Email, &c.Address); err != nil {
			return fmt.Errorf("failed to scan customer: %w", err)
		}
		c.StartDate = models.SCDStartSentinel
		c.IsCurrent = true
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read customers: %w", err)
	}

	inserted := 0
	for _, c := range customers {
		res, err := l.warehouse.Exec(insertDimCustomerSQL,
			c.CustomerID, c.FirstName, c.LastName, c.Email, c.Address, c.StartDate)
		if err != nil {
			return fmt.Errorf("failed to insert dim_customer %d: %w", c.CustomerID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	l.logger.Info("loaded dim_customer",
		zap.Int("rows", len(customers)), zap.Int("inserted", inserted))
	return nil
}

func (l *Loader) loadDimProducts() error {
	rows, err := l.source.Query(dimProductQuery)
	if err != nil {
		return fmt.Errorf("failed to read products: %w", err)
	}
	defer rows.Close()

	var products []models.DimProduct
	for rows.Next() {
		var p models.DimProduct
		if err := rows.Scan(&p.ProductID, &p.Name, &p.Category, &p.Price); err != nil {
			return fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read products: %w", err)
	}

	inserted := 0
	for _, p := range products {
		res, err := l.warehouse.Exec(insertDimProductSQL, p.ProductID, p.Name, p.Category, p.Price)
		if err != nil {
			return fmt.Errorf("failed to insert dim_product %d: %w", p.ProductID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	l.logger.Info("loaded dim_product",
		zap.Int("rows", len(products)), zap.Int("inserted", inserted))
	return nil
}

func (l *Loader) loadDimTime() error {
	rows, err := l.source.Query(dimTimeQuery)
	if err != nil {
		return fmt.Errorf("failed to read order dates: %w", err)
	}
	defer rows.Close()

	var dims []models.DimTime
	for rows.Next() {
		var d models.DimTime
		if err := rows.Scan(&d.Date); err != nil {
			return fmt.Errorf("failed to scan order date: %w", err)
		}
		dims = append(dims, models.NewDimTime(d.Date))
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read order dates: %w", err)
	}

	inserted := 0
	for _, d := range dims {
		res, err := l.warehouse.Exec(insertDimTimeSQL, d.Date, d.Month, d.Quarter, d.Year)
		if err != nil {
			return fmt.Errorf("failed to insert dim_time %s: %w", d.Date.Format("2006-01-02"), err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	l.logger.Info("loaded dim_time",
		zap.Int("dates", len(dims)), zap.Int("inserted", inserted))
	return nil
}

func (l *Loader) loadDimOrders() error {
	orders, err := l.queryOrders()
	if err != nil {
		return err
	}

	inserted := 0
	for _, o := range orders {
		res, err := l.warehouse.Exec(insertDimOrderSQL, o.OrderID, o.CustomerID, o.OrderDate, o.TotalAmount)
		if err != nil {
			return fmt.Errorf("failed to insert dim_order %d: %w", o.OrderID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	l.logger.Info("loaded dim_order",
		zap.Int("rows", len(orders)), zap.Int("inserted", inserted))
	return nil
}

func (l *Loader) queryOrders() ([]models.DimOrder, error) {
	rows, err := l.source.Query(orderQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}
	defer rows.Close()

	var orders []models.DimOrder
	for rows.Next() {
		var o models.DimOrder
		if err := rows.Scan(&o.OrderID, &o.CustomerID, &o.OrderDate, &o.TotalAmount); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}

	return orders, nil
}
