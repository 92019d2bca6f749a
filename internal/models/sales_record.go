package models

import (
	"database/sql"
	"time"
)

// SalesRecord is one denormalized row of the extract working set: an order
// line joined with its order header, customer and product attributes. The
// extractor keeps one record per (order, product) pair, matching the
// fact_sales grain.
type SalesRecord struct {
	OrderID    int64     `db:"order_id"`
	CustomerID int64     `db:"customer_id"`
	OrderDate  time.Time `db:"order_date"`
	Amount     float64   `db:"amount"`
	ProductID  int64     `db:"product_id"`
	Quantity   int       `db:"quantity"`
	UnitPrice  float64   `db:"unit_price"`

	FirstName string       `db:"first_name"`
	LastName  string       `db:"last_name"`
	Birthdate sql.NullTime `db:"birthdate"`
	Email     string       `db:"email"`
	Phone     string       `db:"phone"`

	ProductName string `db:"product_name"`
	CategoryID  int64  `db:"category_id"`
	SupplierID  int64  `db:"supplier_id"`

	// TotalSales is the derived measure quantity * unit_price, filled in by
	// the transform step.
	TotalSales float64 `db:"total_sales"`
}
