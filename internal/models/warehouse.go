package models

import (
	"time"
)

// DimCustomer is the customer dimension. The start/end/is_current columns
// give it a type-2 SCD shape, but the pipeline only ever writes an open
// version: start_date is the epoch sentinel, end_date stays NULL and
// is_current stays true. No version-closing path exists.
type DimCustomer struct {
	CustomerID int64      `db:"customer_id"`
	FirstName  string     `db:"first_name"`
	LastName   string     `db:"last_name"`
	Email      string     `db:"email"`
	Address    string     `db:"address"`
	StartDate  time.Time  `db:"start_date"`
	EndDate    *time.Time `db:"end_date"`
	IsCurrent  bool       `db:"is_current"`
}

// SCDStartSentinel is the placeholder start_date written for every open
// customer version.
var SCDStartSentinel = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// DimProduct carries the source category_id in Category, not the category
// name; reporting joins back through the source if it needs the label.
type DimProduct struct {
	ProductID int64   `db:"product_id"`
	Name      string  `db:"name"`
	Category  int64   `db:"category"`
	Price     float64 `db:"price"`
}

// DimTime holds one row per distinct order date.
type DimTime struct {
	Date    time.Time `db:"date"`
	Month   int       `db:"month"`
	Quarter int       `db:"quarter"`
	Year    int       `db:"year"`
}

// NewDimTime derives the calendar attributes from the date value alone.
func NewDimTime(date time.Time) DimTime {
	month := int(date.Month())
	return DimTime{
		Date:    date,
		Month:   month,
		Quarter: (month-1)/3 + 1,
		Year:    date.Year(),
	}
}

type DimOrder struct {
	OrderID     int64     `db:"order_id"`
	CustomerID  int64     `db:"customer_id"`
	OrderDate   time.Time `db:"order_date"`
	TotalAmount float64   `db:"total_amount"`
}

// FactSales has one row per order line, unique on (order_id, product_id).
type FactSales struct {
	OrderID      int64     `db:"order_id"`
	ProductID    int64     `db:"product_id"`
	CustomerID   int64     `db:"customer_id"`
	Date         time.Time `db:"date"`
	QuantitySold int       `db:"quantity_sold"`
	TotalSales   float64   `db:"total_sales"`
}

// FactPayment mirrors the order header; PaymentID equals the order id, the
// source system records exactly one payment per order.
type FactPayment struct {
	PaymentID  int64     `db:"payment_id"`
	OrderID    int64     `db:"order_id"`
	CustomerID int64     `db:"customer_id"`
	Date       time.Time `db:"date"`
	Amount     float64   `db:"amount"`
}
