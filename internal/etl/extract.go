package etl

import (
	"fmt"

	"github.com/mpetrov/retaildwh/internal/database"
	"github.com/mpetrov/retaildwh/internal/models"
	"go.uber.org/zap"
)

const extractQuery = `
	SELECT o.id AS order_id, o.customer_id, o.date AS order_date, o.amount,
	       ol.product_id, ol.quantity, ol.unit_price,
	       c.first_name, c.last_name, c.birthdate,
	       COALESCE(c.email, '') AS email, COALESCE(c.phone, '') AS phone,
	       p.name AS product_name, p.category_id, p.supplier_id
	FROM orders o
	JOIN order_line ol ON o.id = ol.order_id
	JOIN customer c ON o.customer_id = c.id
	JOIN product p ON ol.product_id = p.id`

// Extractor reads the denormalized working set out of the source store.
// It is read-only: extraction issues no writes.
type Extractor struct {
	conn   database.Conn
	logger *zap.Logger
}

func NewExtractor(conn database.Conn, logger *zap.Logger) *Extractor {
	return &Extractor{conn: conn, logger: logger}
}

// Extract returns one record per (order, line) pair, the fact_sales grain.
func (e *Extractor) Extract() ([]models.SalesRecord, error) {
	rows, err := e.conn.Query(extractQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to extract sales records: %w", err)
	}
	defer rows.Close()

	var records []models.SalesRecord
	for rows.Next() {
		var rec models.SalesRecord
		err := rows.Scan(
			&rec.OrderID, &rec.CustomerID, &rec.OrderDate, &rec.Amount,
			&rec.ProductID, &rec.Quantity, &rec.UnitPrice,
			&rec.FirstName, &rec.LastName, &rec.Birthdate, &rec.Email, &rec.Phone,
			&rec.ProductName, &rec.CategoryID, &rec.SupplierID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sales record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sales records: %w", err)
	}

	e.logger.Info("extracted sales records", zap.Int("records", len(records)))
	return records, nil
}

// Transform fills in the derived measures on the extracted records.
func Transform(records []models.SalesRecord) []models.SalesRecord {
	for i := range records {
		records[i].TotalSales = float64(records[i].Quantity) * records[i].UnitPrice
	}
	return records
}
