package etl

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mpetrov/retaildwh/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTransformComputesTotalSales(t *testing.T) {
	records := []models.SalesRecord{
		{OrderID: 100, ProductID: 1, Quantity: 2, UnitPrice: 10.0},
		{OrderID: 101, ProductID: 2, Quantity: 1, UnitPrice: 25.0},
	}

	records = Transform(records)

	assert.Equal(t, 20.0, records[0].TotalSales)
	assert.Equal(t, 25.0, records[1].TotalSales)
}

func TestTransformEmptyInput(t *testing.T) {
	assert.Empty(t, Transform(nil))
}

func TestExtractScansOneRecordPerLine(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	orderDate := time.Date(2023, time.November, 15, 0, 0, 0, 0, time.UTC)
	birthdate := time.Date(1990, time.May, 1, 0, 0, 0, 0, time.UTC)

	columns := []string{
		"order_id", "customer_id", "order_date", "amount",
		"product_id", "quantity", "unit_price",
		"first_name", "last_name", "birthdate", "email", "phone",
		"product_name", "category_id", "supplier_id",
	}
	mock.ExpectQuery(regexp.QuoteMeta(extractQuery)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(100), int64(7), orderDate, 45.0,
				int64(1), 2, 10.0,
				"John", "Doe", birthdate, "john@example.com", "555-1",
				"Wireless Mouse", int64(3), int64(4)).
			AddRow(int64(100), int64(7), orderDate, 45.0,
				int64(2), 1, 25.0,
				"John", "Doe", birthdate, "john@example.com", "555-1",
				"Laptop Stand", int64(3), int64(4)))

	extractor := NewExtractor(db, zap.NewNop())
	records, err := extractor.Extract()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, int64(100), records[0].OrderID)
	assert.Equal(t, int64(1), records[0].ProductID)
	assert.Equal(t, 2, records[0].Quantity)
	assert.Equal(t, 10.0, records[0].UnitPrice)
	assert.Equal(t, "Wireless Mouse", records[0].ProductName)
	assert.Equal(t, int64(2), records[1].ProductID)
	assert.True(t, records[0].Birthdate.Valid)
	assert.Equal(t, birthdate, records[0].Birthdate.Time)
	// The derived measure is filled in by Transform, not Extract.
	assert.Zero(t, records[0].TotalSales)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExtractAllowsMissingBirthdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	orderDate := time.Date(2023, time.November, 15, 0, 0, 0, 0, time.UTC)

	columns := []string{
		"order_id", "customer_id", "order_date", "amount",
		"product_id", "quantity", "unit_price",
		"first_name", "last_name", "birthdate", "email", "phone",
		"product_name", "category_id", "supplier_id",
	}
	mock.ExpectQuery(regexp.QuoteMeta(extractQuery)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(100), int64(7), orderDate, 45.0,
				int64(1), 2, 10.0,
				"John", "Doe", nil, "john@example.com", "555-1",
				"Wireless Mouse", int64(3), int64(4)))

	extractor := NewExtractor(db, zap.NewNop())
	records, err := extractor.Extract()
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.False(t, records[0].Birthdate.Valid)
	assert.Equal(t, int64(100), records[0].OrderID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
