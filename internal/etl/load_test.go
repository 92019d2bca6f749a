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

func newTestLoader(t *testing.T) (*Loader, sqlmock.Sqlmock, sqlmock.Sqlmock) {
	t.Helper()

	sourceDB, sourceMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sourceDB.Close() })

	warehouseDB, warehouseMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { warehouseDB.Close() })

	return NewLoader(sourceDB, warehouseDB, zap.NewNop()), sourceMock, warehouseMock
}

func TestLoadFactsInsertsOneRowPerLine(t *testing.T) {
	loader, _, warehouse := newTestLoader(t)

	date := time.Date(2023, time.November, 15, 0, 0, 0, 0, time.UTC)
	records := Transform([]models.SalesRecord{
		{OrderID: 100, CustomerID: 7, OrderDate: date, ProductID: 1, Quantity: 2, UnitPrice: 10.0},
		{OrderID: 101, CustomerID: 7, OrderDate: date, ProductID: 2, Quantity: 1, UnitPrice: 25.0},
	})

	factSQL := regexp.QuoteMeta(insertFactSalesSQL)
	warehouse.ExpectExec(factSQL).
		WithArgs(int64(100), int64(1), int64(7), date, 2, 20.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	warehouse.ExpectExec(factSQL).
		WithArgs(int64(101), int64(2), int64(7), date, 1, 25.0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, loader.LoadFacts(records))
	assert.NoError(t, warehouse.ExpectationsWereMet())
}

func TestLoadFactsRerunSkipsExistingKeys(t *testing.T) {
	loader, _, warehouse := newTestLoader(t)

	date := time.Date(2023, time.November, 15, 0, 0, 0, 0, time.UTC)
	records := Transform([]models.SalesRecord{
		{OrderID: 100, CustomerID: 7, OrderDate: date, ProductID: 1, Quantity: 2, UnitPrice: 10.0},
	})

	// A key already present affects zero rows and is not an error.
	warehouse.ExpectExec(regexp.QuoteMeta(insertFactSalesSQL)).
		WithArgs(int64(100), int64(1), int64(7), date, 2, 20.0).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, loader.LoadFacts(records))
	assert.NoError(t, warehouse.ExpectationsWereMet())
}

func TestLoadPaymentsDerivesPaymentIDFromOrderID(t *testing.T) {
	loader, source, warehouse := newTestLoader(t)

	date := time.Date(2023, time.November, 15, 0, 0, 0, 0, time.UTC)
	source.ExpectQuery(regexp.QuoteMeta(orderQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_id", "date", "amount"}).
			AddRow(int64(100), int64(7), date, 45.0))

	warehouse.ExpectExec(regexp.QuoteMeta(insertFactPaymentSQL)).
		WithArgs(int64(100), int64(100), int64(7), date, 45.0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, loader.LoadPayments())
	assert.NoError(t, source.ExpectationsWereMet())
	assert.NoError(t, warehouse.ExpectationsWereMet())
}

func TestLoadDimensions(t *testing.T) {
	loader, source, warehouse := newTestLoader(t)

	orderDate := time.Date(2023, time.November, 15, 0, 0, 0, 0, time.UTC)

	source.ExpectQuery(regexp.QuoteMeta(dimCustomerQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "street"}).
			AddRow(int64(7), "John", "Doe", "john@example.com", "1 Main St"))
	warehouse.ExpectExec(regexp.QuoteMeta(insertDimCustomerSQL)).
		WithArgs(int64(7), "John", "Doe", "john@example.com", "1 Main St", models.SCDStartSentinel).
		WillReturnResult(sqlmock.NewResult(0, 1))

	source.ExpectQuery(regexp.QuoteMeta(dimProductQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "category_id", "price"}).
			AddRow(int64(1), "Wireless Mouse", int64(3), 29.99))
	warehouse.ExpectExec(regexp.QuoteMeta(insertDimProductSQL)).
		WithArgs(int64(1), "Wireless Mouse", int64(3), 29.99).
		WillReturnResult(sqlmock.NewResult(0, 1))

	source.ExpectQuery(regexp.QuoteMeta(dimTimeQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"date"}).AddRow(orderDate))
	warehouse.ExpectExec(regexp.QuoteMeta(insertDimTimeSQL)).
		WithArgs(orderDate, 11, 4, 2023).
		WillReturnResult(sqlmock.NewResult(0, 1))

	source.ExpectQuery(regexp.QuoteMeta(orderQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_id", "date", "amount"}).
			AddRow(int64(100), int64(7), orderDate, 45.0))
	warehouse.ExpectExec(regexp.QuoteMeta(insertDimOrderSQL)).
		WithArgs(int64(100), int64(7), orderDate, 45.0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, loader.LoadDimensions())
	assert.NoError(t, source.ExpectationsWereMet())
	assert.NoError(t, warehouse.ExpectationsWereMet())
}
