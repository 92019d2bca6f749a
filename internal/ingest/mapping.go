package ingest

import (
	"fmt"
	"strings"
)

// entityMapping is the static configuration tying one CSV feed to a source
// table: the renames applied to incoming header names and the schema
// columns inserted, in order. Table and column names in generated SQL come
// only from these mappings, never from input data.
type entityMapping struct {
	Table   string
	Renames map[string]string
	Columns []string
}

var customerMapping = entityMapping{
	Table: "customer",
	Renames: map[string]string{
		"firstname":  "first_name",
		"lastname":   "last_name",
		"createdate": "create_date",
	},
	Columns: []string{
		"id", "first_name", "last_name", "birthdate",
		"email", "phone", "create_date", "address_id",
	},
}

var productMapping = entityMapping{
	Table: "product",
	Renames: map[string]string{
		"productId": "id",
		"product":   "name",
	},
	Columns: []string{
		"id", "name", "description", "price",
		"quantity", "category_id", "supplier_id",
	},
}

var orderMapping = entityMapping{
	Table: "orders",
	Renames: map[string]string{
		"OrderID":     "id",
		"CustomerID":  "customer_id",
		"OrderDate":   "date",
		"TotalAmount": "amount",
	},
	Columns: []string{"id", "customer_id", "date", "amount"},
}

// The order feed carries the line's price in TotalAmount; the source
// system treats it as the unit price of the line.
var orderLineMapping = entityMapping{
	Table: "order_line",
	Renames: map[string]string{
		"OrderID":     "order_id",
		"ProductID":   "product_id",
		"Quantity":    "quantity",
		"TotalAmount": "unit_price",
	},
	Columns: []string{"order_id", "product_id", "quantity", "unit_price"},
}

// rename returns a copy of row with feed column names replaced by their
// schema names.
func (m entityMapping) rename(row Row) Row {
	out := make(Row, len(row))
	for name, value := range row {
		if mapped, ok := m.Renames[name]; ok {
			name = mapped
		}
		out[name] = value
	}
	return out
}

// insertStatement builds the parameterized INSERT for the mapping's table
// and column list.
func (m entityMapping) insertStatement() string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(m.Columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		m.Table, strings.Join(m.Columns, ", "), placeholders)
}

// values pulls the column values out of a renamed row in insert order.
// resolved holds surrogate ids that override or are absent from the row.
func (m entityMapping) values(row Row, resolved map[string]int64) []any {
	args := make([]any, 0, len(m.Columns))
	for _, col := range m.Columns {
		if id, ok := resolved[col]; ok {
			args = append(args, id)
			continue
		}
		args = append(args, row[col])
	}
	return args
}
