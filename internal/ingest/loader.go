package ingest

import (
	"fmt"
	"strconv"

	"github.com/mpetrov/retaildwh/internal/database"
	"go.uber.org/zap"
)

// Loader loads the CSV feeds into the source schema, filling foreign keys
// through the resolver before each insert. Ingest is append-only and runs
// once per dataset: a rerun against a populated store fails on primary
// key constraints.
type Loader struct {
	conn     database.Conn
	resolver *Resolver
	logger   *zap.Logger
}

func NewLoader(conn database.Conn, resolver *Resolver, logger *zap.Logger) *Loader {
	return &Loader{conn: conn, resolver: resolver, logger: logger}
}

// LoadCustomers resolves the customer feed's reference data in dependency
// order (country, city, address), then inserts one customer row per input
// row with its resolved address_id.
func (l *Loader) LoadCustomers(rows []Row) error {
	for _, row := range rows {
		if _, err := l.resolver.ResolveCountry(row["country"]); err != nil {
			return err
		}
	}
	for _, row := range rows {
		if _, err := l.resolver.ResolveCity(row["city"], row["country"]); err != nil {
			return err
		}
	}
	for _, row := range rows {
		if _, err := l.resolver.ResolveAddress(row["address"], row["city"], row["country"], row["postal"]); err != nil {
			return err
		}
	}

	stmt := customerMapping.insertStatement()
	for _, row := range rows {
		addressID, err := l.resolver.AddressID(row["address"], row["city"], row["country"])
		if err != nil {
			return err
		}

		args := customerMapping.values(customerMapping.rename(row), map[string]int64{
			"address_id": addressID,
		})
		if _, err := l.conn.Exec(stmt, args...); err != nil {
			return fmt.Errorf("failed to insert customer %s: %w", row["id"], err)
		}
	}

	l.logger.Info("loaded customers",
		zap.Int("rows", len(rows)),
		zap.Int("countries", len(l.resolver.countryIDs)),
		zap.Int("cities", len(l.resolver.cityIDs)),
		zap.Int("addresses", len(l.resolver.addressIDs)))
	return nil
}

// LoadProducts resolves suppliers and categories from the product feed,
// then inserts one product row per input row.
func (l *Loader) LoadProducts(rows []Row) error {
	for _, row := range rows {
		if _, err := l.resolver.ResolveSupplier(row["supplier"]); err != nil {
			return err
		}
	}
	for _, row := range rows {
		categoryID, err := strconv.ParseInt(row["category"], 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse category id %q: %w", row["category"], err)
		}
		if _, err := l.resolver.ResolveCategory(categoryID, row["category_name"], row["category_description"]); err != nil {
			return err
		}
	}

	stmt := productMapping.insertStatement()
	for _, row := range rows {
		supplierID, err := l.resolver.SupplierID(row["supplier"])
		if err != nil {
			return err
		}
		categoryID, err := strconv.ParseInt(row["category"], 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse category id %q: %w", row["category"], err)
		}
		if categoryID, err = l.resolver.CategoryID(categoryID); err != nil {
			return err
		}

		args := productMapping.values(productMapping.rename(row), map[string]int64{
			"supplier_id": supplierID,
			"category_id": categoryID,
		})
		if _, err := l.conn.Exec(stmt, args...); err != nil {
			return fmt.Errorf("failed to insert product %s: %w", row["productId"], err)
		}
	}

	l.logger.Info("loaded products",
		zap.Int("rows", len(rows)),
		zap.Int("suppliers", len(l.resolver.supplierIDs)),
		zap.Int("categories", len(l.resolver.categoryIDs)))
	return nil
}

// LoadOrders splits the order feed into order headers and order lines.
// Headers repeat once per line in the feed and are deduplicated by order
// id; lines load after their headers.
func (l *Loader) LoadOrders(rows []Row) error {
	headerStmt := orderMapping.insertStatement()
	seen := make(map[string]bool)
	headers := 0
	for _, row := range rows {
		id := row["OrderID"]
		if seen[id] {
			continue
		}
		seen[id] = true

		args := orderMapping.values(orderMapping.rename(row), nil)
		if _, err := l.conn.Exec(headerStmt, args...); err != nil {
			return fmt.Errorf("failed to insert order %s: %w", id, err)
		}
		headers++
	}

	lineStmt := orderLineMapping.insertStatement()
	for _, row := range rows {
		args := orderLineMapping.values(orderLineMapping.rename(row), nil)
		if _, err := l.conn.Exec(lineStmt, args...); err != nil {
			return fmt.Errorf("failed to insert order line %s/%s: %w", row["OrderID"], row["ProductID"], err)
		}
	}

	l.logger.Info("loaded orders", zap.Int("orders", headers), zap.Int("lines", len(rows)))
	return nil
}
