package ingest

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/mpetrov/retaildwh/internal/database"
	"go.uber.org/zap"
)

// CityKey identifies a city by its full compound natural key. City names
// repeat across countries, so the name alone is ambiguous.
type CityKey struct {
	City    string
	Country string
}

// AddressKey identifies a street address within a city.
type AddressKey struct {
	Street  string
	City    string
	Country string
}

// Resolver maps natural keys to surrogate ids: it inserts a key on first
// sight and falls back to a lookup when the key already exists. Every
// distinct key resolves to exactly one id for the lifetime of the run.
// The maps are owned here and shared with the loader by reference.
//
// Dependencies resolve bottom-up: a city resolves its country first, an
// address its city.
type Resolver struct {
	conn   database.Conn
	logger *zap.Logger

	countryIDs  map[string]int64
	cityIDs     map[CityKey]int64
	addressIDs  map[AddressKey]int64
	supplierIDs map[string]int64
	categoryIDs map[int64]int64
}

func NewResolver(conn database.Conn, logger *zap.Logger) *Resolver {
	return &Resolver{
		conn:        conn,
		logger:      logger,
		countryIDs:  make(map[string]int64),
		cityIDs:     make(map[CityKey]int64),
		addressIDs:  make(map[AddressKey]int64),
		supplierIDs: make(map[string]int64),
		categoryIDs: make(map[int64]int64),
	}
}

// ResolveCountry returns the surrogate id for a country name.
func (r *Resolver) ResolveCountry(name string) (int64, error) {
	if id, ok := r.countryIDs[name]; ok {
		return id, nil
	}

	id, err := r.insertOrLookup("country", name,
		"INSERT IGNORE INTO country (name) VALUES (?)", []any{name},
		"SELECT id FROM country WHERE name = ?", []any{name})
	if err != nil {
		return 0, err
	}

	r.countryIDs[name] = id
	return id, nil
}

// ResolveCity returns the surrogate id for a (city, country) pair.
func (r *Resolver) ResolveCity(city, country string) (int64, error) {
	key := CityKey{City: city, Country: country}
	if id, ok := r.cityIDs[key]; ok {
		return id, nil
	}

	countryID, err := r.ResolveCountry(country)
	if err != nil {
		return 0, err
	}

	id, err := r.insertOrLookup("city", city+", "+country,
		"INSERT IGNORE INTO city (name, country_id) VALUES (?, ?)", []any{city, countryID},
		"SELECT id FROM city WHERE name = ? AND country_id = ?", []any{city, countryID})
	if err != nil {
		return 0, err
	}

	r.cityIDs[key] = id
	return id, nil
}

// ResolveAddress returns the surrogate id for a street address within a
// (city, country) pair.
func (r *Resolver) ResolveAddress(street, city, country, postalCode string) (int64, error) {
	key := AddressKey{Street: street, City: city, Country: country}
	if id, ok := r.addressIDs[key]; ok {
		return id, nil
	}

	cityID, err := r.ResolveCity(city, country)
	if err != nil {
		return 0, err
	}

	id, err := r.insertOrLookup("address", street+", "+city,
		"INSERT IGNORE INTO address (street, city_id, postal_code) VALUES (?, ?, ?)", []any{street, cityID, postalCode},
		"SELECT id FROM address WHERE street = ? AND city_id = ?", []any{street, cityID})
	if err != nil {
		return 0, err
	}

	r.addressIDs[key] = id
	return id, nil
}

// ResolveSupplier returns the surrogate id for a supplier name.
func (r *Resolver) ResolveSupplier(name string) (int64, error) {
	if id, ok := r.supplierIDs[name]; ok {
		return id, nil
	}

	id, err := r.insertOrLookup("supplier", name,
		"INSERT IGNORE INTO supplier (name) VALUES (?)", []any{name},
		"SELECT id FROM supplier WHERE name = ?", []any{name})
	if err != nil {
		return 0, err
	}

	r.supplierIDs[name] = id
	return id, nil
}

// ResolveCategory registers a category under its feed-assigned id.
func (r *Resolver) ResolveCategory(categoryID int64, name, description string) (int64, error) {
	if id, ok := r.categoryIDs[categoryID]; ok {
		return id, nil
	}

	id, err := r.insertOrLookup("category", strconv.FormatInt(categoryID, 10),
		"INSERT IGNORE INTO category (id, name, description) VALUES (?, ?, ?)", []any{categoryID, name, description},
		"SELECT id FROM category WHERE id = ?", []any{categoryID})
	if err != nil {
		return 0, err
	}

	r.categoryIDs[categoryID] = id
	return id, nil
}

// CountryID reads the resolved map without touching the store.
func (r *Resolver) CountryID(name string) (int64, error) {
	id, ok := r.countryIDs[name]
	if !ok {
		return 0, &MappingError{Entity: "country", Key: name}
	}
	return id, nil
}

// CityID reads the resolved map without touching the store.
func (r *Resolver) CityID(city, country string) (int64, error) {
	id, ok := r.cityIDs[CityKey{City: city, Country: country}]
	if !ok {
		return 0, &MappingError{Entity: "city", Key: city + ", " + country}
	}
	return id, nil
}

// AddressID reads the resolved map without touching the store.
func (r *Resolver) AddressID(street, city, country string) (int64, error) {
	id, ok := r.addressIDs[AddressKey{Street: street, City: city, Country: country}]
	if !ok {
		return 0, &MappingError{Entity: "address", Key: street + ", " + city}
	}
	return id, nil
}

// SupplierID reads the resolved map without touching the store.
func (r *Resolver) SupplierID(name string) (int64, error) {
	id, ok := r.supplierIDs[name]
	if !ok {
		return 0, &MappingError{Entity: "supplier", Key: name}
	}
	return id, nil
}

// CategoryID reads the resolved map without touching the store.
func (r *Resolver) CategoryID(categoryID int64) (int64, error) {
	id, ok := r.categoryIDs[categoryID]
	if !ok {
		return 0, &MappingError{Entity: "category", Key: strconv.FormatInt(categoryID, 10)}
	}
	return id, nil
}

// insertOrLookup attempts the insert; when the key already exists the
// insert is a no-op and the id comes from the lookup by natural key.
func (r *Resolver) insertOrLookup(entity, key, insertSQL string, insertArgs []any, lookupSQL string, lookupArgs []any) (int64, error) {
	res, err := r.conn.Exec(insertSQL, insertArgs...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert %s %q: %w", entity, key, err)
	}

	if n, err := res.RowsAffected(); err == nil && n > 0 {
		// Tables with feed-assigned primary keys report no generated id;
		// those fall through to the lookup.
		if id, err := res.LastInsertId(); err == nil && id != 0 {
			r.logger.Debug("resolved key",
				zap.String("entity", entity), zap.String("key", key), zap.Int64("id", id))
			return id, nil
		}
	}

	var id int64
	if err := r.conn.QueryRow(lookupSQL, lookupArgs...).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, &ResolutionError{Entity: entity, Key: key}
		}
		return 0, fmt.Errorf("failed to look up %s %q: %w", entity, key, err)
	}

	r.logger.Debug("resolved key",
		zap.String("entity", entity), zap.String("key", key), zap.Int64("id", id))
	return id, nil
}
