package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/giygas/pharmacist-api/interfaces"
	"github.com/giygas/pharmacist-api/prescriptionparser/entities"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Compile-time checks for the PostgreSQL backend
var (
	_ interfaces.InventoryStore  = (*PostgresStore)(nil)
	_ interfaces.InventoryLoader = (*PostgresStore)(nil)
)

// MigrationMedications creates the inventory table. Safe to run repeatedly.
const MigrationMedications = `
CREATE TABLE IF NOT EXISTS medications (
    name            TEXT PRIMARY KEY,
    price           NUMERIC(10, 2) NOT NULL DEFAULT 0,
    no_of_available INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_medications_name_key ON medications (lower(btrim(name)));
`

const (
	lookupQuery = `SELECT name, price::text, no_of_available FROM medications
WHERE lower(btrim(name)) = lower($1)
ORDER BY name
LIMIT 1`

	listQuery = `SELECT name, price::text, no_of_available FROM medications ORDER BY name`
)

// pgConn is the part of *pgxpool.Pool the store uses; tests provide a fake.
type pgConn interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

// PostgresStore serves the inventory straight from the medications table.
type PostgresStore struct {
	db pgConn
}

// NewPostgresStore creates a store over an open connection pool
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: pool}
}

// NewPool opens a pgx pool and checks the connection before returning it
func NewPool(ctx context.Context, databaseURL string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// EnsureSchema creates the medications table when it is missing
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, MigrationMedications); err != nil {
		return fmt.Errorf("create medications table: %w", err)
	}
	return nil
}

// LookupByName finds a medication by name, ignoring case and surrounding
// spaces on both sides. Postgres lower() maps letters one at a time, so pairs
// that full case folding treats as equal, like "ß" and "SS", do not match here
// while they do in the in-memory snapshot.
func (s *PostgresStore) LookupByName(ctx context.Context, name string) (entities.InventoryRecord, bool, error) {
	record, err := scanRecord(s.db.QueryRow(ctx, lookupQuery, strings.TrimSpace(name)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entities.InventoryRecord{}, false, nil
		}
		return entities.InventoryRecord{}, false, fmt.Errorf("lookup medication: %w", err)
	}
	return record, true, nil
}

// ListRecords returns every medication ordered by name
func (s *PostgresStore) ListRecords(ctx context.Context) ([]entities.InventoryRecord, error) {
	rows, err := s.db.Query(ctx, listQuery)
	if err != nil {
		return nil, fmt.Errorf("list medications: %w", err)
	}
	defer rows.Close()

	records := make([]entities.InventoryRecord, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan medication: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list medications: %w", err)
	}
	return records, nil
}

// LoadInventory lets the table feed the in-memory snapshot like a file would
func (s *PostgresStore) LoadInventory(ctx context.Context) ([]entities.InventoryRecord, error) {
	return s.ListRecords(ctx)
}

// Ping checks the database connection
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func scanRecord(row pgx.Row) (entities.InventoryRecord, error) {
	var (
		name     string
		price    string
		quantity int
	)
	if err := row.Scan(&name, &price, &quantity); err != nil {
		return entities.InventoryRecord{}, err
	}

	unitPrice, err := decimal.NewFromString(price)
	if err != nil {
		return entities.InventoryRecord{}, fmt.Errorf("invalid price %q for %s: %w", price, name, err)
	}

	return entities.InventoryRecord{
		Name:              name,
		UnitPrice:         unitPrice.Round(2),
		QuantityAvailable: quantity,
	}, nil
}
