// Package sqlitestore persists the dataset tables in a single SQLite file,
// for runs that outgrow loose CSVs but still want flat-file storage.
package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/shelfaware/backend/internal/domain"
)

const dateLayout = "2006-01-02"

const schema = `
CREATE TABLE IF NOT EXISTS stores (
	store_id TEXT PRIMARY KEY,
	name     TEXT NOT NULL,
	category TEXT NOT NULL,
	lat      REAL NOT NULL,
	lon      REAL NOT NULL,
	distance REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS items (
	item_id       TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	category      TEXT NOT NULL,
	target_margin REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS observations (
	date     TEXT NOT NULL,
	store_id TEXT NOT NULL,
	item_id  TEXT NOT NULL,
	price    REAL NOT NULL CHECK (price >= 0)
);
CREATE INDEX IF NOT EXISTS idx_observations_date ON observations(date);
`

// Repository stores the dataset tables in one SQLite database file.
type Repository struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite dataset store at path.
func Open(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}
	return &Repository{db: db}, nil
}

// Close closes the underlying database.
func (r *Repository) Close() error {
	return r.db.Close()
}

// LoadSnapshot reads all three tables into a fresh immutable snapshot.
func (r *Repository) LoadSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	stores, err := r.loadStores(ctx)
	if err != nil {
		return nil, err
	}
	items, err := r.loadItems(ctx)
	if err != nil {
		return nil, err
	}
	obs, err := r.loadObservations(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.Snapshot{
		Observations: obs,
		Stores:       stores,
		Items:        items,
		LoadedAt:     time.Now(),
	}, nil
}

func (r *Repository) loadStores(ctx context.Context) ([]domain.Store, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT store_id, name, category, lat, lon, distance FROM stores ORDER BY CAST(store_id AS INTEGER), store_id`)
	if err != nil {
		return nil, fmt.Errorf("query stores: %w", err)
	}
	defer rows.Close()

	var stores []domain.Store
	for rows.Next() {
		var s domain.Store
		if err := rows.Scan(&s.ID, &s.Name, &s.Category, &s.Lat, &s.Lon, &s.Distance); err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		stores = append(stores, s)
	}
	return stores, rows.Err()
}

func (r *Repository) loadItems(ctx context.Context) ([]domain.Item, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT item_id, name, category, target_margin FROM items ORDER BY CAST(item_id AS INTEGER), item_id`)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var it domain.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Category, &it.TargetMargin); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *Repository) loadObservations(ctx context.Context) ([]domain.PriceObservation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT date, store_id, item_id, price FROM observations ORDER BY date, store_id, item_id`)
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}
	defer rows.Close()

	var obs []domain.PriceObservation
	for rows.Next() {
		var o domain.PriceObservation
		var date string
		if err := rows.Scan(&date, &o.StoreID, &o.ItemID, &o.Price); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		o.Date, err = time.Parse(dateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("parse observation date %q: %w", date, err)
		}
		obs = append(obs, o)
	}
	return obs, rows.Err()
}

// SaveStores replaces the store directory.
func (r *Repository) SaveStores(ctx context.Context, stores []domain.Store) error {
	return r.replaceAll(ctx, "stores", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO stores (store_id, name, category, lat, lon, distance) VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, s := range stores {
			if _, err := stmt.ExecContext(ctx, s.ID, s.Name, s.Category, s.Lat, s.Lon, s.Distance); err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveItems replaces the item catalog.
func (r *Repository) SaveItems(ctx context.Context, items []domain.Item) error {
	return r.replaceAll(ctx, "items", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO items (item_id, name, category, target_margin) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, it := range items {
			if _, err := stmt.ExecContext(ctx, it.ID, it.Name, it.Category, it.TargetMargin); err != nil {
				return err
			}
		}
		return nil
	})
}

// AppendObservations inserts price rows. Observations are append-only.
func (r *Repository) AppendObservations(ctx context.Context, obs []domain.PriceObservation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO observations (date, store_id, item_id, price) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, o := range obs {
		if _, err := stmt.ExecContext(ctx, o.Date.Format(dateLayout), o.StoreID, o.ItemID, o.Price); err != nil {
			return fmt.Errorf("insert observation: %w", err)
		}
	}
	return tx.Commit()
}

func (r *Repository) replaceAll(ctx context.Context, table string, insert func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace %s: %w", table, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	if err := insert(tx); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return tx.Commit()
}
