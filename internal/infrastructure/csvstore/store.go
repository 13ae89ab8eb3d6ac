// Package csvstore persists the dataset tables as flat CSV files, the wire
// format shared with the upstream collectors.
package csvstore

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shelfaware/backend/internal/domain"
)

const dateLayout = "2006-01-02"

// Table file names inside the data directory.
const (
	storesFile = "stores.csv"
	itemsFile  = "items.csv"
	pricesFile = "prices.csv"
)

var (
	storeColumns = []string{"store_id", "name", "category", "lat", "lon", "distance"}
	itemColumns  = []string{"item_id", "name", "category", "target_margin"}
	priceColumns = []string{"date", "store_id", "item_id", "price"}
)

// Repository reads and writes the three dataset tables under one directory.
type Repository struct {
	dir string
}

// NewRepository creates a CSV dataset repository rooted at dir
func NewRepository(dir string) *Repository {
	return &Repository{dir: dir}
}

// LoadSnapshot reads all three tables into a fresh immutable snapshot.
// A table missing a required column aborts the load with a SchemaError.
func (r *Repository) LoadSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	stores, err := r.loadStores()
	if err != nil {
		return nil, err
	}
	items, err := r.loadItems()
	if err != nil {
		return nil, err
	}
	obs, err := r.loadObservations()
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

func (r *Repository) loadStores() ([]domain.Store, error) {
	rows, idx, err := readTable(filepath.Join(r.dir, storesFile), storesFile, storeColumns)
	if err != nil {
		return nil, err
	}
	stores := make([]domain.Store, 0, len(rows))
	for i, row := range rows {
		lat, err := parseFloat(row[idx["lat"]])
		if err != nil {
			return nil, rowError(storesFile, i, "lat", err)
		}
		lon, err := parseFloat(row[idx["lon"]])
		if err != nil {
			return nil, rowError(storesFile, i, "lon", err)
		}
		dist, err := parseFloat(row[idx["distance"]])
		if err != nil {
			return nil, rowError(storesFile, i, "distance", err)
		}
		stores = append(stores, domain.Store{
			ID:       row[idx["store_id"]],
			Name:     row[idx["name"]],
			Category: row[idx["category"]],
			Lat:      lat,
			Lon:      lon,
			Distance: dist,
		})
	}
	return stores, nil
}

func (r *Repository) loadItems() ([]domain.Item, error) {
	rows, idx, err := readTable(filepath.Join(r.dir, itemsFile), itemsFile, itemColumns)
	if err != nil {
		return nil, err
	}
	items := make([]domain.Item, 0, len(rows))
	for i, row := range rows {
		margin := domain.DefaultTargetMargin
		if raw := row[idx["target_margin"]]; raw != "" {
			margin, err = parseFloat(raw)
			if err != nil {
				return nil, rowError(itemsFile, i, "target_margin", err)
			}
		}
		items = append(items, domain.Item{
			ID:           row[idx["item_id"]],
			Name:         row[idx["name"]],
			Category:     row[idx["category"]],
			TargetMargin: margin,
		})
	}
	return items, nil
}

func (r *Repository) loadObservations() ([]domain.PriceObservation, error) {
	rows, idx, err := readTable(filepath.Join(r.dir, pricesFile), pricesFile, priceColumns)
	if err != nil {
		return nil, err
	}
	obs := make([]domain.PriceObservation, 0, len(rows))
	for i, row := range rows {
		date, err := time.Parse(dateLayout, row[idx["date"]])
		if err != nil {
			return nil, rowError(pricesFile, i, "date", err)
		}
		price, err := parseFloat(row[idx["price"]])
		if err != nil {
			return nil, rowError(pricesFile, i, "price", err)
		}
		if price < 0 {
			return nil, rowError(pricesFile, i, "price", fmt.Errorf("negative price %v", price))
		}
		obs = append(obs, domain.PriceObservation{
			Date:    date,
			StoreID: row[idx["store_id"]],
			ItemID:  row[idx["item_id"]],
			Price:   price,
		})
	}
	return obs, nil
}

// SaveStores writes the store directory, replacing any previous file.
func (r *Repository) SaveStores(ctx context.Context, stores []domain.Store) error {
	records := make([][]string, 0, len(stores))
	for _, s := range stores {
		records = append(records, []string{
			s.ID, s.Name, s.Category,
			formatFloat(s.Lat), formatFloat(s.Lon), formatFloat(s.Distance),
		})
	}
	return writeTable(filepath.Join(r.dir, storesFile), storeColumns, records)
}

// SaveItems writes the item catalog, replacing any previous file.
func (r *Repository) SaveItems(ctx context.Context, items []domain.Item) error {
	records := make([][]string, 0, len(items))
	for _, it := range items {
		records = append(records, []string{
			it.ID, it.Name, it.Category, formatFloat(it.TargetMargin),
		})
	}
	return writeTable(filepath.Join(r.dir, itemsFile), itemColumns, records)
}

// AppendObservations appends price rows to the observation table, creating
// the file with a header when it does not exist yet. Observations are
// append-only; existing rows are never rewritten.
func (r *Repository) AppendObservations(ctx context.Context, obs []domain.PriceObservation) error {
	path := filepath.Join(r.dir, pricesFile)
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	_, statErr := os.Stat(path)
	newFile := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", pricesFile, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if newFile {
		if err := w.Write(priceColumns); err != nil {
			return err
		}
	}
	for _, o := range obs {
		record := []string{
			o.Date.Format(dateLayout), o.StoreID, o.ItemID, formatFloat(o.Price),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// readTable reads a CSV file and validates its header against the required
// column set, returning the data rows and a column index.
func readTable(path, table string, required []string) ([][]string, map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open table %q: %w", table, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read table %q: %w", table, err)
	}
	if len(records) == 0 {
		return nil, nil, domain.NewSchemaError(table, required...)
	}

	idx := make(map[string]int, len(records[0]))
	for i, col := range records[0] {
		idx[col] = i
	}
	var missing []string
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, nil, domain.NewSchemaError(table, missing...)
	}

	// Short rows would index out of range below the header width.
	for i, row := range records[1:] {
		if len(row) < len(records[0]) {
			return nil, nil, fmt.Errorf("table %q row %d: expected %d fields, got %d",
				table, i+1, len(records[0]), len(row))
		}
	}
	return records[1:], idx, nil
}

func writeTable(path string, header []string, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(records); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func rowError(table string, row int, column string, err error) error {
	return fmt.Errorf("table %q row %d column %q: %w", table, row+1, column, err)
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
