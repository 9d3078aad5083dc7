package pricing

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Store persists the model price table in a local SQLite database:
// one JSON-serialized ModelPrice per model. Read at startup, written
// on edit; absent on first run means an empty table.
type Store struct {
	db *sql.DB
}

func DefaultStateDir() (string, error) {
	if base := strings.TrimSpace(os.Getenv("XDG_STATE_HOME")); base != "" {
		return filepath.Join(base, "keyscope"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("pricing: resolve home dir: %w", err)
	}
	return filepath.Join(home, ".local", "state", "keyscope"), nil
}

func DefaultDBPath() (string, error) {
	stateDir, err := DefaultStateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(stateDir, "prices.db"), nil
}

func OpenStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("pricing: creating DB dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("pricing: opening DB: %w", err)
	}

	store := NewStore(db)
	if err := store.Init(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Init(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS model_prices (
			model TEXT PRIMARY KEY,
			price TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("pricing: init schema: %w", err)
	}
	return nil
}

// List loads the full price table. Malformed rows are skipped rather
// than failing the whole load.
func (s *Store) List(ctx context.Context) (Table, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT model, price FROM model_prices`)
	if err != nil {
		return nil, fmt.Errorf("pricing: list prices: %w", err)
	}
	defer rows.Close()

	table := make(Table)
	for rows.Next() {
		var model, raw string
		if err := rows.Scan(&model, &raw); err != nil {
			continue
		}
		var price ModelPrice
		if err := json.Unmarshal([]byte(raw), &price); err != nil {
			continue
		}
		table[model] = price
	}
	if err := rows.Err(); err != nil {
		return table, fmt.Errorf("pricing: scan prices: %w", err)
	}
	return table, nil
}

func (s *Store) Put(ctx context.Context, model string, price ModelPrice) error {
	model = strings.TrimSpace(model)
	if model == "" {
		return fmt.Errorf("pricing: empty model name")
	}
	raw, err := json.Marshal(price)
	if err != nil {
		return fmt.Errorf("pricing: marshal price: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO model_prices (model, price) VALUES (?, ?)
		ON CONFLICT(model) DO UPDATE SET price = excluded.price
	`, model, string(raw))
	if err != nil {
		return fmt.Errorf("pricing: put price for %s: %w", model, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, model string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM model_prices WHERE model = ?`, model); err != nil {
		return fmt.Errorf("pricing: delete price for %s: %w", model, err)
	}
	return nil
}
