package storage

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"trackify/internal/model"
)

const cartSchema = `
CREATE TABLE IF NOT EXISTS cart_entries (
	position    INTEGER NOT NULL,
	id          INTEGER NOT NULL UNIQUE,
	title       TEXT    NOT NULL,
	image       TEXT    NOT NULL DEFAULT '',
	price       REAL    NOT NULL DEFAULT 0,
	quantity    INTEGER NOT NULL DEFAULT 1,
	tracking_id TEXT    NOT NULL DEFAULT '',
	progress    INTEGER NOT NULL DEFAULT 0
);`

type cartRow struct {
	Position   int     `db:"position"`
	ID         int64   `db:"id"`
	Title      string  `db:"title"`
	Image      string  `db:"image"`
	Price      float64 `db:"price"`
	Quantity   int     `db:"quantity"`
	TrackingID string  `db:"tracking_id"`
	Progress   int     `db:"progress"`
}

// SQLitePort persists the cart in a local SQLite database. Save replaces
// the whole collection in one transaction so a failure never leaves a
// partial write behind.
type SQLitePort struct {
	db *sqlx.DB
}

func NewSQLitePort(path string) (*SQLitePort, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if _, err := db.Exec(cartSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure cart schema: %w", err)
	}
	return &SQLitePort{db: db}, nil
}

func (p *SQLitePort) Close() error { return p.db.Close() }

func (p *SQLitePort) Load() ([]model.CartEntry, error) {
	var rows []cartRow
	if err := p.db.Select(&rows, `SELECT position, id, title, image, price, quantity, tracking_id, progress FROM cart_entries ORDER BY position`); err != nil {
		return nil, fmt.Errorf("select cart_entries: %w", err)
	}
	entries := make([]model.CartEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, model.CartEntry{
			ID:         r.ID,
			Title:      r.Title,
			Image:      r.Image,
			Price:      r.Price,
			Quantity:   r.Quantity,
			TrackingID: r.TrackingID,
			Progress:   r.Progress,
		})
	}
	return entries, nil
}

func (p *SQLitePort) Save(entries []model.CartEntry) error {
	tx, err := p.db.Beginx()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM cart_entries`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear cart_entries: %w", err)
	}
	for i, e := range entries {
		_, err := tx.Exec(
			`INSERT INTO cart_entries (position, id, title, image, price, quantity, tracking_id, progress) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			i, e.ID, e.Title, e.Image, e.Price, e.Quantity, e.TrackingID, e.Progress,
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert cart entry %d: %w", e.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}
