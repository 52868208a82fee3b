package nvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the image as a blob row in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// OpenSQLite opens (creating if needed) a SQLite database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS images (
		slot INTEGER PRIMARY KEY,
		data BLOB NOT NULL,
		saved_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (st *SQLiteStore) Close() error {
	if st.db != nil {
		return st.db.Close()
	}
	return nil
}

func (st *SQLiteStore) Save(ctx context.Context, image []byte) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, err := st.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO images (slot, data, saved_at) VALUES (0, ?, CURRENT_TIMESTAMP)",
		image,
	); err != nil {
		return fmt.Errorf("saving image: %w", err)
	}
	return nil
}

func (st *SQLiteStore) Load(ctx context.Context) ([]byte, error) {
	var image []byte
	err := st.db.QueryRowContext(ctx, "SELECT data FROM images WHERE slot = 0").Scan(&image)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEmpty
	} else if err != nil {
		return nil, fmt.Errorf("loading image: %w", err)
	}
	return image, nil
}
