package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"tg_poller/lib/e"
	"tg_poller/storage"

	_ "github.com/mattn/go-sqlite3"
)

type Storage struct {
	db *sql.DB
}

var _ storage.Storage = (*Storage)(nil)

func New(path string) (*Storage, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, e.Wrap("can't open database", err)
	}

	if err := db.Ping(); err != nil {
		return nil, e.Wrap("can't connect to database", err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Init(ctx context.Context) error {
	q := `CREATE TABLE IF NOT EXISTS cursor (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			update_id INTEGER NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`

	_, err := s.db.ExecContext(ctx, q)
	if err != nil {
		return e.Wrap("can't create table", err)
	}

	return nil
}

func (s *Storage) Cursor(ctx context.Context) (int, error) {
	q := `SELECT update_id FROM cursor WHERE id = 1`

	var updateId int

	err := s.db.QueryRowContext(ctx, q).Scan(&updateId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, storage.ErrNoCursor
		}
		return 0, e.Wrap("can't get cursor", err)
	}

	return updateId, nil
}

func (s *Storage) SaveCursor(ctx context.Context, updateId int) error {
	q := `INSERT INTO cursor (id, update_id) VALUES (1, ?)
		  ON CONFLICT(id) DO UPDATE SET
		  	update_id = excluded.update_id,
		  	updated_at = CURRENT_TIMESTAMP
		  WHERE excluded.update_id > cursor.update_id`

	if _, err := s.db.ExecContext(ctx, q, updateId); err != nil {
		return e.Wrap("can't save cursor", err)
	}

	return nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}
