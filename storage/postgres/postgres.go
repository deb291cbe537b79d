package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tg_poller/lib/e"
	"tg_poller/storage"
)

// Storage keeps the cursor in a single-row Postgres table.
type Storage struct {
	pool *pgxpool.Pool
}

var _ storage.Storage = (*Storage)(nil)

func New(ctx context.Context, dbURL string) (*Storage, error) {
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, e.Wrap("can't open database", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, e.Wrap("can't connect to database", err)
	}

	return &Storage{pool: pool}, nil
}

func (s *Storage) Init(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS poll_cursor (
		id         SMALLINT PRIMARY KEY CHECK (id = 1),
		update_id  BIGINT NOT NULL,
		updated_at TIMESTAMPTZ DEFAULT NOW()
	)`)
	if err != nil {
		return e.Wrap("can't create table", err)
	}

	return nil
}

func (s *Storage) Cursor(ctx context.Context) (int, error) {
	var updateId int64

	err := s.pool.QueryRow(ctx, `SELECT update_id FROM poll_cursor WHERE id = 1`).Scan(&updateId)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, storage.ErrNoCursor
		}
		return 0, e.Wrap("can't get cursor", err)
	}

	return int(updateId), nil
}

func (s *Storage) SaveCursor(ctx context.Context, updateId int) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO poll_cursor (id, update_id) VALUES (1, $1)
		 ON CONFLICT (id) DO UPDATE SET update_id = EXCLUDED.update_id, updated_at = NOW()
		 WHERE poll_cursor.update_id < EXCLUDED.update_id`,
		int64(updateId),
	)
	if err != nil {
		return e.Wrap("can't save cursor", err)
	}

	return nil
}

func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}
