package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"tg_poller/storage"
)

func TestStorage_Postgres(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	s, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer s.Close()

	if err := s.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := s.pool.Exec(ctx, `DELETE FROM poll_cursor`); err != nil {
		t.Fatalf("reset: %v", err)
	}

	if _, err := s.Cursor(ctx); !errors.Is(err, storage.ErrNoCursor) {
		t.Fatalf("expected ErrNoCursor, got %v", err)
	}

	for _, id := range []int{10, 12, 11} {
		if err := s.SaveCursor(ctx, id); err != nil {
			t.Fatalf("save %d: %v", id, err)
		}
	}

	got, err := s.Cursor(ctx)
	if err != nil {
		t.Fatalf("cursor: %v", err)
	}
	if got != 12 {
		t.Fatalf("expected 12, got %d", got)
	}
}
