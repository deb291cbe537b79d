package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"tg_poller/storage"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "cursor.db"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}

	return s
}

func TestCursor_Empty(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.Cursor(context.Background())
	if !errors.Is(err, storage.ErrNoCursor) {
		t.Fatalf("expected ErrNoCursor, got %v", err)
	}
}

func TestSaveCursor_NeverDecreases(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	for _, id := range []int{5, 9, 7} {
		if err := s.SaveCursor(ctx, id); err != nil {
			t.Fatalf("save %d: %v", id, err)
		}
	}

	got, err := s.Cursor(ctx)
	if err != nil {
		t.Fatalf("cursor: %v", err)
	}
	if got != 9 {
		t.Fatalf("expected 9, got %d", got)
	}
}

func TestInit_Idempotent(t *testing.T) {
	s := newTestStorage(t)

	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("second init: %v", err)
	}
}
