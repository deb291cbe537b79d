package storage

import (
	"context"
	"errors"
)

// Storage persists the polling cursor between runs.
type Storage interface {
	Init(ctx context.Context) error
	// Cursor returns the highest update id saved so far, or ErrNoCursor.
	Cursor(ctx context.Context) (int, error)
	// SaveCursor stores updateId unless a higher one is already saved.
	SaveCursor(ctx context.Context, updateId int) error
	Close() error
}

var ErrNoCursor = errors.New("no cursor")
