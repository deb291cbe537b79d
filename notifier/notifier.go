package notifier

import "context"

// Notifier is a background loop started alongside the polling engine.
type Notifier interface {
	Start(ctx context.Context) error
}
