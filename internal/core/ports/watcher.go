package ports

import (
	"context"
	"iter"
)

// WatchOp represents the kind of file change.
type WatchOp uint8

const (
	// OpAdded indicates a file was created.
	OpAdded WatchOp = iota + 1
	// OpModified indicates a file was written.
	OpModified
	// OpRemoved indicates a file was removed or renamed away.
	OpRemoved
)

// String returns the lower-case name of the operation.
func (op WatchOp) String() string {
	switch op {
	case OpAdded:
		return "added"
	case OpModified:
		return "modified"
	case OpRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// WatchEvent represents a settled file change.
type WatchEvent struct {
	// Path is the absolute path of the file that changed.
	Path string
	// Op is the kind of change.
	Op WatchOp
}

// ChangeHandler handles one settled change. Handlers never run concurrently.
type ChangeHandler func(ctx context.Context, event WatchEvent) error

// Watcher produces settled, ignore-filtered file changes.
type Watcher interface {
	// Start registers the watch root and returns once watching is live.
	Start(ctx context.Context) error
	// Events yields settled changes in settlement order to a single consumer.
	Events() iter.Seq[WatchEvent]
	// Watch starts the watcher and runs onChange for every settled change, one at a time.
	Watch(ctx context.Context, onChange ChangeHandler) error
	// Close stops watching. It is safe to call more than once.
	Close() error
}
