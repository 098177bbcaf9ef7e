package watcher

import "go.trai.ch/kiln/internal/core/ports"

// Ingest feeds a raw change into the path debounce without fsnotify.
func (w *Watcher) Ingest(op ports.WatchOp, path string) {
	w.ingest(op, path)
}
