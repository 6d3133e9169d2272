package hook

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rxkernel/rx/internal/event"
)

// DebugJSONLHook appends a JSONL line per event to a debug log path,
// independent of the primary state store's own JSONL mirror. The
// writer is mutually excluded so interleaved events still produce
// well-formed lines.
type DebugJSONLHook struct {
	mu   sync.Mutex
	file *os.File
}

// NewDebugJSONLHook creates parent directories for path if missing and
// opens it in append mode.
func NewDebugJSONLHook(path string) (*DebugJSONLHook, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("hook: create debug log dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("hook: open debug log: %w", err)
	}
	return &DebugJSONLHook{file: f}, nil
}

// OnEvent serializes ev and appends one line to the debug log.
func (h *DebugJSONLHook) OnEvent(ctx context.Context, ev event.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	line, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("hook: marshal event: %w", err)
	}
	line = append(line, '\n')
	if _, err := h.file.Write(line); err != nil {
		return fmt.Errorf("hook: write debug log: %w", err)
	}
	return h.file.Sync()
}

// Close releases the underlying file handle.
func (h *DebugJSONLHook) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.file.Close()
}
