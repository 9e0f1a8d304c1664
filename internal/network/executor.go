package network

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/plexsphere/vlanctl/internal/command"
)

// truncationSuffix is appended to output that exceeded MaxOutputBytes.
const truncationSuffix = "\n...[truncated]"

// Executor runs a command inside a network namespace.
// An empty namespace means the namespace the process runs in.
type Executor interface {
	Exec(ctx context.Context, namespace string, cmd command.Command) (string, error)
}

// NewExecutor returns the executor selected by cfg.Executor.
// cfg must have defaults applied.
func NewExecutor(cfg Config, logger *slog.Logger) (Executor, error) {
	switch cfg.Executor {
	case ExecutorShell:
		return NewShellExecutor(cfg, logger), nil
	case ExecutorNetlink:
		nl, err := NewNetlinkExecutor(cfg, logger)
		if err != nil {
			return nil, err
		}
		return nl, nil
	}
	return nil, fmt.Errorf("network: %w %q", ErrUnknownExecutor, cfg.Executor)
}

// cappedBuffer collects combined command output up to max bytes. Writes past
// the cap are counted but dropped, and never fail.
type cappedBuffer struct {
	buf     bytes.Buffer
	max     int
	dropped int
}

func newCappedBuffer(limit int64) *cappedBuffer {
	return &cappedBuffer{max: int(limit)}
}

func (c *cappedBuffer) Write(p []byte) (int, error) {
	keep := min(len(p), max(c.max-c.buf.Len(), 0))
	c.buf.Write(p[:keep])
	c.dropped += len(p) - keep
	return len(p), nil
}

func (c *cappedBuffer) String() string {
	if c.dropped > 0 {
		return c.buf.String() + truncationSuffix
	}
	return c.buf.String()
}
