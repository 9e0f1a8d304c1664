//go:build !linux

package network

import (
	"context"
	"errors"
	"log/slog"

	"github.com/plexsphere/vlanctl/internal/command"
)

// ErrNetlinkUnsupported is returned by the netlink executor on non-Linux platforms.
var ErrNetlinkUnsupported = errors.New("network: netlink executor is only supported on linux")

// NetlinkExecutor is unavailable on non-Linux platforms.
type NetlinkExecutor struct{}

// NewNetlinkExecutor always fails on non-Linux platforms.
func NewNetlinkExecutor(_ Config, _ *slog.Logger) (*NetlinkExecutor, error) {
	return nil, ErrNetlinkUnsupported
}

func (e *NetlinkExecutor) Exec(_ context.Context, _ string, _ command.Command) (string, error) {
	return "", ErrNetlinkUnsupported
}
