package network

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/plexsphere/vlanctl/internal/command"
)

// waitDelayAfterKill is the grace period for a command to exit after its
// context is done before it is forcibly killed.
const waitDelayAfterKill = 500 * time.Millisecond

// ShellExecutor runs commands through their command-line tools. Commands in a
// named namespace are wrapped in "ip netns exec <ns>". No shell is involved.
type ShellExecutor struct {
	timeout   time.Duration
	maxOutput int64
	logger    *slog.Logger

	// argv builds the process arguments; replaced in tests.
	argv func(namespace string, cmd command.Command) []string
}

// NewShellExecutor creates a ShellExecutor. cfg must have defaults applied.
func NewShellExecutor(cfg Config, logger *slog.Logger) *ShellExecutor {
	return &ShellExecutor{
		timeout:   cfg.CommandTimeout,
		maxOutput: cfg.MaxOutputBytes,
		logger:    logger.With("component", "network"),
		argv:      shellArgv,
	}
}

func shellArgv(namespace string, cmd command.Command) []string {
	args := cmd.Args()
	if namespace == "" {
		return args
	}
	return append([]string{"ip", "netns", "exec", namespace}, args...)
}

// Exec runs cmd and returns its combined output.
func (e *ShellExecutor) Exec(ctx context.Context, namespace string, cmd command.Command) (string, error) {
	argv := e.argv(namespace, cmd)
	if len(argv) == 0 {
		return "", fmt.Errorf("network: exec: unsupported command verb %s", cmd.Verb)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	proc := exec.CommandContext(ctx, argv[0], argv[1:]...)
	proc.WaitDelay = waitDelayAfterKill
	out := newCappedBuffer(e.maxOutput)
	proc.Stdout = out
	proc.Stderr = out

	runErr := proc.Run()
	output := out.String()

	if runErr != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return output, fmt.Errorf("network: exec %q: timed out after %v", cmd.String(), e.timeout)
		}
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return output, fmt.Errorf("network: exec %q: exit code %d: %w", cmd.String(), exitErr.ExitCode(), runErr)
		}
		return output, fmt.Errorf("network: exec %q: %w", cmd.String(), runErr)
	}

	e.logger.Debug("command executed",
		"namespace", namespace,
		"argv", strings.Join(argv, " "),
	)
	return output, nil
}
