// Package oracle adapts an external dependency-check executable to the
// DependencyOracle port. The checker is handed a simulation directory and
// prints the input file path when prerequisites are satisfied, or nothing
// otherwise.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/sahmed73/Simulation-Automation/internal/core/port"
	"go.uber.org/zap"
)

type execOracle struct {
	command []string
	timeout time.Duration
	log     *zap.Logger
}

// NewExecOracle wraps the given command. timeout bounds every check; a
// checker that exceeds it is treated as "not ready", never hung.
func NewExecOracle(command []string, timeout time.Duration, log *zap.Logger) (port.DependencyOracle, error) {
	if len(command) == 0 {
		return nil, fmt.Errorf("dependency oracle command is empty")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &execOracle{command: command, timeout: timeout, log: log}, nil
}

// Check runs the checker against dir. A non-zero exit or a timeout is "not
// ready" rather than an error; the manager retries next pass.
func (o *execOracle) Check(ctx context.Context, dir string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	args := append(append([]string{}, o.command[1:]...), dir)
	out, err := exec.CommandContext(ctx, o.command[0], args...).Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			o.log.Warn("Dependency check timed out, treating as not ready",
				zap.String("dir", dir),
				zap.Duration("timeout", o.timeout))
			return "", nil
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", nil
		}
		return "", err
	}

	return firstLine(string(out)), nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
