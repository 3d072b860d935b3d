// Package exec runs external commands for the publish
// workflow and logs what it runs.
package exec

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Ex runs name with arg in dir and returns the combined
// stdout+stderr output. An empty dir runs in the current
// working directory. The command is killed when ctx is
// cancelled.
func Ex(
	ctx context.Context,
	dir string,
	name string,
	arg ...string,
) (string, error) {
	const errCtx = "executing command"

	slog.Debug(
		"executing",
		"cmd", name,
		"args", strings.Join(arg, " "),
		"dir", dir,
	)

	cmd := exec.CommandContext(ctx, name, arg...)
	if dir != "" {
		cmd.Dir = dir
	}

	by, err := cmd.CombinedOutput()
	out := string(by)

	if err != nil {
		slog.Debug("command failed", "cmd", name, "output", out)

		return out, fmt.Errorf(
			"%s: %s %s: %w",
			errCtx, name, strings.Join(arg, " "), err,
		)
	}

	return out, nil
}

// Runner runs a sequence of commands in one directory and
// keeps the first error. Once a command fails the following
// Run calls do nothing.
type Runner struct {
	ctx context.Context //nolint:containedctx // scoped to one command sequence
	dir string
	err error
}

// NewRunner returns a Runner executing in dir.
func NewRunner(ctx context.Context, dir string) *Runner {
	return &Runner{ctx: ctx, dir: dir}
}

// Run executes name with arg unless an earlier command
// failed.
func (r *Runner) Run(name string, arg ...string) {
	if r.err != nil {
		return
	}

	_, r.err = Ex(r.ctx, r.dir, name, arg...)
}

// Err returns the first error met by Run.
func (r *Runner) Err() error {
	return r.err
}
