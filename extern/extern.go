// Package extern wraps the external command-line collaborators that
// consume fetch results: the device package manager that installs an
// artifact, and the issue tracker that receives failure reports. No
// protocol logic lives here; each wrapper hands a file path or text to
// a CLI and returns its trimmed output.
package extern

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// defaultCommandTimeout bounds a single external invocation.
const defaultCommandTimeout = 2 * time.Minute

// Runner executes external commands with a per-invocation timeout,
// capturing trimmed stdout. Stderr is folded into the returned error.
type Runner struct {
	logger  *slog.Logger
	timeout time.Duration

	// command builds the exec.Cmd; replaced in tests.
	command func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewRunner creates a Runner logging through logger. A nil logger
// falls back to slog.Default().
func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{
		logger:  logger,
		timeout: defaultCommandTimeout,
		command: exec.CommandContext,
	}
}

// WithTimeout returns the Runner with the per-invocation timeout
// replaced. Zero disables the bound.
func (r *Runner) WithTimeout(d time.Duration) *Runner {
	r.timeout = d
	return r
}

// Run executes name with args and returns trimmed stdout.
func (r *Runner) Run(ctx context.Context, name string, args ...string) (string, error) {
	if name == "" {
		return "", errors.New("no command provided")
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	r.logger.Debug("running external command", "command", name, "args", args)

	cmd := r.command(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}

	return strings.TrimSpace(stdout.String()), nil
}

// Installer hands fetched artifacts to the device package manager CLI.
type Installer struct {
	r *Runner

	// Tool is the package manager binary, "adb" unless overridden.
	Tool string
}

// NewInstaller creates an Installer backed by r.
func NewInstaller(r *Runner) *Installer {
	return &Installer{r: r, Tool: "adb"}
}

// Install installs the artifact at apkPath on the device identified by
// serial (all attached devices when empty), replacing any existing
// installation. Returns the tool's output.
func (i *Installer) Install(ctx context.Context, serial, apkPath string) (string, error) {
	var args []string
	if serial != "" {
		args = append(args, "-s", serial)
	}
	args = append(args, "install", "-r", apkPath)

	return i.r.Run(ctx, i.Tool, args...)
}

// Tracker files issues through a tracker CLI.
type Tracker struct {
	r *Runner

	// Tool is the tracker binary, "gh" unless overridden.
	Tool string
}

// NewTracker creates a Tracker backed by r.
func NewTracker(r *Runner) *Tracker {
	return &Tracker{r: r, Tool: "gh"}
}

// File opens an issue with the given title and body text and returns
// the tool's output (typically the issue URL).
func (t *Tracker) File(ctx context.Context, title, body string) (string, error) {
	return t.r.Run(ctx, t.Tool, "issue", "create", "--title", title, "--body", body)
}
