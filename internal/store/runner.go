package store

import (
	"context"
	"os/exec"
	"runtime"

	"github.com/minhnc/appupdater/internal/errs"
)

// CommandRunner is an interface for running external commands.
// This allows for mocking in tests.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// DefaultCommandRunner uses os/exec to run commands.
type DefaultCommandRunner struct{}

func (r *DefaultCommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

// openURL opens url with the host's URL handler.
func openURL(ctx context.Context, runner CommandRunner, url string) error {
	var name string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		name = "open"
	case "windows":
		name = "rundll32"
		args = []string{"url.dll,FileProtocolHandler"}
	default:
		name = "xdg-open"
	}
	args = append(args, url)

	if _, err := runner.Run(ctx, name, args...); err != nil {
		return errs.Newf(errs.StoreError, "opening %s: %v", url, err)
	}
	return nil
}
