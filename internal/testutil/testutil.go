// Package testutil holds shared test helpers.
package testutil

import (
	"io"
	"os"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/ychenfen/shellgpt/internal/command"
)

// TestLogger returns a structured logger suitable for tests.
//
// By default it discards output unless `go test -v` is used.
func TestLogger(t *testing.T) *log.Logger {
	t.Helper()

	var out io.Writer = io.Discard
	if testing.Verbose() {
		out = os.Stderr
	}

	return log.NewWithOptions(out, log.Options{
		Level:  log.DebugLevel,
		Prefix: t.Name(),
	})
}

// Command builds a command record with the given tier for tests.
func Command(t *testing.T, shellCommand string, level command.SafetyLevel) *command.Command {
	t.Helper()

	cmd := command.New("test query", shellCommand, "test command", command.TypeCustom)
	cmd.SafetyLevel = level
	return cmd
}
