// Package executor runs generated commands through the user's shell and
// handles the confirmation gate for risky tiers. Confirm takes injectable
// io.Reader/io.Writer so prompts are testable.
package executor

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	shellwords "github.com/mattn/go-shellwords"

	"github.com/ychenfen/shellgpt/internal/command"
	"github.com/ychenfen/shellgpt/internal/safety"
)

// MaxOutputBytes is the maximum captured output size before truncation.
const MaxOutputBytes = 8192

// DefaultTimeout bounds command execution when Options.Timeout is zero.
const DefaultTimeout = 60 * time.Second

// ErrForbidden is returned when execution of a forbidden command is requested.
var ErrForbidden = errors.New("command is forbidden and cannot be executed")

// ErrDeclined is returned when the user declines the confirmation prompt.
var ErrDeclined = errors.New("execution declined by user")

// Options configures an execution.
type Options struct {
	// Timeout bounds the command's wall-clock run time. Zero means DefaultTimeout.
	Timeout time.Duration
	// SkipConfirmation runs cautious and dangerous commands without prompting.
	// Forbidden commands are still refused.
	SkipConfirmation bool
	// DryRun reports what would run without executing anything.
	DryRun bool
	// Shell overrides the shell binary. Empty uses $SHELL, then /bin/sh.
	Shell string
	// In and Out carry the confirmation dialogue. Nil defaults to stdin/stdout.
	In  io.Reader
	Out io.Writer
	// Stream mirrors command output to Out in real time in addition to
	// capturing it.
	Stream bool
	// Logger receives debug output. Nil discards.
	Logger *log.Logger
}

func (o *Options) fill() {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Shell == "" {
		o.Shell = DetectShellBinary()
	}
	if o.In == nil {
		o.In = os.Stdin
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Logger == nil {
		o.Logger = log.New(nil)
	}
}

// DetectShellBinary returns the user's shell, falling back to /bin/sh.
func DetectShellBinary() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	return "/bin/sh"
}

// Validate rejects command strings that cannot be handed to a shell:
// empty commands and ones that do not tokenize (unbalanced quotes).
func Validate(shellCommand string) error {
	if strings.TrimSpace(shellCommand) == "" {
		return errors.New("command is empty")
	}
	if _, err := shellwords.Parse(shellCommand); err != nil {
		return fmt.Errorf("command does not tokenize: %w", err)
	}
	return nil
}

// Confirm prompts for yes/no confirmation on out and reads the answer from
// in. defaultYes controls what an empty answer means.
func Confirm(prompt string, defaultYes bool, in io.Reader, out io.Writer) bool {
	hint := "[Y/n]"
	if !defaultYes {
		hint = "[y/N]"
	}
	_, _ = fmt.Fprintf(out, "%s %s: ", prompt, hint)

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return false
	}

	switch strings.TrimSpace(strings.ToLower(scanner.Text())) {
	case "":
		return defaultYes
	case "y", "yes":
		return true
	default:
		return false
	}
}

// Execute runs the command record through the safety gate and the shell.
//
// Forbidden commands are never run. Cautious and dangerous commands prompt
// for confirmation unless SkipConfirmation is set; an empty answer declines.
// A declined prompt returns ErrDeclined alongside a result with
// Executed=false.
func Execute(ctx context.Context, cmd *command.Command, opts Options) (*command.ExecutionResult, error) {
	opts.fill()

	result := &command.ExecutionResult{Command: cmd, Timestamp: time.Now().UTC()}

	if safety.IsForbidden(cmd) {
		return result, ErrForbidden
	}
	if err := Validate(cmd.ShellCommand); err != nil {
		return result, err
	}

	if opts.DryRun {
		fmt.Fprintf(opts.Out, "dry run: %s\n", cmd.ShellCommand)
		return result, nil
	}

	if safety.ShouldRequireConfirmation(cmd) && !opts.SkipConfirmation {
		for _, w := range cmd.Warnings {
			fmt.Fprintf(opts.Out, "warning: %s\n", w)
		}
		prompt := fmt.Sprintf("Execute %q?", cmd.ShellCommand)
		if !Confirm(prompt, false, opts.In, opts.Out) {
			return result, ErrDeclined
		}
	}

	return run(ctx, cmd, result, opts)
}

func run(ctx context.Context, cmd *command.Command, result *command.ExecutionResult, opts Options) (*command.ExecutionResult, error) {
	runCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	opts.Logger.Debug("executing command", "shell", opts.Shell, "command", cmd.ShellCommand)

	proc := exec.CommandContext(runCtx, opts.Shell, "-c", cmd.ShellCommand)

	var buf bytes.Buffer
	if opts.Stream {
		proc.Stdout = io.MultiWriter(opts.Out, &buf)
		proc.Stderr = io.MultiWriter(opts.Out, &buf)
	} else {
		proc.Stdout = &buf
		proc.Stderr = &buf
	}

	start := time.Now()
	runErr := proc.Run()
	result.Duration = time.Since(start)
	result.Timestamp = time.Now().UTC()
	result.Output = truncate(buf.String())

	if runCtx.Err() == context.DeadlineExceeded {
		result.TimedOut = true
		result.Executed = true
		result.ExitCode = -1
		return result, fmt.Errorf("command timed out after %s", opts.Timeout)
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			// Non-zero exit is data, not an error.
			result.Executed = true
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, fmt.Errorf("executing command: %w", runErr)
	}

	result.Executed = true
	return result, nil
}

func truncate(out string) string {
	if len(out) > MaxOutputBytes {
		return out[:MaxOutputBytes] + "\n[output truncated]"
	}
	return out
}
