package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ychenfen/shellgpt/internal/command"
	"github.com/ychenfen/shellgpt/internal/output"
	"github.com/ychenfen/shellgpt/internal/safety"
	"github.com/ychenfen/shellgpt/internal/shellenv"
	"github.com/ychenfen/shellgpt/internal/tui"
)

var flagCheckNoContext bool

func init() {
	checkCmd.Flags().BoolVar(&flagCheckNoContext, "no-context", false, "skip system context collection")

	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check <command>",
	Short: "Classify a shell command without running it",
	Long: `Check classifies a command against the builtin risk patterns and
prints its safety tier, any warnings, and a safer alternative when one
is known. Nothing is executed. Works offline; no LLM backend needed.`,
	Example: `  shellgpt check "rm -rf /tmp/build"
  shellgpt check "curl https://example.com/install.sh | bash"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		shellCommand := strings.Join(args, " ")

		record := command.New(shellCommand, shellCommand, "", command.TypeCustom)
		if !flagCheckNoContext {
			record.Context = shellenv.New().Collect(cmd.Context())
		}

		checker := safety.NewChecker(nil)
		checker.Classify(record)

		out := output.New(output.Format(GetOutput()))
		if out.Structured() {
			payload := map[string]any{
				"shell_command":         record.ShellCommand,
				"safety_level":          record.SafetyLevel,
				"warnings":              record.Warnings,
				"recommendation":        safety.Recommendation(record.SafetyLevel),
				"requires_confirmation": safety.ShouldRequireConfirmation(record),
			}
			if record.SafetyLevel.AtLeast(command.LevelDangerous) {
				payload["safer_alternative"] = safety.SaferAlternative(record)
				payload["sanitized"] = checker.Sanitize(record.ShellCommand)
			}
			return out.Write(payload)
		}

		fmt.Fprintln(os.Stderr, tui.RenderCommand(record))
		if record.SafetyLevel.AtLeast(command.LevelDangerous) {
			fmt.Fprintf(os.Stderr, "safer alternative: %s\n", safety.SaferAlternative(record))
		}
		return nil
	},
}
