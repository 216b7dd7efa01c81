package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ychenfen/shellgpt/internal/executor"
	"github.com/ychenfen/shellgpt/internal/output"
	"github.com/ychenfen/shellgpt/internal/tui"
	"github.com/ychenfen/shellgpt/internal/tui/styles"
)

func init() {
	rootCmd.AddCommand(replCmd)
}

var replCmd = &cobra.Command{
	Use:     "repl",
	Aliases: []string{"interactive", "i"},
	Short:   "Interactive session: query, review, optionally run",
	Long: `Repl starts an interactive loop. Each line is treated as a
natural-language query; the generated command is shown with its safety
tier, and you choose whether to run it. Type "exit" or press Ctrl-D to
leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		initLogging(cfg)

		gen, err := buildGenerator(cfg, false, false)
		if err != nil {
			return err
		}

		store, err := openHistory(cfg)
		if err != nil {
			return fmt.Errorf("opening history: %w", err)
		}
		if store != nil {
			defer store.Close()
		}

		out := output.New(output.Format(GetOutput()))
		s := styles.New()
		out.Plain(s.Title.Render("shellgpt") + s.Dimmed.Render("  type a query, \"exit\" to quit"))

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Fprint(os.Stderr, s.Subtitle.Render("> "))
			if !scanner.Scan() {
				fmt.Fprintln(os.Stderr)
				return scanner.Err()
			}
			query := strings.TrimSpace(scanner.Text())
			switch query {
			case "":
				continue
			case "exit", "quit":
				return nil
			}

			generated, err := gen.Generate(cmd.Context(), query)
			if err != nil {
				out.Error(err)
				continue
			}
			entryID := recordGeneration(store, generated)
			fmt.Fprintln(os.Stderr, tui.RenderCommand(generated))

			if !tui.Confirm("Run this command?", false) {
				continue
			}

			result, err := executor.Execute(cmd.Context(), generated, executor.Options{
				Timeout: time.Duration(cfg.Execution.TimeoutSecs) * time.Second,
				// Already confirmed above.
				SkipConfirmation: true,
				Shell:            cfg.Execution.Shell,
				Stream:           cfg.Execution.StreamOutput,
			})
			recordExecution(store, entryID, result)
			switch {
			case errors.Is(err, executor.ErrDeclined):
				continue
			case err != nil:
				out.Error(err)
				continue
			}
			fmt.Fprintln(os.Stderr, tui.RenderResult(result))
		}
	},
}
