package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ychenfen/shellgpt/internal/executor"
	"github.com/ychenfen/shellgpt/internal/output"
	"github.com/ychenfen/shellgpt/internal/tui"
)

var (
	flagAskExecute      bool
	flagAskYes          bool
	flagAskDryRun       bool
	flagAskAlternatives int
	flagAskNoSafety     bool
	flagAskNoContext    bool
	flagAskTimeout      int
)

func init() {
	askCmd.Flags().BoolVarP(&flagAskExecute, "execute", "e", false, "run the generated command after confirmation")
	askCmd.Flags().BoolVarP(&flagAskYes, "yes", "y", false, "skip confirmation prompts")
	askCmd.Flags().BoolVar(&flagAskDryRun, "dry-run", false, "show what would run without executing")
	askCmd.Flags().IntVarP(&flagAskAlternatives, "alternatives", "a", 0, "generate up to N alternative commands")
	askCmd.Flags().BoolVar(&flagAskNoSafety, "no-safety", false, "skip safety classification")
	askCmd.Flags().BoolVar(&flagAskNoContext, "no-context", false, "skip system context collection")
	askCmd.Flags().IntVar(&flagAskTimeout, "timeout", 0, "execution timeout in seconds")

	rootCmd.AddCommand(askCmd)
}

var askCmd = &cobra.Command{
	Use:   "ask <query>",
	Short: "Generate a shell command from a natural-language query",
	Example: `  shellgpt ask "list all python files"
  shellgpt ask -e "show disk usage"
  shellgpt ask -a 3 "find large log files"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		initLogging(cfg)

		gen, err := buildGenerator(cfg, flagAskNoContext, flagAskNoSafety)
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

		query := strings.Join(args, " ")
		out := output.New(output.Format(GetOutput()))

		if flagAskAlternatives > 1 {
			cmds, err := gen.Alternatives(cmd.Context(), query, flagAskAlternatives)
			if err != nil {
				return err
			}
			for _, c := range cmds {
				recordGeneration(store, c)
			}
			if out.Structured() {
				return out.Write(cmds)
			}
			for _, c := range cmds {
				fmt.Fprintln(os.Stderr, tui.RenderCommand(c))
			}
			return nil
		}

		generated, err := gen.Generate(cmd.Context(), query)
		if err != nil {
			return err
		}
		entryID := recordGeneration(store, generated)

		if out.Structured() {
			if err := out.Write(generated); err != nil {
				return err
			}
		} else {
			fmt.Fprintln(os.Stderr, tui.RenderCommand(generated))
			if !flagAskExecute && !flagAskDryRun {
				// Bare command on stdout so the result pipes cleanly.
				out.Plain(generated.ShellCommand)
			}
		}

		if !flagAskExecute && !flagAskDryRun {
			return nil
		}

		opts := executor.Options{
			Timeout:          time.Duration(flagAskTimeout) * time.Second,
			SkipConfirmation: flagAskYes || !cfg.Safety.RequireConfirmation,
			DryRun:           flagAskDryRun,
			Shell:            cfg.Execution.Shell,
			Stream:           cfg.Execution.StreamOutput && !out.Structured(),
		}
		if opts.Timeout <= 0 {
			opts.Timeout = time.Duration(cfg.Execution.TimeoutSecs) * time.Second
		}

		result, err := executor.Execute(cmd.Context(), generated, opts)
		recordExecution(store, entryID, result)

		switch {
		case errors.Is(err, executor.ErrDeclined):
			out.Success("not executed")
			return nil
		case err != nil:
			return err
		}

		if out.Structured() {
			return out.Write(result)
		}
		fmt.Fprintln(os.Stderr, tui.RenderResult(result))
		return nil
	},
}
