package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ychenfen/shellgpt/internal/output"
)

func init() {
	rootCmd.AddCommand(explainCmd)
}

var explainCmd = &cobra.Command{
	Use:   "explain <command>",
	Short: "Explain what an existing shell command does",
	Example: `  shellgpt explain "tar -xzvf archive.tar.gz"
  shellgpt explain "find . -mtime -1 -type f"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		initLogging(cfg)

		gen, err := buildGenerator(cfg, false, true)
		if err != nil {
			return err
		}

		shellCommand := strings.Join(args, " ")
		explanation, err := gen.Explain(cmd.Context(), shellCommand)
		if err != nil {
			return err
		}

		out := output.New(output.Format(GetOutput()))
		if out.Structured() {
			return out.Write(map[string]any{
				"shell_command": shellCommand,
				"explanation":   explanation,
			})
		}
		fmt.Println(explanation)
		return nil
	},
}
