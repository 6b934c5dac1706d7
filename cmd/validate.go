package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kayz/syllabus/internal/promptbuild"
)

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Validate a prompt configuration file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read configuration: %w", err)
		}

		_, result := promptbuild.DecodeConfiguration(data)
		out := cmd.OutOrStdout()
		for _, e := range result.Errors {
			fmt.Fprintf(out, "error: %s\n", e)
		}
		for _, w := range result.Warnings {
			fmt.Fprintf(out, "warning: %s\n", w)
		}

		if !result.IsValid {
			return fmt.Errorf("%s: %d error(s)", args[0], len(result.Errors))
		}
		fmt.Fprintf(out, "%s: valid (%d warning(s))\n", args[0], len(result.Warnings))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
