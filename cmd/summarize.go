package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var summarizeFile string

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize a syllabus (from --file or stdin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			data []byte
			err  error
		)
		if summarizeFile != "" {
			data, err = os.ReadFile(summarizeFile)
		} else {
			data, err = io.ReadAll(cmd.InOrStdin())
		}
		if err != nil {
			return fmt.Errorf("read syllabus: %w", err)
		}

		rt, err := newServices(appConfig, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		resp, err := rt.tutor.Summarize(cmd.Context(), string(data))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), resp.Summary)
		return nil
	},
}

func init() {
	summarizeCmd.Flags().StringVar(&summarizeFile, "file", "", "Syllabus text file")
	rootCmd.AddCommand(summarizeCmd)
}
