package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kayz/syllabus/internal/promptbuild"
)

var build = "unknown"

// SetBuild sets the build string from main
func SetBuild(b string) {
	build = b
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "syllabus format %s (%s)\n", promptbuild.FormatVersion, build)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
