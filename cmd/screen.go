package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kayz/syllabus/internal/gate"
)

var (
	screenSubject  string
	screenSyllabus string
)

var screenCmd = &cobra.Command{
	Use:       "screen inbound|outbound|syllabus|summary TEXT",
	Short:     "Run the topic gate over a piece of text",
	Args:      cobra.MinimumNArgs(2),
	ValidArgs: []string{"inbound", "outbound", "syllabus", "summary"},
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := gate.NewFromConfig(appConfig.Gate)
		if err != nil {
			return err
		}

		text := strings.Join(args[1:], " ")
		ctx := gate.Context{SubjectArea: screenSubject, SyllabusContext: screenSyllabus}

		var d gate.Decision
		switch args[0] {
		case "inbound":
			d = g.ScreenInbound(text, ctx)
		case "outbound":
			d = g.ScreenOutbound(text, ctx)
		case "syllabus":
			d = g.ScreenSyllabus(text)
		case "summary":
			d = g.ScreenSummary(text)
		default:
			return fmt.Errorf("unknown direction %q", args[0])
		}

		data, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	screenCmd.Flags().StringVar(&screenSubject, "subject", "", "Subject area of the conversation")
	screenCmd.Flags().StringVar(&screenSyllabus, "syllabus", "", "Syllabus context of the conversation")
	rootCmd.AddCommand(screenCmd)
}
