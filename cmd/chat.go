package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kayz/syllabus/internal/tutor"
)

var (
	chatSubject      string
	chatSyllabus     string
	chatSyllabusFile string
	chatSession      string
	chatModel        string
)

var chatCmd = &cobra.Command{
	Use:   "chat MESSAGE",
	Short: "Ask the tutor one question",
	Long: `Ask the tutor one question. With --session the turn is stored in the
history database and earlier turns of the session are sent as context.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		syllabus := chatSyllabus
		if chatSyllabusFile != "" {
			data, err := os.ReadFile(chatSyllabusFile)
			if err != nil {
				return fmt.Errorf("read syllabus: %w", err)
			}
			syllabus = string(data)
		}

		rt, err := newServices(appConfig, chatSession != "")
		if err != nil {
			return err
		}
		defer rt.Close()

		resp, err := rt.tutor.Chat(cmd.Context(), tutor.ChatRequest{
			SessionID:       chatSession,
			Message:         strings.Join(args, " "),
			SubjectArea:     chatSubject,
			SyllabusContext: syllabus,
			Model:           chatModel,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, resp.Response)
		if len(resp.Suggestions) > 0 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Try next:")
			for _, s := range resp.Suggestions {
				fmt.Fprintf(out, "  - %s\n", s)
			}
		}
		return nil
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatSubject, "subject", "", "Subject area, e.g. \"Operating Systems\"")
	chatCmd.Flags().StringVar(&chatSyllabus, "syllabus", "", "Syllabus context text")
	chatCmd.Flags().StringVar(&chatSyllabusFile, "syllabus-file", "", "Read syllabus context from a file")
	chatCmd.Flags().StringVar(&chatSession, "session", "", "Session id for stored history")
	chatCmd.Flags().StringVar(&chatModel, "model", "", "Model override")
	chatCmd.MarkFlagsMutuallyExclusive("syllabus", "syllabus-file")
	rootCmd.AddCommand(chatCmd)
}
