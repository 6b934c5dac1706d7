package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kayz/syllabus/internal/promptbuild"
)

var (
	compileConfigPath string
	compileName       string
	compilePreset     string
	compileMessage    string
	compileSystem     string
	compileSubject    string
	compileSyllabus   string
	compileReferences bool
	compileJSON       bool
	compileOutputPath string
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile a prompt configuration into system and user prompts",
	Long: `Compile a prompt configuration into system and user prompts.

Select the configuration with exactly one of:
  --config FILE                   a YAML or JSON configuration file
  --name NAME                     a file under prompt_build.configs_dir
  --preset PERSONA,TASK,FORMAT    built-in presets, e.g. mentor,explain,step_by_step`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := promptbuild.BuildRequest{
			Name:          compileName,
			ConfigPath:    compileConfigPath,
			UserMessage:   compileMessage,
			SystemMessage: compileSystem,
		}

		if compilePreset != "" {
			parts := strings.Split(compilePreset, ",")
			if len(parts) != 3 {
				return fmt.Errorf("--preset must be PERSONA,TASK,FORMAT")
			}
			var ctx promptbuild.ContextSpec
			if compileSubject != "" {
				ctx.Subject = &promptbuild.SubjectContext{Area: compileSubject}
			}
			if compileSyllabus != "" {
				ctx.Academic = &promptbuild.AcademicContext{Syllabus: compileSyllabus}
			}
			cfg, err := promptbuild.QuickFormat(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), strings.TrimSpace(parts[2]), ctx, compileReferences)
			if err != nil {
				return err
			}
			req.Configuration = &cfg
			if req.Name == "" {
				req.Name = "preset"
			}
		}

		builder := promptbuild.NewBuilder(appConfig.PromptBuild)
		compiled, result, err := builder.Build(req)
		if err != nil {
			return err
		}

		for _, e := range result.Errors {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %s\n", e)
		}
		for _, w := range result.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
		}

		var out string
		if compileJSON {
			data, err := json.MarshalIndent(compiled, "", "  ")
			if err != nil {
				return fmt.Errorf("encode compiled prompt: %w", err)
			}
			out = string(data)
		} else {
			out = fmt.Sprintf("=== SYSTEM ===\n%s\n\n=== USER ===\n%s\n", compiled.SystemPrompt, compiled.UserPrompt)
		}

		if compileOutputPath == "" {
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		}
		if err := os.WriteFile(compileOutputPath, []byte(out), 0644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	},
}

func init() {
	compileCmd.Flags().StringVar(&compileConfigPath, "config", "", "Path to a YAML or JSON prompt configuration")
	compileCmd.Flags().StringVar(&compileName, "name", "", "Configuration name under the configs directory")
	compileCmd.Flags().StringVar(&compilePreset, "preset", "", "Preset triple PERSONA,TASK,FORMAT")
	compileCmd.Flags().StringVar(&compileMessage, "message", "", "User message to append")
	compileCmd.Flags().StringVar(&compileSystem, "system", "", "System prompt override")
	compileCmd.Flags().StringVar(&compileSubject, "subject", "", "Subject area for --preset")
	compileCmd.Flags().StringVar(&compileSyllabus, "syllabus", "", "Syllabus context for --preset")
	compileCmd.Flags().BoolVar(&compileReferences, "references", false, "Ask for references with --preset")
	compileCmd.Flags().BoolVar(&compileJSON, "json", false, "Print the compiled prompt as JSON")
	compileCmd.Flags().StringVar(&compileOutputPath, "output", "", "Write output to file (default: stdout)")
	compileCmd.MarkFlagsMutuallyExclusive("config", "name", "preset")
	rootCmd.AddCommand(compileCmd)
}
