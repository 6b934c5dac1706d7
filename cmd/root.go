package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kayz/syllabus/internal/config"
	"github.com/kayz/syllabus/internal/logger"
)

var (
	logLevel   string
	configFile string
	envFile    string

	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "syllabus",
	Short: "Syllabus-grounded tutoring prompt toolkit",
	Long: `syllabus compiles declarative prompt configurations, screens chat traffic
against a course syllabus, and runs a gated tutoring chat.

Commands:
  syllabus compile     Compile a prompt configuration or preset
  syllabus validate    Validate a prompt configuration file
  syllabus screen      Run the topic gate over a piece of text
  syllabus chat        Ask the tutor one question
  syllabus summarize   Summarize a syllabus
  syllabus serve       Run the HTTP API`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		appConfig = cfg

		// Priority: command line flag > config file
		levelName := logLevel
		if !cmd.Flags().Changed("log") && cfg.Logging.Level != "" {
			levelName = cfg.Logging.Level
		}
		level, err := logger.ParseLevel(levelName)
		if err != nil {
			return err
		}
		logger.SetLevel(level)

		if cfg.Logging.File != "" {
			if err := logger.SetOutputFile(cfg.Logging.File); err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info",
		"Log level: trace, debug, info, warn, error, fatal, panic")
	rootCmd.PersistentFlags().StringVar(&configFile, "config-file", "",
		"Path to .syllabus.yaml (default: next to the executable)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env",
		"Dotenv file with API keys")
}

// loadConfig reads the config file and applies environment overrides.
func loadConfig() (*config.Config, error) {
	path := configFile
	if path == "" {
		path = config.ConfigPath()
	}
	cfg, err := config.LoadFromPath(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	cfg.ApplyEnv()
	return cfg, nil
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logger.Sync()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
