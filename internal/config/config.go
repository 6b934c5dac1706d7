package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	exeDirCache string
)

// getExecutableDir returns the directory where the executable is located
func getExecutableDir() string {
	if exeDirCache != "" {
		return exeDirCache
	}
	execPath, err := os.Executable()
	if err != nil {
		exeDirCache = "."
		return exeDirCache
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		exeDirCache = "."
		return exeDirCache
	}
	exeDirCache = filepath.Dir(execPath)
	return exeDirCache
}

type Config struct {
	Logging     LoggingConfig     `yaml:"logging"`
	AI          AIConfig          `yaml:"ai,omitempty"`
	Gate        GateConfig        `yaml:"gate,omitempty"`
	PromptBuild PromptBuildConfig `yaml:"prompt_build,omitempty"`
	Store       StoreConfig       `yaml:"store,omitempty"`
	Server      ServerConfig      `yaml:"server,omitempty"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// AIConfig selects the chat-completion backend used by the tutor.
type AIConfig struct {
	// Provider is one of "groq", "openai", "compat" or "anthropic".
	Provider  string `yaml:"provider,omitempty"`
	APIKey    string `yaml:"api_key,omitempty"`
	BaseURL   string `yaml:"base_url,omitempty"`
	Model     string `yaml:"model,omitempty"`
	MaxTokens int    `yaml:"max_tokens,omitempty"`
}

// GateConfig tunes the topic gate heuristics.
type GateConfig struct {
	// DriftMinChars is the response length above which a response with no
	// subject keyword counts as drift.
	DriftMinChars int `yaml:"drift_min_chars,omitempty"`
	// KeywordMinLen filters syllabus words shorter than or equal to it.
	KeywordMinLen      int      `yaml:"keyword_min_len,omitempty"`
	ExtraEntertainment []string `yaml:"extra_entertainment,omitempty"`
	ExtraOffTopic      []string `yaml:"extra_off_topic,omitempty"`
}

type PromptBuildConfig struct {
	RootDir              string `yaml:"root_dir,omitempty"`
	ConfigsDir           string `yaml:"configs_dir,omitempty"`
	AuditEnabled         bool   `yaml:"audit_enabled"`
	AuditDir             string `yaml:"audit_dir,omitempty"`
	AuditRetentionDays   int    `yaml:"audit_retention_days,omitempty"`
	AuditFilePrefix      string `yaml:"audit_file_prefix,omitempty"`
	AuditCleanupSchedule string `yaml:"audit_cleanup_schedule,omitempty"`
}

type StoreConfig struct {
	SQLitePath   string `yaml:"sqlite_path,omitempty"`
	HistoryLimit int    `yaml:"history_limit,omitempty"`
}

type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level: "info",
		},
		AI: AIConfig{
			Provider:  "groq",
			Model:     "llama-3.1-8b-instant",
			MaxTokens: 1536,
		},
		Gate: GateConfig{
			DriftMinChars: 100,
			KeywordMinLen: 3,
		},
		PromptBuild: PromptBuildConfig{
			RootDir:              ".",
			ConfigsDir:           "prompts/configs",
			AuditEnabled:         false,
			AuditDir:             ".syllabus/promptbuild-audit",
			AuditRetentionDays:   7,
			AuditFilePrefix:      "promptbuild",
			AuditCleanupSchedule: "@daily",
		},
		Store: StoreConfig{
			SQLitePath:   ".syllabus/syllabus.db",
			HistoryLimit: 20,
		},
		Server: ServerConfig{
			Addr: ":8686",
		},
	}
}

func ConfigDir() string {
	exeDir := getExecutableDir()
	return filepath.Join(exeDir, ".syllabus")
}

func ConfigPath() string {
	exeDir := getExecutableDir()
	return filepath.Join(exeDir, ".syllabus.yaml")
}

func Load() (*Config, error) {
	return LoadFromPath(ConfigPath())
}

// LoadFromPath reads the YAML file at path over DefaultConfig. A missing file
// yields the defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyEnv overrides AI settings from the environment. Values already set by
// flags should be applied after this call.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv("SYLLABUS_PROVIDER")); v != "" {
		c.AI.Provider = v
	}
	if v := strings.TrimSpace(os.Getenv("SYLLABUS_MODEL")); v != "" {
		c.AI.Model = v
	}
	if v := strings.TrimSpace(os.Getenv("SYLLABUS_BASE_URL")); v != "" {
		c.AI.BaseURL = v
	}

	keyVars := []string{"SYLLABUS_API_KEY"}
	switch strings.ToLower(c.AI.Provider) {
	case "anthropic":
		keyVars = append(keyVars, "ANTHROPIC_API_KEY")
	case "openai":
		keyVars = append(keyVars, "OPENAI_API_KEY")
	default:
		keyVars = append(keyVars, "GROQ_API_KEY")
	}
	for _, name := range keyVars {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			c.AI.APIKey = v
			return
		}
	}
}

func (c *Config) Save() error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(ConfigPath(), data, 0600)
}
