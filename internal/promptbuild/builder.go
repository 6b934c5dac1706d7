package promptbuild

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/kayz/syllabus/internal/config"
	"github.com/kayz/syllabus/internal/logger"
)

// BuildRequest names the configuration to compile and the turn to compile it
// for. Configuration wins over ConfigPath, which wins over Name.
type BuildRequest struct {
	Name          string
	ConfigPath    string
	Configuration *PromptConfiguration
	UserMessage   string
	SystemMessage string
}

// Builder resolves prompt configurations, validates and compiles them, and
// keeps an audit trail of what was sent.
type Builder struct {
	cfg config.PromptBuildConfig
	now func() time.Time
}

// NewBuilder creates a new Builder from config.
func NewBuilder(cfg config.PromptBuildConfig) *Builder {
	b := &Builder{cfg: cfg, now: time.Now}
	b.applyDefaults()
	return b
}

// Build compiles the requested configuration. Validation problems are logged
// and returned but do not stop compilation; only a configuration that cannot
// be located or read is an error.
func (b *Builder) Build(req BuildRequest) (CompiledPrompt, ValidationResult, error) {
	var (
		cfg    PromptConfiguration
		result ValidationResult
		name   = strings.TrimSpace(req.Name)
	)

	switch {
	case req.Configuration != nil:
		cfg = *req.Configuration
		result = Validate(cfg)
		if name == "" {
			name = "inline"
		}
	case strings.TrimSpace(req.ConfigPath) != "":
		var err error
		cfg, result, err = b.loadConfigurationFile(b.resolvePath(req.ConfigPath))
		if err != nil {
			return CompiledPrompt{}, ValidationResult{}, err
		}
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(req.ConfigPath), filepath.Ext(req.ConfigPath))
		}
	case name != "":
		var err error
		cfg, result, err = b.LoadConfiguration(name)
		if err != nil {
			return CompiledPrompt{}, ValidationResult{}, err
		}
	default:
		return CompiledPrompt{}, ValidationResult{}, fmt.Errorf("build request needs a configuration, a config path or a name")
	}

	logValidation(name, result)

	compiled := compileAt(cfg, req.UserMessage, req.SystemMessage, b.now())
	logger.Debug("[PromptBuild] compiled %s: components=%v fingerprint=%s", name, compiled.Metadata.Components, compiled.Fingerprint()[:12])

	if err := b.writeAuditRecord(name, compiled, result); err != nil {
		logger.Warn("[PromptBuild] audit write failed: %v", err)
	}

	return compiled, result, nil
}

func logValidation(name string, result ValidationResult) {
	for _, e := range result.Errors {
		logger.Warn("[PromptBuild] %s: %s", name, e)
	}
	for _, w := range result.Warnings {
		logger.Debug("[PromptBuild] %s: %s", name, w)
	}
}

func (b *Builder) applyDefaults() {
	if b.cfg.RootDir == "" {
		b.cfg.RootDir = "."
	}
	if b.cfg.ConfigsDir == "" {
		b.cfg.ConfigsDir = "prompts/configs"
	}
	if strings.TrimSpace(b.cfg.AuditFilePrefix) == "" {
		b.cfg.AuditFilePrefix = "promptbuild"
	}
	if b.cfg.AuditDir == "" {
		b.cfg.AuditDir = ".syllabus/promptbuild-audit"
	}
}

func (b *Builder) resolvePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(b.cfg.RootDir, p)
}
