package promptbuild

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kayz/syllabus/internal/config"
)

func configForTest(root string) config.PromptBuildConfig {
	return config.PromptBuildConfig{
		RootDir:            root,
		ConfigsDir:         "prompts/configs",
		AuditEnabled:       false,
		AuditDir:           ".syllabus/promptbuild-audit",
		AuditRetentionDays: 7,
		AuditFilePrefix:    "promptbuild",
	}
}

const tutorConfig = `persona:
  role: Act as an experienced tutor
  tone: tutor
  audienceLevel: mixed
task:
  action: Explain the concept the student asks about
  objectives:
    - Ensure understanding
format:
  structure: paragraph
context:
  subject:
    area: Operating Systems
references:
  includeReferences: false
`

func writeConfig(t *testing.T, root, name, content string) {
	t.Helper()
	dir := filepath.Join(root, "prompts", "configs")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir configs dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestBuildInlineConfiguration(t *testing.T) {
	b := NewBuilder(configForTest(t.TempDir()))
	cfg := fullConfiguration()

	out, res, err := b.Build(BuildRequest{Configuration: &cfg, UserMessage: "What is recursion?"})
	if err != nil {
		t.Fatalf("Build inline failed: %v", err)
	}
	if !res.IsValid {
		t.Fatalf("expected valid result, got %v", res.Errors)
	}
	direct := Compile(cfg, "What is recursion?", "")
	if out.SystemPrompt != direct.SystemPrompt || out.UserPrompt != direct.UserPrompt {
		t.Fatalf("Build output differs from Compile")
	}
}

func TestBuildNamedConfiguration(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "tutor.yaml", tutorConfig)

	b := NewBuilder(configForTest(dir))
	out, res, err := b.Build(BuildRequest{Name: "tutor", UserMessage: "explain round robin", SystemMessage: "Stay on the syllabus."})
	if err != nil {
		t.Fatalf("Build named failed: %v", err)
	}
	if !res.IsValid {
		t.Fatalf("expected valid result, got %v", res.Errors)
	}
	if !strings.HasPrefix(out.SystemPrompt, "Stay on the syllabus.\n\nAct as an experienced tutor") {
		t.Fatalf("unexpected system prompt:\n%s", out.SystemPrompt)
	}
	if !strings.Contains(out.UserPrompt, "**USER REQUEST:**\nexplain round robin") {
		t.Fatalf("unexpected user prompt:\n%s", out.UserPrompt)
	}
}

func TestBuildProceedsOnValidationErrors(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "broken.yaml", "task:\n  action: Explain the scheduler\nformat:\n  structure: table\n")

	b := NewBuilder(configForTest(dir))
	out, res, err := b.Build(BuildRequest{Name: "broken", UserMessage: "hi"})
	if err != nil {
		t.Fatalf("Build should not fail on validation errors: %v", err)
	}
	if res.IsValid {
		t.Fatalf("expected invalid result")
	}
	if !strings.Contains(out.UserPrompt, "Explain the scheduler") {
		t.Fatalf("expected best-effort prompt, got:\n%s", out.UserPrompt)
	}
}

func TestBuildConfigPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.json")
	doc := `{"persona":{"role":"Act as a mentor guiding a beginner"},"task":{"action":"Summarize this module"},"format":{"structure":"numbered-list"},"references":{"includeReferences":false}}`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	b := NewBuilder(configForTest(t.TempDir()))
	out, _, err := b.Build(BuildRequest{ConfigPath: path, UserMessage: "go"})
	if err != nil {
		t.Fatalf("Build by path failed: %v", err)
	}
	if !strings.Contains(out.SystemPrompt, "numbered list") {
		t.Fatalf("expected numbered list directive:\n%s", out.SystemPrompt)
	}
}

func TestBuildErrors(t *testing.T) {
	b := NewBuilder(configForTest(t.TempDir()))

	if _, _, err := b.Build(BuildRequest{UserMessage: "hi"}); err == nil {
		t.Fatalf("expected error for empty request")
	}
	if _, _, err := b.Build(BuildRequest{Name: "missing"}); !errors.Is(err, ErrConfigurationNotFound) {
		t.Fatalf("expected ErrConfigurationNotFound, got %v", err)
	}
	if _, _, err := b.Build(BuildRequest{ConfigPath: "nope.yaml"}); !errors.Is(err, ErrConfigurationNotFound) {
		t.Fatalf("expected ErrConfigurationNotFound for path, got %v", err)
	}
}

func TestBuildUsesClock(t *testing.T) {
	b := NewBuilder(configForTest(t.TempDir()))
	fixed := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	b.now = func() time.Time { return fixed }

	cfg := minimalValid()
	out, _, err := b.Build(BuildRequest{Configuration: &cfg})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !out.Metadata.Timestamp.Equal(fixed) {
		t.Fatalf("timestamp = %v, want %v", out.Metadata.Timestamp, fixed)
	}
}
