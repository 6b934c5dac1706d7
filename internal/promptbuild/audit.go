package promptbuild

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var auditMu sync.Mutex

type auditRecord struct {
	ID            string   `json:"id"`
	Timestamp     string   `json:"timestamp"`
	Name          string   `json:"name"`
	Fingerprint   string   `json:"fingerprint"`
	FormatVersion string   `json:"format_version"`
	Components    []string `json:"components"`
	Errors        []string `json:"errors"`
	Warnings      []string `json:"warnings"`
	SystemPrompt  string   `json:"system_prompt"`
	UserPrompt    string   `json:"user_prompt"`
}

func (b *Builder) writeAuditRecord(name string, compiled CompiledPrompt, result ValidationResult) error {
	if !b.cfg.AuditEnabled {
		return nil
	}

	auditDir := b.resolvePath(b.cfg.AuditDir)
	if err := os.MkdirAll(auditDir, 0755); err != nil {
		return fmt.Errorf("create audit dir: %w", err)
	}

	now := compiled.Metadata.Timestamp
	if now.IsZero() {
		now = b.now()
	}
	fileName := fmt.Sprintf("%s-%s.jsonl", b.cfg.AuditFilePrefix, now.Format("2006-01-02"))
	filePath := filepath.Join(auditDir, fileName)

	record := auditRecord{
		ID:            uuid.NewString(),
		Timestamp:     now.Format(time.RFC3339),
		Name:          name,
		Fingerprint:   compiled.Fingerprint(),
		FormatVersion: compiled.Metadata.FormatVersion,
		Components:    compiled.Metadata.Components,
		Errors:        result.Errors,
		Warnings:      result.Warnings,
		SystemPrompt:  compiled.SystemPrompt,
		UserPrompt:    compiled.UserPrompt,
	}

	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}

	auditMu.Lock()
	defer auditMu.Unlock()

	return appendJSONL(filePath, line)
}

func appendJSONL(filePath string, line []byte) error {
	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open audit file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write audit file: %w", err)
	}
	return nil
}

// CleanupOldAuditFiles removes audit files older than the retention window.
// Files are dated by name, falling back to modification time.
func (b *Builder) CleanupOldAuditFiles() error {
	auditMu.Lock()
	defer auditMu.Unlock()
	return b.cleanupOldAuditFilesWithNow(b.now())
}

func (b *Builder) cleanupOldAuditFilesWithNow(now time.Time) error {
	if !b.cfg.AuditEnabled || b.cfg.AuditRetentionDays <= 0 {
		return nil
	}

	auditDir := b.resolvePath(b.cfg.AuditDir)
	entries, err := os.ReadDir(auditDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("list audit dir: %w", err)
	}

	prefix := b.cfg.AuditFilePrefix
	cutoff := now.AddDate(0, 0, -b.cfg.AuditRetentionDays)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, prefix+"-") || !strings.HasSuffix(name, ".jsonl") {
			continue
		}

		filePath := filepath.Join(auditDir, name)
		expired := false
		if fileDate, ok := parseAuditDate(name, prefix); ok {
			expired = fileDate.Before(startOfDay(cutoff))
		} else {
			info, err := entry.Info()
			if err != nil {
				return fmt.Errorf("stat audit file %s: %w", filePath, err)
			}
			expired = info.ModTime().Before(cutoff)
		}
		if !expired {
			continue
		}
		if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove old audit file %s: %w", filePath, err)
		}
	}

	return nil
}

func parseAuditDate(filename, prefix string) (time.Time, bool) {
	raw := strings.TrimSuffix(filename, ".jsonl")
	raw = strings.TrimPrefix(raw, prefix+"-")
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
