package promptbuild

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrConfigurationNotFound is returned when a named configuration has no file
// under the configs directory.
var ErrConfigurationNotFound = errors.New("prompt configuration not found")

var configExtensions = []string{".yaml", ".yml", ".json"}

// LoadConfiguration reads <root>/<configs_dir>/<name>.{yaml,yml,json}. The
// returned result carries decode and validation diagnostics.
func (b *Builder) LoadConfiguration(name string) (PromptConfiguration, ValidationResult, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return PromptConfiguration{}, ValidationResult{}, fmt.Errorf("invalid configuration name %q", name)
	}

	dir := b.resolvePath(b.cfg.ConfigsDir)
	for _, ext := range configExtensions {
		path := filepath.Join(dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return b.loadConfigurationFile(path)
		}
	}
	return PromptConfiguration{}, ValidationResult{}, fmt.Errorf("%w: %s in %s", ErrConfigurationNotFound, name, dir)
}

// ListConfigurations returns the configuration names available under the
// configs directory, sorted.
func (b *Builder) ListConfigurations() ([]string, error) {
	dir := b.resolvePath(b.cfg.ConfigsDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list configs dir: %w", err)
	}

	seen := make(map[string]struct{})
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if !isConfigExtension(ext) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ext)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (b *Builder) loadConfigurationFile(path string) (PromptConfiguration, ValidationResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return PromptConfiguration{}, ValidationResult{}, fmt.Errorf("%w: %s", ErrConfigurationNotFound, path)
		}
		return PromptConfiguration{}, ValidationResult{}, fmt.Errorf("read configuration file %s: %w", path, err)
	}
	cfg, result := DecodeConfiguration(data)
	return cfg, result, nil
}

func isConfigExtension(ext string) bool {
	for _, known := range configExtensions {
		if ext == known {
			return true
		}
	}
	return false
}
