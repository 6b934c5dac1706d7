package promptbuild

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const minDescriptionLen = 10

// Validate checks a configuration for structural completeness. Every rule is
// evaluated; nothing is short-circuited. Callers decide what to do with the
// result; the compiler accepts invalid configurations.
func Validate(cfg PromptConfiguration) ValidationResult {
	var errs, warns []string

	role := strings.TrimSpace(cfg.Persona.Role)
	action := strings.TrimSpace(cfg.Task.Action)

	if role == "" {
		errs = append(errs, "Persona role is required")
	}
	if action == "" {
		errs = append(errs, "Task action is required")
	}
	if cfg.Format.Structure == "" {
		errs = append(errs, "Format structure is required")
	} else if _, ok := cfg.Format.Structure.Describe(); !ok {
		errs = append(errs, fmt.Sprintf("Format structure %q is not supported", cfg.Format.Structure))
	}
	if cfg.References.IncludeReferences == nil {
		errs = append(errs, "References includeReferences field must be a boolean")
	}

	if cfg.Persona.Tone != "" {
		if _, ok := cfg.Persona.Tone.Describe(); !ok {
			errs = append(errs, fmt.Sprintf("Persona tone %q is not supported", cfg.Persona.Tone))
		}
	}
	if cfg.Persona.AudienceLevel != "" {
		if _, ok := cfg.Persona.AudienceLevel.Describe(); !ok {
			errs = append(errs, fmt.Sprintf("Persona audience level %q is not supported", cfg.Persona.AudienceLevel))
		}
	}

	if cfg.Context.Subject == nil || strings.TrimSpace(cfg.Context.Subject.Area) == "" {
		warns = append(warns, "Subject area in context is recommended for better results")
	}

	if role != "" && len(cfg.Persona.Role) < minDescriptionLen {
		warns = append(warns, "Persona role description seems too short for optimal results")
	}
	if action != "" && len(cfg.Task.Action) < minDescriptionLen {
		warns = append(warns, "Task action description seems too short for optimal results")
	}

	if cfg.Format.Structure == StructureJSON && len(cfg.Format.Requirements) == 0 {
		warns = append(warns, "JSON format should include specific structure requirements")
	}

	if l := cfg.Format.Length; l != nil {
		if l.Min != nil && l.Max != nil && *l.Min > *l.Max {
			errs = append(errs, "Minimum length cannot be greater than maximum length")
		}
		if l.Unit == "" {
			errs = append(errs, "Format length unit is required")
		} else if !l.Unit.Valid() {
			errs = append(errs, fmt.Sprintf("Format length unit %q is not supported", l.Unit))
		}
	}

	return newResult(errs, warns)
}

func newResult(errs, warns []string) ValidationResult {
	if errs == nil {
		errs = []string{}
	}
	if warns == nil {
		warns = []string{}
	}
	return ValidationResult{
		IsValid:  len(errs) == 0,
		Errors:   errs,
		Warnings: warns,
	}
}

// Merge combines two results. The merged result is valid only when both are.
func (r ValidationResult) Merge(other ValidationResult) ValidationResult {
	errs := append(append([]string{}, r.Errors...), other.Errors...)
	warns := append(append([]string{}, r.Warnings...), other.Warnings...)
	return newResult(errs, warns)
}

// DecodeConfiguration parses a YAML or JSON document of any shape. Syntax and
// type problems are reported as validation errors alongside the Validate rules
// for whatever could be decoded; it never fails outright.
func DecodeConfiguration(data []byte) (PromptConfiguration, ValidationResult) {
	var cfg PromptConfiguration
	var decodeErrs []string

	if strings.TrimSpace(string(data)) == "" {
		decodeErrs = append(decodeErrs, "Configuration document is empty")
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			for _, e := range typeErr.Errors {
				decodeErrs = append(decodeErrs, "Malformed configuration: "+e)
			}
			clearMistyped(data, &cfg)
		} else {
			cfg = PromptConfiguration{}
			decodeErrs = append(decodeErrs, "Malformed configuration: "+err.Error())
		}
	}

	return cfg, newResult(decodeErrs, nil).Merge(Validate(cfg))
}

// clearMistyped resets optional fields that yaml.v3 allocated before a type
// check failed, so Validate sees them as absent instead of zero values.
func clearMistyped(data []byte, cfg *PromptConfiguration) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil || len(doc.Content) == 0 {
		return
	}
	root := doc.Content[0]

	if !isScalar(lookup(root, "references", "includeReferences"), "!!bool") {
		cfg.References.IncludeReferences = nil
	}

	if cfg.Format.Length != nil {
		length := lookup(root, "format", "length")
		if !isMapping(length) {
			cfg.Format.Length = nil
		} else {
			for key, ptr := range map[string]**int{
				"min":    &cfg.Format.Length.Min,
				"max":    &cfg.Format.Length.Max,
				"target": &cfg.Format.Length.Target,
			} {
				if !isScalar(lookup(length, key), "!!int") {
					*ptr = nil
				}
			}
		}
	}
	if cfg.Format.SpecialFormatting != nil && !isMapping(lookup(root, "format", "specialFormatting")) {
		cfg.Format.SpecialFormatting = nil
	}

	if cfg.Context.Academic != nil && !isMapping(lookup(root, "context", "academic")) {
		cfg.Context.Academic = nil
	}
	if cfg.Context.Subject != nil && !isMapping(lookup(root, "context", "subject")) {
		cfg.Context.Subject = nil
	}
	if cfg.Context.Student != nil && !isMapping(lookup(root, "context", "student")) {
		cfg.Context.Student = nil
	}
	if cfg.Context.Additional != nil && !isMapping(lookup(root, "context", "additional")) {
		cfg.Context.Additional = nil
	}
	if cfg.Metadata != nil && !isMapping(lookup(root, "metadata")) {
		cfg.Metadata = nil
	}
}

// lookup follows mapping keys from n and returns nil when any step is missing.
func lookup(n *yaml.Node, path ...string) *yaml.Node {
	for _, key := range path {
		if !isMapping(n) {
			return nil
		}
		var next *yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Value == key {
				next = n.Content[i+1]
				break
			}
		}
		if next == nil {
			return nil
		}
		n = next
	}
	return n
}

func isMapping(n *yaml.Node) bool {
	return n != nil && n.Kind == yaml.MappingNode
}

func isScalar(n *yaml.Node, tag string) bool {
	return n != nil && n.Kind == yaml.ScalarNode && n.ShortTag() == tag
}
