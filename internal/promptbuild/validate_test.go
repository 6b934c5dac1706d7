package promptbuild

import (
	"strings"
	"testing"
)

func minimalValid() PromptConfiguration {
	return PromptConfiguration{
		Persona:    PersonaSpec{Role: "Act as an experienced tutor"},
		Task:       TaskSpec{Action: "Explain process scheduling"},
		Format:     FormatSpec{Structure: StructureMarkdown},
		Context:    ContextSpec{Subject: &SubjectContext{Area: "Operating Systems"}},
		References: ReferencesSpec{IncludeReferences: Bool(false)},
	}
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func containsPrefix(list []string, prefix string) bool {
	for _, s := range list {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

func TestValidateMinimalValid(t *testing.T) {
	res := Validate(minimalValid())
	if !res.IsValid {
		t.Fatalf("expected valid, got errors %v", res.Errors)
	}
	if res.Errors == nil || len(res.Errors) != 0 {
		t.Fatalf("expected empty non-nil errors, got %#v", res.Errors)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", res.Warnings)
	}
}

func TestValidateEmptyRole(t *testing.T) {
	res := Validate(PromptConfiguration{
		Persona:    PersonaSpec{Role: ""},
		Task:       TaskSpec{Action: "x"},
		Format:     FormatSpec{Structure: StructureMarkdown},
		References: ReferencesSpec{IncludeReferences: Bool(true)},
	})
	if res.IsValid {
		t.Fatalf("expected invalid")
	}
	if !contains(res.Errors, "Persona role is required") {
		t.Fatalf("missing role error in %v", res.Errors)
	}
	if !contains(res.Warnings, "Task action description seems too short for optimal results") {
		t.Fatalf("missing short action warning in %v", res.Warnings)
	}
	if containsPrefix(res.Warnings, "Persona role description") {
		t.Fatalf("empty role should not also be reported as short: %v", res.Warnings)
	}
}

func TestValidateZeroValueReportsEverything(t *testing.T) {
	res := Validate(PromptConfiguration{})
	for _, want := range []string{
		"Persona role is required",
		"Task action is required",
		"Format structure is required",
		"References includeReferences field must be a boolean",
	} {
		if !contains(res.Errors, want) {
			t.Fatalf("missing %q in %v", want, res.Errors)
		}
	}
	if !contains(res.Warnings, "Subject area in context is recommended for better results") {
		t.Fatalf("missing subject warning in %v", res.Warnings)
	}
	if res.IsValid != (len(res.Errors) == 0) {
		t.Fatalf("IsValid inconsistent with errors")
	}
}

func TestValidateRules(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*PromptConfiguration)
		wantError string
		wantWarn  string
	}{
		{
			name: "min greater than max",
			mutate: func(c *PromptConfiguration) {
				c.Format.Length = &LengthSpec{Min: Int(400), Max: Int(300), Unit: UnitWords}
			},
			wantError: "Minimum length cannot be greater than maximum length",
		},
		{
			name: "length without unit",
			mutate: func(c *PromptConfiguration) {
				c.Format.Length = &LengthSpec{Target: Int(100)}
			},
			wantError: "Format length unit is required",
		},
		{
			name:      "unknown unit",
			mutate:    func(c *PromptConfiguration) { c.Format.Length = &LengthSpec{Unit: "pages"} },
			wantError: `Format length unit "pages" is not supported`,
		},
		{
			name:      "unknown structure",
			mutate:    func(c *PromptConfiguration) { c.Format.Structure = "haiku" },
			wantError: `Format structure "haiku" is not supported`,
		},
		{
			name:      "unknown tone",
			mutate:    func(c *PromptConfiguration) { c.Persona.Tone = "sarcastic" },
			wantError: `Persona tone "sarcastic" is not supported`,
		},
		{
			name:      "unknown audience",
			mutate:    func(c *PromptConfiguration) { c.Persona.AudienceLevel = "expert" },
			wantError: `Persona audience level "expert" is not supported`,
		},
		{
			name:     "json without requirements",
			mutate:   func(c *PromptConfiguration) { c.Format.Structure = StructureJSON },
			wantWarn: "JSON format should include specific structure requirements",
		},
		{
			name:     "short role",
			mutate:   func(c *PromptConfiguration) { c.Persona.Role = "Tutor" },
			wantWarn: "Persona role description seems too short for optimal results",
		},
		{
			name:     "missing subject area",
			mutate:   func(c *PromptConfiguration) { c.Context.Subject = &SubjectContext{Level: "intro"} },
			wantWarn: "Subject area in context is recommended for better results",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := minimalValid()
			tc.mutate(&cfg)
			res := Validate(cfg)
			if tc.wantError != "" {
				if res.IsValid || !contains(res.Errors, tc.wantError) {
					t.Fatalf("expected error %q, got %+v", tc.wantError, res)
				}
			}
			if tc.wantWarn != "" {
				if !res.IsValid {
					t.Fatalf("warning case should stay valid, got errors %v", res.Errors)
				}
				if !contains(res.Warnings, tc.wantWarn) {
					t.Fatalf("expected warning %q, got %v", tc.wantWarn, res.Warnings)
				}
			}
		})
	}
}

func TestValidateEqualBoundsAllowed(t *testing.T) {
	cfg := minimalValid()
	cfg.Format.Length = &LengthSpec{Min: Int(300), Max: Int(300), Unit: UnitWords}
	if res := Validate(cfg); !res.IsValid {
		t.Fatalf("expected valid, got %v", res.Errors)
	}
}

func TestDecodeConfigurationValidYAML(t *testing.T) {
	doc := `
persona:
  role: Act as an experienced tutor
  tone: tutor
task:
  action: Explain process scheduling
format:
  structure: paragraph
  length:
    min: 80
    max: 150
    unit: words
context:
  subject:
    area: Operating Systems
references:
  includeReferences: false
`
	cfg, res := DecodeConfiguration([]byte(doc))
	if !res.IsValid {
		t.Fatalf("expected valid, got %v", res.Errors)
	}
	if cfg.Persona.Tone != ToneTutor || cfg.Format.Length == nil || *cfg.Format.Length.Max != 150 {
		t.Fatalf("decoded configuration mismatch: %+v", cfg)
	}
}

func TestDecodeConfigurationValidJSON(t *testing.T) {
	doc := `{"persona":{"role":"Act as an experienced tutor"},"task":{"action":"Explain process scheduling"},
"format":{"structure":"bulleted-list"},"context":{"subject":{"area":"OS"}},"references":{"includeReferences":true,"citationStyle":"IEEE"}}`
	cfg, res := DecodeConfiguration([]byte(doc))
	if !res.IsValid {
		t.Fatalf("expected valid, got %v", res.Errors)
	}
	if !cfg.References.includes() || cfg.References.CitationStyle != CitationIEEE {
		t.Fatalf("references not decoded: %+v", cfg.References)
	}
}

func TestDecodeConfigurationMalformed(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantError string
	}{
		{"empty", "   \n", "Configuration document is empty"},
		{"syntax error", "persona: [unclosed", "Malformed configuration"},
		{"sequence root", "- a\n- b\n", "Malformed configuration"},
		{"scalar root", "42", "Malformed configuration"},
		{"non boolean includeReferences", "references:\n  includeReferences: maybe\n", "References includeReferences field must be a boolean"},
		{"role is a mapping", "persona:\n  role:\n    nested: true\n", "Persona role is required"},
		{"length is a string", "format:\n  structure: table\n  length: long\n", "Malformed configuration"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, res := DecodeConfiguration([]byte(tc.doc))
			if res.IsValid {
				t.Fatalf("expected invalid result")
			}
			if !containsPrefix(res.Errors, tc.wantError) {
				t.Fatalf("expected error starting with %q, got %v", tc.wantError, res.Errors)
			}
			if res.IsValid != (len(res.Errors) == 0) {
				t.Fatalf("IsValid inconsistent with errors")
			}
		})
	}
}

func TestDecodeConfigurationMistypedOptionalFields(t *testing.T) {
	tests := []struct {
		name       string
		doc        string
		wantError  string
		rejectErrs []string
	}{
		{
			name:      "yaml string includeReferences",
			doc:       "references:\n  includeReferences: maybe\n",
			wantError: "References includeReferences field must be a boolean",
		},
		{
			name:      "json quoted includeReferences",
			doc:       `{"references":{"includeReferences":"true"}}`,
			wantError: "References includeReferences field must be a boolean",
		},
		{
			name:       "length is a string",
			doc:        "format:\n  structure: table\n  length: long\n",
			wantError:  "Malformed configuration",
			rejectErrs: []string{"Format length unit is required"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, res := DecodeConfiguration([]byte(tc.doc))
			if !containsPrefix(res.Errors, tc.wantError) {
				t.Fatalf("expected error starting with %q, got %v", tc.wantError, res.Errors)
			}
			for _, bad := range tc.rejectErrs {
				if containsPrefix(res.Errors, bad) {
					t.Fatalf("unexpected error %q in %v", bad, res.Errors)
				}
			}
			if cfg.References.IncludeReferences != nil && strings.Contains(tc.doc, "includeReferences") {
				t.Fatalf("mistyped includeReferences decoded as %v", *cfg.References.IncludeReferences)
			}
			if strings.Contains(tc.doc, "length: long") && cfg.Format.Length != nil {
				t.Fatalf("mistyped length decoded as %+v", cfg.Format.Length)
			}
		})
	}
}

func TestDecodeConfigurationKeepsWellTypedFieldsOnTypeError(t *testing.T) {
	doc := "persona:\n  role: [not, a, string]\nformat:\n  structure: paragraph\n  length:\n    min: 10\n    max: lots\n    unit: words\nreferences:\n  includeReferences: true\n"
	cfg, res := DecodeConfiguration([]byte(doc))
	if res.IsValid {
		t.Fatalf("expected invalid result")
	}
	if cfg.References.IncludeReferences == nil || !*cfg.References.IncludeReferences {
		t.Fatalf("well-typed includeReferences lost: %+v", cfg.References)
	}
	if cfg.Format.Length == nil || cfg.Format.Length.Min == nil || *cfg.Format.Length.Min != 10 {
		t.Fatalf("well-typed length min lost: %+v", cfg.Format.Length)
	}
	if cfg.Format.Length.Max != nil {
		t.Fatalf("mistyped length max decoded as %d", *cfg.Format.Length.Max)
	}
}

func TestValidationResultMerge(t *testing.T) {
	a := newResult([]string{"e1"}, nil)
	b := newResult(nil, []string{"w1"})
	m := a.Merge(b)
	if m.IsValid || len(m.Errors) != 1 || len(m.Warnings) != 1 {
		t.Fatalf("unexpected merge result %+v", m)
	}
	if !b.Merge(newResult(nil, nil)).IsValid {
		t.Fatalf("merge of valid results should stay valid")
	}
}
