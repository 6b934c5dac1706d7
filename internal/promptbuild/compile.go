package promptbuild

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Compile turns a configuration and a user message into a system and a user
// prompt. The prompt bodies depend only on the arguments; the timestamp is
// confined to Metadata. A non-empty systemOverride is prepended to the system
// prompt, separated by a blank line.
func Compile(cfg PromptConfiguration, userMessage, systemOverride string) CompiledPrompt {
	return compileAt(cfg, userMessage, systemOverride, time.Now())
}

func compileAt(cfg PromptConfiguration, userMessage, systemOverride string, now time.Time) CompiledPrompt {
	systemPrompt := buildSystemPrompt(cfg.Persona, cfg.Format)
	if systemOverride != "" {
		systemPrompt = systemOverride + "\n\n" + systemPrompt
	}

	return CompiledPrompt{
		SystemPrompt: systemPrompt,
		UserPrompt:   buildUserPrompt(cfg.Task, cfg.Context, cfg.References, userMessage),
		Metadata: CompiledMetadata{
			FormatVersion: FormatVersion,
			Components:    components(cfg),
			Timestamp:     now,
		},
	}
}

// Fingerprint identifies the prompt bodies, ignoring the timestamp.
func (p CompiledPrompt) Fingerprint() string {
	h := sha256.Sum256([]byte(p.Metadata.FormatVersion + "|" + p.SystemPrompt + "|" + p.UserPrompt))
	return hex.EncodeToString(h[:])
}

type lines []string

func (l *lines) add(s ...string) { *l = append(*l, s...) }

func (l *lines) bullets(marker string, items []string) {
	for _, item := range items {
		*l = append(*l, marker+" "+item)
	}
}

func (l lines) String() string { return strings.Join(l, "\n") }

func buildSystemPrompt(persona PersonaSpec, format FormatSpec) string {
	var out lines
	out.add(persona.Role)

	if len(persona.Expertise) > 0 {
		out.add("\nYour key strengths: " + strings.Join(persona.Expertise, ", ") + ".")
	}
	if d, ok := persona.Tone.Describe(); ok {
		out.add("\n" + d)
	}
	if d, ok := persona.AudienceLevel.Describe(); ok {
		out.add("\n" + d)
	}

	out.add("")
	out.add("\n**RESPONSE STYLE:**")
	if d, ok := format.Structure.Describe(); ok {
		out.add(d)
	}

	if len(format.Requirements) > 0 {
		out.add("\nKey things to keep in mind:")
		out.bullets("•", format.Requirements)
	}

	if format.Length != nil {
		out.add(lengthSentence(*format.Length))
	}

	if phrases := specialFormattingPhrases(format.SpecialFormatting); len(phrases) > 0 {
		out.add("Special formatting: " + strings.Join(phrases, ", ") + ".")
	}

	return out.String()
}

// lengthSentence renders whichever bounds are present, e.g.
// "Target length: 350 (minimum 300, maximum 400) words."
func lengthSentence(l LengthSpec) string {
	target := "flexible"
	if l.Target != nil {
		target = strconv.Itoa(*l.Target)
	}

	var bounds []string
	if l.Min != nil {
		bounds = append(bounds, fmt.Sprintf("minimum %d", *l.Min))
	}
	if l.Max != nil {
		bounds = append(bounds, fmt.Sprintf("maximum %d", *l.Max))
	}

	var b strings.Builder
	b.WriteString("Target length: ")
	b.WriteString(target)
	if len(bounds) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(bounds, ", "))
		b.WriteString(")")
	}
	if l.Unit != "" {
		b.WriteString(" ")
		b.WriteString(string(l.Unit))
	}
	b.WriteString(".")
	return b.String()
}

func buildUserPrompt(task TaskSpec, ctx ContextSpec, refs ReferencesSpec, userMessage string) string {
	var out lines

	out.add("**TASK:**", task.Action)

	if len(task.Objectives) > 0 {
		out.add("\n**OBJECTIVES:**")
		out.bullets("-", task.Objectives)
	}
	if len(task.Deliverables) > 0 {
		out.add("\n**EXPECTED DELIVERABLES:**")
		out.bullets("-", task.Deliverables)
	}

	if !ctx.isEmpty() {
		out.add("\n**CONTEXT:**")
		renderContext(&out, ctx)
	}

	if refs.includes() {
		out.add("\n**REFERENCES:**")
		renderReferences(&out, refs)
	}

	out.add("\n**USER REQUEST:**", userMessage)

	if len(task.SuccessCriteria) > 0 {
		out.add("\n**SUCCESS CRITERIA:**")
		out.bullets("-", task.SuccessCriteria)
	}

	return out.String()
}

type field struct {
	label string
	value string
}

func renderGroup(out *lines, label string, fields []field) {
	out.add(label + ":")
	for _, f := range fields {
		if f.value != "" {
			out.add("- " + f.label + ": " + f.value)
		}
	}
}

func renderContext(out *lines, ctx ContextSpec) {
	if a := ctx.Academic; !a.isEmpty() {
		renderGroup(out, "Academic Context", []field{
			{"Course", a.Course},
			{"Semester", a.Semester},
			{"University", a.University},
			{"Module", a.Module},
			{"Syllabus Context", a.Syllabus},
		})
	}
	if s := ctx.Subject; !s.isEmpty() {
		renderGroup(out, "Subject Context", []field{
			{"Area", s.Area},
			{"Level", s.Level},
			{"Prerequisites", strings.Join(s.Prerequisites, ", ")},
			{"Focus", s.Focus},
		})
	}
	if s := ctx.Student; !s.isEmpty() {
		renderGroup(out, "Student Context", []field{
			{"Prior Knowledge", s.PriorKnowledge},
			{"Learning Style", s.LearningStyle},
			{"Known Difficulties", strings.Join(s.Difficulties, ", ")},
			{"Learning Goals", strings.Join(s.Goals, ", ")},
		})
	}
	if a := ctx.Additional; !a.isEmpty() {
		renderGroup(out, "Additional Context", []field{
			{"Time Constraints", a.TimeConstraints},
			{"Available Resources", strings.Join(a.Resources, ", ")},
			{"Additional Constraints", strings.Join(a.Constraints, ", ")},
		})
	}
}

func renderReferences(out *lines, refs ReferencesSpec) {
	if refs.CitationStyle != "" {
		out.add("Use " + string(refs.CitationStyle) + " citation style.")
	}
	if len(refs.PreferredSources) > 0 {
		out.add("Preferred sources: " + strings.Join(refs.PreferredSources, ", ") + ".")
	}
	if len(refs.SpecificSources) > 0 {
		out.add("Specific sources to consider:")
		for _, src := range refs.SpecificSources {
			out.add("- " + formatSource(src))
		}
	}
	out.add("Please include relevant references and citations in your response.")
}

func formatSource(src SourceSpec) string {
	text := src.Name + " (" + string(src.Type) + ")"
	if src.Author != "" {
		text += " by " + src.Author
	}
	if src.URL != "" {
		text += " - " + src.URL
	}
	return text
}

// components lists the top-level configuration keys that carry content.
func components(cfg PromptConfiguration) []string {
	var out []string
	if cfg.Persona.Role != "" || len(cfg.Persona.Expertise) > 0 || cfg.Persona.Tone != "" || cfg.Persona.AudienceLevel != "" {
		out = append(out, "persona")
	}
	if cfg.Task.Action != "" || len(cfg.Task.Objectives) > 0 || len(cfg.Task.Deliverables) > 0 || len(cfg.Task.SuccessCriteria) > 0 {
		out = append(out, "task")
	}
	if cfg.Format.Structure != "" || len(cfg.Format.Requirements) > 0 || cfg.Format.Length != nil || cfg.Format.SpecialFormatting != nil {
		out = append(out, "format")
	}
	if !cfg.Context.isEmpty() {
		out = append(out, "context")
	}
	r := cfg.References
	if r.IncludeReferences != nil || r.CitationStyle != "" || len(r.PreferredSources) > 0 || len(r.SpecificSources) > 0 {
		out = append(out, "references")
	}
	if cfg.Metadata != nil {
		out = append(out, "metadata")
	}
	return out
}
