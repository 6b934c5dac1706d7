package promptbuild

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Persona presets.
var PersonaPresets = map[string]PersonaSpec{
	"PROFESSOR": {
		Role:          "Explain like a professor of Computer Science",
		Expertise:     []string{"Deep subject knowledge", "Academic communication", "Curriculum design"},
		Tone:          ToneProfessor,
		AudienceLevel: AudienceIntermediate,
	},
	"MENTOR": {
		Role:          "Act as a mentor guiding a beginner",
		Expertise:     []string{"Patient guidance", "Step-by-step teaching", "Encouragement"},
		Tone:          ToneMentor,
		AudienceLevel: AudienceBeginner,
	},
	"PEER": {
		Role:          "Be a peer student simplifying the content",
		Expertise:     []string{"Relatable explanations", "Peer-level communication"},
		Tone:          TonePeer,
		AudienceLevel: AudienceIntermediate,
	},
	"TUTOR": {
		Role:          "Act as an experienced tutor",
		Expertise:     []string{"Clear explanations", "Practice problems", "Concept reinforcement"},
		Tone:          ToneTutor,
		AudienceLevel: AudienceMixed,
	},
}

// Task presets.
var TaskPresets = map[string]TaskSpec{
	"SUMMARIZE": {
		Action:       "Summarize this module in simple terms",
		Objectives:   []string{"Extract key concepts", "Identify main learning goals", "Highlight important points"},
		Deliverables: []string{"Clear summary", "Key takeaways", "Learning objectives"},
	},
	"GENERATE_QUESTIONS": {
		Action:       "Generate beyond syllabus questions",
		Objectives:   []string{"Create challenging questions", "Test deep understanding", "Encourage critical thinking"},
		Deliverables: []string{"Question set", "Answer guidelines", "Difficulty levels"},
	},
	"COMPARE": {
		Action:       "Compare different curricula or concepts",
		Objectives:   []string{"Identify similarities", "Highlight differences", "Analyze strengths and weaknesses"},
		Deliverables: []string{"Comparison analysis", "Summary table", "Recommendations"},
	},
	"EXPLAIN": {
		Action:       "Explain complex concepts clearly",
		Objectives:   []string{"Break down complexity", "Provide examples", "Ensure understanding"},
		Deliverables: []string{"Step-by-step explanation", "Examples", "Practice problems"},
	},
}

// Format presets.
var FormatPresets = map[string]FormatSpec{
	"BULLETED_LIST": {
		Structure:         StructureBulletedList,
		Requirements:      []string{"Use clear bullet points", "Organize by importance", "Keep items concise"},
		SpecialFormatting: &SpecialFormatting{IncludeHeaders: true},
	},
	"STEP_BY_STEP": {
		Structure:         StructureStepByStep,
		Requirements:      []string{"Number each step clearly", "Provide detailed instructions", "Include examples"},
		SpecialFormatting: &SpecialFormatting{IncludeHeaders: true, UseCodeBlocks: true},
	},
	"TABLE_FORMAT": {
		Structure:         StructureTable,
		Requirements:      []string{"Clear column headers", "Consistent row formatting", "Easy to read"},
		SpecialFormatting: &SpecialFormatting{IncludeTables: true, IncludeHeaders: true},
	},
	"MARKDOWN_COMPREHENSIVE": {
		Structure:    StructureMarkdown,
		Requirements: []string{"Use proper markdown syntax", "Include code blocks where needed", "Clear section headers"},
		SpecialFormatting: &SpecialFormatting{
			UseCodeBlocks:  true,
			IncludeTables:  true,
			IncludeHeaders: true,
			UseEmphasis:    true,
		},
	},
}

// QuickFormat assembles a configuration from preset names. Preset slices are
// copied so callers may modify the result.
func QuickFormat(persona, task, format string, ctx ContextSpec, includeReferences bool) (PromptConfiguration, error) {
	p, ok := PersonaPresets[strings.ToUpper(persona)]
	if !ok {
		return PromptConfiguration{}, fmt.Errorf("unknown persona preset %q (have %s)", persona, presetNames(PersonaPresets))
	}
	t, ok := TaskPresets[strings.ToUpper(task)]
	if !ok {
		return PromptConfiguration{}, fmt.Errorf("unknown task preset %q (have %s)", task, presetNames(TaskPresets))
	}
	f, ok := FormatPresets[strings.ToUpper(format)]
	if !ok {
		return PromptConfiguration{}, fmt.Errorf("unknown format preset %q (have %s)", format, presetNames(FormatPresets))
	}

	p.Expertise = cloneStrings(p.Expertise)
	t.Objectives = cloneStrings(t.Objectives)
	t.Deliverables = cloneStrings(t.Deliverables)
	t.SuccessCriteria = cloneStrings(t.SuccessCriteria)
	f.Requirements = cloneStrings(f.Requirements)
	if f.SpecialFormatting != nil {
		sf := *f.SpecialFormatting
		f.SpecialFormatting = &sf
	}

	now := time.Now()
	return PromptConfiguration{
		Persona: p,
		Task:    t,
		Format:  f,
		Context: ctx,
		References: ReferencesSpec{
			IncludeReferences: Bool(includeReferences),
			CitationStyle:     CitationSimple,
			PreferredSources:  []string{"MIT OCW", "Stanford", "Official Documentation"},
		},
		Metadata: &Metadata{
			Version:      FormatVersion,
			CreatedAt:    now,
			LastModified: now,
			Tags:         []string{"quickFormat"},
		},
	}, nil
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

func presetNames[T any](m map[string]T) string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
