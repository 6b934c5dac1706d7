package tutor

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/kayz/syllabus/internal/gate"
	"github.com/kayz/syllabus/internal/logger"
	"github.com/kayz/syllabus/internal/promptbuild"
	"github.com/kayz/syllabus/internal/provider"
)

var errShortSummary = errors.New("AI response too short or empty")

// SummaryResponse is the outcome of Summarize.
type SummaryResponse struct {
	Summary  string      `json:"summary"`
	Blocked  bool        `json:"blocked"`
	Reason   gate.Reason `json:"reason,omitempty"`
	Fallback bool        `json:"fallback,omitempty"`
}

const (
	rateLimitSummary = "The AI service is currently experiencing high demand. Please wait a moment and try generating the summary again. The syllabus content is ready for analysis once the service is available."
	networkSummary   = "There was a network issue while generating the syllabus summary. Please check your connection and try again. The content appears to be valid educational material."
	contentSummary   = "The syllabus content couldn't be processed due to content restrictions. Please ensure the material contains standard academic content like learning objectives, course topics, and educational outcomes."
	genericSummary   = `## Course Summary

I encountered an issue generating a detailed summary for this syllabus. However, based on the provided content, this appears to be educational course material.

## Key Points
- This course covers important academic concepts and learning objectives
- Students will develop both theoretical knowledge and practical skills
- The curriculum is designed to meet educational standards and learning outcomes

## Next Steps
- Try regenerating the summary in a moment
- Ensure the syllabus content includes clear learning objectives
- Verify that all course topics and assessment methods are included

Please try generating the summary again, or contact support if the issue persists. The syllabus content appears to be properly formatted educational material.`
)

func summaryFallback(err error) string {
	switch provider.Classify(err) {
	case provider.KindRateLimit:
		return rateLimitSummary
	case provider.KindNetwork:
		return networkSummary
	case provider.KindContent:
		return contentSummary
	default:
		return genericSummary
	}
}

func summaryConfiguration() promptbuild.PromptConfiguration {
	persona := promptbuild.PersonaPresets["PROFESSOR"]
	persona.Role = "You are an expert academic curriculum analyst specializing in educational content summarization"
	persona.Expertise = []string{
		"Identifying core learning objectives",
		"Skill development outcomes",
		"Knowledge domains across various academic disciplines",
	}

	return promptbuild.PromptConfiguration{
		Persona: persona,
		Task: promptbuild.TaskSpec{
			Action: "Analyze the following syllabus and create a comprehensive summary",
			Objectives: []string{
				"Identify the subject area and academic level",
				"Extract core learning objectives and outcomes",
				"Categorize knowledge domains and skill areas",
				"Highlight practical applications and assessments",
			},
			Deliverables: []string{
				"Course overview with subject area and level",
				"4-6 primary learning goals focusing on student outcomes",
				"Main topics and concepts with theoretical foundations",
				"Skills development areas and assessment methods",
			},
			SuccessCriteria: []string{
				"Summary captures the essence of what students will learn",
				"Uses clear, concise language suitable for students",
				"Prioritizes actionable learning outcomes",
				"Maintains academic tone while being accessible",
			},
		},
		Format: promptbuild.FormatSpec{
			Structure: promptbuild.StructureMarkdown,
			Requirements: []string{
				"Use clear, concise language suitable for students",
				"Use bullet points and headers for readability",
				"Maintain academic tone while being accessible",
			},
			Length: &promptbuild.LengthSpec{
				Min:    promptbuild.Int(300),
				Max:    promptbuild.Int(400),
				Target: promptbuild.Int(350),
				Unit:   promptbuild.UnitWords,
			},
			SpecialFormatting: &promptbuild.SpecialFormatting{IncludeHeaders: true, UseEmphasis: true},
		},
		Context: promptbuild.ContextSpec{
			Subject: &promptbuild.SubjectContext{
				Area:  "Academic Curriculum Analysis",
				Level: "Higher Education",
			},
			Student: &promptbuild.StudentContext{
				PriorKnowledge: "Basic understanding of educational concepts",
				LearningStyle:  "Visual and structured learning",
				Goals:          []string{"Understand course structure", "Identify learning outcomes", "Prepare for coursework"},
			},
		},
		References: promptbuild.ReferencesSpec{
			IncludeReferences: promptbuild.Bool(false),
			CitationStyle:     promptbuild.CitationSimple,
		},
	}
}

func summaryUserMessage(syllabusText string) string {
	return "Please analyze the following syllabus text and create a comprehensive summary:\n\n**SYLLABUS TEXT:**\n" + syllabusText + `

Create a well-structured summary that includes:

## Course Overview
- Subject area and level
- Duration and credit information (if available)

## Key Learning Objectives
- List 4-6 primary learning goals
- Focus on what students will be able to DO after completion

## Core Knowledge Areas
- Main topics and concepts covered
- Theoretical foundations
- Practical applications

## Skills Development
- Technical skills gained
- Analytical and critical thinking abilities
- Professional competencies

## Assessment Methods
- Types of evaluations mentioned
- Projects and practical work

Generate the summary now, ensuring it captures the essence of what students will learn and achieve in this course.`
}

// Summarize produces a student-facing summary of a syllabus. Unsuitable input
// and unsuitable output are refused; provider failures yield a fallback.
func (s *Service) Summarize(ctx context.Context, syllabusText string) (SummaryResponse, error) {
	ctx, span := s.tracer.Start(ctx, "tutor.Summarize")
	defer span.End()

	if d := s.gate.ScreenSyllabus(syllabusText); d.Blocked {
		logger.Info("[Tutor] syllabus rejected (%s): %s", d.Reason, d.Detail)
		span.SetAttributes(attribute.String("tutor.syllabus_block", d.Detail))
		return SummaryResponse{Summary: d.RefusalText, Blocked: true, Reason: d.Reason}, nil
	}

	cfg := summaryConfiguration()
	compiled, _, err := s.builder.Build(promptbuild.BuildRequest{
		Name:          "summarize",
		Configuration: &cfg,
		UserMessage:   summaryUserMessage(syllabusText),
	})
	if err != nil {
		return SummaryResponse{}, err
	}

	resp, err := s.provider.Chat(ctx, provider.ChatRequest{
		SystemPrompt: compiled.SystemPrompt,
		UserPrompt:   compiled.UserPrompt,
		Model:        s.model,
		Temperature:  0.3,
		TopP:         0.85,
		MaxTokens:    1024,
	})
	if err == nil && utf8.RuneCountInString(strings.TrimSpace(resp.Content)) < s.gate.Options().SummaryMinChars {
		err = errShortSummary
	}
	if err != nil {
		logger.Error("[Tutor] syllabus summarization failed: %v", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return SummaryResponse{Summary: summaryFallback(err), Fallback: true}, nil
	}

	if d := s.gate.ScreenSummary(resp.Content); d.Blocked {
		logger.Warn("[Tutor] summary rejected: %s", d.Detail)
		return SummaryResponse{Summary: d.RefusalText, Blocked: true, Reason: d.Reason}, nil
	}

	span.SetStatus(codes.Ok, "")
	return SummaryResponse{Summary: strings.TrimSpace(resp.Content)}, nil
}
