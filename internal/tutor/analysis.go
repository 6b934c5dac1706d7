package tutor

import (
	"fmt"
	"strings"

	"github.com/kayz/syllabus/internal/promptbuild"
)

// defaultSyllabusContext is what callers send when no syllabus was selected.
// It does not count as specific context.
const defaultSyllabusContext = "Educational content"

var (
	detailKeywords    = []string{"detailed", "comprehensive", "thorough", "in-depth", "elaborate", "explain thoroughly", "break down", "step by step"}
	simpleKeywords    = []string{"simple", "basic", "easy", "beginner", "eli5", "explain like", "quick", "briefly"}
	exampleKeywords   = []string{"example", "examples", "show me", "demonstrate", "instance", "case study"}
	practicalKeywords = []string{"practical", "real-world", "application", "use case", "how to use", "implementation"}
)

// requestStyle is what the student appears to be asking for.
type requestStyle struct {
	Detailed  bool
	Simple    bool
	Examples  bool
	Practical bool
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func analyzeRequest(message string) requestStyle {
	lower := strings.ToLower(message)
	return requestStyle{
		Detailed:  containsAny(lower, detailKeywords),
		Simple:    containsAny(lower, simpleKeywords),
		Examples:  containsAny(lower, exampleKeywords),
		Practical: containsAny(lower, practicalKeywords),
	}
}

func hasSpecificContext(subjectArea, syllabusContext string) bool {
	return strings.TrimSpace(subjectArea) != "" ||
		(strings.TrimSpace(syllabusContext) != "" && syllabusContext != defaultSyllabusContext)
}

// pick returns simple, detailed or neither, with simple taking precedence.
func pick[T any](style requestStyle, simple, detailed, neither T) T {
	switch {
	case style.Simple:
		return simple
	case style.Detailed:
		return detailed
	default:
		return neither
	}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func chatConfiguration(req ChatRequest, style requestStyle, specific bool) promptbuild.PromptConfiguration {
	var objectives []string
	if style.Simple {
		objectives = append(objectives, "Use everyday language and simple terms", "Avoid jargon and complex terminology")
	}
	if style.Detailed {
		objectives = append(objectives, "Provide thorough coverage with multiple perspectives", "Include technical details and nuanced explanations")
	}
	if style.Examples {
		objectives = append(objectives, "Include multiple relevant examples", "Use concrete illustrations")
	} else {
		objectives = append(objectives, "Include at least one relevant example")
	}
	if style.Practical {
		objectives = append(objectives, "Focus on real-world applications", "Show practical implementation")
	}
	if specific {
		objectives = append(objectives,
			"Base your answer *exclusively* on the provided context.",
			"Do not use general knowledge to answer questions.",
			"If the user's question is off-topic, state that you cannot answer and redirect them.",
		)
	} else {
		objectives = append(objectives, "Maintain natural conversation flow", "Integrate syllabus context appropriately")
	}

	deliverables := []string{pick(style, "Simple, clear explanation in everyday language", "Comprehensive educational response", "Comprehensive educational response")}
	if style.Examples {
		deliverables = append(deliverables, "Multiple concrete examples")
	} else {
		deliverables = append(deliverables, "Relevant examples")
	}
	deliverables = append(deliverables, "Natural, engaging communication style")

	goals := []string{pick(style, "Understand basic concepts clearly", "Understand concepts thoroughly", "Understand concepts thoroughly")}
	if style.Practical {
		goals = append(goals, "Apply knowledge in real situations")
	}
	goals = append(goals, "Feel confident about the topic")

	learningStyle := "Conversational"
	if style.Examples {
		learningStyle = "Visual and example-driven"
	}

	return promptbuild.PromptConfiguration{
		Persona: promptbuild.PersonaSpec{
			Role: pick(style,
				"You are a friendly educational AI assistant who excels at breaking down complex topics into simple, easy-to-understand explanations and you act as a focused academic tutor",
				"You are an expert educational AI assistant who provides comprehensive, thorough explanations with deep insights",
				"You are a conversational educational AI assistant who acts as a focused academic tutor",
			),
			Expertise: []string{
				"Strictly adhering to the established academic topic.",
				"Identifying and redirecting off-topic or out-of-scope questions.",
				"Adapting explanations to user's knowledge level",
				"Making complex concepts accessible",
				"Providing relevant examples and analogies",
			},
			Tone:          pick(style, promptbuild.ToneCasual, promptbuild.ToneProfessor, promptbuild.ToneMentor),
			AudienceLevel: pick(style, promptbuild.AudienceBeginner, promptbuild.AudienceAdvanced, promptbuild.AudienceMixed),
		},
		Task: promptbuild.TaskSpec{
			Action:       chatAction(req, specific),
			Objectives:   objectives,
			Deliverables: deliverables,
		},
		Format: promptbuild.FormatSpec{
			Structure: promptbuild.StructureParagraph,
			Requirements: []string{
				"Write in natural, conversational style like ChatGPT",
				"Use flowing paragraphs with smooth transitions",
				pick(style, "Use simple language and short sentences", "Use appropriate complexity for the topic", "Use appropriate complexity for the topic"),
				"Sound natural and engaging, not robotic or overly structured",
			},
			Length: &promptbuild.LengthSpec{
				Min:    promptbuild.Int(pick(style, 80, 200, 120)),
				Max:    promptbuild.Int(pick(style, 150, 400, 280)),
				Target: promptbuild.Int(pick(style, 120, 300, 200)),
				Unit:   promptbuild.UnitWords,
			},
			SpecialFormatting: &promptbuild.SpecialFormatting{UseEmphasis: true},
		},
		Context: promptbuild.ContextSpec{
			Academic: &promptbuild.AcademicContext{
				Syllabus: orDefault(req.SyllabusContext, defaultSyllabusContext),
			},
			Subject: &promptbuild.SubjectContext{
				Area:  orDefault(req.SubjectArea, "Academic topics"),
				Level: pick(style, "Beginner-friendly", "Higher Education", "Higher Education"),
			},
			Student: &promptbuild.StudentContext{
				PriorKnowledge: pick(style, "Minimal - explain from basics", "Good foundation - can handle complexity", "Variable"),
				LearningStyle:  learningStyle,
				Goals:          goals,
			},
		},
		References: promptbuild.ReferencesSpec{
			IncludeReferences: promptbuild.Bool(false),
			CitationStyle:     promptbuild.CitationSimple,
		},
	}
}

func chatAction(req ChatRequest, specific bool) string {
	if !specific {
		return "Provide a natural, conversational explanation that feels engaging and informative, adapting to the user's needs."
	}
	return fmt.Sprintf(`You are a Retrieval-Augmented Generation (RAG) assistant. Your knowledge is strictly limited to the provided context. Your task is to answer the user's question **only using the information from the 'CONTEXT' section below**.
1. First, analyze the user's question: "%s".
2. Next, review the provided context: **Subject: %s** and **Syllabus: %s**.
3. If the question can be answered directly using this context, provide a helpful and comprehensive answer based *only* on that information.
4. If the question is outside the scope of the provided context, you **MUST NOT** answer it. Instead, you must state that the question is outside the current topic and politely guide the user back. For example: "That's an interesting question, but it falls outside our current focus on %s. I can only provide information based on the established subject matter. Shall we continue our discussion?"`,
		req.Message, req.SubjectArea, req.SyllabusContext, orDefault(req.SubjectArea, "the topic"))
}

func styleDirective(style requestStyle) string {
	switch {
	case style.Simple:
		return "The student is asking for a simple explanation. Please respond in a friendly, easy-to-understand way like ChatGPT would. Use everyday language, avoid jargon, and break things down into basic concepts that anyone can understand."
	case style.Detailed:
		return "The student wants a detailed, comprehensive explanation. Please provide thorough coverage with depth, multiple perspectives, and technical details as appropriate."
	case style.Examples:
		return "The student is specifically asking for examples. Please focus on providing multiple concrete, relevant examples to illustrate the concepts clearly."
	case style.Practical:
		return "The student wants to understand practical applications. Please focus on real-world uses, implementations, and how this knowledge applies in practice."
	default:
		return "Please provide a natural, conversational response like ChatGPT would - engaging, informative, and adapted to what the student is asking for."
	}
}

const conversationReminder = `

Remember to:
- Sound natural and conversational, not robotic
- Integrate any relevant syllabus context naturally
- Use encouraging, supportive language
- Make the explanation feel like a helpful conversation with a knowledgeable friend`

const coherenceGuidelines = `

**TOPIC COHERENCE GUIDELINES:**
1. **STAY ON TRACK**: Ensure your response directly addresses the educational question asked
2. **NO UNSOLICITED TANGENTS**: Don't introduce unrelated topics even if they contain similar keywords
3. **VERIFY RELEVANCE**: If the question seems to shift topics or asks about entertainment/celebrity/controversy, refuse briefly and ask them to provide an educational topic instead
4. **FACTUAL ACCURACY**: Only state facts you're confident about. If uncertain, say "I'm not completely certain about this" rather than guessing
5. **EXAMPLE RELEVANCE**: All examples must directly relate to the concept being explained - no tangential stories`

func topicConstraints(subjectArea, syllabusContext string) string {
	scope := orDefault(subjectArea, "the established academic topic")
	material := orDefault(subjectArea, "the course material")
	area := orDefault(subjectArea, "the subject area")

	var b strings.Builder
	b.WriteString("\n\n**CRITICAL CONSTRAINTS - YOU MUST FOLLOW THESE RULES:**\n")
	fmt.Fprintf(&b, "1. **TOPIC BOUNDARY ENFORCEMENT**: You are ONLY allowed to discuss %s. If the student's question mentions ANY topic outside this scope, you MUST:\n", scope)
	b.WriteString("   - Acknowledge their question briefly\n")
	b.WriteString("   - State clearly that it falls outside the current subject area\n")
	fmt.Fprintf(&b, "   - Redirect them back to %s\n", material)
	b.WriteString("   - Do NOT attempt to answer the off-topic question, even partially\n\n")
	fmt.Fprintf(&b, "2. **SYLLABUS ADHERENCE**: Your responses must be derived EXCLUSIVELY from: \"%s\"\n", syllabusContext)
	b.WriteString("   - If information is NOT in the syllabus context, say \"This specific detail isn't covered in our course material\"\n")
	b.WriteString("   - Never supplement with external knowledge that isn't in the provided context\n")
	b.WriteString("   - If asked about related but out-of-scope topics, redirect to what IS covered\n\n")
	b.WriteString("3. **ANTI-HALLUCINATION PROTOCOLS**:\n")
	b.WriteString("   - NEVER make up examples, dates, names, statistics, or technical details that aren't in the provided context\n")
	b.WriteString("   - If you're uncertain about ANY detail, explicitly state \"I'm not certain about this specific detail from the course material\"\n")
	b.WriteString("   - Do NOT infer or extrapolate beyond what's explicitly stated in the syllabus context\n")
	b.WriteString("   - If a concept isn't adequately covered in the context, say so rather than fabricating information\n\n")
	b.WriteString("4. **KEYWORD-TRIGGERED TOPIC SHIFT PREVENTION**:\n")
	fmt.Fprintf(&b, "   - Even if the student's question contains keywords that could lead to tangential topics, ALWAYS verify the question relates to %s\n", area)
	b.WriteString("   - Example: If discussing \"Python programming\" and student mentions \"snake,\" recognize they likely mean the programming language, not the animal\n")
	b.WriteString("   - If genuinely ambiguous, ask for clarification: \"Are you asking about [Topic A in our subject] or something else?\"\n\n")
	b.WriteString("5. **SCOPE VERIFICATION CHECK**: Before answering ANY question, mentally verify:\n")
	fmt.Fprintf(&b, "   - Is this question about %s?\n", area)
	fmt.Fprintf(&b, "   - Is the answer found in \"%s\"?\n", syllabusContext)
	b.WriteString("   - If NO to either, politely decline and redirect\n\n")
	b.WriteString("**EXAMPLE REDIRECTS**:\n")
	fmt.Fprintf(&b, "- \"That's an interesting question about [off-topic], but it falls outside our focus on %s. Let's stay focused on [relevant topic]. Would you like to explore [related in-scope topic] instead?\"\n", subjectArea)
	fmt.Fprintf(&b, "- \"I notice your question touches on [tangent topic], which isn't covered in our current material on %s. What I can tell you about [related in-scope concept] is...\"\n", subjectArea)
	b.WriteString("- \"That specific detail about [X] isn't covered in our syllabus. However, what we do cover about [related topic] is...\"\n\n")
	b.WriteString("If you violate any of these constraints, you are failing in your primary responsibility as an educational assistant.")
	return b.String()
}

// chatUserMessage is the turn text handed to the compiler: history, the
// question, a style directive and the topic rules.
func chatUserMessage(req ChatRequest, history []Turn, style requestStyle, specific bool) string {
	lines := make([]string, 0, len(history))
	for _, t := range history {
		lines = append(lines, fmt.Sprintf("%s: %s", t.Role, t.Content))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**CONVERSATION HISTORY:**\n%s\n\n**STUDENT QUESTION:** \"%s\"\n\n", strings.Join(lines, "\n"), req.Message)
	b.WriteString(styleDirective(style))
	b.WriteString(conversationReminder)
	if specific {
		b.WriteString(topicConstraints(req.SubjectArea, req.SyllabusContext))
	} else {
		b.WriteString(coherenceGuidelines)
	}
	return b.String()
}
