package gate

import "fmt"

const (
	genericTopicRefusal = "This is outside the current syllabus topic. I cannot discuss that and will not switch topics. Please ask about the module's content."
	genericOutRefusal   = "I cannot discuss entertainment, celebrity, or unrelated topics. Please ask about an educational concept or coursework topic."

	syllabusTooShortRefusal = "The provided syllabus text is too short or empty to generate a meaningful summary. Please provide more detailed course content including learning objectives, topics covered, and course structure."
	syllabusNotEduRefusal   = "The provided content doesn't appear to be educational syllabus material. Please provide academic course content including learning objectives, topics covered, assessment methods, and course structure for summarization."
	summaryRefusal          = "I can only summarize educational and academic content. The provided material doesn't appear to contain standard syllabus information such as learning objectives, course topics, or educational outcomes. Please provide authentic course syllabus content for summarization."
)

func subjectRefusal(subject string) string {
	return fmt.Sprintf("This is outside our current topic. I cannot discuss that and will not switch topics. Let's stay focused on %s. Please ask about concepts covered in the syllabus.", subject)
}

func subjectSuggestions(subject string) []string {
	return []string{
		fmt.Sprintf("Explain a key concept from %s", subject),
		"Summarize a section from the syllabus",
		"Ask for an example related to the module",
	}
}

func inboundRefusal(subject string) (string, []string) {
	if subject != "" {
		return subjectRefusal(subject), subjectSuggestions(subject)
	}
	return genericTopicRefusal, []string{
		"Ask about a concept from the module",
		"Request a summary of a syllabus section",
		"Ask for a practical example from the topic",
	}
}

func outboundRefusal(subject string) (string, []string) {
	if subject != "" {
		return subjectRefusal(subject), subjectSuggestions(subject)
	}
	return genericOutRefusal, []string{
		"Ask about a specific educational concept",
		"Request an explanation of a technical or academic topic",
		"Ask for a practical example from a subject area",
	}
}

func syllabusSuggestions() []string {
	return []string{
		"Paste the full syllabus including learning objectives",
		"Include the list of topics or modules covered",
		"Add the assessment methods and course structure",
	}
}
