package tutor

import "strings"

// generalSyllabusContext marks a caller that had no syllabus to offer.
const generalSyllabusContext = "General educational content - provide comprehensive explanations for any academic topic"

var subjectSuggestions = map[string][]string{
	"computer science": {
		"Can you show me how this works with a practical example?",
		"What are the real-world applications of this concept?",
		"How does this relate to other programming concepts?",
	},
	"mathematics": {
		"Could you walk through a step-by-step example?",
		"How is this concept used in practical applications?",
		"What's the intuition behind this mathematical idea?",
	},
	"physics": {
		"Can you explain the physical intuition behind this?",
		"What are some real-world examples of this phenomenon?",
		"How does this concept connect to other physics topics?",
	},
	"chemistry": {
		"What's happening at the molecular level here?",
		"Can you give me some practical examples of this?",
		"How does this relate to other chemical processes?",
	},
	"biology": {
		"How does this process work in living organisms?",
		"What are some specific examples of this in nature?",
		"How does this connect to other biological systems?",
	},
}

// followUps suggests how to continue after a successful answer.
func followUps(subjectArea, syllabusContext string) []string {
	if syllabusContext != "" && strings.TrimSpace(syllabusContext) != generalSyllabusContext {
		return []string{
			"Can you explain how this connects to other topics in the syllabus?",
			"What are some practical applications of this concept?",
			"Could you walk me through a specific example?",
		}
	}

	if subjectArea != "" {
		if s, ok := subjectSuggestions[strings.ToLower(subjectArea)]; ok {
			return append([]string(nil), s...)
		}
		return []string{
			"Can you provide more specific examples?",
			"How does this apply in real-world situations?",
			"What are the key takeaways I should remember?",
		}
	}

	return []string{
		"Could you elaborate on this topic further?",
		"What are some practical examples of this?",
		"How can I apply this knowledge?",
	}
}

const chatFallback = "I'm here to help you explore and understand any educational topic you're curious about! Whether you're working through concepts from your syllabus, trying to grasp complex theories, or just want to deepen your understanding of academic subjects, I'm ready to provide detailed, comprehensive explanations. What would you like to learn about today?"

func chatFallbackSuggestions() []string {
	return []string{
		"Ask for detailed explanations of concepts",
		"Request examples and practical applications",
		"Explore topics from your coursework",
	}
}
