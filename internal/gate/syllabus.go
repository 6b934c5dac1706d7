package gate

import (
	"strings"
	"unicode/utf8"
)

// ScreenSyllabus checks uploaded syllabus text before summarization.
func (g *Gate) ScreenSyllabus(text string) Decision {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < g.opts.SyllabusMinChars {
		return block(ReasonOffTopic, "syllabus too short", syllabusTooShortRefusal, syllabusSuggestions())
	}

	lower := strings.ToLower(text)
	if kw, ok := firstMatch(lower, g.syllabusDenied); ok {
		return block(ReasonEntertainment, "keyword: "+kw, syllabusNotEduRefusal, syllabusSuggestions())
	}

	if _, ok := firstMatch(lower, g.syllabusEducational); !ok && utf8.RuneCountInString(text) <= g.opts.SyllabusLongChars {
		return block(ReasonOffTopic, "no educational keyword", syllabusNotEduRefusal, syllabusSuggestions())
	}

	return allow("")
}

// ScreenSummary checks a generated summary before it is returned.
func (g *Gate) ScreenSummary(text string) Decision {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < g.opts.SummaryMinChars {
		return block(ReasonOffTopic, "summary too short", summaryRefusal, syllabusSuggestions())
	}
	if g.summaryDenied != nil {
		if m := g.summaryDenied.FindString(text); m != "" {
			return block(ReasonEntertainment, "keyword: "+strings.ToLower(m), summaryRefusal, syllabusSuggestions())
		}
	}
	if g.summaryEducational != nil && !g.summaryEducational.MatchString(text) {
		return block(ReasonOffTopic, "no educational keyword", summaryRefusal, syllabusSuggestions())
	}
	return allow("")
}
