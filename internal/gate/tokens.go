package gate

import (
	"regexp"
	"strings"
)

// Word tokens keep + . # - so that c++, node.js and c# survive.
var tokenSplit = regexp.MustCompile(`[^a-z0-9+.#-]+`)

const minTokenLen = 3

func tokenize(text string) []string {
	parts := tokenSplit.Split(strings.ToLower(text), -1)
	out := parts[:0]
	for _, p := range parts {
		if len(p) >= minTokenLen {
			out = append(out, p)
		}
	}
	return out
}

func tokenSet(text string) map[string]struct{} {
	tokens := tokenize(text)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

func overlaps(tokens []string, set map[string]struct{}) bool {
	for _, t := range tokens {
		if _, ok := set[t]; ok {
			return true
		}
	}
	return false
}

// relevanceKeywords are the subject words plus syllabus words longer than
// minLen, lowercased.
func relevanceKeywords(subjectArea, syllabusContext string, minLen int) []string {
	keywords := strings.Fields(strings.ToLower(subjectArea))
	for _, w := range strings.Fields(strings.ToLower(syllabusContext)) {
		if len(w) > minLen {
			keywords = append(keywords, w)
		}
	}
	return keywords
}
