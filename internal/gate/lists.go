package gate

import "strings"

// Lists holds the classifier data. Keyword lists are matched as lowercase
// substrings; pattern lists are regular expressions compiled by New.
type Lists struct {
	// Entertainment is checked against inbound messages and model responses.
	Entertainment []string `yaml:"entertainment" json:"entertainment"`
	// OffTopicTech names technologies that signal a topic switch unless the
	// context itself mentions them.
	OffTopicTech []string `yaml:"off_topic_tech" json:"off_topic_tech"`
	// SelfRefusal phrases mark a response that already declines the question.
	SelfRefusal []string `yaml:"self_refusal" json:"self_refusal"`
	// Hallucination patterns flag unsourced authority claims.
	Hallucination []string `yaml:"hallucination" json:"hallucination"`

	// SyllabusDenied and SyllabusEducational screen uploaded syllabus text.
	SyllabusDenied      []string `yaml:"syllabus_denied" json:"syllabus_denied"`
	SyllabusEducational []string `yaml:"syllabus_educational" json:"syllabus_educational"`

	// SummaryDenied and SummaryEducational screen generated summaries.
	SummaryDenied      string `yaml:"summary_denied" json:"summary_denied"`
	SummaryEducational string `yaml:"summary_educational" json:"summary_educational"`
}

// DefaultLists returns a fresh copy of the built-in tables.
func DefaultLists() Lists {
	return Lists{
		Entertainment: []string{
			"celebrity gossip",
			"movie review",
			"tv show recap",
			"entertainment news",
			"social media drama",
			"fashion trends",
			"lifestyle blog",
			"dating advice",
			"party planning",
			"vacation photos",
			"restaurant review",
			"music album review",
			"sports scores",
			"game recap",
			"player stats",
			"celebrity news",
			"artist gossip",
			"ronaldo",
			"cristiano ronaldo",
			"messi",
			"lionel messi",
			"virat kohli",
			"kohli",
			"beyonce",
			"kardashian",
			"taylor swift",
			"selena gomez",
			"srk",
			"shahrukh khan",
			"salman khan",
			"priyanka chopra",
			"alia bhatt",
			"ranveer singh",
			"horoscope",
			"astrology",
			"daily horoscope",
			"k-pop",
			"bollywood",
			"hollywood",
			"netflix",
			"hbo",
			"disney+",
			"tiktok",
			"instagram",
			"youtube drama",
			"memes",
			"gossip",
			"celebrity",
		},
		OffTopicTech: []string{
			// web frameworks and stacks
			"next.js",
			"nextjs",
			"next js",
			"react",
			"react.js",
			"react js",
			"vue",
			"vue.js",
			"vue js",
			"svelte",
			"angular",
			"tailwind",
			"bootstrap",
			"redux",
			"webpack",
			"vite",
			"astro",
			"nuxt",
			"sveltekit",
			"graphql",
			// platforms
			"firebase",
			"supabase",
			"docker",
			"kubernetes",
			"aws",
			"gcp",
			"azure",
			// tooling
			"linux distro",
			"arch linux",
			"neovim",
			"vimrc",
			"emacs",
			"eslint",
			"prettier",
		},
		SelfRefusal: []string{
			"falls outside",
			"not covered",
			"outside the scope",
			"outside our focus",
			"redirect",
			"isn't in our syllabus",
			"beyond the scope",
			"outside this topic",
			"not part of",
			// the gate's own refusals
			"outside our current topic",
			"outside the current syllabus topic",
			"i cannot discuss",
		},
		Hallucination: []string{
			`(?i)as (?:a|an) .{3,30}(?:expert|professor|specialist)`,
			`(?i)in my (?:experience|opinion|view)`,
			`(?i)(?:studies show|research indicates|scientists have found)`,
			`(?i)according to (?:recent|latest)`,
		},
		SyllabusDenied: []string{
			"celebrity",
			"entertainment",
			"gossip",
			"sports news",
			"personal life",
			"social media",
			"gaming",
			"movies",
			"tv shows",
			"fashion",
			"lifestyle",
			"politics",
			"religion",
			"dating",
			"relationships",
			"messi",
			"ronaldo",
		},
		SyllabusEducational: []string{
			"course",
			"syllabus",
			"learning",
			"objectives",
			"curriculum",
			"student",
			"study",
			"knowledge",
			"skill",
			"understand",
			"analyze",
			"concept",
			"theory",
			"assignment",
			"exam",
			"module",
			"chapter",
			"lesson",
		},
		SummaryDenied:      `(?i)\b(messi|ronaldo|celebrity|entertainment|sports|movie|gaming)\b`,
		SummaryEducational: `(?i)\b(learn|study|understand|concept|skill|knowledge|academic|course|student)\b`,
	}
}

// WithExtra returns a copy of l with additional entertainment and off-topic
// terms appended. Blank terms are dropped.
func (l Lists) WithExtra(entertainment, offTopic []string) Lists {
	out := l
	out.Entertainment = appendTerms(append([]string(nil), l.Entertainment...), entertainment)
	out.OffTopicTech = appendTerms(append([]string(nil), l.OffTopicTech...), offTopic)
	return out
}

func appendTerms(dst, extra []string) []string {
	for _, term := range extra {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" {
			dst = append(dst, term)
		}
	}
	return dst
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// firstMatch returns the first term contained in lower.
func firstMatch(lower string, terms []string) (string, bool) {
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return term, true
		}
	}
	return "", false
}
