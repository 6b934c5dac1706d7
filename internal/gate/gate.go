// Package gate screens chat traffic around a model call. Inbound messages
// that are off the syllabus never reach the model; responses that drift,
// hallucinate authority or slip into entertainment are replaced with a
// refusal. All checks are keyword and token heuristics and run synchronously.
package gate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/kayz/syllabus/internal/config"
)

// Reason classifies a block.
type Reason string

const (
	ReasonNone          Reason = "none"
	ReasonEntertainment Reason = "entertainment"
	ReasonOffTopic      Reason = "off-topic"
)

// Context describes what the conversation is supposed to be about. Either
// field may be empty.
type Context struct {
	SubjectArea     string `json:"subject_area,omitempty"`
	SyllabusContext string `json:"syllabus_context,omitempty"`
}

func (c Context) subject() string { return strings.TrimSpace(c.SubjectArea) }

func (c Context) supplied() bool {
	return c.subject() != "" || strings.TrimSpace(c.SyllabusContext) != ""
}

// Decision is the outcome of a screen. RefusalText is set iff Blocked.
type Decision struct {
	Blocked            bool     `json:"blocked"`
	Reason             Reason   `json:"reason"`
	Detail             string   `json:"detail,omitempty"`
	RefusalText        string   `json:"refusal_text,omitempty"`
	SuggestedFollowUps []string `json:"suggested_follow_ups"`
}

func allow(detail string) Decision {
	return Decision{Reason: ReasonNone, Detail: detail, SuggestedFollowUps: []string{}}
}

func block(reason Reason, detail, refusal string, suggestions []string) Decision {
	return Decision{
		Blocked:            true,
		Reason:             reason,
		Detail:             detail,
		RefusalText:        refusal,
		SuggestedFollowUps: suggestions,
	}
}

// Options holds the tunable thresholds.
type Options struct {
	// DriftMinChars is the response length above which a response sharing
	// no keyword with the subject counts as drift.
	DriftMinChars int
	// KeywordMinLen drops syllabus words of this length or shorter from the
	// relevance keywords.
	KeywordMinLen int
	// SyllabusMinChars is the shortest syllabus text accepted.
	SyllabusMinChars int
	// SyllabusLongChars accepts syllabus text without educational keywords
	// when it is longer than this.
	SyllabusLongChars int
	// SummaryMinChars is the shortest generated summary accepted.
	SummaryMinChars int
}

func DefaultOptions() Options {
	return Options{
		DriftMinChars:     100,
		KeywordMinLen:     3,
		SyllabusMinChars:  10,
		SyllabusLongChars: 100,
		SummaryMinChars:   50,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.DriftMinChars <= 0 {
		o.DriftMinChars = d.DriftMinChars
	}
	if o.KeywordMinLen <= 0 {
		o.KeywordMinLen = d.KeywordMinLen
	}
	if o.SyllabusMinChars <= 0 {
		o.SyllabusMinChars = d.SyllabusMinChars
	}
	if o.SyllabusLongChars <= 0 {
		o.SyllabusLongChars = d.SyllabusLongChars
	}
	if o.SummaryMinChars <= 0 {
		o.SummaryMinChars = d.SummaryMinChars
	}
	return o
}

// Gate is immutable after construction and safe for concurrent use.
type Gate struct {
	opts Options

	entertainment []string
	offTopicTech  []string
	selfRefusal   []string
	hallucination []*regexp.Regexp

	syllabusDenied      []string
	syllabusEducational []string
	summaryDenied       *regexp.Regexp
	summaryEducational  *regexp.Regexp
}

// New compiles lists into a Gate. Zero option fields take their defaults.
func New(lists Lists, opts Options) (*Gate, error) {
	g := &Gate{
		opts:                opts.withDefaults(),
		entertainment:       lowerAll(lists.Entertainment),
		offTopicTech:        lowerAll(lists.OffTopicTech),
		selfRefusal:         lowerAll(lists.SelfRefusal),
		syllabusDenied:      lowerAll(lists.SyllabusDenied),
		syllabusEducational: lowerAll(lists.SyllabusEducational),
	}

	for i, p := range lists.Hallucination {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid hallucination pattern at index %d: %w", i, err)
		}
		g.hallucination = append(g.hallucination, re)
	}

	var err error
	if g.summaryDenied, err = compileOptional(lists.SummaryDenied); err != nil {
		return nil, fmt.Errorf("invalid summary denied pattern: %w", err)
	}
	if g.summaryEducational, err = compileOptional(lists.SummaryEducational); err != nil {
		return nil, fmt.Errorf("invalid summary educational pattern: %w", err)
	}

	return g, nil
}

func compileOptional(p string) (*regexp.Regexp, error) {
	if strings.TrimSpace(p) == "" {
		return nil, nil
	}
	return regexp.Compile(p)
}

// NewFromConfig builds a gate from the default lists extended and tuned by
// cfg.
func NewFromConfig(cfg config.GateConfig) (*Gate, error) {
	lists := DefaultLists().WithExtra(cfg.ExtraEntertainment, cfg.ExtraOffTopic)
	opts := DefaultOptions()
	if cfg.DriftMinChars > 0 {
		opts.DriftMinChars = cfg.DriftMinChars
	}
	if cfg.KeywordMinLen > 0 {
		opts.KeywordMinLen = cfg.KeywordMinLen
	}
	return New(lists, opts)
}

var defaultGate = mustNew(DefaultLists(), DefaultOptions())

func mustNew(lists Lists, opts Options) *Gate {
	g, err := New(lists, opts)
	if err != nil {
		panic(err)
	}
	return g
}

// Default returns the gate built from the built-in lists.
func Default() *Gate { return defaultGate }

// Options returns the effective thresholds.
func (g *Gate) Options() Options { return g.opts }

// ScreenInbound checks a student message before it is sent to the model.
// First match wins: entertainment keyword, zero token overlap with a supplied
// context, then an off-topic technology the context does not mention.
func (g *Gate) ScreenInbound(message string, ctx Context) Decision {
	lower := strings.ToLower(message)
	subject := ctx.subject()

	if kw, ok := firstMatch(lower, g.entertainment); ok {
		text, sugg := inboundRefusal(subject)
		return block(ReasonEntertainment, "keyword: "+kw, text, sugg)
	}

	contextText := strings.ToLower(ctx.SyllabusContext + " " + ctx.SubjectArea)

	if ctx.supplied() {
		ctxTokens := tokenSet(contextText)
		if len(ctxTokens) > 0 && !overlaps(tokenize(lower), ctxTokens) {
			text, sugg := inboundRefusal(subject)
			return block(ReasonOffTopic, "no overlap with syllabus context", text, sugg)
		}
	}

	for _, term := range g.offTopicTech {
		if strings.Contains(lower, term) && !strings.Contains(contextText, term) {
			text, sugg := inboundRefusal(subject)
			return block(ReasonOffTopic, "off-topic term: "+term, text, sugg)
		}
	}

	return allow("")
}

// ScreenOutbound checks a model response before it is shown. A response
// that already refuses passes. With a subject area, drift and hallucination
// markers are blocked; entertainment content is always blocked.
func (g *Gate) ScreenOutbound(response string, ctx Context) Decision {
	lower := strings.ToLower(response)
	subject := ctx.subject()

	if phrase, ok := firstMatch(lower, g.selfRefusal); ok {
		return allow("self-refusal: " + phrase)
	}

	// Drift and hallucination checks need a declared subject; general
	// answers without one only face the entertainment check.
	if subject != "" {
		keywords := relevanceKeywords(ctx.SubjectArea, ctx.SyllabusContext, g.opts.KeywordMinLen)
		if _, ok := firstMatch(lower, keywords); !ok && utf8.RuneCountInString(response) > g.opts.DriftMinChars {
			text, sugg := outboundRefusal(subject)
			return block(ReasonOffTopic, "drift", text, sugg)
		}

		if !strings.Contains(strings.ToLower(ctx.SyllabusContext), "research") {
			for _, re := range g.hallucination {
				if re.MatchString(response) {
					text, sugg := outboundRefusal(subject)
					return block(ReasonOffTopic, "hallucination", text, sugg)
				}
			}
		}
	}

	if kw, ok := firstMatch(lower, g.entertainment); ok {
		text, sugg := outboundRefusal(subject)
		return block(ReasonEntertainment, "keyword: "+kw, text, sugg)
	}

	return allow("")
}

// ScreenInbound screens with the default gate.
func ScreenInbound(message string, ctx Context) Decision {
	return defaultGate.ScreenInbound(message, ctx)
}

// ScreenOutbound screens with the default gate.
func ScreenOutbound(response string, ctx Context) Decision {
	return defaultGate.ScreenOutbound(response, ctx)
}
