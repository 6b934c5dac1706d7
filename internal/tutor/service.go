// Package tutor runs a gated chat turn: screen the question, build and compile
// a prompt configuration for it, call the model, screen the answer.
package tutor

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kayz/syllabus/internal/config"
	"github.com/kayz/syllabus/internal/gate"
	"github.com/kayz/syllabus/internal/logger"
	"github.com/kayz/syllabus/internal/persist"
	"github.com/kayz/syllabus/internal/promptbuild"
	"github.com/kayz/syllabus/internal/provider"
)

const (
	chatMaxTokens    = 1536
	defaultHistLimit = 20
)

// Turn is one prior message of the conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is a single student question.
type ChatRequest struct {
	SessionID       string `json:"session_id,omitempty"`
	Message         string `json:"message"`
	History         []Turn `json:"history,omitempty"`
	SubjectArea     string `json:"subject_area,omitempty"`
	SyllabusContext string `json:"syllabus_context,omitempty"`
	Model           string `json:"model,omitempty"`
}

// ChatResponse is what the student sees. Blocked is set when either gate
// replaced the turn with a refusal.
type ChatResponse struct {
	Response    string      `json:"response"`
	Suggestions []string    `json:"suggestions"`
	Blocked     bool        `json:"blocked"`
	Reason      gate.Reason `json:"reason,omitempty"`
	Fallback    bool        `json:"fallback,omitempty"`
}

// Options wires optional collaborators. Zero values fall back to the default
// gate, a builder without audit, no history store and the global tracer.
type Options struct {
	Gate         *gate.Gate
	Builder      *promptbuild.Builder
	Store        *persist.Store
	Model        string
	HistoryLimit int
	Tracer       trace.Tracer
}

// Service answers student questions.
type Service struct {
	provider     provider.Provider
	gate         *gate.Gate
	builder      *promptbuild.Builder
	store        *persist.Store
	model        string
	historyLimit int
	tracer       trace.Tracer
}

// New creates a Service around p.
func New(p provider.Provider, opts Options) (*Service, error) {
	if p == nil {
		return nil, fmt.Errorf("provider is required")
	}
	s := &Service{
		provider:     p,
		gate:         opts.Gate,
		builder:      opts.Builder,
		store:        opts.Store,
		model:        opts.Model,
		historyLimit: opts.HistoryLimit,
		tracer:       opts.Tracer,
	}
	if s.gate == nil {
		s.gate = gate.Default()
	}
	if s.builder == nil {
		s.builder = promptbuild.NewBuilder(config.PromptBuildConfig{})
	}
	if s.historyLimit <= 0 {
		s.historyLimit = defaultHistLimit
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer("github.com/kayz/syllabus/internal/tutor")
	}
	return s, nil
}

// Chat answers one question. Gate refusals and provider failures are
// reported in the response; the error is reserved for invalid requests.
func (s *Service) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return ChatResponse{}, fmt.Errorf("message is required")
	}

	ctx, span := s.tracer.Start(ctx, "tutor.Chat", trace.WithAttributes(
		attribute.String("tutor.subject_area", req.SubjectArea),
		attribute.Bool("tutor.has_session", req.SessionID != ""),
	))
	defer span.End()

	gctx := gate.Context{SubjectArea: req.SubjectArea, SyllabusContext: req.SyllabusContext}
	conv, history := s.loadHistory(req)

	in := s.gate.ScreenInbound(req.Message, gctx)
	if in.Blocked {
		logger.Info("[Tutor] inbound blocked (%s): %s", in.Reason, in.Detail)
		span.SetAttributes(attribute.String("tutor.inbound_block", string(in.Reason)))
		s.record(conv, req.Message, true, in.RefusalText, true)
		return ChatResponse{Response: in.RefusalText, Suggestions: in.SuggestedFollowUps, Blocked: true, Reason: in.Reason}, nil
	}

	style := analyzeRequest(req.Message)
	specific := hasSpecificContext(req.SubjectArea, req.SyllabusContext)
	cfg := chatConfiguration(req, style, specific)

	compiled, _, err := s.builder.Build(promptbuild.BuildRequest{
		Name:          "chat",
		Configuration: &cfg,
		UserMessage:   chatUserMessage(req, history, style, specific),
	})
	if err != nil {
		return ChatResponse{}, fmt.Errorf("build chat prompt: %w", err)
	}

	chatReq := provider.ChatRequest{
		SystemPrompt: compiled.SystemPrompt,
		UserPrompt:   compiled.UserPrompt,
		Model:        s.modelFor(req.Model),
		Temperature:  0.5,
		TopP:         0.9,
		MaxTokens:    chatMaxTokens,
	}
	if specific {
		chatReq.Temperature = 0.2
		chatReq.TopP = 0.6
	}

	resp, err := s.provider.Chat(ctx, chatReq)
	if err != nil {
		kind := provider.Classify(err)
		logger.Error("[Tutor] %s chat failed (%s): %v", s.provider.Name(), kind, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.record(conv, req.Message, false, chatFallback, false)
		return ChatResponse{Response: chatFallback, Suggestions: chatFallbackSuggestions(), Fallback: true}, nil
	}
	span.SetAttributes(
		attribute.String("tutor.model", resp.Model),
		attribute.Int("tutor.output_tokens", resp.OutputTokens),
	)

	out := s.gate.ScreenOutbound(resp.Content, gctx)
	if out.Blocked {
		logger.Warn("[Tutor] response validation failed: %s", out.Detail)
		logger.Debug("[Tutor] filtered response: %s...", truncate(resp.Content, 200))
		span.SetAttributes(attribute.String("tutor.outbound_block", string(out.Reason)))
		s.record(conv, req.Message, false, out.RefusalText, true)
		return ChatResponse{Response: out.RefusalText, Suggestions: out.SuggestedFollowUps, Blocked: true, Reason: out.Reason}, nil
	}

	span.SetStatus(codes.Ok, "")
	s.record(conv, req.Message, false, resp.Content, false)
	return ChatResponse{Response: resp.Content, Suggestions: followUps(req.SubjectArea, req.SyllabusContext)}, nil
}

func (s *Service) modelFor(requested string) string {
	if strings.TrimSpace(requested) != "" {
		return requested
	}
	return s.model
}

// loadHistory resolves the stored conversation for the session. Explicit
// request history wins over stored history.
func (s *Service) loadHistory(req ChatRequest) (*persist.Conversation, []Turn) {
	if s.store == nil || strings.TrimSpace(req.SessionID) == "" {
		return nil, req.History
	}

	conv, err := s.store.GetOrCreateConversation(req.SessionID, req.SubjectArea)
	if err != nil {
		logger.Warn("[Tutor] load conversation %s: %v", req.SessionID, err)
		return nil, req.History
	}
	if len(req.History) > 0 {
		return conv, req.History
	}

	msgs, err := s.store.RecentMessages(req.SessionID, s.historyLimit)
	if err != nil {
		logger.Warn("[Tutor] load history %s: %v", req.SessionID, err)
		return conv, nil
	}
	history := make([]Turn, 0, len(msgs))
	for _, m := range msgs {
		history = append(history, Turn{Role: m.Role, Content: m.Content})
	}
	return conv, history
}

func (s *Service) record(conv *persist.Conversation, question string, questionBlocked bool, answer string, answerBlocked bool) {
	if conv == nil {
		return
	}
	if _, err := s.store.AppendMessage(conv.ID, persist.Message{Role: persist.RoleUser, Content: question, Blocked: questionBlocked}); err != nil {
		logger.Warn("[Tutor] store question: %v", err)
		return
	}
	if _, err := s.store.AppendMessage(conv.ID, persist.Message{Role: persist.RoleAssistant, Content: answer, Blocked: answerBlocked}); err != nil {
		logger.Warn("[Tutor] store answer: %v", err)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
