package webui

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kayz/syllabus/internal/config"
	"github.com/kayz/syllabus/internal/gate"
	"github.com/kayz/syllabus/internal/logger"
	"github.com/kayz/syllabus/internal/persist"
	"github.com/kayz/syllabus/internal/promptbuild"
	"github.com/kayz/syllabus/internal/tutor"
)

// Deps are the services the HTTP API exposes. Tutor and Store may be nil;
// their endpoints then answer 503.
type Deps struct {
	Tutor   *tutor.Service
	Gate    *gate.Gate
	Builder *promptbuild.Builder
	Store   *persist.Store
}

type Server struct {
	deps      Deps
	startedAt time.Time
	router    *gin.Engine
}

func NewServer(deps Deps) *Server {
	if deps.Gate == nil {
		deps.Gate = gate.Default()
	}
	if deps.Builder == nil {
		deps.Builder = promptbuild.NewBuilder(config.PromptBuildConfig{})
	}

	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		deps:      deps,
		startedAt: time.Now().UTC(),
		router:    gin.New(),
	}
	s.router.Use(gin.Recovery(), requestLogger())
	s.setupRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)

	api := s.router.Group("/api")
	api.GET("/status", s.handleStatus)
	api.POST("/chat", s.handleChat)
	api.POST("/summarize", s.handleSummarize)
	api.POST("/compile", s.handleCompile)
	api.POST("/validate", s.handleValidate)
	api.POST("/screen", s.handleScreen)
	api.GET("/configurations", s.handleConfigurations)
	api.GET("/history/:session", s.handleHistory)
	api.DELETE("/history/:session", s.handleDeleteHistory)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("[WebUI] %s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

func (s *Server) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(defaultIndexHTML))
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":             true,
		"started_at":     s.startedAt.Format(time.RFC3339),
		"uptime_sec":     int(time.Since(s.startedAt).Seconds()),
		"format_version": promptbuild.FormatVersion,
		"tutor":          s.deps.Tutor != nil,
		"history":        s.deps.Store != nil,
	})
}

type chatResponse struct {
	tutor.ChatResponse
	SessionID string `json:"session_id"`
}

func (s *Server) handleChat(c *gin.Context) {
	if s.deps.Tutor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "tutor is not initialized"})
		return
	}

	var req tutor.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	req.SessionID = strings.TrimSpace(req.SessionID)
	if req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}
	if req.SessionID == "" {
		req.SessionID = "web-" + uuid.New().String()
	}

	resp, err := s.deps.Tutor.Chat(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, chatResponse{ChatResponse: resp, SessionID: req.SessionID})
}

type summarizeRequest struct {
	SyllabusText string `json:"syllabus_text"`
}

func (s *Server) handleSummarize(c *gin.Context) {
	if s.deps.Tutor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "tutor is not initialized"})
		return
	}

	var req summarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
		return
	}

	resp, err := s.deps.Tutor.Summarize(c.Request.Context(), req.SyllabusText)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

type presetRef struct {
	Persona string `json:"persona"`
	Task    string `json:"task"`
	Format  string `json:"format"`
}

// compileRequest selects a configuration by exactly one of Configuration,
// Preset or Name.
type compileRequest struct {
	Name              string                           `json:"name,omitempty"`
	Configuration     *promptbuild.PromptConfiguration `json:"configuration,omitempty"`
	Preset            *presetRef                       `json:"preset,omitempty"`
	Context           promptbuild.ContextSpec          `json:"context,omitempty"`
	IncludeReferences bool                             `json:"include_references,omitempty"`
	Message           string                           `json:"message"`
	System            string                           `json:"system,omitempty"`
}

func (s *Server) handleCompile(c *gin.Context) {
	var req compileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
		return
	}

	build := promptbuild.BuildRequest{
		Name:          req.Name,
		Configuration: req.Configuration,
		UserMessage:   req.Message,
		SystemMessage: req.System,
	}
	if req.Configuration == nil && req.Preset != nil {
		cfg, err := promptbuild.QuickFormat(req.Preset.Persona, req.Preset.Task, req.Preset.Format, req.Context, req.IncludeReferences)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		build.Configuration = &cfg
		if build.Name == "" {
			build.Name = "preset"
		}
	}

	compiled, result, err := s.deps.Builder.Build(build)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, promptbuild.ErrConfigurationNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"compiled":    compiled,
		"fingerprint": compiled.Fingerprint(),
		"validation":  result,
	})
}

func (s *Server) handleValidate(c *gin.Context) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}
	_, result := promptbuild.DecodeConfiguration(data)
	c.JSON(http.StatusOK, result)
}

type screenRequest struct {
	Direction       string `json:"direction"`
	Text            string `json:"text"`
	SubjectArea     string `json:"subject_area"`
	SyllabusContext string `json:"syllabus_context"`
}

func (s *Server) handleScreen(c *gin.Context) {
	var req screenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
		return
	}

	ctx := gate.Context{SubjectArea: req.SubjectArea, SyllabusContext: req.SyllabusContext}
	var d gate.Decision
	switch strings.ToLower(strings.TrimSpace(req.Direction)) {
	case "", "inbound":
		d = s.deps.Gate.ScreenInbound(req.Text, ctx)
	case "outbound":
		d = s.deps.Gate.ScreenOutbound(req.Text, ctx)
	case "syllabus":
		d = s.deps.Gate.ScreenSyllabus(req.Text)
	case "summary":
		d = s.deps.Gate.ScreenSummary(req.Text)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "direction must be inbound, outbound, syllabus or summary"})
		return
	}
	c.JSON(http.StatusOK, d)
}

func (s *Server) handleConfigurations(c *gin.Context) {
	names, err := s.deps.Builder.ListConfigurations()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if names == nil {
		names = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"configurations": names})
}

func (s *Server) handleHistory(c *gin.Context) {
	if s.deps.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history store is not configured"})
		return
	}

	sessionID := c.Param("session")
	conv, err := s.deps.Store.GetConversation(sessionID)
	if err != nil {
		s.storeError(c, err)
		return
	}
	var msgs []persist.Message
	if raw := c.Query("limit"); raw != "" {
		limit, convErr := strconv.Atoi(raw)
		if convErr != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		msgs, err = s.deps.Store.RecentMessages(sessionID, limit)
	} else {
		msgs, err = s.deps.Store.Messages(sessionID)
	}
	if err != nil {
		s.storeError(c, err)
		return
	}
	if msgs == nil {
		msgs = []persist.Message{}
	}
	c.JSON(http.StatusOK, gin.H{"conversation": conv, "messages": msgs})
}

func (s *Server) handleDeleteHistory(c *gin.Context) {
	if s.deps.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history store is not configured"})
		return
	}
	if err := s.deps.Store.DeleteConversation(c.Param("session")); err != nil {
		s.storeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) storeError(c *gin.Context, err error) {
	if errors.Is(err, persist.ErrConversationNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	logger.Error("[WebUI] history: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
