package webui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kayz/syllabus/internal/config"
	"github.com/kayz/syllabus/internal/persist"
	"github.com/kayz/syllabus/internal/promptbuild"
	"github.com/kayz/syllabus/internal/provider"
	"github.com/kayz/syllabus/internal/tutor"
)

type echoProvider struct{}

func (echoProvider) Name() string { return "echo" }

func (echoProvider) Chat(_ context.Context, _ provider.ChatRequest) (provider.ChatResponse, error) {
	return provider.ChatResponse{Content: "Memory management tracks which memory each process owns."}, nil
}

func newTestServer(t *testing.T, withStore bool) (*Server, string) {
	t.Helper()
	root := t.TempDir()
	builder := promptbuild.NewBuilder(config.PromptBuildConfig{RootDir: root, ConfigsDir: "configs"})

	var store *persist.Store
	if withStore {
		var err error
		store, err = persist.NewStore(filepath.Join(root, "web.db"))
		require.NoError(t, err)
		t.Cleanup(func() { store.Close() })
	}

	svc, err := tutor.New(echoProvider{}, tutor.Options{Builder: builder, Store: store})
	require.NoError(t, err)

	return NewServer(Deps{Tutor: svc, Builder: builder, Store: store}), root
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func TestStatusEndpoint(t *testing.T) {
	server, _ := newTestServer(t, false)

	rr := do(t, server.Handler(), http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, rr.Code)

	body := decode(t, rr)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, promptbuild.FormatVersion, body["format_version"])
	assert.Equal(t, false, body["history"])
}

func TestIndexServesHTML(t *testing.T) {
	server, _ := newTestServer(t, false)
	rr := do(t, server.Handler(), http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "/api/chat")
}

func TestChatEndpoint(t *testing.T) {
	server, _ := newTestServer(t, false)
	h := server.Handler()

	rr := do(t, h, http.MethodPost, "/api/chat", `{"message":"What is memory management?","subject_area":"Operating Systems","syllabus_context":"memory management, paging"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	body := decode(t, rr)
	assert.Equal(t, "Memory management tracks which memory each process owns.", body["response"])
	assert.Equal(t, false, body["blocked"])
	assert.True(t, strings.HasPrefix(body["session_id"].(string), "web-"))
	assert.Len(t, body["suggestions"], 3)

	rr = do(t, h, http.MethodPost, "/api/chat", `{"message":"latest netflix shows?","session_id":"s1"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	body = decode(t, rr)
	assert.Equal(t, true, body["blocked"])
	assert.Equal(t, "entertainment", body["reason"])
	assert.Equal(t, "s1", body["session_id"])
}

func TestChatEndpointBadRequests(t *testing.T) {
	server, _ := newTestServer(t, false)
	h := server.Handler()

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/chat", `{"message":"   "}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/chat", `{not json`).Code)

	bare := NewServer(Deps{})
	assert.Equal(t, http.StatusServiceUnavailable, do(t, bare.Handler(), http.MethodPost, "/api/chat", `{"message":"hi"}`).Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, bare.Handler(), http.MethodPost, "/api/summarize", `{"syllabus_text":"x"}`).Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, bare.Handler(), http.MethodGet, "/api/history/s1", "").Code)
}

func TestSummarizeEndpoint(t *testing.T) {
	server, _ := newTestServer(t, false)

	rr := do(t, server.Handler(), http.MethodPost, "/api/summarize", `{"syllabus_text":"short"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode(t, rr)
	assert.Equal(t, true, body["blocked"])
	assert.Contains(t, body["summary"], "too short")
}

func TestCompileEndpoint(t *testing.T) {
	server, root := newTestServer(t, false)
	h := server.Handler()

	rr := do(t, h, http.MethodPost, "/api/compile", `{"preset":{"persona":"mentor","task":"explain","format":"step_by_step"},"message":"What is recursion?"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	body := decode(t, rr)
	compiled := body["compiled"].(map[string]any)
	assert.Contains(t, compiled["userPrompt"], "What is recursion?")
	assert.Len(t, body["fingerprint"], 64)
	assert.Equal(t, true, body["validation"].(map[string]any)["isValid"])

	rr = do(t, h, http.MethodPost, "/api/compile", `{"preset":{"persona":"wizard","task":"explain","format":"table_format"}}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodPost, "/api/compile", `{"name":"missing","message":"x"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, h, http.MethodPost, "/api/compile", `{"message":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "configs"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "configs", "tutor.yaml"), []byte(`
persona:
  role: You are a patient tutor for first-year students
task:
  action: Explain the concept the student asks about
format:
  structure: paragraph
references:
  includeReferences: false
`), 0644))

	rr = do(t, h, http.MethodPost, "/api/compile", `{"name":"tutor","message":"What is a stack?"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = do(t, h, http.MethodGet, "/api/configurations", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []any{"tutor"}, decode(t, rr)["configurations"])
}

func TestValidateEndpoint(t *testing.T) {
	server, _ := newTestServer(t, false)
	h := server.Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/validate", bytes.NewBufferString("persona:\n  role: \"\"\n"))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	body := decode(t, rr)
	assert.Equal(t, false, body["isValid"])
	assert.Contains(t, body["errors"], "Persona role is required")
}

func TestScreenEndpoint(t *testing.T) {
	server, _ := newTestServer(t, false)
	h := server.Handler()

	rr := do(t, h, http.MethodPost, "/api/screen", `{"direction":"inbound","text":"Tell me about Messi","subject_area":"Physics"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode(t, rr)
	assert.Equal(t, true, body["blocked"])
	assert.Equal(t, "entertainment", body["reason"])

	rr = do(t, h, http.MethodPost, "/api/screen", `{"direction":"outbound","text":"Velocity is the rate of change of position."}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, false, decode(t, rr)["blocked"])

	rr = do(t, h, http.MethodPost, "/api/screen", `{"direction":"sideways","text":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHistoryEndpoints(t *testing.T) {
	server, _ := newTestServer(t, true)
	h := server.Handler()

	rr := do(t, h, http.MethodPost, "/api/chat", `{"session_id":"s1","message":"What is memory management?","subject_area":"Operating Systems","syllabus_context":"memory management"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = do(t, h, http.MethodGet, "/api/history/s1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode(t, rr)
	assert.Len(t, body["messages"], 2)

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/api/history/s1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/history/s1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/api/history/s1", "").Code)
}

func TestHistoryEndpointReturnsAllTurns(t *testing.T) {
	store, err := persist.NewStore(filepath.Join(t.TempDir(), "web.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	conv, err := store.GetOrCreateConversation("long", "Operating Systems")
	require.NoError(t, err)
	for i := 0; i < 30; i++ {
		_, err := store.AppendMessage(conv.ID, persist.Message{Role: persist.RoleUser, Content: fmt.Sprintf("turn %d", i)})
		require.NoError(t, err)
	}

	h := NewServer(Deps{Store: store}).Handler()

	rr := do(t, h, http.MethodGet, "/api/history/long", "")
	require.Equal(t, http.StatusOK, rr.Code)
	msgs := decode(t, rr)["messages"].([]any)
	require.Len(t, msgs, 30)
	assert.Equal(t, "turn 0", msgs[0].(map[string]any)["content"])

	rr = do(t, h, http.MethodGet, "/api/history/long?limit=5", "")
	require.Equal(t, http.StatusOK, rr.Code)
	msgs = decode(t, rr)["messages"].([]any)
	require.Len(t, msgs, 5)
	assert.Equal(t, "turn 25", msgs[0].(map[string]any)["content"])

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/history/long?limit=zero", "").Code)
}
