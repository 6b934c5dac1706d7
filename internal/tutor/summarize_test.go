package tutor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const osCourse = "Course objectives: understand process scheduling, memory management and file systems."

func TestSummarizeRejectsShortSyllabus(t *testing.T) {
	fp := &fakeProvider{content: "unused"}
	s := newService(t, fp, Options{})

	resp, err := s.Summarize(context.Background(), "  hi ")
	require.NoError(t, err)
	assert.True(t, resp.Blocked)
	assert.Contains(t, resp.Summary, "too short or empty")
	assert.Empty(t, fp.calls())
}

func TestSummarizeRejectsNonEducationalSyllabus(t *testing.T) {
	fp := &fakeProvider{content: "unused"}
	s := newService(t, fp, Options{})

	resp, err := s.Summarize(context.Background(), "Weekly gossip about celebrity weddings")
	require.NoError(t, err)
	assert.True(t, resp.Blocked)
	assert.Contains(t, resp.Summary, "doesn't appear to be educational")
	assert.Empty(t, fp.calls())
}

func TestSummarizeSuccess(t *testing.T) {
	fp := &fakeProvider{content: "  ## Course Overview\nIn this course you learn how operating systems schedule processes and manage memory.  "}
	s := newService(t, fp, Options{Model: "summary-model"})

	resp, err := s.Summarize(context.Background(), osCourse)
	require.NoError(t, err)
	assert.False(t, resp.Blocked)
	assert.False(t, resp.Fallback)
	assert.Equal(t, "## Course Overview\nIn this course you learn how operating systems schedule processes and manage memory.", resp.Summary)

	req := fp.calls()[0]
	assert.Equal(t, float32(0.3), req.Temperature)
	assert.Equal(t, float32(0.85), req.TopP)
	assert.Equal(t, 1024, req.MaxTokens)
	assert.Equal(t, "summary-model", req.Model)
	assert.Contains(t, req.SystemPrompt, "expert academic curriculum analyst")
	assert.Contains(t, req.SystemPrompt, "Target length: 350 (minimum 300, maximum 400) words.")
	assert.Contains(t, req.UserPrompt, "**SYLLABUS TEXT:**\n"+osCourse)
}

func TestSummarizeRejectsNonEducationalSummary(t *testing.T) {
	fp := &fakeProvider{content: "This course is mostly about the celebrity lives of famous programmers and their hobbies."}
	s := newService(t, fp, Options{})

	resp, err := s.Summarize(context.Background(), osCourse)
	require.NoError(t, err)
	assert.True(t, resp.Blocked)
	assert.Contains(t, resp.Summary, "I can only summarize educational and academic content")
}

func TestSummarizeFallbacks(t *testing.T) {
	tests := []struct {
		name    string
		content string
		err     error
		want    string
	}{
		{name: "rate limit", err: errors.New("status 429: rate limit reached"), want: rateLimitSummary},
		{name: "network", err: errors.New("dial tcp: connection refused"), want: networkSummary},
		{name: "content", err: errors.New("blocked by content filter"), want: contentSummary},
		{name: "other", err: errors.New("boom"), want: genericSummary},
		{name: "short response", content: "Too short.", want: genericSummary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newService(t, &fakeProvider{content: tt.content, err: tt.err}, Options{})
			resp, err := s.Summarize(context.Background(), osCourse)
			require.NoError(t, err)
			assert.True(t, resp.Fallback)
			assert.Equal(t, tt.want, resp.Summary)
		})
	}
}
