package persist

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "nested", "syllabus.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetOrCreateConversation(t *testing.T) {
	s := newTestStore(t)

	first, err := s.GetOrCreateConversation("sess-1", "Operating Systems")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	again, err := s.GetOrCreateConversation("sess-1", "")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if again.ID != first.ID || again.SubjectArea != "Operating Systems" {
		t.Fatalf("expected same conversation, got %+v vs %+v", again, first)
	}

	changed, err := s.GetOrCreateConversation("sess-1", "Networks")
	if err != nil {
		t.Fatalf("update subject: %v", err)
	}
	if changed.SubjectArea != "Networks" {
		t.Fatalf("subject area = %q, want Networks", changed.SubjectArea)
	}

	if _, err := s.GetOrCreateConversation("  ", "x"); err == nil {
		t.Fatalf("expected error for blank session id")
	}
}

func TestGetConversationNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetConversation("missing"); !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}
	if _, err := s.RecentMessages("missing", 10); !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound from RecentMessages, got %v", err)
	}
}

func TestRecentMessagesChronological(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	conv, err := s.GetOrCreateConversation("sess-2", "Math")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	contents := []string{"q1", "a1", "q2", "a2", "q3"}
	for i, c := range contents {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		msg, err := s.AppendMessage(conv.ID, Message{Role: role, Content: c, Blocked: c == "q3"})
		if err != nil {
			t.Fatalf("append %s: %v", c, err)
		}
		if msg.ID == 0 || msg.CreatedAt.IsZero() || msg.ConversationID != conv.ID {
			t.Fatalf("append did not fill fields: %+v", msg)
		}
	}

	got, err := s.RecentMessages("sess-2", 3)
	if err != nil {
		t.Fatalf("RecentMessages: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(got))
	}
	want := []string{"q2", "a2", "q3"}
	for i, m := range got {
		if m.Content != want[i] {
			t.Fatalf("message %d = %q, want %q", i, m.Content, want[i])
		}
	}
	if !got[2].Blocked || got[0].Blocked {
		t.Fatalf("blocked flag not round-tripped: %+v", got)
	}

	updated, err := s.GetConversation("sess-2")
	if err != nil {
		t.Fatalf("GetConversation: %v", err)
	}
	if !updated.UpdatedAt.After(conv.UpdatedAt) {
		t.Fatalf("expected updated_at to advance: %v -> %v", conv.UpdatedAt, updated.UpdatedAt)
	}
}

func TestMessagesReturnsFullHistory(t *testing.T) {
	s := newTestStore(t)
	conv, err := s.GetOrCreateConversation("long", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for i := 0; i < 25; i++ {
		if _, err := s.AppendMessage(conv.ID, Message{Role: RoleUser, Content: fmt.Sprintf("m%d", i)}); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	all, err := s.Messages("long")
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if len(all) != 25 {
		t.Fatalf("expected 25 messages, got %d", len(all))
	}
	if all[0].Content != "m0" || all[24].Content != "m24" {
		t.Fatalf("unexpected order: first %q last %q", all[0].Content, all[24].Content)
	}

	recent, err := s.RecentMessages("long", 0)
	if err != nil {
		t.Fatalf("RecentMessages: %v", err)
	}
	if len(recent) != 20 || recent[0].Content != "m5" {
		t.Fatalf("default recent window wrong: %d messages, first %q", len(recent), recent[0].Content)
	}

	if _, err := s.Messages("missing"); !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}
}

func TestListAndDeleteConversations(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	a, _ := s.GetOrCreateConversation("a", "")
	if _, err := s.GetOrCreateConversation("b", ""); err != nil {
		t.Fatalf("create b: %v", err)
	}
	if _, err := s.AppendMessage(a.ID, Message{Role: RoleUser, Content: "hi"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	list, err := s.ListConversations(10)
	if err != nil {
		t.Fatalf("ListConversations: %v", err)
	}
	if len(list) != 2 || list[0].SessionID != "a" {
		t.Fatalf("expected a first, got %+v", list)
	}

	if err := s.DeleteConversation("a"); err != nil {
		t.Fatalf("DeleteConversation: %v", err)
	}
	if _, err := s.GetConversation("a"); !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("expected deleted conversation to be gone, got %v", err)
	}
	if err := s.DeleteConversation("a"); !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound on second delete, got %v", err)
	}
}
