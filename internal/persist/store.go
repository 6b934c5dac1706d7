package persist

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// ErrConversationNotFound is returned for unknown session ids.
var ErrConversationNotFound = errors.New("conversation not found")

// Store keeps tutoring conversations in SQLite.
type Store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// NewStore creates a new SQLite-backed store at the given path
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	s := &Store{db: db, now: time.Now}

	if err := s.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return s, nil
}

// init creates the necessary tables if they don't exist
func (s *Store) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS conversations (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id    TEXT NOT NULL UNIQUE,
			subject_area  TEXT NOT NULL DEFAULT '',
			created_at    TEXT NOT NULL,
			updated_at    TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS messages (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			conversation_id  INTEGER NOT NULL,
			role             TEXT NOT NULL,
			content          TEXT,
			blocked          INTEGER NOT NULL DEFAULT 0,
			created_at       TEXT NOT NULL,
			FOREIGN KEY (conversation_id) REFERENCES conversations(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id);
		CREATE INDEX IF NOT EXISTS idx_conversations_updated ON conversations(updated_at);
	`)
	return err
}

// GetOrCreateConversation returns the conversation for sessionID, creating
// it when missing. A non-empty subjectArea replaces the stored one.
func (s *Store) GetOrCreateConversation(sessionID, subjectArea string) (*Conversation, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	nowStr := formatTime(now)

	conv, err := s.getConversationInternal(sessionID)
	if err != nil && !errors.Is(err, ErrConversationNotFound) {
		return nil, err
	}

	if conv != nil {
		if subjectArea != "" && subjectArea != conv.SubjectArea {
			if _, err := s.db.Exec(`UPDATE conversations SET subject_area = ?, updated_at = ? WHERE id = ?`,
				subjectArea, nowStr, conv.ID); err != nil {
				return nil, fmt.Errorf("update subject area: %w", err)
			}
			conv.SubjectArea = subjectArea
			conv.UpdatedAt = parseTime(nowStr)
		}
		return conv, nil
	}

	result, err := s.db.Exec(`
		INSERT INTO conversations (session_id, subject_area, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, sessionID, subjectArea, nowStr, nowStr)
	if err != nil {
		return nil, fmt.Errorf("insert conversation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &Conversation{
		ID:          id,
		SessionID:   sessionID,
		SubjectArea: subjectArea,
		CreatedAt:   parseTime(nowStr),
		UpdatedAt:   parseTime(nowStr),
	}, nil
}

// GetConversation looks up a conversation by session id.
func (s *Store) GetConversation(sessionID string) (*Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getConversationInternal(sessionID)
}

func (s *Store) getConversationInternal(sessionID string) (*Conversation, error) {
	row := s.db.QueryRow(`
		SELECT id, session_id, subject_area, created_at, updated_at
		FROM conversations
		WHERE session_id = ?
	`, sessionID)

	conv, err := scanConversation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrConversationNotFound, sessionID)
	}
	if err != nil {
		return nil, err
	}
	return conv, nil
}

func scanConversation(row scanner) (*Conversation, error) {
	var conv Conversation
	var createdAt, updatedAt string
	if err := row.Scan(&conv.ID, &conv.SessionID, &conv.SubjectArea, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	conv.CreatedAt = parseTime(createdAt)
	conv.UpdatedAt = parseTime(updatedAt)
	return &conv, nil
}

// ListConversations returns conversations, most recently updated first.
func (s *Store) ListConversations(limit int) ([]*Conversation, error) {
	if limit <= 0 {
		limit = 50
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, session_id, subject_area, created_at, updated_at
		FROM conversations
		ORDER BY updated_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Conversation
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, conv)
	}
	return out, rows.Err()
}

// AppendMessage stores msg in the given conversation and returns it with
// its id and timestamp filled in.
func (s *Store) AppendMessage(conversationID int64, msg Message) (Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nowStr := formatTime(s.now())
	blocked := 0
	if msg.Blocked {
		blocked = 1
	}

	result, err := s.db.Exec(`
		INSERT INTO messages (conversation_id, role, content, blocked, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, conversationID, msg.Role, msg.Content, blocked, nowStr)
	if err != nil {
		return Message{}, fmt.Errorf("insert message: %w", err)
	}

	if _, err := s.db.Exec(`UPDATE conversations SET updated_at = ? WHERE id = ?`, nowStr, conversationID); err != nil {
		return Message{}, fmt.Errorf("touch conversation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return Message{}, err
	}

	msg.ID = id
	msg.ConversationID = conversationID
	msg.CreatedAt = parseTime(nowStr)
	return msg, nil
}

// RecentMessages returns up to limit of the latest messages of a session in
// chronological order.
func (s *Store) RecentMessages(sessionID string, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.latestMessages(sessionID, limit)
}

// Messages returns the whole history of a session in chronological order.
func (s *Store) Messages(sessionID string) ([]Message, error) {
	// SQLite treats a negative LIMIT as no limit.
	return s.latestMessages(sessionID, -1)
}

func (s *Store) latestMessages(sessionID string, limit int) ([]Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, err := s.getConversationInternal(sessionID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT id, conversation_id, role, content, blocked, created_at
		FROM messages
		WHERE conversation_id = ?
		ORDER BY id DESC
		LIMIT ?
	`, conv.ID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var msg Message
		var content sql.NullString
		var blocked int
		var createdAt string

		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.Role, &content, &blocked, &createdAt); err != nil {
			return nil, err
		}
		msg.Content = content.String
		msg.Blocked = blocked != 0
		msg.CreatedAt = parseTime(createdAt)
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// DeleteConversation removes a session and its messages.
func (s *Store) DeleteConversation(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, err := s.getConversationInternal(sessionID)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM messages WHERE conversation_id = ?`, conv.ID); err != nil {
		return fmt.Errorf("delete messages: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM conversations WHERE id = ?`, conv.ID); err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	return tx.Commit()
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}
