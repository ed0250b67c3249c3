package store

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateUser(t *testing.T) {
	s := newTestStore(t)

	first, err := s.CreateUser("Guest", "")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if first.UserID != 1 || first.Username != "Guest" {
		t.Fatalf("unexpected user: %+v", first)
	}

	second, err := s.CreateUser("Ada", "ada@example.com")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if second.UserID != 2 || second.Username != "Ada" || second.Email != "ada@example.com" {
		t.Fatalf("unexpected user: %+v", second)
	}

	fetched, err := s.GetUserByID(second.UserID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if fetched == nil || fetched.Username != "Ada" {
		t.Fatalf("unexpected fetched user: %+v", fetched)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.CreateUser("Ada", "ada@example.com"); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	if _, err := s.CreateUser("Impostor", "ada@example.com"); err == nil {
		t.Fatal("duplicate email should have failed")
	}

	// The failed insert must not leave a partial row behind.
	if user, err := s.GetUserByID(2); err != nil || user != nil {
		t.Fatalf("expected no second user, got %+v (err %v)", user, err)
	}
}

func TestGetUserByIDMissing(t *testing.T) {
	s := newTestStore(t)
	user, err := s.GetUserByID(42)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if user != nil {
		t.Fatalf("expected nil for missing user, got %+v", user)
	}
}

func TestChatTurnsOrderingAndLimit(t *testing.T) {
	s := newTestStore(t)

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 55; i++ {
		if _, err := s.CreateChatTurn(1, "question", "answer", base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("CreateChatTurn failed at %d: %v", i, err)
		}
	}

	limited, err := s.GetChatTurns(1, 50)
	if err != nil {
		t.Fatalf("GetChatTurns failed: %v", err)
	}
	if len(limited) != 50 {
		t.Fatalf("expected 50 turns with limit, got %d", len(limited))
	}

	// Newest first, strictly non-increasing by timestamp.
	for i := 1; i < len(limited); i++ {
		if limited[i].Timestamp > limited[i-1].Timestamp {
			t.Fatalf("turns out of order at %d: %s after %s", i, limited[i].Timestamp, limited[i-1].Timestamp)
		}
	}
	if limited[0].Timestamp != base.Add(54*time.Minute).Format(time.RFC3339) {
		t.Fatalf("newest turn not first: %s", limited[0].Timestamp)
	}

	all, err := s.GetChatTurns(1, 0)
	if err != nil {
		t.Fatalf("GetChatTurns failed: %v", err)
	}
	if len(all) != 55 {
		t.Fatalf("expected all 55 turns without limit, got %d", len(all))
	}
}

func TestChatTurnsPerUser(t *testing.T) {
	s := newTestStore(t)

	now := time.Now()
	if _, err := s.CreateChatTurn(1, "from one", "reply", now); err != nil {
		t.Fatalf("CreateChatTurn failed: %v", err)
	}
	if _, err := s.CreateChatTurn(2, "from two", "reply", now); err != nil {
		t.Fatalf("CreateChatTurn failed: %v", err)
	}

	turns, err := s.GetChatTurns(1, 0)
	if err != nil {
		t.Fatalf("GetChatTurns failed: %v", err)
	}
	if len(turns) != 1 || turns[0].UserMessage != "from one" {
		t.Fatalf("expected only user 1's turn, got %+v", turns)
	}
}

func TestChatTurnTimestampRoundTrip(t *testing.T) {
	s := newTestStore(t)

	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	created, err := s.CreateChatTurn(1, "hi", "hello", at)
	if err != nil {
		t.Fatalf("CreateChatTurn failed: %v", err)
	}
	if created.Timestamp != "2024-03-01T09:30:00Z" {
		t.Fatalf("unexpected stored timestamp: %s", created.Timestamp)
	}

	turns, err := s.GetChatTurns(1, 0)
	if err != nil {
		t.Fatalf("GetChatTurns failed: %v", err)
	}
	if len(turns) != 1 || turns[0].Timestamp != created.Timestamp {
		t.Fatalf("timestamp did not round-trip: %+v", turns)
	}
}

func TestChatTurnsTolerateDefaultTimestamp(t *testing.T) {
	s := newTestStore(t)

	// Rows written outside this service may rely on the column default,
	// which stores "YYYY-MM-DD HH:MM:SS". Reads must hand them back as-is.
	if _, err := s.db.Exec("INSERT INTO chats (user_id, user_message, ai_response) VALUES (1, 'hi', 'hello')"); err != nil {
		t.Fatalf("raw insert failed: %v", err)
	}

	turns, err := s.GetChatTurns(1, 0)
	if err != nil {
		t.Fatalf("GetChatTurns failed: %v", err)
	}
	if len(turns) != 1 || turns[0].Timestamp == "" {
		t.Fatalf("expected default timestamp text, got %+v", turns)
	}
}
