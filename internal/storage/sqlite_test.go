package storage

import (
	"fmt"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// insertAt writes a conversation with an explicit created_at, bypassing
// SaveConversation's now() stamp.
func insertAt(t *testing.T, s *Store, message string, createdAt time.Time) {
	t.Helper()
	_, err := s.db.Exec(`
		INSERT INTO conversations (user_message, bot_response, session_id, created_at)
		VALUES (?, ?, ?, ?)`,
		message, "reply", "sess", createdAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("inserting conversation: %v", err)
	}
}

// TestMigrationsIdempotent runs Open twice on the same database and verifies
// the schema_version count stays correct (migration not re-applied).
func TestMigrationsIdempotent(t *testing.T) {
	dir := t.TempDir()

	s1, err := Open(dir)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}

	v1, err := s1.AppliedMigrations()
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}
	s1.Close()

	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	defer s2.Close()

	v2, err := s2.AppliedMigrations()
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}

	if len(v1) != len(v2) {
		t.Errorf("migration count changed: %d -> %d", len(v1), len(v2))
	}
}

// TestIndexesExist verifies that indexes on the conversations table are created by the migration.
func TestIndexesExist(t *testing.T) {
	s := openTestStore(t)

	indexes := []string{"idx_conversations_created", "idx_conversations_session"}
	for _, idx := range indexes {
		var count int
		err := s.db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name=?", idx).Scan(&count)
		if err != nil {
			t.Fatalf("querying sqlite_master for %q: %v", idx, err)
		}
		if count != 1 {
			t.Errorf("index %q not found in sqlite_master", idx)
		}
	}
}

// TestSaveThenHistory saves one exchange and verifies history(1) returns
// exactly that record.
func TestSaveThenHistory(t *testing.T) {
	s := openTestStore(t)

	id, err := s.SaveConversation("what are your hours", "Our business hours...", "sess-1")
	if err != nil {
		t.Fatalf("SaveConversation: %v", err)
	}
	if id <= 0 {
		t.Fatalf("id = %d, want > 0", id)
	}

	got, err := s.RecentConversations(1, "")
	if err != nil {
		t.Fatalf("RecentConversations: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	if got[0].ID != id {
		t.Errorf("ID = %d, want %d", got[0].ID, id)
	}
	if got[0].UserMessage != "what are your hours" {
		t.Errorf("UserMessage = %q", got[0].UserMessage)
	}
	if got[0].BotResponse != "Our business hours..." {
		t.Errorf("BotResponse = %q", got[0].BotResponse)
	}
	if got[0].SessionID != "sess-1" {
		t.Errorf("SessionID = %q, want %q", got[0].SessionID, "sess-1")
	}
	if got[0].CreatedAt.IsZero() {
		t.Error("CreatedAt is zero")
	}
}

// TestIDsStrictlyIncreasing verifies assigned IDs grow monotonically.
func TestIDsStrictlyIncreasing(t *testing.T) {
	s := openTestStore(t)

	var last int64
	for i := 0; i < 5; i++ {
		id, err := s.SaveConversation(fmt.Sprintf("message %d", i), "reply", "sess")
		if err != nil {
			t.Fatalf("SaveConversation %d: %v", i, err)
		}
		if id <= last {
			t.Fatalf("id %d not greater than previous %d", id, last)
		}
		last = id
	}
}

// TestCountConversations verifies count() after N saves equals N.
func TestCountConversations(t *testing.T) {
	s := openTestStore(t)

	const n = 7
	for i := 0; i < n; i++ {
		if _, err := s.SaveConversation(fmt.Sprintf("message %d", i), "reply", "sess"); err != nil {
			t.Fatalf("SaveConversation %d: %v", i, err)
		}
	}

	count, err := s.CountConversations()
	if err != nil {
		t.Fatalf("CountConversations: %v", err)
	}
	if count != n {
		t.Errorf("count = %d, want %d", count, n)
	}
}

func TestCountSessions(t *testing.T) {
	s := openTestStore(t)

	for _, sess := range []string{"a", "b", "a", "c", "b"} {
		if _, err := s.SaveConversation("msg", "reply", sess); err != nil {
			t.Fatalf("SaveConversation: %v", err)
		}
	}

	count, err := s.CountSessions()
	if err != nil {
		t.Fatalf("CountSessions: %v", err)
	}
	if count != 3 {
		t.Errorf("sessions = %d, want 3", count)
	}
}

// TestRecentConversations_Order saves records at spread timestamps and
// verifies newest-first ordering with the limit applied.
func TestRecentConversations_Order(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		insertAt(t, s, fmt.Sprintf("message %02d", i), base.Add(time.Duration(i)*time.Hour))
	}

	got, err := s.RecentConversations(5, "")
	if err != nil {
		t.Fatalf("RecentConversations: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("got %d records, want 5", len(got))
	}

	for i := 1; i < len(got); i++ {
		if got[i].CreatedAt.After(got[i-1].CreatedAt) {
			t.Errorf("not in descending order: [%d]=%v > [%d]=%v", i, got[i].CreatedAt, i-1, got[i-1].CreatedAt)
		}
	}
	if got[0].UserMessage != "message 09" {
		t.Errorf("first record = %q, want %q", got[0].UserMessage, "message 09")
	}
}

// TestRecentConversations_SessionFilter verifies the optional session filter.
func TestRecentConversations_SessionFilter(t *testing.T) {
	s := openTestStore(t)

	for i := 0; i < 3; i++ {
		if _, err := s.SaveConversation("from a", "reply", "sess-a"); err != nil {
			t.Fatalf("SaveConversation: %v", err)
		}
	}
	if _, err := s.SaveConversation("from b", "reply", "sess-b"); err != nil {
		t.Fatalf("SaveConversation: %v", err)
	}

	got, err := s.RecentConversations(100, "sess-a")
	if err != nil {
		t.Fatalf("RecentConversations: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d records, want 3", len(got))
	}
	for _, c := range got {
		if c.SessionID != "sess-a" {
			t.Errorf("SessionID = %q, want %q", c.SessionID, "sess-a")
		}
	}
}

// TestPurgeOlderThan_ZeroDeletesAll verifies purge(0) empties the store.
func TestPurgeOlderThan_ZeroDeletesAll(t *testing.T) {
	s := openTestStore(t)

	for i := 0; i < 4; i++ {
		if _, err := s.SaveConversation("msg", "reply", "sess"); err != nil {
			t.Fatalf("SaveConversation: %v", err)
		}
	}

	deleted, err := s.PurgeOlderThan(0)
	if err != nil {
		t.Fatalf("PurgeOlderThan: %v", err)
	}
	if deleted != 4 {
		t.Errorf("deleted = %d, want 4", deleted)
	}

	count, err := s.CountConversations()
	if err != nil {
		t.Fatalf("CountConversations: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

// TestPurgeOlderThan_FarCutoffDeletesNone verifies purge(9999) keeps everything.
func TestPurgeOlderThan_FarCutoffDeletesNone(t *testing.T) {
	s := openTestStore(t)

	for i := 0; i < 3; i++ {
		if _, err := s.SaveConversation("msg", "reply", "sess"); err != nil {
			t.Fatalf("SaveConversation: %v", err)
		}
	}

	deleted, err := s.PurgeOlderThan(9999)
	if err != nil {
		t.Fatalf("PurgeOlderThan: %v", err)
	}
	if deleted != 0 {
		t.Errorf("deleted = %d, want 0", deleted)
	}

	count, err := s.CountConversations()
	if err != nil {
		t.Fatalf("CountConversations: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}

// TestPurgeOlderThan_CutoffBoundary verifies only records past the cutoff go.
func TestPurgeOlderThan_CutoffBoundary(t *testing.T) {
	s := openTestStore(t)

	now := time.Now().UTC()
	insertAt(t, s, "old", now.AddDate(0, 0, -10))
	insertAt(t, s, "recent", now.AddDate(0, 0, -1))

	deleted, err := s.PurgeOlderThan(7)
	if err != nil {
		t.Fatalf("PurgeOlderThan: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	got, err := s.RecentConversations(10, "")
	if err != nil {
		t.Fatalf("RecentConversations: %v", err)
	}
	if len(got) != 1 || got[0].UserMessage != "recent" {
		t.Errorf("surviving records = %+v, want only %q", got, "recent")
	}
}
