package transcript

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func testStore(t *testing.T) *Store {
	t.Helper()

	s, err := OpenStore(filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreSessionRoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	if err := s.CreateSession(ctx, Session{ID: "s1", Scenario: "Cold Call", Category: "cold_call", StartedAt: started}); err != nil {
		t.Fatal(err)
	}

	got, err := s.Session(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Scenario != "Cold Call" || !got.StartedAt.Equal(started) || got.EndedAt != nil {
		t.Errorf("unexpected session %+v", got)
	}

	if err := s.EndSession(ctx, "s1", started.Add(time.Minute)); err != nil {
		t.Fatal(err)
	}
	got, err = s.Session(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if got.EndedAt == nil || !got.EndedAt.Equal(started.Add(time.Minute)) {
		t.Errorf("EndedAt = %v", got.EndedAt)
	}
}

func TestStoreMissingSession(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if _, err := s.Session(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Session: %v", err)
	}
	if err := s.EndSession(ctx, "nope", time.Now()); !errors.Is(err, ErrNotFound) {
		t.Errorf("EndSession: %v", err)
	}
}

func TestStoreTurnsOrderedAndDeduplicated(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.CreateSession(ctx, Session{ID: "s1", Scenario: "x", Category: "general", StartedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}

	turns := []Turn{
		{Seq: 2, Speaker: "counterpart", Text: "Hello? Who is this?", Pool: "greetings.cold_call"},
		{Seq: 1, Speaker: "user", Text: "Hi"},
		{Seq: 1, Speaker: "user", Text: "duplicate"},
	}
	for _, turn := range turns {
		if err := s.AppendTurn(ctx, "s1", turn); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.Turns(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Text != "Hi" || got[1].Pool != "greetings.cold_call" {
		t.Errorf("unexpected turns %+v", got)
	}
}

func TestFormat(t *testing.T) {
	got := Format([]Turn{
		{Speaker: "user", Text: "Hi"},
		{Speaker: "counterpart", Text: "Who is this?"},
	})

	want := "You: Hi\n\nCustomer: Who is this?"
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestStoreRecentSessions(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	// sub-second offsets exercise the text ordering of stored timestamps
	offsets := []time.Duration{0, 500 * time.Millisecond, time.Second, 90 * time.Second}
	for i, offset := range offsets {
		session := Session{
			ID:        fmt.Sprintf("s%d", i),
			Scenario:  "Discovery",
			Category:  "discovery",
			StartedAt: base.Add(offset),
		}
		if err := s.CreateSession(ctx, session); err != nil {
			t.Fatal(err)
		}
	}

	for seq, speaker := range []string{"counterpart", "user", "counterpart", "user"} {
		if err := s.AppendTurn(ctx, "s3", Turn{Seq: seq + 1, Speaker: speaker, Text: "x", CreatedAt: base}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.RecentSessions(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}

	ids := make([]string, 0, len(got))
	for _, session := range got {
		ids = append(ids, session.ID)
	}
	if !slices.Equal(ids, []string{"s3", "s2", "s1"}) {
		t.Errorf("RecentSessions ids = %v", ids)
	}
	if got[0].UserTurns != 2 || got[1].UserTurns != 0 {
		t.Errorf("user turns = %d, %d", got[0].UserTurns, got[1].UserTurns)
	}
}
