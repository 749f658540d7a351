package conversation

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"pitchdrill/app/service/corpus"
	"pitchdrill/app/service/engine"
	"pitchdrill/app/service/queue"
	"pitchdrill/app/service/responder"
	"pitchdrill/app/service/scenario"
)

func newTestService(t *testing.T) (*Service, *queue.Service, *corpus.Corpus) {
	t.Helper()

	c, err := corpus.Load("")
	if err != nil {
		t.Fatal(err)
	}
	q, _ := queue.New(nil)

	return NewService(engine.NewService(c, responder.NewSeededPicker(1)), q), q, c
}

func start(t *testing.T, s *Service, descriptor string) *Session {
	t.Helper()

	session, err := s.Start(descriptor)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	return session
}

func drain(q *queue.Service) []queue.Message {
	result := make([]queue.Message, 0)
	for {
		select {
		case msg := <-q.Channel():
			result = append(result, msg)
		default:
			return result
		}
	}
}

func TestSessionLifecycle(t *testing.T) {
	s, q, c := newTestService(t)
	ctx := context.Background()

	session := start(t, s, "Contract Negotiation")
	if session.Category != scenario.CategoryNegotiation || session.ID == "" {
		t.Fatalf("unexpected session %+v", session)
	}
	if len(session.Turns) != 1 || session.Turns[0].Speaker != engine.SpeakerCounterpart {
		t.Fatalf("session should open with a counterpart greeting, got %+v", session.Turns)
	}
	if !slices.Contains(c.Greetings(scenario.CategoryNegotiation), session.Turns[0].Text) {
		t.Errorf("%q is not a negotiation greeting", session.Turns[0].Text)
	}

	ex, err := s.Send(ctx, session.ID, "Hi, thanks for the time")
	if err != nil {
		t.Fatal(err)
	}
	if ex.TurnCount != 1 || ex.Pool != string(corpus.GreetingPool(scenario.CategoryNegotiation)) || ex.Reply == "" {
		t.Errorf("unexpected first exchange %+v", ex)
	}

	ex, err = s.Send(ctx, session.ID, "When could you implement this?")
	if err != nil {
		t.Fatal(err)
	}
	if ex.TurnCount != 2 || ex.Pool != string(corpus.PoolNegotiationTimeline) {
		t.Errorf("unexpected second exchange %+v", ex)
	}
	if !slices.Contains(ex.Intents, "timeline") || !slices.Contains(ex.Intents, "question") {
		t.Errorf("intents = %v", ex.Intents)
	}

	got, err := s.Get(session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Turns) != 5 || got.Turns[4].Speaker != engine.SpeakerCounterpart {
		t.Errorf("unexpected turns %+v", got.Turns)
	}

	if _, err := s.End(session.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get after End: %v", err)
	}

	kinds := make([]queue.Kind, 0)
	for _, msg := range drain(q) {
		kinds = append(kinds, msg.Kind)
	}
	want := []queue.Kind{
		queue.KindSessionStarted,
		queue.KindTurn,
		queue.KindTurn, queue.KindTurn,
		queue.KindTurn, queue.KindTurn,
		queue.KindSessionEnded,
	}
	if !slices.Equal(kinds, want) {
		t.Errorf("queued %v, want %v", kinds, want)
	}
}

func TestSendUnknownSession(t *testing.T) {
	s, _, _ := newTestService(t)

	if _, err := s.Send(context.Background(), "missing", "hello"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Send: %v", err)
	}
	if _, err := s.End("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("End: %v", err)
	}
}

func TestSendCancelledContext(t *testing.T) {
	s, _, _ := newTestService(t)
	session := start(t, s, "Discovery")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Send(ctx, session.ID, "hello"); !errors.Is(err, context.Canceled) {
		t.Errorf("Send: %v", err)
	}
}

func TestSendFullSession(t *testing.T) {
	s, _, _ := newTestService(t)
	session := start(t, s, "Discovery")
	ctx := context.Background()

	for i := 0; i < maxHistorySize/2; i++ {
		if _, err := s.Send(ctx, session.ID, "ok"); err != nil {
			t.Fatalf("Send %d: %v", i, err)
		}
	}

	if _, err := s.Send(ctx, session.ID, "ok"); !errors.Is(err, ErrSessionFull) {
		t.Errorf("Send: %v", err)
	}
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	s, _, _ := newTestService(t)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	idle := start(t, s, "Discovery")
	now = now.Add(2 * idleTimeout)
	active := start(t, s, "Discovery")

	s.sweep()

	if _, err := s.Get(idle.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("idle session should be evicted: %v", err)
	}
	if _, err := s.Get(active.ID); err != nil {
		t.Errorf("active session should remain: %v", err)
	}
}

func TestSendAfterEnd(t *testing.T) {
	s, _, _ := newTestService(t)
	session := start(t, s, "Discovery")

	st, err := s.lookup(session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.End(session.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := s.send(st, "are you still there?"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("send on ended session: %v", err)
	}
}

func TestEndWaitsForInFlightSend(t *testing.T) {
	s, q, _ := newTestService(t)
	session := start(t, s, "Discovery")

	st, err := s.lookup(session.ID)
	if err != nil {
		t.Fatal(err)
	}

	// hold the session as a Send in progress would
	st.mu.Lock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := s.End(session.ID); err != nil {
			t.Errorf("End: %v", err)
		}
	}()

	deadline := time.Now().Add(5 * time.Second)
	for {
		if _, err := s.lookup(session.ID); errors.Is(err, ErrSessionNotFound) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("End did not remove the session")
		}
		time.Sleep(time.Millisecond)
	}

	late := engine.Turn{Speaker: engine.SpeakerUser, Text: "late"}
	seq := st.history.add(late, "", time.Now())
	s.archiveTurn(st.id, seq, late, "", time.Now())
	st.mu.Unlock()
	<-done

	messages := drain(q)
	if last := messages[len(messages)-1]; last.Kind != queue.KindSessionEnded {
		t.Errorf("last queued event is %s, want session_ended", last.Kind)
	}
}
