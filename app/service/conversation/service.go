package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"pitchdrill/app/service/coaching"
	"pitchdrill/app/service/engine"
	"pitchdrill/app/service/queue"
	"pitchdrill/app/service/scenario"

	"github.com/google/uuid"
	"github.com/samber/do"
)

const (
	idleTimeout   = time.Hour
	sweepInterval = time.Minute
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionFull     = errors.New("session has too many turns")
)

type Service struct {
	engineSvc *engine.Service
	queueSvc  *queue.Service
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]*state
}

func New(di *do.Injector) (*Service, error) {
	return NewService(
		do.MustInvoke[*engine.Service](di),
		do.MustInvoke[*queue.Service](di),
	), nil
}

func NewService(engineSvc *engine.Service, queueSvc *queue.Service) *Service {
	return &Service{
		engineSvc: engineSvc,
		queueSvc:  queueSvc,
		now:       time.Now,
		sessions:  make(map[string]*state),
	}
}

// Start opens a practice session for a scenario descriptor.
// The counterpart speaks first with a greeting for the scenario.
func (s *Service) Start(descriptor string) (*Session, error) {
	opening, err := s.engineSvc.Opening(descriptor)
	if err != nil {
		return nil, fmt.Errorf("engineSvc.Opening: %w", err)
	}

	now := s.now()

	st := &state{
		id:        uuid.NewString(),
		scenario:  descriptor,
		category:  scenario.Classify(descriptor),
		startedAt: now,
		lastUsed:  now,
	}

	openingTurn := engine.Turn{Speaker: engine.SpeakerCounterpart, Text: opening.Text}
	openingSeq := st.history.add(openingTurn, string(opening.Pool), now)

	s.mu.Lock()
	s.sessions[st.id] = st
	s.mu.Unlock()

	s.queueSvc.Add(queue.Message{
		Kind:      queue.KindSessionStarted,
		SessionID: st.id,
		Scenario:  st.scenario,
		Category:  string(st.category),
		At:        now,
	})
	s.archiveTurn(st.id, openingSeq, openingTurn, string(opening.Pool), now)

	slog.Info("Session started",
		"session_id", st.id,
		"scenario", descriptor,
		"category", st.category,
	)

	return st.snapshot(), nil
}

// Send records the trainee's message and returns the counterpart's reply.
func (s *Service) Send(ctx context.Context, id, text string) (*Exchange, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	st, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	return s.send(st, text)
}

func (s *Service) send(st *state, text string) (*Exchange, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	// End won the race for the lock
	if st.ended {
		return nil, ErrSessionNotFound
	}

	if st.history.full() {
		return nil, ErrSessionFull
	}

	now := s.now()
	userTurn := engine.Turn{Speaker: engine.SpeakerUser, Text: text}
	userSeq := st.history.add(userTurn, "", now)

	reply, err := s.engineSvc.Reply(st.history.turns(), st.scenario)
	if err != nil {
		st.history.removeLast()
		return nil, fmt.Errorf("engineSvc.Reply: %w", err)
	}

	replyTurn := engine.Turn{Speaker: engine.SpeakerCounterpart, Text: reply.Decision.Text}
	replySeq := st.history.add(replyTurn, string(reply.Decision.Pool), now)
	st.lastUsed = now

	s.archiveTurn(st.id, userSeq, userTurn, "", now)
	s.archiveTurn(st.id, replySeq, replyTurn, string(reply.Decision.Pool), now)

	return &Exchange{
		SessionID: st.id,
		Reply:     reply.Decision.Text,
		Pool:      string(reply.Decision.Pool),
		Rule:      reply.Decision.Rule,
		Category:  reply.Category,
		TurnCount: reply.TurnCount,
		Intents:   reply.Flags.Names(),
		Tips:      coaching.Analyze(text, reply.Decision.Text, reply.TurnCount),
	}, nil
}

func (s *Service) Get(id string) (*Session, error) {
	st, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	return st.snapshot(), nil
}

// End closes a session and returns its final state.
func (s *Service) End(id string) (*Session, error) {
	s.mu.Lock()
	st, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return nil, ErrSessionNotFound
	}

	// the end event must follow every archived turn
	st.mu.Lock()
	defer st.mu.Unlock()

	st.ended = true

	s.queueSvc.Add(queue.Message{
		Kind:      queue.KindSessionEnded,
		SessionID: id,
		At:        s.now(),
	})

	slog.Info("Session ended",
		"session_id", id,
		"turns", len(st.history.entries),
	)

	return st.snapshot(), nil
}

// Run evicts idle sessions until ctx is done.
func (s *Service) Run(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Service) sweep() {
	cutoff := s.now().Add(-idleTimeout)
	expired := make([]string, 0)

	s.mu.RLock()
	for id, st := range s.sessions {
		st.mu.Lock()
		if st.lastUsed.Before(cutoff) {
			expired = append(expired, id)
		}
		st.mu.Unlock()
	}
	s.mu.RUnlock()

	for _, id := range expired {
		if _, err := s.End(id); err == nil {
			slog.Debug("Evicted idle session", "session_id", id)
		}
	}
}

func (s *Service) lookup(id string) (*state, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	return st, nil
}

func (s *Service) archiveTurn(sessionID string, seq int, turn engine.Turn, pool string, at time.Time) {
	s.queueSvc.Add(queue.Message{
		Kind:      queue.KindTurn,
		SessionID: sessionID,
		Seq:       seq,
		Speaker:   string(turn.Speaker),
		Text:      turn.Text,
		Pool:      pool,
		At:        at,
	})
}
