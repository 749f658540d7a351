package transcript

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pitchdrill/app/config"
	"pitchdrill/app/service/queue"

	"github.com/samber/do"
)

const writeTimeout = 5 * time.Second

var _ do.Shutdownable = (*Service)(nil)

// Service archives transcript events from the queue and serves them back.
type Service struct {
	store    *Store
	queueSvc *queue.Service
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	store, err := OpenStore(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open transcript store: %w", err)
	}

	return NewService(store, do.MustInvoke[*queue.Service](di)), nil
}

func NewService(store *Store, queueSvc *queue.Service) *Service {
	return &Service{
		store:    store,
		queueSvc: queueSvc,
	}
}

// Run writes queued events until the queue is closed, or until ctx is done
// and the already buffered events are written.
func (s *Service) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			s.drain(ctx)
			return
		case msg, ok := <-s.queueSvc.Channel():
			if !ok {
				return
			}
			s.write(ctx, msg)
		}
	}
}

func (s *Service) drain(ctx context.Context) {
	for {
		select {
		case msg, ok := <-s.queueSvc.Channel():
			if !ok {
				return
			}
			s.write(ctx, msg)
		default:
			return
		}
	}
}

func (s *Service) write(ctx context.Context, msg queue.Message) {
	if err := s.apply(ctx, msg); err != nil {
		slog.Error("Failed to archive transcript event",
			"session_id", msg.SessionID,
			"kind", msg.Kind,
			"error", err,
		)
	}
}

func (s *Service) apply(ctx context.Context, msg queue.Message) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()

	switch msg.Kind {
	case queue.KindSessionStarted:
		return s.store.CreateSession(ctx, Session{
			ID:        msg.SessionID,
			Scenario:  msg.Scenario,
			Category:  msg.Category,
			StartedAt: msg.At,
		})
	case queue.KindTurn:
		return s.store.AppendTurn(ctx, msg.SessionID, Turn{
			Seq:       msg.Seq,
			Speaker:   msg.Speaker,
			Text:      msg.Text,
			Pool:      msg.Pool,
			CreatedAt: msg.At,
		})
	case queue.KindSessionEnded:
		return s.store.EndSession(ctx, msg.SessionID, msg.At)
	default:
		return fmt.Errorf("unknown event kind %q", msg.Kind)
	}
}

func (s *Service) Session(ctx context.Context, id string) (*Session, error) {
	return s.store.Session(ctx, id)
}

// Turns returns the archived turns of a session, empty when nothing was archived.
func (s *Service) Turns(ctx context.Context, id string) ([]Turn, error) {
	return s.store.Turns(ctx, id)
}

func (s *Service) RecentSessions(ctx context.Context, limit int) ([]Session, error) {
	return s.store.RecentSessions(ctx, limit)
}

func (s *Service) Shutdown() error {
	return s.store.Close()
}
