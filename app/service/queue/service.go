package queue

import (
	"log/slog"
	"time"

	"github.com/samber/do"
)

const bufferSize = 256

var _ do.Shutdownable = (*Service)(nil)

type Kind string

const (
	KindSessionStarted Kind = "session_started"
	KindTurn           Kind = "turn"
	KindSessionEnded   Kind = "session_ended"
)

// Message is a transcript event waiting to be archived.
type Message struct {
	Kind      Kind
	SessionID string
	Scenario  string
	Category  string
	Seq       int
	Speaker   string
	Text      string
	Pool      string
	At        time.Time
}

type Service struct {
	queue chan Message
}

func New(_ *do.Injector) (*Service, error) {
	return &Service{
		queue: make(chan Message, bufferSize),
	}, nil
}

// Add enqueues msg without blocking; it is dropped when the queue is full or closed.
func (s *Service) Add(msg Message) bool {
	added := false

	defer func() {
		if r := recover(); r != nil {
			slog.Warn("message queue is closed", "session_id", msg.SessionID)
		}
	}()

	select {
	case s.queue <- msg:
		added = true
	default:
		slog.Warn("message queue is full", "session_id", msg.SessionID)
	}

	return added
}

func (s *Service) Channel() <-chan Message {
	return s.queue
}

func (s *Service) Shutdown() error {
	close(s.queue)

	return nil
}
