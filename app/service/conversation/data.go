package conversation

import (
	"sync"
	"time"

	"pitchdrill/app/service/coaching"
	"pitchdrill/app/service/engine"
	"pitchdrill/app/service/scenario"
)

// Session is a snapshot of a practice conversation.
type Session struct {
	ID        string            `json:"id"`
	Scenario  string            `json:"scenario"`
	Category  scenario.Category `json:"category"`
	StartedAt time.Time         `json:"started_at"`
	Turns     []engine.Turn     `json:"turns"`
}

// Exchange is the result of one trainee message.
type Exchange struct {
	SessionID string            `json:"session_id"`
	Reply     string            `json:"reply"`
	Pool      string            `json:"pool"`
	Rule      string            `json:"rule"`
	Category  scenario.Category `json:"category"`
	TurnCount int               `json:"turn_count"`
	Intents   []string          `json:"intents"`
	Tips      []coaching.Tip    `json:"tips"`
}

type state struct {
	mu sync.Mutex

	id        string
	scenario  string
	category  scenario.Category
	startedAt time.Time
	lastUsed  time.Time
	ended     bool
	history   history
}

func (s *state) snapshot() *Session {
	return &Session{
		ID:        s.id,
		Scenario:  s.scenario,
		Category:  s.category,
		StartedAt: s.startedAt,
		Turns:     s.history.turns(),
	}
}
