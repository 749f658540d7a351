package transcript

import "time"

type Session struct {
	ID        string     `json:"id"`
	Scenario  string     `json:"scenario"`
	Category  string     `json:"category"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	UserTurns int        `json:"user_turns"`
}

type Turn struct {
	Seq       int       `json:"seq"`
	Speaker   string    `json:"speaker"`
	Text      string    `json:"text"`
	Pool      string    `json:"pool,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
