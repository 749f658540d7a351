package conversation

import (
	"time"

	"pitchdrill/app/service/engine"
)

const maxHistorySize = 200

type entry struct {
	Turn      engine.Turn
	Pool      string
	Timestamp time.Time
}

// history keeps every turn of a session; turn counting depends on it being complete.
type history struct {
	entries []entry
}

func (h *history) add(turn engine.Turn, pool string, at time.Time) int {
	h.entries = append(h.entries, entry{
		Turn:      turn,
		Pool:      pool,
		Timestamp: at,
	})

	return len(h.entries)
}

func (h *history) removeLast() {
	if len(h.entries) > 0 {
		h.entries = h.entries[:len(h.entries)-1]
	}
}

func (h *history) full() bool {
	return len(h.entries) >= maxHistorySize
}

func (h *history) turns() []engine.Turn {
	result := make([]engine.Turn, len(h.entries))
	for i, e := range h.entries {
		result[i] = e.Turn
	}

	return result
}
