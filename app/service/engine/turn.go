package engine

// Speaker identifies who said a turn.
type Speaker string

const (
	SpeakerUser        Speaker = "user"
	SpeakerCounterpart Speaker = "counterpart"
)

// Turn is one message of a practice conversation.
type Turn struct {
	Speaker Speaker `json:"speaker" validate:"required,oneof=user counterpart"`
	Text    string  `json:"text"`
}

// scan returns the number of user turns and the text of the last one,
// plus the last counterpart line.
func scan(history []Turn) (count int, latest, previous string) {
	for _, turn := range history {
		switch turn.Speaker {
		case SpeakerUser:
			count++
			latest = turn.Text
		case SpeakerCounterpart:
			previous = turn.Text
		}
	}

	return count, latest, previous
}
