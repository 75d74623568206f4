package convo

// Role tags a history turn for the chat model.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Turn struct {
	Role Role
	Text string
}

// maxHistoryTurns bounds the context sent to the chat model. Oldest
// turns fall off first.
const maxHistoryTurns = 20

// History is the rolling conversation transcript. Not safe for
// concurrent use; the state machine owns it.
type History struct {
	turns []Turn
}

func (h *History) Append(role Role, text string) {
	h.turns = append(h.turns, Turn{Role: role, Text: text})
	if len(h.turns) > maxHistoryTurns {
		h.turns = h.turns[len(h.turns)-maxHistoryTurns:]
	}
}

func (h *History) Turns() []Turn {
	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

func (h *History) Len() int { return len(h.turns) }

func (h *History) Reset() { h.turns = nil }

// RecentAssistant returns up to n most recent assistant turns, oldest
// first. The outcome classifier uses them for context.
func (h *History) RecentAssistant(n int) []string {
	var out []string
	for i := len(h.turns) - 1; i >= 0 && len(out) < n; i-- {
		if h.turns[i].Role == RoleAssistant {
			out = append(out, h.turns[i].Text)
		}
	}
	// reverse to oldest-first
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
