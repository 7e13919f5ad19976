// Package history keeps bounded per-session conversation history.
package history

import "sync"

// MaxTurns is the per-session cap; oldest turns are evicted first
const MaxTurns = 10

// Role identifies who produced a turn
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "assistant"
)

// Turn is one (role, content) unit of conversation. Immutable once appended.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Store is the session-keyed history abstraction injected into the agent.
// Implementations must serialize concurrent access to the same session so
// turns land in strict arrival order.
type Store interface {
	Append(sessionID string, turn Turn)
	History(sessionID string) []Turn
	Reset(sessionID string)
}

// Bounded is the in-memory Store: one rolling window of MaxTurns per session.
// Sessions are created lazily on first Append and live for the process
// lifetime unless Reset.
type Bounded struct {
	mu       sync.RWMutex
	sessions map[string][]Turn
	maxTurns int
}

// NewBounded creates an empty bounded store
func NewBounded() *Bounded {
	return &Bounded{
		sessions: make(map[string][]Turn),
		maxTurns: MaxTurns,
	}
}

// Append adds a turn to the session, evicting from the front once the cap is
// exceeded so the most recent context is preserved.
func (b *Bounded) Append(sessionID string, turn Turn) {
	b.mu.Lock()
	defer b.mu.Unlock()

	turns := append(b.sessions[sessionID], turn)
	if len(turns) > b.maxTurns {
		turns = turns[len(turns)-b.maxTurns:]
	}
	b.sessions[sessionID] = turns
}

// History returns a copy of the session's turns in arrival order
func (b *Bounded) History(sessionID string) []Turn {
	b.mu.RLock()
	defer b.mu.RUnlock()

	turns := b.sessions[sessionID]
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}

// Reset clears the session's history atomically
func (b *Bounded) Reset(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.sessions, sessionID)
}

// Len returns the number of live sessions
func (b *Bounded) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.sessions)
}
