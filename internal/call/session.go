// Package call tracks per-call state and drives the phone-call flow:
// greet, gather input, respond, continue or terminate.
package call

import (
	"sync"
	"time"
)

// State is the lifecycle phase of a call
type State string

const (
	// StateGreeting is the initial state, entered on first contact
	StateGreeting State = "greeting"
	// StateGathering means the greeting went out and input is awaited
	StateGathering State = "gathering"
	// StateEnded is terminal; the session is kept for audit only
	StateEnded State = "ended"
)

// TurnPair is one user utterance and the agent's reply
type TurnPair struct {
	User  string
	Agent string
}

// Session is the per-call record, keyed by the telephony call identifier
type Session struct {
	CallID    string
	From      string
	Outbound  bool
	State     State
	Turns     []TurnPair
	StartedAt time.Time
	UpdatedAt time.Time
}

// Registry holds all call sessions for the process lifetime. Entries are
// never evicted: expected call volumes make the retention cheap, and ended
// sessions double as an audit trail. Len lets an operator watch growth.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// GetOrCreate returns the session for callID, creating it in StateGreeting on
// first contact. The second return reports whether it already existed.
func (r *Registry) GetOrCreate(callID, from string, outbound bool) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[callID]; ok {
		s.UpdatedAt = time.Now()
		return s, true
	}
	s := &Session{
		CallID:    callID,
		From:      from,
		Outbound:  outbound,
		State:     StateGreeting,
		StartedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	r.sessions[callID] = s
	return s, false
}

// Get returns the session for callID, or nil
func (r *Registry) Get(callID string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[callID]
}

// State returns the call's current phase under the lock, so callers never
// read it off the shared session while an Update writes it. Unknown calls
// report the zero value.
func (r *Registry) State(callID string) State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.sessions[callID]; ok {
		return s.State
	}
	return ""
}

// Update runs fn with the registry lock held, serializing mutations of the
// same call against concurrent webhooks.
func (r *Registry) Update(callID string, fn func(*Session)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[callID]; ok {
		fn(s)
		s.UpdatedAt = time.Now()
	}
}

// Len returns the number of tracked sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
