// Package agent implements the completion fallback chain: remote completion
// when available, rule-based replies otherwise. Respond always produces a
// string; nothing in this package can fail a turn.
package agent

import (
	"context"
	"strings"
	"time"

	"github.com/xcerlabs/talkagent/internal/history"
	"github.com/xcerlabs/talkagent/internal/intent"
	"github.com/xcerlabs/talkagent/internal/logging"
	"github.com/xcerlabs/talkagent/internal/respond"
)

// SystemPreamble is sent with every completion request
const SystemPreamble = "You are XCER AI, a helpful voice assistant. Be concise and friendly. Keep responses short (1-2 sentences) for voice calls. Don't use markdown or special formatting."

// ApologyReply is the terminal fallback. The rule-based path is total, so in
// practice this is only reachable if the generator is misconfigured.
const ApologyReply = "I'm having trouble connecting to AI. Please try again."

// Completer is the remote completion collaborator
type Completer interface {
	Complete(ctx context.Context, preamble string, turns []history.Turn) (string, error)
}

// Agent ties the history store, the completion backend, and the rule-based
// generator into one Respond entry point.
type Agent struct {
	completer Completer // nil when the backend is not configured
	store     history.Store
	gen       *respond.Generator
	timeout   time.Duration
}

// New creates an agent. completer may be nil; the agent then runs purely on
// the rule-based path and Available reports false.
func New(completer Completer, store history.Store, gen *respond.Generator, timeout time.Duration) *Agent {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Agent{
		completer: completer,
		store:     store,
		gen:       gen,
		timeout:   timeout,
	}
}

// Available reports whether the remote completion backend is usable.
// Decided once at construction, never toggled mid-process.
func (a *Agent) Available() bool {
	return a.completer != nil
}

// Respond produces the agent's reply for one utterance in one session.
// Chain: empty-input short circuit → remote completion → classify+generate →
// fixed apology. Never fails.
func (a *Agent) Respond(ctx context.Context, sessionID, utterance string) string {
	if strings.TrimSpace(utterance) == "" {
		return respond.EmptyReply
	}

	if a.completer != nil {
		if reply, ok := a.tryCompletion(ctx, sessionID, utterance); ok {
			return reply
		}
	}

	it := intent.Classify(utterance)
	logging.Debug("agent", "Rule-based path: intent=%s for %q", it, logging.Truncate(utterance, 50))
	if reply := a.gen.Generate(it, utterance); reply != "" {
		return reply
	}
	return ApologyReply
}

// Reset clears the session's conversation history
func (a *Agent) Reset(sessionID string) {
	a.store.Reset(sessionID)
	logging.Info("agent", "Conversation reset: %s", sessionID)
}

// History exposes the session's current turns (for audit and debugging)
func (a *Agent) History(sessionID string) []history.Turn {
	return a.store.History(sessionID)
}

func (a *Agent) tryCompletion(ctx context.Context, sessionID, utterance string) (string, bool) {
	a.store.Append(sessionID, history.Turn{Role: history.RoleUser, Content: utterance})

	cctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	reply, err := a.completer.Complete(cctx, SystemPreamble, a.store.History(sessionID))
	if err != nil {
		logging.Warn("agent", "Completion failed, falling back to rules: %v", err)
		return "", false
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		logging.Warn("agent", "Completion returned empty reply, falling back to rules")
		return "", false
	}

	a.store.Append(sessionID, history.Turn{Role: history.RoleAgent, Content: reply})
	logging.Debug("agent", "Completion reply: %s", logging.Truncate(reply, 80))
	return reply, true
}
