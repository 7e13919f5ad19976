package call

import (
	"context"
	"strings"

	"github.com/xcerlabs/talkagent/internal/logging"
)

// Call scripts. Voice rendering (TwiML) happens in the telephony package;
// the machine only decides what is said and what happens next.
const (
	InboundGreeting  = "Hello! Welcome to XCER AI Agent. How can I help you today?"
	OutboundGreeting = "Hello! This is XCER AI Agent calling. How can I assist you today?"
	FarewellMessage  = "Thank you for calling XCER AI. Goodbye!"
	SilencePrompt    = "I didn't hear anything. Please try again."
	ContinuePrompt   = "Is there anything else I can help with?"
	OutboundSilence  = "I didn't hear a response. Goodbye!"
)

// Default webhook paths; the transport prefixes the public base URL
const (
	DefaultVoicePath  = "/twilio/voice"
	DefaultGatherPath = "/twilio/gather"
)

// terminationWords end the call when found in a gathered utterance
var terminationWords = []string{"bye", "goodbye", "quit", "exit", "hang up"}

// Reaction is the transport-neutral instruction set emitted for one webhook
// event. The telephony layer renders it into TwiML.
type Reaction struct {
	// Say lines are spoken in order before anything else happens
	Say []string
	// Gather requests speech input, posting the transcript to GatherAction
	Gather       bool
	GatherAction string
	// RepromptSay is spoken if the gather's silence window elapses
	RepromptSay string
	// Redirect loops the call back to this webhook after the reprompt
	Redirect string
	// Hangup terminates the call
	Hangup bool
}

// Responder produces the agent's reply for a session utterance.
// Satisfied by agent.Agent.
type Responder interface {
	Respond(ctx context.Context, sessionID, utterance string) string
	Reset(sessionID string)
}

// Recorder receives call lifecycle events for the audit log. All methods are
// fire-and-forget; implementations must never fail the turn.
type Recorder interface {
	CallStarted(callID, from string, outbound bool)
	TurnRecorded(callID, user, agent string)
	CallEnded(callID string)
}

// Machine drives call sessions through greeting, gathering, and termination.
// Transitions never fail; whether the emitted instructions are deliverable is
// the telephony collaborator's concern.
type Machine struct {
	registry   *Registry
	responder  Responder
	recorder   Recorder // optional
	voicePath  string
	gatherPath string
}

// NewMachine creates a call state machine. recorder may be nil.
func NewMachine(registry *Registry, responder Responder, recorder Recorder) *Machine {
	return &Machine{
		registry:   registry,
		responder:  responder,
		recorder:   recorder,
		voicePath:  DefaultVoicePath,
		gatherPath: DefaultGatherPath,
	}
}

// OnIncomingCall handles first contact (or a silence redirect) for an inbound
// call: greet, ask for input, and re-prompt on silence. A new call starts
// with a fresh history scope; re-entry on the same call re-greets without
// resetting again.
func (m *Machine) OnIncomingCall(callID, from string) Reaction {
	_, existed := m.registry.GetOrCreate(callID, from, false)
	if !existed {
		m.responder.Reset(sessionScope(callID))
		if m.recorder != nil {
			m.recorder.CallStarted(callID, from, false)
		}
		logging.Info("call", "Incoming call from %s (%s)", from, callID)
	}

	m.registry.Update(callID, func(s *Session) {
		if s.State == StateGreeting {
			s.State = StateGathering
		}
	})

	return Reaction{
		Say:          []string{InboundGreeting},
		Gather:       true,
		GatherAction: m.gatherPath,
		RepromptSay:  SilencePrompt,
		Redirect:     m.voicePath,
	}
}

// OnCallAnswered handles the answer event of an outbound call. Same flow as
// inbound but with the outbound greeting, and silence hangs up rather than
// looping.
func (m *Machine) OnCallAnswered(callID string) Reaction {
	_, existed := m.registry.GetOrCreate(callID, "", true)
	if !existed {
		m.responder.Reset(sessionScope(callID))
		if m.recorder != nil {
			m.recorder.CallStarted(callID, "", true)
		}
		logging.Info("call", "Outbound call answered (%s)", callID)
	}

	m.registry.Update(callID, func(s *Session) {
		if s.State == StateGreeting {
			s.State = StateGathering
		}
	})

	return Reaction{
		Say:          []string{OutboundGreeting},
		Gather:       true,
		GatherAction: m.gatherPath,
		RepromptSay:  OutboundSilence,
		Hangup:       true,
	}
}

// OnGatheredSpeech handles a transcript for an active call. Termination
// keywords end the call; anything else is answered and the call keeps
// gathering. A gather for an already-ended call re-emits the farewell with no
// state change.
func (m *Machine) OnGatheredSpeech(ctx context.Context, callID, text string) Reaction {
	_, existed := m.registry.GetOrCreate(callID, "", false)
	if !existed {
		// Gather without a prior voice webhook; treat as a live call
		logging.Warn("call", "Gather for unseen call %s", callID)
	}

	if m.registry.State(callID) == StateEnded {
		return Reaction{Say: []string{FarewellMessage}, Hangup: true}
	}

	logging.Info("call", "Caller said: %s", logging.Truncate(text, 80))

	if isTermination(text) {
		m.registry.Update(callID, func(s *Session) {
			s.State = StateEnded
		})
		if m.recorder != nil {
			m.recorder.CallEnded(callID)
		}
		logging.Info("call", "Call %s ended by caller", callID)
		return Reaction{Say: []string{FarewellMessage}, Hangup: true}
	}

	reply := m.responder.Respond(ctx, sessionScope(callID), text)

	// A concurrent webhook may have ended the call since the state check;
	// Ended is terminal, so the turn is only kept if the call is still live.
	recorded := false
	m.registry.Update(callID, func(s *Session) {
		if s.State == StateEnded {
			return
		}
		s.State = StateGathering
		s.Turns = append(s.Turns, TurnPair{User: text, Agent: reply})
		recorded = true
	})
	if !recorded {
		return Reaction{Say: []string{FarewellMessage}, Hangup: true}
	}
	if m.recorder != nil {
		m.recorder.TurnRecorded(callID, text, reply)
	}

	return Reaction{
		Say:          []string{reply},
		Gather:       true,
		GatherAction: m.gatherPath,
		RepromptSay:  ContinuePrompt,
		Redirect:     m.voicePath,
	}
}

// ApologyReaction is emitted when webhook handling hits an internal error:
// the call must always receive some valid instruction document.
func ApologyReaction() Reaction {
	return Reaction{
		Say:    []string{"Sorry, something went wrong on our end. Please call again later."},
		Hangup: true,
	}
}

func isTermination(text string) bool {
	s := strings.ToLower(text)
	for _, w := range terminationWords {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// sessionScope names the history scope owned by one call
func sessionScope(callID string) string {
	return "call:" + callID
}
