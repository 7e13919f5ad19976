package server

import (
	"encoding/json"
	"net/http"

	"github.com/xcerlabs/talkagent/internal/call"
	"github.com/xcerlabs/talkagent/internal/logging"
	"github.com/xcerlabs/talkagent/internal/telephony"
)

// lastResortTwiML is written if even the apology reaction fails to render.
// A webhook must never answer with a non-TwiML body: that leaves a dead call.
const lastResortTwiML = `<?xml version="1.0" encoding="UTF-8"?><Response><Say>Sorry, something went wrong. Goodbye.</Say><Hangup/></Response>`

type callRequest struct {
	ToNumber string `json:"to_number"`
}

// handleTwilioVoice answers the incoming-call webhook with a greeting and a
// speech gather.
func (s *Server) handleTwilioVoice(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		logging.Warn("twilio", "Bad voice webhook form: %v", err)
		s.writeTwiML(w, call.ApologyReaction())
		return
	}
	callSid := formValue(r, "CallSid")
	caller := formValue(r, "From")

	reaction := s.machine.OnIncomingCall(callSid, caller)
	s.writeTwiML(w, reaction)
}

// handleTwilioGather processes gathered speech: reply and keep gathering, or
// say farewell and hang up.
func (s *Server) handleTwilioGather(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		logging.Warn("twilio", "Bad gather webhook form: %v", err)
		s.writeTwiML(w, call.ApologyReaction())
		return
	}
	callSid := formValue(r, "CallSid")
	speech := formValue(r, "SpeechResult")

	reaction := s.machine.OnGatheredSpeech(r.Context(), callSid, speech)
	s.writeTwiML(w, reaction)
}

// handleTwilioOutbound is the answer webhook for calls we placed
func (s *Server) handleTwilioOutbound(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		logging.Warn("twilio", "Bad outbound webhook form: %v", err)
		s.writeTwiML(w, call.ApologyReaction())
		return
	}
	callSid := formValue(r, "CallSid")

	reaction := s.machine.OnCallAnswered(callSid)
	s.writeTwiML(w, reaction)
}

// handleTwilioCall originates an outbound call. Unlike the webhooks this is a
// user-facing action, so configuration problems surface as real errors.
func (s *Server) handleTwilioCall(w http.ResponseWriter, r *http.Request) {
	if !s.dialer.Configured() {
		writeError(w, http.StatusServiceUnavailable, "Twilio not configured")
		return
	}

	var req callRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ToNumber == "" {
		writeError(w, http.StatusBadRequest, "Phone number required")
		return
	}

	callbackURL := s.cfg.Server.PublicURL + "/twilio/outbound"
	sid, err := s.dialer.PlaceCall(r.Context(), req.ToNumber, callbackURL)
	if err != nil {
		logging.Warn("twilio", "Outbound call failed: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "success",
		"message":  "Call initiated to " + req.ToNumber,
		"call_sid": sid,
	})
}

func (s *Server) handleTwilioStatus(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"configured":  s.dialer.Configured(),
		"webhook_url": s.cfg.Server.PublicURL + "/twilio/voice",
	}
	if td, ok := s.dialer.(*telephony.TwilioDialer); ok && td.Configured() {
		body["phone_number"] = td.FromNumber()
	}
	writeJSON(w, http.StatusOK, body)
}

// writeTwiML renders a reaction and writes it as XML. Rendering failures fall
// back to the apology document so the call always gets a valid instruction.
func (s *Server) writeTwiML(w http.ResponseWriter, reaction call.Reaction) {
	doc, err := telephony.Render(reaction, s.cfg.Server.PublicURL)
	if err != nil {
		logging.Warn("twilio", "TwiML render failed: %v", err)
		doc, err = telephony.Render(call.ApologyReaction(), s.cfg.Server.PublicURL)
		if err != nil {
			doc = lastResortTwiML
		}
	}
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}

func formValue(r *http.Request, key string) string {
	if v := r.PostFormValue(key); v != "" {
		return v
	}
	return r.FormValue(key)
}
