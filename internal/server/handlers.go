package server

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/xcerlabs/talkagent/internal/logging"
)

type textRequest struct {
	Text      string `json:"text"`
	SessionID string `json:"session_id,omitempty"`
}

type chatResponse struct {
	UserInput  string `json:"user_input"`
	AgentReply string `json:"agent_reply"`
	Status     string `json:"status"`
	SessionID  string `json:"session_id,omitempty"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": serviceName + " API is running",
		"version": version,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"status":  "healthy",
		"service": serviceName,
		"version": version,
		"features": map[string]bool{
			"completion":         s.agent.Available(),
			"telephony":          s.dialer.Configured(),
			"speech_recognition": s.speech.Healthy(),
			"text_to_speech":     s.speech.Healthy(),
		},
		"call_sessions": s.registry.Len(),
	}

	// Process stats are best-effort; a stats failure never degrades health
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		stats := map[string]any{}
		if mi, err := p.MemoryInfo(); err == nil {
			stats["rss_mb"] = float64(mi.RSS) / (1024 * 1024)
		}
		if cpu, err := p.CPUPercent(); err == nil {
			stats["cpu_percent"] = cpu
		}
		body["process"] = stats
	}

	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    serviceName + " API",
		"version": version,
		"endpoints": map[string]any{
			"web": map[string]string{
				"GET /":          "Health check",
				"GET /health":    "Feature status",
				"POST /process":  "Chat with the agent (shared session)",
				"POST /chat":     "Chat with the agent (per-session)",
				"POST /reset":    "Reset a chat session",
				"POST /listen":   "Speech recognition",
				"POST /speak":    "Text-to-speech",
				"POST /interact": "Chat and speak the reply",
			},
			"phone": map[string]string{
				"POST /twilio/voice":  "Handle incoming calls",
				"POST /twilio/gather": "Process speech input",
				"POST /twilio/call":   "Make outbound call",
			},
		},
	})
}

// handleProcess answers in the shared web-chat session
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeText(w, r)
	if !ok {
		return
	}

	reply := s.agent.Respond(r.Context(), defaultChatSession, req.Text)
	writeJSON(w, http.StatusOK, chatResponse{
		UserInput:  req.Text,
		AgentReply: reply,
		Status:     "success",
	})
}

// handleChat answers in a caller-managed session. A request without a
// session_id gets a fresh one back and can echo it to keep context.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeText(w, r)
	if !ok {
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	reply := s.agent.Respond(r.Context(), sessionID, req.Text)
	writeJSON(w, http.StatusOK, chatResponse{
		UserInput:  req.Text,
		AgentReply: reply,
		Status:     "success",
		SessionID:  sessionID,
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = defaultChatSession
	}

	s.agent.Reset(sessionID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "session_id": sessionID})
}

func (s *Server) handleListen(w http.ResponseWriter, r *http.Request) {
	var (
		text string
		err  error
	)
	<-s.pool.Submit(func() {
		text, err = s.speech.Transcribe(r.Context())
	})

	if err != nil {
		logging.Warn("server", "Listen failed: %v", err)
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "error",
			"error":  "Could not recognize audio",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":          "success",
		"recognized_text": text,
	})
}

func (s *Server) handleSpeak(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeText(w, r)
	if !ok {
		return
	}

	var err error
	<-s.pool.Submit(func() {
		err = s.speech.Synthesize(r.Context(), req.Text)
	})

	if err != nil {
		logging.Warn("server", "Speak failed: %v", err)
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "error",
			"message": "TTS failed",
			"error":   err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Text spoken successfully",
	})
}

// handleInteract chats and speaks the reply in one round trip
func (s *Server) handleInteract(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeText(w, r)
	if !ok {
		return
	}

	reply := s.agent.Respond(r.Context(), defaultChatSession, req.Text)

	var speakErr error
	<-s.pool.Submit(func() {
		speakErr = s.speech.Synthesize(r.Context(), reply)
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "success",
		"user_input":  req.Text,
		"agent_reply": reply,
		"spoken":      speakErr == nil,
	})
}

// decodeText parses a text request and rejects empty input with a 400
func (s *Server) decodeText(w http.ResponseWriter, r *http.Request) (textRequest, bool) {
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return req, false
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "Text cannot be empty")
		return req, false
	}
	return req, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"status": "error", "detail": detail})
}
