// Package server exposes the agent over HTTP: a JSON web surface and the
// Twilio voice webhook surface.
package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/xcerlabs/talkagent/internal/agent"
	"github.com/xcerlabs/talkagent/internal/call"
	"github.com/xcerlabs/talkagent/internal/config"
	"github.com/xcerlabs/talkagent/internal/telephony"
	"github.com/xcerlabs/talkagent/internal/worker"
)

const (
	serviceName = "XCER AI Talking Agent"
	version     = "2.0.0"

	// defaultChatSession is the shared history scope for callers that don't
	// manage their own session IDs
	defaultChatSession = "web-chat"
)

// speechService is what the handlers need from the speech sidecar
type speechService interface {
	Transcribe(ctx context.Context) (string, error)
	Synthesize(ctx context.Context, text string) error
	Healthy() bool
}

// Server wires the agent, the call machine, and the collaborators into an
// HTTP handler tree.
type Server struct {
	router   *chi.Mux
	agent    *agent.Agent
	machine  *call.Machine
	registry *call.Registry
	speech   speechService
	dialer   telephony.Dialer
	pool     *worker.Pool
	cfg      *config.Config
}

// New creates a fully routed server
func New(cfg *config.Config, ag *agent.Agent, machine *call.Machine, registry *call.Registry,
	sp speechService, dialer telephony.Dialer, pool *worker.Pool) *Server {

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	s := &Server{
		router:   r,
		agent:    ag,
		machine:  machine,
		registry: registry,
		speech:   sp,
		dialer:   dialer,
		pool:     pool,
		cfg:      cfg,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Get("/", s.handleRoot)
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/info", s.handleInfo)

	// Web chat surface
	s.router.Post("/process", s.handleProcess)
	s.router.Post("/chat", s.handleChat)
	s.router.Post("/reset", s.handleReset)
	s.router.Post("/listen", s.handleListen)
	s.router.Post("/speak", s.handleSpeak)
	s.router.Post("/interact", s.handleInteract)

	// Twilio phone surface
	s.router.Post("/twilio/voice", s.handleTwilioVoice)
	s.router.Post("/twilio/gather", s.handleTwilioGather)
	s.router.Post("/twilio/outbound", s.handleTwilioOutbound)
	s.router.Post("/twilio/call", s.handleTwilioCall)
	s.router.Get("/twilio/status", s.handleTwilioStatus)
}

// Router returns the handler tree for mounting in an http.Server
func (s *Server) Router() http.Handler { return s.router }
