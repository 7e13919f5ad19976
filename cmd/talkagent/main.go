package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/xcerlabs/talkagent/internal/agent"
	"github.com/xcerlabs/talkagent/internal/audit"
	"github.com/xcerlabs/talkagent/internal/call"
	"github.com/xcerlabs/talkagent/internal/config"
	"github.com/xcerlabs/talkagent/internal/discord"
	"github.com/xcerlabs/talkagent/internal/history"
	"github.com/xcerlabs/talkagent/internal/respond"
	"github.com/xcerlabs/talkagent/internal/server"
	"github.com/xcerlabs/talkagent/internal/speech"
	"github.com/xcerlabs/talkagent/internal/telephony"
	"github.com/xcerlabs/talkagent/internal/worker"
)

func main() {
	log.Println("talkagent - voice/text conversational agent")
	log.Println("===========================================")

	// Load .env file (optional - won't error if missing)
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, using environment variables")
	} else {
		log.Println("[config] Loaded .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Response generation: built-in templates plus any overrides on disk
	gen := respond.NewGenerator()
	if cfg.StatePath != "" {
		os.MkdirAll(cfg.StatePath, 0755)
		if err := gen.LoadOverrides(filepath.Join(cfg.StatePath, "templates")); err != nil {
			log.Printf("Warning: failed to load template overrides: %v", err)
		}
	}

	// Completion backend; a missing key means rule-based replies only
	var completer agent.Completer
	if cfg.CompletionConfigured() {
		completer = agent.NewOpenAICompleter(cfg.Completion.APIKey, cfg.Completion.BaseURL, cfg.Completion.Model)
		log.Println("[main] Completion backend configured")
	} else {
		log.Println("[main] No completion API key; running on rule-based replies")
	}

	store := history.NewBounded()
	ag := agent.New(completer, store, gen, cfg.Completion.Timeout)

	// Call audit log (optional)
	var recorder call.Recorder
	if cfg.StatePath != "" {
		auditLog, err := audit.Open(cfg.StatePath)
		if err != nil {
			log.Printf("Warning: call audit log disabled: %v", err)
		} else {
			defer auditLog.Close()
			recorder = auditLog
		}
	}

	registry := call.NewRegistry()
	machine := call.NewMachine(registry, ag, recorder)

	speechClient := speech.NewClient(cfg.Speech.SidecarURL)
	dialer := telephony.NewTwilioDialer(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.PhoneNumber)
	pool := worker.New(cfg.Workers)

	srv := server.New(cfg, ag, machine, registry, speechClient, dialer, pool)

	// Optional Discord surface
	var discordSurface *discord.Surface
	if cfg.Discord.Token != "" {
		discordSurface, err = discord.New(discord.Config{
			Token:     cfg.Discord.Token,
			ChannelID: cfg.Discord.ChannelID,
		}, ag)
		if err != nil {
			log.Printf("Warning: Discord surface disabled: %v", err)
		} else if err := discordSurface.Start(); err != nil {
			log.Printf("Warning: Discord connection failed: %v", err)
			discordSurface = nil
		}
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpSrv := &http.Server{
		Addr:    addr,
		Handler: srv.Router(),
	}

	go func() {
		log.Printf("[main] Serving on http://%s", addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	log.Printf("[main] Completion: %v | Telephony: %v | Speech sidecar: %v",
		ag.Available(), dialer.Configured(), speechClient.Healthy())
	log.Println("[main] All subsystems started. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("[main] Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: HTTP shutdown: %v", err)
	}
	if discordSurface != nil {
		if err := discordSurface.Stop(); err != nil {
			log.Printf("Warning: Discord shutdown: %v", err)
		}
	}
	pool.Stop()

	log.Println("[main] Goodbye!")
}
