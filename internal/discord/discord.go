// Package discord exposes the agent as a Discord bot. Each channel gets its
// own conversation scope, so two channels never share rolling history.
package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/xcerlabs/talkagent/internal/logging"
)

// Responder produces a reply for a session utterance (satisfied by agent.Agent)
type Responder interface {
	Respond(ctx context.Context, sessionID, utterance string) string
}

// Config holds Discord connection settings
type Config struct {
	Token string
	// ChannelID restricts the bot to one channel when set
	ChannelID string
}

// Surface is a connected Discord gateway that answers messages through the
// agent and replies in channel.
type Surface struct {
	session   *discordgo.Session
	channelID string
	botID     string
	responder Responder
}

// New creates a Discord surface (not yet connected)
func New(cfg Config, responder Responder) (*Surface, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	d := &Surface{
		session:   session,
		channelID: cfg.ChannelID,
		responder: responder,
	}
	session.AddHandler(d.handleMessage)
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentsMessageContent

	return d, nil
}

// Start connects to Discord and begins answering
func (d *Surface) Start() error {
	if err := d.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}
	d.botID = d.session.State.User.ID
	logging.Info("discord", "Connected as %s", d.session.State.User.Username)
	return nil
}

// Stop disconnects from Discord
func (d *Surface) Stop() error {
	return d.session.Close()
}

func (d *Surface) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore our own messages
	if m.Author.ID == d.botID {
		return
	}
	if d.channelID != "" && m.ChannelID != d.channelID {
		return
	}

	logging.Debug("discord", "Message from %s: %s", m.Author.Username, logging.Truncate(m.Content, 50))

	reply := d.responder.Respond(context.Background(), sessionScope(m.ChannelID), m.Content)
	if _, err := s.ChannelMessageSend(m.ChannelID, reply); err != nil {
		logging.Warn("discord", "Failed to send reply: %v", err)
	}
}

// sessionScope names the history scope owned by one channel
func sessionScope(channelID string) string {
	return "discord:" + channelID
}
