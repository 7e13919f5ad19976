package telephony

import (
	"context"
	"errors"
	"fmt"

	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/xcerlabs/talkagent/internal/logging"
)

// ErrNotConfigured means telephony credentials are missing
var ErrNotConfigured = errors.New("telephony: not configured")

// Dialer originates outbound calls
type Dialer interface {
	PlaceCall(ctx context.Context, toNumber, callbackURL string) (string, error)
	Configured() bool
}

// TwilioDialer places calls through the Twilio REST API
type TwilioDialer struct {
	client     *twilio.RestClient
	fromNumber string
}

// NewTwilioDialer builds a dialer. Any missing credential yields a dialer
// that reports Configured() == false and refuses to place calls; startup
// never fails on missing telephony config.
func NewTwilioDialer(accountSID, authToken, fromNumber string) *TwilioDialer {
	if accountSID == "" || authToken == "" || fromNumber == "" {
		return &TwilioDialer{}
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioDialer{client: client, fromNumber: fromNumber}
}

// Configured reports whether outbound calling is usable
func (d *TwilioDialer) Configured() bool {
	return d.client != nil
}

// FromNumber returns the configured origin number (empty if unconfigured)
func (d *TwilioDialer) FromNumber() string {
	return d.fromNumber
}

// PlaceCall originates a call to toNumber; Twilio fetches call instructions
// from callbackURL once the call is answered. Returns the call SID.
func (d *TwilioDialer) PlaceCall(ctx context.Context, toNumber, callbackURL string) (string, error) {
	if d.client == nil {
		return "", ErrNotConfigured
	}

	params := &api.CreateCallParams{}
	params.SetTo(toNumber)
	params.SetFrom(d.fromNumber)
	params.SetUrl(callbackURL)
	params.SetMethod("POST")

	resp, err := d.client.Api.CreateCall(params)
	if err != nil {
		return "", fmt.Errorf("create call: %w", err)
	}
	if resp.Sid == nil {
		return "", errors.New("create call: response has no SID")
	}

	logging.Info("telephony", "Outbound call initiated to %s (%s)", toNumber, *resp.Sid)
	return *resp.Sid, nil
}
