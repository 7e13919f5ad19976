// talkagent-call originates one outbound call from the command line. The
// answered call is handled by a running talkagent server at PUBLIC_URL.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/xcerlabs/talkagent/internal/config"
	"github.com/xcerlabs/talkagent/internal/telephony"
)

func main() {
	toNumber := flag.String("to", "", "destination phone number (E.164)")
	flag.Parse()

	if *toNumber == "" {
		fmt.Fprintln(os.Stderr, "usage: talkagent-call -to +15551234567")
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if !cfg.TwilioConfigured() {
		log.Fatal("Twilio credentials missing (TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN, TWILIO_PHONE_NUMBER)")
	}

	dialer := telephony.NewTwilioDialer(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.PhoneNumber)
	callbackURL := cfg.Server.PublicURL + "/twilio/outbound"

	sid, err := dialer.PlaceCall(context.Background(), *toNumber, callbackURL)
	if err != nil {
		log.Fatalf("Call failed: %v", err)
	}
	fmt.Printf("Call initiated to %s (SID %s)\n", *toNumber, sid)
}
