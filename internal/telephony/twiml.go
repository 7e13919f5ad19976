// Package telephony renders call reactions into TwiML and originates
// outbound calls through the Twilio REST API.
package telephony

import (
	"github.com/twilio/twilio-go/twiml"

	"github.com/xcerlabs/talkagent/internal/call"
)

const (
	voiceName = "Polly.Joanna"
	language  = "en-US"
)

// Render turns a transport-neutral reaction into a TwiML document. Webhook
// paths in the reaction are prefixed with the public base URL so Twilio can
// reach them through the tunnel.
func Render(r call.Reaction, baseURL string) (string, error) {
	var elements []twiml.Element

	for _, line := range r.Say {
		elements = append(elements, say(line))
	}

	if r.Gather {
		elements = append(elements, &twiml.VoiceGather{
			Input:         "speech",
			Action:        baseURL + r.GatherAction,
			Method:        "POST",
			SpeechTimeout: "auto",
			Language:      language,
		})
		// Reached only when the silence window elapses with no input
		if r.RepromptSay != "" {
			elements = append(elements, say(r.RepromptSay))
		}
		switch {
		case r.Redirect != "":
			elements = append(elements, &twiml.VoiceRedirect{
				Url:    baseURL + r.Redirect,
				Method: "POST",
			})
		case r.Hangup:
			elements = append(elements, &twiml.VoiceHangup{})
		}
	} else if r.Hangup {
		elements = append(elements, &twiml.VoiceHangup{})
	}

	return twiml.Voice(elements)
}

func say(text string) *twiml.VoiceSay {
	return &twiml.VoiceSay{
		Message:  text,
		Voice:    voiceName,
		Language: language,
	}
}
