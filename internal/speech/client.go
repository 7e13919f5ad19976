// Package speech provides clients for the local speech sidecar service,
// which owns the microphone and the TTS engine. The core only ever sees
// text in and text out.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Sentinel errors for the speech capture taxonomy
var (
	// ErrNoAudio means the capture window elapsed with no speech
	ErrNoAudio = errors.New("speech: no audio detected")
	// ErrUnintelligible means audio was captured but not recognized
	ErrUnintelligible = errors.New("speech: could not understand audio")
	// ErrNotConfigured means no sidecar URL was provided
	ErrNotConfigured = errors.New("speech: sidecar not configured")
)

// Recognizer captures spoken input and returns the transcript
type Recognizer interface {
	Transcribe(ctx context.Context) (string, error)
}

// Synthesizer speaks the given text aloud
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) error
}

// Client talks to the speech sidecar over HTTP. It implements both
// Recognizer and Synthesizer.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a sidecar client. An empty baseURL yields a client whose
// operations fail with ErrNotConfigured, so callers can report the feature as
// unavailable without special-casing nil.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			// Capture itself has a 5s listen window plus recognition time
			Timeout: 15 * time.Second,
		},
	}
}

type listenResponse struct {
	Status string `json:"status"`
	Text   string `json:"text"`
	Error  string `json:"error"`
}

// Transcribe asks the sidecar to listen once and recognize the result.
// Timeout and phrase-length limits are enforced sidecar-side.
func (c *Client) Transcribe(ctx context.Context) (string, error) {
	if c.baseURL == "" {
		return "", ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/listen", nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sidecar request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result listenResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	switch result.Status {
	case "ok":
		return result.Text, nil
	case "no_audio":
		return "", ErrNoAudio
	case "unintelligible":
		return "", ErrUnintelligible
	default:
		return "", fmt.Errorf("recognition backend error: %s", result.Error)
	}
}

// Synthesize asks the sidecar to speak the text
func (c *Client) Synthesize(ctx context.Context, text string) error {
	if c.baseURL == "" {
		return ErrNotConfigured
	}

	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/speak", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sidecar request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("synthesis failed: status %d", resp.StatusCode)
	}
	return nil
}

// Healthy checks whether the sidecar is up
func (c *Client) Healthy() bool {
	if c.baseURL == "" {
		return false
	}
	resp, err := c.httpClient.Get(c.baseURL + "/health")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
