// Package respond turns a classified intent into a reply string.
package respond

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/xcerlabs/talkagent/internal/intent"
)

// EmptyReply is returned verbatim for empty or whitespace-only input
const EmptyReply = "I didn't catch that. Could you please repeat?"

// Picker selects one variant index out of n. Injected so tests can pin the
// selection while production stays uniform-random.
type Picker interface {
	Pick(n int) int
}

// randPicker is the production picker
type randPicker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (p *randPicker) Pick(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.Intn(n)
}

// FixedPicker always picks the same index (clamped to the set size).
// Used by tests to make variant selection deterministic.
type FixedPicker struct {
	Index int
}

func (p FixedPicker) Pick(n int) int {
	if p.Index >= n {
		return n - 1
	}
	return p.Index
}

// Generator produces replies from templates
type Generator struct {
	mu        sync.RWMutex
	templates map[intent.Intent][]string
	picker    Picker
	now       func() time.Time
}

// Option configures a Generator
type Option func(*Generator)

// WithPicker replaces the variant selection strategy
func WithPicker(p Picker) Option {
	return func(g *Generator) { g.picker = p }
}

// WithClock replaces the wall-clock source for Time/Date replies
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// NewGenerator creates a generator with the built-in template set
func NewGenerator(opts ...Option) *Generator {
	templates := make(map[intent.Intent][]string, len(defaultTemplates))
	for k, v := range defaultTemplates {
		templates[k] = v
	}
	g := &Generator{
		templates: templates,
		picker:    &randPicker{rng: rand.New(rand.NewSource(time.Now().UnixNano()))},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate renders a reply for the given intent. Empty utterances never reach
// here in the normal flow (the fallback chain short-circuits them), but the
// guard keeps Generate total on its own.
func (g *Generator) Generate(it intent.Intent, utterance string) string {
	if strings.TrimSpace(utterance) == "" {
		return EmptyReply
	}

	switch it {
	case intent.Time:
		return fmt.Sprintf("It's currently %s.", g.now().Format("3:04 PM"))
	case intent.Date:
		return fmt.Sprintf("Today is %s.", g.now().Format("Monday, January 2, 2006"))
	case intent.Fallback:
		return fmt.Sprintf(g.pickVariant(intent.Fallback), intent.FirstToken(utterance))
	}

	return g.pickVariant(it)
}

// Variants returns a copy of the current variant set for an intent
func (g *Generator) Variants(it intent.Intent) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, len(g.templates[it]))
	copy(out, g.templates[it])
	return out
}

func (g *Generator) pickVariant(it intent.Intent) string {
	g.mu.RLock()
	set := g.templates[it]
	if len(set) == 0 {
		// Unknown intent with no template; elaborate generically
		set = g.templates[intent.GenericQuestion]
	}
	g.mu.RUnlock()

	if len(set) == 0 {
		return EmptyReply
	}
	if len(set) == 1 {
		return set[0]
	}
	return set[g.picker.Pick(len(set))]
}
