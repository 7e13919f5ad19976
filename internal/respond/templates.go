package respond

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/xcerlabs/talkagent/internal/intent"
	"github.com/xcerlabs/talkagent/internal/logging"
)

// defaultTemplates are the built-in reply variants per intent. Intents with a
// single entry always answer the same way; the rest are picked at random.
// Time, Date and Fallback render through their own formatting paths.
var defaultTemplates = map[intent.Intent][]string{
	intent.Greeting: {
		"Hello! How can I help you today?",
		"Hi there! What can I do for you?",
		"Hey! Great to hear from you.",
		"Greetings! What's on your mind?",
	},
	intent.Identity: {
		"I'm XCER AI, your friendly voice assistant. You can ask me about the time, the weather, or just chat!",
	},
	intent.Wellbeing: {
		"I'm doing great, thanks for asking! How are you?",
		"Feeling sharp as ever. What about you?",
		"All systems running smoothly! How can I help?",
	},
	intent.Weather: {
		"I can't check live weather yet, but it's always sunny in here!",
	},
	intent.Joke: {
		"Why don't programmers like nature? Too many bugs!",
		"I told my computer a joke about UDP. I'm not sure it got it.",
		"Why did the developer go broke? Because they used up all their cache!",
	},
	intent.Help: {
		"You can ask me about the time, the date, the weather, or just chat with me. Say goodbye when you're done!",
	},
	intent.Thanks: {
		"You're welcome!",
		"Happy to help!",
		"Anytime! That's what I'm here for.",
	},
	intent.Farewell: {
		"Goodbye! It was nice talking to you.",
	},
	intent.LifeMeaning: {
		"42. At least that's what the books say!",
	},
	intent.Compliment: {
		"Thank you! You're pretty great yourself.",
		"That's very kind of you!",
		"You just made my circuits blush.",
	},
	intent.QuestionWhat: {
		"That's an interesting question. I'm best with the time, the date, and small talk.",
	},
	intent.QuestionHow: {
		"Good question! I'd say practice and patience usually do it.",
	},
	intent.QuestionWhy: {
		"Why indeed! Some questions are better pondered together.",
	},
	intent.QuestionWhen: {
		"Timing is everything. Could you give me a bit more detail?",
	},
	intent.QuestionWhere: {
		"Location questions are tricky for me, but I'm happy to chat about it.",
	},
	intent.QuestionWho: {
		"I'm not sure who, but I bet they're interesting!",
	},
	intent.GenericQuestion: {
		"That's a good question! Tell me more.",
		"Hmm, let me think... what do you think?",
		"Interesting question! I'm still learning about that.",
	},
	intent.Fallback: {
		"Tell me more about %s.",
		"Interesting! What else about %s?",
		"I'd love to hear more about %s.",
	},
}

// templateFile is the on-disk shape of a template override
type templateFile struct {
	Intent   string   `yaml:"intent"`
	Variants []string `yaml:"variants"`
}

// LoadOverrides reads *.yaml files from dir and replaces the variant set of
// each named intent. Unparseable files are skipped with a log line so one bad
// file never takes down the built-in set.
func (g *Generator) LoadOverrides(dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return err
	}
	ymlFiles, err := filepath.Glob(filepath.Join(dir, "*.yml"))
	if err != nil {
		return err
	}
	files = append(files, ymlFiles...)

	loaded := 0
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			logging.Warn("respond", "Failed to read %s: %v", file, err)
			continue
		}
		var tf templateFile
		if err := yaml.Unmarshal(data, &tf); err != nil {
			logging.Warn("respond", "Failed to parse %s: %v", file, err)
			continue
		}
		if tf.Intent == "" || len(tf.Variants) == 0 {
			logging.Warn("respond", "Skipping %s: intent and variants required", file)
			continue
		}
		g.mu.Lock()
		g.templates[intent.Intent(tf.Intent)] = tf.Variants
		g.mu.Unlock()
		loaded++
	}

	if loaded > 0 {
		logging.Info("respond", "Loaded %d template override(s) from %s", loaded, dir)
	}
	return nil
}
