// Package intent assigns each utterance a category from a closed set.
// Classification is deterministic and total; all randomness lives in the
// response generator.
package intent

import (
	"strings"

	"github.com/tsawler/prose/v3"
)

// Intent is the category assigned to an utterance
type Intent string

const (
	Greeting        Intent = "greeting"
	Identity        Intent = "identity"
	Time            Intent = "time"
	Date            Intent = "date"
	Wellbeing       Intent = "wellbeing"
	Weather         Intent = "weather"
	Joke            Intent = "joke"
	Help            Intent = "help"
	Thanks          Intent = "thanks"
	Farewell        Intent = "farewell"
	LifeMeaning     Intent = "life_meaning"
	Compliment      Intent = "compliment"
	QuestionWhat    Intent = "question_what"
	QuestionHow     Intent = "question_how"
	QuestionWhy     Intent = "question_why"
	QuestionWhen    Intent = "question_when"
	QuestionWhere   Intent = "question_where"
	QuestionWho     Intent = "question_who"
	GenericQuestion Intent = "question_generic"
	Fallback        Intent = "fallback"
)

var greetingWords = []string{"hello", "hi", "hey", "greetings", "sup"}

var farewellPhrases = []string{"bye", "goodbye", "quit", "exit", "see you", "farewell"}

var complimentWords = []string{
	"good", "great", "awesome", "amazing", "smart", "nice",
	"cool", "wonderful", "excellent", "brilliant",
}

// rule pairs a predicate with the intent it selects. Rules are evaluated in
// order and the first match wins; the order encodes the pre-emption the
// categories need (e.g. "how are you" must win over the bare "how" prefix,
// and "what is the weather" must land on Weather, not QuestionWhat).
type rule struct {
	intent Intent
	match  func(s string, words []string) bool
}

var rules = []rule{
	{Greeting, func(s string, words []string) bool {
		return anyWord(words, greetingWords)
	}},
	{Identity, func(s string, _ []string) bool {
		return containsAny(s, "who are you", "your name", "what are you")
	}},
	{Time, func(s string, _ []string) bool {
		// "sometimes" contains "time"; guard the substring false-positive
		return strings.Contains(s, "time") && !strings.Contains(s, "sometimes")
	}},
	{Date, func(s string, _ []string) bool {
		return containsAny(s, "date", "today", "what day")
	}},
	{Wellbeing, func(s string, _ []string) bool {
		return containsAny(s, "how are you", "how do you feel")
	}},
	{Weather, func(s string, _ []string) bool {
		return containsAny(s, "weather", "temperature")
	}},
	{Joke, func(s string, _ []string) bool {
		return containsAny(s, "joke", "funny", "make me laugh")
	}},
	{Help, func(s string, _ []string) bool {
		return containsAny(s, "help", "what can you do", "capabilities")
	}},
	{Thanks, func(s string, _ []string) bool {
		return strings.Contains(s, "thank")
	}},
	{Farewell, func(s string, _ []string) bool {
		return containsAny(s, farewellPhrases...)
	}},
	{LifeMeaning, func(s string, _ []string) bool {
		if strings.Contains(s, "meaning of life") {
			return true
		}
		return strings.Contains(s, "life") && strings.Contains(s, "meaning")
	}},
	{Compliment, func(s string, words []string) bool {
		return anyWord(words, complimentWords)
	}},
	{QuestionWhat, prefixRule("what")},
	{QuestionHow, prefixRule("how")},
	{QuestionWhy, prefixRule("why")},
	{QuestionWhen, prefixRule("when")},
	{QuestionWhere, prefixRule("where")},
	{QuestionWho, prefixRule("who")},
	{GenericQuestion, func(s string, _ []string) bool {
		return strings.HasSuffix(s, "?")
	}},
}

// Classify maps an utterance to exactly one intent. Case-insensitive,
// whitespace-trimmed, never fails.
func Classify(utterance string) Intent {
	s := strings.ToLower(strings.TrimSpace(utterance))
	if s == "" {
		return Fallback
	}
	words := strings.Fields(s)

	for _, r := range rules {
		if r.match(s, words) {
			return r.intent
		}
	}
	return Fallback
}

// FirstToken returns the first token of the lowercased utterance, for use in
// fallback elaboration prompts. A single-word utterance yields that word.
func FirstToken(utterance string) string {
	s := strings.ToLower(strings.TrimSpace(utterance))
	if s == "" {
		return ""
	}
	if doc, err := prose.NewDocument(s); err == nil {
		for _, tok := range doc.Tokens() {
			t := strings.TrimSpace(tok.Text)
			if t != "" {
				return t
			}
		}
	}
	return strings.Fields(s)[0]
}

func prefixRule(word string) func(string, []string) bool {
	return func(s string, _ []string) bool {
		return strings.HasPrefix(s, word)
	}
}

func containsAny(s string, phrases ...string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func anyWord(words, set []string) bool {
	for _, w := range words {
		w = strings.Trim(w, ".,!?;:'\"")
		for _, s := range set {
			if w == s {
				return true
			}
		}
	}
	return false
}
