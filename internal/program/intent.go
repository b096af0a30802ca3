// Package program holds the program mutation rules and the deterministic fallback builder.
package program

import (
	"strings"
)

// maxCustomStructureLen bounds the verbatim excerpt passed to the generator.
const maxCustomStructureLen = 200

// Intent is what a free-text signal asks of the active program.
type Intent struct {
	// SplitChange is set when the text asks for a different weekly structure.
	SplitChange bool
	// Structure is the canonical split template, or a verbatim excerpt for generic phrasing.
	Structure string
	Deload    bool
}

// None reports whether the text triggered nothing.
func (i Intent) None() bool {
	return !i.SplitChange && !i.Deload
}

// splitRule maps a set of phrasings to a canonical split template. An empty template means
// the generator receives the user's own words.
type splitRule struct {
	phrases  []string
	template string
}

// splitRules are evaluated in order and the first match wins, so "push pull legs" must come
// before "push pull". Abbreviations and generic phrasing only count inside a request
// ("run ppl", "want a new program"); on their own they are everyday chatter.
var splitRules = []splitRule{
	{
		phrases:  []string{"push pull legs", "push/pull/legs", "ppl split", "ppl program", "run ppl", "do ppl", "switch to ppl", "change to ppl"},
		template: "Push / Pull / Legs",
	},
	{phrases: []string{"push pull", "push/pull"}, template: "Push / Pull"},
	{phrases: []string{"upper lower", "upper/lower"}, template: "Upper / Lower"},
	{phrases: []string{"full body", "full-body"}, template: "Full Body"},
	{phrases: []string{"leg day", "legs day"}, template: "Push / Pull / Legs"},
	{phrases: []string{
		"change my program", "change my split", "switch my split", "different split",
		"want a new program", "need a new program", "give me a new program", "make me a new program",
	}},
}

var deloadKeywords = []string{
	"tired",
	"exhausted",
	"fatigue",
	"sore",
	"deload",
	"burnt out",
	"burned out",
	"overtrained",
	"beat up",
}

// DetectIntent matches free text against the split rule table and, independently, the
// deload keywords.
func DetectIntent(text string) Intent {
	normalized := normalize(text)

	var intent Intent
	if structure, ok := matchSplit(normalized, text); ok {
		intent.SplitChange = true
		intent.Structure = structure
	}
	intent.Deload = containsAny(normalized, deloadKeywords)
	return intent
}

func matchSplit(normalized, original string) (string, bool) {
	for _, rule := range splitRules {
		if !containsAny(normalized, rule.phrases) {
			continue
		}
		if rule.template != "" {
			return rule.template, true
		}
		return excerpt(original), true
	}
	return "", false
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if containsWord(text, p) {
			return true
		}
	}
	return false
}

// containsWord matches phrase at word boundaries so "ppl" does not fire inside "apple".
// Suffixes are allowed ("sore" matches "soreness").
func containsWord(text, phrase string) bool {
	for start := 0; ; {
		idx := strings.Index(text[start:], phrase)
		if idx < 0 {
			return false
		}
		idx += start
		if idx == 0 || !isLetter(text[idx-1]) {
			return true
		}
		start = idx + 1
	}
}

func isLetter(b byte) bool {
	return b >= 'a' && b <= 'z'
}

// normalize lowercases and collapses whitespace.
func normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

func excerpt(text string) string {
	trimmed := strings.Join(strings.Fields(text), " ")
	runes := []rune(trimmed)
	if len(runes) <= maxCustomStructureLen {
		return trimmed
	}
	return string(runes[:maxCustomStructureLen])
}
