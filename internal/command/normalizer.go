// Package command turns raw utterances into normalized command text.
package command

import (
	"regexp"
	"sort"
	"strings"
)

// Normalizer strips a leading wake word and canonicalizes case and spacing.
type Normalizer struct {
	wakeWords []string
	leading   *regexp.Regexp
}

// NewNormalizer builds a Normalizer for the given wake words. Matching is
// case-insensitive; multi-word wake words match with any run of spaces
// between their words.
func NewNormalizer(wakeWords []string) *Normalizer {
	var words []string
	for _, w := range wakeWords {
		w = strings.Join(strings.Fields(strings.ToLower(w)), " ")
		if w != "" {
			words = append(words, w)
		}
	}
	// Longest first so "hey skye" wins over "hey".
	sort.SliceStable(words, func(i, j int) bool { return len(words[i]) > len(words[j]) })

	n := &Normalizer{wakeWords: words}
	if len(words) == 0 {
		return n
	}

	alts := make([]string, len(words))
	for i, w := range words {
		parts := strings.Fields(w)
		for j, p := range parts {
			parts[j] = regexp.QuoteMeta(p)
		}
		alts[i] = strings.Join(parts, `\s+`)
	}
	// \b is ASCII-only in RE2, so the wake word must be followed by a
	// separator or the end of the text.
	n.leading = regexp.MustCompile(`(?i)^\s*(?:` + strings.Join(alts, "|") + `)(?:[\s,.!?:;]+|$)`)
	return n
}

// WakeWords returns the configured wake words, normalized.
func (n *Normalizer) WakeWords() []string {
	return append([]string(nil), n.wakeWords...)
}

// HasWakeWord reports whether raw starts with a wake word.
func (n *Normalizer) HasWakeWord(raw string) bool {
	return n.leading != nil && n.leading.MatchString(raw)
}

// Normalize removes one leading wake word, then lowercases and trims.
// Wake words elsewhere in the text are kept.
func (n *Normalizer) Normalize(raw string) string {
	text := raw
	if n.leading != nil {
		if loc := n.leading.FindStringIndex(text); loc != nil {
			text = text[loc[1]:]
		}
	}
	return strings.TrimSpace(strings.ToLower(text))
}
