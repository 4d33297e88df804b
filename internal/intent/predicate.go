package intent

import (
	"strings"
	"unicode"
)

// Words splits text into lowercase words. Apostrophes stay inside words so
// "what's" is one token.
func Words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

func padded(words []string) string {
	return " " + strings.Join(words, " ") + " "
}

// Keywords matches when any of the words or phrases appears in the text on
// word boundaries, so "hi" does not match "this".
func Keywords(phrases ...string) Predicate {
	needles := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if w := Words(p); len(w) > 0 {
			needles = append(needles, padded(w))
		}
	}
	return func(text string) bool {
		hay := padded(Words(text))
		for _, n := range needles {
			if strings.Contains(hay, n) {
				return true
			}
		}
		return false
	}
}

// Contains matches a raw substring anywhere in the text.
func Contains(substrs ...string) Predicate {
	return func(text string) bool {
		for _, s := range substrs {
			if strings.Contains(text, s) {
				return true
			}
		}
		return false
	}
}

// Prefix matches text starting with p.
func Prefix(p string) Predicate {
	return func(text string) bool {
		return strings.HasPrefix(text, p)
	}
}

// All matches when every predicate matches.
func All(preds ...Predicate) Predicate {
	return func(text string) bool {
		for _, p := range preds {
			if !p(text) {
				return false
			}
		}
		return true
	}
}

// Any matches when at least one predicate matches.
func Any(preds ...Predicate) Predicate {
	return func(text string) bool {
		for _, p := range preds {
			if p(text) {
				return true
			}
		}
		return false
	}
}

// StripWords returns a SlotFunc that removes the given words and phrases
// (on word boundaries) and returns what is left.
func StripWords(phrases ...string) SlotFunc {
	var needles [][]string
	for _, p := range phrases {
		if w := Words(p); len(w) > 0 {
			needles = append(needles, w)
		}
	}
	return func(text string) string {
		words := Words(text)
		out := make([]string, 0, len(words))
	next:
		for i := 0; i < len(words); {
			for _, n := range needles {
				if hasPhraseAt(words, i, n) {
					i += len(n)
					continue next
				}
			}
			out = append(out, words[i])
			i++
		}
		return strings.Join(out, " ")
	}
}

func hasPhraseAt(words []string, i int, phrase []string) bool {
	if i+len(phrase) > len(words) {
		return false
	}
	for j, w := range phrase {
		if words[i+j] != w {
			return false
		}
	}
	return true
}

// After returns the words following the earliest occurrence of any of the
// phrases, or "" when none occurs. At the same position the longer phrase
// wins.
func After(phrases ...string) SlotFunc {
	var needles [][]string
	for _, p := range phrases {
		if w := Words(p); len(w) > 0 {
			needles = append(needles, w)
		}
	}
	return func(text string) string {
		words := Words(text)
		for i := range words {
			best := 0
			for _, n := range needles {
				if len(n) > best && hasPhraseAt(words, i, n) {
					best = len(n)
				}
			}
			if best > 0 {
				return strings.Join(words[i+best:], " ")
			}
		}
		return ""
	}
}

// AfterPrefix returns the trimmed text following p.
func AfterPrefix(p string) SlotFunc {
	return func(text string) string {
		return strings.TrimSpace(strings.TrimPrefix(text, p))
	}
}

// NoSlot discards the text.
func NoSlot(string) string { return "" }
