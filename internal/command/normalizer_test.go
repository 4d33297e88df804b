package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	n := NewNormalizer([]string{"Skye", "hey skye"})

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"leading wake word", "skye remind me to call mom in 10 minutes", "remind me to call mom in 10 minutes"},
		{"mixed case", "SKYE Hello", "hello"},
		{"surrounding space", "   Skye   what time is it  ", "what time is it"},
		{"punctuation after wake word", "Skye, tell me a joke", "tell me a joke"},
		{"multi-word wake word", "hey   skye open chrome", "open chrome"},
		{"no wake word", "  What Is The Date ", "what is the date"},
		{"embedded wake word kept", "tell skye a story", "tell skye a story"},
		{"only first occurrence removed", "skye ask skye about skye", "ask skye about skye"},
		{"repeated leading wake word", "skye skye hello", "skye hello"},
		{"wake word prefix of a longer word", "skyeline tickets", "skyeline tickets"},
		{"wake word alone", "Skye", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.in))
		})
	}
}

func TestNormalizeNonASCIIAndPossessive(t *testing.T) {
	zoe := NewNormalizer([]string{"Zoë"})
	assert.Equal(t, "what time is it", zoe.Normalize("Zoë what time is it"))
	assert.Equal(t, "hello", zoe.Normalize("ZOË, hello"))
	assert.Equal(t, "", zoe.Normalize("zoë"))
	assert.True(t, zoe.HasWakeWord("Zoë what time is it"))
	assert.Equal(t, "zoëtrope time", zoe.Normalize("Zoëtrope time"))

	skye := NewNormalizer([]string{"skye"})
	assert.Equal(t, "skye's list please", skye.Normalize("Skye's list please"))
	assert.False(t, skye.HasWakeWord("Skye's list please"))
}

func TestNormalizeWithoutWakeWords(t *testing.T) {
	n := NewNormalizer(nil)

	assert.Equal(t, "skye hello", n.Normalize("  Skye Hello "))
	assert.False(t, n.HasWakeWord("skye hello"))
}

func TestHasWakeWord(t *testing.T) {
	n := NewNormalizer([]string{"skye"})

	assert.True(t, n.HasWakeWord("Skye what's up"))
	assert.True(t, n.HasWakeWord("skye"))
	assert.False(t, n.HasWakeWord("what's up skye"))
	assert.False(t, n.HasWakeWord("skyes"))
}

func TestWakeWordsAreNormalizedLongestFirst(t *testing.T) {
	n := NewNormalizer([]string{" Skye ", "", "Hey  SKYE"})

	assert.Equal(t, []string{"hey skye", "skye"}, n.WakeWords())
}
