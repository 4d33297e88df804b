// Package lookup holds the content collaborators used by intent handlers:
// jokes, weather, encyclopedia summaries, news, math and app launching.
// Lookups are called synchronously by handlers and never by the scheduler.
package lookup

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// ErrNotFound means the lookup ran but had nothing for the input.
var ErrNotFound = errors.New("lookup: no result")

// Lookup answers one query with text suitable for speaking.
type Lookup interface {
	Query(ctx context.Context, input string) (string, error)
}

// Func adapts a function to Lookup.
type Func func(ctx context.Context, input string) (string, error)

func (f Func) Query(ctx context.Context, input string) (string, error) {
	return f(ctx, input)
}

// List answers every query with a random item.
type List struct {
	items []string

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewList returns a List over items. A nil rnd uses a time-seeded source.
func NewList(rnd *rand.Rand, items ...string) *List {
	if rnd == nil {
		seed := uint64(time.Now().UnixNano())
		rnd = rand.New(rand.NewPCG(seed, seed^0x5eed))
	}
	return &List{items: items, rnd: rnd}
}

func (l *List) Query(context.Context, string) (string, error) {
	if len(l.items) == 0 {
		return "", ErrNotFound
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.items[l.rnd.IntN(len(l.items))], nil
}

// Headlines answers with the first Count items, one per line.
type Headlines struct {
	Items []string
	Count int
}

func (h Headlines) Query(context.Context, string) (string, error) {
	n := h.Count
	if n <= 0 || n > len(h.Items) {
		n = len(h.Items)
	}
	if n == 0 {
		return "", ErrNotFound
	}
	return strings.Join(h.Items[:n], "\n"), nil
}

// Trim shortens s to at most limit characters, cutting at a word boundary
// when possible.
func Trim(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)[:limit]
	cut := string(r)
	if i := strings.LastIndexAny(cut, " \t\n"); i > limit/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;:-") + "..."
}
