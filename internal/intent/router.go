// Package intent routes normalized command text to handlers through an
// ordered predicate table.
package intent

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Predicate decides whether an entry accepts the normalized text.
type Predicate func(text string) bool

// SlotFunc extracts the handler argument from the normalized text.
type SlotFunc func(text string) string

// Request is what a handler receives.
type Request struct {
	Text string // normalized command text
	Slot string // remainder after the entry's trigger words
}

// Response is what the assistant says back.
type Response struct {
	Lines []string
	Exit  bool
}

// Say builds a response from one or more spoken lines.
func Say(lines ...string) Response {
	return Response{Lines: lines}
}

// Handler executes a matched intent.
type Handler interface {
	Handle(ctx context.Context, req Request) (Response, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, req Request) (Response, error)

func (f HandlerFunc) Handle(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}

// Entry binds a predicate to a handler. Its position in the table is its
// priority.
type Entry struct {
	Name    string
	Match   Predicate
	Slot    SlotFunc
	Handler Handler
}

// Match is the result of a successful Route.
type Match struct {
	Name    string
	Slot    string
	Handler Handler
}

// DefaultFallback lists the replies used when nothing matches. "{text}" is
// replaced with the unmatched text.
var DefaultFallback = []string{
	"I heard you say: {text}. How can I help with that?",
	"I'm not sure about {text}. Try asking me to play music, tell a joke, or check the weather.",
	"Regarding {text}, I can help with various tasks. Say 'help' to see what I can do.",
}

// HandlerErrorReply is spoken when a handler fails.
const HandlerErrorReply = "Sorry, something went wrong while doing that."

// Router holds the ordered intent table. The table is fixed at construction.
type Router struct {
	entries  []Entry
	fallback []string
	logger   *zap.Logger

	mu  sync.Mutex
	rnd *rand.Rand
}

// Option configures a Router.
type Option func(*Router)

// WithFallback replaces the unmatched-input templates.
func WithFallback(templates ...string) Option {
	return func(r *Router) { r.fallback = templates }
}

// WithRand sets the random source used to pick fallback templates.
func WithRand(rnd *rand.Rand) Option {
	return func(r *Router) { r.rnd = rnd }
}

// WithLogger sets the router logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Router) { r.logger = logger }
}

// NewRouter validates and freezes the intent table.
func NewRouter(entries []Entry, opts ...Option) (*Router, error) {
	r := &Router{
		entries:  append([]Entry(nil), entries...),
		fallback: DefaultFallback,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.rnd == nil {
		seed := uint64(time.Now().UnixNano())
		r.rnd = rand.New(rand.NewPCG(seed, seed>>1))
	}
	r.logger = r.logger.Named("router")

	if len(r.fallback) == 0 {
		return nil, errors.New("at least one fallback template is required")
	}

	seen := make(map[string]bool, len(r.entries))
	for i, e := range r.entries {
		switch {
		case e.Name == "":
			return nil, fmt.Errorf("intent entry %d has no name", i)
		case seen[e.Name]:
			return nil, fmt.Errorf("duplicate intent %q", e.Name)
		case e.Match == nil:
			return nil, fmt.Errorf("intent %q has no predicate", e.Name)
		case e.Handler == nil:
			return nil, fmt.Errorf("intent %q has no handler", e.Name)
		}
		seen[e.Name] = true
	}
	return r, nil
}

// Names returns the intent names in priority order.
func (r *Router) Names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.Name
	}
	return names
}

// Route returns the first entry whose predicate accepts text.
func (r *Router) Route(text string) (Match, bool) {
	for _, e := range r.entries {
		if !e.Match(text) {
			continue
		}
		slot := text
		if e.Slot != nil {
			slot = e.Slot(text)
		}
		return Match{Name: e.Name, Slot: slot, Handler: e.Handler}, true
	}
	return Match{}, false
}

// Dispatch routes text and runs the matched handler. Unmatched text gets a
// fallback reply; handler errors and panics become an apology.
func (r *Router) Dispatch(ctx context.Context, text string) Response {
	m, ok := r.Route(text)
	if !ok {
		r.logger.Debug("No intent matched", zap.String("text", text))
		return Say(r.Fallback(text))
	}

	r.logger.Debug("Intent matched", zap.String("intent", m.Name), zap.String("slot", m.Slot))

	resp, err := r.invoke(ctx, m, Request{Text: text, Slot: m.Slot})
	if err != nil {
		r.logger.Error("Handler failed", zap.String("intent", m.Name), zap.Error(err))
		return Say(HandlerErrorReply)
	}
	return resp
}

func (r *Router) invoke(ctx context.Context, m Match, req Request) (resp Response, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("handler %q panicked: %v", m.Name, p)
		}
	}()
	return m.Handler.Handle(ctx, req)
}

// Fallback picks one of the unmatched-input replies for text.
func (r *Router) Fallback(text string) string {
	r.mu.Lock()
	tpl := r.fallback[r.rnd.IntN(len(r.fallback))]
	r.mu.Unlock()
	return strings.ReplaceAll(tpl, "{text}", text)
}
