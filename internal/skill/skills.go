// Package skill implements the assistant's intent handlers and assembles them
// into the default, ordered intent table.
package skill

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/HNS-06/Skye-assistant/internal/intent"
	"github.com/HNS-06/Skye-assistant/internal/lookup"
	"github.com/HNS-06/Skye-assistant/internal/reminder"
)

// ReminderStore is the part of the reminder store handlers use.
type ReminderStore interface {
	Insert(ctx context.Context, text string, due, created time.Time) (int64, error)
	Pending(ctx context.Context) ([]reminder.Reminder, error)
}

// Asker asks the user one follow-up question and returns the answer.
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

// AskerFunc adapts a function to Asker.
type AskerFunc func(ctx context.Context, question string) (string, error)

func (f AskerFunc) Ask(ctx context.Context, question string) (string, error) {
	return f(ctx, question)
}

// Deps wires handlers to their collaborators. Store is required; nil
// lookups fall back to the built-in content.
type Deps struct {
	Name        string
	Store       ReminderStore
	DefaultLead time.Duration
	Asker       Asker

	Jokes        lookup.Lookup
	Stories      lookup.Lookup
	Tips         lookup.Lookup
	News         lookup.Lookup
	Weather      lookup.Lookup
	Encyclopedia lookup.Lookup
	Math         lookup.Lookup
	Launcher     *lookup.Launcher

	Now    func() time.Time
	Rand   *rand.Rand
	Logger *zap.Logger
}

// Skills holds the handlers.
type Skills struct {
	name        string
	store       ReminderStore
	defaultLead time.Duration
	asker       Asker

	jokes, stories, tips, news lookup.Lookup
	weather, encyclopedia      lookup.Lookup
	math                       lookup.Lookup
	launcher                   *lookup.Launcher

	now    func() time.Time
	logger *zap.Logger

	mu  sync.Mutex
	rnd *rand.Rand
}

// New builds the handler set.
func New(d Deps) (*Skills, error) {
	if d.Store == nil {
		return nil, errors.New("skill: reminder store is required")
	}
	if d.DefaultLead < 0 {
		return nil, fmt.Errorf("skill: default lead must not be negative, got %s", d.DefaultLead)
	}

	s := &Skills{
		name:         d.Name,
		store:        d.Store,
		defaultLead:  d.DefaultLead,
		asker:        d.Asker,
		jokes:        d.Jokes,
		stories:      d.Stories,
		tips:         d.Tips,
		news:         d.News,
		weather:      d.Weather,
		encyclopedia: d.Encyclopedia,
		math:         d.Math,
		launcher:     d.Launcher,
		now:          d.Now,
		rnd:          d.Rand,
		logger:       d.Logger,
	}

	if s.name == "" {
		s.name = "Skye"
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.logger = s.logger.Named("skill")
	if s.rnd == nil {
		seed := uint64(time.Now().UnixNano())
		s.rnd = rand.New(rand.NewPCG(seed, seed>>3))
	}
	if s.jokes == nil {
		s.jokes = lookup.NewList(nil, lookup.Jokes...)
	}
	if s.stories == nil {
		s.stories = lookup.NewList(nil, lookup.Stories...)
	}
	if s.tips == nil {
		s.tips = lookup.NewList(nil, lookup.Tips...)
	}
	if s.news == nil {
		s.news = lookup.Headlines{Items: lookup.News, Count: 3}
	}
	if s.weather == nil {
		s.weather = lookup.NewWeather("", 0)
	}
	if s.encyclopedia == nil {
		s.encyclopedia = lookup.NewWikipedia("", 0)
	}
	if s.math == nil {
		s.math = lookup.Math
	}
	if s.launcher == nil {
		s.launcher = lookup.NewLauncher(false, s.logger)
	}
	return s, nil
}

func (s *Skills) pick(options ...string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return options[s.rnd.IntN(len(options))]
}

// ask returns the lowercased answer to a follow-up question, or false when
// there is nobody to ask or nothing was heard.
func (s *Skills) ask(ctx context.Context, question string) (string, bool) {
	if s.asker == nil {
		return "", false
	}
	answer, err := s.asker.Ask(ctx, question)
	if err != nil {
		s.logger.Debug("Follow-up question got no answer", zap.String("question", question), zap.Error(err))
		return "", false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer, answer != ""
}

// query runs a lookup, turning ErrNotFound into notFound.
func query(ctx context.Context, l lookup.Lookup, input, notFound string) (intent.Response, error) {
	answer, err := l.Query(ctx, input)
	if errors.Is(err, lookup.ErrNotFound) {
		return intent.Say(notFound), nil
	}
	if err != nil {
		return intent.Response{}, err
	}
	return intent.Say(answer), nil
}

func (s *Skills) exit(context.Context, intent.Request) (intent.Response, error) {
	return intent.Response{
		Lines: []string{s.pick(
			"Goodbye! Have a wonderful day!",
			"See you later! Take care!",
			"Bye! Don't hesitate to call me again!",
		)},
		Exit: true,
	}, nil
}

func (s *Skills) help(context.Context, intent.Request) (intent.Response, error) {
	return intent.Say("I can tell jokes, play music, check weather, set reminders, tell time, search web, " +
		"open apps, give news, solve math problems, play games, and more!"), nil
}

func (s *Skills) greet(context.Context, intent.Request) (intent.Response, error) {
	return intent.Say(s.pick(
		fmt.Sprintf("Hello! I'm %s. How can I help you today?", s.name),
		"Hi there! Nice to hear from you!",
		fmt.Sprintf("Hey! %s here. What can I do for you?", s.name),
	)), nil
}

func (s *Skills) howAreYou(context.Context, intent.Request) (intent.Response, error) {
	return intent.Say(s.pick(
		"I'm doing great, thank you for asking!",
		"I'm excellent and ready to help!",
		"I'm wonderful! How can I assist you today?",
	)), nil
}

func (s *Skills) tellTime(context.Context, intent.Request) (intent.Response, error) {
	return intent.Say("The time is " + s.now().Format("03:04 PM")), nil
}

func (s *Skills) tellDate(context.Context, intent.Request) (intent.Response, error) {
	return intent.Say("Today is " + s.now().Format("January 02, 2006")), nil
}

func (s *Skills) joke(ctx context.Context, _ intent.Request) (intent.Response, error) {
	return query(ctx, s.jokes, "", "I'm out of jokes for now.")
}

func (s *Skills) forecast(ctx context.Context, req intent.Request) (intent.Response, error) {
	city := req.Slot
	if city == "" {
		answer, ok := s.ask(ctx, "For which city?")
		if !ok {
			return intent.Say("I didn't catch the city."), nil
		}
		city = answer
	}
	return query(ctx, s.weather, city,
		fmt.Sprintf("I don't have weather data for %s. Try major cities like New York or London.", city))
}

// musicFiller are words that say "some music" without naming anything.
var musicFiller = map[string]bool{
	"music": true, "song": true, "songs": true, "some": true, "a": true,
	"me": true, "please": true, "something": true, "the": true,
}

func (s *Skills) play(ctx context.Context, req intent.Request) (intent.Response, error) {
	song := req.Slot
	named := false
	for _, w := range strings.Fields(song) {
		if !musicFiller[w] {
			named = true
			break
		}
	}
	if !named {
		answer, ok := s.ask(ctx, "What song would you like to play?")
		if !ok {
			return intent.Say("I didn't hear a song name."), nil
		}
		song = strings.TrimSpace(strings.TrimPrefix(answer, "play"))
	}
	return query(ctx, lookup.Func(s.launcher.Play), song, "I didn't hear a song name.")
}

func (s *Skills) search(ctx context.Context, req intent.Request) (intent.Response, error) {
	q := req.Slot
	if q == "" {
		answer, ok := s.ask(ctx, "What would you like to search for?")
		if !ok {
			return intent.Say("I didn't hear what to search for."), nil
		}
		q = answer
	}
	return query(ctx, lookup.Func(s.launcher.Search), q, "I didn't hear what to search for.")
}

func (s *Skills) calculate(ctx context.Context, req intent.Request) (intent.Response, error) {
	resp, err := query(ctx, s.math, req.Text, "Sorry, I couldn't solve that math problem.")
	if err != nil {
		return resp, err
	}
	resp.Lines = append([]string{"Let me calculate that..."}, resp.Lines...)
	return resp, nil
}

func (s *Skills) lookUp(ctx context.Context, req intent.Request) (intent.Response, error) {
	topic := req.Slot
	for _, article := range []string{"a ", "an ", "the "} {
		topic = strings.TrimPrefix(topic, article)
	}
	if topic == "" {
		answer, ok := s.ask(ctx, "What would you like to know about?")
		if !ok {
			return intent.Say("I didn't hear the topic."), nil
		}
		topic = answer
	}
	return query(ctx, s.encyclopedia, topic, "Sorry, I couldn't find information about "+topic)
}

func (s *Skills) open(ctx context.Context, req intent.Request) (intent.Response, error) {
	if req.Slot == "" {
		return intent.Say("Which application should I open?"), nil
	}
	return query(ctx, lookup.Func(s.launcher.OpenApp), req.Slot, fmt.Sprintf("I couldn't find %s to open", req.Slot))
}

func (s *Skills) headlines(ctx context.Context, _ intent.Request) (intent.Response, error) {
	text, err := s.news.Query(ctx, "")
	if errors.Is(err, lookup.ErrNotFound) {
		return intent.Say("I don't have any headlines right now."), nil
	}
	if err != nil {
		return intent.Response{}, err
	}

	lines := []string{"Here are today's top headlines..."}
	for i, h := range strings.Split(text, "\n") {
		lines = append(lines, fmt.Sprintf("Headline %d: %s", i+1, h))
	}
	return intent.Response{Lines: lines}, nil
}

var rpsBeats = map[string]string{"rock": "scissors", "paper": "rock", "scissors": "paper"}

func (s *Skills) rockPaperScissors(ctx context.Context, _ intent.Request) (intent.Response, error) {
	answer, ok := s.ask(ctx, "Let's play! Rock, paper, scissors... What's your choice?")
	if !ok {
		return intent.Say("I didn't hear your choice. Let's try again."), nil
	}

	player := ""
	for _, w := range intent.Words(answer) {
		if _, ok := rpsBeats[w]; ok {
			player = w
			break
		}
	}
	if player == "" {
		return intent.Say("Please say rock, paper, or scissors."), nil
	}

	computer := s.pick("rock", "paper", "scissors")
	lines := []string{"I chose " + computer}
	switch {
	case player == computer:
		lines = append(lines, "It's a tie!")
	case rpsBeats[player] == computer:
		lines = append(lines, "You win!")
	default:
		lines = append(lines, "I win!")
	}
	return intent.Response{Lines: lines}, nil
}

func (s *Skills) breathe(context.Context, intent.Request) (intent.Response, error) {
	return intent.Say(
		"Let's do a short breathing exercise. Follow my instructions.",
		"Breathe in slowly...",
		"Hold your breath...",
		"Breathe out slowly...",
		"Good! Let's do one more round.",
		"Breathe in...",
		"Hold...",
		"Breathe out...",
		"Excellent! You should feel more relaxed now.",
	), nil
}

func (s *Skills) story(ctx context.Context, _ intent.Request) (intent.Response, error) {
	return query(ctx, s.stories, "", "I can't think of a story right now.")
}

func (s *Skills) tip(ctx context.Context, _ intent.Request) (intent.Response, error) {
	return query(ctx, s.tips, "", "I don't have a tip right now.")
}

type trivia struct {
	question string
	answers  []string
}

var quizQuestions = []trivia{
	{"What is the largest planet in our solar system?", []string{"jupiter"}},
	{"How many continents are there on Earth?", []string{"seven", "7"}},
	{"What gas do plants absorb from the air?", []string{"carbon dioxide", "co2"}},
	{"Which language has the gopher as its mascot?", []string{"go", "golang"}},
	{"What is the boiling point of water in degrees Celsius?", []string{"100", "hundred"}},
}

func (s *Skills) quiz(ctx context.Context, _ intent.Request) (intent.Response, error) {
	s.mu.Lock()
	q := quizQuestions[s.rnd.IntN(len(quizQuestions))]
	s.mu.Unlock()

	answer, ok := s.ask(ctx, "Quiz time! "+q.question)
	if !ok {
		return intent.Say("No answer? It was " + q.answers[0] + "."), nil
	}
	for _, want := range q.answers {
		if intent.Keywords(want)(answer) {
			return intent.Say("Correct! Well done."), nil
		}
	}
	return intent.Say("Not quite. The answer is " + q.answers[0] + "."), nil
}
