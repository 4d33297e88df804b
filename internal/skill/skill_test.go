package skill

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/HNS-06/Skye-assistant/internal/command"
	"github.com/HNS-06/Skye-assistant/internal/intent"
	"github.com/HNS-06/Skye-assistant/internal/lookup"
	"github.com/HNS-06/Skye-assistant/internal/reminder"
)

var testNow = time.Date(2025, 5, 4, 9, 30, 0, 0, time.Local)

func newStore(t *testing.T) *reminder.Store {
	t.Helper()
	store, err := reminder.NewStore(":memory:", zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// scriptedAsker answers follow-up questions from a fixed list.
type scriptedAsker struct {
	answers   []string
	questions []string
}

func (a *scriptedAsker) Ask(_ context.Context, q string) (string, error) {
	a.questions = append(a.questions, q)
	if len(a.answers) == 0 {
		return "", errors.New("no speech")
	}
	next := a.answers[0]
	a.answers = a.answers[1:]
	return next, nil
}

type fixture struct {
	store    ReminderStore
	asker    *scriptedAsker
	launches []string
	router   *intent.Router
}

func newFixture(t *testing.T, store ReminderStore, answers ...string) *fixture {
	t.Helper()
	f := &fixture{store: store, asker: &scriptedAsker{answers: answers}}

	launcher := lookup.NewLauncher(true, zaptest.NewLogger(t)).WithOS("linux").WithRunner(
		func(_ context.Context, name string, args ...string) error {
			f.launches = append(f.launches, strings.Join(append([]string{name}, args...), " "))
			return nil
		})

	s, err := New(Deps{
		Name:        "Skye",
		Store:       store,
		DefaultLead: 5 * time.Minute,
		Asker:       f.asker,
		Weather: lookup.Func(func(_ context.Context, city string) (string, error) {
			if city == "atlantis" {
				return "", lookup.ErrNotFound
			}
			return "Weather in " + city + ": Sunny, 20°C", nil
		}),
		Encyclopedia: lookup.Func(func(_ context.Context, topic string) (string, error) {
			if topic == "nobody" {
				return "", lookup.ErrNotFound
			}
			if topic == "timeout" {
				return "", errors.New("context deadline exceeded")
			}
			return "About " + topic + ".", nil
		}),
		Launcher: launcher,
		Now:      func() time.Time { return testNow },
		Rand:     rand.New(rand.NewPCG(3, 4)),
		Logger:   zaptest.NewLogger(t),
	})
	require.NoError(t, err)

	f.router, err = intent.NewRouter(s.Table(), intent.WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	return f
}

func (f *fixture) say(t *testing.T, text string) intent.Response {
	t.Helper()
	return f.router.Dispatch(context.Background(), text)
}

func TestRemindScenario(t *testing.T) {
	store := newStore(t)
	f := newFixture(t, store)

	text := command.NewNormalizer([]string{"skye"}).Normalize("skye remind me to call mom in 10 minutes")
	require.Equal(t, "remind me to call mom in 10 minutes", text)

	m, ok := f.router.Route(text)
	require.True(t, ok)
	assert.Equal(t, "remind", m.Name)

	resp := f.say(t, text)
	assert.Equal(t, []string{"Okay, I'll remind you to call mom in 10 minutes."}, resp.Lines)

	pending, err := store.Pending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "call mom", pending[0].Text)
	assert.WithinDuration(t, testNow.Add(10*time.Minute), pending[0].DueTime, 0)
	assert.WithinDuration(t, testNow, pending[0].CreatedAt, 0)
	assert.False(t, pending[0].Completed)
}

func TestRemindUsesDefaultLead(t *testing.T) {
	store := newStore(t)
	f := newFixture(t, store)

	resp := f.say(t, "set a reminder to water the plants")
	assert.Equal(t, []string{"Okay, I'll remind you to water the plants in 5 minutes."}, resp.Lines)

	pending, err := store.Pending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.WithinDuration(t, testNow.Add(5*time.Minute), pending[0].DueTime, 0)
}

func TestRemindAsksForMissingText(t *testing.T) {
	store := newStore(t)
	f := newFixture(t, store, "Take out the trash in 2 hours")

	resp := f.say(t, "remind me")
	assert.Equal(t, []string{"What should I remind you about?"}, f.asker.questions)
	assert.Equal(t, []string{"Okay, I'll remind you to take out the trash in 2 hours."}, resp.Lines)

	pending, err := store.Pending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.WithinDuration(t, testNow.Add(2*time.Hour), pending[0].DueTime, 0)
}

func TestRemindWithoutAnswerCreatesNothing(t *testing.T) {
	store := newStore(t)
	f := newFixture(t, store)

	resp := f.say(t, "remind me in 10 minutes")
	assert.Equal(t, []string{"I didn't hear the reminder text."}, resp.Lines)

	pending, err := store.Pending(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pending)
}

type brokenStore struct{}

func (brokenStore) Insert(context.Context, string, time.Time, time.Time) (int64, error) {
	return 0, &reminder.PersistenceError{Op: "insert", Err: errors.New("database is locked")}
}

func (brokenStore) Pending(context.Context) ([]reminder.Reminder, error) {
	return nil, &reminder.PersistenceError{Op: "list", Err: errors.New("database is locked")}
}

func TestRemindReportsPersistenceFailure(t *testing.T) {
	f := newFixture(t, brokenStore{})

	resp := f.say(t, "remind me to call mom in 10 minutes")
	assert.Equal(t, []string{"Sorry, I couldn't set the reminder."}, resp.Lines)

	resp = f.say(t, "what are my reminders")
	assert.Equal(t, []string{intent.HandlerErrorReply}, resp.Lines)
}

func TestListReminders(t *testing.T) {
	store := newStore(t)
	f := newFixture(t, store)

	assert.Equal(t, []string{"You have no pending reminders."}, f.say(t, "show my reminders").Lines)

	_, err := store.Insert(context.Background(), "stretch", testNow.Add(time.Hour), testNow)
	require.NoError(t, err)

	resp := f.say(t, "what are my reminders")
	require.Len(t, resp.Lines, 2)
	assert.Equal(t, "You have 1 pending reminder:", resp.Lines[0])
	assert.True(t, strings.HasPrefix(resp.Lines[1], "stretch at "))
}

func TestParseReminder(t *testing.T) {
	tests := []struct {
		in       string
		text     string
		lead     time.Duration
		explicit bool
	}{
		{"remind me to call mom in 10 minutes", "call mom", 10 * time.Minute, true},
		{"remind me in 10 minutes to call mom", "call mom", 10 * time.Minute, true},
		{"remind me to stretch in an hour", "stretch", time.Hour, true},
		{"remind me to check the oven in twenty five minutes", "check the oven", 25 * time.Minute, true},
		{"remind me to pay rent in 2 days", "pay rent", 48 * time.Hour, true},
		{"remind me to breathe in 30 seconds", "breathe", 30 * time.Second, true},
		{"remind me about the meeting in half an hour", "the meeting", 30 * time.Minute, true},
		{"set a reminder to water the plants", "water the plants", 0, false},
		{"please remind me to log in tomorrow", "log in tomorrow", 0, false},
		{"remind me to sit in the chair after 5 mins", "sit in the chair", 5 * time.Minute, true},
		{"remind me in a few minutes to stand", "in a few minutes to stand", 0, false},
		{"call mom in 10 minutes", "call mom", 10 * time.Minute, true},
		{"remind me", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseReminder(tt.in)
			assert.Equal(t, tt.text, got.Text)
			assert.Equal(t, tt.lead, got.Lead)
			assert.Equal(t, tt.explicit, got.HasLead)
		})
	}
}

func TestParseReminderLeadOverflow(t *testing.T) {
	got := ParseReminder("remind me to pay rent in 200000 days")
	assert.Equal(t, "pay rent", got.Text)
	assert.True(t, got.HasLead)
	assert.True(t, got.TooFar)
	assert.Zero(t, got.Lead)

	got = ParseReminder("remind me to wait in 99999999999999999999999 minutes")
	assert.Equal(t, "wait", got.Text)
	assert.True(t, got.TooFar)

	got = ParseReminder("remind me to pay rent in 106751 days")
	assert.False(t, got.TooFar)
	assert.Equal(t, 106751*24*time.Hour, got.Lead)

	assert.True(t, ParseReminder("remind me to pay rent in 106752 days").TooFar)
}

func TestRemindRejectsLeadTooFar(t *testing.T) {
	store := newStore(t)
	f := newFixture(t, store)

	resp := f.say(t, "remind me to pay rent in 200000 days")
	assert.Equal(t, []string{"That's too far away for a reminder. Please pick a shorter time."}, resp.Lines)

	pending, err := store.Pending(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestHumanDuration(t *testing.T) {
	assert.Equal(t, "10 minutes", HumanDuration(10*time.Minute))
	assert.Equal(t, "1 minute", HumanDuration(time.Minute))
	assert.Equal(t, "1 hour and 30 minutes", HumanDuration(90*time.Minute))
	assert.Equal(t, "1 day, 2 hours and 5 seconds", HumanDuration(26*time.Hour+5*time.Second))
	assert.Equal(t, "now", HumanDuration(0))
}

func TestGreetingWinsForHello(t *testing.T) {
	f := newFixture(t, newStore(t))

	text := command.NewNormalizer([]string{"skye"}).Normalize("skye hello")
	m, ok := f.router.Route(text)
	require.True(t, ok)
	assert.Equal(t, "greeting", m.Name)

	resp := f.say(t, text)
	require.Len(t, resp.Lines, 1)
	assert.Contains(t, []string{
		"Hello! I'm Skye. How can I help you today?",
		"Hi there! Nice to hear from you!",
		"Hey! Skye here. What can I do for you?",
	}, resp.Lines[0])
}

func TestTableRouting(t *testing.T) {
	f := newFixture(t, newStore(t))

	tests := map[string]string{
		"remind me to stop the car in 5 minutes": "remind",
		"list my reminders":                      "reminders",
		"goodbye":                                "exit",
		"what can you do":                        "help",
		"how are you":                            "how are you",
		"what time is it":                        "time",
		"what's the date today":                  "date",
		"tell me a joke":                         "joke",
		"what's the weather in paris":            "weather",
		"play rock paper scissors":               "rock paper scissors",
		"play bohemian rhapsody":                 "play",
		"search for cheap flights":               "search",
		"calculate 2 plus 2":                     "math",
		"what is 6 times 7":                      "math",
		"who is ada lovelace":                    "who is",
		"open chrome":                            "open",
		"read me the news":                       "news",
		"let's do some breathing":                "breathing",
		"tell me a story":                        "story",
		"give me a tip":                          "tip",
		"start a quiz":                           "quiz",
		"this is nonsense":                       "",
	}

	for text, want := range tests {
		t.Run(text, func(t *testing.T) {
			m, ok := f.router.Route(text)
			if want == "" {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, want, m.Name)
		})
	}
}

func TestExitEndsSession(t *testing.T) {
	f := newFixture(t, newStore(t))

	resp := f.say(t, "bye")
	assert.True(t, resp.Exit)
	require.Len(t, resp.Lines, 1)
}

func TestTimeAndDate(t *testing.T) {
	f := newFixture(t, newStore(t))

	assert.Equal(t, []string{"The time is 09:30 AM"}, f.say(t, "what time is it").Lines)
	assert.Equal(t, []string{"Today is May 04, 2025"}, f.say(t, "what's the date").Lines)
}

func TestWeatherSkill(t *testing.T) {
	f := newFixture(t, newStore(t), "london")

	assert.Equal(t, []string{"Weather in paris: Sunny, 20°C"}, f.say(t, "what's the weather like in paris").Lines)
	assert.Equal(t, []string{"Weather in london: Sunny, 20°C"}, f.say(t, "weather").Lines)
	assert.Equal(t, []string{"For which city?"}, f.asker.questions)
	assert.Equal(t,
		[]string{"I don't have weather data for atlantis. Try major cities like New York or London."},
		f.say(t, "weather in atlantis").Lines)
}

func TestEncyclopediaSkill(t *testing.T) {
	f := newFixture(t, newStore(t))

	assert.Equal(t, []string{"About ada lovelace."}, f.say(t, "who is ada lovelace").Lines)
	assert.Equal(t, []string{"About black hole."}, f.say(t, "what is a black hole").Lines)
	assert.Equal(t, []string{"Sorry, I couldn't find information about nobody"}, f.say(t, "who is nobody").Lines)
	assert.Equal(t, []string{intent.HandlerErrorReply}, f.say(t, "tell me about timeout").Lines)
}

func TestLauncherSkills(t *testing.T) {
	f := newFixture(t, newStore(t), "never gonna give you up")

	assert.Equal(t, []string{"Playing lofi beats on YouTube"}, f.say(t, "play lofi beats").Lines)
	assert.Equal(t, []string{"Playing never gonna give you up on YouTube"}, f.say(t, "play some music").Lines)
	assert.Equal(t, []string{"Searching for golang"}, f.say(t, "search for golang").Lines)
	assert.Equal(t, []string{"Opening chrome"}, f.say(t, "open chrome").Lines)
	assert.Equal(t, []string{"I couldn't find spaceship to open"}, f.say(t, "open spaceship").Lines)

	assert.Equal(t, []string{
		"xdg-open https://www.youtube.com/results?search_query=lofi+beats",
		"xdg-open https://www.youtube.com/results?search_query=never+gonna+give+you+up",
		"xdg-open https://www.google.com/search?q=golang",
		"google-chrome",
	}, f.launches)
}

func TestMathSkill(t *testing.T) {
	f := newFixture(t, newStore(t))

	assert.Equal(t, []string{"Let me calculate that...", "6 times 7 equals 42"}, f.say(t, "what is 6 times 7").Lines)
}

func TestNewsSkill(t *testing.T) {
	f := newFixture(t, newStore(t))

	resp := f.say(t, "news")
	require.Len(t, resp.Lines, 4)
	assert.Equal(t, "Here are today's top headlines...", resp.Lines[0])
	assert.Equal(t, "Headline 1: "+lookup.News[0], resp.Lines[1])
}

func TestRockPaperScissors(t *testing.T) {
	f := newFixture(t, newStore(t), "I pick paper", "banana")

	resp := f.say(t, "rock paper scissors")
	require.Len(t, resp.Lines, 2)
	assert.Regexp(t, `^I chose (rock|paper|scissors)$`, resp.Lines[0])
	switch resp.Lines[0] {
	case "I chose rock":
		assert.Equal(t, "You win!", resp.Lines[1])
	case "I chose paper":
		assert.Equal(t, "It's a tie!", resp.Lines[1])
	default:
		assert.Equal(t, "I win!", resp.Lines[1])
	}

	assert.Equal(t, []string{"Please say rock, paper, or scissors."}, f.say(t, "rock paper scissors").Lines)
	assert.Equal(t, []string{"I didn't hear your choice. Let's try again."}, f.say(t, "rock paper scissors").Lines)
}

func TestQuiz(t *testing.T) {
	f := newFixture(t, newStore(t), "no idea")

	resp := f.say(t, "trivia")
	require.Len(t, resp.Lines, 1)
	assert.True(t, strings.HasPrefix(resp.Lines[0], "Not quite. The answer is "))
	require.Len(t, f.asker.questions, 1)
	assert.True(t, strings.HasPrefix(f.asker.questions[0], "Quiz time! "))
}

func TestContentSkills(t *testing.T) {
	f := newFixture(t, newStore(t))

	assert.Contains(t, lookup.Jokes, f.say(t, "joke").Lines[0])
	assert.Contains(t, lookup.Stories, f.say(t, "story").Lines[0])
	assert.Contains(t, lookup.Tips, f.say(t, "tip").Lines[0])
	assert.Len(t, f.say(t, "breathing").Lines, 9)
}

func TestNewRequiresStore(t *testing.T) {
	_, err := New(Deps{})
	assert.Error(t, err)

	_, err = New(Deps{Store: brokenStore{}, DefaultLead: -time.Second})
	assert.Error(t, err)
}
