package skill

import (
	"strings"
	"unicode"

	"github.com/HNS-06/Skye-assistant/internal/intent"
)

func hasDigit(text string) bool {
	return strings.IndexFunc(text, unicode.IsDigit) >= 0
}

var lookupTriggers = []string{"who is", "what is", "who was", "what are", "tell me about"}

// Table returns the intent table in priority order. Earlier entries win, so
// "remind me to stop" is a reminder and "play rock paper scissors" is a game.
func (s *Skills) Table() []intent.Entry {
	return []intent.Entry{
		{
			Name:    "remind",
			Match:   intent.Keywords("remind", "reminder"),
			Handler: intent.HandlerFunc(s.remind),
		},
		{
			Name: "reminders",
			Match: intent.All(
				intent.Keywords("reminders"),
				intent.Keywords("list", "show", "what", "my", "any", "pending"),
			),
			Slot:    intent.NoSlot,
			Handler: intent.HandlerFunc(s.listReminders),
		},
		{
			Name:    "exit",
			Match:   intent.Keywords("exit", "quit", "goodbye", "good bye", "stop", "bye"),
			Slot:    intent.NoSlot,
			Handler: intent.HandlerFunc(s.exit),
		},
		{
			Name:    "help",
			Match:   intent.Keywords("help", "what can you do"),
			Slot:    intent.NoSlot,
			Handler: intent.HandlerFunc(s.help),
		},
		{
			Name:    "greeting",
			Match:   intent.Keywords("hello", "hi", "hey", "good morning", "good afternoon", "good evening"),
			Slot:    intent.NoSlot,
			Handler: intent.HandlerFunc(s.greet),
		},
		{
			Name:    "how are you",
			Match:   intent.Keywords("how are you", "how's it going", "how are things"),
			Slot:    intent.NoSlot,
			Handler: intent.HandlerFunc(s.howAreYou),
		},
		{
			Name:    "time",
			Match:   intent.Keywords("time"),
			Slot:    intent.NoSlot,
			Handler: intent.HandlerFunc(s.tellTime),
		},
		{
			Name:    "date",
			Match:   intent.Keywords("date", "what day", "today's date"),
			Slot:    intent.NoSlot,
			Handler: intent.HandlerFunc(s.tellDate),
		},
		{
			Name:    "joke",
			Match:   intent.Keywords("joke", "jokes", "funny"),
			Slot:    intent.NoSlot,
			Handler: intent.HandlerFunc(s.joke),
		},
		{
			Name:    "weather",
			Match:   intent.Keywords("weather", "forecast", "temperature"),
			Slot:    intent.StripWords("what's", "what", "is", "the", "weather", "forecast", "temperature", "in", "for", "like", "today", "how", "it", "outside"),
			Handler: intent.HandlerFunc(s.forecast),
		},
		{
			Name:    "rock paper scissors",
			Match:   intent.Keywords("rock", "paper", "scissors"),
			Slot:    intent.NoSlot,
			Handler: intent.HandlerFunc(s.rockPaperScissors),
		},
		{
			Name:    "play",
			Match:   intent.Keywords("play"),
			Slot:    intent.After("play"),
			Handler: intent.HandlerFunc(s.play),
		},
		{
			Name:    "search",
			Match:   intent.Keywords("search", "google", "look up"),
			Slot:    intent.After("search", "search for", "google", "look up"),
			Handler: intent.HandlerFunc(s.search),
		},
		{
			Name: "math",
			Match: intent.Any(
				intent.Keywords("calculate", "solve", "math"),
				intent.All(hasDigit, intent.Keywords("plus", "minus", "times", "divided", "multiplied")),
			),
			Handler: intent.HandlerFunc(s.calculate),
		},
		{
			Name:    "who is",
			Match:   intent.Keywords(lookupTriggers...),
			Slot:    intent.After(lookupTriggers...),
			Handler: intent.HandlerFunc(s.lookUp),
		},
		{
			Name:    "open",
			Match:   intent.Any(intent.Prefix("open "), intent.Prefix("launch ")),
			Slot:    intent.After("open", "launch"),
			Handler: intent.HandlerFunc(s.open),
		},
		{
			Name:    "news",
			Match:   intent.Keywords("news", "headlines"),
			Slot:    intent.NoSlot,
			Handler: intent.HandlerFunc(s.headlines),
		},
		{
			Name:    "breathing",
			Match:   intent.Keywords("breathe", "breathing", "relax"),
			Slot:    intent.NoSlot,
			Handler: intent.HandlerFunc(s.breathe),
		},
		{
			Name:    "story",
			Match:   intent.Keywords("story"),
			Slot:    intent.NoSlot,
			Handler: intent.HandlerFunc(s.story),
		},
		{
			Name:    "tip",
			Match:   intent.Keywords("tip", "advice"),
			Slot:    intent.NoSlot,
			Handler: intent.HandlerFunc(s.tip),
		},
		{
			Name:    "quiz",
			Match:   intent.Keywords("quiz", "trivia"),
			Slot:    intent.NoSlot,
			Handler: intent.HandlerFunc(s.quiz),
		},
	}
}
