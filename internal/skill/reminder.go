package skill

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/HNS-06/Skye-assistant/internal/intent"
	"github.com/HNS-06/Skye-assistant/internal/reminder"
)

// ReminderRequest is what ParseReminder extracts from a command.
type ReminderRequest struct {
	Text    string
	Lead    time.Duration
	HasLead bool
	// TooFar is set when the spoken lead does not fit in a time.Duration.
	TooFar bool
}

var (
	leadRe = regexp.MustCompile(
		`\b(?:in|after)\s+(\d+|an?|[a-z]+(?:[\s-][a-z]+)?)\s+(seconds?|secs?|minutes?|mins?|hours?|hrs?|days?)\b`)
	halfHourRe = regexp.MustCompile(`\b(?:in|after)\s+half\s+an?\s+hour\b`)
	triggerRe  = regexp.MustCompile(`\b(?:remind\s+me|reminder)\b(?:\s+(?:to|about|that|of))?\s*`)
)

var numberWords = map[string]int{
	"a": 1, "an": 1, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11,
	"twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15, "sixteen": 16,
	"seventeen": 17, "eighteen": 18, "nineteen": 19, "twenty": 20, "thirty": 30,
	"forty": 40, "fifty": 50, "sixty": 60, "ninety": 90,
}

// ParseReminder pulls the reminder text and lead time out of commands like
// "remind me to call mom in 10 minutes", "remind me in an hour to stretch"
// or "set a reminder to water the plants". Text without a trigger phrase is
// taken whole, so follow-up answers parse the same way.
func ParseReminder(text string) ReminderRequest {
	var req ReminderRequest
	text = strings.ToLower(strings.TrimSpace(text))

	if loc := halfHourRe.FindStringIndex(text); loc != nil {
		req.Lead, req.HasLead = 30*time.Minute, true
		text = text[:loc[0]] + " " + text[loc[1]:]
	} else {
		for _, m := range leadRe.FindAllStringSubmatchIndex(text, -1) {
			n, ok := parseCount(text[m[2]:m[3]])
			if !ok {
				continue
			}
			unit := unitOf(text[m[4]:m[5]])
			if int64(n) > math.MaxInt64/int64(unit) {
				req.TooFar = true
			} else {
				req.Lead = time.Duration(n) * unit
			}
			req.HasLead = true
			text = text[:m[0]] + " " + text[m[1]:]
			break
		}
	}

	text = strings.Join(strings.Fields(text), " ")
	if loc := triggerRe.FindStringIndex(text); loc != nil {
		text = text[loc[1]:]
	}
	req.Text = strings.Trim(text, " .,!?")
	return req
}

func parseCount(s string) (int, bool) {
	// Atoi clamps out-of-range digits to MaxInt, which the caller rejects.
	if n, err := strconv.Atoi(s); err == nil || errors.Is(err, strconv.ErrRange) {
		return n, n >= 0
	}
	total := 0
	for _, w := range strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == '-' }) {
		n, ok := numberWords[w]
		if !ok {
			return 0, false
		}
		total += n
	}
	return total, total > 0
}

func unitOf(u string) time.Duration {
	switch {
	case strings.HasPrefix(u, "s"):
		return time.Second
	case strings.HasPrefix(u, "m"):
		return time.Minute
	case strings.HasPrefix(u, "h"):
		return time.Hour
	default:
		return 24 * time.Hour
	}
}

// HumanDuration renders d the way it is spoken: "10 minutes",
// "1 hour and 30 minutes".
func HumanDuration(d time.Duration) string {
	if d < time.Second {
		return "now"
	}
	d = d.Round(time.Second)

	units := []struct {
		size time.Duration
		name string
	}{
		{24 * time.Hour, "day"},
		{time.Hour, "hour"},
		{time.Minute, "minute"},
		{time.Second, "second"},
	}

	var parts []string
	for _, u := range units {
		if n := int(d / u.size); n > 0 {
			parts = append(parts, plural(n, u.name))
			d -= time.Duration(n) * u.size
		}
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func (s *Skills) remind(ctx context.Context, req intent.Request) (intent.Response, error) {
	r := ParseReminder(req.Slot)

	if r.Text == "" {
		answer, ok := s.ask(ctx, "What should I remind you about?")
		if !ok {
			return intent.Say("I didn't hear the reminder text."), nil
		}
		follow := ParseReminder(answer)
		r.Text = follow.Text
		if !r.HasLead {
			r.Lead, r.HasLead, r.TooFar = follow.Lead, follow.HasLead, follow.TooFar
		}
		if r.Text == "" {
			return intent.Say("I didn't hear the reminder text."), nil
		}
	}

	if r.TooFar {
		return intent.Say("That's too far away for a reminder. Please pick a shorter time."), nil
	}

	lead := r.Lead
	if !r.HasLead {
		lead = s.defaultLead
	}

	now := s.now()
	if _, err := s.store.Insert(ctx, r.Text, now.Add(lead), now); err != nil {
		if reminder.IsPersistence(err) || errors.Is(err, reminder.ErrInvalidReminder) {
			s.logger.Error("Saving reminder failed", zap.Error(err))
			return intent.Say("Sorry, I couldn't set the reminder."), nil
		}
		return intent.Response{}, err
	}

	if lead <= 0 {
		return intent.Say(fmt.Sprintf("Okay, I'll remind you to %s right away.", r.Text)), nil
	}
	return intent.Say(fmt.Sprintf("Okay, I'll remind you to %s in %s.", r.Text, HumanDuration(lead))), nil
}

func (s *Skills) listReminders(ctx context.Context, _ intent.Request) (intent.Response, error) {
	pending, err := s.store.Pending(ctx)
	if err != nil {
		return intent.Response{}, fmt.Errorf("list reminders: %w", err)
	}
	if len(pending) == 0 {
		return intent.Say("You have no pending reminders."), nil
	}

	lines := []string{"You have " + plural(len(pending), "pending reminder") + ":"}
	for _, r := range pending {
		lines = append(lines, fmt.Sprintf("%s at %s", r.Text, r.DueTime.Format("03:04 PM")))
	}
	return intent.Response{Lines: lines}, nil
}
