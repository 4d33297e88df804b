package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/HNS-06/Skye-assistant/internal/ui"
)

func TestGuardSwallowsErrors(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	s := Guard("voice", SpeakerFunc(func(context.Context, string) error {
		return errors.New("speaker unplugged")
	}), zap.New(core))

	assert.NotPanics(t, func() { s.Speak(context.Background(), "hello") })
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "voice", logs.All()[0].ContextMap()["sink"])
}

func TestGuardRecoversPanics(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	s := Guard("voice", SpeakerFunc(func(context.Context, string) error {
		panic("driver crashed")
	}), zap.New(core))

	assert.NotPanics(t, func() { s.Speak(context.Background(), "hello") })
	assert.Equal(t, 1, logs.Len())
}

func TestGuardSkipsEmptyText(t *testing.T) {
	called := false
	s := Guard("text", SpeakerFunc(func(context.Context, string) error {
		called = true
		return nil
	}), nil)

	s.Speak(context.Background(), "")
	assert.False(t, called)
}

func TestMultiFansOutInOrder(t *testing.T) {
	var a, b Recorder
	Multi{&a, Discard{}, &b}.Speak(context.Background(), "ping")

	assert.Equal(t, []string{"ping"}, a.Lines())
	assert.Equal(t, []string{"ping"}, b.Lines())
}

func TestRecorderIsConcurrencySafe(t *testing.T) {
	var r Recorder
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Speak(context.Background(), "x")
		}()
	}
	wg.Wait()
	assert.Len(t, r.Lines(), 50)

	r.Reset()
	assert.Empty(t, r.Lines())
}

func TestTextPrintsAssistantAndReminderLines(t *testing.T) {
	var buf bytes.Buffer
	txt := NewText(&buf, "Skye", ui.NewFormatter(false))

	require.NoError(t, txt.Speak(context.Background(), "Hello!"))
	require.NoError(t, txt.Speak(context.Background(), ReminderPrefix+"call mom"))

	assert.Equal(t, "Skye: Hello!\n⏰ Reminder: call mom\n", buf.String())
}

func TestVoiceReportsMissingProgram(t *testing.T) {
	v := NewVoice("definitely-not-a-tts-binary", nil, 0)

	assert.False(t, v.Available())
	assert.Error(t, v.Speak(context.Background(), "hello"))
	assert.NoError(t, v.Speak(context.Background(), "   "))
}

func TestTelegramSendsMessage(t *testing.T) {
	var got telegramSendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tg := NewTelegram("TOKEN", "42")
	tg.baseURL = srv.URL

	require.NoError(t, tg.Speak(context.Background(), ReminderPrefix+"stretch"))
	assert.Equal(t, "42", got.ChatID)
	assert.Equal(t, "Reminder: stretch", got.Text)
}

func TestTelegramReportsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer srv.Close()

	tg := NewTelegram("TOKEN", "0")
	tg.baseURL = srv.URL

	err := tg.Speak(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}
