package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Provider type constants (duplicated from api package to avoid import cycle)
const (
	ProviderNone     = "none"
	ProviderDeepSeek = "deepseek"
	ProviderOllama   = "ollama"
)

// Input modes.
const (
	InputVoice = "voice"
	InputText  = "text"
)

// Encyclopedia backends.
const (
	EncyclopediaWikipedia = "wikipedia"
	EncyclopediaLLM       = "llm"
)

// EnvPrefix is the prefix for environment overrides. Nested keys use a double
// underscore: SKYE_REMINDER__POLL_INTERVAL=10s.
const EnvPrefix = "SKYE_"

type Config struct {
	Assistant AssistantConfig `koanf:"assistant"`
	Reminder  ReminderConfig  `koanf:"reminder"`
	Speech    SpeechConfig    `koanf:"speech"`
	UI        UIConfig        `koanf:"ui"`
	Log       LogConfig       `koanf:"log"`
	Lookup    LookupConfig    `koanf:"lookup"`
	LLM       LLMConfig       `koanf:"llm"`
	Notify    NotifyConfig    `koanf:"notify"`
}

type AssistantConfig struct {
	Name            string        `koanf:"name"`
	WakeWords       []string      `koanf:"wake_words"`
	RequireWakeWord bool          `koanf:"require_wake_word"` // Ignore utterances that don't start with a wake word
	IdlePrompt      time.Duration `koanf:"idle_prompt"`       // 0 disables the idle reminder
}

type ReminderConfig struct {
	DBPath       string        `koanf:"db_path"`
	PollInterval time.Duration `koanf:"poll_interval"`
	DefaultLead  time.Duration `koanf:"default_lead"` // Used when "remind me" carries no duration
}

type SpeechConfig struct {
	Input         string        `koanf:"input"`
	ListenTimeout time.Duration `koanf:"listen_timeout"`
	PhraseLimit   time.Duration `koanf:"phrase_limit"`
	STTCommand    string        `koanf:"stt_command"` // Prints one transcript line on stdout
	STTArgs       []string      `koanf:"stt_args"`
	Voice         bool          `koanf:"voice"` // Speak responses through the TTS command
	TTSCommand    string        `koanf:"tts_command"`
	TTSArgs       []string      `koanf:"tts_args"`
	TTSTimeout    time.Duration `koanf:"tts_timeout"`
}

type UIConfig struct {
	ColoredOutput  bool   `koanf:"colored_output"`
	ShowTimestamps bool   `koanf:"show_timestamps"`
	HistoryFile    string `koanf:"history_file"`
}

type LogConfig struct {
	Level string `koanf:"level"`
	File  string `koanf:"file"` // Empty logs to stderr
}

type LookupConfig struct {
	Encyclopedia string        `koanf:"encyclopedia"`
	WikipediaURL string        `koanf:"wikipedia_url"`
	WeatherURL   string        `koanf:"weather_url"`
	Timeout      time.Duration `koanf:"timeout"`
	Launch       bool          `koanf:"launch"` // Actually open browsers and apps
}

type LLMConfig struct {
	Provider string         `koanf:"provider"`
	DeepSeek DeepSeekConfig `koanf:"deepseek"`
	Ollama   OllamaConfig   `koanf:"ollama"`
	Model    ModelConfig    `koanf:"model"`
}

type DeepSeekConfig struct {
	APIKey  string `koanf:"api_key"`
	BaseURL string `koanf:"base_url"`
	Timeout int    `koanf:"timeout"`
}

type OllamaConfig struct {
	BaseURL string `koanf:"base_url"`
	Timeout int    `koanf:"timeout"`
}

type ModelConfig struct {
	Name         string  `koanf:"name"`
	MaxTokens    int     `koanf:"max_tokens"`
	Temperature  float64 `koanf:"temperature"`
	SystemPrompt string  `koanf:"system_prompt"`
}

type NotifyConfig struct {
	Telegram TelegramConfig `koanf:"telegram"`
}

type TelegramConfig struct {
	BotToken string `koanf:"bot_token"`
	ChatID   string `koanf:"chat_id"`
}

// Enabled reports whether fired reminders should also go to Telegram.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// Load builds the configuration from, in increasing precedence: defaults,
// the YAML file at configPath (if it exists), environment variables and
// overrides (dotted keys, typically from CLI flags). A .env file in the
// working directory is read into the environment first.
func Load(configPath string, overrides map[string]any) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	k := koanf.New(".")

	if err := k.Load(NewDefaultProvider(), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		configPath = expandPath(configPath)

		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// Variables understood by the rest of the ecosystem.
	if name := os.Getenv("ASSISTANT_NAME"); name != "" && os.Getenv(EnvPrefix+"ASSISTANT__NAME") == "" {
		k.Set("assistant.name", name)
	}
	if apiKey := os.Getenv("DEEPSEEK_API_KEY"); apiKey != "" {
		k.Set("llm.deepseek.api_key", apiKey)
	}

	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to apply overrides: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Assistant.WakeWords = wakeWords(cfg.Assistant.Name, cfg.Assistant.WakeWords)
	cfg.Reminder.DBPath = expandPath(cfg.Reminder.DBPath)
	cfg.UI.HistoryFile = expandPath(cfg.UI.HistoryFile)
	cfg.Log.File = expandPath(cfg.Log.File)

	return &cfg, nil
}

// envKey maps SKYE_LLM__DEEPSEEK__API_KEY to llm.deepseek.api_key. List
// values are comma separated.
func envKey(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	key = strings.ReplaceAll(key, "__", ".")

	switch key {
	case "assistant.wake_words", "speech.stt_args", "speech.tts_args":
		var parts []string
		for _, p := range strings.Split(value, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		return key, parts
	}
	return key, value
}

// wakeWords makes sure the assistant's own name is always a wake word.
func wakeWords(name string, words []string) []string {
	out := make([]string, 0, len(words)+1)
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" && !slices.Contains(out, w) {
			out = append(out, w)
		}
	}
	if n := strings.ToLower(strings.TrimSpace(name)); n != "" && !slices.Contains(out, n) {
		out = append(out, n)
	}
	return out
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Assistant.Name) == "" {
		return fmt.Errorf("assistant name is required")
	}

	if len(c.Assistant.WakeWords) == 0 {
		return fmt.Errorf("at least one wake word is required")
	}

	if c.Assistant.IdlePrompt < 0 {
		return fmt.Errorf("idle_prompt must not be negative")
	}

	if c.Reminder.PollInterval <= 0 {
		return fmt.Errorf("reminder poll_interval must be positive")
	}

	if c.Reminder.DefaultLead < 0 {
		return fmt.Errorf("reminder default_lead must not be negative")
	}

	if c.Reminder.DBPath == "" {
		return fmt.Errorf("reminder db_path is required")
	}

	switch c.Speech.Input {
	case InputText:
	case InputVoice:
		if c.Speech.STTCommand == "" {
			return fmt.Errorf("speech stt_command is required for voice input")
		}
	default:
		return fmt.Errorf("unknown input mode: %s (supported: %s, %s)", c.Speech.Input, InputVoice, InputText)
	}

	switch c.Lookup.Encyclopedia {
	case EncyclopediaWikipedia:
	case EncyclopediaLLM:
		if c.LLM.Provider == ProviderNone {
			return fmt.Errorf("encyclopedia %q needs an llm provider", EncyclopediaLLM)
		}
	default:
		return fmt.Errorf("unknown encyclopedia: %s (supported: %s, %s)",
			c.Lookup.Encyclopedia, EncyclopediaWikipedia, EncyclopediaLLM)
	}

	switch c.LLM.Provider {
	case ProviderNone:
	case ProviderDeepSeek:
		if c.LLM.DeepSeek.APIKey == "" {
			return fmt.Errorf("DeepSeek API key is required (set DEEPSEEK_API_KEY or add to config file)")
		}
	case ProviderOllama:
		if c.LLM.Ollama.BaseURL == "" {
			c.LLM.Ollama.BaseURL = "http://localhost:11434"
		}
	default:
		return fmt.Errorf("unknown provider: %s (supported: %s, %s, %s)",
			c.LLM.Provider, ProviderNone, ProviderDeepSeek, ProviderOllama)
	}

	if c.LLM.Provider != ProviderNone {
		if c.LLM.Model.Name == "" {
			return fmt.Errorf("model name is required")
		}
		if c.LLM.Model.MaxTokens <= 0 {
			return fmt.Errorf("max_tokens must be positive")
		}
		if c.LLM.Model.Temperature < 0 || c.LLM.Model.Temperature > 2 {
			return fmt.Errorf("temperature must be between 0 and 2")
		}
	}

	return nil
}

// ProviderConfig contains provider-specific configuration for the API package.
type ProviderConfig struct {
	Type     string
	DeepSeek DeepSeekConfig
	Ollama   OllamaConfig
	Model    ModelConfig
}

// GetProviderConfig returns the provider configuration for the API package.
func (c *Config) GetProviderConfig() *ProviderConfig {
	return &ProviderConfig{
		Type:     c.LLM.Provider,
		DeepSeek: c.LLM.DeepSeek,
		Ollama:   c.LLM.Ollama,
		Model:    c.LLM.Model,
	}
}

func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}

	return path
}

// ExpandPath resolves a leading "~/" against the user's home directory.
func ExpandPath(path string) string {
	return expandPath(path)
}
