package config

import (
	"github.com/knadh/koanf/providers/confmap"
)

func DefaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"assistant": map[string]interface{}{
			"name":              "Skye",
			"wake_words":        []string{"skye", "hey skye"},
			"require_wake_word": false,
			"idle_prompt":       "30s",
		},
		"reminder": map[string]interface{}{
			"db_path":       GetDefaultDBPath(),
			"poll_interval": "5s",
			"default_lead":  "5m",
		},
		"speech": map[string]interface{}{
			"input":          InputText,
			"listen_timeout": "6s",
			"phrase_limit":   "7s",
			"stt_command":    "",
			"stt_args":       []string{},
			"voice":          false,
			"tts_command":    "espeak-ng",
			"tts_args":       []string{},
			"tts_timeout":    "30s",
		},
		"ui": map[string]interface{}{
			"colored_output":  true,
			"show_timestamps": false,
			"history_file":    "~/.skye/history",
		},
		"log": map[string]interface{}{
			"level": "warn",
			"file":  "",
		},
		"lookup": map[string]interface{}{
			"encyclopedia":  EncyclopediaWikipedia,
			"wikipedia_url": "https://en.wikipedia.org/api/rest_v1/page/summary/",
			"weather_url":   "https://wttr.in/",
			"timeout":       "5s",
			"launch":        true,
		},
		"llm": map[string]interface{}{
			"provider": ProviderNone,
			"deepseek": map[string]interface{}{
				"api_key":  "",
				"base_url": "https://api.deepseek.com",
				"timeout":  60,
			},
			"ollama": map[string]interface{}{
				"base_url": "http://localhost:11434",
				"timeout":  60,
			},
			"model": map[string]interface{}{
				"name":          "deepseek-chat",
				"max_tokens":    256,
				"temperature":   0.7,
				"system_prompt": "You are a voice assistant. Answer in at most two short sentences that sound natural when spoken aloud.",
			},
		},
		"notify": map[string]interface{}{
			"telegram": map[string]interface{}{
				"bot_token": "",
				"chat_id":   "",
			},
		},
	}
}

func NewDefaultProvider() *confmap.Confmap {
	return confmap.Provider(DefaultConfig(), ".")
}

func GetDefaultConfigPath() string {
	return "~/.skye/config.yaml"
}

func GetDefaultDBPath() string {
	return "~/.skye/skye_assistant.db"
}
