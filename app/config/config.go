package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Log       Log       `yaml:"log"`
	Server    Server    `yaml:"server"`
	Backend   Backend   `yaml:"backend"`
	OpenAI    OpenAI    `yaml:"openai"`
	SpeechKit SpeechKit `yaml:"speech_kit"`
}

type Server struct {
	// Listen address of the HTTP surface
	Addr string `yaml:"addr" example:":8080" validate:"required"`
}

type Backend struct {
	// Base URL of the record store backend
	URL string `yaml:"url" example:"https://dispatch.example.com/api" validate:"required,url"`
	// Per-attempt submission timeout in seconds
	TimeoutSeconds int `yaml:"timeout_seconds" example:"10"`
}

type OpenAI struct {
	Extractor ModelConfig `yaml:"extractor" validate:"required"`
}

type ModelConfig struct {
	// OpenAI base url
	BaseURL string `yaml:"base_url" example:"https://api.openai.com/v1" validate:"required"`
	// OpenAI token
	Token string `yaml:"token" example:"sk-proj-abc123456789DEF789ghi012JKL345mno678PQR901stu234VWX" validate:"required"`
	// OpenAI model
	Model string `yaml:"model" example:"gpt-4o-mini" validate:"required"`
}

type SpeechKit struct {
	// Path to the Yandex Cloud service account key
	KeyFile string `yaml:"key_file" example:"service-account-key.json"`
}

type Log struct {
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

func Load() (*Config, error) {
	var result Config

	data, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	if err = yaml.Unmarshal(data, &result); err != nil {
		return nil, oops.Errorf("failed to parse YAML config: %w", err)
	}

	if result.Server.Addr == "" {
		result.Server.Addr = ":8080"
	}
	if result.Backend.TimeoutSeconds == 0 {
		result.Backend.TimeoutSeconds = 10
	}
	if result.SpeechKit.KeyFile == "" {
		result.SpeechKit.KeyFile = "service-account-key.json"
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}
