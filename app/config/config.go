package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

const defaultPath = "config.yaml"

type Config struct {
	Log    Log    `yaml:"log" envPrefix:"LOG_"`
	HTTP   HTTP   `yaml:"http" envPrefix:"HTTP_"`
	Corpus Corpus `yaml:"corpus" envPrefix:"CORPUS_"`
	Store  Store  `yaml:"store" envPrefix:"STORE_"`
	MCP    MCP    `yaml:"mcp" envPrefix:"MCP_"`
}

type Log struct {
	// Minimum level: debug, info, warn or error
	Level string `yaml:"level" env:"LEVEL" example:"info" validate:"oneof=debug info warn error"`
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram" envPrefix:"TELEGRAM_"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" env:"TOKEN" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" env:"CHAT_ID" example:"1001234567890" validate:"required_with=Token"`
	// Records at this level and above are forwarded, tagged records always are
	Level string `yaml:"level" env:"LEVEL" example:"error" validate:"oneof=debug info warn error"`
}

type HTTP struct {
	// Disable the HTTP API
	Disabled bool `yaml:"disabled" env:"DISABLED" example:"false"`
	// Listen address
	Addr string `yaml:"addr" env:"ADDR" example:":8080" validate:"required"`
	// Max request body size in bytes
	BodyLimit int `yaml:"body_limit" env:"BODY_LIMIT" example:"65536" validate:"min=1024"`
}

type Corpus struct {
	// Path to a YAML reply corpus, the built-in corpus is used when empty
	Path string `yaml:"path" env:"PATH" example:"data/corpus.yaml"`
	// Never repeat the previous counterpart line when the pool has alternatives
	AvoidRepeat bool `yaml:"avoid_repeat" env:"AVOID_REPEAT" example:"true"`
}

type Store struct {
	// SQLite file holding archived transcripts
	Path string `yaml:"path" env:"PATH" example:"data/transcripts.db" validate:"required"`
}

type MCP struct {
	// Serve MCP tools over stdio
	Enabled bool `yaml:"enabled" env:"ENABLED" example:"false"`
}

// Load reads config.yaml (or $PITCHDRILL_CONFIG), then applies defaults and
// PITCHDRILL_* environment overrides. A missing file is not an error.
func Load() (*Config, error) {
	path := defaultPath
	if value := os.Getenv("PITCHDRILL_CONFIG"); value != "" {
		path = value
	}

	return LoadFile(path)
}

func LoadFile(path string) (*Config, error) {
	var result Config

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	if err == nil {
		if err = yaml.Unmarshal(data, &result); err != nil {
			return nil, oops.Errorf("failed to parse YAML config: %w", err)
		}
	}

	if err = env.ParseWithOptions(&result, env.Options{Prefix: "PITCHDRILL_"}); err != nil {
		return nil, oops.Errorf("failed to parse env config: %w", err)
	}

	if result.Log.Level == "" {
		result.Log.Level = "info"
	}
	if result.Log.Telegram.Level == "" {
		result.Log.Telegram.Level = "error"
	}
	if result.HTTP.Addr == "" {
		result.HTTP.Addr = ":8080"
	}
	if result.HTTP.BodyLimit == 0 {
		result.HTTP.BodyLimit = 64 * 1024
	}
	if result.Store.Path == "" {
		result.Store.Path = "data/transcripts.db"
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}
