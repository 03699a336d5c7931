package config

import (
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Searcher struct {
	APIURL         string        `yaml:"api_url" env:"SEARCHER_API_URL" env-default:"http://localhost:3001/api"`
	WSURL          string        `yaml:"ws_url" env:"SEARCHER_WS_URL" env-default:"ws://localhost:3001"`
	AnswerURL      string        `yaml:"answer_url" env:"SEARCHER_ANSWER_URL"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"SEARCHER_REQUEST_TIMEOUT" env-default:"30s"`
}

type Connection struct {
	WSURL          string        `yaml:"ws_url" env:"SEARCHER_WS_URL" env-default:"ws://localhost:3001"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"CONNECT_TIMEOUT" env-default:"10s"`
}

type Redis struct {
	// Endpoint is optional; when empty the client keeps persisted settings
	// in memory only.
	Endpoint string `yaml:"endpoint" env:"REDIS_ENDPOINT"`
}

type History struct {
	TokenBudget int    `yaml:"token_budget" env:"HISTORY_TOKEN_BUDGET" env-default:"3500"`
	TokenModel  string `yaml:"token_model" env:"HISTORY_TOKEN_MODEL" env-default:"gpt-3.5-turbo"`
}

type Config struct {
	Language   string     `yaml:"language" env:"CHAT_LANGUAGE" env-default:"en"`
	Searcher   Searcher   `yaml:"searcher"`
	Connection Connection `yaml:"connection"`
	Redis      Redis      `yaml:"redis"`
	History    History    `yaml:"history"`
}

func LoadConfig(cfgPath string) (*Config, error) {
	var cfg Config
	if _, err := os.Stat(cfgPath); err == nil {
		if err := cleanenv.ReadConfig(cfgPath, &cfg); err != nil {
			return nil, err
		}
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
