package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

type Config struct {
	Listen   string `json:"listen"`
	LogLevel string `json:"log_level"`
	LLM      struct {
		BaseURL             string  `json:"base_url"`
		APIKey              string  `json:"api_key"`
		Model               string  `json:"model"`
		MaxTokens           int     `json:"max_tokens"`
		Temperature         float32 `json:"temperature"`
		TimeoutSeconds      int     `json:"timeout_seconds"`
		MaxConcurrent       int     `json:"max_concurrent"`
		MaxTranscriptTokens int     `json:"max_transcript_tokens"`
	} `json:"llm"`
	Telegram struct {
		Token  string `json:"token"`
		ChatID int64  `json:"chat_id"`
	} `json:"telegram"`
	Digest struct {
		Schedule string `json:"schedule"`
	} `json:"digest"`
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(os.Getenv("HOME"), ".calltriage", "config.json")
}

// Load reads the config file, writing defaults first if it does not exist,
// then applies environment overrides. A missing API key is not an error:
// the classifier falls back to its key-missing result.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Listen = ":8000"
	cfg.LogLevel = "info"
	cfg.LLM.BaseURL = "https://api.groq.com/openai/v1"
	cfg.LLM.Model = "llama-3.3-70b-versatile"
	cfg.LLM.MaxTokens = 200
	cfg.LLM.Temperature = 0.5
	cfg.LLM.TimeoutSeconds = 30
	cfg.LLM.MaxConcurrent = 4
	cfg.LLM.MaxTranscriptTokens = 6000
	cfg.Digest.Schedule = "0 8 * * *"

	// Load from file if exists, otherwise write defaults
	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if os.IsNotExist(err) {
		if err := Save(path, cfg); err != nil {
			return nil, err
		}
	}

	// Override from env (highest precedence)
	if apiKey := os.Getenv("GROQ_API_KEY"); apiKey != "" {
		cfg.LLM.APIKey = apiKey
	} else if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		cfg.LLM.APIKey = apiKey
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		cfg.LLM.BaseURL = baseURL
	}
	if tgToken := os.Getenv("TELEGRAM_BOT_TOKEN"); tgToken != "" {
		cfg.Telegram.Token = tgToken
	}
	if tgChat := os.Getenv("TELEGRAM_CHAT_ID"); tgChat != "" {
		if id, err := strconv.ParseInt(tgChat, 10, 64); err == nil {
			cfg.Telegram.ChatID = id
		}
	}

	return cfg, nil
}

// Save writes the config to disk using atomic write (temp file + rename).
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	data = append(data, '\n')
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}
