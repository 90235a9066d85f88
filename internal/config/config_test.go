package config

import (
	"os"
	"path/filepath"
	"testing"
)

func testPath(t *testing.T) string {
	t.Helper()
	// Pin the env so ambient keys don't leak into assertions.
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_BASE_URL", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")
	return filepath.Join(t.TempDir(), "config.json")
}

func TestLoadWritesDefaults(t *testing.T) {
	path := testPath(t)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("defaults not written: %v", err)
	}
	if cfg.Listen != ":8000" {
		t.Errorf("unexpected listen %q", cfg.Listen)
	}
	if cfg.LLM.Model != "llama-3.3-70b-versatile" {
		t.Errorf("unexpected model %q", cfg.LLM.Model)
	}
	if cfg.LLM.MaxTokens != 200 {
		t.Errorf("unexpected max_tokens %d", cfg.LLM.MaxTokens)
	}
	if cfg.LLM.APIKey != "" {
		t.Errorf("expected empty api key, got %q", cfg.LLM.APIKey)
	}
}

func TestLoadMissingKeyIsNotFatal(t *testing.T) {
	path := testPath(t)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("missing credential must not fail startup: %v", err)
	}
	if cfg.LLM.APIKey != "" {
		t.Errorf("expected empty key, got %q", cfg.LLM.APIKey)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := testPath(t)
	t.Setenv("GROQ_API_KEY", "gsk_test")
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("TELEGRAM_CHAT_ID", "42")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LLM.APIKey != "gsk_test" {
		t.Errorf("env api key not applied, got %q", cfg.LLM.APIKey)
	}
	if cfg.Telegram.Token != "tok" {
		t.Errorf("env token not applied, got %q", cfg.Telegram.Token)
	}
	if cfg.Telegram.ChatID != 42 {
		t.Errorf("env chat id not applied, got %d", cfg.Telegram.ChatID)
	}
}

func TestOpenAIKeyFallback(t *testing.T) {
	path := testPath(t)
	t.Setenv("OPENAI_API_KEY", "sk_fallback")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LLM.APIKey != "sk_fallback" {
		t.Errorf("fallback key not applied, got %q", cfg.LLM.APIKey)
	}
}

func TestListValuesMasksSecrets(t *testing.T) {
	path := testPath(t)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg.LLM.APIKey = "gsk_secret"

	values, err := ListValues(cfg, true)
	if err != nil {
		t.Fatal(err)
	}
	if values["llm.api_key"] != "***" {
		t.Errorf("api key not masked: %v", values["llm.api_key"])
	}
	if values["llm.model"] != "llama-3.3-70b-versatile" {
		t.Errorf("unexpected model value: %v", values["llm.model"])
	}
}

func TestSetAndGetValue(t *testing.T) {
	path := testPath(t)
	if _, err := Load(path); err != nil {
		t.Fatal(err)
	}

	if err := SetValue(path, "llm.max_tokens", "300"); err != nil {
		t.Fatal(err)
	}

	val, err := GetValue(path, "llm.max_tokens")
	if err != nil {
		t.Fatal(err)
	}
	if val != float64(300) {
		t.Errorf("expected 300, got %v", val)
	}
}

func TestSetValueUnknownKey(t *testing.T) {
	path := testPath(t)
	if _, err := Load(path); err != nil {
		t.Fatal(err)
	}

	if err := SetValue(path, "llm.no_such_key", "1"); err == nil {
		t.Error("expected error for unknown key")
	}
	if err := SetValue(path, "nope.nested", "1"); err == nil {
		t.Error("expected error for unknown section")
	}
}
