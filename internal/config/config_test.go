package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// These tests use t.Setenv and therefore do not run in parallel.

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, envs := range envBindings {
		for _, env := range envs {
			t.Setenv(env, "")
			os.Unsetenv(env)
		}
	}
	// keep godotenv from picking up a developer's .env
	t.Chdir(t.TempDir())
}

func TestLoadDefaultsFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("FIREBASE_SERVICE_ACCOUNT_JSON", `{"project_id":"p"}`)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "3001" {
		t.Fatalf("port = %q", cfg.Server.Port)
	}
	if cfg.LLM.Provider != ProviderGemini || cfg.LLM.Model != "gemini-1.5-flash-latest" {
		t.Fatalf("llm = %+v", cfg.LLM)
	}
	g := cfg.LLM.Generation
	if g.Temperature != 0.7 || g.TopP != 0.95 || g.TopK != 60 || g.MaxTokens != 500 {
		t.Fatalf("generation = %+v", g)
	}
	if cfg.Storage.Driver != DriverFirestore || cfg.Storage.Firestore.Collection != "chats" {
		t.Fatalf("storage = %+v", cfg.Storage)
	}
	if cfg.History.MaxTurns != 50 {
		t.Fatalf("max turns = %d", cfg.History.MaxTurns)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "*" {
		t.Fatalf("origins = %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoadFileAndOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  port: "8080"
llm:
  provider: openai
  api_key: from-file
  model: deepseek-chat
storage:
  driver: redis
  redis:
    addr: redis:6379
    ttl_hours: 24
history:
  max_turns: 10
`)
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("PORT did not override the file: %q", cfg.Server.Port)
	}
	if cfg.LLM.Provider != ProviderOpenAI || cfg.LLM.APIKey != "from-file" || cfg.LLM.Model != "deepseek-chat" {
		t.Fatalf("llm = %+v", cfg.LLM)
	}
	if cfg.Storage.Driver != DriverRedis || cfg.Storage.Redis.Addr != "redis:6379" || cfg.Storage.Redis.TTLHours != 24 {
		t.Fatalf("storage = %+v", cfg.Storage)
	}
	if cfg.History.MaxTurns != 10 {
		t.Fatalf("max turns = %d", cfg.History.MaxTurns)
	}
	if strings.Join(cfg.CORS.AllowedOrigins, "|") != "https://a.example|https://b.example" {
		t.Fatalf("origins = %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoadMissingCredentials(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "no gemini key",
			env:     map[string]string{"FIREBASE_SERVICE_ACCOUNT_JSON": "{}"},
			wantErr: "GEMINI_API_KEY",
		},
		{
			name:    "no firebase credential",
			env:     map[string]string{"GEMINI_API_KEY": "k"},
			wantErr: "FIREBASE_SERVICE_ACCOUNT_JSON",
		},
		{
			name:    "redis driver needs no firebase credential",
			env:     map[string]string{"GEMINI_API_KEY": "k", "STORAGE_DRIVER": "redis"},
			wantErr: "",
		},
		{
			name:    "mysql without dsn",
			env:     map[string]string{"GEMINI_API_KEY": "k", "STORAGE_DRIVER": "mysql"},
			wantErr: "MYSQL_DSN",
		},
		{
			name:    "unknown driver",
			env:     map[string]string{"GEMINI_API_KEY": "k", "STORAGE_DRIVER": "sqlite"},
			wantErr: "unknown storage driver",
		},
		{
			name:    "non-numeric port",
			env:     map[string]string{"GEMINI_API_KEY": "k", "STORAGE_DRIVER": "redis", "PORT": "abc"},
			wantErr: "not a number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestInitSetsConf(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("STORAGE_DRIVER", "redis")

	if err := Init(""); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if Conf.LLM.APIKey != "k" || Conf.Storage.Driver != DriverRedis {
		t.Fatalf("Conf = %+v", Conf)
	}
}
