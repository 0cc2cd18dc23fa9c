// Package config loads and validates the backend configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Conf holds the configuration loaded by Init.
var Conf Config

// Storage drivers.
const (
	DriverFirestore = "firestore"
	DriverRedis     = "redis"
	DriverMySQL     = "mysql"
)

// LLM providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config mirrors configs/config.yaml.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Storage StorageConfig `mapstructure:"storage"`
	History HistoryConfig `mapstructure:"history"`
	CORS    CORSConfig    `mapstructure:"cors"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// LogConfig holds the logger settings.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// LLMConfig holds the generative-language API settings.
type LLMConfig struct {
	Provider   string              `mapstructure:"provider"`
	APIKey     string              `mapstructure:"api_key"`
	BaseURL    string              `mapstructure:"base_url"`
	Model      string              `mapstructure:"model"`
	Generation LLMGenerationConfig `mapstructure:"generation"`
}

// LLMGenerationConfig holds the fixed sampling parameters sent with every request.
type LLMGenerationConfig struct {
	Temperature float32 `mapstructure:"temperature"`
	TopP        float32 `mapstructure:"top_p"`
	TopK        int     `mapstructure:"top_k"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// StorageConfig selects and configures the history store.
type StorageConfig struct {
	Driver    string          `mapstructure:"driver"`
	Firestore FirestoreConfig `mapstructure:"firestore"`
	Redis     RedisConfig     `mapstructure:"redis"`
	MySQL     MySQLConfig     `mapstructure:"mysql"`
}

// FirestoreConfig holds the document store settings.
type FirestoreConfig struct {
	ServiceAccountJSON string `mapstructure:"service_account_json"`
	ProjectID          string `mapstructure:"project_id"`
	Collection         string `mapstructure:"collection"`
}

// RedisConfig holds the Redis settings. TTLHours of 0 keeps histories forever.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TTLHours int    `mapstructure:"ttl_hours"`
}

// MySQLConfig holds the MySQL settings.
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// HistoryConfig bounds the stored and forwarded conversation.
type HistoryConfig struct {
	MaxTurns int `mapstructure:"max_turns"`
}

// CORSConfig lists the origins allowed to call the API from a browser.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// envBindings maps configuration keys to the environment variables that override them.
var envBindings = map[string][]string{
	"server.port":                            {"PORT"},
	"server.mode":                            {"GIN_MODE"},
	"log.level":                              {"LOG_LEVEL"},
	"log.format":                             {"LOG_FORMAT"},
	"llm.provider":                           {"LLM_PROVIDER"},
	"llm.api_key":                            {"GEMINI_API_KEY", "LLM_API_KEY"},
	"llm.base_url":                           {"LLM_BASE_URL"},
	"llm.model":                              {"LLM_MODEL"},
	"storage.driver":                         {"STORAGE_DRIVER"},
	"storage.firestore.service_account_json": {"FIREBASE_SERVICE_ACCOUNT_JSON"},
	"storage.firestore.project_id":           {"FIRESTORE_PROJECT_ID"},
	"storage.redis.addr":                     {"REDIS_ADDR"},
	"storage.redis.password":                 {"REDIS_PASSWORD"},
	"storage.mysql.dsn":                      {"MYSQL_DSN"},
	"history.max_turns":                      {"HISTORY_MAX_TURNS"},
	"cors.allowed_origins":                   {"CORS_ALLOWED_ORIGINS"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3001")
	v.SetDefault("server.mode", "release")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("llm.provider", ProviderGemini)
	v.SetDefault("llm.model", "gemini-1.5-flash-latest")
	v.SetDefault("llm.generation.temperature", 0.7)
	v.SetDefault("llm.generation.top_p", 0.95)
	v.SetDefault("llm.generation.top_k", 60)
	v.SetDefault("llm.generation.max_tokens", 500)
	v.SetDefault("storage.driver", DriverFirestore)
	v.SetDefault("storage.firestore.collection", "chats")
	v.SetDefault("storage.redis.addr", "localhost:6379")
	v.SetDefault("history.max_turns", 50)
	v.SetDefault("cors.allowed_origins", []string{"*"})
}

// Init loads the configuration into Conf. A missing config file is not an error;
// everything can come from the environment.
func Init(configPath string) error {
	cfg, err := Load(configPath)
	if err != nil {
		return err
	}
	Conf = *cfg
	return nil
}

// Load reads .env, the optional YAML file at configPath and the environment, then validates.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	for key, envs := range envBindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.CORS.AllowedOrigins = splitOrigins(cfg.CORS.AllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings the server cannot run without.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server port cannot be empty")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("server port %q is not a number", c.Server.Port)
	}

	switch c.LLM.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	if c.LLM.APIKey == "" {
		return errors.New("GEMINI_API_KEY is not set")
	}
	if c.LLM.Model == "" {
		return errors.New("llm model cannot be empty")
	}

	switch c.Storage.Driver {
	case DriverFirestore:
		if c.Storage.Firestore.ServiceAccountJSON == "" {
			return errors.New("FIREBASE_SERVICE_ACCOUNT_JSON is not set")
		}
		if c.Storage.Firestore.Collection == "" {
			return errors.New("firestore collection cannot be empty")
		}
	case DriverRedis:
		if c.Storage.Redis.Addr == "" {
			return errors.New("redis addr cannot be empty")
		}
	case DriverMySQL:
		if c.Storage.MySQL.DSN == "" {
			return errors.New("MYSQL_DSN is not set")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.History.MaxTurns < 0 {
		return errors.New("history max_turns must not be negative")
	}
	return nil
}

// splitOrigins accepts both a YAML list and a comma separated env value.
func splitOrigins(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
