package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Mongo      MongoConfig      `mapstructure:"mongo"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Completion CompletionConfig `mapstructure:"completion"`
	Chat       ChatConfig       `mapstructure:"chat"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type MongoConfig struct {
	URI                    string        `mapstructure:"uri"`
	Database               string        `mapstructure:"database"`
	ConnectTimeout         time.Duration `mapstructure:"connect_timeout"`
	ServerSelectionTimeout time.Duration `mapstructure:"server_selection_timeout"`
	SocketTimeout          time.Duration `mapstructure:"socket_timeout"`
	MaxPoolSize            uint64        `mapstructure:"max_pool_size"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Enabled  bool   `mapstructure:"enabled"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type AuthConfig struct {
	JWTSecret       string        `mapstructure:"jwt_secret"`
	AccessTokenTTL  time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL time.Duration `mapstructure:"refresh_token_ttl"`
}

type CompletionConfig struct {
	DefaultProvider string           `mapstructure:"default_provider"`
	Timeout         time.Duration    `mapstructure:"timeout"`
	OpenRouter      OpenRouterConfig `mapstructure:"openrouter"`
	Gemini          GeminiConfig     `mapstructure:"gemini"`
}

type OpenRouterConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	SiteURL  string `mapstructure:"site_url"`
	SiteName string `mapstructure:"site_name"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type ChatConfig struct {
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
	CacheOpTimeout  time.Duration `mapstructure:"cache_op_timeout"`
	HistoryWindow   int           `mapstructure:"history_window"`
	ListLimit       int           `mapstructure:"list_limit"`
	RateLimitPerMin int           `mapstructure:"rate_limit_per_minute"`
	RateLimitBurst  int           `mapstructure:"rate_limit_burst"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8002)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "15s")

	// Mongo
	v.SetDefault("mongo.database", "healprint")
	v.SetDefault("mongo.connect_timeout", "10s")
	v.SetDefault("mongo.server_selection_timeout", "5s")
	v.SetDefault("mongo.socket_timeout", "20s")
	v.SetDefault("mongo.max_pool_size", 10)

	// Redis
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.enabled", true)

	// Auth
	v.SetDefault("auth.access_token_ttl", "15m")
	v.SetDefault("auth.refresh_token_ttl", "168h") // 7 days

	// Completion
	v.SetDefault("completion.default_provider", "openrouter")
	v.SetDefault("completion.timeout", "60s")
	v.SetDefault("completion.openrouter.model", "openai/gpt-4o-mini")
	v.SetDefault("completion.openrouter.site_url", "https://healprint.xyz")
	v.SetDefault("completion.openrouter.site_name", "HealPrint AI")
	v.SetDefault("completion.gemini.model", "gemini-1.5-flash")

	// Chat
	v.SetDefault("chat.cache_ttl", "24h")
	v.SetDefault("chat.cache_op_timeout", "500ms")
	v.SetDefault("chat.history_window", 10)
	v.SetDefault("chat.list_limit", 50)
	v.SetDefault("chat.rate_limit_per_minute", 60)
	v.SetDefault("chat.rate_limit_burst", 10)

	// Logging
	v.SetDefault("logging.level", "info")
}

func bindEnvVars(v *viper.Viper) {
	// Mongo
	v.BindEnv("mongo.uri", "MONGODB_URI")
	v.BindEnv("mongo.database", "MONGODB_DATABASE")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Auth
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")

	// Completion API keys
	v.BindEnv("completion.openrouter.api_key", "OPENROUTER_API_KEY")
	v.BindEnv("completion.gemini.api_key", "GEMINI_API_KEY")
}
