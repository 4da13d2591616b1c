package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config aggregates every tunable of the debate service.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Providers ProvidersConfig
	Evidence  EvidenceConfig
	Trends    TrendsConfig
	Debate    DebateConfig
}

type ServerConfig struct {
	Host         string
	Port         string
	Mode         string // "debug" or "release"
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	PoolSize int
}

// DSN builds the PostgreSQL connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s&pool_max_conns=%d",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode, c.PoolSize)
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr returns host:port for the Redis client.
func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// ProvidersConfig carries the generation backend credentials and models.
type ProvidersConfig struct {
	OpenAIAPIKey    string
	OpenAIModel     string
	GeminiAPIKey    string
	GeminiModel     string
	AnthropicAPIKey string
	ClaudeModel     string
	TurnTimeout     time.Duration
}

type EvidenceConfig struct {
	NewsAPIKey   string
	GoogleAPIKey string
	GoogleCX     string
	Timeout      time.Duration
	CacheTTL     time.Duration
}

type TrendsConfig struct {
	StoreTTL time.Duration
}

// DebateConfig carries the stage-policy knobs. UniformTurnLimit switches the
// per-stage limits from the canonical 2/4/2 to n/n/n when set above zero.
type DebateConfig struct {
	UniformTurnLimit int
}

// Load reads the configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnv("PORT", "7080"),
			Mode:         getEnv("GIN_MODE", "release"),
			ReadTimeout:  getDurationEnv("READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationEnv("WRITE_TIMEOUT", 120*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "helixdebate"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "helixdebate_db"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			PoolSize: getIntEnv("DB_POOL_SIZE", 10),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Providers: ProvidersConfig{
			OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:     getEnv("OPENAI_MODEL", ""),
			GeminiAPIKey:    getEnv("GOOGLE_GENERATIVE_AI_API_KEY", ""),
			GeminiModel:     getEnv("GEMINI_MODEL", ""),
			AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
			ClaudeModel:     getEnv("CLAUDE_MODEL", ""),
			TurnTimeout:     getDurationEnv("TURN_TIMEOUT", 60*time.Second),
		},
		Evidence: EvidenceConfig{
			NewsAPIKey:   getEnv("NEWS_API_KEY", ""),
			GoogleAPIKey: getEnv("GOOGLE_SEARCH_API_KEY", ""),
			GoogleCX:     getEnv("GOOGLE_SEARCH_CX", ""),
			Timeout:      getDurationEnv("EVIDENCE_TIMEOUT", 10*time.Second),
			CacheTTL:     getDurationEnv("EVIDENCE_CACHE_TTL", 5*time.Minute),
		},
		Trends: TrendsConfig{
			StoreTTL: getDurationEnv("TRENDS_STORE_TTL", time.Hour),
		},
		Debate: DebateConfig{
			UniformTurnLimit: getIntEnv("DEBATE_UNIFORM_TURN_LIMIT", 0),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
