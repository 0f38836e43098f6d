// Package config loads careerbot settings from careerbot.yaml, .env files and
// CAREERBOT_* environment variables.
package config

import (
	"time"

	"github.com/aretw0/careerbot/pkg/adapters/elastic"
	"github.com/aretw0/careerbot/pkg/adapters/luis"
	"github.com/aretw0/careerbot/pkg/adapters/openai"
	"github.com/aretw0/careerbot/pkg/adapters/qna"
)

// Providers and drivers accepted by the factory.
const (
	ProviderNone    = "none"
	ProviderLUIS    = "luis"
	ProviderOpenAI  = "openai"
	ProviderQnA     = "qna"
	ProviderElastic = "elastic"

	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

type Config struct {
	Locale     string           `mapstructure:"locale"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	LUIS       luis.Config      `mapstructure:"luis"`
	OpenAI     openai.Config    `mapstructure:"openai"`
	Knowledge  KnowledgeConfig  `mapstructure:"knowledge"`
	KPMG       KPMGConfig       `mapstructure:"kpmg"`
	Elastic    elastic.Config   `mapstructure:"elastic"`
	Store      StoreConfig      `mapstructure:"store"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Postgres   PostgresConfig   `mapstructure:"postgres"`
	HTTP       HTTPConfig       `mapstructure:"http"`
	MCP        MCPConfig        `mapstructure:"mcp"`
	Log        LogConfig        `mapstructure:"log"`
}

type ClassifierConfig struct {
	Provider string `mapstructure:"provider"`
}

type KnowledgeConfig struct {
	Provider string `mapstructure:"provider"`
}

type KPMGConfig struct {
	QnA qna.Config `mapstructure:"qna"`
}

type StoreConfig struct {
	Driver string        `mapstructure:"driver"`
	Dir    string        `mapstructure:"dir"`
	TTL    time.Duration `mapstructure:"ttl"`
	// EncryptionKey enables at-rest encryption when set (hex or base64, 32 bytes).
	EncryptionKey string `mapstructure:"encryption_key"`
	// FallbackKeys decrypt states sealed with retired keys.
	FallbackKeys []string      `mapstructure:"fallback_keys"`
	LockTTL      time.Duration `mapstructure:"lock_ttl"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

type HTTPConfig struct {
	Port        int      `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type MCPConfig struct {
	Transport string `mapstructure:"transport"`
	Port      int    `mapstructure:"port"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
