package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/careerbot/pkg/adapters/redis"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CAREERBOT_STORE_DRIVER.
const EnvPrefix = "CAREERBOT"

// aliases maps keys to the variable names used by existing bot deployments.
var aliases = map[string][]string{
	"luis.app_id":               {"LuisAppId"},
	"luis.api_key":              {"LuisAPIKey"},
	"luis.host":                 {"LuisAPIHostName"},
	"kpmg.qna.knowledgebase_id": {"Kpmg__QnA__KnowledgebaseId"},
	"kpmg.qna.endpoint_key":     {"Kpmg__QnA__EndpointKey"},
	"kpmg.qna.endpoint_host":    {"Kpmg__QnA__EndpointHostName"},
	"openai.api_key":            {"OPENAI_API_KEY"},
}

var defaults = map[string]any{
	"locale":                    "en",
	"classifier.provider":       ProviderLUIS,
	"luis.app_id":               "",
	"luis.api_key":              "",
	"luis.host":                 "",
	"luis.slot":                 "production",
	"openai.api_key":            "",
	"openai.model":              "",
	"openai.base_url":           "",
	"knowledge.provider":        ProviderQnA,
	"kpmg.qna.knowledgebase_id": "",
	"kpmg.qna.endpoint_key":     "",
	"kpmg.qna.endpoint_host":    "",
	"elastic.addresses":         []string{},
	"elastic.index":             "careers-faq",
	"elastic.username":          "",
	"elastic.password":          "",
	"elastic.score_scale":       10.0,
	"store.driver":              DriverMemory,
	"store.dir":                 filepath.Join(".careerbot", "conversations"),
	"store.ttl":                 "0s",
	"store.encryption_key":      "",
	"store.fallback_keys":       []string{},
	"store.lock_ttl":            "30s",
	"redis.addr":                "localhost:6379",
	"redis.password":            "",
	"redis.db":                  0,
	"redis.prefix":              redis.DefaultPrefix,
	"postgres.dsn":              "",
	"http.port":                 3978,
	"http.cors_origins":         []string{},
	"mcp.transport":             "stdio",
	"mcp.port":                  8081,
	"log.level":                 "info",
	"log.format":                "text",
}

// New returns a viper instance with defaults, environment bindings and the
// config file search path. configFile overrides the search when set.
func New(configFile string) *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key, names := range aliases {
		envKey := EnvPrefix + "_" + strings.ToUpper(strings.NewReplacer(".", "_").Replace(key))
		v.BindEnv(append([]string{key, envKey}, names...)...)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("careerbot")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".careerbot"))
		}
	}
	return v
}

// Load reads .env files, the config file (optional unless set explicitly) and
// decodes the result.
func Load(v *viper.Viper, envFiles ...string) (*Config, error) {
	if err := LoadEnvFiles(envFiles...); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	decodeHook := mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
	if err := v.Unmarshal(&cfg, viper.DecodeHook(decodeHook)); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	normalize(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// LoadEnvFiles loads the given dotenv files, or ./.env when none are given.
// Missing files are skipped; variables already set win.
func LoadEnvFiles(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

func normalize(cfg *Config) {
	cfg.Classifier.Provider = strings.ToLower(strings.TrimSpace(cfg.Classifier.Provider))
	cfg.Knowledge.Provider = strings.ToLower(strings.TrimSpace(cfg.Knowledge.Provider))
	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
	cfg.Elastic.Addresses = compact(cfg.Elastic.Addresses)
	cfg.HTTP.CORSOrigins = compact(cfg.HTTP.CORSOrigins)
	cfg.Store.FallbackKeys = compact(cfg.Store.FallbackKeys)
}

func compact(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Validate rejects unknown providers and drivers missing their required settings.
// Missing classifier or knowledge-base credentials are not errors: the bot
// runs in menu-only mode or without answers.
func Validate(cfg *Config) error {
	switch cfg.Classifier.Provider {
	case ProviderNone, ProviderLUIS, ProviderOpenAI:
	default:
		return fmt.Errorf("classifier.provider %q is not one of none, luis, openai", cfg.Classifier.Provider)
	}

	switch cfg.Knowledge.Provider {
	case ProviderNone, ProviderQnA:
	case ProviderElastic:
		if len(cfg.Elastic.Addresses) == 0 {
			return errors.New("elastic.addresses is required for the elastic knowledge provider")
		}
	default:
		return fmt.Errorf("knowledge.provider %q is not one of none, qna, elastic", cfg.Knowledge.Provider)
	}

	switch cfg.Store.Driver {
	case DriverMemory, DriverFile, DriverRedis:
	case DriverPostgres:
		if cfg.Postgres.DSN == "" {
			return errors.New("postgres.dsn is required for the postgres store")
		}
	default:
		return fmt.Errorf("store.driver %q is not one of memory, file, redis, postgres", cfg.Store.Driver)
	}

	if cfg.Store.TTL < 0 {
		return errors.New("store.ttl must not be negative")
	}
	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		return fmt.Errorf("http.port %d is out of range", cfg.HTTP.Port)
	}
	return nil
}
