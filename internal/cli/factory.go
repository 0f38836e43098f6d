package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/careerbot"
	"github.com/aretw0/careerbot/internal/config"
	"github.com/aretw0/careerbot/pkg/adapters/elastic"
	"github.com/aretw0/careerbot/pkg/adapters/file"
	"github.com/aretw0/careerbot/pkg/adapters/luis"
	"github.com/aretw0/careerbot/pkg/adapters/memory"
	"github.com/aretw0/careerbot/pkg/adapters/openai"
	"github.com/aretw0/careerbot/pkg/adapters/postgres"
	"github.com/aretw0/careerbot/pkg/adapters/qna"
	"github.com/aretw0/careerbot/pkg/adapters/redis"
	"github.com/aretw0/careerbot/pkg/domain"
	"github.com/aretw0/careerbot/pkg/observability"
	"github.com/aretw0/careerbot/pkg/persistence/middleware"
	"github.com/aretw0/careerbot/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// Runtime is a fully wired bot together with the resources it owns.
type Runtime struct {
	Bot   *careerbot.Bot
	Store ports.StateStore

	ping    func(ctx context.Context) error
	closers []func() error
}

// Ready reports whether the conversation store is reachable.
func (r *Runtime) Ready(ctx context.Context) error {
	if r.ping == nil {
		return nil
	}
	return r.ping(ctx)
}

// Close releases store connections.
func (r *Runtime) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		errs = append(errs, r.closers[i]())
	}
	return errors.Join(errs...)
}

// Build creates the bot described by cfg. Metrics are registered with reg
// when it is not nil.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer) (*Runtime, error) {
	rt := &Runtime{}

	store, locker, err := rt.openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Store.EncryptionKey != "" {
		mw, err := encryption(cfg.Store)
		if err != nil {
			rt.Close()
			return nil, err
		}
		store = middleware.Chain(store, mw)
	}
	rt.Store = store

	knowledge, err := newKnowledgeBase(cfg, logger)
	if err != nil {
		rt.Close()
		return nil, err
	}
	classifier := newClassifier(cfg, logger)
	if classifier != nil && !classifier.Configured() {
		logger.Warn("classifier credentials missing; running in menu-only mode", "provider", cfg.Classifier.Provider)
	}

	hooks := observability.LoggingHooks(logger)
	if reg != nil {
		hooks = observability.Combine(hooks, observability.NewMetrics(reg).Hooks())
	}

	opts := []careerbot.Option{
		careerbot.WithLogger(logger),
		careerbot.WithStore(store),
		careerbot.WithLifecycleHooks(hooks),
		careerbot.WithLockTTL(cfg.Store.LockTTL),
	}
	if classifier != nil {
		opts = append(opts, careerbot.WithClassifier(classifier))
	}
	if knowledge != nil {
		opts = append(opts, careerbot.WithKnowledgeBase(knowledge))
	}
	if locker != nil {
		opts = append(opts, careerbot.WithLocker(locker))
	}

	bot, err := careerbot.New(opts...)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("error initializing bot: %w", err)
	}
	rt.Bot = bot
	return rt, nil
}

func (rt *Runtime) openStore(ctx context.Context, cfg *config.Config) (ports.StateStore, ports.DistributedLocker, error) {
	switch cfg.Store.Driver {
	case config.DriverFile:
		return file.New(cfg.Store.Dir), nil, nil
	case config.DriverRedis:
		opts := []redis.Option{redis.WithPrefix(cfg.Redis.Prefix)}
		if cfg.Store.TTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.Store.TTL))
		}
		s := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		rt.ping = s.Ping
		rt.closers = append(rt.closers, s.Close)
		return s, redis.NewLocker(s.Client(), cfg.Redis.Prefix), nil
	case config.DriverPostgres:
		s, err := postgres.Open(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, nil, err
		}
		rt.ping = s.Ping
		rt.closers = append(rt.closers, s.Close)
		return s, nil, nil
	default:
		return memory.NewStore(), nil, nil
	}
}

func encryption(cfg config.StoreConfig) (middleware.Middleware, error) {
	active, err := middleware.ParseKey(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("store.encryption_key: %w", err)
	}
	ec := middleware.EncryptionConfig{ActiveKey: active}
	for i, raw := range cfg.FallbackKeys {
		k, err := middleware.ParseKey(raw)
		if err != nil {
			return nil, fmt.Errorf("store.fallback_keys[%d]: %w", i, err)
		}
		ec.FallbackKeys = append(ec.FallbackKeys, k)
	}
	return middleware.NewEncryptionMiddleware(ec)
}

func newClassifier(cfg *config.Config, logger *slog.Logger) ports.Classifier {
	switch cfg.Classifier.Provider {
	case config.ProviderLUIS:
		return luis.New(cfg.LUIS, luis.WithLogger(logger))
	case config.ProviderOpenAI:
		return openai.New(cfg.OpenAI, openai.WithLogger(logger))
	default:
		return nil
	}
}

// newKnowledgeBase returns nil when no knowledge base is configured; the KPMG
// dialog then answers with the not-found prompt.
func newKnowledgeBase(cfg *config.Config, logger *slog.Logger) (ports.KnowledgeBase, error) {
	var (
		kb  ports.KnowledgeBase
		err error
	)
	switch cfg.Knowledge.Provider {
	case config.ProviderQnA:
		kb, err = qna.New(cfg.KPMG.QnA, qna.WithLogger(logger))
	case config.ProviderElastic:
		kb, err = elastic.New(cfg.Elastic, elastic.WithLogger(logger))
	default:
		return nil, nil
	}
	if errors.Is(err, domain.ErrKnowledgeBaseNotConfigured) {
		logger.Warn("knowledge base credentials missing; questions will not be answered", "provider", cfg.Knowledge.Provider)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("knowledge base: %w", err)
	}
	return kb, nil
}
