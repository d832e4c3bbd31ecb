package FlagRepository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gitlab.com/devpro_studio/Flargd/names"
	"gitlab.com/devpro_studio/Flargd/src/model/apperr"
	"gitlab.com/devpro_studio/Flargd/src/model/db"
	"gitlab.com/devpro_studio/Paranoia/paranoia/interfaces"
	"gitlab.com/devpro_studio/Paranoia/paranoia/repository"
	"gitlab.com/devpro_studio/Paranoia/pkg/cache/memory"
	"gitlab.com/devpro_studio/Paranoia/pkg/cache/redis"
	"gitlab.com/devpro_studio/Paranoia/pkg/database/postgres"
	"gitlab.com/devpro_studio/go_utils/decode"
)

const (
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	Backend         string `yaml:"backend"`
	CacheTtlSeconds int    `yaml:"cache_ttl_seconds"`
	TimeoutMs       int    `yaml:"timeout_ms"`
}

func DefaultConfig() Config {
	return Config{
		Backend:         BackendRedis,
		CacheTtlSeconds: 300,
		TimeoutMs:       2000,
	}
}

func (c Config) validate() error {
	if c.Backend != BackendRedis && c.Backend != BackendPostgres {
		return fmt.Errorf("flag repository: unknown backend %q", c.Backend)
	}
	if c.CacheTtlSeconds < 0 {
		return fmt.Errorf("flag repository: cache_ttl_seconds must be >= 0, got %d", c.CacheTtlSeconds)
	}
	if c.TimeoutMs <= 0 {
		return fmt.Errorf("flag repository: timeout_ms must be > 0, got %d", c.TimeoutMs)
	}

	return nil
}

func (c Config) cacheTtl() time.Duration {
	return time.Duration(c.CacheTtlSeconds) * time.Second
}

type Repository struct {
	repository.Mock
	logger interfaces.ILogger
	store  Store
	cache  *flagCache
	config Config
}

func New(name string) *Repository {
	return &Repository{
		Mock: repository.Mock{
			NamePkg: name,
		},
	}
}

func NewForTest(store Store, cache Cache, logger interfaces.ILogger, config Config) *Repository {
	return &Repository{
		logger: logger,
		store:  store,
		cache:  &flagCache{cache: cache, ttl: config.cacheTtl()},
		config: config,
	}
}

func (t *Repository) Init(app interfaces.IEngine, cfg map[string]interface{}) error {
	t.logger = app.GetLogger()
	t.config = DefaultConfig()

	err := decode.Decode(cfg, &t.config, "yaml", decode.DecoderStrongFoundDst)
	if err != nil {
		return err
	}

	if err := t.config.validate(); err != nil {
		return err
	}

	switch t.config.Backend {
	case BackendPostgres:
		pg, ok := app.GetPkg(interfaces.PkgDatabase, names.DatabasePrimary).(postgres.IPostgres)
		if !ok {
			return fmt.Errorf("flag repository: backend %q needs database %q", t.config.Backend, names.DatabasePrimary)
		}
		t.store = NewPostgresStore(pg)
	default:
		client, ok := app.GetPkg(interfaces.PkgCache, names.CacheRedis).(redis.IRedis)
		if !ok {
			return fmt.Errorf("flag repository: backend %q needs cache %q", t.config.Backend, names.CacheRedis)
		}
		t.store = NewRedisStore(client)
	}

	t.cache = &flagCache{ttl: t.config.cacheTtl()}
	if t.cache.ttl > 0 {
		mem, ok := app.GetPkg(interfaces.PkgCache, names.CacheMemory).(memory.IMemory)
		if !ok {
			return fmt.Errorf("flag repository: cache_ttl_seconds needs cache %q", names.CacheMemory)
		}
		t.cache.cache = mem
	}

	return nil
}

func (t *Repository) Get(c context.Context, key string) (*db.Flag, error) {
	flag, _, err := t.load(c, key)
	return flag, err
}

func (t *Repository) GetCached(c context.Context, key string) (*db.Flag, error) {
	if flag, ok := t.cache.get(c, key); ok {
		return flag, nil
	}

	flag, value, err := t.load(c, key)
	if err != nil {
		return nil, err
	}

	if err := t.cache.set(c, key, value); err != nil {
		t.logger.Warn(c, "flag cache set", key, err)
	}

	return flag, nil
}

func (t *Repository) load(c context.Context, key string) (*db.Flag, []byte, error) {
	ctx, cancel := t.withTimeout(c)
	defer cancel()

	value, found, err := t.store.Get(ctx, key)
	if err != nil {
		return nil, nil, t.unavailable(c, "get", key, err)
	}
	if !found {
		return nil, nil, fmt.Errorf("%w: %s", apperr.ErrNotFound, key)
	}

	var flag db.Flag
	if err := json.Unmarshal(value, &flag); err != nil {
		return nil, nil, t.unavailable(c, "decode", key, err)
	}

	return &flag, value, nil
}

func (t *Repository) Put(c context.Context, key string, flag *db.Flag) error {
	value, err := json.Marshal(flag)
	if err != nil {
		return t.unavailable(c, "encode", key, err)
	}

	ctx, cancel := t.withTimeout(c)
	defer cancel()

	if err := t.store.Put(ctx, key, value); err != nil {
		return t.unavailable(c, "put", key, err)
	}

	return nil
}

func (t *Repository) Ping(c context.Context) error {
	ctx, cancel := t.withTimeout(c)
	defer cancel()

	if err := t.store.Ping(ctx); err != nil {
		return t.unavailable(c, "ping", t.config.Backend, err)
	}

	return nil
}

func (t *Repository) withTimeout(c context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c, time.Duration(t.config.TimeoutMs)*time.Millisecond)
}

func (t *Repository) unavailable(c context.Context, op string, key string, err error) error {
	err = fmt.Errorf("%w: %s %s: %w", apperr.ErrStoreUnavailable, op, key, err)
	t.logger.Error(c, err)
	return err
}
