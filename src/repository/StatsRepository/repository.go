package StatsRepository

import (
	"context"
	"fmt"
	"time"

	"gitlab.com/devpro_studio/Flargd/names"
	"gitlab.com/devpro_studio/Paranoia/paranoia/interfaces"
	"gitlab.com/devpro_studio/Paranoia/paranoia/repository"
	"gitlab.com/devpro_studio/Paranoia/pkg/cache/redis"
	"gitlab.com/devpro_studio/go_utils/decode"
)

// UsedWindow is how long an evaluation keeps a flag marked as used.
const UsedWindow = 30 * time.Minute

type Config struct {
	TimeoutMs int `yaml:"timeout_ms"`
}

func DefaultConfig() Config {
	return Config{TimeoutMs: 2000}
}

type statsCache interface {
	Set(ctx context.Context, key string, args any, timeout time.Duration) error
	Has(ctx context.Context, key string) bool
}

type Repository struct {
	repository.Mock
	cache  statsCache
	config Config
}

func New(name string) *Repository {
	return &Repository{
		Mock: repository.Mock{
			NamePkg: name,
		},
	}
}

func NewForTest(cache statsCache, config Config) *Repository {
	return &Repository{cache: cache, config: config}
}

func (t *Repository) Init(app interfaces.IEngine, cfg map[string]interface{}) error {
	t.config = DefaultConfig()

	err := decode.Decode(cfg, &t.config, "yaml", decode.DecoderStrongFoundDst)
	if err != nil {
		return err
	}

	if t.config.TimeoutMs <= 0 {
		return fmt.Errorf("stats repository: timeout_ms must be > 0, got %d", t.config.TimeoutMs)
	}

	cache, ok := app.GetPkg(interfaces.PkgCache, names.CacheRedis).(redis.IRedis)
	if !ok {
		return fmt.Errorf("stats repository: needs cache %q", names.CacheRedis)
	}
	t.cache = cache

	return nil
}

func (t *Repository) SetStat(c context.Context, flagKey string) error {
	ctx, cancel := t.withTimeout(c)
	defer cancel()

	return t.cache.Set(ctx, "stat_used:"+flagKey, 1, UsedWindow)
}

// IsUsed reports false when the cache does not answer in time.
func (t *Repository) IsUsed(c context.Context, flagKey string) bool {
	ctx, cancel := t.withTimeout(c)
	defer cancel()

	return t.cache.Has(ctx, "stat_used:"+flagKey)
}

func (t *Repository) withTimeout(c context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c, time.Duration(t.config.TimeoutMs)*time.Millisecond)
}
