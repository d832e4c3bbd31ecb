package FlagRepository

import (
	"context"
	"encoding/json"
	"time"

	"gitlab.com/devpro_studio/Flargd/src/model/db"
)

// Cache is the part of the memory cache pkg used for cached reads.
type Cache interface {
	Get(ctx context.Context, key string) (any, error)
	Set(ctx context.Context, key string, args any, timeout time.Duration) error
}

// flagCache keeps serialized flags for ttl after they were read from the
// store. Writes never refresh or evict entries.
type flagCache struct {
	cache Cache
	ttl   time.Duration
}

func (t *flagCache) enabled() bool {
	return t.cache != nil && t.ttl > 0
}

func (t *flagCache) get(c context.Context, key string) (*db.Flag, bool) {
	if !t.enabled() {
		return nil, false
	}

	v, err := t.cache.Get(c, key)
	if err != nil {
		return nil, false
	}

	raw, ok := v.([]byte)
	if !ok {
		return nil, false
	}

	var flag db.Flag
	if err := json.Unmarshal(raw, &flag); err != nil {
		return nil, false
	}

	return &flag, true
}

func (t *flagCache) set(c context.Context, key string, value []byte) error {
	if !t.enabled() {
		return nil
	}

	return t.cache.Set(c, key, value, t.ttl)
}
