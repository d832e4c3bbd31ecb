package FlagRepository

import (
	"context"

	"gitlab.com/devpro_studio/Flargd/src/model/db"
)

type Interface interface {
	// Get reads the authoritative record. A missing record yields apperr.ErrNotFound.
	Get(c context.Context, key string) (*db.Flag, error)
	// GetCached may answer from a local copy up to cache_ttl_seconds old.
	// Writes do not invalidate that copy.
	GetCached(c context.Context, key string) (*db.Flag, error)
	Put(c context.Context, key string, flag *db.Flag) error
	Ping(c context.Context) error
}
