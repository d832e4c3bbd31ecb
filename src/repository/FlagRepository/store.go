package FlagRepository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"gitlab.com/devpro_studio/Paranoia/pkg/cache/redis"
	"gitlab.com/devpro_studio/Paranoia/pkg/database/postgres"
)

// Store is a single-key get/put backend holding serialized flags.
type Store interface {
	Get(c context.Context, key string) (value []byte, found bool, err error)
	Put(c context.Context, key string, value []byte) error
	Ping(c context.Context) error
}

// KVClient is the part of the redis cache pkg the flag store uses.
type KVClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// SQLClient is the part of the postgres pkg the flag store uses.
type SQLClient interface {
	Exec(ctx context.Context, query string, args ...interface{}) error
	QueryRow(ctx context.Context, query string, args ...interface{}) (postgres.SQLRow, error)
}

const (
	pingKey = "flargd:ping"
	pingTtl = 10 * time.Second
)

type redisStore struct {
	client KVClient
}

func NewRedisStore(client KVClient) Store {
	return &redisStore{client: client}
}

func (t *redisStore) Get(c context.Context, key string) ([]byte, bool, error) {
	v, err := t.client.Get(c, key)
	if errors.Is(err, redis.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if v == "" {
		return nil, false, nil
	}

	return []byte(v), true, nil
}

// Put stores the value without expiry.
func (t *redisStore) Put(c context.Context, key string, value []byte) error {
	return t.client.Set(c, key, string(value), 0)
}

// Ping writes a short-lived marker key.
func (t *redisStore) Ping(c context.Context) error {
	return t.client.Set(c, pingKey, "1", pingTtl)
}

type postgresStore struct {
	db SQLClient
}

func NewPostgresStore(db SQLClient) Store {
	return &postgresStore{db: db}
}

func (t *postgresStore) Get(c context.Context, key string) ([]byte, bool, error) {
	row, err := t.db.QueryRow(c, `
SELECT
    f.value
FROM flags AS f
WHERE f.key = $1
`, key)
	if err != nil {
		return nil, false, err
	}

	var value []byte
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return value, true, nil
}

func (t *postgresStore) Put(c context.Context, key string, value []byte) error {
	return t.db.Exec(c, `
INSERT INTO flags (key, value, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (key) DO UPDATE
SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
`, key, string(value))
}

func (t *postgresStore) Ping(c context.Context) error {
	row, err := t.db.QueryRow(c, `SELECT 1`)
	if err != nil {
		return err
	}

	var one int
	return row.Scan(&one)
}
