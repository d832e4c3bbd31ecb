package FlagService

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/devpro_studio/Flargd/src/domain/bucketing"
	"gitlab.com/devpro_studio/Flargd/src/model/apperr"
	"gitlab.com/devpro_studio/Flargd/src/model/db"
	"gitlab.com/devpro_studio/Flargd/src/model/dto"
	"gitlab.com/devpro_studio/Flargd/src/repository/FlagRepository"
	"gitlab.com/devpro_studio/Flargd/src/repository/StatsRepository"
	"gitlab.com/devpro_studio/Flargd/src/service/StatsService"
	"gitlab.com/devpro_studio/Paranoia/pkg/cache/memory"
	"gitlab.com/devpro_studio/Paranoia/pkg/cache/redis"
	"gitlab.com/devpro_studio/Paranoia/pkg/logger/mock_log"
)

type fakeStats struct {
	keys []string
}

func (f *fakeStats) SetStat(_ context.Context, flagKey string) { f.keys = append(f.keys, flagKey) }

func (f *fakeStats) IsUsed(_ context.Context, flagKey string) bool {
	for _, k := range f.keys {
		if k == flagKey {
			return true
		}
	}
	return false
}

type cacheEntry struct {
	value     any
	expiresAt time.Time
}

// clockCache follows the memory pkg contract with expiry driven by a mock clock.
type clockCache struct {
	mu      sync.Mutex
	clock   clock.Clock
	entries map[string]cacheEntry
}

func (m *clockCache) Get(_ context.Context, key string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok || !e.expiresAt.After(m.clock.Now()) {
		return nil, memory.ErrKeyNotFound
	}
	return e.value, nil
}

func (m *clockCache) Set(_ context.Context, key string, args any, timeout time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = cacheEntry{value: args, expiresAt: m.clock.Now().Add(timeout)}
	return nil
}

type fixture struct {
	svc   *Service
	store *redis.Mock
	stats *fakeStats
	clock *clock.Mock
}

// fail makes every redis call return err.
func (f *fixture) fail(err error) {
	f.store.GetFunc = func(context.Context, string) (string, error) { return "", err }
	f.store.SetFunc = func(context.Context, string, any, time.Duration) error { return err }
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := &redis.Mock{Data: map[string]string{}}
	clk := clock.NewMock()
	clk.Set(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))

	cfg := FlagRepository.DefaultConfig()
	cache := &clockCache{clock: clk, entries: map[string]cacheEntry{}}
	repo := FlagRepository.NewForTest(FlagRepository.NewRedisStore(store), cache, mock_log.New(true), cfg)
	stats := &fakeStats{}

	return &fixture{
		svc:   NewForTest(repo, stats, clk, "public"),
		store: store,
		stats: stats,
		clock: clk,
	}
}

func TestCreateThenRead(t *testing.T) {
	f := newFixture(t)
	c := context.Background()

	created, isNew, err := f.svc.CreateOrUpdate(c, "a", "f", nil)
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Equal(t, 100, created.Percentage)
	assert.Equal(t, "public", created.Owner)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, err := f.svc.Get(c, "a", "f")
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Contains(t, f.store.Data, "public:a:f")
}

func TestUpdateMerge(t *testing.T) {
	f := newFixture(t)
	c := context.Background()

	first, _, err := f.svc.CreateOrUpdate(c, "a", "f", intPtr(10))
	require.NoError(t, err)
	t0 := first.CreatedAt

	f.clock.Add(time.Minute)
	updated, isNew, err := f.svc.CreateOrUpdate(c, "a", "f", intPtr(50))
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, 50, updated.Percentage)
	assert.Equal(t, t0, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(t0))

	stored, err := f.svc.Get(c, "a", "f")
	require.NoError(t, err)
	assert.Equal(t, updated, stored)
}

func TestCreateOrUpdate_InvalidInput(t *testing.T) {
	f := newFixture(t)
	c := context.Background()

	tests := []struct {
		name       string
		app, flag  string
		percentage *int
	}{
		{name: "empty app", app: "", flag: "f"},
		{name: "empty name", app: "a", flag: ""},
		{name: "negative percentage", app: "a", flag: "f", percentage: intPtr(-1)},
		{name: "percentage over 100", app: "a", flag: "f", percentage: intPtr(101)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.svc.CreateOrUpdate(c, tt.app, tt.flag, tt.percentage)
			assert.ErrorIs(t, err, apperr.ErrInvalidInput)
		})
	}
	assert.Empty(t, f.store.Data)
}

func TestCreateOrUpdate_StoreUnavailable(t *testing.T) {
	f := newFixture(t)
	f.fail(errors.New("connection reset"))

	_, _, err := f.svc.CreateOrUpdate(context.Background(), "a", "f", nil)
	assert.ErrorIs(t, err, apperr.ErrStoreUnavailable)
}

func TestGet_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Get(context.Background(), "a", "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestEvaluate_NotFound(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.Evaluate(context.Background(), "a", "missing", "user-1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Nil(t, res)
	assert.Empty(t, f.stats.keys)
}

func TestEvaluate_InvalidInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Evaluate(context.Background(), "", "f", "user-1")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

// identifierInBucket finds a supplied identifier whose bucket satisfies match.
func identifierInBucket(t *testing.T, match func(int) bool) string {
	t.Helper()
	for i := 0; i < 10000; i++ {
		id := fmt.Sprintf("user-%d", i)
		if match(bucketing.Bucket(id)) {
			return id
		}
	}
	t.Fatal("no identifier found")
	return ""
}

func TestEvaluate_Scenario(t *testing.T) {
	f := newFixture(t)
	c := context.Background()

	_, _, err := f.svc.CreateOrUpdate(c, "checkout", "newUI", intPtr(30))
	require.NoError(t, err)

	inside := identifierInBucket(t, func(b int) bool { return b < 30 })
	outside := identifierInBucket(t, func(b int) bool { return b >= 30 })

	res, err := f.svc.Evaluate(c, "checkout", "newUI", inside)
	require.NoError(t, err)
	assert.True(t, res.Evaluation)
	assert.Equal(t, dto.Identifier{Value: inside, Source: dto.IdentifierSupplied}, res.Identifier)

	res, err = f.svc.Evaluate(c, "checkout", "newUI", outside)
	require.NoError(t, err)
	assert.False(t, res.Evaluation)

	for i := 0; i < 5; i++ {
		again, err := f.svc.Evaluate(c, "checkout", "newUI", inside)
		require.NoError(t, err)
		assert.True(t, again.Evaluation)

		again, err = f.svc.Evaluate(c, "checkout", "newUI", outside)
		require.NoError(t, err)
		assert.False(t, again.Evaluation)
	}

	used, err := f.svc.IsUsed(c, "checkout", "newUI")
	require.NoError(t, err)
	assert.True(t, used)
}

func TestEvaluate_GeneratedIdentifier(t *testing.T) {
	f := newFixture(t)
	c := context.Background()

	_, _, err := f.svc.CreateOrUpdate(c, "a", "f", intPtr(100))
	require.NoError(t, err)

	res, err := f.svc.Evaluate(c, "a", "f", "")
	require.NoError(t, err)
	assert.True(t, res.Evaluation)
	assert.Equal(t, dto.IdentifierGenerated, res.Identifier.Source)
	assert.NotEmpty(t, res.Identifier.Value)
}

func TestEvaluate_ServesStaleWithinCacheWindow(t *testing.T) {
	f := newFixture(t)
	c := context.Background()

	_, _, err := f.svc.CreateOrUpdate(c, "a", "f", intPtr(0))
	require.NoError(t, err)

	res, err := f.svc.Evaluate(c, "a", "f", "user-1")
	require.NoError(t, err)
	assert.False(t, res.Evaluation)

	_, _, err = f.svc.CreateOrUpdate(c, "a", "f", intPtr(100))
	require.NoError(t, err)

	// Evaluation reads through the cache and still sees percentage 0.
	res, err = f.svc.Evaluate(c, "a", "f", "user-1")
	require.NoError(t, err)
	assert.False(t, res.Evaluation)

	// Direct reads are authoritative.
	got, err := f.svc.Get(c, "a", "f")
	require.NoError(t, err)
	assert.Equal(t, 100, got.Percentage)

	f.clock.Add(300 * time.Second)
	res, err = f.svc.Evaluate(c, "a", "f", "user-1")
	require.NoError(t, err)
	assert.True(t, res.Evaluation)
}

func TestIsUsed_NotEvaluated(t *testing.T) {
	f := newFixture(t)

	used, err := f.svc.IsUsed(context.Background(), "a", "f")
	require.NoError(t, err)
	assert.False(t, used)
}

func TestPing(t *testing.T) {
	f := newFixture(t)
	assert.NoError(t, f.svc.Ping(context.Background()))

	f.fail(errors.New("down"))
	assert.ErrorIs(t, f.svc.Ping(context.Background()), apperr.ErrStoreUnavailable)
}

func TestCreatedAtSurvivesRoundTrip(t *testing.T) {
	f := newFixture(t)
	c := context.Background()
	f.clock.Add(1234567 * time.Microsecond)

	created, _, err := f.svc.CreateOrUpdate(c, "a", "f", nil)
	require.NoError(t, err)

	got, err := f.svc.Get(c, "a", "f")
	require.NoError(t, err)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, &db.Flag{
		Name: "f", App: "a", Owner: "public", Percentage: 100,
		CreatedAt: time.Date(2024, 5, 1, 10, 0, 1, 234000000, time.UTC),
		UpdatedAt: time.Date(2024, 5, 1, 10, 0, 1, 234000000, time.UTC),
	}, got)
}

func TestEvaluate_StatsBoundedByTimeout(t *testing.T) {
	f := newFixture(t)
	c := context.Background()
	_, _, err := f.svc.CreateOrUpdate(c, "a", "f", nil)
	require.NoError(t, err)

	stalled := &redis.Mock{
		SetFunc: func(ctx context.Context, _ string, _ any, _ time.Duration) error {
			<-ctx.Done()
			return ctx.Err()
		},
	}
	statsRepo := StatsRepository.NewForTest(stalled, StatsRepository.Config{TimeoutMs: 50})
	f.svc.statsService = StatsService.NewForTest(statsRepo, mock_log.New(true))

	c, cancel := context.WithTimeout(c, 5*time.Second)
	defer cancel()

	start := time.Now()
	res, err := f.svc.Evaluate(c, "a", "f", "user-1")
	require.NoError(t, err)
	assert.True(t, res.Evaluation)
	assert.Less(t, time.Since(start), time.Second)
}
