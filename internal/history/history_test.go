package history

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/moamenhredeen/relcheck/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromSummary(t *testing.T) {
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	r := FromSummary(models.RunSummary{
		BaseURL:        "http://localhost:8080",
		StartedAt:      started,
		Score:          9.5,
		MaxScore:       10,
		Grade:          9.5,
		Band:           "EXCELLENT",
		InitialCount:   3,
		FinalCount:     4,
		InitialCounted: true,
		FinalCounted:   true,
	})

	assert.Equal(t, started, r.At)
	assert.Equal(t, 9.5, r.Grade)
	assert.Equal(t, Change{Value: 1, Known: true}, r.Delta())
}

func TestMemoryStoreNewestFirstAndCapped(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(2)

	for i := 1; i <= 3; i++ {
		require.NoError(t, s.Record(ctx, Record{InitialCount: i, FinalCount: i + 1}))
	}

	recent, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, 3, recent[0].InitialCount)
	assert.Equal(t, 2, recent[1].InitialCount)

	one, err := s.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, one, 1)

	none, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func counted(baseURL string, initial, final int) Record {
	return Record{BaseURL: baseURL, InitialCount: initial, FinalCount: final, InitialCounted: true, FinalCounted: true}
}

func TestDeltas(t *testing.T) {
	records := []Record{
		counted("http://svc", 5, 6),
		counted("http://svc", 4, 4),
		{BaseURL: "http://svc", InitialCount: 4, InitialCounted: true},
	}
	assert.Equal(t, []Change{{Value: 1, Known: true}, {Value: 0, Known: true}, {}}, Deltas(records))
}

func TestBaselineDrift(t *testing.T) {
	// newest first: the previous run ended at 4 and cleaned up, the next one
	// started at 4
	records := []Record{
		counted("http://svc", 4, 5),
		counted("http://svc", 3, 4),
		counted("http://svc", 3, 4),
	}
	assert.Equal(t, []Change{{Value: 0, Known: true}, {Value: -1, Known: true}, {}}, BaselineDrift(records))
	assert.Equal(t, []Change{{}}, BaselineDrift(records[:1]))
}

func TestBaselineDriftSkipsRunsWithoutFinalCount(t *testing.T) {
	// the older run failed setup and never read its final count
	records := []Record{
		counted("http://svc", 1, 2),
		{BaseURL: "http://svc", InitialCount: 1, InitialCounted: true},
	}
	drift := BaselineDrift(records)
	assert.False(t, drift[0].Known)
	assert.Equal(t, "-", drift[0].String())

	// an even older complete run is used instead
	records = append(records, counted("http://svc", 0, 1))
	drift = BaselineDrift(records)
	assert.Equal(t, Change{Value: 0, Known: true}, drift[0])
}

func TestBaselineDriftComparesSameServerOnly(t *testing.T) {
	records := []Record{
		counted("http://a", 3, 4),
		counted("http://b", 10, 11),
		counted("http://a", 2, 3),
	}
	drift := BaselineDrift(records)
	assert.Equal(t, Change{Value: 0, Known: true}, drift[0])
	assert.Equal(t, "+0", drift[0].String())
	assert.False(t, drift[1].Known)

	prev, ok := Previous(records[1:], "http://a")
	require.True(t, ok)
	assert.Equal(t, 2, prev.InitialCount)
	_, ok = Previous(records, "http://c")
	assert.False(t, ok)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		db, _ = strconv.Atoi(v)
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	defer func() { _ = rdb.Close() }()

	ctx := context.Background()
	prefix := "relcheck-test-" + strconv.FormatInt(time.Now().UnixNano(), 10)
	defer rdb.Del(ctx, prefix+":runs")

	s := NewRedisStore(rdb, WithPrefix(prefix), WithKeep(2))
	for i := 1; i <= 3; i++ {
		require.NoError(t, s.Record(ctx, Record{BaseURL: "http://svc", InitialCount: i, FinalCount: i + 1}))
	}

	recent, err := s.Recent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, 3, recent[0].InitialCount)
	assert.Equal(t, "http://svc", recent[0].BaseURL)
}

func TestNilRedisStoreIsNoop(t *testing.T) {
	var s *RedisStore
	assert.NoError(t, s.Record(context.Background(), Record{}))
	recent, err := s.Recent(context.Background(), 3)
	assert.NoError(t, err)
	assert.Nil(t, recent)
}
