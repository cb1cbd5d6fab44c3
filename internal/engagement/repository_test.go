package engagement

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeCounters struct {
	vals map[string]int64
	sets int
}

func newFakeCounters() *fakeCounters {
	return &fakeCounters{vals: make(map[string]int64)}
}

func (f *fakeCounters) Incr(_ context.Context, key string) *redis.IntCmd {
	f.vals[key]++
	return redis.NewIntResult(f.vals[key], nil)
}

func (f *fakeCounters) Decr(_ context.Context, key string) *redis.IntCmd {
	f.vals[key]--
	return redis.NewIntResult(f.vals[key], nil)
}

func (f *fakeCounters) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	n, _ := value.(int64)
	f.vals[key] = n
	f.sets++
	return redis.NewStatusResult("OK", nil)
}

func TestAdjustCounterColdIncrBackfills(t *testing.T) {
	f := newFakeCounters()

	// a cold key would otherwise seed at 1 while the table holds 51
	adjustCounter(context.Background(), f, "eng:likes:post:1", 1, func() (int64, error) {
		return 51, nil
	})

	if got := f.vals["eng:likes:post:1"]; got != 51 {
		t.Fatalf("cold incr: want 51, got %d", got)
	}
	if f.sets != 1 {
		t.Fatalf("backfill sets: %d", f.sets)
	}
}

func TestAdjustCounterWarmIncrSkipsBackfill(t *testing.T) {
	f := newFakeCounters()
	f.vals["eng:likes:post:1"] = 50

	adjustCounter(context.Background(), f, "eng:likes:post:1", 1, func() (int64, error) {
		t.Fatal("warm key must not hit the table")
		return 0, nil
	})

	if got := f.vals["eng:likes:post:1"]; got != 51 {
		t.Fatalf("warm incr: want 51, got %d", got)
	}
}

func TestAdjustCounterColdDecrBackfills(t *testing.T) {
	f := newFakeCounters()

	// DECR on a missing key lands at -1; the table still holds 49
	adjustCounter(context.Background(), f, "eng:likes:post:1", -1, func() (int64, error) {
		return 49, nil
	})

	if got := f.vals["eng:likes:post:1"]; got != 49 {
		t.Fatalf("cold decr: want 49, got %d", got)
	}
}

func TestAdjustCounterWarmDecrSkipsBackfill(t *testing.T) {
	f := newFakeCounters()
	f.vals["eng:likes:post:1"] = 50

	adjustCounter(context.Background(), f, "eng:likes:post:1", -1, func() (int64, error) {
		t.Fatal("warm key must not hit the table")
		return 0, nil
	})

	if got := f.vals["eng:likes:post:1"]; got != 49 {
		t.Fatalf("warm decr: want 49, got %d", got)
	}
}

func TestAdjustCounterDecrToZeroIsClean(t *testing.T) {
	f := newFakeCounters()
	f.vals["eng:likes:post:1"] = 1

	adjustCounter(context.Background(), f, "eng:likes:post:1", -1, func() (int64, error) {
		t.Fatal("a legitimate zero needs no backfill")
		return 0, nil
	})

	if got := f.vals["eng:likes:post:1"]; got != 0 {
		t.Fatalf("decr to zero: want 0, got %d", got)
	}
}
