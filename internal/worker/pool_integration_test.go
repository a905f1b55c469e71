package worker_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"batchtrace/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	rediscontainer "github.com/testcontainers/testcontainers-go/modules/redis"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test, skipped in short mode")
	}

	ctx := context.Background()
	rc, err := rediscontainer.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	t.Cleanup(func() { _ = rc.Terminate(ctx) })

	uri, err := rc.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(uri)
	require.NoError(t, err)
	return redis.NewClient(opts)
}

func TestPool_DispatchAndProcess(t *testing.T) {
	rdb := startRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type payload struct {
		Value string `json:"value"`
	}

	var mu sync.Mutex
	var seen []string
	done := make(chan struct{}, 3)

	pool := worker.NewPool(rdb, 2)
	pool.Register("queue:test", func(_ context.Context, raw json.RawMessage) error {
		var p payload
		if err := json.Unmarshal(raw, &p); err != nil {
			return err
		}
		mu.Lock()
		seen = append(seen, p.Value)
		mu.Unlock()
		done <- struct{}{}
		return nil
	})
	pool.Start(ctx)

	dispatcher := worker.NewRedisDispatcher(rdb)
	for _, v := range []string{"a", "b", "c"} {
		require.NoError(t, dispatcher.Dispatch(ctx, "queue:test", payload{Value: v}))
	}

	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(10 * time.Second):
			t.Fatal("job not processed in time")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"a", "b", "c"}, seen)
}

func TestPool_FailedJobGoesToDLQAndCanBeRequeued(t *testing.T) {
	rdb := startRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	failed := make(chan struct{}, 1)
	pool := worker.NewPool(rdb, 1)
	pool.Register("queue:flaky", func(_ context.Context, _ json.RawMessage) error {
		failed <- struct{}{}
		return errors.New("downstream down")
	})
	pool.Start(ctx)

	dispatcher := worker.NewRedisDispatcher(rdb)
	require.NoError(t, dispatcher.Dispatch(ctx, "queue:flaky", map[string]string{"k": "v"}))

	select {
	case <-failed:
	case <-time.After(10 * time.Second):
		t.Fatal("job not attempted in time")
	}

	require.Eventually(t, func() bool {
		n, err := worker.DLQLength(ctx, rdb, "queue:flaky")
		return err == nil && n == 1
	}, 5*time.Second, 100*time.Millisecond)

	cancel()
	pool.Wait()

	moved, err := worker.RequeueDead(context.Background(), rdb, "queue:flaky", 10)
	require.NoError(t, err)
	assert.Equal(t, 1, moved)

	n, err := rdb.LLen(context.Background(), "queue:flaky").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
