package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Dead-letter lists are named dlq:{queue}. Entries wrap the original job
// with the failure reason so operators can inspect and requeue.
type deadJob struct {
	Job      json.RawMessage `json:"job"`
	Error    string          `json:"error"`
	FailedAt time.Time       `json:"failed_at"`
}

func dlqKey(queue string) string { return "dlq:" + queue }

func deadLetter(ctx context.Context, rdb *redis.Client, queue string, raw []byte, cause error) {
	entry := deadJob{Job: raw, Error: cause.Error(), FailedAt: time.Now()}
	encoded, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dead-letter encode failed")
		return
	}
	if err := rdb.LPush(ctx, dlqKey(queue), encoded).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dead-letter push failed")
	}
}

// DLQLength reports the depth of a queue's dead-letter list, surfaced on the
// health endpoint.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, dlqKey(queue)).Result()
}

// RequeueDead moves up to n dead jobs back onto their source queue.
func RequeueDead(ctx context.Context, rdb *redis.Client, queue string, n int) (int, error) {
	moved := 0
	for i := 0; i < n; i++ {
		raw, err := rdb.RPop(ctx, dlqKey(queue)).Result()
		if err == redis.Nil {
			break
		}
		if err != nil {
			return moved, err
		}
		var entry deadJob
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Error().Err(err).Str("queue", queue).Msg("malformed dead job discarded")
			continue
		}
		if err := rdb.LPush(ctx, queue, []byte(entry.Job)).Err(); err != nil {
			return moved, err
		}
		moved++
	}
	return moved, nil
}
