package messaging

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"satire-press-api/pkg/logger"
)

func TestCalculateBackoffCapsAtMax(t *testing.T) {
	cfg := BackoffConfig{Initial: time.Second, Max: 10 * time.Second, Multiplier: 2}

	assert.Equal(t, time.Second, cfg.CalculateBackoff(0))
	assert.Equal(t, 4*time.Second, cfg.CalculateBackoff(2))
	assert.Equal(t, 8*time.Second, cfg.CalculateBackoff(3))
	assert.Equal(t, 10*time.Second, cfg.CalculateBackoff(4))
	assert.Equal(t, 10*time.Second, cfg.CalculateBackoff(20))
}

func TestGroupName(t *testing.T) {
	assert.Equal(t, ConsumerGroup("satire-autorun"), GroupName("satire", "autorun"))
	assert.Equal(t, ConsumerGroup("autorun"), GroupName("", "autorun"))
	assert.Equal(t, "dlq:stream:book:autorun", StreamBookAutorun.DLQStream())
}

func TestMessageContextRoundTrip(t *testing.T) {
	ctx := logger.WithContext(context.Background(), logger.RequestIDKey, "req-1")
	ctx = logger.WithContext(ctx, logger.TraceIDKey, "trace-1")
	ctx = logger.WithContext(ctx, logger.UserIDKey, "admin-1")

	msg, err := NewMessage("job-1", TypeBookAutorun, "book-1", &AutorunJob{JobID: "job-1", BookID: "book-1"})
	require.NoError(t, err)
	msg.carryContext(ctx)

	assert.Equal(t, "req-1", msg.GetMetadata("request_id"))
	assert.Equal(t, "trace-1", msg.GetMetadata("trace_id"))

	restored := msg.restoreContext(context.Background())
	assert.Equal(t, "book-1", restored.Value(logger.BookIDKey))
	assert.Equal(t, "req-1", restored.Value(logger.RequestIDKey))
	assert.Equal(t, "admin-1", restored.Value(logger.UserIDKey))
}

func TestDecodeMessage(t *testing.T) {
	msg, err := NewMessage("job-1", TypeBookAutorun, "book-1", &AutorunJob{JobID: "job-1", BookID: "book-1", RequestedBy: "ops"})
	require.NoError(t, err)
	data, err := json.Marshal(msg)
	require.NoError(t, err)

	got, err := decodeMessage(redis.XMessage{ID: "1-0", Values: map[string]any{"data": string(data)}})
	require.NoError(t, err)
	assert.Equal(t, TypeBookAutorun, got.Type)

	var job AutorunJob
	require.NoError(t, got.UnmarshalPayload(&job))
	assert.Equal(t, "ops", job.RequestedBy)

	_, err = decodeMessage(redis.XMessage{ID: "2-0", Values: map[string]any{"other": "x"}})
	assert.Error(t, err)

	_, err = decodeMessage(redis.XMessage{ID: "3-0", Values: map[string]any{"data": "{not json"}})
	assert.Error(t, err)
}
