package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContextAttachesKeys(t *testing.T) {
	var buf bytes.Buffer
	prev := defaultLogger
	SetDefault(New(&buf, "info", "json"))
	t.Cleanup(func() { SetDefault(prev) })

	ctx := WithContext(context.Background(), RequestIDKey, "req-1")
	ctx = WithContext(ctx, BookIDKey, "book-9")
	Error(ctx, "chapter write failed", errors.New("boom"), "chapter", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "book-9", entry["book_id"])
	assert.Equal(t, "boom", entry["error"])
	assert.EqualValues(t, 3, entry["chapter"])
}

func TestDebugSuppressedAtInfo(t *testing.T) {
	var buf bytes.Buffer
	prev := defaultLogger
	SetDefault(New(&buf, "info", "text"))
	t.Cleanup(func() { SetDefault(prev) })

	Debug(context.Background(), "noisy")
	assert.Empty(t, buf.String())
}
