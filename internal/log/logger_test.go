package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn", "json")

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, "", "TEXT").Info("hello", "k", "v")

	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "k=v")
}

func TestWithCorrelationID_UsesContextValue(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "info", "json")

	ctx := context.WithValue(context.Background(), CorrelatedIDKey, "abc-123")
	logger.WithCorrelationID(ctx).Info("correlated")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "abc-123", line["correlation_id"])
}

func TestGetLoggerInstanceFromContext_PrefersInjectedLogger(t *testing.T) {
	injected := NewNopLogger()
	ctx := ContextWithLogger(context.Background(), injected)

	assert.Same(t, injected, GetLoggerInstanceFromContext(ctx, NewNopLogger()))
}

func TestGetLoggerInstanceFromContext_FallsBack(t *testing.T) {
	fallback := NewNopLogger()

	got := GetLoggerInstanceFromContext(context.Background(), fallback)
	assert.NotNil(t, got)
	assert.NotSame(t, fallback, got)
}
