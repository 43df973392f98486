package common

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type captureLogger struct {
	levels   []string
	messages []string
}

func (c *captureLogger) Log(level, message string, _ map[string]interface{}) {
	c.levels = append(c.levels, level)
	c.messages = append(c.messages, message)
}

func TestLoggerFromContext_FallsBackToNoOp(t *testing.T) {
	logger := LoggerFromContext(context.Background())

	assert.NotPanics(t, func() { logger.Log(LevelInfo, "ignored", nil) })
}

func TestLoggerFromContext_ReturnsAttachedLogger(t *testing.T) {
	capture := &captureLogger{}
	ctx := WithLogger(context.Background(), capture)

	LoggerFromContext(ctx).Log(LevelWarning, "dust storm", nil)

	assert.Equal(t, []string{"dust storm"}, capture.messages)
}

func TestMultiLogger_FansOut(t *testing.T) {
	a, b := &captureLogger{}, &captureLogger{}

	MultiLogger{a, nil, b}.Log(LevelInfo, "tick", nil)

	assert.Len(t, a.messages, 1)
	assert.Len(t, b.messages, 1)
}

func TestFormatMetadata_SortsKeys(t *testing.T) {
	assert.Equal(t, " a=1 b=two", formatMetadata(map[string]interface{}{"b": "two", "a": 1}))
	assert.Equal(t, "", formatMetadata(nil))
}

func TestNormalizeLevel(t *testing.T) {
	assert.Equal(t, LevelWarning, normalizeLevel("warn"))
	assert.Equal(t, LevelInfo, normalizeLevel("chatty"))
}
