package log

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestErrorCarriesErrField(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Replace(zap.New(core))

	Error("fetch failed", errors.New("boom"), "id", "sample")
	Info("fetched", "bytes", 42)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "fetch failed", entries[0].Message)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "boom", ctx["err"])
	assert.Equal(t, "sample", ctx["id"])
	assert.EqualValues(t, 42, entries[1].ContextMap()["bytes"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelError, ParseLevel("ERROR"))
	assert.Equal(t, LevelInfo, ParseLevel("verbose"))
}
