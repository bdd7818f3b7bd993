package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_WithFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core)).With("user", "u1")

	l.Warn("grade not resolved", "grade", "大学")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "grade not resolved", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "u1", fields["user"])
	assert.Equal(t, "大学", fields["grade"])
}

func TestNew(t *testing.T) {
	for _, mode := range []string{"dev", "prod"} {
		l, err := New(mode)
		require.NoError(t, err, mode)
		l.Debug("hello")
	}
	Nop().Info("discarded")
}
