package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"lot-backend/pkg/apperror"
	"lot-backend/pkg/config"
)

func TestNewHonoursLevel(t *testing.T) {
	log, err := New(config.LogConfig{Level: "warn", Format: "console"})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.ErrorLevel))
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(config.LogConfig{Level: "silly"})
	assert.True(t, apperror.Is(err, apperror.Config))

	_, err = New(config.LogConfig{Level: "info", Format: "xml"})
	assert.True(t, apperror.Is(err, apperror.Config))
}
