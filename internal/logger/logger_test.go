package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInit(t *testing.T) {
	require.NoError(t, Init("development", "debug"))
	assert.Equal(t, zapcore.DebugLevel, Level())

	require.NoError(t, Init("production", "warn"))
	assert.Equal(t, zapcore.WarnLevel, Level())
}

func TestSetLevel(t *testing.T) {
	require.NoError(t, SetLevel("error"))
	assert.Equal(t, zapcore.ErrorLevel, Level())

	require.NoError(t, SetLevel(""))
	assert.Equal(t, zapcore.ErrorLevel, Level())

	assert.Error(t, SetLevel("loud"))
	assert.Equal(t, zapcore.ErrorLevel, Level())
}
