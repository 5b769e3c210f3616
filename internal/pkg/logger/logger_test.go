package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestGet_BeforeInitIsNop(t *testing.T) {
	globalLogger = nil
	assert.NotNil(t, Get())
}

func TestInit_Dev(t *testing.T) {
	require.NoError(t, Init("dev", "debug"))
	defer func() { globalLogger = nil }()

	assert.True(t, Get().Core().Enabled(zapcore.DebugLevel))
	assert.NotNil(t, Named("hub"))
}

func TestInit_ProdRespectsLevel(t *testing.T) {
	require.NoError(t, Init("prod", "warn"))
	defer func() { globalLogger = nil }()

	assert.False(t, Get().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, Get().Core().Enabled(zapcore.WarnLevel))
}
