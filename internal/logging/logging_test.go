package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		logger, err := New(level)
		require.NoError(t, err, level)
		lvl, _ := zapcore.ParseLevel(level)
		assert.True(t, logger.Core().Enabled(lvl))
		assert.False(t, logger.Core().Enabled(lvl-1), level)
	}

	_, err := New("loud")
	assert.Error(t, err)
}
