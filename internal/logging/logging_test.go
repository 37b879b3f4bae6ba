package logging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/randomizedcoder/classic-benchmarks/internal/logging"
)

func TestNew_Levels(t *testing.T) {
	testCases := []struct {
		level string
		json  bool
		want  zapcore.Level
	}{
		{"", false, zapcore.InfoLevel},
		{"debug", false, zapcore.DebugLevel},
		{"warn", true, zapcore.WarnLevel},
	}

	for _, tc := range testCases {
		l, err := logging.New(tc.level, tc.json)
		require.NoError(t, err, "level=%q", tc.level)
		assert.True(t, l.Core().Enabled(tc.want), "level=%q", tc.level)
		assert.False(t, l.Core().Enabled(tc.want-1), "level=%q", tc.level)
	}
}

func TestNew_BadLevel(t *testing.T) {
	_, err := logging.New("chatty", false)
	assert.Error(t, err)
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, logging.OrNop(nil))
}
