package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewParsesLevel(t *testing.T) {
	l, err := New("DEBUG")
	require.NoError(t, err)
	require.True(t, l.Core().Enabled(zapcore.DebugLevel))
	require.Same(t, l, zap.L())
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("verbose")
	require.Error(t, err)
}
