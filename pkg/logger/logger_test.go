package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriterLoggerPrefixesLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf)

	l.Debug("calling chat", nil)
	l.Error("chat failed", map[string]any{"error": "rate limited"})

	require.Equal(t,
		"[DEBUG] calling chat\n[ERROR] chat failed obj={\"error\":\"rate limited\"}\n",
		buf.String())
}

func TestDebugRespectsEnabledFlag(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf)

	Debug(false, l, "hidden", nil)
	Debugf(true, l, "shown %d", 1)

	require.Equal(t, "[DEBUG] shown 1\n", buf.String())
}

func TestHelpersTolerateNilLogger(t *testing.T) {
	Info(nil, "x", nil)
	Warn(nil, "x", nil)
	Error(nil, "x", nil)
	Debug(true, nil, "x", nil)
}

func TestUnmarshalableObjectFallsBackToQuoted(t *testing.T) {
	var buf bytes.Buffer
	NewWriterLogger(&buf).Warn("odd", map[string]any{"ch": make(chan int)})

	require.Contains(t, buf.String(), "[WARN] odd obj=\"")
}
