package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Run("default config", func(t *testing.T) {
		l := New(nil)
		assert.NotNil(t, l)
	})

	t.Run("json output", func(t *testing.T) {
		buf := &bytes.Buffer{}
		l := New(&Config{Level: "info", Format: "json", Output: buf})

		l.Info("order created", zap.String("order_number", "ORD-20240101-ABCDE"))
		require.NoError(t, l.Sync())

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "order created", entry["msg"])
		assert.Equal(t, "ORD-20240101-ABCDE", entry["order_number"])
		assert.Equal(t, "info", entry["level"])
	})

	t.Run("console output", func(t *testing.T) {
		buf := &bytes.Buffer{}
		l := New(&Config{Level: "info", Format: "console", Output: buf})

		l.Info("cart updated")
		output := buf.String()
		assert.Contains(t, output, "cart updated")
		assert.False(t, strings.HasPrefix(output, "{"))
	})

	t.Run("level filters lower entries", func(t *testing.T) {
		buf := &bytes.Buffer{}
		l := New(&Config{Level: "warn", Format: "json", Output: buf})

		l.Info("hidden")
		l.Warn("shown")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"bogus", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestFromContext(t *testing.T) {
	base := zap.NewNop()

	t.Run("returns stored logger", func(t *testing.T) {
		scoped := zap.NewExample()
		ctx := ContextWithLogger(context.Background(), scoped)
		assert.Same(t, scoped, FromContext(ctx, base))
	})

	t.Run("falls back", func(t *testing.T) {
		assert.Same(t, base, FromContext(context.Background(), base))
	})

	t.Run("nop when no fallback", func(t *testing.T) {
		assert.NotNil(t, FromContext(context.Background(), nil))
	})
}
