package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"WARN", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestZapAdapter_FieldsAndErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core))

	Component(log, "predictor").
		WithError(errors.New("boom")).
		Info("prediction complete", map[string]interface{}{"category": 11})

	entries := logs.All()
	assert.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "predictor", fields["component"])
	assert.Equal(t, "boom", fields["error"])
	assert.EqualValues(t, 11, fields["category"])
}

func TestNew_FallsBackToNopOnBadOutput(t *testing.T) {
	l := NewWithOutput("info", "json", "/nonexistent-dir/definitely/missing.log")
	assert.NotNil(t, l)
	l.Info("does not panic")
}
