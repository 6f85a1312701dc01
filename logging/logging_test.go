package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"loan-engine/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LoggingConfig
		verbose bool
		want    zapcore.Level
		wantErr bool
	}{
		{"defaults to info", config.LoggingConfig{}, false, zapcore.InfoLevel, false},
		{"warn from config", config.LoggingConfig{Level: "warn", Format: "json"}, false, zapcore.WarnLevel, false},
		{"verbose wins", config.LoggingConfig{Level: "error", Format: "console"}, true, zapcore.DebugLevel, false},
		{"unknown level", config.LoggingConfig{Level: "loud"}, false, zapcore.InfoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg, tt.verbose)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.want))
			if tt.want > zapcore.DebugLevel {
				assert.False(t, logger.Core().Enabled(tt.want-1))
			}
		})
	}
}
