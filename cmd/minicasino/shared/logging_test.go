package shared

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestSetupLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level string
		want  log.Level
	}{
		{"debug", log.DebugLevel},
		{"WARN", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"", log.InfoLevel},
		{"chatty", log.InfoLevel},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		logger := SetupLogger(&buf, tt.level)
		assert.Equal(t, tt.want, logger.GetLevel(), tt.level)
	}
}
