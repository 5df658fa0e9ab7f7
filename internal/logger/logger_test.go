package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want level
	}{
		{"DEBUG", levelDebug},
		{"debug", levelDebug},
		{"INFO", levelInfo},
		{"WARNING", levelWarn},
		{"WARN", levelWarn},
		{"ERROR", levelError},
		{"CRITICAL", levelFatal},
		{" info ", levelInfo},
		{"", levelWarn},
		{"bogus", levelWarn},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.in), "parseLevel(%q)", tt.in)
	}
}
