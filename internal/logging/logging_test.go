package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Name: "chash", Level: "debug", Format: "json", Output: &buf})

	logger.Debug("inserted", "keys", 10)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "inserted", line["@message"])
	assert.Equal(t, "chash", line["@module"])
	assert.Equal(t, "debug", line["@level"])
	assert.EqualValues(t, 10, line["keys"])
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "info", Format: "text", Output: &buf})

	logger.Debug("hidden")
	logger.Info("shown", "bucket", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[INFO]  shown: bucket=3")
}

func TestLevels(t *testing.T) {
	tests := []struct {
		level string
		want  hclog.Level
	}{
		{"trace", hclog.Trace},
		{"DEBUG", hclog.Debug},
		{"warn", hclog.Warn},
		{"error", hclog.Error},
		{"", hclog.Info},
		{"verbose", hclog.Info},
	}
	for _, tt := range tests {
		logger := New(Config{Level: tt.level, Output: &bytes.Buffer{}})
		assert.Equal(t, tt.want, logger.GetLevel(), "level %q", tt.level)
	}
}
