package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupJSON(t *testing.T) {
	t.Cleanup(func() { require.NoError(t, Setup(os.Stderr, "info", "text")) })

	var buf bytes.Buffer
	require.NoError(t, Setup(&buf, "warn", "json"))

	log.Info("hidden")
	log.WithField("member_id", 7).Warn("shown")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "warning", entry["level"])
	assert.Equal(t, float64(7), entry["member_id"])
}

func TestSetupRejectsBadInput(t *testing.T) {
	assert.Error(t, Setup(os.Stderr, "loud", "text"))
	assert.Error(t, Setup(os.Stderr, "info", "yaml"))
}
