package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWriterLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	InitWriter(&buf, "WARN", false)
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	log.Info().Msg("[TEST] hidden")
	assert.Zero(t, buf.Len())

	log.Warn().Int("n", 3).Msg("[TEST] shown")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "[TEST] shown", entry["message"])
	assert.Equal(t, 3.0, entry["n"])
}

func TestInitWriterUnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, "chatty", false)
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, "info", false)

	_, err := fmt.Fprintln(Writer(), `127.0.0.1 - - "GET /api/health"`)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `GET /api/health`)
	assert.NotContains(t, buf.String(), `\n`)
}
