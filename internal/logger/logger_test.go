package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "warn", false)

	log.Info().Msg("dropped")
	log.Warn().Str("doctor_id", "d1").Msg("kept")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "d1", entry["doctor_id"])
	assert.Equal(t, "clinic-booking", entry["service"])
}

func TestNewWithWriter_BadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "loud", false)

	log.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())

	log.Info().Msg("shown")
	assert.NotZero(t, buf.Len())
}

func TestGormWriter(t *testing.T) {
	var buf bytes.Buffer
	w := GormWriter{Logger: NewWithWriter(&buf, "warn", false)}
	w.Printf("%s rows=%d", "SELECT 1", 1)
	assert.Contains(t, buf.String(), "SELECT 1 rows=1")
	assert.Contains(t, buf.String(), `"component":"gorm"`)
}
