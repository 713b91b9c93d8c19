package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponent_AgregaCampos(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "info", App: "inv", Output: &buf})

	log := l.Component("transfer")
	log.Info().Str("transfer_id", "t-1").Msg("traslado enviado")

	var ev map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &ev))
	assert.Equal(t, "inv", ev["app"])
	assert.Equal(t, "transfer", ev["component"])
	assert.Equal(t, "t-1", ev["transfer_id"])
	assert.Equal(t, "traslado enviado", ev["message"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel(" DEBUG "))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("desconocido"))
	assert.Equal(t, zerolog.ErrorLevel, parseLevel("error"))
}

func TestNivel_FiltraEventos(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "warn", Output: &buf})
	l.Info().Msg("no aparece")
	assert.Zero(t, buf.Len())
	l.Warn().Msg("sí aparece")
	assert.NotZero(t, buf.Len())
}
