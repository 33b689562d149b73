package logger

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/axiomhq/axiom-go/axiom"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Options{Level: "info", Out: &buf}))
	t.Cleanup(Close)

	log.Info().Str("session_id", "abc").Msg("staged")
	log.Debug().Msg("hidden")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var ev map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &ev))
	assert.Equal(t, "info", ev["level"])
	assert.Equal(t, "abc", ev["session_id"])
	assert.Equal(t, "staged", ev["message"])
	assert.Contains(t, ev, "time")
}

func TestInitInvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Options{Level: "loud", Out: &buf}))

	Get().Debug().Msg("hidden")
	Get().Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestInitCreatesLogDir(t *testing.T) {
	var buf bytes.Buffer
	file := filepath.Join(t.TempDir(), "nested", "app.log")
	require.NoError(t, Init(Options{Level: "info", Out: &buf, File: file, MaxSizeMB: 1}))

	assert.DirExists(t, filepath.Dir(file))
}

type captureSink struct{ events []axiom.Event }

func (c *captureSink) Send(ev axiom.Event) { c.events = append(c.events, ev) }

func TestAxiomWriter(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		forward bool
		message string
	}{
		{name: "info forwarded", line: `{"level":"info","message":"composed"}`, forward: true, message: "composed"},
		{name: "debug dropped", line: `{"level":"debug","message":"noise"}`, forward: false},
		{name: "non json wrapped", line: "plain text", forward: true, message: "plain text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &captureSink{}
			w := &axiomWriter{sink: sink}

			n, err := w.Write([]byte(tt.line))
			require.NoError(t, err)
			assert.Equal(t, len(tt.line), n)

			if !tt.forward {
				assert.Empty(t, sink.events)
				return
			}
			require.Len(t, sink.events, 1)
			assert.Equal(t, tt.message, sink.events[0]["message"])
			assert.Equal(t, serviceName, sink.events[0]["service"])
		})
	}
}
