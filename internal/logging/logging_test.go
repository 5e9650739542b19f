package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUsesJSONOutsideDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := New(false, &buf)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())

	logger.WithField("filter", "blur").Info("hello")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "blur", entry["filter"])
}

func TestNewDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(true, &buf)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.Contains(t, buf.String(), "Debug logging enabled")
	assert.NotContains(t, buf.String(), "\x1b[", "no colours outside a terminal")
}

func TestSinkLevels(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(New(false, &buf))

	sink.Record("BlurFilter completed")
	sink.Record("ERROR: Image processing failed - empty image")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first, second map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))

	assert.Equal(t, "info", first["level"])
	assert.Equal(t, "pipeline", first["component"])
	assert.Equal(t, "error", second["level"])
	assert.Equal(t, "Image processing failed - empty image", second["msg"])
}

type collect struct{ got []string }

func (c *collect) Record(msg string) { c.got = append(c.got, msg) }

func TestTee(t *testing.T) {
	a, b := &collect{}, &collect{}
	Tee{a, b}.Record("x")
	assert.Equal(t, []string{"x"}, a.got)
	assert.Equal(t, []string{"x"}, b.got)
}

func TestOpenFileMarkers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processing_log.txt")

	logger, err := OpenFile(path, false)
	require.NoError(t, err)
	NewSink(logger).Record("HeartFilter completed")
	require.NoError(t, logger.Close())
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.HasPrefix(text, "=== Logger started ===\n"))
	assert.True(t, strings.HasSuffix(text, "=== Logger ended ===\n"))
	assert.Contains(t, text, "HeartFilter completed")
}

func TestOpenFileBadPath(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "missing", "log.txt"), false)
	assert.Error(t, err)
}
