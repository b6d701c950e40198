package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_WritesConsoleAndFile(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	logger, path, err := New(Options{Env: "test", Dir: dir, Console: &console})
	require.NoError(t, err)

	logger.Debug("loading tables", zap.Int("tables", 5))
	logger.Info("evaluation complete", zap.Int("teachers", 12))
	require.NoError(t, logger.Sync())

	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "test_"))

	// Console only shows Info and above
	assert.Contains(t, console.String(), "evaluation complete")
	assert.NotContains(t, console.String(), "loading tables")

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var messages []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		assert.Equal(t, "test", entry["env"])
		assert.Contains(t, entry, "timestamp")
		messages = append(messages, entry["msg"].(string))
	}
	assert.Equal(t, []string{"loading tables", "evaluation complete"}, messages)
}

func TestNew_Verbose(t *testing.T) {
	var console bytes.Buffer

	logger, _, err := New(Options{Env: "test", Dir: t.TempDir(), Verbose: true, Console: &console})
	require.NoError(t, err)

	logger.Debug("row skipped")
	require.NoError(t, logger.Sync())
	assert.Contains(t, console.String(), "row skipped")
}
