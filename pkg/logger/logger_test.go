package logger_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadirbelkuyu/tabledef/pkg/logger"
)

func TestDiagnosticFileIsPlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tabledef.log")

	log := logger.NewLogger(false, logger.WithFile(path))
	log.WithField("table", "orders").Warn("catalog read failed")
	log.Debug("not at info level")
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.NotContains(t, text, "\x1b[")
	assert.Contains(t, text, "level=warning")
	assert.Contains(t, text, `msg="catalog read failed"`)
	assert.Contains(t, text, "table=orders")
	assert.NotContains(t, text, "not at info level")
}

func TestConsoleAndFileBothReceiveEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tabledef.log")
	console := &bytes.Buffer{}

	log := logger.NewLogger(true, logger.WithOutput(console), logger.WithFile(path))
	log.Debug("reading catalog")
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "reading catalog")
	assert.Contains(t, console.String(), "reading catalog")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
}

func TestLoggingAfterCloseSkipsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tabledef.log")

	log := logger.NewLogger(false, logger.WithOutput(&bytes.Buffer{}), logger.WithFile(path))
	require.NoError(t, log.Close())
	log.Info("after close")
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestWithLevel(t *testing.T) {
	assert.Equal(t, logrus.ErrorLevel, logger.NewLogger(false, logger.WithLevel("error")).GetLevel())
	assert.Equal(t, logrus.InfoLevel, logger.NewLogger(false, logger.WithLevel("loud")).GetLevel())
}
