package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"govendas/internal/pkg/logger"
)

func TestLogger_FiltersBelowConfiguredLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New("warn", &buf)

	log.Debug("debug descartado", nil)
	log.Info("info descartado", nil)
	log.Warn("aviso", map[string]interface{}{"sale_id": "abc"})
	log.Error("falha", errors.New("db fora"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var warn logger.LogEntry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &warn))
	assert.Equal(t, "WARN", warn.Level)
	assert.Equal(t, "abc", warn.Fields["sale_id"])

	var errEntry logger.LogEntry
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &errEntry))
	assert.Equal(t, "ERROR", errEntry.Level)
	assert.Equal(t, "db fora", errEntry.Error)
}

func TestLogger_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New("verbose", &buf)

	log.Debug("descartado", nil)
	log.Info("mantido", nil)

	assert.NotContains(t, buf.String(), "descartado")
	assert.Contains(t, buf.String(), "mantido")
}
