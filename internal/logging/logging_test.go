package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m), line)
		out = append(out, m)
	}
	return out
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	loc := time.FixedZone("MSK", 3*3600)
	l := NewWithWriter(&buf, loc, "sync")

	l.Info("sync_started", Fields{"remote": 3})
	l.Error("download_failed", errors.New("boom"), Fields{"file": "Ref22950.sp3"})
	l.With("analysis").Warn("no_data", nil)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 3)

	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, "sync", lines[0]["component"])
	assert.Equal(t, "sync_started", lines[0]["event"])
	assert.Equal(t, float64(3), lines[0]["remote"])
	assert.True(t, strings.HasSuffix(lines[0]["ts"].(string), "+03:00"))

	assert.Equal(t, "error", lines[1]["level"])
	assert.Equal(t, "boom", lines[1]["error_message"])

	assert.Equal(t, "analysis", lines[2]["component"])
	assert.Equal(t, "warn", lines[2]["level"])
}

func TestLogger_Write(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, nil, "database")

	l.Write(map[string]any{"event": "db_migration_failed", "status": "error"})
	l.Write(map[string]any{"event": "db_migration_step", "status": "success", "component": "migrator"})

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "error", lines[0]["level"])
	assert.Equal(t, "database", lines[0]["component"])
	assert.Equal(t, "info", lines[1]["level"])
	assert.Equal(t, "migrator", lines[1]["component"])
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() { Nop().Info("x", nil) })
}
