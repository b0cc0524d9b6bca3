package cli

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xrpbootstrap/internal/store"
)

func TestWriteRunsJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	runs := []store.Run{{
		RunID:      "run-1",
		Project:    "xrp-terminal",
		Status:     store.StatusOK,
		StartedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		ResultJSON: json.RawMessage(`{"project":"xrp-terminal"}`),
	}}
	require.NoError(t, writeRunsJSON(&buf, runs))
	assert.Contains(t, buf.String(), `"xrp-terminal"`)
}

func TestWriteRunsJSONReportsEncodeError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	runs := []store.Run{{RunID: "run-1", ResultJSON: json.RawMessage(`{not json`)}}
	err := writeRunsJSON(&buf, runs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encode runs")
	assert.Empty(t, buf.String())
}
