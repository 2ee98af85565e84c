package idlog_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/id-translation/internal/idlog"
)

func TestKeyEventLogsExpectedAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	taskID := idlog.NewTaskID()
	idlog.KeyEvent(logger, taskID, "TRANSLATOR.TRANSLATE", idlog.StageEnter, "num_values", 3)

	out := buf.String()
	assert.Contains(t, out, "event_key=TRANSLATOR.TRANSLATE")
	assert.Contains(t, out, "event_stage=ENTER")
	assert.Contains(t, out, "num_values=3")
}

func TestVerboseToggle(t *testing.T) {
	idlog.SetVerbose(true)
	assert.True(t, idlog.Verbose())
	idlog.SetVerbose(false)
	assert.False(t, idlog.Verbose())
}
