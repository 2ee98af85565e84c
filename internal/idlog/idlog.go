// Package idlog provides the structured "key event" log lines emitted at
// the start and end of each translator operation: map, fetch, translate.
// Every event carries a task_id shared by its ENTER/EXIT pair, so a
// downstream log processor can join them into a single span. Grounded on
// _tasks/_base_task.py (generate_task_id), _tasks/_map.py and
// _tasks/_translate.py in the original implementation.
package idlog

import (
	"log/slog"
	"sync/atomic"
	"time"
)

// Stage identifies which half of a key event is being logged.
type Stage string

const (
	StageEnter Stage = "ENTER"
	StageExit  Stage = "EXIT"
)

var verbose atomic.Bool

// SetVerbose sets the process-wide verbose flag that Verbose reports. No
// other package of this module reads it; a Mapper's extra diagnostics are
// controlled by its own VerboseLogging field instead.
func SetVerbose(v bool) { verbose.Store(v) }

// Verbose reports whether verbose debug logging is currently enabled.
func Verbose() bool { return verbose.Load() }

// NewTaskID generates an id for one operation, used to correlate its
// ENTER/EXIT key events in logs. Grounded on
// _tasks._base_task.generate_task_id.
func NewTaskID() int64 {
	return time.Now().UnixMilli()
}

// KeyEvent logs one ENTER/EXIT line for taskID under eventKey (e.g.
// "TRANSLATOR.TRANSLATE"), with attrs appended as structured fields.
// Grounded on the task.notify(...) calls in _tasks/_map.py and
// _tasks/_translate.py.
func KeyEvent(logger *slog.Logger, taskID int64, eventKey string, stage Stage, attrs ...any) {
	if logger == nil {
		logger = slog.Default()
	}
	args := append([]any{
		"task_id", taskID,
		"event_key", eventKey,
		"event_stage", string(stage),
		"event_title", eventKey + "." + string(stage),
	}, attrs...)
	logger.Info("key event", args...)
}
