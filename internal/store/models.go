package store

import (
	"encoding/json"
	"time"
)

const (
	StatusRunning = "running"
	StatusOK      = "ok"
	StatusFailed  = "failed"
)

// Run is one bootstrap invocation recorded in bootstrap.runs.
type Run struct {
	RunID      string          `json:"run_id"`
	Project    string          `json:"project"`
	Executor   string          `json:"executor"`
	Status     string          `json:"status"`
	Actor      string          `json:"actor,omitempty"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
	Created    int             `json:"created"`
	Existing   int             `json:"existing"`
	Failed     int             `json:"failed"`
	ResultJSON json.RawMessage `json:"result,omitempty"`
}

// Counts summarises step outcomes of a finished run.
type Counts struct {
	Created  int
	Existing int
	Failed   int
}
