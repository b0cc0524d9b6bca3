package provision

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Outcome classifies the result of one provisioning step.
type Outcome int

const (
	Created Outcome = iota
	AlreadyExists
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case AlreadyExists:
		return "already-exists"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// StepKind says what kind of resource a step touched.
type StepKind string

const (
	KindProject StepKind = "project"
	KindService StepKind = "service"
	KindPlugin  StepKind = "plugin"
)

// Step is one entry of a Report.
type Step struct {
	Resource string
	Kind     StepKind
	// Target is the service a plugin was attached to; empty otherwise.
	Target  string
	Outcome Outcome
	Err     error
}

// Report is the ordered list of step outcomes of one run.
type Report struct {
	Project string
	Steps   []Step
}

// With returns a copy of r with s appended.
func (r Report) With(s Step) Report {
	steps := make([]Step, len(r.Steps), len(r.Steps)+1)
	copy(steps, r.Steps)
	r.Steps = append(steps, s)
	return r
}

// Count returns how many steps ended with o.
func (r Report) Count(o Outcome) int {
	n := 0
	for _, s := range r.Steps {
		if s.Outcome == o {
			n++
		}
	}
	return n
}

// Resources returns the resource names in step order.
func (r Report) Resources() []string {
	out := make([]string, 0, len(r.Steps))
	for _, s := range r.Steps {
		out = append(out, s.Resource)
	}
	return out
}

// Failures returns one *ResourceError per failed step, in order.
func (r Report) Failures() []error {
	var out []error
	for _, s := range r.Steps {
		if s.Outcome == Failed {
			out = append(out, &ResourceError{Resource: s.Resource, Err: s.Err})
		}
	}
	return out
}

// Err joins all failures, or returns nil when there are none.
func (r Report) Err() error {
	return errors.Join(r.Failures()...)
}

type stepJSON struct {
	Resource string   `json:"resource"`
	Kind     StepKind `json:"kind"`
	Target   string   `json:"target,omitempty"`
	Outcome  Outcome  `json:"outcome"`
	Error    string   `json:"error,omitempty"`
}

func (r Report) MarshalJSON() ([]byte, error) {
	steps := make([]stepJSON, 0, len(r.Steps))
	for _, s := range r.Steps {
		sj := stepJSON{Resource: s.Resource, Kind: s.Kind, Target: s.Target, Outcome: s.Outcome}
		if s.Err != nil {
			sj.Error = s.Err.Error()
		}
		steps = append(steps, sj)
	}
	return json.Marshal(struct {
		Project string     `json:"project"`
		Steps   []stepJSON `json:"steps"`
	}{r.Project, steps})
}
