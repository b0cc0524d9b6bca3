package provision

import (
	"errors"
	"fmt"
)

var (
	// ErrExecutorMissing means the remote executor is not usable. Fatal.
	ErrExecutorMissing = errors.New("remote executor not available")
	// ErrProjectLinkFailed means the project could not be linked or created. Fatal.
	ErrProjectLinkFailed = errors.New("project link failed")
	// ErrEmptyProjectName is returned for a blank project name. Fatal.
	ErrEmptyProjectName = errors.New("project name must not be empty")
)

// ResourceError reports a non-fatal failure to create one resource.
type ResourceError struct {
	Resource string
	Err      error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("create %s: %v", e.Resource, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// IsFatal reports whether err must stop the run.
func IsFatal(err error) bool {
	return errors.Is(err, ErrExecutorMissing) ||
		errors.Is(err, ErrProjectLinkFailed) ||
		errors.Is(err, ErrEmptyProjectName)
}
