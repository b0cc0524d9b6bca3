// Package executor defines the narrow seam between the bootstrap workflow and
// the platform that actually creates resources.
package executor

import (
	"context"
	"errors"

	"xrpbootstrap/internal/topology"
)

// ErrAlreadyExists is wrapped by executors when the platform reports that the
// requested resource is already there.
var ErrAlreadyExists = errors.New("already exists")

// Executor creates remote resources. A nil error means the resource was
// created, an error wrapping ErrAlreadyExists means it was already present,
// any other error is a failure.
type Executor interface {
	// Available reports whether the executor can be used at all.
	Available(ctx context.Context) error
	Init(ctx context.Context, project string) error
	CreateService(ctx context.Context, name string) error
	AddPlugin(ctx context.Context, service string, kind topology.PluginKind) error
}
