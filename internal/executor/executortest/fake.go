// Package executortest provides an in-memory executor for tests.
package executortest

import (
	"context"
	"fmt"
	"sync"

	"xrpbootstrap/internal/executor"
	"xrpbootstrap/internal/topology"
)

// Call records one resource call made against the fake.
type Call struct {
	Op       string
	Resource string
}

// Fake is an executor.Executor backed by a set of known resources.
// Creating a resource that is already known returns executor.ErrAlreadyExists,
// so repeated runs against the same Fake behave like a real platform.
type Fake struct {
	// Missing makes Available fail.
	Missing bool
	// Fail maps keys built by ProjectKey, ServiceKey or PluginKey to the
	// error returned when that resource is touched.
	Fail map[string]error

	mu       sync.Mutex
	existing map[string]bool
	calls    []Call
}

func New() *Fake {
	return &Fake{Fail: map[string]error{}, existing: map[string]bool{}}
}

// Seed marks resources, given as keys, as already present on the platform.
func (f *Fake) Seed(keys ...string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		f.existing[k] = true
	}
	return f
}

func (f *Fake) Available(context.Context) error {
	if f.Missing {
		return fmt.Errorf("fake executor not installed")
	}
	return nil
}

func (f *Fake) Init(_ context.Context, project string) error {
	return f.create("init", project)
}

func (f *Fake) CreateService(_ context.Context, name string) error {
	return f.create("service", name)
}

func (f *Fake) AddPlugin(_ context.Context, service string, kind topology.PluginKind) error {
	return f.create("plugin", PluginResource(service, kind))
}

// Calls returns the resource calls made so far, in order.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// PluginResource names a plugin attachment in recorded calls.
func PluginResource(service string, kind topology.PluginKind) string {
	return service + "/" + string(kind)
}

// ProjectKey, ServiceKey and PluginKey build Fail and Seed keys. Each
// operation has its own namespace; a project and a service may share a name.
func ProjectKey(name string) string { return key("init", name) }

func ServiceKey(name string) string { return key("service", name) }

func PluginKey(service string, kind topology.PluginKind) string {
	return key("plugin", PluginResource(service, kind))
}

func key(op, resource string) string { return op + "/" + resource }

func (f *Fake) create(op, resource string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: op, Resource: resource})
	k := key(op, resource)
	if err, ok := f.Fail[k]; ok {
		return err
	}
	if f.existing[k] {
		return fmt.Errorf("%s %q: %w", op, resource, executor.ErrAlreadyExists)
	}
	f.existing[k] = true
	return nil
}
