// Package provision runs the bootstrap workflow: a preflight gate, the project
// link and then every service and plugin step of the topology in order.
//
// Steps never depend on each other's success. An "already exists" answer is
// treated like a successful create, so re-running converges on the same
// remote state without reading it first.
package provision

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"xrpbootstrap/internal/executor"
	"xrpbootstrap/internal/topology"
)

// Project identifies the remote project for the duration of one run.
type Project struct {
	Name string
}

func NewProject(name string) (Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Project{}, ErrEmptyProjectName
	}
	return Project{Name: name}, nil
}

type Provisioner struct {
	exec executor.Executor
	topo topology.Topology
	log  logrus.FieldLogger
}

func New(exec executor.Executor, topo topology.Topology, log logrus.FieldLogger) *Provisioner {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Provisioner{exec: exec, topo: topo, log: log}
}

// Preflight is the single unconditional gate before any remote call.
func (p *Provisioner) Preflight(ctx context.Context) error {
	if err := p.exec.Available(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutorMissing, err)
	}
	return nil
}

// Provision links the project and then attempts every resource step.
// The returned error is non-nil only when the project link fails; resource
// failures are recorded in the Report.
func (p *Provisioner) Provision(ctx context.Context, project Project) (Report, error) {
	rep := Report{Project: project.Name}

	outcome, err := classify(p.exec.Init(ctx, project.Name))
	rep = rep.With(Step{Resource: project.Name, Kind: KindProject, Outcome: outcome, Err: err})
	p.logStep(rep)
	if outcome == Failed {
		return rep, fmt.Errorf("%w: %s: %w", ErrProjectLinkFailed, project.Name, err)
	}

	for _, svc := range p.topo.Services {
		rep = p.createService(ctx, rep, svc)
	}
	for _, pl := range p.topo.Plugins {
		rep = p.attachPlugin(ctx, rep, pl)
	}
	return rep, nil
}

// Run is Preflight followed by Provision.
func (p *Provisioner) Run(ctx context.Context, project Project) (Report, error) {
	if err := p.Preflight(ctx); err != nil {
		return Report{Project: project.Name}, err
	}
	return p.Provision(ctx, project)
}

func (p *Provisioner) createService(ctx context.Context, rep Report, svc topology.ServiceSpec) Report {
	outcome, err := classify(p.exec.CreateService(ctx, svc.Name))
	rep = rep.With(Step{Resource: svc.Name, Kind: KindService, Outcome: outcome, Err: err})
	p.logStep(rep)
	return rep
}

func (p *Provisioner) attachPlugin(ctx context.Context, rep Report, pl topology.PluginAttachment) Report {
	outcome, err := classify(p.exec.AddPlugin(ctx, pl.Service, pl.Kind))
	rep = rep.With(Step{Resource: string(pl.Kind), Kind: KindPlugin, Target: pl.Service, Outcome: outcome, Err: err})
	p.logStep(rep)
	return rep
}

func (p *Provisioner) logStep(rep Report) {
	s := rep.Steps[len(rep.Steps)-1]
	entry := p.log.WithFields(logrus.Fields{
		"kind":     s.Kind,
		"resource": s.Resource,
		"outcome":  s.Outcome.String(),
	})
	if s.Target != "" {
		entry = entry.WithField("target", s.Target)
	}
	if s.Outcome == Failed {
		entry.WithError(s.Err).Warn("step failed")
		return
	}
	entry.Info("step done")
}

// classify maps an executor result onto an Outcome. Only an explicit
// ErrAlreadyExists is treated as benign; the error is kept for Failed only.
func classify(err error) (Outcome, error) {
	switch {
	case err == nil:
		return Created, nil
	case errors.Is(err, executor.ErrAlreadyExists):
		return AlreadyExists, nil
	default:
		return Failed, err
	}
}
