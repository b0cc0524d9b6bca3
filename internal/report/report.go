// Package report prints what a bootstrap run did and what the operator still
// has to configure by hand. It never calls the remote platform.
package report

import (
	"fmt"
	"io"
	"strings"

	"xrpbootstrap/internal/notify"
	"xrpbootstrap/internal/provision"
	"xrpbootstrap/internal/topology"
)

// Render writes the outcome summary followed by the manual setup steps.
func Render(w io.Writer, topo topology.Topology, rep provision.Report) {
	Outcomes(w, rep)
	Requirements(w, topo)
}

// Outcomes writes one line per step and a batched list of failures.
func Outcomes(w io.Writer, rep provision.Report) {
	notify.Titlef(w, "📦", "Provisioning summary for %s", rep.Project)
	for _, s := range rep.Steps {
		line := describe(s)
		switch s.Outcome {
		case provision.Created:
			notify.Successf(w, "%s: created", line)
		case provision.AlreadyExists:
			notify.Infof(w, "%s: already exists", line)
		default:
			notify.Errorf(w, "%s: failed: %v", line, s.Err)
		}
	}

	created := rep.Count(provision.Created)
	existing := rep.Count(provision.AlreadyExists)
	failed := rep.Count(provision.Failed)
	summary := fmt.Sprintf("%d steps: %d created, %d already existed, %d failed", len(rep.Steps), created, existing, failed)
	if failed == 0 {
		notify.Successf(w, "%s", summary)
		return
	}
	notify.Warningf(w, "%s", summary)

	names := make([]string, 0, failed)
	for _, s := range rep.Steps {
		if s.Outcome == provision.Failed {
			names = append(names, s.Resource)
		}
	}
	notify.Warningf(w, "not created: %s; re-run to retry", strings.Join(names, ", "))
}

// Requirements writes the environment variables and start commands the
// operator sets in the dashboard. Output depends only on topo.
func Requirements(w io.Writer, topo topology.Topology) {
	notify.Titlef(w, "🔑", "Set these variables in the Railway dashboard")
	width := 0
	for _, v := range topo.Env.Required {
		width = max(width, len(v.Name))
	}
	for _, v := range topo.Env.Required {
		if v.Description == "" {
			notify.Plainf(w, "%s", v.Name)
			continue
		}
		notify.Plainf(w, "%-*s  %s", width, v.Name, v.Description)
	}

	if len(topo.Env.Injected) > 0 {
		injected := make([]string, 0, len(topo.Env.Injected))
		for _, v := range topo.Env.Injected {
			injected = append(injected, fmt.Sprintf("%s (%s)", v.Name, v.Plugin))
		}
		notify.Infof(w, "injected by Railway once plugins are attached: %s", strings.Join(injected, ", "))
	}

	notify.Titlef(w, "▶️", "Set the start command of each service")
	width = 0
	for _, s := range topo.Services {
		width = max(width, len(s.Name))
	}
	for _, s := range topo.Services {
		notify.Plainf(w, "%-*s  %s", width, s.Name, s.StartCommand)
	}
}

func describe(s provision.Step) string {
	if s.Target != "" {
		return fmt.Sprintf("%s %s on %s", s.Kind, s.Resource, s.Target)
	}
	return fmt.Sprintf("%s %s", s.Kind, s.Resource)
}
