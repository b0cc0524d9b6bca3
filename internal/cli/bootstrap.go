package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"xrpbootstrap/internal/config"
	"xrpbootstrap/internal/notify"
	"xrpbootstrap/internal/provision"
	"xrpbootstrap/internal/report"
	"xrpbootstrap/internal/store"
)

const projectPrompt = "Railway project name: "

func (a *app) bootstrap(ctx context.Context) error {
	cfg := a.config()
	log := a.logger(cfg)

	prov := provision.New(a.opts.NewExecutor(cfg, log), a.topo, log)

	if err := prov.Preflight(ctx); err != nil {
		report.Requirements(a.opts.Out, a.topo)
		return err
	}

	name, err := readProjectName(a.opts.In, a.opts.Out)
	if err != nil {
		return err
	}
	project, err := provision.NewProject(name)
	if err != nil {
		return err
	}

	rec := a.startRecord(ctx, cfg, project, log)

	notify.Activityf(a.opts.Out, "provisioning %s (%d services, %d plugins)", project.Name, len(a.topo.Services), len(a.topo.Plugins))
	rep, err := prov.Provision(ctx, project)
	rec.finish(ctx, rep, err)

	// The manual steps are printed even when the run aborts.
	report.Render(a.opts.Out, a.topo, rep)
	return err
}

// readProjectName prompts once. EOF after a partial line still yields that line.
func readProjectName(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, projectPrompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	fmt.Fprintln(out)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read project name: %w", err)
	}
	return line, nil
}

// runRecord writes run history when a DSN is configured. History is best
// effort: failures are logged and never change the outcome of the run.
type runRecord struct {
	rec   Recorder
	runID string
	log   logrus.FieldLogger
}

func (a *app) startRecord(ctx context.Context, cfg config.Config, project provision.Project, log logrus.FieldLogger) *runRecord {
	r := &runRecord{log: log}
	if cfg.DSN == "" {
		return r
	}

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	rec, err := a.opts.OpenRecorder(openCtx, cfg.DSN)
	if err != nil {
		notify.Warningf(a.opts.Err, "run history disabled: %v", err)
		return r
	}
	runID, err := rec.CreateRun(openCtx, store.Run{
		Project:  project.Name,
		Executor: cfg.Executor,
		Actor:    os.Getenv("USER"),
	})
	if err != nil {
		rec.Close()
		notify.Warningf(a.opts.Err, "run history disabled: %v", err)
		return r
	}
	log.WithField("run_id", runID).Debug("recording run")
	r.rec = rec
	r.runID = runID
	return r
}

func (r *runRecord) finish(ctx context.Context, rep provision.Report, runErr error) {
	if r.rec == nil {
		return
	}
	defer r.rec.Close()

	status := store.StatusOK
	if runErr != nil {
		status = store.StatusFailed
	}
	b, err := json.Marshal(rep)
	if err != nil {
		r.log.WithError(err).Warn("encode run result")
	}
	counts := store.Counts{
		Created:  rep.Count(provision.Created),
		Existing: rep.Count(provision.AlreadyExists),
		Failed:   rep.Count(provision.Failed),
	}

	finishCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := r.rec.FinishRun(finishCtx, r.runID, status, counts, b); err != nil {
		r.log.WithError(err).WithField("run_id", r.runID).Warn("finish run record")
	}
}
