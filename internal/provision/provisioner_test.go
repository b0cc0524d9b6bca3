package provision_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xrpbootstrap/internal/executor/executortest"
	"xrpbootstrap/internal/provision"
	"xrpbootstrap/internal/topology"
)

var errBoom = errors.New("boom")

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newProvisioner(fake *executortest.Fake) *provision.Provisioner {
	return provision.New(fake, topology.Default(), quietLogger())
}

func project(t *testing.T) provision.Project {
	t.Helper()

	p, err := provision.NewProject("xrp-terminal")
	require.NoError(t, err)
	return p
}

var wantResources = []string{
	"xrp-terminal",
	"web",
	"inflow-worker",
	"analytics-worker",
	"news-worker",
	"relational-store",
	"cache-store",
}

func TestRunAllCreated(t *testing.T) {
	t.Parallel()

	fake := executortest.New()
	rep, err := newProvisioner(fake).Run(context.Background(), project(t))
	require.NoError(t, err)

	assert.Equal(t, wantResources, rep.Resources())
	assert.Equal(t, provision.KindProject, rep.Steps[0].Kind)
	assert.Equal(t, 7, rep.Count(provision.Created))
	assert.Zero(t, rep.Count(provision.Failed))
	require.NoError(t, rep.Err())

	for _, s := range rep.Steps[1:5] {
		assert.Equal(t, provision.KindService, s.Kind)
	}
	for _, s := range rep.Steps[5:] {
		assert.Equal(t, provision.KindPlugin, s.Kind)
		assert.Equal(t, "web", s.Target)
	}
}

func TestRunAllAlreadyExists(t *testing.T) {
	t.Parallel()

	fake := executortest.New().Seed(
		executortest.ServiceKey("web"),
		executortest.ServiceKey("inflow-worker"),
		executortest.ServiceKey("analytics-worker"),
		executortest.ServiceKey("news-worker"),
		executortest.PluginKey("web", topology.RelationalStore),
		executortest.PluginKey("web", topology.CacheStore),
	)
	rep, err := newProvisioner(fake).Run(context.Background(), project(t))
	require.NoError(t, err)

	assert.Equal(t, provision.Created, rep.Steps[0].Outcome)
	assert.Equal(t, 6, rep.Count(provision.AlreadyExists))
	assert.Zero(t, rep.Count(provision.Failed))
}

func TestExecutorMissingMakesNoCalls(t *testing.T) {
	t.Parallel()

	fake := executortest.New()
	fake.Missing = true

	rep, err := newProvisioner(fake).Run(context.Background(), project(t))
	require.ErrorIs(t, err, provision.ErrExecutorMissing)
	assert.True(t, provision.IsFatal(err))
	assert.Empty(t, fake.Calls())
	assert.Empty(t, rep.Steps)
}

func TestProjectLinkFailureStopsRun(t *testing.T) {
	t.Parallel()

	fake := executortest.New()
	fake.Fail[executortest.ProjectKey("xrp-terminal")] = errBoom

	rep, err := newProvisioner(fake).Run(context.Background(), project(t))
	require.ErrorIs(t, err, provision.ErrProjectLinkFailed)
	require.ErrorIs(t, err, errBoom)
	assert.True(t, provision.IsFatal(err))

	assert.Equal(t, []executortest.Call{{Op: "init", Resource: "xrp-terminal"}}, fake.Calls())
	require.Len(t, rep.Steps, 1)
	assert.Equal(t, provision.Failed, rep.Steps[0].Outcome)
}

func TestExistingProjectIsNotFatal(t *testing.T) {
	t.Parallel()

	fake := executortest.New().Seed(executortest.ProjectKey("xrp-terminal"))

	rep, err := newProvisioner(fake).Run(context.Background(), project(t))
	require.NoError(t, err)
	assert.Equal(t, provision.AlreadyExists, rep.Steps[0].Outcome)
	assert.Len(t, rep.Steps, 7)
}

func TestProjectNamedLikeServiceDoesNotShadowIt(t *testing.T) {
	t.Parallel()

	p, err := provision.NewProject("web")
	require.NoError(t, err)

	rep, err := newProvisioner(executortest.New()).Run(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 7, rep.Count(provision.Created))
	assert.Equal(t, provision.KindService, rep.Steps[1].Kind)
	assert.Equal(t, "web", rep.Steps[1].Resource)
	assert.Equal(t, provision.Created, rep.Steps[1].Outcome)
}

func TestFailedServiceDoesNotBlockOthers(t *testing.T) {
	t.Parallel()

	fake := executortest.New()
	fake.Fail[executortest.ServiceKey("inflow-worker")] = errBoom

	rep, err := newProvisioner(fake).Run(context.Background(), project(t))
	require.NoError(t, err)

	calls := fake.Calls()
	require.Len(t, calls, 7)

	var after []string
	for _, c := range calls[1:] {
		if c.Resource != "inflow-worker" {
			after = append(after, c.Resource)
		}
	}
	assert.Equal(t, []string{
		"web",
		"analytics-worker",
		"news-worker",
		executortest.PluginResource("web", topology.RelationalStore),
		executortest.PluginResource("web", topology.CacheStore),
	}, after)

	assert.Equal(t, 1, rep.Count(provision.Failed))
	assert.Equal(t, provision.Failed, rep.Steps[2].Outcome)

	failures := rep.Failures()
	require.Len(t, failures, 1)
	var rerr *provision.ResourceError
	require.ErrorAs(t, failures[0], &rerr)
	assert.Equal(t, "inflow-worker", rerr.Resource)
	assert.ErrorIs(t, rep.Err(), errBoom)
	assert.False(t, provision.IsFatal(rep.Err()))
}

func TestSecondRunIsIdempotent(t *testing.T) {
	t.Parallel()

	fake := executortest.New()
	p := newProvisioner(fake)

	first, err := p.Run(context.Background(), project(t))
	require.NoError(t, err)

	second, err := p.Run(context.Background(), project(t))
	require.NoError(t, err)

	assert.Equal(t, first.Resources(), second.Resources())
	assert.Zero(t, second.Count(provision.Failed))
	assert.Equal(t, 7, second.Count(provision.AlreadyExists))
}

func TestRerunAfterPartialFailureConverges(t *testing.T) {
	t.Parallel()

	fake := executortest.New()
	fake.Fail[executortest.ServiceKey("news-worker")] = errBoom
	p := newProvisioner(fake)

	first, err := p.Run(context.Background(), project(t))
	require.NoError(t, err)
	assert.Equal(t, 1, first.Count(provision.Failed))

	delete(fake.Fail, executortest.ServiceKey("news-worker"))

	second, err := p.Run(context.Background(), project(t))
	require.NoError(t, err)
	assert.Zero(t, second.Count(provision.Failed))
	assert.Equal(t, provision.Created, second.Steps[4].Outcome)
	assert.Equal(t, 6, second.Count(provision.AlreadyExists))
}

func TestNewProjectRejectsBlankName(t *testing.T) {
	t.Parallel()

	_, err := provision.NewProject("   ")
	require.ErrorIs(t, err, provision.ErrEmptyProjectName)

	p, err := provision.NewProject("  xrp-terminal\n")
	require.NoError(t, err)
	assert.Equal(t, "xrp-terminal", p.Name)
}

func TestReportJSON(t *testing.T) {
	t.Parallel()

	rep := provision.Report{Project: "xrp-terminal"}.
		With(provision.Step{Resource: "web", Kind: provision.KindService, Outcome: provision.Created}).
		With(provision.Step{Resource: "cache-store", Kind: provision.KindPlugin, Target: "web", Outcome: provision.Failed, Err: errBoom})

	b, err := json.Marshal(rep)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"project": "xrp-terminal",
		"steps": [
			{"resource": "web", "kind": "service", "outcome": "created"},
			{"resource": "cache-store", "kind": "plugin", "target": "web", "outcome": "failed", "error": "boom"}
		]
	}`, string(b))
}

func TestReportWithDoesNotAlias(t *testing.T) {
	t.Parallel()

	base := provision.Report{}.With(provision.Step{Resource: "a"})
	left := base.With(provision.Step{Resource: "b"})
	right := base.With(provision.Step{Resource: "c"})

	assert.Equal(t, []string{"a"}, base.Resources())
	assert.Equal(t, []string{"a", "b"}, left.Resources())
	assert.Equal(t, []string{"a", "c"}, right.Resources())
}
