// Package railway implements executor.Executor by shelling out to the Railway CLI.
package railway

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"

	"xrpbootstrap/internal/executor"
	"xrpbootstrap/internal/topology"
)

const (
	DefaultBinary = "railway"
	InstallURL    = "https://docs.railway.com/guides/cli"
)

// ErrNotInstalled is returned by Available when the CLI binary cannot be found.
var ErrNotInstalled = errors.New("railway CLI not found in PATH")

// The CLI does not document its messages. A failure counts as "already
// exists" only when one output line says so about the resource being
// created; anything else stays a failure.
const alreadyExistsPhrase = "already exists"

var engines = map[topology.PluginKind]string{
	topology.RelationalStore: "postgres",
	topology.CacheStore:      "redis",
}

// Runner runs a command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

type Options struct {
	Binary   string
	Runner   Runner
	LookPath func(file string) (string, error)
	Logger   logrus.FieldLogger
}

type Executor struct {
	binary   string
	run      Runner
	lookPath func(string) (string, error)
	log      logrus.FieldLogger
}

var _ executor.Executor = (*Executor)(nil)

func New(opts Options) *Executor {
	e := &Executor{
		binary:   opts.Binary,
		run:      opts.Runner,
		lookPath: opts.LookPath,
		log:      opts.Logger,
	}
	if e.binary == "" {
		e.binary = DefaultBinary
	}
	if e.run == nil {
		e.run = execRunner
	}
	if e.lookPath == nil {
		e.lookPath = exec.LookPath
	}
	if e.log == nil {
		e.log = logrus.StandardLogger()
	}
	return e
}

func (e *Executor) Available(context.Context) error {
	path, err := e.lookPath(e.binary)
	if err != nil {
		return fmt.Errorf("%w (looked for %q): install it from %s", ErrNotInstalled, e.binary, InstallURL)
	}
	e.log.WithField("path", path).Debug("found railway CLI")
	return nil
}

// Init links the project when the account already has one with that name and
// creates it only when link reports it missing. Railway project names are not
// unique, so init alone would add a project on every run.
func (e *Executor) Init(ctx context.Context, project string) error {
	out, err := e.command(ctx, "link", "--project", project)
	if err == nil {
		return fmt.Errorf("project %q linked: %w", project, executor.ErrAlreadyExists)
	}
	if !projectNotFound(out) {
		return err
	}
	e.log.WithField("project", project).Debug("no such project, creating it")
	return e.invoke(ctx, []string{project}, "init", "--name", project)
}

func (e *Executor) CreateService(ctx context.Context, name string) error {
	return e.invoke(ctx, []string{name}, "add", "--service", name)
}

func (e *Executor) AddPlugin(ctx context.Context, service string, kind topology.PluginKind) error {
	engine, ok := engines[kind]
	if !ok {
		return fmt.Errorf("unsupported plugin kind %q", kind)
	}
	return e.invoke(ctx, []string{engine, string(kind)}, "add", "--database", engine, "--service", service)
}

// invoke runs a create command. names are the identifiers an "already exists"
// message must mention for the failure to count as an existing resource.
func (e *Executor) invoke(ctx context.Context, names []string, args ...string) error {
	out, err := e.command(ctx, args...)
	if err == nil {
		return nil
	}
	if alreadyExists(out, names) {
		e.log.WithField("command", e.binary+" "+strings.Join(args, " ")).Debug("classified as already exists")
		return fmt.Errorf("%w: %w", executor.ErrAlreadyExists, err)
	}
	return err
}

// command runs the CLI once. A non-nil error is always a *CommandError.
func (e *Executor) command(ctx context.Context, args ...string) ([]byte, error) {
	log := e.log.WithField("command", e.binary+" "+strings.Join(args, " "))
	log.Debug("running")

	out, err := e.run(ctx, e.binary, args...)
	if err != nil {
		cerr := &CommandError{Args: args, Output: strings.TrimSpace(string(out)), Err: err}
		log.WithError(err).WithField("output", cerr.Output).Debug("command failed")
		return out, cerr
	}
	return out, nil
}

func alreadyExists(out []byte, names []string) bool {
	for _, line := range strings.Split(strings.ToLower(string(out)), "\n") {
		if !strings.Contains(line, alreadyExistsPhrase) {
			continue
		}
		for _, n := range names {
			if n != "" && strings.Contains(line, strings.ToLower(n)) {
				return true
			}
		}
	}
	return false
}

func projectNotFound(out []byte) bool {
	for _, line := range strings.Split(strings.ToLower(string(out)), "\n") {
		if strings.Contains(line, "project") && strings.Contains(line, "not found") {
			return true
		}
	}
	return false
}

// CommandError carries the CLI output of a failed invocation.
type CommandError struct {
	Args   []string
	Output string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("railway %s: %v", strings.Join(e.Args, " "), e.Err)
	if e.Output != "" {
		msg += ": " + lastLine(e.Output)
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

// ExitCode returns the process exit status, or -1 when the command did not run.
func (e *CommandError) ExitCode() int {
	var xe *exec.ExitError
	if errors.As(e.Err, &xe) {
		return xe.ExitCode()
	}
	return -1
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec // args are built from the fixed topology and the prompted project name
	return cmd.CombinedOutput()
}
