package services

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/prometheus/procfs"
	"golang.org/x/mod/semver"
)

// Names lists the known Snips services.
var Names = []string{
	"snips-analytics",
	"snips-asr",
	"snips-asr-google",
	"snips-audio-server",
	"snips-dialogue",
	"snips-hotword",
	"snips-injection",
	"snips-nlu",
	"snips-skill-server",
	"snips-tts",
}

const (
	versionFlag = "--version"
	nluService  = "snips-nlu"
)

var modelVersionPattern = regexp.MustCompile(`\[model_version: (.*)\]`)

// CommandRunner runs a command and returns its standard output.
// It returns an error matching exec.ErrNotFound if the command does not exist.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ProcessLister returns the command names of all running processes.
type ProcessLister func() ([]string, error)

// Inspector reports on Snips services.
type Inspector struct {
	run       CommandRunner
	processes ProcessLister
}

// Option configures an Inspector.
type Option func(*Inspector)

// WithCommandRunner replaces the function used to run "<service> --version".
func WithCommandRunner(r CommandRunner) Option {
	return func(i *Inspector) { i.run = r }
}

// WithProcessLister replaces the function used to list running processes.
func WithProcessLister(l ProcessLister) Option {
	return func(i *Inspector) { i.processes = l }
}

// WithProcFS lists processes from a procfs mounted at mountPoint.
func WithProcFS(mountPoint string) Option {
	return func(i *Inspector) { i.processes = procfsLister(mountPoint) }
}

// NewInspector returns an Inspector that runs commands with os/exec and
// reads processes from /proc.
func NewInspector(opts ...Option) *Inspector {
	i := &Inspector{
		run:       execRunner,
		processes: procfsLister(procfs.DefaultMountPoint),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

func procfsLister(mountPoint string) ProcessLister {
	return func() ([]string, error) {
		fs, err := procfs.NewFS(mountPoint)
		if err != nil {
			return nil, fmt.Errorf("opening procfs: %w", err)
		}
		procs, err := fs.AllProcs()
		if err != nil {
			return nil, fmt.Errorf("listing processes: %w", err)
		}

		names := make([]string, 0, len(procs))
		for _, p := range procs {
			// Processes can exit while we iterate.
			comm, err := p.Comm()
			if err != nil {
				continue
			}
			names = append(names, comm)
		}
		return names, nil
	}
}

// versionOutput returns the trimmed output of "<service> --version", or ""
// if the service is not installed.
func (i *Inspector) versionOutput(ctx context.Context, service string) (string, error) {
	out, err := i.run(ctx, service, versionFlag)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("running %s %s: %w", service, versionFlag, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// IsInstalled reports whether service is installed.
func (i *Inspector) IsInstalled(ctx context.Context, service string) (bool, error) {
	out, err := i.versionOutput(ctx, service)
	return out != "", err
}

// IsRunning reports whether a process named service is running.
func (i *Inspector) IsRunning(service string) (bool, error) {
	names, err := i.processes()
	if err != nil {
		return false, err
	}
	for _, name := range names {
		if name == service {
			return true, nil
		}
	}
	return false, nil
}

// Version returns the version of service, or "" if it is not installed.
func (i *Inspector) Version(ctx context.Context, service string) (string, error) {
	out, err := i.versionOutput(ctx, service)
	if err != nil {
		return "", err
	}
	fields := strings.Fields(out)
	if len(fields) < 2 {
		return "", nil
	}
	return fields[1], nil
}

// PlatformVersion returns the lowest version among the installed services,
// or "" if none is installed.
func (i *Inspector) PlatformVersion(ctx context.Context) (string, error) {
	versions, err := i.Versions(ctx)
	if err != nil {
		return "", err
	}

	lowest := ""
	for _, name := range Names {
		v := versions[name]
		if v == "" {
			continue
		}
		if lowest == "" || compareVersions(v, lowest) < 0 {
			lowest = v
		}
	}
	return lowest, nil
}

// compareVersions compares two dotted versions numerically when both are
// valid semantic versions, and as strings otherwise.
func compareVersions(a, b string) int {
	va, vb := "v"+a, "v"+b
	if semver.IsValid(va) && semver.IsValid(vb) {
		return semver.Compare(va, vb)
	}
	return strings.Compare(a, b)
}

// ModelVersion returns the NLU model version reported by snips-nlu, or ""
// if snips-nlu is not installed or does not report one.
func (i *Inspector) ModelVersion(ctx context.Context) (string, error) {
	out, err := i.versionOutput(ctx, nluService)
	if err != nil {
		return "", err
	}
	m := modelVersionPattern.FindStringSubmatch(out)
	if m == nil {
		return "", nil
	}
	return m[1], nil
}

// Installed returns the installation state of every known service.
func (i *Inspector) Installed(ctx context.Context) (map[string]bool, error) {
	states := make(map[string]bool, len(Names))
	for _, name := range Names {
		ok, err := i.IsInstalled(ctx, name)
		if err != nil {
			return nil, err
		}
		states[name] = ok
	}
	return states, nil
}

// Running returns the running state of every known service.
func (i *Inspector) Running() (map[string]bool, error) {
	names, err := i.processes()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		seen[name] = true
	}

	states := make(map[string]bool, len(Names))
	for _, name := range Names {
		states[name] = seen[name]
	}
	return states, nil
}

// Versions returns the version of every known service; "" for services
// that are not installed.
func (i *Inspector) Versions(ctx context.Context) (map[string]string, error) {
	versions := make(map[string]string, len(Names))
	for _, name := range Names {
		v, err := i.Version(ctx, name)
		if err != nil {
			return nil, err
		}
		versions[name] = v
	}
	return versions, nil
}

// Status is the combined state of one service.
type Status struct {
	Name      string `json:"name" yaml:"name"`
	Installed bool   `json:"installed" yaml:"installed"`
	Running   bool   `json:"running" yaml:"running"`
	Version   string `json:"version,omitempty" yaml:"version,omitempty"`
}

// Statuses returns the combined state of every known service, in Names order.
func (i *Inspector) Statuses(ctx context.Context) ([]Status, error) {
	running, err := i.Running()
	if err != nil {
		return nil, err
	}

	statuses := make([]Status, 0, len(Names))
	for _, name := range Names {
		out, err := i.versionOutput(ctx, name)
		if err != nil {
			return nil, err
		}
		st := Status{Name: name, Installed: out != "", Running: running[name]}
		if fields := strings.Fields(out); len(fields) >= 2 {
			st.Version = fields[1]
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}
