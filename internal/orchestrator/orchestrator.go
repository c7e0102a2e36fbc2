package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"csuite/internal/artifact"
	"csuite/internal/device"
	"csuite/internal/exec"
	"csuite/internal/harness"
	"csuite/pkg/logging"
	pkgstrings "csuite/pkg/strings"
)

const orchestratorSubsystem = "Orchestrator"

const (
	// DefaultLogMarker is logged by the launch instrumentation once the app
	// process is up.
	DefaultLogMarker = "App launched"
	// DefaultArtifactPrefix names the per-run artifact directory.
	DefaultArtifactPrefix = "csuite-artifacts"
)

// DefaultHarnessCommand is the harness verb that launches one module and exits.
var DefaultHarnessCommand = []string{"run", "commandAndExit", "launch"}

// Harness stages modules and runs the external test harness.
type Harness interface {
	AddModule(pkg string) (string, error)
	RunAndWait(ctx context.Context, flags []string) (exec.Result, error)
}

// ReportStore persists finished reports.
type ReportStore interface {
	Store(report *Report) error
}

// Config holds per-orchestrator settings. The device serial comes from the
// device controller.
type Config struct {
	// LogMarker must appear in the collected log for a launch to pass.
	LogMarker string
	// LogTag filters the device log. Empty uses the package identifier.
	LogTag string
	// HarnessCommand is the verb and flags placed after --serial.
	HarnessCommand []string
	// ArtifactPrefix names the temporary artifact directory.
	ArtifactPrefix string
	// FailOnHarnessFailures additionally fails a launch whose harness
	// summary reports failed tests.
	FailOnHarnessFailures bool
	// SnippetMaxLines bounds the log excerpt kept in reports.
	SnippetMaxLines int
}

func (c Config) withDefaults() Config {
	if c.LogMarker == "" {
		c.LogMarker = DefaultLogMarker
	}
	if len(c.HarnessCommand) == 0 {
		c.HarnessCommand = DefaultHarnessCommand
	}
	if c.ArtifactPrefix == "" {
		c.ArtifactPrefix = DefaultArtifactPrefix
	}
	if c.SnippetMaxLines <= 0 {
		c.SnippetMaxLines = pkgstrings.DefaultSnippetMaxLines
	}
	return c
}

// Request is one package to launch.
type Request struct {
	Package string
	// APKs are the installable files of the package, staged for the harness.
	APKs []string
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithReportStore persists every report to s.
func WithReportStore(s ReportStore) Option {
	return func(o *Orchestrator) { o.reports = s }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithPhaseObserver calls fn whenever a phase starts.
func WithPhaseObserver(fn func(pkg string, phase Phase)) Option {
	return func(o *Orchestrator) { o.observe = fn }
}

// Orchestrator runs launch tests on a single device.
type Orchestrator struct {
	cfg     Config
	device  device.Controller
	harness Harness
	reports ReportStore
	now     func() time.Time
	observe func(pkg string, phase Phase)
}

// New creates an orchestrator driving dev and h.
func New(cfg Config, dev device.Controller, h Harness, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:     cfg.withDefaults(),
		device:  dev,
		harness: h,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// run carries the state of one launch through its phases.
type run struct {
	o      *Orchestrator
	ctx    context.Context
	req    Request
	report *Report
}

func (r *run) phase(p Phase, fn func() (string, error)) error {
	if r.o.observe != nil {
		r.o.observe(r.req.Package, p)
	}
	start := r.o.now()
	detail, err := fn()
	rec := PhaseRecord{
		Phase:      p,
		Status:     PhaseStatusOK,
		StartedAt:  start,
		DurationMs: r.o.now().Sub(start).Milliseconds(),
		Detail:     detail,
	}
	if err != nil {
		rec.Status = PhaseStatusFailed
		rec.Detail = err.Error()
		logging.Debug(orchestratorSubsystem, "%s: phase %s failed: %v", r.req.Package, p, err)
	} else {
		logging.Debug(orchestratorSubsystem, "%s: phase %s ok", r.req.Package, p)
	}
	r.report.Phases = append(r.report.Phases, rec)
	return err
}

// Run launches one package and returns its report. The error is a
// *SetupError, an *OutcomeError, or nil for a passing launch.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Report, error) {
	report := &Report{
		ID:        uuid.New().String(),
		Package:   req.Package,
		Serial:    o.device.Serial(),
		StartedAt: o.now(),
		LogMarker: o.cfg.LogMarker,
	}
	r := &run{o: o, ctx: ctx, req: req, report: report}

	logging.Info(orchestratorSubsystem, "Launching %s", req.Package)
	err := r.execute()
	o.finish(report, err)
	return report, err
}

func (r *run) execute() error {
	if err := r.phase(PhaseInit, r.init); err != nil {
		return &SetupError{Phase: PhaseInit, Err: err}
	}
	if err := r.phase(PhaseEnsureClean, r.ensureClean); err != nil {
		return &SetupError{Phase: PhaseEnsureClean, Err: err}
	}
	if err := r.phase(PhaseGenerateModule, r.generateModule); err != nil {
		return &SetupError{Phase: PhaseGenerateModule, Err: err}
	}

	// The remaining phases need the staged artifacts, which live only as
	// long as this call.
	var runErr error
	storeErr := artifact.WithStore(r.o.cfg.ArtifactPrefix, func(store *artifact.Store) error {
		runErr = r.executeStaged(store)
		return nil
	})
	if runErr != nil {
		return runErr
	}
	if storeErr != nil {
		return &SetupError{Phase: PhaseStageArtifacts, Err: storeErr}
	}
	return nil
}

func (r *run) executeStaged(store *artifact.Store) error {
	if err := r.phase(PhaseStageArtifacts, func() (string, error) {
		return r.stageArtifacts(store)
	}); err != nil {
		return &SetupError{Phase: PhaseStageArtifacts, Err: err}
	}
	if err := r.phase(PhaseClearLogBuffer, r.clearLogBuffer); err != nil {
		return &SetupError{Phase: PhaseClearLogBuffer, Err: err}
	}
	if err := r.phase(PhaseInvokeHarness, func() (string, error) {
		return r.invokeHarness(store.RootPath())
	}); err != nil {
		return &SetupError{Phase: PhaseInvokeHarness, Err: err}
	}

	var logs string
	if err := r.phase(PhaseCollectLogs, func() (detail string, err error) {
		logs, detail, err = r.collectLogs()
		return detail, err
	}); err != nil {
		return &SetupError{Phase: PhaseCollectLogs, Err: err}
	}

	if err := r.phase(PhaseClassifyOutcome, func() (string, error) {
		return r.classify(logs)
	}); err != nil {
		return err
	}

	if err := r.phase(PhaseVerifyCleanPostcondition, r.verifyClean); err != nil {
		var oe *OutcomeError
		if errors.As(err, &oe) {
			return err
		}
		return &SetupError{Phase: PhaseVerifyCleanPostcondition, Err: err}
	}
	return nil
}

func (r *run) init() (string, error) {
	if r.req.Package == "" {
		return "", errors.New("no package given")
	}
	if r.report.Serial == "" {
		return "", ErrNoSerial
	}
	return fmt.Sprintf("%d artifact(s)", len(r.req.APKs)), nil
}

// ensureClean tolerates a failing uninstall, since uninstalling a package
// that is not installed fails too, and relies on the package listing instead.
func (r *run) ensureClean() (string, error) {
	result, err := r.o.device.Uninstall(r.ctx, r.req.Package, false)
	if err != nil {
		return "", err
	}
	installed, err := r.o.device.IsInstalled(r.ctx, r.req.Package)
	if err != nil {
		return "", err
	}
	if installed {
		return "", fmt.Errorf("package %s is still installed after uninstall", r.req.Package)
	}
	return fmt.Sprintf("uninstall exited with status %d", result.ExitCode), nil
}

func (r *run) generateModule() (string, error) {
	name, err := r.o.harness.AddModule(r.req.Package)
	if err != nil {
		return "", err
	}
	r.report.Module = name
	return name, nil
}

func (r *run) stageArtifacts(store *artifact.Store) (string, error) {
	if err := store.AddPackageArtifacts(r.req.Package, r.req.APKs); err != nil {
		return "", err
	}
	r.report.Artifacts = store.PackageArtifacts(r.req.Package)
	return store.RootPath(), nil
}

func (r *run) clearLogBuffer() (string, error) {
	return "", r.o.device.ClearLogs(r.ctx)
}

// HarnessFlags builds the harness command line for one module. The serial
// is always passed explicitly.
func HarnessFlags(serial string, command []string, apkDir, module string) []string {
	flags := append([]string{"--serial", serial}, command...)
	return append(flags, "--gcs-apk-dir", apkDir, "-m", module)
}

func (r *run) invokeHarness(apkDir string) (string, error) {
	flags := HarnessFlags(r.report.Serial, r.o.cfg.HarnessCommand, apkDir, r.report.Module)
	result, err := r.o.harness.RunAndWait(r.ctx, flags)
	if err != nil {
		return "", err
	}
	r.report.Harness = &result

	counts, err := harness.ParseCounts(result.Stdout)
	if err != nil {
		logging.Warn(orchestratorSubsystem, "%s: %v", r.req.Package, err)
	} else {
		r.report.Counts = &counts
	}
	return fmt.Sprintf("harness exited with status %d", result.ExitCode), nil
}

func (r *run) collectLogs() (string, string, error) {
	tag := r.o.cfg.LogTag
	if tag == "" {
		tag = r.req.Package
	}
	logs, err := r.o.device.DumpLogs(r.ctx, tag)
	if err != nil {
		return "", "", err
	}
	r.report.LogSnippet = pkgstrings.TruncateLines(logs, r.o.cfg.SnippetMaxLines)
	return logs, fmt.Sprintf("%d line(s) tagged %s", countLines(logs), tag), nil
}

func (r *run) classify(logs string) (string, error) {
	r.report.LogMarkerFound = strings.Contains(logs, r.o.cfg.LogMarker)
	if !r.report.LogMarkerFound {
		return "", &OutcomeError{
			Phase:  PhaseClassifyOutcome,
			Reason: fmt.Sprintf("log marker %q not found", r.o.cfg.LogMarker),
			Output: r.report.LogSnippet,
		}
	}
	if r.o.cfg.FailOnHarnessFailures && r.report.HarnessFailures() > 0 {
		return "", &OutcomeError{
			Phase:  PhaseClassifyOutcome,
			Reason: fmt.Sprintf("harness reported %d failed test(s)", r.report.HarnessFailures()),
			Output: r.report.Harness.Stdout,
		}
	}
	return "log marker found", nil
}

func (r *run) verifyClean() (string, error) {
	installed, err := r.o.device.IsInstalled(r.ctx, r.req.Package)
	if err != nil {
		return "", err
	}
	r.report.PackageAbsentAfter = !installed
	if installed {
		return "", &OutcomeError{
			Phase:  PhaseVerifyCleanPostcondition,
			Reason: fmt.Sprintf("package %s is still installed after the run", r.req.Package),
		}
	}
	return "package absent", nil
}

func (o *Orchestrator) finish(report *Report, err error) {
	report.CompletedAt = o.now()
	report.DurationMs = report.CompletedAt.Sub(report.StartedAt).Milliseconds()

	ran := make(map[Phase]bool, len(report.Phases))
	for _, rec := range report.Phases {
		ran[rec.Phase] = true
	}
	for _, p := range Phases {
		if p != PhaseTerminal && !ran[p] {
			report.Phases = append(report.Phases, PhaseRecord{Phase: p, Status: PhaseStatusSkipped})
		}
	}

	var outcomeErr *OutcomeError
	switch {
	case err == nil:
		report.Outcome = OutcomePassed
	case errors.As(err, &outcomeErr):
		report.Outcome = OutcomeFailed
		report.Error = err.Error()
	default:
		report.Outcome = OutcomeErrored
		report.Error = err.Error()
	}
	report.Phases = append(report.Phases, PhaseRecord{
		Phase:     PhaseTerminal,
		Status:    PhaseStatusOK,
		StartedAt: report.CompletedAt,
		Detail:    string(report.Outcome),
	})

	if err != nil {
		logging.Error(orchestratorSubsystem, err, "%s: %s", report.Package, report.Outcome)
	} else {
		logging.Info(orchestratorSubsystem, "%s: %s", report.Package, report.Outcome)
	}

	if o.reports != nil {
		if serr := o.reports.Store(report); serr != nil {
			logging.Warn(orchestratorSubsystem, "Failed to store report %s: %v", report.ID, serr)
		}
	}
}

// RunAll launches every request in order. Outcome failures are recorded and
// the batch continues; any other failure stops it and is returned.
func (o *Orchestrator) RunAll(ctx context.Context, reqs []Request) ([]*Report, error) {
	reports := make([]*Report, 0, len(reqs))
	for _, req := range reqs {
		report, err := o.Run(ctx, req)
		reports = append(reports, report)
		if IsFatal(err) {
			return reports, err
		}
	}
	return reports, nil
}

func countLines(s string) int {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}
