// Package syncer runs the reconciliation loop: one pass at startup, then one
// pass per container start or stop event.
package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"dockhosts"
	"dockhosts/internal/hostsfile"
	"dockhosts/internal/inventory"
	"dockhosts/internal/privilege"
	"dockhosts/internal/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	operationName = "hosts.sync"

	stepCollect   = "collect"
	stepRead      = "read"
	stepReconcile = "reconcile"
	stepWrite     = "write"
)

var passPlan = telemetry.Plan{Steps: []telemetry.PlannedStep{
	{ID: stepCollect, Title: "collect running containers"},
	{ID: stepRead, Title: "read hosts file"},
	{ID: stepReconcile, Title: "rebuild managed block"},
	{ID: stepWrite, Title: "write hosts file"},
}}

type Config struct {
	// Network is the validated network selection (see SelectNetwork).
	Network   string
	HostsFile *hostsfile.File
	Markers   hostsfile.Markers
	// Escalator runs once before the first pass. Nil skips the check.
	Escalator privilege.Escalator
	// Journal and Tracer are optional.
	Journal Journal
	Tracer  trace.Tracer
}

type Syncer struct {
	runtime   inventory.Runtime
	collector *inventory.Collector
	cfg       Config
	tracer    trace.Tracer
	log       *slog.Logger
}

func New(rt inventory.Runtime, cfg Config) *Syncer {
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	if cfg.Markers == (hostsfile.Markers{}) {
		cfg.Markers = hostsfile.DefaultMarkers()
	}
	return &Syncer{
		runtime:   rt,
		collector: inventory.NewCollector(rt),
		cfg:       cfg,
		tracer:    tracer,
		log:       slog.With("component", "syncer", "network", cfg.Network),
	}
}

// Run performs the bootstrap pass and then reconciles once per container
// start or stop event until ctx is done or the event stream ends. Bootstrap
// failures are returned; failures of later passes are logged and the loop
// keeps waiting for the next event.
func (s *Syncer) Run(ctx context.Context) error {
	if s.cfg.Escalator != nil {
		if err := s.cfg.Escalator.Ensure(s.cfg.HostsFile.Path); err != nil {
			return &dockhosts.PrivilegeError{Path: s.cfg.HostsFile.Path, Err: err}
		}
	}

	// Subscribe before the bootstrap pass so changes made while it runs
	// still trigger a pass.
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	events, errs := s.runtime.SubscribeEvents(subCtx, inventory.LifecycleFilter())

	if _, err := s.Pass(ctx, TriggerBootstrap); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	return s.watch(ctx, events, errs)
}

func (s *Syncer) watch(ctx context.Context, events <-chan inventory.Event, errs <-chan error) error {
	s.log.Info("watching container events")
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return s.streamEnded(ctx, errs)
			}
			s.log.Info("update by event", "action", ev.Action, "container", ev.Name)
			if _, err := s.Pass(ctx, ev.Action); err != nil {
				s.log.Error("reconciliation pass failed", "trigger", ev.Action, "err", err)
			}
		}
	}
}

func (s *Syncer) streamEnded(ctx context.Context, errs <-chan error) error {
	select {
	case err := <-errs:
		if err != nil && ctx.Err() == nil {
			return &dockhosts.RuntimeQueryError{Op: "watch events", Err: err}
		}
	default:
	}
	if ctx.Err() == nil {
		s.log.Warn("event stream closed")
	}
	return nil
}

// Pass runs one full reconciliation: collect, read, reconcile and write.
// The file is left untouched when any step fails or nothing changed.
func (s *Syncer) Pass(ctx context.Context, trigger string) (PassReport, error) {
	report := PassReport{StartedAt: time.Now(), Trigger: trigger, Network: s.cfg.Network}

	op, err := telemetry.Start(ctx, s.tracer, operationName, passPlan,
		attribute.String("dockhosts.network", s.cfg.Network),
		attribute.String("dockhosts.trigger", trigger),
	)
	if err == nil {
		err = s.pass(op, &report)
		op.SetAttributes(attribute.Int("dockhosts.records", report.Records), attribute.Bool("dockhosts.changed", report.Changed))
		op.End(err)
	}

	report.Duration = time.Since(report.StartedAt)
	if err != nil {
		report.Err = err.Error()
	}
	if s.cfg.Journal != nil {
		if jErr := s.cfg.Journal.RecordPass(ctx, report); jErr != nil {
			s.log.Warn("record pass in journal failed", "err", jErr)
		}
	}
	return report, err
}

func (s *Syncer) pass(op *telemetry.Operation, report *PassReport) error {
	current, next, err := s.plan(op, report)
	if err != nil {
		return err
	}
	if slices.Equal(current, next) {
		s.log.Debug("hosts file already up to date", "path", s.cfg.HostsFile.Path)
		return nil
	}

	err = op.RunStep(op.Context(), stepWrite, func(context.Context) error {
		return s.cfg.HostsFile.WriteLines(next)
	})
	if err != nil {
		return err
	}
	report.Changed = true
	s.log.Info("hosts file updated", "path", s.cfg.HostsFile.Path, "records", report.Records)
	return nil
}

// plan runs the collect, read and reconcile steps, returning the file lines
// as read and as they should be written.
func (s *Syncer) plan(op *telemetry.Operation, report *PassReport) (current, next []string, err error) {
	ctx := op.Context()

	var records []dockhosts.HostRecord
	err = op.RunStep(ctx, stepCollect, func(ctx context.Context) error {
		records, err = s.collector.Collect(ctx, s.cfg.Network)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	report.Records = len(records)
	s.logRecords(records)

	err = op.RunStep(ctx, stepRead, func(context.Context) error {
		current, err = s.cfg.HostsFile.ReadLines()
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	_ = op.RunStep(ctx, stepReconcile, func(context.Context) error {
		next = hostsfile.Reconcile(current, records, s.cfg.Markers)
		return nil
	})
	return current, next, nil
}

// Preview returns the file contents the next pass would write, without
// writing them.
func (s *Syncer) Preview(ctx context.Context) ([]string, error) {
	op, err := telemetry.Start(ctx, s.tracer, operationName+".preview", passPlan,
		attribute.String("dockhosts.network", s.cfg.Network),
	)
	if err != nil {
		return nil, err
	}
	var report PassReport
	_, next, err := s.plan(op, &report)
	op.End(err)
	return next, err
}

func (s *Syncer) logRecords(records []dockhosts.HostRecord) {
	s.log.Info("found docker hosts", "count", len(records))
	for _, r := range records {
		s.log.Debug("docker host", "hostname", r.Hostname, "ip", r.IPAddress)
	}
}
