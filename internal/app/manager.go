package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/yapb/amxx-release/internal/pack"
	"github.com/yapb/amxx-release/internal/release"
	"github.com/yapb/amxx-release/internal/report"
)

// ReportOptions selects how the run summary is written.
type ReportOptions struct {
	Format    string
	UseColour bool
}

// Manager defines the release operations behind the CLI commands.
type Manager interface {
	Package(ctx context.Context, opts ReportOptions) error
	WatchPackage(ctx context.Context, opts ReportOptions, readyChan chan<- struct{}) error
	Publish(ctx context.Context, dryRun bool, opts ReportOptions) error
	Release(ctx context.Context, dryRun bool, opts ReportOptions) error
}

// Ensure the interface is satisfied.
var _ Manager = (*LazyManager)(nil)

// LazyManager acts as a placeholder for a real Manager implementation, allowing
// for deferred initialization of dependencies.
type LazyManager struct {
	inner Manager
}

func (l *LazyManager) SetInner(m Manager) {
	l.inner = m
}

// HasInner returns true if the inner manager has been set.
// This is used by PersistentPreRunE to skip initialization if already configured (e.g., in tests).
func (l *LazyManager) HasInner() bool {
	return l.inner != nil
}

func (l *LazyManager) check() Manager {
	if l.inner == nil {
		panic("LazyManager accessed before initialization; check command wiring.")
	}
	return l.inner
}

func (l *LazyManager) Package(ctx context.Context, opts ReportOptions) error {
	return l.check().Package(ctx, opts)
}

func (l *LazyManager) WatchPackage(ctx context.Context, opts ReportOptions, readyChan chan<- struct{}) error {
	return l.check().WatchPackage(ctx, opts, readyChan)
}

func (l *LazyManager) Publish(ctx context.Context, dryRun bool, opts ReportOptions) error {
	return l.check().Publish(ctx, dryRun, opts)
}

func (l *LazyManager) Release(ctx context.Context, dryRun bool, opts ReportOptions) error {
	return l.check().Release(ctx, dryRun, opts)
}

// Ensure the interface is satisfied.
var _ Manager = (*CLIManager)(nil)

// CLIManager is the concrete implementation of the Manager interface.
type CLIManager struct {
	logger          *slog.Logger
	driver          *pack.Driver
	watcher         *pack.Watcher
	publisher       *release.Publisher
	dryRunPublisher *release.Publisher
	version         string
	reporterWriter  io.Writer
	now             func() time.Time
}

func NewCLIManager(
	l *slog.Logger,
	d *pack.Driver,
	w *pack.Watcher,
	p *release.Publisher,
	dp *release.Publisher,
	version string,
	out io.Writer,
) *CLIManager {
	return &CLIManager{
		logger:          l,
		driver:          d,
		watcher:         w,
		publisher:       p,
		dryRunPublisher: dp,
		version:         version,
		reporterWriter:  out,
		now:             time.Now,
	}
}

// Package builds the archives for every platform whose binary is present.
func (m *CLIManager) Package(ctx context.Context, opts ReportOptions) error {
	m.logger.Debug("packaging", "version", m.version)

	s := m.newSummary()
	res, err := m.driver.Generate(ctx)
	if err != nil {
		return err
	}
	s.Package = res
	return m.writeSummary(s, opts)
}

// WatchPackage packages once and then again whenever a platform binary is
// rebuilt, until ctx is cancelled. If you want to know when the watcher is
// ready to start listening to changes, pass a non-nil readyChan.
func (m *CLIManager) WatchPackage(ctx context.Context, opts ReportOptions, readyChan chan<- struct{}) error {
	if err := m.Package(ctx, opts); err != nil {
		return err
	}

	regenerate := func(ctx context.Context) error {
		m.logger.Info("Binary changed, repackaging")
		return m.Package(ctx, opts)
	}

	// Forward watcher Ready signal if caller wants notification
	if readyChan != nil {
		go func() {
			select {
			case <-m.watcher.Ready:
				readyChan <- struct{}{}
			case <-ctx.Done():
			}
		}()
	}

	err := m.watcher.Watch(ctx, regenerate)
	if errors.Is(err, context.Canceled) {
		m.logger.Info("Interrupted by user")
		return nil
	}
	return err
}

// Publish creates the tagged release from archives already on disk.
func (m *CLIManager) Publish(ctx context.Context, dryRun bool, opts ReportOptions) error {
	m.logger.Debug("publishing", "version", m.version, "dryRun", dryRun)

	s := m.newSummary()
	if err := m.publish(ctx, s, dryRun); err != nil {
		return err
	}
	return m.writeSummary(s, opts)
}

// Release packages every platform and then publishes the result.
func (m *CLIManager) Release(ctx context.Context, dryRun bool, opts ReportOptions) error {
	m.logger.Debug("releasing", "version", m.version, "dryRun", dryRun)

	s := m.newSummary()
	res, err := m.driver.Generate(ctx)
	if err != nil {
		return err
	}
	s.Package = res

	if err := m.publish(ctx, s, dryRun); err != nil {
		return err
	}
	return m.writeSummary(s, opts)
}

func (m *CLIManager) publish(ctx context.Context, s *report.Summary, dryRun bool) error {
	p := m.publisher
	if dryRun {
		p = m.dryRunPublisher
	}

	pub, err := p.Publish(ctx)
	if err != nil {
		return err
	}
	s.PublishRan = true
	s.DryRun = dryRun
	s.Publication = pub
	return nil
}

func (m *CLIManager) newSummary() *report.Summary {
	return &report.Summary{Version: m.version, StartTime: m.now()}
}

func (m *CLIManager) writeSummary(s *report.Summary, opts ReportOptions) error {
	s.EndTime = m.now()

	reporter, err := report.New(opts.Format, opts.UseColour)
	if err != nil {
		return err
	}
	return reporter.Write(m.reporterWriter, s)
}
