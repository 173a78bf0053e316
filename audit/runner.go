package audit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/toothbrush/itglue-audit/folders"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDiscovering
	PhaseAuditing
	PhaseExporting
	PhaseDone
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseDiscovering:
		return "discovering"
	case PhaseAuditing:
		return "auditing"
	case PhaseExporting:
		return "exporting"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Summary describes one run once it has ended, successfully or not.
type Summary struct {
	Mode             string
	Phase            Phase
	Total            int
	ProcessedThisRun int
	Remaining        int
	RateLimitHits    int
	Records          int
	Passwords        AuditorStats
	Folders          folders.Stats
	Elapsed          time.Duration
}

func (s Summary) Log(logger zerolog.Logger) {
	ev := logger.Info()
	if s.Phase == PhaseFailed {
		ev = logger.Error()
	}
	ev.Str("mode", s.Mode).
		Stringer("phase", s.Phase).
		Int("organizations_total", s.Total).
		Int("organizations_processed_this_run", s.ProcessedThisRun).
		Int("organizations_remaining", s.Remaining).
		Int("rate_limit_hits", s.RateLimitHits).
		Int("passwords_seen", s.Passwords.Passwords).
		Int("passwords_unfiled", s.Passwords.Unfiled).
		Int("passwords_unresolved", s.Passwords.Unresolved).
		Int("records", s.Records).
		Int("folder_cache_hits", s.Folders.Hits).
		Int("folder_lookups", s.Folders.Lookups).
		Int("folder_failures", s.Folders.Failures).
		Dur("elapsed", s.Elapsed).
		Msg("Run summary")
}

// Runner drives a debug or full run.  It owns Folders: every Run* call closes it on the way out,
// whatever happened.
type Runner struct {
	Orgs     OrganizationSource
	Catalog  *Catalog
	Auditor  *Auditor
	Exporter *Exporter
	Counter  RateLimitCounter
	Folders  FolderSession

	// Where the organization progress bar goes; nil disables it.
	Progress io.Writer
	Logger   zerolog.Logger

	phase Phase
}

func (r *Runner) Phase() Phase {
	return r.phase
}

func (r *Runner) enter(p Phase) {
	r.Logger.Debug().Stringer("from", r.phase).Stringer("to", p).Msg("Phase change")
	r.phase = p
}

// RunDebug audits the one organization given and exports it.  Nothing is recorded in the catalog.
func (r *Runner) RunDebug(ctx context.Context, orgID string) (sum Summary, err error) {
	start := time.Now()
	sum = Summary{Mode: "debug", Total: 1}
	defer func() { err = r.finish(&sum, start, err) }()

	org, err := r.Orgs.GetOrganization(ctx, orgID)
	if err != nil {
		return sum, fmt.Errorf("audit: couldn't get organization %s: %w", orgID, err)
	}
	name := org.Attributes.Name
	r.Logger.Info().Str("org_id", orgID).Str("org_name", name).Msg("Debug run on a single organization")

	r.enter(PhaseAuditing)
	records, err := r.Auditor.AuditOrganization(ctx, orgID, name)
	if err != nil {
		return sum, fmt.Errorf("audit: organization %s (%s): %w", orgID, name, err)
	}
	sum.ProcessedThisRun = 1

	return sum, r.export(ctx, records, &sum)
}

// RunFull discovers every organization and audits the ones not yet processed, saving progress
// and records after each.  On failure the catalog is saved before returning, so the next run
// resumes at the organization that failed.  The export covers every processed organization.
func (r *Runner) RunFull(ctx context.Context) (sum Summary, err error) {
	start := time.Now()
	sum = Summary{Mode: "full"}
	defer func() { err = r.finish(&sum, start, err) }()

	r.enter(PhaseDiscovering)
	if err := r.Catalog.Discover(ctx); err != nil {
		return sum, err
	}

	pending := r.Catalog.Pending()
	sum.Total, _ = r.Catalog.Counts()
	r.Logger.Info().
		Int("organizations", sum.Total).
		Int("pending", len(pending)).
		Msg("Starting audit")

	r.enter(PhaseAuditing)
	bar := r.newBar(len(pending))
	defer bar.stop()

	for _, id := range pending {
		if err := context.Cause(ctx); err != nil {
			return sum, r.persistAfter(ctx, fmt.Errorf("audit: run interrupted before organization %s: %w", id, err))
		}

		entry, _ := r.Catalog.Get(id)
		orgRecords, err := r.Auditor.AuditOrganization(ctx, id, entry.Name)
		if err != nil {
			return sum, r.persistAfter(ctx, fmt.Errorf("audit: organization %s (%s): %w", id, entry.Name, err))
		}
		if err := r.Catalog.MarkProcessed(ctx, id, orgRecords); err != nil {
			return sum, err
		}
		if err := r.Folders.Flush(ctx); err != nil {
			return sum, err
		}
		sum.ProcessedThisRun++
		bar.increment()

		r.Logger.Info().
			Str("org_id", id).
			Str("org_name", entry.Name).
			Int("records", len(orgRecords)).
			Int("done", sum.ProcessedThisRun).
			Int("pending", len(pending)).
			Msg("Organization processed")
	}
	bar.stop()

	// organizations finished by earlier, interrupted runs count too
	return sum, r.export(ctx, r.Catalog.Records(), &sum)
}

func (r *Runner) export(ctx context.Context, records []Record, sum *Summary) error {
	r.enter(PhaseExporting)
	sum.Records = len(records)

	if len(records) == 0 {
		r.Logger.Warn().Msg("No audit records produced, nothing exported")
		return nil
	}

	return r.Exporter.Export(ctx, records)
}

// persistAfter saves the catalog after a failure.  The save uses a fresh context because the
// failure may be the run's context being cancelled.
func (r *Runner) persistAfter(ctx context.Context, cause error) error {
	if err := r.Catalog.Persist(context.WithoutCancel(ctx)); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}

func (r *Runner) finish(sum *Summary, start time.Time, err error) error {
	if r.Folders != nil {
		if cerr := r.Folders.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
		sum.Folders = r.Folders.Stats()
	}

	if err != nil {
		r.enter(PhaseFailed)
	} else {
		r.enter(PhaseDone)
	}

	sum.Phase = r.phase
	sum.Elapsed = time.Since(start)
	if r.Counter != nil {
		sum.RateLimitHits = r.Counter.RateLimitHits()
	}
	if r.Auditor != nil {
		sum.Passwords = r.Auditor.Stats()
	}
	if sum.Mode == "full" && r.Catalog != nil {
		total, processed := r.Catalog.Counts()
		sum.Total = total
		sum.Remaining = total - processed
	}

	return err
}

type progressBar struct {
	progress *mpb.Progress
	bar      *mpb.Bar
}

func (r *Runner) newBar(total int) *progressBar {
	if r.Progress == nil || total == 0 {
		return &progressBar{}
	}

	p := mpb.New(mpb.WithOutput(r.Progress), mpb.WithWidth(64))
	bar := p.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name("organizations:", decor.WC{C: decor.DindentRight | decor.DextraSpace}),
		),
		mpb.AppendDecorators(
			decor.CountersNoUnit("(%d/%d) "),
			decor.NewPercentage("%d"),
			decor.Spinner([]string{" /", " -", " \\", " |"}),
		),
	)
	return &progressBar{progress: p, bar: bar}
}

func (b *progressBar) increment() {
	if b.bar != nil {
		b.bar.Increment()
	}
}

// stop is safe to call more than once.
func (b *progressBar) stop() {
	if b.progress == nil {
		return
	}
	if !b.bar.Completed() {
		b.bar.Abort(false)
	}
	b.progress.Wait()
	b.progress = nil
}
