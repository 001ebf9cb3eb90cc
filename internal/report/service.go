package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/MikeSquared-Agency/DinnerClub/internal/events"
	"github.com/MikeSquared-Agency/DinnerClub/internal/ranking"
	"github.com/MikeSquared-Agency/DinnerClub/internal/source"
)

type Options struct {
	// Timeout bounds a single fetch. Zero means no extra deadline.
	Timeout time.Duration
	// ExcludeUnscored drops responses with no observed category value.
	ExcludeUnscored bool
}

// Service turns the upstream table into reports. Every Load fetches afresh;
// concurrent callers share one in-flight fetch.
type Service struct {
	src        source.Source
	normalizer *ranking.Normalizer
	weights    ranking.Weights
	opts       Options
	events     events.Client
	logger     *slog.Logger
	tracer     trace.Tracer
	group      singleflight.Group
	now        func() time.Time
}

func NewService(src source.Source, n *ranking.Normalizer, w ranking.Weights, opts Options, ev events.Client, logger *slog.Logger) *Service {
	return &Service{
		src:        src,
		normalizer: n,
		weights:    w,
		opts:       opts,
		events:     ev,
		logger:     logger,
		tracer:     otel.Tracer("dinnerclub-report"),
		now:        time.Now,
	}
}

func (s *Service) Weights() ranking.Weights { return s.weights }

func (s *Service) Load(ctx context.Context) (*ranking.Snapshot, error) {
	ch := s.group.DoChan("snapshot", func() (interface{}, error) {
		return s.load(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*ranking.Snapshot), nil
	}
}

func (s *Service) load(ctx context.Context) (*ranking.Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "report.load",
		trace.WithAttributes(attribute.String("source", s.src.Name())),
	)
	defer span.End()

	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	snap, err := s.fetch(ctx)
	loadDuration.WithLabelValues(s.src.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		loadsTotal.WithLabelValues(s.src.Name(), "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error("snapshot load failed", "source", s.src.Name(), "error", err)
		events.Publish(s.events, s.logger, events.SubjectSnapshotFailed, events.SnapshotFailedEvent{
			Source:    s.src.Name(),
			Error:     err.Error(),
			Timestamp: s.now().UTC(),
		})
		return nil, err
	}

	loadsTotal.WithLabelValues(s.src.Name(), "ok").Inc()
	snapshotResponses.Set(float64(len(snap.Responses)))
	snapshotMissingValues.Set(float64(snap.MissingValues()))
	span.SetAttributes(
		attribute.String("snapshot.id", snap.ID.String()),
		attribute.Int("snapshot.responses", len(snap.Responses)),
		attribute.Int("snapshot.missing_values", snap.MissingValues()),
	)

	s.logger.Info("snapshot loaded",
		"snapshot_id", snap.ID,
		"source", s.src.Name(),
		"responses", len(snap.Responses),
		"missing_values", snap.MissingValues(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	events.Publish(s.events, s.logger, events.SubjectSnapshotLoaded, events.SnapshotLoadedEvent{
		SnapshotID:    snap.ID.String(),
		Source:        s.src.Name(),
		Responses:     len(snap.Responses),
		Restaurants:   len(snap.Restaurants()),
		Respondents:   len(snap.Respondents()),
		MissingValues: snap.MissingValues(),
		WeightSum:     s.weights.Sum(),
		LoadedAt:      snap.LoadedAt,
	})
	return snap, nil
}

func (s *Service) fetch(ctx context.Context) (*ranking.Snapshot, error) {
	raw, err := s.src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	table, collisions := s.normalizer.Normalize(raw)
	for _, c := range collisions {
		headerCollisions.Inc()
		s.logger.Warn("header collision", "header", c.Header, "canonical", c.Canonical, "renamed", c.Renamed)
	}
	snap, err := ranking.NewSnapshot(table, s.weights, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("build snapshot from %s: %w", s.src.Name(), err)
	}
	return snap, nil
}

func (s *Service) filter(f ranking.Filter) ranking.Filter {
	if s.opts.ExcludeUnscored {
		f.ExcludeUnscored = true
	}
	return f
}

func (s *Service) Build(ctx context.Context, f ranking.Filter) (*Report, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	_, span := s.tracer.Start(ctx, "report.build",
		trace.WithAttributes(
			attribute.String("filter.restaurant", f.Restaurant),
			attribute.String("filter.respondent", f.Respondent),
		),
	)
	defer span.End()

	r := NewReport(snap, s.filter(f), s.now().UTC())
	span.SetAttributes(attribute.Int("report.responses", len(r.Responses)))
	return r, nil
}

// Export writes the filtered responses as CSV and returns the number of rows written.
func (s *Service) Export(ctx context.Context, f ranking.Filter, w io.Writer) (int, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return 0, err
	}
	rs := s.filter(f).Apply(snap.Responses)
	if err := ranking.WriteCSV(w, snap.Columns, snap.Weights, rs); err != nil {
		return 0, fmt.Errorf("write export: %w", err)
	}
	exportsTotal.Inc()
	events.Publish(s.events, s.logger, events.SubjectExportCreated, events.ExportCreatedEvent{
		SnapshotID: snap.ID.String(),
		Restaurant: f.Restaurant,
		Respondent: f.Respondent,
		Rows:       len(rs),
		Timestamp:  s.now().UTC(),
	})
	return len(rs), nil
}
