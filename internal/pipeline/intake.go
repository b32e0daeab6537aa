// Package pipeline orchestrates the hazard intake flow: a transcript is
// interpreted into an intent, recognized reports are built into classified
// records, persisted, and announced on the feed. Interpretation and
// classification never fail; only persistence and missing preconditions can.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/couchcryptid/hazard-intake-service/internal/domain"
	"github.com/couchcryptid/hazard-intake-service/internal/observability"
	"github.com/couchcryptid/hazard-intake-service/internal/store"
)

// ErrNoLocation is returned when a record-hazard command arrives without
// coordinates. Classification is not attempted in that case.
var ErrNoLocation = errors.New("hazard report has no location")

// Outcome summarizes what the pipeline did with a submission.
type Outcome string

const (
	// OutcomeRecorded means a hazard record was persisted.
	OutcomeRecorded Outcome = "recorded"
	// OutcomeDeleteRequested means the transcript asked for deletion; the
	// pipeline does not delete by voice, it only reports the request.
	OutcomeDeleteRequested Outcome = "delete_requested"
	// OutcomeUnrecognized means no command word was found.
	OutcomeUnrecognized Outcome = "unrecognized"
)

// Result is the pipeline's answer to a submission. Hazard and Origin are set
// only for OutcomeRecorded; Guidance is set for the other outcomes.
type Result struct {
	Outcome  Outcome
	Hazard   domain.HazardRecord
	Origin   store.Origin
	Guidance string
}

// Submission is one voice report handed to the pipeline. The transcript is
// final text; speech recognition happens upstream on the reporting device.
type Submission struct {
	Transcript string
	Coords     *domain.Coords
}

// HazardCreator persists built records. Implemented by store.Store.
type HazardCreator interface {
	Create(ctx context.Context, rec domain.HazardRecord) (domain.HazardRecord, store.Origin, error)
	CheckReadiness(ctx context.Context) error
}

// FeedPublisher announces persisted hazards downstream.
type FeedPublisher interface {
	HazardCreated(ctx context.Context, rec domain.HazardRecord) error
}

// Pipeline wires interpretation, record building, persistence and the feed.
type Pipeline struct {
	builder *domain.Builder
	store   HazardCreator
	feed    FeedPublisher
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Pipeline. feed may be nil when the hazard feed is disabled.
func New(builder *domain.Builder, st HazardCreator, feed FeedPublisher, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		builder: builder,
		store:   st,
		feed:    feed,
		logger:  logger,
		metrics: metrics,
	}
}

// CheckReadiness reports whether submissions can be persisted.
func (p *Pipeline) CheckReadiness(ctx context.Context) error {
	return p.store.CheckReadiness(ctx)
}

// Process runs one submission through the intake flow.
func (p *Pipeline) Process(ctx context.Context, sub Submission) (Result, error) {
	start := time.Now()
	result, err := p.process(ctx, sub)
	p.metrics.IntakeDuration.Observe(time.Since(start).Seconds())

	outcome := "error"
	if err == nil {
		outcome = string(result.Outcome)
	}
	p.metrics.IntakeRequests.WithLabelValues(outcome).Inc()
	return result, err
}

func (p *Pipeline) process(ctx context.Context, sub Submission) (Result, error) {
	intent := domain.Interpret(sub.Transcript)

	switch intent.Kind {
	case domain.IntentRequestDelete:
		p.logger.Info("delete requested by voice")
		return Result{
			Outcome:  OutcomeDeleteRequested,
			Guidance: "удаление выполняется через список зафиксированных происшествий",
		}, nil

	case domain.IntentRecordHazard:
		return p.record(ctx, intent.Description, sub.Coords)

	default:
		return Result{
			Outcome:  OutcomeUnrecognized,
			Guidance: "скажите 'зафиксируй' и опишите происшествие",
		}, nil
	}
}

func (p *Pipeline) record(ctx context.Context, description string, coords *domain.Coords) (Result, error) {
	if coords == nil {
		return Result{}, ErrNoLocation
	}

	rec := p.builder.Build(ctx, description, *coords)

	created, origin, err := p.store.Create(ctx, rec)
	if err != nil {
		return Result{}, err
	}
	p.metrics.HazardsCreated.WithLabelValues(string(origin)).Inc()
	p.logger.Info("hazard recorded",
		"id", created.ID,
		"danger", created.Danger,
		"origin", origin,
		"address", created.Address)

	if p.feed != nil {
		// The record is already durable; feed delivery is best effort.
		if feedErr := p.feed.HazardCreated(ctx, created); feedErr != nil {
			p.metrics.FeedPublishErrors.Inc()
			p.logger.Warn("feed publish failed", "id", created.ID, "error", feedErr)
		}
	}

	return Result{Outcome: OutcomeRecorded, Hazard: created, Origin: origin}, nil
}
