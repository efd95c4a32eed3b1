package operations

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"divcli/internal/config"
	"divcli/internal/infrastructure"
	"divcli/internal/render"
)

// TracerName identifies the pipeline's tracer
const TracerName = "divcli.pipeline"

// Manager executes the pipeline stages in order over a shared run state.
// Runs are sequential batch jobs: the first stage failure aborts the run.
type Manager struct {
	stages []Stage
	logger *slog.Logger
	tracer trace.Tracer
}

// NewManager creates a manager with the given stage order
func NewManager(logger *slog.Logger, stages ...Stage) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		stages: stages,
		logger: logger,
		tracer: otel.Tracer(TracerName),
	}
}

// NewPipeline wires the standard five-stage pipeline
func NewPipeline(logger *slog.Logger, source DatasetSource, writer *render.Writer) *Manager {
	return NewManager(logger,
		NewFetchStage(source),
		NewTransformStage(),
		NewRegressStage(),
		NewStatsStage(),
		NewRenderStage(writer),
	)
}

// Run executes all stages for one analysis window. The returned state
// carries every stage's artifacts and statuses, also when the run failed.
func (m *Manager) Run(ctx context.Context, window config.Window, maturity int) (*State, error) {
	runID := uuid.New().String()
	ctx = infrastructure.WithRunID(ctx, runID)

	state := NewState(runID, window, maturity)
	state.Start()

	ctx, span := m.tracer.Start(ctx, "pipeline.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("run.window_start", window.Start.Format("2006-01-02")),
			attribute.String("run.window_end", window.End.Format("2006-01-02")),
			attribute.Int("run.stage_count", len(m.stages)),
		),
	)
	defer span.End()

	m.logger.InfoContext(ctx, "pipeline run started",
		slog.String("run_id", runID),
		slog.String("window_start", window.Start.Format("2006-01-02")),
		slog.String("window_end", window.End.Format("2006-01-02")))

	start := time.Now()
	for _, stage := range m.stages {
		if err := m.runStage(ctx, stage, state); err != nil {
			state.Fail(err)
			span.SetStatus(codes.Error, err.Error())
			m.logger.ErrorContext(ctx, "pipeline run failed",
				slog.String("run_id", runID),
				slog.String("stage", stage.ID()),
				slog.String("error", err.Error()))
			return state, fmt.Errorf("stage %s: %w", stage.ID(), err)
		}
	}

	state.Complete()
	span.SetStatus(codes.Ok, "pipeline completed")
	m.logger.InfoContext(ctx, "pipeline run completed",
		slog.String("run_id", runID),
		slog.Duration("duration", time.Since(start)))
	return state, nil
}

func (m *Manager) runStage(ctx context.Context, stage Stage, state *State) error {
	stageState := state.StageStateFor(stage.ID(), stage.Name())

	ctx, span := m.tracer.Start(ctx, "pipeline.stage."+stage.ID(),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("stage.id", stage.ID()),
			attribute.String("stage.name", stage.Name()),
		),
	)
	defer span.End()

	if err := stage.Validate(state); err != nil {
		stageState.Fail(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("validation failed: %w", err)
	}

	stageState.Start()
	m.logger.InfoContext(ctx, "stage started", slog.String("stage", stage.ID()))

	if err := stage.Execute(ctx, state); err != nil {
		stageState.Fail(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	stageState.Complete()
	span.SetStatus(codes.Ok, "stage completed")
	m.logger.InfoContext(ctx, "stage completed",
		slog.String("stage", stage.ID()),
		slog.Duration("duration", stageState.Duration()))
	return nil
}
