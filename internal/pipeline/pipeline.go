// Package pipeline orchestrates one conformance run: the four components
// executed in sequence against the current raw snapshot, each replacing its
// conformed tables atomically, all rows stamped with one shared timestamp.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"retaildwh/internal/logger"
	"retaildwh/internal/warehouse"
)

// Component is one conformance unit: it reads its raw tables, applies its
// rule set, and replaces its destination tables. Execute reports the raw
// rows consumed and conformed rows written.
type Component interface {
	Name() string
	Execute(ctx context.Context, state *RunState) (rowsIn, rowsOut int, err error)
}

// RunState is the shared state handed to every component of one run.
type RunState struct {
	RunID string

	// ConformedAt stamps every row written by this run; it doubles as the
	// reference date for plausibility checks.
	ConformedAt time.Time

	Raw       warehouse.RawStore
	Conformed warehouse.ConformedStore
}

// ComponentResult is the per-component observability record.
type ComponentResult struct {
	Name     string
	Duration time.Duration
	RowsIn   int
	RowsOut  int
}

// RunReport summarizes a successful run for the operator.
type RunReport struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Duration   time.Duration
	Components []ComponentResult
}

// ComponentError identifies which component failed and carries a fault id
// the operator can quote when diagnosing the run.
type ComponentError struct {
	Component string
	FaultID   string
	Err       error
}

func (e *ComponentError) Error() string {
	return fmt.Sprintf("component %s failed (fault %s): %v", e.Component, e.FaultID, e.Err)
}

func (e *ComponentError) Unwrap() error {
	return e.Err
}

// Runner executes conformance runs. Concurrent runs against the same
// destination tables are not supported; the caller must serialize them.
type Runner struct {
	raw        warehouse.RawStore
	conformed  warehouse.ConformedStore
	runs       warehouse.RunLog
	components []Component
}

// NewRunner creates a Runner with the standard four components.
func NewRunner(raw warehouse.RawStore, conformed warehouse.ConformedStore, runs warehouse.RunLog) *Runner {
	return NewRunnerWithComponents(raw, conformed, runs,
		&CustomerComponent{},
		&ProductComponent{},
		&SalesComponent{},
		&CategoryComponent{},
	)
}

// NewRunnerWithComponents creates a Runner with an explicit component list.
func NewRunnerWithComponents(raw warehouse.RawStore, conformed warehouse.ConformedStore, runs warehouse.RunLog, components ...Component) *Runner {
	return &Runner{
		raw:        raw,
		conformed:  conformed,
		runs:       runs,
		components: components,
	}
}

// Run executes one conformance run and returns its report. Re-running over
// the same raw snapshot reproduces the same conformed snapshot apart from
// the timestamp.
//
// The first component failure aborts the run: components that already
// completed keep their new data, the failing component's tables keep their
// prior contents (Replace is atomic), and the returned ComponentError names
// the component with a fault id. No automatic retry.
func (r *Runner) Run(ctx context.Context) (*RunReport, error) {
	log := logger.FromContext(ctx)

	startedAt := time.Now()
	state := &RunState{
		RunID:       uuid.NewString(),
		ConformedAt: startedAt,
		Raw:         r.raw,
		Conformed:   r.conformed,
	}

	if err := r.runs.StartRun(ctx, state.RunID, startedAt); err != nil {
		return nil, fmt.Errorf("Run: recording run start: %w", err)
	}

	log.Info().Str("run_id", state.RunID).Msg("conformance run started")

	report := &RunReport{
		RunID:     state.RunID,
		StartedAt: startedAt,
	}

	for _, c := range r.components {
		componentStart := time.Now()

		rowsIn, rowsOut, err := c.Execute(ctx, state)
		if err != nil {
			cerr := &ComponentError{
				Component: c.Name(),
				FaultID:   uuid.NewString(),
				Err:       err,
			}
			r.runs.MarkRunFailed(ctx, state.RunID, cerr.FaultID, cerr)
			log.Error().
				Err(cerr.Err).
				Str("run_id", state.RunID).
				Str("component", cerr.Component).
				Str("fault_id", cerr.FaultID).
				Msg("conformance run aborted")
			return nil, cerr
		}

		result := ComponentResult{
			Name:     c.Name(),
			Duration: time.Since(componentStart),
			RowsIn:   rowsIn,
			RowsOut:  rowsOut,
		}
		report.Components = append(report.Components, result)

		log.Info().
			Str("run_id", state.RunID).
			Str("component", result.Name).
			Dur("duration", result.Duration).
			Int("rows_in", result.RowsIn).
			Int("rows_out", result.RowsOut).
			Msg("component complete")
	}

	if err := r.runs.MarkRunSucceeded(ctx, state.RunID); err != nil {
		return nil, fmt.Errorf("Run: recording run success: %w", err)
	}

	report.FinishedAt = time.Now()
	report.Duration = report.FinishedAt.Sub(report.StartedAt)

	log.Info().
		Str("run_id", state.RunID).
		Dur("duration", report.Duration).
		Msg("conformance run succeeded")

	return report, nil
}
