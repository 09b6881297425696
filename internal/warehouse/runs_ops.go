package warehouse

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"

	"retaildwh/internal/logger"
)

// StartRun inserts a conformance_runs row with status=RUNNING. The insert
// runs as a DML query job rather than a streaming insert: the status updates
// below are DML, and BigQuery rejects DML against rows still sitting in the
// streaming buffer.
func (s *Store) StartRun(ctx context.Context, runID string, startedAt time.Time) error {
	q := s.client.Query(fmt.Sprintf(`
		INSERT INTO `+"`%s.%s.%s`"+` (run_id, started_ts, status)
		VALUES (@run_id, @started_ts, @status)
	`, s.projectID, s.dataset, runsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "run_id", Value: runID},
		{Name: "started_ts", Value: startedAt},
		{Name: "status", Value: RunStatusRunning},
	}

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("StartRun: running insert query: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("StartRun: waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("StartRun: job error: %w", err)
	}

	return nil
}

// MarkRunSucceeded updates a conformance_runs row to status=SUCCESS.
func (s *Store) MarkRunSucceeded(ctx context.Context, runID string) error {
	q := s.client.Query(fmt.Sprintf(`
		UPDATE `+"`%s.%s.%s`"+`
		SET status = @status,
		    finished_ts = @finished_ts,
		    error_message = ""
		WHERE run_id = @run_id
	`, s.projectID, s.dataset, runsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "status", Value: RunStatusSuccess},
		{Name: "finished_ts", Value: time.Now()},
		{Name: "run_id", Value: runID},
	}

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("MarkRunSucceeded: running update query: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("MarkRunSucceeded: waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("MarkRunSucceeded: job error: %w", err)
	}

	return nil
}

// MarkRunFailed updates a conformance_runs row to status=FAILED with the
// fault id and message. Best effort: failures here are logged, not returned,
// because the caller is already on a failing path.
func (s *Store) MarkRunFailed(ctx context.Context, runID, faultID string, runErr error) {
	log := logger.FromContext(ctx)

	errMsg := ""
	if runErr != nil {
		errMsg = runErr.Error()
		const maxLen = 2000
		if len(errMsg) > maxLen {
			errMsg = errMsg[:maxLen]
		}
	}

	q := s.client.Query(fmt.Sprintf(`
		UPDATE `+"`%s.%s.%s`"+`
		SET status = @status,
		    finished_ts = @finished_ts,
		    fault_id = @fault_id,
		    error_message = @error_message
		WHERE run_id = @run_id
	`, s.projectID, s.dataset, runsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "status", Value: RunStatusFailed},
		{Name: "finished_ts", Value: time.Now()},
		{Name: "fault_id", Value: faultID},
		{Name: "error_message", Value: errMsg},
		{Name: "run_id", Value: runID},
	}

	job, err := q.Run(ctx)
	if err != nil {
		log.Error().Err(err).Str("run_id", runID).Msg("MarkRunFailed: running update query")
		return
	}
	status, err := job.Wait(ctx)
	if err != nil {
		log.Error().Err(err).Str("run_id", runID).Msg("MarkRunFailed: waiting for job")
		return
	}
	if err := status.Err(); err != nil {
		log.Error().Err(err).Str("run_id", runID).Msg("MarkRunFailed: job completed with error")
	}
}
