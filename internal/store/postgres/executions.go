package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/airwavehq/airwave/internal/model"
)

// executionColumns is the column list for the executions table.
const executionColumns = `id, matrix_id, client_id, combination, platform, status,
	render_job_id, output_url, error, metadata, created_at, updated_at, completed_at`

var executionSortColumns = map[string]bool{
	"status": true, "platform": true, "created_at": true, "updated_at": true, "completed_at": true,
}

func queryCreateExecutions(ctx context.Context, db executor, es []*model.Execution) error {
	for _, e := range es {
		combination, err := json.Marshal(e.Combination)
		if err != nil {
			return fmt.Errorf("marshal combination: %w", err)
		}
		_, err = db.ExecContext(ctx, `
			INSERT INTO executions (
				id, matrix_id, client_id, combination, platform, status,
				render_job_id, output_url, error, metadata, created_at, updated_at, completed_at
			) VALUES (
				$1, $2, $3, $4, $5, $6,
				$7, $8, $9, $10, $11, $12, $13
			)`,
			e.ID,
			e.MatrixID,
			e.ClientID,
			combination,
			nullString(e.Platform),
			string(e.Status),
			nullString(e.RenderJobID),
			nullString(e.OutputURL),
			nullString(e.Error),
			jsonbBytes(e.Metadata),
			e.CreatedAt,
			e.UpdatedAt,
			nullTimePtr(e.CompletedAt),
		)
		if err != nil {
			return fmt.Errorf("insert execution %s: %w", e.ID, err)
		}
	}
	return nil
}

func queryGetExecution(ctx context.Context, db executor, id string) (*model.Execution, error) {
	row := db.QueryRowContext(ctx, `SELECT `+executionColumns+` FROM executions WHERE id = $1`, id)
	return scanExecution(row)
}

func queryListExecutions(ctx context.Context, db executor, filter model.ExecutionFilter) ([]*model.Execution, int, error) {
	var (
		whereClauses []string
		b            argBuilder
	)

	if filter.MatrixID != "" {
		whereClauses = append(whereClauses, "matrix_id = "+b.add(filter.MatrixID))
	}
	if filter.ClientID != "" {
		whereClauses = append(whereClauses, "client_id = "+b.add(filter.ClientID))
	}
	if len(filter.Status) > 0 {
		placeholders := make([]string, len(filter.Status))
		for i, s := range filter.Status {
			placeholders[i] = b.add(string(s))
		}
		whereClauses = append(whereClauses, "status IN ("+strings.Join(placeholders, ", ")+")")
	}

	whereSQL := ""
	if len(whereClauses) > 0 {
		whereSQL = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	query := "SELECT COUNT(*) OVER() AS total_count, " + executionColumns + " FROM executions" + whereSQL +
		" ORDER BY " + parseSortClause(filter.Sort, "created_at DESC", executionSortColumns)
	if filter.Limit > 0 {
		query += " LIMIT " + b.add(filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET " + b.add(filter.Offset)
	}

	rows, err := db.QueryContext(ctx, query, b.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list executions: %w", err)
	}
	defer rows.Close()

	var executions []*model.Execution
	var total int
	for rows.Next() {
		e, t, err := scanExecutionWithTotal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan executions: %w", err)
		}
		total = t
		executions = append(executions, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("scan executions: %w", err)
	}

	return executions, total, nil
}

// queryQueueExecution moves pending → queued. The status guard in the WHERE
// clause makes re-queueing a non-pending execution report sql.ErrNoRows.
func queryQueueExecution(ctx context.Context, db executor, id string) (*model.Execution, error) {
	row := db.QueryRowContext(ctx, `
		UPDATE executions
		SET status = 'queued', updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING `+executionColumns,
		id,
	)
	return scanExecution(row)
}

// queryClaimExecution atomically moves queued → processing so concurrent
// workers cannot claim the same execution twice.
func queryClaimExecution(ctx context.Context, db executor, id string) (*model.Execution, error) {
	row := db.QueryRowContext(ctx, `
		UPDATE executions
		SET status = 'processing', updated_at = NOW()
		WHERE id = $1 AND status = 'queued'
		RETURNING `+executionColumns,
		id,
	)
	return scanExecution(row)
}

func queryCompleteExecution(ctx context.Context, db executor, id, renderJobID, outputURL string) (*model.Execution, error) {
	row := db.QueryRowContext(ctx, `
		UPDATE executions
		SET status = 'completed', render_job_id = $2, output_url = $3, error = NULL,
			updated_at = NOW(), completed_at = NOW()
		WHERE id = $1 AND status = 'processing'
		RETURNING `+executionColumns,
		id, nullString(renderJobID), nullString(outputURL),
	)
	return scanExecution(row)
}

func queryFailExecution(ctx context.Context, db executor, id, renderJobID, message string) (*model.Execution, error) {
	row := db.QueryRowContext(ctx, `
		UPDATE executions
		SET status = 'failed', render_job_id = $2, error = $3,
			updated_at = NOW(), completed_at = NOW()
		WHERE id = $1 AND status = 'processing'
		RETURNING `+executionColumns,
		id, nullString(renderJobID), nullString(message),
	)
	return scanExecution(row)
}

func querySetExecutionMetadata(ctx context.Context, db executor, id string, metadata []byte) error {
	res, err := db.ExecContext(ctx,
		`UPDATE executions SET metadata = $2, updated_at = NOW() WHERE id = $1`,
		id, metadata)
	if err != nil {
		return err
	}
	return rowsAffectedOrNoRows(res)
}

func queryExecutionStats(ctx context.Context, db executor) (*model.ExecutionStats, error) {
	stats := &model.ExecutionStats{}
	err := db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'queued' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'processing' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0)
		FROM executions`).Scan(
		&stats.TotalPending,
		&stats.TotalQueued,
		&stats.TotalProcessing,
		&stats.TotalCompleted,
		&stats.TotalFailed,
	)
	if err != nil {
		return nil, fmt.Errorf("execution stats: %w", err)
	}
	return stats, nil
}

func scanExecutionFields(row scannable, dests ...any) (*model.Execution, error) {
	var e model.Execution
	var (
		combination []byte
		platform    sql.NullString
		renderJobID sql.NullString
		outputURL   sql.NullString
		errMsg      sql.NullString
		metadata    []byte
		completedAt sql.NullTime
	)
	scanDests := append(dests,
		&e.ID,
		&e.MatrixID,
		&e.ClientID,
		&combination,
		&platform,
		&e.Status,
		&renderJobID,
		&outputURL,
		&errMsg,
		&metadata,
		&e.CreatedAt,
		&e.UpdatedAt,
		&completedAt,
	)
	if err := row.Scan(scanDests...); err != nil {
		return nil, err
	}
	if len(combination) > 0 {
		if err := json.Unmarshal(combination, &e.Combination); err != nil {
			return nil, fmt.Errorf("unmarshal combination: %w", err)
		}
	}
	e.Platform = platform.String
	e.RenderJobID = renderJobID.String
	e.OutputURL = outputURL.String
	e.Error = errMsg.String
	if len(metadata) > 0 {
		e.Metadata = json.RawMessage(metadata)
	}
	if completedAt.Valid {
		t := completedAt.Time
		e.CompletedAt = &t
	}
	return &e, nil
}

func scanExecution(row scannable) (*model.Execution, error) {
	return scanExecutionFields(row)
}

func scanExecutionWithTotal(row scannable) (*model.Execution, int, error) {
	var total int
	e, err := scanExecutionFields(row, &total)
	if err != nil {
		return nil, 0, err
	}
	return e, total, nil
}
