package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/airwavehq/airwave/internal/model"
)

func queryRecordUsage(ctx context.Context, db executor, u *model.UsageRecord) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO usage_records (
			id, service, model, operation, input_tokens, output_tokens, cost, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)`,
		u.ID,
		u.Service,
		nullString(u.Model),
		nullString(u.Operation),
		u.InputTokens,
		u.OutputTokens,
		u.Cost,
		u.CreatedAt,
	)
	return err
}

// querySumMonthlyCost totals spend for a service within the calendar month
// containing the given time.
func querySumMonthlyCost(ctx context.Context, db executor, service string, month time.Time) (float64, error) {
	var total float64
	err := db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(cost), 0)
		FROM usage_records
		WHERE service = $1
		  AND date_trunc('month', created_at) = date_trunc('month', $2::timestamptz)`,
		service, month,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum monthly cost: %w", err)
	}
	return total, nil
}

func queryRecordEvent(ctx context.Context, db executor, e *model.Event) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO events (topic, entity_id, actor, payload, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at`,
		e.Topic,
		e.EntityID,
		nullString(e.Actor),
		jsonbBytes(e.Payload),
	).Scan(&e.ID, &e.CreatedAt)
}

func queryGetEvents(ctx context.Context, db executor, entityID string) ([]*model.Event, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, topic, entity_id, actor, payload, created_at
		FROM events
		WHERE entity_id = $1
		ORDER BY id ASC`,
		entityID,
	)
	if err != nil {
		return nil, fmt.Errorf("get events: %w", err)
	}
	defer rows.Close()

	var events []*model.Event
	for rows.Next() {
		var e model.Event
		var actor sql.NullString
		var payload []byte
		if err := rows.Scan(&e.ID, &e.Topic, &e.EntityID, &actor, &payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan events: %w", err)
		}
		e.Actor = actor.String
		e.Payload = payload
		events = append(events, &e)
	}
	return events, rows.Err()
}
