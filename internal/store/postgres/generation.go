package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/airwavehq/airwave/internal/model"
)

// motivationColumns is the column list for the motivations table.
const motivationColumns = `id, brief_id, client_id, title, description, category,
	relevance, reasoning, selected, source, created_at`

// copyColumns is the column list for the copy_variants table.
const copyColumns = `id, motivation_id, brief_id, client_id, platform, tone,
	headline, body, call_to_action, word_count, selected, created_at`

func queryCreateMotivations(ctx context.Context, db executor, ms []*model.Motivation) error {
	for _, m := range ms {
		_, err := db.ExecContext(ctx, `
			INSERT INTO motivations (
				id, brief_id, client_id, title, description, category,
				relevance, reasoning, selected, source, created_at
			) VALUES (
				$1, $2, $3, $4, $5, $6,
				$7, $8, $9, $10, $11
			)`,
			m.ID,
			m.BriefID,
			m.ClientID,
			m.Title,
			nullString(m.Description),
			nullString(m.Category),
			m.Relevance,
			nullString(m.Reasoning),
			m.Selected,
			string(m.Source),
			m.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert motivation %s: %w", m.ID, err)
		}
	}
	return nil
}

func queryGetMotivation(ctx context.Context, db executor, id string) (*model.Motivation, error) {
	row := db.QueryRowContext(ctx, `SELECT `+motivationColumns+` FROM motivations WHERE id = $1`, id)
	return scanMotivation(row)
}

func queryListMotivations(ctx context.Context, db executor, filter model.MotivationFilter) ([]*model.Motivation, error) {
	var (
		whereClauses []string
		b            argBuilder
	)
	if filter.BriefID != "" {
		whereClauses = append(whereClauses, "brief_id = "+b.add(filter.BriefID))
	}
	if filter.ClientID != "" {
		whereClauses = append(whereClauses, "client_id = "+b.add(filter.ClientID))
	}
	if filter.Selected != nil {
		whereClauses = append(whereClauses, "selected = "+b.add(*filter.Selected))
	}

	query := `SELECT ` + motivationColumns + ` FROM motivations`
	if len(whereClauses) > 0 {
		query += " WHERE " + strings.Join(whereClauses, " AND ")
	}
	query += " ORDER BY relevance DESC, created_at ASC"
	if filter.Limit > 0 {
		query += " LIMIT " + b.add(filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET " + b.add(filter.Offset)
	}

	rows, err := db.QueryContext(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("list motivations: %w", err)
	}
	defer rows.Close()

	var motivations []*model.Motivation
	for rows.Next() {
		m, err := scanMotivation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan motivations: %w", err)
		}
		motivations = append(motivations, m)
	}
	return motivations, rows.Err()
}

func querySetMotivationSelected(ctx context.Context, db executor, id string, selected bool) error {
	res, err := db.ExecContext(ctx,
		`UPDATE motivations SET selected = $2 WHERE id = $1`, id, selected)
	if err != nil {
		return err
	}
	return rowsAffectedOrNoRows(res)
}

func queryCreateCopyVariants(ctx context.Context, db executor, cs []*model.CopyVariant) error {
	for _, c := range cs {
		_, err := db.ExecContext(ctx, `
			INSERT INTO copy_variants (
				id, motivation_id, brief_id, client_id, platform, tone,
				headline, body, call_to_action, word_count, selected, created_at
			) VALUES (
				$1, $2, $3, $4, $5, $6,
				$7, $8, $9, $10, $11, $12
			)`,
			c.ID,
			c.MotivationID,
			c.BriefID,
			c.ClientID,
			c.Platform,
			nullString(c.Tone),
			c.Headline,
			nullString(c.Body),
			nullString(c.CallToAction),
			c.WordCount,
			c.Selected,
			c.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert copy variant %s: %w", c.ID, err)
		}
	}
	return nil
}

func queryGetCopyVariant(ctx context.Context, db executor, id string) (*model.CopyVariant, error) {
	row := db.QueryRowContext(ctx, `SELECT `+copyColumns+` FROM copy_variants WHERE id = $1`, id)
	return scanCopyVariant(row)
}

func queryListCopyVariants(ctx context.Context, db executor, filter model.CopyFilter) ([]*model.CopyVariant, error) {
	var (
		whereClauses []string
		b            argBuilder
	)
	if filter.BriefID != "" {
		whereClauses = append(whereClauses, "brief_id = "+b.add(filter.BriefID))
	}
	if filter.MotivationID != "" {
		whereClauses = append(whereClauses, "motivation_id = "+b.add(filter.MotivationID))
	}
	if filter.ClientID != "" {
		whereClauses = append(whereClauses, "client_id = "+b.add(filter.ClientID))
	}
	if filter.Platform != "" {
		whereClauses = append(whereClauses, "platform = "+b.add(filter.Platform))
	}
	if filter.Selected != nil {
		whereClauses = append(whereClauses, "selected = "+b.add(*filter.Selected))
	}

	query := `SELECT ` + copyColumns + ` FROM copy_variants`
	if len(whereClauses) > 0 {
		query += " WHERE " + strings.Join(whereClauses, " AND ")
	}
	query += " ORDER BY created_at ASC"
	if filter.Limit > 0 {
		query += " LIMIT " + b.add(filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET " + b.add(filter.Offset)
	}

	rows, err := db.QueryContext(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("list copy variants: %w", err)
	}
	defer rows.Close()

	var variants []*model.CopyVariant
	for rows.Next() {
		c, err := scanCopyVariant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan copy variants: %w", err)
		}
		variants = append(variants, c)
	}
	return variants, rows.Err()
}

func querySetCopyVariantSelected(ctx context.Context, db executor, id string, selected bool) error {
	res, err := db.ExecContext(ctx,
		`UPDATE copy_variants SET selected = $2 WHERE id = $1`, id, selected)
	if err != nil {
		return err
	}
	return rowsAffectedOrNoRows(res)
}

func scanMotivation(row scannable) (*model.Motivation, error) {
	var m model.Motivation
	var (
		description sql.NullString
		category    sql.NullString
		reasoning   sql.NullString
	)
	err := row.Scan(
		&m.ID,
		&m.BriefID,
		&m.ClientID,
		&m.Title,
		&description,
		&category,
		&m.Relevance,
		&reasoning,
		&m.Selected,
		&m.Source,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Description = description.String
	m.Category = category.String
	m.Reasoning = reasoning.String
	return &m, nil
}

func scanCopyVariant(row scannable) (*model.CopyVariant, error) {
	var c model.CopyVariant
	var (
		tone         sql.NullString
		body         sql.NullString
		callToAction sql.NullString
	)
	err := row.Scan(
		&c.ID,
		&c.MotivationID,
		&c.BriefID,
		&c.ClientID,
		&c.Platform,
		&tone,
		&c.Headline,
		&body,
		&callToAction,
		&c.WordCount,
		&c.Selected,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Tone = tone.String
	c.Body = body.String
	c.CallToAction = callToAction.String
	return &c, nil
}
