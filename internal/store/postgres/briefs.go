package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/airwavehq/airwave/internal/model"
)

// briefColumns is the column list used for SELECT statements on the briefs table.
const briefColumns = `id, client_id, title, document_name, document_type, raw_content,
	status, objective, target_audience, key_messages, platforms, budget, timeline,
	created_at, updated_at`

var briefSortColumns = map[string]bool{
	"title": true, "status": true, "created_at": true, "updated_at": true,
}

func queryCreateBrief(ctx context.Context, db executor, b *model.Brief) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO briefs (
			id, client_id, title, document_name, document_type, raw_content,
			status, objective, target_audience, key_messages, platforms, budget, timeline,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12, $13,
			$14, $15
		)`,
		b.ID,
		b.ClientID,
		b.Title,
		nullString(b.DocumentName),
		nullString(b.DocumentType),
		nullString(b.RawContent),
		string(b.Status),
		nullString(b.Objective),
		nullString(b.TargetAudience),
		jsonbValue(b.KeyMessages),
		jsonbValue(b.Platforms),
		nullString(b.Budget),
		nullString(b.Timeline),
		b.CreatedAt,
		b.UpdatedAt,
	)
	return err
}

func queryGetBrief(ctx context.Context, db executor, id string) (*model.Brief, error) {
	row := db.QueryRowContext(ctx, `SELECT `+briefColumns+` FROM briefs WHERE id = $1`, id)
	return scanBrief(row)
}

func queryListBriefs(ctx context.Context, db executor, filter model.BriefFilter) ([]*model.Brief, int, error) {
	var (
		whereClauses []string
		b            argBuilder
	)

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
	if filter.Search != "" {
		p := b.add(filter.Search)
		whereClauses = append(whereClauses,
			fmt.Sprintf("(title ILIKE '%%' || %s || '%%' OR objective ILIKE '%%' || %s || '%%')", p, p))
	}

	whereSQL := ""
	if len(whereClauses) > 0 {
		whereSQL = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	query := "SELECT COUNT(*) OVER() AS total_count, " + briefColumns + " FROM briefs" + whereSQL +
		" ORDER BY " + parseSortClause(filter.Sort, "created_at DESC", briefSortColumns)
	if filter.Limit > 0 {
		query += " LIMIT " + b.add(filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET " + b.add(filter.Offset)
	}

	rows, err := db.QueryContext(ctx, query, b.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list briefs: %w", err)
	}
	defer rows.Close()

	var briefs []*model.Brief
	var total int
	for rows.Next() {
		br, t, err := scanBriefWithTotal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan briefs: %w", err)
		}
		total = t
		briefs = append(briefs, br)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("scan briefs: %w", err)
	}

	return briefs, total, nil
}

func queryUpdateBrief(ctx context.Context, db executor, b *model.Brief) error {
	return db.QueryRowContext(ctx, `
		UPDATE briefs SET
			title = $2,
			document_name = $3,
			document_type = $4,
			raw_content = $5,
			status = $6,
			objective = $7,
			target_audience = $8,
			key_messages = $9,
			platforms = $10,
			budget = $11,
			timeline = $12,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		b.ID,
		b.Title,
		nullString(b.DocumentName),
		nullString(b.DocumentType),
		nullString(b.RawContent),
		string(b.Status),
		nullString(b.Objective),
		nullString(b.TargetAudience),
		jsonbValue(b.KeyMessages),
		jsonbValue(b.Platforms),
		nullString(b.Budget),
		nullString(b.Timeline),
	).Scan(&b.UpdatedAt)
}

func queryDeleteBrief(ctx context.Context, db executor, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM briefs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return rowsAffectedOrNoRows(res)
}

func scanBriefFields(row scannable, dests ...any) (*model.Brief, error) {
	var b model.Brief
	var (
		documentName   sql.NullString
		documentType   sql.NullString
		rawContent     sql.NullString
		objective      sql.NullString
		targetAudience sql.NullString
		keyMessages    []byte
		platforms      []byte
		budget         sql.NullString
		timeline       sql.NullString
	)
	scanDests := append(dests,
		&b.ID,
		&b.ClientID,
		&b.Title,
		&documentName,
		&documentType,
		&rawContent,
		&b.Status,
		&objective,
		&targetAudience,
		&keyMessages,
		&platforms,
		&budget,
		&timeline,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err := row.Scan(scanDests...); err != nil {
		return nil, err
	}
	b.DocumentName = documentName.String
	b.DocumentType = documentType.String
	b.RawContent = rawContent.String
	b.Objective = objective.String
	b.TargetAudience = targetAudience.String
	b.KeyMessages = unmarshalStrings(keyMessages)
	b.Platforms = unmarshalStrings(platforms)
	b.Budget = budget.String
	b.Timeline = timeline.String
	return &b, nil
}

func scanBrief(row scannable) (*model.Brief, error) {
	return scanBriefFields(row)
}

func scanBriefWithTotal(row scannable) (*model.Brief, int, error) {
	var total int
	b, err := scanBriefFields(row, &total)
	if err != nil {
		return nil, 0, err
	}
	return b, total, nil
}
