package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/airwavehq/airwave/internal/model"
)

// matrixColumns is the column list for the matrices table.
const matrixColumns = `id, client_id, brief_id, name, slug, slots, fields, created_at, updated_at`

func queryCreateMatrix(ctx context.Context, db executor, m *model.Matrix) error {
	slots, err := json.Marshal(m.Slots)
	if err != nil {
		return fmt.Errorf("marshal slots: %w", err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO matrices (
			id, client_id, brief_id, name, slug, slots, fields, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)`,
		m.ID,
		m.ClientID,
		nullString(m.BriefID),
		m.Name,
		m.Slug,
		slots,
		jsonbBytes(m.Fields),
		m.CreatedAt,
		m.UpdatedAt,
	)
	return err
}

func queryGetMatrix(ctx context.Context, db executor, id string) (*model.Matrix, error) {
	row := db.QueryRowContext(ctx, `SELECT `+matrixColumns+` FROM matrices WHERE id = $1`, id)
	return scanMatrix(row)
}

func queryListMatrices(ctx context.Context, db executor, clientID string, limit, offset int) ([]*model.Matrix, int, error) {
	var b argBuilder
	where := ""
	if clientID != "" {
		where = " WHERE client_id = " + b.add(clientID)
	}

	query := "SELECT COUNT(*) OVER() AS total_count, " + matrixColumns + " FROM matrices" + where +
		" ORDER BY created_at DESC"
	if limit > 0 {
		query += " LIMIT " + b.add(limit)
	}
	if offset > 0 {
		query += " OFFSET " + b.add(offset)
	}

	rows, err := db.QueryContext(ctx, query, b.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list matrices: %w", err)
	}
	defer rows.Close()

	var matrices []*model.Matrix
	var total int
	for rows.Next() {
		m, t, err := scanMatrixWithTotal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan matrices: %w", err)
		}
		total = t
		matrices = append(matrices, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("scan matrices: %w", err)
	}

	return matrices, total, nil
}

func queryDeleteMatrix(ctx context.Context, db executor, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM matrices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return rowsAffectedOrNoRows(res)
}

func scanMatrixFields(row scannable, dests ...any) (*model.Matrix, error) {
	var m model.Matrix
	var (
		briefID sql.NullString
		slots   []byte
		fields  []byte
	)
	scanDests := append(dests,
		&m.ID,
		&m.ClientID,
		&briefID,
		&m.Name,
		&m.Slug,
		&slots,
		&fields,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err := row.Scan(scanDests...); err != nil {
		return nil, err
	}
	m.BriefID = briefID.String
	if len(slots) > 0 {
		if err := json.Unmarshal(slots, &m.Slots); err != nil {
			return nil, fmt.Errorf("unmarshal slots: %w", err)
		}
	}
	if len(fields) > 0 {
		m.Fields = json.RawMessage(fields)
	}
	return &m, nil
}

func scanMatrix(row scannable) (*model.Matrix, error) {
	return scanMatrixFields(row)
}

func scanMatrixWithTotal(row scannable) (*model.Matrix, int, error) {
	var total int
	m, err := scanMatrixFields(row, &total)
	if err != nil {
		return nil, 0, err
	}
	return m, total, nil
}
