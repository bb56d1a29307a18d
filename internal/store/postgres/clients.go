package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/airwavehq/airwave/internal/model"
)

// clientColumns is the column list used for SELECT statements on the clients table.
const clientColumns = `id, name, slug, industry, description,
	primary_color, secondary_color, logo_asset_id, contacts, created_at, updated_at`

func queryCreateClient(ctx context.Context, db executor, c *model.Client) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO clients (
			id, name, slug, industry, description,
			primary_color, secondary_color, logo_asset_id, contacts, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10, $11
		)`,
		c.ID,
		c.Name,
		c.Slug,
		nullString(c.Industry),
		nullString(c.Description),
		nullString(c.PrimaryColor),
		nullString(c.SecondaryColor),
		nullString(c.LogoAssetID),
		jsonbValue(contactsOrNil(c.Contacts)),
		c.CreatedAt,
		c.UpdatedAt,
	)
	return err
}

func contactsOrNil(c model.Contacts) any {
	if len(c) == 0 {
		return nil
	}
	return c
}

func queryGetClient(ctx context.Context, db executor, id string) (*model.Client, error) {
	row := db.QueryRowContext(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id)
	return scanClient(row)
}

func queryGetClientBySlug(ctx context.Context, db executor, slug string) (*model.Client, error) {
	row := db.QueryRowContext(ctx, `SELECT `+clientColumns+` FROM clients WHERE slug = $1`, slug)
	return scanClient(row)
}

func queryListClients(ctx context.Context, db executor, search string, limit, offset int) ([]*model.Client, int, error) {
	var b argBuilder
	where := ""
	if search != "" {
		p := b.add(search)
		where = fmt.Sprintf(" WHERE (name ILIKE '%%' || %s || '%%' OR slug ILIKE '%%' || %s || '%%')", p, p)
	}

	query := "SELECT COUNT(*) OVER() AS total_count, " + clientColumns + " FROM clients" + where + " ORDER BY name ASC"
	if limit > 0 {
		query += " LIMIT " + b.add(limit)
	}
	if offset > 0 {
		query += " OFFSET " + b.add(offset)
	}

	rows, err := db.QueryContext(ctx, query, b.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var clients []*model.Client
	var total int
	for rows.Next() {
		c, t, err := scanClientWithTotal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan clients: %w", err)
		}
		total = t
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("scan clients: %w", err)
	}

	return clients, total, nil
}

func queryUpdateClient(ctx context.Context, db executor, c *model.Client) error {
	return db.QueryRowContext(ctx, `
		UPDATE clients SET
			name = $2,
			slug = $3,
			industry = $4,
			description = $5,
			primary_color = $6,
			secondary_color = $7,
			logo_asset_id = $8,
			contacts = $9,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		c.ID,
		c.Name,
		c.Slug,
		nullString(c.Industry),
		nullString(c.Description),
		nullString(c.PrimaryColor),
		nullString(c.SecondaryColor),
		nullString(c.LogoAssetID),
		jsonbValue(contactsOrNil(c.Contacts)),
	).Scan(&c.UpdatedAt)
}

func queryDeleteClient(ctx context.Context, db executor, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return rowsAffectedOrNoRows(res)
}

func scanClient(row scannable) (*model.Client, error) {
	var c model.Client
	var (
		industry       sql.NullString
		description    sql.NullString
		primaryColor   sql.NullString
		secondaryColor sql.NullString
		logoAssetID    sql.NullString
		contacts       []byte
	)
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Slug,
		&industry,
		&description,
		&primaryColor,
		&secondaryColor,
		&logoAssetID,
		&contacts,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Industry = industry.String
	c.Description = description.String
	c.PrimaryColor = primaryColor.String
	c.SecondaryColor = secondaryColor.String
	c.LogoAssetID = logoAssetID.String
	if len(contacts) > 0 {
		_ = json.Unmarshal(contacts, &c.Contacts)
	}
	return &c, nil
}

func scanClientWithTotal(row scannable) (*model.Client, int, error) {
	var total int
	var c model.Client
	var (
		industry       sql.NullString
		description    sql.NullString
		primaryColor   sql.NullString
		secondaryColor sql.NullString
		logoAssetID    sql.NullString
		contacts       []byte
	)
	err := row.Scan(
		&total,
		&c.ID,
		&c.Name,
		&c.Slug,
		&industry,
		&description,
		&primaryColor,
		&secondaryColor,
		&logoAssetID,
		&contacts,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, 0, err
	}
	c.Industry = industry.String
	c.Description = description.String
	c.PrimaryColor = primaryColor.String
	c.SecondaryColor = secondaryColor.String
	c.LogoAssetID = logoAssetID.String
	if len(contacts) > 0 {
		_ = json.Unmarshal(contacts, &c.Contacts)
	}
	return &c, total, nil
}
