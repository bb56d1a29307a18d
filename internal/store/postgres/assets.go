package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/airwavehq/airwave/internal/model"
)

// assetColumns is the column list for the assets table.
const assetColumns = `id, client_id, name, kind, content_type, size_bytes,
	storage_key, url, thumbnail_url, tags, metadata, created_at, updated_at`

var assetSortColumns = map[string]bool{
	"name": true, "kind": true, "size_bytes": true, "created_at": true, "updated_at": true,
}

func queryCreateAsset(ctx context.Context, db executor, a *model.Asset) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO assets (
			id, client_id, name, kind, content_type, size_bytes,
			storage_key, url, thumbnail_url, tags, metadata, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12, $13
		)`,
		a.ID,
		a.ClientID,
		a.Name,
		string(a.Kind),
		a.ContentType,
		a.SizeBytes,
		a.StorageKey,
		nullString(a.URL),
		nullString(a.ThumbnailURL),
		jsonbValue(a.Tags),
		jsonbBytes(a.Metadata),
		a.CreatedAt,
		a.UpdatedAt,
	)
	return err
}

func queryGetAsset(ctx context.Context, db executor, id string) (*model.Asset, error) {
	row := db.QueryRowContext(ctx, `SELECT `+assetColumns+` FROM assets WHERE id = $1`, id)
	return scanAsset(row)
}

func queryListAssets(ctx context.Context, db executor, filter model.AssetFilter) ([]*model.Asset, int, error) {
	var (
		whereClauses []string
		b            argBuilder
	)

	if filter.ClientID != "" {
		whereClauses = append(whereClauses, "client_id = "+b.add(filter.ClientID))
	}
	if len(filter.Kind) > 0 {
		placeholders := make([]string, len(filter.Kind))
		for i, k := range filter.Kind {
			placeholders[i] = b.add(string(k))
		}
		whereClauses = append(whereClauses, "kind IN ("+strings.Join(placeholders, ", ")+")")
	}
	for _, tag := range filter.Tags {
		p := b.add(tag)
		whereClauses = append(whereClauses, fmt.Sprintf("tags @> to_jsonb(ARRAY[%s::text])", p))
	}
	if filter.Search != "" {
		p := b.add(filter.Search)
		whereClauses = append(whereClauses, fmt.Sprintf("name ILIKE '%%' || %s || '%%'", p))
	}

	whereSQL := ""
	if len(whereClauses) > 0 {
		whereSQL = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	query := "SELECT COUNT(*) OVER() AS total_count, " + assetColumns + " FROM assets" + whereSQL +
		" ORDER BY " + parseSortClause(filter.Sort, "created_at DESC", assetSortColumns)
	if filter.Limit > 0 {
		query += " LIMIT " + b.add(filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET " + b.add(filter.Offset)
	}

	rows, err := db.QueryContext(ctx, query, b.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var assets []*model.Asset
	var total int
	for rows.Next() {
		a, t, err := scanAssetWithTotal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan assets: %w", err)
		}
		total = t
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("scan assets: %w", err)
	}

	return assets, total, nil
}

func queryDeleteAsset(ctx context.Context, db executor, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return rowsAffectedOrNoRows(res)
}

func scanAssetFields(row scannable, dests ...any) (*model.Asset, error) {
	var a model.Asset
	var (
		url          sql.NullString
		thumbnailURL sql.NullString
		tags         []byte
		metadata     []byte
	)
	scanDests := append(dests,
		&a.ID,
		&a.ClientID,
		&a.Name,
		&a.Kind,
		&a.ContentType,
		&a.SizeBytes,
		&a.StorageKey,
		&url,
		&thumbnailURL,
		&tags,
		&metadata,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err := row.Scan(scanDests...); err != nil {
		return nil, err
	}
	a.URL = url.String
	a.ThumbnailURL = thumbnailURL.String
	a.Tags = unmarshalStrings(tags)
	if len(metadata) > 0 {
		a.Metadata = json.RawMessage(metadata)
	}
	return &a, nil
}

func scanAsset(row scannable) (*model.Asset, error) {
	return scanAssetFields(row)
}

func scanAssetWithTotal(row scannable) (*model.Asset, int, error) {
	var total int
	a, err := scanAssetFields(row, &total)
	if err != nil {
		return nil, 0, err
	}
	return a, total, nil
}
