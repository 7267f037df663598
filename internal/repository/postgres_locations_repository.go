package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/XiupingWu/CubbiDriver/internal/domain/model"
	"github.com/XiupingWu/CubbiDriver/internal/domain/repository"
	"github.com/XiupingWu/CubbiDriver/internal/infrastructure/database"
)

// PostgresLocationsRepository talks to the Supabase Postgres instance
// directly. Table names are interpolated into the SQL text, which is
// safe only because every caller sanitizes them down to
// [a-z0-9_] first.
type PostgresLocationsRepository struct {
	client *database.PostgreSQLClient
}

func NewPostgresLocationsRepository(client *database.PostgreSQLClient) repository.LocationsRepository {
	return &PostgresLocationsRepository{
		client: client,
	}
}

const locationColumns = "id, name, address, latitude, longitude, created_at, updated_at"

func (r *PostgresLocationsRepository) GetByIDs(ctx context.Context, table string, ids []model.RecordID) ([]model.Location, error) {
	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = string(id)
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id::text = ANY($1)`, locationColumns, table)

	rows, err := r.client.DB.QueryContext(ctx, query, pq.Array(idStrings))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch locations: %w", err)
	}
	defer rows.Close()

	return scanLocations(rows)
}

func (r *PostgresLocationsRepository) ListByTable(ctx context.Context, table string) ([]model.Location, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY created_at DESC`, locationColumns, table)

	rows, err := r.client.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	defer rows.Close()

	return scanLocations(rows)
}

func (r *PostgresLocationsRepository) Create(ctx context.Context, table string, location *model.Location) error {
	query := fmt.Sprintf(
		`INSERT INTO %s (id, name, address, latitude, longitude) VALUES ($1, $2, $3, $4, $5)`,
		table,
	)

	_, err := r.client.DB.ExecContext(ctx, query,
		string(location.ID), location.Name, location.Address, location.Latitude, location.Longitude)
	if err != nil {
		return fmt.Errorf("failed to create location: %w", err)
	}

	return nil
}

func (r *PostgresLocationsRepository) Update(ctx context.Context, table string, id model.RecordID, updates *model.UpdateLocationRequest) error {
	fields := updateFields(updates)
	if len(fields) == 0 {
		return nil
	}

	assignments := make([]string, 0, len(fields))
	args := make([]interface{}, 0, len(fields)+1)
	i := 1
	for column, value := range fields {
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, i))
		args = append(args, value)
		i++
	}
	args = append(args, string(id))

	query := fmt.Sprintf(
		`UPDATE %s SET %s, updated_at = NOW() WHERE id::text = $%d`,
		table, strings.Join(assignments, ", "), i,
	)

	_, err := r.client.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update location: %w", err)
	}

	return nil
}

func (r *PostgresLocationsRepository) Delete(ctx context.Context, table string, id model.RecordID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id::text = $1`, table)

	_, err := r.client.DB.ExecContext(ctx, query, string(id))
	if err != nil {
		return fmt.Errorf("failed to delete location: %w", err)
	}

	return nil
}

func scanLocations(rows *sql.Rows) ([]model.Location, error) {
	var locations []model.Location
	for rows.Next() {
		var loc model.Location
		var id string
		var createdAt, updatedAt sql.NullTime
		if err := rows.Scan(&id, &loc.Name, &loc.Address, &loc.Latitude, &loc.Longitude, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan location row: %w", err)
		}
		loc.ID = model.RecordID(id)
		if createdAt.Valid {
			loc.CreatedAt = &createdAt.Time
		}
		if updatedAt.Valid {
			loc.UpdatedAt = &updatedAt.Time
		}
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read location rows: %w", err)
	}
	return locations, nil
}
