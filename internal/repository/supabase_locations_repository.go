package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/XiupingWu/CubbiDriver/internal/domain/model"
	"github.com/XiupingWu/CubbiDriver/internal/domain/repository"
	"github.com/XiupingWu/CubbiDriver/internal/infrastructure/database"
)

// SupabaseLocationsRepository reads and writes saved locations through
// the Supabase REST layer.
type SupabaseLocationsRepository struct {
	client *database.SupabaseClient
}

func NewSupabaseLocationsRepository(client *database.SupabaseClient) repository.LocationsRepository {
	return &SupabaseLocationsRepository{
		client: client,
	}
}

func (r *SupabaseLocationsRepository) GetByIDs(ctx context.Context, table string, ids []model.RecordID) ([]model.Location, error) {
	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = string(id)
	}

	var locations []model.Location
	data, count, err := r.client.GetClient().From(table).Select("*", "exact", false).In("id", idStrings).Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch locations: %w", err)
	}
	_ = count

	if err := json.Unmarshal([]byte(data), &locations); err != nil {
		return nil, fmt.Errorf("failed to unmarshal location rows: %w", err)
	}

	return locations, nil
}

func (r *SupabaseLocationsRepository) ListByTable(ctx context.Context, table string) ([]model.Location, error) {
	var locations []model.Location
	data, count, err := r.client.GetClient().From(table).Select("*", "exact", false).Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	_ = count

	if err := json.Unmarshal([]byte(data), &locations); err != nil {
		return nil, fmt.Errorf("failed to unmarshal location rows: %w", err)
	}

	// Newest first, matching the app's list screens.
	sort.SliceStable(locations, func(i, j int) bool {
		a, b := locations[i].CreatedAt, locations[j].CreatedAt
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		return a.After(*b)
	})

	return locations, nil
}

func (r *SupabaseLocationsRepository) Create(ctx context.Context, table string, location *model.Location) error {
	data, err := json.Marshal(location)
	if err != nil {
		return fmt.Errorf("failed to marshal location: %w", err)
	}

	_, _, err = r.client.GetClient().From(table).Insert(string(data), false, "", "", "").Execute()
	if err != nil {
		return fmt.Errorf("failed to create location: %w", err)
	}

	return nil
}

func (r *SupabaseLocationsRepository) Update(ctx context.Context, table string, id model.RecordID, updates *model.UpdateLocationRequest) error {
	fields := updateFields(updates)
	if len(fields) == 0 {
		return nil
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to marshal location update: %w", err)
	}

	_, _, err = r.client.GetClient().From(table).Update(string(data), "", "").Eq("id", string(id)).Execute()
	if err != nil {
		return fmt.Errorf("failed to update location: %w", err)
	}

	return nil
}

func (r *SupabaseLocationsRepository) Delete(ctx context.Context, table string, id model.RecordID) error {
	_, _, err := r.client.GetClient().From(table).Delete("", "").Eq("id", string(id)).Execute()
	if err != nil {
		return fmt.Errorf("failed to delete location: %w", err)
	}

	return nil
}

// updateFields collects the non-nil fields of a partial update.
func updateFields(updates *model.UpdateLocationRequest) map[string]interface{} {
	fields := map[string]interface{}{}
	if updates.Name != nil {
		fields["name"] = *updates.Name
	}
	if updates.Address != nil {
		fields["address"] = *updates.Address
	}
	if updates.Latitude != nil {
		fields["latitude"] = *updates.Latitude
	}
	if updates.Longitude != nil {
		fields["longitude"] = *updates.Longitude
	}
	return fields
}
