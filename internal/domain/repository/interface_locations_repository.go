package repository

import (
	"context"

	"github.com/XiupingWu/CubbiDriver/internal/domain/model"
)

// LocationsRepository reads and writes saved location rows. Table names
// are sanitized by the caller before they reach any implementation.
type LocationsRepository interface {
	// GetByIDs fetches every row whose id is in ids, in one query.
	GetByIDs(ctx context.Context, table string, ids []model.RecordID) ([]model.Location, error)
	// ListByTable returns every row of the table, newest first.
	ListByTable(ctx context.Context, table string) ([]model.Location, error)
	Create(ctx context.Context, table string, location *model.Location) error
	Update(ctx context.Context, table string, id model.RecordID, updates *model.UpdateLocationRequest) error
	Delete(ctx context.Context, table string, id model.RecordID) error
}
