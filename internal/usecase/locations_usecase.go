package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/XiupingWu/CubbiDriver/internal/domain/model"
	"github.com/XiupingWu/CubbiDriver/internal/domain/repository"
)

// LocationsUseCase manages the driver's saved pickup/delivery addresses.
type LocationsUseCase interface {
	// ListLocations returns the table's rows, newest first. When near is
	// given, each row is annotated with its straight-line distance in
	// meters from that position.
	ListLocations(ctx context.Context, table string, near *model.LatLng) ([]model.Location, error)
	AddLocation(ctx context.Context, req *model.AddLocationRequest) (*model.Location, error)
	UpdateLocation(ctx context.Context, table string, id model.RecordID, updates *model.UpdateLocationRequest) error
	RemoveLocation(ctx context.Context, table string, id model.RecordID) error
}

type locationsUseCaseImpl struct {
	locationsRepo repository.LocationsRepository
}

func NewLocationsUseCase(locationsRepo repository.LocationsRepository) LocationsUseCase {
	return &locationsUseCaseImpl{
		locationsRepo: locationsRepo,
	}
}

func (u *locationsUseCaseImpl) ListLocations(ctx context.Context, table string, near *model.LatLng) ([]model.Location, error) {
	locations, err := u.locationsRepo.ListByTable(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}

	if near != nil {
		from := orb.Point{near.Lng, near.Lat}
		for i := range locations {
			d := int(geo.Distance(from, orb.Point{locations[i].Longitude, locations[i].Latitude}))
			locations[i].DistanceMeters = &d
		}
	}

	return locations, nil
}

func (u *locationsUseCaseImpl) AddLocation(ctx context.Context, req *model.AddLocationRequest) (*model.Location, error) {
	if err := validateAddLocationRequest(req); err != nil {
		return nil, err
	}

	location := &model.Location{
		ID:        model.RecordID(uuid.New().String()),
		Name:      req.Name,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}

	table := model.SanitizeTableName(req.Table)
	if err := u.locationsRepo.Create(ctx, table, location); err != nil {
		return nil, fmt.Errorf("failed to add location: %w", err)
	}

	return location, nil
}

func (u *locationsUseCaseImpl) UpdateLocation(ctx context.Context, table string, id model.RecordID, updates *model.UpdateLocationRequest) error {
	if err := validateCoordinateUpdates(updates); err != nil {
		return err
	}
	if err := u.locationsRepo.Update(ctx, table, id, updates); err != nil {
		return fmt.Errorf("failed to update location: %w", err)
	}
	return nil
}

func (u *locationsUseCaseImpl) RemoveLocation(ctx context.Context, table string, id model.RecordID) error {
	if err := u.locationsRepo.Delete(ctx, table, id); err != nil {
		return fmt.Errorf("failed to remove location: %w", err)
	}
	return nil
}

func validateAddLocationRequest(req *model.AddLocationRequest) error {
	if model.SanitizeTableName(req.Table) == "" {
		return &model.BadRequestError{Message: "Invalid table name"}
	}
	if req.Name == "" {
		return &model.BadRequestError{Message: "name is required"}
	}
	if req.Address == "" {
		return &model.BadRequestError{Message: "address is required"}
	}
	if req.Latitude < -90 || req.Latitude > 90 {
		return &model.BadRequestError{Message: "latitude must be between -90 and 90"}
	}
	if req.Longitude < -180 || req.Longitude > 180 {
		return &model.BadRequestError{Message: "longitude must be between -180 and 180"}
	}
	return nil
}

func validateCoordinateUpdates(updates *model.UpdateLocationRequest) error {
	if updates.Latitude != nil && (*updates.Latitude < -90 || *updates.Latitude > 90) {
		return &model.BadRequestError{Message: "latitude must be between -90 and 90"}
	}
	if updates.Longitude != nil && (*updates.Longitude < -180 || *updates.Longitude > 180) {
		return &model.BadRequestError{Message: "longitude must be between -180 and 180"}
	}
	return nil
}
