package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/XiupingWu/CubbiDriver/internal/domain/model"
	"github.com/XiupingWu/CubbiDriver/internal/domain/repository"
	"github.com/XiupingWu/CubbiDriver/internal/domain/service"
)

type RouteOptimizeUseCase interface {
	// OptimizeRoute resolves the requested stops, delegates ordering to
	// the directions provider and assembles the final visiting order,
	// trip metrics and deep link. The request must already be validated
	// and its table name sanitized.
	OptimizeRoute(ctx context.Context, req *model.RouteRequest) (*model.RouteResult, error)
}

type routeOptimizeUseCaseImpl struct {
	locationsRepo repository.LocationsRepository
	directions    repository.DirectionsProvider
}

func NewRouteOptimizeUseCase(locationsRepo repository.LocationsRepository, directions repository.DirectionsProvider) RouteOptimizeUseCase {
	return &routeOptimizeUseCaseImpl{
		locationsRepo: locationsRepo,
		directions:    directions,
	}
}

func (u *routeOptimizeUseCaseImpl) OptimizeRoute(ctx context.Context, req *model.RouteRequest) (*model.RouteResult, error) {
	// One query for the stops plus the destination record, each id once.
	rows, err := u.locationsRepo.GetByIDs(ctx, req.Table, fetchIDs(req))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve locations: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("no rows returned")
	}

	waypoints, err := service.BuildWaypoints(req.IDs, rows)
	if err != nil {
		return nil, err
	}

	origin, err := resolveOrigin(req, waypoints)
	if err != nil {
		return nil, err
	}
	destination, err := resolveDestination(req, rows, waypoints)
	if err != nil {
		return nil, err
	}

	filtered := service.FilterWaypoints(waypoints, origin, destination)
	filteredCoords := make([]model.LatLng, len(filtered))
	for i, w := range filtered {
		filteredCoords[i] = w.ToLatLng()
	}

	directions, err := u.directions.GetOptimizedRoute(ctx, &model.DirectionsRequest{
		Origin:      origin,
		Destination: destination,
		Waypoints:   filteredCoords,
		Mode:        req.Mode(),
	})
	if err != nil {
		return nil, err
	}

	orderedIDs := service.ReconcileOrder(filtered, directions.WaypointOrder)
	orderedIDs = service.AppendDestination(orderedIDs, req)
	orderedIDs = service.DedupIDs(orderedIDs)

	totalDistance, totalDuration := service.SumLegs(directions.Legs)

	result := &model.RouteResult{
		OrderedIDs:           orderedIDs,
		OrderedLocations:     u.joinLocations(orderedIDs, rows, req),
		TotalDistanceMeters:  totalDistance,
		TotalDurationSeconds: totalDuration,
		MapsURL:              service.BuildMapsURL(origin, destination, req.Mode(), filteredCoords),
	}
	if req.ReturnDirections {
		result.Directions = directions.Raw
	}
	return result, nil
}

// fetchIDs is the union of the requested stops and the destination id,
// each included once.
func fetchIDs(req *model.RouteRequest) []model.RecordID {
	seen := make(map[string]bool, len(req.IDs)+1)
	ids := make([]model.RecordID, 0, len(req.IDs)+1)
	for _, id := range req.IDs {
		if id == "" || seen[string(id)] {
			continue
		}
		seen[string(id)] = true
		ids = append(ids, id)
	}
	if req.DestinationID != "" && !seen[string(req.DestinationID)] {
		ids = append(ids, req.DestinationID)
	}
	return ids
}

// resolveOrigin prefers the caller's live position; without one the
// first requested stop anchors the trip.
func resolveOrigin(req *model.RouteRequest, waypoints []model.Waypoint) (string, error) {
	if req.CurrentLocation != nil {
		return req.CurrentLocation.String(), nil
	}
	if len(waypoints) == 0 {
		return "", &model.BadRequestError{Message: "no waypoints to anchor the route"}
	}
	return waypoints[0].ToLatLng().String(), nil
}

// resolveDestination applies the precedence: explicit coordinates, then
// destinationId, then the last requested stop.
func resolveDestination(req *model.RouteRequest, rows []model.Location, waypoints []model.Waypoint) (string, error) {
	if req.Destination != nil {
		return req.Destination.String(), nil
	}
	if req.DestinationID != "" {
		row := service.FindLocationByID(rows, req.DestinationID)
		if row == nil {
			return "", &model.BadRequestError{Message: "destinationId not found"}
		}
		return row.ToLatLng().String(), nil
	}
	if len(waypoints) == 0 {
		return "", &model.BadRequestError{Message: "no waypoints to anchor the route"}
	}
	return waypoints[len(waypoints)-1].ToLatLng().String(), nil
}

// joinLocations maps the ordered ids back to full records. An id with
// no fetched row is dropped from the record list but stays in
// orderedIds. The only id that legitimately has no row is an ad-hoc
// destination; anything else means the store lost a row between fetch
// and use, which is worth a warning.
func (u *routeOptimizeUseCaseImpl) joinLocations(orderedIDs []model.RecordID, rows []model.Location, req *model.RouteRequest) []model.Location {
	locations := make([]model.Location, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		row := service.FindLocationByID(rows, id)
		if row == nil {
			if string(id) != string(req.DestinationID) {
				log.Printf("route-optimizer: id %s has no fetched record, dropping from orderedLocations", id)
			}
			continue
		}
		locations = append(locations, *row)
	}
	return locations
}
