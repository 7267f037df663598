package service

import (
	"fmt"
	"net/url"

	"github.com/XiupingWu/CubbiDriver/internal/domain/model"
)

// FindLocationByID looks a fetched row up by id. Comparison is by
// string equality, which also covers stores that return numeric ids.
func FindLocationByID(rows []model.Location, id model.RecordID) *model.Location {
	for i := range rows {
		if string(rows[i].ID) == string(id) {
			return &rows[i]
		}
	}
	return nil
}

// BuildWaypoints resolves each requested id to a coordinate-bearing
// waypoint, preserving the request order. An id with no fetched row is
// a caller error.
func BuildWaypoints(ids []model.RecordID, rows []model.Location) ([]model.Waypoint, error) {
	waypoints := make([]model.Waypoint, 0, len(ids))
	for _, id := range ids {
		row := FindLocationByID(rows, id)
		if row == nil {
			return nil, &model.BadRequestError{Message: fmt.Sprintf("Waypoint id %s not found", id)}
		}
		waypoints = append(waypoints, model.Waypoint{
			ID:  row.ID,
			Lat: row.Latitude,
			Lng: row.Longitude,
		})
	}
	return waypoints, nil
}

// FilterWaypoints drops every waypoint whose serialized coordinates
// equal the origin or destination string, so the provider is never
// asked to route through a point that is already an endpoint. The
// original order is preserved.
func FilterWaypoints(waypoints []model.Waypoint, origin, destination string) []model.Waypoint {
	filtered := make([]model.Waypoint, 0, len(waypoints))
	for _, w := range waypoints {
		coord := w.ToLatLng().String()
		if coord == origin || coord == destination {
			continue
		}
		filtered = append(filtered, w)
	}
	return filtered
}

// ReconcileOrder maps the provider's waypoint_order, whose entries are
// positional indices into the filtered list, back to record ids. With
// no waypoint_order (ZERO_RESULTS, or no waypoints sent) the filtered
// order stands. Out-of-range indices are skipped rather than trusted.
func ReconcileOrder(filtered []model.Waypoint, waypointOrder []int) []model.RecordID {
	ordered := make([]model.RecordID, 0, len(filtered))
	if len(waypointOrder) == 0 {
		for _, w := range filtered {
			ordered = append(ordered, w.ID)
		}
		return ordered
	}
	for _, idx := range waypointOrder {
		if idx < 0 || idx >= len(filtered) {
			continue
		}
		ordered = append(ordered, filtered[idx].ID)
	}
	return ordered
}

// AppendDestination pins the trip's final stop onto the ordered id list.
// An explicit coordinate destination has no tracked id, so nothing is
// appended. A destinationId always goes last. With neither, the last
// requested id is the inferred destination; it is appended only when
// the optimizer pool did not already place it.
func AppendDestination(ordered []model.RecordID, req *model.RouteRequest) []model.RecordID {
	if req.Destination != nil {
		return ordered
	}
	if req.DestinationID != "" {
		return append(ordered, req.DestinationID)
	}
	if len(req.IDs) == 0 {
		return ordered
	}
	last := req.IDs[len(req.IDs)-1]
	for _, id := range ordered {
		if string(id) == string(last) {
			return ordered
		}
	}
	return append(ordered, last)
}

// DedupIDs removes repeated ids, keeping the first occurrence of each.
func DedupIDs(ids []model.RecordID) []model.RecordID {
	seen := make(map[string]bool, len(ids))
	deduped := make([]model.RecordID, 0, len(ids))
	for _, id := range ids {
		if seen[string(id)] {
			continue
		}
		seen[string(id)] = true
		deduped = append(deduped, id)
	}
	return deduped
}

// SumLegs totals per-leg distance and duration of the provider's first
// route. No legs means a zero/zero trip.
func SumLegs(legs []model.DirectionsLeg) (distanceMeters, durationSeconds int) {
	for _, leg := range legs {
		distanceMeters += leg.DistanceMeters
		durationSeconds += leg.DurationSeconds
	}
	return distanceMeters, durationSeconds
}

// BuildMapsURL builds the Google Maps deep link for the trip. Waypoints
// are passed in the filtered order: the dir/ URL format has no way to
// convey an explicit ordering, Maps re-optimizes on open.
func BuildMapsURL(origin, destination, mode string, waypoints []model.LatLng) string {
	params := url.Values{}
	params.Set("origin", origin)
	params.Set("destination", destination)
	params.Set("travelmode", mode)
	if len(waypoints) > 0 {
		joined := ""
		for i, p := range waypoints {
			if i > 0 {
				joined += "|"
			}
			joined += p.String()
		}
		params.Set("waypoints", joined)
	}
	return "https://www.google.com/maps/dir/?api=1&" + params.Encode()
}
