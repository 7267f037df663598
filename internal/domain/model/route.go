package model

import (
	"encoding/json"
	"regexp"
	"strings"
)

// MaxWaypoints is the Directions API limit on intermediate stops per
// request.
const MaxWaypoints = 12

// DefaultTravelMode is used when the request leaves travelMode empty.
const DefaultTravelMode = "driving"

// tablePattern keeps only characters that are safe in a table name.
var tablePattern = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// SanitizeTableName strips every character outside [A-Za-z0-9_] and
// lower-cases the rest. An empty result means the name was unusable.
func SanitizeTableName(table string) string {
	return strings.ToLower(tablePattern.ReplaceAllString(table, ""))
}

// RouteRequest is the body of POST /api/route-optimizer.
// IDs are the intermediate stops in the order the driver selected them.
type RouteRequest struct {
	Table            string     `json:"table"`
	IDs              []RecordID `json:"ids"`
	CurrentLocation  *LatLng    `json:"currentLocation"`
	Destination      *LatLng    `json:"destination"`
	DestinationID    RecordID   `json:"destinationId"`
	TravelMode       string     `json:"travelMode"`
	ReturnDirections bool       `json:"returnDirections"`
}

// Mode returns the requested travel mode, defaulting to driving.
func (r *RouteRequest) Mode() string {
	if r.TravelMode == "" {
		return DefaultTravelMode
	}
	return r.TravelMode
}

// RouteResult is the optimizer response. OrderedLocations[i] is the full
// record for OrderedIDs[i]; ids without a fetched record are dropped
// from OrderedLocations only.
type RouteResult struct {
	OrderedIDs           []RecordID      `json:"orderedIds"`
	OrderedLocations     []Location      `json:"orderedLocations"`
	TotalDistanceMeters  int             `json:"totalDistanceMeters"`
	TotalDurationSeconds int             `json:"totalDurationSeconds"`
	MapsURL              string          `json:"mapsUrl"`
	Directions           json.RawMessage `json:"directions,omitempty"`
}

// DirectionsRequest is the single outbound call to the directions
// provider. Origin and Destination are pre-serialized "<lat>,<lng>"
// strings; Waypoints is the filtered intermediate-stop list in its
// original order.
type DirectionsRequest struct {
	Origin      string
	Destination string
	Waypoints   []LatLng
	Mode        string
}

// DirectionsLeg is one leg of the provider's first route.
type DirectionsLeg struct {
	DistanceMeters  int
	DurationSeconds int
}

// DirectionsResult is the parsed provider response. WaypointOrder holds
// positional indices into the filtered waypoint list that was sent; it
// is empty when the provider returned no route (ZERO_RESULTS) or no
// waypoints were sent. Raw preserves the full payload for callers that
// asked for it.
type DirectionsResult struct {
	Status        string
	WaypointOrder []int
	Legs          []DirectionsLeg
	Raw           json.RawMessage
}
