package model

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// LatLng is a plain coordinate pair used for route requests and deep links.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// String renders the coordinate as "<lat>,<lng>", the format the
// Directions API and the Maps deep link expect. Trailing zeros are
// dropped so that equal coordinates always produce equal strings.
func (p LatLng) String() string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lng, 'f', -1, 64)
}

// RecordID is an opaque row identifier. Supabase may hand identifiers
// back as JSON numbers or strings depending on the column type, so the
// type normalizes both to a string and all comparisons in the pipeline
// are string comparisons.
type RecordID string

func (id *RecordID) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		*id = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*id = RecordID(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = RecordID(n.String())
	return nil
}

// Location is one saved pickup/delivery address row. The backing store
// owns these records; the route pipeline treats them as read-only and
// fetches them fresh on every request.
type Location struct {
	ID        RecordID   `json:"id"`
	Name      string     `json:"name"`
	Address   string     `json:"address"`
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	// DistanceMeters is filled in by the listing endpoint when the caller
	// supplies its position. Never stored.
	DistanceMeters *int `json:"distance_meters,omitempty"`
}

// ToLatLng returns the record's coordinates.
func (l *Location) ToLatLng() LatLng {
	return LatLng{Lat: l.Latitude, Lng: l.Longitude}
}

// Waypoint is a resolved, coordinate-bearing view of one intermediate
// stop. It pairs the stable record id with the coordinates sent to the
// Directions API, so that the optimizer's positional indices can be
// mapped back to ids.
type Waypoint struct {
	ID  RecordID
	Lat float64
	Lng float64
}

// ToLatLng returns the waypoint's coordinates.
func (w Waypoint) ToLatLng() LatLng {
	return LatLng{Lat: w.Lat, Lng: w.Lng}
}

// AddLocationRequest is the body of POST /api/locations.
type AddLocationRequest struct {
	Table     string  `json:"table"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// UpdateLocationRequest carries a partial update; nil fields are left
// untouched.
type UpdateLocationRequest struct {
	Name      *string  `json:"name,omitempty"`
	Address   *string  `json:"address,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}
