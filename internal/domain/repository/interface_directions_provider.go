package repository

import (
	"context"

	"github.com/XiupingWu/CubbiDriver/internal/domain/model"
)

// DirectionsProvider issues the single outbound call to the external
// directions service. Implementations make exactly one attempt; retries
// and circuit breaking are the caller's problem (and currently nobody's).
type DirectionsProvider interface {
	// GetOptimizedRoute asks the provider for a route through
	// req.Waypoints with reordering allowed. A ZERO_RESULTS answer is
	// returned as a success with no legs and no waypoint order.
	GetOptimizedRoute(ctx context.Context, req *model.DirectionsRequest) (*model.DirectionsResult, error)
}
