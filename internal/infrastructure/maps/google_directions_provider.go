package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/XiupingWu/CubbiDriver/internal/domain/model"
	"github.com/XiupingWu/CubbiDriver/internal/domain/repository"
)

const directionsBaseURL = "https://maps.googleapis.com/maps/api/directions/json"

// Provider statuses that count as a successful call. ZERO_RESULTS is a
// valid "no route exists" answer, not a failure.
const (
	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
)

// GoogleDirectionsProvider calls the Google Maps Directions API with
// waypoint optimization enabled.
type GoogleDirectionsProvider struct {
	apiKey     string
	httpClient *http.Client
	// baseURL is the Directions endpoint. Overrideable in tests.
	baseURL string
}

// NewGoogleDirectionsProvider creates a new provider. The 10 second
// client timeout bounds the one outbound call; a stalled provider is
// reported as a provider failure instead of hanging the request.
func NewGoogleDirectionsProvider(apiKey string) *GoogleDirectionsProvider {
	return &GoogleDirectionsProvider{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    directionsBaseURL,
	}
}

// GetOptimizedRoute issues exactly one Directions request and parses the
// first route. No retries.
func (g *GoogleDirectionsProvider) GetOptimizedRoute(ctx context.Context, req *model.DirectionsRequest) (*model.DirectionsResult, error) {
	reqURL := g.buildURL(req)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create directions request: %w", err)
	}

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		// Covers timeouts as well; both belong to the provider-failure
		// class.
		return nil, &model.ProviderError{
			Message: fmt.Sprintf("Google Directions API error: %v", err),
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read directions response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &model.ProviderError{
			Message: fmt.Sprintf("Google Directions API error: %d", resp.StatusCode),
			Details: rawOrQuoted(body),
		}
	}

	var apiResp directionsResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to parse directions response: %w", err)
	}

	if apiResp.Status != statusOK && apiResp.Status != statusZeroResults {
		return nil, &model.ProviderError{
			Message: fmt.Sprintf("Google Directions error: %s", apiResp.Status),
			Details: rawOrQuoted(body),
		}
	}

	result := &model.DirectionsResult{
		Status: apiResp.Status,
		Raw:    json.RawMessage(body),
	}
	if len(apiResp.Routes) > 0 {
		first := apiResp.Routes[0]
		result.WaypointOrder = first.WaypointOrder
		for _, l := range first.Legs {
			result.Legs = append(result.Legs, model.DirectionsLeg{
				DistanceMeters:  l.Distance.Value,
				DurationSeconds: l.Duration.Value,
			})
		}
	}
	return result, nil
}

func (g *GoogleDirectionsProvider) buildURL(req *model.DirectionsRequest) string {
	params := url.Values{}
	params.Set("origin", req.Origin)
	params.Set("destination", req.Destination)
	params.Set("key", g.apiKey)
	params.Set("mode", req.Mode)

	// The optimize prefix lets the provider reorder the intermediate
	// stops but never the endpoints. Omitted entirely when every stop
	// was filtered out.
	if len(req.Waypoints) > 0 {
		points := make([]string, len(req.Waypoints))
		for i, p := range req.Waypoints {
			points[i] = p.String()
		}
		params.Set("waypoints", "optimize:true|"+strings.Join(points, "|"))
	}

	return fmt.Sprintf("%s?%s", g.baseURL, params.Encode())
}

// rawOrQuoted returns body as-is when it is already valid JSON, or as a
// JSON string otherwise, so ProviderError.Details always serializes.
func rawOrQuoted(body []byte) json.RawMessage {
	if len(body) == 0 {
		return nil
	}
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	quoted, _ := json.Marshal(string(body))
	return json.RawMessage(quoted)
}

var _ repository.DirectionsProvider = (*GoogleDirectionsProvider)(nil)

// --- Response structures for the Directions API payload ---

type directionsResponse struct {
	Routes       []directionsRoute `json:"routes"`
	Status       string            `json:"status"`
	ErrorMessage string            `json:"error_message,omitempty"`
}

type directionsRoute struct {
	Legs          []directionsLeg `json:"legs"`
	WaypointOrder []int           `json:"waypoint_order"`
}

type directionsLeg struct {
	Distance valueField `json:"distance"`
	Duration valueField `json:"duration"`
}

type valueField struct {
	Value int `json:"value"` // meters for distance, seconds for duration
}
