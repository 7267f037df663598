package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XiupingWu/CubbiDriver/internal/domain/model"
)

type fakeOptimizeUseCase struct {
	result  *model.RouteResult
	err     error
	lastReq *model.RouteRequest
}

func (f *fakeOptimizeUseCase) OptimizeRoute(ctx context.Context, req *model.RouteRequest) (*model.RouteResult, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func newOptimizerRouter(uc *fakeOptimizeUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method Not Allowed"})
	})
	r.POST("/api/route-optimizer", NewRouteOptimizerHandler(uc).PostRouteOptimizer)
	return r
}

func postOptimizer(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/route-optimizer", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestPostRouteOptimizer_MethodNotAllowed(t *testing.T) {
	r := newOptimizerRouter(&fakeOptimizeUseCase{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/route-optimizer", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.JSONEq(t, `{"error":"Method Not Allowed"}`, w.Body.String())
}

func TestPostRouteOptimizer_InvalidJSON(t *testing.T) {
	r := newOptimizerRouter(&fakeOptimizeUseCase{})

	w := postOptimizer(r, `{not json`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid JSON"}`, w.Body.String())
}

func TestPostRouteOptimizer_MissingFields(t *testing.T) {
	r := newOptimizerRouter(&fakeOptimizeUseCase{})

	bodies := []string{
		`{}`,
		`{"ids":["a"],"currentLocation":{"lat":1,"lng":1}}`,
		`{"table":"deliver_locations","currentLocation":{"lat":1,"lng":1}}`,
		`{"table":"deliver_locations","ids":[],"currentLocation":{"lat":1,"lng":1}}`,
		`{"table":"deliver_locations","ids":["a"]}`,
	}
	for _, body := range bodies {
		w := postOptimizer(r, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body: %s", body)
		assert.JSONEq(t, `{"error":"Missing required fields: table, ids, currentLocation"}`, w.Body.String())
	}
}

func TestPostRouteOptimizer_WaypointLimit(t *testing.T) {
	uc := &fakeOptimizeUseCase{result: &model.RouteResult{MapsURL: "https://www.google.com/maps/dir/?api=1"}}
	r := newOptimizerRouter(uc)

	makeBody := func(n int) string {
		ids := make([]string, n)
		for i := range ids {
			ids[i] = fmt.Sprintf(`"id-%d"`, i)
		}
		return fmt.Sprintf(`{"table":"deliver_locations","ids":[%s],"currentLocation":{"lat":1,"lng":1}}`, strings.Join(ids, ","))
	}

	t.Run("13 ids rejected", func(t *testing.T) {
		w := postOptimizer(r, makeBody(13))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Max 12 waypoints allowed"}`, w.Body.String())
	})

	t.Run("12 ids accepted", func(t *testing.T) {
		w := postOptimizer(r, makeBody(12))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestPostRouteOptimizer_InvalidTable(t *testing.T) {
	r := newOptimizerRouter(&fakeOptimizeUseCase{})

	w := postOptimizer(r, `{"table":"!!--","ids":["a"],"currentLocation":{"lat":1,"lng":1}}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid table name"}`, w.Body.String())
}

func TestPostRouteOptimizer_NormalizesTable(t *testing.T) {
	uc := &fakeOptimizeUseCase{result: &model.RouteResult{}}
	r := newOptimizerRouter(uc)

	w := postOptimizer(r, `{"table":"Deliver-Locations!","ids":["a"],"currentLocation":{"lat":1,"lng":1}}`)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, uc.lastReq)
	assert.Equal(t, "deliverlocations", uc.lastReq.Table)
}

func TestPostRouteOptimizer_Success(t *testing.T) {
	uc := &fakeOptimizeUseCase{result: &model.RouteResult{
		OrderedIDs:           []model.RecordID{"b", "a"},
		OrderedLocations:     []model.Location{{ID: "b", Name: "Stop B"}, {ID: "a", Name: "Stop A"}},
		TotalDistanceMeters:  1500,
		TotalDurationSeconds: 200,
		MapsURL:              "https://www.google.com/maps/dir/?api=1&origin=1%2C1",
	}}
	r := newOptimizerRouter(uc)

	w := postOptimizer(r, `{"table":"deliver_locations","ids":["a","b"],"currentLocation":{"lat":1,"lng":1}}`)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []interface{}{"b", "a"}, resp["orderedIds"])
	assert.Equal(t, float64(1500), resp["totalDistanceMeters"])
	assert.Equal(t, float64(200), resp["totalDurationSeconds"])
	assert.NotContains(t, resp, "directions")
}

func TestPostRouteOptimizer_BadRequestFromPipeline(t *testing.T) {
	uc := &fakeOptimizeUseCase{err: &model.BadRequestError{Message: "destinationId not found"}}
	r := newOptimizerRouter(uc)

	w := postOptimizer(r, `{"table":"deliver_locations","ids":["a"],"currentLocation":{"lat":1,"lng":1},"destinationId":"x"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"destinationId not found"}`, w.Body.String())
}

func TestPostRouteOptimizer_ProviderFailure(t *testing.T) {
	uc := &fakeOptimizeUseCase{err: &model.ProviderError{
		Message: "Google Directions error: REQUEST_DENIED",
		Details: json.RawMessage(`{"status":"REQUEST_DENIED","routes":[]}`),
	}}
	r := newOptimizerRouter(uc)

	w := postOptimizer(r, `{"table":"deliver_locations","ids":["a"],"currentLocation":{"lat":1,"lng":1}}`)

	require.Equal(t, http.StatusBadGateway, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Google Directions error: REQUEST_DENIED", resp["error"])
	details, ok := resp["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "REQUEST_DENIED", details["status"])
}

func TestPostRouteOptimizer_UnexpectedFailure(t *testing.T) {
	uc := &fakeOptimizeUseCase{err: errors.New("no rows returned")}
	r := newOptimizerRouter(uc)

	w := postOptimizer(r, `{"table":"deliver_locations","ids":["a"],"currentLocation":{"lat":1,"lng":1}}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"no rows returned"}`, w.Body.String())
}
