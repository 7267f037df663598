package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/XiupingWu/CubbiDriver/internal/domain/model"
	"github.com/XiupingWu/CubbiDriver/internal/usecase"
)

// LocationsHandler serves the saved-location CRUD endpoints.
type LocationsHandler struct {
	locationsUseCase usecase.LocationsUseCase
}

func NewLocationsHandler(locationsUseCase usecase.LocationsUseCase) *LocationsHandler {
	return &LocationsHandler{
		locationsUseCase: locationsUseCase,
	}
}

// GetLocations GET /api/locations/:table - list saved locations.
// Optional lat/lng query parameters add a distance_meters annotation.
func (h *LocationsHandler) GetLocations(c *gin.Context) {
	table := model.SanitizeTableName(c.Param("table"))
	if table == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid table name"})
		return
	}

	near, err := parseNear(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	locations, err := h.locationsUseCase.ListLocations(c.Request.Context(), table, near)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"locations": locations})
}

// PostLocation POST /api/locations - create a saved location. The table
// travels in the body so the mobile stores can share one endpoint.
func (h *LocationsHandler) PostLocation(c *gin.Context) {
	var req model.AddLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	location, err := h.locationsUseCase.AddLocation(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, location)
}

// PatchLocation PATCH /api/locations/:table/:id - partial update.
func (h *LocationsHandler) PatchLocation(c *gin.Context) {
	table := model.SanitizeTableName(c.Param("table"))
	if table == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid table name"})
		return
	}
	id := model.RecordID(c.Param("id"))

	var req model.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	if err := h.locationsUseCase.UpdateLocation(c.Request.Context(), table, id, &req); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// DeleteLocation DELETE /api/locations/:table/:id - remove a location.
func (h *LocationsHandler) DeleteLocation(c *gin.Context) {
	table := model.SanitizeTableName(c.Param("table"))
	if table == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid table name"})
		return
	}
	id := model.RecordID(c.Param("id"))

	if err := h.locationsUseCase.RemoveLocation(c.Request.Context(), table, id); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *LocationsHandler) writeError(c *gin.Context, err error) {
	var badRequest *model.BadRequestError
	if errors.As(err, &badRequest) {
		c.JSON(http.StatusBadRequest, gin.H{"error": badRequest.Message})
		return
	}

	log.Printf("locations error: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// parseNear reads optional lat/lng query parameters; both must be
// present for a position to count.
func parseNear(c *gin.Context) (*model.LatLng, error) {
	latStr := c.Query("lat")
	lngStr := c.Query("lng")
	if latStr == "" && lngStr == "" {
		return nil, nil
	}
	if latStr == "" || lngStr == "" {
		return nil, errors.New("lat and lng must be provided together")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, errors.New("Invalid lat value")
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return nil, errors.New("Invalid lng value")
	}

	return &model.LatLng{Lat: lat, Lng: lng}, nil
}
