package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/XiupingWu/CubbiDriver/internal/domain/model"
	"github.com/XiupingWu/CubbiDriver/internal/usecase"
)

// RouteOptimizerHandler serves POST /api/route-optimizer.
type RouteOptimizerHandler struct {
	optimizeUseCase usecase.RouteOptimizeUseCase
}

func NewRouteOptimizerHandler(optimizeUseCase usecase.RouteOptimizeUseCase) *RouteOptimizerHandler {
	return &RouteOptimizerHandler{
		optimizeUseCase: optimizeUseCase,
	}
}

// PostRouteOptimizer validates the request shape, normalizes the table
// name and runs the pipeline. Every error raised below is converted to
// an HTTP status here and nowhere else.
func (h *RouteOptimizerHandler) PostRouteOptimizer(c *gin.Context) {
	var req model.RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	if req.Table == "" || len(req.IDs) == 0 || req.CurrentLocation == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: table, ids, currentLocation"})
		return
	}

	table := model.SanitizeTableName(req.Table)
	if table == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid table name"})
		return
	}
	req.Table = table

	if len(req.IDs) > model.MaxWaypoints {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Max 12 waypoints allowed"})
		return
	}

	result, err := h.optimizeUseCase.OptimizeRoute(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *RouteOptimizerHandler) writeError(c *gin.Context, err error) {
	var badRequest *model.BadRequestError
	if errors.As(err, &badRequest) {
		c.JSON(http.StatusBadRequest, gin.H{"error": badRequest.Message})
		return
	}

	var providerErr *model.ProviderError
	if errors.As(err, &providerErr) {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   providerErr.Message,
			"details": providerErr.Details,
		})
		return
	}

	log.Printf("route-optimizer error: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
