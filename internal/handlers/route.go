package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/uydev/route-catalog/internal/db"
	"github.com/uydev/route-catalog/internal/models"
	"github.com/uydev/route-catalog/internal/validation"
)

// RouteHandler handles HTTP requests for routes.
type RouteHandler struct {
	routes db.RouteCollection
	logger *log.Logger
}

// NewRouteHandler creates a new route handler.
func NewRouteHandler(routes db.RouteCollection, logger *log.Logger) *RouteHandler {
	return &RouteHandler{routes: routes, logger: logger}
}

// Register mounts the route endpoints on the echo instance.
func (h *RouteHandler) Register(e *echo.Echo) {
	g := e.Group("/routes")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/search", h.Search)
	g.GET("/tags", h.ByTags)
	g.GET("/count", h.Count)
	g.GET("/:id", h.Get)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// Create handles POST /routes.
func (h *RouteHandler) Create(c echo.Context) error {
	var req models.CreateRouteRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body", err.Error())
	}
	if err := validation.Check(req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid route", err.Error())
	}

	route, err := h.routes.InsertRoute(c.Request().Context(), req.Route())
	if err != nil {
		var conflict *models.ConflictError
		if errors.As(err, &conflict) {
			return respondError(c, http.StatusConflict, "Route already exists", err.Error())
		}
		h.logger.WithError(err).Error("failed to create route")
		return respondError(c, http.StatusBadRequest, "Failed to create route", err.Error())
	}
	return respond(c, http.StatusCreated, "Route created successfully", route)
}

// List handles GET /routes.
func (h *RouteHandler) List(c echo.Context) error {
	page, limit := pageLimit(c)
	routes, total, err := h.routes.FindRoutes(c.Request().Context(), page, limit)
	if err != nil {
		h.logger.WithError(err).Error("failed to list routes")
		return respondError(c, http.StatusInternalServerError, "Failed to retrieve routes", err.Error())
	}
	return respond(c, http.StatusOK, "Routes retrieved successfully", models.RouteList{Routes: routes, Total: total})
}

// Search handles GET /routes/search.
func (h *RouteHandler) Search(c echo.Context) error {
	page, limit := pageLimit(c)
	routes, total, err := h.routes.SearchRoutes(c.Request().Context(), c.QueryParam("searchText"), page, limit)
	if err != nil {
		h.logger.WithError(err).Error("failed to search routes")
		return respondError(c, http.StatusInternalServerError, "Failed to search routes", err.Error())
	}
	return respond(c, http.StatusOK, "Routes retrieved successfully", models.RouteList{Routes: routes, Total: total})
}

// ByTags handles GET /routes/tags?tags=a,b.
func (h *RouteHandler) ByTags(c echo.Context) error {
	var tags []string
	if raw := c.QueryParam("tags"); raw != "" {
		tags = strings.Split(raw, ",")
	}
	routes, err := h.routes.FindRoutesByTags(c.Request().Context(), tags)
	if err != nil {
		h.logger.WithError(err).Error("failed to find routes by tags")
		return respondError(c, http.StatusInternalServerError, "Failed to retrieve routes", err.Error())
	}
	return respond(c, http.StatusOK, "Routes retrieved successfully", routes)
}

// Count handles GET /routes/count?userId=&favorites=.
func (h *RouteHandler) Count(c echo.Context) error {
	filter := models.RouteCountFilter{
		UserID:    c.QueryParam("userId"),
		Favorites: c.QueryParam("favorites") == "true",
	}
	count, err := h.routes.CountRoutes(c.Request().Context(), filter)
	if err != nil {
		h.logger.WithError(err).Error("failed to count routes")
		return respondError(c, http.StatusInternalServerError, "Failed to count routes", err.Error())
	}
	return respond(c, http.StatusOK, "Routes counted successfully", map[string]int64{"count": count})
}

// Get handles GET /routes/:id.
func (h *RouteHandler) Get(c echo.Context) error {
	route, err := h.routes.FindRouteByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.readError(c, err, "failed to get route")
	}
	return respond(c, http.StatusOK, "Route retrieved successfully", route)
}

// Update handles PATCH /routes/:id.
func (h *RouteHandler) Update(c echo.Context) error {
	var req models.UpdateRouteRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body", err.Error())
	}
	if err := validation.Check(req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid route", err.Error())
	}

	route, err := h.routes.UpdateRoute(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return h.readError(c, err, "failed to update route")
	}
	return respond(c, http.StatusOK, "Route updated successfully", route)
}

// Delete handles DELETE /routes/:id.
func (h *RouteHandler) Delete(c echo.Context) error {
	route, err := h.routes.DeleteRoute(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.readError(c, err, "failed to delete route")
	}
	return respond(c, http.StatusOK, "Route deleted successfully", route)
}

// readError maps repository failures on the read/update/delete paths: the
// not-found sentinel becomes a 404, everything else a 500.
func (h *RouteHandler) readError(c echo.Context, err error, logMsg string) error {
	if errors.Is(err, models.ErrNotFound) {
		return respondError(c, http.StatusNotFound, "Route not found", "")
	}
	h.logger.WithError(err).Error(logMsg)
	return respondError(c, http.StatusInternalServerError, "Internal server error", err.Error())
}

// pageLimit parses the page and limit query params, falling back to the
// repository defaults on missing or malformed values.
func pageLimit(c echo.Context) (int64, int64) {
	page, err := strconv.ParseInt(c.QueryParam("page"), 10, 64)
	if err != nil || page < 1 {
		page = db.DefaultPage
	}
	limit, err := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if err != nil || limit < 1 {
		limit = db.DefaultLimit
	}
	return page, limit
}
