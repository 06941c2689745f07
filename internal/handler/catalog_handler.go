package handler

import (
	"errors"
	"net/http"

	"github.com/complianceassoc/portal/internal/dto"
	"github.com/complianceassoc/portal/internal/service"
	"github.com/labstack/echo/v4"
)

type CatalogHandler struct {
	svc service.CatalogService
}

func NewCatalogHandler(svc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

func (h *CatalogHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/events", h.ListEvents)
	g.GET("/events/:slug", h.GetEventBySlug)
}

func (h *CatalogHandler) ListEvents(c echo.Context) error {
	events, err := h.svc.ListPublished(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.EventResponse, len(events))
	for i, e := range events {
		resp[i] = dto.ToEventResponse(&e)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) GetEventBySlug(c echo.Context) error {
	event, err := h.svc.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "event not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, dto.ToEventResponse(event))
}
