package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/complianceassoc/portal/internal/dto"
	"github.com/complianceassoc/portal/internal/models"
	"github.com/complianceassoc/portal/internal/service"
	"github.com/labstack/echo/v4"
)

type AdminHandler struct {
	svc service.AdminService
}

func NewAdminHandler(svc service.AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (h *AdminHandler) RegisterRoutes(g *echo.Group) {
	g.PATCH("/event-registrations/:id", h.UpdateRegistration)
	g.POST("/event-registrations/:id/mark-paid", h.MarkRegistrationPaid)
	g.GET("/event-registrations", h.ListRegistrations)

	g.POST("/events", h.CreateEvent)
	g.PATCH("/events/:id", h.UpdateEvent)
	g.POST("/events/:id/archive", h.ArchiveEvent)
	g.GET("/events", h.ListEvents)
}

func (h *AdminHandler) UpdateRegistration(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid registration id")
	}

	var req dto.AdminUpdateRegistrationRequest
	if err := bindStrict(c, &req); err != nil {
		return err
	}

	update := service.RegistrationUpdate{
		PaymentMethodTracking: req.PaymentMethodTracking,
		AdminNotes:            req.AdminNotes,
	}
	if req.Tier != nil {
		tier := models.RegistrationTier(*req.Tier)
		update.Tier = &tier
	}

	reg, err := h.svc.UpdateRegistration(c.Request().Context(), uint(id), update)
	if err != nil {
		if errors.Is(err, service.ErrRegistrationNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, dto.ToRegistrationResponse(reg))
}

func (h *AdminHandler) MarkRegistrationPaid(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid registration id")
	}

	var req dto.MarkPaidRequest
	if err := bindStrict(c, &req); err != nil {
		return err
	}

	reg, err := h.svc.MarkRegistrationPaid(c.Request().Context(), uint(id), req.Actor, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRegistrationNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrNotPending):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrMissingActor):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, dto.ToRegistrationResponse(reg))
}

func (h *AdminHandler) ListRegistrations(c echo.Context) error {
	eventID, err := strconv.ParseUint(c.QueryParam("event_id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "event_id query parameter is required")
	}

	regs, err := h.svc.ListRegistrations(c.Request().Context(), uint(eventID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.RegistrationResponse, len(regs))
	for i, r := range regs {
		resp[i] = dto.ToRegistrationResponse(&r)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) CreateEvent(c echo.Context) error {
	var req dto.CreateEventRequest
	if err := bindStrict(c, &req); err != nil {
		return err
	}

	event := &models.Event{
		Title:               req.Title,
		Slug:                req.Slug,
		Description:         req.Description,
		Location:            req.Location,
		StartsAt:            req.StartsAt,
		EndsAt:              req.EndsAt,
		RegistrationOpensAt: req.RegistrationOpensAt,
		RegistrationEndsAt:  req.RegistrationEndsAt,
		Capacity:            req.Capacity,
		MemberPriceCents:    req.MemberPriceCents,
		NonMemberPriceCents: req.NonMemberPriceCents,
		Published:           req.Published,
	}

	if err := h.svc.CreateEvent(c.Request().Context(), event); err != nil {
		switch {
		case errors.Is(err, service.ErrSlugTaken):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrInvalidWindow):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, dto.ToAdminEventResponse(event))
}

func (h *AdminHandler) UpdateEvent(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event id")
	}

	var req dto.UpdateEventRequest
	if err := bindStrict(c, &req); err != nil {
		return err
	}

	event, err := h.svc.UpdateEvent(c.Request().Context(), uint(id), func(e *models.Event) {
		if req.Title != nil {
			e.Title = *req.Title
		}
		if req.Description != nil {
			e.Description = *req.Description
		}
		if req.Location != nil {
			e.Location = *req.Location
		}
		if req.StartsAt != nil {
			e.StartsAt = *req.StartsAt
		}
		if req.EndsAt != nil {
			e.EndsAt = *req.EndsAt
		}
		if req.RegistrationOpensAt != nil {
			e.RegistrationOpensAt = *req.RegistrationOpensAt
		}
		if req.RegistrationEndsAt != nil {
			e.RegistrationEndsAt = *req.RegistrationEndsAt
		}
		if req.Capacity != nil {
			e.Capacity = *req.Capacity
		}
		if req.MemberPriceCents != nil {
			e.MemberPriceCents = *req.MemberPriceCents
		}
		if req.NonMemberPriceCents != nil {
			e.NonMemberPriceCents = *req.NonMemberPriceCents
		}
		if req.Published != nil {
			e.Published = *req.Published
		}
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidWindow):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, dto.ToAdminEventResponse(event))
}

func (h *AdminHandler) ArchiveEvent(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event id")
	}

	event, err := h.svc.ArchiveEvent(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, dto.ToAdminEventResponse(event))
}

func (h *AdminHandler) ListEvents(c echo.Context) error {
	events, err := h.svc.ListEvents(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.AdminEventResponse, len(events))
	for i, e := range events {
		resp[i] = dto.ToAdminEventResponse(&e)
	}
	return c.JSON(http.StatusOK, resp)
}
