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

type RegistrationHandler struct {
	svc service.RegistrationService
}

func NewRegistrationHandler(svc service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{svc: svc}
}

func (h *RegistrationHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/events/:id/register", h.Register)
	e.GET("/api/registrations/:id", h.GetRegistration)
}

func (h *RegistrationHandler) Register(c echo.Context) error {
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event id")
	}

	var req dto.RegisterRequest
	if err := bindStrict(c, &req); err != nil {
		return err
	}

	reg, err := h.svc.Register(c.Request().Context(), uint(eventID), service.RegisterInput{
		FullName:       req.FullName,
		Email:          req.Email,
		Phone:          req.Phone,
		Organization:   req.Organization,
		Tier:           models.RegistrationTier(req.Tier),
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrRegistrationClosed):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrEventFull):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, dto.ToRegistrationResponse(reg))
}

func (h *RegistrationHandler) GetRegistration(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid registration id")
	}

	reg, err := h.svc.GetRegistration(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrRegistrationNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, dto.ToRegistrationResponse(reg))
}
