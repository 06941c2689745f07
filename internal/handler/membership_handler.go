package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/complianceassoc/portal/internal/dto"
	"github.com/complianceassoc/portal/internal/service"
	"github.com/labstack/echo/v4"
)

type MembershipHandler struct {
	svc service.MembershipService
}

func NewMembershipHandler(svc service.MembershipService) *MembershipHandler {
	return &MembershipHandler{svc: svc}
}

func (h *MembershipHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/memberships/renew", h.StartRenewal)
	e.GET("/api/memberships/:id", h.GetMembership)
}

func (h *MembershipHandler) StartRenewal(c echo.Context) error {
	var req dto.RenewMembershipRequest
	if err := bindStrict(c, &req); err != nil {
		return err
	}

	membership, err := h.svc.StartRenewal(c.Request().Context(), service.RenewInput{
		Email:    req.Email,
		FullName: req.FullName,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, dto.ToMembershipResponse(membership))
}

func (h *MembershipHandler) GetMembership(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid membership id")
	}

	membership, err := h.svc.GetMembership(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrMembershipNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, dto.ToMembershipResponse(membership))
}
