package handler

import (
	"errors"
	"net/http"

	"github.com/complianceassoc/portal/internal/dto"
	"github.com/complianceassoc/portal/internal/models"
	"github.com/complianceassoc/portal/internal/service"
	"github.com/labstack/echo/v4"
)

// cancelMessages maps each redirect reason code to its user-facing message.
var cancelMessages = map[service.CancelReason]string{
	service.ReasonMissingOrder:        "No payment reference was provided.",
	service.ReasonUnknownOrder:        "We could not find this payment. If you believe you were charged, please contact support.",
	service.ReasonVerificationPending: "Your payment is still being verified. Please check back shortly; you have not been charged twice.",
	service.ReasonUnknownStatus:       "We could not determine the status of your payment. Please contact support before trying again.",
	service.ReasonServerError:         "Something went wrong on our side. Please try again later.",
}

const genericCancelMessage = "Your payment was cancelled. No charge has been made."

type PaymentHandler struct {
	svc service.PaymentService
}

func NewPaymentHandler(svc service.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

func (h *PaymentHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/payments/intent", h.CreateIntent)
	e.POST("/api/confirm-payment", h.ConfirmPayment)
	e.GET("/api/payments/cancelled", h.PaymentCancelled)
}

func (h *PaymentHandler) CreateIntent(c echo.Context) error {
	var req dto.CreateIntentRequest
	if err := bindStrict(c, &req); err != nil {
		return err
	}

	payment, err := h.svc.InitiateIntent(c.Request().Context(), models.PaymentTarget(req.Target), req.TargetID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRegistrationNotFound),
			errors.Is(err, service.ErrMembershipNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrAlreadyPaid),
			errors.Is(err, service.ErrPaymentNotPayable):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrGatewayUnavailable):
			return echo.NewHTTPError(http.StatusBadGateway, "payment service is temporarily unavailable, please retry")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, dto.ToIntentResponse(payment))
}

// ConfirmPayment re-verifies the intent with the gateway. The response carries
// the authoritative outcome; a client-claimed success is ignored.
func (h *PaymentHandler) ConfirmPayment(c echo.Context) error {
	var req dto.ConfirmPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := h.svc.Confirm(c.Request().Context(), req.IntentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingIntent):
			return c.JSON(http.StatusBadRequest, dto.ConfirmResponse{
				Status:  string(service.ConfirmPending),
				Reason:  string(service.ReasonMissingOrder),
				Message: cancelMessages[service.ReasonMissingOrder],
			})
		case errors.Is(err, service.ErrUnknownIntent):
			return c.JSON(http.StatusNotFound, dto.ConfirmResponse{
				Status:  string(service.ConfirmPending),
				Reason:  string(service.ReasonUnknownOrder),
				Message: cancelMessages[service.ReasonUnknownOrder],
			})
		case errors.Is(err, service.ErrGatewayUnavailable):
			return c.JSON(http.StatusBadGateway, dto.ConfirmResponse{
				Status:  string(service.ConfirmPending),
				Reason:  string(service.ReasonServerError),
				Message: cancelMessages[service.ReasonServerError],
			})
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	resp := dto.ConfirmResponse{
		Status:           string(result.State),
		AlreadyConfirmed: result.AlreadyConfirmed,
	}
	switch result.State {
	case service.ConfirmPaid:
		resp.Message = "Payment confirmed. A confirmation email is on its way."
	case service.ConfirmFailed:
		resp.Message = "The payment did not complete. You have not been charged."
	default:
		resp.Reason = string(result.Reason)
		resp.Message = cancelMessages[result.Reason]
	}
	return c.JSON(http.StatusOK, resp)
}

// PaymentCancelled is the redirect target after an aborted checkout. The error
// query parameter carries one of the fixed reason codes.
func (h *PaymentHandler) PaymentCancelled(c echo.Context) error {
	reason := service.CancelReason(c.QueryParam("error"))

	msg, ok := cancelMessages[reason]
	if !ok {
		return c.JSON(http.StatusOK, dto.CancelledResponse{Message: genericCancelMessage})
	}
	return c.JSON(http.StatusOK, dto.CancelledResponse{
		Reason:  string(reason),
		Message: msg,
	})
}
