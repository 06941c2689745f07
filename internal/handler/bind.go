package handler

import (
	"encoding/json"
	"net/http"

	"github.com/complianceassoc/portal/pkg/validator"
	"github.com/labstack/echo/v4"
)

// bindStrict decodes the JSON body rejecting unknown fields, then runs struct
// validation. Loosely-typed payloads are refused at the boundary.
func bindStrict(c echo.Context, v any) error {
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body: "+err.Error())
	}
	if err := validator.Validate(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
