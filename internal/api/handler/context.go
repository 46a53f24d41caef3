package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/microtasks/internal/api/middleware"
	"github.com/99minutos/microtasks/internal/core/domain"
)

// ctxCaller extracts the caller injected by the Auth middleware. Its absence
// means the route was mounted without Auth.
func ctxCaller(c echo.Context) (domain.Caller, error) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		return domain.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return caller, nil
}

// bind decodes the request body into req and runs the registered validator.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if c.Echo().Validator == nil {
		return nil
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
