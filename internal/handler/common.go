package handler

import (
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"

	"estatedesk/internal/auth"
	errs "estatedesk/internal/errors"
)

// principal resolves the session principal set by the JWT middleware. Returns
// nil on public routes where no token was presented.
func principal(c echo.Context) *auth.Principal {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil
	}
	claims, ok := token.Claims.(*auth.Claims)
	if !ok {
		return nil
	}
	p, err := claims.Principal()
	if err != nil {
		return nil
	}
	return p
}

// httpError translates a domain error into the standard response shape.
func httpError(err error) *echo.HTTPError {
	he := errs.MapErrorToHTTP(err)
	return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
}
