package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/99minutos/microtasks/internal/core/domain"
)

// CallerKey is the echo context key holding the authenticated domain.Caller.
const CallerKey = "caller"

// Auth validates the JWT and injects the caller into context.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				return []byte(jwtSecret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			caller, ok := callerFromClaims(claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			c.Set(CallerKey, caller)

			return next(c)
		}
	}
}

// callerFromClaims maps the token claims onto a Caller. JSON numbers decode
// as float64, so the id claim is converted back to int64.
func callerFromClaims(claims jwt.MapClaims) (domain.Caller, bool) {
	id, ok := claims["id"].(float64)
	if !ok || id <= 0 {
		return domain.Caller{}, false
	}
	role, _ := claims["role"].(string)
	if role != string(domain.RoleAdmin) && role != string(domain.RoleWorker) {
		return domain.Caller{}, false
	}
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)

	return domain.Caller{
		ID:    int64(id),
		Email: email,
		Role:  domain.Role(role),
		Name:  name,
	}, true
}

// CallerFrom returns the caller injected by Auth.
func CallerFrom(c echo.Context) (domain.Caller, bool) {
	caller, ok := c.Get(CallerKey).(domain.Caller)
	return caller, ok
}
