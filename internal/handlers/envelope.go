package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/uydev/route-catalog/internal/models"
)

// respond writes a success envelope with the given status code.
func respond(c echo.Context, code int, message string, data interface{}) error {
	return c.JSON(code, models.Envelope{
		Success:    true,
		StatusCode: code,
		Message:    message,
		Data:       data,
	})
}

// respondError writes a failure envelope. errs carries the underlying
// failure message; it stays null for plain not-found responses.
func respondError(c echo.Context, code int, message string, errs string) error {
	env := models.Envelope{
		Success:    false,
		StatusCode: code,
		Message:    message,
	}
	if errs != "" {
		env.Errors = errs
	}
	return c.JSON(code, env)
}
