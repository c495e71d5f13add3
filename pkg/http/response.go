package http

import (
	"errors"
	"fmt"
	"net/http"

	applogger "github.com/jomarcello/Signal-Processor/pkg/logger"

	"github.com/labstack/echo/v4"
)

// DetailResponse is the error body shape for every non-200 response.
type DetailResponse struct {
	Detail string `json:"detail"`
}

// Detail writes a {"detail": ...} error body with the given status.
func Detail(c echo.Context, status int, message string) error {
	return c.JSON(status, DetailResponse{Detail: message})
}

// ErrorHandler converts errors escaping handlers into the detail contract.
// AppError carries its own status; echo's HTTPError keeps its code (404s,
// method-not-allowed, bind failures); anything else is a 500.
func ErrorHandler(l *applogger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "internal server error"

		var appErr *AppError
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &appErr):
			status = appErr.Status
			message = appErr.Message
		case errors.As(err, &httpErr):
			status = httpErr.Code
			message = fmt.Sprintf("%v", httpErr.Message)
		}

		if status >= http.StatusInternalServerError && l != nil {
			l.Error("request failed",
				applogger.String("path", c.Path()),
				applogger.Int("status", status),
				applogger.Error(err),
			)
		}

		if writeErr := Detail(c, status, message); writeErr != nil && l != nil {
			l.Error("write error response", applogger.Error(writeErr))
		}
	}
}
