package http

import "github.com/labstack/echo/v4"

// Handler registers its routes on the server's Echo instance. The server
// stays ignorant of concrete endpoints.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}
