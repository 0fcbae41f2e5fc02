package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/skylane/airline-reservation/internal/middleware"
	"github.com/skylane/airline-reservation/internal/model"
	"github.com/skylane/airline-reservation/internal/repository"
	"github.com/skylane/airline-reservation/internal/service"
)

// getUserID extracts the authenticated user's ID placed into the context
// by the JWT middleware.
func getUserID(c echo.Context) (uint64, error) {
	id, ok := c.Get(middleware.ContextUserID).(uint64)
	if !ok || id == 0 {
		return 0, errors.New("no user in context")
	}
	return id, nil
}

// getRole extracts the authenticated user's role from the context.
func getRole(c echo.Context) model.Role {
	role, _ := c.Get(middleware.ContextRole).(model.Role)
	return role
}

// pathID parses the named path parameter as a positive uint64.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}

// writeError maps service and repository sentinel errors onto HTTP
// responses.  Unrecognised errors become opaque 500s; the wrapped detail
// never leaks to the client.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidState),
		errors.Is(err, service.ErrInsufficientInventory):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrDuplicate):
		return c.JSON(http.StatusConflict, echo.Map{"error": "already exists"})
	case errors.Is(err, service.ErrIntegrity):
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "inventory integrity failure"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// notFoundJSON is the shared 404 body for repo-level lookups done directly
// in handlers.
func notFoundJSON(c echo.Context, what string) error {
	return c.JSON(http.StatusNotFound, echo.Map{"error": what + " not found"})
}
