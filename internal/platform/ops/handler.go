package ops

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
)

// maxPayload bounds a request body; payloads are a handful of filters.
const maxPayload = 64 << 10

type Handler struct {
	reg *Registry
}

func NewHandler(reg *Registry) *Handler {
	return &Handler{reg: reg}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/ops", h.ListOperations)
	api.POST("/ops/:name", h.CallOperation)
}

func (h *Handler) ListOperations(c echo.Context) error {
	return c.JSON(http.StatusOK, h.reg.Names())
}

func (h *Handler) CallOperation(c echo.Context) error {
	name := c.Param("name")
	if !h.reg.Has(name) {
		return echo.NewHTTPError(http.StatusNotFound, "unknown operation")
	}
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxPayload))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable body")
	}
	out, err := h.reg.Call(c.Request().Context(), name, body)
	if errors.Is(err, ErrUnknownOperation) {
		return echo.NewHTTPError(http.StatusNotFound, "unknown operation")
	}
	if err != nil {
		return err
	}
	return c.JSONBlob(http.StatusOK, out)
}
