package handler

import (
	"errors"
	"net/http"

	"agency-checkout/internal/session"

	"github.com/labstack/echo/v4"
)

type SessionHandler struct {
	store session.Store
}

func NewSessionHandler(store session.Store) *SessionHandler {
	return &SessionHandler{
		store: store,
	}
}

func (h *SessionHandler) Save(c echo.Context) error {
	ctx := c.Request().Context()

	var s session.CheckoutSession
	if err := c.Bind(&s); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	id, err := h.store.Save(ctx, c.QueryParam("id"), &s)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"id": id})
}

func (h *SessionHandler) Load(c echo.Context) error {
	ctx := c.Request().Context()

	s, err := h.store.Load(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "session not found")
		}
		return err
	}

	return c.JSON(http.StatusOK, s)
}

func (h *SessionHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.store.Delete(ctx, c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
