package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ModerationHandler backs the permission-gated moderation surface. The
// route exists so the RBAC chain has a real consumer; content moderation
// itself lives elsewhere.
type ModerationHandler struct{}

func NewModerationHandler() *ModerationHandler {
	return &ModerationHandler{}
}

// Overview reports that the caller holds the moderate permission.
//
// @Summary      Moderation overview
// @Tags         moderation
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /moderate [get]
func (h *ModerationHandler) Overview(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
