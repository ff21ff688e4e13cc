package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/stockroom/internal/logging"
	"github.com/Skotchmaster/stockroom/internal/service"
	"github.com/Skotchmaster/stockroom/internal/transport"
)

type PreferencesHTTP struct {
	Svc *service.Preferences
}

func (h *PreferencesHTTP) GetTheme(c echo.Context) error {
	return c.JSON(http.StatusOK, transport.ThemeResponse{Dark: h.Svc.DarkMode(c.Request().Context())})
}

func (h *PreferencesHTTP) PutTheme(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "preferences.put_theme")

	var req transport.ThemeRequest
	if err := c.Bind(&req); err != nil || req.Dark == nil {
		l.Warn("put_theme_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.SetDarkMode(ctx, *req.Dark); err != nil {
		l.Error("put_theme_error", "status", 500, "reason", "cannot store preference", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot store preference")
	}
	return c.JSON(http.StatusOK, transport.ThemeResponse{Dark: *req.Dark})
}
