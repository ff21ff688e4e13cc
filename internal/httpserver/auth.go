package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/stockroom/internal/logging"
	"github.com/Skotchmaster/stockroom/internal/mykafka"
	"github.com/Skotchmaster/stockroom/internal/service"
	"github.com/Skotchmaster/stockroom/internal/transport"
)

type AuthHTTP struct {
	Sessions *service.SessionStore
	Catalog  *service.ProductCatalog
	Producer mykafka.Publisher
}

func (h *AuthHTTP) LoginPage(c echo.Context) error {
	if _, ok := h.Sessions.Current(); ok {
		return c.Redirect(http.StatusSeeOther, service.HomePath)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"authenticated": false,
		"message":       "please log in",
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	prev, hadPrev := h.Sessions.Current()
	sess, ok := h.Sessions.LoginSession(ctx, req.Email, req.Password)
	if !ok {
		l.Warn("login_failed", "status", 401)
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}
	// A draft belongs to whoever opened it.
	if !hadPrev || prev.Email != sess.Email {
		h.Catalog.Cancel(ctx)
	}

	publish(c, h.Producer, mykafka.TopicUserEvents, newEvent(EventLoggedIn, sess.Email, nil))

	return c.JSON(http.StatusOK, transport.LoginResponse{
		Email:    sess.Email,
		Role:     sess.Role,
		Redirect: service.HomePath,
	})
}

func (h *AuthHTTP) LogOut(c echo.Context) error {
	ctx := c.Request().Context()

	sess, had := h.Sessions.LogoutSession(ctx)
	h.Catalog.Cancel(ctx)

	if had {
		publish(c, h.Producer, mykafka.TopicUserEvents, newEvent(EventLoggedOut, sess.Email, nil))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":  "logged out",
		"redirect": service.LoginPath,
	})
}
