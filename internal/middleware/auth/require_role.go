package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/stockroom/internal/logging"
	"github.com/Skotchmaster/stockroom/internal/models"
	"github.com/Skotchmaster/stockroom/internal/service"
)

const (
	CtxEmail = "email"
	CtxRole  = "role"
)

type Authorizer interface {
	AuthorizeSession(required models.Role) (service.Verdict, models.Session)
}

// RequireAuth lets any logged-in session through.
func RequireAuth(a Authorizer) echo.MiddlewareFunc {
	return RequireRole(a, models.RoleNone)
}

// RequireRole redirects to the verdict target without running the handler when access is denied.
// Allowed requests carry the session the verdict was taken from; read it with SessionFrom.
func RequireRole(a Authorizer, role models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v, sess := a.AuthorizeSession(role)
			if !v.Allowed {
				logging.FromContext(c.Request().Context()).Info("access_redirected",
					"required_role", role.String(), "redirect", v.Redirect)
				return c.Redirect(http.StatusFound, v.Redirect)
			}

			c.Set(CtxEmail, sess.Email)
			c.Set(CtxRole, sess.Role)
			return next(c)
		}
	}
}

func SessionFrom(c echo.Context) (models.Session, bool) {
	email, _ := c.Get(CtxEmail).(string)
	role, _ := c.Get(CtxRole).(models.Role)
	if email == "" || role == models.RoleNone {
		return models.Session{}, false
	}
	return models.Session{Email: email, Role: role}, true
}
