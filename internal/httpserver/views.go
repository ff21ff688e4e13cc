package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/stockroom/internal/middleware/auth"
	"github.com/Skotchmaster/stockroom/internal/models"
	"github.com/Skotchmaster/stockroom/internal/service"
	"github.com/Skotchmaster/stockroom/internal/transport"
)

type ViewHTTP struct {
	Catalog *service.ProductCatalog
}

func linksFor(role models.Role) []transport.Link {
	links := []transport.Link{{Name: "Home", Path: service.HomePath}}
	if role == models.RoleManager || role == models.RoleStoreKeeper {
		links = append(links, transport.Link{Name: "Products", Path: "/products"})
	}
	if role == models.RoleManager {
		links = append(links, transport.Link{Name: "Dashboard", Path: "/dashboard"})
	}
	return links
}

func (h *ViewHTTP) Home(c echo.Context) error {
	sess, ok := authmw.SessionFrom(c)
	if !ok {
		return c.Redirect(http.StatusFound, service.LoginPath)
	}
	return c.JSON(http.StatusOK, transport.HomeResponse{
		Email: sess.Email,
		Role:  sess.Role,
		Links: linksFor(sess.Role),
	})
}

func (h *ViewHTTP) Dashboard(c echo.Context) error {
	sess, ok := authmw.SessionFrom(c)
	if !ok {
		return c.Redirect(http.StatusFound, service.LoginPath)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"email": sess.Email,
		"stats": h.Catalog.Stats(),
	})
}
