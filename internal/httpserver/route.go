package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	authmw "github.com/Skotchmaster/stockroom/internal/middleware/auth"
	"github.com/Skotchmaster/stockroom/internal/middleware/csrf"
	loggingmw "github.com/Skotchmaster/stockroom/internal/middleware/logging"
	"github.com/Skotchmaster/stockroom/internal/models"
	"github.com/Skotchmaster/stockroom/internal/mykafka"
	"github.com/Skotchmaster/stockroom/internal/service"
)

type Deps struct {
	Sessions    *service.SessionStore
	AuthHandler *AuthHTTP
	Catalog     *CatalogHTTP
	Views       *ViewHTTP
	Preferences *PreferencesHTTP
	CSRF        csrf.Config
}

const (
	healthLivePath  = "/health/live"
	healthReadyPath = "/health/ready"
)

// NewDeps wires every handler around one session store and one catalog.
func NewDeps(sessions *service.SessionStore, catalog *service.ProductCatalog, prefs *service.Preferences, producer mykafka.Publisher) *Deps {
	return &Deps{
		Sessions:    sessions,
		AuthHandler: &AuthHTTP{Sessions: sessions, Catalog: catalog, Producer: producer},
		Catalog:     &CatalogHTTP{Svc: catalog, Producer: producer},
		Views:       &ViewHTTP{Catalog: catalog},
		Preferences: &PreferencesHTTP{Svc: prefs},
		CSRF:        csrfConfig(),
	}
}

func csrfConfig() csrf.Config {
	cfg := csrf.DefaultConfig()
	cfg.SkipPaths = []string{healthLivePath, healthReadyPath}
	return cfg
}

func New(logger *slog.Logger, d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.Secure())
	e.Use(csrf.Middleware(d.CSRF))

	Register(e, d)
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET(healthLivePath, func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET(healthReadyPath, func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	requireAuth := authmw.RequireAuth(d.Sessions)
	managerOnly := authmw.RequireRole(d.Sessions, models.RoleManager)

	e.GET(service.LoginPath, d.AuthHandler.LoginPage)
	e.POST(service.LoginPath, d.AuthHandler.Login)
	e.POST("/logout", d.AuthHandler.LogOut)

	e.GET(service.HomePath, d.Views.Home, requireAuth)
	e.GET("/dashboard", d.Views.Dashboard, managerOnly)

	e.GET("/products", d.Catalog.ListProducts, requireAuth)
	e.GET("/products/draft", d.Catalog.GetDraft, requireAuth)
	e.POST("/products/draft", d.Catalog.BeginAdd, requireAuth)
	e.PATCH("/products/draft", d.Catalog.UpdateDraft, requireAuth)
	e.DELETE("/products/draft", d.Catalog.Cancel, requireAuth)
	e.POST("/products/draft/commit", d.Catalog.Commit, requireAuth)
	e.POST("/products/:id/edit", d.Catalog.BeginEdit, requireAuth)

	e.GET("/preferences/theme", d.Preferences.GetTheme)
	e.PUT("/preferences/theme", d.Preferences.PutTheme)

	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, service.HomePath)
	})
}
