package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/stockroom/internal/logging"
	authmw "github.com/Skotchmaster/stockroom/internal/middleware/auth"
	"github.com/Skotchmaster/stockroom/internal/models"
	"github.com/Skotchmaster/stockroom/internal/mykafka"
	"github.com/Skotchmaster/stockroom/internal/service"
	"github.com/Skotchmaster/stockroom/internal/transport"
)

type CatalogHTTP struct {
	Svc      *service.ProductCatalog
	Producer mykafka.Publisher
}

func catalogError(l *slog.Logger, event string, err error) error {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		l.Warn(event, "status", 403, "error", err)
		return echo.NewHTTPError(http.StatusForbidden, "you don't have enough rights")
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", 404, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	case errors.Is(err, service.ErrInvalidState):
		l.Warn(event, "status", 409, "error", err)
		return echo.NewHTTPError(http.StatusConflict, "no product form is open")
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrIDsExhausted):
		l.Error(event, "status", 507, "error", err)
		return echo.NewHTTPError(http.StatusInsufficientStorage, "no product id left")
	}
	l.Error(event, "status", 500, "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}

func (h *CatalogHTTP) ListProducts(c echo.Context) error {
	resp := transport.ProductsResponse{
		Data:    h.Svc.List(),
		CanEdit: h.Svc.CanEdit(),
	}
	if resp.CanEdit {
		st := h.Svc.EditState()
		resp.Edit = &st
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *CatalogHTTP) GetDraft(c echo.Context) error {
	if !h.Svc.CanEdit() {
		return echo.NewHTTPError(http.StatusForbidden, "you don't have enough rights")
	}
	return c.JSON(http.StatusOK, h.Svc.EditState())
}

func (h *CatalogHTTP) BeginAdd(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.begin_add")

	if err := h.Svc.BeginAdd(ctx); err != nil {
		return catalogError(l, "begin_add_error", err)
	}
	return c.JSON(http.StatusOK, h.Svc.EditState())
}

func (h *CatalogHTTP) BeginEdit(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.begin_edit")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		l.Warn("begin_edit_error", "status", 400, "reason", "id is not integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not integer")
	}

	if err := h.Svc.BeginEdit(ctx, id); err != nil {
		return catalogError(l, "begin_edit_error", err)
	}
	return c.JSON(http.StatusOK, h.Svc.EditState())
}

func (h *CatalogHTTP) UpdateDraft(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update_draft")

	var req transport.DraftUpdateRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_draft_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.UpdateDraft(ctx, models.DraftField(req.Field), req.Value); err != nil {
		return catalogError(l, "update_draft_error", err)
	}
	return c.JSON(http.StatusOK, h.Svc.EditState())
}

func (h *CatalogHTTP) Cancel(c echo.Context) error {
	if !h.Svc.CanEdit() {
		return echo.NewHTTPError(http.StatusForbidden, "you don't have enough rights")
	}
	h.Svc.Cancel(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHTTP) Commit(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.commit")

	res, err := h.Svc.Commit(ctx)
	if err != nil {
		return catalogError(l, "commit_error", err)
	}

	sess, _ := authmw.SessionFrom(c)
	kind, code := EventProductUpdated, http.StatusOK
	if res.Created {
		kind, code = EventProductCreated, http.StatusCreated
	}
	p := res.Product
	publish(c, h.Producer, mykafka.TopicProductEvents, newEvent(kind, sess.Email, &p))

	l.Info("commit_product_success", "product_id", p.ID, "created", res.Created)
	return c.JSON(code, p)
}
