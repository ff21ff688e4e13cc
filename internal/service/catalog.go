package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/Skotchmaster/stockroom/internal/logging"
	"github.com/Skotchmaster/stockroom/internal/models"
)

type RoleSource interface {
	CurrentRole() (models.Role, bool)
}

type CommitResult struct {
	Product models.Product
	Created bool
}

// ProductCatalog holds the product list and the add/edit draft in memory.
type ProductCatalog struct {
	mu       sync.Mutex
	roles    RoleSource
	products []models.Product
	state    models.EditState
	nextID   int
}

func NewProductCatalog(roles RoleSource, initial []models.Product) *ProductCatalog {
	c := &ProductCatalog{
		roles:    roles,
		products: append([]models.Product(nil), initial...),
	}
	maxID := 0
	for _, p := range c.products {
		maxID = max(maxID, p.ID)
	}
	c.nextID = nextAfter(maxID)
	return c
}

// nextAfter returns 0 once the id space is used up.
func nextAfter(id int) int {
	if id == math.MaxInt {
		return 0
	}
	return id + 1
}

func canEdit(role models.Role) bool {
	return role == models.RoleManager || role == models.RoleStoreKeeper
}

// CanEdit reports whether the add/edit controls should be shown at all.
func (c *ProductCatalog) CanEdit() bool {
	role, ok := c.roles.CurrentRole()
	return ok && canEdit(role)
}

func (c *ProductCatalog) requireEditor() error {
	role, ok := c.roles.CurrentRole()
	if !ok {
		return fmt.Errorf("no active session: %w", ErrUnauthorized)
	}
	if !canEdit(role) {
		return fmt.Errorf("role %q cannot change products: %w", role, ErrUnauthorized)
	}
	return nil
}

func (c *ProductCatalog) List() []models.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Product(nil), c.products...)
}

func (c *ProductCatalog) EditState() models.EditState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *ProductCatalog) indexOf(id int) int {
	for i := range c.products {
		if c.products[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *ProductCatalog) BeginAdd(ctx context.Context) error {
	l := logging.FromContext(ctx).With("svc", "catalog.begin_add")
	if err := c.requireEditor(); err != nil {
		l.Warn("begin_add_denied", "status", 403, "error", err)
		return err
	}

	c.mu.Lock()
	c.state = models.EditState{Mode: models.EditAdding}
	c.mu.Unlock()
	return nil
}

func (c *ProductCatalog) BeginEdit(ctx context.Context, id int) error {
	l := logging.FromContext(ctx).With("svc", "catalog.begin_edit", "product_id", id)
	if err := c.requireEditor(); err != nil {
		l.Warn("begin_edit_denied", "status", 403, "error", err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		l.Warn("begin_edit_failed", "status", 404, "reason", "product not found")
		return fmt.Errorf("product %d: %w", id, ErrNotFound)
	}

	p := c.products[i]
	c.state = models.EditState{
		Mode:      models.EditEditing,
		ProductID: id,
		Draft: models.Draft{
			Name:     p.Name,
			Quantity: strconv.Itoa(p.Quantity),
			Price:    strconv.FormatFloat(p.Price, 'f', -1, 64),
		},
	}
	return nil
}

// UpdateDraft stores value verbatim; checks happen at Commit.
func (c *ProductCatalog) UpdateDraft(ctx context.Context, field models.DraftField, value string) error {
	if err := c.requireEditor(); err != nil {
		logging.FromContext(ctx).Warn("update_draft_denied", "svc", "catalog.update_draft", "status", 403, "error", err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Mode == models.EditIdle {
		return fmt.Errorf("no draft open: %w", ErrInvalidState)
	}

	switch field {
	case models.FieldName:
		c.state.Draft.Name = value
	case models.FieldQuantity:
		c.state.Draft.Quantity = value
	case models.FieldPrice:
		c.state.Draft.Price = value
	default:
		return fmt.Errorf("unknown draft field %q: %w", field, ErrValidation)
	}
	return nil
}

func (c *ProductCatalog) Cancel(ctx context.Context) {
	c.mu.Lock()
	prev := c.state.Mode
	c.state = models.EditState{}
	c.mu.Unlock()

	if prev != models.EditIdle {
		logging.FromContext(ctx).Debug("draft_cancelled", "svc", "catalog.cancel", "mode", prev.String())
	}
}

func parseDraft(d models.Draft) (name string, quantity int, price float64, err error) {
	name = strings.TrimSpace(d.Name)
	qty := strings.TrimSpace(d.Quantity)
	prc := strings.TrimSpace(d.Price)
	if name == "" || qty == "" || prc == "" {
		return "", 0, 0, fmt.Errorf("name, quantity and price are required: %w", ErrValidation)
	}

	quantity, err = strconv.Atoi(qty)
	if err != nil {
		return "", 0, 0, fmt.Errorf("quantity %q is not a whole number: %w", d.Quantity, ErrValidation)
	}
	if quantity < 0 {
		return "", 0, 0, fmt.Errorf("quantity must be >= 0: %w", ErrValidation)
	}

	price, err = strconv.ParseFloat(prc, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return "", 0, 0, fmt.Errorf("price %q is not a number: %w", d.Price, ErrValidation)
	}
	if price < 0 {
		return "", 0, 0, fmt.Errorf("price must be >= 0: %w", ErrValidation)
	}

	return name, quantity, price, nil
}

// Commit applies the open draft. On any error the draft stays open and the list is unchanged.
func (c *ProductCatalog) Commit(ctx context.Context) (CommitResult, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.commit")
	if err := c.requireEditor(); err != nil {
		l.Warn("commit_denied", "status", 403, "error", err)
		return CommitResult{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Mode == models.EditIdle {
		return CommitResult{}, fmt.Errorf("no draft open: %w", ErrInvalidState)
	}

	name, quantity, price, err := parseDraft(c.state.Draft)
	if err != nil {
		l.Warn("commit_failed", "status", 400, "reason", "invalid draft", "error", err)
		return CommitResult{}, err
	}

	var res CommitResult
	switch c.state.Mode {
	case models.EditAdding:
		if c.nextID <= 0 {
			l.Error("commit_failed", "status", 507, "reason", "no product id left")
			return CommitResult{}, ErrIDsExhausted
		}
		p := models.Product{ID: c.nextID, Name: name, Quantity: quantity, Price: price}
		c.nextID = nextAfter(c.nextID)
		c.products = append(c.products, p)
		res = CommitResult{Product: p, Created: true}
	case models.EditEditing:
		i := c.indexOf(c.state.ProductID)
		if i < 0 {
			return CommitResult{}, fmt.Errorf("product %d: %w", c.state.ProductID, ErrNotFound)
		}
		c.products[i].Name = name
		c.products[i].Quantity = quantity
		c.products[i].Price = price
		res = CommitResult{Product: c.products[i]}
	}

	c.state = models.EditState{}
	l.Info("commit_success", "product_id", res.Product.ID, "created", res.Created)
	return res, nil
}

type Stats struct {
	Products   int     `json:"total_products"`
	Units      int     `json:"total_units"`
	StockValue float64 `json:"stock_value"`
}

func (c *ProductCatalog) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := Stats{Products: len(c.products)}
	for _, p := range c.products {
		if st.Units > math.MaxInt-p.Quantity {
			st.Units = math.MaxInt
		} else {
			st.Units += p.Quantity
		}
		st.StockValue += float64(p.Quantity) * p.Price
	}
	st.StockValue = math.Round(st.StockValue*100) / 100
	return st
}
