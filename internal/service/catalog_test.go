package service

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/stockroom/internal/models"
)

type fixedRole struct {
	role models.Role
	ok   bool
}

func (f *fixedRole) CurrentRole() (models.Role, bool) { return f.role, f.ok }

var (
	asManager = &fixedRole{role: models.RoleManager, ok: true}
	asKeeper  = &fixedRole{role: models.RoleStoreKeeper, ok: true}
	anonymous = &fixedRole{}
)

func seedProducts() []models.Product {
	return []models.Product{
		{ID: 1, Name: "Product A", Quantity: 10, Price: 15.99},
		{ID: 2, Name: "Product B", Quantity: 5, Price: 9.99},
	}
}

func fillDraft(t *testing.T, c *ProductCatalog, name, qty, price string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, c.UpdateDraft(ctx, models.FieldName, name))
	require.NoError(t, c.UpdateDraft(ctx, models.FieldQuantity, qty))
	require.NoError(t, c.UpdateDraft(ctx, models.FieldPrice, price))
}

func TestProductCatalog_CanEdit(t *testing.T) {
	t.Parallel()

	assert.True(t, NewProductCatalog(asManager, nil).CanEdit())
	assert.True(t, NewProductCatalog(asKeeper, nil).CanEdit())
	assert.False(t, NewProductCatalog(anonymous, nil).CanEdit())
	assert.False(t, NewProductCatalog(&fixedRole{role: "auditor", ok: true}, nil).CanEdit())
}

func TestProductCatalog_ListIsACopy(t *testing.T) {
	t.Parallel()

	c := NewProductCatalog(asManager, seedProducts())
	list := c.List()
	list[0].Name = "mutated"

	assert.Equal(t, seedProducts(), c.List())
}

func TestProductCatalog_BeginAdd_Roles(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	keeper := NewProductCatalog(asKeeper, seedProducts())
	require.NoError(t, keeper.BeginAdd(ctx))
	assert.Equal(t, models.EditState{Mode: models.EditAdding}, keeper.EditState())

	nobody := NewProductCatalog(anonymous, seedProducts())
	err := nobody.BeginAdd(ctx)
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, models.EditIdle, nobody.EditState().Mode)

	other := NewProductCatalog(&fixedRole{role: "auditor", ok: true}, seedProducts())
	require.ErrorIs(t, other.BeginAdd(ctx), ErrUnauthorized)
}

func TestProductCatalog_BeginAdd_ResetsDraft(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := NewProductCatalog(asManager, seedProducts())
	require.NoError(t, c.BeginEdit(ctx, 1))
	require.NoError(t, c.BeginAdd(ctx))

	assert.Equal(t, models.EditState{Mode: models.EditAdding}, c.EditState())
}

func TestProductCatalog_AddCommit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := NewProductCatalog(asKeeper, seedProducts())

	require.NoError(t, c.BeginAdd(ctx))
	fillDraft(t, c, "Widget", "4", "2.50")

	res, err := c.Commit(ctx)
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, "Widget", res.Product.Name)
	assert.Equal(t, 4, res.Product.Quantity)
	assert.InDelta(t, 2.50, res.Product.Price, 1e-9)
	assert.Greater(t, res.Product.ID, 2)

	list := c.List()
	require.Len(t, list, 3)
	assert.Equal(t, res.Product, list[2])
	assert.Equal(t, seedProducts(), list[:2])
	assert.Equal(t, models.EditIdle, c.EditState().Mode)
}

func TestProductCatalog_AddIDsAreFreshAndIncreasing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := NewProductCatalog(asManager, []models.Product{{ID: 7, Name: "x"}, {ID: 3, Name: "y"}})

	seen := map[int]bool{7: true, 3: true}
	last := 7
	for i := 0; i < 5; i++ {
		require.NoError(t, c.BeginAdd(ctx))
		fillDraft(t, c, "p", "1", "1")
		res, err := c.Commit(ctx)
		require.NoError(t, err)
		assert.False(t, seen[res.Product.ID])
		assert.Greater(t, res.Product.ID, last)
		seen[res.Product.ID] = true
		last = res.Product.ID
	}
}

func TestProductCatalog_EmptyCatalogStartsAtOne(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := NewProductCatalog(asManager, nil)
	require.NoError(t, c.BeginAdd(ctx))
	fillDraft(t, c, "first", "0", "0")

	res, err := c.Commit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Product.ID)
}

func TestProductCatalog_BeginEdit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := NewProductCatalog(asManager, seedProducts())

	require.NoError(t, c.BeginEdit(ctx, 1))
	assert.Equal(t, models.EditState{
		Mode:      models.EditEditing,
		ProductID: 1,
		Draft:     models.Draft{Name: "Product A", Quantity: "10", Price: "15.99"},
	}, c.EditState())

	err := c.BeginEdit(ctx, 99)
	require.ErrorIs(t, err, ErrNotFound)

	require.ErrorIs(t, NewProductCatalog(anonymous, seedProducts()).BeginEdit(ctx, 1), ErrUnauthorized)
}

func TestProductCatalog_EditPreservesIDAndPosition(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := NewProductCatalog(asKeeper, seedProducts())

	require.NoError(t, c.BeginEdit(ctx, 1))
	require.NoError(t, c.UpdateDraft(ctx, models.FieldName, "Product A+"))

	res, err := c.Commit(ctx)
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, models.Product{ID: 1, Name: "Product A+", Quantity: 10, Price: 15.99}, res.Product)

	list := c.List()
	require.Len(t, list, 2)
	assert.Equal(t, res.Product, list[0])
	assert.Equal(t, seedProducts()[1], list[1])
	assert.Equal(t, models.EditIdle, c.EditState().Mode)
}

func TestProductCatalog_UpdateDraft(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := NewProductCatalog(asManager, seedProducts())

	require.ErrorIs(t, c.UpdateDraft(ctx, models.FieldName, "x"), ErrInvalidState)

	require.NoError(t, c.BeginAdd(ctx))
	require.NoError(t, c.UpdateDraft(ctx, models.FieldQuantity, "not a number yet"))
	assert.Equal(t, "not a number yet", c.EditState().Draft.Quantity)

	require.ErrorIs(t, c.UpdateDraft(ctx, "colour", "red"), ErrValidation)
}

func TestProductCatalog_Cancel(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	starts := map[string]func(c *ProductCatalog) error{
		"idle":    func(*ProductCatalog) error { return nil },
		"adding":  func(c *ProductCatalog) error { return c.BeginAdd(ctx) },
		"editing": func(c *ProductCatalog) error { return c.BeginEdit(ctx, 2) },
	}

	for name, start := range starts {
		c := NewProductCatalog(asManager, seedProducts())
		require.NoError(t, start(c), name)
		if c.EditState().Mode != models.EditIdle {
			require.NoError(t, c.UpdateDraft(ctx, models.FieldName, "changed"), name)
		}
		c.Cancel(ctx)

		assert.Equal(t, models.EditState{}, c.EditState(), name)
		assert.Equal(t, seedProducts(), c.List(), name)
	}
}

func TestProductCatalog_CommitWhileIdle(t *testing.T) {
	t.Parallel()

	c := NewProductCatalog(asManager, seedProducts())
	_, err := c.Commit(context.Background())
	require.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, seedProducts(), c.List())
}

func TestProductCatalog_CommitValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		draftName, q, p string
	}{
		{name: "missing name", q: "1", p: "1"},
		{name: "blank name", draftName: "   ", q: "1", p: "1"},
		{name: "missing quantity", draftName: "x", p: "1"},
		{name: "missing price", draftName: "x", q: "1"},
		{name: "non-numeric quantity", draftName: "x", q: "lots", p: "1"},
		{name: "fractional quantity", draftName: "x", q: "1.5", p: "1"},
		{name: "negative quantity", draftName: "x", q: "-1", p: "1"},
		{name: "non-numeric price", draftName: "x", q: "1", p: "cheap"},
		{name: "negative price", draftName: "x", q: "1", p: "-0.01"},
		{name: "nan price", draftName: "x", q: "1", p: "NaN"},
		{name: "infinite price", draftName: "x", q: "1", p: "Inf"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			c := NewProductCatalog(asManager, seedProducts())
			require.NoError(t, c.BeginAdd(ctx))
			fillDraft(t, c, tt.draftName, tt.q, tt.p)

			_, err := c.Commit(ctx)
			require.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, models.EditAdding, c.EditState().Mode)
			assert.Equal(t, seedProducts(), c.List())
		})
	}
}

func TestProductCatalog_CommitTrimsInput(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := NewProductCatalog(asManager, nil)
	require.NoError(t, c.BeginAdd(ctx))
	fillDraft(t, c, "  Bolt ", " 12 ", " 0.5 ")

	res, err := c.Commit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bolt", res.Product.Name)
	assert.Equal(t, 12, res.Product.Quantity)
	assert.InDelta(t, 0.5, res.Product.Price, 1e-9)
}

func TestProductCatalog_CommitRechecksRole(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	role := &fixedRole{role: models.RoleStoreKeeper, ok: true}
	c := NewProductCatalog(role, seedProducts())

	require.NoError(t, c.BeginAdd(ctx))
	fillDraft(t, c, "Widget", "1", "1")

	role.ok = false
	_, err := c.Commit(ctx)
	require.ErrorIs(t, err, ErrUnauthorized)
	require.ErrorIs(t, c.UpdateDraft(ctx, models.FieldName, "y"), ErrUnauthorized)
	assert.Equal(t, seedProducts(), c.List())
}

func TestProductCatalog_InterleavedOperations(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := NewProductCatalog(asManager, seedProducts())
	want := seedProducts()

	// add C
	require.NoError(t, c.BeginAdd(ctx))
	fillDraft(t, c, "C", "3", "3")
	res, err := c.Commit(ctx)
	require.NoError(t, err)
	want = append(want, res.Product)

	// edit B, then cancel
	require.NoError(t, c.BeginEdit(ctx, 2))
	require.NoError(t, c.UpdateDraft(ctx, models.FieldName, "ignored"))
	c.Cancel(ctx)

	// add with invalid price, then cancel
	require.NoError(t, c.BeginAdd(ctx))
	fillDraft(t, c, "bad", "1", "x")
	_, err = c.Commit(ctx)
	require.ErrorIs(t, err, ErrValidation)
	c.Cancel(ctx)

	// edit A
	require.NoError(t, c.BeginEdit(ctx, 1))
	require.NoError(t, c.UpdateDraft(ctx, models.FieldQuantity, "0"))
	_, err = c.Commit(ctx)
	require.NoError(t, err)
	want[0].Quantity = 0

	// add D
	require.NoError(t, c.BeginAdd(ctx))
	fillDraft(t, c, "D", "4", "4.25")
	res, err = c.Commit(ctx)
	require.NoError(t, err)
	want = append(want, res.Product)

	// edit C (added earlier)
	require.NoError(t, c.BeginEdit(ctx, want[2].ID))
	require.NoError(t, c.UpdateDraft(ctx, models.FieldPrice, "30"))
	_, err = c.Commit(ctx)
	require.NoError(t, err)
	want[2].Price = 30

	assert.Equal(t, want, c.List())
	assert.Equal(t, models.EditIdle, c.EditState().Mode)
}

func TestProductCatalog_Stats(t *testing.T) {
	t.Parallel()

	c := NewProductCatalog(asManager, seedProducts())
	assert.Equal(t, Stats{Products: 2, Units: 15, StockValue: 209.85}, c.Stats())
	assert.Equal(t, Stats{}, NewProductCatalog(asManager, nil).Stats())
}

func TestProductCatalog_IDSpaceExhausted(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := NewProductCatalog(asManager, []models.Product{{ID: math.MaxInt - 1, Name: "near the end"}})

	require.NoError(t, c.BeginAdd(ctx))
	fillDraft(t, c, "last", "1", "1")
	res, err := c.Commit(ctx)
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, res.Product.ID)

	require.NoError(t, c.BeginAdd(ctx))
	fillDraft(t, c, "one too many", "1", "1")
	_, err = c.Commit(ctx)
	require.ErrorIs(t, err, ErrIDsExhausted)

	assert.Len(t, c.List(), 2)
	assert.Equal(t, models.EditAdding, c.EditState().Mode)
	for _, p := range c.List() {
		assert.Positive(t, p.ID)
	}
}

func TestProductCatalog_SeededWithLargestID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := NewProductCatalog(asManager, []models.Product{{ID: math.MaxInt, Name: "x"}})

	require.NoError(t, c.BeginAdd(ctx))
	fillDraft(t, c, "y", "1", "1")
	_, err := c.Commit(ctx)
	require.ErrorIs(t, err, ErrIDsExhausted)
	assert.Len(t, c.List(), 1)
}

func TestProductCatalog_StatsUnitsSaturate(t *testing.T) {
	t.Parallel()

	c := NewProductCatalog(asManager, []models.Product{
		{ID: 1, Name: "a", Quantity: math.MaxInt},
		{ID: 2, Name: "b", Quantity: math.MaxInt},
		{ID: 3, Name: "c", Quantity: 7},
	})
	st := c.Stats()
	assert.Equal(t, 3, st.Products)
	assert.Equal(t, math.MaxInt, st.Units)
}
