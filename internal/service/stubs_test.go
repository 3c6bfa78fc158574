package service

// In-memory repository stubs. Tx methods receive the nil transaction that
// runTx hands out when DB() returns nil; the conditional debit is guarded by
// a mutex so concurrent executions behave like the SQL guard.

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/pedroaraujox/Viza-Stock/internal/dto"
	"github.com/pedroaraujox/Viza-Stock/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── ProductRepository stub ───────────────────────────────────────────────────

type stubProductRepo struct {
	mu       sync.Mutex
	products map[string]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[string]*model.Product)}
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *stubProductRepo) CreateTx(_ *gorm.DB, p *model.Product) error {
	return r.Create(context.Background(), p)
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) List(_ context.Context) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.products))
	for id := range r.products {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		out = append(out, *r.products[id])
	}
	return out, nil
}

func (r *stubProductRepo) ListBelowMinimum(_ context.Context) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Product
	for _, p := range r.products {
		if p.MinQuantity.Sign() > 0 && p.Quantity.LessThanOrEqual(p.MinQuantity) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) ExistsByID(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.products[id]
	return ok, nil
}

func (r *stubProductRepo) MaxNumericID(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	max := 0
	for id := range r.products {
		if n, err := strconv.Atoi(id); err == nil && n > max {
			max = n
		}
	}
	return max, nil
}

func (r *stubProductRepo) LockForUpdateTx(_ *gorm.DB, ids []string) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	var out []model.Product
	for _, id := range sorted {
		if p, ok := r.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) CreditTx(_ *gorm.DB, id string, amount decimal.Decimal) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return false, nil
	}
	p.Quantity = p.Quantity.Add(amount)
	return true, nil
}

func (r *stubProductRepo) DebitTx(_ *gorm.DB, id string, amount decimal.Decimal) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok || p.Quantity.LessThan(amount) {
		return false, nil
	}
	p.Quantity = p.Quantity.Sub(amount)
	return true, nil
}

func (r *stubProductRepo) DeleteTx(_ *gorm.DB, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) quantityOf(id string) decimal.Decimal {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.products[id]; ok {
		return p.Quantity
	}
	return decimal.Zero
}

// ── RecipeRepository stub ────────────────────────────────────────────────────

type stubRecipeRepo struct {
	mu      sync.Mutex
	recipes map[string]*model.Recipe // keyed by product id
}

func newStubRecipeRepo() *stubRecipeRepo {
	return &stubRecipeRepo{recipes: make(map[string]*model.Recipe)}
}

func (r *stubRecipeRepo) DB() *gorm.DB { return nil }

func (r *stubRecipeRepo) FindByProductID(_ context.Context, productID string) (*model.Recipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.recipes[productID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *rec
	cp.Lines = append([]model.RecipeLine(nil), rec.Lines...)
	return &cp, nil
}

func (r *stubRecipeRepo) List(_ context.Context) ([]model.Recipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.recipes))
	for id := range r.recipes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]model.Recipe, 0, len(ids))
	for _, id := range ids {
		out = append(out, *r.recipes[id])
	}
	return out, nil
}

func (r *stubRecipeRepo) ReplaceTx(_ *gorm.DB, rec *model.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rec
	cp.Lines = append([]model.RecipeLine(nil), rec.Lines...)
	r.recipes[rec.ProductID] = &cp
	return nil
}

func (r *stubRecipeRepo) DeleteTx(_ *gorm.DB, recipeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for pid, rec := range r.recipes {
		if rec.ID == recipeID {
			delete(r.recipes, pid)
		}
	}
	return nil
}

func (r *stubRecipeRepo) ExistsLineForMaterialTx(_ *gorm.DB, materialID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.recipes {
		for _, line := range rec.Lines {
			if line.MaterialID == materialID {
				return true, nil
			}
		}
	}
	return false, nil
}

// ── MovementRepository stub ──────────────────────────────────────────────────

type stubMovementRepo struct {
	mu        sync.Mutex
	movements []model.StockMovement
}

func newStubMovementRepo() *stubMovementRepo { return &stubMovementRepo{} }

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) ListByProduct(_ context.Context, productID string, limit int) ([]model.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.StockMovement
	for i := len(r.movements) - 1; i >= 0; i-- {
		if r.movements[i].ProductID == productID {
			out = append(out, r.movements[i])
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *stubMovementRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.movements)
}

// ── OrderRepository stub ─────────────────────────────────────────────────────

type stubOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*model.ProductionOrder
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[uuid.UUID]*model.ProductionOrder)}
}

func (r *stubOrderRepo) DB() *gorm.DB { return nil }

func (r *stubOrderRepo) Create(_ context.Context, o *model.ProductionOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o.CreatedAt = time.Now()
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ProductionOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *stubOrderRepo) List(_ context.Context, filter dto.OrderFilter) ([]model.ProductionOrder, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ProductionOrder
	for _, o := range r.orders {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *stubOrderRepo) UpdateStatusFrom(_ context.Context, id uuid.UUID, from, to string, executedAt *time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	o.ExecutedAt = executedAt
	return true, nil
}

// ── Seed helpers ─────────────────────────────────────────────────────────────

func seedProduct(r *stubProductRepo, id, name, category, qty, min string) {
	r.products[id] = &model.Product{
		ID:          id,
		Name:        name,
		Unit:        "kg",
		Category:    category,
		Quantity:    decimal.RequireFromString(qty),
		MinQuantity: decimal.RequireFromString(min),
	}
}

func seedRecipe(r *stubRecipeRepo, productID string, lines ...model.RecipeLine) {
	rec := &model.Recipe{
		ID:        model.RecipeID(productID),
		ProductID: productID,
		Lines:     lines,
	}
	for i := range rec.Lines {
		rec.Lines[i].RecipeID = rec.ID
		rec.Lines[i].Position = i + 1
	}
	r.recipes[productID] = rec
}

func line(materialID, perUnit string) model.RecipeLine {
	return model.RecipeLine{
		MaterialID:      materialID,
		QuantityPerUnit: decimal.RequireFromString(perUnit),
	}
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }
