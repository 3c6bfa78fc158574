package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pedroaraujox/Viza-Stock/internal/domain"
	"github.com/pedroaraujox/Viza-Stock/internal/dto"
	"github.com/pedroaraujox/Viza-Stock/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderService() (OrderService, *stubProductRepo, *stubRecipeRepo, *stubOrderRepo, *stubMovementRepo) {
	products := newStubProductRepo()
	recipes := newStubRecipeRepo()
	movements := newStubMovementRepo()
	orders := newStubOrderRepo()
	production := NewProductionService(products, recipes, movements, nil)
	return NewOrderService(orders, products, recipes, production), products, recipes, orders, movements
}

func createOrder(t *testing.T, svc OrderService, code, qty string) *dto.OrderResponse {
	t.Helper()
	resp, err := svc.Create(context.Background(), dto.CreateOrderRequest{
		ProductCode: code,
		Quantity:    d(qty),
	})
	require.NoError(t, err)
	return resp
}

func TestCreateOrderStartsPending(t *testing.T) {
	svc, products, _, _, _ := newOrderService()
	seedProduct(products, "10", "Chocolate Bar", model.CategoryFinishedGood, "0", "0")

	resp := createOrder(t, svc, "10", "500")
	assert.Equal(t, model.OrderPending, resp.Status)
	assert.Equal(t, "10", resp.ProductCode)
	assert.Equal(t, "Chocolate Bar", resp.ProductName)
	assert.True(t, resp.Quantity.Equal(d("500")))
	assert.Nil(t, resp.ExecutedAt)

	id, err := uuid.Parse(resp.ID)
	require.NoError(t, err)
	got, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.OrderPending, got.Status)
}

func TestCreateOrderValidation(t *testing.T) {
	svc, products, _, _, _ := newOrderService()
	seedProduct(products, "01", "Sugar", model.CategoryRawMaterial, "100", "0")
	seedProduct(products, "10", "Chocolate Bar", model.CategoryFinishedGood, "0", "0")
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.CreateOrderRequest{ProductCode: "10", Quantity: d("0")})
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))

	_, err = svc.Create(ctx, dto.CreateOrderRequest{ProductCode: "99", Quantity: d("5")})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	// orders are for finished goods only
	_, err = svc.Create(ctx, dto.CreateOrderRequest{ProductCode: "01", Quantity: d("5")})
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestListOrdersFiltersByStatus(t *testing.T) {
	svc, products, _, _, _ := newOrderService()
	seedProduct(products, "10", "Chocolate Bar", model.CategoryFinishedGood, "0", "0")
	ctx := context.Background()

	createOrder(t, svc, "10", "5")
	second := createOrder(t, svc, "10", "7")
	id, err := uuid.Parse(second.ID)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, id, model.OrderApproved)
	require.NoError(t, err)

	all, err := svc.List(ctx, dto.OrderFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)
	assert.Equal(t, 1, all.Page)
	assert.Equal(t, 20, all.Limit)

	approved, err := svc.List(ctx, dto.OrderFilter{Status: model.OrderApproved})
	require.NoError(t, err)
	require.Len(t, approved.Data, 1)
	assert.Equal(t, second.ID, approved.Data[0].ID)
}

func TestOrderTransitionTable(t *testing.T) {
	cases := []struct {
		from    string
		to      string
		allowed bool
	}{
		{model.OrderPending, model.OrderApproved, true},
		{model.OrderPending, model.OrderRejected, true},
		{model.OrderPending, model.OrderCancelled, true},
		{model.OrderPending, model.OrderExecuted, false},
		{model.OrderApproved, model.OrderExecuted, true},
		{model.OrderApproved, model.OrderRejected, true},
		{model.OrderApproved, model.OrderCancelled, true},
		{model.OrderApproved, model.OrderPending, false},
		{model.OrderExecuted, model.OrderCancelled, false},
		{model.OrderRejected, model.OrderApproved, false},
		{model.OrderCancelled, model.OrderPending, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, transitionAllowed(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestUpdateStatusRejectsBadTransitions(t *testing.T) {
	svc, products, recipes, _, _ := newOrderService()
	chocolateFactory(products, recipes)
	ctx := context.Background()

	order := createOrder(t, svc, "10", "5")
	id, err := uuid.Parse(order.ID)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, id, "SHIPPED")
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))

	// executing a pending order skips approval
	_, err = svc.UpdateStatus(ctx, id, model.OrderExecuted)
	assert.True(t, errors.Is(err, domain.ErrConflict))

	_, err = svc.UpdateStatus(ctx, uuid.New(), model.OrderApproved)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	// terminal states allow nothing further
	_, err = svc.UpdateStatus(ctx, id, model.OrderRejected)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, id, model.OrderApproved)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestExecuteOrderRunsProduction(t *testing.T) {
	svc, products, recipes, _, movements := newOrderService()
	chocolateFactory(products, recipes)
	ctx := context.Background()

	order := createOrder(t, svc, "10", "500")
	id, err := uuid.Parse(order.ID)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, id, model.OrderApproved)
	require.NoError(t, err)

	resp, err := svc.UpdateStatus(ctx, id, model.OrderExecuted)
	require.NoError(t, err)
	assert.Equal(t, model.OrderExecuted, resp.Status)
	require.NotNil(t, resp.ExecutedAt)

	assert.True(t, products.quantityOf("01").Equal(d("50")))
	assert.True(t, products.quantityOf("02").Equal(d("25")))
	assert.True(t, products.quantityOf("03").Equal(d("190")))
	assert.True(t, products.quantityOf("10").Equal(d("500")))

	// every movement carries the order reference
	history, err := movements.ListByProduct(ctx, "10", 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.NotNil(t, history[0].ReferenceID)
	assert.Equal(t, id, *history[0].ReferenceID)

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.OrderExecuted, got.Status)
	assert.NotNil(t, got.ExecutedAt)
}

func TestExecuteOrderFailureKeepsApproved(t *testing.T) {
	svc, products, recipes, _, movements := newOrderService()
	chocolateFactory(products, recipes)
	ctx := context.Background()

	order := createOrder(t, svc, "10", "1100")
	id, err := uuid.Parse(order.ID)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, id, model.OrderApproved)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, id, model.OrderExecuted)
	var insufficient *domain.InsufficientStockError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, "01", insufficient.ProductID)

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.OrderApproved, got.Status)
	assert.Nil(t, got.ExecutedAt)

	assert.True(t, products.quantityOf("01").Equal(d("100")))
	assert.True(t, products.quantityOf("10").IsZero())
	assert.Equal(t, 0, movements.count())
}

// Two racing EXECUTED transitions on one approved order: the conditional
// status claim lets exactly one of them reach the executor, so the raw
// materials are consumed once.
func TestExecuteOrderConcurrentTransitionSingleWinner(t *testing.T) {
	svc, products, recipes, _, movements := newOrderService()
	ctx := context.Background()
	seedProduct(products, "01", "Resin", model.CategoryRawMaterial, "10", "0")
	seedProduct(products, "05", "Panel", model.CategoryFinishedGood, "0", "0")
	seedRecipe(recipes, "05", line("01", "1"))

	order := createOrder(t, svc, "05", "10")
	id, err := uuid.Parse(order.ID)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, id, model.OrderApproved)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.UpdateStatus(ctx, id, model.OrderExecuted)
		}(i)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			failures++
			assert.True(t, errors.Is(err, domain.ErrConflict))
		}
	}
	assert.Equal(t, 1, failures, "exactly one transition must win")

	// one debit, one credit: the order was produced exactly once
	assert.True(t, products.quantityOf("01").IsZero())
	assert.True(t, products.quantityOf("05").Equal(d("10")))
	assert.Equal(t, 2, movements.count())

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.OrderExecuted, got.Status)
}

func TestCreateOrderAcceptsUnpaddedCode(t *testing.T) {
	svc, products, _, _, _ := newOrderService()
	seedProduct(products, "10", "Chocolate Bar", model.CategoryFinishedGood, "0", "0")

	resp, err := svc.Create(context.Background(), dto.CreateOrderRequest{
		ProductCode: "010",
		Quantity:    d("5"),
	})
	require.NoError(t, err)
	assert.Equal(t, "10", resp.ProductCode)
}

func TestOrderTimestampsRenderUTC(t *testing.T) {
	loc := time.FixedZone("ART", -3*60*60)
	executed := time.Date(2026, 3, 1, 9, 30, 0, 0, loc)
	resp := orderToResponse(&model.ProductionOrder{
		ID:         uuid.New(),
		ProductID:  "10",
		Quantity:   d("1"),
		Status:     model.OrderExecuted,
		ExecutedAt: &executed,
		CreatedAt:  time.Date(2026, 3, 1, 9, 0, 0, 0, loc),
	})
	assert.Equal(t, "2026-03-01T12:00:00Z", resp.CreatedAt)
	require.NotNil(t, resp.ExecutedAt)
	assert.Equal(t, "2026-03-01T12:30:00Z", *resp.ExecutedAt)
}
