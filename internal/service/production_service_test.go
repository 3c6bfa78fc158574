package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/pedroaraujox/Viza-Stock/internal/domain"
	"github.com/pedroaraujox/Viza-Stock/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProductionService() (ProductionService, *stubProductRepo, *stubRecipeRepo, *stubMovementRepo) {
	products := newStubProductRepo()
	recipes := newStubRecipeRepo()
	movements := newStubMovementRepo()
	return NewProductionService(products, recipes, movements, nil), products, recipes, movements
}

// chocolateFactory seeds the classic setup: 100 Sugar, 50 Cocoa, 200 Milk,
// and a bar recipe of 0.1 / 0.05 / 0.02 per unit.
func chocolateFactory(products *stubProductRepo, recipes *stubRecipeRepo) {
	seedProduct(products, "01", "Sugar", model.CategoryRawMaterial, "100", "0")
	seedProduct(products, "02", "Cocoa", model.CategoryRawMaterial, "50", "0")
	seedProduct(products, "03", "Milk", model.CategoryRawMaterial, "200", "0")
	seedProduct(products, "10", "Chocolate Bar", model.CategoryFinishedGood, "0", "0")
	seedRecipe(recipes, "10",
		line("01", "0.1"),
		line("02", "0.05"),
		line("03", "0.02"),
	)
}

func TestCheckFeasibilityIsReadOnly(t *testing.T) {
	svc, products, recipes, movements := newProductionService()
	ctx := context.Background()
	chocolateFactory(products, recipes)

	resp, err := svc.CheckFeasibility(ctx, "10", d("500"))
	require.NoError(t, err)
	assert.True(t, resp.Feasible)
	require.Len(t, resp.Lines, 3)
	assert.True(t, resp.Lines[0].Needed.Equal(d("50")))
	assert.True(t, resp.Lines[0].Available.Equal(d("100")))
	assert.True(t, resp.Lines[1].Needed.Equal(d("25")))
	assert.True(t, resp.Lines[2].Needed.Equal(d("10")))

	// nothing moved
	assert.True(t, products.quantityOf("01").Equal(d("100")))
	assert.True(t, products.quantityOf("10").IsZero())
	assert.Equal(t, 0, movements.count())
}

func TestCheckFeasibilityStopsAtFirstShortfall(t *testing.T) {
	svc, products, recipes, _ := newProductionService()
	ctx := context.Background()
	chocolateFactory(products, recipes)

	resp, err := svc.CheckFeasibility(ctx, "10", d("1100"))
	require.NoError(t, err)
	assert.False(t, resp.Feasible)
	// sugar needs 110 of 100 — evaluation stops there
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, "01", resp.Lines[0].MaterialCode)
	assert.True(t, resp.Lines[0].Needed.Equal(d("110")))
	assert.True(t, resp.Lines[0].Available.Equal(d("100")))
	assert.False(t, resp.Lines[0].Sufficient)
}

func TestExecuteDebitsComponentsAndCreditsProduct(t *testing.T) {
	svc, products, recipes, movements := newProductionService()
	ctx := context.Background()
	chocolateFactory(products, recipes)

	resp, err := svc.Execute(ctx, "10", d("500"))
	require.NoError(t, err)
	assert.Equal(t, "10", resp.ProductCode)
	assert.True(t, resp.Produced.Equal(d("500")))
	assert.True(t, resp.OnHand.Equal(d("500")))
	require.Len(t, resp.Consumed, 3)
	assert.True(t, resp.Consumed[0].Consumed.Equal(d("50")))
	assert.True(t, resp.Consumed[0].Remaining.Equal(d("50")))
	assert.True(t, resp.Consumed[1].Remaining.Equal(d("25")))
	assert.True(t, resp.Consumed[2].Remaining.Equal(d("190")))

	assert.True(t, products.quantityOf("01").Equal(d("50")))
	assert.True(t, products.quantityOf("02").Equal(d("25")))
	assert.True(t, products.quantityOf("03").Equal(d("190")))
	assert.True(t, products.quantityOf("10").Equal(d("500")))

	// three debits plus one credit
	assert.Equal(t, 4, movements.count())
	credits, err := movements.ListByProduct(ctx, "10", 0)
	require.NoError(t, err)
	require.Len(t, credits, 1)
	assert.Equal(t, model.MovementProductionCredit, credits[0].Type)
	assert.True(t, credits[0].QuantityAfter.Equal(d("500")))
}

func TestExecuteInfeasibleLeavesEverythingUntouched(t *testing.T) {
	svc, products, recipes, movements := newProductionService()
	ctx := context.Background()
	chocolateFactory(products, recipes)

	_, err := svc.Execute(ctx, "10", d("1100"))
	require.Error(t, err)

	var insufficient *domain.InsufficientStockError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, "01", insufficient.ProductID)
	assert.True(t, insufficient.Needed.Equal(d("110")))
	assert.True(t, insufficient.Available.Equal(d("100")))

	assert.True(t, products.quantityOf("01").Equal(d("100")))
	assert.True(t, products.quantityOf("02").Equal(d("50")))
	assert.True(t, products.quantityOf("03").Equal(d("200")))
	assert.True(t, products.quantityOf("10").IsZero())
	assert.Equal(t, 0, movements.count())
}

func TestExecuteValidation(t *testing.T) {
	svc, products, recipes, _ := newProductionService()
	ctx := context.Background()
	chocolateFactory(products, recipes)

	_, err := svc.Execute(ctx, "10", d("0"))
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
	_, err = svc.Execute(ctx, "10", d("-5"))
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
	_, err = svc.Execute(ctx, "99", d("5"))
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	_, err = svc.CheckFeasibility(ctx, "99", d("5"))
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// Two overlapping executions competing for stock that covers only one of
// them: exactly one commits, and the ledger never goes negative.
func TestExecuteConcurrentAtMostOneSucceeds(t *testing.T) {
	svc, products, recipes, _ := newProductionService()
	ctx := context.Background()
	seedProduct(products, "01", "Resin", model.CategoryRawMaterial, "10", "0")
	seedProduct(products, "05", "Panel", model.CategoryFinishedGood, "0", "0")
	seedRecipe(recipes, "05", line("01", "1"))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Execute(ctx, "05", d("10"))
		}(i)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			failures++
		}
	}
	assert.Equal(t, 1, failures, "exactly one execution must fail")
	assert.True(t, products.quantityOf("01").IsZero())
	assert.True(t, products.quantityOf("05").Equal(d("10")))
}

func TestProductionAcceptsUnpaddedCodes(t *testing.T) {
	svc, products, recipes, _ := newProductionService()
	ctx := context.Background()
	chocolateFactory(products, recipes)

	resp, err := svc.CheckFeasibility(ctx, "010", d("1"))
	require.NoError(t, err)
	assert.Equal(t, "10", resp.ProductCode)

	exec, err := svc.Execute(ctx, "010", d("1"))
	require.NoError(t, err)
	assert.Equal(t, "10", exec.ProductCode)
	assert.True(t, products.quantityOf("10").Equal(d("1")))
}
