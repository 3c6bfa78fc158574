package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pedroaraujox/Viza-Stock/internal/domain"
	"github.com/pedroaraujox/Viza-Stock/internal/dto"
	"github.com/pedroaraujox/Viza-Stock/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStockService() (StockService, *stubProductRepo, *stubRecipeRepo, *stubMovementRepo) {
	products := newStubProductRepo()
	recipes := newStubRecipeRepo()
	movements := newStubMovementRepo()
	return NewStockService(products, recipes, movements), products, recipes, movements
}

func TestCreateProductAllocatesSequentialCodes(t *testing.T) {
	svc, _, _, _ := newStockService()
	ctx := context.Background()

	first, err := svc.Create(ctx, dto.CreateProductRequest{
		Name: "Sugar", Unit: "kg", Category: model.CategoryRawMaterial,
	})
	require.NoError(t, err)
	assert.Equal(t, "01", first.Code)

	second, err := svc.Create(ctx, dto.CreateProductRequest{
		Name: "Cocoa", Unit: "kg", Category: model.CategoryRawMaterial,
	})
	require.NoError(t, err)
	assert.Equal(t, "02", second.Code)
}

func TestCreateProductNormalizesExplicitCode(t *testing.T) {
	svc, _, _, _ := newStockService()
	ctx := context.Background()

	resp, err := svc.Create(ctx, dto.CreateProductRequest{
		Code: "7", Name: "Milk", Unit: "l", Category: model.CategoryRawMaterial,
	})
	require.NoError(t, err)
	assert.Equal(t, "07", resp.Code)

	// "07" and "7" are the same identity
	_, err = svc.Create(ctx, dto.CreateProductRequest{
		Code: "07", Name: "Milk again", Unit: "l", Category: model.CategoryRawMaterial,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicateIdentity))

	// allocation skips the hand-assigned code
	next, err := svc.Create(ctx, dto.CreateProductRequest{
		Name: "Butter", Unit: "kg", Category: model.CategoryRawMaterial,
	})
	require.NoError(t, err)
	assert.Equal(t, "08", next.Code)
}

func TestCreateProductValidation(t *testing.T) {
	svc, _, _, _ := newStockService()
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.CreateProductRequest{
		Name: "Bad", Unit: "kg", Category: "WIDGET",
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))

	_, err = svc.Create(ctx, dto.CreateProductRequest{
		Name: "Bad", Unit: "kg", Category: model.CategoryRawMaterial, MinQuantity: d("-1"),
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))

	_, err = svc.Create(ctx, dto.CreateProductRequest{
		Code: "AB1", Name: "Bad", Unit: "kg", Category: model.CategoryRawMaterial,
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestCreditAndDebitRecordMovements(t *testing.T) {
	svc, products, _, movements := newStockService()
	ctx := context.Background()
	seedProduct(products, "01", "Sugar", model.CategoryRawMaterial, "0", "0")

	resp, err := svc.Credit(ctx, "01", dto.StockChangeRequest{Quantity: d("10"), Reason: "delivery"})
	require.NoError(t, err)
	assert.True(t, resp.Quantity.Equal(d("10")))

	resp, err = svc.Debit(ctx, "01", dto.StockChangeRequest{Quantity: d("4"), Reason: "spillage"})
	require.NoError(t, err)
	assert.True(t, resp.Quantity.Equal(d("6")))

	history, err := svc.Movements(ctx, "01", 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	// newest first
	assert.Equal(t, model.MovementIssue, history[0].Type)
	assert.True(t, history[0].QuantityBefore.Equal(d("10")))
	assert.True(t, history[0].QuantityAfter.Equal(d("6")))
	assert.Equal(t, model.MovementReceipt, history[1].Type)
	assert.True(t, history[1].QuantityBefore.Equal(d("0")))

	assert.Equal(t, 2, movements.count())
}

func TestDebitNeverDrivesStockNegative(t *testing.T) {
	svc, products, _, movements := newStockService()
	ctx := context.Background()
	seedProduct(products, "01", "Sugar", model.CategoryRawMaterial, "6", "0")

	_, err := svc.Debit(ctx, "01", dto.StockChangeRequest{Quantity: d("100")})
	require.Error(t, err)

	var insufficient *domain.InsufficientStockError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, "01", insufficient.ProductID)
	assert.True(t, insufficient.Needed.Equal(d("100")))
	assert.True(t, insufficient.Available.Equal(d("6")))

	assert.True(t, products.quantityOf("01").Equal(d("6")))
	assert.Equal(t, 0, movements.count())
}

func TestStockChangeRejectsNonPositiveAmounts(t *testing.T) {
	svc, products, _, _ := newStockService()
	ctx := context.Background()
	seedProduct(products, "01", "Sugar", model.CategoryRawMaterial, "5", "0")

	for _, amount := range []string{"0", "-3"} {
		_, err := svc.Credit(ctx, "01", dto.StockChangeRequest{Quantity: d(amount)})
		assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
		_, err = svc.Debit(ctx, "01", dto.StockChangeRequest{Quantity: d(amount)})
		assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
	}
}

func TestStockChangeUnknownProduct(t *testing.T) {
	svc, _, _, _ := newStockService()
	ctx := context.Background()

	_, err := svc.Credit(ctx, "99", dto.StockChangeRequest{Quantity: d("1")})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	_, err = svc.Get(ctx, "99")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDeleteRawMaterialReferencedByRecipe(t *testing.T) {
	svc, products, recipes, _ := newStockService()
	ctx := context.Background()
	seedProduct(products, "01", "Sugar", model.CategoryRawMaterial, "5", "0")
	seedProduct(products, "10", "Chocolate Bar", model.CategoryFinishedGood, "0", "0")
	seedRecipe(recipes, "10", line("01", "0.1"))

	err := svc.Delete(ctx, "01")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))

	// still present
	_, err = svc.Get(ctx, "01")
	assert.NoError(t, err)
}

func TestDeleteFinishedGoodCascadesRecipe(t *testing.T) {
	svc, products, recipes, _ := newStockService()
	ctx := context.Background()
	seedProduct(products, "01", "Sugar", model.CategoryRawMaterial, "5", "0")
	seedProduct(products, "10", "Chocolate Bar", model.CategoryFinishedGood, "0", "0")
	seedRecipe(recipes, "10", line("01", "0.1"))

	require.NoError(t, svc.Delete(ctx, "10"))

	_, err := svc.Get(ctx, "10")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	used, err := recipes.ExistsLineForMaterialTx(nil, "01")
	require.NoError(t, err)
	assert.False(t, used)

	// now the material is free to go
	assert.NoError(t, svc.Delete(ctx, "01"))
}

func TestUnpaddedCodesResolveSameProduct(t *testing.T) {
	svc, _, _, _ := newStockService()
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.CreateProductRequest{
		Code: "7", Name: "Sugar", Unit: "kg", Category: model.CategoryRawMaterial,
	})
	require.NoError(t, err)
	assert.Equal(t, "07", created.Code)

	// every operation reapplies the padding
	_, err = svc.Credit(ctx, "7", dto.StockChangeRequest{Quantity: d("10")})
	require.NoError(t, err)
	got, err := svc.Get(ctx, "007")
	require.NoError(t, err)
	assert.Equal(t, "07", got.Code)
	assert.True(t, got.Quantity.Equal(d("10")))

	_, err = svc.Debit(ctx, "7", dto.StockChangeRequest{Quantity: d("4")})
	require.NoError(t, err)
	history, err := svc.Movements(ctx, "7", 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "07", history[0].ProductCode)

	_, err = svc.Get(ctx, "abc")
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestMovementTimestampRendersUTC(t *testing.T) {
	loc := time.FixedZone("ART", -3*60*60)
	m := &model.StockMovement{
		ID:        uuid.New(),
		ProductID: "01",
		Type:      model.MovementReceipt,
		Quantity:  d("1"),
		CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, loc),
	}
	assert.Equal(t, "2026-03-01T12:00:00Z", movementToResponse(m).CreatedAt)
}
