package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/pedroaraujox/Viza-Stock/internal/domain"
	"github.com/pedroaraujox/Viza-Stock/internal/dto"
	"github.com/pedroaraujox/Viza-Stock/internal/model"
	"github.com/pedroaraujox/Viza-Stock/internal/repository"
	"github.com/pedroaraujox/Viza-Stock/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductionService is the feasibility checker and production executor.
//
// CheckFeasibility is a pure read. Execute re-runs the same evaluation inside
// one transaction with every involved product row locked, then applies all
// debits and the finished-good credit as a single unit of work: either the
// whole conversion commits or nothing does.
type ProductionService interface {
	CheckFeasibility(ctx context.Context, productCode string, quantity decimal.Decimal) (*dto.FeasibilityResponse, error)
	Execute(ctx context.Context, productCode string, quantity decimal.Decimal) (*dto.ExecutionResponse, error)
	// ExecuteOrder is Execute with the movement records tagged by the
	// triggering production order.
	ExecuteOrder(ctx context.Context, orderID uuid.UUID, productCode string, quantity decimal.Decimal) (*dto.ExecutionResponse, error)
}

type productionService struct {
	products   repository.ProductRepository
	recipes    repository.RecipeRepository
	movements  repository.MovementRepository
	dispatcher *worker.Dispatcher // nil when async alerts are disabled (tests)
}

func NewProductionService(
	products repository.ProductRepository,
	recipes repository.RecipeRepository,
	movements repository.MovementRepository,
	dispatcher *worker.Dispatcher,
) ProductionService {
	return &productionService{
		products:   products,
		recipes:    recipes,
		movements:  movements,
		dispatcher: dispatcher,
	}
}

func (s *productionService) CheckFeasibility(ctx context.Context, productCode string, quantity decimal.Decimal) (*dto.FeasibilityResponse, error) {
	if quantity.Sign() <= 0 {
		return nil, domain.Invalidf("requested quantity must be positive, got %s", quantity)
	}
	productCode, err := canonicalCode(productCode)
	if err != nil {
		return nil, err
	}
	recipe, err := s.recipes.FindByProductID(ctx, productCode)
	if err != nil {
		return nil, notFoundOr(err, "recipe for product %q", productCode)
	}

	resp := &dto.FeasibilityResponse{
		ProductCode: productCode,
		Quantity:    quantity,
		Feasible:    true,
	}
	for _, line := range recipe.Lines {
		material, err := s.products.FindByID(ctx, line.MaterialID)
		if err != nil {
			return nil, notFoundOr(err, "raw material %q", line.MaterialID)
		}
		needed := line.QuantityPerUnit.Mul(quantity)
		check := dto.LineCheck{
			MaterialCode: line.MaterialID,
			MaterialName: material.Name,
			Needed:       needed,
			Available:    material.Quantity,
			Sufficient:   material.Quantity.GreaterThanOrEqual(needed),
		}
		resp.Lines = append(resp.Lines, check)
		if !check.Sufficient {
			// Stop at the first shortfall; the caller sees which line failed.
			resp.Feasible = false
			break
		}
	}
	return resp, nil
}

func (s *productionService) Execute(ctx context.Context, productCode string, quantity decimal.Decimal) (*dto.ExecutionResponse, error) {
	return s.execute(ctx, nil, productCode, quantity)
}

func (s *productionService) ExecuteOrder(ctx context.Context, orderID uuid.UUID, productCode string, quantity decimal.Decimal) (*dto.ExecutionResponse, error) {
	return s.execute(ctx, &orderID, productCode, quantity)
}

func (s *productionService) execute(ctx context.Context, orderID *uuid.UUID, productCode string, quantity decimal.Decimal) (*dto.ExecutionResponse, error) {
	if quantity.Sign() <= 0 {
		return nil, domain.Invalidf("requested quantity must be positive, got %s", quantity)
	}
	productCode, err := canonicalCode(productCode)
	if err != nil {
		return nil, err
	}
	recipe, err := s.recipes.FindByProductID(ctx, productCode)
	if err != nil {
		return nil, notFoundOr(err, "recipe for product %q", productCode)
	}
	if len(recipe.Lines) == 0 {
		return nil, domain.Invalidf("recipe for product %q has no components", productCode)
	}

	reason := fmt.Sprintf("production of %s x %s", quantity, productCode)

	var resp *dto.ExecutionResponse
	err = runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		// Lock every involved row in ascending code order. The fixed order
		// keeps two executions over overlapping materials from deadlocking,
		// and the locks hold the feasibility read and the writes together.
		ids := make([]string, 0, len(recipe.Lines)+1)
		ids = append(ids, recipe.ProductID)
		for _, line := range recipe.Lines {
			ids = append(ids, line.MaterialID)
		}
		sort.Strings(ids)

		locked, err := s.products.LockForUpdateTx(tx, ids)
		if err != nil {
			return err
		}
		onHand := make(map[string]decimal.Decimal, len(locked))
		for _, p := range locked {
			onHand[p.ID] = p.Quantity
		}
		if _, ok := onHand[recipe.ProductID]; !ok {
			return domain.NotFoundf("product %q", recipe.ProductID)
		}

		// Feasibility against the locked snapshot — nothing has been
		// debited yet, so an infeasible order aborts with zero mutation.
		for _, line := range recipe.Lines {
			available, ok := onHand[line.MaterialID]
			if !ok {
				return domain.NotFoundf("raw material %q", line.MaterialID)
			}
			needed := line.QuantityPerUnit.Mul(quantity)
			if available.LessThan(needed) {
				return &domain.InsufficientStockError{
					ProductID: line.MaterialID,
					Needed:    needed,
					Available: available,
				}
			}
		}

		// Debit each component in recipe-line order, then credit the
		// finished good. Any failure rolls the whole transaction back.
		result := &dto.ExecutionResponse{
			ProductCode: recipe.ProductID,
			Produced:    quantity,
		}
		for _, line := range recipe.Lines {
			needed := line.QuantityPerUnit.Mul(quantity)
			ok, err := s.products.DebitTx(tx, line.MaterialID, needed)
			if err != nil {
				return err
			}
			if !ok {
				// A writer outside the lock discipline raced us; fail the
				// whole attempt rather than commit a partial conversion.
				return &domain.InsufficientStockError{
					ProductID: line.MaterialID,
					Needed:    needed,
					Available: onHand[line.MaterialID],
				}
			}
			before := onHand[line.MaterialID]
			after := before.Sub(needed)
			onHand[line.MaterialID] = after

			mv := &model.StockMovement{
				ProductID:      line.MaterialID,
				Type:           model.MovementProductionDebit,
				Quantity:       needed.Neg(),
				QuantityBefore: before,
				QuantityAfter:  after,
				Reason:         reason,
				ReferenceID:    orderID,
			}
			if err := s.movements.CreateTx(tx, mv); err != nil {
				return err
			}
			result.Consumed = append(result.Consumed, dto.ConsumedLine{
				MaterialCode: line.MaterialID,
				Consumed:     needed,
				Remaining:    after,
			})
		}

		ok, err := s.products.CreditTx(tx, recipe.ProductID, quantity)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NotFoundf("product %q", recipe.ProductID)
		}
		before := onHand[recipe.ProductID]
		result.OnHand = before.Add(quantity)

		mv := &model.StockMovement{
			ProductID:      recipe.ProductID,
			Type:           model.MovementProductionCredit,
			Quantity:       quantity,
			QuantityBefore: before,
			QuantityAfter:  result.OnHand,
			Reason:         reason,
			ReferenceID:    orderID,
		}
		if err := s.movements.CreateTx(tx, mv); err != nil {
			return err
		}

		resp = result
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyLowStock(ctx, resp.Consumed)
	return resp, nil
}

// notifyLowStock enqueues an alert for every consumed material that fell to
// or below its configured minimum. Best-effort: a queue failure is logged,
// never surfaced to the production caller.
func (s *productionService) notifyLowStock(ctx context.Context, consumed []dto.ConsumedLine) {
	if s.dispatcher == nil {
		return
	}
	for _, line := range consumed {
		p, err := s.products.FindByID(ctx, line.MaterialCode)
		if err != nil {
			continue
		}
		if p.MinQuantity.Sign() <= 0 || p.Quantity.GreaterThan(p.MinQuantity) {
			continue
		}
		payload := worker.LowStockPayload{
			ProductCode: p.ID,
			ProductName: p.Name,
			Quantity:    p.Quantity.String(),
			MinQuantity: p.MinQuantity.String(),
			Unit:        p.Unit,
		}
		if err := s.dispatcher.EnqueueLowStockAlert(ctx, payload); err != nil {
			log.Warn().Err(err).Str("product", p.ID).Msg("failed to enqueue low stock alert")
		}
	}
}
