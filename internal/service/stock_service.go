package service

import (
	"context"
	"errors"
	"time"

	"github.com/pedroaraujox/Viza-Stock/internal/domain"
	"github.com/pedroaraujox/Viza-Stock/internal/dto"
	"github.com/pedroaraujox/Viza-Stock/internal/model"
	"github.com/pedroaraujox/Viza-Stock/internal/repository"
	"github.com/pedroaraujox/Viza-Stock/internal/sequence"

	"gorm.io/gorm"
)

// StockService is the product ledger: the only writer of on-hand quantities.
// Every mutation is guarded (quantity never goes negative) and paired with a
// stock movement record in the same transaction.
type StockService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, code string) (*dto.ProductResponse, error)
	List(ctx context.Context) ([]dto.ProductResponse, error)
	Credit(ctx context.Context, code string, req dto.StockChangeRequest) (*dto.ProductResponse, error)
	Debit(ctx context.Context, code string, req dto.StockChangeRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, code string) error
	Movements(ctx context.Context, code string, limit int) ([]dto.MovementResponse, error)
}

type stockService struct {
	products  repository.ProductRepository
	recipes   repository.RecipeRepository
	movements repository.MovementRepository
	allocator *sequence.Allocator
}

func NewStockService(
	products repository.ProductRepository,
	recipes repository.RecipeRepository,
	movements repository.MovementRepository,
) StockService {
	return &stockService{
		products:  products,
		recipes:   recipes,
		movements: movements,
		allocator: sequence.NewAllocator(products),
	}
}

// notFoundOr maps GORM's record-not-found onto the domain taxonomy and passes
// every other error through untouched.
func notFoundOr(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NotFoundf(format, args...)
	}
	return err
}

// canonicalCode reapplies the zero padding to a caller-supplied code, so
// "7" and "07" address the same product on every operation.
func canonicalCode(raw string) (string, error) {
	code, ok := sequence.Normalize(raw)
	if !ok {
		return "", domain.Invalidf("product code must be numeric (digits only), got %q", raw)
	}
	return code, nil
}

func (s *stockService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if !model.ValidCategory(req.Category) {
		return nil, domain.Invalidf("category must be %s or %s", model.CategoryRawMaterial, model.CategoryFinishedGood)
	}
	if req.MinQuantity.Sign() < 0 {
		return nil, domain.Invalidf("min_quantity must not be negative")
	}

	code := req.Code
	if code == "" {
		next, err := s.allocator.Next(ctx)
		if err != nil {
			return nil, err
		}
		code = next
	} else {
		normalized, err := canonicalCode(code)
		if err != nil {
			return nil, err
		}
		code = normalized
		exists, err := s.products.ExistsByID(ctx, code)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.Duplicatef("product code %q", code)
		}
	}

	p := &model.Product{
		ID:          code,
		Name:        req.Name,
		Description: req.Description,
		Unit:        req.Unit,
		Category:    req.Category,
		MinQuantity: req.MinQuantity,
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *stockService) Get(ctx context.Context, code string) (*dto.ProductResponse, error) {
	code, err := canonicalCode(code)
	if err != nil {
		return nil, err
	}
	p, err := s.products.FindByID(ctx, code)
	if err != nil {
		return nil, notFoundOr(err, "product %q", code)
	}
	return productToResponse(p), nil
}

func (s *stockService) List(ctx context.Context) ([]dto.ProductResponse, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, *productToResponse(&products[i]))
	}
	return out, nil
}

func (s *stockService) Credit(ctx context.Context, code string, req dto.StockChangeRequest) (*dto.ProductResponse, error) {
	if req.Quantity.Sign() <= 0 {
		return nil, domain.Invalidf("credit amount must be positive, got %s", req.Quantity)
	}
	code, err := canonicalCode(code)
	if err != nil {
		return nil, err
	}

	var after *model.Product
	err = runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		locked, err := s.products.LockForUpdateTx(tx, []string{code})
		if err != nil {
			return err
		}
		if len(locked) == 0 {
			return domain.NotFoundf("product %q", code)
		}
		before := locked[0]

		ok, err := s.products.CreditTx(tx, code, req.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NotFoundf("product %q", code)
		}

		mv := &model.StockMovement{
			ProductID:      code,
			Type:           model.MovementReceipt,
			Quantity:       req.Quantity,
			QuantityBefore: before.Quantity,
			QuantityAfter:  before.Quantity.Add(req.Quantity),
			Reason:         req.Reason,
		}
		if err := s.movements.CreateTx(tx, mv); err != nil {
			return err
		}

		before.Quantity = mv.QuantityAfter
		after = &before
		return nil
	})
	if err != nil {
		return nil, err
	}
	return productToResponse(after), nil
}

func (s *stockService) Debit(ctx context.Context, code string, req dto.StockChangeRequest) (*dto.ProductResponse, error) {
	if req.Quantity.Sign() <= 0 {
		return nil, domain.Invalidf("debit amount must be positive, got %s", req.Quantity)
	}
	code, err := canonicalCode(code)
	if err != nil {
		return nil, err
	}

	var after *model.Product
	err = runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		locked, err := s.products.LockForUpdateTx(tx, []string{code})
		if err != nil {
			return err
		}
		if len(locked) == 0 {
			return domain.NotFoundf("product %q", code)
		}
		before := locked[0]

		ok, err := s.products.DebitTx(tx, code, req.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return &domain.InsufficientStockError{
				ProductID: code,
				Needed:    req.Quantity,
				Available: before.Quantity,
			}
		}

		mv := &model.StockMovement{
			ProductID:      code,
			Type:           model.MovementIssue,
			Quantity:       req.Quantity.Neg(),
			QuantityBefore: before.Quantity,
			QuantityAfter:  before.Quantity.Sub(req.Quantity),
			Reason:         req.Reason,
		}
		if err := s.movements.CreateTx(tx, mv); err != nil {
			return err
		}

		before.Quantity = mv.QuantityAfter
		after = &before
		return nil
	})
	if err != nil {
		return nil, err
	}
	return productToResponse(after), nil
}

// Delete removes a product. A raw material still referenced by a recipe line
// is protected; a finished good takes its recipe (and the recipe's lines)
// down with it, in one transaction.
func (s *stockService) Delete(ctx context.Context, code string) error {
	code, err := canonicalCode(code)
	if err != nil {
		return err
	}
	p, err := s.products.FindByID(ctx, code)
	if err != nil {
		return notFoundOr(err, "product %q", code)
	}

	return runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		// The reference check rides the delete transaction, so a recipe
		// defined in between cannot leave a dangling line.
		if p.IsRawMaterial() {
			used, err := s.recipes.ExistsLineForMaterialTx(tx, code)
			if err != nil {
				return err
			}
			if used {
				return domain.Conflictf("product %q is a component of an existing recipe", code)
			}
		}
		if p.IsFinishedGood() {
			recipe, err := s.recipes.FindByProductID(ctx, code)
			switch {
			case err == nil:
				if err := s.recipes.DeleteTx(tx, recipe.ID); err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				// no recipe defined — nothing to cascade
			default:
				return err
			}
		}
		return s.products.DeleteTx(tx, code)
	})
}

func (s *stockService) Movements(ctx context.Context, code string, limit int) ([]dto.MovementResponse, error) {
	code, err := canonicalCode(code)
	if err != nil {
		return nil, err
	}
	if _, err := s.products.FindByID(ctx, code); err != nil {
		return nil, notFoundOr(err, "product %q", code)
	}
	movements, err := s.movements.ListByProduct(ctx, code, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for i := range movements {
		out = append(out, *movementToResponse(&movements[i]))
	}
	return out, nil
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		Code:        p.ID,
		Name:        p.Name,
		Description: p.Description,
		Unit:        p.Unit,
		Category:    p.Category,
		Quantity:    p.Quantity,
		MinQuantity: p.MinQuantity,
	}
}

func movementToResponse(m *model.StockMovement) *dto.MovementResponse {
	var ref *string
	if m.ReferenceID != nil {
		s := m.ReferenceID.String()
		ref = &s
	}
	return &dto.MovementResponse{
		ID:             m.ID.String(),
		ProductCode:    m.ProductID,
		Type:           m.Type,
		Quantity:       m.Quantity,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		Reason:         m.Reason,
		ReferenceID:    ref,
		CreatedAt:      m.CreatedAt.UTC().Format(time.RFC3339),
	}
}
