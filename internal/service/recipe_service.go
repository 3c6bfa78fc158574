package service

import (
	"context"
	"errors"

	"github.com/pedroaraujox/Viza-Stock/internal/domain"
	"github.com/pedroaraujox/Viza-Stock/internal/dto"
	"github.com/pedroaraujox/Viza-Stock/internal/model"
	"github.com/pedroaraujox/Viza-Stock/internal/repository"
	"github.com/pedroaraujox/Viza-Stock/internal/sequence"

	"gorm.io/gorm"
)

// RecipeService manages bills of materials. One recipe per finished product;
// redefinition replaces the component list wholesale.
type RecipeService interface {
	DefineOrReplace(ctx context.Context, productCode string, req dto.DefineRecipeRequest) (*dto.RecipeResponse, error)
	GetByProduct(ctx context.Context, productCode string) (*dto.RecipeResponse, error)
	List(ctx context.Context) ([]dto.RecipeResponse, error)
}

type recipeService struct {
	products repository.ProductRepository
	recipes  repository.RecipeRepository
}

func NewRecipeService(products repository.ProductRepository, recipes repository.RecipeRepository) RecipeService {
	return &recipeService{products: products, recipes: recipes}
}

// DefineOrReplace validates everything before touching storage: a rejected
// definition must not leave a product or recipe behind as a side effect.
func (s *recipeService) DefineOrReplace(ctx context.Context, productCode string, req dto.DefineRecipeRequest) (*dto.RecipeResponse, error) {
	code, ok := sequence.Normalize(productCode)
	if !ok {
		return nil, domain.Invalidf("product code must be numeric (digits only), got %q", productCode)
	}

	if len(req.Lines) == 0 {
		return nil, domain.Invalidf("recipe must have at least one component")
	}
	seen := make(map[string]bool, len(req.Lines))
	for _, line := range req.Lines {
		mat, ok := sequence.Normalize(line.MaterialCode)
		if !ok {
			return nil, domain.Invalidf("component code must be numeric (digits only), got %q", line.MaterialCode)
		}
		if mat == code {
			return nil, domain.Invalidf("recipe for product %q cannot list itself as a component", code)
		}
		if seen[mat] {
			return nil, domain.Invalidf("component %q appears more than once", mat)
		}
		seen[mat] = true
		if line.QuantityPerUnit.Sign() <= 0 {
			return nil, domain.Invalidf("quantity per unit for component %q must be positive, got %s", mat, line.QuantityPerUnit)
		}
	}

	// Resolve the finished product. When it has to be created, defer the
	// insert into the transaction below so a failed replace rolls it back too.
	createProduct := false
	product, err := s.products.FindByID(ctx, code)
	switch {
	case err == nil:
		if !product.IsFinishedGood() {
			return nil, domain.Invalidf("product %q is not a finished good", code)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if req.Name == "" {
			return nil, domain.Invalidf("product %q does not exist; name is required to create it", code)
		}
		unit := req.Unit
		if unit == "" {
			unit = "un"
		}
		product = &model.Product{
			ID:          code,
			Name:        req.Name,
			Description: req.Description,
			Unit:        unit,
			Category:    model.CategoryFinishedGood,
		}
		createProduct = true
	default:
		return nil, err
	}

	// Resolve every component; all of them must be existing raw materials.
	recipe := &model.Recipe{
		ID:        model.RecipeID(code),
		ProductID: code,
	}
	for i, line := range req.Lines {
		mat, _ := sequence.Normalize(line.MaterialCode)
		material, err := s.products.FindByID(ctx, mat)
		if err != nil {
			return nil, notFoundOr(err, "raw material %q", mat)
		}
		if !material.IsRawMaterial() {
			return nil, domain.Invalidf("component %q is not a raw material", mat)
		}
		recipe.Lines = append(recipe.Lines, model.RecipeLine{
			RecipeID:        recipe.ID,
			Position:        i + 1,
			MaterialID:      mat,
			QuantityPerUnit: line.QuantityPerUnit,
			Material:        material,
		})
	}

	err = runTx(ctx, s.recipes.DB(), func(tx *gorm.DB) error {
		if createProduct {
			if err := s.products.CreateTx(tx, product); err != nil {
				return err
			}
		}
		return s.recipes.ReplaceTx(tx, recipe)
	})
	if err != nil {
		return nil, err
	}
	recipe.Product = product
	return recipeToResponse(recipe), nil
}

func (s *recipeService) GetByProduct(ctx context.Context, productCode string) (*dto.RecipeResponse, error) {
	productCode, err := canonicalCode(productCode)
	if err != nil {
		return nil, err
	}
	recipe, err := s.recipes.FindByProductID(ctx, productCode)
	if err != nil {
		return nil, notFoundOr(err, "recipe for product %q", productCode)
	}
	return recipeToResponse(recipe), nil
}

func (s *recipeService) List(ctx context.Context) ([]dto.RecipeResponse, error) {
	recipes, err := s.recipes.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RecipeResponse, 0, len(recipes))
	for i := range recipes {
		out = append(out, *recipeToResponse(&recipes[i]))
	}
	return out, nil
}

func recipeToResponse(r *model.Recipe) *dto.RecipeResponse {
	resp := &dto.RecipeResponse{
		ID:          r.ID,
		ProductCode: r.ProductID,
	}
	if r.Product != nil {
		resp.ProductName = r.Product.Name
	}
	for _, line := range r.Lines {
		name := ""
		if line.Material != nil {
			name = line.Material.Name
		}
		resp.Lines = append(resp.Lines, dto.RecipeLineResponse{
			MaterialCode:    line.MaterialID,
			MaterialName:    name,
			QuantityPerUnit: line.QuantityPerUnit,
		})
	}
	return resp
}
