package dto

import "github.com/shopspring/decimal"

// RecipeLineRequest is one component of a recipe definition.
type RecipeLineRequest struct {
	MaterialCode    string          `json:"material_code"     validate:"required,max=12"`
	QuantityPerUnit decimal.Decimal `json:"quantity_per_unit" validate:"required"`
}

// DefineRecipeRequest defines or wholesale-replaces the recipe of a finished
// product. The product metadata is only used when the product does not exist
// yet and has to be created alongside its recipe.
type DefineRecipeRequest struct {
	Name        string              `json:"name"         validate:"omitempty,min=2,max=120"`
	Description *string             `json:"description"`
	Unit        string              `json:"unit"         validate:"omitempty,max=20"`
	Lines       []RecipeLineRequest `json:"lines"`
}

type RecipeLineResponse struct {
	MaterialCode    string          `json:"material_code"`
	MaterialName    string          `json:"material_name"`
	QuantityPerUnit decimal.Decimal `json:"quantity_per_unit"`
}

type RecipeResponse struct {
	ID          string               `json:"id"`
	ProductCode string               `json:"product_code"`
	ProductName string               `json:"product_name"`
	Lines       []RecipeLineResponse `json:"lines"`
}
