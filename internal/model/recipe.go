package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Recipe is the bill of materials for exactly one finished good. Its ID is
// derived from the product code (see RecipeID) so the one-to-one relationship
// holds by construction. Lines are owned by the recipe: replaced wholesale on
// redefinition, removed when the recipe is deleted, never patched in place.
type Recipe struct {
	ID        string       `gorm:"type:varchar(20);primaryKey"`
	ProductID string       `gorm:"type:varchar(12);uniqueIndex;not null"`
	Lines     []RecipeLine `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

// RecipeID derives the deterministic recipe identity for a finished product.
func RecipeID(productID string) string { return "BOM-" + productID }

// RecipeLine is one component of a recipe: the quantity of a raw material
// consumed per single unit of finished good. Position preserves the order
// components were defined in; production debits follow it.
type RecipeLine struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RecipeID        string          `gorm:"type:varchar(20);index;not null"`
	Position        int             `gorm:"not null"`
	MaterialID      string          `gorm:"type:varchar(12);index;not null"`
	QuantityPerUnit decimal.Decimal `gorm:"type:decimal(14,3);not null"`

	Material *Product `gorm:"foreignKey:MaterialID"`
}
