package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product categories. A product is either consumed by production or produced
// by it; the category is fixed at creation and gates which role a product may
// play in a recipe.
const (
	CategoryRawMaterial  = "RAW_MATERIAL"
	CategoryFinishedGood = "FINISHED_GOOD"
)

// Product is a stock-keeping unit. ID is a short numeric code ("01", "02", …),
// human-assigned or allocated by the sequence component, immutable after
// creation. Quantity is only ever changed through ledger credit/debit — never
// read-then-patched from outside.
type Product struct {
	ID          string `gorm:"type:varchar(12);primaryKey"`
	Name        string `gorm:"index;not null"`
	Description *string
	Unit        string          `gorm:"not null;default:'un'"`
	Category    string          `gorm:"type:varchar(20);index;not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(14,3);not null;default:0"`
	// MinQuantity drives low-stock alerts; zero disables them for this product.
	MinQuantity decimal.Decimal `gorm:"type:decimal(14,3);not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p *Product) IsRawMaterial() bool  { return p.Category == CategoryRawMaterial }
func (p *Product) IsFinishedGood() bool { return p.Category == CategoryFinishedGood }

// ValidCategory reports whether c is one of the two known categories.
func ValidCategory(c string) bool {
	return c == CategoryRawMaterial || c == CategoryFinishedGood
}
