package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	// Code is optional: when empty the next free numeric code is allocated.
	Code        string          `json:"code"         validate:"omitempty,max=12"`
	Name        string          `json:"name"         validate:"required,min=2,max=120"`
	Description *string         `json:"description"`
	Unit        string          `json:"unit"         validate:"required,max=20"`
	Category    string          `json:"category"     validate:"required"`
	MinQuantity decimal.Decimal `json:"min_quantity" validate:"omitempty,min=0"`
}

// StockChangeRequest is the body of receipt (credit) and issue (debit) calls.
type StockChangeRequest struct {
	Quantity decimal.Decimal `json:"quantity" validate:"required"`
	Reason   string          `json:"reason"   validate:"max=240"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Unit        string          `json:"unit"`
	Category    string          `json:"category"`
	Quantity    decimal.Decimal `json:"quantity"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
}

type MovementResponse struct {
	ID             string          `json:"id"`
	ProductCode    string          `json:"product_code"`
	Type           string          `json:"type"`
	Quantity       decimal.Decimal `json:"quantity"`
	QuantityBefore decimal.Decimal `json:"quantity_before"`
	QuantityAfter  decimal.Decimal `json:"quantity_after"`
	Reason         string          `json:"reason"`
	ReferenceID    *string         `json:"reference_id"`
	CreatedAt      string          `json:"created_at"`
}
