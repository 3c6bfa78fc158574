package dto

import "github.com/shopspring/decimal"

// ProductionRequest asks whether (or that) quantity units of the finished
// product be produced.
type ProductionRequest struct {
	ProductCode string          `json:"product_code" validate:"required,max=12"`
	Quantity    decimal.Decimal `json:"quantity"     validate:"required"`
}

// LineCheck is the per-component verdict of a feasibility evaluation.
// Evaluation stops at the first insufficient line, so the last entry of an
// infeasible response is the offending one.
type LineCheck struct {
	MaterialCode string          `json:"material_code"`
	MaterialName string          `json:"material_name"`
	Needed       decimal.Decimal `json:"needed"`
	Available    decimal.Decimal `json:"available"`
	Sufficient   bool            `json:"sufficient"`
}

type FeasibilityResponse struct {
	ProductCode string          `json:"product_code"`
	Quantity    decimal.Decimal `json:"quantity"`
	Feasible    bool            `json:"feasible"`
	Lines       []LineCheck     `json:"lines"`
}

// ConsumedLine reports one applied debit of a successful execution.
type ConsumedLine struct {
	MaterialCode string          `json:"material_code"`
	Consumed     decimal.Decimal `json:"consumed"`
	Remaining    decimal.Decimal `json:"remaining"`
}

type ExecutionResponse struct {
	ProductCode string          `json:"product_code"`
	Produced    decimal.Decimal `json:"produced"`
	OnHand      decimal.Decimal `json:"on_hand"`
	Consumed    []ConsumedLine  `json:"consumed"`
}
