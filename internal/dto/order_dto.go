package dto

import "github.com/shopspring/decimal"

type CreateOrderRequest struct {
	ProductCode string          `json:"product_code" validate:"required,max=12"`
	Quantity    decimal.Decimal `json:"quantity"     validate:"required"`
}

// UpdateOrderStatusRequest names the target state of a transition. The
// service validates both the name and the transition itself.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type OrderFilter struct {
	Status string `form:"status"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=20" validate:"min=1,max=100"`
}

type OrderResponse struct {
	ID          string          `json:"id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Status      string          `json:"status"`
	ExecutedAt  *string         `json:"executed_at"`
	CreatedAt   string          `json:"created_at"`
}

type OrderListResponse struct {
	Data  []OrderResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
