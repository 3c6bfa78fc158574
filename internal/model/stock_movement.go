package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stock movement types.
const (
	MovementReceipt          = "receipt"           // manual stock receipt (credit)
	MovementIssue            = "issue"             // manual stock issue (debit)
	MovementProductionDebit  = "production_debit"  // raw material consumed by a production run
	MovementProductionCredit = "production_credit" // finished good produced by a production run
)

// StockMovement records every change to a product's on-hand quantity. It is
// created in the same transaction as the mutation it describes, so the
// before/after pair is always consistent with the committed quantity.
type StockMovement struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID      string          `gorm:"type:varchar(12);index;not null"`
	Type           string          `gorm:"not null"`
	Quantity       decimal.Decimal `gorm:"type:decimal(14,3);not null"` // signed: positive = in, negative = out
	QuantityBefore decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	QuantityAfter  decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	Reason         string
	ReferenceID    *uuid.UUID `gorm:"type:uuid"` // production order id when applicable
	CreatedAt      time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
