package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Production order statuses. The stored value is always one of these names;
// transitions between them are validated by the order service against a
// closed table.
const (
	OrderPending   = "PENDING"
	OrderApproved  = "APPROVED"
	OrderExecuted  = "EXECUTED"
	OrderRejected  = "REJECTED"
	OrderCancelled = "CANCELLED"
)

// ProductionOrder is the bookkeeping record around a production run. The
// record itself holds no inventory logic: the stock mutation happens in the
// production service when the order transitions into EXECUTED.
type ProductionOrder struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID  string          `gorm:"type:varchar(12);index;not null"`
	Quantity   decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	Status     string          `gorm:"type:varchar(20);index;not null;default:'PENDING'"`
	ExecutedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
