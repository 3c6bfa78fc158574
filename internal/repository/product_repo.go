package repository

import (
	"context"
	"database/sql"

	"github.com/pedroaraujox/Viza-Stock/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository is the data access contract for the product ledger.
// Services depend on this interface, not on the concrete GORM implementation,
// so unit tests can swap in in-memory stubs.
//
// The *Tx methods run inside an open transaction — callers must pass the tx
// instance (nil in stub mode). CreditTx and DebitTx are single conditional
// UPDATE statements: the quantity guard lives in the statement itself, so a
// concurrent writer can never drive stock negative between a read and a write.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	// CreateTx inserts inside the caller's transaction, so a product created
	// alongside its recipe rolls back with it.
	CreateTx(tx *gorm.DB, p *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
	ListBelowMinimum(ctx context.Context) ([]model.Product, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	MaxNumericID(ctx context.Context) (int, error)

	// LockForUpdateTx loads the given rows FOR UPDATE in ascending id order.
	// The fixed ordering keeps two overlapping executions from deadlocking.
	LockForUpdateTx(tx *gorm.DB, ids []string) ([]model.Product, error)
	// CreditTx adds amount to quantity. Returns false when the id is unknown.
	CreditTx(tx *gorm.DB, id string, amount decimal.Decimal) (bool, error)
	// DebitTx subtracts amount from quantity, guarded by quantity >= amount.
	// Returns false when the guard (or the id lookup) fails.
	DebitTx(tx *gorm.DB, id string, amount decimal.Decimal) (bool, error)
	DeleteTx(tx *gorm.DB, id string) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) DB() *gorm.DB { return r.db }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) CreateTx(tx *gorm.DB, p *model.Product) error {
	return tx.Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) List(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Order("id ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) ListBelowMinimum(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("min_quantity > 0 AND quantity <= min_quantity").
		Order("id ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *productRepo) MaxNumericID(ctx context.Context) (int, error) {
	// Codes are stored as text; non-numeric ids (if any slipped in) are ignored.
	var max sql.NullInt64
	err := r.db.WithContext(ctx).
		Raw(`SELECT MAX(CAST(id AS INTEGER)) FROM products WHERE id ~ '^[0-9]+$'`).
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return int(max.Int64), nil
}

func (r *productRepo) LockForUpdateTx(tx *gorm.DB, ids []string) ([]model.Product, error) {
	var products []model.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) CreditTx(tx *gorm.DB, id string, amount decimal.Decimal) (bool, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", amount))
	return res.RowsAffected > 0, res.Error
}

func (r *productRepo) DebitTx(tx *gorm.DB, id string, amount decimal.Decimal) (bool, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND quantity >= ?", id, amount).
		Update("quantity", gorm.Expr("quantity - ?", amount))
	return res.RowsAffected > 0, res.Error
}

func (r *productRepo) DeleteTx(tx *gorm.DB, id string) error {
	return tx.Delete(&model.Product{}, "id = ?", id).Error
}
