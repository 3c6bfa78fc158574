package repository

import (
	"context"
	"time"

	"github.com/pedroaraujox/Viza-Stock/internal/dto"
	"github.com/pedroaraujox/Viza-Stock/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, o *model.ProductionOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ProductionOrder, error)
	List(ctx context.Context, filter dto.OrderFilter) ([]model.ProductionOrder, int64, error)
	// UpdateStatusFrom conditionally moves the order from one status to
	// another in a single statement. Returns false when the stored status no
	// longer matches, so exactly one of two racing transitions wins.
	UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to string, executedAt *time.Time) (bool, error)

	DB() *gorm.DB
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) DB() *gorm.DB { return r.db }

func (r *orderRepo) Create(ctx context.Context, o *model.ProductionOrder) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ProductionOrder, error) {
	var o model.ProductionOrder
	err := r.db.WithContext(ctx).Preload("Product").First(&o, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) List(ctx context.Context, filter dto.OrderFilter) ([]model.ProductionOrder, int64, error) {
	var orders []model.ProductionOrder
	var total int64

	q := r.db.WithContext(ctx).Model(&model.ProductionOrder{})
	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Product").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&orders).Error
	return orders, total, err
}

func (r *orderRepo) UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to string, executedAt *time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.ProductionOrder{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": to, "executed_at": executedAt})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
