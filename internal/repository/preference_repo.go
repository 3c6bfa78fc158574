package repository

import (
	"context"

	"github.com/pedroaraujox/Viza-Stock/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PreferenceRepository interface {
	FindUser(ctx context.Context, userID uuid.UUID) (*model.UserPreference, error)
	SaveUser(ctx context.Context, p *model.UserPreference) error
	FindSystem(ctx context.Context) (*model.SystemPreference, error)
	SaveSystem(ctx context.Context, p *model.SystemPreference) error
}

type preferenceRepo struct{ db *gorm.DB }

func NewPreferenceRepository(db *gorm.DB) PreferenceRepository { return &preferenceRepo{db: db} }

func (r *preferenceRepo) FindUser(ctx context.Context, userID uuid.UUID) (*model.UserPreference, error) {
	var p model.UserPreference
	err := r.db.WithContext(ctx).First(&p, "user_id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *preferenceRepo) SaveUser(ctx context.Context, p *model.UserPreference) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *preferenceRepo) FindSystem(ctx context.Context) (*model.SystemPreference, error) {
	var p model.SystemPreference
	err := r.db.WithContext(ctx).First(&p, "id = ?", model.SystemPreferenceID).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *preferenceRepo) SaveSystem(ctx context.Context, p *model.SystemPreference) error {
	return r.db.WithContext(ctx).Save(p).Error
}
