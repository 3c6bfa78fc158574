package service

import (
	"context"
	"errors"

	"github.com/pedroaraujox/Viza-Stock/internal/dto"
	"github.com/pedroaraujox/Viza-Stock/internal/model"
	"github.com/pedroaraujox/Viza-Stock/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PreferenceService interface {
	GetUserPreference(ctx context.Context, userID uuid.UUID) (*dto.PreferenceResponse, error)
	SaveUserPreference(ctx context.Context, userID uuid.UUID, req dto.PreferenceRequest) (*dto.PreferenceResponse, error)
	GetSystemPreference(ctx context.Context) (*dto.PreferenceResponse, error)
	SaveSystemPreference(ctx context.Context, req dto.PreferenceRequest) (*dto.PreferenceResponse, error)
}

type preferenceService struct {
	repo repository.PreferenceRepository
}

func NewPreferenceService(repo repository.PreferenceRepository) PreferenceService {
	return &preferenceService{repo: repo}
}

// Missing rows read as the default: voice alerts on.
func (s *preferenceService) GetUserPreference(ctx context.Context, userID uuid.UUID) (*dto.PreferenceResponse, error) {
	pref, err := s.repo.FindUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &dto.PreferenceResponse{VoiceOnNewOrder: true}, nil
	}
	if err != nil {
		return nil, err
	}
	return &dto.PreferenceResponse{VoiceOnNewOrder: pref.VoiceOnNewOrder}, nil
}

func (s *preferenceService) SaveUserPreference(ctx context.Context, userID uuid.UUID, req dto.PreferenceRequest) (*dto.PreferenceResponse, error) {
	pref := &model.UserPreference{UserID: userID, VoiceOnNewOrder: true}
	if existing, err := s.repo.FindUser(ctx, userID); err == nil {
		pref = existing
	}
	if req.VoiceOnNewOrder != nil {
		pref.VoiceOnNewOrder = *req.VoiceOnNewOrder
	}
	if err := s.repo.SaveUser(ctx, pref); err != nil {
		return nil, err
	}
	return &dto.PreferenceResponse{VoiceOnNewOrder: pref.VoiceOnNewOrder}, nil
}

func (s *preferenceService) GetSystemPreference(ctx context.Context) (*dto.PreferenceResponse, error) {
	pref, err := s.repo.FindSystem(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &dto.PreferenceResponse{VoiceOnNewOrder: true}, nil
	}
	if err != nil {
		return nil, err
	}
	return &dto.PreferenceResponse{VoiceOnNewOrder: pref.VoiceOnNewOrder}, nil
}

func (s *preferenceService) SaveSystemPreference(ctx context.Context, req dto.PreferenceRequest) (*dto.PreferenceResponse, error) {
	pref := &model.SystemPreference{ID: model.SystemPreferenceID, VoiceOnNewOrder: true}
	if existing, err := s.repo.FindSystem(ctx); err == nil {
		pref = existing
	}
	if req.VoiceOnNewOrder != nil {
		pref.VoiceOnNewOrder = *req.VoiceOnNewOrder
	}
	if err := s.repo.SaveSystem(ctx, pref); err != nil {
		return nil, err
	}
	return &dto.PreferenceResponse{VoiceOnNewOrder: pref.VoiceOnNewOrder}, nil
}
