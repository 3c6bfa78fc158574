package model

import (
	"time"

	"github.com/google/uuid"
)

// SystemPreferenceID is the primary key of the single global settings row.
const SystemPreferenceID = "global"

// UserPreference stores per-user UI settings. A missing row means defaults;
// the service materializes it on first read.
type UserPreference struct {
	UserID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	VoiceOnNewOrder bool      `gorm:"not null;default:true"`
	UpdatedAt       time.Time
}

// SystemPreference is the global counterpart of UserPreference, applied when
// a user has no row of their own.
type SystemPreference struct {
	ID              string `gorm:"type:varchar(20);primaryKey"`
	VoiceOnNewOrder bool   `gorm:"not null;default:true"`
	UpdatedAt       time.Time
}
