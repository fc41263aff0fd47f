package models

import (
	"time"

	"gorm.io/gorm"
)

// ImpactRecord groups the environmental impact accumulators. Embedded in both
// EcoUser (running totals) and Submission (frozen per-item record).
type ImpactRecord struct {
	CO2SavedKg      float64 `json:"co2_saved_kg" gorm:"default:0"`
	WaterSavedL     float64 `json:"water_saved_l" gorm:"default:0"`
	VolumeSavedM3   float64 `json:"volume_saved_m3" gorm:"default:0"`
	TreesEquivalent float64 `json:"trees_equivalent" gorm:"default:0"`
}

// Add returns the componentwise sum.
func (r ImpactRecord) Add(other ImpactRecord) ImpactRecord {
	return ImpactRecord{
		CO2SavedKg:      r.CO2SavedKg + other.CO2SavedKg,
		WaterSavedL:     r.WaterSavedL + other.WaterSavedL,
		VolumeSavedM3:   r.VolumeSavedM3 + other.VolumeSavedM3,
		TreesEquivalent: r.TreesEquivalent + other.TreesEquivalent,
	}
}

// Subtract returns the componentwise difference, clamped at zero so a stale or
// doubled reversal can never drive an accumulator negative.
func (r ImpactRecord) Subtract(other ImpactRecord) ImpactRecord {
	return ImpactRecord{
		CO2SavedKg:      clampZero(r.CO2SavedKg - other.CO2SavedKg),
		WaterSavedL:     clampZero(r.WaterSavedL - other.WaterSavedL),
		VolumeSavedM3:   clampZero(r.VolumeSavedM3 - other.VolumeSavedM3),
		TreesEquivalent: clampZero(r.TreesEquivalent - other.TreesEquivalent),
	}
}

func clampZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// EcoUser is the local ledger record for a participant (denormalized for performance).
// ExternalUserID links to the profile service; rows are created zeroed the first
// time an identity is seen and updated in place by the ledger engine.
type EcoUser struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex;not null" json:"external_user_id"`
	Name           string `gorm:"index;not null" json:"name"`
	Email          string `json:"email,omitempty"`
	AvatarURL      string `gorm:"type:text" json:"avatar_url"`
	City           string `json:"city,omitempty"`

	// Core ledger
	Points         int        `json:"points" gorm:"default:0"`
	Level          int        `json:"level" gorm:"default:1"` // always LevelForPoints(Points).Level
	Streak         int        `json:"streak" gorm:"default:0"`
	LastRecycledAt *time.Time `json:"last_recycled_at,omitempty"`
	TotalItems     int64      `json:"total_items" gorm:"default:0"`

	ImpactRecord `gorm:"embedded" json:"impact_stats"`

	// Synthetic users pad the leaderboard; the liveliness ticker may only ever
	// touch rows with this flag set.
	Synthetic bool `json:"-" gorm:"default:false;index"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// SchemaMeta holds the persisted schema version (single row, id=1).
// Bumped explicitly in migrations instead of renaming storage keys.
type SchemaMeta struct {
	ID      uint `gorm:"primaryKey"`
	Version int  `gorm:"not null"`
}
