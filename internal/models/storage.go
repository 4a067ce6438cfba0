package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Storage keys of the flat per-session namespace.
const (
	KeyTheme          = "theme"
	KeySavedJobs      = "savedJobs"
	KeyRecentSearches = "recentSearches"
	KeyApplications   = "applications"
	KeyPostedJobs     = "postedJobs"
	KeyJobDraft       = "jobDraft"
	KeySavedSearches  = "savedSearches"
)

// StorageEntry is one persisted key of one session namespace.
type StorageEntry struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primary_key"`
	Namespace string    `json:"namespace" gorm:"not null;uniqueIndex:idx_storage_ns_key"`
	Key       string    `json:"key" gorm:"not null;uniqueIndex:idx_storage_ns_key"`
	Value     string    `json:"value" gorm:"type:text;not null"`

	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}

// BeforeCreate hook to set UUID
func (e *StorageEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (StorageEntry) TableName() string {
	return "storage_entries"
}
