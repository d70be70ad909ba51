package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SyncRunRow persists one SyncRun in the history store. Rows are append-only
// and retained indefinitely.
type SyncRunRow struct {
	ID        uuid.UUID      `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Key       string         `json:"key" db:"key" gorm:"type:text;not null;uniqueIndex"`
	Payload   datatypes.JSON `json:"payload" db:"payload" gorm:"not null"`
	CreatedAt time.Time      `json:"createdAt" db:"created_at"`
}

func (SyncRunRow) TableName() string { return "sync_runs" }

// BackupRecordRow persists the bookkeeping entry for one backup artifact.
type BackupRecordRow struct {
	ID        uuid.UUID      `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Key       string         `json:"key" db:"key" gorm:"type:text;not null;uniqueIndex"`
	Location  string         `json:"location" db:"location" gorm:"type:text;not null"`
	Path      string         `json:"path" db:"path" gorm:"type:text;not null"`
	Count     int            `json:"count" db:"count" gorm:"not null"`
	Payload   datatypes.JSON `json:"payload" db:"payload"`
	CreatedAt time.Time      `json:"createdAt" db:"created_at"`
}

func (BackupRecordRow) TableName() string { return "backup_records" }

// DriveTokenRow is the durable OAuth token state for the Drive adapter.
// A single row keyed "default" is upserted on every exchange or refresh.
type DriveTokenRow struct {
	Key          string    `json:"key" db:"key" gorm:"type:text;primaryKey;not null"`
	AccessToken  string    `json:"access_token" db:"access_token" gorm:"type:text;not null"`
	RefreshToken string    `json:"refresh_token" db:"refresh_token" gorm:"type:text"`
	TokenType    string    `json:"token_type" db:"token_type" gorm:"type:text"`
	ExpiresAt    time.Time `json:"expires_at" db:"expires_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

func (DriveTokenRow) TableName() string { return "drive_tokens" }
