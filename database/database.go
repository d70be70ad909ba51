package database

import (
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-sync-backend/models"
)

type Database struct {
	syncRunRepo      *SyncRunRepo
	backupRecordRepo *BackupRecordRepo
	driveTokenRepo   *DriveTokenRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		syncRunRepo:      NewSyncRunRepo(db),
		backupRecordRepo: NewBackupRecordRepo(db),
		driveTokenRepo:   NewDriveTokenRepo(db),
	}
}

// Migrate creates or updates the schema for every persisted model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.SyncRunRow{},
		&models.BackupRecordRow{},
		&models.DriveTokenRow{},
	)
}

// Accessor methods for each repository

func (d Database) SyncRunRepo() *SyncRunRepo {
	return d.syncRunRepo
}

func (d Database) BackupRecordRepo() *BackupRecordRepo {
	return d.backupRecordRepo
}

func (d Database) DriveTokenRepo() *DriveTokenRepo {
	return d.driveTokenRepo
}
