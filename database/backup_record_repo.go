package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-sync-backend/errs"
	"github.com/rpupo63/portfolio-sync-backend/models"
)

type BackupRecordRepo struct {
	db *gorm.DB
}

func NewBackupRecordRepo(db *gorm.DB) *BackupRecordRepo {
	return &BackupRecordRepo{db}
}

// Add records the bookkeeping entry for one backup artifact.
func (r *BackupRecordRepo) Add(ctx context.Context, row *models.BackupRecordRow) error {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return errs.NewDatabaseError("create", "backup record", err)
	}
	return nil
}

// FindAll returns the backup history, newest first.
func (r *BackupRecordRepo) FindAll(ctx context.Context, limit int) ([]models.BackupRecordRow, error) {
	var rows []models.BackupRecordRow
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, errs.NewDatabaseError("find", "backup records", err)
	}
	return rows, nil
}
