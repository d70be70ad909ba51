package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-sync-backend/errs"
	"github.com/rpupo63/portfolio-sync-backend/models"
)

// SyncRunRepo is the append-only history of orchestration passes. Rows are
// never updated or deleted; unbounded growth is a known limitation.
type SyncRunRepo struct {
	db *gorm.DB
}

func NewSyncRunRepo(db *gorm.DB) *SyncRunRepo {
	return &SyncRunRepo{db}
}

// Add appends one completed run to the history.
func (r *SyncRunRepo) Add(ctx context.Context, row *models.SyncRunRow) error {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return errs.NewDatabaseError("create", "sync run", err)
	}
	return nil
}

// FindAll returns the history, newest first.
func (r *SyncRunRepo) FindAll(ctx context.Context, limit int) ([]models.SyncRunRow, error) {
	var rows []models.SyncRunRow
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, errs.NewDatabaseError("find", "sync runs", err)
	}
	return rows, nil
}

// Latest returns the most recent run, or nil when no run is recorded yet.
func (r *SyncRunRepo) Latest(ctx context.Context) (*models.SyncRunRow, error) {
	var row models.SyncRunRow
	err := r.db.WithContext(ctx).Order("created_at DESC").First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "sync run", err)
	}
	return &row, nil
}
