package database

import (
	"context"
	"errors"
	"time"

	"golang.org/x/oauth2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rpupo63/portfolio-sync-backend/errs"
	"github.com/rpupo63/portfolio-sync-backend/models"
)

const driveTokenKey = "default"

// DriveTokenRepo is the durable token store for the Drive adapter. One row,
// upserted on every exchange or refresh. Satisfies drive.TokenStore.
type DriveTokenRepo struct {
	db *gorm.DB
}

func NewDriveTokenRepo(db *gorm.DB) *DriveTokenRepo {
	return &DriveTokenRepo{db}
}

func (r *DriveTokenRepo) Load(ctx context.Context) (*oauth2.Token, error) {
	var row models.DriveTokenRow
	err := r.db.WithContext(ctx).Where("key = ?", driveTokenKey).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "drive token", err)
	}

	return &oauth2.Token{
		AccessToken:  row.AccessToken,
		RefreshToken: row.RefreshToken,
		TokenType:    row.TokenType,
		Expiry:       row.ExpiresAt,
	}, nil
}

func (r *DriveTokenRepo) Save(ctx context.Context, token *oauth2.Token) error {
	row := models.DriveTokenRow{
		Key:          driveTokenKey,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		ExpiresAt:    token.Expiry,
		UpdatedAt:    time.Now(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		UpdateAll: true,
	}).Create(&row).Error
	if err != nil {
		return errs.NewDatabaseError("upsert", "drive token", err)
	}
	return nil
}

func (r *DriveTokenRepo) Clear(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Where("key = ?", driveTokenKey).Delete(&models.DriveTokenRow{}).Error; err != nil {
		return errs.NewDatabaseError("delete", "drive token", err)
	}
	return nil
}
