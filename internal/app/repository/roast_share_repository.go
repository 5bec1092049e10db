package repository

import (
	"context"

	"github.com/ikkim/animeroast-backend/internal/app/model"
	"gorm.io/gorm"
)

// RoastShareRepository shared roast data access
type RoastShareRepository interface {
	Create(ctx context.Context, share *model.RoastShare) error
	FindBySlug(ctx context.Context, slug string) (*model.RoastShare, error)
	IncrementViewCount(ctx context.Context, slug string) error
	SetSnapshotURL(ctx context.Context, slug, url string) error
	List(ctx context.Context, limit int) ([]model.RoastShare, error)
}

type roastShareRepository struct {
	db *gorm.DB
}

func NewRoastShareRepository(db *gorm.DB) RoastShareRepository {
	return &roastShareRepository{db: db}
}

func (r *roastShareRepository) Create(ctx context.Context, share *model.RoastShare) error {
	return r.db.WithContext(ctx).Create(share).Error
}

func (r *roastShareRepository) FindBySlug(ctx context.Context, slug string) (*model.RoastShare, error) {
	var share model.RoastShare
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&share).Error; err != nil {
		return nil, err
	}
	return &share, nil
}

func (r *roastShareRepository) IncrementViewCount(ctx context.Context, slug string) error {
	result := r.db.WithContext(ctx).Model(&model.RoastShare{}).
		Where("slug = ?", slug).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *roastShareRepository) SetSnapshotURL(ctx context.Context, slug, url string) error {
	return r.db.WithContext(ctx).Model(&model.RoastShare{}).
		Where("slug = ?", slug).
		UpdateColumn("snapshot_url", url).Error
}

// List returns the newest shares. A non-positive limit returns all of them.
func (r *roastShareRepository) List(ctx context.Context, limit int) ([]model.RoastShare, error) {
	var shares []model.RoastShare
	query := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&shares).Error
	return shares, err
}
