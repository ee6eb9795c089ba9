package repository

import (
	"context"

	"picstream/internal/models"

	"gorm.io/gorm"
)

// ImageRepository defines storage operations for uploaded images.
type ImageRepository interface {
	// CreateWithUpload inserts the image row and then invokes upload with the
	// persisted record (its ID is assigned) inside the same transaction. If
	// upload fails the row is rolled back, so no unbacked image row can
	// remain behind.
	CreateWithUpload(ctx context.Context, image *models.Image, upload func(*models.Image) error) error
	GetByID(ctx context.Context, id uint) (*models.Image, error)
	CountUnattached(ctx context.Context, ids []uint) (int64, error)
}

type imageRepository struct {
	db *gorm.DB
}

// NewImageRepository returns a repository implementation for image records.
func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) CreateWithUpload(ctx context.Context, image *models.Image, upload func(*models.Image) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(image).Error; err != nil {
			return err
		}
		return upload(image)
	})
}

func (r *imageRepository) GetByID(ctx context.Context, id uint) (*models.Image, error) {
	var image models.Image
	if err := r.db.WithContext(ctx).First(&image, id).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *imageRepository) CountUnattached(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Image{}).
		Where("id IN ? AND post_id IS NULL", ids).
		Count(&count).Error
	return count, err
}
