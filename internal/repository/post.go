package repository

import (
	"context"

	"picstream/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post and like data operations.
type PostRepository interface {
	// CreateWithImages inserts the post and attaches the referenced images in
	// one transaction. Every image must exist and be currently unattached;
	// otherwise nothing is persisted.
	CreateWithImages(ctx context.Context, post *models.Post, imageIDs []uint) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	// ListFeed returns all posts newest-first (descending ID) with poster,
	// attached images, comments with commenter, like counts, and the
	// viewer's liked flag resolved in a single query.
	ListFeed(ctx context.Context, viewerID uint) ([]*models.Post, error)
	Delete(ctx context.Context, id uint) error
	// ToggleLike flips membership of userID in the post's like set and
	// reports the resulting state. The insert side is a conditional insert
	// resolved by the unique (user_id, post_id) index, not check-then-act.
	ToggleLike(ctx context.Context, userID, postID uint) (liked bool, err error)
	LikeCount(ctx context.Context, postID uint) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) CreateWithImages(ctx context.Context, post *models.Post, imageIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}

		res := tx.Model(&models.Image{}).
			Where("id IN ? AND post_id IS NULL", imageIDs).
			Update("post_id", post.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != int64(len(imageIDs)) {
			// Returning an error rolls back the post insert too.
			return models.NewFieldValidationError("image_ids",
				"One or more images do not exist or are already attached to a post")
		}
		return nil
	})
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) ListFeed(ctx context.Context, viewerID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyFeedDetails(r.db.WithContext(ctx), viewerID).
		Preload("User").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("images.id ASC")
		}).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.id ASC")
		}).
		Preload("Comments.User").
		Order("posts.id DESC").
		Find(&posts).Error
	return posts, err
}

// applyFeedDetails adds subqueries to fetch the like count and the viewer's
// liked status in a single query.
func (r *postRepository) applyFeedDetails(db *gorm.DB, viewerID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS likes_count"

	if viewerID != 0 {
		return db.Select(selectQuery+
			", EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) AS liked", viewerID)
	}
	return db.Select(selectQuery + ", false AS liked")
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	// Likes and comments go with the post via ON DELETE CASCADE; images are
	// detached by ON DELETE SET NULL.
	return r.db.WithContext(ctx).Delete(&models.Post{}, id).Error
}

func (r *postRepository) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	// Conditional insert: the unique index resolves concurrent toggles, so
	// two racing requests cannot both insert.
	res := r.db.WithContext(ctx).Exec(
		`INSERT INTO likes (user_id, post_id, created_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (user_id, post_id) DO NOTHING`,
		userID, postID,
	)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	// The pair already existed: the toggle removes it.
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{}).Error
	return false, err
}

func (r *postRepository) LikeCount(ctx context.Context, postID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}
