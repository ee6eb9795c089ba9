package service

import (
	"context"
	"fmt"
	"io"

	"picstream/internal/models"
)

// Stub repositories with per-test function fields. Unset methods fail loudly.

type stubPostRepo struct {
	createWithImages func(ctx context.Context, post *models.Post, imageIDs []uint) error
	getByID          func(ctx context.Context, id uint) (*models.Post, error)
	listFeed         func(ctx context.Context, viewerID uint) ([]*models.Post, error)
	deleteFn         func(ctx context.Context, id uint) error
	toggleLike       func(ctx context.Context, userID, postID uint) (bool, error)
	likeCount        func(ctx context.Context, postID uint) (int64, error)
}

func (s *stubPostRepo) CreateWithImages(ctx context.Context, post *models.Post, imageIDs []uint) error {
	if s.createWithImages == nil {
		return fmt.Errorf("unexpected CreateWithImages call")
	}
	return s.createWithImages(ctx, post, imageIDs)
}

func (s *stubPostRepo) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	if s.getByID == nil {
		return nil, fmt.Errorf("unexpected GetByID call")
	}
	return s.getByID(ctx, id)
}

func (s *stubPostRepo) ListFeed(ctx context.Context, viewerID uint) ([]*models.Post, error) {
	if s.listFeed == nil {
		return nil, fmt.Errorf("unexpected ListFeed call")
	}
	return s.listFeed(ctx, viewerID)
}

func (s *stubPostRepo) Delete(ctx context.Context, id uint) error {
	if s.deleteFn == nil {
		return fmt.Errorf("unexpected Delete call")
	}
	return s.deleteFn(ctx, id)
}

func (s *stubPostRepo) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	if s.toggleLike == nil {
		return false, fmt.Errorf("unexpected ToggleLike call")
	}
	return s.toggleLike(ctx, userID, postID)
}

func (s *stubPostRepo) LikeCount(ctx context.Context, postID uint) (int64, error) {
	if s.likeCount == nil {
		return 0, fmt.Errorf("unexpected LikeCount call")
	}
	return s.likeCount(ctx, postID)
}

type stubCommentRepo struct {
	create   func(ctx context.Context, comment *models.Comment) error
	getByID  func(ctx context.Context, id uint) (*models.Comment, error)
	deleteFn func(ctx context.Context, id uint) error
}

func (s *stubCommentRepo) Create(ctx context.Context, comment *models.Comment) error {
	if s.create == nil {
		return fmt.Errorf("unexpected Create call")
	}
	return s.create(ctx, comment)
}

func (s *stubCommentRepo) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	if s.getByID == nil {
		return nil, fmt.Errorf("unexpected GetByID call")
	}
	return s.getByID(ctx, id)
}

func (s *stubCommentRepo) Delete(ctx context.Context, id uint) error {
	if s.deleteFn == nil {
		return fmt.Errorf("unexpected Delete call")
	}
	return s.deleteFn(ctx, id)
}

type stubImageRepo struct {
	createWithUpload func(ctx context.Context, image *models.Image, upload func(*models.Image) error) error
	getByID          func(ctx context.Context, id uint) (*models.Image, error)
	countUnattached  func(ctx context.Context, ids []uint) (int64, error)
}

func (s *stubImageRepo) CreateWithUpload(ctx context.Context, image *models.Image, upload func(*models.Image) error) error {
	if s.createWithUpload == nil {
		return fmt.Errorf("unexpected CreateWithUpload call")
	}
	return s.createWithUpload(ctx, image, upload)
}

func (s *stubImageRepo) GetByID(ctx context.Context, id uint) (*models.Image, error) {
	if s.getByID == nil {
		return nil, fmt.Errorf("unexpected GetByID call")
	}
	return s.getByID(ctx, id)
}

func (s *stubImageRepo) CountUnattached(ctx context.Context, ids []uint) (int64, error) {
	if s.countUnattached == nil {
		return 0, fmt.Errorf("unexpected CountUnattached call")
	}
	return s.countUnattached(ctx, ids)
}

type stubStore struct {
	put func(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
}

func (s *stubStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if s.put == nil {
		return nil
	}
	return s.put(ctx, key, r, size, contentType)
}

func (s *stubStore) PublicURL(key string) string {
	return "http://cdn.test/picstream/" + key
}
