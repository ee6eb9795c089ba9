package service

import (
	"context"
	"errors"
	"unicode/utf8"

	"picstream/internal/authz"
	"picstream/internal/models"
	"picstream/internal/observability"
	"picstream/internal/repository"

	"gorm.io/gorm"
)

const (
	maxCaptionLen   = 1024
	maxCommentLen   = 255
	maxPostImages   = 5
	minPostImages   = 1
)

// CreatePostInput carries a post creation request.
type CreatePostInput struct {
	UserID   uint
	Caption  string
	ImageIDs []uint
}

// AddCommentInput carries a comment creation request.
type AddCommentInput struct {
	UserID uint
	PostID uint
	Body   string
}

// PostService applies the mutating interactions: post creation and deletion,
// like toggling, and comment add/delete. Each operation is authorization
// checked and/or transactional as the data model requires.
type PostService struct {
	posts    repository.PostRepository
	comments repository.CommentRepository
	authz    *authz.Evaluator
}

// NewPostService creates the interaction service.
func NewPostService(posts repository.PostRepository, comments repository.CommentRepository, evaluator *authz.Evaluator) *PostService {
	return &PostService{
		posts:    posts,
		comments: comments,
		authz:    evaluator,
	}
}

// CreatePost validates the caption and image references and creates the post
// with its images attached in a single all-or-nothing transaction.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	captionLen := utf8.RuneCountInString(in.Caption)
	if captionLen == 0 {
		return nil, models.NewFieldValidationError("caption", "Caption is required")
	}
	if captionLen > maxCaptionLen {
		return nil, models.NewFieldValidationError("caption", "Caption too long (max 1024 characters)")
	}

	if len(in.ImageIDs) < minPostImages || len(in.ImageIDs) > maxPostImages {
		return nil, models.NewFieldValidationError("image_ids", "A post requires between 1 and 5 images")
	}
	seen := make(map[uint]struct{}, len(in.ImageIDs))
	for _, id := range in.ImageIDs {
		if id == 0 {
			return nil, models.NewFieldValidationError("image_ids", "Invalid image ID")
		}
		if _, dup := seen[id]; dup {
			return nil, models.NewFieldValidationError("image_ids", "Duplicate image ID")
		}
		seen[id] = struct{}{}
	}

	post := &models.Post{
		UserID:  in.UserID,
		Caption: in.Caption,
	}
	if err := s.posts.CreateWithImages(ctx, post, in.ImageIDs); err != nil {
		return nil, err
	}
	return post, nil
}

// ToggleLike flips the viewer's membership in the post's like set and returns
// the resulting state together with the authoritative like count.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (liked bool, likeCount int64, err error) {
	if _, err = s.posts.GetByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, 0, models.NewNotFoundError("Post", postID)
		}
		return false, 0, err
	}

	liked, err = s.posts.ToggleLike(ctx, userID, postID)
	if err != nil {
		return false, 0, err
	}
	if liked {
		observability.LikeToggles.WithLabelValues("liked").Inc()
	} else {
		observability.LikeToggles.WithLabelValues("unliked").Inc()
	}

	likeCount, err = s.posts.LikeCount(ctx, postID)
	if err != nil {
		return liked, 0, err
	}
	return liked, likeCount, nil
}

// AddComment validates and creates a comment. Any authenticated user may
// comment on any post.
func (s *PostService) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	bodyLen := utf8.RuneCountInString(in.Body)
	if bodyLen == 0 {
		return nil, models.NewFieldValidationError("comment", "Comment is required")
	}
	if bodyLen > maxCommentLen {
		return nil, models.NewFieldValidationError("comment", "Comment too long (max 255 characters)")
	}

	if _, err := s.posts.GetByID(ctx, in.PostID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", in.PostID)
		}
		return nil, err
	}

	comment := &models.Comment{
		Body:   in.Body,
		UserID: in.UserID,
		PostID: in.PostID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.comments.GetByID(ctx, comment.ID)
}

// DeleteComment removes a comment after the delete-comment policy allows it.
func (s *PostService) DeleteComment(ctx context.Context, userID, commentID uint) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Comment", commentID)
		}
		return err
	}

	if err := s.authz.Authorize(authz.DeleteComment, userID, authz.ForComment(comment)); err != nil {
		return err
	}
	return s.comments.Delete(ctx, commentID)
}

// DeletePost removes a post after the delete-post policy allows it. Dependent
// likes and comments go with it via the storage layer's cascade rules.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post", postID)
		}
		return err
	}

	if err := s.authz.Authorize(authz.DeletePost, userID, authz.ForPost(post)); err != nil {
		return err
	}
	return s.posts.Delete(ctx, postID)
}
