package service

import (
	"context"
	"time"

	"picstream/internal/authz"
	"picstream/internal/models"
	"picstream/internal/observability"
	"picstream/internal/repository"
	"picstream/internal/storage"
)

// FeedImage is one attached image in the feed projection.
type FeedImage struct {
	Link string `json:"link"`
}

// FeedComment is one comment in the feed projection.
type FeedComment struct {
	ID                uint      `json:"id"`
	Body              string    `json:"comment"`
	CommenterUsername string    `json:"commenter_username"`
	CreatedAt         time.Time `json:"created_at"`
	CanDelete         bool      `json:"can_delete"`
}

// FeedPost is one feed entry personalized for the viewer.
type FeedPost struct {
	ID             uint          `json:"id"`
	Caption        string        `json:"caption"`
	PosterUsername string        `json:"poster_username"`
	CreatedAt      time.Time     `json:"created_at"`
	Images         []FeedImage   `json:"images"`
	LikesCount     int           `json:"likes_count"`
	IsLiked        bool          `json:"is_liked"`
	CanDelete      bool          `json:"can_delete"`
	Comments       []FeedComment `json:"comments"`
}

// FeedService assembles the per-viewer feed projection from normalized
// storage. Every call recomputes the full join; nothing is cached.
type FeedService struct {
	posts repository.PostRepository
	store storage.ObjectStore
	authz *authz.Evaluator
}

// NewFeedService creates the feed assembly service.
func NewFeedService(posts repository.PostRepository, store storage.ObjectStore, evaluator *authz.Evaluator) *FeedService {
	return &FeedService{
		posts: posts,
		store: store,
		authz: evaluator,
	}
}

// AssembleFeed returns all posts newest-first, each resolved against the
// viewer: like count and liked flag, delete permissions, attached image links
// in insertion order, and comments with commenter identity. An empty feed is
// an empty slice, not an error.
func (s *FeedService) AssembleFeed(ctx context.Context, viewerID uint) ([]FeedPost, error) {
	start := time.Now()
	defer func() {
		observability.FeedAssemblyDuration.Observe(time.Since(start).Seconds())
	}()
	observability.FeedAssemblies.Inc()

	posts, err := s.posts.ListFeed(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	feed := make([]FeedPost, 0, len(posts))
	for _, post := range posts {
		feed = append(feed, s.project(post, viewerID))
	}
	return feed, nil
}

func (s *FeedService) project(post *models.Post, viewerID uint) FeedPost {
	images := make([]FeedImage, 0, len(post.Images))
	for _, img := range post.Images {
		images = append(images, FeedImage{
			Link: s.store.PublicURL(storage.ImageKey(img.ID, img.FileExt)),
		})
	}

	comments := make([]FeedComment, 0, len(post.Comments))
	for i := range post.Comments {
		comment := &post.Comments[i]
		comments = append(comments, FeedComment{
			ID:                comment.ID,
			Body:              comment.Body,
			CommenterUsername: comment.User.Username,
			CreatedAt:         comment.CreatedAt,
			CanDelete:         s.authz.Allows(authz.DeleteComment, viewerID, authz.ForComment(comment)),
		})
	}

	return FeedPost{
		ID:             post.ID,
		Caption:        post.Caption,
		PosterUsername: post.User.Username,
		CreatedAt:      post.CreatedAt,
		Images:         images,
		LikesCount:     post.LikesCount,
		IsLiked:        post.Liked,
		CanDelete:      s.authz.Allows(authz.DeletePost, viewerID, authz.ForPost(post)),
		Comments:       comments,
	}
}
