// Package seed populates a development database with realistic fake data.
package seed

import (
	"fmt"
	"log"
	"strings"

	"picstream/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const seedPassword = "Development123!"

// Run seeds users, unattached and attached images, posts, comments, and likes.
// It is idempotent enough for development: rerunning adds more data.
func Run(db *gorm.DB, userCount, postCount int) error {
	gofakeit.Seed(0)

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing seed password: %w", err)
	}

	users := make([]*models.User, 0, userCount)
	for i := 0; i < userCount; i++ {
		user := &models.User{
			Username: fmt.Sprintf("%s%d", strings.ToLower(gofakeit.Username()), gofakeit.Number(10, 9999)),
			Name:     gofakeit.Name(),
			Password: string(hash),
		}
		if err := db.Create(user).Error; err != nil {
			return fmt.Errorf("creating user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("Seeded %d users (password %q)", len(users), seedPassword)

	exts := []string{"jpg", "jpeg", "png"}
	for i := 0; i < postCount; i++ {
		author := users[gofakeit.Number(0, len(users)-1)]

		post := &models.Post{
			UserID:  author.ID,
			Caption: gofakeit.Sentence(gofakeit.Number(3, 20)),
		}
		if err := db.Create(post).Error; err != nil {
			return fmt.Errorf("creating post: %w", err)
		}

		imageCount := gofakeit.Number(1, 5)
		for j := 0; j < imageCount; j++ {
			image := &models.Image{
				UserID:  author.ID,
				PostID:  &post.ID,
				FileExt: exts[gofakeit.Number(0, len(exts)-1)],
			}
			if err := db.Create(image).Error; err != nil {
				return fmt.Errorf("creating image: %w", err)
			}
		}

		for _, user := range users {
			if gofakeit.Bool() {
				like := &models.Like{UserID: user.ID, PostID: post.ID}
				if err := db.Create(like).Error; err != nil {
					return fmt.Errorf("creating like: %w", err)
				}
			}
		}

		commentCount := gofakeit.Number(0, 4)
		for j := 0; j < commentCount; j++ {
			commenter := users[gofakeit.Number(0, len(users)-1)]
			comment := &models.Comment{
				UserID: commenter.ID,
				PostID: post.ID,
				Body:   gofakeit.Sentence(gofakeit.Number(2, 12)),
			}
			if err := db.Create(comment).Error; err != nil {
				return fmt.Errorf("creating comment: %w", err)
			}
		}
	}
	log.Printf("Seeded %d posts", postCount)

	// A few unattached uploads, as if users abandoned a draft post.
	for i := 0; i < userCount; i++ {
		image := &models.Image{
			UserID:  users[gofakeit.Number(0, len(users)-1)].ID,
			FileExt: exts[gofakeit.Number(0, len(exts)-1)],
		}
		if err := db.Create(image).Error; err != nil {
			return fmt.Errorf("creating unattached image: %w", err)
		}
	}

	return nil
}
