// Package service implements the application's business operations on top of
// the repository and object storage boundaries.
package service

import (
	"bytes"
	"context"
	"strings"

	"picstream/internal/models"
	"picstream/internal/observability"
	"picstream/internal/repository"
	"picstream/internal/storage"
)

// allowedImageExts is the fixed upload whitelist. Matching is a case-sensitive
// comparison of the literal filename extension; the file content is not
// sniffed.
var allowedImageExts = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
}

const imageValidationMessage = "File must be a .jpg, .jpeg or .png"

// RegisterImageInput carries one uploaded binary.
type RegisterImageInput struct {
	UserID   uint
	Filename string
	Content  []byte
}

// ImageService registers uploaded images: it validates the upload, persists
// an unattached image row, and stores the binary under images/{id}.{ext}.
type ImageService struct {
	images repository.ImageRepository
	store  storage.ObjectStore
}

// NewImageService creates the image registration service.
func NewImageService(images repository.ImageRepository, store storage.ObjectStore) *ImageService {
	return &ImageService{images: images, store: store}
}

// Register validates and persists an uploaded image, returning the created
// record. Validation happens before any persistence; the row insert and the
// object-store write share one transaction, so a failed write leaves no row.
func (s *ImageService) Register(ctx context.Context, in RegisterImageInput) (*models.Image, error) {
	if in.UserID == 0 {
		return nil, models.NewValidationError("Invalid user")
	}
	if len(in.Content) == 0 {
		observability.ImageUploads.WithLabelValues("rejected").Inc()
		return nil, models.NewFieldValidationError("image", imageValidationMessage)
	}

	ext, ok := fileExtension(in.Filename)
	if !ok {
		observability.ImageUploads.WithLabelValues("rejected").Inc()
		return nil, models.NewFieldValidationError("image", imageValidationMessage)
	}
	contentType, ok := allowedImageExts[ext]
	if !ok {
		observability.ImageUploads.WithLabelValues("rejected").Inc()
		return nil, models.NewFieldValidationError("image", imageValidationMessage)
	}

	image := &models.Image{
		UserID:  in.UserID,
		FileExt: ext,
	}
	err := s.images.CreateWithUpload(ctx, image, func(img *models.Image) error {
		key := storage.ImageKey(img.ID, img.FileExt)
		putErr := s.store.Put(ctx, key, bytes.NewReader(in.Content), int64(len(in.Content)), contentType)
		if putErr != nil {
			return models.NewStorageError(putErr)
		}
		return nil
	})
	if err != nil {
		observability.ImageUploads.WithLabelValues("failed").Inc()
		return nil, err
	}

	observability.ImageUploads.WithLabelValues("accepted").Inc()
	return image, nil
}

// Link returns the public display URL for an image record.
func (s *ImageService) Link(image *models.Image) string {
	return s.store.PublicURL(storage.ImageKey(image.ID, image.FileExt))
}

// fileExtension extracts the literal extension of name without folding case.
func fileExtension(name string) (string, bool) {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 || idx == len(name)-1 {
		return "", false
	}
	return name[idx+1:], true
}
