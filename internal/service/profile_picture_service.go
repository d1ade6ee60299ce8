package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"glowupp/nutrition-api/internal/domain"
	"glowupp/nutrition-api/internal/repository"
	"glowupp/nutrition-api/internal/storage"
)

// maxPictureBytes caps confirmed uploads.
const maxPictureBytes = 5 << 20

var (
	ErrUnsupportedImageType = errors.New("unsupported image type")
	ErrInvalidObjectKey     = errors.New("object key does not belong to this user")
	ErrUploadNotFound       = errors.New("uploaded file not found in storage")
	ErrPictureTooLarge      = errors.New("profile picture exceeds 5 MB")
	ErrNoProfilePicture     = errors.New("user has no profile picture")
)

// UploadTicket is what a client needs to PUT the image straight to storage.
type UploadTicket struct {
	UploadURL   string `json:"uploadUrl"`
	ObjectKey   string `json:"objectKey"`
	ContentType string `json:"contentType"`
}

type ProfilePictureService interface {
	RequestUpload(ctx context.Context, userID, contentType string) (*UploadTicket, error)
	// ConfirmUpload records the uploaded object and makes it the user's picture.
	ConfirmUpload(ctx context.Context, userID, objectKey string) (*domain.ProfilePicture, error)
	DownloadURL(ctx context.Context, userID string) (string, error)
}

type profilePictureService struct {
	userRepo    repository.UserRepository
	pictureRepo repository.ProfilePictureRepository
	files       storage.FileStorage
}

func NewProfilePictureService(userRepo repository.UserRepository, pictureRepo repository.ProfilePictureRepository, files storage.FileStorage) ProfilePictureService {
	return &profilePictureService{userRepo: userRepo, pictureRepo: pictureRepo, files: files}
}

func (s *profilePictureService) RequestUpload(ctx context.Context, userID, contentType string) (*UploadTicket, error) {
	if _, err := parseUserID(userID); err != nil {
		return nil, err
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if !storage.AllowedImageType(contentType) {
		return nil, ErrUnsupportedImageType
	}

	key := storage.ProfilePictureKey(userID, contentType)
	url, err := s.files.GeneratePresignedUploadURL(ctx, key, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}
	return &UploadTicket{UploadURL: url, ObjectKey: key, ContentType: contentType}, nil
}

func (s *profilePictureService) ConfirmUpload(ctx context.Context, userID, objectKey string) (*domain.ProfilePicture, error) {
	oid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	if !storage.KeyBelongsTo(objectKey, userID) {
		return nil, ErrInvalidObjectKey
	}

	info, err := s.files.StatObject(ctx, objectKey)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, ErrUploadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("stat upload: %w", err)
	}
	if info.Size > maxPictureBytes {
		if err := s.files.DeleteObject(ctx, objectKey); err != nil {
			log.Printf("WARN: Failed to delete oversized upload %s: %v", objectKey, err)
		}
		return nil, ErrPictureTooLarge
	}

	user, err := s.userRepo.GetByID(ctx, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	pic := &domain.ProfilePicture{
		UserID:      oid,
		S3ObjectKey: objectKey,
		ContentType: info.ContentType,
		Size:        info.Size,
	}
	if _, err := s.pictureRepo.Create(ctx, pic); err != nil {
		return nil, fmt.Errorf("store picture metadata: %w", err)
	}
	if err := s.userRepo.SetProfilePictureKey(ctx, oid, objectKey); err != nil {
		return nil, fmt.Errorf("set profile picture: %w", err)
	}

	if previous := user.ProfilePictureKey; previous != "" && previous != objectKey {
		if err := s.files.DeleteObject(ctx, previous); err != nil {
			log.Printf("WARN: Failed to delete previous profile picture %s: %v", previous, err)
		}
	}
	return pic, nil
}

func (s *profilePictureService) DownloadURL(ctx context.Context, userID string) (string, error) {
	oid, err := parseUserID(userID)
	if err != nil {
		return "", err
	}
	user, err := s.userRepo.GetByID(ctx, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", err
	}
	key := user.ProfilePictureKey
	if key == "" {
		// Users created before the key was stored on the profile.
		pic, err := s.pictureRepo.LatestByUserID(ctx, oid)
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrNoProfilePicture
		}
		if err != nil {
			return "", err
		}
		key = pic.S3ObjectKey
	}
	return s.files.GeneratePresignedDownloadURL(ctx, key, storage.DefaultPresignedURLExpiry)
}
