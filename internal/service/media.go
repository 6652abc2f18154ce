package service

import (
	"context"

	"circl/backend/internal/repository"

	"github.com/google/uuid"
)

type MediaService struct {
	contactRepo *repository.ContactRepository
	mediaRepo   *repository.MediaRepository
}

func NewMediaService(contactRepo *repository.ContactRepository, mediaRepo *repository.MediaRepository) *MediaService {
	return &MediaService{
		contactRepo: contactRepo,
		mediaRepo:   mediaRepo,
	}
}

func (s *MediaService) ListMediaByContact(ctx context.Context, contactID, userID uuid.UUID) ([]repository.Media, error) {
	if _, err := s.contactRepo.GetContact(ctx, contactID, userID); err != nil {
		return nil, err
	}
	return s.mediaRepo.ListMediaByContact(ctx, contactID, userID)
}

func (s *MediaService) CreateMedia(ctx context.Context, req repository.CreateMediaRequest) (*repository.Media, error) {
	if _, err := s.contactRepo.GetContact(ctx, req.ContactID, req.UserID); err != nil {
		return nil, err
	}
	return s.mediaRepo.CreateMedia(ctx, req)
}

func (s *MediaService) DeleteMedia(ctx context.Context, id, userID uuid.UUID) error {
	return s.mediaRepo.DeleteMedia(ctx, id, userID)
}
