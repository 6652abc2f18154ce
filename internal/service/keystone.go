package service

import (
	"context"

	"circl/backend/internal/repository"

	"github.com/google/uuid"
)

type KeystoneService struct {
	contactRepo  *repository.ContactRepository
	keystoneRepo *repository.KeystoneRepository
}

func NewKeystoneService(contactRepo *repository.ContactRepository, keystoneRepo *repository.KeystoneRepository) *KeystoneService {
	return &KeystoneService{
		contactRepo:  contactRepo,
		keystoneRepo: keystoneRepo,
	}
}

func (s *KeystoneService) GetKeystone(ctx context.Context, id, userID uuid.UUID) (*repository.Keystone, error) {
	return s.keystoneRepo.GetKeystone(ctx, id, userID)
}

func (s *KeystoneService) ListKeystones(ctx context.Context, userID uuid.UUID) ([]repository.Keystone, error) {
	return s.keystoneRepo.ListKeystonesByUser(ctx, userID)
}

func (s *KeystoneService) ListKeystonesByContact(ctx context.Context, contactID, userID uuid.UUID) ([]repository.Keystone, error) {
	if _, err := s.contactRepo.GetContact(ctx, contactID, userID); err != nil {
		return nil, err
	}
	return s.keystoneRepo.ListKeystonesByContact(ctx, contactID, userID)
}

func (s *KeystoneService) CreateKeystone(ctx context.Context, req repository.CreateKeystoneRequest) (*repository.Keystone, error) {
	if _, err := s.contactRepo.GetContact(ctx, req.ContactID, req.UserID); err != nil {
		return nil, err
	}
	return s.keystoneRepo.CreateKeystone(ctx, req)
}

func (s *KeystoneService) UpdateKeystone(ctx context.Context, id, userID uuid.UUID, req repository.UpdateKeystoneRequest) (*repository.Keystone, error) {
	return s.keystoneRepo.UpdateKeystone(ctx, id, userID, req)
}

func (s *KeystoneService) DeleteKeystone(ctx context.Context, id, userID uuid.UUID) error {
	return s.keystoneRepo.DeleteKeystone(ctx, id, userID)
}
