package service

import (
	"context"
	"errors"
	"time"

	"circl/backend/internal/db"
	"circl/backend/internal/repository"
	"circl/backend/internal/strength"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ContactService struct {
	database        *db.Database
	contactRepo     *repository.ContactRepository
	interactionRepo *repository.InteractionRepository
}

func NewContactService(database *db.Database, contactRepo *repository.ContactRepository, interactionRepo *repository.InteractionRepository) *ContactService {
	return &ContactService{
		database:        database,
		contactRepo:     contactRepo,
		interactionRepo: interactionRepo,
	}
}

func (s *ContactService) GetContact(ctx context.Context, id, userID uuid.UUID) (*repository.Contact, error) {
	return s.contactRepo.GetContact(ctx, id, userID)
}

func (s *ContactService) ListContactsPage(ctx context.Context, params repository.ListContactsParams) ([]repository.Contact, int64, error) {
	contacts, err := s.contactRepo.ListContacts(ctx, params)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.contactRepo.CountContacts(ctx, params.UserID)
	if err != nil {
		return nil, 0, err
	}

	return contacts, total, nil
}

func (s *ContactService) SearchContacts(ctx context.Context, params repository.SearchContactsParams) ([]repository.Contact, error) {
	return s.contactRepo.SearchContacts(ctx, params)
}

func (s *ContactService) CreateContact(ctx context.Context, req repository.CreateContactRequest) (*repository.Contact, error) {
	if req.Circle == "" {
		req.Circle = repository.CircleMiddle
	}
	return s.contactRepo.CreateContact(ctx, req)
}

func (s *ContactService) UpdateContact(ctx context.Context, id, userID uuid.UUID, req repository.UpdateContactRequest) (*repository.Contact, error) {
	return s.contactRepo.UpdateContact(ctx, id, userID, req)
}

// DeleteContact soft-deletes a contact. Dependent records are kept; they stop
// being reachable once the contact no longer lists.
func (s *ContactService) DeleteContact(ctx context.Context, id, userID uuid.UUID) error {
	return s.contactRepo.SoftDeleteContact(ctx, id, userID)
}

// TouchContact records an interaction and bumps the contact's last-contacted
// timestamp in one transaction.
func (s *ContactService) TouchContact(ctx context.Context, id, userID uuid.UUID, kind string, notes *string) (contact *repository.Contact, err error) {
	tx, err := s.database.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			if err == nil {
				err = rollbackErr
			}
		}
	}()

	contactRepo := repository.NewContactRepository(tx)
	interactionRepo := repository.NewInteractionRepository(tx)

	if _, err = contactRepo.GetContact(ctx, id, userID); err != nil {
		return nil, err
	}

	now := time.Now()
	if _, err = interactionRepo.CreateInteraction(ctx, repository.CreateInteractionRequest{
		UserID:     userID,
		ContactID:  id,
		Kind:       kind,
		Notes:      notes,
		OccurredAt: now,
	}); err != nil {
		return nil, err
	}

	if err = contactRepo.UpdateContactLastContacted(ctx, id, userID, now); err != nil {
		return nil, err
	}

	contact, err = contactRepo.GetContact(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	return contact, nil
}

// ContactStrength computes the connection strength for one contact from its
// interaction history. Scoring itself never fails; only the reads can.
func (s *ContactService) ContactStrength(ctx context.Context, id, userID uuid.UUID) (*strength.Strength, error) {
	contact, err := s.contactRepo.GetContact(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	interactions, err := s.interactionRepo.ListInteractionsByContact(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	result := strength.Score(contact, interactions, time.Now())
	return &result, nil
}
