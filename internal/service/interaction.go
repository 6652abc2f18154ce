package service

import (
	"context"
	"errors"
	"time"

	"circl/backend/internal/db"
	"circl/backend/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type InteractionService struct {
	database        *db.Database
	contactRepo     *repository.ContactRepository
	interactionRepo *repository.InteractionRepository
}

func NewInteractionService(database *db.Database, contactRepo *repository.ContactRepository, interactionRepo *repository.InteractionRepository) *InteractionService {
	return &InteractionService{
		database:        database,
		contactRepo:     contactRepo,
		interactionRepo: interactionRepo,
	}
}

func (s *InteractionService) ListInteractions(ctx context.Context, contactID, userID uuid.UUID) ([]repository.Interaction, error) {
	if _, err := s.contactRepo.GetContact(ctx, contactID, userID); err != nil {
		return nil, err
	}
	return s.interactionRepo.ListInteractionsByContact(ctx, contactID, userID)
}

// CreateInteraction logs an interaction against a contact and advances the
// contact's last-contacted timestamp when the new interaction is the most
// recent on record.
func (s *InteractionService) CreateInteraction(ctx context.Context, req repository.CreateInteractionRequest) (interaction *repository.Interaction, err error) {
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

	contact, err := contactRepo.GetContact(ctx, req.ContactID, req.UserID)
	if err != nil {
		return nil, err
	}

	if req.OccurredAt.IsZero() {
		req.OccurredAt = time.Now()
	}

	interaction, err = interactionRepo.CreateInteraction(ctx, req)
	if err != nil {
		return nil, err
	}

	if contact.LastContacted == nil || req.OccurredAt.After(*contact.LastContacted) {
		if err = contactRepo.UpdateContactLastContacted(ctx, req.ContactID, req.UserID, req.OccurredAt); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	return interaction, nil
}

func (s *InteractionService) DeleteInteraction(ctx context.Context, id, userID uuid.UUID) error {
	return s.interactionRepo.DeleteInteraction(ctx, id, userID)
}
