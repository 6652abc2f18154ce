package service

import (
	"context"
	"errors"

	"circl/backend/internal/db"
	"circl/backend/internal/dedupe"
	"circl/backend/internal/logger"
	"circl/backend/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// scanPageSize bounds how many contacts a single duplicate scan loads.
const scanPageSize = 1000

type DuplicateService struct {
	database    *db.Database
	contactRepo *repository.ContactRepository
	cfg         dedupe.Config
}

func NewDuplicateService(database *db.Database, contactRepo *repository.ContactRepository, cfg dedupe.Config) *DuplicateService {
	return &DuplicateService{
		database:    database,
		contactRepo: contactRepo,
		cfg:         cfg,
	}
}

// ScanDuplicates loads the user's full contact set and returns candidate
// duplicate pairs. Pairs are ephemeral; every call recomputes them.
func (s *DuplicateService) ScanDuplicates(ctx context.Context, userID uuid.UUID) ([]dedupe.Pair, error) {
	var all []repository.Contact
	for offset := int32(0); ; offset += scanPageSize {
		page, err := s.contactRepo.ListContacts(ctx, repository.ListContactsParams{
			UserID: userID,
			Limit:  scanPageSize,
			Offset: offset,
		})
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < scanPageSize {
			break
		}
	}

	return dedupe.FindPairs(all, s.cfg), nil
}

// MergeContacts merges the secondary contact into the primary inside one
// transaction: both rows are locked, fields reconciled with the primary
// winning conflicts, every dependent record re-keyed to the primary, and the
// secondary deleted last. Any failure rolls the whole merge back, so a
// dependent record is never left pointing at a deleted contact.
func (s *DuplicateService) MergeContacts(ctx context.Context, primaryID, secondaryID, userID uuid.UUID) (merged *repository.Contact, err error) {
	if primaryID == secondaryID {
		return nil, errors.New("cannot merge a contact with itself")
	}

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

	// Lock in a fixed id order so two merges touching the same rows cannot
	// deadlock against each other.
	first, second := primaryID, secondaryID
	if second.String() < first.String() {
		first, second = second, first
	}
	locked := make(map[uuid.UUID]*repository.Contact, 2)
	for _, id := range []uuid.UUID{first, second} {
		contact, lockErr := contactRepo.GetContactByIDForUpdate(ctx, id)
		if lockErr != nil {
			return nil, lockErr
		}
		locked[id] = contact
	}

	primary, secondary := locked[primaryID], locked[secondaryID]
	// A caller owning neither row is told nothing exists, the same answer an
	// unknown id gets.
	if primary.UserID != userID && secondary.UserID != userID {
		return nil, db.ErrNotFound
	}
	if primary.UserID != secondary.UserID {
		return nil, ErrCrossOwner
	}

	fields := dedupe.MergeFields(primary, secondary)
	merged, err = contactRepo.UpdateContact(ctx, primary.ID, userID, repository.UpdateContactRequest{
		FullName:   fields.FullName,
		Email:      fields.Email,
		Phone:      fields.Phone,
		Company:    fields.Company,
		JobTitle:   fields.JobTitle,
		Industry:   fields.Industry,
		LinkedIn:   fields.LinkedIn,
		Twitter:    fields.Twitter,
		Location:   fields.Location,
		University: fields.University,
		Notes:      fields.Notes,
		Tags:       fields.Tags,
		Circle:     fields.Circle,
	})
	if err != nil {
		return nil, err
	}

	if fields.LastContacted != nil {
		if err = contactRepo.UpdateContactLastContacted(ctx, primary.ID, userID, *fields.LastContacted); err != nil {
			return nil, err
		}
		merged.LastContacted = fields.LastContacted
	}

	if err = reassignDependents(ctx, tx, secondary.ID, primary.ID, userID); err != nil {
		return nil, err
	}

	if err = contactRepo.HardDeleteContact(ctx, secondary.ID, userID); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}

	logger.Info().
		Str("primary_id", primary.ID.String()).
		Str("secondary_id", secondary.ID.String()).
		Msg("merged duplicate contacts")

	return merged, nil
}

// reassignDependents re-keys every dependent record type from the secondary
// to the primary contact. All failures are collected so the caller can report
// exactly which types could not move before the transaction rolls back.
func reassignDependents(ctx context.Context, tx pgx.Tx, fromID, toID, userID uuid.UUID) error {
	var failed []string

	if _, err := repository.NewInteractionRepository(tx).ReassignInteractions(ctx, fromID, toID, userID); err != nil {
		logger.Error().Err(err).Msg("failed to reassign interactions")
		failed = append(failed, "interactions")
	}
	if _, err := repository.NewKeystoneRepository(tx).ReassignKeystones(ctx, fromID, toID, userID); err != nil {
		logger.Error().Err(err).Msg("failed to reassign keystones")
		failed = append(failed, "keystones")
	}
	if _, err := repository.NewMediaRepository(tx).ReassignMedia(ctx, fromID, toID, userID); err != nil {
		logger.Error().Err(err).Msg("failed to reassign media")
		failed = append(failed, "media")
	}
	if _, err := repository.NewNotificationRepository(tx).ReassignNotifications(ctx, fromID, toID, userID); err != nil {
		logger.Error().Err(err).Msg("failed to reassign notifications")
		failed = append(failed, "notifications")
	}

	if len(failed) > 0 {
		return &PartialReassignmentError{Failed: failed}
	}
	return nil
}
