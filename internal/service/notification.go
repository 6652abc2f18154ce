package service

import (
	"context"
	"fmt"
	"time"

	"circl/backend/internal/logger"
	"circl/backend/internal/repository"
	"circl/backend/internal/strength"

	"github.com/google/uuid"
)

const (
	// NotificationKindReachOut marks notifications generated from weak
	// connection strength.
	NotificationKindReachOut = "reach_out"

	// reachOutCooldown suppresses repeat reach-out notifications for the
	// same contact within the window.
	reachOutCooldown = 7 * 24 * time.Hour
)

type contactReader interface {
	ListOwnerIDs(ctx context.Context) ([]uuid.UUID, error)
	ListContacts(ctx context.Context, params repository.ListContactsParams) ([]repository.Contact, error)
}

type interactionReader interface {
	ListInteractionsByContact(ctx context.Context, contactID, userID uuid.UUID) ([]repository.Interaction, error)
}

type notificationStore interface {
	ListNotifications(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]repository.Notification, error)
	CreateNotification(ctx context.Context, req repository.CreateNotificationRequest) (*repository.Notification, error)
	MarkNotificationRead(ctx context.Context, id, userID uuid.UUID) error
	HasRecentNotification(ctx context.Context, userID, contactID uuid.UUID, kind string, since time.Time) (bool, error)
}

type NotificationService struct {
	contactRepo      contactReader
	interactionRepo  interactionReader
	notificationRepo notificationStore
}

func NewNotificationService(contactRepo contactReader, interactionRepo interactionReader, notificationRepo notificationStore) *NotificationService {
	return &NotificationService{
		contactRepo:      contactRepo,
		interactionRepo:  interactionRepo,
		notificationRepo: notificationRepo,
	}
}

func (s *NotificationService) ListNotifications(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]repository.Notification, error) {
	return s.notificationRepo.ListNotifications(ctx, userID, limit, offset)
}

func (s *NotificationService) MarkNotificationRead(ctx context.Context, id, userID uuid.UUID) error {
	return s.notificationRepo.MarkNotificationRead(ctx, id, userID)
}

// GenerateReachOutNotifications scores every contact of every user and files
// a reach-out notification for each weak connection, at most once per contact
// per cooldown window. Per-contact failures are logged and skipped so one bad
// record cannot starve the rest of the run.
func (s *NotificationService) GenerateReachOutNotifications(ctx context.Context) error {
	owners, err := s.contactRepo.ListOwnerIDs(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	created := 0
	for _, userID := range owners {
		n, err := s.generateForUser(ctx, userID, now)
		if err != nil {
			logger.Error().Err(err).Str("user_id", userID.String()).Msg("reach-out generation failed for user")
			continue
		}
		created += n
	}

	logger.Info().Int("created", created).Msg("reach-out notification run finished")
	return nil
}

func (s *NotificationService) generateForUser(ctx context.Context, userID uuid.UUID, now time.Time) (int, error) {
	var contacts []repository.Contact
	for offset := int32(0); ; offset += scanPageSize {
		page, err := s.contactRepo.ListContacts(ctx, repository.ListContactsParams{
			UserID: userID,
			Limit:  scanPageSize,
			Offset: offset,
		})
		if err != nil {
			return 0, err
		}
		contacts = append(contacts, page...)
		if len(page) < scanPageSize {
			break
		}
	}

	created := 0
	for i := range contacts {
		contact := &contacts[i]

		interactions, err := s.interactionRepo.ListInteractionsByContact(ctx, contact.ID, userID)
		if err != nil {
			logger.Warn().Err(err).Str("contact_id", contact.ID.String()).Msg("skipping contact in reach-out run")
			continue
		}

		if strength.Score(contact, interactions, now).Level != strength.LevelWeak {
			continue
		}

		recent, err := s.notificationRepo.HasRecentNotification(ctx, userID, contact.ID, NotificationKindReachOut, now.Add(-reachOutCooldown))
		if err != nil {
			logger.Warn().Err(err).Str("contact_id", contact.ID.String()).Msg("skipping contact in reach-out run")
			continue
		}
		if recent {
			continue
		}

		contactID := contact.ID
		if _, err := s.notificationRepo.CreateNotification(ctx, repository.CreateNotificationRequest{
			UserID:    userID,
			ContactID: &contactID,
			Kind:      NotificationKindReachOut,
			Message:   fmt.Sprintf("It's been a while since you connected with %s. Reach out to keep the relationship warm.", contact.FullName),
		}); err != nil {
			logger.Warn().Err(err).Str("contact_id", contact.ID.String()).Msg("failed to create reach-out notification")
			continue
		}
		created++
	}

	return created, nil
}
