package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"circl/backend/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeContactReader struct {
	owners   []uuid.UUID
	contacts map[uuid.UUID][]repository.Contact
}

func (f *fakeContactReader) ListOwnerIDs(ctx context.Context) ([]uuid.UUID, error) {
	return f.owners, nil
}

func (f *fakeContactReader) ListContacts(ctx context.Context, params repository.ListContactsParams) ([]repository.Contact, error) {
	all := f.contacts[params.UserID]
	if params.Offset >= int32(len(all)) {
		return nil, nil
	}
	end := params.Offset + params.Limit
	if end > int32(len(all)) {
		end = int32(len(all))
	}
	return all[params.Offset:end], nil
}

type fakeInteractionReader struct {
	byContact map[uuid.UUID][]repository.Interaction
	err       error
}

func (f *fakeInteractionReader) ListInteractionsByContact(ctx context.Context, contactID, userID uuid.UUID) ([]repository.Interaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byContact[contactID], nil
}

type fakeNotificationStore struct {
	created []repository.CreateNotificationRequest
	recent  map[uuid.UUID]bool
}

func (f *fakeNotificationStore) ListNotifications(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]repository.Notification, error) {
	return nil, nil
}

func (f *fakeNotificationStore) CreateNotification(ctx context.Context, req repository.CreateNotificationRequest) (*repository.Notification, error) {
	f.created = append(f.created, req)
	return &repository.Notification{ID: uuid.New(), UserID: req.UserID, Kind: req.Kind, Message: req.Message}, nil
}

func (f *fakeNotificationStore) MarkNotificationRead(ctx context.Context, id, userID uuid.UUID) error {
	return nil
}

func (f *fakeNotificationStore) HasRecentNotification(ctx context.Context, userID, contactID uuid.UUID, kind string, since time.Time) (bool, error) {
	return f.recent[contactID], nil
}

func TestGenerateReachOutNotifications_WeakContactsOnly(t *testing.T) {
	userID := uuid.New()
	now := time.Now()

	weak := repository.Contact{ID: uuid.New(), UserID: userID, FullName: "Alice Liddell", Circle: repository.CircleOuter}
	strong := repository.Contact{ID: uuid.New(), UserID: userID, FullName: "Jon Smith", Circle: repository.CircleInner}

	contacts := &fakeContactReader{
		owners:   []uuid.UUID{userID},
		contacts: map[uuid.UUID][]repository.Contact{userID: {weak, strong}},
	}
	interactions := &fakeInteractionReader{
		byContact: map[uuid.UUID][]repository.Interaction{
			strong.ID: {{ID: uuid.New(), ContactID: strong.ID, Kind: "call", OccurredAt: now.Add(-24 * time.Hour)}},
		},
	}
	store := &fakeNotificationStore{}

	svc := NewNotificationService(contacts, interactions, store)
	require.NoError(t, svc.GenerateReachOutNotifications(context.Background()))

	require.Len(t, store.created, 1)
	assert.Equal(t, NotificationKindReachOut, store.created[0].Kind)
	assert.Equal(t, weak.ID, *store.created[0].ContactID)
	assert.Contains(t, store.created[0].Message, "Alice Liddell")
}

func TestGenerateReachOutNotifications_CooldownSuppressesRepeats(t *testing.T) {
	userID := uuid.New()
	weak := repository.Contact{ID: uuid.New(), UserID: userID, FullName: "Alice Liddell", Circle: repository.CircleOuter}

	contacts := &fakeContactReader{
		owners:   []uuid.UUID{userID},
		contacts: map[uuid.UUID][]repository.Contact{userID: {weak}},
	}
	store := &fakeNotificationStore{recent: map[uuid.UUID]bool{weak.ID: true}}

	svc := NewNotificationService(contacts, &fakeInteractionReader{}, store)
	require.NoError(t, svc.GenerateReachOutNotifications(context.Background()))

	assert.Empty(t, store.created)
}

func TestGenerateReachOutNotifications_PerContactFailureDoesNotAbortRun(t *testing.T) {
	userID := uuid.New()
	weak := repository.Contact{ID: uuid.New(), UserID: userID, FullName: "Alice Liddell", Circle: repository.CircleOuter}

	contacts := &fakeContactReader{
		owners:   []uuid.UUID{userID},
		contacts: map[uuid.UUID][]repository.Contact{userID: {weak}},
	}
	interactions := &fakeInteractionReader{err: errors.New("connection reset")}
	store := &fakeNotificationStore{}

	svc := NewNotificationService(contacts, interactions, store)
	assert.NoError(t, svc.GenerateReachOutNotifications(context.Background()))
	assert.Empty(t, store.created)
}

func TestGenerateReachOutNotifications_CoversEveryPage(t *testing.T) {
	userID := uuid.New()

	all := make([]repository.Contact, scanPageSize+1)
	for i := range all {
		all[i] = repository.Contact{ID: uuid.New(), UserID: userID, FullName: "Alice Liddell", Circle: repository.CircleOuter}
	}

	contacts := &fakeContactReader{
		owners:   []uuid.UUID{userID},
		contacts: map[uuid.UUID][]repository.Contact{userID: all},
	}
	store := &fakeNotificationStore{}

	svc := NewNotificationService(contacts, &fakeInteractionReader{}, store)
	require.NoError(t, svc.GenerateReachOutNotifications(context.Background()))

	assert.Len(t, store.created, len(all))
}

func TestPartialReassignmentErrorMessage(t *testing.T) {
	err := &PartialReassignmentError{Failed: []string{"interactions", "media"}}
	assert.Equal(t, "merge aborted: failed to reassign interactions, media", err.Error())
}
