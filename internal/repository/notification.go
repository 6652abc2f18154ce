package repository

import (
	"context"
	"time"

	"circl/backend/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// Notification is a persisted per-user notice, surfaced in the app's inbox
type Notification struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	ContactID *uuid.UUID `json:"contact_id,omitempty"`
	Kind      string     `json:"kind"`
	Message   string     `json:"message"`
	Read      bool       `json:"read"`
	CreatedAt time.Time  `json:"created_at"`
}

// CreateNotificationRequest represents the request to create a notification
type CreateNotificationRequest struct {
	UserID    uuid.UUID
	ContactID *uuid.UUID
	Kind      string
	Message   string
}

type NotificationRepository struct {
	q db.Querier
}

func NewNotificationRepository(q db.Querier) *NotificationRepository {
	return &NotificationRepository{q: q}
}

const notificationColumns = `id, user_id, contact_id, kind, message, read, created_at`

const listNotificationsSQL = `
SELECT ` + notificationColumns + `
FROM notifications
WHERE user_id = $1
ORDER BY read, created_at DESC, id
LIMIT $2 OFFSET $3`

const createNotificationSQL = `
INSERT INTO notifications (id, user_id, contact_id, kind, message)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + notificationColumns

const markNotificationReadSQL = `
UPDATE notifications SET read = true WHERE id = $1 AND user_id = $2`

const hasRecentNotificationSQL = `
SELECT EXISTS (
	SELECT 1 FROM notifications
	WHERE user_id = $1 AND contact_id = $2 AND kind = $3 AND created_at > $4
)`

const reassignNotificationsSQL = `
UPDATE notifications SET contact_id = $2 WHERE contact_id = $1 AND user_id = $3`

func scanNotification(row pgx.Row) (*Notification, error) {
	var (
		id, userID pgtype.UUID
		contactID  pgtype.UUID
		kind       string
		message    string
		read       bool
		createdAt  pgtype.Timestamptz
	)

	if err := row.Scan(&id, &userID, &contactID, &kind, &message, &read, &createdAt); err != nil {
		return nil, err
	}

	n := &Notification{
		ID:        pgUUIDToUUID(id),
		UserID:    pgUUIDToUUID(userID),
		Kind:      kind,
		Message:   message,
		Read:      read,
		CreatedAt: createdAt.Time,
	}
	if contactID.Valid {
		cid := pgUUIDToUUID(contactID)
		n.ContactID = &cid
	}
	return n, nil
}

// ListNotifications returns a page of a user's notifications, unread first
func (r *NotificationRepository) ListNotifications(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]Notification, error) {
	rows, err := r.q.Query(ctx, listNotificationsSQL, uuidToPgUUID(userID), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, *n)
	}
	return notifications, rows.Err()
}

// CreateNotification creates a new notification
func (r *NotificationRepository) CreateNotification(ctx context.Context, req CreateNotificationRequest) (*Notification, error) {
	var contactID pgtype.UUID
	if req.ContactID != nil {
		contactID = uuidToPgUUID(*req.ContactID)
	}

	n, err := scanNotification(r.q.QueryRow(ctx, createNotificationSQL,
		uuidToPgUUID(uuid.New()),
		uuidToPgUUID(req.UserID),
		contactID,
		req.Kind,
		req.Message,
	))
	if err != nil {
		return nil, err
	}
	return n, nil
}

// MarkNotificationRead marks a notification as read
func (r *NotificationRepository) MarkNotificationRead(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.q.Exec(ctx, markNotificationReadSQL, uuidToPgUUID(id), uuidToPgUUID(userID))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// HasRecentNotification reports whether a notification of the given kind was
// already created for the contact after the given time. Used by the scheduled
// job to avoid nagging about the same contact every run.
func (r *NotificationRepository) HasRecentNotification(ctx context.Context, userID, contactID uuid.UUID, kind string, since time.Time) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, hasRecentNotificationSQL,
		uuidToPgUUID(userID), uuidToPgUUID(contactID), kind, timeToPgTimestamptz(&since)).Scan(&exists)
	return exists, err
}

// ReassignNotifications moves every notification referencing fromContactID to
// toContactID. Returns the number of rows moved.
func (r *NotificationRepository) ReassignNotifications(ctx context.Context, fromContactID, toContactID, userID uuid.UUID) (int64, error) {
	tag, err := r.q.Exec(ctx, reassignNotificationsSQL,
		uuidToPgUUID(fromContactID), uuidToPgUUID(toContactID), uuidToPgUUID(userID))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
