package repository

import (
	"context"
	"time"

	"circl/backend/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// Media is an attachment record (photo, document, voice note) keyed to a contact.
// The bytes live in object storage; only the reference is tracked here.
type Media struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ContactID uuid.UUID `json:"contact_id"`
	URL       string    `json:"url"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateMediaRequest represents the request to create a media record
type CreateMediaRequest struct {
	UserID    uuid.UUID
	ContactID uuid.UUID
	URL       string
	Kind      string
}

type MediaRepository struct {
	q db.Querier
}

func NewMediaRepository(q db.Querier) *MediaRepository {
	return &MediaRepository{q: q}
}

const mediaColumns = `id, user_id, contact_id, url, kind, created_at`

const listMediaByContactSQL = `
SELECT ` + mediaColumns + `
FROM media
WHERE contact_id = $1 AND user_id = $2
ORDER BY created_at DESC, id`

const createMediaSQL = `
INSERT INTO media (id, user_id, contact_id, url, kind)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + mediaColumns

const deleteMediaSQL = `
DELETE FROM media WHERE id = $1 AND user_id = $2`

const reassignMediaSQL = `
UPDATE media SET contact_id = $2 WHERE contact_id = $1 AND user_id = $3`

func scanMedia(row pgx.Row) (*Media, error) {
	var (
		id, userID, contactID pgtype.UUID
		url, kind             string
		createdAt             pgtype.Timestamptz
	)

	if err := row.Scan(&id, &userID, &contactID, &url, &kind, &createdAt); err != nil {
		return nil, err
	}

	return &Media{
		ID:        pgUUIDToUUID(id),
		UserID:    pgUUIDToUUID(userID),
		ContactID: pgUUIDToUUID(contactID),
		URL:       url,
		Kind:      kind,
		CreatedAt: createdAt.Time,
	}, nil
}

// ListMediaByContact returns a contact's media records, most recent first
func (r *MediaRepository) ListMediaByContact(ctx context.Context, contactID, userID uuid.UUID) ([]Media, error) {
	rows, err := r.q.Query(ctx, listMediaByContactSQL, uuidToPgUUID(contactID), uuidToPgUUID(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var media []Media
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		media = append(media, *m)
	}
	return media, rows.Err()
}

// CreateMedia creates a new media record
func (r *MediaRepository) CreateMedia(ctx context.Context, req CreateMediaRequest) (*Media, error) {
	m, err := scanMedia(r.q.QueryRow(ctx, createMediaSQL,
		uuidToPgUUID(uuid.New()),
		uuidToPgUUID(req.UserID),
		uuidToPgUUID(req.ContactID),
		req.URL,
		req.Kind,
	))
	if err != nil {
		return nil, err
	}
	return m, nil
}

// DeleteMedia deletes a media record
func (r *MediaRepository) DeleteMedia(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.q.Exec(ctx, deleteMediaSQL, uuidToPgUUID(id), uuidToPgUUID(userID))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// ReassignMedia moves every media record referencing fromContactID to
// toContactID. Returns the number of rows moved.
func (r *MediaRepository) ReassignMedia(ctx context.Context, fromContactID, toContactID, userID uuid.UUID) (int64, error) {
	tag, err := r.q.Exec(ctx, reassignMediaSQL,
		uuidToPgUUID(fromContactID), uuidToPgUUID(toContactID), uuidToPgUUID(userID))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
