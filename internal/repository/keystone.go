package repository

import (
	"context"
	"errors"
	"time"

	"circl/backend/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// Keystone is a dated event tied to a contact (birthday, work anniversary,
// planned catch-up and the like)
type Keystone struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ContactID uuid.UUID `json:"contact_id"`
	Title     string    `json:"title"`
	Date      time.Time `json:"date"`
	Recurring bool      `json:"recurring"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateKeystoneRequest represents the request to create a keystone
type CreateKeystoneRequest struct {
	UserID    uuid.UUID
	ContactID uuid.UUID
	Title     string
	Date      time.Time
	Recurring bool
	Notes     *string
}

// UpdateKeystoneRequest represents the request to update a keystone
type UpdateKeystoneRequest struct {
	Title     string
	Date      time.Time
	Recurring bool
	Notes     *string
}

type KeystoneRepository struct {
	q db.Querier
}

func NewKeystoneRepository(q db.Querier) *KeystoneRepository {
	return &KeystoneRepository{q: q}
}

const keystoneColumns = `id, user_id, contact_id, title, date, recurring, notes, created_at, updated_at`

const getKeystoneSQL = `
SELECT ` + keystoneColumns + `
FROM keystones
WHERE id = $1 AND user_id = $2`

const listKeystonesByUserSQL = `
SELECT ` + keystoneColumns + `
FROM keystones
WHERE user_id = $1
ORDER BY date, id`

const listKeystonesByContactSQL = `
SELECT ` + keystoneColumns + `
FROM keystones
WHERE contact_id = $1 AND user_id = $2
ORDER BY date, id`

const createKeystoneSQL = `
INSERT INTO keystones (id, user_id, contact_id, title, date, recurring, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + keystoneColumns

const updateKeystoneSQL = `
UPDATE keystones
SET title = $3, date = $4, recurring = $5, notes = $6, updated_at = now()
WHERE id = $1 AND user_id = $2
RETURNING ` + keystoneColumns

const deleteKeystoneSQL = `
DELETE FROM keystones WHERE id = $1 AND user_id = $2`

const reassignKeystonesSQL = `
UPDATE keystones SET contact_id = $2, updated_at = now() WHERE contact_id = $1 AND user_id = $3`

func scanKeystone(row pgx.Row) (*Keystone, error) {
	var (
		id, userID, contactID pgtype.UUID
		title                 string
		date                  pgtype.Date
		recurring             bool
		notes                 pgtype.Text
		createdAt, updatedAt  pgtype.Timestamptz
	)

	if err := row.Scan(&id, &userID, &contactID, &title, &date, &recurring, &notes, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	return &Keystone{
		ID:        pgUUIDToUUID(id),
		UserID:    pgUUIDToUUID(userID),
		ContactID: pgUUIDToUUID(contactID),
		Title:     title,
		Date:      date.Time,
		Recurring: recurring,
		Notes:     pgTextToStringPtr(notes),
		CreatedAt: createdAt.Time,
		UpdatedAt: updatedAt.Time,
	}, nil
}

// GetKeystone retrieves a keystone by ID scoped to its owning user
func (r *KeystoneRepository) GetKeystone(ctx context.Context, id, userID uuid.UUID) (*Keystone, error) {
	keystone, err := scanKeystone(r.q.QueryRow(ctx, getKeystoneSQL, uuidToPgUUID(id), uuidToPgUUID(userID)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, err
	}
	return keystone, nil
}

// ListKeystonesByUser returns all keystones for a user ordered by date
func (r *KeystoneRepository) ListKeystonesByUser(ctx context.Context, userID uuid.UUID) ([]Keystone, error) {
	rows, err := r.q.Query(ctx, listKeystonesByUserSQL, uuidToPgUUID(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectKeystones(rows)
}

// ListKeystonesByContact returns a contact's keystones ordered by date
func (r *KeystoneRepository) ListKeystonesByContact(ctx context.Context, contactID, userID uuid.UUID) ([]Keystone, error) {
	rows, err := r.q.Query(ctx, listKeystonesByContactSQL, uuidToPgUUID(contactID), uuidToPgUUID(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectKeystones(rows)
}

func collectKeystones(rows pgx.Rows) ([]Keystone, error) {
	var keystones []Keystone
	for rows.Next() {
		keystone, err := scanKeystone(rows)
		if err != nil {
			return nil, err
		}
		keystones = append(keystones, *keystone)
	}
	return keystones, rows.Err()
}

// CreateKeystone creates a new keystone
func (r *KeystoneRepository) CreateKeystone(ctx context.Context, req CreateKeystoneRequest) (*Keystone, error) {
	keystone, err := scanKeystone(r.q.QueryRow(ctx, createKeystoneSQL,
		uuidToPgUUID(uuid.New()),
		uuidToPgUUID(req.UserID),
		uuidToPgUUID(req.ContactID),
		req.Title,
		timeToPgDate(&req.Date),
		req.Recurring,
		stringToPgText(req.Notes),
	))
	if err != nil {
		return nil, err
	}
	return keystone, nil
}

// UpdateKeystone updates an existing keystone
func (r *KeystoneRepository) UpdateKeystone(ctx context.Context, id, userID uuid.UUID, req UpdateKeystoneRequest) (*Keystone, error) {
	keystone, err := scanKeystone(r.q.QueryRow(ctx, updateKeystoneSQL,
		uuidToPgUUID(id),
		uuidToPgUUID(userID),
		req.Title,
		timeToPgDate(&req.Date),
		req.Recurring,
		stringToPgText(req.Notes),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, err
	}
	return keystone, nil
}

// DeleteKeystone deletes a keystone
func (r *KeystoneRepository) DeleteKeystone(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.q.Exec(ctx, deleteKeystoneSQL, uuidToPgUUID(id), uuidToPgUUID(userID))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// ReassignKeystones moves every keystone referencing fromContactID to
// toContactID. Returns the number of rows moved.
func (r *KeystoneRepository) ReassignKeystones(ctx context.Context, fromContactID, toContactID, userID uuid.UUID) (int64, error) {
	tag, err := r.q.Exec(ctx, reassignKeystonesSQL,
		uuidToPgUUID(fromContactID), uuidToPgUUID(toContactID), uuidToPgUUID(userID))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
