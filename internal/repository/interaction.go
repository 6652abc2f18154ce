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

// Interaction is a timestamped event logged against exactly one contact
type Interaction struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	ContactID  uuid.UUID  `json:"contact_id"`
	Kind       string     `json:"kind"`
	Notes      *string    `json:"notes,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

// CreateInteractionRequest represents the request to create an interaction
type CreateInteractionRequest struct {
	UserID     uuid.UUID
	ContactID  uuid.UUID
	Kind       string
	Notes      *string
	OccurredAt time.Time
}

type InteractionRepository struct {
	q db.Querier
}

func NewInteractionRepository(q db.Querier) *InteractionRepository {
	return &InteractionRepository{q: q}
}

const interactionColumns = `id, user_id, contact_id, kind, notes, occurred_at, created_at`

const getInteractionSQL = `
SELECT ` + interactionColumns + `
FROM interactions
WHERE id = $1 AND user_id = $2`

const listInteractionsByContactSQL = `
SELECT ` + interactionColumns + `
FROM interactions
WHERE contact_id = $1 AND user_id = $2
ORDER BY occurred_at DESC, id`

const createInteractionSQL = `
INSERT INTO interactions (id, user_id, contact_id, kind, notes, occurred_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + interactionColumns

const deleteInteractionSQL = `
DELETE FROM interactions WHERE id = $1 AND user_id = $2`

const countInteractionsByContactSQL = `
SELECT count(*) FROM interactions WHERE contact_id = $1 AND user_id = $2`

const reassignInteractionsSQL = `
UPDATE interactions SET contact_id = $2 WHERE contact_id = $1 AND user_id = $3`

func scanInteraction(row pgx.Row) (*Interaction, error) {
	var (
		id, userID, contactID pgtype.UUID
		kind                  string
		notes                 pgtype.Text
		occurredAt, createdAt pgtype.Timestamptz
	)

	if err := row.Scan(&id, &userID, &contactID, &kind, &notes, &occurredAt, &createdAt); err != nil {
		return nil, err
	}

	return &Interaction{
		ID:         pgUUIDToUUID(id),
		UserID:     pgUUIDToUUID(userID),
		ContactID:  pgUUIDToUUID(contactID),
		Kind:       kind,
		Notes:      pgTextToStringPtr(notes),
		OccurredAt: occurredAt.Time,
		CreatedAt:  createdAt.Time,
	}, nil
}

// GetInteraction retrieves an interaction by ID scoped to its owning user
func (r *InteractionRepository) GetInteraction(ctx context.Context, id, userID uuid.UUID) (*Interaction, error) {
	interaction, err := scanInteraction(r.q.QueryRow(ctx, getInteractionSQL, uuidToPgUUID(id), uuidToPgUUID(userID)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, err
	}
	return interaction, nil
}

// ListInteractionsByContact returns a contact's interactions, most recent first
func (r *InteractionRepository) ListInteractionsByContact(ctx context.Context, contactID, userID uuid.UUID) ([]Interaction, error) {
	rows, err := r.q.Query(ctx, listInteractionsByContactSQL, uuidToPgUUID(contactID), uuidToPgUUID(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var interactions []Interaction
	for rows.Next() {
		interaction, err := scanInteraction(rows)
		if err != nil {
			return nil, err
		}
		interactions = append(interactions, *interaction)
	}
	return interactions, rows.Err()
}

// CreateInteraction creates a new interaction
func (r *InteractionRepository) CreateInteraction(ctx context.Context, req CreateInteractionRequest) (*Interaction, error) {
	interaction, err := scanInteraction(r.q.QueryRow(ctx, createInteractionSQL,
		uuidToPgUUID(uuid.New()),
		uuidToPgUUID(req.UserID),
		uuidToPgUUID(req.ContactID),
		req.Kind,
		stringToPgText(req.Notes),
		timeToPgTimestamptz(&req.OccurredAt),
	))
	if err != nil {
		return nil, err
	}
	return interaction, nil
}

// DeleteInteraction deletes an interaction
func (r *InteractionRepository) DeleteInteraction(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.q.Exec(ctx, deleteInteractionSQL, uuidToPgUUID(id), uuidToPgUUID(userID))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// CountInteractionsByContact returns the number of interactions logged for a contact
func (r *InteractionRepository) CountInteractionsByContact(ctx context.Context, contactID, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.q.QueryRow(ctx, countInteractionsByContactSQL, uuidToPgUUID(contactID), uuidToPgUUID(userID)).Scan(&count)
	return count, err
}

// ReassignInteractions moves every interaction referencing fromContactID to
// toContactID. Returns the number of rows moved.
func (r *InteractionRepository) ReassignInteractions(ctx context.Context, fromContactID, toContactID, userID uuid.UUID) (int64, error) {
	tag, err := r.q.Exec(ctx, reassignInteractionsSQL,
		uuidToPgUUID(fromContactID), uuidToPgUUID(toContactID), uuidToPgUUID(userID))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
