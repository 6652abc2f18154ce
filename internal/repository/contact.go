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

// Circle classifies how close a contact is to the user.
type Circle string

const (
	CircleInner  Circle = "inner"
	CircleMiddle Circle = "middle"
	CircleOuter  Circle = "outer"
)

// Valid reports whether the circle is one of the three known values.
func (c Circle) Valid() bool {
	switch c {
	case CircleInner, CircleMiddle, CircleOuter:
		return true
	}
	return false
}

// Contact represents a contact entity owned by a single user
type Contact struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	FullName      string     `json:"full_name"`
	Email         *string    `json:"email,omitempty"`
	Phone         *string    `json:"phone,omitempty"`
	Company       *string    `json:"company,omitempty"`
	JobTitle      *string    `json:"job_title,omitempty"`
	Industry      *string    `json:"industry,omitempty"`
	LinkedIn      *string    `json:"linkedin,omitempty"`
	Twitter       *string    `json:"twitter,omitempty"`
	Location      *string    `json:"location,omitempty"`
	University    *string    `json:"university,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	Circle        Circle     `json:"circle"`
	LastContacted *time.Time `json:"last_contacted,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// CreateContactRequest represents the request to create a contact
type CreateContactRequest struct {
	UserID        uuid.UUID
	FullName      string
	Email         *string
	Phone         *string
	Company       *string
	JobTitle      *string
	Industry      *string
	LinkedIn      *string
	Twitter       *string
	Location      *string
	University    *string
	Notes         *string
	Tags          []string
	Circle        Circle
	LastContacted *time.Time
}

// UpdateContactRequest represents the request to update a contact
type UpdateContactRequest struct {
	FullName   string
	Email      *string
	Phone      *string
	Company    *string
	JobTitle   *string
	Industry   *string
	LinkedIn   *string
	Twitter    *string
	Location   *string
	University *string
	Notes      *string
	Tags       []string
	Circle     Circle
}

// ListContactsParams represents parameters for listing contacts
type ListContactsParams struct {
	UserID uuid.UUID
	Limit  int32
	Offset int32
}

// SearchContactsParams represents parameters for searching contacts
type SearchContactsParams struct {
	UserID uuid.UUID
	Query  string
	Limit  int32
	Offset int32
}

type ContactRepository struct {
	q db.Querier
}

func NewContactRepository(q db.Querier) *ContactRepository {
	return &ContactRepository{q: q}
}

const contactColumns = `id, user_id, full_name, email, phone, company, job_title, industry,
	linkedin, twitter, location, university, notes, tags, circle, last_contacted,
	created_at, updated_at`

const getContactSQL = `
SELECT ` + contactColumns + `
FROM contacts
WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`

const getContactForUpdateSQL = getContactSQL + `
FOR UPDATE`

const getContactByIDForUpdateSQL = `
SELECT ` + contactColumns + `
FROM contacts
WHERE id = $1 AND deleted_at IS NULL
FOR UPDATE`

const listOwnerIDsSQL = `
SELECT DISTINCT user_id FROM contacts WHERE deleted_at IS NULL`

const listContactsSQL = `
SELECT ` + contactColumns + `
FROM contacts
WHERE user_id = $1 AND deleted_at IS NULL
ORDER BY created_at, id
LIMIT $2 OFFSET $3`

const searchContactsSQL = `
SELECT ` + contactColumns + `
FROM contacts
WHERE user_id = $1
  AND deleted_at IS NULL
  AND (full_name ILIKE '%' || $2 || '%'
       OR email ILIKE '%' || $2 || '%'
       OR company ILIKE '%' || $2 || '%')
ORDER BY created_at, id
LIMIT $3 OFFSET $4`

const createContactSQL = `
INSERT INTO contacts (id, user_id, full_name, email, phone, company, job_title, industry,
	linkedin, twitter, location, university, notes, tags, circle, last_contacted)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
RETURNING ` + contactColumns

const updateContactSQL = `
UPDATE contacts
SET full_name = $3, email = $4, phone = $5, company = $6, job_title = $7, industry = $8,
	linkedin = $9, twitter = $10, location = $11, university = $12, notes = $13,
	tags = $14, circle = $15, updated_at = now()
WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
RETURNING ` + contactColumns

const updateLastContactedSQL = `
UPDATE contacts
SET last_contacted = $3, updated_at = now()
WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`

const softDeleteContactSQL = `
UPDATE contacts
SET deleted_at = now(), updated_at = now()
WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`

const hardDeleteContactSQL = `
DELETE FROM contacts
WHERE id = $1 AND user_id = $2`

const countContactsSQL = `
SELECT count(*) FROM contacts WHERE user_id = $1 AND deleted_at IS NULL`

func scanContact(row pgx.Row) (*Contact, error) {
	var (
		id, userID    pgtype.UUID
		fullName      string
		email         pgtype.Text
		phone         pgtype.Text
		company       pgtype.Text
		jobTitle      pgtype.Text
		industry      pgtype.Text
		linkedin      pgtype.Text
		twitter       pgtype.Text
		location      pgtype.Text
		university    pgtype.Text
		notes         pgtype.Text
		tags          []string
		circle        string
		lastContacted pgtype.Timestamptz
		createdAt     pgtype.Timestamptz
		updatedAt     pgtype.Timestamptz
	)

	err := row.Scan(&id, &userID, &fullName, &email, &phone, &company, &jobTitle, &industry,
		&linkedin, &twitter, &location, &university, &notes, &tags, &circle, &lastContacted,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	return &Contact{
		ID:            pgUUIDToUUID(id),
		UserID:        pgUUIDToUUID(userID),
		FullName:      fullName,
		Email:         pgTextToStringPtr(email),
		Phone:         pgTextToStringPtr(phone),
		Company:       pgTextToStringPtr(company),
		JobTitle:      pgTextToStringPtr(jobTitle),
		Industry:      pgTextToStringPtr(industry),
		LinkedIn:      pgTextToStringPtr(linkedin),
		Twitter:       pgTextToStringPtr(twitter),
		Location:      pgTextToStringPtr(location),
		University:    pgTextToStringPtr(university),
		Notes:         pgTextToStringPtr(notes),
		Tags:          tags,
		Circle:        Circle(circle),
		LastContacted: pgTimestamptzToTimePtr(lastContacted),
		CreatedAt:     createdAt.Time,
		UpdatedAt:     updatedAt.Time,
	}, nil
}

// GetContact retrieves a contact by ID scoped to its owning user
func (r *ContactRepository) GetContact(ctx context.Context, id, userID uuid.UUID) (*Contact, error) {
	contact, err := scanContact(r.q.QueryRow(ctx, getContactSQL, uuidToPgUUID(id), uuidToPgUUID(userID)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, err
	}
	return contact, nil
}

// GetContactForUpdate retrieves a contact and row-locks it for the duration of
// the surrounding transaction. Used by merge to serialize concurrent merges on
// the same contact ids.
func (r *ContactRepository) GetContactForUpdate(ctx context.Context, id, userID uuid.UUID) (*Contact, error) {
	contact, err := scanContact(r.q.QueryRow(ctx, getContactForUpdateSQL, uuidToPgUUID(id), uuidToPgUUID(userID)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, err
	}
	return contact, nil
}

// GetContactByIDForUpdate retrieves and row-locks a contact regardless of
// owner. Merge uses it so a cross-owner id can be told apart from a missing
// one; callers must check UserID themselves.
func (r *ContactRepository) GetContactByIDForUpdate(ctx context.Context, id uuid.UUID) (*Contact, error) {
	contact, err := scanContact(r.q.QueryRow(ctx, getContactByIDForUpdateSQL, uuidToPgUUID(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, err
	}
	return contact, nil
}

// ListOwnerIDs returns the distinct user ids that own at least one active
// contact. The notification job iterates these.
func (r *ContactRepository) ListOwnerIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.q.Query(ctx, listOwnerIDsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var owners []uuid.UUID
	for rows.Next() {
		var id pgtype.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		owners = append(owners, pgUUIDToUUID(id))
	}
	return owners, rows.Err()
}

// ListContacts retrieves a paginated list of a user's contacts in creation order
func (r *ContactRepository) ListContacts(ctx context.Context, params ListContactsParams) ([]Contact, error) {
	rows, err := r.q.Query(ctx, listContactsSQL, uuidToPgUUID(params.UserID), params.Limit, params.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectContacts(rows)
}

// SearchContacts searches a user's contacts by name, email or company
func (r *ContactRepository) SearchContacts(ctx context.Context, params SearchContactsParams) ([]Contact, error) {
	rows, err := r.q.Query(ctx, searchContactsSQL,
		uuidToPgUUID(params.UserID), params.Query, params.Limit, params.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectContacts(rows)
}

func collectContacts(rows pgx.Rows) ([]Contact, error) {
	var contacts []Contact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, *contact)
	}
	return contacts, rows.Err()
}

// CreateContact creates a new contact
func (r *ContactRepository) CreateContact(ctx context.Context, req CreateContactRequest) (*Contact, error) {
	contact, err := scanContact(r.q.QueryRow(ctx, createContactSQL,
		uuidToPgUUID(uuid.New()),
		uuidToPgUUID(req.UserID),
		req.FullName,
		stringToPgText(req.Email),
		stringToPgText(req.Phone),
		stringToPgText(req.Company),
		stringToPgText(req.JobTitle),
		stringToPgText(req.Industry),
		stringToPgText(req.LinkedIn),
		stringToPgText(req.Twitter),
		stringToPgText(req.Location),
		stringToPgText(req.University),
		stringToPgText(req.Notes),
		req.Tags,
		string(req.Circle),
		timeToPgTimestamptz(req.LastContacted),
	))
	if err != nil {
		return nil, err
	}
	return contact, nil
}

// UpdateContact updates an existing contact
func (r *ContactRepository) UpdateContact(ctx context.Context, id, userID uuid.UUID, req UpdateContactRequest) (*Contact, error) {
	contact, err := scanContact(r.q.QueryRow(ctx, updateContactSQL,
		uuidToPgUUID(id),
		uuidToPgUUID(userID),
		req.FullName,
		stringToPgText(req.Email),
		stringToPgText(req.Phone),
		stringToPgText(req.Company),
		stringToPgText(req.JobTitle),
		stringToPgText(req.Industry),
		stringToPgText(req.LinkedIn),
		stringToPgText(req.Twitter),
		stringToPgText(req.Location),
		stringToPgText(req.University),
		stringToPgText(req.Notes),
		req.Tags,
		string(req.Circle),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, err
	}
	return contact, nil
}

// UpdateContactLastContacted updates the last contacted date for a contact
func (r *ContactRepository) UpdateContactLastContacted(ctx context.Context, id, userID uuid.UUID, lastContacted time.Time) error {
	tag, err := r.q.Exec(ctx, updateLastContactedSQL,
		uuidToPgUUID(id), uuidToPgUUID(userID), timeToPgTimestamptz(&lastContacted))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// SoftDeleteContact soft deletes a contact
func (r *ContactRepository) SoftDeleteContact(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.q.Exec(ctx, softDeleteContactSQL, uuidToPgUUID(id), uuidToPgUUID(userID))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// HardDeleteContact permanently deletes a contact. Used by merge after
// dependent records have been reassigned to the surviving contact.
func (r *ContactRepository) HardDeleteContact(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.q.Exec(ctx, hardDeleteContactSQL, uuidToPgUUID(id), uuidToPgUUID(userID))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// CountContacts returns the total number of active contacts for a user
func (r *ContactRepository) CountContacts(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.q.QueryRow(ctx, countContactsSQL, uuidToPgUUID(userID)).Scan(&count)
	return count, err
}
