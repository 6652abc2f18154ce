package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"circl/backend/internal/logger"
	"circl/backend/internal/repository"

	"github.com/google/uuid"
)

// ImportFailure records one skipped CSV row and why it was skipped.
type ImportFailure struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportSummary is the outcome of a CSV import. Failed rows are skipped, not
// fatal; every other row still imports.
type ImportSummary struct {
	Imported int             `json:"imported"`
	Skipped  int             `json:"skipped"`
	Failures []ImportFailure `json:"failures,omitempty"`
}

type contactCreator interface {
	CreateContact(ctx context.Context, req repository.CreateContactRequest) (*repository.Contact, error)
}

type ImportService struct {
	contactRepo contactCreator
}

func NewImportService(contactRepo contactCreator) *ImportService {
	return &ImportService{contactRepo: contactRepo}
}

// importColumns maps recognized CSV header names to contact fields. Headers
// are matched case-insensitively; unrecognized columns are ignored.
var importColumns = map[string]struct{}{
	"full_name": {}, "email": {}, "phone": {}, "company": {}, "job_title": {},
	"industry": {}, "linkedin": {}, "twitter": {}, "location": {},
	"university": {}, "notes": {}, "circle": {}, "tags": {},
}

// ImportContactsCSV reads a CSV with a header row and inserts one contact per
// data row. Rows that fail validation or insertion are recorded and skipped;
// the import continues with the next row.
func (s *ImportService) ImportContactsCSV(ctx context.Context, userID uuid.UUID, r io.Reader) (*ImportSummary, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if _, ok := importColumns[name]; ok {
			index[name] = i
		}
	}
	if _, ok := index["full_name"]; !ok {
		return nil, fmt.Errorf("CSV is missing the required full_name column")
	}

	summary := &ImportSummary{}
	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			summary.Skipped++
			summary.Failures = append(summary.Failures, ImportFailure{Row: row, Reason: err.Error()})
			continue
		}

		req, err := importRowToRequest(userID, index, record)
		if err != nil {
			summary.Skipped++
			summary.Failures = append(summary.Failures, ImportFailure{Row: row, Reason: err.Error()})
			continue
		}

		if _, err := s.contactRepo.CreateContact(ctx, *req); err != nil {
			logger.Warn().Err(err).Int("row", row).Msg("failed to import contact row")
			summary.Skipped++
			summary.Failures = append(summary.Failures, ImportFailure{Row: row, Reason: "could not save contact"})
			continue
		}
		summary.Imported++
	}

	logger.Info().
		Int("imported", summary.Imported).
		Int("skipped", summary.Skipped).
		Msg("contact CSV import finished")

	return summary, nil
}

func importRowToRequest(userID uuid.UUID, index map[string]int, record []string) (*repository.CreateContactRequest, error) {
	field := func(name string) *string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return nil
		}
		v := strings.TrimSpace(record[i])
		if v == "" {
			return nil
		}
		return &v
	}

	name := field("full_name")
	if name == nil {
		return nil, fmt.Errorf("full_name is required")
	}

	circle := repository.CircleMiddle
	if c := field("circle"); c != nil {
		circle = repository.Circle(strings.ToLower(*c))
		if !circle.Valid() {
			return nil, fmt.Errorf("invalid circle %q", *c)
		}
	}

	var tags []string
	if t := field("tags"); t != nil {
		for _, tag := range strings.Split(*t, ";") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}

	return &repository.CreateContactRequest{
		UserID:     userID,
		FullName:   *name,
		Email:      field("email"),
		Phone:      field("phone"),
		Company:    field("company"),
		JobTitle:   field("job_title"),
		Industry:   field("industry"),
		LinkedIn:   field("linkedin"),
		Twitter:    field("twitter"),
		Location:   field("location"),
		University: field("university"),
		Notes:      field("notes"),
		Tags:       tags,
		Circle:     circle,
	}, nil
}
