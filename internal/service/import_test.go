package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"circl/backend/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeContactCreator struct {
	created []repository.CreateContactRequest
	failOn  map[string]error
}

func (f *fakeContactCreator) CreateContact(ctx context.Context, req repository.CreateContactRequest) (*repository.Contact, error) {
	if err, ok := f.failOn[req.FullName]; ok {
		return nil, err
	}
	f.created = append(f.created, req)
	return &repository.Contact{ID: uuid.New(), UserID: req.UserID, FullName: req.FullName}, nil
}

func TestImportContactsCSV_HappyPath(t *testing.T) {
	csvData := strings.Join([]string{
		"full_name,email,phone,company,circle,tags",
		"Jon Smith,jon@x.com,555-1234,Acme,inner,mentor;golang",
		"Alice Liddell,alice@wonderland.example,,,outer,",
	}, "\n")

	repo := &fakeContactCreator{}
	svc := NewImportService(repo)
	userID := uuid.New()

	summary, err := svc.ImportContactsCSV(context.Background(), userID, strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Imported)
	assert.Equal(t, 0, summary.Skipped)
	require.Len(t, repo.created, 2)

	first := repo.created[0]
	assert.Equal(t, userID, first.UserID)
	assert.Equal(t, "Jon Smith", first.FullName)
	assert.Equal(t, "jon@x.com", *first.Email)
	assert.Equal(t, repository.CircleInner, first.Circle)
	assert.Equal(t, []string{"mentor", "golang"}, first.Tags)

	second := repo.created[1]
	assert.Nil(t, second.Email)
	assert.Equal(t, repository.CircleOuter, second.Circle)
	assert.Nil(t, second.Tags)
}

func TestImportContactsCSV_BadRowsSkippedNotFatal(t *testing.T) {
	csvData := strings.Join([]string{
		"full_name,circle",
		"Jon Smith,inner",
		",middle",
		"Bad Circle,bestie",
		"Alice Liddell,outer",
	}, "\n")

	svc := NewImportService(&fakeContactCreator{})

	summary, err := svc.ImportContactsCSV(context.Background(), uuid.New(), strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Imported)
	assert.Equal(t, 2, summary.Skipped)
	require.Len(t, summary.Failures, 2)
	assert.Equal(t, 3, summary.Failures[0].Row)
	assert.Equal(t, 4, summary.Failures[1].Row)
	assert.Contains(t, summary.Failures[1].Reason, "bestie")
}

func TestImportContactsCSV_StoreFailureSkipsRow(t *testing.T) {
	csvData := strings.Join([]string{
		"full_name",
		"Jon Smith",
		"Alice Liddell",
	}, "\n")

	repo := &fakeContactCreator{failOn: map[string]error{"Jon Smith": errors.New("connection reset")}}
	svc := NewImportService(repo)

	summary, err := svc.ImportContactsCSV(context.Background(), uuid.New(), strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Imported)
	assert.Equal(t, 1, summary.Skipped)
	require.Len(t, summary.Failures, 1)
	// Store errors are not echoed back to the client verbatim.
	assert.Equal(t, "could not save contact", summary.Failures[0].Reason)
}

func TestImportContactsCSV_MissingNameColumn(t *testing.T) {
	svc := NewImportService(&fakeContactCreator{})

	_, err := svc.ImportContactsCSV(context.Background(), uuid.New(), strings.NewReader("email\njon@x.com\n"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "full_name")
}

func TestImportContactsCSV_HeaderCaseInsensitive(t *testing.T) {
	repo := &fakeContactCreator{}
	svc := NewImportService(repo)

	summary, err := svc.ImportContactsCSV(context.Background(), uuid.New(),
		strings.NewReader("Full_Name,EMAIL\nJon Smith,jon@x.com\n"))
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Imported)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "jon@x.com", *repo.created[0].Email)
}
