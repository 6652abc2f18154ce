package handlers

import (
	"testing"

	"circl/backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestCreateContactRequestValidation(t *testing.T) {
	validate := validator.New()

	tests := []struct {
		name    string
		req     CreateContactRequest
		wantErr bool
	}{
		{
			name: "minimal valid request",
			req:  CreateContactRequest{FullName: "Jane Doe"},
		},
		{
			name: "full valid request",
			req: CreateContactRequest{
				FullName: "Jane Doe",
				Email:    strPtr("jane@example.com"),
				Circle:   "inner",
				Tags:     []string{"mentor"},
			},
		},
		{
			name:    "missing name",
			req:     CreateContactRequest{Email: strPtr("jane@example.com")},
			wantErr: true,
		},
		{
			name:    "invalid email",
			req:     CreateContactRequest{FullName: "Jane Doe", Email: strPtr("not-an-email")},
			wantErr: true,
		},
		{
			name:    "unknown circle",
			req:     CreateContactRequest{FullName: "Jane Doe", Circle: "bestie"},
			wantErr: true,
		},
		{
			name:    "empty tag",
			req:     CreateContactRequest{FullName: "Jane Doe", Tags: []string{""}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUpdateContactRequestRequiresCircle(t *testing.T) {
	validate := validator.New()

	err := validate.Struct(UpdateContactRequest{FullName: "Jane Doe"})
	assert.Error(t, err)

	err = validate.Struct(UpdateContactRequest{FullName: "Jane Doe", Circle: "outer"})
	assert.NoError(t, err)
}

func TestCreateRequestToRepoCarriesUserID(t *testing.T) {
	userID := uuid.New()
	repoReq := createRequestToRepo(userID, CreateContactRequest{
		FullName: "Jane Doe",
		Email:    strPtr("jane@example.com"),
		Circle:   "inner",
		Tags:     []string{"mentor", "golang"},
	})

	assert.Equal(t, userID, repoReq.UserID)
	assert.Equal(t, "Jane Doe", repoReq.FullName)
	assert.Equal(t, repository.CircleInner, repoReq.Circle)
	assert.Equal(t, []string{"mentor", "golang"}, repoReq.Tags)
}
