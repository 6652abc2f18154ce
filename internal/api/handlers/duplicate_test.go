package handlers

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestMergeRequestValidation(t *testing.T) {
	validate := validator.New()

	valid := MergeRequest{
		PrimaryID:   uuid.New().String(),
		SecondaryID: uuid.New().String(),
	}
	assert.NoError(t, validate.Struct(valid))

	assert.Error(t, validate.Struct(MergeRequest{PrimaryID: uuid.New().String()}))
	assert.Error(t, validate.Struct(MergeRequest{
		PrimaryID:   "not-a-uuid",
		SecondaryID: uuid.New().String(),
	}))
}
