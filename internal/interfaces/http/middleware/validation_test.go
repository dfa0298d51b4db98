package middleware

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storeadmin/backend/internal/interfaces/http/dto"
)

func TestFormatValidationErrors_FieldDetail(t *testing.T) {
	SetupValidator()
	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)

	err := v.Struct(dto.ListRequest{Page: 1, PageSize: 5000})
	require.Error(t, err)

	resp := FormatValidationErrors(err, "req-77")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "Request validation failed", resp.Error.Message)
	assert.Equal(t, "req-77", resp.Error.RequestID)
	require.Len(t, resp.Error.Details, 1)

	// Field names come from the form tag, not the Go field name.
	assert.Equal(t, "page_size", resp.Error.Details[0].Field)
	assert.Equal(t, "Must be at most 100", resp.Error.Details[0].Message)
}

func TestFormatValidationErrors_MessagePerTag(t *testing.T) {
	SetupValidator()
	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)

	err := v.Struct(dto.ActivityListRequest{Type: "teleport"})
	require.Error(t, err)

	resp := FormatValidationErrors(err, "")
	require.NotNil(t, resp.Error)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "type", resp.Error.Details[0].Field)
	assert.Contains(t, resp.Error.Details[0].Message, "Must be one of:")
}

func TestFormatValidationErrors_NonValidatorError(t *testing.T) {
	resp := FormatValidationErrors(assert.AnError, "req-77")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Request validation failed", resp.Error.Message)
	assert.Empty(t, resp.Error.Details)
}
