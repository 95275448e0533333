package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkoutRequest struct {
	ProductIDs []string `validate:"required,min=1,dive,uuid"`
	Email      string   `validate:"omitempty,email"`
}

func TestValidate_Valid(t *testing.T) {
	req := checkoutRequest{
		ProductIDs: []string{"8a4f1f6e-1f7a-4f3e-9a6b-0c2d3e4f5a6b"},
		Email:      "buyer@example.com",
	}
	assert.NoError(t, Validate(req))
}

func TestValidate_MissingRequired(t *testing.T) {
	err := Validate(checkoutRequest{})
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Contains(t, valErr.Fields(), "ProductIDs")
	assert.Equal(t, "is required", valErr.Fields()["ProductIDs"])
}

func TestValidate_InvalidElement(t *testing.T) {
	err := Validate(checkoutRequest{ProductIDs: []string{"not-a-uuid"}})
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Contains(t, valErr.Error(), "uuid")
}

func TestValidate_InvalidEmail(t *testing.T) {
	err := Validate(checkoutRequest{
		ProductIDs: []string{"8a4f1f6e-1f7a-4f3e-9a6b-0c2d3e4f5a6b"},
		Email:      "nope",
	})
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "must be a valid email address", valErr.Fields()["Email"])
}
