package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type searchInput struct {
	Type  string `json:"type" validate:"required,entity-type"`
	Limit int    `form:"limit" validate:"omitempty,min=1"`
}

type liveInput struct {
	Type string `form:"type" validate:"live-entity-type"`
}

func TestEntityTypeRule(t *testing.T) {
	v := New()

	for _, typ := range []string{"doctor", "hospital", "department", " Doctor "} {
		assert.NoError(t, v.Validate(searchInput{Type: typ}), typ)
	}

	err := v.Validate(searchInput{Type: "clinic"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Must be one of: doctor, hospital, department", verr.Errors["type"])
}

func TestRequiredUsesWireName(t *testing.T) {
	err := New().Validate(searchInput{Limit: -1})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "This field is required", verr.Errors["type"])
	assert.Equal(t, "Must be at least 1", verr.Errors["limit"])
	assert.Equal(t, "Validation failed: field 'limit': Must be at least 1; field 'type': This field is required", verr.Error())
}

func TestLiveEntityTypeRule(t *testing.T) {
	v := New()

	for _, typ := range []string{"", "all", "hospital"} {
		assert.NoError(t, v.Validate(liveInput{Type: typ}), typ)
	}
	assert.Error(t, v.Validate(liveInput{Type: "nurse"}))
}
