package database

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSeedID(t *testing.T) {
	id := SeedID("h-pitie")

	_, err := uuid.Parse(id)
	assert.NoError(t, err, "fixture ids become uuids")
	assert.Equal(t, id, SeedID("h-pitie"), "mapping is stable")
	assert.NotEqual(t, id, SeedID("h-cochin"))

	existing := uuid.NewString()
	assert.Equal(t, existing, SeedID(existing))
}

func TestSeedRef(t *testing.T) {
	assert.Nil(t, seedRef(nil))

	raw := "doc-martin"
	mapped := seedRef(&raw)
	if assert.NotNil(t, mapped) {
		assert.Equal(t, SeedID(raw), *mapped)
	}
	assert.Equal(t, "doc-martin", raw, "input is not modified")
}
