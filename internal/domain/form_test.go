package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFieldType(t *testing.T) {
	for _, ft := range FieldTypes() {
		got, err := ParseFieldType(string(ft))
		assert.NoError(t, err)
		assert.Equal(t, ft, got)
	}

	_, err := ParseFieldType("checkbox")
	assert.ErrorIs(t, err, ErrUnknownFieldType)
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("")
	assert.NoError(t, err)
	assert.Equal(t, RoleDataEntry, role)

	role, err = ParseRole("admin")
	assert.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)

	_, err = ParseRole("superuser")
	assert.ErrorIs(t, err, ErrUnknownRole)
}
