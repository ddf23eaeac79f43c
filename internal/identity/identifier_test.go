package identity_test

import (
	"testing"

	"realvest/internal/identity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Email(t *testing.T) {
	id, err := identity.Parse("  A@Example.COM ")

	require.NoError(t, err)
	assert.Equal(t, identity.ChannelEmail, id.Channel())
	assert.Equal(t, "a@example.com", id.Value())
}

func TestParse_Phone(t *testing.T) {
	id, err := identity.Parse("+1 (555) 010-2030")

	require.NoError(t, err)
	assert.Equal(t, identity.ChannelPhone, id.Channel())
	assert.Equal(t, "+15550102030", id.Value())
}

func TestParse_Empty(t *testing.T) {
	_, err := identity.Parse("   ")
	assert.ErrorIs(t, err, identity.ErrInvalidIdentifier)
}

func TestParse_PhoneWithoutDigits(t *testing.T) {
	_, err := identity.Parse("+-")
	assert.ErrorIs(t, err, identity.ErrInvalidIdentifier)
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "+4915512345678", identity.NormalizePhone("+49 155 1234 5678"))
	assert.Equal(t, "5550102030", identity.NormalizePhone("555-010-2030"))
	assert.Equal(t, "", identity.NormalizePhone("abc"))
}

func TestIdentifier_IsZero(t *testing.T) {
	var id identity.Identifier
	assert.True(t, id.IsZero())
	assert.False(t, identity.Email("a@example.com").IsZero())
}
