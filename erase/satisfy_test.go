package erase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//
// -----------------------------------------------------------------------------
// Satisfies()
// -----------------------------------------------------------------------------

func TestSatisfies_ValueReceiver(t *testing.T) {
	t.Parallel()

	pkg, _ := typeCheckSource(t, "fixture.go", moneySource)
	c, err := ResolveCapability(pkg, "Amount")
	require.NoError(t, err)

	cents, err := lookupNamedType(pkg, "Cents")
	require.NoError(t, err)

	byPointer, err := Satisfies(cents, c)
	require.NoError(t, err)
	assert.False(t, byPointer)
}

func TestSatisfies_PointerReceiver(t *testing.T) {
	t.Parallel()

	pkg, _ := typeCheckSource(t, "fixture.go", moneySource)
	c, err := ResolveCapability(pkg, "Amount")
	require.NoError(t, err)

	account, err := lookupNamedType(pkg, "Account")
	require.NoError(t, err)

	byPointer, err := Satisfies(account, c)
	require.NoError(t, err)
	assert.True(t, byPointer)
}

// Covers the diagnostic shape for both failure kinds: an operation that is
// absent outright, and one present under the right name with the wrong
// signature.
func TestSatisfies_NamesTheMissingOperation(t *testing.T) {
	t.Parallel()

	pkg, _ := typeCheckSource(t, "fixture.go", moneySource)
	c, err := ResolveCapability(pkg, "Amount")
	require.NoError(t, err)

	sticker, err := lookupNamedType(pkg, "Sticker")
	require.NoError(t, err)

	_, err = Satisfies(sticker, c)
	require.Error(t, err)

	var missing MissingOperationError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "Sticker", missing.Type)
	assert.Equal(t, "Amount", missing.Capability)
	assert.Equal(t, "Add", missing.Operation)
	assert.False(t, missing.WrongSignature)
	assert.Contains(t, err.Error(), `missing operation "Add"`)
}

func TestSatisfies_NamesTheWrongSignature(t *testing.T) {
	t.Parallel()

	pkg, _ := typeCheckSource(t, "fixture.go", moneySource)
	c, err := ResolveCapability(pkg, "Amount")
	require.NoError(t, err)

	odd, err := lookupNamedType(pkg, "Odd")
	require.NoError(t, err)

	_, err = Satisfies(odd, c)
	require.Error(t, err)

	var missing MissingOperationError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "Odd", missing.Type)
	assert.Equal(t, "Add", missing.Operation)
	assert.True(t, missing.WrongSignature)
	assert.Contains(t, missing.Have, "Odd")
	assert.Contains(t, missing.Want, "Amount")
	assert.Contains(t, err.Error(), "wrong signature")
}
