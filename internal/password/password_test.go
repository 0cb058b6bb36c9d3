package password_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anonboard/internal/password"
)

// cost 4 keeps bcrypt fast in tests
func newTestHasher() *password.Hasher {
	return password.NewHasher(4)
}

func TestHashVerifyRoundTrip(t *testing.T) {
	hasher := newTestHasher()

	hashed, err := hasher.Hash("secretpw")
	require.NoError(t, err)
	require.NotEmpty(t, hashed)
	assert.NotEqual(t, "secretpw", hashed)

	assert.True(t, hasher.Verify("secretpw", hashed))
	assert.False(t, hasher.Verify("wrong-password", hashed))
}

func TestHashIsSalted(t *testing.T) {
	hasher := newTestHasher()

	first, err := hasher.Hash("secretpw")
	require.NoError(t, err)
	second, err := hasher.Hash("secretpw")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "same input must hash differently per call")
	assert.True(t, hasher.Verify("secretpw", first))
	assert.True(t, hasher.Verify("secretpw", second))
}

func TestOutOfRangeCostFallsBack(t *testing.T) {
	hasher := password.NewHasher(999)

	hashed, err := hasher.Hash("secretpw")
	require.NoError(t, err)
	assert.True(t, hasher.Verify("secretpw", hashed))
}
