package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anonboard/internal/token"
)

func TestIssueVerify(t *testing.T) {
	codec := token.NewCodec("test-secret")

	signed, err := codec.Issue("alice", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	subject, err := codec.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestVerifyExpired(t *testing.T) {
	codec := token.NewCodec("test-secret")

	signed, err := codec.Issue("alice", time.Nanosecond)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = codec.Verify(signed)
	assert.ErrorIs(t, err, token.ErrExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := token.NewCodec("secret-one")
	verifier := token.NewCodec("secret-two")

	signed, err := issuer.Issue("alice", time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(signed)
	assert.ErrorIs(t, err, token.ErrBadSignature)
}

func TestVerifyMalformed(t *testing.T) {
	codec := token.NewCodec("test-secret")

	for _, garbage := range []string{"", "not-a-token", "a.b.c"} {
		_, err := codec.Verify(garbage)
		assert.ErrorIs(t, err, token.ErrMalformed, "input %q", garbage)
	}
}

func TestIssueDefaultTTL(t *testing.T) {
	codec := token.NewCodec("test-secret")

	// non-positive ttl falls back to the 15 minute default
	signed, err := codec.Issue("alice", 0)
	require.NoError(t, err)

	subject, err := codec.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}
