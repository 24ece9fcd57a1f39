package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcrypt_HashAndVerify(t *testing.T) {
	t.Parallel()

	h := Bcrypt{}
	hash, err := h.Hash("pw1")
	require.NoError(t, err)
	assert.NotEqual(t, "pw1", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))

	assert.True(t, h.Verify("pw1", hash))
	assert.False(t, h.Verify("wrong", hash))
	assert.False(t, h.Verify("pw1", "not-a-hash"))
}

func TestBcrypt_FreshSaltPerHash(t *testing.T) {
	t.Parallel()

	h := Bcrypt{}
	first, err := h.Hash("same")
	require.NoError(t, err)
	second, err := h.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, h.Verify("same", first))
	assert.True(t, h.Verify("same", second))
}

func TestBcrypt_TooLong(t *testing.T) {
	t.Parallel()

	_, err := Bcrypt{}.Hash(strings.Repeat("x", 73))
	require.Error(t, err)
}

func TestPlaintext(t *testing.T) {
	t.Parallel()

	h := Plaintext{}
	stored, err := h.Hash("pw1")
	require.NoError(t, err)
	assert.Equal(t, "pw1", stored)
	assert.True(t, h.Verify("pw1", stored))
	assert.False(t, h.Verify("pw", stored))
}

func TestNew(t *testing.T) {
	t.Parallel()

	h, err := New(ModeBcrypt)
	require.NoError(t, err)
	assert.IsType(t, Bcrypt{}, h)

	h, err = New("")
	require.NoError(t, err)
	assert.IsType(t, Bcrypt{}, h)

	h, err = New(ModePlaintext)
	require.NoError(t, err)
	assert.IsType(t, Plaintext{}, h)

	_, err = New("md5")
	require.ErrorIs(t, err, ErrUnknownMode)
}
