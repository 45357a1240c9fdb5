package secret

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/socialhub/internal/domain/model"
	"github.com/ericfisherdev/socialhub/internal/domain/port/driven"
)

func newTestCipher(t *testing.T) *Cipher {
	t.Helper()
	c, err := NewCipher("social-hub-secret")
	require.NoError(t, err)
	return c
}

func TestCipher_RoundTrip(t *testing.T) {
	c := newTestCipher(t)

	for _, plaintext := range []string{"ya29.a0Af", "", "ünïcødé 🔑", "a b\nc"} {
		obfuscated, err := c.Obfuscate(plaintext)
		require.NoError(t, err)

		got, err := c.Reveal(obfuscated)
		require.NoError(t, err)
		assert.Equal(t, plaintext, got)
	}
}

func TestCipher_ObfuscatedDiffersFromPlaintext(t *testing.T) {
	c := newTestCipher(t)

	obfuscated, err := c.Obfuscate("super-secret")
	require.NoError(t, err)
	assert.NotContains(t, obfuscated, "super-secret")
}

func TestCipher_FreshNoncePerValue(t *testing.T) {
	c := newTestCipher(t)

	a, err := c.Obfuscate("same")
	require.NoError(t, err)
	b, err := c.Obfuscate("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestCipher_SamePassphraseSharesKey(t *testing.T) {
	first := newTestCipher(t)
	second := newTestCipher(t)

	obfuscated, err := first.Obfuscate("token")
	require.NoError(t, err)

	got, err := second.Reveal(obfuscated)
	require.NoError(t, err)
	assert.Equal(t, "token", got)
}

func TestCipher_WrongPassphraseFails(t *testing.T) {
	c := newTestCipher(t)
	other, err := NewCipher("another-passphrase")
	require.NoError(t, err)

	obfuscated, err := c.Obfuscate("token")
	require.NoError(t, err)

	_, err = other.Reveal(obfuscated)
	assert.Error(t, err)
}

func TestCipher_RevealPlaceholder(t *testing.T) {
	c := newTestCipher(t)

	_, err := c.Reveal(model.PlaceholderMarker)
	assert.ErrorIs(t, err, driven.ErrSecretUnavailable)
}

func TestCipher_RevealGarbage(t *testing.T) {
	c := newTestCipher(t)

	_, err := c.Reveal("not base64!!")
	assert.Error(t, err)

	_, err = c.Reveal("c2hvcnQ=")
	assert.Error(t, err)
}

func TestNewCipher_EmptyPassphrase(t *testing.T) {
	_, err := NewCipher("")
	assert.Error(t, err)
}
