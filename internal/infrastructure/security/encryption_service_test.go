package security

import (
	"encoding/base64"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEncryptionKey() string {
	return hex.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
}

func TestAESGCMEncryptorRoundTrip(t *testing.T) {
	enc, err := NewAESGCMEncryptor(testEncryptionKey())
	require.NoError(t, err)

	cipherText, err := enc.Encrypt("JBSWY3DPEHPK3PXP")
	require.NoError(t, err)
	assert.NotEqual(t, "JBSWY3DPEHPK3PXP", cipherText)

	plainText, err := enc.Decrypt(cipherText)
	require.NoError(t, err)
	assert.Equal(t, "JBSWY3DPEHPK3PXP", plainText)
}

func TestAESGCMEncryptorNonDeterministic(t *testing.T) {
	enc, err := NewAESGCMEncryptor(testEncryptionKey())
	require.NoError(t, err)

	first, err := enc.Encrypt("secret")
	require.NoError(t, err)
	second, err := enc.Encrypt("secret")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestAESGCMEncryptorRejectsTamperedCiphertext(t *testing.T) {
	enc, err := NewAESGCMEncryptor(testEncryptionKey())
	require.NoError(t, err)

	cipherText, err := enc.Encrypt("secret")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(cipherText)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff

	_, err = enc.Decrypt(base64.StdEncoding.EncodeToString(raw))
	assert.Error(t, err)
}

func TestAESGCMEncryptorRejectsShortCiphertext(t *testing.T) {
	enc, err := NewAESGCMEncryptor(testEncryptionKey())
	require.NoError(t, err)

	_, err = enc.Decrypt(base64.StdEncoding.EncodeToString([]byte("short")))
	assert.Error(t, err)

	_, err = enc.Decrypt("not-base64!!!")
	assert.Error(t, err)
}

func TestNewAESGCMEncryptorValidatesKey(t *testing.T) {
	_, err := NewAESGCMEncryptor("not-hex")
	assert.Error(t, err)

	_, err = NewAESGCMEncryptor(hex.EncodeToString([]byte("short-key")))
	assert.Error(t, err)
}
