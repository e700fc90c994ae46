package service

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSecretService(t *testing.T) {
	service := NewSecretService()
	assert.NotNil(t, service)
	assert.IsType(t, &secretService{}, service)
}

func TestSecretService_GenerateSecret(t *testing.T) {
	service := NewSecretService()

	t.Run("Success_GeneratesValidSecret", func(t *testing.T) {
		plainSecret, hashedSecret, err := service.GenerateSecret()
		require.NoError(t, err)

		assert.NotEmpty(t, plainSecret)

		// Plain secret is unpadded URL-safe base64 of 32 random bytes
		decoded, err := base64.RawURLEncoding.DecodeString(plainSecret)
		require.NoError(t, err)
		assert.Len(t, decoded, 32)

		assert.NotEmpty(t, hashedSecret)
		assert.NotEqual(t, plainSecret, hashedSecret)

		// Digest uses Argon2id in PHC format
		assert.Contains(t, hashedSecret, "$argon2id$")
	})

	t.Run("Success_GeneratesUniqueSecrets", func(t *testing.T) {
		plainSecret1, hashedSecret1, err := service.GenerateSecret()
		require.NoError(t, err)

		plainSecret2, hashedSecret2, err := service.GenerateSecret()
		require.NoError(t, err)

		assert.NotEqual(t, plainSecret1, plainSecret2)
		assert.NotEqual(t, hashedSecret1, hashedSecret2)
	})

	t.Run("Success_GeneratedSecretCanBeVerified", func(t *testing.T) {
		plainSecret, hashedSecret, err := service.GenerateSecret()
		require.NoError(t, err)

		matches := service.CompareSecret(plainSecret, hashedSecret)
		assert.True(t, matches)
	})
}

func TestSecretService_HashSecret(t *testing.T) {
	service := NewSecretService()

	t.Run("Success_HashesSecretCorrectly", func(t *testing.T) {
		plainSecret := "test-secret-123"
		hashedSecret, err := service.HashSecret(plainSecret)
		require.NoError(t, err)

		assert.NotEmpty(t, hashedSecret)
		assert.NotEqual(t, plainSecret, hashedSecret)
		assert.Contains(t, hashedSecret, "$argon2id$")
	})

	t.Run("Success_SameSecretProducesDifferentHashes", func(t *testing.T) {
		plainSecret := "test-secret-123"

		hash1, err := service.HashSecret(plainSecret)
		require.NoError(t, err)
		hash2, err := service.HashSecret(plainSecret)
		require.NoError(t, err)

		// Salted digests differ even for identical inputs
		assert.NotEqual(t, hash1, hash2)
		assert.True(t, service.CompareSecret(plainSecret, hash1))
		assert.True(t, service.CompareSecret(plainSecret, hash2))
	})
}

func TestSecretService_CompareSecret(t *testing.T) {
	service := NewSecretService()

	hashedSecret, err := service.HashSecret("correct-secret")
	require.NoError(t, err)

	t.Run("Success_MatchingSecret", func(t *testing.T) {
		assert.True(t, service.CompareSecret("correct-secret", hashedSecret))
	})

	t.Run("Error_WrongSecret", func(t *testing.T) {
		assert.False(t, service.CompareSecret("wrong-secret", hashedSecret))
	})

	t.Run("Error_EmptySecret", func(t *testing.T) {
		assert.False(t, service.CompareSecret("", hashedSecret))
	})

	t.Run("Error_MalformedDigest", func(t *testing.T) {
		assert.False(t, service.CompareSecret("correct-secret", "not-a-phc-digest"))
	})
}
