package service

import (
	"context"
	"encoding/base64"

	"gocloud.dev/secrets"

	apperrors "github.com/allisson/authgate/internal/errors"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// LoadSigningSecret resolves the token signing secret from its configured
// representation.
//
// When kmsKeyURI is empty the encoded value is treated as the base64 secret
// itself. Otherwise it is a KMS-wrapped ciphertext and is decrypted through
// gocloud.dev/secrets (gcpkms://, awskms://, azurekeyvault://, hashivault://,
// base64key:// for local development) before use.
func LoadSigningSecret(ctx context.Context, encodedSecret, kmsKeyURI string) ([]byte, error) {
	if encodedSecret == "" {
		return nil, apperrors.New("token signing secret is not configured")
	}

	raw, err := base64.StdEncoding.DecodeString(encodedSecret)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to decode token signing secret")
	}

	if kmsKeyURI == "" {
		return raw, nil
	}

	keeper, err := secrets.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open KMS keeper")
	}
	defer func() {
		_ = keeper.Close()
	}()

	plaintext, err := keeper.Decrypt(ctx, raw)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to decrypt token signing secret")
	}

	return plaintext, nil
}
