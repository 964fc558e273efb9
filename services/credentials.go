package services

import (
	"errors"
	"fmt"

	"accountant-api/models"
	"accountant-api/utils"
)

var (
	// ErrCredentialEncoded guards against signing an already-signed envelope.
	ErrCredentialEncoded = errors.New("credential is already encoded")
	// ErrCredentialPlain guards against verifying a plaintext envelope.
	ErrCredentialPlain = errors.New("credential is not encoded")
)

// EncodeCredential replaces every non-empty credential field with a token
// signed under the owning group's id. The group id is the key on purpose:
// any group member can recover the fields, and rotating the group id orphans
// everything encoded under it.
func EncodeCredential(cred models.AccessCredential, groupID string) (models.AccessCredential, error) {
	if cred.IsEncoded {
		return cred, ErrCredentialEncoded
	}

	signer := utils.NewSigner(groupID)

	if cred.Email != "" {
		cred.Email = signer.Sign(cred.Email)
	}
	if cred.Username != "" {
		cred.Username = signer.Sign(cred.Username)
	}
	if cred.Password != "" {
		cred.Password = signer.Sign(cred.Password)
	}
	if cred.TransactionPin != "" {
		cred.TransactionPin = signer.Sign(cred.TransactionPin)
	}

	cred.IsEncoded = true
	return cred, nil
}

// DecodeCredential recovers the plaintext fields of an encoded envelope.
// A verification failure on any present field fails the whole decode; raw
// tokens are never passed through as if they were plaintext.
func DecodeCredential(cred models.AccessCredential, groupID string) (models.AccessCredential, error) {
	if !cred.IsEncoded {
		return cred, ErrCredentialPlain
	}

	signer := utils.NewSigner(groupID)

	var err error
	if cred.Email != "" {
		if cred.Email, err = signer.Verify(cred.Email, 0); err != nil {
			return cred, fmt.Errorf("email: %w", err)
		}
	}
	if cred.Username != "" {
		if cred.Username, err = signer.Verify(cred.Username, 0); err != nil {
			return cred, fmt.Errorf("username: %w", err)
		}
	}
	if cred.Password != "" {
		if cred.Password, err = signer.Verify(cred.Password, 0); err != nil {
			return cred, fmt.Errorf("password: %w", err)
		}
	}
	if cred.TransactionPin != "" {
		if cred.TransactionPin, err = signer.Verify(cred.TransactionPin, 0); err != nil {
			return cred, fmt.Errorf("transaction_pin: %w", err)
		}
	}

	cred.IsEncoded = false
	return cred, nil
}
