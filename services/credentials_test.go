package services

import (
	"errors"
	"testing"

	"accountant-api/models"
)

func TestCredentialRoundTrip(t *testing.T) {
	plain := models.AccessCredential{
		Email:          "broker@example.com",
		Username:       "broker-login",
		Password:       "s3cret",
		TransactionPin: "1234",
	}

	encoded, err := EncodeCredential(plain, "grp-1")
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if !encoded.IsEncoded {
		t.Fatal("expected encoded flag set")
	}
	if encoded.Password == plain.Password {
		t.Fatal("expected password to be wrapped, got plaintext")
	}

	decoded, err := DecodeCredential(encoded, "grp-1")
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.IsEncoded {
		t.Fatal("expected encoded flag cleared")
	}
	if decoded != plain {
		t.Fatalf("round trip mismatch: got %+v, want %+v", decoded, plain)
	}
}

func TestCredentialRoundTripWithOptionalFieldsEmpty(t *testing.T) {
	plain := models.AccessCredential{Password: "s3cret"}

	encoded, err := EncodeCredential(plain, "grp-1")
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if encoded.Email != "" || encoded.Username != "" || encoded.TransactionPin != "" {
		t.Fatal("expected empty fields to stay empty")
	}

	decoded, err := DecodeCredential(encoded, "grp-1")
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded != plain {
		t.Fatalf("round trip mismatch: got %+v, want %+v", decoded, plain)
	}
}

func TestCredentialDecodeWrongGroupFails(t *testing.T) {
	encoded, err := EncodeCredential(models.AccessCredential{Password: "s3cret"}, "grp-1")
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	if _, err := DecodeCredential(encoded, "grp-2"); err == nil {
		t.Fatal("expected decode under a different group key to fail")
	}
}

func TestCredentialDoubleEncodeRejected(t *testing.T) {
	encoded, err := EncodeCredential(models.AccessCredential{Password: "s3cret"}, "grp-1")
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	if _, err := EncodeCredential(encoded, "grp-1"); !errors.Is(err, ErrCredentialEncoded) {
		t.Fatalf("expected ErrCredentialEncoded, got %v", err)
	}
}

func TestCredentialDecodePlainRejected(t *testing.T) {
	plain := models.AccessCredential{Password: "s3cret"}

	if _, err := DecodeCredential(plain, "grp-1"); !errors.Is(err, ErrCredentialPlain) {
		t.Fatalf("expected ErrCredentialPlain, got %v", err)
	}
}
