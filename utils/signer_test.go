package utils

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSignerRoundTrip(t *testing.T) {
	signer := NewSigner("a-group-id")

	for _, payload := range []string{"secret-password", "user@example.com", "", "pin.1234"} {
		token := signer.Sign(payload)
		got, err := signer.Verify(token, 0)
		if err != nil {
			t.Fatalf("verify failed for %q: %v", payload, err)
		}
		if got != payload {
			t.Fatalf("expected %q back, got %q", payload, got)
		}
	}
}

func TestSignerRejectsWrongKey(t *testing.T) {
	token := NewSigner("group-a").Sign("secret")

	if _, err := NewSigner("group-b").Verify(token, 0); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken under a different key, got %v", err)
	}
}

func TestSignerRejectsTamperedPayload(t *testing.T) {
	signer := NewSigner("a-group-id")
	token := signer.Sign("amount=100")

	parts := strings.Split(token, ".")
	parts[0] = b64.EncodeToString([]byte("amount=999"))
	tampered := strings.Join(parts, ".")

	if _, err := signer.Verify(tampered, 0); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered payload, got %v", err)
	}
}

func TestSignerRejectsMalformedTokens(t *testing.T) {
	signer := NewSigner("a-group-id")

	for _, token := range []string{
		"",
		"not-a-token",
		"only.two",
		"a.b.c.d",
		"%%%.%%%.%%%",
	} {
		if _, err := signer.Verify(token, 0); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", token, err)
		}
	}
}

func TestSignerExpiry(t *testing.T) {
	signer := NewSigner("a-group-id")
	token := signer.signAt("stale", time.Now().Add(-2*time.Hour))

	if _, err := signer.Verify(token, time.Hour); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}

	// Zero maxAge disables the age check entirely.
	if _, err := signer.Verify(token, 0); err != nil {
		t.Fatalf("expected stale token to verify without maxAge, got %v", err)
	}
}
