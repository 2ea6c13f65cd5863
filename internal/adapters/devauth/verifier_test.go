package devauth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestVerifier_Verify(t *testing.T) {
	v, err := NewVerifier(Config{UserID: 7, Email: "dev@example.com"})
	if err != nil {
		t.Fatalf("NewVerifier error: %v", err)
	}
	fixed := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	v.now = func() time.Time { return fixed }

	id, err := v.Verify(context.Background(), "")
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if id.UserID != 7 || id.Email != "dev@example.com" || id.Subject != "dev-7" {
		t.Fatalf("unexpected identity: %+v", id)
	}
	if want := fixed.Add(8 * time.Hour); !id.ExpiresAt.Equal(want) {
		t.Fatalf("ExpiresAt = %v, want %v", id.ExpiresAt, want)
	}
}

func TestVerifier_SharedToken(t *testing.T) {
	v, err := NewVerifier(Config{UserID: 1, Token: "let-me-in", SessionDuration: time.Minute})
	if err != nil {
		t.Fatalf("NewVerifier error: %v", err)
	}
	if _, err := v.Verify(context.Background(), "nope"); !errors.Is(err, ErrTokenMismatch) {
		t.Fatalf("expected ErrTokenMismatch, got %v", err)
	}
	if _, err := v.Verify(context.Background(), "let-me-in"); err != nil {
		t.Fatalf("Verify error: %v", err)
	}
}

func TestNewVerifier_RequiresUser(t *testing.T) {
	if _, err := NewVerifier(Config{}); err == nil {
		t.Fatal("expected error for missing user id")
	}
}
