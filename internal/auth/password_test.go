package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("viewer123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := VerifyPassword(hash, "viewer123"); err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if err := VerifyPassword(hash, "viewer124"); err == nil {
		t.Fatal("expected mismatch for wrong password")
	}
}

func TestHashPasswordAppliesCost(t *testing.T) {
	hash, err := HashPassword("viewer123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("bcrypt.Cost: %v", err)
	}
	if cost != bcryptCost {
		t.Fatalf("expected cost %d, got %d", bcryptCost, cost)
	}
}

func TestHashPasswordLengthBounds(t *testing.T) {
	if _, err := HashPassword("short"); err == nil {
		t.Fatal("expected error for short password")
	}
	long := make([]byte, maxPasswordLength+1)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := HashPassword(string(long)); err == nil {
		t.Fatal("expected error for overlong password")
	}
}

func TestVerifyPasswordRequiresHash(t *testing.T) {
	if err := VerifyPassword("", "whatever"); err == nil {
		t.Fatal("expected error for empty hash")
	}
}
