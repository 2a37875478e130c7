package utils

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("m38rmF$")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if !IsArgon2Hash(hash) {
		t.Fatalf("expected an argon2id hash, got %q", hash)
	}

	ok, err := VerifyPassword("m38rmF$", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error: %v", err)
	}
	if !ok {
		t.Error("correct password rejected")
	}
}

func TestVerifyPasswordRejectsWrongPassword(t *testing.T) {
	hash, err := HashPassword("m38rmF$")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	ok, err := VerifyPassword("wrong", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error: %v", err)
	}
	if ok {
		t.Error("wrong password accepted")
	}
}

func TestHashPasswordSaltsEachCall(t *testing.T) {
	first, err := HashPassword("m38rmF$")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	second, err := HashPassword("m38rmF$")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password must differ (random salt)")
	}
}

// Imported accounts carry bcrypt hashes; login must keep accepting them.
func TestVerifyPasswordBcryptFallback(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("m38rmF$"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt.GenerateFromPassword returned error: %v", err)
	}
	if !IsBcryptHash(string(hash)) {
		t.Fatalf("expected a bcrypt hash, got %q", hash)
	}

	ok, err := VerifyPassword("m38rmF$", string(hash))
	if err != nil {
		t.Fatalf("VerifyPassword returned error: %v", err)
	}
	if !ok {
		t.Error("correct password rejected against bcrypt hash")
	}

	ok, err = VerifyPassword("wrong", string(hash))
	if err != nil {
		t.Fatalf("VerifyPassword returned error: %v", err)
	}
	if ok {
		t.Error("wrong password accepted against bcrypt hash")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	if _, err := VerifyPassword("anything", "not-a-hash"); err == nil {
		t.Error("expected an error for a malformed hash")
	}
}
