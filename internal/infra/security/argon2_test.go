package security

import (
	"strings"
	"testing"
)

func TestHashPasswordAndVerifySuccess(t *testing.T) {
	password := "correct horse battery staple"

	encoded, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	parts := strings.Split(encoded, "$")
	if len(parts) != 5 {
		t.Fatalf("unexpected hash format: %q", encoded)
	}
	if parts[0] != argon2Variant {
		t.Fatalf("unexpected variant: %s", parts[0])
	}
	if parts[1] != argon2Version {
		t.Fatalf("unexpected version: %s", parts[1])
	}

	ok, err := VerifyPassword(password, encoded)
	if err != nil {
		t.Fatalf("VerifyPassword returned error: %v", err)
	}
	if !ok {
		t.Fatal("VerifyPassword returned false for correct password")
	}
}

func TestVerifyPasswordRejectsWrongPassword(t *testing.T) {
	encoded, err := HashPassword("right-password")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	ok, err := VerifyPassword("wrong-password", encoded)
	if err != nil {
		t.Fatalf("VerifyPassword returned error: %v", err)
	}
	if ok {
		t.Fatal("VerifyPassword accepted wrong password")
	}
}

func TestVerifyPasswordEmptyInputs(t *testing.T) {
	ok, err := VerifyPassword("", "whatever")
	if err != nil || ok {
		t.Fatalf("expected empty password to be rejected without error, got ok=%v err=%v", ok, err)
	}

	ok, err = VerifyPassword("password", "")
	if err != nil || ok {
		t.Fatalf("expected empty hash to be rejected without error, got ok=%v err=%v", ok, err)
	}
}

func TestVerifyPasswordInvalidFormat(t *testing.T) {
	malformed := []string{
		"not-a-valid-hash",
		"c2FsdA==:aGFzaA==",
		"argon2i$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
	}
	for _, encoded := range malformed {
		if _, err := VerifyPassword("password", encoded); err == nil {
			t.Fatalf("expected error for malformed hash %q", encoded)
		}
	}
}

func TestHashTokenDeterministic(t *testing.T) {
	first := HashToken("1234")
	second := HashToken("1234")
	if first != second {
		t.Fatal("expected identical hashes for identical inputs")
	}
	if first == HashToken("4321") {
		t.Fatal("expected different hashes for different inputs")
	}
	if len(first) != 64 {
		t.Fatalf("expected hex sha256 output, got length %d", len(first))
	}
}

func TestGenerateNumericCodeLength(t *testing.T) {
	code, err := GenerateNumericCode(4)
	if err != nil {
		t.Fatalf("GenerateNumericCode returned error: %v", err)
	}
	if len(code) != 4 {
		t.Fatalf("expected 4 digits, got %q", code)
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			t.Fatalf("expected numeric code, got %q", code)
		}
	}

	if _, err := GenerateNumericCode(0); err == nil {
		t.Fatal("expected error for non-positive length")
	}
}
