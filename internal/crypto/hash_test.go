package crypto

import (
	"strings"
	"testing"
)

// fastParams keeps the tests quick; production uses DefaultHashParams.
func fastParams() HashParams {
	return HashParams{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
}

func TestHashUsesPHCFormat(t *testing.T) {
	hash, err := NewPasswordHasher(DefaultHashParams()).Hash("correct-horse-battery-staple")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		t.Fatalf("Hash() expected 6 parts, got %d: %q", len(parts), hash)
	}
	if parts[1] != "argon2id" {
		t.Errorf("Hash() algorithm = %q, want %q", parts[1], "argon2id")
	}
	if parts[2] != "v=19" {
		t.Errorf("Hash() version = %q, want %q", parts[2], "v=19")
	}
	if parts[3] != "m=65536,t=3,p=2" {
		t.Errorf("Hash() params = %q, want %q", parts[3], "m=65536,t=3,p=2")
	}
}

func TestHashNeverContainsPlaintext(t *testing.T) {
	hash, err := NewPasswordHasher(fastParams()).Hash("secreto123")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}
	if strings.Contains(hash, "secreto123") {
		t.Errorf("Hash() leaked the plaintext: %q", hash)
	}
}

func TestVerify(t *testing.T) {
	h := NewPasswordHasher(fastParams())
	hash, err := h.Hash("my-secure-password")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"correct password", "my-secure-password", true},
		{"wrong password", "wrong-password", false},
		{"empty password", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, err := h.Verify(tt.password, hash)
			if err != nil {
				t.Fatalf("Verify() unexpected error: %v", err)
			}
			if match != tt.want {
				t.Errorf("Verify() = %v, want %v", match, tt.want)
			}
		})
	}
}

func TestVerifyUsesEmbeddedParams(t *testing.T) {
	hash, err := NewPasswordHasher(fastParams()).Hash("portable")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	match, err := NewPasswordHasher(DefaultHashParams()).Verify("portable", hash)
	if err != nil {
		t.Fatalf("Verify() unexpected error: %v", err)
	}
	if !match {
		t.Error("Verify() should honour the parameters stored in the digest")
	}
}

func TestHashProducesDifferentSalts(t *testing.T) {
	h := NewPasswordHasher(fastParams())

	hash1, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}
	hash2, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	if hash1 == hash2 {
		t.Error("Hash() produced identical digests for the same password")
	}
}

func TestVerifyInvalidHash(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
		wantErr error
	}{
		{"not phc", "plaintext-password", ErrInvalidHashFormat},
		{"wrong algorithm", "$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA", ErrInvalidHashFormat},
		{"wrong version", "$argon2id$v=16$m=1,t=1,p=1$c2FsdA$aGFzaA", ErrIncompatibleVersion},
		{"bad salt", "$argon2id$v=19$m=1,t=1,p=1$!!!$aGFzaA", ErrInvalidHashFormat},
	}

	h := NewPasswordHasher(fastParams())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Verify("password", tt.encoded)
			if err != tt.wantErr {
				t.Errorf("Verify() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
