package service

import "testing"

func TestBcryptPasswordHasher_Roundtrip(t *testing.T) {
	t.Parallel()

	// Low cost keeps the test fast; production wiring uses PasswordHashCost.
	hasher := BcryptPasswordHasher{Cost: 4}

	hash, err := hasher.Hash("Secret1!")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if hash == "Secret1!" {
		t.Fatal("hash equals the plaintext")
	}
	if !hasher.Verify(hash, "Secret1!") {
		t.Fatal("Verify rejected the original password")
	}
	if hasher.Verify(hash, "Secret1?") {
		t.Fatal("Verify accepted a mutated password")
	}
}

func TestBcryptPasswordHasher_UniqueSalt(t *testing.T) {
	t.Parallel()

	hasher := BcryptPasswordHasher{Cost: 4}
	first, err := hasher.Hash("Secret1!")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	second, err := hasher.Hash("Secret1!")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if first == second {
		t.Fatal("same plaintext produced identical hashes")
	}
}

func TestBcryptPasswordHasher_VerifyGarbageHash(t *testing.T) {
	t.Parallel()

	hasher := BcryptPasswordHasher{}
	if hasher.Verify("not-a-bcrypt-hash", "whatever") {
		t.Fatal("Verify accepted a malformed hash")
	}
}
