package hashing

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/blake2b"
)

func TestBlake2b256MatchesReference(t *testing.T) {
	input := []byte{0x9b, 0xae, 0x9d, 0x5e}
	want := common.Hash(blake2b.Sum256(input))
	if have := (Blake2b256{}).Hash(input); have != want {
		t.Fatalf("hash mismatch: have %x want %x", have, want)
	}
	// Chunked input hashes the concatenation.
	if have := (Blake2b256{}).Hash(input[:1], input[1:]); have != want {
		t.Fatalf("chunked hash mismatch: have %x want %x", have, want)
	}
}

func TestKeccak256EmptyInput(t *testing.T) {
	want := common.HexToHash("c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470")
	if have := (Keccak256{}).Hash(); have != want {
		t.Fatalf("hash mismatch: have %x want %x", have, want)
	}
}

func TestByName(t *testing.T) {
	for name, want := range map[string]string{
		"":           Blake2b256Name,
		"blake2-256": Blake2b256Name,
		"BLAKE2B":    Blake2b256Name,
		"keccak":     Keccak256Name,
		"keccak-256": Keccak256Name,
	} {
		h, err := ByName(name)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", name, err)
		}
		if h.Name() != want {
			t.Errorf("%q: have %s want %s", name, h.Name(), want)
		}
	}
	if _, err := ByName("sha1"); err == nil {
		t.Fatal("expected error for unknown hasher")
	}
}
