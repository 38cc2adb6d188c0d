// Package hashing provides the hash functions a sandbox can be configured
// with. The selected hasher derives contract addresses, code hashes and the
// content-addressed salts drawn by the harness.
package hashing

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/blake2b"
)

// Hasher is a 256-bit hash function.
type Hasher interface {
	Name() string
	Hash(data ...[]byte) common.Hash
}

const (
	Blake2b256Name = "blake2-256"
	Keccak256Name  = "keccak-256"
)

// Blake2b256 is the unkeyed BLAKE2b hash truncated to 32 bytes by
// construction (BLAKE2b-256).
type Blake2b256 struct{}

func (Blake2b256) Name() string { return Blake2b256Name }

func (Blake2b256) Hash(data ...[]byte) common.Hash {
	h, _ := blake2b.New256(nil) // only fails for oversized keys
	for _, b := range data {
		h.Write(b)
	}
	return common.BytesToHash(h.Sum(nil))
}

// Keccak256 is the legacy Keccak-256 hash.
type Keccak256 struct{}

func (Keccak256) Name() string { return Keccak256Name }

func (Keccak256) Hash(data ...[]byte) common.Hash {
	return crypto.Keccak256Hash(data...)
}

// Default is the hasher used when no other is configured.
var Default Hasher = Blake2b256{}

// ByName returns the hasher registered under name. The empty string selects
// Default.
func ByName(name string) (Hasher, error) {
	switch strings.ToLower(name) {
	case "":
		return Default, nil
	case Blake2b256Name, "blake2b", "blake2b-256":
		return Blake2b256{}, nil
	case Keccak256Name, "keccak", "keccak256":
		return Keccak256{}, nil
	}
	return nil, fmt.Errorf("unknown hasher %q", name)
}
