// Package salt provides the salt policies used when instantiating contracts.
// A policy is created per scenario run and advanced once per instantiation;
// nothing is shared between policies.
package salt

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/tos-network/xharness/core/types"
	"github.com/tos-network/xharness/crypto/hashing"
)

// RandomLength is the number of random bytes a Random policy draws.
const RandomLength = 32

// Kind enumerates the salt policies.
type Kind int

const (
	// Empty always yields a zero-length salt.
	Empty Kind = iota
	// Nonce yields the deployer's current account nonce as a SCALE u32.
	Nonce
	// Random yields 32 random bytes, SCALE encoded with a compact length prefix.
	Random
	// HashDerived yields the hash of the constructor input. It reproduces
	// the historical derivation where the salt was computed from the input.
	HashDerived
)

// AllKinds lists every policy in run order.
var AllKinds = []Kind{Empty, Nonce, Random, HashDerived}

var kindNames = map[Kind]string{
	Empty:       "empty",
	Nonce:       "nonce",
	Random:      "random",
	HashDerived: "hashed-input",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind parses a policy name as accepted on the command line.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for kind, n := range kindNames {
		if n == name {
			return kind, nil
		}
	}
	switch name {
	case "hash", "hashed", "hash-derived", "hashderived":
		return HashDerived, nil
	}
	return 0, fmt.Errorf("unknown salt policy %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	kind, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// NonceReader reports the current nonce of an account.
type NonceReader interface {
	AccountNonce(id types.AccountID) uint64
}

// Env carries what a policy may consult when drawing a salt.
type Env struct {
	Nonces  NonceReader     // required by Nonce
	Account types.AccountID // the deploying account, for Nonce
	Hasher  hashing.Hasher  // required by HashDerived
	Rand    io.Reader       // entropy for Random, defaults to crypto/rand
}

// Policy produces the salt for the next instantiation.
type Policy interface {
	Kind() Kind
	NextSalt(input []byte) []byte
}

var (
	errNoNonceReader = errors.New("nonce salt requires a nonce reader")
	errNoHasher      = errors.New("hash-derived salt requires a hasher")
)

// New creates a fresh policy of the given kind.
func New(kind Kind, env Env) (Policy, error) {
	switch kind {
	case Empty:
		return emptyPolicy{}, nil
	case Nonce:
		if env.Nonces == nil {
			return nil, errNoNonceReader
		}
		return &noncePolicy{nonces: env.Nonces, account: env.Account}, nil
	case Random:
		r := env.Rand
		if r == nil {
			r = rand.Reader
		}
		return &randomPolicy{rand: r}, nil
	case HashDerived:
		if env.Hasher == nil {
			return nil, errNoHasher
		}
		return &hashPolicy{hasher: env.Hasher}, nil
	}
	return nil, fmt.Errorf("unknown salt policy %v", kind)
}

type emptyPolicy struct{}

func (emptyPolicy) Kind() Kind { return Empty }

func (emptyPolicy) NextSalt(input []byte) []byte { return []byte{} }

// noncePolicy reads the nonce at draw time. The dispatch that consumes the
// salt bumps the nonce, so consecutive draws differ.
type noncePolicy struct {
	nonces  NonceReader
	account types.AccountID
}

func (p *noncePolicy) Kind() Kind { return Nonce }

// NextSalt encodes the nonce with the runtime's 32-bit account index width.
func (p *noncePolicy) NextSalt(input []byte) []byte {
	return encode(uint32(p.nonces.AccountNonce(p.account)))
}

type randomPolicy struct {
	rand io.Reader
}

func (p *randomPolicy) Kind() Kind { return Random }

func (p *randomPolicy) NextSalt(input []byte) []byte {
	var buf [RandomLength]byte
	if _, err := io.ReadFull(p.rand, buf[:]); err != nil {
		panic(fmt.Sprintf("salt: entropy source failed: %v", err))
	}
	return encode(buf[:])
}

type hashPolicy struct {
	hasher hashing.Hasher
}

func (p *hashPolicy) Kind() Kind { return HashDerived }

func (p *hashPolicy) NextSalt(input []byte) []byte {
	return p.hasher.Hash(input).Bytes()
}

// encode returns the SCALE encoding of v.
func encode(v interface{}) []byte {
	var buf bytes.Buffer
	if err := scale.NewEncoder(&buf).Encode(v); err != nil {
		panic(fmt.Sprintf("salt: scale encoding failed: %v", err))
	}
	return buf.Bytes()
}
