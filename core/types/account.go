package types

import (
	"encoding/hex"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// AccountIDLength is the expected length of an account identity.
const AccountIDLength = 32

// AccountID is a 32 byte account identity. Contracts and externally owned
// accounts share the same identity space.
type AccountID [AccountIDLength]byte

// BytesToAccountID sets b to an AccountID. If b is larger than
// AccountIDLength, b will be cropped from the left.
func BytesToAccountID(b []byte) AccountID {
	var a AccountID
	a.SetBytes(b)
	return a
}

// HexToAccountID returns the AccountID with byte values of s.
// If s is larger than AccountIDLength, s will be cropped from the left.
func HexToAccountID(s string) AccountID { return BytesToAccountID(common.FromHex(s)) }

// HashToAccountID converts a 32 byte digest into an identity.
func HashToAccountID(h common.Hash) AccountID { return AccountID(h) }

// SetBytes sets the identity to the value of b, right aligned.
func (a *AccountID) SetBytes(b []byte) {
	if len(b) > len(a) {
		b = b[len(b)-AccountIDLength:]
	}
	copy(a[AccountIDLength-len(b):], b)
}

// Bytes gets the byte representation of the identity.
func (a AccountID) Bytes() []byte { return a[:] }

// Hex returns the 0x prefixed hex encoding of the identity.
func (a AccountID) Hex() string { return hexutil.Encode(a[:]) }

// IsZero reports whether every byte of the identity is zero.
func (a AccountID) IsZero() bool { return a == AccountID{} }

// String implements fmt.Stringer.
func (a AccountID) String() string { return a.Hex() }

// TerminalString implements log.TerminalStringer, formatting a shortened
// identity for console output during logging.
func (a AccountID) TerminalString() string {
	return hex.EncodeToString(a[:3]) + ".." + hex.EncodeToString(a[29:])
}

// MarshalText returns the hex representation of a.
func (a AccountID) MarshalText() ([]byte, error) {
	return hexutil.Bytes(a[:]).MarshalText()
}

// UnmarshalText parses an identity in hex syntax.
func (a *AccountID) UnmarshalText(input []byte) error {
	return hexutil.UnmarshalFixedText("AccountID", input, a[:])
}
