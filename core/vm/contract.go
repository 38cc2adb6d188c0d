package vm

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/tos-network/xharness/core/types"
)

// Entry points every contract module must provide.
const (
	EntryDeploy = "deploy"
	EntryCall   = "call"
)

// SelectorLength is the size of the message selector that prefixes input.
const SelectorLength = 4

// Contract represents a contract in the state database. It contains
// the contract code and the calling arguments of one execution frame.
type Contract struct {
	// Caller is the account that initialised this frame, either the
	// submitting origin or the calling contract.
	Caller  types.AccountID
	Address types.AccountID

	Code     []byte
	CodeHash common.Hash
	Input    []byte
	Value    *uint256.Int
}

// NewContract returns a new contract frame for execution.
func NewContract(caller, address types.AccountID, codeHash common.Hash, code, input []byte, value *uint256.Int) *Contract {
	if value == nil {
		value = new(uint256.Int)
	}
	return &Contract{
		Caller:   caller,
		Address:  address,
		Code:     code,
		CodeHash: codeHash,
		Input:    input,
		Value:    value,
	}
}

// Selector returns the leading message selector of the input, or nil if the
// input is too short to carry one.
func (c *Contract) Selector() []byte {
	if len(c.Input) < SelectorLength {
		return nil
	}
	return c.Input[:SelectorLength]
}

// Args returns the input following the selector.
func (c *Contract) Args() []byte {
	if len(c.Input) < SelectorLength {
		return nil
	}
	return c.Input[SelectorLength:]
}
