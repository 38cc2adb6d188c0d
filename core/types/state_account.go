package types

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// StateAccount is the sandbox representation of an account.
type StateAccount struct {
	Nonce   uint64
	Balance *uint256.Int
}

// NewStateAccount returns an account with zero nonce and the given balance.
func NewStateAccount(balance *uint256.Int) *StateAccount {
	if balance == nil {
		balance = new(uint256.Int)
	}
	return &StateAccount{Balance: new(uint256.Int).Set(balance)}
}

// Copy returns a deep copy of the account.
func (acct *StateAccount) Copy() *StateAccount {
	return &StateAccount{
		Nonce:   acct.Nonce,
		Balance: new(uint256.Int).Set(acct.Balance),
	}
}

// ContractInfo is the metadata kept for every instantiated contract.
type ContractInfo struct {
	CodeHash common.Hash
	Deployer AccountID
	Salt     []byte
}
