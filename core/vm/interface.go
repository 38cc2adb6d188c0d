package vm

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tos-network/xharness/core/types"
)

// StateDB is the state the VM reads and journals into.
type StateDB interface {
	GetContract(types.AccountID) *types.ContractInfo
	GetStorage(types.AccountID, string) []byte
	SetStorage(types.AccountID, string, []byte)
	AddEvent(types.Event)

	Snapshot() int
	RevertToSnapshot(int)
}

// GetCodeFunc returns the code stored under the given hash.
type GetCodeFunc func(common.Hash) []byte

// Host is the environment a running contract talks to. Storage and events
// are scoped to the executing contract.
type Host interface {
	Context() context.Context
	GetStorage(key string) []byte
	SetStorage(key string, value []byte) error
	Emit(data []byte) error
	Call(dest types.AccountID, input []byte) ([]byte, error)
}

// Machine executes contract code of one format.
type Machine interface {
	// Name returns the short machine name used in logs.
	Name() string

	// Validate checks that code can be loaded by the machine without running it.
	Validate(code []byte) error

	// Execute runs the entry point of the contract code.
	Execute(host Host, contract *Contract, entry string) ([]byte, error)
}
