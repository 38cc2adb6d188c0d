// Package harness drives the cross-contract instantiation scenarios: a Flip
// contract and an Inc contract that forwards a toggle to it, deployed by two
// toolchains under every salt policy.
package harness

import (
	"github.com/holiman/uint256"
	"github.com/tos-network/xharness/core"
	"github.com/tos-network/xharness/core/rawdb"
	"github.com/tos-network/xharness/core/types"
	"github.com/tos-network/xharness/core/vm"
	"github.com/tos-network/xharness/crypto/hashing"
	"github.com/tos-network/xharness/params"
	"github.com/tos-network/xharness/tosdb"
)

// ExecutionContext is the contracts runtime the harness submits to.
type ExecutionContext interface {
	InstantiateWithCode(origin types.AccountID, value *uint256.Int, gasLimit uint64, storageDepositLimit *uint256.Int, code, data, salt []byte) error
	Call(origin, dest types.AccountID, value *uint256.Int, gasLimit uint64, storageDepositLimit *uint256.Int, data []byte) error
	DryRun(origin, dest types.AccountID, data []byte) ([]byte, error)

	Events() []types.EventRecord
	AccountNonce(id types.AccountID) uint64
	Hasher() hashing.Hasher
}

var _ ExecutionContext = (*core.Sandbox)(nil)

var (
	// Alice is the funded principal and sudo key of every context.
	Alice = fixedAccount(0x01)
	// Bob is a secondary identity without funds.
	Bob = fixedAccount(0x02)
)

func fixedAccount(b byte) types.AccountID {
	var id types.AccountID
	for i := range id {
		id[i] = b
	}
	return id
}

// NewContext builds a fresh, isolated execution context with Alice funded
// and set as sudo key.
func NewContext(hasher hashing.Hasher, config vm.Config) (*core.Sandbox, error) {
	return NewContextWithDB(rawdb.NewMemoryDatabase(), hasher, config)
}

// NewContextWithDB is like NewContext but keeps uploaded code in db.
func NewContextWithDB(db tosdb.KeyValueStore, hasher hashing.Hasher, config vm.Config) (*core.Sandbox, error) {
	sudo := Alice
	gspec := &core.Genesis{
		Alloc: core.GenesisAlloc{
			Alice: {Balance: uint256.NewInt(params.GenesisEndowment)},
		},
		Sudo:     &sudo,
		Hasher:   hasher,
		VMConfig: config,
	}
	return gspec.Commit(db)
}
