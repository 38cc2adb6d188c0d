package core

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
	"github.com/tos-network/xharness/core/state"
	"github.com/tos-network/xharness/core/types"
	"github.com/tos-network/xharness/core/vm"
	"github.com/tos-network/xharness/crypto/hashing"
	"github.com/tos-network/xharness/params"
	"github.com/tos-network/xharness/tosdb"
)

var errGenesisNoDB = errors.New("genesis commit requires a database")

// GenesisAccount is an account in the state of the genesis block.
type GenesisAccount struct {
	Balance *uint256.Int
	Nonce   uint64
}

// GenesisAlloc specifies the initial state of a sandbox.
type GenesisAlloc map[types.AccountID]GenesisAccount

// Genesis specifies the initial state of a sandbox execution context.
type Genesis struct {
	Alloc       GenesisAlloc
	Sudo        *types.AccountID // privileged key, must be allocated
	BlockNumber uint64           // block the events are recorded at, defaults to 1

	Hasher   hashing.Hasher // contract address and code hasher, defaults to blake2-256
	VMConfig vm.Config
}

// Commit builds a fresh sandbox from the genesis specification. Contract
// code is persisted in db.
func (g *Genesis) Commit(db tosdb.KeyValueStore) (*Sandbox, error) {
	if db == nil {
		return nil, errGenesisNoDB
	}
	number := g.BlockNumber
	if number == 0 {
		number = params.DefaultBlockNumber
	}
	hasher := g.Hasher
	if hasher == nil {
		hasher = hashing.Default
	}
	statedb := state.New(number)
	for id, account := range g.Alloc {
		if account.Balance != nil {
			statedb.SetBalance(id, account.Balance)
		}
		if account.Nonce > 0 {
			statedb.SetNonce(id, account.Nonce)
		}
	}
	var sudo *types.AccountID
	if g.Sudo != nil {
		if !statedb.Exist(*g.Sudo) {
			return nil, fmt.Errorf("sudo key %v not in genesis alloc", *g.Sudo)
		}
		key := *g.Sudo
		sudo = &key
	}
	// Genesis allocation is not revertible.
	statedb.ClearEvents()

	log.Debug("Committed sandbox genesis", "accounts", len(g.Alloc), "block", number, "hasher", hasher.Name())
	return newSandbox(db, statedb, hasher, sudo, g.VMConfig), nil
}

// MustCommit writes the genesis state and panics on error.
func (g *Genesis) MustCommit(db tosdb.KeyValueStore) *Sandbox {
	sandbox, err := g.Commit(db)
	if err != nil {
		panic(err)
	}
	return sandbox
}
