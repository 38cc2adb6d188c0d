package core

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
	"github.com/tos-network/xharness/core/rawdb"
	"github.com/tos-network/xharness/core/state"
	"github.com/tos-network/xharness/core/types"
	"github.com/tos-network/xharness/core/vm"
	"github.com/tos-network/xharness/crypto/hashing"
	"github.com/tos-network/xharness/params"
	"github.com/tos-network/xharness/tosdb"
)

// Sandbox is an isolated contracts execution context: accounts, contracts,
// the event log and a code store. Dispatches are applied one at a time; a
// Sandbox is not safe for concurrent use.
type Sandbox struct {
	db      tosdb.KeyValueStore
	statedb *state.StateDB
	vm      *vm.VM
	hasher  hashing.Hasher
	sudo    *types.AccountID

	pending map[common.Hash][]byte // code uploaded by the running dispatch
}

func newSandbox(db tosdb.KeyValueStore, statedb *state.StateDB, hasher hashing.Hasher, sudo *types.AccountID, config vm.Config) *Sandbox {
	sb := &Sandbox{
		db:      db,
		statedb: statedb,
		hasher:  hasher,
		sudo:    sudo,
		pending: make(map[common.Hash][]byte),
	}
	sb.vm = vm.NewVM(vm.BlockContext{
		GetCode:     sb.code,
		BlockNumber: statedb.BlockNumber(),
	}, statedb, config)
	return sb
}

// InstantiateWithCode uploads code, derives the contract address from the
// deployer, code hash, constructor data and salt, and runs the constructor.
func (sb *Sandbox) InstantiateWithCode(origin types.AccountID, value *uint256.Int, gasLimit uint64, storageDepositLimit *uint256.Int, code, data, salt []byte) error {
	result, err := sb.Apply(&Message{
		Origin:              origin,
		Value:               value,
		GasLimit:            gasLimit,
		StorageDepositLimit: storageDepositLimit,
		Code:                code,
		Data:                data,
		Salt:                salt,
	})
	if err != nil {
		return err
	}
	if result.Failed() {
		return result.Err
	}
	log.Debug("Instantiated contract", "deployer", origin, "contract", result.Contract, "gas", result.UsedGas)
	return nil
}

// Call invokes the message entry point of the contract at dest.
func (sb *Sandbox) Call(origin, dest types.AccountID, value *uint256.Int, gasLimit uint64, storageDepositLimit *uint256.Int, data []byte) error {
	result, err := sb.Apply(&Message{
		Origin:              origin,
		Dest:                &dest,
		Value:               value,
		GasLimit:            gasLimit,
		StorageDepositLimit: storageDepositLimit,
		Data:                data,
	})
	if err != nil {
		return err
	}
	if result.Failed() {
		return result.Err
	}
	log.Debug("Called contract", "caller", origin, "contract", dest, "gas", result.UsedGas)
	return nil
}

// Apply dispatches a message. The error is set if the message was rejected
// before dispatch; dispatch failures are carried by the result.
func (sb *Sandbox) Apply(msg *Message) (*ExecutionResult, error) {
	st := &stateTransition{sb: sb, msg: msg}
	result, err := st.transitionDb()
	if err != nil {
		log.Debug("Rejected extrinsic", "origin", msg.Origin, "err", err)
		return nil, err
	}
	if result.Failed() {
		log.Debug("Extrinsic failed", "origin", msg.Origin, "err", result.Err)
	}
	return result, nil
}

// DryRun executes a call against the current state and discards every
// effect, including events and the nonce. It returns the contract output.
func (sb *Sandbox) DryRun(origin, dest types.AccountID, data []byte) ([]byte, error) {
	snapshot := sb.statedb.Snapshot()
	defer sb.statedb.RevertToSnapshot(snapshot)

	sb.vm.SetGas(params.MaxBlockGas)
	if sb.statedb.GetContract(dest) == nil {
		return nil, fmt.Errorf("%w: %v", ErrContractNotFound, dest)
	}
	return sb.vm.Call(origin, dest, data, new(uint256.Int))
}

// Events returns a copy of the event log, oldest first.
func (sb *Sandbox) Events() []types.EventRecord { return sb.statedb.Events() }

// ClearEvents empties the event log.
func (sb *Sandbox) ClearEvents() { sb.statedb.ClearEvents() }

// AccountNonce returns the number of dispatches submitted by id.
func (sb *Sandbox) AccountNonce(id types.AccountID) uint64 { return sb.statedb.GetNonce(id) }

// Balance returns the free balance of id.
func (sb *Sandbox) Balance(id types.AccountID) *uint256.Int { return sb.statedb.GetBalance(id) }

// SudoKey returns the privileged account, if one was configured.
func (sb *Sandbox) SudoKey() (types.AccountID, bool) {
	if sb.sudo == nil {
		return types.AccountID{}, false
	}
	return *sb.sudo, true
}

// BlockNumber returns the block the sandbox records events at.
func (sb *Sandbox) BlockNumber() uint64 { return sb.statedb.BlockNumber() }

// ContractInfo returns the metadata of the contract at id, or nil.
func (sb *Sandbox) ContractInfo(id types.AccountID) *types.ContractInfo {
	info := sb.statedb.GetContract(id)
	if info == nil {
		return nil
	}
	cpy := *info
	cpy.Salt = common.CopyBytes(info.Salt)
	return &cpy
}

// Code returns the code stored under hash.
func (sb *Sandbox) Code(hash common.Hash) []byte { return sb.code(hash) }

// Hasher returns the hasher used for code hashes and contract addresses.
func (sb *Sandbox) Hasher() hashing.Hasher { return sb.hasher }

func (sb *Sandbox) code(hash common.Hash) []byte {
	if code, ok := sb.pending[hash]; ok {
		return code
	}
	return rawdb.ReadCode(sb.db, hash)
}

func (sb *Sandbox) hasCode(hash common.Hash) bool {
	if _, ok := sb.pending[hash]; ok {
		return true
	}
	return rawdb.HasCode(sb.db, hash)
}

func (sb *Sandbox) stageCode(hash common.Hash, code []byte) {
	sb.pending[hash] = common.CopyBytes(code)
}

func (sb *Sandbox) flushCode() {
	for hash, code := range sb.pending {
		rawdb.WriteCode(sb.db, hash, code)
		codeStoredMeter.Mark(1)
	}
	sb.discardCode()
}

func (sb *Sandbox) discardCode() {
	sb.pending = make(map[common.Hash][]byte)
}
