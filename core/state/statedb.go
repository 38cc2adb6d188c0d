// Package state provides the in-memory account, contract and event state of
// the sandbox runtime.
package state

import (
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/tos-network/xharness/core/types"
)

type revision struct {
	id           int
	journalIndex int
}

// StateDB keeps accounts, contract metadata, contract storage and the event
// log. Every mutation is journalled so that a failed dispatch can be rolled
// back with RevertToSnapshot, including the events it emitted.
type StateDB struct {
	accounts  map[types.AccountID]*types.StateAccount
	contracts map[types.AccountID]*types.ContractInfo
	storage   map[types.AccountID]map[string][]byte

	events      []types.EventRecord
	blockNumber uint64

	journal        *journal
	validRevisions []revision
	nextRevisionId int
}

// New creates an empty state for the given block.
func New(blockNumber uint64) *StateDB {
	return &StateDB{
		accounts:    make(map[types.AccountID]*types.StateAccount),
		contracts:   make(map[types.AccountID]*types.ContractInfo),
		storage:     make(map[types.AccountID]map[string][]byte),
		blockNumber: blockNumber,
		journal:     newJournal(),
	}
}

// BlockNumber returns the block the events are recorded at.
func (s *StateDB) BlockNumber() uint64 {
	return s.blockNumber
}

// Exist reports whether the given account is known.
func (s *StateDB) Exist(addr types.AccountID) bool {
	return s.accounts[addr] != nil
}

// getOrNewAccount returns the account, creating an empty one if needed.
func (s *StateDB) getOrNewAccount(addr types.AccountID) *types.StateAccount {
	acct := s.accounts[addr]
	if acct == nil {
		acct = types.NewStateAccount(nil)
		s.accounts[addr] = acct
		s.journal.append(createAccountChange{account: addr})
		accountUpdatedMeter.Mark(1)
	}
	return acct
}

// GetBalance retrieves a copy of the balance of the given account, or zero.
func (s *StateDB) GetBalance(addr types.AccountID) *uint256.Int {
	if acct := s.accounts[addr]; acct != nil {
		return new(uint256.Int).Set(acct.Balance)
	}
	return new(uint256.Int)
}

// SetBalance overwrites the balance of the given account.
func (s *StateDB) SetBalance(addr types.AccountID, amount *uint256.Int) {
	acct := s.getOrNewAccount(addr)
	s.journal.append(balanceChange{account: addr, prev: acct.Balance})
	acct.Balance = new(uint256.Int).Set(amount)
	accountUpdatedMeter.Mark(1)
}

// AddBalance adds amount to the account balance.
func (s *StateDB) AddBalance(addr types.AccountID, amount *uint256.Int) {
	s.SetBalance(addr, new(uint256.Int).Add(s.GetBalance(addr), amount))
}

// SubBalance subtracts amount from the account balance. It fails without
// touching the state if the balance is insufficient.
func (s *StateDB) SubBalance(addr types.AccountID, amount *uint256.Int) error {
	balance := s.GetBalance(addr)
	if balance.Lt(amount) {
		return fmt.Errorf("balance %v below %v", balance, amount)
	}
	s.SetBalance(addr, balance.Sub(balance, amount))
	return nil
}

// GetNonce returns the account nonce, zero for unknown accounts.
func (s *StateDB) GetNonce(addr types.AccountID) uint64 {
	if acct := s.accounts[addr]; acct != nil {
		return acct.Nonce
	}
	return 0
}

// SetNonce overwrites the account nonce.
func (s *StateDB) SetNonce(addr types.AccountID, nonce uint64) {
	acct := s.getOrNewAccount(addr)
	s.journal.append(nonceChange{account: addr, prev: acct.Nonce})
	acct.Nonce = nonce
	accountUpdatedMeter.Mark(1)
}

// GetContract returns the metadata of a deployed contract, or nil.
func (s *StateDB) GetContract(addr types.AccountID) *types.ContractInfo {
	return s.contracts[addr]
}

// CreateContract registers a contract at addr. The caller must have checked
// that no contract lives there yet.
func (s *StateDB) CreateContract(addr types.AccountID, codeHash common.Hash, deployer types.AccountID, salt []byte) {
	s.getOrNewAccount(addr)
	s.contracts[addr] = &types.ContractInfo{
		CodeHash: codeHash,
		Deployer: deployer,
		Salt:     common.CopyBytes(salt),
	}
	s.storage[addr] = make(map[string][]byte)
	s.journal.append(contractChange{account: addr})
}

// GetStorage reads a value from contract storage. Missing keys yield nil.
func (s *StateDB) GetStorage(addr types.AccountID, key string) []byte {
	return common.CopyBytes(s.storage[addr][key])
}

// SetStorage writes a value into contract storage.
func (s *StateDB) SetStorage(addr types.AccountID, key string, value []byte) {
	slots := s.storage[addr]
	if slots == nil {
		slots = make(map[string][]byte)
		s.storage[addr] = slots
	}
	prev, ok := slots[key]
	s.journal.append(storageChange{account: addr, key: key, prev: prev, prevSet: ok})
	slots[key] = common.CopyBytes(value)
	storageUpdatedMeter.Mark(1)
}

// AddEvent appends an event to the log.
func (s *StateDB) AddEvent(ev types.Event) {
	s.events = append(s.events, types.EventRecord{
		Index:       uint64(len(s.events)),
		BlockNumber: s.blockNumber,
		Event:       ev,
	})
	s.journal.append(addEventChange{})
	eventEmittedMeter.Mark(1)
}

// Events returns a copy of the event log, oldest first.
func (s *StateDB) Events() []types.EventRecord {
	out := make([]types.EventRecord, len(s.events))
	copy(out, s.events)
	return out
}

// ClearEvents empties the event log. It also finalises the journal, so any
// outstanding snapshot becomes invalid.
func (s *StateDB) ClearEvents() {
	s.events = nil
	s.Finalise()
}

// Finalise commits every journalled change: the journal is reset and all
// outstanding snapshots become invalid.
func (s *StateDB) Finalise() {
	s.journal = newJournal()
	s.validRevisions = s.validRevisions[:0]
}

// Snapshot returns an identifier for the current revision of the state.
func (s *StateDB) Snapshot() int {
	id := s.nextRevisionId
	s.nextRevisionId++
	s.validRevisions = append(s.validRevisions, revision{id, s.journal.length()})
	return id
}

// RevertToSnapshot reverts all state changes made since the given revision.
func (s *StateDB) RevertToSnapshot(revid int) {
	// Find the snapshot in the stack of valid snapshots.
	idx := sort.Search(len(s.validRevisions), func(i int) bool {
		return s.validRevisions[i].id >= revid
	})
	if idx == len(s.validRevisions) || s.validRevisions[idx].id != revid {
		panic(fmt.Errorf("revision id %v cannot be reverted", revid))
	}
	snapshot := s.validRevisions[idx].journalIndex

	s.journal.revert(s, snapshot)
	s.validRevisions = s.validRevisions[:idx]
	revertedMeter.Mark(1)
}
