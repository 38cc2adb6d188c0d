// Copyright 2016 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package state

import (
	"github.com/holiman/uint256"
	"github.com/tos-network/xharness/core/types"
)

// journalEntry is a modification entry in the state change journal that can be
// reverted on demand.
type journalEntry interface {
	// revert undoes the changes introduced by this journal entry.
	revert(*StateDB)
}

// journal contains the list of state modifications applied since the last
// event log reset. These are tracked to be able to be reverted in case of a
// failed dispatch.
type journal struct {
	entries []journalEntry
}

func newJournal() *journal {
	return &journal{}
}

// append inserts a new modification entry to the end of the change journal.
func (j *journal) append(entry journalEntry) {
	j.entries = append(j.entries, entry)
}

// revert undoes a batch of journalled modifications.
func (j *journal) revert(statedb *StateDB, snapshot int) {
	for i := len(j.entries) - 1; i >= snapshot; i-- {
		j.entries[i].revert(statedb)
	}
	j.entries = j.entries[:snapshot]
}

// length returns the current number of entries in the journal.
func (j *journal) length() int {
	return len(j.entries)
}

type (
	createAccountChange struct {
		account types.AccountID
	}
	balanceChange struct {
		account types.AccountID
		prev    *uint256.Int
	}
	nonceChange struct {
		account types.AccountID
		prev    uint64
	}
	contractChange struct {
		account types.AccountID
	}
	storageChange struct {
		account types.AccountID
		key     string
		prev    []byte
		prevSet bool
	}
	addEventChange struct{}
)

func (ch createAccountChange) revert(s *StateDB) {
	delete(s.accounts, ch.account)
}

func (ch balanceChange) revert(s *StateDB) {
	s.accounts[ch.account].Balance = ch.prev
}

func (ch nonceChange) revert(s *StateDB) {
	s.accounts[ch.account].Nonce = ch.prev
}

func (ch contractChange) revert(s *StateDB) {
	delete(s.contracts, ch.account)
	delete(s.storage, ch.account)
}

func (ch storageChange) revert(s *StateDB) {
	if !ch.prevSet {
		delete(s.storage[ch.account], ch.key)
		return
	}
	s.storage[ch.account][ch.key] = ch.prev
}

func (ch addEventChange) revert(s *StateDB) {
	s.events = s.events[:len(s.events)-1]
}
