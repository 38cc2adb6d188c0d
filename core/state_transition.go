// Copyright 2014 The go-ethereum Authors
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

package core

import (
	"fmt"
	"math"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/tos-network/xharness/core/types"
	"github.com/tos-network/xharness/params"
)

// Message is a single contracts extrinsic: either an instantiation carrying
// code (Dest == nil) or a call to an existing contract.
type Message struct {
	Origin              types.AccountID
	Dest                *types.AccountID
	Value               *uint256.Int
	GasLimit            uint64
	StorageDepositLimit *uint256.Int // nil means unbounded
	Code                []byte
	Data                []byte
	Salt                []byte
}

// ExecutionResult includes all output after executing a given message.
type ExecutionResult struct {
	UsedGas    uint64          // Total used gas
	Err        error           // Any error encountered during dispatch
	ReturnData []byte          // Returned data
	Contract   types.AccountID // Instantiated contract, zero for calls
}

// Unwrap returns the internal error.
func (result *ExecutionResult) Unwrap() error {
	return result.Err
}

// Failed returns true if the dispatch failed.
func (result *ExecutionResult) Failed() bool { return result.Err != nil }

// Return returns the data after execution if no error occurred.
func (result *ExecutionResult) Return() []byte {
	if result.Err != nil {
		return nil
	}
	return common.CopyBytes(result.ReturnData)
}

// IntrinsicGas computes the flat gas charged before any contract code runs.
func IntrinsicGas(code []byte, contractCreation bool) (uint64, error) {
	if !contractCreation {
		return params.CallBaseGas, nil
	}
	gas := params.InstantiateBaseGas
	if n := uint64(len(code)); n > 0 {
		if (math.MaxUint64-gas)/params.CodeByteGas < n {
			return 0, ErrGasUintOverflow
		}
		gas += n * params.CodeByteGas
	}
	return gas, nil
}

// StorageDeposit is the balance reserved for keeping code of the given size.
func StorageDeposit(code []byte) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(uint64(len(code))), uint256.NewInt(params.DepositPerByte))
}

// stateTransition applies one message against the sandbox state.
type stateTransition struct {
	sb  *Sandbox
	msg *Message
}

// preCheck validates the message before the origin nonce is bumped. Failures
// here leave no trace in the state or the event log.
func (st *stateTransition) preCheck() error {
	msg := st.msg
	if msg.GasLimit > params.MaxBlockGas {
		return fmt.Errorf("%w: have %d, max %d", ErrGasLimitTooHigh, msg.GasLimit, params.MaxBlockGas)
	}
	if have, want := st.sb.statedb.GetBalance(msg.Origin), uint256.NewInt(params.ExistentialDeposit); have.Lt(want) {
		return fmt.Errorf("%w: origin %v have %v want %v", ErrInsufficientBalance, msg.Origin, have, want)
	}
	return nil
}

// transitionDb dispatches the message. The returned error is non-nil only if
// the message failed its pre-dispatch checks; dispatch failures are reported
// in the result and have been reverted.
func (st *stateTransition) transitionDb() (*ExecutionResult, error) {
	if err := st.preCheck(); err != nil {
		return nil, err
	}
	var (
		msg     = st.msg
		statedb = st.sb.statedb
	)
	// The nonce bump survives a failed dispatch.
	statedb.SetNonce(msg.Origin, statedb.GetNonce(msg.Origin)+1)

	snapshot := statedb.Snapshot()
	result := &ExecutionResult{}
	st.sb.vm.SetGas(msg.GasLimit)

	var err error
	if msg.Dest == nil {
		result.Contract, err = st.instantiate()
	} else {
		result.ReturnData, err = st.call(*msg.Dest)
	}
	result.UsedGas = msg.GasLimit - st.sb.vm.GasLeft()

	if err != nil {
		statedb.RevertToSnapshot(snapshot)
		st.sb.discardCode()
		statedb.AddEvent(types.ExtrinsicFailedEvent{Err: err.Error()})
		result.Err = err
		result.Contract = types.AccountID{}
		statedb.Finalise()
		dispatchFailedMeter.Mark(1)
		return result, nil
	}
	st.sb.flushCode()
	statedb.AddEvent(types.ExtrinsicSuccessEvent{})
	statedb.Finalise()
	return result, nil
}

func (st *stateTransition) instantiate() (types.AccountID, error) {
	var (
		msg     = st.msg
		statedb = st.sb.statedb
	)
	instantiateMeter.Mark(1)

	if len(msg.Code) == 0 {
		return types.AccountID{}, ErrEmptyCode
	}
	if len(msg.Code) > params.MaxCodeLen {
		return types.AccountID{}, fmt.Errorf("%w: size %d, max %d", ErrCodeTooLarge, len(msg.Code), params.MaxCodeLen)
	}
	gas, err := IntrinsicGas(msg.Code, true)
	if err != nil {
		return types.AccountID{}, err
	}
	if err := st.sb.vm.UseGas(gas); err != nil {
		return types.AccountID{}, fmt.Errorf("%w: intrinsic cost %d", ErrOutOfGas, gas)
	}
	if err := st.sb.vm.Validate(msg.Code); err != nil {
		return types.AccountID{}, err
	}
	codeHash := st.sb.hasher.Hash(msg.Code)
	if !st.sb.hasCode(codeHash) {
		deposit := StorageDeposit(msg.Code)
		if limit := msg.StorageDepositLimit; limit != nil && deposit.Gt(limit) {
			return types.AccountID{}, fmt.Errorf("%w: deposit %v, limit %v", ErrStorageDepositLimitExhausted, deposit, limit)
		}
		if err := statedb.SubBalance(msg.Origin, deposit); err != nil {
			return types.AccountID{}, fmt.Errorf("%w: code deposit: %v", ErrInsufficientBalance, err)
		}
		st.sb.stageCode(codeHash, msg.Code)
		statedb.AddEvent(types.CodeStoredEvent{CodeHash: codeHash})
	}
	address := ContractAddress(st.sb.hasher, msg.Origin, codeHash, msg.Data, msg.Salt)
	if statedb.GetContract(address) != nil {
		return types.AccountID{}, fmt.Errorf("%w: %v", ErrDuplicateContract, address)
	}
	statedb.CreateContract(address, codeHash, msg.Origin, msg.Salt)
	if err := st.transfer(msg.Origin, address, msg.Value); err != nil {
		return types.AccountID{}, err
	}
	if _, err := st.sb.vm.Deploy(msg.Origin, address, statedb.GetContract(address), msg.Code, msg.Data, msg.Value); err != nil {
		return types.AccountID{}, err
	}
	statedb.AddEvent(types.InstantiatedEvent{Deployer: msg.Origin, Contract: address})
	return address, nil
}

func (st *stateTransition) call(dest types.AccountID) ([]byte, error) {
	msg := st.msg
	callMeter.Mark(1)

	gas, _ := IntrinsicGas(nil, false)
	if err := st.sb.vm.UseGas(gas); err != nil {
		return nil, fmt.Errorf("%w: intrinsic cost %d", ErrOutOfGas, gas)
	}
	if st.sb.statedb.GetContract(dest) == nil {
		return nil, fmt.Errorf("%w: %v", ErrContractNotFound, dest)
	}
	if err := st.transfer(msg.Origin, dest, msg.Value); err != nil {
		return nil, err
	}
	return st.sb.vm.Call(msg.Origin, dest, msg.Data, msg.Value)
}

func (st *stateTransition) transfer(from, to types.AccountID, value *uint256.Int) error {
	if value == nil || value.IsZero() {
		return nil
	}
	if err := st.sb.statedb.SubBalance(from, value); err != nil {
		return fmt.Errorf("%w: transfer: %v", ErrInsufficientBalance, err)
	}
	st.sb.statedb.AddBalance(to, value)
	return nil
}
