// Package vm provides the contract execution environment of the sandbox.
// Code is dispatched to a Lua or a WebAssembly machine depending on its
// leading bytes.
package vm

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
	"github.com/tos-network/xharness/core/types"
	"github.com/tos-network/xharness/params"
)

var wasmMagic = []byte{0x00, 0x61, 0x73, 0x6d}

// Config are the configuration options for the VM.
type Config struct {
	MaxCallDepth int           // frames allowed on the call stack
	ExecTimeout  time.Duration // wall-clock bound for one top-level execution, zero disables it
}

// BlockContext provides auxiliary information for contract execution.
type BlockContext struct {
	GetCode     GetCodeFunc
	BlockNumber uint64
}

// VM runs contract entry points against a StateDB. It is not safe for
// concurrent use.
type VM struct {
	Context BlockContext
	StateDB StateDB
	Config  Config

	lua   *LuaMachine
	wasm  *WasmMachine
	gas   uint64
	depth int
	ctx   context.Context
}

// NewVM returns a new VM.
func NewVM(blockCtx BlockContext, statedb StateDB, config Config) *VM {
	if config.MaxCallDepth <= 0 {
		config.MaxCallDepth = params.MaxCallDepth
	}
	return &VM{
		Context: blockCtx,
		StateDB: statedb,
		Config:  config,
		lua:     NewLuaMachine(),
		wasm:    NewWasmMachine(),
		gas:     math.MaxUint64,
	}
}

// Depth returns the current call depth.
func (vm *VM) Depth() int { return vm.depth }

// Machine selects the machine able to run code.
func (vm *VM) Machine(code []byte) Machine {
	if bytes.HasPrefix(code, wasmMagic) {
		return vm.wasm
	}
	return vm.lua
}

// Validate checks that code is loadable by its machine.
func (vm *VM) Validate(code []byte) error {
	if err := vm.Machine(code).Validate(code); err != nil {
		return fmt.Errorf("%w: %v", ErrCodeRejected, err)
	}
	return nil
}

// Deploy runs the constructor of a contract that has already been registered
// at address. State changes are reverted if the constructor fails.
func (vm *VM) Deploy(caller, address types.AccountID, info *types.ContractInfo, code, input []byte, value *uint256.Int) ([]byte, error) {
	contract := NewContract(caller, address, info.CodeHash, code, input, value)
	return vm.exec(contract, EntryDeploy)
}

// Call executes the message entry point of the contract at address. State
// changes are reverted if the call fails.
func (vm *VM) Call(caller, address types.AccountID, input []byte, value *uint256.Int) ([]byte, error) {
	info := vm.StateDB.GetContract(address)
	if info == nil {
		return nil, fmt.Errorf("%w: %v", ErrContractNotFound, address)
	}
	contract := NewContract(caller, address, info.CodeHash, vm.Context.GetCode(info.CodeHash), input, value)
	ret, err := vm.exec(contract, EntryCall)
	if err != nil {
		return nil, err
	}
	vm.StateDB.AddEvent(types.CalledEvent{Caller: caller, Contract: address})
	return ret, nil
}

func (vm *VM) exec(contract *Contract, entry string) ([]byte, error) {
	if vm.depth >= vm.Config.MaxCallDepth {
		return nil, ErrMaxCallDepth
	}
	if vm.depth == 0 {
		ctx, cancel := context.Background(), context.CancelFunc(func() {})
		if vm.Config.ExecTimeout > 0 {
			ctx, cancel = context.WithTimeout(ctx, vm.Config.ExecTimeout)
		}
		vm.ctx = ctx
		defer func() {
			cancel()
			vm.ctx = nil
		}()
	}
	vm.depth++
	defer func() { vm.depth-- }()

	machine := vm.Machine(contract.Code)
	snapshot := vm.StateDB.Snapshot()
	ret, err := machine.Execute(&frame{vm: vm, contract: contract}, contract, entry)
	if err != nil {
		vm.StateDB.RevertToSnapshot(snapshot)
		log.Debug("Contract execution failed", "machine", machine.Name(), "entry", entry,
			"contract", contract.Address, "depth", vm.depth, "err", err)
		return nil, err
	}
	return ret, nil
}

// frame implements Host for a single executing contract.
type frame struct {
	vm       *VM
	contract *Contract
}

func (f *frame) Context() context.Context { return f.vm.ctx }

func (f *frame) GetStorage(key string) []byte {
	return f.vm.StateDB.GetStorage(f.contract.Address, key)
}

func (f *frame) SetStorage(key string, value []byte) error {
	if err := f.vm.UseGas(params.StorageWriteGas); err != nil {
		return err
	}
	f.vm.StateDB.SetStorage(f.contract.Address, key, value)
	return nil
}

func (f *frame) Emit(data []byte) error {
	if err := f.vm.UseGas(params.EmitGas); err != nil {
		return err
	}
	f.vm.StateDB.AddEvent(types.ContractEmittedEvent{Contract: f.contract.Address, Data: data})
	return nil
}

func (f *frame) Call(dest types.AccountID, input []byte) ([]byte, error) {
	if err := f.vm.UseGas(params.CallBaseGas); err != nil {
		return nil, err
	}
	return f.vm.Call(f.contract.Address, dest, input, new(uint256.Int))
}
