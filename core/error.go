package core

import (
	"errors"

	"github.com/tos-network/xharness/core/vm"
)

// List of dispatch errors returned by the sandbox. They are wrapped with
// context, match them with errors.Is.
var (
	// ErrDuplicateContract is returned if a contract already lives at the
	// derived address.
	ErrDuplicateContract = errors.New("duplicate contract")

	// ErrContractNotFound is returned if the call target is not a contract.
	ErrContractNotFound = vm.ErrContractNotFound

	// ErrInsufficientBalance is returned if the origin cannot cover the
	// existential deposit, the endowment or the code deposit.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrGasLimitTooHigh is returned if the requested gas exceeds the block maximum.
	ErrGasLimitTooHigh = errors.New("gas limit exceeds block maximum")

	// ErrOutOfGas is returned if the intrinsic cost or the metered execution
	// exceeds the gas limit.
	ErrOutOfGas = vm.ErrOutOfGas

	// ErrGasUintOverflow is returned when calculating gas usage.
	ErrGasUintOverflow = errors.New("gas uint64 overflow")

	// ErrStorageDepositLimitExhausted is returned if the code deposit exceeds
	// the caller supplied limit.
	ErrStorageDepositLimitExhausted = errors.New("storage deposit limit exhausted")

	// ErrCodeTooLarge is returned if the uploaded code exceeds params.MaxCodeLen.
	ErrCodeTooLarge = errors.New("code too large")

	// ErrEmptyCode is returned if an instantiation carries no code.
	ErrEmptyCode = errors.New("empty code")
)
