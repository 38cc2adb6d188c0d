package vm

import "fmt"

// SetGas resets the gas available to the next dispatch.
func (vm *VM) SetGas(gas uint64) { vm.gas = gas }

// GasLeft returns the remaining gas.
func (vm *VM) GasLeft() uint64 { return vm.gas }

// UseGas attempts the use gas and returns ErrOutOfGas if there is not
// enough left. The remaining gas is untouched on failure.
func (vm *VM) UseGas(gas uint64) error {
	if vm.gas < gas {
		return fmt.Errorf("%w: have %d, want %d", ErrOutOfGas, vm.gas, gas)
	}
	vm.gas -= gas
	return nil
}
