package harness

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
	"github.com/tos-network/xharness/core/types"
	"github.com/tos-network/xharness/params"
)

// ErrDispatchFailed wraps every error the execution context returns for an
// instantiate or call request.
var ErrDispatchFailed = errors.New("dispatch failed")

// Driver submits instantiate and call requests with zero endowment, a fixed
// gas ceiling and no storage-deposit limit. Failures are reported, never
// retried, and the driver does not read the event log.
type Driver struct {
	ctx      ExecutionContext
	gasLimit uint64
}

// NewDriver creates a driver. A zero gasLimit selects params.HarnessGasLimit.
func NewDriver(ctx ExecutionContext, gasLimit uint64) *Driver {
	if gasLimit == 0 {
		gasLimit = params.HarnessGasLimit
	}
	return &Driver{ctx: ctx, gasLimit: gasLimit}
}

// Instantiate uploads code and instantiates it with the given constructor
// data and salt.
func (d *Driver) Instantiate(deployer types.AccountID, code, data, salt []byte) error {
	err := d.ctx.InstantiateWithCode(deployer, new(uint256.Int), d.gasLimit, nil, code, data, salt)
	if err != nil {
		return fmt.Errorf("%w: instantiate: %w", ErrDispatchFailed, err)
	}
	log.Trace("Submitted instantiation", "deployer", deployer, "code", len(code), "data", len(data), "salt", len(salt))
	return nil
}

// Call invokes a message on the contract at dest.
func (d *Driver) Call(deployer, dest types.AccountID, data []byte) error {
	err := d.ctx.Call(deployer, dest, new(uint256.Int), d.gasLimit, nil, data)
	if err != nil {
		return fmt.Errorf("%w: call %v: %w", ErrDispatchFailed, dest, err)
	}
	log.Trace("Submitted call", "caller", deployer, "contract", dest, "data", len(data))
	return nil
}
