package vm

import "errors"

// List execution errors
var (
	ErrContractNotFound   = errors.New("contract not found")
	ErrContractTrapped    = errors.New("contract trapped")
	ErrExecutionReverted  = errors.New("execution reverted")
	ErrMaxCallDepth       = errors.New("max call depth exceeded")
	ErrCodeRejected       = errors.New("code rejected")
	ErrEntrypointMissing  = errors.New("entry point missing")
	ErrInvalidHostPayload = errors.New("invalid host payload")
	ErrOutOfGas           = errors.New("out of gas")
)
