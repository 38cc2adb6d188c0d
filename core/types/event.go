package types

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Event is a single entry emitted by the sandbox runtime.
type Event interface {
	// Name returns the pallet-qualified name of the event.
	Name() string
}

// EventRecord is an event together with its position in the log.
type EventRecord struct {
	Index       uint64 // position in the event log
	BlockNumber uint64
	Event       Event
}

func (r EventRecord) String() string {
	return fmt.Sprintf("#%d@%d %s %+v", r.Index, r.BlockNumber, r.Event.Name(), r.Event)
}

// CodeStoredEvent is emitted the first time a code blob is uploaded.
type CodeStoredEvent struct {
	CodeHash common.Hash
}

// InstantiatedEvent is emitted when a contract has been deployed.
type InstantiatedEvent struct {
	Deployer AccountID
	Contract AccountID
}

// CalledEvent is emitted when a contract has been called, either by an
// account or by another contract.
type CalledEvent struct {
	Caller   AccountID
	Contract AccountID
}

// ContractEmittedEvent carries an opaque payload emitted by contract code.
type ContractEmittedEvent struct {
	Contract AccountID
	Data     hexutil.Bytes
}

// ExtrinsicSuccessEvent closes every dispatch that committed.
type ExtrinsicSuccessEvent struct{}

// ExtrinsicFailedEvent closes every dispatch that was reverted.
type ExtrinsicFailedEvent struct {
	Err string
}

func (CodeStoredEvent) Name() string       { return "Contracts.CodeStored" }
func (InstantiatedEvent) Name() string     { return "Contracts.Instantiated" }
func (CalledEvent) Name() string           { return "Contracts.Called" }
func (ContractEmittedEvent) Name() string  { return "Contracts.ContractEmitted" }
func (ExtrinsicSuccessEvent) Name() string { return "System.ExtrinsicSuccess" }
func (ExtrinsicFailedEvent) Name() string  { return "System.ExtrinsicFailed" }
