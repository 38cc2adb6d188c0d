package harness

import (
	"errors"

	"github.com/tos-network/xharness/core/types"
)

// ErrResolutionNotFound is returned if the event log holds no matching event.
var ErrResolutionNotFound = errors.New("no instantiation in event log")

// LatestInstantiatedAddress returns the contract of the newest Instantiated
// event, scanning the log from the end.
func LatestInstantiatedAddress(events []types.EventRecord) (types.AccountID, error) {
	for i := len(events) - 1; i >= 0; i-- {
		switch ev := events[i].Event.(type) {
		case types.InstantiatedEvent:
			return ev.Contract, nil
		case *types.InstantiatedEvent:
			return ev.Contract, nil
		}
	}
	return types.AccountID{}, ErrResolutionNotFound
}

// LatestEmitted returns the payload of the newest ContractEmitted event of
// the given contract.
func LatestEmitted(events []types.EventRecord, contract types.AccountID) ([]byte, error) {
	for i := len(events) - 1; i >= 0; i-- {
		if ev, ok := events[i].Event.(types.ContractEmittedEvent); ok && ev.Contract == contract {
			return ev.Data, nil
		}
	}
	return nil, ErrResolutionNotFound
}
