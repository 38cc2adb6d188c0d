package state

import "github.com/ethereum/go-ethereum/metrics"

var (
	accountUpdatedMeter = metrics.NewRegisteredMeter("state/update/account", nil)
	storageUpdatedMeter = metrics.NewRegisteredMeter("state/update/storage", nil)
	eventEmittedMeter   = metrics.NewRegisteredMeter("state/event/emitted", nil)
	revertedMeter       = metrics.NewRegisteredMeter("state/revert", nil)
)
