package core

import "github.com/ethereum/go-ethereum/metrics"

var (
	instantiateMeter    = metrics.NewRegisteredMeter("sandbox/dispatch/instantiate", nil)
	callMeter           = metrics.NewRegisteredMeter("sandbox/dispatch/call", nil)
	dispatchFailedMeter = metrics.NewRegisteredMeter("sandbox/dispatch/failed", nil)
	codeStoredMeter     = metrics.NewRegisteredMeter("sandbox/code/stored", nil)
)
