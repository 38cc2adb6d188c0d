package harness

import "github.com/ethereum/go-ethereum/metrics"

var (
	scenarioPassedMeter = metrics.NewRegisteredMeter("harness/scenario/passed", nil)
	scenarioFailedMeter = metrics.NewRegisteredMeter("harness/scenario/failed", nil)
	scenarioTimer       = metrics.NewRegisteredTimer("harness/scenario/duration", nil)
)
