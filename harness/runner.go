package harness

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"github.com/tos-network/xharness/artifact"
	"github.com/tos-network/xharness/contracts"
	"github.com/tos-network/xharness/core/rawdb"
	"github.com/tos-network/xharness/core/vm"
	"github.com/tos-network/xharness/crypto/hashing"
	"github.com/tos-network/xharness/salt"
	"github.com/tos-network/xharness/tosdb"
	"github.com/tos-network/xharness/tosdb/leveldb"
	"golang.org/x/sync/errgroup"
)

const (
	codeStoreCache   = 16 // MB
	codeStoreHandles = 16
)

// Run is a single (pairing, salt policy) combination of a suite.
type Run struct {
	Pairing Pairing
	Policy  salt.Kind
}

// Suite is the ordered list of runs: every pairing under every policy.
type Suite struct {
	Runs []Run
}

// NewSuite builds the pairing x policy product, pairing-major.
func NewSuite(pairings []Pairing, policies []salt.Kind) *Suite {
	s := &Suite{Runs: make([]Run, 0, len(pairings)*len(policies))}
	for _, p := range pairings {
		for _, kind := range policies {
			s.Runs = append(s.Runs, Run{Pairing: p, Policy: kind})
		}
	}
	return s
}

// SuiteFromConfig builds the suite described by the configuration.
func SuiteFromConfig(config *Config) (*Suite, error) {
	if len(config.Toolchains) < 2 {
		return nil, fmt.Errorf("need two toolchains, have %d", len(config.Toolchains))
	}
	pairings := Pairings(config.Toolchains[0], config.Toolchains[1])
	if len(config.Pairings) > 0 {
		pairings = pairings[:0:0]
		for _, name := range config.Pairings {
			p, err := ParsePairing(name, config.Toolchains[:2]...)
			if err != nil {
				return nil, err
			}
			pairings = append(pairings, p)
		}
	}
	policies := config.Salts
	if len(policies) == 0 {
		policies = salt.AllKinds
	}
	return NewSuite(pairings, policies), nil
}

// Report collects the results of a suite execution.
type Report struct {
	ID       uuid.UUID
	Started  time.Time
	Duration time.Duration
	Results  []*Result
}

// Failed returns the number of failed runs.
func (r *Report) Failed() int {
	var n int
	for _, res := range r.Results {
		if !res.Passed() {
			n++
		}
	}
	return n
}

// Err joins the errors of every failed run, nil if all passed.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return errors.Join(errs...)
}

// Runner executes suites. Every run gets its own execution context, code
// store and salt policy; only the parsed bundles are shared.
type Runner struct {
	config Config
	hasher hashing.Hasher
	reader *artifact.Reader
}

// NewRunner creates a runner. The bundles are read from config.Contracts,
// or from the embedded set when it is empty.
func NewRunner(config Config) (*Runner, error) {
	var fsys fs.FS = contracts.FS
	if config.Contracts != "" {
		fsys = os.DirFS(config.Contracts)
	}
	return NewRunnerFS(config, fsys)
}

// NewRunnerFS creates a runner reading bundles from fsys.
func NewRunnerFS(config Config, fsys fs.FS) (*Runner, error) {
	hasher, err := hashing.ByName(config.Hasher)
	if err != nil {
		return nil, err
	}
	reader, err := artifact.NewReader(fsys, config.CacheSize)
	if err != nil {
		return nil, err
	}
	return &Runner{config: config, hasher: hasher, reader: reader}, nil
}

// NewContext builds a fresh execution context configured like the runs.
func (r *Runner) NewContext() (ExecutionContext, error) {
	return NewContext(r.hasher, vm.Config{ExecTimeout: r.config.ExecTimeout})
}

// Run executes every run of the suite, up to config.Parallel at a time.
// Results keep the suite order and a failed run does not stop the suite.
func (r *Runner) Run(suite *Suite) *Report {
	report := &Report{ID: uuid.New(), Started: time.Now()}
	log.Info("Starting harness suite", "id", report.ID, "runs", len(suite.Runs), "hasher", r.hasher.Name())

	report.Results = make([]*Result, len(suite.Runs))
	var g errgroup.Group
	g.SetLimit(max(r.config.Parallel, 1))
	for i, run := range suite.Runs {
		g.Go(func() error {
			report.Results[i] = r.runScenario(report.ID, run.Pairing, run.Policy)
			return nil
		})
	}
	g.Wait()
	report.Duration = time.Since(report.Started)

	log.Info("Harness suite finished", "id", report.ID, "runs", len(report.Results),
		"failed", report.Failed(), "elapsed", report.Duration)
	return report
}

// openCodeStore opens the code store of a single run.
func (r *Runner) openCodeStore(suite uuid.UUID, pairing Pairing, kind salt.Kind) (tosdb.KeyValueStore, error) {
	if r.config.DataDir == "" {
		return rawdb.NewMemoryDatabase(), nil
	}
	name := strings.ReplaceAll(pairing.String(), "->", "-") + "-" + kind.String()
	return leveldb.New(filepath.Join(r.config.DataDir, suite.String(), name), codeStoreCache, codeStoreHandles, false)
}

// RunScenario executes one pairing under one salt policy on a fresh context.
func (r *Runner) RunScenario(pairing Pairing, kind salt.Kind) *Result {
	return r.runScenario(uuid.New(), pairing, kind)
}

func (r *Runner) runScenario(suite uuid.UUID, pairing Pairing, kind salt.Kind) *Result {
	start := time.Now()
	res := &Result{Pairing: pairing.String(), Policy: kind}
	defer func() {
		res.Duration = time.Since(start)
		scenarioTimer.UpdateSince(start)
	}()

	setupErr := func(err error) *Result {
		res.Err = &ScenarioError{Pairing: res.Pairing, Policy: kind, Step: StepSetup, Err: err}
		scenarioFailedMeter.Mark(1)
		log.Warn("Scenario failed", "err", res.Err)
		return res
	}
	db, err := r.openCodeStore(suite, pairing, kind)
	if err != nil {
		return setupErr(err)
	}
	defer db.Close()

	ctx, err := NewContextWithDB(db, r.hasher, vm.Config{ExecTimeout: r.config.ExecTimeout})
	if err != nil {
		return setupErr(err)
	}
	policy, err := salt.New(kind, salt.Env{Nonces: ctx, Account: Alice, Hasher: ctx.Hasher()})
	if err != nil {
		return setupErr(err)
	}
	s := &scenario{
		pairing: pairing,
		policy:  policy,
		ctx:     ctx,
		driver:  NewDriver(ctx, r.config.GasLimit),
		reader:  r.reader,
		result:  res,
	}
	if err := s.run(); err != nil {
		res.Err = err
		scenarioFailedMeter.Mark(1)
		log.Warn("Scenario failed", "err", err)
		return res
	}
	scenarioPassedMeter.Mark(1)
	log.Info("Scenario passed", "pairing", res.Pairing, "salt", kind, "flip", res.Flip, "inc", res.Inc)
	return res
}
