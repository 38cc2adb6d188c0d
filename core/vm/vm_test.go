package vm

import (
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"github.com/tos-network/xharness/core/state"
	"github.com/tos-network/xharness/core/types"
	"github.com/tos-network/xharness/params"
)

var (
	alice = types.HexToAccountID("0x0101010101010101010101010101010101010101010101010101010101010101")

	// (module (func (export "deploy")) (func (export "call")))
	noopWasm = common.FromHex("0x0061736d01000000" + "0104016000000303020000" +
		"07110206" + "6465706c6f79" + "000004" + "63616c6c" + "0001" + "0a070202000b02000b")
	// (module (func (export "deploy")) (func (export "call") unreachable))
	trapWasm = common.FromHex("0x0061736d01000000" + "0104016000000303020000" +
		"07110206" + "6465706c6f79" + "000004" + "63616c6c" + "0001" + "0a08020200" + "0b0300000b")
	// (module (func (export "deploy")))
	deployOnlyWasm = common.FromHex("0x0061736d01000000" + "01040160000003020100" +
		"070a0106" + "6465706c6f79" + "0000" + "0a040102000b")
)

const flipScript = `
function deploy()
  seal.require(seal.selector() == "0x9bae9d5e", "unknown constructor")
  seal.set("flag", "false")
end

function call()
  local sel = seal.selector()
  if sel == "0x633aa551" then
    local next = "true"
    if seal.get("flag") == "true" then next = "false" end
    seal.set("flag", next)
    if next == "true" then seal.emit("0x01") else seal.emit("0x00") end
  elseif sel == "0x2f865bd9" then
    if seal.get("flag") == "true" then seal.ret("0x01") else seal.ret("0x00") end
  else
    seal.revert("unknown message " .. sel)
  end
end
`

const forwardScript = `
function deploy()
  seal.set("target", seal.args())
end

function call()
  seal.ret(seal.call(seal.get("target"), seal.args()))
end
`

const recurseScript = `
function deploy() end
function call() seal.call(seal.address, seal.input()) end
`

type testEnv struct {
	statedb *state.StateDB
	codes   map[common.Hash][]byte
	vm      *VM
}

func newTestEnv(config Config) *testEnv {
	env := &testEnv{statedb: state.New(1), codes: make(map[common.Hash][]byte)}
	env.vm = NewVM(BlockContext{
		GetCode:     func(h common.Hash) []byte { return env.codes[h] },
		BlockNumber: 1,
	}, env.statedb, config)
	return env
}

// deploy registers code at addr and runs its constructor.
func (env *testEnv) deploy(t *testing.T, addr types.AccountID, code, input []byte) error {
	t.Helper()
	hash := crypto.Keccak256Hash(code)
	env.codes[hash] = code
	env.statedb.CreateContract(addr, hash, alice, nil)
	_, err := env.vm.Deploy(alice, addr, env.statedb.GetContract(addr), code, input, nil)
	return err
}

func TestLuaFlipLifecycle(t *testing.T) {
	env := newTestEnv(Config{})
	flip := types.HexToAccountID("0xf1")

	require.NoError(t, env.deploy(t, flip, []byte(flipScript), common.FromHex("0x9bae9d5e")))
	require.Equal(t, []byte("false"), env.statedb.GetStorage(flip, "flag"))

	_, err := env.vm.Call(alice, flip, common.FromHex("0x633aa551"), nil)
	require.NoError(t, err)
	ret, err := env.vm.Call(alice, flip, common.FromHex("0x2f865bd9"), nil)
	require.NoError(t, err)
	require.Equal(t, []byte{0x01}, ret)

	events := env.statedb.Events()
	require.Len(t, events, 3)
	require.Equal(t, types.ContractEmittedEvent{Contract: flip, Data: []byte{0x01}}, events[0].Event)
	require.Equal(t, types.CalledEvent{Caller: alice, Contract: flip}, events[1].Event)
}

func TestLuaConstructorRejectsSelector(t *testing.T) {
	env := newTestEnv(Config{})
	flip := types.HexToAccountID("0xf1")

	err := env.deploy(t, flip, []byte(flipScript), common.FromHex("0xdeadbeef"))
	require.ErrorIs(t, err, ErrExecutionReverted)
	require.Nil(t, env.statedb.GetStorage(flip, "flag"))
}

func TestLuaRevertRollsBackState(t *testing.T) {
	env := newTestEnv(Config{})
	flip := types.HexToAccountID("0xf1")
	require.NoError(t, env.deploy(t, flip, []byte(flipScript), common.FromHex("0x9bae9d5e")))

	_, err := env.vm.Call(alice, flip, common.FromHex("0x00000000"), nil)
	require.ErrorIs(t, err, ErrExecutionReverted)
	require.Contains(t, err.Error(), "unknown message 0x00000000")
	require.Equal(t, []byte("false"), env.statedb.GetStorage(flip, "flag"))
}

func TestLuaNestedCall(t *testing.T) {
	env := newTestEnv(Config{})
	flip := types.HexToAccountID("0xf1")
	fwd := types.HexToAccountID("0xf2")

	require.NoError(t, env.deploy(t, flip, []byte(flipScript), common.FromHex("0x9bae9d5e")))
	require.NoError(t, env.deploy(t, fwd, []byte(forwardScript), append(common.FromHex("0x9bae9d5e"), flip.Bytes()...)))

	// Toggle through the forwarder, then read back through it.
	_, err := env.vm.Call(alice, fwd, common.FromHex("0x00000000633aa551"), nil)
	require.NoError(t, err)
	ret, err := env.vm.Call(alice, fwd, common.FromHex("0x000000002f865bd9"), nil)
	require.NoError(t, err)
	require.Equal(t, []byte{0x01}, ret)

	var nested bool
	for _, rec := range env.statedb.Events() {
		if ev, ok := rec.Event.(types.CalledEvent); ok && ev.Caller == fwd && ev.Contract == flip {
			nested = true
		}
	}
	require.True(t, nested, "nested call not recorded")
}

func TestLuaNestedFailurePropagates(t *testing.T) {
	env := newTestEnv(Config{})
	fwd := types.HexToAccountID("0xf2")
	missing := types.HexToAccountID("0xdead")

	require.NoError(t, env.deploy(t, fwd, []byte(forwardScript), append(common.FromHex("0x9bae9d5e"), missing.Bytes()...)))
	_, err := env.vm.Call(alice, fwd, common.FromHex("0x00000000633aa551"), nil)
	require.ErrorIs(t, err, ErrContractNotFound)
}

func TestMaxCallDepth(t *testing.T) {
	env := newTestEnv(Config{MaxCallDepth: 4})
	self := types.HexToAccountID("0xaa")
	require.NoError(t, env.deploy(t, self, []byte(recurseScript), nil))

	_, err := env.vm.Call(alice, self, common.FromHex("0x01020304"), nil)
	require.ErrorIs(t, err, ErrMaxCallDepth)
	require.Zero(t, env.vm.Depth())
}

func TestLuaEntrypointMissing(t *testing.T) {
	env := newTestEnv(Config{})
	addr := types.HexToAccountID("0xab")
	err := env.deploy(t, addr, []byte("function call() end"), nil)
	require.ErrorIs(t, err, ErrEntrypointMissing)
}

func TestLuaTrap(t *testing.T) {
	env := newTestEnv(Config{})
	addr := types.HexToAccountID("0xab")
	err := env.deploy(t, addr, []byte("function deploy() error('boom') end"), nil)
	require.ErrorIs(t, err, ErrContractTrapped)
	require.Contains(t, err.Error(), "boom")

	err = env.deploy(t, addr, []byte("function deploy() seal.emit('zz') end"), nil)
	require.ErrorIs(t, err, ErrInvalidHostPayload)
}

func TestLuaSandboxedLibraries(t *testing.T) {
	env := newTestEnv(Config{})
	addr := types.HexToAccountID("0xab")
	err := env.deploy(t, addr, []byte("function deploy() os.exit(1) end"), nil)
	require.ErrorIs(t, err, ErrContractTrapped)
}

func TestExecTimeout(t *testing.T) {
	env := newTestEnv(Config{ExecTimeout: 50 * time.Millisecond})
	addr := types.HexToAccountID("0xab")

	start := time.Now()
	err := env.deploy(t, addr, []byte("function deploy() while true do end end"), nil)
	require.ErrorIs(t, err, ErrContractTrapped)
	require.Less(t, time.Since(start), 10*time.Second)
}

func TestValidate(t *testing.T) {
	env := newTestEnv(Config{})
	require.NoError(t, env.vm.Validate([]byte(flipScript)))
	require.NoError(t, env.vm.Validate(noopWasm))

	tests := map[string][]byte{
		"lua syntax":      []byte("function deploy("),
		"truncated wasm":  noopWasm[:12],
		"missing call fn": deployOnlyWasm,
	}
	for name, code := range tests {
		if err := env.vm.Validate(code); !errors.Is(err, ErrCodeRejected) {
			t.Errorf("%s: have %v, want %v", name, err, ErrCodeRejected)
		}
	}
}

func TestWasmExecution(t *testing.T) {
	env := newTestEnv(Config{})
	noop := types.HexToAccountID("0x0a")
	trap := types.HexToAccountID("0x0b")

	require.Equal(t, "wasm", env.vm.Machine(noopWasm).Name())
	require.NoError(t, env.deploy(t, noop, noopWasm, nil))
	ret, err := env.vm.Call(alice, noop, nil, uint256.NewInt(0))
	require.NoError(t, err)
	require.Empty(t, ret)

	require.NoError(t, env.deploy(t, trap, trapWasm, nil))
	_, err = env.vm.Call(alice, trap, nil, nil)
	require.ErrorIs(t, err, ErrContractTrapped)
}

func TestGasMetering(t *testing.T) {
	env := newTestEnv(Config{})
	flip := types.HexToAccountID("0xf1")
	require.NoError(t, env.deploy(t, flip, []byte(flipScript), common.FromHex("0x9bae9d5e")))

	// A toggle writes storage once and emits once.
	env.vm.SetGas(params.StorageWriteGas + params.EmitGas - 1)
	_, err := env.vm.Call(alice, flip, common.FromHex("0x633aa551"), nil)
	require.ErrorIs(t, err, ErrOutOfGas)
	require.Equal(t, []byte("false"), env.statedb.GetStorage(flip, "flag"))

	env.vm.SetGas(params.StorageWriteGas + params.EmitGas)
	_, err = env.vm.Call(alice, flip, common.FromHex("0x633aa551"), nil)
	require.NoError(t, err)
	require.Zero(t, env.vm.GasLeft())
}
