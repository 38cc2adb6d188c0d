package vm

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/tos-network/xharness/core/types"
	lua "github.com/yuin/gopher-lua"
)

// LuaMachine runs contracts written as Lua scripts. A script defines the
// global functions deploy and call, and talks to the runtime through the
// "seal" table:
//
//	seal.input() / seal.selector() / seal.args()   hex encoded call data
//	seal.get(key) / seal.set(key, value)            contract storage (strings)
//	seal.call(addr, data)                           nested call, returns hex output
//	seal.emit(data)                                 ContractEmitted event
//	seal.ret(data)                                  set the return data
//	seal.revert(msg) / seal.require(cond, msg)      abort and revert
//	seal.caller / seal.address / seal.value         frame properties
//
// Binary values cross the boundary as 0x-prefixed hex strings.
type LuaMachine struct{}

// NewLuaMachine returns the Lua contract machine.
func NewLuaMachine() *LuaMachine { return &LuaMachine{} }

func (m *LuaMachine) Name() string { return "lua" }

// Validate compiles the script without running it.
func (m *LuaMachine) Validate(code []byte) error {
	L := newLuaState()
	defer L.Close()
	_, err := L.LoadString(string(code))
	return err
}

// Execute loads the script and invokes the requested entry point.
func (m *LuaMachine) Execute(host Host, contract *Contract, entry string) ([]byte, error) {
	L := newLuaState()
	defer L.Close()
	if ctx := host.Context(); ctx != nil {
		L.SetContext(ctx)
	}

	var (
		ret     []byte
		hostErr error // first failure raised by a host function
	)
	fail := func(L *lua.LState, err error) {
		if hostErr == nil {
			hostErr = err
		}
		L.RaiseError("%v", err)
	}
	checkHex := func(L *lua.LState, n int) []byte {
		data, err := hexutil.Decode(L.CheckString(n))
		if err != nil {
			fail(L, fmt.Errorf("%w: argument #%d: %v", ErrInvalidHostPayload, n, err))
		}
		return data
	}

	seal := L.NewTable()
	L.SetField(seal, "input", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(hexutil.Encode(contract.Input)))
		return 1
	}))
	L.SetField(seal, "selector", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(hexutil.Encode(contract.Selector())))
		return 1
	}))
	L.SetField(seal, "args", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(hexutil.Encode(contract.Args())))
		return 1
	}))
	L.SetField(seal, "get", L.NewFunction(func(L *lua.LState) int {
		val := host.GetStorage(L.CheckString(1))
		if val == nil {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(lua.LString(val))
		return 1
	}))
	L.SetField(seal, "set", L.NewFunction(func(L *lua.LState) int {
		if err := host.SetStorage(L.CheckString(1), []byte(L.CheckString(2))); err != nil {
			fail(L, err)
		}
		return 0
	}))
	L.SetField(seal, "call", L.NewFunction(func(L *lua.LState) int {
		addr, err := hexutil.Decode(L.CheckString(1))
		if err != nil || len(addr) != types.AccountIDLength {
			fail(L, fmt.Errorf("%w: callee %q", ErrInvalidHostPayload, L.CheckString(1)))
		}
		out, err := host.Call(types.BytesToAccountID(addr), checkHex(L, 2))
		if err != nil {
			fail(L, err)
		}
		L.Push(lua.LString(hexutil.Encode(out)))
		return 1
	}))
	L.SetField(seal, "emit", L.NewFunction(func(L *lua.LState) int {
		if err := host.Emit(checkHex(L, 1)); err != nil {
			fail(L, err)
		}
		return 0
	}))
	L.SetField(seal, "ret", L.NewFunction(func(L *lua.LState) int {
		ret = checkHex(L, 1)
		return 0
	}))
	L.SetField(seal, "revert", L.NewFunction(func(L *lua.LState) int {
		fail(L, fmt.Errorf("%w: %s", ErrExecutionReverted, L.OptString(1, "revert")))
		return 0
	}))
	L.SetField(seal, "require", L.NewFunction(func(L *lua.LState) int {
		if !lua.LVAsBool(L.CheckAny(1)) {
			fail(L, fmt.Errorf("%w: %s", ErrExecutionReverted, L.OptString(2, "requirement failed")))
		}
		return 0
	}))
	L.SetField(seal, "caller", lua.LString(contract.Caller.Hex()))
	L.SetField(seal, "address", lua.LString(contract.Address.Hex()))
	L.SetField(seal, "value", lua.LString(contract.Value.Dec()))
	L.SetGlobal("seal", seal)

	trapped := func(err error) error {
		if hostErr != nil {
			return hostErr
		}
		return fmt.Errorf("%w: %v", ErrContractTrapped, err)
	}
	if err := L.DoString(string(contract.Code)); err != nil {
		return nil, trapped(err)
	}
	fn, ok := L.GetGlobal(entry).(*lua.LFunction)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntrypointMissing, entry)
	}
	if err := L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}); err != nil {
		return nil, trapped(err)
	}
	return ret, nil
}

// newLuaState opens a state with the side-effect free standard libraries.
func newLuaState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, pair := range []struct {
		n string
		f lua.LGFunction
	}{
		{lua.LoadLibName, lua.OpenPackage},
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(pair.f),
			NRet:    0,
			Protect: true,
		}, lua.LString(pair.n)); err != nil {
			panic(err)
		}
	}
	// Scripts must not reach the host filesystem.
	for _, name := range []string{"dofile", "loadfile", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}
