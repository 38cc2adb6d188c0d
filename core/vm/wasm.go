package vm

import (
	"context"
	"errors"
	"fmt"

	"github.com/tetratelabs/wazero"
)

var errHostImports = errors.New("host imports are not supported")

// WasmMachine runs WebAssembly modules exporting deploy and call. Modules
// are self-contained: host imports are rejected and no data crosses the
// boundary, so a wasm contract can only succeed or trap.
type WasmMachine struct {
	config wazero.RuntimeConfig
}

// NewWasmMachine returns a wasm machine backed by the wazero interpreter.
func NewWasmMachine() *WasmMachine {
	return &WasmMachine{
		config: wazero.NewRuntimeConfigInterpreter().WithCloseOnContextDone(true),
	}
}

func (m *WasmMachine) Name() string { return "wasm" }

// Validate compiles the module and checks its import and export sections.
func (m *WasmMachine) Validate(code []byte) error {
	ctx := context.Background()
	r := wazero.NewRuntimeWithConfig(ctx, m.config)
	defer r.Close(ctx)

	_, err := m.compile(ctx, r, code)
	return err
}

func (m *WasmMachine) compile(ctx context.Context, r wazero.Runtime, code []byte) (wazero.CompiledModule, error) {
	compiled, err := r.CompileModule(ctx, code)
	if err != nil {
		return nil, err
	}
	if imports := compiled.ImportedFunctions(); len(imports) > 0 {
		return nil, fmt.Errorf("%w: %d imported functions", errHostImports, len(imports))
	}
	exports := compiled.ExportedFunctions()
	for _, entry := range []string{EntryDeploy, EntryCall} {
		if _, ok := exports[entry]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrEntrypointMissing, entry)
		}
	}
	return compiled, nil
}

// Execute instantiates the module and runs the entry point.
func (m *WasmMachine) Execute(host Host, contract *Contract, entry string) ([]byte, error) {
	ctx := host.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	r := wazero.NewRuntimeWithConfig(ctx, m.config)
	defer r.Close(ctx)

	compiled, err := m.compile(ctx, r, contract.Code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCodeRejected, err)
	}
	mod, err := r.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(contract.Address.Hex()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContractTrapped, err)
	}
	fn := mod.ExportedFunction(entry)
	if fn == nil {
		return nil, fmt.Errorf("%w: %s", ErrEntrypointMissing, entry)
	}
	if _, err := fn.Call(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContractTrapped, err)
	}
	return nil, nil
}
