package artifact

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

type source struct {
	Hash     string  `json:"hash"`
	Language string  `json:"language"`
	Compiler string  `json:"compiler"`
	Wasm     *string `json:"wasm"`
}

// code decodes source.wasm. The 0x prefix is optional.
func (s source) code() ([]byte, error) {
	if s.Wasm == nil || *s.Wasm == "" {
		return nil, fmt.Errorf("%w: missing source.wasm", ErrMalformed)
	}
	blob := *s.Wasm
	if !strings.HasPrefix(blob, "0x") && !strings.HasPrefix(blob, "0X") {
		blob = "0x" + blob
	}
	code, err := hexutil.Decode(blob)
	if err != nil {
		return nil, fmt.Errorf("%w: source.wasm: %v", ErrMalformed, err)
	}
	return code, nil
}

// names is the "name" field of the flat layout. Older toolchains emit a
// path such as ["Flipper", "new"], newer ones a plain string.
type names []string

func (n *names) UnmarshalJSON(input []byte) error {
	var single string
	if err := json.Unmarshal(input, &single); err == nil {
		*n = names{single}
		return nil
	}
	var path []string
	if err := json.Unmarshal(input, &path); err != nil {
		return fmt.Errorf("name must be a string or an array of strings: %v", err)
	}
	*n = path
	return nil
}

func (n names) String() string { return strings.Join(n, "::") }

type typeRef struct {
	DisplayName []string `json:"displayName"`
}

func (t typeRef) String() string { return strings.Join(t.DisplayName, "::") }

type flatArg struct {
	Name names   `json:"name"`
	Type typeRef `json:"type"`
}

type flatEntry struct {
	Name     names     `json:"name"`
	Selector string    `json:"selector"`
	Args     []flatArg `json:"args"`
	Payable  bool      `json:"payable"`
	Mutates  bool      `json:"mutates"`
	Docs     []string  `json:"docs"`
}

type flatSpec struct {
	Constructors []flatEntry `json:"constructors"`
	Messages     []flatEntry `json:"messages"`
}

type v3Arg struct {
	Label string  `json:"label"`
	Type  typeRef `json:"type"`
}

type v3Entry struct {
	Label    string   `json:"label"`
	Selector string   `json:"selector"`
	Args     []v3Arg  `json:"args"`
	Payable  bool     `json:"payable"`
	Mutates  bool     `json:"mutates"`
	Docs     []string `json:"docs"`
}

type v3Spec struct {
	Constructors []v3Entry `json:"constructors"`
	Messages     []v3Entry `json:"messages"`
}

func (e *flatEntry) decode() (Entry, error) {
	out := Entry{Name: e.Name.String(), Payable: e.Payable, Mutates: e.Mutates, Docs: e.Docs}
	for _, a := range e.Args {
		out.Args = append(out.Args, Arg{Name: a.Name.String(), Type: a.Type.String()})
	}
	return out, out.setSelector(e.Selector)
}

func (e *v3Entry) decode() (Entry, error) {
	out := Entry{Name: e.Label, Payable: e.Payable, Mutates: e.Mutates, Docs: e.Docs}
	for _, a := range e.Args {
		out.Args = append(out.Args, Arg{Name: a.Label, Type: a.Type.String()})
	}
	return out, out.setSelector(e.Selector)
}

func (e *Entry) setSelector(hex string) error {
	selector, err := hexutil.Decode(hex)
	if err != nil {
		return fmt.Errorf("%w: selector %q of %s: %v", ErrMalformed, hex, e.Name, err)
	}
	if len(selector) < SelectorLength {
		return fmt.Errorf("%w: selector %q of %s has %d bytes", ErrMalformed, hex, e.Name, len(selector))
	}
	e.Selector = selector
	return nil
}

func (s *flatSpec) fill(a *Artifact) error {
	for i := range s.Constructors {
		e, err := s.Constructors[i].decode()
		if err != nil {
			return err
		}
		a.constructors = append(a.constructors, e)
	}
	for i := range s.Messages {
		e, err := s.Messages[i].decode()
		if err != nil {
			return err
		}
		a.messages = append(a.messages, e)
	}
	return nil
}

func (s *v3Spec) fill(a *Artifact) error {
	for i := range s.Constructors {
		e, err := s.Constructors[i].decode()
		if err != nil {
			return err
		}
		a.constructors = append(a.constructors, e)
	}
	for i := range s.Messages {
		e, err := s.Messages[i].decode()
		if err != nil {
			return err
		}
		a.messages = append(a.messages, e)
	}
	return nil
}
