// Package artifact reads compiled contract bundles: the code blob together
// with the interface metadata (constructors and messages with their
// selectors). Two layouts are understood, see Schema.
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// SelectorLength is the minimum size of constructor and message selectors.
const SelectorLength = 4

var (
	// ErrNotFound is returned if no entry of the requested role matches.
	ErrNotFound = errors.New("selector not found")

	// ErrMalformed is returned if a document does not have the shape its
	// schema requires.
	ErrMalformed = errors.New("malformed artifact")
)

// Arg is a constructor or message argument.
type Arg struct {
	Name string
	Type string // display name of the argument type
}

// Entry is a constructor or message of the contract interface.
type Entry struct {
	Name     string
	Selector hexutil.Bytes
	Args     []Arg
	Payable  bool
	Mutates  bool
	Docs     []string
}

// Contract is the descriptive part of the bundle.
type Contract struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Authors []string `json:"authors"`
}

// Artifact is a parsed contract bundle.
type Artifact struct {
	Schema   Schema
	Contract Contract
	Language string
	Compiler string

	code         []byte
	codeHash     string // hash recorded by the toolchain, informational
	constructors []Entry
	messages     []Entry
}

// Code returns the contract code.
func (a *Artifact) Code() []byte {
	return common.CopyBytes(a.code)
}

// SourceHash returns the code hash the toolchain recorded, if any.
func (a *Artifact) SourceHash() string {
	return a.codeHash
}

// Selectors returns every entry of the given role in document order.
func (a *Artifact) Selectors(role Role) []Entry {
	entries := a.constructors
	if role == RoleMessage {
		entries = a.messages
	}
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// FindSelector returns the selector of the first entry of the given role
// whose name contains substr.
func (a *Artifact) FindSelector(role Role, substr string) ([]byte, error) {
	for _, entry := range a.Selectors(role) {
		if strings.Contains(entry.Name, substr) {
			return common.CopyBytes(entry.Selector), nil
		}
	}
	return nil, fmt.Errorf("%w: %s containing %q in %s", ErrNotFound, role, substr, a.Contract.Name)
}

// Parse decodes a bundle of the given schema. The layout is never inferred:
// a flat document parsed as V3 (or vice versa) is malformed.
func Parse(data []byte, schema Schema) (*Artifact, error) {
	var (
		doc struct {
			Source   source    `json:"source"`
			Contract Contract  `json:"contract"`
			Spec     *flatSpec `json:"spec"`
			V3       *struct {
				Spec *v3Spec `json:"spec"`
			} `json:"V3"`
		}
		a = &Artifact{Schema: schema}
	)
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	switch schema {
	case SchemaFlat:
		if doc.Spec == nil {
			return nil, fmt.Errorf("%w: missing spec", ErrMalformed)
		}
		if err := doc.Spec.fill(a); err != nil {
			return nil, err
		}
	case SchemaV3:
		if doc.V3 == nil || doc.V3.Spec == nil {
			return nil, fmt.Errorf("%w: missing V3.spec", ErrMalformed)
		}
		if err := doc.V3.Spec.fill(a); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported schema %v", schema)
	}
	code, err := doc.Source.code()
	if err != nil {
		return nil, err
	}
	a.code = code
	a.codeHash = doc.Source.Hash
	a.Contract = doc.Contract
	a.Language = doc.Source.Language
	a.Compiler = doc.Source.Compiler
	return a, nil
}
