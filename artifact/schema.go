package artifact

import (
	"fmt"
	"strings"
)

// Schema identifies the metadata layout a toolchain emits.
type Schema int

const (
	// SchemaFlat keeps the interface under a top-level "spec" object whose
	// entries are named by "name" (a string or an array of path segments).
	SchemaFlat Schema = iota
	// SchemaV3 nests the interface under "V3.spec" and names entries by "label".
	SchemaV3
)

func (s Schema) String() string {
	switch s {
	case SchemaFlat:
		return "flat"
	case SchemaV3:
		return "v3"
	default:
		return fmt.Sprintf("Schema(%d)", int(s))
	}
}

// ParseSchema parses a schema name as used in configuration files.
func ParseSchema(name string) (Schema, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "flat", "":
		return SchemaFlat, nil
	case "v3":
		return SchemaV3, nil
	}
	return 0, fmt.Errorf("unknown artifact schema %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Schema) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Schema) UnmarshalText(text []byte) error {
	parsed, err := ParseSchema(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Role selects the constructor or the message section of an interface.
type Role int

const (
	RoleConstructor Role = iota
	RoleMessage
)

func (r Role) String() string {
	if r == RoleConstructor {
		return "constructor"
	}
	return "message"
}
