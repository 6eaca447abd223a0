package access

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:generate go tool stringer -type=AccessMode -linecomment -output=accessmode_string.go

// AccessMode is the policy a Strategy enforces for every property of every
// class it is applied to.
type AccessMode int

const (
	_ AccessMode = iota // zero value is invalid

	// Fields uses struct fields exclusively; accessors are ignored even if present.
	// Unexported fields are allowed.
	Fields // fields
	// Accessors uses getters and setters exclusively; fields are ignored.
	Accessors // accessors
	// Both tries getters and setters first, then falls back to fields.
	Both // both
)

// ErrUnknownAccessMode is returned when parsing an unrecognized mode name.
var ErrUnknownAccessMode = errors.New("unknown access mode")

// IsFieldAccessAllowed reports whether the mode permits direct field access.
func (m AccessMode) IsFieldAccessAllowed() bool {
	return m == Fields || m == Both
}

// IsAccessorAccessAllowed reports whether the mode permits getter and setter access.
func (m AccessMode) IsAccessorAccessAllowed() bool {
	return m == Accessors || m == Both
}

// IsValid reports whether m is one of the declared modes.
func (m AccessMode) IsValid() bool {
	return m >= Fields && m <= Both
}

// ParseAccessMode converts a mode name (case-insensitive) to an AccessMode.
// "getters_and_setters" is accepted as an alias of "accessors".
func ParseAccessMode(s string) (AccessMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fields":
		return Fields, nil
	case "accessors", "getters_and_setters":
		return Accessors, nil
	case "both":
		return Both, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAccessMode, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m AccessMode) MarshalText() ([]byte, error) {
	if !m.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAccessMode, int(m))
	}

	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, so modes can be used
// with flag.TextVar.
func (m *AccessMode) UnmarshalText(text []byte) error {
	mode, err := ParseAccessMode(string(text))
	if err != nil {
		return err
	}

	*m = mode

	return nil
}

// UnmarshalYAML accepts a scalar mode name.
func (m *AccessMode) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected access mode name, got %v", node.Line, node.Kind)
	}

	mode, err := ParseAccessMode(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}

	*m = mode

	return nil
}

// MarshalYAML outputs the lower-case mode name.
func (m AccessMode) MarshalYAML() (any, error) {
	if !m.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAccessMode, int(m))
	}

	return m.String(), nil
}
