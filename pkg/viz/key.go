package viz

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/algoviz/pkg/errors"
)

type keyKind uint8

const (
	kindNone keyKind = iota
	kindValue
	kindInf
	kindNegInf
	kindEmpty
	kindAbsent
)

var kindNames = map[keyKind]string{
	kindNone:   "null",
	kindInf:    "inf",
	kindNegInf: "-inf",
	kindEmpty:  "empty",
	kindAbsent: "absent",
}

// Key is the logical key of a node. Besides plain integers it can hold the
// sentinels Inf, NegInf, Empty (drawn without text) and Absent (not drawn).
// The zero Key is None, which means "no node" when used as a reference.
//
// Keys are comparable and identify nodes inside a Host.
type Key struct {
	kind keyKind
	v    int
}

// Sentinel keys.
var (
	None   = Key{}
	Inf    = Key{kind: kindInf}
	NegInf = Key{kind: kindNegInf}
	Empty  = Key{kind: kindEmpty}
	Absent = Key{kind: kindAbsent}
)

// IntKey returns the key holding v.
func IntKey(v int) Key { return Key{kind: kindValue, v: v} }

// IsNone reports whether k is the "no node" reference.
func (k Key) IsNone() bool { return k.kind == kindNone }

// IsZero reports whether k is None. It lets encoders omit "no node" fields.
func (k Key) IsZero() bool { return k.IsNone() }

// Int returns the integer value of k and whether k holds one.
func (k Key) Int() (int, bool) { return k.v, k.kind == kindValue }

// IsInfinite reports whether k is Inf or NegInf.
func (k Key) IsInfinite() bool { return k.kind == kindInf || k.kind == kindNegInf }

// Label returns the text drawn inside a node carrying k. Empty and Absent
// keys, and None, have no label.
func (k Key) Label() string {
	switch k.kind {
	case kindValue:
		return strconv.Itoa(k.v)
	case kindInf:
		return "∞"
	case kindNegInf:
		return "-∞"
	default:
		return ""
	}
}

// Less orders keys with NegInf < integers < Inf. Empty, Absent and None sort
// after Inf.
func (k Key) Less(o Key) bool {
	rk, ro := k.rank(), o.rank()
	if rk != ro {
		return rk < ro
	}
	return k.kind == kindValue && k.v < o.v
}

func (k Key) rank() int {
	switch k.kind {
	case kindNegInf:
		return 0
	case kindValue:
		return 1
	case kindInf:
		return 2
	default:
		return 3 + int(k.kind)
	}
}

// String returns the exchange form of k: the decimal integer, or one of
// "inf", "-inf", "empty", "absent", "null".
func (k Key) String() string {
	if k.kind == kindValue {
		return strconv.Itoa(k.v)
	}
	return kindNames[k.kind]
}

// ParseKey parses the exchange form produced by String. The drawn labels "∞"
// and "-∞" are accepted as well.
func ParseKey(s string) (Key, error) {
	s = strings.TrimSpace(s)
	for kind, name := range kindNames {
		if strings.EqualFold(s, name) {
			return Key{kind: kind}, nil
		}
	}
	switch s {
	case "∞":
		return Inf, nil
	case "-∞":
		return NegInf, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return None, errors.New(errors.ErrCodeInvalidInput, "invalid key %q", s)
	}
	return IntKey(v), nil
}

// MarshalJSON encodes integer keys as JSON numbers and sentinels as strings.
func (k Key) MarshalJSON() ([]byte, error) {
	if k.kind == kindValue {
		return []byte(strconv.Itoa(k.v)), nil
	}
	return json.Marshal(k.String())
}

// UnmarshalJSON accepts a JSON number, a sentinel string, or null.
func (k *Key) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*k = None
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		parsed, err := ParseKey(n.String())
		if err != nil {
			return err
		}
		*k = parsed
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("key: %w", err)
	}
	parsed, err := ParseKey(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MarshalYAML encodes integer keys as YAML integers and sentinels as strings.
func (k Key) MarshalYAML() (any, error) {
	if k.kind == kindValue {
		return k.v, nil
	}
	return k.String(), nil
}

// UnmarshalYAML accepts an integer or a sentinel scalar.
func (k *Key) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.New(errors.ErrCodeInvalidFormat, "key must be a scalar (line %d)", node.Line)
	}
	if node.Tag == "!!null" {
		*k = None
		return nil
	}
	parsed, err := ParseKey(node.Value)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
