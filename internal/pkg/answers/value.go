// Package answers holds the in-memory answer document of a form session and the
// path-based accessors that read and write it.
package answers

import (
	"github.com/goccy/go-json"
)

type Kind int

const (
	KindScalar Kind = iota
	KindMapping
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	default:
		return "scalar"
	}
}

// Value is one node of an answer document: a Mapping, a Sequence or a Scalar.
type Value interface {
	Kind() Kind
}

// Mapping is a map node. It is a reference type, so writes through a Mapping
// are visible to every holder of the same document.
type Mapping map[string]Value

// Sequence is the ordered record list of a repeating group or question.
type Sequence []Value

// Scalar wraps a leaf value. The zero Scalar is the JSON null.
type Scalar struct {
	V interface{}
}

// Null is the value written for a rendered question that has no answer yet.
var Null = Scalar{}

func (Mapping) Kind() Kind  { return KindMapping }
func (Sequence) Kind() Kind { return KindSequence }
func (Scalar) Kind() Kind   { return KindScalar }

func NewScalar(v interface{}) Scalar {
	return Scalar{V: v}
}

func (s Scalar) IsNull() bool {
	return s.V == nil
}

func (s Scalar) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.V)
}

func (s *Scalar) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &s.V)
}

func (m *Mapping) UnmarshalJSON(data []byte) error {
	raw := make(map[string]interface{})
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = FromMap(raw)
	return nil
}

// Clone returns a sequence with the same elements in a fresh backing array.
func (s Sequence) Clone() Sequence {
	cloned := make(Sequence, len(s))
	copy(cloned, s)
	return cloned
}

// FromInterface converts a plain decoded JSON value into a document value.
func FromInterface(v interface{}) Value {
	switch typed := v.(type) {
	case Value:
		return typed
	case map[string]interface{}:
		return FromMap(typed)
	case []interface{}:
		sequence := make(Sequence, 0, len(typed))
		for _, item := range typed {
			sequence = append(sequence, FromInterface(item))
		}
		return sequence
	default:
		return NewScalar(v)
	}
}

func FromMap(raw map[string]interface{}) Mapping {
	mapping := make(Mapping, len(raw))
	for key, item := range raw {
		mapping[key] = FromInterface(item)
	}
	return mapping
}

// ToInterface converts a document value back into plain maps, slices and scalars.
func ToInterface(v Value) interface{} {
	switch typed := v.(type) {
	case Mapping:
		out := make(map[string]interface{}, len(typed))
		for key, item := range typed {
			out[key] = ToInterface(item)
		}
		return out
	case Sequence:
		out := make([]interface{}, 0, len(typed))
		for _, item := range typed {
			out = append(out, ToInterface(item))
		}
		return out
	case Scalar:
		return typed.V
	default:
		return nil
	}
}
