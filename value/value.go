// Package value defines the tagged-variant type stored by the cache.
//
// The source system this cache is modeled on serializes arbitrary runtime
// objects. In a statically typed target we restrict stored values to a
// closed variant covering scalars, byte strings, ordered sequences, and
// string-keyed mappings; callers needing richer structures encode to this
// variant explicitly.
package value

// Kind identifies which field of a Value is populated.
type Kind uint8

const (
	Nil Kind = iota
	Bool
	Int
	Float
	String
	Bytes
	Slice
	Map
)

func (k Kind) String() string {
	switch k {
	case Nil:
		return "nil"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Bytes:
		return "bytes"
	case Slice:
		return "slice"
	case Map:
		return "map"
	default:
		return "unknown"
	}
}

// Value is a closed, tagged-variant value the cache knows how to serialize.
type Value struct {
	Kind  Kind
	Bool  bool
	Int   int64
	Float float64
	Str   string
	Bytes []byte
	Slice []Value
	Map   map[string]Value
}

func OfNil() Value                 { return Value{Kind: Nil} }
func OfBool(b bool) Value          { return Value{Kind: Bool, Bool: b} }
func OfInt(i int64) Value          { return Value{Kind: Int, Int: i} }
func OfFloat(f float64) Value      { return Value{Kind: Float, Float: f} }
func OfString(s string) Value      { return Value{Kind: String, Str: s} }
func OfBytes(b []byte) Value       { return Value{Kind: Bytes, Bytes: b} }
func OfSlice(v []Value) Value      { return Value{Kind: Slice, Slice: v} }
func OfMap(m map[string]Value) Value {
	return Value{Kind: Map, Map: m}
}

// IsNil reports whether v is the nil variant.
func (v Value) IsNil() bool { return v.Kind == Nil }

// Equal performs a deep structural comparison, used by tests.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Nil:
		return true
	case Bool:
		return a.Bool == b.Bool
	case Int:
		return a.Int == b.Int
	case Float:
		return a.Float == b.Float
	case String:
		return a.Str == b.Str
	case Bytes:
		if len(a.Bytes) != len(b.Bytes) {
			return false
		}
		for i := range a.Bytes {
			if a.Bytes[i] != b.Bytes[i] {
				return false
			}
		}
		return true
	case Slice:
		if len(a.Slice) != len(b.Slice) {
			return false
		}
		for i := range a.Slice {
			if !Equal(a.Slice[i], b.Slice[i]) {
				return false
			}
		}
		return true
	case Map:
		if len(a.Map) != len(b.Map) {
			return false
		}
		for k, av := range a.Map {
			bv, ok := b.Map[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
