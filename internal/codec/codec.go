// Package codec implements the cache's self-describing serializers.
//
// Each serializer has a short tag persisted in the entry's meta record (the
// spec's "s" field); deserialization dispatches purely on that tag, so a
// cache populated with one codec can be safely mixed with entries written
// under another as the codec roster evolves.
package codec

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/zynqcloud/filecache/value"
)

// Tag identifies a registered serializer.
type Tag string

const (
	// Native is a portable encoding/gob round-trip of the Value variant.
	Native Tag = "native"

	// JSON is a human-inspectable encoding, primarily useful when debugging
	// a cache directory by hand.
	JSON Tag = "json"

	// CompactBinary is a dense, protobuf-wire-format encoding of the Value
	// variant built on google.golang.org/protobuf/encoding/protowire. It has
	// no enforceable class-allow-list (there is nothing to instantiate but
	// the closed Value variant, so none is needed).
	CompactBinary Tag = "compact-binary"
)

// Encode serializes v using the serializer identified by tag.
func Encode(tag Tag, v value.Value) ([]byte, error) {
	switch tag {
	case Native:
		return encodeGob(v)
	case JSON:
		return json.Marshal(gobValue(v))
	case CompactBinary:
		return encodeCompact(v), nil
	default:
		return nil, fmt.Errorf("codec: unknown serializer tag %q", tag)
	}
}

// Decode deserializes data that was produced by Encode(tag, ...).
func Decode(tag Tag, data []byte) (value.Value, error) {
	switch tag {
	case Native:
		return decodeGob(data)
	case JSON:
		var gv gobValue
		if err := json.Unmarshal(data, &gv); err != nil {
			return value.Value{}, fmt.Errorf("codec: json decode: %w", err)
		}
		return value.Value(gv), nil
	case CompactBinary:
		v, rest, err := decodeCompact(data)
		if err != nil {
			return value.Value{}, fmt.Errorf("codec: compact-binary decode: %w", err)
		}
		if len(rest) != 0 {
			return value.Value{}, fmt.Errorf("codec: compact-binary decode: %d trailing bytes", len(rest))
		}
		return v, nil
	default:
		return value.Value{}, fmt.Errorf("codec: unknown serializer tag %q", tag)
	}
}

// gobValue is a defined type (not an alias) so gob registers it under this
// package rather than leaking value.Value's identity into the wire format.
type gobValue value.Value

func encodeGob(v value.Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(gobValue(v)); err != nil {
		return nil, fmt.Errorf("codec: gob encode: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeGob(data []byte) (value.Value, error) {
	var gv gobValue
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&gv); err != nil {
		return value.Value{}, fmt.Errorf("codec: gob decode: %w", err)
	}
	return value.Value(gv), nil
}

// ── compact-binary ──────────────────────────────────────────────────────
//
// Wire shape per Value (no field numbers; this is a closed, versionless
// recursive format, not a .proto message — only protowire's varint/bytes
// primitives are reused):
//
//	varint   kind
//	case Bool:   varint 0|1
//	case Int:    varint zigzag(v)
//	case Float:  fixed64 math.Float64bits(v)
//	case String: bytes
//	case Bytes:  bytes
//	case Slice:  varint count, then count * bytes(encodeCompact(elem))
//	case Map:    varint count, then count * (bytes(key), bytes(encodeCompact(val)))

func zigzagEncode(v int64) uint64 { return uint64((v << 1) ^ (v >> 63)) }
func zigzagDecode(v uint64) int64 { return int64(v>>1) ^ -int64(v&1) }

func encodeCompact(v value.Value) []byte {
	var b []byte
	b = protowire.AppendVarint(b, uint64(v.Kind))
	switch v.Kind {
	case value.Nil:
	case value.Bool:
		x := uint64(0)
		if v.Bool {
			x = 1
		}
		b = protowire.AppendVarint(b, x)
	case value.Int:
		b = protowire.AppendVarint(b, zigzagEncode(v.Int))
	case value.Float:
		b = protowire.AppendFixed64(b, math.Float64bits(v.Float))
	case value.String:
		b = protowire.AppendBytes(b, []byte(v.Str))
	case value.Bytes:
		b = protowire.AppendBytes(b, v.Bytes)
	case value.Slice:
		b = protowire.AppendVarint(b, uint64(len(v.Slice)))
		for _, elem := range v.Slice {
			b = protowire.AppendBytes(b, encodeCompact(elem))
		}
	case value.Map:
		b = protowire.AppendVarint(b, uint64(len(v.Map)))
		for k, elem := range v.Map {
			b = protowire.AppendBytes(b, []byte(k))
			b = protowire.AppendBytes(b, encodeCompact(elem))
		}
	}
	return b
}

func decodeCompact(b []byte) (value.Value, []byte, error) {
	kindU, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return value.Value{}, nil, fmt.Errorf("truncated kind tag")
	}
	b = b[n:]
	kind := value.Kind(kindU)

	switch kind {
	case value.Nil:
		return value.Value{Kind: value.Nil}, b, nil
	case value.Bool:
		x, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return value.Value{}, nil, fmt.Errorf("truncated bool")
		}
		return value.OfBool(x != 0), b[n:], nil
	case value.Int:
		x, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return value.Value{}, nil, fmt.Errorf("truncated int")
		}
		return value.OfInt(zigzagDecode(x)), b[n:], nil
	case value.Float:
		x, n := protowire.ConsumeFixed64(b)
		if n < 0 {
			return value.Value{}, nil, fmt.Errorf("truncated float")
		}
		return value.OfFloat(math.Float64frombits(x)), b[n:], nil
	case value.String:
		s, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return value.Value{}, nil, fmt.Errorf("truncated string")
		}
		return value.OfString(string(s)), b[n:], nil
	case value.Bytes:
		s, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return value.Value{}, nil, fmt.Errorf("truncated bytes")
		}
		cp := make([]byte, len(s))
		copy(cp, s)
		return value.OfBytes(cp), b[n:], nil
	case value.Slice:
		count, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return value.Value{}, nil, fmt.Errorf("truncated slice length")
		}
		b = b[n:]
		out := make([]value.Value, 0, count)
		for i := uint64(0); i < count; i++ {
			raw, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return value.Value{}, nil, fmt.Errorf("truncated slice element")
			}
			b = b[n:]
			elem, rest, err := decodeCompact(raw)
			if err != nil {
				return value.Value{}, nil, err
			}
			if len(rest) != 0 {
				return value.Value{}, nil, fmt.Errorf("trailing bytes in slice element")
			}
			out = append(out, elem)
		}
		return value.OfSlice(out), b, nil
	case value.Map:
		count, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return value.Value{}, nil, fmt.Errorf("truncated map length")
		}
		b = b[n:]
		out := make(map[string]value.Value, count)
		for i := uint64(0); i < count; i++ {
			key, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return value.Value{}, nil, fmt.Errorf("truncated map key")
			}
			b = b[n:]
			raw, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return value.Value{}, nil, fmt.Errorf("truncated map value")
			}
			b = b[n:]
			elem, rest, err := decodeCompact(raw)
			if err != nil {
				return value.Value{}, nil, err
			}
			if len(rest) != 0 {
				return value.Value{}, nil, fmt.Errorf("trailing bytes in map value")
			}
			out[string(key)] = elem
		}
		return value.OfMap(out), b, nil
	default:
		return value.Value{}, nil, fmt.Errorf("unknown kind %d", kind)
	}
}
