// Package metafile encodes and decodes the cache's meta records.
//
// The original system this module is modeled on persisted meta as a
// self-returning program in a format the host runtime could execute
// directly out of an opcode cache. This module has no such runtime, so meta
// is instead a small length-prefixed binary record with a trailing CRC-32 —
// a format picked for microsecond parse time and for being easy to eyeball
// with od/xxd during debugging, per the spec's format guidance. The on-disk
// ".php" suffix is kept purely for cross-compatibility with deployments
// that expect that extension; the bytes underneath are this format.
package metafile

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

const magic uint16 = 0xFC01 // "filecache record v1"

// ValueMeta is the authoritative record for a value-store entry.
type ValueMeta struct {
	Expires    int64  // e: absolute expiration instant, seconds since epoch; 0 = never
	Inline     bool   // i
	Compressed bool   // c
	Serializer string // s
	Payload    []byte // v: present iff Inline
}

// FileMeta is the authoritative record for a file-store entry.
type FileMeta struct {
	Expires int64  // e
	Path    string // p: absolute path to the cached content file
}

func putBytes(buf []byte, b []byte) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(b)))
	return append(buf, b...)
}

func takeBytes(data []byte) (b []byte, rest []byte, err error) {
	if len(data) < 4 {
		return nil, nil, fmt.Errorf("metafile: truncated length prefix")
	}
	n := binary.LittleEndian.Uint32(data)
	data = data[4:]
	if uint64(n) > uint64(len(data)) {
		return nil, nil, fmt.Errorf("metafile: length prefix %d exceeds remaining %d bytes", n, len(data))
	}
	return data[:n], data[n:], nil
}

func finish(buf []byte) []byte {
	sum := crc32.ChecksumIEEE(buf)
	return binary.LittleEndian.AppendUint32(buf, sum)
}

func verify(data []byte) ([]byte, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("metafile: record too short")
	}
	body, wantSum := data[:len(data)-4], binary.LittleEndian.Uint32(data[len(data)-4:])
	if crc32.ChecksumIEEE(body) != wantSum {
		return nil, fmt.Errorf("metafile: checksum mismatch")
	}
	return body, nil
}

// EncodeValueMeta serializes m into its on-disk record.
func EncodeValueMeta(m ValueMeta) []byte {
	buf := make([]byte, 0, 64+len(m.Payload))
	buf = binary.LittleEndian.AppendUint16(buf, magic)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(m.Expires))
	var flags byte
	if m.Inline {
		flags |= 1
	}
	if m.Compressed {
		flags |= 2
	}
	buf = append(buf, flags)
	buf = putBytes(buf, []byte(m.Serializer))
	buf = putBytes(buf, m.Payload)
	return finish(buf)
}

// DecodeValueMeta parses a record produced by EncodeValueMeta.
func DecodeValueMeta(data []byte) (ValueMeta, error) {
	body, err := verify(data)
	if err != nil {
		return ValueMeta{}, err
	}
	if len(body) < 2+8+1 {
		return ValueMeta{}, fmt.Errorf("metafile: record too short")
	}
	if binary.LittleEndian.Uint16(body) != magic {
		return ValueMeta{}, fmt.Errorf("metafile: bad magic")
	}
	body = body[2:]
	expires := int64(binary.LittleEndian.Uint64(body))
	body = body[8:]
	flags := body[0]
	body = body[1:]

	ser, body, err := takeBytes(body)
	if err != nil {
		return ValueMeta{}, err
	}
	payload, _, err := takeBytes(body)
	if err != nil {
		return ValueMeta{}, err
	}

	return ValueMeta{
		Expires:    expires,
		Inline:     flags&1 != 0,
		Compressed: flags&2 != 0,
		Serializer: string(ser),
		Payload:    payload,
	}, nil
}

// EncodeFileMeta serializes m into its on-disk record.
func EncodeFileMeta(m FileMeta) []byte {
	buf := make([]byte, 0, 32+len(m.Path))
	buf = binary.LittleEndian.AppendUint16(buf, magic)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(m.Expires))
	buf = putBytes(buf, []byte(m.Path))
	return finish(buf)
}

// DecodeFileMeta parses a record produced by EncodeFileMeta.
func DecodeFileMeta(data []byte) (FileMeta, error) {
	body, err := verify(data)
	if err != nil {
		return FileMeta{}, err
	}
	if len(body) < 2+8 {
		return FileMeta{}, fmt.Errorf("metafile: record too short")
	}
	if binary.LittleEndian.Uint16(body) != magic {
		return FileMeta{}, fmt.Errorf("metafile: bad magic")
	}
	body = body[2:]
	expires := int64(binary.LittleEndian.Uint64(body))
	body = body[8:]

	path, _, err := takeBytes(body)
	if err != nil {
		return FileMeta{}, err
	}
	return FileMeta{Expires: expires, Path: string(path)}, nil
}
