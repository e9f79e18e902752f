// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jbl

import (
	"encoding/binary"
	"fmt"
	"math"
)

/*
Wire format

Every encoded value begins with a one-byte tag. Scalars have a fixed payload
selected by the tag, strings carry a uvarint length, and containers carry
their own total size so that a reader can step over them without looking
inside:

	null, false, true   tag
	int8..int64         tag, 1/2/4/8 bytes little-endian
	float64             tag, 8 bytes little-endian IEEE 754
	string              tag, uvarint n, n bytes
	object              tag, uint32 size, uint32 count, count × (uvarint n, n key bytes, value)
	array               tag, uint32 size, uint32 count, count × value

The size of a container includes its own header.
*/

const (
	tagNull byte = 1 + iota
	tagFalse
	tagTrue
	tagInt8
	tagInt16
	tagInt32
	tagInt64
	tagFloat
	tagString
	tagObject
	tagArray
)

// containerHeader is the encoded length of an object or array header.
const containerHeader = 1 + 4 + 4

// maxContainerSize bounds the encoded size of a single container.
const maxContainerSize = math.MaxUint32

// Type is the type of a JSON value.
type Type byte

// Constants defining the valid Type values.
const (
	TypeInvalid Type = iota // not a valid value
	TypeNull                // the constant null
	TypeBool                // true or false
	TypeInt                 // 64-bit signed integer
	TypeFloat               // 64-bit floating point
	TypeString              // string
	TypeObject              // object, an ordered sequence of key/value members
	TypeArray               // array
)

var typeStr = [...]string{
	TypeInvalid: "invalid",
	TypeNull:    "null",
	TypeBool:    "bool",
	TypeInt:     "int",
	TypeFloat:   "float",
	TypeString:  "string",
	TypeObject:  "object",
	TypeArray:   "array",
}

func (t Type) String() string {
	if int(t) >= len(typeStr) {
		return typeStr[TypeInvalid]
	}
	return typeStr[t]
}

// IsContainer reports whether t is TypeObject or TypeArray.
func (t Type) IsContainer() bool { return t == TypeObject || t == TypeArray }

func tagType(tag byte) Type {
	switch tag {
	case tagNull:
		return TypeNull
	case tagFalse, tagTrue:
		return TypeBool
	case tagInt8, tagInt16, tagInt32, tagInt64:
		return TypeInt
	case tagFloat:
		return TypeFloat
	case tagString:
		return TypeString
	case tagObject:
		return TypeObject
	case tagArray:
		return TypeArray
	}
	return TypeInvalid
}

// valueSize reports the encoded length of the value at the front of buf.
// It reads only the header of the value.
func valueSize(buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidBuffer)
	}
	var n int
	switch tag := buf[0]; tag {
	case tagNull, tagFalse, tagTrue:
		n = 1
	case tagInt8:
		n = 2
	case tagInt16:
		n = 3
	case tagInt32:
		n = 5
	case tagInt64, tagFloat:
		n = 9
	case tagString:
		sn, w := binary.Uvarint(buf[1:])
		if w <= 0 || sn > uint64(len(buf)) {
			return 0, fmt.Errorf("%w: bad string length", ErrInvalidBuffer)
		}
		n = 1 + w + int(sn)
	case tagObject, tagArray:
		if len(buf) < containerHeader {
			return 0, fmt.Errorf("%w: short container header", ErrInvalidBuffer)
		}
		n = int(binary.LittleEndian.Uint32(buf[1:]))
		if n < containerHeader {
			return 0, fmt.Errorf("%w: bad container size %d", ErrInvalidBuffer, n)
		}
	default:
		return 0, fmt.Errorf("%w: unknown tag %#x", ErrInvalidBuffer, tag)
	}
	if n > len(buf) {
		return 0, fmt.Errorf("%w: value size %d exceeds buffer (%d)", ErrInvalidBuffer, n, len(buf))
	}
	return n, nil
}

// containerCount reports the member or element count of a container header.
// The caller must ensure buf holds a container.
func containerCount(buf []byte) int { return int(binary.LittleEndian.Uint32(buf[5:])) }

// readKey decodes an object member key at the front of buf, returning the
// key bytes (aliasing buf) and the remainder.
func readKey(buf []byte) (key, rest []byte, err error) {
	n, w := binary.Uvarint(buf)
	if w <= 0 || n > uint64(len(buf)-w) {
		return nil, nil, fmt.Errorf("%w: bad key length", ErrInvalidBuffer)
	}
	end := w + int(n)
	return buf[w:end], buf[end:], nil
}

// decodeInt decodes an integer value, which must have an integer tag.
func decodeInt(buf []byte) int64 {
	switch buf[0] {
	case tagInt8:
		return int64(int8(buf[1]))
	case tagInt16:
		return int64(int16(binary.LittleEndian.Uint16(buf[1:])))
	case tagInt32:
		return int64(int32(binary.LittleEndian.Uint32(buf[1:])))
	default:
		return int64(binary.LittleEndian.Uint64(buf[1:]))
	}
}

// decodeString decodes a string value, which must have a string tag. The
// result aliases buf.
func decodeString(buf []byte) []byte {
	n, w := binary.Uvarint(buf[1:])
	return buf[1+w : 1+w+int(n)]
}

// An Encoder constructs an encoded value incrementally. Call the methods of
// the encoder in the order values appear in the JSON text: inside an object,
// each member is a call to Key followed by a single value. When the top-level
// value is complete, Value returns it.
//
// The zero Encoder is ready for use.
type Encoder struct {
	buf  []byte
	stk  []frame
	done bool // a complete top-level value has been written
	err  error
}

type frame struct {
	pos     int    // offset of the container tag
	count   uint32 // values written so far
	object  bool
	haveKey bool // a key is pending its value
}

func (e *Encoder) failf(msg string, args ...any) {
	if e.err == nil {
		e.err = fmt.Errorf("%w: %s", ErrCreation, fmt.Sprintf(msg, args...))
	}
}

// begin checks that a value may be written at this point, and records it in
// the enclosing container.
func (e *Encoder) begin() bool {
	if e.err != nil {
		return false
	}
	if len(e.stk) == 0 {
		if e.done {
			e.failf("multiple top-level values")
			return false
		}
		return true
	}
	top := &e.stk[len(e.stk)-1]
	if top.object {
		if !top.haveKey {
			e.failf("object member without a key")
			return false
		}
		top.haveKey = false
	}
	top.count++
	return true
}

func (e *Encoder) end() {
	if len(e.stk) == 0 {
		e.done = true
	}
}

// Null encodes a null value.
func (e *Encoder) Null() {
	if e.begin() {
		e.buf = append(e.buf, tagNull)
		e.end()
	}
}

// Bool encodes a Boolean value.
func (e *Encoder) Bool(b bool) {
	if e.begin() {
		if b {
			e.buf = append(e.buf, tagTrue)
		} else {
			e.buf = append(e.buf, tagFalse)
		}
		e.end()
	}
}

// Int encodes an integer using the narrowest representation that holds it.
func (e *Encoder) Int(z int64) {
	if !e.begin() {
		return
	}
	switch {
	case z >= math.MinInt8 && z <= math.MaxInt8:
		e.buf = append(e.buf, tagInt8, byte(z))
	case z >= math.MinInt16 && z <= math.MaxInt16:
		e.buf = binary.LittleEndian.AppendUint16(append(e.buf, tagInt16), uint16(z))
	case z >= math.MinInt32 && z <= math.MaxInt32:
		e.buf = binary.LittleEndian.AppendUint32(append(e.buf, tagInt32), uint32(z))
	default:
		e.buf = binary.LittleEndian.AppendUint64(append(e.buf, tagInt64), uint64(z))
	}
	e.end()
}

// Float encodes a floating-point value.
func (e *Encoder) Float(f float64) {
	if e.begin() {
		e.buf = binary.LittleEndian.AppendUint64(append(e.buf, tagFloat), math.Float64bits(f))
		e.end()
	}
}

// String encodes a string value.
func (e *Encoder) String(s string) {
	if e.begin() {
		e.buf = binary.AppendUvarint(append(e.buf, tagString), uint64(len(s)))
		e.buf = append(e.buf, s...)
		e.end()
	}
}

// Key encodes the key of the next member of the current object.
func (e *Encoder) Key(key string) {
	if e.err != nil {
		return
	} else if len(e.stk) == 0 || !e.stk[len(e.stk)-1].object {
		e.failf("key %q outside an object", key)
		return
	}
	top := &e.stk[len(e.stk)-1]
	if top.haveKey {
		e.failf("key %q follows another key", key)
		return
	}
	top.haveKey = true
	e.buf = binary.AppendUvarint(e.buf, uint64(len(key)))
	e.buf = append(e.buf, key...)
}

// BeginObject starts a new object. It must be balanced by EndObject.
func (e *Encoder) BeginObject() { e.open(tagObject) }

// EndObject completes the current object.
func (e *Encoder) EndObject() { e.close(tagObject) }

// BeginArray starts a new array. It must be balanced by EndArray.
func (e *Encoder) BeginArray() { e.open(tagArray) }

// EndArray completes the current array.
func (e *Encoder) EndArray() { e.close(tagArray) }

func (e *Encoder) open(tag byte) {
	if !e.begin() {
		return
	}
	e.stk = append(e.stk, frame{pos: len(e.buf), object: tag == tagObject})
	var hdr [containerHeader]byte
	hdr[0] = tag
	e.buf = append(e.buf, hdr[:]...)
}

func (e *Encoder) close(tag byte) {
	if e.err != nil {
		return
	}
	n := len(e.stk)
	if n == 0 || e.buf[e.stk[n-1].pos] != tag {
		e.failf("unbalanced end of %v", tagType(tag))
		return
	}
	top := e.stk[n-1]
	if top.haveKey {
		e.failf("object key without a value")
		return
	}
	size := len(e.buf) - top.pos
	if uint64(size) > maxContainerSize {
		e.failf("%v too large (%d bytes)", tagType(tag), size)
		return
	}
	binary.LittleEndian.PutUint32(e.buf[top.pos+1:], uint32(size))
	binary.LittleEndian.PutUint32(e.buf[top.pos+5:], top.count)
	e.stk = e.stk[:n-1]
	e.end()
}

// Encoded appends a copy of an already-encoded value.
func (e *Encoder) Encoded(v *Value) {
	if !v.valid() {
		e.failf("invalid encoded value")
	} else if e.begin() {
		e.buf = append(e.buf, v.buf...)
		e.end()
	}
}

// Value returns the completed encoded value. It reports an error if the
// calls made to e did not describe exactly one complete value. After Value
// returns, e is reset and may be reused.
func (e *Encoder) Value() (*Value, error) {
	defer e.Reset()
	if e.err != nil {
		return nil, e.err
	} else if len(e.stk) != 0 {
		return nil, fmt.Errorf("%w: %d unclosed containers", ErrCreation, len(e.stk))
	} else if !e.done {
		return nil, fmt.Errorf("%w: no value", ErrCreation)
	}
	return &Value{buf: e.buf}, nil
}

// Reset discards any partial state of e.
func (e *Encoder) Reset() { *e = Encoder{} }
