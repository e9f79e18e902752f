// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jbl

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/zeebo/blake3"
)

// A Value is a handle to an encoded JSON value. The handle owns its backing
// buffer, except for values returned by At, which share the buffer of the
// value they were resolved from.
//
// A Value is not safe for concurrent mutation (Release, Replace), but any
// number of goroutines may read the same Value concurrently.
type Value struct {
	buf []byte
}

// NewObject returns a new empty object value.
func NewObject() *Value { return mustEncode((*Encoder).BeginObject, (*Encoder).EndObject) }

// NewArray returns a new empty array value.
func NewArray() *Value { return mustEncode((*Encoder).BeginArray, (*Encoder).EndArray) }

func mustEncode(fs ...func(*Encoder)) *Value {
	var e Encoder
	for _, f := range fs {
		f(&e)
	}
	v, err := e.Value()
	if err != nil {
		panic(err)
	}
	return v
}

// FromBuffer returns a Value that takes ownership of buf, which must contain
// a single encoded value such as one previously returned by Bytes. The
// contents of buf are not copied, and the caller must not modify buf after
// passing it to FromBuffer.
//
// Only the header of the value is checked; a buffer whose header does not
// describe exactly len(buf) bytes is reported as ErrInvalidBuffer.
func FromBuffer(buf []byte) (*Value, error) {
	n, err := valueSize(buf)
	if err != nil {
		return nil, err
	} else if n != len(buf) {
		return nil, fmt.Errorf("%w: value is %d bytes, buffer is %d", ErrInvalidBuffer, n, len(buf))
	}
	return &Value{buf: buf}, nil
}

// Parse parses a single JSON value from text into encoded form.
// In case of a syntax error, the error has concrete type *SyntaxError.
func Parse(text []byte) (*Value, error) { return ParseWith(text, Options{}) }

// ParseString parses a single JSON value from text into encoded form.
func ParseString(text string) (*Value, error) { return Parse([]byte(text)) }

// ParseWith parses a single JSON value from text into encoded form, using the
// grammar extensions enabled by opts.
func ParseWith(text []byte, opts Options) (*Value, error) {
	h := new(encodeHandler)
	if err := parseSingle(text, opts, h); err != nil {
		return nil, err
	}
	return h.enc.Value()
}

func (v *Value) valid() bool { return v != nil && len(v.buf) != 0 }

// Type reports the type of v. It returns TypeInvalid if v has been released.
func (v *Value) Type() Type {
	if !v.valid() {
		return TypeInvalid
	}
	return tagType(v.buf[0])
}

// Len reports the number of members of an object or elements of an array.
// It returns 0 for other values.
func (v *Value) Len() int {
	if !v.Type().IsContainer() || len(v.buf) < containerHeader {
		return 0
	}
	return containerCount(v.buf)
}

// Size reports the size in bytes of the encoded representation of v.
func (v *Value) Size() int {
	if !v.valid() {
		return 0
	}
	return len(v.buf)
}

// Bytes returns the encoded representation of v. The caller must not modify
// the contents of the slice. The slice remains valid until v is released or
// replaced.
func (v *Value) Bytes() []byte {
	if !v.valid() {
		return nil
	}
	return v.buf
}

// Release discards the contents of v. After Release, v is invalid.
// Values previously returned by v.At remain usable.
func (v *Value) Release() {
	if v != nil {
		v.buf = nil
	}
}

// Replace discards the contents of v and replaces them with the contents of
// w, which is released. It reports ErrInvalid if w is not valid.
func (v *Value) Replace(w *Value) error {
	if !w.valid() {
		return fmt.Errorf("replace: %w", ErrInvalid)
	}
	v.buf, w.buf = w.buf, nil
	return nil
}

// Clone returns a copy of v that owns its own buffer.
func (v *Value) Clone() *Value {
	if !v.valid() {
		return &Value{}
	}
	return &Value{buf: bytes.Clone(v.buf)}
}

// Digest returns a BLAKE3 digest of the encoded representation of v.
// Values with equal encodings have equal digests.
func (v *Value) Digest() [32]byte { return blake3.Sum256(v.Bytes()) }

func (v *Value) check(want Type) error {
	if !v.valid() {
		return ErrInvalid
	} else if got := v.Type(); got != want {
		return fmt.Errorf("%w: value is %v, not %v", ErrInvalidType, got, want)
	}
	return nil
}

// Bool returns the value of a Boolean. It reports ErrInvalidType if v is not
// a Boolean.
func (v *Value) Bool() (bool, error) {
	if err := v.check(TypeBool); err != nil {
		return false, err
	}
	return v.buf[0] == tagTrue, nil
}

// Int64 returns the value of an integer. It reports ErrInvalidType if v is
// not an integer.
func (v *Value) Int64() (int64, error) {
	if err := v.check(TypeInt); err != nil {
		return 0, err
	}
	return decodeInt(v.buf), nil
}

// Int32 returns the value of an integer that fits in 32 bits. It reports
// ErrInvalidType if v is not an integer or is out of range.
func (v *Value) Int32() (int32, error) {
	z, err := v.Int64()
	if err != nil {
		return 0, err
	} else if z < math.MinInt32 || z > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %d out of range for int32", ErrInvalidType, z)
	}
	return int32(z), nil
}

// Float64 returns the value of a number. Integers are converted to
// floating point. It reports ErrInvalidType if v is not a number.
func (v *Value) Float64() (float64, error) {
	if v.Type() == TypeInt {
		return float64(decodeInt(v.buf)), nil
	} else if err := v.check(TypeFloat); err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(v.buf[1:])), nil
}

// Str returns a copy of the contents of a string. It reports ErrInvalidType
// if v is not a string.
func (v *Value) Str() (string, error) {
	if err := v.check(TypeString); err != nil {
		return "", err
	}
	return string(decodeString(v.buf)), nil
}

// CopyString copies the contents of a string into dst, and returns the number
// of bytes copied. If dst is too short, the copy is truncated. It reports
// ErrInvalidType if v is not a string.
func (v *Value) CopyString(dst []byte) (int, error) {
	if err := v.check(TypeString); err != nil {
		return 0, err
	}
	return copy(dst, decodeString(v.buf)), nil
}

// At resolves the JSON pointer ptr relative to v. The result shares the
// buffer of v. Resolution does not decode any value other than the ones
// along the path; siblings are skipped by their encoded size.
//
// At reports an error wrapping ErrPointer if ptr is malformed, or
// ErrPathNotFound if ptr does not match the structure of v.
func (v *Value) At(ptr string) (*Value, error) {
	if !v.valid() {
		return nil, ErrInvalid
	}
	p, err := ParsePointer(ptr)
	if err != nil {
		return nil, err
	}
	return v.Find(p)
}

// Find resolves the parsed pointer p relative to v, as At.
func (v *Value) Find(p Pointer) (*Value, error) {
	if !v.valid() {
		return nil, ErrInvalid
	}
	cur := v.buf
	for i, tok := range p {
		switch cur[0] {
		case tagObject:
			elt, ok, err := objectLookup(cur, tok)
			if err != nil {
				return nil, err
			} else if !ok {
				return nil, p.NotFound(i, "no member %q", tok)
			}
			cur = elt

		case tagArray:
			idx, err := p.Index(i)
			if err != nil {
				return nil, err
			} else if idx < 0 || idx >= containerCount(cur) {
				return nil, p.NotFound(i, "index %q out of range", tok)
			}
			elt, err := arrayIndex(cur, idx)
			if err != nil {
				return nil, err
			}
			cur = elt

		default:
			return nil, p.NotFound(i, "cannot index %v", tagType(cur[0]))
		}
	}
	return &Value{buf: cur}, nil
}

// objectLookup finds the first member of the object obj with the given key,
// and returns its encoded value.
func objectLookup(obj []byte, key string) ([]byte, bool, error) {
	rest := obj[containerHeader:len(obj)]
	for range containerCount(obj) {
		k, tail, err := readKey(rest)
		if err != nil {
			return nil, false, err
		}
		n, err := valueSize(tail)
		if err != nil {
			return nil, false, err
		}
		if string(k) == key {
			return tail[:n], true, nil
		}
		rest = tail[n:]
	}
	return nil, false, nil
}

// arrayIndex returns the encoded value of element i of the array arr.
func arrayIndex(arr []byte, i int) ([]byte, error) {
	rest := arr[containerHeader:]
	for {
		n, err := valueSize(rest)
		if err != nil {
			return nil, err
		} else if i == 0 {
			return rest[:n], nil
		}
		rest = rest[n:]
		i--
	}
}

// Each calls f for each member of an object or each element of an array in
// order. For array elements the key is "". The values passed to f share the
// buffer of v. If f reports an error, iteration stops and that error is
// returned. Each does nothing for a scalar value.
func (v *Value) Each(f func(key string, elt *Value) error) error {
	if !v.valid() {
		return ErrInvalid
	}
	tag := v.buf[0]
	if tag != tagObject && tag != tagArray {
		return nil
	}
	rest := v.buf[containerHeader:]
	for range containerCount(v.buf) {
		var key []byte
		if tag == tagObject {
			k, tail, err := readKey(rest)
			if err != nil {
				return err
			}
			key, rest = k, tail
		}
		n, err := valueSize(rest)
		if err != nil {
			return err
		}
		if err := f(string(key), &Value{buf: rest[:n]}); err != nil {
			return err
		}
		rest = rest[n:]
	}
	return nil
}

// WriteJSON renders v as JSON text to s. If pretty is true, the output is
// indented. An error reported by s stops rendering and is returned.
func (v *Value) WriteJSON(s Sink, pretty bool) error {
	if !v.valid() {
		return ErrInvalid
	}
	return v.print(NewPrinter(s, pretty))
}

func (v *Value) print(p *Printer) error {
	switch v.Type() {
	case TypeNull:
		return p.Null()
	case TypeBool:
		return p.Bool(v.buf[0] == tagTrue)
	case TypeInt:
		return p.Int(decodeInt(v.buf))
	case TypeFloat:
		f, _ := v.Float64()
		return p.Float(f)
	case TypeString:
		return p.String(string(decodeString(v.buf)))
	case TypeObject:
		if err := p.BeginObject(); err != nil {
			return err
		}
		if err := v.Each(func(key string, elt *Value) error {
			if err := p.Key(key); err != nil {
				return err
			}
			return elt.print(p)
		}); err != nil {
			return err
		}
		return p.EndObject()
	case TypeArray:
		if err := p.BeginArray(); err != nil {
			return err
		}
		if err := v.Each(func(_ string, elt *Value) error { return elt.print(p) }); err != nil {
			return err
		}
		return p.EndArray()
	}
	return fmt.Errorf("%w: unknown tag %#x", ErrInvalidBuffer, v.buf[0])
}

// JSON returns the compact JSON text of v.
func (v *Value) JSON() (string, error) {
	var buf BufferSink
	if err := v.WriteJSON(&buf, false); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// String returns the compact JSON text of v, or a placeholder if v is not a
// valid value.
func (v *Value) String() string {
	s, err := v.JSON()
	if err != nil {
		return fmt.Sprintf("<%v>", err)
	}
	return s
}
