// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jbl

import (
	"errors"
	"fmt"
	"strconv"
)

// encodeHandler implements the Handler interface to construct an encoded
// value directly from JSON text, without an intermediate tree.
type encodeHandler struct {
	enc Encoder
}

func (h *encodeHandler) BeginObject(Anchor) error { h.enc.BeginObject(); return h.enc.err }
func (h *encodeHandler) EndObject(Anchor) error   { h.enc.EndObject(); return h.enc.err }
func (h *encodeHandler) BeginArray(Anchor) error  { h.enc.BeginArray(); return h.enc.err }
func (h *encodeHandler) EndArray(Anchor) error    { h.enc.EndArray(); return h.enc.err }
func (h *encodeHandler) EndMember(Anchor) error   { return nil }
func (h *encodeHandler) EndOfInput(Anchor)        {}

func (h *encodeHandler) BeginMember(loc Anchor) error {
	key, err := unquoteString(loc.Text())
	if err != nil {
		return locError(loc, err)
	}
	h.enc.Key(key)
	return h.enc.err
}

func (h *encodeHandler) Value(loc Anchor) error {
	d, err := DecodeScalar(loc)
	if err != nil {
		return err
	}
	switch d.Type {
	case TypeNull:
		h.enc.Null()
	case TypeBool:
		h.enc.Bool(d.Bool)
	case TypeInt:
		h.enc.Int(d.Int)
	case TypeFloat:
		h.enc.Float(d.Float)
	case TypeString:
		h.enc.String(d.Str)
	}
	return h.enc.err
}

// A Scalar is the decoded content of a non-container JSON value. Only the
// field selected by Type is meaningful.
type Scalar struct {
	Type  Type
	Bool  bool
	Int   int64
	Float float64
	Str   string
}

// DecodeScalar decodes the value token at loc, as delivered to the Value
// method of a Handler. An integer too large for int64 is decoded as a float.
// A number whose magnitude is too large for float64 is reported as an error
// wrapping ErrParse.
func DecodeScalar(loc Anchor) (Scalar, error) {
	text := loc.Text()
	switch tok := loc.Token(); tok {
	case Null:
		return Scalar{Type: TypeNull}, nil
	case True, False:
		return Scalar{Type: TypeBool, Bool: tok == True}, nil
	case Integer:
		z, err := strconv.ParseInt(string(text), 10, 64)
		if err == nil {
			return Scalar{Type: TypeInt, Int: z}, nil
		} else if !errors.Is(err, strconv.ErrRange) {
			return Scalar{}, locError(loc, fmt.Errorf("%w: %w", ErrParse, err))
		}
		fallthrough // out of range for int64
	case Number:
		f, err := strconv.ParseFloat(string(text), 64)
		if err != nil {
			return Scalar{}, locError(loc, fmt.Errorf("%w: number %s out of range", ErrParse, text))
		}
		return Scalar{Type: TypeFloat, Float: f}, nil
	case String:
		s, err := unquoteString(text)
		if err != nil {
			return Scalar{}, locError(loc, err)
		}
		return Scalar{Type: TypeString, Str: s}, nil
	default:
		return Scalar{}, locError(loc, fmt.Errorf("%w: unexpected %v", ErrParse, tok))
	}
}

// locError wraps err in a *SyntaxError at the location of loc.
func locError(loc Anchor, err error) error {
	return &SyntaxError{Location: loc.Location().First, Message: err.Error(), err: err}
}
