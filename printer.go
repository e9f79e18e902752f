// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jbl

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/creachadair/jbl/internal/escape"

	"go4.org/mem"
)

// indentWidth is the number of spaces per nesting level in pretty output.
const indentWidth = 2

// A Printer renders a sequence of value events as JSON text to a Sink.  The
// caller is responsible for balancing the Begin and End calls; inside an
// object, each member is a call to Key followed by a single value.
type Printer struct {
	sink   Sink
	pretty bool
	stk    []pframe
	tmp    []byte
}

type pframe struct {
	object bool
	n      int // elements written so far
}

// NewPrinter constructs a Printer that writes to s. If pretty is true, the
// output is indented with newlines and spaces; otherwise no whitespace is
// emitted.
func NewPrinter(s Sink, pretty bool) *Printer { return &Printer{sink: s, pretty: pretty} }

// sep emits the separator and indentation preceding a new element of the
// current container.
func (p *Printer) sep() error {
	if len(p.stk) == 0 {
		return nil
	}
	top := &p.stk[len(p.stk)-1]
	if top.n > 0 {
		if err := p.sink.Write(comma); err != nil {
			return err
		}
	}
	top.n++
	return p.newline(len(p.stk))
}

func (p *Printer) newline(depth int) error {
	if !p.pretty {
		return nil
	}
	if err := p.sink.Write(newline); err != nil {
		return err
	}
	if depth > 0 {
		return p.sink.Repeat(' ', depth*indentWidth)
	}
	return nil
}

// element emits the prefix of a value, unless it is the value of an object
// member whose key already emitted one.
func (p *Printer) element() error {
	if n := len(p.stk); n != 0 && !p.stk[n-1].object {
		return p.sep()
	}
	return nil
}

func (p *Printer) emit(text []byte) error {
	if err := p.element(); err != nil {
		return err
	}
	return p.sink.Write(text)
}

var (
	comma      = []byte(",")
	newline    = []byte("\n")
	colon      = []byte(":")
	colonSpace = []byte(": ")
	nullText   = []byte("null")
	trueText   = []byte("true")
	falseText  = []byte("false")
)

// Null emits a null value.
func (p *Printer) Null() error { return p.emit(nullText) }

// Bool emits a Boolean value.
func (p *Printer) Bool(b bool) error {
	if b {
		return p.emit(trueText)
	}
	return p.emit(falseText)
}

// Int emits an integer value.
func (p *Printer) Int(z int64) error {
	p.tmp = strconv.AppendInt(p.tmp[:0], z, 10)
	return p.emit(p.tmp)
}

// Float emits a floating-point value. The text always includes a fraction
// or an exponent, so that it is read back as a floating-point value.
// Values that JSON cannot represent (NaN and infinities) are emitted as null.
func (p *Printer) Float(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return p.Null()
	}
	p.tmp = AppendFloat(p.tmp[:0], f)
	return p.emit(p.tmp)
}

// AppendFloat appends the JSON text of a finite floating-point value to buf.
// The text always contains a decimal point or an exponent.
func AppendFloat(buf []byte, f float64) []byte {
	start := len(buf)
	buf = strconv.AppendFloat(buf, f, 'g', -1, 64)
	if !strings.ContainsAny(string(buf[start:]), ".e") {
		buf = append(buf, '.', '0')
	}
	return buf
}

// String emits a string value, quoted and escaped.
func (p *Printer) String(s string) error {
	p.tmp = escape.AppendQuote(p.tmp[:0], mem.S(s))
	return p.emit(p.tmp)
}

// Key emits the key of the next member of the current object.
func (p *Printer) Key(key string) error {
	if n := len(p.stk); n == 0 || !p.stk[n-1].object {
		return errors.New("key outside an object")
	}
	if err := p.sep(); err != nil {
		return err
	}
	p.tmp = escape.AppendQuote(p.tmp[:0], mem.S(key))
	if err := p.sink.Write(p.tmp); err != nil {
		return err
	}
	if p.pretty {
		return p.sink.Write(colonSpace)
	}
	return p.sink.Write(colon)
}

// BeginObject emits the start of an object.
func (p *Printer) BeginObject() error { return p.open(true, '{') }

// EndObject emits the end of the current object.
func (p *Printer) EndObject() error { return p.close('}') }

// BeginArray emits the start of an array.
func (p *Printer) BeginArray() error { return p.open(false, '[') }

// EndArray emits the end of the current array.
func (p *Printer) EndArray() error { return p.close(']') }

func (p *Printer) open(object bool, delim byte) error {
	if err := p.emit([]byte{delim}); err != nil {
		return err
	}
	p.stk = append(p.stk, pframe{object: object})
	return nil
}

func (p *Printer) close(delim byte) error {
	n := len(p.stk)
	if n == 0 {
		return errors.New("unbalanced end of container")
	}
	top := p.stk[n-1]
	p.stk = p.stk[:n-1]
	if top.n > 0 {
		if err := p.newline(n - 1); err != nil {
			return err
		}
	}
	return p.sink.Write([]byte{delim})
}
