// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package tree

import (
	"bytes"
	"fmt"

	"github.com/creachadair/jbl"
)

// Decode materializes the encoded value v as a tree of nodes allocated in a.
// The tree does not share storage with v.
func Decode(v *jbl.Value, a *Arena) (Node, error) {
	if v.Type() == jbl.TypeInvalid {
		return Node{}, jbl.ErrInvalid
	}
	pos := a.mark()
	n, err := decodeValue(v, a)
	if err != nil {
		a.truncate(pos)
		return Node{}, err
	}
	return n, nil
}

func decodeValue(v *jbl.Value, a *Arena) (Node, error) {
	switch v.Type() {
	case jbl.TypeNull:
		return a.Null(), nil
	case jbl.TypeBool:
		b, err := v.Bool()
		return a.Bool(b), err
	case jbl.TypeInt:
		z, err := v.Int64()
		return a.Int(z), err
	case jbl.TypeFloat:
		f, err := v.Float64()
		return a.Float(f), err
	case jbl.TypeString:
		s, err := v.Str()
		return a.String(s), err
	case jbl.TypeObject, jbl.TypeArray:
		var n Node
		if v.Type() == jbl.TypeObject {
			n = a.Object()
		} else {
			n = a.Array()
		}
		err := v.Each(func(key string, elt *jbl.Value) error {
			c, err := decodeValue(elt, a)
			if err != nil {
				return err
			}
			c.SetKey(key)
			n.Append(c)
			return nil
		})
		return n, err
	}
	return Node{}, fmt.Errorf("%w: unknown value type", jbl.ErrInvalidBuffer)
}

// Parse parses a single JSON value from text into a tree of nodes allocated
// in a. No intermediate encoded value is constructed. In case of error, no
// nodes remain allocated in a.
func Parse(text []byte, a *Arena) (Node, error) { return ParseWith(text, jbl.Options{}, a) }

// ParseString parses a single JSON value from text into a tree, as Parse.
func ParseString(text string, a *Arena) (Node, error) { return Parse([]byte(text), a) }

// ParseWith parses a single JSON value from text as Parse, using the grammar
// extensions enabled by opts.
func ParseWith(text []byte, opts jbl.Options, a *Arena) (Node, error) {
	pos := a.mark()
	h := &parseHandler{a: a}
	st := jbl.NewStream(bytes.NewReader(text))
	st.SetOptions(opts)
	if err := st.ParseSingle(h); err != nil {
		a.truncate(pos)
		return Node{}, err
	}
	return h.root, nil
}

// Encode converts the tree rooted at n into a new encoded value, which does
// not share storage with the tree.
func Encode(n Node) (*jbl.Value, error) {
	var e jbl.Encoder
	encodeNode(&e, n)
	return e.Value()
}

func encodeNode(e *jbl.Encoder, n Node) {
	switch n.Type() {
	case jbl.TypeNull:
		e.Null()
	case jbl.TypeBool:
		e.Bool(n.Bool())
	case jbl.TypeInt:
		e.Int(n.Int())
	case jbl.TypeFloat:
		e.Float(n.Float())
	case jbl.TypeString:
		e.String(n.Str())
	case jbl.TypeObject:
		e.BeginObject()
		for c := range n.Children() {
			e.Key(c.Key())
			encodeNode(e, c)
		}
		e.EndObject()
	case jbl.TypeArray:
		e.BeginArray()
		for c := range n.Children() {
			encodeNode(e, c)
		}
		e.EndArray()
	}
}

// WriteJSON renders the tree rooted at n as JSON text to s. If pretty is
// true, the output is indented.
func (n Node) WriteJSON(s jbl.Sink, pretty bool) error {
	return printNode(jbl.NewPrinter(s, pretty), n)
}

func printNode(p *jbl.Printer, n Node) error {
	switch n.Type() {
	case jbl.TypeNull:
		return p.Null()
	case jbl.TypeBool:
		return p.Bool(n.Bool())
	case jbl.TypeInt:
		return p.Int(n.Int())
	case jbl.TypeFloat:
		return p.Float(n.Float())
	case jbl.TypeString:
		return p.String(n.Str())
	case jbl.TypeObject:
		if err := p.BeginObject(); err != nil {
			return err
		}
		for c := range n.Children() {
			if err := p.Key(c.Key()); err != nil {
				return err
			} else if err := printNode(p, c); err != nil {
				return err
			}
		}
		return p.EndObject()
	case jbl.TypeArray:
		if err := p.BeginArray(); err != nil {
			return err
		}
		for c := range n.Children() {
			if err := printNode(p, c); err != nil {
				return err
			}
		}
		return p.EndArray()
	}
	return fmt.Errorf("%w: node type %v", jbl.ErrInvalid, n.Type())
}

// String returns the compact JSON text of the tree rooted at n.
func (n Node) String() string {
	if n.IsNil() {
		return "<nil>"
	}
	var buf jbl.BufferSink
	if err := n.WriteJSON(&buf, false); err != nil {
		return fmt.Sprintf("<%v>", err)
	}
	return buf.String()
}

// Clone returns a deep copy of the tree rooted at n, allocated in a, which
// may differ from the arena of n. The copy shares no nodes with n, and is
// detached; it keeps the key of n.
func Clone(n Node, a *Arena) Node {
	s := *n.slot()
	c := a.alloc(slot{typ: s.typ, key: s.key, b: s.b, z: s.z, f: s.f, s: s.s})
	for k := range n.Children() {
		c.Append(Clone(k, a))
	}
	return c
}
