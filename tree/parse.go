// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package tree

import "github.com/creachadair/jbl"

// A parseHandler implements the jbl.Handler interface to construct a tree
// of nodes from JSON text.
type parseHandler struct {
	a    *Arena
	stk  []Node // open containers
	key  string // key of the pending object member
	root Node
}

// add links a completed or newly-opened node into the tree.
func (h *parseHandler) add(n Node) {
	if len(h.stk) == 0 {
		h.root = n
		return
	}
	top := h.stk[len(h.stk)-1]
	if top.Type() == jbl.TypeObject {
		n.SetKey(h.key)
	}
	top.Append(n)
}

func (h *parseHandler) open(n Node) error {
	h.add(n)
	h.stk = append(h.stk, n)
	return nil
}

func (h *parseHandler) close() error {
	h.stk = h.stk[:len(h.stk)-1]
	return nil
}

func (h *parseHandler) BeginObject(jbl.Anchor) error { return h.open(h.a.Object()) }
func (h *parseHandler) EndObject(jbl.Anchor) error   { return h.close() }
func (h *parseHandler) BeginArray(jbl.Anchor) error  { return h.open(h.a.Array()) }
func (h *parseHandler) EndArray(jbl.Anchor) error    { return h.close() }
func (h *parseHandler) EndMember(jbl.Anchor) error   { return nil }
func (h *parseHandler) EndOfInput(jbl.Anchor)        {}

func (h *parseHandler) BeginMember(loc jbl.Anchor) error {
	d, err := jbl.DecodeScalar(loc)
	if err != nil {
		return err
	}
	h.key = d.Str
	return nil
}

func (h *parseHandler) Value(loc jbl.Anchor) error {
	d, err := jbl.DecodeScalar(loc)
	if err != nil {
		return err
	}
	h.add(h.a.Scalar(d))
	return nil
}
