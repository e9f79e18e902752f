// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package tree implements a mutable tree representation of JSON values, used
// to edit documents held in the encoded form of package jbl.
//
// All the nodes of a tree are allocated from an Arena, and are addressed by
// Node handles. Editing a tree only relinks nodes; storage for nodes is
// reclaimed only when the whole arena is Reset or discarded. After a Reset,
// handles to nodes allocated before the reset are stale, and using them
// panics.
//
// Decode materializes an encoded value as a tree, Parse builds a tree
// directly from JSON text, and Encode converts a tree back to an encoded
// value.
package tree

import "github.com/creachadair/jbl"

// nilIndex marks the absence of a link between slots.
const nilIndex = -1

// An Arena owns the storage for a collection of tree nodes.  The zero value
// is ready for use. An Arena is not safe for concurrent use without external
// synchronization.
type Arena struct {
	slots []slot
	gen   uint32 // incremented by Reset to invalidate outstanding handles
}

// A slot is the storage for a single node. Exactly one of the value fields
// is meaningful, selected by typ. A container has no value field; its
// contents are the list of slots linked from first.
type slot struct {
	typ jbl.Type
	key string // meaningful iff parent is an object

	b bool
	z int64
	f float64
	s string

	parent      int32
	first, last int32 // children, for containers
	next, prev  int32 // siblings
	count       int   // number of children
}

// NewArena returns a new empty arena.
func NewArena() *Arena { return new(Arena) }

// Len reports the number of nodes allocated in a since it was last reset.
func (a *Arena) Len() int { return len(a.slots) }

// Reset discards all the nodes allocated in a. Handles to those nodes become
// stale, and any use of them will panic.
func (a *Arena) Reset() {
	clear(a.slots) // release string storage
	a.slots = a.slots[:0]
	a.gen++
}

// mark returns a position that truncate can restore.
func (a *Arena) mark() int { return len(a.slots) }

// truncate discards all nodes allocated since pos was marked. The caller
// must ensure no handle to any such node escaped.
func (a *Arena) truncate(pos int) {
	clear(a.slots[pos:])
	a.slots = a.slots[:pos]
}

func (a *Arena) alloc(s slot) Node {
	s.parent, s.first, s.last, s.next, s.prev = nilIndex, nilIndex, nilIndex, nilIndex, nilIndex
	a.slots = append(a.slots, s)
	return Node{a: a, id: int32(len(a.slots) - 1), gen: a.gen}
}

// node returns a handle for the slot at index id, or a nil Node if id is
// nilIndex.
func (a *Arena) node(id int32) Node {
	if id == nilIndex {
		return Node{}
	}
	return Node{a: a, id: id, gen: a.gen}
}

// Null allocates a new null node.
func (a *Arena) Null() Node { return a.alloc(slot{typ: jbl.TypeNull}) }

// Bool allocates a new Boolean node.
func (a *Arena) Bool(b bool) Node { return a.alloc(slot{typ: jbl.TypeBool, b: b}) }

// Int allocates a new integer node.
func (a *Arena) Int(z int64) Node { return a.alloc(slot{typ: jbl.TypeInt, z: z}) }

// Float allocates a new floating-point node.
func (a *Arena) Float(f float64) Node { return a.alloc(slot{typ: jbl.TypeFloat, f: f}) }

// String allocates a new string node.
func (a *Arena) String(s string) Node { return a.alloc(slot{typ: jbl.TypeString, s: s}) }

// Object allocates a new empty object node.
func (a *Arena) Object() Node { return a.alloc(slot{typ: jbl.TypeObject}) }

// Array allocates a new empty array node.
func (a *Arena) Array() Node { return a.alloc(slot{typ: jbl.TypeArray}) }

// Scalar allocates a new node holding the contents of d.
func (a *Arena) Scalar(d jbl.Scalar) Node {
	return a.alloc(slot{typ: d.Type, b: d.Bool, z: d.Int, f: d.Float, s: d.Str})
}
