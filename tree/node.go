// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package tree

import (
	"iter"

	"github.com/creachadair/jbl"
)

// A Node is a handle to a single JSON value allocated in an Arena. The zero
// Node is nil; navigation methods return a nil Node when the requested node
// does not exist.
//
// A Node is only valid until its arena is reset. Methods other than IsNil
// panic if called on a nil or stale node.
type Node struct {
	a   *Arena
	id  int32
	gen uint32
}

// IsNil reports whether n is the nil Node.
func (n Node) IsNil() bool { return n.a == nil }

// Arena returns the arena that owns n.
func (n Node) Arena() *Arena { return n.a }

func (n Node) slot() *slot {
	if n.a == nil {
		panic("tree: use of nil node")
	} else if n.gen != n.a.gen {
		panic("tree: use of stale node")
	}
	return &n.a.slots[n.id]
}

// Type reports the type of n.
func (n Node) Type() jbl.Type { return n.slot().typ }

// Key returns the key of n. The key is meaningful only when the parent of n
// is an object.
func (n Node) Key() string { return n.slot().key }

// SetKey sets the key of n. It must not be called while n is the member of
// an object containing another member with the same key.
func (n Node) SetKey(key string) { n.slot().key = key }

// Bool returns the value of a Boolean node, or false for other types.
func (n Node) Bool() bool { return n.slot().b }

// Int returns the value of an integer node, or 0 for other types.
func (n Node) Int() int64 { return n.slot().z }

// Float returns the value of a floating-point node, or 0 for other types.
func (n Node) Float() float64 { return n.slot().f }

// Str returns the value of a string node, or "" for other types.
func (n Node) Str() string { return n.slot().s }

// Len reports the number of children of an object or array node.
func (n Node) Len() int { return n.slot().count }

// Parent returns the parent of n, or a nil Node if n is detached.
func (n Node) Parent() Node { return n.a.node(n.slot().parent) }

// FirstChild returns the first child of n, or a nil Node.
func (n Node) FirstChild() Node { return n.a.node(n.slot().first) }

// LastChild returns the last child of n, or a nil Node.
func (n Node) LastChild() Node { return n.a.node(n.slot().last) }

// Next returns the next sibling of n, or a nil Node.
func (n Node) Next() Node { return n.a.node(n.slot().next) }

// Prev returns the previous sibling of n, or a nil Node.
func (n Node) Prev() Node { return n.a.node(n.slot().prev) }

// Children is a sequence of the children of n in order. The sequence is
// not safe against modification of n during iteration.
func (n Node) Children() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for c := n.FirstChild(); !c.IsNil(); c = c.Next() {
			if !yield(c) {
				return
			}
		}
	}
}

// Get returns the first member of object n with the given key, or a nil
// Node if there is none or n is not an object.
func (n Node) Get(key string) Node {
	if n.Type() != jbl.TypeObject {
		return Node{}
	}
	for c := range n.Children() {
		if c.Key() == key {
			return c
		}
	}
	return Node{}
}

// Index returns element i of array n, or a nil Node if i is out of range or
// n is not an array.
func (n Node) Index(i int) Node {
	if n.Type() != jbl.TypeArray || i < 0 || i >= n.Len() {
		return Node{}
	}
	c := n.FirstChild()
	for ; i > 0; i-- {
		c = c.Next()
	}
	return c
}

// Contains reports whether d is n or a descendant of n.
func (n Node) Contains(d Node) bool {
	for ; !d.IsNil(); d = d.Parent() {
		if d == n {
			return true
		}
	}
	return false
}

// sameArena panics if m does not belong to the same arena as n.
func (n Node) sameArena(m Node) {
	if m.a != n.a {
		panic("tree: node belongs to a different arena")
	}
}

// attach links the detached node c into the children of n before the child
// ref, or at the end if ref is nil.
func (n Node) attach(c, ref Node) {
	n.sameArena(c)
	ps, cs := n.slot(), c.slot()
	if cs.parent != nilIndex {
		panic("tree: node is already attached")
	} else if !ps.typ.IsContainer() {
		panic("tree: cannot add children to " + ps.typ.String())
	} else if !ref.IsNil() && ref.slot().parent != n.id {
		panic("tree: reference node is not a child")
	}
	cs.parent = n.id
	if ref.IsNil() {
		cs.prev = ps.last
		cs.next = nilIndex
		if ps.last != nilIndex {
			n.a.slots[ps.last].next = c.id
		} else {
			ps.first = c.id
		}
		ps.last = c.id
	} else {
		rs := ref.slot()
		cs.next = ref.id
		cs.prev = rs.prev
		if rs.prev != nilIndex {
			n.a.slots[rs.prev].next = c.id
		} else {
			ps.first = c.id
		}
		rs.prev = c.id
	}
	ps.count++
}

// Append adds c as the last child of n, which must be an object or array.
// The node c must be detached. For an object, the key of c names the member;
// Append does not check for a duplicate key (see Set).
func (n Node) Append(c Node) { n.attach(c, Node{}) }

// InsertBefore adds c as a child of n immediately before ref, which must be
// a child of n. If ref is nil, InsertBefore is equivalent to Append.
func (n Node) InsertBefore(c, ref Node) { n.attach(c, ref) }

// Set sets the member of object n with the given key to c. If n already has
// a member with that key, c replaces it in the same position; otherwise c is
// appended. The node c must be detached.
func (n Node) Set(key string, c Node) {
	if n.Type() != jbl.TypeObject {
		panic("tree: Set on " + n.Type().String())
	}
	c.SetKey(key)
	if old := n.Get(key); !old.IsNil() {
		old.ReplaceWith(c)
		return
	}
	n.Append(c)
}

// Detach unlinks n from its parent, if it has one. The key of n is retained.
// The storage for n is not reclaimed.
func (n Node) Detach() {
	s := n.slot()
	if s.parent == nilIndex {
		return
	}
	ps := &n.a.slots[s.parent]
	if s.prev != nilIndex {
		n.a.slots[s.prev].next = s.next
	} else {
		ps.first = s.next
	}
	if s.next != nilIndex {
		n.a.slots[s.next].prev = s.prev
	} else {
		ps.last = s.prev
	}
	ps.count--
	s.parent, s.next, s.prev = nilIndex, nilIndex, nilIndex
}

// ReplaceWith puts the detached node c in the place of n, and detaches n.
// If the parent of n is an object, c takes the key of n.
func (n Node) ReplaceWith(c Node) {
	n.sameArena(c)
	s := n.slot()
	if s.parent == nilIndex {
		panic("tree: ReplaceWith on a detached node")
	} else if c.slot().parent != nilIndex {
		panic("tree: node is already attached")
	}
	parent, next := n.Parent(), n.Next()
	if parent.Type() == jbl.TypeObject {
		c.SetKey(s.key)
	}
	n.Detach()
	parent.InsertBefore(c, next)
}

// Assign overwrites the contents of n with the contents of the detached
// node src, which must belong to the same arena. The children of src become
// children of n, and src is left an empty null. The key, parent and
// siblings of n are unchanged. Assign is how the root of a tree, which has
// no parent to relink, takes on a new value.
func (n Node) Assign(src Node) {
	n.sameArena(src)
	if n == src {
		return
	}
	ds, ss := n.slot(), src.slot()
	if ss.parent != nilIndex {
		panic("tree: node is already attached")
	} else if src.Contains(n) {
		panic("tree: cannot assign an ancestor to its descendant")
	}
	// The old children of n become detached.
	for c := ds.first; c != nilIndex; {
		cs := &n.a.slots[c]
		c = cs.next
		cs.parent, cs.next, cs.prev = nilIndex, nilIndex, nilIndex
	}
	ds.typ, ds.b, ds.z, ds.f, ds.s = ss.typ, ss.b, ss.z, ss.f, ss.s
	ds.first, ds.last, ds.count = ss.first, ss.last, ss.count
	for c := ds.first; c != nilIndex; c = n.a.slots[c].next {
		n.a.slots[c].parent = n.id
	}
	*ss = slot{typ: jbl.TypeNull, key: ss.key,
		parent: nilIndex, first: nilIndex, last: nilIndex, next: nilIndex, prev: nilIndex}
}

// At resolves the JSON pointer ptr relative to n. It reports an error
// wrapping jbl.ErrPointer if ptr is malformed, or jbl.ErrPathNotFound if ptr
// does not match the structure of n.
func (n Node) At(ptr string) (Node, error) {
	p, err := jbl.ParsePointer(ptr)
	if err != nil {
		return Node{}, err
	}
	return n.Find(p)
}

// Find resolves the parsed pointer p relative to n, as At.
func (n Node) Find(p jbl.Pointer) (Node, error) {
	cur := n
	for i, tok := range p {
		switch cur.Type() {
		case jbl.TypeObject:
			next := cur.Get(tok)
			if next.IsNil() {
				return Node{}, p.NotFound(i, "no member %q", tok)
			}
			cur = next

		case jbl.TypeArray:
			idx, err := p.Index(i)
			if err != nil {
				return Node{}, err
			}
			next := cur.Index(idx)
			if next.IsNil() {
				return Node{}, p.NotFound(i, "index %q out of range", tok)
			}
			cur = next

		default:
			return Node{}, p.NotFound(i, "cannot index %v", cur.Type())
		}
	}
	return cur, nil
}
