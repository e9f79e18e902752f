// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package patch implements JSON Patch (RFC 6902) and JSON Merge Patch
// (RFC 7396) over the trees of package tree and the encoded values of
// package jbl.
//
// Patches are applied in place, one operation at a time, stopping at the
// first failure. The effects of operations that succeeded before a failure
// remain in the tree. To apply a patch all-or-nothing, apply it to a copy of
// the tree (see tree.Clone), or use ApplyValue, which only replaces the
// contents of an encoded value when the whole patch succeeds.
package patch

import (
	"errors"
	"fmt"

	"github.com/creachadair/jbl"
	"github.com/creachadair/jbl/tree"
)

// An Op is a JSON Patch operation type.
type Op byte

// Constants defining the valid Op values.
const (
	Invalid Op = iota // not a valid operation
	Add               // add a value
	Remove            // remove a value
	Replace           // replace a value
	Copy              // copy a value to another location
	Move              // move a value to another location
	Test              // test that a value equals a given value
)

var opName = [...]string{
	Invalid: "invalid",
	Add:     "add",
	Remove:  "remove",
	Replace: "replace",
	Copy:    "copy",
	Move:    "move",
	Test:    "test",
}

func (o Op) String() string {
	if int(o) >= len(opName) {
		return opName[Invalid]
	}
	return opName[o]
}

// ParseOp returns the Op with the given name. It reports an error wrapping
// jbl.ErrPatchInvalidOp for an unknown name.
func ParseOp(name string) (Op, error) {
	for i, s := range opName[1:] {
		if s == name {
			return Op(i + 1), nil
		}
	}
	return Invalid, fmt.Errorf("%w: %q", jbl.ErrPatchInvalidOp, name)
}

// needsValue reports whether o requires a value.
func (o Op) needsValue() bool { return o == Add || o == Replace || o == Test }

// needsFrom reports whether o requires a source path.
func (o Op) needsFrom() bool { return o == Copy || o == Move }

// An Operation is a single JSON Patch operation.
type Operation struct {
	Op   Op
	Path string // JSON pointer to the target location
	From string // JSON pointer to the source location (copy, move)

	// The value for add, replace and test is given either as JSON text in
	// Value, or as a tree in Node. If Node is not nil, Value is ignored.
	// A Node value is copied into the target tree, so one node may be used
	// by several operations.
	Value string
	Node  tree.Node
}

func (op Operation) hasValue() bool { return !op.Node.IsNil() || op.Value != "" }

// An Error reports the failure of an operation within a patch. It wraps the
// error that caused the failure.
type Error struct {
	Index int // offset of the operation in the patch
	Op    Op
	Path  string
	Err   error
}

// Error satisfies the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("patch operation %d (%v %q): %v", e.Index, e.Op, e.Path, e.Err)
}

// Unwrap supports error wrapping.
func (e *Error) Unwrap() error { return e.Err }

// Apply applies ops in order to the tree rooted at root, which is modified
// in place. Application stops at the first operation that fails, and an
// error of concrete type *Error is returned; the effects of the operations
// that preceded it are not undone.
func Apply(root tree.Node, ops []Operation) error {
	for i, op := range ops {
		if err := applyOne(root, op); err != nil {
			return &Error{Index: i, Op: op.Op, Path: op.Path, Err: err}
		}
	}
	return nil
}

// ApplyJSON parses patchJSON as a JSON Patch document and applies it to the
// tree rooted at root, as Apply. If the document is invalid, no operation is
// applied.
func ApplyJSON(root tree.Node, patchJSON []byte) error {
	ops, err := Parse(patchJSON)
	if err != nil {
		return err
	}
	return Apply(root, ops)
}

// ApplyValue applies ops to the encoded value v. The value is decoded into a
// private tree, patched, and encoded again; v is updated only if every
// operation succeeds, and is left unchanged otherwise.
func ApplyValue(v *jbl.Value, ops []Operation) error {
	return editValue(v, func(root tree.Node) error { return Apply(root, ops) })
}

// ApplyValueJSON parses patchJSON as a JSON Patch document and applies it to
// the encoded value v, as ApplyValue.
func ApplyValueJSON(v *jbl.Value, patchJSON []byte) error {
	ops, err := Parse(patchJSON)
	if err != nil {
		return err
	}
	return ApplyValue(v, ops)
}

// editValue decodes v, applies edit to the resulting tree, and replaces the
// contents of v with the edited tree if edit succeeds.
func editValue(v *jbl.Value, edit func(tree.Node) error) error {
	var a tree.Arena
	defer a.Reset()

	root, err := tree.Decode(v, &a)
	if err != nil {
		return err
	} else if err := edit(root); err != nil {
		return err
	}
	out, err := tree.Encode(root)
	if err != nil {
		return err
	}
	return v.Replace(out)
}

func applyOne(root tree.Node, op Operation) error {
	path, err := jbl.ParsePointer(op.Path)
	if err != nil {
		return err
	}
	if op.Op.needsValue() && !op.hasValue() {
		return jbl.ErrPatchNoValue
	}
	switch op.Op {
	case Add:
		v, err := valueNode(root.Arena(), op)
		if err != nil {
			return err
		}
		return add(root, path, v)

	case Remove:
		if len(path) == 0 {
			return fmt.Errorf("%w: cannot remove the root", jbl.ErrPatchTargetInvalid)
		}
		n, err := root.Find(path)
		if err != nil {
			return err
		}
		n.Detach()
		return nil

	case Replace:
		n, err := root.Find(path)
		if err != nil {
			return err
		}
		v, err := valueNode(root.Arena(), op)
		if err != nil {
			return err
		}
		if len(path) == 0 {
			root.Assign(v)
		} else {
			n.ReplaceWith(v)
		}
		return nil

	case Copy, Move:
		from, err := jbl.ParsePointer(op.From)
		if err != nil {
			return err
		}
		src, err := root.Find(from)
		if err != nil {
			return err
		}
		if op.Op == Copy {
			return add(root, path, tree.Clone(src, root.Arena()))
		}
		return move(root, src, from, path)

	case Test:
		n, err := root.Find(path)
		if err != nil {
			return errors.Join(jbl.ErrPatchTestFailed, err)
		}
		want := op.Node
		if want.IsNil() {
			var a tree.Arena
			want, err = tree.ParseString(op.Value, &a)
			if err != nil {
				return err
			}
		}
		if !tree.Equal(n, want) {
			return fmt.Errorf("%w: value at %q is %s, want %s", jbl.ErrPatchTestFailed, op.Path, n, want)
		}
		return nil

	default:
		return fmt.Errorf("%w: %v", jbl.ErrPatchInvalidOp, op.Op)
	}
}

// valueNode returns a detached copy of the value of op in a.
func valueNode(a *tree.Arena, op Operation) (tree.Node, error) {
	if !op.Node.IsNil() {
		return tree.Clone(op.Node, a), nil
	}
	return tree.ParseString(op.Value, a)
}

// add inserts the detached node v at path, following the rules of the "add"
// operation.
func add(root tree.Node, path jbl.Pointer, v tree.Node) error {
	if len(path) == 0 {
		root.Assign(v)
		return nil
	}
	ppath, last := path.Parent()
	parent, err := root.Find(ppath)
	if errors.Is(err, jbl.ErrPathNotFound) {
		return fmt.Errorf("%w: %w", jbl.ErrPatchTargetInvalid, err)
	} else if err != nil {
		return err
	}
	switch parent.Type() {
	case jbl.TypeObject:
		parent.Set(last, v)
		return nil

	case jbl.TypeArray:
		if last == "-" {
			parent.Append(v)
			return nil
		}
		idx, ok, err := jbl.ParseIndex(last)
		if !ok || err != nil || idx > parent.Len() {
			return fmt.Errorf("%w: %q (length %d)", jbl.ErrPatchInvalidArrayIndex, last, parent.Len())
		}
		parent.InsertBefore(v, parent.Index(idx)) // Index(Len()) is nil, meaning append
		return nil

	default:
		return fmt.Errorf("%w: parent of %q is %v", jbl.ErrPatchTargetInvalid, path.String(), parent.Type())
	}
}

// move relocates src, found at from, to path. If the destination is invalid,
// src is restored to its original position.
func move(root, src tree.Node, from, path jbl.Pointer) error {
	if len(path) == len(from) && path.HasPrefix(from) {
		return nil // moving a value onto itself
	} else if path.HasPrefix(from) {
		return fmt.Errorf("%w: cannot move %q into its own descendant %q",
			jbl.ErrPatchTargetInvalid, from.String(), path.String())
	}
	parent, next, key := src.Parent(), src.Next(), src.Key()
	src.Detach()
	if err := add(root, path, src); err != nil {
		src.SetKey(key)
		parent.InsertBefore(src, next)
		return err
	}
	return nil
}
