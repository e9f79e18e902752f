// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package patch

import (
	"fmt"

	"github.com/creachadair/jbl"
	"github.com/creachadair/jbl/tree"
)

// Parse parses patchJSON as a JSON Patch document: an array of operation
// objects. Every operation is checked before Parse returns, so a patch that
// parses successfully is free of structural errors; errors that depend on
// the target document are reported by Apply.
//
// The values of the operations are parsed into a private arena, and are
// available both as compact JSON text (Value) and as trees (Node).
//
// Parse reports an error wrapping jbl.ErrPatchInvalid if the document is
// not an array of objects or an operation lacks a required string field,
// jbl.ErrPatchInvalidOp for an unknown operation, and jbl.ErrPatchNoValue
// if an add, replace or test operation lacks a value.
func Parse(patchJSON []byte) ([]Operation, error) {
	a := tree.NewArena()
	root, err := tree.Parse(patchJSON, a)
	if err != nil {
		return nil, err
	} else if root.Type() != jbl.TypeArray {
		return nil, fmt.Errorf("%w: patch is %v, not an array", jbl.ErrPatchInvalid, root.Type())
	}
	ops := make([]Operation, 0, root.Len())
	for elt := range root.Children() {
		op, err := parseOperation(elt)
		if err != nil {
			return nil, fmt.Errorf("operation %d: %w", len(ops), err)
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func parseOperation(n tree.Node) (Operation, error) {
	if n.Type() != jbl.TypeObject {
		return Operation{}, fmt.Errorf("%w: operation is %v, not an object", jbl.ErrPatchInvalid, n.Type())
	}
	name, err := stringField(n, "op")
	if err != nil {
		return Operation{}, err
	}
	op, err := ParseOp(name)
	if err != nil {
		return Operation{}, err
	}
	out := Operation{Op: op}
	if out.Path, err = stringField(n, "path"); err != nil {
		return Operation{}, err
	} else if _, err := jbl.ParsePointer(out.Path); err != nil {
		return Operation{}, fmt.Errorf("%w: path: %w", jbl.ErrPatchInvalid, err)
	}
	if op.needsFrom() {
		if out.From, err = stringField(n, "from"); err != nil {
			return Operation{}, err
		} else if _, err := jbl.ParsePointer(out.From); err != nil {
			return Operation{}, fmt.Errorf("%w: from: %w", jbl.ErrPatchInvalid, err)
		}
	}
	if op.needsValue() {
		v := n.Get("value")
		if v.IsNil() {
			return Operation{}, fmt.Errorf("%w: %v requires a value", jbl.ErrPatchNoValue, op)
		}
		out.Node = v
		out.Value = v.String()
	}
	return out, nil
}

// stringField returns the value of the string member of n named key.
func stringField(n tree.Node, key string) (string, error) {
	f := n.Get(key)
	if f.IsNil() {
		return "", fmt.Errorf("%w: missing %q", jbl.ErrPatchInvalid, key)
	} else if f.Type() != jbl.TypeString {
		return "", fmt.Errorf("%w: %q is %v, not a string", jbl.ErrPatchInvalid, key, f.Type())
	}
	return f.Str(), nil
}
