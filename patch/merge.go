// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package patch

import (
	"github.com/creachadair/jbl"
	"github.com/creachadair/jbl/tree"
)

// Merge parses patchJSON and applies it as a JSON Merge Patch (RFC 7396) to
// the tree rooted at root, which is modified in place. If patchJSON is not
// valid JSON, root is not modified.
func Merge(root tree.Node, patchJSON []byte) error {
	p, err := tree.Parse(patchJSON, root.Arena())
	if err != nil {
		return err
	}
	MergeNode(root, p)
	return nil
}

// MergeNode applies the tree rooted at patch as a JSON Merge Patch to the
// tree rooted at root. The patch may belong to any arena, and is not
// modified; the values it contributes are copied into the arena of root.
//
// If patch is not an object, it replaces root entirely. Otherwise, each
// member of patch with a null value removes the member with that key from
// root, each member whose value is an object is merged recursively, and
// every other member replaces or adds the member with that key. A root that
// is not an object is replaced by an empty object before the members of the
// patch are merged into it.
func MergeNode(root, patch tree.Node) {
	a := root.Arena()
	if patch.Type() != jbl.TypeObject {
		root.Assign(tree.Clone(patch, a))
		return
	}
	if root.Type() != jbl.TypeObject {
		root.Assign(a.Object())
	}
	for pm := range patch.Children() {
		key := pm.Key()
		tm := root.Get(key)
		switch pm.Type() {
		case jbl.TypeNull:
			if !tm.IsNil() {
				tm.Detach()
			}
		case jbl.TypeObject:
			if tm.IsNil() {
				tm = a.Object()
				root.Set(key, tm)
			}
			MergeNode(tm, pm)
		default:
			root.Set(key, tree.Clone(pm, a))
		}
	}
}

// MergeValue applies patchJSON as a JSON Merge Patch to the encoded value v.
// The contents of v are replaced only if the patch applies successfully.
func MergeValue(v *jbl.Value, patchJSON []byte) error {
	var pa tree.Arena
	p, err := tree.Parse(patchJSON, &pa)
	if err != nil {
		return err
	}
	return editValue(v, func(root tree.Node) error {
		MergeNode(root, p)
		return nil
	})
}
