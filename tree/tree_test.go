// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package tree_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/creachadair/jbl"
	"github.com/creachadair/jbl/tree"
	"github.com/creachadair/mds/mtest"
	"github.com/google/go-cmp/cmp"
)

func mustParse(t *testing.T, a *tree.Arena, text string) tree.Node {
	t.Helper()
	n, err := tree.ParseString(text, a)
	if err != nil {
		t.Fatalf("Parse %#q: unexpected error: %v", text, err)
	}
	return n
}

func TestDecodeEncode(t *testing.T) {
	tests := []string{
		`null`,
		`true`,
		`-12`,
		`1.0`,
		`2.5e-10`,
		`"text"`,
		`[]`,
		`{}`,
		`{"z":1,"a":2.0,"m":[true,false,null,{"q":"r"}]}`,
		`[[[]],{"":{}}]`,
		`{"dup":1,"dup":2}`,
	}
	for _, text := range tests {
		v, err := jbl.ParseString(text)
		if err != nil {
			t.Fatalf("Parse %#q: %v", text, err)
		}

		var a tree.Arena
		n, err := tree.Decode(v, &a)
		if err != nil {
			t.Fatalf("Decode %#q: unexpected error: %v", text, err)
		}
		if got := n.String(); got != v.String() {
			t.Errorf("Decode %#q: got %#q, want %#q", text, got, v.String())
		}

		w, err := tree.Encode(n)
		if err != nil {
			t.Fatalf("Encode %#q: unexpected error: %v", text, err)
		}
		if !bytes.Equal(w.Bytes(), v.Bytes()) {
			t.Errorf("Encode %#q: got %x, want %x", text, w.Bytes(), v.Bytes())
		}

		// Parsing text directly yields the same tree as decoding.
		p := mustParse(t, &a, text)
		if got := p.String(); got != n.String() {
			t.Errorf("Parse %#q: got %#q, want %#q", text, got, n.String())
		}
	}
}

func TestParseErrors(t *testing.T) {
	var a tree.Arena
	mustParse(t, &a, `[1,2,3]`)
	before := a.Len()

	for _, tc := range []struct {
		input string
		want  error
	}{
		{`[1, 2, {"a": }]`, jbl.ErrParse},
		{`{"ok": [true, bogus]}`, jbl.ErrUnquotedString},
		{`["\x"]`, jbl.ErrInvalidCodepoint},
		{``, jbl.ErrParse},
	} {
		n, err := tree.ParseString(tc.input, &a)
		if !errors.Is(err, tc.want) {
			t.Errorf("Parse %#q: got %v, %v; want %v", tc.input, n, err, tc.want)
		}
		if !n.IsNil() {
			t.Errorf("Parse %#q: got non-nil node %v on error", tc.input, n)
		}
		if a.Len() != before {
			t.Errorf("Parse %#q: arena grew from %d to %d nodes", tc.input, before, a.Len())
		}
	}
}

func TestParseWith(t *testing.T) {
	var a tree.Arena
	n, err := tree.ParseWith([]byte(`{"a": [1, 2,], // note
}`), jbl.Options{AllowComments: true, AllowTrailingCommas: true}, &a)
	if err != nil {
		t.Fatalf("ParseWith: unexpected error: %v", err)
	}
	if got := n.String(); got != `{"a":[1,2]}` {
		t.Errorf("ParseWith: got %#q, want %#q", got, `{"a":[1,2]}`)
	}
}

func TestNavigation(t *testing.T) {
	var a tree.Arena
	root := mustParse(t, &a, `{"a":1,"b":[10,20,30],"c":"s"}`)

	if got := root.Type(); got != jbl.TypeObject {
		t.Errorf("Type: got %v, want object", got)
	}
	if got := root.Len(); got != 3 {
		t.Errorf("Len: got %d, want 3", got)
	}
	var keys []string
	for c := range root.Children() {
		keys = append(keys, c.Key())
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, keys); diff != "" {
		t.Errorf("Keys (-want, +got):\n%s", diff)
	}

	b := root.Get("b")
	if b.IsNil() || b.Len() != 3 {
		t.Fatalf("Get(b): got %v", b)
	}
	if got := b.Index(1).Int(); got != 20 {
		t.Errorf("Index(1): got %d, want 20", got)
	}
	if !b.Index(3).IsNil() || !b.Index(-1).IsNil() {
		t.Error("Index out of range: got non-nil node")
	}
	if !root.Get("nope").IsNil() || !b.Get("a").IsNil() {
		t.Error("Get missing: got non-nil node")
	}
	if b.Parent() != root || !root.Parent().IsNil() {
		t.Error("Parent: wrong result")
	}
	if got := b.FirstChild().Next().Next(); got != b.LastChild() {
		t.Errorf("Next: got %v, want %v", got, b.LastChild())
	}
	if got := b.LastChild().Prev().Int(); got != 20 {
		t.Errorf("Prev: got %d, want 20", got)
	}
	if !root.Contains(b.Index(2)) || b.Contains(root) {
		t.Error("Contains: wrong result")
	}
	if got := root.Get("c").Str(); got != "s" {
		t.Errorf("Str: got %q, want s", got)
	}
}

func TestAt(t *testing.T) {
	var a tree.Arena
	root := mustParse(t, &a, `{"a":{"b":[10,20,{"c~d":"x","e/f":"y"}]},"":0}`)
	tests := []struct {
		ptr  string
		want string
		err  error
	}{
		{"", root.String(), nil},
		{"/a/b/1", `20`, nil},
		{"/a/b/2/c~0d", `"x"`, nil},
		{"/a/b/2/e~1f", `"y"`, nil},
		{"/", `0`, nil},
		{"/a/b/3", "", jbl.ErrPathNotFound},
		{"/a/b/-", "", jbl.ErrPathNotFound},
		{"/a/x", "", jbl.ErrPathNotFound},
		{"/a/b/0/0", "", jbl.ErrPathNotFound},
		{"/a/b/one", "", jbl.ErrPointer},
		{"/a/b/00", "", jbl.ErrPointer},
		{"a/b", "", jbl.ErrPointer},
	}
	for _, tc := range tests {
		got, err := root.At(tc.ptr)
		if tc.err != nil {
			if !errors.Is(err, tc.err) {
				t.Errorf("At(%q): got %v, %v; want error %v", tc.ptr, got, err, tc.err)
			}
			continue
		}
		if err != nil {
			t.Errorf("At(%q): unexpected error: %v", tc.ptr, err)
		} else if s := got.String(); s != tc.want {
			t.Errorf("At(%q): got %#q, want %#q", tc.ptr, s, tc.want)
		}
	}
}

func TestEdit(t *testing.T) {
	var a tree.Arena
	root := mustParse(t, &a, `{"a":1,"b":[1,2,3]}`)
	check := func(want string) {
		t.Helper()
		if got := root.String(); got != want {
			t.Errorf("Tree: got %#q, want %#q", got, want)
		}
	}

	// Set replaces an existing member in place.
	root.Set("a", a.String("one"))
	check(`{"a":"one","b":[1,2,3]}`)

	// Set appends a new member.
	root.Set("c", a.Null())
	check(`{"a":"one","b":[1,2,3],"c":null}`)

	b := root.Get("b")
	b.InsertBefore(a.Int(0), b.FirstChild())
	b.Append(a.Float(4.5))
	check(`{"a":"one","b":[0,1,2,3,4.5],"c":null}`)

	b.Index(2).Detach()
	check(`{"a":"one","b":[0,1,3,4.5],"c":null}`)
	if b.Len() != 4 {
		t.Errorf("Len after Detach: got %d, want 4", b.Len())
	}

	b.Index(0).ReplaceWith(a.Bool(true))
	check(`{"a":"one","b":[true,1,3,4.5],"c":null}`)

	root.Get("a").ReplaceWith(a.Array())
	check(`{"a":[],"b":[true,1,3,4.5],"c":null}`)

	root.Get("c").SetKey("d")
	check(`{"a":[],"b":[true,1,3,4.5],"d":null}`)

	// Assign replaces the contents of the root in place.
	sub := root.Get("b")
	sub.Detach()
	root.Assign(sub)
	check(`[true,1,3,4.5]`)
	if got := root.Len(); got != 4 {
		t.Errorf("Len after Assign: got %d, want 4", got)
	}
	for c := range root.Children() {
		if c.Parent() != root {
			t.Errorf("Parent of %v after Assign: got %v, want root", c, c.Parent())
		}
	}
}

func TestEditPanics(t *testing.T) {
	var a tree.Arena
	root := mustParse(t, &a, `{"a":[1],"b":2}`)
	arr := root.Get("a")

	mtest.MustPanic(t, func() { arr.Append(root.Get("b")) })          // already attached
	mtest.MustPanic(t, func() { root.Get("b").Append(a.Null()) })     // scalar parent
	mtest.MustPanic(t, func() { arr.Set("x", a.Null()) })             // Set on array
	mtest.MustPanic(t, func() { arr.InsertBefore(a.Null(), root) })   // ref not a child
	mtest.MustPanic(t, func() { root.ReplaceWith(a.Null()) })         // detached target
	mtest.MustPanic(t, func() { arr.Append(tree.NewArena().Null()) }) // different arena
	mtest.MustPanic(t, func() { (tree.Node{}).Type() })               // nil node

	mtest.MustPanic(t, func() {
		arr.Detach()
		arr.Index(0).Assign(arr) // ancestor into descendant
	})
}

func TestStaleNode(t *testing.T) {
	a := tree.NewArena()
	root := mustParse(t, a, `{"a":[1,2]}`)
	elt := root.Get("a").Index(0)
	if a.Len() != 4 {
		t.Errorf("Len: got %d, want 4", a.Len())
	}

	a.Reset()
	if a.Len() != 0 {
		t.Errorf("Len after Reset: got %d, want 0", a.Len())
	}
	mtest.MustPanic(t, func() { root.Type() })
	mtest.MustPanic(t, func() { elt.Int() })

	// Nodes allocated after the reset are valid.
	n := mustParse(t, a, `[true]`)
	if got := n.String(); got != `[true]` {
		t.Errorf("After Reset: got %#q, want [true]", got)
	}
}

func TestClone(t *testing.T) {
	var a, b tree.Arena
	root := mustParse(t, &a, `{"k":{"x":[1,{"y":2}],"z":null}}`)
	src := root.Get("k")

	c := tree.Clone(src, &b)
	if c.Arena() != &b {
		t.Error("Clone: result is not in the target arena")
	}
	if got, want := c.String(), src.String(); got != want {
		t.Errorf("Clone: got %#q, want %#q", got, want)
	}
	if got := c.Key(); got != "k" {
		t.Errorf("Clone key: got %q, want k", got)
	}
	if !c.Parent().IsNil() {
		t.Error("Clone: result is attached")
	}

	// Modifying the clone does not affect the original.
	c.Get("x").Append(b.Int(3))
	if got := src.String(); got != `{"x":[1,{"y":2}],"z":null}` {
		t.Errorf("Original after edit: got %#q", got)
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		x, y string
		want bool
	}{
		{`null`, `null`, true},
		{`true`, `true`, true},
		{`true`, `false`, false},
		{`1`, `1`, true},
		{`1`, `1.0`, true},
		{`1.5`, `1.5`, true},
		{`1`, `2`, false},
		{`1`, `"1"`, false},
		{`"a"`, `"a"`, true},
		{`"a"`, `"b"`, false},
		{`[]`, `[]`, true},
		{`[1,2]`, `[1,2]`, true},
		{`[1,2]`, `[2,1]`, false},
		{`[1,2]`, `[1,2,3]`, false},
		{`{}`, `{}`, true},
		{`{"a":1,"b":2}`, `{"b":2,"a":1}`, true},
		{`{"a":1,"b":2}`, `{"a":1,"b":3}`, false},
		{`{"a":1}`, `{"a":1,"b":2}`, false},
		{`{"a":1}`, `{"b":1}`, false},
		{`{"a":[{"b":null}]}`, `{"a":[{"b":null}]}`, true},
		{`{}`, `[]`, false},
		{`null`, `false`, false},
	}
	var a tree.Arena
	for _, tc := range tests {
		x, y := mustParse(t, &a, tc.x), mustParse(t, &a, tc.y)
		if got := tree.Equal(x, y); got != tc.want {
			t.Errorf("Equal(%s, %s): got %v, want %v", tc.x, tc.y, got, tc.want)
		}
		if got := tree.Equal(y, x); got != tc.want {
			t.Errorf("Equal(%s, %s): got %v, want %v", tc.y, tc.x, got, tc.want)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	var a tree.Arena
	root := a.Object()
	root.Set("name", a.String("tree"))
	list := a.Array()
	list.Append(a.Int(1))
	list.Append(a.Float(2))
	root.Set("list", list)

	var buf jbl.BufferSink
	if err := root.WriteJSON(&buf, true); err != nil {
		t.Fatalf("WriteJSON: unexpected error: %v", err)
	}
	const want = `{
  "name": "tree",
  "list": [
    1,
    2.0
  ]
}`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("WriteJSON (-want, +got):\n%s", diff)
	}
	if got := (tree.Node{}).String(); got != "<nil>" {
		t.Errorf("String of nil: got %q, want <nil>", got)
	}
}
