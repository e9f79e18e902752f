// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package patch_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/creachadair/jbl"
	"github.com/creachadair/jbl/patch"
	"github.com/creachadair/jbl/tree"
	jsonpatch "github.com/evanphx/json-patch"
)

func TestMerge(t *testing.T) {
	tests := []struct {
		doc, patch, want string
	}{
		{`{"a":1,"b":{"c":2}}`, `{"b":{"c":null,"d":3}}`, `{"a":1,"b":{"d":3}}`},

		// Examples from RFC 7396 Appendix A.
		{`{"a":"b"}`, `{"a":"c"}`, `{"a":"c"}`},
		{`{"a":"b"}`, `{"b":"c"}`, `{"a":"b","b":"c"}`},
		{`{"a":"b"}`, `{"a":null}`, `{}`},
		{`{"a":"b","b":"c"}`, `{"a":null}`, `{"b":"c"}`},
		{`{"a":["b"]}`, `{"a":"c"}`, `{"a":"c"}`},
		{`{"a":"c"}`, `{"a":["b"]}`, `{"a":["b"]}`},
		{`{"a":{"b":"c"}}`, `{"a":{"b":"d","c":null}}`, `{"a":{"b":"d"}}`},
		{`{"a":[{"b":"c"}]}`, `{"a":[1]}`, `{"a":[1]}`},
		{`["a","b"]`, `["c","d"]`, `["c","d"]`},
		{`{"a":"b"}`, `["c"]`, `["c"]`},
		{`{"a":"foo"}`, `null`, `null`},
		{`{"a":"foo"}`, `"bar"`, `"bar"`},
		{`{"e":null}`, `{"a":1}`, `{"e":null,"a":1}`},
		{`[1,2]`, `{"a":"b","c":null}`, `{"a":"b"}`},
		{`{}`, `{"a":{"bb":{"ccc":null}}}`, `{"a":{"bb":{}}}`},

		// Member order and types are preserved.
		{`{"z":1,"y":2.0,"x":3}`, `{"y":2.5,"w":4}`, `{"z":1,"y":2.5,"x":3,"w":4}`},
		{`{"a":{"b":1}}`, `{"a":{}}`, `{"a":{"b":1}}`},
		{`{"a":1}`, `{}`, `{"a":1}`},
		{`{"a":1}`, `{"a":{"b":null}}`, `{"a":{}}`},
	}
	for _, tc := range tests {
		var a tree.Arena
		root := mustParse(t, &a, tc.doc)
		if err := patch.Merge(root, []byte(tc.patch)); err != nil {
			t.Errorf("Merge %s into %s: unexpected error: %v", tc.patch, tc.doc, err)
			continue
		}
		got := root.String()
		if got != tc.want {
			t.Errorf("Merge %s into %s: got %#q, want %#q", tc.patch, tc.doc, got, tc.want)
		}

		// Cross-check object merges with the reference implementation, which
		// does not preserve null members of the original document.
		isObj := strings.HasPrefix(tc.doc, "{") && strings.HasPrefix(tc.patch, "{")
		if isObj && !strings.Contains(tc.doc, "null") {
			ref, err := jsonpatch.MergePatch([]byte(tc.doc), []byte(tc.patch))
			if err != nil {
				t.Fatalf("Reference MergePatch: %v", err)
			}
			if !jsonpatch.Equal([]byte(got), ref) {
				t.Errorf("Merge %s into %s: got %#q, reference gives %#q", tc.patch, tc.doc, got, ref)
			}
		}
	}
}

func TestMergeNode(t *testing.T) {
	var a, pa tree.Arena
	root := mustParse(t, &a, `{"keep":true,"list":[1]}`)
	p := mustParse(t, &pa, `{"list":[2,3],"obj":{"x":null,"y":"z"}}`)
	before := p.String()

	patch.MergeNode(root, p)
	if got, want := root.String(), `{"keep":true,"list":[2,3],"obj":{"y":"z"}}`; got != want {
		t.Errorf("MergeNode: got %#q, want %#q", got, want)
	}
	if got := p.String(); got != before {
		t.Errorf("Patch after MergeNode: got %#q, want %#q", got, before)
	}

	// Values contributed by the patch belong to the target arena.
	for c := range root.Children() {
		if c.Arena() != &a {
			t.Errorf("Member %q is not in the target arena", c.Key())
		}
	}
}

func TestMergeErrors(t *testing.T) {
	var a tree.Arena
	root := mustParse(t, &a, `{"a":1}`)
	if err := patch.Merge(root, []byte(`{"a":}`)); !errors.Is(err, jbl.ErrParse) {
		t.Errorf("Merge: got %v, want %v", err, jbl.ErrParse)
	}
	if got := root.String(); got != `{"a":1}` {
		t.Errorf("Tree after failed merge: got %#q, want {\"a\":1}", got)
	}
}

func TestMergeValue(t *testing.T) {
	v, err := jbl.ParseString(`{"a":1,"b":{"c":2}}`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := patch.MergeValue(v, []byte(`{"b":{"c":null,"d":3}}`)); err != nil {
		t.Fatalf("MergeValue: unexpected error: %v", err)
	}
	if got, want := v.String(), `{"a":1,"b":{"d":3}}`; got != want {
		t.Errorf("MergeValue: got %#q, want %#q", got, want)
	}

	if err := patch.MergeValue(v, []byte(`{b:1}`)); !errors.Is(err, jbl.ErrUnquotedString) {
		t.Errorf("MergeValue: got %v, want %v", err, jbl.ErrUnquotedString)
	}
	if got, want := v.String(), `{"a":1,"b":{"d":3}}`; got != want {
		t.Errorf("Value after failed merge: got %#q, want %#q", got, want)
	}
}
