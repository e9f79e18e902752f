// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jbl_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/agentflare-ai/jsonpointer"
	"github.com/creachadair/jbl"
	"github.com/google/go-cmp/cmp"
)

func TestParsePointer(t *testing.T) {
	tests := []struct {
		input string
		want  jbl.Pointer
		err   bool
	}{
		{"", jbl.Pointer{}, false},
		{"/", jbl.Pointer{""}, false},
		{"//", jbl.Pointer{"", ""}, false},
		{"/a/0", jbl.Pointer{"a", "0"}, false},
		{"/a~1b", jbl.Pointer{"a/b"}, false},
		{"/m~0n", jbl.Pointer{"m~n"}, false},
		{"/~01", jbl.Pointer{"~1"}, false},
		{"/~10", jbl.Pointer{"/0"}, false},
		{"a", nil, true},
		{"/~", nil, true},
		{"/~2", nil, true},
		{"/a/b~x", nil, true},
	}
	for _, tc := range tests {
		got, err := jbl.ParsePointer(tc.input)
		if tc.err {
			if !errors.Is(err, jbl.ErrPointer) {
				t.Errorf("ParsePointer(%q): got %q, %v; want %v", tc.input, got, err, jbl.ErrPointer)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePointer(%q): unexpected error: %v", tc.input, err)
			continue
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("ParsePointer(%q) (-want, +got):\n%s", tc.input, diff)
		}
		if s := got.String(); s != tc.input {
			t.Errorf("String: got %q, want %q", s, tc.input)
		}
	}
}

func TestPointerMethods(t *testing.T) {
	p := jbl.Pointer{"a", "b/c", "2"}

	par, last := p.Parent()
	if diff := cmp.Diff(jbl.Pointer{"a", "b/c"}, par); diff != "" || last != "2" {
		t.Errorf("Parent: got %q, %q; want [a b/c], 2", par, last)
	}
	if par, last := (jbl.Pointer{}).Parent(); par != nil || last != "" {
		t.Errorf("Parent of empty: got %q, %q; want nil, empty", par, last)
	}

	for _, tc := range []struct {
		q    jbl.Pointer
		want bool
	}{
		{jbl.Pointer{}, true},
		{jbl.Pointer{"a"}, true},
		{jbl.Pointer{"a", "b/c", "2"}, true},
		{jbl.Pointer{"a", "b"}, false},
		{jbl.Pointer{"a", "b/c", "2", "x"}, false},
	} {
		if got := p.HasPrefix(tc.q); got != tc.want {
			t.Errorf("HasPrefix(%q): got %v, want %v", tc.q, got, tc.want)
		}
	}

	for _, tc := range []struct {
		tok  string
		want int
		err  error
	}{
		{"0", 0, nil},
		{"17", 17, nil},
		{"-", jbl.EndIndex, nil},
		{"01", 0, jbl.ErrPointer},
		{"", 0, jbl.ErrPointer},
		{"1x", 0, jbl.ErrPointer},
		{"+1", 0, jbl.ErrPointer},
		{"99999999999999999999999", 0, jbl.ErrPathNotFound},
	} {
		got, err := jbl.Pointer{tc.tok}.Index(0)
		if tc.err != nil {
			if !errors.Is(err, tc.err) {
				t.Errorf("Index(%q): got %d, %v; want %v", tc.tok, got, err, tc.err)
			}
		} else if err != nil || got != tc.want {
			t.Errorf("Index(%q): got %d, %v; want %d", tc.tok, got, err, tc.want)
		}
	}
}

func TestAtReference(t *testing.T) {
	// Resolution over the encoded form agrees with resolution over decoded
	// values by an independent implementation.
	const doc = `{
  "foo": ["bar", "baz"],
  "": 0,
  "a/b": 1,
  "c%d": 2,
  "e^f": 3,
  "g|h": 4,
  "i\\j": 5,
  "k\"l": 6,
  " ": 7,
  "m~n": 8,
  "deep": {"list": [{"x": [true, null, {"y": "z"}]}]}
}`
	pointers := []string{
		"", "/foo", "/foo/0", "/foo/1", "/", "/a~1b", "/c%d", "/e^f", "/g|h",
		`/i\j`, `/k"l`, "/ ", "/m~0n", "/deep/list/0/x/2/y", "/deep/list/0/x/1",
	}

	v := mustParse(t, doc)
	var ref any
	if err := json.Unmarshal([]byte(doc), &ref); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	for _, ptr := range pointers {
		got, err := v.At(ptr)
		if err != nil {
			t.Errorf("At(%q): unexpected error: %v", ptr, err)
			continue
		}
		want, err := jsonpointer.Get(ref, ptr)
		if err != nil {
			t.Fatalf("Reference Get(%q): %v", ptr, err)
		}
		var gotAny any
		if err := json.Unmarshal([]byte(got.String()), &gotAny); err != nil {
			t.Fatalf("Unmarshal result %q: %v", got, err)
		}
		if diff := cmp.Diff(want, gotAny); diff != "" {
			t.Errorf("At(%q) (-want, +got):\n%s", ptr, diff)
		}
	}
}
