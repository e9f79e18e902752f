// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package escape_test

import (
	"errors"
	"testing"

	"github.com/creachadair/jbl/internal/escape"
	"go4.org/mem"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"", `""`},
		{"plain text", `"plain text"`},
		{`a"b\c`, `"a\"b\\c"`},
		{"\b\f\n\r\t", `"\b\f\n\r\t"`},
		{"\x01\x1f", `"\u0001\u001f"`},
		{"caf\xc3\xa9", "\"caf\xc3\xa9\""},
		{"\xe2\x80\xa8 \xe2\x80\xa9", `"\u2028 \u2029"`},
		{"bad\xff", `"bad\ufffd"`},
		{"</script>", `"</script>"`},
	}
	for _, tc := range tests {
		if got := string(escape.Quote(mem.S(tc.input))); got != tc.want {
			t.Errorf("Quote(%q): got %#q, want %#q", tc.input, got, tc.want)
		}
	}

	// AppendQuote extends its buffer in place.
	buf := escape.AppendQuote([]byte("x="), mem.S("y"))
	if got, want := string(buf), `x="y"`; got != want {
		t.Errorf("AppendQuote: got %#q, want %#q", got, want)
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		input, want string
		fail        bool
	}{
		{``, ``, false},
		{`no escapes`, `no escapes`, false},
		{`a\"b\\c\/d`, `a"b\c/d`, false},
		{`\b\f\n\r\t`, "\b\f\n\r\t", false},
		{`A\u00e9`, "A\xc3\xa9", false},
		{`\ud83d\ude00!`, "\xf0\x9f\x98\x80!", false},

		{`\`, ``, true},
		{`\q`, ``, true},
		{`\u12`, ``, true},
		{`\u12xy`, ``, true},
		{`\ud83d`, ``, true},
		{`\ud83dx`, ``, true},
		{`\ude00`, ``, true},
		{`\ud83dA`, ``, true},
	}
	for _, tc := range tests {
		got, err := escape.Unquote(mem.S(tc.input))
		if tc.fail {
			if !errors.Is(err, escape.ErrCodepoint) {
				t.Errorf("Unquote(%#q): got %q, %v; want %v", tc.input, got, err, escape.ErrCodepoint)
			}
			continue
		}
		if err != nil {
			t.Errorf("Unquote(%#q): unexpected error: %v", tc.input, err)
		} else if string(got) != tc.want {
			t.Errorf("Unquote(%#q): got %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, s := range []string{"", "abc", "tab\there", `q"uote`, "\x00\x7f", "\xf0\x9f\x98\x80"} {
		q := escape.Quote(mem.S(s))
		got, err := escape.Unquote(mem.B(q[1 : len(q)-1]))
		if err != nil {
			t.Errorf("Unquote(%#q): unexpected error: %v", q, err)
		} else if string(got) != s {
			t.Errorf("Round trip %q: got %q", s, got)
		}
	}
}
