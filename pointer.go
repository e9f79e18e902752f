// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jbl

import (
	"fmt"
	"strconv"
	"strings"
)

// A Pointer is a parsed JSON pointer (RFC 6901). Each element is one
// reference token with its escapes already decoded. The empty Pointer
// denotes the whole document.
type Pointer []string

// EndIndex is the array index reported by Pointer.Index for the token "-",
// which denotes the position one past the last element of an array.
const EndIndex = -1

// ParsePointer parses s as a JSON pointer. The empty string is the empty
// pointer; otherwise s must begin with "/", and each "~" must be followed by
// "0" (denoting "~") or "1" (denoting "/"). A malformed pointer is reported
// as a *PointerError wrapping ErrPointer.
func ParsePointer(s string) (Pointer, error) {
	if s == "" {
		return Pointer{}, nil
	}
	rest, ok := strings.CutPrefix(s, "/")
	if !ok {
		return nil, &PointerError{Pointer: s, Token: -1, Message: `missing leading "/"`, err: ErrPointer}
	}
	toks := strings.Split(rest, "/")
	for i, tok := range toks {
		if !strings.Contains(tok, "~") {
			continue
		}
		dec, err := unescapeToken(tok)
		if err != nil {
			return nil, &PointerError{Pointer: s, Token: i, Message: err.Error(), err: ErrPointer}
		}
		toks[i] = dec
	}
	return Pointer(toks), nil
}

func unescapeToken(tok string) (string, error) {
	var sb strings.Builder
	for i := 0; i < len(tok); i++ {
		if tok[i] != '~' {
			sb.WriteByte(tok[i])
			continue
		}
		i++
		if i == len(tok) {
			return "", fmt.Errorf("incomplete escape in %q", tok)
		}
		switch tok[i] {
		case '0':
			sb.WriteByte('~')
		case '1':
			sb.WriteByte('/')
		default:
			return "", fmt.Errorf("invalid escape ~%c in %q", tok[i], tok)
		}
	}
	return sb.String(), nil
}

// String returns the text of p with reference tokens escaped.
func (p Pointer) String() string {
	var sb strings.Builder
	for _, tok := range p {
		sb.WriteByte('/')
		sb.WriteString(tokenEscaper.Replace(tok))
	}
	return sb.String()
}

var tokenEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// Parent returns the pointer to the container of the value addressed by p,
// along with the final token of p. It returns nil, "" for the empty pointer.
func (p Pointer) Parent() (Pointer, string) {
	if len(p) == 0 {
		return nil, ""
	}
	return p[:len(p)-1], p[len(p)-1]
}

// HasPrefix reports whether q is a prefix of p.
func (p Pointer) HasPrefix(q Pointer) bool {
	if len(q) > len(p) {
		return false
	}
	for i, tok := range q {
		if p[i] != tok {
			return false
		}
	}
	return true
}

// Index interprets token i of p as an array index. A token of "-" yields
// EndIndex. A token that is not a non-negative decimal integer without
// redundant leading zeroes is reported as a *PointerError wrapping
// ErrPointer; an index too large to represent is reported as ErrPathNotFound.
func (p Pointer) Index(i int) (int, error) {
	tok := p[i]
	if tok == "-" {
		return EndIndex, nil
	}
	idx, ok, err := ParseIndex(tok)
	if err != nil {
		return 0, p.NotFound(i, "index %q: %v", tok, err)
	} else if !ok {
		return 0, p.Malformed(i, "invalid array index %q", tok)
	}
	return idx, nil
}

// ParseIndex parses tok as an array index. It reports ok == false if tok is
// not syntactically an index: a non-empty run of decimal digits without a
// redundant leading zero. An index that is syntactically valid but too large
// for an int is reported as an error.
func ParseIndex(tok string) (_ int, ok bool, _ error) {
	if tok == "" || (len(tok) > 1 && tok[0] == '0') {
		return 0, false, nil
	}
	for i := 0; i < len(tok); i++ {
		if tok[i] < '0' || tok[i] > '9' {
			return 0, false, nil
		}
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, true, err
	}
	return v, true, nil
}

// NotFound returns an error reporting that token i of p does not match the
// structure of a document. It wraps ErrPathNotFound.
func (p Pointer) NotFound(i int, msg string, args ...any) error {
	return &PointerError{Pointer: p.String(), Token: i, Message: fmt.Sprintf(msg, args...), err: ErrPathNotFound}
}

// Malformed returns an error reporting that token i of p is malformed for
// the value it addresses. It wraps ErrPointer.
func (p Pointer) Malformed(i int, msg string, args ...any) error {
	return &PointerError{Pointer: p.String(), Token: i, Message: fmt.Sprintf(msg, args...), err: ErrPointer}
}
