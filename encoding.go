// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jbl

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/creachadair/jbl/internal/escape"

	"go4.org/mem"
)

// Quote encodes src as a JSON string value. The contents are escaped and
// double quotation marks are added.
func Quote(src string) string { return string(escape.Quote(mem.S(src))) }

// Unquote decodes a JSON string value.  Double quotation marks are removed,
// and escape sequences are replaced with their unescaped equivalents.
//
// Unquote reports an error wrapping ErrInvalidCodepoint for an invalid or
// incomplete escape sequence.
func Unquote(src []byte) ([]byte, error) {
	if len(src) < 2 || !bytes.HasPrefix(src, []byte(`"`)) || !bytes.HasSuffix(src, []byte(`"`)) {
		return nil, errors.New("missing quotations")
	}
	dec, err := escape.Unquote(mem.B(src[1 : len(src)-1]))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCodepoint, err)
	}
	return dec, nil
}

// unquoteString decodes the quoted string text of a scanned token.
func unquoteString(text []byte) (string, error) {
	dec, err := Unquote(text)
	if err != nil {
		return "", err
	}
	return string(dec), nil
}
