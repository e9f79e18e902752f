// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package escape handles quoting and unquoting of JSON strings.
package escape

import (
	"errors"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

// ErrCodepoint is reported by Unquote for an escape sequence that does not
// denote a valid Unicode code point.
var ErrCodepoint = errors.New("invalid code point")

// Unquote decodes a byte slice containing the JSON encoding of a string. The
// input must have the enclosing double quotation marks already removed.
//
// Escape sequences are replaced with their unescaped equivalents, and UTF-16
// surrogate pairs are combined. An incomplete or unknown escape, or an
// unpaired surrogate, is reported as an error wrapping ErrCodepoint.
func Unquote(src mem.RO) ([]byte, error) {
	return AppendUnquote(make([]byte, 0, src.Len()), src)
}

// AppendUnquote behaves as Unquote, but appends the decoded text to dec.
func AppendUnquote(dec []byte, src mem.RO) ([]byte, error) {
	i := mem.IndexByte(src, '\\')
	if i < 0 {
		return mem.Append(dec, src), nil
	}

	putByte := func(bs ...byte) { dec = append(dec, bs...) }
	for src.Len() != 0 {
		dec = mem.Append(dec, src.SliceTo(i))

		src = src.SliceFrom(i + 1)
		if src.Len() == 0 {
			return nil, fmt.Errorf("incomplete escape sequence: %w", ErrCodepoint)
		}
		b := src.At(0)
		src = src.SliceFrom(1)
		switch b {
		case '"', '\\', '/':
			putByte(b)
		case 'b':
			putByte('\b')
		case 'f':
			putByte('\f')
		case 'n':
			putByte('\n')
		case 'r':
			putByte('\r')
		case 't':
			putByte('\t')
		case 'u':
			r, rest, err := decodeUnicode(src)
			if err != nil {
				return nil, err
			}
			dec = utf8.AppendRune(dec, r)
			src = rest
		default:
			return nil, fmt.Errorf("invalid escape %q: %w", b, ErrCodepoint)
		}

		// Look for the next escape sequence, and if one is not found we can blit
		// the rest of the input and go home.
		i = mem.IndexByte(src, '\\')
		if i < 0 {
			dec = mem.Append(dec, src)
			break
		}
	}
	return dec, nil
}

// decodeUnicode decodes the hex digits following a "\u" escape, consuming a
// second escape when the first denotes a high surrogate.
func decodeUnicode(src mem.RO) (rune, mem.RO, error) {
	if src.Len() < 4 {
		return 0, src, fmt.Errorf("incomplete Unicode escape: %w", ErrCodepoint)
	}
	v, err := parseHex(src.SliceTo(4))
	if err != nil {
		return 0, src, err
	}
	src = src.SliceFrom(4)
	r := rune(v)
	if !utf16.IsSurrogate(r) {
		return r, src, nil
	} else if r >= 0xdc00 {
		return 0, src, fmt.Errorf("unpaired low surrogate %04x: %w", v, ErrCodepoint)
	}

	// A high surrogate must be followed immediately by an escaped low one.
	if src.Len() < 6 || src.At(0) != '\\' || src.At(1) != 'u' {
		return 0, src, fmt.Errorf("unpaired high surrogate %04x: %w", v, ErrCodepoint)
	}
	lo, err := parseHex(src.Slice(2, 6))
	if err != nil {
		return 0, src, err
	}
	c := utf16.DecodeRune(r, rune(lo))
	if c == utf8.RuneError {
		return 0, src, fmt.Errorf("invalid surrogate pair %04x %04x: %w", v, lo, ErrCodepoint)
	}
	return c, src.SliceFrom(6), nil
}

func parseHex(data mem.RO) (int64, error) {
	var v int64
	for i := 0; i < data.Len(); i++ {
		b := data.At(i)
		v <<= 4
		if '0' <= b && b <= '9' {
			v += int64(b - '0')
		} else if 'a' <= b && b <= 'f' {
			v += int64(b - 'a' + 10)
		} else if 'A' <= b && b <= 'F' {
			v += int64(b - 'A' + 10)
		} else {
			return 0, fmt.Errorf("invalid hex digit %q: %w", b, ErrCodepoint)
		}
	}
	return v, nil
}
