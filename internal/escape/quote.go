// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package escape

import (
	"unicode/utf8"

	"go4.org/mem"
)

var controlEsc = [...]byte{
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
	' ':  ' ', // sentinel
}

var hexDigit = []byte("0123456789abcdef")

// Quote encodes src as a JSON string, including the enclosing double
// quotation marks.
func Quote(src mem.RO) []byte { return AppendQuote(make([]byte, 0, src.Len()+2), src) }

// AppendQuote appends the JSON string encoding of src to buf, including the
// enclosing double quotation marks, and returns the extended slice.
func AppendQuote(buf []byte, src mem.RO) []byte {
	buf = append(buf, '"')
	for src.Len() != 0 {
		// Copy runs of bytes that need no escaping in one step.
		i := 0
		for i < src.Len() {
			b := src.At(i)
			if b < ' ' || b == '\\' || b == '"' || b >= utf8.RuneSelf {
				break
			}
			i++
		}
		if i > 0 {
			buf = mem.Append(buf, src.SliceTo(i))
			src = src.SliceFrom(i)
			continue
		}

		r, n := mem.DecodeRune(src)
		if r < utf8.RuneSelf {
			if r < ' ' {
				if b := controlEsc[r]; b != 0 {
					buf = append(buf, '\\', b)
				} else {
					buf = append(buf, '\\', 'u', '0', '0', hexDigit[int(r>>4)], hexDigit[int(r&15)])
				}
			} else {
				buf = append(buf, '\\', byte(r))
			}
			src = src.SliceFrom(n)
			continue
		}

		switch r {
		case utf8.RuneError:
			// Either a literal U+FFFD or an invalid byte; both render escaped.
			buf = append(buf, `\ufffd`...)
		case '\u2028':
			buf = append(buf, `\u2028`...)
		case '\u2029':
			buf = append(buf, `\u2029`...)
		default:
			buf = utf8.AppendRune(buf, r)
		}
		src = src.SliceFrom(n)
	}
	return append(buf, '"')
}
