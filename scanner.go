// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jbl

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

// Token is the type of a lexical token in the JSON grammar.
type Token byte

// Constants defining the valid Token values.
const (
	Invalid Token = iota // invalid token
	LBrace               // left brace "{"
	RBrace               // right brace "}"
	LSquare              // left square bracket "["
	RSquare              // right square bracket "]"
	Comma                // comma ","
	Colon                // colon ":"
	Integer              // number: integer with no fraction or exponent
	Number               // number with fraction and/or exponent
	String               // quoted string
	True                 // constant: true
	False                // constant: false
	Null                 // constant: null

	BlockComment // comment: /* ... */
	LineComment  // comment: // ... <LF>
)

var tokenStr = [...]string{
	Invalid: "invalid token",
	LBrace:  `"{"`,
	RBrace:  `"}"`,
	LSquare: `"["`,
	RSquare: `"]"`,
	Comma:   `","`,
	Colon:   `":"`,
	Integer: "integer",
	Number:  "number",
	String:  "string",
	True:    "true",
	False:   "false",
	Null:    "null",

	BlockComment: "block comment",
	LineComment:  "line comment",
}

func (t Token) String() string {
	v := int(t)
	if v >= len(tokenStr) {
		return tokenStr[Invalid]
	}
	return tokenStr[v]
}

// A Scanner reads lexical tokens from an input stream.  Each call to Next
// advances the scanner to the next token, or reports an error.
type Scanner struct {
	r        *bufio.Reader
	comments bool         // allow comments
	buf      bytes.Buffer // current token
	tbuf     [][]byte     // allocation pool
	tok      Token
	err      error

	pos, end int // start and end offsets of current token
	last     int // size in bytes of last-read input rune

	// Apparent line and column offsets (0-based)
	pline, pcol int
	eline, ecol int
}

// NewScanner constructs a new lexical scanner that consumes input from r.
func NewScanner(r io.Reader) *Scanner {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Scanner{r: br}
}

// AllowComments configures the scanner to report (true) or reject (false)
// comment tokens. Comments are a non-standard exension of the JSON spec.  If
// enabled, C++ style block comments (/* ... */) and line comments (// ...)
// are recognized and emitted as tokens.
func (s *Scanner) AllowComments(ok bool) { s.comments = ok }

// Next advances s to the next token of the input and reports whether a token
// is available. When Next returns false, Err reports the reason: io.EOF when
// the input is exhausted, or the lexical or I/O error that stopped it.
func (s *Scanner) Next() bool {
	s.buf.Reset()
	s.err = nil
	s.tok = Invalid
	s.pos, s.pline, s.pcol = s.end, s.eline, s.ecol

	for {
		ch, err := s.rune()
		if err == io.EOF {
			s.err = err
			return false
		} else if err != nil {
			return s.fail(ErrParse, err)
		}

		// Discard whitespace.
		if isSpace(ch) {
			s.pos, s.pline, s.pcol = s.end, s.eline, s.ecol
			if ch == '\n' {
				s.eline++
				s.ecol = 0
				s.pline, s.pcol = s.eline, s.ecol
			}
			continue
		}

		// Handle punctuation.
		if t, ok := selfDelim(ch); ok {
			s.buf.WriteRune(ch)
			s.tok = t
			return true
		}

		// Handle numbers.
		if isNumStart(ch) {
			return s.scanNumber(ch)
		}

		// Handle string values.
		if ch == '"' {
			return s.scanString(ch)
		}

		// Handle comments, if enabled.
		if ch == '/' && s.comments {
			return s.scanComment(ch)
		}

		// Handle constants: true, false, null. Any other bare word is an
		// unquoted string, which JSON does not permit.
		if isNameStart(ch) {
			if !s.scanName(ch) {
				return false
			}
			switch got := mem.B(s.buf.Bytes()); {
			case got.EqualString("true"):
				s.tok = True
			case got.EqualString("false"):
				s.tok = False
			case got.EqualString("null"):
				s.tok = Null
			default:
				return s.failf(ErrUnquotedString, "unquoted string %q", got.StringCopy())
			}
			return true
		}
		if ch == utf8.RuneError && s.last == 1 {
			return s.failf(ErrInvalidCodepoint, "invalid UTF-8 in input")
		}
		return s.failf(ErrParse, "unexpected %q", ch)
	}
}

// Token returns the type of the current token.
func (s *Scanner) Token() Token { return s.tok }

// Err returns the last error reported by Next.
func (s *Scanner) Err() error { return s.err }

// Text returns the undecoded text of the current token.  The return value is
// only valid until the next call of Next. The caller must copy the contents of
// the returned slice if it is needed beyond that.
func (s *Scanner) Text() []byte { return s.buf.Bytes() }

// Copy returns a copy of the undecoded text of the current token.
func (s *Scanner) Copy() []byte { return s.copyOf(s.buf.Bytes()) }

// Span returns the location span of the current token.
func (s *Scanner) Span() Span { return Span{Pos: s.pos, End: s.end} }

// Location returns the complete location of the current token.
func (s *Scanner) Location() Location {
	return Location{
		Span:  s.Span(),
		First: LineCol{Line: s.pline + 1, Column: s.pcol},
		Last:  LineCol{Line: s.eline + 1, Column: s.ecol},
	}
}

func (s *Scanner) scanString(open rune) bool {
	s.buf.WriteRune(open)
	var esc bool
	var high rune // pending high surrogate, or 0
	for {
		ch, err := s.rune()
		if err == io.EOF {
			return s.failf(ErrParse, "unterminated string")
		} else if err != nil {
			return s.fail(ErrParse, err)
		}
		if esc {
			// We are awaiting the completion of a \-escape.
			esc = false
			if ch == 'u' {
				s.buf.WriteByte('u')
				v, err := s.readHex4()
				if err != nil {
					return s.failf(ErrInvalidCodepoint, "invalid Unicode escape: %w", err)
				}
				switch {
				case high != 0 && isLowSurrogate(v):
					high = 0
				case high != 0:
					return s.failf(ErrInvalidCodepoint, "unpaired surrogate %04x", high)
				case isLowSurrogate(v):
					return s.failf(ErrInvalidCodepoint, "unpaired surrogate %04x", v)
				case utf16.IsSurrogate(v):
					high = v
				}
				continue
			}
			if high != 0 {
				return s.failf(ErrInvalidCodepoint, "unpaired surrogate %04x", high)
			}
			switch ch {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
				s.buf.WriteByte(byte(ch))
			default:
				return s.failf(ErrInvalidCodepoint, "invalid %q after escape", ch)
			}
			continue
		}

		if ch == '\\' {
			s.buf.WriteRune(ch)
			esc = true
			continue
		} else if high != 0 {
			return s.failf(ErrInvalidCodepoint, "unpaired surrogate %04x", high)
		}
		if ch == open {
			s.buf.WriteRune(ch)
			s.tok = String
			return true
		} else if ch < ' ' {
			return s.failf(ErrParse, "unescaped control %q", ch)
		} else if ch == utf8.RuneError && s.last == 1 {
			return s.failf(ErrInvalidCodepoint, "invalid UTF-8 in string")
		}
		s.buf.WriteRune(ch)
	}
}

func (s *Scanner) scanNumber(start rune) bool {
	s.buf.WriteRune(start)

	if start == '-' {
		// If there is a leading sign, we need at least one digit.
		// Otherwise, we already have one in start.
		ch, ok := s.require(isDigit, "digit")
		if !ok {
			return false
		}
		s.buf.WriteRune(ch)
	}

	// Consume the remainder of an integer.
	_, ch, err := s.readWhile(isDigit)

	// Check for extra leading zeroes, which are disallowed by the JSON spec.
	// That is: 0.12 is OK, 01.2 is not.
	if hasExtraLeadingZeroes(s.buf.Bytes()) {
		return s.failf(ErrParse, "extra leading zeroes")
	}
	if err == io.EOF {
		s.tok = Integer
		return true
	} else if err != nil {
		return s.fail(ErrParse, err)
	}

	// If a decimal point follows, consume a fractional part.
	var isFloat bool
	if ch == '.' {
		s.buf.WriteRune(ch)
		var nr int
		nr, ch, err = s.readWhile(isDigit)
		if err != nil && err != io.EOF {
			return s.fail(ErrParse, err)
		} else if nr == 0 {
			return s.failf(ErrParse, "no digits after decimal point")
		} else if err == io.EOF {
			s.tok = Number
			return true
		}
		isFloat = true
	}

	// If an exponent follows, consume it.
	if ch != 'E' && ch != 'e' {
		s.unrune()
		if isFloat {
			s.tok = Number
		} else {
			s.tok = Integer
		}
		return true
	}

	s.buf.WriteRune(ch)
	ch, ok := s.require(isExpStart, "sign or digit")
	if !ok {
		return false
	}
	s.buf.WriteRune(ch)
	nr, _, err := s.readWhile(isDigit)
	if nr == 0 && (ch == '-' || ch == '+') {
		// It's OK to have no digits if the previous rune was not a sign,
		// otherwise we have to have at least one.
		return s.failf(ErrParse, "missing exponent digits")
	} else if err == io.EOF {
		s.tok = Number
		return true
	} else if err != nil {
		return s.fail(ErrParse, err)
	}
	s.unrune()
	s.tok = Number
	return true
}

func (s *Scanner) scanComment(first rune) bool {
	s.buf.WriteRune(first)
	ch, err := s.rune()
	if err != nil {
		return s.fail(ErrParse, err)
	}
	switch ch {
	case '/': // line comment to LF
		s.buf.WriteRune(ch)
		_, end, err := s.readWhile(isNotLF)
		if err == nil {
			s.buf.WriteRune(end)
			s.eline++
			s.ecol = 0
		} else if err != io.EOF {
			return s.fail(ErrParse, err)
		}
		s.tok = LineComment
		return true

	case '*': // block comment
		s.buf.WriteRune(ch)
		for {
			_, end, err := s.readWhile(isNotStar)
			if err != nil {
				return s.failf(ErrParse, "unterminated block comment")
			}
			s.buf.WriteRune(end) // end == '*'

			// Check whether we have "*/", which would end the comment.
			next, err := s.rune()
			if err != nil {
				return s.failf(ErrParse, "unterminated block comment")
			}
			switch next {
			case '*':
				s.unrune()
			case '\n':
				s.buf.WriteRune(next)
				s.eline++
				s.ecol = 0
			default:
				s.buf.WriteRune(next)
			}
			if next == '/' {
				s.tok = BlockComment
				return true
			}

			// We saw "*" but not "/", so keep scanning for the end of the block.
		}

	default:
		s.unrune()
		return s.failf(ErrParse, "invalid %q in comment", ch)
	}
}

// scanName consumes a bare word beginning with first.
func (s *Scanner) scanName(first rune) bool {
	s.buf.WriteRune(first)
	_, _, err := s.readWhile(isNameRune)
	if err == io.EOF {
		return true
	} else if err != nil {
		return s.fail(ErrParse, err)
	}
	s.unrune()
	return true
}

func (s *Scanner) rune() (rune, error) {
	ch, nb, err := s.r.ReadRune()
	s.last = nb
	s.end += nb
	s.ecol += nb
	return ch, err
}

func (s *Scanner) unrune() {
	if s.last == 0 {
		return
	}
	s.end -= s.last
	s.ecol -= s.last
	s.last = 0
	s.r.UnreadRune()
}

// require reads a single rune matching f from the input, or fails with an
// error mentioning the desired label.
func (s *Scanner) require(f func(rune) bool, label string) (rune, bool) {
	ch, err := s.rune()
	if err != nil {
		return 0, s.failf(ErrParse, "want %s, got error: %w", label, err)
	} else if !f(ch) {
		s.unrune()
		return 0, s.failf(ErrParse, "got %q, want %s", ch, label)
	}
	return ch, true
}

// readWhile consumes runes matching f from the input until EOF or until a rune
// not matching f is found. The first non-matching rune (if any) is returned.
// It is the caller's responsibility to unread this rune, if desired.
// The int reports the number of runes consumed.
func (s *Scanner) readWhile(f func(rune) bool) (int, rune, error) {
	var nr int
	for {
		ch, err := s.rune()
		if err != nil {
			return nr, 0, err
		} else if !f(ch) {
			return nr, ch, nil
		}
		if ch == '\n' {
			s.eline++
			s.ecol = 0
		}
		s.buf.WriteRune(ch)
		nr++
	}
}

// readHex4 reads exactly 4 hexadecimal digits from the input and returns
// their value.
func (s *Scanner) readHex4() (rune, error) {
	var v rune
	for i := 0; i < 4; i++ {
		ch, err := s.rune()
		if err != nil {
			return 0, err
		} else if !isHexDigit(ch) {
			return 0, fmt.Errorf("not a hex digit: %q", ch)
		}
		s.buf.WriteRune(ch)
		v = v<<4 | hexValue(ch)
	}
	return v, nil
}

// posError is a lexical error at an input offset. It wraps both the kind of
// failure (one of the Err* parse sentinels) and its cause.
type posError struct {
	pos  int
	kind error
	err  error
}

func (p posError) Error() string {
	return fmt.Sprintf("%s (offset %d)", p.err.Error(), p.pos)
}

func (p posError) Unwrap() []error { return []error{p.kind, p.err} }

func (s *Scanner) fail(kind, err error) bool {
	s.err = posError{s.end, kind, err}
	return false
}

func (s *Scanner) failf(kind error, msg string, args ...any) bool {
	return s.fail(kind, fmt.Errorf(msg, args...))
}

// errorKind reports which parse sentinel best describes err.
func errorKind(err error) error {
	for _, kind := range []error{ErrUnquotedString, ErrInvalidCodepoint} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return ErrParse
}

func isSpace(ch rune) bool {
	return ch == ' ' || ch == '\r' || ch == '\n' || ch == '\t'
}

func isNotStar(ch rune) bool  { return ch != '*' }
func isNotLF(ch rune) bool    { return ch != '\n' }
func isNumStart(ch rune) bool { return ch == '-' || isDigit(ch) }
func isExpStart(ch rune) bool { return ch == '-' || ch == '+' || isDigit(ch) }
func isDigit(ch rune) bool    { return '0' <= ch && ch <= '9' }

func isNameStart(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch == '$'
}

func isNameRune(ch rune) bool { return isNameStart(ch) || isDigit(ch) }

func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func hexValue(ch rune) rune {
	switch {
	case ch >= 'a':
		return ch - 'a' + 10
	case ch >= 'A':
		return ch - 'A' + 10
	}
	return ch - '0'
}

func isLowSurrogate(r rune) bool { return r >= 0xdc00 && r <= 0xdfff }

// hasExtraLeadingZeroes reports whether the representation of an integer in
// buf has redundant leading zeroes, disallowed by the spec.
//
// OK: 0, 0.1, -1.0, -0.1 are all OK.
// Bad: -01, 01.2, -01.0, 00.1.
func hasExtraLeadingZeroes(buf []byte) bool {
	if buf[0] == '-' {
		buf = buf[1:] // skip leading sign
	}
	if buf[0] == '0' {
		// A leading zero is OK if it's the only digit.
		return len(buf) > 1
	}
	return false
}

var self = [...]Token{LBrace, RBrace, LSquare, RSquare, Comma, Colon}

func selfDelim(ch rune) (Token, bool) {
	i := strings.IndexRune("{}[],:", ch)
	if i >= 0 {
		return self[i], true
	}
	return Invalid, false
}

func (s *Scanner) copyOf(text []byte) []byte {
	const minBlockSlop = 4
	const smallSizeFraction = 16
	const bufBlockBytes = 16384

	// For values bigger than smallSizeFraction of the block size, don't bother
	// batching, make an outright copy.
	if len(text) >= bufBlockBytes/smallSizeFraction {
		return append([]byte(nil), text...)
	}

	// Look for a block with space enough to hold a copy of text.
	i := 0
	for i < len(s.tbuf) {
		if n := len(s.tbuf[i]) + len(text); n < cap(s.tbuf[i]) {
			// There is room in this block.
			break
		} else if cap(s.tbuf[i])-len(text) < minBlockSlop {
			// There is no room in this block, but it is nearly-enough full.
			// Allocate a fresh block at this location and release the old one.
			// The old block will be retained until all its tokens are released.
			s.tbuf[i] = make([]byte, 0, bufBlockBytes)
			break
		}
		i++
	}
	if i == len(s.tbuf) {
		// No block had room; add a new empty one to the arena.
		s.tbuf = append(s.tbuf, make([]byte, 0, bufBlockBytes))
	}
	p := len(s.tbuf[i])
	s.tbuf[i] = append(s.tbuf[i], text...)
	return s.tbuf[i][p : p+len(text)]
}
