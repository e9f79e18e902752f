// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jbl

import (
	"errors"
	"fmt"
)

// Errors reported by the packages of this module. Use errors.Is to test for
// a specific condition; most are wrapped with additional context.
var (
	// Construction and validation.
	ErrInvalidBuffer = errors.New("invalid encoded buffer")
	ErrCreation      = errors.New("cannot create value")
	ErrInvalid       = errors.New("invalid value")
	ErrInvalidType   = errors.New("invalid value type")

	// Text parsing.
	ErrParse            = errors.New("failed to parse JSON")
	ErrUnquotedString   = errors.New("unquoted JSON string")
	ErrInvalidCodepoint = errors.New("invalid unicode codepoint or escape sequence")

	// Addressing.
	ErrPointer      = errors.New("invalid JSON pointer")
	ErrPathNotFound = errors.New("path not found")

	// Patching.
	ErrPatchInvalid           = errors.New("invalid JSON patch")
	ErrPatchInvalidOp         = errors.New("invalid JSON patch operation")
	ErrPatchNoValue           = errors.New("no value specified in JSON patch")
	ErrPatchTargetInvalid     = errors.New("invalid JSON patch target")
	ErrPatchInvalidArrayIndex = errors.New("invalid array index in JSON patch path")
	ErrPatchTestFailed        = errors.New("JSON patch test operation failed")
)

// SyntaxError is the concrete type of errors reported by the stream parser.
// It wraps one of ErrParse, ErrUnquotedString, or ErrInvalidCodepoint.
type SyntaxError struct {
	Location LineCol
	Message  string

	err error
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("at %s: %s", s.Location, s.Message)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.err }

// PointerError reports a failure to resolve a JSON pointer. It wraps either
// ErrPointer or ErrPathNotFound.
type PointerError struct {
	Pointer string // the pointer being resolved
	Token   int    // offset of the failing token, or -1
	Message string

	err error
}

// Error satisfies the error interface.
func (p *PointerError) Error() string {
	if p.Token < 0 {
		return fmt.Sprintf("pointer %q: %s", p.Pointer, p.Message)
	}
	return fmt.Sprintf("pointer %q token %d: %s", p.Pointer, p.Token, p.Message)
}

// Unwrap supports error wrapping.
func (p *PointerError) Unwrap() error { return p.err }
