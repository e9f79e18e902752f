// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package jbl implements a compact binary encoding for JSON values, together
// with a JSON scanner and parser, a printer, and JSON Pointer (RFC 6901)
// resolution.
//
// # Encoded Values
//
// A Value is a handle to a self-describing binary encoding of a JSON value.
// Every encoded value carries its type and size in its header, so that a
// reader can step over a value without decoding it. Construct a Value by
// parsing JSON text, by wrapping an existing buffer, or with NewObject and
// NewArray:
//
//	v, err := jbl.ParseString(`{"x": 1, "y": [1, 2, 3]}`)
//	if err != nil {
//	   log.Fatalf("Parse: %v", err)
//	}
//	y1, err := v.At("/y/1")
//
// At resolves a JSON pointer directly against the encoded form. The result
// shares the buffer of its parent. To edit a value, decode it into a tree
// (see package tree), modify the tree, and encode the result.
//
// Bytes and FromBuffer move the encoded representation to and from storage
// without copying or re-validating it.
//
// # Parsing
//
// The Scanner type implements a lexical scanner for JSON, and the Stream type
// implements an event-driven parser that reports the structure of its input
// to a Handler:
//
//	JSON type  | Methods                   | Description
//	---------- | ------------------------- | ---------------------------------
//	object     | BeginObject, EndObject    | { ... }
//	array      | BeginArray, EndArray      | [ ... ]
//	member     | BeginMember, EndMember    | "key": value
//	value      | Value                     | true, false, null, number, string
//	--         | EndOfInput                | end of input
//
// Parse errors have concrete type *SyntaxError, and wrap one of ErrParse,
// ErrUnquotedString, or ErrInvalidCodepoint so that callers can tell a
// malformed document from an unquoted key or a bad escape.
//
// # Printing
//
// WriteJSON renders a value through a Sink, which accepts either a run of
// bytes or a repeated character. WriterSink writes to an io.Writer, and
// BufferSink collects the output in memory.
package jbl
