// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jbl

import (
	"bytes"
	"io"
)

// A Sink is a destination for serialized JSON text. Write delivers a run of
// literal bytes; Repeat delivers n copies of a single byte, which printers use
// for indentation. If either method reports an error, serialization stops and
// the error is returned to the caller unchanged.
type Sink interface {
	Write(data []byte) error
	Repeat(ch byte, n int) error
}

// WriterSink is a Sink that writes to an io.Writer.
type WriterSink struct {
	w   io.Writer
	pad []byte
}

// NewWriterSink constructs a Sink that delivers its output to w.
func NewWriterSink(w io.Writer) *WriterSink { return &WriterSink{w: w} }

// Write satisfies the Sink interface.
func (s *WriterSink) Write(data []byte) error {
	_, err := s.w.Write(data)
	return err
}

// Repeat satisfies the Sink interface.
func (s *WriterSink) Repeat(ch byte, n int) error {
	const maxPad = 64

	if len(s.pad) == 0 || s.pad[0] != ch {
		s.pad = bytes.Repeat([]byte{ch}, maxPad)
	}
	for n > 0 {
		m := min(n, maxPad)
		if _, err := s.w.Write(s.pad[:m]); err != nil {
			return err
		}
		n -= m
	}
	return nil
}

// BufferSink is a Sink that accumulates its output in memory.
// The zero value is ready for use.
type BufferSink struct {
	buf []byte
}

// Write satisfies the Sink interface. It never reports an error.
func (s *BufferSink) Write(data []byte) error { s.buf = append(s.buf, data...); return nil }

// Repeat satisfies the Sink interface. It never reports an error.
func (s *BufferSink) Repeat(ch byte, n int) error {
	for range n {
		s.buf = append(s.buf, ch)
	}
	return nil
}

// Bytes returns the accumulated output. The slice is valid until the next
// write to s.
func (s *BufferSink) Bytes() []byte { return s.buf }

// String returns a copy of the accumulated output as a string.
func (s *BufferSink) String() string { return string(s.buf) }

// Len reports the number of bytes of output accumulated.
func (s *BufferSink) Len() int { return len(s.buf) }

// Reset discards the accumulated output.
func (s *BufferSink) Reset() { s.buf = s.buf[:0] }
