// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jbl

import "fmt"

// A Span is a half-open range [Pos, End) of byte offsets in source text.
type Span struct {
	Pos int
	End int
}

// Len reports the number of bytes spanned by s.
func (s Span) Len() int { return s.End - s.Pos }

// A LineCol is a position in source text. Lines are 1-based, columns are
// 0-based byte offsets within the line.
type LineCol struct {
	Line   int
	Column int
}

func (lc LineCol) String() string { return fmt.Sprintf("%d:%d", lc.Line, lc.Column) }

// A Location is a Span annotated with the line and column of its endpoints.
type Location struct {
	Span
	First, Last LineCol
}

// String renders loc as "line:col-col" when it lies on a single line, or as
// "line:col-line:col" otherwise.
func (loc Location) String() string {
	if loc.First.Line != loc.Last.Line {
		return loc.First.String() + "-" + loc.Last.String()
	}
	return fmt.Sprintf("%s-%d", loc.First, loc.Last.Column)
}
