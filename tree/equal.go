// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package tree

import "github.com/creachadair/jbl"

// Equal reports whether the trees rooted at x and y denote equal JSON values,
// in the sense of the "test" operation of RFC 6902:
//
//   - Numbers are equal if their values are numerically equal, regardless of
//     whether they are represented as integers or floating point.
//   - Strings, Booleans and null are equal if they are identical.
//   - Arrays are equal if they have the same length and their elements are
//     pairwise equal in order.
//   - Objects are equal if they have the same number of members, and each
//     member of x has an equal member with the same key in y. The order of
//     members does not matter.
//
// The keys of x and y themselves are not compared.
func Equal(x, y Node) bool {
	xt, yt := x.Type(), y.Type()
	if isNumber(xt) && isNumber(yt) {
		return numEqual(x, y)
	} else if xt != yt {
		return false
	}
	switch xt {
	case jbl.TypeNull:
		return true
	case jbl.TypeBool:
		return x.Bool() == y.Bool()
	case jbl.TypeString:
		return x.Str() == y.Str()
	case jbl.TypeArray:
		if x.Len() != y.Len() {
			return false
		}
		yc := y.FirstChild()
		for xc := range x.Children() {
			if !Equal(xc, yc) {
				return false
			}
			yc = yc.Next()
		}
		return true
	case jbl.TypeObject:
		if x.Len() != y.Len() {
			return false
		}
		for xc := range x.Children() {
			yc := y.Get(xc.Key())
			if yc.IsNil() || !Equal(xc, yc) {
				return false
			}
		}
		return true
	}
	return false
}

func isNumber(t jbl.Type) bool { return t == jbl.TypeInt || t == jbl.TypeFloat }

func numEqual(x, y Node) bool {
	if x.Type() == jbl.TypeInt && y.Type() == jbl.TypeInt {
		return x.Int() == y.Int()
	}
	return asFloat(x) == asFloat(y)
}

func asFloat(n Node) float64 {
	if n.Type() == jbl.TypeInt {
		return float64(n.Int())
	}
	return n.Float()
}
