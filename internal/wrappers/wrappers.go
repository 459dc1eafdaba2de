// Package wrappers applies a field's list/nullable modifier composition to
// synthesized types and decoders. Both transforms walk the same descriptor,
// so the type shape and the decode shape of a field cannot drift apart.
package wrappers

import (
	"github.com/hanpama/gqlshape/internal/canonical"
	"github.com/hanpama/gqlshape/internal/decode"
	"github.com/hanpama/gqlshape/internal/hostlang"
)

// Type wraps t with w's modifiers, outward-in.
func Type(t hostlang.Type, w canonical.Wrapper) hostlang.Type {
	for i := len(w) - 1; i >= 0; i-- {
		switch w[i] {
		case canonical.WrapList:
			t = &hostlang.List{Elem: t}
		case canonical.WrapNullable:
			t = &hostlang.Nullable{Elem: t}
		}
	}
	return t
}

// Decoder wraps d with w's modifiers, mirroring Type.
func Decoder(d decode.Decoder, w canonical.Wrapper) decode.Decoder {
	for i := len(w) - 1; i >= 0; i-- {
		switch w[i] {
		case canonical.WrapList:
			d = &decode.List{Of: d}
		case canonical.WrapNullable:
			d = &decode.Nullable{Of: d}
		}
	}
	return d
}
