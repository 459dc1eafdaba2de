// Package codegen lowers canonical selection trees into paired result-type
// declarations and decoder programs, and assembles them into one compilation
// unit per operation. The generator is a pure function of its inputs:
// regenerating from an unchanged document and schema yields byte-identical
// output.
package codegen

import (
	"github.com/hanpama/gqlshape/internal/canonical"
	"github.com/hanpama/gqlshape/internal/decode"
	"github.com/hanpama/gqlshape/internal/hostlang"
	"github.com/hanpama/gqlshape/internal/wrappers"
)

// CustomScalar maps a schema scalar to a caller-owned host type and decoder.
type CustomScalar struct {
	Name    string
	Decoder func(raw []byte) (any, error)
}

// Options carries the capabilities the generator consumes from its caller.
type Options struct {
	// EnumNamespace locates pre-generated enum types and their decoders.
	EnumNamespace string
	// InputNamespace locates pre-generated input-object types and encoders.
	InputNamespace string
	// Scalars supplies decoders for scalar names outside the built-in table.
	Scalars map[string]CustomScalar
	// WrapType and WrapDecoder apply a field's list/nullable modifiers.
	// Both default to the wrappers package and must stay in lockstep.
	WrapType    func(hostlang.Type, canonical.Wrapper) hostlang.Type
	WrapDecoder func(decode.Decoder, canonical.Wrapper) decode.Decoder
}

func (o Options) withDefaults() Options {
	if o.EnumNamespace == "" {
		o.EnumNamespace = "Enums"
	}
	if o.InputNamespace == "" {
		o.InputNamespace = "Inputs"
	}
	if o.WrapType == nil {
		o.WrapType = wrappers.Type
	}
	if o.WrapDecoder == nil {
		o.WrapDecoder = wrappers.Decoder
	}
	return o
}
