package codegen

import (
	"fmt"
	"strings"

	"github.com/hanpama/gqlshape/internal/canonical"
	"github.com/hanpama/gqlshape/internal/decode"
	"github.com/hanpama/gqlshape/internal/hostlang"
)

// scalar maps a schema scalar to its host primitive. The fixed table covers
// the built-in scalars, case-insensitively; ID serializes as a string. Anything
// else must come from the caller's custom scalar capability.
func (s *synthesizer) scalar(k *canonical.Scalar) (pair, error) {
	switch strings.ToLower(k.TypeName) {
	case "string":
		return pair{typ: &hostlang.Named{Name: "String"}, dec: &decode.String{}}, nil
	case "int":
		return pair{typ: &hostlang.Named{Name: "Int"}, dec: &decode.Int{}}, nil
	case "float":
		return pair{typ: &hostlang.Named{Name: "Float"}, dec: &decode.Float{}}, nil
	case "boolean":
		return pair{typ: &hostlang.Named{Name: "Bool"}, dec: &decode.Bool{}}, nil
	case "id":
		return pair{typ: &hostlang.Named{Name: "String"}, dec: &decode.String{}}, nil
	}
	if cs, ok := s.opts.Scalars[k.TypeName]; ok {
		return pair{
			typ: &hostlang.Named{Name: cs.Name},
			dec: &decode.Custom{Name: cs.Name, Fn: cs.Decoder},
		}, nil
	}
	return pair{}, fmt.Errorf("no decoder provided for scalar %q", k.TypeName)
}

// scalarEncoder is the encoder-side counterpart used for input generation.
func (s *synthesizer) scalarEncoder(name string) (hostlang.Type, hostlang.Expr, error) {
	switch strings.ToLower(name) {
	case "string", "id":
		return &hostlang.Named{Name: "String"}, &hostlang.Ident{Name: "string"}, nil
	case "int":
		return &hostlang.Named{Name: "Int"}, &hostlang.Ident{Name: "int"}, nil
	case "float":
		return &hostlang.Named{Name: "Float"}, &hostlang.Ident{Name: "float"}, nil
	case "boolean":
		return &hostlang.Named{Name: "Bool"}, &hostlang.Ident{Name: "bool"}, nil
	}
	if cs, ok := s.opts.Scalars[name]; ok {
		return &hostlang.Named{Name: cs.Name},
			&hostlang.Call{Fn: &hostlang.Ident{Name: "scalar"}, Args: []hostlang.Expr{&hostlang.StringLit{Value: cs.Name}}},
			nil
	}
	return nil, nil, fmt.Errorf("no encoder available for scalar %q", name)
}
