package codegen

import (
	"fmt"

	"github.com/hanpama/gqlshape/internal/canonical"
	"github.com/hanpama/gqlshape/internal/hostlang"
	"github.com/hanpama/gqlshape/internal/language"
)

// inputs generates the argument record type and encoder for an operation
// that declares variables. Enum and input-object types are located through
// the caller's namespaces, the same way enum result types are; only scalar
// arguments are mapped locally.
func (s *synthesizer) inputs(op *canonical.Operation, argsName string) ([]hostlang.Decl, error) {
	record := &hostlang.RecordDecl{Name: argsName}
	encoder := &hostlang.RecordLit{}

	for _, v := range op.Variables {
		named := v.Type.Unwrap()
		typ, enc, err := s.inputNamed(v.TypeKind, named)
		if err != nil {
			return nil, fmt.Errorf("variable $%s: %w", v.Name, err)
		}
		wrapper := canonical.WrapperOf(v.Type)
		record.Fields = append(record.Fields, hostlang.RecordField{
			Name: v.Name,
			Type: s.opts.WrapType(typ, wrapper),
		})
		encoder.Fields = append(encoder.Fields, hostlang.FieldInit{
			Name:  v.Name,
			Value: call(ident("arg"), str(v.Name), wrapEncoder(enc, wrapper)),
		})
	}

	return []hostlang.Decl{
		record,
		&hostlang.ValueDecl{
			Name: "encode" + argsName,
			Type: &hostlang.Named{Name: "Encoder " + argsName},
			Body: encoder,
		},
	}, nil
}

func (s *synthesizer) inputNamed(kind, named string) (hostlang.Type, hostlang.Expr, error) {
	switch language.DefinitionKind(kind) {
	case language.Scalar:
		return s.scalarEncoder(named)
	case language.Enum:
		return &hostlang.Named{Name: s.opts.EnumNamespace + "." + named},
			ident(s.opts.EnumNamespace + ".encode" + named), nil
	case language.InputObject:
		return &hostlang.Named{Name: s.opts.InputNamespace + "." + named},
			ident(s.opts.InputNamespace + ".encode" + named), nil
	}
	return nil, nil, fmt.Errorf("%q is not an input type", named)
}

func wrapEncoder(enc hostlang.Expr, w canonical.Wrapper) hostlang.Expr {
	for i := len(w) - 1; i >= 0; i-- {
		switch w[i] {
		case canonical.WrapList:
			enc = call(ident("listOf"), enc)
		case canonical.WrapNullable:
			enc = call(ident("maybe"), enc)
		}
	}
	return enc
}
