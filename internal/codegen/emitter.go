package codegen

import (
	"fmt"

	"github.com/hanpama/gqlshape/internal/canonical"
	"github.com/hanpama/gqlshape/internal/decode"
	"github.com/hanpama/gqlshape/internal/hostlang"
	"github.com/hanpama/gqlshape/internal/index"
)

// OperationUnit is the compilation unit emitted for one operation: input
// types when the operation declares variables, the aliased result type, its
// auxiliary types, the decoder and the callable operation value.
type OperationUnit struct {
	Name       string
	Kind       canonical.OperationKind
	ResultType string
	Decoder    decode.Decoder
	Decls      []hostlang.Decl
}

// EmitOperation synthesizes one operation against an already-built fragment
// registry.
func EmitOperation(op *canonical.Operation, frags *FragmentRegistry, opts Options) (*OperationUnit, error) {
	opts = opts.withDefaults()
	s := newSynthesizer(opts, frags)

	name := op.Name
	if name == "" {
		name = "Anonymous"
	}
	resultName := nameResultType(name)

	var decls []hostlang.Decl
	argsName := ""
	if len(op.Variables) > 0 {
		argsName = nameInputType(name)
		inputDecls, err := s.inputs(op, argsName)
		if err != nil {
			return nil, fmt.Errorf("operation %q: %w", name, err)
		}
		decls = append(decls, inputDecls...)
	}

	fields, steps, err := s.selection(op.Selection, index.Root())
	if err != nil {
		return nil, fmt.Errorf("operation %q: %w", name, err)
	}
	dec := &decode.Record{Construct: resultName, Steps: steps}

	decls = append(decls, &hostlang.RecordDecl{Name: resultName, Fields: fields})
	decls = append(decls, s.aux...)

	decoderName := nameDecoder(resultName)
	decls = append(decls, &hostlang.ValueDecl{
		Name:   decoderName,
		Params: []hostlang.Param{{Name: "version", Type: &hostlang.Named{Name: "Int"}}},
		Type:   &hostlang.Named{Name: "Decoder " + resultName},
		Body:   decoderExpr(opts, dec),
	})

	decls = append(decls, operationValue(op, name, resultName, argsName, decoderName))

	return &OperationUnit{
		Name:       name,
		Kind:       op.Kind,
		ResultType: resultName,
		Decoder:    dec,
		Decls:      decls,
	}, nil
}

// operationValue builds the callable query/mutation value, parameterized by
// an argument record when variables exist.
func operationValue(op *canonical.Operation, name, resultName, argsName, decoderName string) *hostlang.ValueDecl {
	kind := "query"
	if op.Kind == canonical.Mutation {
		kind = "mutation"
	}

	v := &hostlang.ValueDecl{
		Name: nameOperationValue(name),
		Type: &hostlang.Named{Name: "Operation " + resultName},
	}
	args := []hostlang.Expr{str(op.Name), ident(decoderName)}
	if argsName != "" {
		v.Params = []hostlang.Param{{Name: "args", Type: &hostlang.Named{Name: argsName}}}
		args = append(args, call(ident(nameEncoder(argsName)), ident("args")))
	}
	v.Body = call(ident(kind), args...)
	return v
}
