package codegen

import (
	"context"
	"time"

	"github.com/hanpama/gqlshape/internal/canonical"
	"github.com/hanpama/gqlshape/internal/decode"
	"github.com/hanpama/gqlshape/internal/eventbus"
	"github.com/hanpama/gqlshape/internal/events"
	"github.com/hanpama/gqlshape/internal/hostlang"
)

// Output is everything generated from one document: a compilation unit per
// operation, the shared fragment declarations, and the runtime decoder
// registry backing FragmentRef resolution.
type Output struct {
	Operations    []*OperationUnit
	FragmentDecls []hostlang.Decl
	Registry      decode.Registry
}

// Generate runs the whole pipeline for one document. The fragment registry
// is built first: spreads may forward-reference fragments in any declaration
// order, and it is the one join point before operations, which are each
// independent of the others.
func Generate(ctx context.Context, doc *canonical.Document, opts Options) (*Output, error) {
	opts = opts.withDefaults()

	frags, err := BuildFragmentRegistry(doc, opts)
	if err != nil {
		return nil, err
	}

	out := &Output{
		Registry:      frags.Decoders(),
		FragmentDecls: fragmentDecls(opts, frags),
	}
	for _, op := range doc.Operations {
		start := time.Now()
		eventbus.Publish(ctx, events.OperationStart{Name: op.Name, Kind: string(op.Kind)})
		unit, err := EmitOperation(op, frags, opts)
		eventbus.Publish(ctx, events.OperationFinish{
			Name:     op.Name,
			Kind:     string(op.Kind),
			Err:      err,
			Duration: time.Since(start),
		})
		if err != nil {
			return nil, err
		}
		out.Operations = append(out.Operations, unit)
	}
	return out, nil
}

// fragmentDecls assembles the shared fragment compilation unit: each entry's
// auxiliary types, its record type, its one decoder, and finally the
// registry value spreads resolve against.
func fragmentDecls(opts Options, frags *FragmentRegistry) []hostlang.Decl {
	var decls []hostlang.Decl
	reg := &hostlang.RecordLit{}
	for _, e := range frags.Ordered() {
		decls = append(decls, e.Aux...)
		decls = append(decls, &hostlang.RecordDecl{Name: e.TypeName, Fields: e.Fields})
		decoderName := nameFragmentDecoder(e.Name)
		decls = append(decls, &hostlang.ValueDecl{
			Name: decoderName,
			Type: &hostlang.Named{Name: "Decoder " + e.TypeName},
			Body: decoderExpr(opts, e.Decoder),
		})
		reg.Fields = append(reg.Fields, hostlang.FieldInit{Name: e.Name, Value: ident(decoderName)})
	}
	if len(reg.Fields) > 0 {
		decls = append(decls, &hostlang.ValueDecl{
			Name: "fragments",
			Type: &hostlang.Named{Name: "FragmentRegistry"},
			Body: reg,
		})
	}
	return decls
}
