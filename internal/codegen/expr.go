package codegen

import (
	"fmt"

	"github.com/hanpama/gqlshape/internal/decode"
	"github.com/hanpama/gqlshape/internal/hostlang"
)

// decoderExpr renders a decoder program as a host-language expression.
// Records become applicative pipelines: the constructor is the head and each
// field step applies in decode order, which equals the record's field order.
func decoderExpr(opts Options, d decode.Decoder) hostlang.Expr {
	switch d := d.(type) {
	case *decode.String:
		return ident("string")
	case *decode.Int:
		return ident("int")
	case *decode.Float:
		return ident("float")
	case *decode.Bool:
		return ident("bool")
	case *decode.Enum:
		return ident(opts.EnumNamespace + ".decode" + d.TypeName)
	case *decode.Custom:
		return call(ident("scalar"), str(d.Name))
	case *decode.Nullable:
		return call(ident("nullable"), decoderExpr(opts, d.Of))
	case *decode.List:
		return call(ident("list"), decoderExpr(opts, d.Of))
	case *decode.Record:
		p := &hostlang.Pipe{Head: call(ident("succeed"), ident(d.Construct))}
		for _, step := range d.Steps {
			p.Steps = append(p.Steps, stepExpr(opts, step))
		}
		return p
	case *decode.Union:
		items := make([]hostlang.Expr, 0, len(d.Branches)+len(d.Ghosts))
		for _, br := range d.Branches {
			if br.Details == nil {
				items = append(items, call(ident("variant"), str(br.Tag), ident(br.Constructor)))
				continue
			}
			items = append(items, call(ident("variantWith"), str(br.Tag), ident(br.Constructor), decoderExpr(opts, br.Details)))
		}
		for _, ghost := range d.Ghosts {
			items = append(items, call(ident("ghost"), str(ghost)))
		}
		return call(ident("union"), str(d.TypeName), &hostlang.ListLit{Items: items})
	case *decode.FragmentRef:
		return call(ident("fragment"), str(d.Name))
	}
	panic(fmt.Sprintf("unreachable: decoder %T", d))
}

func stepExpr(opts Options, step decode.FieldStep) hostlang.Expr {
	switch {
	case step.Splice:
		return call(ident("spread"), str(step.Name))
	case step.Inline:
		return call(ident("inline"), decoderExpr(opts, step.Of))
	case step.Versioned:
		return call(ident("versioned"), str(step.Key), decoderExpr(opts, step.Of))
	default:
		return call(ident("field"), str(step.Key), decoderExpr(opts, step.Of))
	}
}

func ident(name string) hostlang.Expr {
	return &hostlang.Ident{Name: name}
}

func str(v string) hostlang.Expr {
	return &hostlang.StringLit{Value: v}
}

func call(fn hostlang.Expr, args ...hostlang.Expr) hostlang.Expr {
	return &hostlang.Call{Fn: fn, Args: args}
}
