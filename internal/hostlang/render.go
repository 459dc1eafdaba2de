package hostlang

import (
	"strconv"
	"strings"
)

// RenderFile produces the textual form of one compilation unit.
// Output is byte-identical for identical inputs: declarations render in the
// order given, with no map iteration anywhere.
func RenderFile(header string, decls []Decl) string {
	var b strings.Builder
	if header != "" {
		b.WriteString("-- ")
		b.WriteString(header)
		b.WriteString("\n\n")
	}
	for _, d := range decls {
		renderDecl(&b, d)
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func renderDecl(b *strings.Builder, d Decl) {
	switch d := d.(type) {
	case *RecordDecl:
		renderRecordDecl(b, d)
	case *UnionDecl:
		renderUnionDecl(b, d)
	case *ValueDecl:
		renderValueDecl(b, d)
	}
}

func renderRecordDecl(b *strings.Builder, d *RecordDecl) {
	b.WriteString("type ")
	b.WriteString(d.Name)
	b.WriteString(" = {")
	if len(d.Fields) == 0 {
		b.WriteString("}\n\n")
		return
	}
	b.WriteString("\n")
	for _, f := range d.Fields {
		b.WriteString("  ")
		b.WriteString(f.Name)
		b.WriteString(" : ")
		b.WriteString(RenderType(f.Type))
		b.WriteString("\n")
	}
	b.WriteString("}\n\n")
}

func renderUnionDecl(b *strings.Builder, d *UnionDecl) {
	b.WriteString("union ")
	b.WriteString(d.Name)
	b.WriteString(" =\n")
	for _, c := range d.Constructors {
		b.WriteString("  | ")
		b.WriteString(c.Name)
		if c.Payload != nil {
			b.WriteString(" ")
			b.WriteString(renderTypeAtom(c.Payload))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func renderValueDecl(b *strings.Builder, d *ValueDecl) {
	b.WriteString("let ")
	b.WriteString(d.Name)
	for _, p := range d.Params {
		b.WriteString(" (")
		b.WriteString(p.Name)
		b.WriteString(" : ")
		b.WriteString(RenderType(p.Type))
		b.WriteString(")")
	}
	if d.Type != nil {
		b.WriteString(" : ")
		b.WriteString(RenderType(d.Type))
	}
	b.WriteString(" =\n")
	renderExpr(b, d.Body, 1)
	b.WriteString("\n\n")
}

// RenderType renders a type reference.
func RenderType(t Type) string {
	switch t := t.(type) {
	case *Named:
		return t.Name
	case *List:
		return "List " + renderTypeAtom(t.Elem)
	case *Nullable:
		return "Maybe " + renderTypeAtom(t.Elem)
	}
	return ""
}

func renderTypeAtom(t Type) string {
	if n, ok := t.(*Named); ok {
		return n.Name
	}
	return "(" + RenderType(t) + ")"
}

func renderExpr(b *strings.Builder, e Expr, depth int) {
	pad := strings.Repeat("  ", depth)
	switch e := e.(type) {
	case *Pipe:
		b.WriteString(pad)
		b.WriteString(exprLine(e.Head))
		for _, s := range e.Steps {
			b.WriteString("\n")
			b.WriteString(pad)
			b.WriteString("  |> ")
			b.WriteString(exprLine(s))
		}
	case *ListLit:
		b.WriteString(pad)
		b.WriteString("[")
		for i, it := range e.Items {
			if i > 0 {
				b.WriteString("\n")
				b.WriteString(pad)
				b.WriteString(",")
			}
			b.WriteString(" ")
			b.WriteString(exprLine(it))
		}
		b.WriteString(" ]")
	case *RecordLit:
		b.WriteString(pad)
		b.WriteString("{")
		for i, f := range e.Fields {
			if i > 0 {
				b.WriteString("\n")
				b.WriteString(pad)
				b.WriteString(",")
			} else {
				b.WriteString("\n")
				b.WriteString(pad)
				b.WriteString(" ")
			}
			b.WriteString(" ")
			b.WriteString(f.Name)
			b.WriteString(" = ")
			b.WriteString(exprLine(f.Value))
		}
		b.WriteString("\n")
		b.WriteString(pad)
		b.WriteString("}")
	default:
		b.WriteString(pad)
		b.WriteString(exprLine(e))
	}
}

// exprLine renders an expression on a single line, parenthesizing nested
// applications.
func exprLine(e Expr) string {
	switch e := e.(type) {
	case *Ident:
		return e.Name
	case *StringLit:
		return strconv.Quote(e.Value)
	case *Call:
		parts := []string{exprAtom(e.Fn)}
		for _, a := range e.Args {
			parts = append(parts, exprAtom(a))
		}
		return strings.Join(parts, " ")
	case *Pipe:
		// Application binds tighter than |>, so operands only need parens
		// when they are pipes themselves.
		parts := []string{pipeOperand(e.Head)}
		for _, s := range e.Steps {
			parts = append(parts, "|> "+pipeOperand(s))
		}
		return strings.Join(parts, " ")
	case *ListLit:
		items := make([]string, len(e.Items))
		for i, it := range e.Items {
			items[i] = exprLine(it)
		}
		return "[ " + strings.Join(items, ", ") + " ]"
	case *RecordLit:
		fields := make([]string, len(e.Fields))
		for i, f := range e.Fields {
			fields[i] = f.Name + " = " + exprLine(f.Value)
		}
		return "{ " + strings.Join(fields, ", ") + " }"
	}
	return ""
}

func pipeOperand(e Expr) string {
	if _, ok := e.(*Pipe); ok {
		return "(" + exprLine(e) + ")"
	}
	return exprLine(e)
}

func exprAtom(e Expr) string {
	switch e.(type) {
	case *Ident, *StringLit, *ListLit, *RecordLit:
		return exprLine(e)
	}
	return "(" + exprLine(e) + ")"
}
