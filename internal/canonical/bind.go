package canonical

import (
	"strconv"
	"strings"

	language "github.com/hanpama/gqlshape/internal/language"
)

// Bind lowers a parsed, validated executable document into the canonical
// tree. The schema and document are owned by the caller and are not mutated.
//
// Binding is deterministic: fragments are bound in declaration order, then
// operations in declaration order, so the global alias allocator hands out
// identical names for identical inputs.
func Bind(schema *language.Schema, doc *language.QueryDocument) (*Document, error) {
	b := &binder{
		schema:      schema,
		doc:         doc,
		aliasCounts: make(map[string]int),
		fragments:   make(map[string]*Fragment),
		binding:     make(map[string]bool),
	}

	for _, fd := range doc.Fragments {
		b.bindFragment(fd.Name, fd.Position)
	}

	out := &Document{Fragments: b.fragments}
	for _, od := range doc.Operations {
		if op := b.bindOperation(od); op != nil {
			out.Operations = append(out.Operations, op)
		}
	}

	if len(b.violations) > 0 {
		return nil, b.violations
	}
	return out, nil
}

type binder struct {
	schema *language.Schema
	doc    *language.QueryDocument

	violations ValidationError

	// aliasCounts backs the document-wide global alias allocator.
	aliasCounts map[string]int
	fragments   map[string]*Fragment
	binding     map[string]bool
}

func (b *binder) violatef(pos *language.Position, format string, args ...any) {
	b.violations = append(b.violations, violationAt(pos, format, args...))
}

// allocate hands out a document-wide collision-free name for base. The first
// claim gets the base itself; later claims get a numbered suffix.
func (b *binder) allocate(base string) string {
	n := b.aliasCounts[base]
	b.aliasCounts[base] = n + 1
	if n == 0 {
		return base
	}
	return base + "_" + strconv.Itoa(n+1)
}

func (b *binder) bindOperation(od *language.OperationDefinition) *Operation {
	var kind OperationKind
	switch od.Operation {
	case language.Query:
		kind = Query
	case language.Mutation:
		kind = Mutation
	default:
		b.violatef(od.Position, "operation %q: %s operations are not supported", od.Name, od.Operation)
		return nil
	}

	root := b.schema.Query
	if kind == Mutation {
		root = b.schema.Mutation
	}
	if root == nil {
		b.violatef(od.Position, "operation %q: schema declares no %s type", od.Name, strings.ToLower(string(kind)))
		return nil
	}

	op := &Operation{Name: od.Name, Kind: kind}
	for _, vd := range od.VariableDefinitions {
		def := b.schema.Types[vd.Type.Name()]
		if def == nil {
			b.violatef(od.Position, "variable $%s: unknown type %q", vd.Variable, vd.Type.Name())
			continue
		}
		switch def.Kind {
		case language.Scalar, language.Enum, language.InputObject:
		default:
			b.violatef(od.Position, "variable $%s: %s is not an input type", vd.Variable, def.Name)
			continue
		}
		op.Variables = append(op.Variables, &VariableDefinition{
			Name:     vd.Variable,
			Type:     typeExpr(vd.Type),
			TypeKind: string(def.Kind),
			Default:  valueOf(vd.DefaultValue),
		})
	}
	op.Selection = b.bindSelection(od.SelectionSet, root)
	return op
}

func (b *binder) bindFragment(name string, pos *language.Position) *Fragment {
	if f, ok := b.fragments[name]; ok {
		return f
	}
	if b.binding[name] {
		b.violatef(pos, "fragment cycle through %q", name)
		return nil
	}
	fd := b.doc.Fragments.ForName(name)
	if fd == nil {
		b.violatef(pos, "unknown fragment %q", name)
		return nil
	}
	def := b.schema.Types[fd.TypeCondition]
	if def == nil {
		b.violatef(fd.Position, "fragment %q: unknown type condition %q", name, fd.TypeCondition)
		return nil
	}

	b.binding[name] = true
	defer delete(b.binding, name)

	var kind SelectionKind
	switch def.Kind {
	case language.Object:
		kind = &Object{
			SchemaType: def.Name,
			Name:       exportName(fd.Name),
			Selection:  b.bindSelection(fd.SelectionSet, def),
		}
	case language.Union:
		kind = b.bindUnion(def, fd.SelectionSet, exportName(fd.Name)+"_Specifics", "")
	case language.Interface:
		kind = b.bindInterface(def, fd.SelectionSet, exportName(fd.Name), exportName(fd.Name)+"_Specifics")
	default:
		b.violatef(fd.Position, "fragment %q: type condition %q is not an object, union or interface", name, fd.TypeCondition)
		return nil
	}

	f := &Fragment{Name: fd.Name, TypeCondition: fd.TypeCondition, Kind: kind}
	b.fragments[name] = f
	return f
}

func typeExpr(t *language.Type) *TypeExpr {
	if t == nil {
		return nil
	}
	var e *TypeExpr
	if t.NamedType != "" {
		e = &TypeExpr{Kind: TypeExprKindNamed, Named: t.NamedType}
	} else {
		e = &TypeExpr{Kind: TypeExprKindList, OfType: typeExpr(t.Elem)}
	}
	if t.NonNull {
		e = &TypeExpr{Kind: TypeExprKindNonNull, OfType: e}
	}
	return e
}

func valueOf(v *language.Value) any {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case language.IntValue:
		n, _ := strconv.ParseInt(v.Raw, 10, 64)
		return n
	case language.FloatValue:
		f, _ := strconv.ParseFloat(v.Raw, 64)
		return f
	case language.BooleanValue:
		return v.Raw == "true"
	case language.NullValue:
		return nil
	case language.ListValue:
		var items []any
		for _, c := range v.Children {
			items = append(items, valueOf(c.Value))
		}
		return items
	case language.ObjectValue:
		m := make(map[string]any, len(v.Children))
		for _, c := range v.Children {
			m[c.Name] = valueOf(c.Value)
		}
		return m
	default:
		return v.Raw
	}
}

func exportName(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
