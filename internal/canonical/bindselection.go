package canonical

import (
	language "github.com/hanpama/gqlshape/internal/language"
)

const typenameField = "__typename"

// bindSelection lowers a selection set against its parent definition.
// __typename is consumed here: it drives union/interface dispatch at decode
// time and is never surfaced as a record field. Inline fragments whose type
// condition matches the parent are flattened in place.
func (b *binder) bindSelection(set language.SelectionSet, parent *language.Definition) Selection {
	var out Selection
	for _, sel := range set {
		switch s := sel.(type) {
		case *language.Field:
			if s.Name == typenameField {
				continue
			}
			if f := b.bindField(s, parent); f != nil {
				out = append(out, f)
			}
		case *language.FragmentSpread:
			if b.bindFragment(s.Name, s.Position) != nil {
				out = append(out, &FragmentSpread{Name: s.Name})
			}
		case *language.InlineFragment:
			if s.TypeCondition != "" && s.TypeCondition != parent.Name {
				b.violatef(s.Position, "inline fragment on %q cannot narrow object type %q", s.TypeCondition, parent.Name)
				continue
			}
			out = append(out, b.bindSelection(s.SelectionSet, parent)...)
		}
	}
	return out
}

func (b *binder) bindField(f *language.Field, parent *language.Definition) *FieldNode {
	def := parent.Fields.ForName(f.Name)
	if def == nil {
		b.violatef(f.Position, "field %q is not defined on %q", f.Name, parent.Name)
		return nil
	}
	alias := f.Alias
	if alias == "" {
		alias = f.Name
	}
	global := b.allocate(alias)

	named := def.Type.Name()
	typeDef := b.schema.Types[named]
	if typeDef == nil {
		b.violatef(f.Position, "field %q: unknown type %q", f.Name, named)
		return nil
	}

	var kind SelectionKind
	switch typeDef.Kind {
	case language.Scalar:
		kind = &Scalar{TypeName: typeDef.Name}
	case language.Enum:
		kind = &Enum{TypeName: typeDef.Name}
	case language.Object:
		kind = &Object{
			SchemaType: typeDef.Name,
			Name:       exportName(global),
			Selection:  b.bindSelection(f.SelectionSet, typeDef),
		}
	case language.Union:
		kind = b.bindUnion(typeDef, f.SelectionSet, exportName(global)+"Union", exportName(global))
	case language.Interface:
		kind = b.bindInterface(typeDef, f.SelectionSet, exportName(global), exportName(global)+"_Specifics")
	default:
		b.violatef(f.Position, "field %q: cannot select into %s type %q", f.Name, typeDef.Kind, typeDef.Name)
		return nil
	}

	return &FieldNode{
		Name:        f.Name,
		Alias:       alias,
		GlobalAlias: global,
		Wrapper:     WrapperOf(typeExpr(def.Type)),
		Kind:        kind,
	}
}

// bindUnion lowers a selection on a union type. Inline fragments naming a
// member become variants; named fragment spreads on the union are kept as
// spread references. Members the query does not discriminate on become
// remainingTags, in schema declaration order. variants ∪ remainingTags cover
// every member exactly once.
//
// recordBase seeds the record name a spread-carrying union field lowers to;
// fragment definitions pass "" because the registry wraps their record
// itself.
func (b *binder) bindUnion(def *language.Definition, set language.SelectionSet, name, recordBase string) *Union {
	variants, remaining, spreads := b.bindVariants(def, set, nil)
	u := &Union{
		SchemaType:    def.Name,
		Name:          name,
		Spreads:       spreads,
		Variants:      variants,
		RemainingTags: remaining,
	}
	if len(spreads) > 0 && recordBase != "" {
		u.RecordName = b.allocate(recordBase)
	}
	return u
}

// bindInterface lowers a selection on an interface type: direct fields form
// the common record, inline fragments on implementers form the specifics
// variants.
func (b *binder) bindInterface(def *language.Definition, set language.SelectionSet, name, specificsName string) *Interface {
	var commonSet language.SelectionSet
	variants, remaining, _ := b.bindVariants(def, set, func(s language.Selection) {
		commonSet = append(commonSet, s)
	})

	out := &Interface{
		SchemaType:    def.Name,
		Name:          name,
		Common:        b.bindSelection(commonSet, def),
		Variants:      variants,
		RemainingTags: remaining,
	}
	if out.HasSpecifics() {
		out.SpecificsName = specificsName
	}
	return out
}

// bindVariants walks a polymorphic selection set. Inline fragments naming a
// member type become variants; inline fragments with no condition or
// conditioned on the type itself are flattened in place. Named spreads are
// kept as spread references for unions and handed to keepCommon for
// interfaces, like direct fields. Duplicate conditions on the same member
// are merged in encounter order.
func (b *binder) bindVariants(def *language.Definition, set language.SelectionSet, keepCommon func(language.Selection)) ([]VariantCase, []string, []*FragmentSpread) {
	possible := b.schema.PossibleTypes[def.Name]

	var order []string
	grouped := make(map[string]language.SelectionSet)
	var spreads []*FragmentSpread

	var walk func(language.SelectionSet)
	walk = func(set language.SelectionSet) {
		for _, sel := range set {
			switch s := sel.(type) {
			case *language.Field:
				if s.Name == typenameField {
					continue
				}
				if keepCommon != nil {
					keepCommon(sel)
					continue
				}
				b.violatef(s.Position, "union %q: field %q cannot be selected directly", def.Name, s.Name)
			case *language.FragmentSpread:
				if keepCommon != nil {
					keepCommon(sel)
					continue
				}
				if b.bindFragment(s.Name, s.Position) != nil {
					spreads = append(spreads, &FragmentSpread{Name: s.Name})
				}
			case *language.InlineFragment:
				if s.TypeCondition == "" || s.TypeCondition == def.Name {
					walk(s.SelectionSet)
					continue
				}
				memberDef := b.schema.Types[s.TypeCondition]
				if memberDef == nil || !b.isMember(possible, s.TypeCondition) {
					b.violatef(s.Position, "%q is not a member of %q", s.TypeCondition, def.Name)
					continue
				}
				if _, seen := grouped[s.TypeCondition]; !seen {
					order = append(order, s.TypeCondition)
				}
				grouped[s.TypeCondition] = append(grouped[s.TypeCondition], s.SelectionSet...)
			}
		}
	}
	walk(set)

	var variants []VariantCase
	for _, tag := range order {
		memberDef := b.schema.Types[tag]
		selection := b.bindSelection(grouped[tag], memberDef)
		ctor := b.allocate(tag)
		v := VariantCase{Tag: tag, Constructor: ctor, Selection: selection}
		if len(selection) > 0 {
			v.DetailsType = b.allocate(ctor + "Details")
		}
		variants = append(variants, v)
	}

	var remaining []string
	for _, p := range possible {
		if _, seen := grouped[p.Name]; !seen {
			remaining = append(remaining, p.Name)
		}
	}
	return variants, remaining, spreads
}

func (b *binder) isMember(possible []*language.Definition, name string) bool {
	for _, p := range possible {
		if p.Name == name {
			return true
		}
	}
	return false
}
