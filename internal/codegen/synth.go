package codegen

import (
	"fmt"

	"github.com/hanpama/gqlshape/internal/canonical"
	"github.com/hanpama/gqlshape/internal/decode"
	"github.com/hanpama/gqlshape/internal/hostlang"
	"github.com/hanpama/gqlshape/internal/index"
)

// pair couples the type and the decoder synthesized for one node. Producing
// both from a single traversal is what keeps record field order and decode
// application order structurally aligned; they are never derived separately.
type pair struct {
	typ hostlang.Type
	dec decode.Decoder
}

// fragmentSource resolves a fragment name to its one shared entry. During
// registry construction it is the builder itself (memoized recursion);
// afterwards it is the read-only registry.
type fragmentSource interface {
	entry(name string) (*FragmentEntry, error)
}

type synthesizer struct {
	opts  Options
	frags fragmentSource

	// aux collects named declarations for nested object/union/interface
	// sub-selections, once per distinct alias, in traversal order.
	aux     []hostlang.Decl
	auxSeen map[string]bool
}

func newSynthesizer(opts Options, frags fragmentSource) *synthesizer {
	return &synthesizer{opts: opts, frags: frags, auxSeen: make(map[string]bool)}
}

func (s *synthesizer) emitAux(name string, d hostlang.Decl) {
	if s.auxSeen[name] {
		return
	}
	s.auxSeen[name] = true
	s.aux = append(s.aux, d)
}

// selection lowers one selection level into record fields and decode steps.
// The two slices are index-aligned by construction except at spread sites,
// where one splice step stands for the fields the fragment contributes.
func (s *synthesizer) selection(sel canonical.Selection, idx index.Index) ([]hostlang.RecordField, []decode.FieldStep, error) {
	var fields []hostlang.RecordField
	var steps []decode.FieldStep

	cur := idx
	for _, f := range sel {
		switch f := f.(type) {
		case *canonical.FieldNode:
			p, err := s.fieldKind(f, cur.Child())
			if err != nil {
				return nil, nil, fmt.Errorf("field %q: %w", f.Alias, err)
			}
			fields = append(fields, hostlang.RecordField{
				Name: f.Alias,
				Type: s.opts.WrapType(p.typ, f.Wrapper),
			})
			steps = append(steps, decode.FieldStep{
				Name:      f.Alias,
				Key:       f.Alias,
				Versioned: cur.IsTopLevel(),
				Of:        s.opts.WrapDecoder(p.dec, f.Wrapper),
			})
		case *canonical.FragmentSpread:
			entry, err := s.frags.entry(f.Name)
			if err != nil {
				return nil, nil, err
			}
			fields = append(fields, entry.Fields...)
			steps = append(steps, decode.FieldStep{
				Name:   f.Name,
				Inline: true,
				Splice: true,
				Of:     &decode.FragmentRef{Name: f.Name},
			})
		default:
			panic(fmt.Sprintf("unreachable: selection field %T", f))
		}
		cur = cur.Next()
	}
	return fields, steps, nil
}

func (s *synthesizer) fieldKind(f *canonical.FieldNode, idx index.Index) (pair, error) {
	switch k := f.Kind.(type) {
	case *canonical.Scalar:
		return s.scalar(k)
	case *canonical.Enum:
		return pair{
			typ: &hostlang.Named{Name: s.opts.EnumNamespace + "." + k.TypeName},
			dec: &decode.Enum{TypeName: k.TypeName},
		}, nil
	case *canonical.Object:
		fields, steps, err := s.selection(k.Selection, idx)
		if err != nil {
			return pair{}, err
		}
		s.emitAux(k.Name, &hostlang.RecordDecl{Name: k.Name, Fields: fields})
		return pair{
			typ: &hostlang.Named{Name: k.Name},
			dec: &decode.Record{Construct: k.Name, Steps: steps},
		}, nil
	case *canonical.Union:
		if len(k.Spreads) > 0 {
			return s.unionSpread(k, idx)
		}
		u, err := s.union(k.Name, k.Variants, k.RemainingTags, idx)
		if err != nil {
			return pair{}, err
		}
		return pair{typ: &hostlang.Named{Name: k.Name}, dec: u}, nil
	case *canonical.Interface:
		return s.iface(k, idx)
	}
	panic(fmt.Sprintf("unreachable: selection kind %T", f.Kind))
}

// union synthesizes a closed tagged union: one constructor per explicitly
// selected variant (nullary when it selects nothing beyond the
// discriminant), plus one nullary ghost constructor per remaining schema
// member. The decoder dispatch mirrors the constructors branch for branch.
func (s *synthesizer) union(name string, variants []canonical.VariantCase, remaining []string, idx index.Index) (*decode.Union, error) {
	decl := &hostlang.UnionDecl{Name: name}
	dec := &decode.Union{TypeName: name, Ghosts: remaining}

	for _, v := range variants {
		if len(v.Selection) == 0 {
			decl.Constructors = append(decl.Constructors, hostlang.Constructor{Name: v.Constructor})
			dec.Branches = append(dec.Branches, decode.Branch{Tag: v.Tag, Constructor: v.Constructor})
			continue
		}
		fields, steps, err := s.selection(v.Selection, idx)
		if err != nil {
			return nil, fmt.Errorf("variant %q: %w", v.Tag, err)
		}
		s.emitAux(v.DetailsType, &hostlang.RecordDecl{Name: v.DetailsType, Fields: fields})
		decl.Constructors = append(decl.Constructors, hostlang.Constructor{
			Name:    v.Constructor,
			Payload: &hostlang.Named{Name: v.DetailsType},
		})
		dec.Branches = append(dec.Branches, decode.Branch{
			Tag:         v.Tag,
			Constructor: v.Constructor,
			Details:     &decode.Record{Construct: v.DetailsType, Steps: steps},
		})
	}
	for _, ghost := range remaining {
		decl.Constructors = append(decl.Constructors, hostlang.Constructor{Name: ghost})
	}

	s.emitAux(name, decl)
	return dec, nil
}

// unionSpread lowers a union field whose selection spreads named fragments.
// The field becomes a record splicing each fragment's contribution; variants
// the query additionally discriminates inline land under a specifics field,
// the same shape interfaces use.
func (s *synthesizer) unionSpread(k *canonical.Union, idx index.Index) (pair, error) {
	var fields []hostlang.RecordField
	var steps []decode.FieldStep
	for _, sp := range k.Spreads {
		entry, err := s.frags.entry(sp.Name)
		if err != nil {
			return pair{}, err
		}
		fields = append(fields, entry.Fields...)
		steps = append(steps, decode.FieldStep{
			Name:   sp.Name,
			Inline: true,
			Splice: true,
			Of:     &decode.FragmentRef{Name: sp.Name},
		})
	}
	if len(k.Variants) > 0 {
		u, err := s.union(k.Name, k.Variants, k.RemainingTags, idx)
		if err != nil {
			return pair{}, err
		}
		fields = append(fields, hostlang.RecordField{
			Name: "specifics",
			Type: &hostlang.Named{Name: k.Name},
		})
		steps = append(steps, decode.FieldStep{Name: "specifics", Inline: true, Of: u})
	}
	s.emitAux(k.RecordName, &hostlang.RecordDecl{Name: k.RecordName, Fields: fields})
	return pair{
		typ: &hostlang.Named{Name: k.RecordName},
		dec: &decode.Record{Construct: k.RecordName, Steps: steps},
	}, nil
}

// iface synthesizes the flat record of commonly selected fields; the record
// gets a specifics field only when at least one implementer selects
// type-specific sub-fields.
func (s *synthesizer) iface(k *canonical.Interface, idx index.Index) (pair, error) {
	fields, steps, err := s.selection(k.Common, idx)
	if err != nil {
		return pair{}, err
	}
	if k.HasSpecifics() {
		u, err := s.union(k.SpecificsName, k.Variants, k.RemainingTags, idx)
		if err != nil {
			return pair{}, err
		}
		fields = append(fields, hostlang.RecordField{
			Name: "specifics",
			Type: &hostlang.Named{Name: k.SpecificsName},
		})
		steps = append(steps, decode.FieldStep{Name: "specifics", Inline: true, Of: u})
	}
	s.emitAux(k.Name, &hostlang.RecordDecl{Name: k.Name, Fields: fields})
	return pair{
		typ: &hostlang.Named{Name: k.Name},
		dec: &decode.Record{Construct: k.Name, Steps: steps},
	}, nil
}
