package codegen

import (
	"fmt"

	"github.com/hanpama/gqlshape/internal/canonical"
	"github.com/hanpama/gqlshape/internal/decode"
	"github.com/hanpama/gqlshape/internal/hostlang"
	"github.com/hanpama/gqlshape/internal/index"
)

// FragmentEntry is the one shared artifact for a named fragment: the record
// fields it contributes at every spread site, the decoder the registry
// exposes under its name, and the auxiliary declarations its synthesis
// produced.
type FragmentEntry struct {
	Name     string
	TypeName string
	Fields   []hostlang.RecordField
	Decoder  decode.Decoder
	Aux      []hostlang.Decl
}

// FragmentRegistry maps every named fragment to exactly one entry,
// regardless of how many spread sites reference it. It is built once per
// document before any operation emission and is read-only thereafter.
type FragmentRegistry struct {
	entries map[string]*FragmentEntry
	order   []string
}

// BuildFragmentRegistry constructs the registry by memoized recursion over
// fragment references. Entries complete in dependency order, so the order
// slice is a topological order; a reference cycle is reported as an error
// rather than assumed away.
func BuildFragmentRegistry(doc *canonical.Document, opts Options) (*FragmentRegistry, error) {
	b := &registryBuilder{
		doc:      doc,
		opts:     opts.withDefaults(),
		entries:  make(map[string]*FragmentEntry),
		building: make(map[string]bool),
	}
	for _, f := range doc.OrderedFragments() {
		if _, err := b.entry(f.Name); err != nil {
			return nil, err
		}
	}
	return &FragmentRegistry{entries: b.entries, order: b.order}, nil
}

func (r *FragmentRegistry) entry(name string) (*FragmentEntry, error) {
	e, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("no registry entry for fragment %q", name)
	}
	return e, nil
}

// Ordered returns the entries in completion (topological) order.
func (r *FragmentRegistry) Ordered() []*FragmentEntry {
	out := make([]*FragmentEntry, len(r.order))
	for i, name := range r.order {
		out[i] = r.entries[name]
	}
	return out
}

// Decoders exposes the registry as the read-only mapping decoder programs
// resolve FragmentRef nodes against.
func (r *FragmentRegistry) Decoders() decode.Registry {
	reg := make(decode.Registry, len(r.entries))
	for name, e := range r.entries {
		reg[name] = e.Decoder
	}
	return reg
}

type registryBuilder struct {
	doc  *canonical.Document
	opts Options

	entries  map[string]*FragmentEntry
	order    []string
	building map[string]bool
}

func (b *registryBuilder) entry(name string) (*FragmentEntry, error) {
	if e, ok := b.entries[name]; ok {
		return e, nil
	}
	if b.building[name] {
		return nil, fmt.Errorf("fragment cycle through %q", name)
	}
	frag, ok := b.doc.Fragments[name]
	if !ok {
		return nil, fmt.Errorf("unknown fragment %q", name)
	}
	b.building[name] = true
	defer delete(b.building, name)

	e, err := b.build(frag)
	if err != nil {
		return nil, fmt.Errorf("fragment %q: %w", name, err)
	}
	b.entries[name] = e
	b.order = append(b.order, name)
	return e, nil
}

func (b *registryBuilder) build(frag *canonical.Fragment) (*FragmentEntry, error) {
	s := newSynthesizer(b.opts, b)
	// Registry entries are shared across spread sites, so their field keys
	// always pin the base version: the index starts below the top level.
	idx := index.Root().Child()

	switch kind := frag.Kind.(type) {
	case *canonical.Object:
		fields, steps, err := s.selection(kind.Selection, idx)
		if err != nil {
			return nil, err
		}
		return &FragmentEntry{
			Name:     frag.Name,
			TypeName: kind.Name,
			Fields:   fields,
			Decoder:  &decode.Record{Construct: kind.Name, Steps: steps},
			Aux:      s.aux,
		}, nil

	case *canonical.Union:
		// A union fragment splices fragments it spreads itself and adds a
		// field named after itself only when it selects type-specific
		// sub-fields.
		recordName := exportName(frag.Name)
		var fields []hostlang.RecordField
		var steps []decode.FieldStep
		for _, sp := range kind.Spreads {
			inner, err := b.entry(sp.Name)
			if err != nil {
				return nil, err
			}
			fields = append(fields, inner.Fields...)
			steps = append(steps, decode.FieldStep{
				Name:   sp.Name,
				Inline: true,
				Splice: true,
				Of:     &decode.FragmentRef{Name: sp.Name},
			})
		}
		if kind.HasDetails() {
			u, err := s.union(kind.Name, kind.Variants, kind.RemainingTags, idx)
			if err != nil {
				return nil, err
			}
			fields = append(fields, hostlang.RecordField{
				Name: frag.Name,
				Type: &hostlang.Named{Name: kind.Name},
			})
			steps = append(steps, decode.FieldStep{Name: frag.Name, Inline: true, Of: u})
		}
		return &FragmentEntry{
			Name:     frag.Name,
			TypeName: recordName,
			Fields:   fields,
			Decoder:  &decode.Record{Construct: recordName, Steps: steps},
			Aux:      s.aux,
		}, nil

	case *canonical.Interface:
		fields, steps, err := s.selection(kind.Common, idx)
		if err != nil {
			return nil, err
		}
		if kind.HasSpecifics() {
			u, err := s.union(kind.SpecificsName, kind.Variants, kind.RemainingTags, idx)
			if err != nil {
				return nil, err
			}
			fields = append(fields, hostlang.RecordField{
				Name: frag.Name,
				Type: &hostlang.Named{Name: kind.SpecificsName},
			})
			steps = append(steps, decode.FieldStep{Name: frag.Name, Inline: true, Of: u})
		}
		return &FragmentEntry{
			Name:     frag.Name,
			TypeName: kind.Name,
			Fields:   fields,
			Decoder:  &decode.Record{Construct: kind.Name, Steps: steps},
			Aux:      s.aux,
		}, nil
	}
	panic(fmt.Sprintf("unreachable: fragment kind %T", frag.Kind))
}
