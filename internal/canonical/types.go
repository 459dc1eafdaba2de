// Package canonical defines the schema-bound representation of a GraphQL
// document that the generator consumes: operations and fragments lowered to
// ordered selections whose fields carry resolved type information, global
// aliases and nesting wrappers. The tree is built once by Bind and never
// mutated afterwards.
package canonical

import "sort"

// Document holds every operation and fragment of one executable document.
// Fragments form a DAG; GraphQL forbids cycles upstream.
type Document struct {
	Operations []*Operation         `json:"operations"`
	Fragments  map[string]*Fragment `json:"fragments,omitempty"`
}

// OrderedFragments returns the fragments sorted by name for deterministic
// iteration.
func (d *Document) OrderedFragments() []*Fragment {
	frags := make([]*Fragment, 0, len(d.Fragments))
	for _, f := range d.Fragments {
		frags = append(frags, f)
	}
	sort.Slice(frags, func(i, j int) bool {
		return frags[i].Name < frags[j].Name
	})
	return frags
}

type Operation struct {
	Name      string                `json:"name"`
	Kind      OperationKind         `json:"kind"`
	Variables []*VariableDefinition `json:"variables,omitempty"`
	Selection Selection             `json:"selection"`
}

type OperationKind string

const (
	Query    OperationKind = "QUERY"
	Mutation OperationKind = "MUTATION"
)

type VariableDefinition struct {
	Name string    `json:"name"`
	Type *TypeExpr `json:"type"`
	// TypeKind is the schema kind of the innermost named type:
	// SCALAR, ENUM or INPUT_OBJECT.
	TypeKind string `json:"typeKind"`
	Default  any    `json:"default,omitempty"`
}

// Fragment is a named fragment definition. Kind is always one of
// Object, Union or Interface.
type Fragment struct {
	Name          string        `json:"name"`
	TypeCondition string        `json:"typeCondition"`
	Kind          SelectionKind `json:"kind"`
}

// Selection is an ordered sequence of fields. Order is semantically
// significant: it fixes both record field order and decode application order.
type Selection []Field

// Field is either a *FieldNode or a *FragmentSpread.
type Field interface {
	isField()
}

// FieldNode is a concrete field selection bound to its schema field.
type FieldNode struct {
	Name        string        `json:"name"`
	Alias       string        `json:"alias"`
	GlobalAlias string        `json:"globalAlias"`
	Wrapper     Wrapper       `json:"wrapper,omitempty"`
	Kind        SelectionKind `json:"-"`
}

func (*FieldNode) isField() {}

// FragmentSpread references a named fragment by name.
type FragmentSpread struct {
	Name string `json:"name"`
}

func (*FragmentSpread) isField() {}

// Wrapper describes a field's list/nullable modifier composition, outward-in.
// An empty wrapper means the bare named type (non-null, non-list).
type Wrapper []WrapKind

type WrapKind uint8

const (
	WrapNullable WrapKind = iota
	WrapList
)

func (k WrapKind) String() string {
	if k == WrapList {
		return "LIST"
	}
	return "NULLABLE"
}

// SelectionKind is the shape of a field's value: one of *Scalar, *Enum,
// *Object, *Union or *Interface.
type SelectionKind interface {
	isSelectionKind()
}

type Scalar struct {
	TypeName string `json:"typeName"`
}

func (*Scalar) isSelectionKind() {}

type Enum struct {
	TypeName string `json:"typeName"`
}

func (*Enum) isSelectionKind() {}

type Object struct {
	SchemaType string    `json:"schemaType"`
	Name       string    `json:"name"`
	Selection  Selection `json:"selection"`
}

func (*Object) isSelectionKind() {}

// Union is a polymorphic selection over a union type. Variants carries the
// explicitly discriminated members; RemainingTags the schema members the
// query does not discriminate on. Together they cover every member exactly
// once, which keeps the generated dispatch total.
//
// Spreads lists named fragments spread on the union itself. A union field
// with spreads lowers to a record (named RecordName) splicing each
// fragment's contribution, with the inline variants under a specifics field;
// without spreads it lowers to the bare union type.
type Union struct {
	SchemaType    string            `json:"schemaType"`
	Name          string            `json:"name"`
	RecordName    string            `json:"recordName,omitempty"`
	Spreads       []*FragmentSpread `json:"spreads,omitempty"`
	Variants      []VariantCase     `json:"variants"`
	RemainingTags []string          `json:"remainingTags,omitempty"`
}

func (*Union) isSelectionKind() {}

// Interface is a polymorphic selection over an interface type: a flat record
// of commonly selected fields plus, when any implementer selects
// type-specific sub-fields, a specifics union built like the Union case.
type Interface struct {
	SchemaType    string        `json:"schemaType"`
	Name          string        `json:"name"`
	SpecificsName string        `json:"specificsName,omitempty"`
	Common        Selection     `json:"common"`
	Variants      []VariantCase `json:"variants"`
	RemainingTags []string      `json:"remainingTags,omitempty"`
}

func (*Interface) isSelectionKind() {}

// HasSpecifics reports whether any implementer selects type-specific
// sub-fields. Only then does the record get a specifics field.
func (i *Interface) HasSpecifics() bool {
	for _, v := range i.Variants {
		if len(v.Selection) > 0 {
			return true
		}
	}
	return false
}

// HasDetails reports whether any variant carries a sub-selection beyond the
// discriminant. A union fragment without details contributes no record field
// at its spread sites.
func (u *Union) HasDetails() bool {
	for _, v := range u.Variants {
		if len(v.Selection) > 0 {
			return true
		}
	}
	return false
}

// VariantCase is one explicitly discriminated member of a union or
// interface selection.
type VariantCase struct {
	Tag         string    `json:"tag"`
	Constructor string    `json:"constructor"`
	DetailsType string    `json:"detailsType,omitempty"`
	Selection   Selection `json:"selection,omitempty"`
}

// TypeExpr represents a GraphQL type expression (e.g. String, [String!]!).
type TypeExpr struct {
	Kind   TypeExprKind `json:"kind"`
	OfType *TypeExpr    `json:"ofType,omitempty"`
	Named  string       `json:"named,omitempty"`
}

type TypeExprKind string

const (
	TypeExprKindNamed   TypeExprKind = "NAMED"
	TypeExprKindList    TypeExprKind = "LIST"
	TypeExprKindNonNull TypeExprKind = "NON_NULL"
)

// Unwrap returns the innermost named type.
func (t *TypeExpr) Unwrap() string {
	if t == nil {
		return ""
	}
	if t.Kind == TypeExprKindNamed {
		return t.Named
	}
	return t.OfType.Unwrap()
}

func (t *TypeExpr) String() string {
	if t == nil {
		return "Unknown"
	}
	switch t.Kind {
	case TypeExprKindNamed:
		return t.Named
	case TypeExprKindList:
		return "[" + t.OfType.String() + "]"
	case TypeExprKindNonNull:
		return t.OfType.String() + "!"
	default:
		return "Unknown"
	}
}

// WrapperOf derives the wrapper descriptor for a type expression, outward-in:
// String is [NULLABLE], String! is bare, [String!]! is [LIST] and [String]
// is [NULLABLE, LIST, NULLABLE].
func WrapperOf(t *TypeExpr) Wrapper {
	var w Wrapper
	for t != nil {
		if t.Kind == TypeExprKindNonNull {
			t = t.OfType
		} else {
			w = append(w, WrapNullable)
		}
		if t != nil && t.Kind == TypeExprKindList {
			w = append(w, WrapList)
			t = t.OfType
			continue
		}
		break
	}
	return w
}
