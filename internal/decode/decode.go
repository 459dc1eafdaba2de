// Package decode defines the decoder programs synthesized by the generator.
// A Decoder is a plain tree: the emission backend renders it into host
// source, and Run interprets it directly against a JSON payload, so the
// generated decode semantics are testable without a host toolchain.
package decode

// Decoder is one node of a decoder program.
type Decoder interface {
	isDecoder()
}

type String struct{}

func (*String) isDecoder() {}

type Int struct{}

func (*Int) isDecoder() {}

type Float struct{}

func (*Float) isDecoder() {}

type Bool struct{}

func (*Bool) isDecoder() {}

// Enum reads a string and tags it with the enum type it belongs to. The
// generated enum type itself lives in the caller's enum namespace.
type Enum struct {
	TypeName string
}

func (*Enum) isDecoder() {}

// Custom is a caller-supplied scalar decoder, keyed by scalar name.
type Custom struct {
	Name string
	Fn   func(raw []byte) (any, error)
}

func (*Custom) isDecoder() {}

type Nullable struct {
	Of Decoder
}

func (*Nullable) isDecoder() {}

type List struct {
	Of Decoder
}

func (*List) isDecoder() {}

// Record decodes a JSON object into an ordered record. Steps apply in
// order; that order always equals the field order of the record type
// synthesized alongside this decoder.
type Record struct {
	Construct string
	Steps     []FieldStep
}

func (*Record) isDecoder() {}

// FieldStep decodes one record field.
//
// Versioned marks a top-level field whose JSON key is chosen by the runtime
// version parameter. Inline decodes Of against the current object instead of
// descending through a key; Splice additionally flattens the resulting
// record's fields into the parent (fragment spreads and interface specifics
// never add a nesting level to the payload).
type FieldStep struct {
	Name      string
	Key       string
	Versioned bool
	Inline    bool
	Splice    bool
	Of        Decoder
}

// Union dispatches on the __typename discriminant. Branches carry the
// explicitly selected members, Ghosts the remaining schema members; any
// other discriminant is a hard decode failure.
type Union struct {
	TypeName string
	Branches []Branch
	Ghosts   []string
}

func (*Union) isDecoder() {}

// Branch decodes one discriminated member. A nil Details means the branch
// selects nothing beyond the discriminant and succeeds with the nullary
// constructor.
type Branch struct {
	Tag         string
	Constructor string
	Details     Decoder
}

// FragmentRef delegates to the registry entry for a named fragment.
type FragmentRef struct {
	Name string
}

func (*FragmentRef) isDecoder() {}

// Registry maps fragment names to their one shared decoder entry. Built once
// per document, read-only thereafter.
type Registry map[string]Decoder

// RecordValue is the decoded form of a Record: fields in decode order.
type RecordValue struct {
	Fields []FieldValue
}

type FieldValue struct {
	Name  string
	Value any
}

// Get returns the named field's value.
func (r *RecordValue) Get(name string) (any, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// UnionValue is the decoded form of a Union. Details is nil for nullary and
// ghost constructors.
type UnionValue struct {
	TypeName    string
	Constructor string
	Details     any
}

// EnumValue is the decoded form of an Enum.
type EnumValue struct {
	TypeName string
	Name     string
}
