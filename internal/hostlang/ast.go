// Package hostlang models the declarations and expressions the generator
// emits, independently of any concrete host language. The trees are plain
// values; Render turns them into a stable textual form. A host-specific
// backend can walk the same trees instead.
package hostlang

// Type is a reference to a host type: *Named, *List or *Nullable.
type Type interface {
	isType()
}

type Named struct {
	Name string
}

func (*Named) isType() {}

type List struct {
	Elem Type
}

func (*List) isType() {}

type Nullable struct {
	Elem Type
}

func (*Nullable) isType() {}

// Decl is a top-level declaration of a compilation unit.
type Decl interface {
	isDecl()
}

// RecordDecl declares a record type with ordered fields.
type RecordDecl struct {
	Name   string
	Fields []RecordField
}

func (*RecordDecl) isDecl() {}

type RecordField struct {
	Name string
	Type Type
}

// UnionDecl declares a closed tagged union. A constructor without payload is
// nullary.
type UnionDecl struct {
	Name         string
	Constructors []Constructor
}

func (*UnionDecl) isDecl() {}

type Constructor struct {
	Name    string
	Payload Type
}

// ValueDecl declares a named value, optionally parameterized.
type ValueDecl struct {
	Name   string
	Params []Param
	Type   Type
	Body   Expr
}

func (*ValueDecl) isDecl() {}

type Param struct {
	Name string
	Type Type
}

// Expr is an emitted expression.
type Expr interface {
	isExpr()
}

type Ident struct {
	Name string
}

func (*Ident) isExpr() {}

type StringLit struct {
	Value string
}

func (*StringLit) isExpr() {}

type Call struct {
	Fn   Expr
	Args []Expr
}

func (*Call) isExpr() {}

// Pipe is an applicative chain: Head threaded through Steps in order. Step
// order is decode application order and must match record field order.
type Pipe struct {
	Head  Expr
	Steps []Expr
}

func (*Pipe) isExpr() {}

type ListLit struct {
	Items []Expr
}

func (*ListLit) isExpr() {}

// RecordLit is a record construction expression, fields in declaration order.
type RecordLit struct {
	Fields []FieldInit
}

func (*RecordLit) isExpr() {}

type FieldInit struct {
	Name  string
	Value Expr
}
