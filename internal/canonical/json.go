package canonical

import (
	json "github.com/goccy/go-json"
)

// The canonical tree is dumped as JSON by the compile-canonical command.
// Polymorphic nodes carry an explicit discriminator so the dump is
// self-describing.

func (f *FieldNode) MarshalJSON() ([]byte, error) {
	type plain FieldNode
	return json.Marshal(struct {
		Node string `json:"node"`
		*plain
		Kind SelectionKind `json:"kind"`
	}{Node: "FIELD", plain: (*plain)(f), Kind: f.Kind})
}

func (s *FragmentSpread) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Node string `json:"node"`
		Name string `json:"name"`
	}{Node: "FRAGMENT_SPREAD", Name: s.Name})
}

func (s *Scalar) MarshalJSON() ([]byte, error) {
	type plain Scalar
	return json.Marshal(struct {
		Kind string `json:"kind"`
		*plain
	}{"SCALAR", (*plain)(s)})
}

func (e *Enum) MarshalJSON() ([]byte, error) {
	type plain Enum
	return json.Marshal(struct {
		Kind string `json:"kind"`
		*plain
	}{"ENUM", (*plain)(e)})
}

func (o *Object) MarshalJSON() ([]byte, error) {
	type plain Object
	return json.Marshal(struct {
		Kind string `json:"kind"`
		*plain
	}{"OBJECT", (*plain)(o)})
}

func (u *Union) MarshalJSON() ([]byte, error) {
	type plain Union
	return json.Marshal(struct {
		Kind string `json:"kind"`
		*plain
	}{"UNION", (*plain)(u)})
}

func (i *Interface) MarshalJSON() ([]byte, error) {
	type plain Interface
	return json.Marshal(struct {
		Kind string `json:"kind"`
		*plain
	}{"INTERFACE", (*plain)(i)})
}

func (k WrapKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}
