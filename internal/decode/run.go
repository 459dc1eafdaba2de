package decode

import (
	"bytes"
	"fmt"
	"strconv"

	json "github.com/goccy/go-json"
)

const typenameKey = "__typename"

// Run interprets a decoder program against a JSON payload. version selects
// the JSON key for version-gated top-level fields; nested fields ignore it.
// Failures are ordinary error values, never panics.
func Run(reg Registry, d Decoder, data []byte, version int) (any, error) {
	return run(reg, d, data, version)
}

func run(reg Registry, d Decoder, raw []byte, version int) (any, error) {
	switch d := d.(type) {
	case *String:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("decode string: %w", err)
		}
		return s, nil
	case *Int:
		var n int64
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, fmt.Errorf("decode int: %w", err)
		}
		return n, nil
	case *Float:
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("decode float: %w", err)
		}
		return f, nil
	case *Bool:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, fmt.Errorf("decode bool: %w", err)
		}
		return b, nil
	case *Enum:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("decode enum %s: %w", d.TypeName, err)
		}
		return EnumValue{TypeName: d.TypeName, Name: s}, nil
	case *Custom:
		v, err := d.Fn(raw)
		if err != nil {
			return nil, fmt.Errorf("decode scalar %s: %w", d.Name, err)
		}
		return v, nil
	case *Nullable:
		if isNull(raw) {
			return nil, nil
		}
		return run(reg, d.Of, raw, version)
	case *List:
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		out := make([]any, len(items))
		for i, item := range items {
			v, err := run(reg, d.Of, item, version)
			if err != nil {
				return nil, fmt.Errorf("list index %d: %w", i, err)
			}
			out[i] = v
		}
		return out, nil
	case *Record:
		return runRecord(reg, d, raw, version)
	case *Union:
		return runUnion(reg, d, raw, version)
	case *FragmentRef:
		entry, ok := reg[d.Name]
		if !ok {
			return nil, fmt.Errorf("no registry entry for fragment %q", d.Name)
		}
		return run(reg, entry, raw, version)
	}
	panic(fmt.Sprintf("unreachable: decoder %T", d))
}

func runRecord(reg Registry, d *Record, raw []byte, version int) (any, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("decode %s: %w", d.Construct, err)
	}

	out := &RecordValue{Fields: make([]FieldValue, 0, len(d.Steps))}
	for _, step := range d.Steps {
		if step.Inline {
			v, err := run(reg, step.Of, raw, version)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", d.Construct, step.Name, err)
			}
			if step.Splice {
				rv, ok := v.(*RecordValue)
				if !ok {
					return nil, fmt.Errorf("%s.%s: spliced decoder yielded %T, not a record", d.Construct, step.Name, v)
				}
				out.Fields = append(out.Fields, rv.Fields...)
				continue
			}
			out.Fields = append(out.Fields, FieldValue{Name: step.Name, Value: v})
			continue
		}

		key := step.LookupKey(version)
		fieldRaw, ok := obj[key]
		if !ok {
			if _, nullable := step.Of.(*Nullable); nullable {
				out.Fields = append(out.Fields, FieldValue{Name: step.Name})
				continue
			}
			return nil, fmt.Errorf("decode %s: missing key %q", d.Construct, key)
		}
		v, err := run(reg, step.Of, fieldRaw, version)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", d.Construct, step.Name, err)
		}
		out.Fields = append(out.Fields, FieldValue{Name: step.Name, Value: v})
	}
	return out, nil
}

// LookupKey returns the JSON key this step reads under the given version.
// Version gating only ever applies at the top level: below the root each
// parent's own key already disambiguates its children, so nested steps pin
// the base key.
func (s FieldStep) LookupKey(version int) string {
	if s.Versioned && version > 0 {
		return s.Key + strconv.Itoa(version)
	}
	return s.Key
}

func runUnion(reg Registry, d *Union, raw []byte, version int) (any, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("decode %s: %w", d.TypeName, err)
	}
	tagRaw, ok := obj[typenameKey]
	if !ok {
		return nil, fmt.Errorf("decode %s: missing %s", d.TypeName, typenameKey)
	}
	var tag string
	if err := json.Unmarshal(tagRaw, &tag); err != nil {
		return nil, fmt.Errorf("decode %s: %s: %w", d.TypeName, typenameKey, err)
	}

	for _, br := range d.Branches {
		if br.Tag != tag {
			continue
		}
		if br.Details == nil {
			return UnionValue{TypeName: d.TypeName, Constructor: br.Constructor}, nil
		}
		details, err := run(reg, br.Details, raw, version)
		if err != nil {
			return nil, fmt.Errorf("%s(%s): %w", d.TypeName, br.Constructor, err)
		}
		return UnionValue{TypeName: d.TypeName, Constructor: br.Constructor, Details: details}, nil
	}
	for _, ghost := range d.Ghosts {
		if ghost == tag {
			return UnionValue{TypeName: d.TypeName, Constructor: ghost}, nil
		}
	}
	return nil, fmt.Errorf("decode %s: unknown union type %q", d.TypeName, tag)
}

func isNull(raw []byte) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
