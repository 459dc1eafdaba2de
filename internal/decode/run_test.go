package decode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunScalars(t *testing.T) {
	cases := []struct {
		name string
		dec  Decoder
		data string
		want any
	}{
		{"string", &String{}, `"hello"`, "hello"},
		{"int", &Int{}, `42`, int64(42)},
		{"float", &Float{}, `3.5`, 3.5},
		{"bool", &Bool{}, `true`, true},
		{"enum", &Enum{TypeName: "Role"}, `"ADMIN"`, EnumValue{TypeName: "Role", Name: "ADMIN"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Run(nil, tc.dec, []byte(tc.data), 0)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestRunScalarMismatch(t *testing.T) {
	_, err := Run(nil, &Int{}, []byte(`"not a number"`), 0)
	require.Error(t, err)
}

func TestRunNullable(t *testing.T) {
	got, err := Run(nil, &Nullable{Of: &String{}}, []byte(`null`), 0)
	require.NoError(t, err)
	require.Nil(t, got)

	got, err = Run(nil, &Nullable{Of: &String{}}, []byte(`"x"`), 0)
	require.NoError(t, err)
	require.Equal(t, "x", got)
}

func TestRunList(t *testing.T) {
	got, err := Run(nil, &List{Of: &Int{}}, []byte(`[1, 2, 3]`), 0)
	require.NoError(t, err)
	require.Equal(t, []any{int64(1), int64(2), int64(3)}, got)

	_, err = Run(nil, &List{Of: &Int{}}, []byte(`[1, "two"]`), 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "list index 1")
}

func TestRunCustomScalar(t *testing.T) {
	dec := &Custom{Name: "DateTime", Fn: func(raw []byte) (any, error) {
		return string(raw), nil
	}}
	got, err := Run(nil, dec, []byte(`"2024-01-01"`), 0)
	require.NoError(t, err)
	require.Equal(t, `"2024-01-01"`, got)
}

func TestRunRecordOrder(t *testing.T) {
	dec := &Record{
		Construct: "UserResult",
		Steps: []FieldStep{
			{Name: "name", Key: "name", Of: &String{}},
			{Name: "age", Key: "age", Of: &Int{}},
		},
	}
	got, err := Run(nil, dec, []byte(`{"age": 30, "name": "kim"}`), 0)
	require.NoError(t, err)

	rv := got.(*RecordValue)
	// Field order follows the decoder program, not the JSON payload.
	require.Equal(t, []FieldValue{
		{Name: "name", Value: "kim"},
		{Name: "age", Value: int64(30)},
	}, rv.Fields)
}

func TestRunRecordMissingKey(t *testing.T) {
	required := &Record{Construct: "R", Steps: []FieldStep{
		{Name: "id", Key: "id", Of: &String{}},
	}}
	_, err := Run(nil, required, []byte(`{}`), 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), `missing key "id"`)

	optional := &Record{Construct: "R", Steps: []FieldStep{
		{Name: "id", Key: "id", Of: &Nullable{Of: &String{}}},
	}}
	got, err := Run(nil, optional, []byte(`{}`), 0)
	require.NoError(t, err)
	v, ok := got.(*RecordValue).Get("id")
	require.True(t, ok)
	require.Nil(t, v)
}

func TestLookupKey(t *testing.T) {
	cases := []struct {
		name    string
		step    FieldStep
		version int
		want    string
	}{
		{"unversioned", FieldStep{Key: "user"}, 3, "user"},
		{"versioned v0", FieldStep{Key: "user", Versioned: true}, 0, "user"},
		{"versioned v1", FieldStep{Key: "user", Versioned: true}, 1, "user1"},
		{"versioned v12", FieldStep{Key: "user", Versioned: true}, 12, "user12"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.step.LookupKey(tc.version))
		})
	}
}

func TestRunVersionedRecord(t *testing.T) {
	dec := &Record{Construct: "R", Steps: []FieldStep{
		{Name: "user", Key: "user", Versioned: true, Of: &Record{
			Construct: "U",
			Steps:     []FieldStep{{Name: "id", Key: "id", Of: &String{}}},
		}},
	}}

	got, err := Run(nil, dec, []byte(`{"user": {"id": "a"}}`), 0)
	require.NoError(t, err)
	user, _ := got.(*RecordValue).Get("user")
	id, _ := user.(*RecordValue).Get("id")
	require.Equal(t, "a", id)

	// Version 2 reads the suffixed top-level key; the nested key stays bare.
	got, err = Run(nil, dec, []byte(`{"user2": {"id": "b"}}`), 2)
	require.NoError(t, err)
	user, _ = got.(*RecordValue).Get("user")
	id, _ = user.(*RecordValue).Get("id")
	require.Equal(t, "b", id)

	_, err = Run(nil, dec, []byte(`{"user": {"id": "c"}}`), 2)
	require.Error(t, err)
	require.Contains(t, err.Error(), `missing key "user2"`)
}

func TestRunUnion(t *testing.T) {
	dec := &Union{
		TypeName: "UserUnion",
		Branches: []Branch{
			{Tag: "Admin", Constructor: "Admin", Details: &Record{
				Construct: "AdminDetails",
				Steps:     []FieldStep{{Name: "permissions", Key: "permissions", Of: &List{Of: &String{}}}},
			}},
			{Tag: "Member", Constructor: "Member"},
		},
		Ghosts: []string{"Bot"},
	}

	got, err := Run(nil, dec, []byte(`{"__typename": "Admin", "permissions": ["read"]}`), 0)
	require.NoError(t, err)
	uv := got.(UnionValue)
	require.Equal(t, "Admin", uv.Constructor)
	perms, _ := uv.Details.(*RecordValue).Get("permissions")
	require.Equal(t, []any{"read"}, perms)

	got, err = Run(nil, dec, []byte(`{"__typename": "Member"}`), 0)
	require.NoError(t, err)
	require.Equal(t, UnionValue{TypeName: "UserUnion", Constructor: "Member"}, got)

	got, err = Run(nil, dec, []byte(`{"__typename": "Bot"}`), 0)
	require.NoError(t, err)
	require.Equal(t, UnionValue{TypeName: "UserUnion", Constructor: "Bot"}, got)

	_, err = Run(nil, dec, []byte(`{"__typename": "Guest"}`), 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown union type "Guest"`)

	_, err = Run(nil, dec, []byte(`{"permissions": []}`), 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing __typename")
}

func TestRunFragmentRef(t *testing.T) {
	reg := Registry{
		"userFields": &Record{
			Construct: "UserFields",
			Steps:     []FieldStep{{Name: "id", Key: "id", Of: &String{}}},
		},
	}

	dec := &Record{Construct: "R", Steps: []FieldStep{
		{Name: "userFields", Inline: true, Splice: true, Of: &FragmentRef{Name: "userFields"}},
		{Name: "extra", Key: "extra", Of: &String{}},
	}}
	got, err := Run(reg, dec, []byte(`{"id": "u1", "extra": "e"}`), 0)
	require.NoError(t, err)
	require.Equal(t, []FieldValue{
		{Name: "id", Value: "u1"},
		{Name: "extra", Value: "e"},
	}, got.(*RecordValue).Fields)

	_, err = Run(nil, &FragmentRef{Name: "missing"}, []byte(`{}`), 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), `no registry entry for fragment "missing"`)
}

func TestRunInlineSpecifics(t *testing.T) {
	// Interface specifics decode against the same object as the common
	// fields, nested under their own record field.
	dec := &Record{Construct: "NodeResult", Steps: []FieldStep{
		{Name: "id", Key: "id", Of: &String{}},
		{Name: "specifics", Inline: true, Of: &Union{
			TypeName: "Node_Specifics",
			Branches: []Branch{{Tag: "User", Constructor: "User", Details: &Record{
				Construct: "UserDetails",
				Steps:     []FieldStep{{Name: "name", Key: "name", Of: &String{}}},
			}}},
		}},
	}}
	got, err := Run(nil, dec, []byte(`{"__typename": "User", "id": "u1", "name": "kim"}`), 0)
	require.NoError(t, err)
	rv := got.(*RecordValue)
	id, _ := rv.Get("id")
	require.Equal(t, "u1", id)
	sp, _ := rv.Get("specifics")
	uv := sp.(UnionValue)
	require.Equal(t, "User", uv.Constructor)
	name, _ := uv.Details.(*RecordValue).Get("name")
	require.Equal(t, "kim", name)
}
