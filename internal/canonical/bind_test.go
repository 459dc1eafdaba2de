package canonical

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/hanpama/gqlshape/internal/language"
)

const testSDL = `
scalar DateTime

enum Role { ADMIN MEMBER }

type Query {
  viewer: User
  user(id: ID!): User
  search(term: String!): [SearchResult!]!
  node(id: ID!): Node
}

type Mutation {
  rename(id: ID!, name: String!): User
}

type User implements Node {
  id: ID!
  name: String!
  role: Role!
  friends: [User]
  createdAt: DateTime!
}

type Organization implements Node {
  id: ID!
  orgName: String!
}

type Bot {
  handle: String!
}

union SearchResult = User | Organization | Bot

interface Node {
  id: ID!
}
`

func loadTestSchema(t *testing.T) *language.Schema {
	t.Helper()
	schema, err := language.LoadSchema("schema.graphql", testSDL)
	require.NoError(t, err)
	return schema
}

func mustBind(t *testing.T, query string) *Document {
	t.Helper()
	schema := loadTestSchema(t)
	qd, err := language.LoadQuery(schema, query)
	require.NoError(t, err)
	doc, err := Bind(schema, qd)
	require.NoError(t, err)
	return doc
}

// bindUnchecked skips document validation so Bind's own diagnostics can be
// exercised on documents the upstream validator would reject.
func bindUnchecked(t *testing.T, query string) (*Document, error) {
	t.Helper()
	schema := loadTestSchema(t)
	qd, err := language.ParseQuery(query)
	require.NoError(t, err)
	return Bind(schema, qd)
}

func TestBindObjectSelection(t *testing.T) {
	doc := mustBind(t, `
		query GetViewer {
			viewer {
				__typename
				id
				name
				friends { name }
			}
		}
	`)
	require.Len(t, doc.Operations, 1)

	op := doc.Operations[0]
	require.Equal(t, "GetViewer", op.Name)
	require.Equal(t, Query, op.Kind)
	require.Len(t, op.Selection, 1)

	viewer := op.Selection[0].(*FieldNode)
	require.Equal(t, "viewer", viewer.Name)
	require.Equal(t, "viewer", viewer.Alias)
	require.Equal(t, "viewer", viewer.GlobalAlias)
	require.Equal(t, Wrapper{WrapNullable}, viewer.Wrapper)

	obj := viewer.Kind.(*Object)
	require.Equal(t, "User", obj.SchemaType)
	require.Equal(t, "Viewer", obj.Name)

	// __typename is consumed, never surfaced.
	require.Len(t, obj.Selection, 3)

	id := obj.Selection[0].(*FieldNode)
	require.Equal(t, "id", id.Name)
	require.Empty(t, id.Wrapper)
	require.Equal(t, &Scalar{TypeName: "ID"}, id.Kind)

	friends := obj.Selection[2].(*FieldNode)
	require.Equal(t, Wrapper{WrapNullable, WrapList, WrapNullable}, friends.Wrapper)
	require.Equal(t, "Friends", friends.Kind.(*Object).Name)
}

func TestBindGlobalAliases(t *testing.T) {
	doc := mustBind(t, `
		query Names {
			viewer {
				name
				friends { name }
			}
		}
	`)
	viewer := doc.Operations[0].Selection[0].(*FieldNode)
	obj := viewer.Kind.(*Object)

	outer := obj.Selection[0].(*FieldNode)
	require.Equal(t, "name", outer.GlobalAlias)

	inner := obj.Selection[1].(*FieldNode).Kind.(*Object).Selection[0].(*FieldNode)
	require.Equal(t, "name", inner.Alias)
	require.Equal(t, "name_2", inner.GlobalAlias)
}

func TestBindUnionSelection(t *testing.T) {
	doc := mustBind(t, `
		query Find {
			search(term: "x") {
				__typename
				... on User { name }
				... on Bot { __typename }
			}
		}
	`)
	search := doc.Operations[0].Selection[0].(*FieldNode)
	require.Equal(t, Wrapper{WrapList}, search.Wrapper)

	u := search.Kind.(*Union)
	require.Equal(t, "SearchResult", u.SchemaType)
	require.Equal(t, "SearchUnion", u.Name)
	require.True(t, u.HasDetails())

	require.Len(t, u.Variants, 2)
	admin := u.Variants[0]
	require.Equal(t, "User", admin.Tag)
	require.Equal(t, "User", admin.Constructor)
	require.Equal(t, "UserDetails", admin.DetailsType)
	require.Len(t, admin.Selection, 1)

	bot := u.Variants[1]
	require.Equal(t, "Bot", bot.Tag)
	require.Empty(t, bot.DetailsType)
	require.Empty(t, bot.Selection)

	require.Equal(t, []string{"Organization"}, u.RemainingTags)
}

func TestBindUnionMergesDuplicateConditions(t *testing.T) {
	doc := mustBind(t, `
		query Find {
			search(term: "x") {
				... on User { id }
				... on User { name }
			}
		}
	`)
	u := doc.Operations[0].Selection[0].(*FieldNode).Kind.(*Union)
	require.Len(t, u.Variants, 1)
	require.Len(t, u.Variants[0].Selection, 2)
}

func TestBindUnionRejectsFieldSelection(t *testing.T) {
	_, err := bindUnchecked(t, `query { search(term: "x") { handle } }`)
	require.Error(t, err)
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Error(), `field "handle" cannot be selected directly`)
}

func TestBindUnionSelfCondition(t *testing.T) {
	doc := mustBind(t, `
		query Find {
			search(term: "x") {
				... on SearchResult {
					__typename
					... on User { name }
				}
			}
		}
	`)
	u := doc.Operations[0].Selection[0].(*FieldNode).Kind.(*Union)
	require.Empty(t, u.Spreads)
	require.Len(t, u.Variants, 1)
	require.Equal(t, "User", u.Variants[0].Tag)
}

func TestBindInterfaceSelection(t *testing.T) {
	doc := mustBind(t, `
		query GetNode($id: ID!) {
			node(id: $id) {
				id
				... on User { role }
			}
		}
	`)
	op := doc.Operations[0]

	require.Len(t, op.Variables, 1)
	v := op.Variables[0]
	require.Equal(t, "id", v.Name)
	require.Equal(t, "SCALAR", v.TypeKind)
	require.Equal(t, "ID!", v.Type.String())

	node := op.Selection[0].(*FieldNode)
	iface := node.Kind.(*Interface)
	require.Equal(t, "Node", iface.SchemaType)
	require.Equal(t, "Node", iface.Name)
	require.Equal(t, "Node_Specifics", iface.SpecificsName)
	require.True(t, iface.HasSpecifics())

	require.Len(t, iface.Common, 1)
	require.Equal(t, "id", iface.Common[0].(*FieldNode).Name)

	require.Len(t, iface.Variants, 1)
	require.Equal(t, "User", iface.Variants[0].Tag)
	require.Equal(t, []string{"Organization"}, iface.RemainingTags)
}

func TestBindInterfaceWithoutSpecifics(t *testing.T) {
	doc := mustBind(t, `query GetNode($id: ID!) { node(id: $id) { id } }`)
	iface := doc.Operations[0].Selection[0].(*FieldNode).Kind.(*Interface)
	require.False(t, iface.HasSpecifics())
	require.Empty(t, iface.SpecificsName)
	require.ElementsMatch(t, []string{"User", "Organization"}, iface.RemainingTags)
}

func TestBindFragments(t *testing.T) {
	doc := mustBind(t, `
		query Q { viewer { ...userBits } }
		fragment userBits on User { name role }
	`)

	require.Len(t, doc.Fragments, 1)
	frag := doc.Fragments["userBits"]
	require.Equal(t, "User", frag.TypeCondition)

	obj := frag.Kind.(*Object)
	require.Equal(t, "UserBits", obj.Name)
	require.Len(t, obj.Selection, 2)
	require.Equal(t, &Enum{TypeName: "Role"}, obj.Selection[1].(*FieldNode).Kind)

	viewer := doc.Operations[0].Selection[0].(*FieldNode)
	sel := viewer.Kind.(*Object).Selection
	require.Len(t, sel, 1)
	require.Equal(t, &FragmentSpread{Name: "userBits"}, sel[0])
}

func TestBindUnionFragment(t *testing.T) {
	doc := mustBind(t, `
		query Q { search(term: "x") { ...hit } }
		fragment hit on SearchResult { ... on User { name } }
	`)
	frag := doc.Fragments["hit"]
	u := frag.Kind.(*Union)
	require.Equal(t, "Hit_Specifics", u.Name)
	require.Empty(t, u.RecordName)
	require.Len(t, u.Variants, 1)

	// The spread site keeps a reference; the field lowers to a record
	// splicing the fragment's contribution.
	fu := doc.Operations[0].Selection[0].(*FieldNode).Kind.(*Union)
	require.Equal(t, []*FragmentSpread{{Name: "hit"}}, fu.Spreads)
	require.Equal(t, "Search", fu.RecordName)
	require.Empty(t, fu.Variants)
	require.ElementsMatch(t, []string{"User", "Organization", "Bot"}, fu.RemainingTags)
}

func TestBindMutation(t *testing.T) {
	doc := mustBind(t, `
		mutation Rename($id: ID!, $name: String!) {
			rename(id: $id, name: $name) { id }
		}
	`)
	op := doc.Operations[0]
	require.Equal(t, Mutation, op.Kind)
	require.Len(t, op.Variables, 2)
}

func TestBindVariableDefault(t *testing.T) {
	doc := mustBind(t, `
		query Find($term: String! = "hello") {
			search(term: $term) { __typename }
		}
	`)
	v := doc.Operations[0].Variables[0]
	require.Equal(t, "hello", v.Default)
}

func TestBindRejectsSubscription(t *testing.T) {
	_, err := bindUnchecked(t, `subscription Watch { viewer { id } }`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "not supported")
}

func TestBindDeterministic(t *testing.T) {
	query := `
		query A { viewer { name friends { name } } }
		query B { user(id: "1") { name } }
	`
	first := mustBind(t, query)
	second := mustBind(t, query)
	require.Empty(t, cmp.Diff(first, second))
}

func TestWrapperOf(t *testing.T) {
	named := func(n string) *TypeExpr { return &TypeExpr{Kind: TypeExprKindNamed, Named: n} }
	list := func(of *TypeExpr) *TypeExpr { return &TypeExpr{Kind: TypeExprKindList, OfType: of} }
	nonNull := func(of *TypeExpr) *TypeExpr { return &TypeExpr{Kind: TypeExprKindNonNull, OfType: of} }

	cases := []struct {
		name string
		typ  *TypeExpr
		want Wrapper
	}{
		{"String", named("String"), Wrapper{WrapNullable}},
		{"String!", nonNull(named("String")), nil},
		{"[String!]!", nonNull(list(nonNull(named("String")))), Wrapper{WrapList}},
		{"[String]", list(named("String")), Wrapper{WrapNullable, WrapList, WrapNullable}},
		{"[String!]", list(nonNull(named("String"))), Wrapper{WrapNullable, WrapList}},
		{"[[Int]!]!", nonNull(list(nonNull(list(named("Int"))))), Wrapper{WrapList, WrapList, WrapNullable}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, WrapperOf(tc.typ))
		})
	}
}
