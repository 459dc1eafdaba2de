package language

import (
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vektah/gqlparser/v2/validator"
)

// LoadSchema parses and validates an SDL source into a usable schema.
func LoadSchema(name, source string) (*Schema, error) {
	return gqlparser.LoadSchema(&ast.Source{Name: name, Input: source})
}

// ParseQuery parses an executable document without validating it.
func ParseQuery(source string) (*QueryDocument, error) {
	doc, err := parser.ParseQuery(&ast.Source{Input: source})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadQuery parses an executable document and validates it against schema.
func LoadQuery(schema *Schema, source string) (*QueryDocument, error) {
	doc, err := parser.ParseQuery(&ast.Source{Input: source})
	if err != nil {
		return nil, err
	}
	if errs := validator.Validate(schema, doc); len(errs) > 0 {
		return nil, errs
	}
	return doc, nil
}
