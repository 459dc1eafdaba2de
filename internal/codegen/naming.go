package codegen

import "strings"

func exportName(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func valueName(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func nameResultType(op string) string     { return exportName(op) + "Result" }
func nameInputType(op string) string      { return exportName(op) + "Input" }
func nameDecoder(typeName string) string  { return "decode" + exportName(typeName) }
func nameEncoder(typeName string) string  { return "encode" + typeName }
func nameOperationValue(op string) string { return valueName(op) }
func nameFragmentDecoder(f string) string { return "decode" + exportName(f) }
