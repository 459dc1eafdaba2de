package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hanpama/gqlshape/internal/canonical"
	"github.com/hanpama/gqlshape/internal/codegen"
	"github.com/hanpama/gqlshape/internal/eventbus"
	"github.com/hanpama/gqlshape/internal/events"
	"github.com/hanpama/gqlshape/internal/genid"
	"github.com/hanpama/gqlshape/internal/language"
	"github.com/hanpama/gqlshape/internal/otel"

	json "github.com/goccy/go-json"
)

const rootUsage = `gqlshape — GraphQL client code generator

USAGE:
  gqlshape <command> [flags]

COMMANDS:
  generate           Generate result types and decoders from query documents
  compile-canonical  Dump the canonical selection tree of a document as JSON
  help               Show help for any command
`

const generateUsage = `generate FLAGS:
  -schema <file>            GraphQL SDL schema file (required)
  -doc <file>               Executable document file. Repeatable; at least
                            one required
  -out <dir>                Output directory (required). Each document is
                            rendered into a subdirectory named after it
  -enums.namespace <name>   Namespace of pre-generated enum modules
                            (default: Enums)
  -inputs.namespace <name>  Namespace of pre-generated input modules
                            (default: Inputs)
  -otel.endpoint <addr>     OTLP collector endpoint
  -otel.service <name>      OpenTelemetry service name (default: gqlshape)
`

const compileCanonicalUsage = `compile-canonical FLAGS:
  -schema <file>  GraphQL SDL schema file (required)
  -doc <file>     Executable document file (required)
  -out <file>     Write canonical tree JSON to file (default: stdout)
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	global := flag.NewFlagSet("gqlshape", flag.ContinueOnError)
	global.SetOutput(new(bytes.Buffer)) // silence automatic output
	if err := global.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, rootUsage)
		return err
	}
	remaining := global.Args()
	if len(remaining) == 0 {
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("missing command")
	}

	cmd := remaining[0]
	cmdArgs := remaining[1:]
	switch cmd {
	case "generate":
		return cmdGenerate(cmdArgs)
	case "compile-canonical":
		return cmdCompileCanonical(cmdArgs)
	case "help":
		return cmdHelp(cmdArgs)
	default:
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdHelp(args []string) error {
	if len(args) == 0 {
		fmt.Print(rootUsage)
		return nil
	}
	switch args[0] {
	case "generate":
		fmt.Print(generateUsage)
	case "compile-canonical":
		fmt.Print(compileCanonicalUsage)
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

type stringListFlag []string

func (s *stringListFlag) String() string { return "" }

func (s *stringListFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func cmdGenerate(args []string) error {
	schemaFile := ""
	outDir := ""
	enumNS := ""
	inputNS := ""
	otelEndpoint := ""
	otelService := "gqlshape"
	var docFiles stringListFlag

	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&schemaFile, "schema", schemaFile, "GraphQL SDL schema file")
	fs.Var(&docFiles, "doc", "Executable document file")
	fs.StringVar(&outDir, "out", outDir, "Output directory")
	fs.StringVar(&enumNS, "enums.namespace", enumNS, "Namespace of pre-generated enum modules")
	fs.StringVar(&inputNS, "inputs.namespace", inputNS, "Namespace of pre-generated input modules")
	fs.StringVar(&otelEndpoint, "otel.endpoint", otelEndpoint, "OTLP collector endpoint")
	fs.StringVar(&otelService, "otel.service", otelService, "OpenTelemetry service name")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, generateUsage)
		return err
	}
	if schemaFile == "" {
		fmt.Fprint(os.Stderr, generateUsage)
		return fmt.Errorf("-schema is required")
	}
	if len(docFiles) == 0 {
		fmt.Fprint(os.Stderr, generateUsage)
		return fmt.Errorf("at least one -doc is required")
	}
	if outDir == "" {
		fmt.Fprint(os.Stderr, generateUsage)
		return fmt.Errorf("-out is required")
	}

	schema, err := loadSchemaFile(schemaFile)
	if err != nil {
		return err
	}

	eventbus.Use(eventbus.New())
	shutdown, err := otel.Setup(otelEndpoint, otelService)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	opts := codegen.Options{EnumNamespace: enumNS, InputNamespace: inputNS}
	for _, docFile := range docFiles {
		if err := generateDoc(schema, docFile, outDir, opts); err != nil {
			return fmt.Errorf("generate %s: %w", docFile, err)
		}
	}
	return nil
}

func generateDoc(schema *language.Schema, docFile, outDir string, opts codegen.Options) error {
	doc, err := bindDocFile(schema, docFile)
	if err != nil {
		return err
	}

	ctx, _ := genid.NewContext(context.Background())
	start := time.Now()
	eventbus.Publish(ctx, events.GenerateStart{
		Source:     docFile,
		Operations: len(doc.Operations),
		Fragments:  len(doc.Fragments),
	})
	out, err := codegen.Generate(ctx, doc, opts)
	if err == nil {
		err = codegen.Render(out, filepath.Join(outDir, docName(docFile)))
	}
	eventbus.Publish(ctx, events.GenerateFinish{
		Source:   docFile,
		Err:      err,
		Duration: time.Since(start),
	})
	return err
}

func cmdCompileCanonical(args []string) error {
	schemaFile := ""
	docFile := ""
	outFile := ""
	fs := flag.NewFlagSet("compile-canonical", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&schemaFile, "schema", schemaFile, "GraphQL SDL schema file")
	fs.StringVar(&docFile, "doc", docFile, "Executable document file")
	fs.StringVar(&outFile, "out", outFile, "Write canonical tree JSON to file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, compileCanonicalUsage)
		return err
	}
	if schemaFile == "" {
		fmt.Fprint(os.Stderr, compileCanonicalUsage)
		return fmt.Errorf("-schema is required")
	}
	if docFile == "" {
		fmt.Fprint(os.Stderr, compileCanonicalUsage)
		return fmt.Errorf("-doc is required")
	}

	schema, err := loadSchemaFile(schemaFile)
	if err != nil {
		return err
	}
	doc, err := bindDocFile(schema, docFile)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if outFile == "" {
		fmt.Printf("%s\n", data)
		return nil
	}
	return os.WriteFile(outFile, append(data, '\n'), 0644)
}

func loadSchemaFile(schemaFile string) (*language.Schema, error) {
	src, err := os.ReadFile(schemaFile)
	if err != nil {
		return nil, err
	}
	schema, err := language.LoadSchema(schemaFile, string(src))
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	return schema, nil
}

func bindDocFile(schema *language.Schema, docFile string) (*canonical.Document, error) {
	src, err := os.ReadFile(docFile)
	if err != nil {
		return nil, err
	}
	qd, err := language.LoadQuery(schema, string(src))
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	return canonical.Bind(schema, qd)
}

// docName derives the output subdirectory for a document from its file name.
func docName(docFile string) string {
	base := filepath.Base(docFile)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
