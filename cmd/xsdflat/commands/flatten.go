package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/erraggy/xsdflat"
	"github.com/erraggy/xsdflat/document"
	"github.com/erraggy/xsdflat/flatten"
	"github.com/erraggy/xsdflat/schema"
)

// FlattenFlags contains flags for the flatten command
type FlattenFlags struct {
	Name               string
	Version            string
	Scope              string
	MaxDepth           int
	ResolveSimpleTypes bool
	Format             string
	Output             string
	Separate           bool
	Concurrency        int
	Quiet              bool
	Verbose            bool
}

// SetupFlattenFlags creates and configures a FlagSet for the flatten command.
// Returns the FlagSet and a FlattenFlags struct with bound flag variables.
func SetupFlattenFlags() (*flag.FlagSet, *FlattenFlags) {
	fs := flag.NewFlagSet("flatten", flag.ContinueOnError)
	flags := &FlattenFlags{}

	fs.StringVar(&flags.Name, "name", flatten.DefaultName, "name of the output schema")
	fs.StringVar(&flags.Version, "version", flatten.DefaultVersion, "version of the output schema")
	fs.StringVar(&flags.Scope, "scope", flatten.ScopeRootsOnly.String(), "entity selection: "+strings.Join(flatten.ValidScopes(), ", "))
	fs.IntVar(&flags.MaxDepth, "max-depth", flatten.DefaultMaxDepth, "nesting and indirection bound per entity")
	fs.BoolVar(&flags.ResolveSimpleTypes, "resolve-simple-types", false, "type simple types by the primitive they restrict instead of String")
	fs.StringVar(&flags.Format, "f", FormatText, "output format: text, json, or yaml")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.StringVar(&flags.Output, "o", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Output, "output", "", "output file path (default: stdout)")
	fs.BoolVar(&flags.Separate, "separate", false, "convert each file as its own document set")
	fs.IntVar(&flags.Concurrency, "concurrency", flatten.DefaultConcurrency, "document sets converted in parallel with --separate")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: only output the schema, no diagnostic messages")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: only output the schema, no diagnostic messages")
	fs.BoolVar(&flags.Verbose, "verbose", false, "log resolution details to stderr")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: xsdflat flatten [flags] <file|->...\n\n")
		Writef(fs.Output(), "Flatten XSD and WSDL documents into an entity/attribute schema.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nScopes:\n")
		Writef(fs.Output(), "  roots-only  elements named by WSDL message parts (all elements if there are none)\n")
		Writef(fs.Output(), "  all         every top-level element\n")
		Writef(fs.Output(), "  union       entry points first, then the remaining top-level elements\n")
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  xsdflat flatten orders.xsd\n")
		Writef(fs.Output(), "  xsdflat flatten --format json -o schema.json service.wsdl types.xsd\n")
		Writef(fs.Output(), "  xsdflat flatten --scope all --name Billing billing.xsd\n")
		Writef(fs.Output(), "  xsdflat flatten --separate --format yaml a.xsd b.xsd\n")
		Writef(fs.Output(), "  cat orders.xsd | xsdflat flatten -q --format json -\n")
		Writef(fs.Output(), "\nNotes:\n")
		Writef(fs.Output(), "  - All files given together are resolved as one document set\n")
		Writef(fs.Output(), "  - Unresolved references become String attributes and are reported as warnings\n")
		Writef(fs.Output(), "\nExit Codes:\n")
		Writef(fs.Output(), "  0    Conversion successful (warnings do not fail the run)\n")
		Writef(fs.Output(), "  1    Malformed document, recursion limit exceeded, or invalid flags\n")
	}

	return fs, flags
}

// options maps the flags onto flatten options.
func (f *FlattenFlags) options() []flatten.Option {
	return []flatten.Option{
		flatten.WithName(f.Name),
		flatten.WithVersion(f.Version),
		flatten.WithScopeName(f.Scope),
		flatten.WithMaxDepth(f.MaxDepth),
		flatten.WithResolveSimpleTypes(f.ResolveSimpleTypes),
		flatten.WithConcurrency(f.Concurrency),
		flatten.WithLogger(NewLogger(os.Stderr, f.Verbose)),
	}
}

// HandleFlatten executes the flatten command
func HandleFlatten(args []string) error {
	fs, flags := SetupFlattenFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("flatten command requires at least one file path, or '-' for stdin")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}
	if !flatten.IsValidScope(flags.Scope) {
		return fmt.Errorf("invalid scope '%s'. Valid scopes: %s", flags.Scope, strings.Join(flatten.ValidScopes(), ", "))
	}

	paths := fs.Args()
	if flags.Output != "" {
		if err := ValidateOutputPath(flags.Output, paths); err != nil {
			return err
		}
	}

	sources, err := ReadSources(paths, os.Stdin)
	if err != nil {
		return err
	}

	startTime := time.Now()
	var results []*flatten.Result
	if flags.Separate {
		batches := make([]flatten.Batch, len(sources))
		for i, src := range sources {
			batches[i] = flatten.Batch{Name: src.Name, Sources: []document.Source{src}}
		}
		results, err = flatten.ConvertBatch(context.Background(), batches, flags.options()...)
		if err != nil {
			return fmt.Errorf("flattening: %w", err)
		}
		if !isFlagSet(fs, "name") {
			for i, r := range results {
				r.Schema.Name = schemaNameFor(paths[i])
			}
		}
	} else {
		result, err := flatten.Convert(sources, flags.options()...)
		if err != nil {
			return fmt.Errorf("flattening: %w", err)
		}
		results = []*flatten.Result{result}
	}
	totalTime := time.Since(startTime)

	if !flags.Quiet {
		writeFlattenReport(os.Stderr, paths, results, flags.Separate, totalTime)
	}

	data, err := renderResults(results, flags.Format, flags.Separate)
	if err != nil {
		return err
	}
	if err := WriteOutput(flags.Output, data); err != nil {
		return err
	}
	if flags.Output != "" && !flags.Quiet {
		Writef(os.Stderr, "Output written to: %s\n", flags.Output)
	}
	return nil
}

// renderResults renders the schemas in the requested format. Separate runs
// produce a list of schemas in structured formats.
func renderResults(results []*flatten.Result, format string, separate bool) ([]byte, error) {
	if format == FormatText {
		var b strings.Builder
		for i, r := range results {
			if i > 0 {
				b.WriteString("\n")
			}
			RenderSchemaText(&b, r.Schema)
		}
		return []byte(b.String()), nil
	}

	if !separate {
		return MarshalStructured(results[0].Schema, format)
	}
	schemas := make([]*schema.Schema, len(results))
	for i, r := range results {
		schemas[i] = r.Schema
	}
	return MarshalStructured(schemas, format)
}

// RenderSchemaText writes a human-readable listing of s: one table per
// entity with the attribute name, type and flags.
func RenderSchemaText(w io.Writer, s *schema.Schema) {
	Writef(w, "Schema: %s %s\n", s.Name, s.Version)
	Writef(w, "Entities: %d\n", len(s.Entities))
	for _, e := range s.Entities {
		Writef(w, "\n%s", e.Name)
		if key, ok := e.Key(); ok {
			Writef(w, " (key: %s)", key.Name)
		}
		Writef(w, "\n")

		rows := make([][]string, 0, len(e.Attributes))
		for _, a := range e.Attributes {
			var flags []string
			if a.MultiValue {
				flags = append(flags, "multi")
			}
			if a.IsKey {
				flags = append(flags, "key")
			}
			rows = append(rows, []string{a.Name, a.Type.String(), strings.Join(flags, ",")})
		}
		RenderTable(w, []string{"ATTRIBUTE", "TYPE", "FLAGS"}, rows)
	}
}

// RenderTable renders a fixed-width table with headers. Trailing padding is
// trimmed from each line.
func RenderTable(w io.Writer, headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	// Calculate column widths
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	writeRow := func(cells []string) {
		var b strings.Builder
		b.WriteString("  ")
		for i, cell := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			fmt.Fprintf(&b, "%-*s", widths[i], cell)
		}
		Writef(w, "%s\n", strings.TrimRight(b.String(), " "))
	}

	writeRow(headers)
	for _, row := range rows {
		writeRow(row)
	}
}

func writeFlattenReport(w io.Writer, paths []string, results []*flatten.Result, separate bool, totalTime time.Duration) {
	Writef(w, "XSD Schema Flattener\n")
	Writef(w, "====================\n\n")
	Writef(w, "xsdflat version: %s\n", xsdflat.Version())
	for _, p := range paths {
		Writef(w, "Document: %s\n", FormatSourcePath(p))
	}
	Writef(w, "Total Time: %v\n\n", totalTime)

	for i, r := range results {
		if separate {
			Writef(w, "[%s]\n", FormatSourcePath(paths[i]))
		}
		Writef(w, "Schemas: %d  Service descriptions: %d  Ignored: %d  Entry points: %d\n",
			r.SchemaCount, r.ServiceCount, r.IgnoredCount, r.EntryPointCount)
		Writef(w, "Entities: %d  Attributes: %d\n\n", len(r.Schema.Entities), r.Schema.AttributeCount())
		writeIssues(w, "Issues", r.Issues)

		Writef(w, "✓ Conversion successful")
		if r.InfoCount > 0 || r.WarningCount > 0 {
			Writef(w, " (%d info, %d warnings)", r.InfoCount, r.WarningCount)
		}
		Writef(w, "\n\n")
	}
}

// schemaNameFor derives a schema name from a file path: the base name
// without its extension.
func schemaNameFor(path string) string {
	if path == StdinFilePath {
		return flatten.DefaultName
	}
	base := filepath.Base(path)
	if name := strings.TrimSuffix(base, filepath.Ext(base)); name != "" {
		return name
	}
	return flatten.DefaultName
}

// isFlagSet reports whether name was given on the command line.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
