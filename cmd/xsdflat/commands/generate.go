package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/erraggy/xsdflat/flatten"
	"github.com/erraggy/xsdflat/generator"
)

// GenerateFlags contains flags for the generate command
type GenerateFlags struct {
	PackageName        string
	Output             string
	Scope              string
	MaxDepth           int
	ResolveSimpleTypes bool
	Quiet              bool
	Verbose            bool
}

// SetupGenerateFlags creates and configures a FlagSet for the generate command.
// Returns the FlagSet and a GenerateFlags struct with bound flag variables.
func SetupGenerateFlags() (*flag.FlagSet, *GenerateFlags) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	flags := &GenerateFlags{}

	fs.StringVar(&flags.PackageName, "p", generator.DefaultPackageName, "Go package name for the generated file")
	fs.StringVar(&flags.PackageName, "package", generator.DefaultPackageName, "Go package name for the generated file")
	fs.StringVar(&flags.Output, "o", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Output, "output", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Scope, "scope", flatten.ScopeRootsOnly.String(), "entity selection: "+strings.Join(flatten.ValidScopes(), ", "))
	fs.IntVar(&flags.MaxDepth, "max-depth", flatten.DefaultMaxDepth, "nesting and indirection bound per entity")
	fs.BoolVar(&flags.ResolveSimpleTypes, "resolve-simple-types", false, "type simple types by the primitive they restrict instead of String")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: only output the source, no diagnostic messages")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: only output the source, no diagnostic messages")
	fs.BoolVar(&flags.Verbose, "verbose", false, "log resolution details to stderr")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: xsdflat generate [flags] <file|->...\n\n")
		Writef(fs.Output(), "Flatten XSD and WSDL documents and render each entity as a Go struct.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  xsdflat generate orders.xsd\n")
		Writef(fs.Output(), "  xsdflat generate --package orders -o orders/model.go service.wsdl types.xsd\n")
		Writef(fs.Output(), "\nNotes:\n")
		Writef(fs.Output(), "  - Multi-valued attributes become slices; Datetime becomes time.Time\n")
		Writef(fs.Output(), "  - JSON tags keep the original attribute names\n")
	}

	return fs, flags
}

// HandleGenerate executes the generate command
func HandleGenerate(args []string) error {
	fs, flags := SetupGenerateFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("generate command requires at least one file path, or '-' for stdin")
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

	result, err := flatten.Convert(sources,
		flatten.WithScopeName(flags.Scope),
		flatten.WithMaxDepth(flags.MaxDepth),
		flatten.WithResolveSimpleTypes(flags.ResolveSimpleTypes),
		flatten.WithLogger(NewLogger(os.Stderr, flags.Verbose)),
	)
	if err != nil {
		return fmt.Errorf("flattening: %w", err)
	}

	genOpts := []generator.Option{generator.WithPackageName(flags.PackageName)}
	if flags.Output != "" {
		genOpts = append(genOpts, generator.WithFileName(filepath.Base(flags.Output)))
	}
	src, err := generator.Generate(result.Schema, genOpts...)
	if err != nil {
		return err
	}

	if !flags.Quiet {
		writeIssues(os.Stderr, "Issues", result.Issues)
		Writef(os.Stderr, "Generated %d types in package %s (%d warnings)\n",
			len(result.Schema.Entities), flags.PackageName, result.WarningCount)
	}

	if flags.Output != "" {
		if dir := filepath.Dir(flags.Output); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}
		}
	}
	if err := WriteOutput(flags.Output, src); err != nil {
		return err
	}
	if flags.Output != "" && !flags.Quiet {
		Writef(os.Stderr, "Output written to: %s\n", flags.Output)
	}
	return nil
}
