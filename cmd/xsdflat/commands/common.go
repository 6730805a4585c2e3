// Package commands provides CLI command handlers for xsdflat.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/xsdflat/document"
	"github.com/erraggy/xsdflat/flatten"
)

// Output format constants
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// StdinFilePath is the special file path used to indicate reading from stdin.
const StdinFilePath = "-"

// stdinSourceName names the document read from stdin in issues.
const stdinSourceName = "<stdin>"

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s", format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}

// MarshalStructured marshals data as indented JSON or YAML.
func MarshalStructured(data any, format string) ([]byte, error) {
	var out []byte
	var err error

	switch format {
	case FormatJSON:
		out, err = json.MarshalIndent(data, "", "  ")
		if err == nil {
			out = append(out, '\n')
		}
	case FormatYAML:
		out, err = yaml.Marshal(data)
	default:
		return nil, fmt.Errorf("invalid format for structured output: %s", format)
	}

	if err != nil {
		return nil, fmt.Errorf("marshaling to %s: %w", format, err)
	}
	return out, nil
}

// ReadSources reads every path into a document source. StdinFilePath reads
// standard input, at most once.
func ReadSources(paths []string, stdin io.Reader) ([]document.Source, error) {
	sources := make([]document.Source, 0, len(paths))
	readStdin := false
	for _, path := range paths {
		if path == StdinFilePath {
			if readStdin {
				return nil, fmt.Errorf("'-' may only be given once")
			}
			readStdin = true
			data, err := io.ReadAll(stdin)
			if err != nil {
				return nil, fmt.Errorf("reading stdin: %w", err)
			}
			sources = append(sources, document.Source{Name: stdinSourceName, Text: string(data)})
			continue
		}

		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		sources = append(sources, document.Source{Name: path, Text: string(data)})
	}
	return sources, nil
}

// ValidateOutputPath checks if the output path is safe to write to
func ValidateOutputPath(outputPath string, inputPaths []string) error {
	absOutputPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}

	for _, inputPath := range inputPaths {
		if inputPath == StdinFilePath {
			continue
		}
		absInputPath, err := filepath.Abs(inputPath)
		if err != nil {
			return fmt.Errorf("invalid input path %s: %w", inputPath, err)
		}

		if absOutputPath == absInputPath {
			return fmt.Errorf("output file %s would overwrite input file %s", outputPath, inputPath)
		}
	}

	return RejectSymlinkOutput(filepath.Clean(outputPath))
}

// RejectSymlinkOutput checks if the output path is a symlink and returns an error if so.
// This prevents symlink attacks where a symlink could redirect output to an unintended location.
func RejectSymlinkOutput(cleanedPath string) error {
	info, err := os.Lstat(cleanedPath)
	if os.IsNotExist(err) {
		// File does not exist yet, safe to write.
		return nil
	}
	if err != nil {
		return fmt.Errorf("commands: checking output path: %w", err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("commands: refusing to write to symlink: %s", cleanedPath)
	}
	return nil
}

// WriteOutput writes data to path, or to stdout when path is empty.
func WriteOutput(path string, data []byte) error {
	if path == "" {
		if _, err := os.Stdout.Write(data); err != nil {
			return fmt.Errorf("writing to stdout: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(filepath.Clean(path), data, 0o600); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	return nil
}

// FormatSourcePath returns a display-friendly path for a document.
func FormatSourcePath(path string) string {
	if path == StdinFilePath {
		return stdinSourceName
	}
	return path
}

// NewLogger returns a debug-level slog text logger on w when verbose is
// set, and nil (no logging) otherwise.
func NewLogger(w io.Writer, verbose bool) document.Logger {
	if !verbose {
		return nil
	}
	return document.NewSlogAdapter(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})))
}

// writeIssues prints issues one per line to w.
func writeIssues(w io.Writer, title string, list []flatten.Issue) {
	if len(list) == 0 {
		return
	}
	Writef(w, "%s (%d):\n", title, len(list))
	for _, issue := range list {
		Writef(w, "  %s\n", issue.String())
	}
	Writef(w, "\n")
}

// Writef writes formatted output to the writer.
// If the write fails, it logs to stderr (useful for debugging).
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil { //nolint:gosec // G705 - CLI tool, not a web server
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}
