// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes xsdflat conversions as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/xsdflat"
)

const serverInstructions = `xsdflat MCP server. Flattens XSD and WSDL document sets into entity/attribute schemas and generates Go types from them.

Documents: pass every document of a set in one call (the WSDL and the schemas it uses). Declarations are resolved across the whole set; repeated declarations of the same element are merged in document order.

Configuration: All defaults are configurable via XSDFLAT_* environment variables set in your MCP client config.

Key settings:
- XSDFLAT_SCOPE (default: roots-only) - entity selection: roots-only, all or union
- XSDFLAT_MAX_DEPTH (default: 64) - nesting and indirection bound per entity
- XSDFLAT_SCHEMA_NAME / XSDFLAT_SCHEMA_VERSION - output schema name and version
- XSDFLAT_ISSUE_LIMIT (default: 100) - default page size for issues
- XSDFLAT_CACHE_ENABLED (default: true) - disable result caching entirely
- XSDFLAT_CACHE_TTL (default: 15m) - cache TTL for conversion results

Caching: Conversion results are cached per session, keyed by the options and the full text of every document, so edited files convert afresh. A background sweeper removes expired entries.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		resultCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "xsdflat", Version: xsdflat.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "flatten",
		Description: "Flatten a set of XSD and WSDL documents into entities with typed attributes (String, Int, Bool, Datetime), multi-value flags and inferred keys. Returns the schema plus issues (unresolved references, unknown types, ignored constraints). Use issues_only=true to inspect problems without the schema; use offset/limit to page through issues. Scope and depth defaults are configurable via XSDFLAT_SCOPE and XSDFLAT_MAX_DEPTH env vars.",
	}, handleFlatten)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate",
		Description: "Flatten a set of XSD and WSDL documents and render the entities as Go struct definitions, one struct per entity. Returns the source inline, or writes it to output when given.",
	}, handleGenerate)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.IssueLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.IssueLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
