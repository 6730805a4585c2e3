package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/erraggy/xsdflat"
	"github.com/erraggy/xsdflat/cmd/xsdflat/commands"
	"github.com/erraggy/xsdflat/internal/mcpserver"
)

// validCommands is the list of all valid CLI commands, used for typo suggestions.
var validCommands = []string{"flatten", "generate", "mcp", "version", "help"}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "version", "-v", "--version":
		fmt.Printf("xsdflat %s\n", xsdflat.Version())
		fmt.Println(xsdflat.BuildInfo())
	case "help", "-h", "--help":
		printUsage()
	case "flatten":
		err = commands.HandleFlatten(args)
	case "generate":
		err = commands.HandleGenerate(args)
	case "mcp":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		err = mcpserver.Run(ctx)
		stop()
	default:
		commands.Writef(os.Stderr, "Unknown command: %s\n", command)
		if suggestion := suggestCommand(command); suggestion != "" {
			commands.Writef(os.Stderr, "Did you mean '%s'?\n", suggestion)
		}
		commands.Writef(os.Stderr, "\n")
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		commands.Writef(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// suggestCommand returns the closest valid command within edit distance 2,
// or "" if nothing is close enough.
func suggestCommand(input string) string {
	best, bestDist := "", 3
	for _, cmd := range validCommands {
		if d := levenshtein(input, cmd); d < bestDist {
			best, bestDist = cmd, d
		}
	}
	return best
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func printUsage() {
	fmt.Println(`xsdflat - XSD and WSDL schema flattener

Usage:
  xsdflat <command> [options]

Commands:
  flatten     Flatten XSD/WSDL documents into an entity/attribute schema
  generate    Generate Go structs from XSD/WSDL documents
  mcp         Serve the flatten and generate tools over MCP stdio
  version     Show version information
  help        Show this help message

Examples:
  xsdflat flatten orders.xsd
  xsdflat flatten --format json service.wsdl types.xsd
  xsdflat flatten --separate --format yaml a.xsd b.xsd
  xsdflat generate --package orders -o orders.go orders.xsd
  cat orders.xsd | xsdflat flatten -q --format json -

Run 'xsdflat <command> --help' for more information on a command.`)
}
