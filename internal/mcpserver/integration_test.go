package mcpserver

import (
	"context"
	"encoding/json"
	"slices"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startTestSession creates an in-process MCP server/client pair and returns
// the connected client session. The server is shut down when the test ends.
func startTestSession(t *testing.T) *mcp.ClientSession {
	t.Helper()

	server := mcp.NewServer(
		&mcp.Implementation{Name: "xsdflat-test", Version: "test"},
		nil,
	)
	registerAllTools(server)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	// Start server in background; it blocks until the connection closes.
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	done := make(chan error, 1)
	go func() {
		done <- server.Run(ctx, serverTransport)
	}()

	client := mcp.NewClient(
		&mcp.Implementation{Name: "test-client", Version: "test"},
		nil,
	)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = session.Close()
		cancel()
		<-done
	})

	return session
}

func TestIntegration_ListTools(t *testing.T) {
	session := startTestSession(t)

	result, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)
	require.NotNil(t, result)

	names := make([]string, 0, len(result.Tools))
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Description, "tool %s should have a description", tool.Name)
		assert.NotNil(t, tool.InputSchema, "tool %s should have an input schema", tool.Name)
	}
	slices.Sort(names)
	assert.Equal(t, []string{"flatten", "generate"}, names)
}

func TestIntegration_CallTool_Flatten(t *testing.T) {
	resultCache.reset()
	session := startTestSession(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "flatten",
		Arguments: map[string]any{
			"documents": []any{
				map[string]any{"name": "order.wsdl", "content": orderWSDL},
				map[string]any{"name": "order.xsd", "content": orderXSD},
			},
			"name": "Shop",
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError, "flatten should succeed on a well-formed set")

	structured := unmarshalStructured(t, result)
	assert.Equal(t, float64(1), structured["entity_count"])
	assert.Equal(t, float64(5), structured["attribute_count"])
	assert.Equal(t, float64(1), structured["entry_point_count"])

	schema, ok := structured["schema"].(map[string]any)
	require.True(t, ok, "schema should be an object")
	assert.Equal(t, "Shop", schema["name"])

	entities, ok := schema["entities"].([]any)
	require.True(t, ok, "entities should be an array")
	require.Len(t, entities, 1)
	order, ok := entities[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Order", order["name"])

	attrs, ok := order["attributes"].([]any)
	require.True(t, ok)
	first, ok := attrs[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "id", first["name"])
	assert.Equal(t, "Int", first["type"])
	assert.Equal(t, true, first["is_key"])
}

func TestIntegration_CallTool_Generate(t *testing.T) {
	resultCache.reset()
	session := startTestSession(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "generate",
		Arguments: map[string]any{
			"documents":    []any{map[string]any{"content": orderXSD}},
			"package_name": "shop",
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError)

	structured := unmarshalStructured(t, result)
	assert.Equal(t, "shop", structured["package_name"])
	source, ok := structured["source"].(string)
	require.True(t, ok)
	assert.Contains(t, source, "type Order struct")
}

func TestIntegration_CallTool_Error_Malformed(t *testing.T) {
	session := startTestSession(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "flatten",
		Arguments: map[string]any{
			"documents": []any{map[string]any{"name": "broken.xsd", "content": "<xs:schema"}},
		},
	})
	require.NoError(t, err, "MCP protocol call should succeed even on tool error")
	require.NotNil(t, result)
	assert.True(t, result.IsError, "flatten should return IsError for malformed input")

	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "error content should be TextContent")
	assert.Contains(t, text.Text, "broken.xsd")
}

func TestIntegration_CallTool_Error_MissingDocuments(t *testing.T) {
	session := startTestSession(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "flatten",
		Arguments: map[string]any{"documents": []any{}},
	})
	require.NoError(t, err, "MCP protocol call should succeed even on tool error")
	require.NotNil(t, result)
	assert.True(t, result.IsError, "flatten should return IsError when no documents are provided")
}

// unmarshalStructured extracts the structured output from a CallToolResult.
// It first checks StructuredContent, then falls back to parsing the first TextContent.
func unmarshalStructured(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()

	// Prefer structured content if available.
	if result.StructuredContent != nil {
		data, err := json.Marshal(result.StructuredContent)
		require.NoError(t, err)
		var m map[string]any
		require.NoError(t, json.Unmarshal(data, &m))
		return m
	}

	// Fall back to parsing text content.
	require.NotEmpty(t, result.Content, "expected at least one content item")
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &m), "failed to parse text content as JSON")
	return m
}
