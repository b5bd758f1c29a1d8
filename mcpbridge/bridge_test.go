package mcpbridge

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specx2/oasclient"
	"github.com/specx2/oasclient/oaserrors"
)

const bridgeSpec = `
openapi: 3.0.3
info:
  title: Bridge Petstore
  version: 1.0.0
servers:
  - url: http://unreachable.test
paths:
  /pets:
    get:
      operationId: listPets
      summary: List all pets
      tags: [pets]
      parameters:
        - name: limit
          in: query
          schema:
            type: integer
      responses:
        "200":
          description: ok
    post:
      operationId: createPet
      summary: Create a pet
      tags: [pets]
      requestBody:
        required: true
        content:
          application/json:
            schema:
              type: object
              required: [name]
              properties:
                name:
                  type: string
      responses:
        "201":
          description: created
  /pets/{petId}:
    get:
      operationId: getPetById
      summary: Info for a specific pet
      tags: [pets]
      parameters:
        - name: petId
          in: path
          required: true
          description: The id of the pet
          schema:
            type: integer
      responses:
        "200":
          description: ok
    delete:
      operationId: deletePet
      summary: Delete a pet
      tags: [pets, admin]
      parameters:
        - name: petId
          in: path
          required: true
          schema:
            type: integer
      responses:
        "204":
          description: deleted
`

type memoryLogger struct {
	mu      sync.Mutex
	entries []string
}

func (l *memoryLogger) record(msg string) {
	l.mu.Lock()
	l.entries = append(l.entries, msg)
	l.mu.Unlock()
}

func (l *memoryLogger) Debug(msg string, _ ...interface{}) { l.record(msg) }
func (l *memoryLogger) Info(msg string, _ ...interface{})  { l.record(msg) }
func (l *memoryLogger) Warn(msg string, _ ...interface{})  { l.record(msg) }
func (l *memoryLogger) Error(msg string, _ ...interface{}) { l.record(msg) }
func (l *memoryLogger) With(_ ...interface{}) oasclient.Logger {
	return l
}

func (l *memoryLogger) contains(msg string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, entry := range l.entries {
		if entry == msg {
			return true
		}
	}
	return false
}

func newBridgeClient(t *testing.T, baseURL string, opts ...oasclient.Option) *oasclient.Client {
	t.Helper()
	if baseURL != "" {
		opts = append(opts, oasclient.WithServer(oasclient.SelectServer(oasclient.Server{URL: baseURL})))
	}
	client, err := oasclient.New([]byte(bridgeSpec), opts...)
	require.NoError(t, err)
	return client
}

func toolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text
}

func TestNewRequiresClient(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, oaserrors.ErrConfig)
}

func TestNewRegistersFilteredTools(t *testing.T) {
	logger := &memoryLogger{}
	client := newBridgeClient(t, "")

	bridge, err := New(client,
		WithServerInfo("petstore-tools", "1.2.3"),
		WithFilter(NewFilter(NewRule().WithMethods("delete").AsExclude())),
		WithLogger(logger),
	)
	require.NoError(t, err)
	require.NotNil(t, bridge.Server())
	assert.True(t, logger.contains("registered MCP tools"))
}

func TestToolFromOperation(t *testing.T) {
	client := newBridgeClient(t, "")
	op := client.Op("getPetById").Operation()

	tool := toolFromOperation(op, []string{"pets"})
	assert.Equal(t, "getPetById", tool.Name)
	assert.Equal(t, "Info for a specific pet", tool.Description)
	require.NotNil(t, tool.Annotations.ReadOnlyHint)
	assert.True(t, *tool.Annotations.ReadOnlyHint)

	var schema map[string]interface{}
	require.NoError(t, json.Unmarshal(tool.RawInputSchema, &schema))
	assert.Equal(t, "object", schema["type"])

	properties, ok := schema["properties"].(map[string]interface{})
	require.True(t, ok, "expected properties object, got %#v", schema["properties"])
	petID, ok := properties["petId"].(map[string]interface{})
	require.True(t, ok, "expected petId property, got %#v", properties)
	assert.Equal(t, "integer", petID["type"])
	assert.Equal(t, "The id of the pet", petID["description"])

	required, ok := schema["required"].([]interface{})
	require.True(t, ok, "expected required list, got %#v", schema["required"])
	assert.Contains(t, required, "petId")
}

func TestToolNameFallsBackToPath(t *testing.T) {
	op := newBridgeClient(t, "").Op("getPetById").Operation()
	anonymous := *op
	anonymous.OperationID = ""

	assert.Equal(t, "get_pets_petId", toolName(&anonymous))
}

func TestInputSchemaBodyKey(t *testing.T) {
	client := newBridgeClient(t, "")
	op := client.Op("createPet").Operation()

	schema := inputSchema(op)
	properties := schema["properties"].(map[string]interface{})
	body, ok := properties["body"].(map[string]interface{})
	require.True(t, ok, "expected body property, got %#v", properties)
	assert.Equal(t, "object", body["type"])

	required, ok := schema["required"].([]string)
	require.True(t, ok)
	assert.Contains(t, required, "body")
}

func TestHandlerCallsOperation(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/pets/7", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, `{"id":7,"name":"Garfield"}`)
	}))
	t.Cleanup(ts.Close)

	client := newBridgeClient(t, ts.URL)
	bridge, err := New(client)
	require.NoError(t, err)

	handler := bridge.handlerFor(client.Op("getPetById").Operation())
	result, err := handler(context.Background(), toolRequest("getPetById", map[string]interface{}{"petId": 7}))
	require.NoError(t, err)

	assert.False(t, result.IsError)
	assert.JSONEq(t, `{"id":7,"name":"Garfield"}`, resultText(t, result))
}

func TestHandlerSendsBodyAndCallHeaders(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.JSONEq(t, `{"name":"Rex"}`, string(body))
		require.Equal(t, "Bearer s3cr3t", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":2,"name":"Rex"}`)
	}))
	t.Cleanup(ts.Close)

	client := newBridgeClient(t, ts.URL)
	bridge, err := New(client)
	require.NoError(t, err)

	ctx := WithCallHeaders(context.Background(), map[string]string{"Authorization": "Bearer s3cr3t"})
	handler := bridge.handlerFor(client.Op("createPet").Operation())
	result, err := handler(ctx, toolRequest("createPet", map[string]interface{}{
		"body": map[string]interface{}{"name": "Rex"},
	}))
	require.NoError(t, err)

	assert.False(t, result.IsError)
	assert.JSONEq(t, `{"id":2,"name":"Rex"}`, resultText(t, result))
}

func TestHandlerTurnsHTTPErrorsIntoToolErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, "boom")
	}))
	t.Cleanup(ts.Close)

	client := newBridgeClient(t, ts.URL)
	bridge, err := New(client)
	require.NoError(t, err)

	handler := bridge.handlerFor(client.Op("listPets").Operation())
	result, err := handler(context.Background(), toolRequest("listPets", nil))
	require.NoError(t, err)

	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "HTTP 500")
}

func TestHandlerTurnsResolutionErrorsIntoToolErrors(t *testing.T) {
	client := newBridgeClient(t, "", oasclient.WithStrictPathParams())
	bridge, err := New(client)
	require.NoError(t, err)

	handler := bridge.handlerFor(client.Op("getPetById").Operation())
	result, err := handler(context.Background(), toolRequest("getPetById", nil))
	require.NoError(t, err)

	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "petId")
}
