package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestServer_Run_ServerModeStopsOnCancel(t *testing.T) {
	env := newTestEnv(t)
	env.server.config.Mode = "server"
	env.server.config.Host = "127.0.0.1"
	env.server.config.Port = freePort(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- env.server.Run(ctx) }()

	addr := env.server.config.Address()
	require.Eventually(t, func() bool {
		conn, err := net.Dial("tcp", addr)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestServer_Run_ServerModeAddressInUse(t *testing.T) {
	env := newTestEnv(t)
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	env.server.config.Mode = "server"
	env.server.config.Host = "127.0.0.1"
	env.server.config.Port = l.Addr().(*net.TCPAddr).Port

	err = env.server.Run(context.Background())
	assert.ErrorContains(t, err, "failed to serve http")
}

// rpc sends one JSON-RPC request through the MCP server and returns the
// encoded response.
func rpc(t *testing.T, env *testEnv, id int, method string, params any) string {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
		"params":  params,
	})
	require.NoError(t, err)
	resp := env.server.mcpServer.HandleMessage(context.Background(), raw)
	out, err := json.Marshal(resp)
	require.NoError(t, err)
	return string(out)
}

func TestServerToolsOverJSONRPC(t *testing.T) {
	env := newTestEnv(t)

	rpc(t, env, 1, "initialize", map[string]any{
		"protocolVersion": "2025-03-26",
		"clientInfo":      map[string]any{"name": "test", "version": "0"},
		"capabilities":    map[string]any{},
	})

	list := rpc(t, env, 2, "tools/list", map[string]any{})
	for _, name := range []string{"pdf_list_annotations", "pdf_generate_appearances", "pdf_dump_appearances", "pdf_validate_file", "pdf_server_info"} {
		assert.Contains(t, list, fmt.Sprintf("%q", name))
	}

	call := rpc(t, env, 3, "tools/call", map[string]any{
		"name":      "pdf_list_annotations",
		"arguments": map[string]any{"path": "form.pdf", "page": 1},
	})
	assert.Contains(t, call, "Page 1 #0 Widget (4 0 R)")
	assert.NotContains(t, call, `"isError":true`)
}
