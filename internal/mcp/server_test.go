package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/goleak"

	"kayakomcp/internal/kayako"
	"kayakomcp/internal/tools"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testRegistry(t *testing.T) *tools.Registry {
	t.Helper()
	r := tools.NewRegistry()
	r.MustRegister(&tools.Tool{
		Name:        "echo",
		Description: "echoes the message argument",
		Schema: tools.Schema{
			Required:   []string{"message"},
			Properties: map[string]tools.Property{"message": {Type: "string"}},
		},
		Execute: func(ctx context.Context, args map[string]any) (string, error) {
			s, err := tools.StringArg(args, "message", "")
			if err != nil {
				return "", err
			}
			return s, nil
		},
	})
	r.MustRegister(&tools.Tool{
		Name:        "always_fails",
		Description: "fails with a taxonomy error",
		Execute: func(ctx context.Context, args map[string]any) (string, error) {
			return "", kayako.ErrRateLimited
		},
	})
	return r
}

// run feeds newline-delimited frames through a server and returns the
// decoded responses in order.
func run(t *testing.T, frames ...string) []rpcResponse {
	t.Helper()
	in := strings.NewReader(strings.Join(frames, "\n") + "\n")
	var out bytes.Buffer

	srv := NewServer("kayako-mcp", "test", testRegistry(t), in, &out)
	if err := srv.Serve(context.Background()); err != nil {
		t.Fatalf("Serve failed: %v", err)
	}

	var responses []rpcResponse
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if line == "" {
			continue
		}
		var resp rpcResponse
		if err := json.Unmarshal([]byte(line), &resp); err != nil {
			t.Fatalf("unparseable response %q: %v", line, err)
		}
		responses = append(responses, resp)
	}
	return responses
}

// result re-decodes a response result into dst.
func result(t *testing.T, resp rpcResponse, dst any) {
	t.Helper()
	data, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("re-marshal failed: %v", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
}

func TestInitializeHandshake(t *testing.T) {
	responses := run(t,
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05"}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
	)

	// The notification gets no reply.
	if len(responses) != 1 {
		t.Fatalf("got %d responses, want 1", len(responses))
	}
	resp := responses[0]
	if string(resp.ID) != "1" || resp.Error != nil {
		t.Fatalf("bad response: %+v", resp)
	}

	var init initializeResult
	result(t, resp, &init)
	if init.ProtocolVersion != "2024-11-05" {
		t.Errorf("protocolVersion = %q", init.ProtocolVersion)
	}
	if init.ServerInfo.Name != "kayako-mcp" || init.ServerInfo.Version != "test" {
		t.Errorf("serverInfo = %+v", init.ServerInfo)
	}
}

func TestPing(t *testing.T) {
	responses := run(t, `{"jsonrpc":"2.0","id":"p1","method":"ping"}`)
	if len(responses) != 1 || responses[0].Error != nil {
		t.Fatalf("responses = %+v", responses)
	}
	if string(responses[0].ID) != `"p1"` {
		t.Errorf("string id not echoed verbatim: %s", responses[0].ID)
	}
}

func TestListTools(t *testing.T) {
	responses := run(t, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)

	var list listToolsResult
	result(t, responses[0], &list)
	if len(list.Tools) != 2 {
		t.Fatalf("got %d tools, want 2", len(list.Tools))
	}
	if list.Tools[0].Name != "echo" || list.Tools[1].Name != "always_fails" {
		t.Errorf("tools out of registration order: %+v", list.Tools)
	}
}

func TestCallTool(t *testing.T) {
	responses := run(t,
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"echo","arguments":{"message":"hello"}}}`,
	)

	var call callResult
	result(t, responses[0], &call)
	if call.IsError {
		t.Fatalf("call reported error: %+v", call)
	}
	if len(call.Content) != 1 || call.Content[0].Text != "hello" {
		t.Errorf("content = %+v", call.Content)
	}
}

func TestCallToolFailureIsResult(t *testing.T) {
	responses := run(t,
		`{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"always_fails"}}`,
	)

	// Tool failures are isError results with the user-facing description,
	// never JSON-RPC faults.
	resp := responses[0]
	if resp.Error != nil {
		t.Fatalf("tool failure leaked as protocol error: %+v", resp.Error)
	}
	var call callResult
	result(t, resp, &call)
	if !call.IsError {
		t.Fatal("isError not set")
	}
	if !strings.Contains(call.Content[0].Text, "Rate limit exceeded") {
		t.Errorf("text = %q", call.Content[0].Text)
	}
}

func TestCallToolMissingArg(t *testing.T) {
	responses := run(t,
		`{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"echo"}}`,
	)

	resp := responses[0]
	if resp.Error != nil {
		t.Fatalf("missing argument leaked as protocol error: %+v", resp.Error)
	}
	var call callResult
	result(t, resp, &call)
	if !call.IsError || !strings.Contains(call.Content[0].Text, "message") {
		t.Errorf("call = %+v", call)
	}
}

func TestCallUnknownTool(t *testing.T) {
	responses := run(t,
		`{"jsonrpc":"2.0","id":6,"method":"tools/call","params":{"name":"nope"}}`,
	)

	resp := responses[0]
	if resp.Error == nil || resp.Error.Code != codeInvalidParams {
		t.Errorf("error = %+v, want code %d", resp.Error, codeInvalidParams)
	}
}

func TestUnknownMethod(t *testing.T) {
	responses := run(t, `{"jsonrpc":"2.0","id":7,"method":"resources/list"}`)

	resp := responses[0]
	if resp.Error == nil || resp.Error.Code != codeMethodNotFound {
		t.Errorf("error = %+v, want code %d", resp.Error, codeMethodNotFound)
	}
}

func TestParseError(t *testing.T) {
	responses := run(t, `{this is not json`)

	resp := responses[0]
	if resp.Error == nil || resp.Error.Code != codeParseError {
		t.Errorf("error = %+v, want code %d", resp.Error, codeParseError)
	}
	if string(resp.ID) != "null" {
		t.Errorf("id = %s, want null", resp.ID)
	}
}

func TestEmptyLinesSkipped(t *testing.T) {
	in := strings.NewReader("\n\n" + `{"jsonrpc":"2.0","id":8,"method":"ping"}` + "\n\n")
	var out bytes.Buffer
	srv := NewServer("kayako-mcp", "test", testRegistry(t), in, &out)
	if err := srv.Serve(context.Background()); err != nil {
		t.Fatalf("Serve failed: %v", err)
	}
	if n := strings.Count(strings.TrimSpace(out.String()), "\n") + 1; n != 1 {
		t.Errorf("got %d response lines, want 1", n)
	}
}
