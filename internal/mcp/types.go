// Package mcp implements the Model Context Protocol server side: a
// JSON-RPC 2.0 loop over stdio that exposes the tool registry to an
// LLM client. stdout carries protocol frames only; all diagnostics go
// through the logging package to stderr.
package mcp

import (
	"encoding/json"

	"kayakomcp/internal/tools"
)

// protocolVersion is the MCP revision this server speaks.
const protocolVersion = "2024-11-05"

// JSON-RPC 2.0 error codes.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

// rpcRequest is one incoming JSON-RPC frame. ID is kept raw: it may be a
// number, a string, or absent (notification) and is echoed verbatim.
type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// isNotification reports whether the frame expects no response.
func (r *rpcRequest) isNotification() bool {
	return len(r.ID) == 0 || string(r.ID) == "null"
}

// rpcResponse is one outgoing JSON-RPC frame.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

// rpcError is the JSON-RPC error object.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// initializeResult answers the MCP initialize handshake.
type initializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	Capabilities    capabilities `json:"capabilities"`
	ServerInfo      serverInfo   `json:"serverInfo"`
}

type capabilities struct {
	Tools struct{} `json:"tools"`
}

type serverInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// toolDescriptor is one entry of the tools/list response.
type toolDescriptor struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	InputSchema tools.Schema `json:"inputSchema"`
}

// listToolsResult is the tools/list response body.
type listToolsResult struct {
	Tools []toolDescriptor `json:"tools"`
}

// callParams is the tools/call request body.
type callParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// contentBlock is one piece of tool output.
type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// callResult is the tools/call response body. Tool failures surface as
// isError results with a descriptive message, never as raw faults.
type callResult struct {
	Content []contentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

func textResult(text string, isError bool) callResult {
	return callResult{
		Content: []contentBlock{{Type: "text", Text: text}},
		IsError: isError,
	}
}
