package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"kayakomcp/internal/kayako"
	"kayakomcp/internal/logging"
	"kayakomcp/internal/tools"
)

// maxFrameBytes bounds a single newline-delimited JSON-RPC frame.
const maxFrameBytes = 10 << 20

// Server serves the tool registry over newline-delimited JSON-RPC 2.0.
type Server struct {
	name     string
	version  string
	registry *tools.Registry

	in  io.Reader
	out io.Writer
	wmu sync.Mutex
}

// NewServer creates a server reading frames from in and writing
// responses to out.
func NewServer(name, version string, registry *tools.Registry, in io.Reader, out io.Writer) *Server {
	return &Server{
		name:     name,
		version:  version,
		registry: registry,
		in:       in,
		out:      out,
	}
}

// Serve processes frames until EOF or context cancellation. Frames are
// handled sequentially; each tool invocation is an independent unit of
// work with no shared mutable state.
func (s *Server) Serve(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 64*1024), maxFrameBytes)

	logging.Server("%s %s listening on stdio (%d tools)", s.name, s.version, s.registry.Count())

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		s.handleFrame(ctx, line)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("stdio read failed: %w", err)
	}
	logging.Server("stdin closed, shutting down")
	return nil
}

// handleFrame parses and dispatches one frame.
func (s *Server) handleFrame(ctx context.Context, line []byte) {
	var req rpcRequest
	if err := json.Unmarshal(line, &req); err != nil {
		logging.ServerWarn("unparseable frame: %v", err)
		s.writeError(json.RawMessage("null"), codeParseError, "parse error")
		return
	}

	logging.ServerDebug("<- %s", req.Method)

	if req.isNotification() {
		// notifications/initialized and any other notification need no
		// reply.
		return
	}

	switch req.Method {
	case "initialize":
		s.writeResult(req.ID, initializeResult{
			ProtocolVersion: protocolVersion,
			ServerInfo:      serverInfo{Name: s.name, Version: s.version},
		})
	case "ping":
		s.writeResult(req.ID, struct{}{})
	case "tools/list":
		s.writeResult(req.ID, s.listTools())
	case "tools/call":
		s.handleCall(ctx, req)
	default:
		s.writeError(req.ID, codeMethodNotFound, fmt.Sprintf("method not found: %s", req.Method))
	}
}

// listTools renders the registry in registration order.
func (s *Server) listTools() listToolsResult {
	all := s.registry.All()
	result := listToolsResult{Tools: make([]toolDescriptor, 0, len(all))}
	for _, tool := range all {
		result.Tools = append(result.Tools, toolDescriptor{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.Schema,
		})
	}
	return result
}

// handleCall dispatches tools/call. Tool failures are converted to
// descriptive isError results at this boundary; only protocol-level
// problems (bad params, unknown tool) become JSON-RPC errors.
func (s *Server) handleCall(ctx context.Context, req rpcRequest) {
	var params callParams
	if err := json.Unmarshal(req.Params, &params); err != nil || params.Name == "" {
		s.writeError(req.ID, codeInvalidParams, "invalid tools/call params")
		return
	}
	if params.Arguments == nil {
		params.Arguments = map[string]any{}
	}

	result, err := s.registry.Execute(ctx, params.Name, params.Arguments)
	if err != nil {
		if errors.Is(err, tools.ErrToolNotFound) {
			s.writeError(req.ID, codeInvalidParams, err.Error())
			return
		}
		// Missing or mistyped arguments: report as a failed call, not a
		// protocol fault, so the model can correct itself.
		s.writeResult(req.ID, textResult(err.Error(), true))
		return
	}

	if result.Err != nil {
		s.writeResult(req.ID, textResult(kayako.Describe(result.Err), true))
		return
	}
	s.writeResult(req.ID, textResult(result.Output, false))
}

func (s *Server) writeResult(id json.RawMessage, result any) {
	s.write(rpcResponse{JSONRPC: "2.0", ID: id, Result: result})
}

func (s *Server) writeError(id json.RawMessage, code int, message string) {
	s.write(rpcResponse{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: code, Message: message}})
}

// write emits one response frame. Frames are newline-delimited; the
// mutex keeps them whole if handlers ever overlap.
func (s *Server) write(resp rpcResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		logging.ServerError("failed to marshal response: %v", err)
		return
	}
	s.wmu.Lock()
	defer s.wmu.Unlock()
	if _, err := s.out.Write(append(data, '\n')); err != nil {
		logging.ServerError("failed to write response: %v", err)
	}
}
