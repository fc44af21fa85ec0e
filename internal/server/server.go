package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ironsheep/photoflow/internal/imaging"
	"github.com/ironsheep/photoflow/internal/viewer"
)

const (
	protocolVersion = "2024-11-05"
	serverName      = "photoflow"

	// maxLineSize bounds a single request line.
	maxLineSize = 1024 * 1024

	// DefaultSettleTimeout bounds how long a navigation tool waits for the
	// viewer to finish the decodes it started.
	DefaultSettleTimeout = 2 * time.Minute
)

// Server answers JSON-RPC requests on behalf of a viewer App.
type Server struct {
	app     *viewer.App
	cache   *imaging.ImageCache
	version string

	// settleTimeout is how long navigation tools wait for the viewer.
	settleTimeout time.Duration
}

// MCPRequest is one JSON-RPC 2.0 message read from the client. Notifications
// carry no ID.
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse carries exactly one of Result or Error.
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError is the error member of a response.
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a server for app. cache must be the loader app decodes through,
// so that path-based tools and the viewer share decoded images.
func New(app *viewer.App, cache *imaging.ImageCache, version string) *Server {
	if version == "" {
		version = "dev"
	}
	return &Server{
		app:           app,
		cache:         cache,
		version:       version,
		settleTimeout: DefaultSettleTimeout,
	}
}

// Serve reads one request per line from r and writes responses to w until r
// is exhausted or ctx is cancelled. The viewer App must be running.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	lines := make(chan []byte)
	scanErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for scanner.Scan() {
			line := append([]byte(nil), scanner.Bytes()...)
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	encoder := json.NewEncoder(w)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("scanner error: %w", err)
					}
				default:
				}
				return nil
			}
			if len(line) == 0 {
				continue
			}

			var req MCPRequest
			if err := json.Unmarshal(line, &req); err != nil {
				log.Warn().Err(err).Msg("failed to parse request")
				continue
			}

			resp := s.handleRequest(ctx, &req)
			if resp == nil {
				continue
			}
			if err := encoder.Encode(resp); err != nil {
				log.Error().Err(err).Str("method", req.Method).Msg("failed to encode response")
			}
		}
	}
}

func (s *Server) handleRequest(ctx context.Context, req *MCPRequest) *MCPResponse {
	log.Debug().Str("method", req.Method).Interface("id", req.ID).Msg("request")

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "ping":
		return resultResponse(req.ID, struct{}{})
	default:
		return s.errorResponse(req.ID, -32601, "Method not found", req.Method)
	}
}

func resultResponse(id, result interface{}) *MCPResponse {
	return &MCPResponse{JSONRPC: "2.0", ID: id, Result: result}
}

type serverInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type initializeResult struct {
	ProtocolVersion string                            `json:"protocolVersion"`
	Capabilities    map[string]map[string]interface{} `json:"capabilities"`
	ServerInfo      serverInfo                        `json:"serverInfo"`
}

func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return resultResponse(req.ID, &initializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities:    map[string]map[string]interface{}{"tools": {}},
		ServerInfo:      serverInfo{Name: serverName, Version: s.version},
	})
}
