package server

import (
	"bufio"
	"context"
	"encoding/json"
	"io"

	"github.com/arthur-debert/rulebook/pkg/dispatcher"
	"github.com/arthur-debert/rulebook/pkg/errors"
	"github.com/arthur-debert/rulebook/pkg/logging"
	"github.com/rs/zerolog"
)

// Methods understood by the stdio transport
const (
	MethodResourcesRead = "resources/read"
	MethodResourcesList = "resources/list"
	MethodToolsCall     = "tools/call"
	MethodToolsList     = "tools/list"
)

// JSON-RPC error codes
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// maxLineBytes bounds a single request line
const maxLineBytes = 16 << 20

// Request is one line of stdio input
type Request struct {
	ID     json.RawMessage `json:"id,omitempty"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response is one line of stdio output
type Response struct {
	ID     json.RawMessage `json:"id"`
	Result interface{}     `json:"result,omitempty"`
	Error  *ResponseError  `json:"error,omitempty"`
}

// ResponseError carries a protocol failure
type ResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type readParams struct {
	URI string `json:"uri"`
}

type callParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// StdioServer answers line-delimited JSON requests
type StdioServer struct {
	dispatcher *dispatcher.Dispatcher
	logger     zerolog.Logger
}

// NewStdio creates a stdio transport
func NewStdio(d *dispatcher.Dispatcher) *StdioServer {
	return &StdioServer{
		dispatcher: d,
		logger:     logging.GetLogger("server.stdio"),
	}
}

// Serve reads requests from r and writes responses to w until EOF or until
// ctx is cancelled
func (s *StdioServer) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	lines := make(chan []byte)
	scanErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
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

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	s.logger.Info().Msg("Serving on stdio")
	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Stdio server stopped")
			return nil
		case line, ok := <-lines:
			if !ok {
				if err := <-scanErr; err != nil {
					return errors.Wrap(err, errors.ErrInternal, "failed to read stdio request")
				}
				s.logger.Debug().Msg("Stdio input closed")
				return nil
			}
			if len(line) == 0 {
				continue
			}
			resp := s.Handle(line)
			if err := enc.Encode(resp); err != nil {
				return errors.Wrap(err, errors.ErrInternal, "failed to write stdio response")
			}
		}
	}
}

// Handle answers a single raw request line
func (s *StdioServer) Handle(line []byte) Response {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		return errorResponse(nil, CodeParseError, "parse error: "+err.Error())
	}
	if req.Method == "" {
		return errorResponse(req.ID, CodeInvalidRequest, "missing method")
	}

	s.logger.Debug().Str("method", req.Method).Msg("Handling request")

	var (
		result interface{}
		err    error
	)
	switch req.Method {
	case MethodResourcesList:
		result = dispatcher.Resources()
	case MethodToolsList:
		result = dispatcher.Tools()
	case MethodResourcesRead:
		var p readParams
		if err := decodeParams(req.Params, &p); err != nil {
			return errorResponse(req.ID, CodeInvalidParams, errors.GetMessage(err))
		}
		result, err = s.dispatcher.ReadResource(p.URI)
	case MethodToolsCall:
		var p callParams
		if err := decodeParams(req.Params, &p); err != nil {
			return errorResponse(req.ID, CodeInvalidParams, errors.GetMessage(err))
		}
		result, err = s.dispatcher.CallTool(p.Name, p.Arguments)
	default:
		return errorResponse(req.ID, CodeMethodNotFound, "unknown method: "+req.Method)
	}

	if err != nil {
		return errorResponse(req.ID, codeFor(errors.GetErrorCode(err)), errors.GetMessage(err))
	}
	return Response{ID: idOrNull(req.ID), Result: result}
}

func decodeParams(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return errors.New(errors.ErrInvalidInput, "missing params")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.Wrap(err, errors.ErrInvalidInput, "invalid params")
	}
	return nil
}

func codeFor(code errors.ErrorCode) int {
	switch code {
	case errors.ErrInvalidInput:
		return CodeInvalidParams
	case errors.ErrNotFound:
		return CodeMethodNotFound
	default:
		return CodeInternalError
	}
}

func errorResponse(id json.RawMessage, code int, message string) Response {
	return Response{ID: idOrNull(id), Error: &ResponseError{Code: code, Message: message}}
}

func idOrNull(id json.RawMessage) json.RawMessage {
	if len(id) == 0 {
		return json.RawMessage("null")
	}
	return id
}
