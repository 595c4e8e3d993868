package bridge

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/gherrick0918/SoloDnDApp/engine"
	"github.com/gherrick0918/SoloDnDApp/engine/session"
	"github.com/gherrick0918/SoloDnDApp/types"
)

// Request operations.
const (
	OpInit   = "init"
	OpView   = "view"
	OpChoose = "choose"
	OpClose  = "close"
)

// Error codes reported in a Response.
const (
	CodeLoadError      = "load_error"
	CodeNotInitialized = "not_initialized"
	CodeBrokenGraph    = "broken_graph"
	CodeBadRequest     = "bad_request"
)

// Request is the JSON envelope accepted by Dispatch. Campaign and Character
// are embedded documents, not strings.
type Request struct {
	Op        string          `json:"op"`
	Handle    Handle          `json:"handle,omitempty"`
	Campaign  json.RawMessage `json:"campaign,omitempty"`
	Character json.RawMessage `json:"character,omitempty"`
	Seed      uint64          `json:"seed,omitempty"`
	Choice    string          `json:"choice,omitempty"`
}

// Response is the JSON envelope returned by Dispatch.
type Response struct {
	Handle Handle          `json:"handle,omitempty"`
	View   *types.NodeView `json:"view,omitempty"`
	Error  *ResponseError  `json:"error,omitempty"`
}

// ResponseError describes a failed request.
type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Dispatch handles one JSON request and returns the JSON response. init,
// view and choose respond with the current view; close responds with an
// empty object. The returned buffer must be released.
func (b *Bridge) Dispatch(request []byte) *Buffer {
	resp := b.dispatch(request)
	data, err := json.Marshal(resp)
	if err != nil {
		b.logger.Error("encode response", zap.Error(err))
		data = []byte(`{"error":{"code":"bad_request","message":"response encoding failed"}}`)
	}
	return b.issue(data)
}

func (b *Bridge) dispatch(request []byte) Response {
	var req Request
	if err := json.Unmarshal(request, &req); err != nil {
		return failure(CodeBadRequest, fmt.Errorf("decode request: %w", err))
	}
	b.logger.Debug("dispatch", zap.String("op", req.Op), zap.String("handle", string(req.Handle)))

	switch req.Op {
	case OpInit:
		h, err := b.Init(req.Campaign, req.Character, req.Seed)
		if err != nil {
			return failure(CodeLoadError, err)
		}
		return b.respondView(h)

	case OpView:
		return b.respondView(req.Handle)

	case OpChoose:
		s, err := b.session(req.Handle)
		if err != nil {
			return classify(err)
		}
		v, err := s.ChooseAndView(req.Choice)
		if err != nil {
			return classify(err)
		}
		return Response{Handle: req.Handle, View: &v}

	case OpClose:
		if err := b.Close(req.Handle); err != nil {
			return classify(err)
		}
		return Response{}

	default:
		return failure(CodeBadRequest, fmt.Errorf("unknown op %q", req.Op))
	}
}

func (b *Bridge) respondView(h Handle) Response {
	s, err := b.session(h)
	if err != nil {
		return classify(err)
	}
	v, err := s.View()
	if err != nil {
		return classify(err)
	}
	return Response{Handle: h, View: &v}
}

func classify(err error) Response {
	switch {
	case errors.Is(err, ErrUnknownHandle), errors.Is(err, session.ErrNotInitialized):
		return failure(CodeNotInitialized, err)
	case errors.Is(err, engine.ErrBrokenGraph):
		return failure(CodeBrokenGraph, err)
	default:
		return failure(CodeBadRequest, err)
	}
}

func failure(code string, err error) Response {
	return Response{Error: &ResponseError{Code: code, Message: err.Error()}}
}
