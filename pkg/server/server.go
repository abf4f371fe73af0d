// Package server implements the line-delimited JSON tool protocol: one
// request per inbound line, one terminal response per request, with
// optional out-of-band info lines in between. stdout carries protocol
// frames only; diagnostics go through the logger.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/ansibridge/ansibridge/pkg/registry"
	"github.com/ansibridge/ansibridge/pkg/telemetry"
)

// Server runs the protocol loop over one reader/writer pair.
type Server struct {
	name         string
	version      string
	dependencies []string

	registry *registry.Registry
	state    *State
	logger   *telemetry.Logger
	metrics  *telemetry.Metrics
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics publishes per-call metrics to the given collector.
func WithMetrics(metrics *telemetry.Metrics) Option {
	return func(s *Server) { s.metrics = metrics }
}

// New creates a protocol server.
func New(name, version string, dependencies []string, reg *registry.Registry, state *State, logger *telemetry.Logger, opts ...Option) *Server {
	s := &Server{
		name:         name,
		version:      version,
		dependencies: dependencies,
		registry:     reg,
		state:        state,
		logger:       logger.NewComponentLogger("server"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Serve announces the server, then reads requests until the input stream
// ends or the context is canceled. Requests are handled strictly one at
// a time; a call's engine work runs on a worker goroutine the loop
// awaits, so the output stream stays one-in-one-out.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	enc := NewEncoder(w)
	dec := NewDecoder(r)

	if err := enc.Encode(ServerInfo{
		Type:         MessageServerInfo,
		Name:         s.name,
		Version:      s.version,
		Dependencies: s.dependencies,
	}); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := dec.Next()
		if errors.Is(err, io.EOF) {
			s.logger.Info("input stream closed, shutting down")
			return nil
		}
		if err != nil {
			return err
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			// Malformed lines are reported to the diagnostic channel,
			// never to the protocol stream.
			s.logger.WithError(err).Warn("skipping malformed request line")
			continue
		}

		s.handle(ctx, enc, req)
	}
}

func (s *Server) handle(ctx context.Context, enc *Encoder, req Request) {
	logger := s.logger.WithRequestID(req.RequestID)

	switch req.Type {
	case RequestListTools:
		s.send(enc, ListToolsResponse{
			Type:      MessageListTools,
			RequestID: req.RequestID,
			Tools:     s.registry.ListTools(),
		})

	case RequestCallTool:
		done := make(chan struct{})
		go func() {
			defer close(done)
			s.handleCall(ctx, enc, req)
		}()
		<-done

	default:
		logger.WithField("request_type", string(req.Type)).Warn("unknown request type")
		s.send(enc, ErrorResponse{
			Type:      MessageError,
			RequestID: req.RequestID,
			Error:     req.Type.Validate().Error(),
		})
	}
}

func (s *Server) handleCall(ctx context.Context, enc *Encoder, req Request) {
	logger := s.logger.WithRequestID(req.RequestID).WithTool(req.Name)
	logger.Debug("dispatching tool call")

	notifier := registry.NotifierFunc(func(requestID, message string) {
		s.send(enc, InfoMessage{
			Type:      MessageInfo,
			RequestID: requestID,
			Message:   message,
		})
	})

	tc := registry.NewContext(ctx, req.RequestID, s.state, notifier, s.logger)

	start := time.Now()
	result, err := s.registry.Dispatch(tc, req.Name, req.Parameters)
	if err != nil {
		logger.WithError(err).Warn("tool call failed")
		if s.metrics != nil {
			s.metrics.ObserveToolCall(req.Name, "error", time.Since(start))
		}
		s.send(enc, CallToolError{
			Type:      MessageCallToolError,
			RequestID: req.RequestID,
			Error:     err.Error(),
		})
		return
	}

	if s.metrics != nil {
		s.metrics.ObserveToolCall(req.Name, "ok", time.Since(start))
	}
	s.send(enc, CallToolResponse{
		Type:      MessageCallTool,
		RequestID: req.RequestID,
		Result:    result,
	})
}

func (s *Server) send(enc *Encoder, msg any) {
	if err := enc.Encode(msg); err != nil {
		s.logger.WithError(err).Error("failed to write response")
	}
}
