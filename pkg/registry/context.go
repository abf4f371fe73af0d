package registry

import (
	"context"

	"github.com/ansibridge/ansibridge/pkg/telemetry"
)

// Notifier delivers out-of-band messages to the client mid-call.
type Notifier interface {
	Notify(requestID, message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(requestID, message string)

// Notify implements Notifier.
func (f NotifierFunc) Notify(requestID, message string) { f(requestID, message) }

// Context is the per-call context handed to tool handlers. It carries
// the request identity, the process-scoped lifespan state, and the
// channel for informational messages back to the client.
type Context struct {
	ctx       context.Context
	requestID string
	lifespan  any
	notifier  Notifier
	logger    *telemetry.Logger
}

// NewContext assembles a per-call context.
func NewContext(ctx context.Context, requestID string, lifespan any, notifier Notifier, logger *telemetry.Logger) *Context {
	return &Context{
		ctx:       ctx,
		requestID: requestID,
		lifespan:  lifespan,
		notifier:  notifier,
		logger:    logger.WithRequestID(requestID),
	}
}

// Context returns the underlying context for cancellation and deadlines.
func (c *Context) Context() context.Context {
	return c.ctx
}

// RequestID returns the identifier of the request being handled.
func (c *Context) RequestID() string {
	return c.requestID
}

// Lifespan returns the process-scoped shared state.
func (c *Context) Lifespan() any {
	return c.lifespan
}

// Info sends an informational message to the client and logs it.
func (c *Context) Info(message string) {
	c.logger.Info(message)
	if c.notifier != nil {
		c.notifier.Notify(c.requestID, message)
	}
}

// Warn sends a warning message to the client and logs it.
func (c *Context) Warn(message string) {
	c.logger.Warn(message)
	if c.notifier != nil {
		c.notifier.Notify(c.requestID, message)
	}
}

// Error sends an error message to the client and logs it.
func (c *Context) Error(message string) {
	c.logger.Error(message)
	if c.notifier != nil {
		c.notifier.Notify(c.requestID, message)
	}
}
