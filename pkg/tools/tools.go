// Package tools wires the tool surface to the registry: each handler is
// thin glue between a request type, the codec, and the session manager.
// Handler-level failures (missing paths, engine errors, malformed files)
// come back as responses with success=false, never as dispatch errors.
package tools

import (
	"github.com/ansibridge/ansibridge/pkg/registry"
	"github.com/ansibridge/ansibridge/pkg/server"
	"github.com/ansibridge/ansibridge/pkg/session"
	"github.com/ansibridge/ansibridge/pkg/telemetry"
)

// Deps collects everything the handlers need.
type Deps struct {
	State    *server.State
	Sessions *session.Manager
	Logger   *telemetry.Logger
}

// RegisterAll registers the full tool surface.
func RegisterAll(reg *registry.Registry, deps Deps) error {
	for _, register := range []func(*registry.Registry, Deps) error{
		registerRunTools,
		registerInventoryTools,
		registerPlaybookTools,
		registerKeyTools,
		registerListingTools,
	} {
		if err := register(reg, deps); err != nil {
			return err
		}
	}
	return nil
}

// ctxNotifier adapts the per-call context to the session manager's
// progress interface.
type ctxNotifier struct {
	tc *registry.Context
}

func (n ctxNotifier) Info(message string) {
	n.tc.Info(message)
}
