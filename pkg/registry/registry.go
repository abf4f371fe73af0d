// Package registry maps tool names to typed handlers. Registration
// captures the request and response types so parameter schemas can be
// derived structurally, and dispatch validates raw parameters before a
// handler ever sees them.
package registry

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/ansibridge/ansibridge/pkg/errs"
)

// Tool describes one registered tool for listTools.
type Tool struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Parameters   Schema `json:"parameters"`
	ReturnSchema Schema `json:"returnSchema"`
}

type handlerFunc func(tc *Context, raw json.RawMessage) (any, error)

type entry struct {
	tool    Tool
	handler handlerFunc
}

// Registry holds the tool table. Registration happens once at startup;
// dispatch may then be called from any goroutine.
type Registry struct {
	mu       sync.RWMutex
	order    []string
	entries  map[string]entry
	validate *validator.Validate
}

// New creates an empty registry.
func New() *Registry {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	return &Registry{
		entries:  map[string]entry{},
		validate: v,
	}
}

func jsonFieldName(fld reflect.StructField) string {
	name, _ := parseJSONTag(fld)
	return name
}

// Register adds a typed tool handler under the given name. The request
// and response schemas are derived from Req and Resp. Registering a name
// twice fails with a duplicate-tool error.
func Register[Req, Resp any](r *Registry, name, description string, fn func(tc *Context, req Req) (Resp, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[name]; exists {
		return errs.NewDuplicateTool(name)
	}

	tool := Tool{
		Name:         name,
		Description:  description,
		Parameters:   SchemaFor(reflect.TypeFor[Req]()),
		ReturnSchema: SchemaFor(reflect.TypeFor[Resp]()),
	}

	r.order = append(r.order, name)
	r.entries[name] = entry{
		tool: tool,
		handler: func(tc *Context, raw json.RawMessage) (any, error) {
			var req Req
			if len(raw) > 0 {
				if err := json.Unmarshal(raw, &req); err != nil {
					return nil, errs.NewValidation(fmt.Sprintf("invalid parameters: %s", err))
				}
			}
			if err := r.validateRequest(req); err != nil {
				return nil, err
			}
			return fn(tc, req)
		},
	}
	return nil
}

// MustRegister is Register that panics on a duplicate name. Tool tables
// are assembled at startup where a conflict is a programming error.
func MustRegister[Req, Resp any](r *Registry, name, description string, fn func(tc *Context, req Req) (Resp, error)) {
	if err := Register(r, name, description, fn); err != nil {
		panic(err)
	}
}

// ListTools returns the registered tools in registration order.
func (r *Registry) ListTools() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.entries[name].tool)
	}
	return tools
}

// Dispatch validates the raw parameters and invokes the named tool's
// handler. Unknown names, invalid parameters, and handler panics all come
// back as classified errors; a panic never escapes.
func (r *Registry) Dispatch(tc *Context, name string, params json.RawMessage) (result any, err error) {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		return nil, errs.NewToolNotFound(name)
	}

	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = errs.NewHandler(fmt.Sprintf("tool %q panicked: %v", name, rec), nil)
		}
	}()

	return e.handler(tc, params)
}

// validateRequest runs struct validation and converts the outcome into a
// validation error carrying per-field detail.
func (r *Registry) validateRequest(req any) error {
	v := reflect.ValueOf(req)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	err := r.validate.Struct(v.Interface())
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errs.NewValidation(err.Error())
	}

	fields := make([]errs.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, errs.FieldError{
			Field:  fe.Field(),
			Reason: fmt.Sprintf("failed %q constraint", fe.Tag()),
		})
	}
	return errs.NewValidation("request validation failed", fields...)
}
