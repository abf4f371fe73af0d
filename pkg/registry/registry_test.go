package registry

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"

	"github.com/ansibridge/ansibridge/pkg/errs"
	"github.com/ansibridge/ansibridge/pkg/telemetry"
)

type echoRequest struct {
	Name  string `json:"name" validate:"required" desc:"Name to echo"`
	Count *int   `json:"count,omitempty" desc:"Repeat count"`
}

type echoResponse struct {
	Echoed string `json:"echoed"`
}

func testLogger(t *testing.T) *telemetry.Logger {
	t.Helper()
	logger, err := telemetry.NewLogger(telemetry.LoggingConfig{
		Level: "error", Format: "json", Output: "stderr",
	})
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	return logger
}

func testContext(t *testing.T) *Context {
	t.Helper()
	return NewContext(context.Background(), "req-1", nil, nil, testLogger(t))
}

func echoHandler(tc *Context, req echoRequest) (echoResponse, error) {
	return echoResponse{Echoed: req.Name}, nil
}

func TestRegisterDuplicate(t *testing.T) {
	r := New()
	if err := Register(r, "echo", "Echo a name", echoHandler); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	err := Register(r, "echo", "Echo a name", echoHandler)
	if err == nil {
		t.Fatal("second Register() expected duplicate error")
	}
	if !errs.IsDuplicateTool(err) {
		t.Errorf("error kind = %v, want duplicate_tool", errs.KindOf(err))
	}
}

func TestListToolsOrderAndSchema(t *testing.T) {
	r := New()
	if err := Register(r, "echo", "Echo a name", echoHandler); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := Register(r, "another", "Another tool", echoHandler); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tools := r.ListTools()
	if len(tools) != 2 {
		t.Fatalf("got %d tools, want 2", len(tools))
	}
	if tools[0].Name != "echo" || tools[1].Name != "another" {
		t.Errorf("tool order = [%s %s], want registration order", tools[0].Name, tools[1].Name)
	}

	params := tools[0].Parameters
	if params.Type != "object" {
		t.Fatalf("parameters type = %q, want object", params.Type)
	}
	if got := params.Properties["name"].Type; got != "string" {
		t.Errorf("name property type = %q, want string", got)
	}
	if got := params.Properties["name"].Description; got != "Name to echo" {
		t.Errorf("name description = %q, want desc tag value", got)
	}
	if !reflect.DeepEqual(params.Required, []string{"name"}) {
		t.Errorf("required = %v, want [name] (count is optional)", params.Required)
	}
	if got := params.Properties["count"].Type; got != "integer" {
		t.Errorf("count property type = %q, want integer", got)
	}

	ret := tools[0].ReturnSchema
	if got := ret.Properties["echoed"].Type; got != "string" {
		t.Errorf("return schema echoed type = %q, want string", got)
	}
}

func TestSchemaForShapes(t *testing.T) {
	type nested struct {
		Items []string       `json:"items"`
		Meta  map[string]any `json:"meta,omitempty"`
	}
	type outer struct {
		Inner    nested  `json:"inner"`
		Optional *nested `json:"optional,omitempty"`
		hidden   int
		Skipped  string  `json:"-"`
	}

	schema := SchemaFor(reflect.TypeFor[outer]())
	if !reflect.DeepEqual(schema.Required, []string{"inner"}) {
		t.Errorf("required = %v, want [inner]", schema.Required)
	}
	if _, ok := schema.Properties["Skipped"]; ok {
		t.Error("json \"-\" field must be excluded")
	}
	if _, ok := schema.Properties["hidden"]; ok {
		t.Error("unexported field must be excluded")
	}

	inner := schema.Properties["inner"]
	if inner.Type != "object" {
		t.Fatalf("inner type = %q, want object", inner.Type)
	}
	items := inner.Properties["items"]
	if items.Type != "array" || items.Items == nil || items.Items.Type != "string" {
		t.Errorf("items schema = %+v, want array of string", items)
	}
	if got := inner.Properties["meta"].Type; got != "object" {
		t.Errorf("meta type = %q, want object", got)
	}
}

func TestDispatchUnknownTool(t *testing.T) {
	r := New()
	_, err := r.Dispatch(testContext(t), "nope", nil)
	if err == nil {
		t.Fatal("Dispatch() expected error for unknown tool")
	}
	if !errs.IsToolNotFound(err) {
		t.Errorf("error kind = %v, want tool_not_found", errs.KindOf(err))
	}
}

func TestDispatchValidation(t *testing.T) {
	r := New()
	if err := Register(r, "echo", "Echo a name", echoHandler); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tests := []struct {
		name    string
		params  string
		wantErr bool
	}{
		{name: "valid", params: `{"name": "hi"}`, wantErr: false},
		{name: "missing required field", params: `{}`, wantErr: true},
		{name: "malformed json", params: `{`, wantErr: true},
		{name: "wrong type", params: `{"name": 42}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Dispatch(testContext(t), "echo", json.RawMessage(tt.params))
			if tt.wantErr {
				if err == nil {
					t.Fatal("Dispatch() expected validation error")
				}
				if !errs.IsValidation(err) {
					t.Errorf("error kind = %v, want validation", errs.KindOf(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("Dispatch() error = %v", err)
			}
		})
	}
}

func TestDispatchValidationFieldDetail(t *testing.T) {
	r := New()
	if err := Register(r, "echo", "Echo a name", echoHandler); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, err := r.Dispatch(testContext(t), "echo", json.RawMessage(`{}`))
	var cerr *errs.Error
	if !asClassified(err, &cerr) {
		t.Fatalf("error = %v, want classified error", err)
	}
	if len(cerr.Fields) != 1 || cerr.Fields[0].Field != "name" {
		t.Errorf("field detail = %+v, want one entry for name", cerr.Fields)
	}
}

func TestDispatchPanicRecovery(t *testing.T) {
	r := New()
	err := Register(r, "boom", "Always panics", func(tc *Context, req echoRequest) (echoResponse, error) {
		panic("kaboom")
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, err = r.Dispatch(testContext(t), "boom", json.RawMessage(`{"name": "x"}`))
	if err == nil {
		t.Fatal("Dispatch() expected error from panicking handler")
	}
	if errs.KindOf(err) != errs.KindHandler {
		t.Errorf("error kind = %v, want handler", errs.KindOf(err))
	}
}

func TestDispatchResult(t *testing.T) {
	r := New()
	if err := Register(r, "echo", "Echo a name", echoHandler); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	result, err := r.Dispatch(testContext(t), "echo", json.RawMessage(`{"name": "hello"}`))
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	resp, ok := result.(echoResponse)
	if !ok || resp.Echoed != "hello" {
		t.Errorf("result = %#v, want echoResponse{hello}", result)
	}
}

func asClassified(err error, target **errs.Error) bool {
	if err == nil {
		return false
	}
	e, ok := err.(*errs.Error)
	if !ok {
		return false
	}
	*target = e
	return true
}
