package server

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ansibridge/ansibridge/pkg/registry"
	"github.com/ansibridge/ansibridge/pkg/telemetry"
)

type pingRequest struct {
	Name string `json:"name" validate:"required"`
}

type pingResponse struct {
	Greeting string `json:"greeting"`
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

func newTestServer(t *testing.T) *Server {
	t.Helper()

	reg := registry.New()
	err := registry.Register(reg, "ping", "Greet a name", func(tc *registry.Context, req pingRequest) (pingResponse, error) {
		tc.Info("preparing greeting")
		return pingResponse{Greeting: "hello " + req.Name}, nil
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	return New("testserver", "0.0.1", []string{"ansible-runner"}, reg, &State{}, testLogger(t))
}

// runServer feeds the input lines through a full Serve cycle and returns
// the decoded output lines.
func runServer(t *testing.T, input string) []map[string]any {
	t.Helper()

	var out bytes.Buffer
	srv := newTestServer(t)
	if err := srv.Serve(context.Background(), strings.NewReader(input), &out); err != nil {
		t.Fatalf("Serve() error = %v", err)
	}

	var messages []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if line == "" {
			continue
		}
		var msg map[string]any
		if err := json.Unmarshal([]byte(line), &msg); err != nil {
			t.Fatalf("output line is not JSON: %q", line)
		}
		messages = append(messages, msg)
	}
	return messages
}

func TestServeAnnouncesServerInfoFirst(t *testing.T) {
	messages := runServer(t, "")
	if len(messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(messages))
	}
	if messages[0]["type"] != MessageServerInfo {
		t.Errorf("first message type = %v, want serverInfo", messages[0]["type"])
	}
	if messages[0]["name"] != "testserver" {
		t.Errorf("server name = %v, want testserver", messages[0]["name"])
	}
}

func TestServeListTools(t *testing.T) {
	messages := runServer(t, `{"requestId":"r1","type":"listTools"}`+"\n")
	if len(messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(messages))
	}

	resp := messages[1]
	if resp["type"] != MessageListTools || resp["requestId"] != "r1" {
		t.Fatalf("response = %v, want listToolsResponse for r1", resp)
	}
	tools, ok := resp["tools"].([]any)
	if !ok || len(tools) != 1 {
		t.Fatalf("tools = %v, want one entry", resp["tools"])
	}
	tool := tools[0].(map[string]any)
	if tool["name"] != "ping" {
		t.Errorf("tool name = %v, want ping", tool["name"])
	}
	if _, ok := tool["returnSchema"]; !ok {
		t.Error("tool entry missing returnSchema")
	}
}

func TestServeCallToolInfoBeforeResponse(t *testing.T) {
	messages := runServer(t, `{"requestId":"r2","type":"callTool","name":"ping","parameters":{"name":"world"}}`+"\n")
	if len(messages) != 3 {
		t.Fatalf("got %d messages, want serverInfo + info + response", len(messages))
	}

	info := messages[1]
	if info["type"] != MessageInfo || info["requestId"] != "r2" {
		t.Fatalf("second message = %v, want info for r2", info)
	}
	if info["message"] != "preparing greeting" {
		t.Errorf("info message = %v, want handler's text", info["message"])
	}

	resp := messages[2]
	if resp["type"] != MessageCallTool || resp["requestId"] != "r2" {
		t.Fatalf("third message = %v, want callToolResponse for r2", resp)
	}
	result := resp["result"].(map[string]any)
	if result["greeting"] != "hello world" {
		t.Errorf("result = %v, want greeting", result)
	}
}

func TestServeCallToolErrors(t *testing.T) {
	tests := []struct {
		name     string
		request  string
		wantType string
		wantSub  string
	}{
		{
			name:     "unknown tool",
			request:  `{"requestId":"r3","type":"callTool","name":"nope"}`,
			wantType: MessageCallToolError,
			wantSub:  "not found",
		},
		{
			name:     "validation failure",
			request:  `{"requestId":"r4","type":"callTool","name":"ping","parameters":{}}`,
			wantType: MessageCallToolError,
			wantSub:  "validation",
		},
		{
			name:     "unknown request type",
			request:  `{"requestId":"r5","type":"shutdown"}`,
			wantType: MessageError,
			wantSub:  "unknown request type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messages := runServer(t, tt.request+"\n")
			last := messages[len(messages)-1]
			if last["type"] != tt.wantType {
				t.Fatalf("terminal type = %v, want %v", last["type"], tt.wantType)
			}
			errText, _ := last["error"].(string)
			if !strings.Contains(errText, tt.wantSub) {
				t.Errorf("error = %q, want substring %q", errText, tt.wantSub)
			}
		})
	}
}

func TestServeSkipsMalformedLines(t *testing.T) {
	input := "this is not json\n" +
		`{"requestId":"r6","type":"listTools"}` + "\n"
	messages := runServer(t, input)

	// serverInfo + listToolsResponse; the malformed line produces nothing
	// on the protocol stream.
	if len(messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(messages))
	}
	if messages[1]["requestId"] != "r6" {
		t.Errorf("response requestId = %v, want r6", messages[1]["requestId"])
	}
}

func TestServeOneResponsePerRequest(t *testing.T) {
	input := `{"requestId":"a","type":"callTool","name":"ping","parameters":{"name":"one"}}` + "\n" +
		`{"requestId":"b","type":"callTool","name":"ping","parameters":{"name":"two"}}` + "\n"
	messages := runServer(t, input)

	var order []string
	for _, msg := range messages {
		if msg["type"] == MessageCallTool {
			order = append(order, msg["requestId"].(string))
		}
	}
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Errorf("response order = %v, want [a b]", order)
	}
}
