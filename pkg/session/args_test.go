package session

import "testing"

func TestFormatModuleArgs(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{
			name: "strings are quoted and keys sorted",
			args: map[string]any{"state": "started", "name": "nginx"},
			want: "name='nginx' state='started'",
		},
		{
			name: "booleans render yes and no",
			args: map[string]any{"enabled": true, "masked": false},
			want: "enabled=yes masked=no",
		},
		{
			name: "numbers stay bare",
			args: map[string]any{"port": 8080, "ratio": 1.5},
			want: "port=8080 ratio=1.5",
		},
		{
			name: "json decoded numbers stay bare",
			args: map[string]any{"port": float64(8080)},
			want: "port=8080",
		},
		{
			name: "empty args",
			args: nil,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatModuleArgs(tt.args); got != tt.want {
				t.Errorf("FormatModuleArgs() = %q, want %q", got, tt.want)
			}
		})
	}
}
