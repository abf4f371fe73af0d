package codec

import (
	"reflect"
	"testing"

	"github.com/ansibridge/ansibridge/pkg/errs"
	"github.com/ansibridge/ansibridge/pkg/model"
)

func TestEncodeTaskModuleKey(t *testing.T) {
	pb := model.Playbook{
		Plays: []model.PlaybookPlay{{
			Name:  "x play",
			Hosts: model.HostPattern{"all"},
			Tasks: []model.PlaybookTask{{
				Name:   "x",
				Module: "copy",
				Args:   map[string]any{"dest": "/tmp/f"},
			}},
		}},
	}

	plays := EncodePlaybook(pb)
	if len(plays) != 1 {
		t.Fatalf("got %d plays, want 1", len(plays))
	}

	tasks, ok := plays[0]["tasks"].([]map[string]any)
	if !ok || len(tasks) != 1 {
		t.Fatalf("tasks = %#v, want one task mapping", plays[0]["tasks"])
	}

	args, ok := tasks[0]["copy"].(map[string]any)
	if !ok {
		t.Fatalf("task mapping missing module key: %#v", tasks[0])
	}
	if !reflect.DeepEqual(args, map[string]any{"dest": "/tmp/f"}) {
		t.Errorf("copy args = %v, want {dest: /tmp/f}", args)
	}
	if _, present := tasks[0]["module"]; present {
		t.Error("task mapping must not carry a literal module key")
	}
}

func TestEncodePlaybookHostsShape(t *testing.T) {
	tests := []struct {
		name  string
		hosts model.HostPattern
		want  any
	}{
		{name: "single host renders scalar", hosts: model.HostPattern{"web"}, want: "web"},
		{name: "multiple hosts render list", hosts: model.HostPattern{"web", "db"}, want: []string{"web", "db"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plays := EncodePlaybook(model.Playbook{
				Plays: []model.PlaybookPlay{{Name: "p", Hosts: tt.hosts}},
			})
			if got := plays[0]["hosts"]; !reflect.DeepEqual(got, tt.want) {
				t.Errorf("hosts = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestPlaybookRoundTrip(t *testing.T) {
	pb := model.Playbook{
		Plays: []model.PlaybookPlay{{
			Name:  "deploy",
			Hosts: model.HostPattern{"web"},
			Tasks: []model.PlaybookTask{{
				Name:   "x",
				Module: "copy",
				Args:   map[string]any{"dest": "/tmp/f"},
			}},
		}},
	}

	data, err := MarshalPlaybook(pb)
	if err != nil {
		t.Fatalf("MarshalPlaybook() error = %v", err)
	}

	decoded, err := DecodePlaybook(data)
	if err != nil {
		t.Fatalf("DecodePlaybook() error = %v", err)
	}
	if len(decoded.Plays) != 1 || len(decoded.Plays[0].Tasks) != 1 {
		t.Fatalf("decoded shape = %+v, want 1 play with 1 task", decoded)
	}

	task := decoded.Plays[0].Tasks[0]
	if task.Module != "copy" {
		t.Errorf("module = %q, want copy", task.Module)
	}
	if !reflect.DeepEqual(task.Args, map[string]any{"dest": "/tmp/f"}) {
		t.Errorf("args = %v, want {dest: /tmp/f}", task.Args)
	}
}

func TestDecodePlaybook(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		wantErr   bool
		wantTasks int
		check     func(t *testing.T, pb *model.Playbook)
	}{
		{
			name: "scalar module value wraps as raw params",
			data: `
- name: p
  hosts: all
  tasks:
    - name: run it
      shell: echo hi
`,
			wantTasks: 1,
			check: func(t *testing.T, pb *model.Playbook) {
				task := pb.Plays[0].Tasks[0]
				if task.Module != "shell" {
					t.Errorf("module = %q, want shell", task.Module)
				}
				if got := task.Args["_raw_params"]; got != "echo hi" {
					t.Errorf("_raw_params = %v, want 'echo hi'", got)
				}
			},
		},
		{
			name: "task with only reserved keys is dropped",
			data: `
- name: p
  hosts: all
  tasks:
    - name: orphan modifiers
      become: true
      when: ansible_os_family == "Debian"
`,
			wantTasks: 0,
		},
		{
			name: "multiple module keys are ambiguous",
			data: `
- name: p
  hosts: all
  tasks:
    - name: block-ish
      copy:
        dest: /tmp/f
      shell: echo hi
`,
			wantErr: true,
		},
		{
			name:    "document is not a list",
			data:    `hosts: all`,
			wantErr: true,
		},
		{
			name: "missing names get defaults",
			data: `
- hosts: all
  tasks:
    - ping: {}
`,
			wantTasks: 1,
			check: func(t *testing.T, pb *model.Playbook) {
				if pb.Plays[0].Name != "Unnamed play" {
					t.Errorf("play name = %q, want Unnamed play", pb.Plays[0].Name)
				}
				if pb.Plays[0].Tasks[0].Name != "Unnamed task" {
					t.Errorf("task name = %q, want Unnamed task", pb.Plays[0].Tasks[0].Name)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pb, err := DecodePlaybook([]byte(tt.data))
			if tt.wantErr {
				if err == nil {
					t.Fatal("DecodePlaybook() expected error")
				}
				if !errs.IsCodec(err) {
					t.Errorf("error kind = %v, want codec", errs.KindOf(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodePlaybook() error = %v", err)
			}
			if got := len(pb.Plays[0].Tasks); got != tt.wantTasks {
				t.Fatalf("got %d tasks, want %d", got, tt.wantTasks)
			}
			if tt.check != nil {
				tt.check(t, pb)
			}
		})
	}
}

func TestLooksLikePlaybook(t *testing.T) {
	tests := []struct {
		name string
		data string
		want bool
	}{
		{name: "valid playbook", data: "- hosts: all\n  tasks: []\n", want: true},
		{name: "mapping document", data: "hosts: all\n", want: false},
		{name: "empty list", data: "[]\n", want: false},
		{name: "play without hosts", data: "- name: p\n  tasks: []\n", want: false},
		{name: "not yaml", data: ":::", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LooksLikePlaybook([]byte(tt.data)); got != tt.want {
				t.Errorf("LooksLikePlaybook() = %v, want %v", got, tt.want)
			}
		})
	}
}
