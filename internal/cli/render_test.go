package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/kgforce/pkg/errors"
	"github.com/matzehuels/kgforce/pkg/graph"
	"github.com/matzehuels/kgforce/pkg/pipeline"
)

const testGraphJSON = `{
  "nodes": [
    {"id": "alice", "type": "person", "label": "Alice"},
    {"id": "bob", "type": "person"},
    {"id": "acme", "type": "organization", "properties": {"founded": 1999}}
  ],
  "edges": [
    {"source": "alice", "target": "acme", "relation": "works_at"},
    {"source": "bob", "target": "acme", "relation": "works_at"},
    {"source": "alice", "target": "ghost"}
  ]
}`

// writeGraph writes the test graph to dir/name and returns its path.
func writeGraph(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(testGraphJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// runCLI executes the root command with an isolated config and cache.
func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,png,dot", []string{"svg", "png", "dot"}},
		{"spaces trimmed", "json, dot", []string{"json", "dot"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if len(got) != len(tt.want) {
				t.Errorf("parseFormats(%q) length = %d, want %d", tt.input, len(got), len(tt.want))
				return
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
				}
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "kg.layout.json", "kg.layout"},
		{"", "dir/kg.json", "dir/kg"},
		{"out.svg", "kg.layout.json", "out"},
		{"out.png", "kg.layout.json", "out"},
		{"out.v2", "kg.layout.json", "out.v2"},
		{"out", "kg.layout.json", "out"},
	}

	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestLayoutAndRenderCommands(t *testing.T) {
	dir := t.TempDir()
	input := writeGraph(t, dir, "kg.json")

	if err := runCLI(t, "layout", input, "--steps", "40", "--width", "500", "--height", "400", "--no-cache"); err != nil {
		t.Fatalf("layout: %v", err)
	}

	layoutPath := filepath.Join(dir, "kg.layout.json")
	l, err := graph.ReadLayoutFile(layoutPath)
	if err != nil {
		t.Fatalf("read layout: %v", err)
	}
	if l.Frames != 40 {
		t.Errorf("Frames = %d, want 40", l.Frames)
	}
	if l.Width != 500 || l.Height != 400 {
		t.Errorf("viewport = %vx%v, want 500x400", l.Width, l.Height)
	}
	if len(l.Nodes) != 3 || len(l.Edges) != 2 || l.Dropped != 1 {
		t.Errorf("layout has %d nodes, %d edges, %d dropped; want 3, 2, 1", len(l.Nodes), len(l.Edges), l.Dropped)
	}

	prefix := filepath.Join(dir, "out", "kg")
	if err := os.MkdirAll(filepath.Dir(prefix), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := runCLI(t, "render", layoutPath, "-f", "dot,json", "-o", prefix+".svg", "--highlight", "acme", "--no-cache"); err != nil {
		t.Fatalf("render: %v", err)
	}

	dot, err := os.ReadFile(prefix + ".dot")
	if err != nil {
		t.Fatalf("read dot: %v", err)
	}
	for _, id := range []string{"alice", "bob", "acme"} {
		if !strings.Contains(string(dot), `"`+id+`"`) {
			t.Errorf("dot output missing node %q", id)
		}
	}
	if _, err := os.Stat(prefix + ".json"); err != nil {
		t.Errorf("json artifact not written: %v", err)
	}
}

func TestLayoutCommandWritesOutputFlag(t *testing.T) {
	dir := t.TempDir()
	input := writeGraph(t, dir, "kg.json")
	output := filepath.Join(dir, "custom.json")

	if err := runCLI(t, "layout", input, "-o", output, "--steps", "5"); err != nil {
		t.Fatalf("layout: %v", err)
	}
	if _, err := os.Stat(output); err != nil {
		t.Errorf("output not written: %v", err)
	}
}

func TestCommandErrors(t *testing.T) {
	dir := t.TempDir()
	input := writeGraph(t, dir, "kg.json")
	layoutPath := filepath.Join(dir, "kg.layout.json")
	if err := runCLI(t, "layout", input, "--steps", "5", "--no-cache"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"missing graph", []string{"layout", filepath.Join(dir, "missing.json")}, errors.ErrCodeFileNotFound},
		{"unsupported graph file", []string{"layout", filepath.Join(dir, "kg.txt")}, errors.ErrCodeInvalidFormat},
		{"too many steps", []string{"layout", input, "--steps", "1000000", "--no-cache"}, errors.ErrCodeInvalidInput},
		{"bad format", []string{"render", layoutPath, "-f", "gif"}, errors.ErrCodeInvalidFormat},
		{"missing layout", []string{"render", filepath.Join(dir, "none.layout.json")}, errors.ErrCodeFileNotFound},
		{"unknown highlight", []string{"render", layoutPath, "-f", "dot", "--highlight", "zed"}, errors.ErrCodeNodeNotFound},
		{"missing config", []string{"--config", filepath.Join(dir, "none.toml"), "layout", input}, errors.ErrCodeFileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runCLI(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestValidateFormats(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		wantErr bool
	}{
		{"valid svg", []string{"svg"}, false},
		{"valid all", []string{"svg", "png", "dot", "json"}, false},
		{"invalid format", []string{"pdf"}, true},
		{"mixed valid invalid", []string{"svg", "invalid"}, true},
		{"empty slice", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pipeline.ValidateFormats(tt.formats)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFormats(%v) error = %v, wantErr %v", tt.formats, err, tt.wantErr)
			}
		})
	}
}
