package cli

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/mindmap/pkg/errors"
)

// workspace is a file store plus a config path that does not exist, so
// every command runs on defaults against the same directory.
type workspace struct {
	config string
	store  string
}

func newWorkspace(t *testing.T) workspace {
	t.Helper()
	dir := t.TempDir()
	return workspace{
		config: filepath.Join(dir, "config.toml"),
		store:  filepath.Join(dir, "maps"),
	}
}

// run executes one command line and returns what it printed.
func (w workspace) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	old := stdout
	stdout = &out
	defer func() { stdout = old }()

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(append([]string{"--config", w.config, "--store", "file", "--store-path", w.store}, args...))
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (w workspace) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := w.run(t, "", args...)
	if err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out
}

func TestMapsListEmpty(t *testing.T) {
	w := newWorkspace(t)

	out := w.mustRun(t, "maps", "list")
	if !strings.Contains(out, "No maps") {
		t.Errorf("empty listing should say No maps, got:\n%s", out)
	}
}

func TestMapsLifecycle(t *testing.T) {
	w := newWorkspace(t)

	out := w.mustRun(t, "maps", "new", "Ideas")
	if !strings.Contains(out, "Created map") || !strings.Contains(out, "Ideas") {
		t.Errorf("maps new output:\n%s", out)
	}

	out = w.mustRun(t, "maps", "list")
	for _, want := range []string{"My first map", "Ideas", "loaded"} {
		if !strings.Contains(out, want) {
			t.Errorf("maps list missing %q:\n%s", want, out)
		}
	}

	if _, err := w.run(t, "", "maps", "new", "Ideas"); !errors.Is(err, errors.ErrCodeMapExists) {
		t.Errorf("duplicate maps new: got %v, want MAP_EXISTS", err)
	}

	out = w.mustRun(t, "maps", "show", "Ideas")
	// The default map took node-0 in the same run that created Ideas.
	if !strings.Contains(out, "main idea") || !strings.Contains(out, "node-1") {
		t.Errorf("maps show output:\n%s", out)
	}

	if _, err := w.run(t, "", "maps", "show", "Nope"); !errors.Is(err, errors.ErrCodeMapNotFound) {
		t.Errorf("maps show missing: got %v, want MAP_NOT_FOUND", err)
	}
}

func TestMapsDeleteConfirmation(t *testing.T) {
	w := newWorkspace(t)
	w.mustRun(t, "maps", "new", "Scratch")

	if _, err := w.run(t, "n\n", "maps", "delete", "Scratch"); err != errDeclined {
		t.Fatalf("declined delete: got %v, want errDeclined", err)
	}
	if out := w.mustRun(t, "maps", "list"); !strings.Contains(out, "Scratch") {
		t.Fatalf("declined delete removed the map:\n%s", out)
	}

	if _, err := w.run(t, "yes\n", "maps", "delete", "Scratch"); err != nil {
		t.Fatalf("confirmed delete: %v", err)
	}
	if out := w.mustRun(t, "maps", "list"); strings.Contains(out, "Scratch") {
		t.Errorf("map still listed after delete:\n%s", out)
	}

	if _, err := w.run(t, "", "maps", "delete", "--yes", "Scratch"); !errors.Is(err, errors.ErrCodeMapNotFound) {
		t.Errorf("deleting a missing map: got %v, want MAP_NOT_FOUND", err)
	}
}

func TestNodeCommands(t *testing.T) {
	w := newWorkspace(t)
	w.mustRun(t, "maps", "new", "Ideas")

	out := w.mustRun(t, "node", "add", "Ideas", "node-1", "first child")
	if !strings.Contains(out, "node-2") {
		t.Errorf("node add output:\n%s", out)
	}
	w.mustRun(t, "node", "root", "Ideas", "second root")
	w.mustRun(t, "node", "rename", "Ideas", "node-2", "  ")

	out = w.mustRun(t, "maps", "show", "Ideas")
	for _, want := range []string{"main idea", "New node", "second root"} {
		if !strings.Contains(out, want) {
			t.Errorf("maps show missing %q:\n%s", want, out)
		}
	}

	out = w.mustRun(t, "node", "move", "Ideas", "node-2", "5000", "-20")
	if !strings.Contains(out, "clamped") {
		t.Errorf("out-of-bounds move should report clamping:\n%s", out)
	}

	if _, err := w.run(t, "", "node", "add", "Ideas", "node-99", "orphan"); !errors.Is(err, errors.ErrCodeNodeNotFound) {
		t.Errorf("add under missing parent: got %v, want NODE_NOT_FOUND", err)
	}
	if _, err := w.run(t, "", "node", "move", "Ideas", "node-2", "NaN", "0"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("NaN coordinate: got %v, want INVALID_INPUT", err)
	}

	out = w.mustRun(t, "node", "rm", "--yes", "Ideas", "node-1")
	if !strings.Contains(out, "Deleted 2 nodes") {
		t.Errorf("node rm output:\n%s", out)
	}
	out = w.mustRun(t, "maps", "show", "Ideas")
	if strings.Contains(out, "main idea") {
		t.Errorf("deleted subtree still shown:\n%s", out)
	}
}

func TestNodeOnMissingMapWritesNothing(t *testing.T) {
	w := newWorkspace(t)

	if _, err := w.run(t, "", "node", "root", "missing", "idea"); !errors.Is(err, errors.ErrCodeMapNotFound) {
		t.Fatalf("node root on a missing map: got %v, want MAP_NOT_FOUND", err)
	}
	if out := w.mustRun(t, "maps", "list"); !strings.Contains(out, "No maps") {
		t.Errorf("a failed command created maps:\n%s", out)
	}
}

func TestNodeMoveHierarchical(t *testing.T) {
	w := newWorkspace(t)
	w.mustRun(t, "maps", "new", "Ideas")

	if _, err := w.run(t, "", "--mode", "hierarchical", "node", "move", "Ideas", "node-1", "1", "1"); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("move in hierarchical mode: got %v, want UNSUPPORTED", err)
	}
}

func TestLayoutCommand(t *testing.T) {
	w := newWorkspace(t)
	w.mustRun(t, "maps", "new", "Ideas")
	w.mustRun(t, "node", "add", "Ideas", "node-1", "child")

	out := w.mustRun(t, "--mode", "hierarchical", "layout", "Ideas")
	for _, want := range []string{"hierarchical", "node-1", "node-2", "Parent"} {
		if !strings.Contains(out, want) {
			t.Errorf("layout output missing %q:\n%s", want, out)
		}
	}

	out = w.mustRun(t, "layout", "--connectors=false", "Ideas")
	if strings.Contains(out, "From") {
		t.Errorf("--connectors=false still printed connectors:\n%s", out)
	}
}

func TestConfigCommands(t *testing.T) {
	w := newWorkspace(t)

	if out := w.mustRun(t, "config", "path"); strings.TrimSpace(out) != w.config {
		t.Errorf("config path = %q, want %q", strings.TrimSpace(out), w.config)
	}

	out := w.mustRun(t, "config", "show")
	for _, want := range []string{"[storage]", `backend = "file"`, "[layout]", "[server]"} {
		if !strings.Contains(out, want) {
			t.Errorf("config show missing %q:\n%s", want, out)
		}
	}
}

func TestInvalidModeFlag(t *testing.T) {
	w := newWorkspace(t)

	if _, err := w.run(t, "", "--mode", "radial", "maps", "list"); err == nil {
		t.Error("unknown --mode should fail")
	}
}

func TestParseCoord(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"12", 12, false},
		{"-3.5", -3.5, false},
		{"1e2", 100, false},
		{"abc", 0, true},
		{"NaN", 0, true},
		{"+Inf", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseCoord(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseCoord(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseCoord(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
