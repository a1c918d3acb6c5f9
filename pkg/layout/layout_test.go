package layout

import (
	"testing"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/mindmap"
)

// boxes sizes every node 100x40.
var boxes = SizerFunc(func(*mindmap.Node) Size { return Size{W: 100, H: 40} })

func create(t *testing.T, m *mindmap.Map, text, parent string) *mindmap.Node {
	t.Helper()
	n, err := m.Create(text, parent)
	if err != nil {
		t.Fatalf("Create(%q): %v", text, err)
	}
	return n
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeFreeform, false},
		{"freeform", ModeFreeform, false},
		{"Hierarchical", ModeHierarchical, false},
		{" hierarchical ", ModeHierarchical, false},
		{"radial", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, errors.ErrCodeInvalidLayout) {
				t.Errorf("code = %v, want INVALID_LAYOUT", errors.GetCode(err))
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestOptionsDefaults(t *testing.T) {
	var o Options
	o.SetDefaults()
	if o.LevelSpacing != 150 || o.SiblingGap != 50 || o.ChildGap != 50 || o.BaseOffset != 50 {
		t.Errorf("defaults = %+v", o)
	}

	o = Options{LevelSpacing: 80}
	o.SetDefaults()
	if o.LevelSpacing != 80 {
		t.Errorf("SetDefaults overwrote LevelSpacing: %v", o.LevelSpacing)
	}
}

func TestOptionsValidate(t *testing.T) {
	if err := (Options{Container: Container{Width: -1}}).Validate(); !errors.Is(err, errors.ErrCodeInvalidLayout) {
		t.Errorf("negative width: err = %v", err)
	}
	if err := (Options{Container: Container{Width: 800, Height: 600}}).Validate(); err != nil {
		t.Errorf("valid options: err = %v", err)
	}
}

func TestNew(t *testing.T) {
	opts := Options{Container: Container{Width: 800, Height: 600}}

	for _, mode := range Modes {
		eng, err := New(mode, opts, boxes)
		if err != nil {
			t.Fatalf("New(%s) error: %v", mode, err)
		}
		if eng.Mode() != mode {
			t.Errorf("Mode() = %s, want %s", eng.Mode(), mode)
		}
	}

	if _, err := New("radial", opts, boxes); err == nil {
		t.Error("New with unknown mode should fail")
	}
	if _, err := New(ModeFreeform, Options{LevelSpacing: -5}, boxes); err == nil {
		t.Error("New with invalid options should fail")
	}
}

func TestTextSizer(t *testing.T) {
	px := PixelSizer()
	tests := []struct {
		name  string
		sizer TextSizer
		text  string
		want  Size
	}{
		{"pixel ascii", px, "main idea", Size{W: 9*8 + 20, H: 38}},
		{"pixel wide runes", px, "日本語", Size{W: 6*8 + 20, H: 38}},
		{"pixel min width", px, "a", Size{W: 60, H: 38}},
		{"cell", CellSizer(), "hello world", Size{W: 15, H: 3}},
		{"cell min width", CellSizer(), "ab", Size{W: 9, H: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.sizer.Size(&mindmap.Node{Text: tt.text})
			if got != tt.want {
				t.Errorf("Size(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}
