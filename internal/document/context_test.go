package document

import (
	"reflect"
	"strings"
	"testing"
)

func TestConfigPath(t *testing.T) {
	content := strings.Join([]string{
		"[Kernels]",         // 0
		"[./a]",             // 1
		"type = Diffusion",  // 2
		"",                  // 3
		"[../]",             // 4
		"[./b]",             // 5
		"",                  // 6
		"[../]",             // 7
		"[]",                // 8
		"",                  // 9
		"[Mesh]",            // 10
		"",                  // 11
	}, "\n")
	doc := NewStringDocument("deck.i", content)
	a := newBareAnalyzer()

	tests := []struct {
		name     string
		pos      Position
		wantPath []string
		wantType string
	}{
		{"inside sub-block with type", Position{Row: 3, Col: 0}, []string{"Kernels", "a"}, "Diffusion"},
		{"closed sibling does not leak", Position{Row: 6, Col: 0}, []string{"Kernels", "b"}, ""},
		{"outside after close", Position{Row: 9, Col: 0}, nil, ""},
		{"inside second top block", Position{Row: 11, Col: 0}, []string{"Mesh"}, ""},
		{"top of document", Position{Row: 0, Col: 0}, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, explicitType := a.ConfigPath(doc, tt.pos)
			if !reflect.DeepEqual(path, tt.wantPath) {
				t.Errorf("path = %v, want %v", path, tt.wantPath)
			}
			if explicitType != tt.wantType {
				t.Errorf("type = %q, want %q", explicitType, tt.wantType)
			}
		})
	}
}

func TestConfigPathTruncatesCursorRow(t *testing.T) {
	a := newBareAnalyzer()
	doc := NewStringDocument("deck.i", "[Kernels]\n[./a]")

	// Cursor mid-way through the open tag on its own row: the partial
	// tag must not contribute a segment.
	path, _ := a.ConfigPath(doc, Position{Row: 1, Col: 2})
	want := []string{"Kernels"}
	if !reflect.DeepEqual(path, want) {
		t.Errorf("path = %v, want %v", path, want)
	}
}

func TestConfigPathTypeOnlyFromInnermostBlock(t *testing.T) {
	a := newBareAnalyzer()
	content := "[Kernels]\ntype = Ignored\n[./a]\n\n[../]\n[]"
	doc := NewStringDocument("deck.i", content)

	path, explicitType := a.ConfigPath(doc, Position{Row: 3, Col: 0})
	if !reflect.DeepEqual(path, []string{"Kernels", "a"}) {
		t.Fatalf("path = %v", path)
	}
	if explicitType != "" {
		t.Errorf("type = %q, want outer block's type ignored", explicitType)
	}
}

func TestConfigPathIgnoresComments(t *testing.T) {
	a := newBareAnalyzer()
	content := "[Kernels]\n# []\n[./a]\n"
	doc := NewStringDocument("deck.i", content)

	path, _ := a.ConfigPath(doc, Position{Row: 2, Col: 5})
	if !reflect.DeepEqual(path, []string{"Kernels", "a"}) {
		t.Errorf("path = %v, want the commented close ignored", path)
	}
}
