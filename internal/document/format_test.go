package document

import (
	"sort"
	"strings"
	"testing"
)

// applyFormatCorrections applies every replace correction to the
// content, bottom-up so earlier edits keep later ranges valid.
func applyFormatCorrections(content string, diags []Diagnostic) string {
	lines := strings.Split(content, "\n")

	sorted := append([]Diagnostic(nil), diags...)
	sort.Slice(sorted, func(i, j int) bool {
		return ComparePositions(sorted[j].Range.Start, sorted[i].Range.Start) < 0
	})

	for _, d := range sorted {
		if d.Correction == nil || d.Correction.Kind != CorrectionReplace {
			continue
		}
		r := d.Range
		if r.Start.Row == r.End.Row {
			line := lines[r.Start.Row]
			lines[r.Start.Row] = line[:r.Start.Col] + d.Correction.Text + line[r.End.Col:]
			continue
		}
		// Blank-run collapse: a whole-row span replaced by nothing.
		if r.Start.Col == 0 && r.End.Col == 0 && d.Correction.Text == "" {
			lines = append(lines[:r.Start.Row], lines[r.End.Row:]...)
		}
	}
	return strings.Join(lines, "\n")
}

func TestFormatIndentation(t *testing.T) {
	a := newBareAnalyzer()
	content := strings.Join([]string{
		"[Kernels]",
		"[./diff]",
		"    type = Diffusion",
		"      variable = u",
		"  [../]",
		"[]",
	}, "\n")

	diags := a.Format(NewStringDocument("deck.i", content))

	if len(diags) != 2 {
		t.Fatalf("diagnostics = %+v, want two", diags)
	}
	if diags[0].Range.Start.Row != 1 || diags[0].Correction.Text != "  " {
		t.Errorf("sub-block open diagnostic = %+v", diags[0])
	}
	if diags[1].Range.Start.Row != 3 || diags[1].Correction.Text != "    " {
		t.Errorf("parameter diagnostic = %+v", diags[1])
	}
	for _, d := range diags {
		if d.Kind != KindFormat || d.Correction.Kind != CorrectionReplace {
			t.Errorf("diagnostic = %+v, want a format replace", d)
		}
	}
}

func TestFormatTopLevelParameterDepth(t *testing.T) {
	a := newBareAnalyzer()
	diags := a.Format(NewStringDocument("deck.i", "[Mesh]\ndim = 2\n[]"))

	if len(diags) != 1 {
		t.Fatalf("diagnostics = %+v, want one", diags)
	}
	if diags[0].Correction.Text != "  " {
		t.Errorf("correction = %q, want one indent unit", diags[0].Correction.Text)
	}
}

func TestFormatBlankRunCollapse(t *testing.T) {
	a := newBareAnalyzer()
	content := "[Mesh]\n[]\n\n\n\n[Outputs]\n[]"

	diags := a.Format(NewStringDocument("deck.i", content))

	var blank *Diagnostic
	for i := range diags {
		if diags[i].Msg == "multiple blank lines" {
			blank = &diags[i]
		}
	}
	if blank == nil {
		t.Fatalf("diagnostics = %+v, want a blank-line collapse", diags)
	}
	want := Range{Start: Position{Row: 3, Col: 0}, End: Position{Row: 5, Col: 0}}
	if blank.Range != want {
		t.Errorf("range = %+v, want %+v", blank.Range, want)
	}
	if blank.Correction == nil || blank.Correction.Text != "" {
		t.Errorf("correction = %+v, want empty replacement", blank.Correction)
	}
}

func TestFormatSingleBlankLineKept(t *testing.T) {
	a := newBareAnalyzer()
	diags := a.Format(NewStringDocument("deck.i", "[Mesh]\n[]\n\n[Outputs]\n[]"))

	if len(diags) != 0 {
		t.Errorf("diagnostics = %+v, want none", diags)
	}
}

func TestFormatContinuedValueUntouched(t *testing.T) {
	a := newBareAnalyzer()
	content := strings.Join([]string{
		"[Functions]",
		"  [./f]",
		"    value = 'x +",
		"            y'",
		"  [../]",
		"[]",
	}, "\n")

	diags := a.Format(NewStringDocument("deck.i", content))
	if len(diags) != 0 {
		t.Errorf("diagnostics = %+v, want continuation rows left alone", diags)
	}
}

func TestFormatIdempotent(t *testing.T) {
	a := newBareAnalyzer()
	content := strings.Join([]string{
		"[Kernels]",
		"[./diff]",
		"  type = Diffusion",
		"      [../]",
		"[]",
		"",
		"",
		"",
		"[Outputs]",
		"    exodus = true",
		"[]",
	}, "\n")

	diags := a.Format(NewStringDocument("deck.i", content))
	if len(diags) == 0 {
		t.Fatal("expected diagnostics on the unformatted document")
	}

	fixed := applyFormatCorrections(content, diags)
	if again := a.Format(NewStringDocument("deck.i", fixed)); len(again) != 0 {
		t.Errorf("second pass diagnostics = %+v, want none after applying corrections", again)
	}
}
