package document

import (
	"context"
	"strings"
	"testing"
)

func mustReferences(t *testing.T, a *Analyzer, content string) map[string]*ReferenceEntry {
	t.Helper()
	entries, err := a.References(context.Background(), NewStringDocument("deck.i", content))
	if err != nil {
		t.Fatalf("References() error = %v", err)
	}
	return entries
}

func TestReferencesVariable(t *testing.T) {
	a := newSchemaAnalyzer(t)
	content := strings.Join([]string{
		"[Variables]",
		"[./a]",
		"[../]",
		"[]",
		"[Kernels]",
		"[./k]",
		"type = Diffusion",
		"variable = a",
		"[../]",
		"[]",
	}, "\n")

	entries := mustReferences(t, a, content)

	entry, ok := entries["Variables/a"]
	if !ok {
		t.Fatalf("entries = %v, missing Variables/a", keysOf(entries))
	}
	if entry.Definition.Position != (Position{Row: 1, Col: 0}) {
		t.Errorf("definition position = %v", entry.Definition.Position)
	}
	if entry.Definition.File != "deck.i" {
		t.Errorf("definition file = %q", entry.Definition.File)
	}
	if len(entry.Refs) != 1 || entry.Refs[0] != (Position{Row: 7, Col: 11}) {
		t.Errorf("refs = %v, want the variable value token", entry.Refs)
	}
}

func TestReferencesAuxVariable(t *testing.T) {
	a := newSchemaAnalyzer(t)
	content := strings.Join([]string{
		"[AuxVariables]",
		"[./w]",
		"[../]",
		"[]",
		"[Kernels]",
		"[./k]",
		"type = Diffusion",
		"variable = w",
		"[../]",
		"[]",
	}, "\n")

	entries := mustReferences(t, a, content)

	entry, ok := entries["AuxVariables/w"]
	if !ok {
		t.Fatalf("entries = %v, missing AuxVariables/w", keysOf(entries))
	}
	if len(entry.Refs) != 1 {
		t.Errorf("refs = %v, want one", entry.Refs)
	}
}

func TestReferencesMaterialProperties(t *testing.T) {
	a := newSchemaAnalyzer(t)
	content := strings.Join([]string{
		"[Materials]",
		"[./kmat]",
		"type = GenericConstantMaterial",
		"prop_names = 'k cp'",
		"prop_values = '1 2'",
		"[../]",
		"[./fmat]",
		"type = ParsedMaterial",
		"f_name = F",
		"material_property_names = 'k D[F,c] g(eta)'",
		"[../]",
		"[./plain]",
		"type = HeatConductionMaterial",
		"[../]",
		"[]",
		"[Kernels]",
		"[./mk]",
		"type = MatDiffusion",
		"variable = u",
		"diffusivity = k",
		"[../]",
		"[]",
	}, "\n")

	entries := mustReferences(t, a, content)

	for _, key := range []string{"Materials/k", "Materials/cp", "Materials/F", "Materials/g", "Materials/plain"} {
		if _, ok := entries[key]; !ok {
			t.Errorf("entries = %v, missing %s", keysOf(entries), key)
		}
	}
	if _, ok := entries["Materials/fmat"]; ok {
		t.Error("explicitly named material also defined under its block name")
	}

	plain := entries["Materials/plain"]
	if plain == nil || plain.Definition.Type != "HeatConductionMaterial" {
		t.Errorf("plain = %+v, want the block type recorded for default naming", plain)
	}

	k := entries["Materials/k"]
	if k == nil {
		t.Fatal("missing Materials/k")
	}
	if k.Definition.Position.Row != 1 {
		t.Errorf("k defined at %v, want the first declaring block", k.Definition.Position)
	}
	if len(k.Refs) != 1 || k.Refs[0] != (Position{Row: 19, Col: 14}) {
		t.Errorf("k refs = %v, want the diffusivity value", k.Refs)
	}
}

func TestReferencesFirstDefinitionWins(t *testing.T) {
	a := newSchemaAnalyzer(t)
	content := "[Variables]\n[./a]\n[../]\n[./a]\n[../]\n[]"

	entries := mustReferences(t, a, content)

	entry := entries["Variables/a"]
	if entry == nil {
		t.Fatal("missing Variables/a")
	}
	if entry.Definition.Position.Row != 1 {
		t.Errorf("definition row = %d, want the first occurrence", entry.Definition.Position.Row)
	}
}

func TestReferencesVectorValues(t *testing.T) {
	a := newSchemaAnalyzer(t)
	content := strings.Join([]string{
		"[Variables]",
		"[./u]",
		"[../]",
		"[]",
		"[AuxVariables]",
		"[./w]",
		"[../]",
		"[]",
		"[Kernels]",
		"[./mk]",
		"type = MatDiffusion",
		"variable = u",
		"args = 'u w'",
		"[../]",
		"[]",
	}, "\n")

	entries := mustReferences(t, a, content)

	u := entries["Variables/u"]
	if u == nil || len(u.Refs) != 2 {
		t.Fatalf("u = %+v, want refs from variable and args", u)
	}
	if u.Refs[0] != (Position{Row: 11, Col: 11}) || u.Refs[1] != (Position{Row: 12, Col: 8}) {
		t.Errorf("u refs = %v", u.Refs)
	}
	w := entries["AuxVariables/w"]
	if w == nil || len(w.Refs) != 1 || w.Refs[0] != (Position{Row: 12, Col: 10}) {
		t.Errorf("w = %+v", w)
	}
}

func TestReferencesColumnsCountCharacters(t *testing.T) {
	a := newSchemaAnalyzer(t)
	content := strings.Join([]string{
		"[Variables]",
		"[./u]",
		"[../]",
		"[]",
		"[Kernels]",
		"[./k]",
		"type = MatDiffusion",
		"variable = u",
		"args = 'α u'",
		"[../]",
		"[]",
	}, "\n")

	entries := mustReferences(t, a, content)

	u := entries["Variables/u"]
	if u == nil || len(u.Refs) != 2 {
		t.Fatalf("u = %+v, want refs from variable and args", u)
	}
	// The args column counts the two-byte α as one character.
	if u.Refs[0] != (Position{Row: 7, Col: 11}) || u.Refs[1] != (Position{Row: 8, Col: 10}) {
		t.Errorf("u refs = %v", u.Refs)
	}
}

func TestReferencesWithoutSchema(t *testing.T) {
	a := newBareAnalyzer()
	content := "[Variables]\n[./a]\n[../]\n[]\n[Kernels]\n[./k]\nvariable = a\n[../]\n[]"

	entries := mustReferences(t, a, content)

	entry, ok := entries["Variables/a"]
	if !ok {
		t.Fatal("definitions must survive without a schema")
	}
	if len(entry.Refs) != 0 {
		t.Errorf("refs = %v, want none without parameter types", entry.Refs)
	}
}

func keysOf(entries map[string]*ReferenceEntry) []string {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	return keys
}
