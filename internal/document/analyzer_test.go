package document

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/deckard/internal/schema"
)

// analyzerTestDump is a small syntax dump shaped like a real application
// dump: wildcard block slots, typed subtrees under <type>, and a mix of
// structural parameter types.
const analyzerTestDump = `[
  {
    "name": "/Mesh",
    "description": "Mesh setup",
    "parameters": [
      {"name": "type", "cpp_type": "MooseEnum", "default": "GeneratedMesh", "options": "GeneratedMesh FileMesh"},
      {"name": "file", "cpp_type": "MeshFileName"},
      {"name": "dim", "required": "Yes", "cpp_type": "MooseEnum", "options": "1 2 3"}
    ]
  },
  {
    "name": "/Variables",
    "parameters": [{"name": "active", "cpp_type": "std::vector<std::string>"}],
    "subblocks": [
      {
        "name": "/Variables/*",
        "parameters": [
          {"name": "order", "cpp_type": "MooseEnum", "default": "FIRST", "options": "FIRST SECOND THIRD"},
          {"name": "family", "cpp_type": "MooseEnum", "default": "LAGRANGE", "options": "LAGRANGE MONOMIAL"},
          {"name": "initial_condition", "cpp_type": "Real"}
        ]
      }
    ]
  },
  {
    "name": "/AuxVariables",
    "subblocks": [
      {
        "name": "/AuxVariables/*",
        "parameters": [{"name": "order", "cpp_type": "MooseEnum", "options": "FIRST SECOND"}]
      }
    ]
  },
  {
    "name": "/Kernels",
    "description": "Kernel objects",
    "parameters": [{"name": "active", "cpp_type": "std::vector<std::string>"}],
    "subblocks": [
      {
        "name": "/Kernels/*",
        "parameters": [
          {"name": "type", "required": "Yes", "cpp_type": "std::string"},
          {"name": "outputs", "cpp_type": "std::vector<OutputName>"}
        ],
        "subblocks": [
          {
            "name": "/Kernels/*/<type>",
            "subblocks": [
              {
                "name": "/Kernels/*/<type>/Diffusion",
                "description": "The Laplacian operator",
                "parameters": [
                  {"name": "variable", "required": "Yes", "cpp_type": "NonlinearVariableName", "description": "The variable this kernel operates on"},
                  {"name": "use_displaced_mesh", "cpp_type": "bool", "default": "0"}
                ]
              },
              {
                "name": "/Kernels/*/<type>/BodyForce",
                "parameters": [
                  {"name": "variable", "required": "Yes", "cpp_type": "NonlinearVariableName"},
                  {"name": "function", "cpp_type": "FunctionName"},
                  {"name": "value", "cpp_type": "Real", "default": "1"}
                ]
              },
              {
                "name": "/Kernels/*/<type>/MatDiffusion",
                "parameters": [
                  {"name": "variable", "required": "Yes", "cpp_type": "NonlinearVariableName"},
                  {"name": "diffusivity", "cpp_type": "MaterialPropertyName"},
                  {"name": "args", "cpp_type": "std::vector<VariableName>"}
                ]
              }
            ]
          }
        ]
      }
    ]
  },
  {
    "name": "/Materials",
    "subblocks": [
      {
        "name": "/Materials/*",
        "parameters": [{"name": "type", "required": "Yes", "cpp_type": "std::string"}],
        "subblocks": [
          {
            "name": "/Materials/*/<type>",
            "subblocks": [
              {
                "name": "/Materials/*/<type>/GenericConstantMaterial",
                "parameters": [
                  {"name": "prop_names", "cpp_type": "std::vector<std::string>"},
                  {"name": "prop_values", "cpp_type": "std::vector<double>"}
                ]
              },
              {
                "name": "/Materials/*/<type>/ParsedMaterial",
                "parameters": [
                  {"name": "f_name", "cpp_type": "std::string", "default": "F"},
                  {"name": "material_property_names", "cpp_type": "std::vector<std::string>"},
                  {"name": "args", "cpp_type": "std::vector<VariableName>"}
                ]
              },
              {
                "name": "/Materials/*/<type>/HeatConductionMaterial",
                "parameters": [
                  {"name": "thermal_conductivity", "cpp_type": "Real"},
                  {"name": "specific_heat", "cpp_type": "Real"}
                ]
              }
            ]
          }
        ]
      }
    ]
  },
  {
    "name": "/Functions",
    "subblocks": [
      {
        "name": "/Functions/*",
        "parameters": [{"name": "type", "required": "Yes", "cpp_type": "std::string"}],
        "subblocks": [
          {
            "name": "/Functions/*/<type>",
            "subblocks": [
              {
                "name": "/Functions/*/<type>/ParsedFunction",
                "parameters": [{"name": "value", "cpp_type": "std::string"}]
              }
            ]
          }
        ]
      }
    ]
  },
  {
    "name": "/Outputs",
    "parameters": [
      {"name": "exodus", "cpp_type": "bool", "default": "0"},
      {"name": "file_base", "cpp_type": "OutputFileBase"}
    ]
  }
]`

// newSchemaAnalyzer returns an analyzer backed by the fixture dump,
// loaded and ready.
func newSchemaAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	path := filepath.Join(t.TempDir(), "syntax.json")
	if err := os.WriteFile(path, []byte(analyzerTestDump), 0o644); err != nil {
		t.Fatalf("writing fixture dump: %v", err)
	}
	db := schema.New()
	db.SetSource(path, "")
	if !db.Ready(context.Background()) {
		t.Fatal("fixture schema did not load")
	}
	return NewAnalyzer(db)
}

// newBareAnalyzer returns an analyzer with no schema loaded; all schema
// cross-checks are skipped.
func newBareAnalyzer() *Analyzer {
	return NewAnalyzer(schema.New())
}

func diagsOfKind(out *Outline, kind DiagnosticKind) []Diagnostic {
	var diags []Diagnostic
	for _, d := range out.Diagnostics {
		if d.Kind == kind {
			diags = append(diags, d)
		}
	}
	return diags
}

func mustOutline(t *testing.T, a *Analyzer, content string) *Outline {
	t.Helper()
	out, err := a.Outline(context.Background(), NewStringDocument("deck.i", content))
	if err != nil {
		t.Fatalf("Outline() error = %v", err)
	}
	return out
}
