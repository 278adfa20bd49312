package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/geoplan-data/fold.report/internal/survey"
)

const sampleConfig = `{
	"name": "test-swath",
	"grid": {
		"max_fold": 30,
		"bin_size_x": 25,
		"bin_size_y": 25,
		"orig_x": 500000,
		"orig_y": 4000000,
		"angle": 15
	},
	"method": "plane",
	"reflection": {"min_deg": 0, "max_deg": 40},
	"radial_max": 4000,
	"area": {"x_min": 0, "y_min": 0, "x_max": 5000, "y_max": 5000},
	"plane": {"anchor": [0, 0, -2000], "azimuth": 90, "dip": 5},
	"blocks": [{
		"name": "block-1",
		"templates": [{
			"name": "swath",
			"rolls": [{"steps": 10, "increment": [200, 0, 0]}],
			"seeds": [
				{
					"name": "sources",
					"kind": "grid",
					"source": true,
					"grow": [{"steps": 12, "increment": [0, 50, 0]}]
				},
				{
					"name": "receivers",
					"kind": "grid",
					"origin": [-1000, 0, 0],
					"grow": [
						{"steps": 6, "increment": [0, 200, 0]},
						{"steps": 96, "increment": [25, 0, 0]}
					]
				}
			]
		}]
	}]
}`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "survey.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadResolvesSurvey(t *testing.T) {
	s, err := Load(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatal(err)
	}

	if s.Name != "test-swath" {
		t.Errorf("name = %q", s.Name)
	}
	if s.Binning.Method != survey.MethodPlane {
		t.Errorf("method = %q, want plane", s.Binning.Method)
	}
	if s.Binning.Reflection.MaxDeg != 40 {
		t.Errorf("reflection max = %v, want 40", s.Binning.Reflection.MaxDeg)
	}
	if s.Offset.RadialMax != 4000 {
		t.Errorf("radial max = %v, want 4000", s.Offset.RadialMax)
	}
	if s.GlobalPlane.DipDeg != 5 {
		t.Errorf("plane dip = %v, want 5", s.GlobalPlane.DipDeg)
	}
	if len(s.Blocks) != 1 || len(s.Blocks[0].Templates) != 1 {
		t.Fatalf("unexpected block/template shape")
	}

	template := s.Blocks[0].Templates[0]
	if template.Rolls[0].Steps != 10 || template.Rolls[1].Steps != 1 {
		t.Errorf("rolls not padded to identity: %+v", template.Rolls)
	}

	if err := s.Prepare(); err != nil {
		t.Fatalf("resolved survey does not prepare: %v", err)
	}
	if got, want := s.ShotPoints(), 12*10; got != want {
		t.Errorf("ShotPoints() = %d, want %d", got, want)
	}
}

func TestLoadDefaultsToCMP(t *testing.T) {
	content := `{
		"name": "minimal",
		"grid": {"max_fold": 10, "bin_size_x": 25, "bin_size_y": 25},
		"area": {"x_min": 0, "y_min": 0, "x_max": 100, "y_max": 100},
		"blocks": [{
			"name": "b",
			"templates": [{
				"name": "t",
				"seeds": [
					{"name": "s", "kind": "grid", "source": true},
					{"name": "r", "kind": "grid", "origin": [50, 50, 0]}
				]
			}]
		}]
	}`
	s, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatal(err)
	}
	if s.Binning.Method != survey.MethodCMP {
		t.Errorf("method = %q, want cmp default", s.Binning.Method)
	}
	if s.Binning.Reflection.MaxDeg != 45 {
		t.Errorf("reflection max = %v, want default 45", s.Binning.Reflection.MaxDeg)
	}
	if !s.Offset.Window.IsNull() {
		t.Error("absent offset window should be null (pass-all)")
	}
}

func TestLoadRejectsTooManyLevels(t *testing.T) {
	content := `{
		"name": "deep",
		"grid": {"max_fold": 10, "bin_size_x": 25, "bin_size_y": 25},
		"area": {"x_min": 0, "y_min": 0, "x_max": 100, "y_max": 100},
		"blocks": [{
			"name": "b",
			"templates": [{
				"name": "t",
				"rolls": [
					{"steps": 2, "increment": [1, 0, 0]},
					{"steps": 2, "increment": [0, 1, 0]},
					{"steps": 2, "increment": [0, 0, 1]},
					{"steps": 2, "increment": [1, 1, 0]}
				],
				"seeds": [
					{"name": "s", "kind": "grid", "source": true},
					{"name": "r", "kind": "grid"}
				]
			}]
		}]
	}`
	_, err := Load(writeConfig(t, content))
	if !errors.Is(err, survey.ErrConfig) {
		t.Errorf("err = %v, want ErrConfig for 4 roll levels", err)
	}
}

func TestLoadRejectsUnknownSeedKind(t *testing.T) {
	content := `{
		"name": "bad",
		"grid": {"max_fold": 10, "bin_size_x": 25, "bin_size_y": 25},
		"area": {"x_min": 0, "y_min": 0, "x_max": 100, "y_max": 100},
		"blocks": [{
			"name": "b",
			"templates": [{
				"name": "t",
				"seeds": [{"name": "s", "kind": "hexagon", "source": true}]
			}]
		}]
	}`
	_, err := Load(writeConfig(t, content))
	if !errors.Is(err, survey.ErrConfig) {
		t.Errorf("err = %v, want ErrConfig for unknown seed kind", err)
	}
}

func TestLoadRejectsBadExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "survey.yaml")
	if err := os.WriteFile(path, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for non-json extension")
	}
}

func TestLoadRejectsMalformedCoordinate(t *testing.T) {
	content := `{
		"name": "bad",
		"grid": {"max_fold": 10, "bin_size_x": 25, "bin_size_y": 25},
		"area": {"x_min": 0, "y_min": 0, "x_max": 100, "y_max": 100},
		"blocks": [{
			"name": "b",
			"templates": [{
				"name": "t",
				"seeds": [{
					"name": "w", "kind": "well", "source": true,
					"points": [[1, 2, 3, 4]]
				}]
			}]
		}]
	}`
	if _, err := Load(writeConfig(t, content)); err == nil {
		t.Error("expected error for 4-component coordinate")
	}
}
