package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/geoplan-data/fold.report/internal/geom"
	"github.com/geoplan-data/fold.report/internal/survey"
	"github.com/geoplan-data/fold.report/internal/units"
)

// maxFileSize caps survey config files at 4MB; well trajectories are the
// only list that grows with survey size and stay far below this.
const maxFileSize = 4 * 1024 * 1024

// Vec is a JSON [x, y] or [x, y, z] coordinate triple.
type Vec []float64

func (v Vec) vec() (geom.Vec, error) {
	switch len(v) {
	case 2:
		return geom.Vec{X: v[0], Y: v[1]}, nil
	case 3:
		return geom.Vec{X: v[0], Y: v[1], Z: v[2]}, nil
	default:
		return geom.Vec{}, fmt.Errorf("coordinate needs 2 or 3 components, got %d", len(v))
	}
}

// Rect is a JSON axis-aligned rectangle. A nil *Rect means unbounded.
type Rect struct {
	XMin float64 `json:"x_min"`
	YMin float64 `json:"y_min"`
	XMax float64 `json:"x_max"`
	YMax float64 `json:"y_max"`
}

func (r *Rect) rect() geom.Rect {
	if r == nil {
		return geom.Rect{}
	}
	return geom.NewRect(r.XMin, r.YMin, r.XMax, r.YMax)
}

// Step is one grow or roll level: count copies shifted by increment.
type Step struct {
	Steps     int `json:"steps"`
	Increment Vec `json:"increment"`
}

// Seed describes one point generator. Exactly one of the variant blocks
// should be present, matching Kind.
type Seed struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"` // "grid", "circle", "spiral", "well"
	Source bool   `json:"source"`
	Origin Vec    `json:"origin,omitempty"`

	Grow []Step `json:"grow,omitempty"` // grid kind

	Radius     float64 `json:"radius,omitempty"`      // circle kind
	StartAngle float64 `json:"start_angle,omitempty"` // circle and spiral kinds
	Spacing    float64 `json:"spacing,omitempty"`     // circle and spiral kinds

	RadMin float64 `json:"rad_min,omitempty"` // spiral kind
	RadMax float64 `json:"rad_max,omitempty"`
	RadInc float64 `json:"rad_inc,omitempty"`

	Points []Vec `json:"points,omitempty"` // well kind
}

// Template is a named seed arrangement with its roll levels.
type Template struct {
	Name  string `json:"name"`
	Rolls []Step `json:"rolls,omitempty"`
	Seeds []Seed `json:"seeds"`
}

// Block groups templates with optional source/receiver borders.
type Block struct {
	Name      string     `json:"name"`
	SrcBorder *Rect      `json:"src_border,omitempty"`
	RecBorder *Rect      `json:"rec_border,omitempty"`
	Templates []Template `json:"templates"`
}

// Grid carries the bin grid, stake numbering and global placement.
type Grid struct {
	MaxFold  int     `json:"max_fold"`
	BinSizeX float64 `json:"bin_size_x"`
	BinSizeY float64 `json:"bin_size_y"`
	ShiftX   float64 `json:"shift_x,omitempty"`
	ShiftY   float64 `json:"shift_y,omitempty"`

	StakeOrigX float64 `json:"stake_orig_x,omitempty"`
	StakeOrigY float64 `json:"stake_orig_y,omitempty"`
	StakeSizeX float64 `json:"stake_size_x,omitempty"`
	StakeSizeY float64 `json:"stake_size_y,omitempty"`

	OrigX  float64 `json:"orig_x,omitempty"`
	OrigY  float64 `json:"orig_y,omitempty"`
	Angle  float64 `json:"angle,omitempty"`
	ScaleX float64 `json:"scale_x,omitempty"`
	ScaleY float64 `json:"scale_y,omitempty"`
}

// Plane describes the dipping plane reflector.
type Plane struct {
	Anchor  Vec     `json:"anchor"`
	Azimuth float64 `json:"azimuth"`
	Dip     float64 `json:"dip"`
}

// Sphere describes the buried sphere reflector.
type Sphere struct {
	Origin Vec     `json:"origin"`
	Radius float64 `json:"radius"`
}

// SurveyFile is the root of a survey configuration document.
type SurveyFile struct {
	Name string `json:"name"`
	Grid Grid   `json:"grid"`

	Method       string             `json:"method"` // "cmp", "plane", "sphere"
	Reflection   *units.AngleWindow `json:"reflection,omitempty"`
	FullAnalysis bool               `json:"full_analysis,omitempty"`

	OffsetWindow *Rect   `json:"offset_window,omitempty"`
	RadialMin    float64 `json:"radial_min,omitempty"`
	RadialMax    float64 `json:"radial_max,omitempty"`

	Area *Rect `json:"area"`

	Plane  *Plane  `json:"plane,omitempty"`
	Sphere *Sphere `json:"sphere,omitempty"`

	Blocks []Block `json:"blocks"`
}

// Load reads a survey configuration from a JSON file and resolves it into
// a survey ready to Prepare. The file must have a .json extension and stay
// under the size cap.
func Load(path string) (*survey.Survey, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("survey config must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat survey config: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("survey config too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read survey config: %w", err)
	}

	var file SurveyFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse survey config: %w", err)
	}
	return file.Resolve()
}

// Resolve converts the parsed document into a survey value. Structural
// errors (unknown kinds, too many roll/grow levels, malformed coordinates)
// are reported here; semantic validation happens in the survey's Prepare.
func (f *SurveyFile) Resolve() (*survey.Survey, error) {
	s := &survey.Survey{
		Name: f.Name,
		Grid: survey.GridParams{
			MaxFold:    f.Grid.MaxFold,
			BinSizeX:   f.Grid.BinSizeX,
			BinSizeY:   f.Grid.BinSizeY,
			ShiftX:     f.Grid.ShiftX,
			ShiftY:     f.Grid.ShiftY,
			StakeOrigX: f.Grid.StakeOrigX,
			StakeOrigY: f.Grid.StakeOrigY,
			StakeSizeX: f.Grid.StakeSizeX,
			StakeSizeY: f.Grid.StakeSizeY,
			OrigX:      f.Grid.OrigX,
			OrigY:      f.Grid.OrigY,
			Angle:      f.Grid.Angle,
			ScaleX:     f.Grid.ScaleX,
			ScaleY:     f.Grid.ScaleY,
		},
		Binning: survey.BinningParams{
			Method:       survey.BinningMethod(f.Method),
			Reflection:   units.DefaultReflectionWindow(),
			FullAnalysis: f.FullAnalysis,
		},
		Offset: survey.OffsetParams{
			Window:    f.OffsetWindow.rect(),
			RadialMin: f.RadialMin,
			RadialMax: f.RadialMax,
		},
		Area: f.Area.rect(),
	}
	if f.Method == "" {
		s.Binning.Method = survey.MethodCMP
	}
	if f.Reflection != nil {
		s.Binning.Reflection = *f.Reflection
	}

	if f.Plane != nil {
		anchor, err := f.Plane.Anchor.vec()
		if err != nil {
			return nil, fmt.Errorf("plane anchor: %w", err)
		}
		s.GlobalPlane = survey.NewPlane(anchor, f.Plane.Azimuth, f.Plane.Dip)
	}
	if f.Sphere != nil {
		origin, err := f.Sphere.Origin.vec()
		if err != nil {
			return nil, fmt.Errorf("sphere origin: %w", err)
		}
		s.GlobalSphere = survey.Sphere{Origin: origin, Radius: f.Sphere.Radius}
	}

	for _, b := range f.Blocks {
		block, err := b.resolve()
		if err != nil {
			return nil, err
		}
		s.Blocks = append(s.Blocks, block)
	}
	return s, nil
}

func (b *Block) resolve() (*survey.Block, error) {
	block := &survey.Block{
		Name:      b.Name,
		SrcBorder: b.SrcBorder.rect(),
		RecBorder: b.RecBorder.rect(),
	}
	for _, t := range b.Templates {
		template, err := t.resolve()
		if err != nil {
			return nil, fmt.Errorf("block %q: %w", b.Name, err)
		}
		block.Templates = append(block.Templates, template)
	}
	return block, nil
}

func (t *Template) resolve() (*survey.Template, error) {
	rolls, err := resolveSteps(t.Rolls)
	if err != nil {
		return nil, fmt.Errorf("template %q rolls: %w", t.Name, err)
	}
	template := &survey.Template{Name: t.Name, Rolls: rolls}
	for _, sd := range t.Seeds {
		seed, err := sd.resolve()
		if err != nil {
			return nil, fmt.Errorf("template %q: %w", t.Name, err)
		}
		template.Seeds = append(template.Seeds, seed)
	}
	return template, nil
}

// resolveSteps maps a variable-length step list onto the fixed three
// levels. More than three levels is a configuration error, never a silent
// truncation.
func resolveSteps(steps []Step) ([3]survey.GrowStep, error) {
	var out [3]survey.GrowStep
	if len(steps) > survey.MaxLevels {
		return out, fmt.Errorf("%w: %d levels exceed the supported maximum of %d",
			survey.ErrConfig, len(steps), survey.MaxLevels)
	}
	for i := range out {
		out[i] = survey.IdentityGrowStep()
	}
	for i, st := range steps {
		inc, err := st.Increment.vec()
		if err != nil {
			return out, fmt.Errorf("level %d increment: %w", i, err)
		}
		out[i] = survey.GrowStep{Steps: st.Steps, Increment: inc}
	}
	return out, nil
}

func (sd *Seed) resolve() (*survey.Seed, error) {
	seed := &survey.Seed{
		Name:   sd.Name,
		Source: sd.Source,
		Kind:   survey.SeedKind(sd.Kind),
	}
	if len(sd.Origin) > 0 {
		origin, err := sd.Origin.vec()
		if err != nil {
			return nil, fmt.Errorf("seed %q origin: %w", sd.Name, err)
		}
		seed.Origin = origin
	}

	switch seed.Kind {
	case survey.SeedGrid:
		grow, err := resolveSteps(sd.Grow)
		if err != nil {
			return nil, fmt.Errorf("seed %q grow: %w", sd.Name, err)
		}
		seed.Grid = survey.GridSeed{Grow: grow}
	case survey.SeedCircle:
		seed.Circle = survey.CircleSeed{
			Radius:        sd.Radius,
			StartAngleDeg: sd.StartAngle,
			Spacing:       sd.Spacing,
		}
	case survey.SeedSpiral:
		seed.Spiral = survey.SpiralSeed{
			RadMin:        sd.RadMin,
			RadMax:        sd.RadMax,
			RadInc:        sd.RadInc,
			StartAngleDeg: sd.StartAngle,
			Spacing:       sd.Spacing,
		}
	case survey.SeedWell:
		points := make([]geom.Vec, 0, len(sd.Points))
		for i, p := range sd.Points {
			v, err := p.vec()
			if err != nil {
				return nil, fmt.Errorf("seed %q point %d: %w", sd.Name, i, err)
			}
			points = append(points, v)
		}
		seed.Well = survey.WellSeed{Points: points}
	default:
		return nil, fmt.Errorf("%w: seed %q has unknown kind %q", survey.ErrConfig, sd.Name, sd.Kind)
	}
	return seed, nil
}
