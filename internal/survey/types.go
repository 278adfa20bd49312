package survey

import (
	"errors"
	"fmt"

	"github.com/geoplan-data/fold.report/internal/geom"
	"github.com/geoplan-data/fold.report/internal/units"
)

// ErrConfig marks a survey configuration problem detected before any
// computation starts.
var ErrConfig = errors.New("invalid survey configuration")

// ErrCanceled is returned by a pass that was canceled by the caller.
// A canceled pass produces no valid output.
var ErrCanceled = errors.New("run canceled")

// MaxLevels is the number of grow/roll levels carried per seed and
// template. Configurations with more levels are rejected up front; this is
// a documented limit, not a silent truncation.
const MaxLevels = 3

// GrowStep describes one dimension of repeated placement: Steps copies of
// a point set, each shifted by Increment.
type GrowStep struct {
	Steps     int
	Increment geom.Vec
}

// IdentityGrowStep is the padding step for unused grow/roll levels.
func IdentityGrowStep() GrowStep { return GrowStep{Steps: 1} }

// normalize clamps Steps to at least 1 so a zero-valued level behaves as
// the identity step.
func (g GrowStep) normalize() GrowStep {
	if g.Steps < 1 {
		g.Steps = 1
	}
	return g
}

// SeedKind selects the point generator of a seed.
type SeedKind string

const (
	SeedGrid   SeedKind = "grid"
	SeedCircle SeedKind = "circle"
	SeedSpiral SeedKind = "spiral"
	SeedWell   SeedKind = "well"
)

// Seed is a parametrized generator of source or receiver point locations.
// Exactly one of the variant parameter sets is consulted, selected by Kind.
type Seed struct {
	Name   string
	Origin geom.Vec
	Source bool
	Kind   SeedKind

	Grid   GridSeed
	Circle CircleSeed
	Spiral SpiralSeed
	Well   WellSeed

	// points is the generated local point array, set by Prepare.
	points []geom.Vec
}

// Prepare (re)generates the seed's local point array. It must be called
// whenever geometry-affecting parameters change and before assembly or
// binning.
func (s *Seed) Prepare() error {
	switch s.Kind {
	case SeedGrid:
		s.points = s.Grid.PointArray(s.Origin)
	case SeedCircle:
		s.points = s.Circle.PointList(s.Origin)
	case SeedSpiral:
		s.points = s.Spiral.PointList(s.Origin)
	case SeedWell:
		s.points = s.Well.PointList()
	default:
		return fmt.Errorf("%w: seed %q has unknown kind %q", ErrConfig, s.Name, s.Kind)
	}
	if len(s.points) == 0 {
		return fmt.Errorf("%w: seed %q generated no points", ErrConfig, s.Name)
	}
	return nil
}

// Points returns the prepared local point array. Nil before Prepare.
func (s *Seed) Points() []geom.Vec { return s.points }

// BoundingRect returns the padded bounding rectangle of the prepared
// points. Degenerate extents are widened so rectangle union/intersection
// stays well defined.
func (s *Seed) BoundingRect() geom.Rect { return geom.BoundsOf(s.points) }

// Template is a reusable arrangement of seeds, replicated across a block
// by up to MaxLevels roll steps.
type Template struct {
	Name  string
	Rolls [3]GrowStep
	Seeds []*Seed
}

// RollCount returns the number of template placements.
func (t *Template) RollCount() int {
	n := 1
	for _, r := range t.Rolls {
		n *= r.normalize().Steps
	}
	return n
}

// Block groups templates and constrains their source and receiver points
// to optional axis-aligned borders. A null border is unbounded.
type Block struct {
	Name      string
	SrcBorder geom.Rect
	RecBorder geom.Rect
	Templates []*Template
}

// BinningMethod selects the reflection model used to map a source-receiver
// pair to a subsurface point.
type BinningMethod string

const (
	// MethodCMP bins at the source-receiver midpoint.
	MethodCMP BinningMethod = "cmp"
	// MethodPlane bins against a dipping plane reflector.
	MethodPlane BinningMethod = "plane"
	// MethodSphere bins against a buried sphere reflector.
	MethodSphere BinningMethod = "sphere"
)

// GridParams describes the bin grid, the stake/line labelling grid and the
// local-to-global placement of the survey.
type GridParams struct {
	// Local bin grid.
	MaxFold  int     // per-bin trace cap for full-analysis detail
	BinSizeX float64 // bin dimensions [m]
	BinSizeY float64
	ShiftX   float64 // stake-grid shift, usually half a bin
	ShiftY   float64

	// Stake/line numbering.
	StakeOrigX float64 // stake number at the grid origin
	StakeOrigY float64 // line number at the grid origin
	StakeSizeX float64 // stake interval [m]
	StakeSizeY float64 // line interval [m]

	// Global placement (opaque affine: translate, rotate, scale).
	OrigX, OrigY   float64
	Angle          float64
	ScaleX, ScaleY float64
}

// OffsetParams is the offset admissibility window: a rectangular window on
// the (dx, dy) offset vector plus an optional radial window. RadialMax = 0
// disables the radial test.
type OffsetParams struct {
	Window    geom.Rect
	RadialMin float64
	RadialMax float64
}

// BinningParams selects the reflection model and its admissibility window.
// FullAnalysis additionally records per-trace detail up to MaxFold traces
// per bin.
type BinningParams struct {
	Method       BinningMethod
	Reflection   units.AngleWindow // angle-of-incidence window [deg]
	FullAnalysis bool
}

// Survey is a fully resolved acquisition geometry: blocks of templates plus
// the binning configuration. Derived transforms and reflectors are computed
// by PrepareTransforms.
type Survey struct {
	Name    string
	Grid    GridParams
	Binning BinningParams
	Offset  OffsetParams
	Area    geom.Rect // output area in local coordinates

	// Global reflectors; transformed to local coordinates during prepare.
	GlobalPlane  Plane
	GlobalSphere Sphere

	Blocks []*Block

	// Derived quantities, valid after Prepare.
	globalXform geom.Affine // local -> global (east, north)
	stakeXform  geom.Affine // local -> (stake, line)
	binXform    geom.Affine // local -> fractional bin cell
	localPlane  Plane
	localSphere Sphere
	shotPoints  int
}

// Validate checks the survey for configuration errors. It is the fatal,
// pre-computation gate: assembly and binning refuse to start on an invalid
// survey.
func (s *Survey) Validate() error {
	if len(s.Blocks) == 0 {
		return fmt.Errorf("%w: a survey needs at least one block", ErrConfig)
	}
	if s.Grid.BinSizeX <= 0 || s.Grid.BinSizeY <= 0 {
		return fmt.Errorf("%w: bin size must be positive", ErrConfig)
	}
	if s.Area.IsNull() || s.Area.Width() <= 0 || s.Area.Height() <= 0 {
		return fmt.Errorf("%w: output area must be a non-empty rectangle", ErrConfig)
	}
	if !s.Binning.Reflection.Valid() {
		return fmt.Errorf("%w: reflection angle window must satisfy 0 <= min <= max <= 90", ErrConfig)
	}
	switch s.Binning.Method {
	case MethodCMP, MethodPlane:
	case MethodSphere:
		if s.GlobalSphere.Radius <= 0 {
			return fmt.Errorf("%w: sphere radius must be positive", ErrConfig)
		}
		if s.Grid.ScaleX != s.Grid.ScaleY {
			return fmt.Errorf("%w: sphere binning needs identical x- and y-scales", ErrConfig)
		}
	default:
		return fmt.Errorf("%w: unknown binning method %q", ErrConfig, s.Binning.Method)
	}

	for _, block := range s.Blocks {
		if len(block.Templates) == 0 {
			return fmt.Errorf("%w: block %q needs at least one template", ErrConfig, block.Name)
		}
		for _, template := range block.Templates {
			nSrc, nRec := 0, 0
			for _, seed := range template.Seeds {
				if seed.Source {
					nSrc++
				} else {
					nRec++
				}
			}
			if nSrc == 0 {
				return fmt.Errorf("%w: template %q needs at least one source seed", ErrConfig, template.Name)
			}
			if nRec == 0 {
				return fmt.Errorf("%w: template %q needs at least one receiver seed", ErrConfig, template.Name)
			}
		}
	}
	return nil
}

// Prepare validates the survey, generates all seed point arrays, computes
// the coordinate transforms and localizes the reflectors. It must run
// before AssembleGeometry or any binning pass.
func (s *Survey) Prepare() error {
	if err := s.Validate(); err != nil {
		return err
	}
	for _, block := range s.Blocks {
		for _, template := range block.Templates {
			for i := range template.Rolls {
				template.Rolls[i] = template.Rolls[i].normalize()
			}
			for _, seed := range template.Seeds {
				if err := seed.Prepare(); err != nil {
					return err
				}
			}
		}
	}
	if err := s.computeTransforms(); err != nil {
		return err
	}
	s.shotPoints = s.calcShotPoints()
	if s.shotPoints == 0 {
		return fmt.Errorf("%w: survey places no shot points", ErrConfig)
	}
	return nil
}

// ShotPoints returns the total shot count of the survey, the product of
// each source seed's point count with its template's roll count.
func (s *Survey) ShotPoints() int { return s.shotPoints }

func (s *Survey) calcShotPoints() int {
	total := 0
	for _, block := range s.Blocks {
		for _, template := range block.Templates {
			perTemplate := 0
			for _, seed := range template.Seeds {
				if seed.Source {
					perTemplate += len(seed.points)
				}
			}
			total += perTemplate * template.RollCount()
		}
	}
	return total
}

// GlobalTransform returns the local-to-global affine.
func (s *Survey) GlobalTransform() geom.Affine { return s.globalXform }

// StakeTransform returns the local-to-stake/line affine.
func (s *Survey) StakeTransform() geom.Affine { return s.stakeXform }

// LocalPlane returns the plane reflector in local coordinates.
func (s *Survey) LocalPlane() Plane { return s.localPlane }

// LocalSphere returns the sphere reflector in local coordinates.
func (s *Survey) LocalSphere() Sphere { return s.localSphere }
