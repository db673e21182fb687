package windsway

import (
	"math"

	"github.com/google/uuid"
)

// Parameter bounds. Values outside these ranges are clamped, never rejected.
const (
	MinAngleDeg      = -180.0
	MaxAngleDeg      = 180.0
	MinPeriodSec     = 0.1
	MaxPeriodSec     = 60.0
	MinPhaseShiftDeg = -360.0
	MaxPhaseShiftDeg = 360.0
	MinCenterDeg     = -180.0
	MaxCenterDeg     = 180.0
	MinRandomPattern = -100
	MaxRandomPattern = 100
	MaxSeed          = math.MaxInt32
)

// WindShakeParams describes one wind sway deformation. Every Layer and Folder
// owns one value.
type WindShakeParams struct {
	Divisions      int     `toml:"divisions"`    // strip segments along the bending axis, [1,50]
	AngleDeg       float64 `toml:"angle"`        // maximum bend amplitude
	PeriodSec      float64 `toml:"period"`       // seconds per swing cycle
	PhaseShiftDeg  float64 `toml:"phase_shift"`  // phase offset spread across divisions
	CenterDeg      float64 `toml:"center"`       // constant bias bend
	TopFixedPct    float64 `toml:"top_fixed"`    // rigid share of height at the top, [0,100]
	BottomFixedPct float64 `toml:"bottom_fixed"` // rigid share of height at the bottom, [0,100]
	FromBottom     bool    `toml:"from_bottom"`  // swap the rigid zones
	RandomSwing    bool    `toml:"random_swing"` // modulate the amplitude with the seeded curve
	RandomPattern  int     `toml:"random_pattern"`
	Seed           int     `toml:"seed"`
}

// DefaultWindShake is assigned to freshly imported layers and new folders.
var DefaultWindShake = WindShakeParams{
	Divisions:      15,
	AngleDeg:       30,
	PeriodSec:      2.0,
	PhaseShiftDeg:  90,
	CenterDeg:      0,
	TopFixedPct:    10,
	BottomFixedPct: 10,
	FromBottom:     false,
	RandomSwing:    true,
	RandomPattern:  5,
	Seed:           12345,
}

// Clamp returns a copy of p with every field inside its valid range.
func (p WindShakeParams) Clamp() WindShakeParams {
	p.Divisions = clampInt(p.Divisions, MinDivisions, MaxDivisions)
	p.AngleDeg = clampFloat(p.AngleDeg, MinAngleDeg, MaxAngleDeg, 0)
	p.PeriodSec = clampFloat(p.PeriodSec, MinPeriodSec, MaxPeriodSec, DefaultWindShake.PeriodSec)
	p.PhaseShiftDeg = clampFloat(p.PhaseShiftDeg, MinPhaseShiftDeg, MaxPhaseShiftDeg, 0)
	p.CenterDeg = clampFloat(p.CenterDeg, MinCenterDeg, MaxCenterDeg, 0)
	p.TopFixedPct = clampFloat(p.TopFixedPct, 0, 100, 0)
	p.BottomFixedPct = clampFloat(p.BottomFixedPct, 0, 100, 0)
	p.RandomPattern = clampInt(p.RandomPattern, MinRandomPattern, MaxRandomPattern)
	p.Seed = clampInt(p.Seed, 0, MaxSeed)
	return p
}

// Amplitude returns the swing amplitude in radians at time t. With random
// swing disabled it is the constant AngleDeg.
func (p WindShakeParams) Amplitude(t float64) float64 {
	maxAngle := math.Pi * p.AngleDeg / 180
	if !p.RandomSwing {
		return maxAngle
	}
	return SwingAmplitude(t, p.PeriodSec, p.Seed, p.RandomPattern, maxAngle)
}

// Pin locally damps bending around a normalized position along the strip.
type Pin struct {
	ID          string  `toml:"id"`
	PositionPct float64 `toml:"position"` // [0,100] from the top of the strip
	RangePct    float64 `toml:"range"`    // influence radius in percent of the strip
}

// DefaultPinRange is the influence radius given to new pins.
const DefaultPinRange = 20.0

// NewPin creates a pin with a fresh id and clamped fields.
func NewPin(positionPct, rangePct float64) Pin {
	return Pin{ID: uuid.NewString(), PositionPct: positionPct, RangePct: rangePct}.Clamp()
}

// Clamp returns a copy of p with position and range in [0,100].
func (p Pin) Clamp() Pin {
	p.PositionPct = clampFloat(p.PositionPct, 0, 100, 0)
	p.RangePct = clampFloat(p.RangePct, 0, 100, 0)
	return p
}

// PinPositionFromLocalY maps a click on the canvas to a pin position.
func PinPositionFromLocalY(localY, canvasHeight float64) float64 {
	if canvasHeight <= 0 {
		return 0
	}
	return clampFloat(localY/canvasHeight*100, 0, 100, 0)
}
