package windsway

import (
	"fmt"
	"sort"
)

// Presets are named parameter sets. Every preset uses seed 12345 so a preset
// looks the same wherever it is applied.
var Presets = map[string]WindShakeParams{
	"gentle_breeze": {
		Divisions: 10, AngleDeg: 15, PeriodSec: 3.0, PhaseShiftDeg: 90, CenterDeg: 0,
		TopFixedPct: 10, BottomFixedPct: 10,
		RandomSwing: false, RandomPattern: 0, Seed: 12345,
	},
	"moderate_wind": {
		Divisions: 15, AngleDeg: 30, PeriodSec: 2.0, PhaseShiftDeg: 90, CenterDeg: 0,
		TopFixedPct: 10, BottomFixedPct: 10,
		RandomSwing: true, RandomPattern: 5, Seed: 12345,
	},
	"strong_wind": {
		Divisions: 20, AngleDeg: 60, PeriodSec: 1.5, PhaseShiftDeg: 120, CenterDeg: 15,
		TopFixedPct: 15, BottomFixedPct: 5,
		RandomSwing: true, RandomPattern: 10, Seed: 12345,
	},
	"flag": {
		Divisions: 25, AngleDeg: 45, PeriodSec: 1.2, PhaseShiftDeg: 180, CenterDeg: 0,
		TopFixedPct: 0, BottomFixedPct: 0,
		RandomSwing: true, RandomPattern: 15, Seed: 12345,
	},
	"curtain": {
		Divisions: 30, AngleDeg: 25, PeriodSec: 2.5, PhaseShiftDeg: 90, CenterDeg: 0,
		TopFixedPct: 5, BottomFixedPct: 15,
		RandomSwing: false, RandomPattern: 0, Seed: 12345,
	},
	"underwater": {
		Divisions: 20, AngleDeg: 20, PeriodSec: 4.0, PhaseShiftDeg: 60, CenterDeg: 5,
		TopFixedPct: 10, BottomFixedPct: 10,
		RandomSwing: true, RandomPattern: 8, Seed: 12345,
	},
}

// PresetNames returns the registered preset names, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyPreset replaces n's parameters with the named preset and deletes its
// pins. An unknown name leaves n untouched.
func ApplyPreset(n *Node, name string) error {
	p, ok := Presets[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	n.SetWindShake(p)
	n.ClearPins()
	return nil
}
