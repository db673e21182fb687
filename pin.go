package windsway

import "math"

// PinMultiplier returns the bend damping at ratio (0 = anchored end, 1 = free
// end). Each pin contributes (d/range)² inside its range; overlapping pins
// compose by taking the most restrictive value. Outside every range, or
// without pins, the multiplier is 1.
func PinMultiplier(ratio float64, pins []Pin) float64 {
	m := 1.0
	for i := range pins {
		pos := pins[i].PositionPct / 100
		rng := pins[i].RangePct / 100
		if !(rng > 0) {
			continue
		}
		dist := math.Abs(ratio - pos)
		if dist < rng {
			nd := dist / rng
			if v := nd * nd; v < m {
				m = v
			}
		}
	}
	return m
}
