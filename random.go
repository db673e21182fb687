package windsway

import "math"

// RandomValue returns a deterministic pseudo-random value in [0, 1) for the
// swing index n. The trigonometric hash must stay exactly as written: exported
// frames are compared bit for bit against earlier renders.
func RandomValue(n, seed, pattern int) float64 {
	base := math.Abs(float64(10+pattern)) + float64(n)
	x := math.Sin(base*float64(seed)) * 10000
	return x - math.Floor(x)
}

// SwingAmplitude returns the seeded swing amplitude at time t. The four
// samples around the current cycle are blended with a cubic so the value is
// continuous across cycle boundaries. There is no state: the same t always
// yields the same amplitude, which is what makes scrubbing and export agree.
func SwingAmplitude(t, period float64, seed, pattern int, maxAngleRad float64) float64 {
	if !(period > 0) || math.IsInf(period, 0) {
		return maxAngleRad
	}
	s := t / period
	n1 := math.Floor(s)
	frac := s - n1
	n := int(n1)

	fPrev := RandomValue(n-1, seed, pattern) * maxAngleRad
	f0 := RandomValue(n, seed, pattern) * maxAngleRad
	f1 := RandomValue(n+1, seed, pattern) * maxAngleRad
	f2 := RandomValue(n+2, seed, pattern) * maxAngleRad

	return cubicInterpolation(frac, fPrev, f0, f1, f2)
}

// cubicInterpolation blends p1..p2 using p0 and p3 as outer tangents.
// Products are converted explicitly so the compiler cannot fuse them into
// FMA instructions; results must match on every architecture.
func cubicInterpolation(t, p0, p1, p2, p3 float64) float64 {
	t2 := t * t
	t3 := t2 * t

	a0 := p3 - p2 - p0 + p1
	a1 := p0 - p1 - a0
	a2 := p2 - p0
	a3 := p1

	return float64(a0*t3) + float64(a1*t2) + float64(a2*t) + a3
}
