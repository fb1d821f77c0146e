package widget

import (
	"math"
	"strconv"
	"strings"

	"github.com/alkime/knobs/pkg/uictl"
)

// Point is a position in the host's coordinate frame (y grows downwards).
type Point struct {
	X, Y float64
}

// Clamp restricts n to [lo, hi].
func Clamp[N uictl.Number](n, lo, hi N) N {
	if n < lo {
		return lo
	}

	if n > hi {
		return hi
	}

	return n
}

// RoundToPrecision rounds f to precision decimal digits, halves away from zero.
func RoundToPrecision(f float64, precision int) float64 {
	mult := math.Pow(10, float64(precision))

	return math.Round(f*mult) / mult
}

// AngleOf returns the angle in degrees, within [0,360), of the pointer p
// around center. 0° lies on the left of center and angles grow towards the
// top, which is also the frame the dial indicator is drawn in.
func AngleOf(p, center Point) float64 {
	angle := math.Atan2(center.Y-p.Y, center.X-p.X) * 180 / math.Pi
	if angle < 0 {
		return 360 + angle
	}

	return angle
}

// ParseValue reads an attribute as a float. Anything that isn't a finite
// number reads as 0.
func ParseValue(attr string) float64 {
	v, ok := parseFinite(attr)
	if !ok {
		return 0
	}

	return v
}

// FormatValue renders v the way it is stored in a value attribute.
func FormatValue(v float64) string {
	if v == 0 {
		v = 0 // drop the sign of -0
	}

	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseFinite(attr string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(attr), 64)
	if err != nil || !isFinite(v) {
		return 0, false
	}

	return v, true
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ratio divides num by den, reporting false instead of producing NaN or ±Inf.
func ratio(num, den float64) (float64, bool) {
	if den == 0 {
		return 0, false
	}

	r := num / den
	if !isFinite(r) {
		return 0, false
	}

	return r, true
}

// normalizeDegrees folds r into [0,360).
func normalizeDegrees(r float64) float64 {
	r = math.Mod(r, 360)
	if r < 0 {
		r += 360
	}

	if r >= 360 {
		r -= 360
	}

	return r
}

// sameValue compares two attribute texts by numeric value when both are
// numbers, and by text otherwise.
func sameValue(a, b string) bool {
	av, aok := parseFinite(a)
	bv, bok := parseFinite(b)

	if aok && bok {
		return av == bv
	}

	return a == b
}
