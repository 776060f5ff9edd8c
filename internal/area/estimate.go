package area

import (
	"math"
)

// Ancestor wraps an ancestor area for LinearArea and LogArea. A nil
// ancestor means the box is measured against the whole domain.
func Ancestor(v float64) *float64 { return &v }

// LinearArea returns the volume of b inside [-1,1]^n, scaled by the
// accumulated linear area of its ancestor. A nil ancestor stands for the
// root domain (factor 1).
//
// The result underflows to 0 for deep subdivision chains or high
// dimension; use LogArea there.
func LinearArea(b Box, ancestor *float64) (float64, error) {
	if err := b.Validate(); err != nil {
		return 0, err
	}
	scale := 1.0
	if ancestor != nil {
		scale = *ancestor
	}

	prod := 1.0
	for _, w := range b.Widths() {
		prod *= w
	}
	// Ldexp divides by 2^n exactly.
	return math.Ldexp(prod, -b.Dim()) * scale, nil
}

// LogArea is the log-space form of LinearArea:
//
//	sum(log(Upper[i]-Lower[i])) - n*log(2) + ancestorLog
//
// A nil ancestorLog is log(1) = 0. A zero-width dimension yields -Inf,
// which callers must read as zero area.
func LogArea(b Box, ancestorLog *float64) (float64, error) {
	if err := b.Validate(); err != nil {
		return 0, err
	}
	var sum float64
	for _, w := range b.Widths() {
		sum += math.Log(w)
	}
	sum -= float64(b.Dim()) * math.Ln2
	if ancestorLog != nil {
		sum += *ancestorLog
	}
	return sum, nil
}

// ToLinear converts a log area to its linear form.
func ToLinear(logArea float64) float64 {
	return math.Exp(logArea)
}

// ToLog converts a linear area to its log form. Zero maps to -Inf.
func ToLog(linear float64) float64 {
	return math.Log(linear)
}
