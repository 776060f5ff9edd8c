package area

import (
	"fmt"
	"math"
)

// DefaultPrecision is the smallest linear area ratio treated as distinct
// from zero when no precision is configured.
const DefaultPrecision = 1e-15

// Progress normalises an accumulated log area against the log area of a
// single cell of side precision in dim dimensions:
//
//	logArea / (dim * (log(precision) - log(2)))
//
// The value grows towards 1 as the remaining area shrinks to the precision
// floor. It is a heuristic signal only. precision must satisfy
// 0 < precision < 2; see ValidatePrecision.
func Progress(logArea float64, dim int, precision float64) float64 {
	return logArea / (float64(dim) * (math.Log(precision) - math.Ln2))
}

// ValidatePrecision rejects precisions for which Progress is not monotone.
func ValidatePrecision(precision float64) error {
	if !(precision > 0 && precision < 2) {
		return fmt.Errorf("%w: precision must be in (0, 2), got %g", ErrInvalidInput, precision)
	}
	return nil
}
