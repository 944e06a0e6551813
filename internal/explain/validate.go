package explain

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shoplens/shoplens-backend/internal/errs"
)

// numberPattern matches numeric literals as they appear in prose: an
// optional sign, digit groups that may use thousands commas, and an
// optional decimal part. Currency symbols and percent signs sit outside
// the match and are ignored.
var numberPattern = regexp.MustCompile(`[-+]?\d[\d,]*(?:\.\d+)?`)

// ExtractNumbers pulls every numeric literal out of generated text,
// normalizing away thousands separators. "₹5,000" yields 5000 and
// "18.0%" yields 18.
func ExtractNumbers(text string) []float64 {
	matches := numberPattern.FindAllString(text, -1)
	out := make([]float64, 0, len(matches))
	for _, m := range matches {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Validator checks generated text against an allow-list of numbers. A
// cited number matches an allow-listed value when it is within the
// relative tolerance or the absolute tolerance, whichever admits more, so
// prose rounding of both large and small values passes.
type Validator struct {
	RelativeTolerance float64
	AbsoluteTolerance float64
}

// Validate returns nil when every number in text matches some allow-listed
// value, and a validation error naming the first offender otherwise. Text
// with no numbers at all is valid.
func (v Validator) Validate(text string, allowed []float64) error {
	for _, n := range ExtractNumbers(text) {
		if !v.matchesAny(n, allowed) {
			return fmt.Errorf("%w: generated text cites %v, which matches no permitted value", errs.ErrExplanationValidation, n)
		}
	}
	return nil
}

func (v Validator) matchesAny(n float64, allowed []float64) bool {
	for _, a := range allowed {
		tol := math.Max(v.RelativeTolerance*math.Abs(a), v.AbsoluteTolerance)
		if math.Abs(n-a) <= tol {
			return true
		}
	}
	return false
}
