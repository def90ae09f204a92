package preprocess

import (
	"fmt"
	"sort"

	"causalprep/internal/errors"
)

// LabelEncoder maps categorical values onto ordinal codes. Classes are
// ordered lexically, so the same data always produces the same codes. The
// empty string (the categorical missing marker) is encoded as a class of
// its own, matching how the upstream pipeline stringifies missing entries
// before encoding.
type LabelEncoder struct {
	classes []string
	index   map[string]int
}

// FitLabelEncoder learns the class set from the given values
func FitLabelEncoder(values []string) *LabelEncoder {
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		seen[v] = true
	}

	classes := make([]string, 0, len(seen))
	for v := range seen {
		classes = append(classes, v)
	}
	sort.Strings(classes)

	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	return &LabelEncoder{classes: classes, index: index}
}

// Classes returns the learned classes in code order
func (e *LabelEncoder) Classes() []string {
	out := make([]string, len(e.classes))
	copy(out, e.classes)
	return out
}

// Transform encodes values with the fitted class set. A label not seen
// during fitting is an error: new data must be encoded consistently with
// the original fit, never silently extended.
func (e *LabelEncoder) Transform(values []string) ([]float64, error) {
	out := make([]float64, len(values))
	for i, v := range values {
		code, ok := e.index[v]
		if !ok {
			return nil, errors.ValidationError(fmt.Sprintf("label %q was not seen during fitting", v))
		}
		out[i] = float64(code)
	}
	return out, nil
}

// FitTransform fits on values and encodes them in one step
func FitTransform(values []string) (*LabelEncoder, []float64) {
	enc := FitLabelEncoder(values)
	codes, _ := enc.Transform(values)
	return enc, codes
}
