package preprocess

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"causalprep/domain/table"
	"causalprep/internal/binning"
	"causalprep/internal/errors"
)

func buildTable(t *testing.T, cols map[string][]float64, cats map[string][]string, order []string) *table.Table {
	t.Helper()
	tbl := table.New()
	for _, name := range order {
		if vals, ok := cols[name]; ok {
			require.NoError(t, tbl.SetColumn(name, table.NewNumericColumn(vals)))
			continue
		}
		require.NoError(t, tbl.SetColumn(name, table.NewCategoricalColumn(cats[name])))
	}
	return tbl
}

func TestLabelEncoderSortedClasses(t *testing.T) {
	enc, codes := FitTransform([]string{"west", "east", "west", "north"})

	assert.Equal(t, []string{"east", "north", "west"}, enc.Classes())
	assert.Equal(t, []float64{2, 0, 2, 1}, codes)
}

func TestLabelEncoderRejectsUnseen(t *testing.T) {
	enc := FitLabelEncoder([]string{"a", "b"})

	_, err := enc.Transform([]string{"a", "c"})
	require.Error(t, err)
}

func TestLabelEncodeNonNumeric(t *testing.T) {
	session := NewSession(nil, Options{})
	tbl := buildTable(t,
		map[string][]float64{"rate": {1.5, 2.5, 3.5}},
		map[string][]string{"region": {"west", "east", "west"}, "plan": {"b", "a", "b"}},
		[]string{"rate", "region", "plan"},
	)

	encoded, encoders, err := session.LabelEncodeNonNumeric(tbl)
	require.NoError(t, err)

	// Column order preserved, categoricals now numeric
	assert.Equal(t, []string{"rate", "region", "plan"}, encoded.Names())
	assert.Empty(t, encoded.CategoricalNames())

	region, _ := encoded.Column("region")
	assert.Equal(t, []float64{1, 0, 1}, region.Floats())

	// Registry accumulates on the session
	assert.Len(t, encoders, 2)
	assert.Contains(t, encoders, "region")
	assert.Contains(t, encoders, "plan")
	assert.Equal(t, session.Encoders(), encoders)

	// Original table untouched
	orig, _ := tbl.Column("region")
	assert.Equal(t, table.Categorical, orig.Kind())
}

func TestBatchDiscretizeOverwritesListedColumns(t *testing.T) {
	session := NewSession(nil, Options{})
	tbl := buildTable(t,
		map[string][]float64{
			"a": {1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
			"b": {10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
		nil,
		[]string{"a", "b"},
	)

	out, err := session.BatchDiscretize(tbl, map[string]binning.Spec{
		"a": {Method: binning.EqualWidth, Bins: 5},
	})
	require.NoError(t, err)

	a, _ := out.Column("a")
	assert.Equal(t, []float64{0, 0, 1, 1, 2, 2, 3, 3, 4, 4}, a.Floats())

	// Unlisted column passes through unchanged
	b, _ := out.Column("b")
	assert.Equal(t, []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}, b.Floats())

	// Fitted artifact retained for reuse
	assert.Contains(t, session.Fitted(), "a")

	// Source table untouched
	origA, _ := tbl.Column("a")
	assert.Equal(t, 1.0, origA.Float(0))
}

func TestBatchDiscretizePreservesMissing(t *testing.T) {
	session := NewSession(nil, Options{})
	tbl := buildTable(t,
		map[string][]float64{"a": {1, 2, math.NaN(), 4, 5}},
		nil,
		[]string{"a"},
	)

	out, err := session.BatchDiscretize(tbl, map[string]binning.Spec{
		"a": {Method: binning.EqualWidth, Bins: 2},
	})
	require.NoError(t, err)

	a, _ := out.Column("a")
	assert.True(t, a.IsMissing(2), "missing input must stay missing in the bucket column")
	assert.False(t, a.IsMissing(0))
}

func TestBatchDiscretizeMissingColumnModes(t *testing.T) {
	tbl := buildTable(t,
		map[string][]float64{"a": {1, 2, 3}},
		nil,
		[]string{"a"},
	)
	config := map[string]binning.Spec{
		"ghost": {Method: binning.EqualWidth, Bins: 3},
	}

	// Lenient mode skips silently
	lenient := NewSession(nil, Options{})
	out, err := lenient.BatchDiscretize(tbl, config)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, out.Names())

	// Strict mode fails loudly
	strict := NewSession(nil, Options{Strict: true})
	_, err = strict.BatchDiscretize(tbl, config)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeMissingColumn))
}

func TestBatchDiscretizeRejectsCategorical(t *testing.T) {
	session := NewSession(nil, Options{})
	tbl := buildTable(t,
		nil,
		map[string][]string{"region": {"east", "west"}},
		[]string{"region"},
	)

	_, err := session.BatchDiscretize(tbl, map[string]binning.Spec{
		"region": {Method: binning.EqualWidth, Bins: 3},
	})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidConfiguration))
}

func TestDeriveTreatment(t *testing.T) {
	session := NewSession(nil, Options{})
	tbl := buildTable(t,
		map[string][]float64{
			"ACR":      {5, 3, 4, math.NaN()},
			"Rate_Lag": {3, 4, 4, 2},
			"other":    {1, 2, 3, 4},
		},
		nil,
		[]string{"ACR", "Rate_Lag", "other"},
	)

	out, err := session.DeriveTreatment(tbl)
	require.NoError(t, err)

	treatment, ok := out.Column("Treatment")
	require.True(t, ok)
	assert.Equal(t, 1.0, treatment.Float(0))
	assert.Equal(t, -1.0, treatment.Float(1))
	assert.Equal(t, 0.0, treatment.Float(2))
	assert.True(t, treatment.IsMissing(3))

	assert.False(t, out.HasColumn("ACR"))
	assert.False(t, out.HasColumn("Rate_Lag"))
	assert.True(t, out.HasColumn("other"))
}

func TestDeriveTreatmentMissingColumn(t *testing.T) {
	session := NewSession(nil, Options{})
	tbl := buildTable(t,
		map[string][]float64{"ACR": {1, 2}},
		nil,
		[]string{"ACR"},
	)

	_, err := session.DeriveTreatment(tbl)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeMissingColumn))
}

func TestDeriveChurn(t *testing.T) {
	session := NewSession(nil, Options{})
	tbl := buildTable(t,
		map[string][]float64{
			"ChurnRate":   {0.2, 0, -0.1, math.NaN()},
			"Members":     {100, 200, 300, 400},
			"Members_Lag": {90, 210, 310, 390},
			"keep":        {1, 2, 3, 4},
		},
		nil,
		[]string{"ChurnRate", "Members", "Members_Lag", "keep"},
	)

	out, err := session.DeriveChurn(tbl)
	require.NoError(t, err)

	churn, ok := out.Column("Churn")
	require.True(t, ok)
	assert.Equal(t, 1.0, churn.Float(0))
	assert.Equal(t, 0.0, churn.Float(1))
	assert.Equal(t, 0.0, churn.Float(2))
	assert.True(t, churn.IsMissing(3))

	for _, dropped := range []string{"ChurnRate", "Members", "Members_Lag"} {
		assert.False(t, out.HasColumn(dropped), "expected %s to be dropped", dropped)
	}
	assert.True(t, out.HasColumn("keep"))
}
