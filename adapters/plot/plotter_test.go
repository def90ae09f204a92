package plot

import (
	"math"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"causalprep/domain/table"
)

func plotTable(t *testing.T) *table.Table {
	t.Helper()
	n := 200
	usage := make([]float64, n)
	rate := make([]float64, n)
	for i := 0; i < n; i++ {
		usage[i] = math.Sin(float64(i)/7)*10 + float64(i)/4
		rate[i] = float64(i%17) + 0.5
	}
	rate[3] = math.NaN()

	tbl := table.New()
	require.NoError(t, tbl.SetColumn("usage", table.NewNumericColumn(usage)))
	require.NoError(t, tbl.SetColumn("rate", table.NewNumericColumn(rate)))
	return tbl
}

func TestRenderDistributions(t *testing.T) {
	dir := t.TempDir()
	r, err := NewRenderer(dir, nil)
	require.NoError(t, err)

	path, err := r.RenderDistributions(plotTable(t), nil)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(path, dir))
	assert.Contains(t, path, "feature_distributions_")
	assert.True(t, strings.HasSuffix(path, ".png"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestRenderDistributionsUnknownFeature(t *testing.T) {
	r, err := NewRenderer(t.TempDir(), nil)
	require.NoError(t, err)

	_, err = r.RenderDistributions(plotTable(t), []string{"ghost"})
	require.Error(t, err)
}

func TestRenderDistributionsNoNumericFeatures(t *testing.T) {
	tbl := table.New()
	require.NoError(t, tbl.SetColumn("region", table.NewCategoricalColumn([]string{"east", "west"})))

	r, err := NewRenderer(t.TempDir(), nil)
	require.NoError(t, err)

	_, err = r.RenderDistributions(tbl, nil)
	require.Error(t, err)
}
