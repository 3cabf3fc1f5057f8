package nest_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"impractical.co/nest"
)

func TestMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	metrics, err := nest.NewMetrics(reg)
	require.NoError(t, err)

	page := nest.El(box{Name: "a"}, nest.El(box{Name: "b"}), nest.El(box{Name: "b"}))
	require.NoError(t, nest.Render(context.Background(), &bytes.Buffer{}, boxHost(), page, nest.WithMetrics(metrics)))

	bad := nest.El(box{Name: "a"}, nest.Slot("s", nest.El(nil)))
	require.Error(t, nest.Render(context.Background(), &bytes.Buffer{}, boxHost(), bad, nest.WithMetrics(metrics)))

	count, err := testutil.GatherAndCount(reg, "nest_passes_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	count, err = testutil.GatherAndCount(reg, "nest_component_renders_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	expected := `
# HELP nest_passes_total Total number of render passes, by result.
# TYPE nest_passes_total counter
nest_passes_total{result="ok"} 1
nest_passes_total{result="template_not_found"} 1
# HELP nest_component_renders_total Total number of component templates rendered, by route and result.
# TYPE nest_component_renders_total counter
nest_component_renders_total{result="ok",route="a"} 1
nest_component_renders_total{result="ok",route="b"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "nest_passes_total", "nest_component_renders_total"))

	// registering twice fails
	_, err = nest.NewMetrics(reg)
	require.Error(t, err)
}
