package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersAreExported(t *testing.T) {
	Promotions.WithLabelValues("metrics-test").Inc()
	Skips.WithLabelValues("metrics-test", "below_threshold").Add(2)
	assert.Equal(t, 1.0, testutil.ToFloat64(Promotions.WithLabelValues("metrics-test")))
	assert.Equal(t, 2.0, testutil.ToFloat64(Skips.WithLabelValues("metrics-test", "below_threshold")))

	srv := httptest.NewServer(promhttp.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `boardbot_promotions_total{board="metrics-test"} 1`)
}
