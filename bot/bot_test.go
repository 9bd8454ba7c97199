package bot

import (
	"net/http"
	"testing"

	"songboard-bot/metrics"

	"github.com/stretchr/testify/assert"
)

func TestStopShutsDownMetricsServer(t *testing.T) {
	srv := metrics.Serve("127.0.0.1:0")
	b := &Bot{Metrics: srv}

	b.Stop()

	assert.ErrorIs(t, srv.ListenAndServe(), http.ErrServerClosed)
}
