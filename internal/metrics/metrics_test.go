package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertsGenerated_Labels(t *testing.T) {
	before := testutil.ToFloat64(AlertsGenerated.WithLabelValues("brute_force", "High"))
	AlertsGenerated.WithLabelValues("brute_force", "High").Inc()
	after := testutil.ToFloat64(AlertsGenerated.WithLabelValues("brute_force", "High"))

	assert.Equal(t, before+1, after)
}

func TestHandler_ServesMetrics(t *testing.T) {
	LinesRead.Inc()

	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "sentinel_lines_read_total")
}
