package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(LoginOutcomesTotal.WithLabelValues(MethodPassword, "parent"))
	LoginOutcomesTotal.WithLabelValues(MethodPassword, "parent").Inc()
	after := testutil.ToFloat64(LoginOutcomesTotal.WithLabelValues(MethodPassword, "parent"))

	assert.Equal(t, before+1, after)
}

func TestHandler_ExposesNamespace(t *testing.T) {
	LoginAttemptsTotal.WithLabelValues(MethodFederated).Inc()
	RoleLookupDuration.WithLabelValues("hit").Observe(0.01)

	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "secureguard_login_attempts_total")
	assert.Contains(t, string(body), "secureguard_role_lookup_duration_seconds")
}
