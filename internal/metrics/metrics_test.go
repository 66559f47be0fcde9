package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordAPICall(t *testing.T) {
	before := testutil.ToFloat64(apiCallsTotal.WithLabelValues("test_op", "success"))
	beforeErr := testutil.ToFloat64(apiCallsTotal.WithLabelValues("test_op", "error"))

	RecordAPICall("test_op", nil, 10*time.Millisecond)
	RecordAPICall("test_op", errors.New("boom"), 10*time.Millisecond)
	RecordAPICall("test_op", nil, 10*time.Millisecond)

	assert.Equal(t, before+2, testutil.ToFloat64(apiCallsTotal.WithLabelValues("test_op", "success")))
	assert.Equal(t, beforeErr+1, testutil.ToFloat64(apiCallsTotal.WithLabelValues("test_op", "error")))
}

func TestRecordPollAttempt(t *testing.T) {
	before := testutil.ToFloat64(pollAttemptsTotal.WithLabelValues("test_resource", "CREATING"))

	RecordPollAttempt("test_resource", "CREATING")

	assert.Equal(t, before+1, testutil.ToFloat64(pollAttemptsTotal.WithLabelValues("test_resource", "CREATING")))
}

func TestRegistryGathers(t *testing.T) {
	RecordPhase("test_phase", nil, time.Second)
	RecordPollDuration("test_resource", nil, time.Second)

	families, err := Registry.Gather()
	assert.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["demolab_provisioning_phase_duration_seconds"])
	assert.True(t, names["demolab_poll_duration_seconds"])
}
