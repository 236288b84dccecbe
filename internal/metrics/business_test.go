// SPDX-License-Identifier: MIT
package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRun(t *testing.T) {
	before := testutil.ToFloat64(syncRunsTotal.WithLabelValues(OutcomeFetchError))
	finished := time.Unix(1700000000, 0)

	RecordRun(OutcomeFetchError, time.Second, finished)
	assert.Equal(t, before+1, testutil.ToFloat64(syncRunsTotal.WithLabelValues(OutcomeFetchError)))
	assert.Equal(t, float64(1700000000), testutil.ToFloat64(lastRunTimestamp))

	RecordRun(OutcomeSuccess, time.Second, finished.Add(time.Minute))
	assert.Equal(t, float64(1700000060), testutil.ToFloat64(lastSuccessTimestamp))
}

func TestEPGCounters(t *testing.T) {
	okBefore := testutil.ToFloat64(epgRequestsTotal.WithLabelValues("success"))
	skippedBefore := testutil.ToFloat64(epgBatchesSkipped)

	IncEPGRequest("success")
	IncEPGBatchSkipped()
	RecordEPGCollection(42, 3*time.Second)
	RecordChannels(65)

	assert.Equal(t, okBefore+1, testutil.ToFloat64(epgRequestsTotal.WithLabelValues("success")))
	assert.Equal(t, skippedBefore+1, testutil.ToFloat64(epgBatchesSkipped))
	assert.Equal(t, float64(42), testutil.ToFloat64(epgProgrammesCollected))
	assert.Equal(t, float64(65), testutil.ToFloat64(channelsTotal))
}

func TestWriteTextfile(t *testing.T) {
	RecordChannels(7)
	path := filepath.Join(t.TempDir(), "rlaxx.prom")
	require.NoError(t, WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "rlaxx_channels_total 7"), "textfile should expose channel gauge:\n%s", data)
}
