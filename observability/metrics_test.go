package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecorders(t *testing.T) {
	Init()
	Init() // second call must not re-register

	before := testutil.ToFloat64(instructionCounter.WithLabelValues("configure", "OK"))
	ObserveInstruction("configure", "OK")
	require.Equal(t, before+1, testutil.ToFloat64(instructionCounter.WithLabelValues("configure", "OK")))

	ObserveBlock(3, 10*time.Millisecond)
	require.GreaterOrEqual(t, testutil.ToFloat64(blockTxCounter), float64(3))

	SetCommitted(7, 2)
	require.Equal(t, float64(7), testutil.ToFloat64(heightGauge))
	require.Equal(t, float64(2), testutil.ToFloat64(recordsGauge))
}
