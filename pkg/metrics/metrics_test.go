package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/medreminder-api/internal/repository"
)

func TestRecordRemoved(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg, "test")

	m.RecordRemoved(repository.KindPatient)
	m.RecordRemoved(repository.KindConfirmation)
	m.RecordRemoved(repository.KindConfirmation)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CascadeRemovals.WithLabelValues("patients")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CascadeRemovals.WithLabelValues("confirmations")))
}

func TestSeparateRegistriesDoNotCollide(t *testing.T) {
	require.NotPanics(t, func() {
		NewMetrics(prometheus.NewRegistry(), "test")
		NewMetrics(prometheus.NewRegistry(), "test")
	})
}
