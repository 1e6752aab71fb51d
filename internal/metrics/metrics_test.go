package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/farmart/livestock-api/internal/model"
)

func TestOrderMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewOrderMetrics(reg)

	m.ObserveCreated()
	m.ObserveCreated()
	m.ObserveTransition(model.OrderStatusPending, model.OrderStatusConfirmed)
	m.ObservePublish(nil)
	m.ObservePublish(errors.New("broker down"))

	assert.Equal(t, float64(2), testutil.ToFloat64(m.created))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.transitions.WithLabelValues("pending", "confirmed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.published.WithLabelValues("error")))
}

func TestOrderMetrics_NilIsNoop(t *testing.T) {
	var m *OrderMetrics
	assert.NotPanics(t, func() {
		m.ObserveCreated()
		m.ObserveTransition(model.OrderStatusPending, model.OrderStatusRejected)
		m.ObservePublish(nil)
	})
}
