package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// OrderMetrics records order lifecycle activity for the admin dashboard.
type OrderMetrics struct {
	created   prometheus.Counter
	cancelled prometheus.Counter
	loss      prometheus.Counter
	revenue   prometheus.Gauge
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	created := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders successfully created at checkout.",
	})
	cancelled := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_cancelled_total",
		Help: "Orders transitioned into the cancelled status.",
	})
	loss := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_cancellation_loss_dollars_total",
		Help: "Cumulative order value lost to cancellations.",
	})
	revenue := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "orders_revenue_dollars",
		Help: "Sum of totals over orders not in the cancelled status.",
	})
	reg.MustRegister(created, cancelled, loss, revenue)
	return &OrderMetrics{
		created:   created,
		cancelled: cancelled,
		loss:      loss,
		revenue:   revenue,
	}
}

// IncCreated increments the created-orders counter.
func (m *OrderMetrics) IncCreated() {
	if m == nil || m.created == nil {
		return
	}
	m.created.Inc()
}

// ObserveCancellation records a cancellation and the order value it removed.
func (m *OrderMetrics) ObserveCancellation(lost decimal.Decimal) {
	if m == nil || m.cancelled == nil {
		return
	}
	m.cancelled.Inc()
	if v, _ := lost.Float64(); v > 0 {
		m.loss.Add(v)
	}
}

// SetRevenue publishes the derived revenue aggregate.
func (m *OrderMetrics) SetRevenue(revenue decimal.Decimal) {
	if m == nil || m.revenue == nil {
		return
	}
	v, _ := revenue.Float64()
	m.revenue.Set(v)
}
