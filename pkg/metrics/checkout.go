package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	ReasonEmptyCart            = "empty_cart"
	ReasonInsufficientStock    = "insufficient_stock"
	ReasonDuplicatePayment     = "duplicate_payment"
	ReasonOrderNumberCollision = "order_number_collision"
	ReasonInvalidInput         = "invalid_input"
	ReasonError                = "error"
)

// CheckoutMetrics counts confirm-payment outcomes.
type CheckoutMetrics struct {
	orders   prometheus.Counter
	revenue  prometheus.Counter
	failures *prometheus.CounterVec
}

func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	orders := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_orders_created_total",
		Help: "Orders committed by checkout.",
	})
	revenue := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_revenue_total",
		Help: "Sum of committed order totals in the store currency.",
	})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failures_total",
		Help: "Checkouts rejected or rolled back, by reason.",
	}, []string{"reason"})
	reg.MustRegister(orders, revenue, failures)
	return &CheckoutMetrics{orders: orders, revenue: revenue, failures: failures}
}

// OrderCreated records a committed order and its total.
func (c *CheckoutMetrics) OrderCreated(total float64) {
	if c == nil || c.orders == nil {
		return
	}
	c.orders.Inc()
	if total > 0 {
		c.revenue.Add(total)
	}
}

// Failed records a checkout that did not commit.
func (c *CheckoutMetrics) Failed(reason string) {
	if c == nil || c.failures == nil {
		return
	}
	c.failures.WithLabelValues(normalizeLabel(reason)).Inc()
}
