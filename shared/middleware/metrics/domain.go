package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Domain counters incremented by the service layer.
var (
	BookingsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "Bookings created, by source (direct or donation_request)",
		},
		[]string{"source"},
	)

	TokenCollisions = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_token_collisions_total",
			Help:      "Token insert attempts rejected by the unique index",
		},
	)

	InventoryExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inventory_expired_total",
			Help:      "Inventory records flipped to expired by the sweep",
		},
	)

	PaymentVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_verifications_total",
			Help:      "Taxi payment signature checks, by result",
		},
		[]string{"result"},
	)

	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_sent_total",
			Help:      "Transactional emails, by result",
		},
		[]string{"result"},
	)
)
