// Package metrics exposes Prometheus instrumentation for the offer workflow.
// This is part of the platform layer and contains no business logic.
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// OffersCreated counts offers created, labeled by kind.
	OffersCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "offers_created_total",
		Help: "Number of offers created, by kind.",
	}, []string{"kind"})

	// OfferTransitions counts completed offer state transitions.
	OfferTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "offer_transitions_total",
		Help: "Number of completed offer state transitions, by kind and target state.",
	}, []string{"kind", "state"})

	// SiblingsCancelled counts tender offers cancelled by cascading resolution.
	SiblingsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "offer_siblings_cancelled_total",
		Help: "Number of sibling tenders cancelled when a competing tender was accepted.",
	})

	// InboundMessages counts inbound webhook messages by resolution status.
	InboundMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inbound_messages_total",
		Help: "Number of inbound SMS webhook messages, by resolution status.",
	}, []string{"status"})

	// NotificationFailures counts post-commit notification delivery failures.
	NotificationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_failures_total",
		Help: "Number of notification delivery failures, by channel.",
	}, []string{"channel"})
)

// Handler returns a gin handler serving the Prometheus scrape endpoint.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
