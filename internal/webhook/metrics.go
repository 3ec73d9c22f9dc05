package webhook

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricNamespace = "prgate_webhook"

const (
	eventTypeLabel = "event_type"
	reasonLabel    = "reason"
)

// Drop reasons for the dropped-events metric.
const (
	dropReasonMalformed        = "malformed_request"
	dropReasonUnconfiguredRepo = "unconfigured_repository"
	dropReasonInvalidSignature = "invalid_signature"
	dropReasonParseError       = "parse_error"
	dropReasonFiltered         = "filtered"
	dropReasonIgnored          = "ignored"
	dropReasonInternalError    = "internal_error"
)

type metricCollector struct {
	receivedEvents *prometheus.CounterVec
	droppedEvents  *prometheus.CounterVec
}

var metrics = newMetricCollector()

func newMetricCollector() *metricCollector {
	return &metricCollector{
		receivedEvents: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Name:      "received_events_total",
				Help:      "count of received webhook events per event type",
			},
			[]string{eventTypeLabel},
		),
		droppedEvents: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Name:      "dropped_events_total",
				Help:      "count of webhook events that were dropped instead of routed",
			},
			[]string{reasonLabel},
		),
	}
}

func (m *metricCollector) received(eventType string) {
	m.receivedEvents.WithLabelValues(eventType).Inc()
}

func (m *metricCollector) dropped(reason string) {
	m.droppedEvents.WithLabelValues(reason).Inc()
}
