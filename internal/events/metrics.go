package events

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricNamespace = "prgate_bus"

const (
	topicLabel      = "topic"
	subscriberLabel = "subscriber"
)

type metricCollector struct {
	publishedEvents *prometheus.CounterVec
	droppedEvents   *prometheus.CounterVec
	handlerPanics   *prometheus.CounterVec
}

var metrics = newMetricCollector()

func newMetricCollector() *metricCollector {
	return &metricCollector{
		publishedEvents: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Name:      "published_events_total",
				Help:      "count of events published per topic",
			},
			[]string{topicLabel},
		),
		droppedEvents: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Name:      "dropped_events_total",
				Help:      "count of events dropped because a subscriber channel was full",
			},
			[]string{topicLabel, subscriberLabel},
		),
		handlerPanics: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Name:      "subscriber_panics_total",
				Help:      "count of recovered panics in subscribers",
			},
			[]string{topicLabel, subscriberLabel},
		),
	}
}

func (m *metricCollector) published(topic string) {
	m.publishedEvents.WithLabelValues(topic).Inc()
}

func (m *metricCollector) dropped(topic, subscriber string) {
	m.droppedEvents.WithLabelValues(topic, subscriber).Inc()
}

func (m *metricCollector) handlerPanic(topic, subscriber string) {
	m.handlerPanics.WithLabelValues(topic, subscriber).Inc()
}
