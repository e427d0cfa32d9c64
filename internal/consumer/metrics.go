package consumer

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	stageDecode  = "decode"
	stageHandler = "handler"
)

var (
	recordedEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fittrack",
		Subsystem: "consumer",
		Name:      "events_recorded_total",
		Help:      "Exercise change events written to the audit trail and committed.",
	}, []string{"topic", "event_type"})

	failedEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fittrack",
		Subsystem: "consumer",
		Name:      "events_failed_total",
		Help:      "Exercise change events the audit handler could not record; these are not committed.",
	}, []string{"topic", "event_type"})

	malformedEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fittrack",
		Subsystem: "consumer",
		Name:      "events_malformed_total",
		Help:      "Exercise change events committed without being recorded because their headers or payload were unusable.",
	}, []string{"topic", "stage"})

	lastRecordedGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "fittrack",
		Subsystem: "consumer",
		Name:      "last_recorded_event_timestamp_seconds",
		Help:      "Kafka timestamp of the newest exercise change event recorded for each topic.",
	}, []string{"topic"})
)

func init() {
	prometheus.MustRegister(recordedEvents, failedEvents, malformedEvents, lastRecordedGauge)
}

func recordProcessed(msg Message) {
	recordedEvents.WithLabelValues(msg.Topic, msg.EventType).Inc()
	if !msg.Timestamp.IsZero() {
		lastRecordedGauge.WithLabelValues(msg.Topic).Set(float64(msg.Timestamp.Unix()))
	}
}

func recordHandlerError(msg Message) {
	failedEvents.WithLabelValues(msg.Topic, msg.EventType).Inc()
}

func recordMalformed(topic, stage string) {
	malformedEvents.WithLabelValues(topic, stage).Inc()
}
