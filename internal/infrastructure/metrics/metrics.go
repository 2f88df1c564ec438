package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the news engine
type Metrics struct {
	// Webhook metrics
	WebhookRequestsTotal   *prometheus.CounterVec
	WebhookProcessDuration prometheus.Histogram

	// Classification metrics
	ClassificationsTotal   *prometheus.CounterVec
	ClassificationDuration prometheus.Histogram
	ClassificationAccepted prometheus.Counter

	// Notification metrics
	NotificationsTotal *prometheus.CounterVec

	// Kafka metrics
	KafkaMessagesProduced prometheus.Counter
	KafkaProduceErrors    *prometheus.CounterVec
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// GetDefaultMetrics returns the singleton metrics instance
func GetDefaultMetrics() *Metrics {
	once.Do(func() {
		defaultMetrics = newMetrics()
	})
	return defaultMetrics
}

func newMetrics() *Metrics {
	return &Metrics{
		WebhookRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "news_engine_webhook_requests_total",
				Help: "Total number of inbound webhook requests",
			},
			[]string{"source", "status"},
		),
		WebhookProcessDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "news_engine_webhook_process_duration_seconds",
			Help:    "Duration of async webhook processing in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),

		ClassificationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "news_engine_classifications_total",
				Help: "Total number of classification attempts by method",
			},
			[]string{"method"},
		),
		ClassificationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "news_engine_classification_duration_seconds",
			Help:    "Duration of classification attempts in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		ClassificationAccepted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "news_engine_classifications_accepted_total",
			Help: "Total number of accepted classification results",
		}),

		NotificationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "news_engine_notifications_total",
				Help: "Total number of notification delivery attempts",
			},
			[]string{"channel_type", "status"},
		),

		KafkaMessagesProduced: promauto.NewCounter(prometheus.CounterOpts{
			Name: "news_engine_kafka_messages_produced_total",
			Help: "Total number of messages produced to Kafka",
		}),
		KafkaProduceErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "news_engine_kafka_produce_errors_total",
				Help: "Total number of Kafka produce errors",
			},
			[]string{"topic"},
		),
	}
}
