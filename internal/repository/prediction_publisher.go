package repository

import (
	"context"
	"time"

	"StockCast/internal/domain/models"
	pkgkafka "StockCast/pkg/kafka"
)

// PredictionPublisher emits a compact event to a Kafka topic after every
// freshly computed full-horizon prediction. Publishing is best-effort; the
// caller logs failures and serves the response regardless.
type PredictionPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewPredictionPublisher creates a publisher for the given topic.
func NewPredictionPublisher(producer *pkgkafka.Producer, topic string) *PredictionPublisher {
	return &PredictionPublisher{producer: producer, topic: topic}
}

// Publish sends the prediction event keyed by symbol.
func (p *PredictionPublisher) Publish(ctx context.Context, result *models.PredictionResult) error {
	event := models.PredictionEvent{
		Symbol:         result.Symbol,
		CurrentPrice:   result.CurrentPrice,
		Predictions:    result.Predictions,
		TrainingTimeMs: result.TrainingTimeMs,
		GeneratedAt:    time.Now().UTC(),
	}
	return p.producer.Publish(ctx, p.topic, []byte(result.Symbol), event)
}

// Close closes the underlying producer.
func (p *PredictionPublisher) Close() error {
	return p.producer.Close()
}
