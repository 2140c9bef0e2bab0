package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// KafkaNotifier publishes terminal notifications to the back-office feed.
// Delivery is fire-and-forget: a broker outage (likely whenever the
// terminal is offline) only logs.
type KafkaNotifier struct {
	writer *kafka.Writer
	store  string
	logger zerolog.Logger
}

func NewKafkaNotifier(brokers []string, topic, store string, logger zerolog.Logger) *KafkaNotifier {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaNotifier{writer: w, store: store, logger: logger}
}

type notificationEvent struct {
	Store   string    `json:"store"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

func (n *KafkaNotifier) Notify(ctx context.Context, message string) {
	payload, err := json.Marshal(notificationEvent{
		Store:   n.store,
		Message: message,
		At:      time.Now().UTC(),
	})
	if err != nil {
		n.logger.Error().Err(err).Msg("marshal notification")
		return
	}
	msg := kafka.Message{
		Key:   []byte(n.store),
		Value: payload,
	}
	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		n.logger.Warn().Err(err).Msg("notification publish failed")
	}
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
