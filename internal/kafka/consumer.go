package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"ms-bookings/internal/logger"
	"ms-bookings/internal/models"
)

// Consumer reads the booking audit stream. The booking service publishes a
// full booking snapshot per mutation; the handler receives it along with
// the topic that classifies the mutation.
type Consumer struct {
	reader *kafka.Reader
	log    *logger.Logger
}

func NewConsumer(brokers []string, topics []string, groupID string, log *logger.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		GroupTopics: topics,
		GroupID:     groupID,
		MinBytes:    10e3,
		MaxBytes:    10e6,
	})
	return &Consumer{reader: reader, log: log}
}

// Start consumes until the context is cancelled.
func (c *Consumer) Start(ctx context.Context, handler func(topic string, b models.Booking)) {
	c.log.LogKafka("START", "booking events", "consumer running")

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.log.Error("KAFKA", "read message: "+err.Error())
			continue
		}

		var b models.Booking
		if err := json.Unmarshal(msg.Value, &b); err != nil {
			c.log.Error("KAFKA", "decode booking event: "+err.Error())
			continue
		}
		handler(msg.Topic, b)
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
