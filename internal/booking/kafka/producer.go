package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"ms-bookings/internal/models"
)

const (
	TopicBookingCreated   = "booking-created"
	TopicBookingStatus    = "booking-status"
	TopicBookingPayment   = "booking-payment"
	TopicBookingCancelled = "booking-cancelled"
)

// Topics lists every topic the booking service writes, for topic creation
// at boot.
func Topics() []string {
	return []string{TopicBookingCreated, TopicBookingStatus, TopicBookingPayment, TopicBookingCancelled}
}

// Event is the wire shape of a booking mutation on the audit stream.
type Event struct {
	Topic   string         `json:"-"`
	Booking models.Booking `json:"booking"`
}

// Producer streams booking mutations to Kafka, one topic per mutation
// kind, keyed by booking id.
type Producer struct {
	Writer *kafka.Writer
}

// NewProducer builds a producer that writes to any of the booking topics.
// The topic is chosen per message.
func NewProducer(brokers []string) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{Writer: writer}
}

func (p *Producer) publish(topic string, b models.Booking) error {
	msgBytes, err := json.Marshal(b)
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(context.Background(),
		kafka.Message{
			Topic: topic,
			Key:   []byte(b.ID),
			Value: msgBytes,
		},
	)
}

func (p *Producer) PublishBookingCreated(b models.Booking) error {
	return p.publish(TopicBookingCreated, b)
}

func (p *Producer) PublishBookingStatus(b models.Booking) error {
	return p.publish(TopicBookingStatus, b)
}

func (p *Producer) PublishBookingPayment(b models.Booking) error {
	return p.publish(TopicBookingPayment, b)
}

func (p *Producer) PublishBookingCancelled(b models.Booking) error {
	return p.publish(TopicBookingCancelled, b)
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}
