package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/haiminh/geoatlas/internal/config"
)

const (
	TopicAuthEmails = "auth.emails"
)

// ResetEmailPayload is the message handed to the mail worker. ResetString
// is the serialized email+token string; the raw token itself is not a
// separate field anywhere.
type ResetEmailPayload struct {
	Email       string    `json:"email"`
	ResetString string    `json:"reset_string"`
	RequestedAt time.Time `json:"requested_at"`
}

type KafkaProducerClient struct {
	AuthEmailsWriter *kafka.Writer
}

func NewKafkaProducerClient(cfg config.Config) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	// writer 'auth.emails'
	authEmailsWriter := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    TopicAuthEmails,
		Balancer: &kafka.LeastBytes{},
	}

	return &KafkaProducerClient{
		AuthEmailsWriter: authEmailsWriter,
	}, nil
}

// SendReset queues a reset email for the worker. Implements the account
// layer's ResetMailer port.
func (c *KafkaProducerClient) SendReset(ctx context.Context, email, resetString string) error {
	payload := ResetEmailPayload{
		Email:       email,
		ResetString: resetString,
		RequestedAt: time.Now(),
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("cannot marshal reset email payload: %w", err)
	}

	err = c.AuthEmailsWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(email),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("cannot publish reset email: %w", err)
	}
	return nil
}

func (c *KafkaProducerClient) Close() {
	if c.AuthEmailsWriter != nil {
		c.AuthEmailsWriter.Close()
	}
}
