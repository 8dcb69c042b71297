package kafka

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type Producer interface {
	SendMessage(topic, key string, message interface{}) error
	Close() error
}

type kafkaProducer struct {
	writer *kafka.Writer
}

// NewProducer connects to the given brokers and falls back to a log-only producer when
// no brokers are configured or none is reachable.
func NewProducer(brokers string, topic string) Producer {
	if strings.TrimSpace(brokers) == "" {
		logrus.Info("kafka brokers not configured, outcome events are logged only")
		return &mockProducer{}
	}
	addrs := strings.Split(brokers, ",")

	writer := &kafka.Writer{
		Addr:         kafka.TCP(addrs...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := kafka.DialContext(ctx, "tcp", addrs[0])
	if err != nil {
		logrus.WithError(err).Warn("kafka connection failed, using mock producer instead")
		return &mockProducer{}
	}
	defer conn.Close()

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	if err != nil {
		logrus.WithError(err).Debugf("could not create topic %s (might already exist)", topic)
	}

	logrus.WithField("brokers", brokers).Info("connected to kafka")
	return &kafkaProducer{writer: writer}
}

func (p *kafkaProducer) SendMessage(topic, key string, message interface{}) error {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: messageBytes,
		Time:  time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return err
	}

	logrus.WithField("topic", topic).Debug("message sent")
	return nil
}

func (p *kafkaProducer) Close() error {
	return p.writer.Close()
}

// mockProducer is used when kafka is not available
type mockProducer struct{}

func (m *mockProducer) SendMessage(topic, key string, message interface{}) error {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"topic": topic,
		"key":   key,
	}).Info("MOCK: " + string(messageBytes))
	return nil
}

func (m *mockProducer) Close() error {
	return nil
}
