package stack

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/CPU-commits/CareerNest/metrics"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

const SOURCE = "careernest"

// NatsMessage is the envelope of every message this service publishes.
type NatsMessage struct {
	ID        string          `json:"id"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Source    string          `json:"source"`
}

type NatsClient struct {
	conn *nats.Conn
}

func NewNats(url, name string) (*NatsClient, error) {
	var conn *nats.Conn
	retry := backoff.NewExponentialBackOff()
	retry.MaxElapsedTime = time.Minute

	err := backoff.Retry(func() error {
		nc, err := nats.Connect(
			url,
			nats.Name(name),
			nats.MaxReconnects(-1),
			nats.ReconnectWait(2*time.Second),
		)
		if err != nil {
			return err
		}
		conn = nc
		return nil
	}, retry)
	if err != nil {
		return nil, fmt.Errorf("nats connect %s: %w", url, err)
	}
	return &NatsClient{conn: conn}, nil
}

func formatMessage(data interface{}) ([]byte, error) {
	id, err := uuid.NewUUID()
	if err != nil {
		return nil, err
	}
	message := NatsMessage{
		ID:        id.String(),
		Timestamp: time.Now().UTC(),
		Source:    SOURCE,
	}
	if data != nil {
		payload, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		message.Data = payload
	}
	return json.Marshal(message)
}

// DecodeMessage unwraps a NatsMessage envelope into v. Bare JSON payloads
// (publishers that do not use the envelope) are decoded as they are.
func DecodeMessage(data []byte, v interface{}) error {
	var message NatsMessage
	if err := json.Unmarshal(data, &message); err == nil && len(message.Data) > 0 {
		return json.Unmarshal(message.Data, v)
	}
	return json.Unmarshal(data, v)
}

func (n *NatsClient) Publish(subject string, data []byte) error {
	err := n.conn.Publish(subject, data)
	metrics.NatsMessagesPublished.WithLabelValues(subject, metrics.StatusLabel(err)).Inc()
	return err
}

func (n *NatsClient) PublishEncode(subject string, data interface{}) error {
	message, err := formatMessage(data)
	if err != nil {
		return err
	}
	return n.Publish(subject, message)
}

func (n *NatsClient) Subscribe(subject string, handler nats.MsgHandler) (*nats.Subscription, error) {
	return n.conn.Subscribe(subject, handler)
}

func (n *NatsClient) QueueSubscribe(subject, queue string, handler nats.MsgHandler) (*nats.Subscription, error) {
	return n.conn.QueueSubscribe(subject, queue, handler)
}

func (n *NatsClient) Request(subject string, data []byte, timeout time.Duration) (*nats.Msg, error) {
	return n.conn.Request(subject, data, timeout)
}

func (n *NatsClient) Close() {
	if n.conn != nil {
		n.conn.Drain()
	}
}
