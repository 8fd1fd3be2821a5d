package messaging

import (
	"fmt"

	"github.com/matst80/campsite-finder/pkg/common/jsoncompat"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends events to a topic.
type Publisher interface {
	Publish(topic ChangeTopic, data any) error
	Close() error
}

func DefineTopic(ch *amqp.Channel, prefix string, topic ChangeTopic) error {
	name := getName(prefix, topic)
	if err := ch.ExchangeDeclare(
		name,    // name
		"topic", // type
		true,    // durable
		false,   // auto-delete
		false,   // internal
		false,   // noWait
		nil,     // arguments
	); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(
		name,  // name of the queue
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // noWait
		nil,   // arguments
	); err != nil {
		return err
	}
	return ch.QueueBind(name, name, name, false, nil)
}

func getName(prefix string, topic ChangeTopic) string {
	return fmt.Sprintf("%s_%s", prefix, topic)
}

// Encode is the message body of data.
func Encode(data any) ([]byte, error) {
	return jsoncompat.Marshal(data)
}

func SendChange[V any](c *amqp.Connection, prefix string, topic ChangeTopic, data V) error {
	bytes, err := Encode(data)
	if err != nil {
		return err
	}
	ch, err := c.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	name := getName(prefix, topic)
	return ch.Publish(
		name,
		name,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        bytes,
		},
	)
}

// RabbitPublisher publishes to topic exchanges named prefix_topic.
type RabbitPublisher struct {
	prefix     string
	connection *amqp.Connection
}

// NewRabbitPublisher connects to url and declares topics.
func NewRabbitPublisher(url, prefix string, topics ...ChangeTopic) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	defer ch.Close()
	for _, topic := range topics {
		if err := DefineTopic(ch, prefix, topic); err != nil {
			conn.Close()
			return nil, fmt.Errorf("declare %s: %w", getName(prefix, topic), err)
		}
	}
	return &RabbitPublisher{
		prefix:     prefix,
		connection: conn,
	}, nil
}

func (p *RabbitPublisher) Publish(topic ChangeTopic, data any) error {
	return SendChange(p.connection, p.prefix, topic, data)
}

func (p *RabbitPublisher) Close() error {
	return p.connection.Close()
}
