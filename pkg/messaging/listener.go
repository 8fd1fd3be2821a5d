package messaging

import (
	"context"
	"log"

	"github.com/matst80/campsite-finder/pkg/common/jsoncompat"
	amqp "github.com/rabbitmq/amqp091-go"
)

func DeclareBindAndConsume(ch *amqp.Channel, prefix string, topic ChangeTopic) (<-chan amqp.Delivery, error) {
	name := getName(prefix, topic)
	q, err := ch.QueueDeclare(
		"",    // name
		false, // durable
		false, // delete when unused
		true,  // exclusive
		false, // no-wait

		nil, // arguments
	)
	if err != nil {
		return nil, err
	}
	err = ch.QueueBind(q.Name, name, name, false, nil)
	if err != nil {
		return nil, err
	}
	return ch.Consume(
		q.Name,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
}

// Decode unmarshals a message body into a V.
func Decode[V any](body []byte) (V, error) {
	var v V
	err := jsoncompat.Unmarshal(body, &v)
	return v, err
}

// ListenToTopic decodes every message on topic into a V and hands it to
// handle until ctx is done. Messages that fail to decode are rejected and
// logged; a handler error stops the listener.
func ListenToTopic[V any](ctx context.Context, ch *amqp.Channel, prefix string, topic ChangeTopic, handle func(V) error) error {
	msgs, err := DeclareBindAndConsume(ch, prefix, topic)
	if err != nil {
		return err
	}

	go func() {
		defer ch.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-msgs:
				if !ok {
					return
				}
				v, err := Decode[V](d.Body)
				if err != nil {
					log.Printf("Error decoding message on %s: %v", getName(prefix, topic), err)
					d.Reject(false)
					continue
				}
				if err := handle(v); err != nil {
					log.Printf("Error processing message: %v", err)
					d.Nack(false, true)
					return
				}
				d.Ack(false)
			}
		}
	}()
	return nil
}
