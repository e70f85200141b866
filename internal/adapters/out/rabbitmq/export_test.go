package rabbitmq

import (
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

type PublishChannel = publishChannel

func NewPublisherWithChannel(ch PublishChannel, acks <-chan amqp.Confirmation, exchange string, logger logrus.FieldLogger) *Publisher {
	return newPublisher(ch, acks, exchange, logger)
}
