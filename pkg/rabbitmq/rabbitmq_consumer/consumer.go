package rabbitmq_consumer

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/pkg/rabbitmq/rabbitmq_common"
)

// MessageHandler обрабатывает одно сообщение. Ошибка означает Nack без повторной постановки.
type MessageHandler func(ctx context.Context, delivery amqp.Delivery) error

// ConsumerConfig конфигурация для потребителя
type ConsumerConfig struct {
	// QueueName пустой - имя очереди сгенерирует сервер.
	QueueName       string
	DurableQueue    bool
	ExclusiveQueue  bool
	AutoDeleteQueue bool

	// Обменник, к которому привязывается очередь. Объявляется, если его нет.
	ExchangeName    string
	ExchangeType    string
	DurableExchange bool
	RoutingKey      string

	PrefetchCount int
	ConsumerTag   string

	Logger rabbitmq_common.Logger
}

func (c ConsumerConfig) Validate() error {
	if c.ExchangeName == "" {
		return fmt.Errorf("consumer: exchange name is required")
	}
	if c.ExchangeType == "" {
		return fmt.Errorf("consumer: exchange type is required")
	}
	if c.QueueName == "" && !c.ExclusiveQueue {
		return fmt.Errorf("consumer: server-named queue must be exclusive")
	}
	return nil
}

// Consumer читает очередь, привязанную к одному обменнику, и передает
// сообщения обработчику по одному.
type Consumer struct {
	config     ConsumerConfig
	handler    MessageHandler
	connection *amqp.Connection
	channel    *amqp.Channel
	queueName  string
	wg         sync.WaitGroup

	Logger rabbitmq_common.Logger
}

// NewConsumer объявляет обменник и очередь и привязывает их.
func NewConsumer(cfg ConsumerConfig, handler MessageHandler, connManager *rabbitmq_common.ConnectionManager) (*Consumer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if handler == nil {
		return nil, fmt.Errorf("consumer: message handler is required")
	}

	logger := rabbitmq_common.WithKeyValues(cfg.Logger, "component", "Consumer", "exchange_name", cfg.ExchangeName)

	conn, ch, err := connManager.GetChannel()
	if err != nil {
		return nil, fmt.Errorf("consumer: failed to get channel from manager: %w", err)
	}

	c := &Consumer{config: cfg, handler: handler, connection: conn, channel: ch, Logger: logger}
	if err := c.setup(); err != nil {
		_ = ch.Close()
		return nil, err
	}
	return c, nil
}

func (c *Consumer) setup() error {
	if c.config.PrefetchCount > 0 {
		if err := c.channel.Qos(c.config.PrefetchCount, 0, false); err != nil {
			return fmt.Errorf("consumer: failed to set QoS: %w", err)
		}
	}

	c.Logger.Debug("Declaring exchange", "type", c.config.ExchangeType)
	err := c.channel.ExchangeDeclare(
		c.config.ExchangeName,
		c.config.ExchangeType,
		c.config.DurableExchange,
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("consumer: failed to declare exchange '%s': %w", c.config.ExchangeName, err)
	}

	q, err := c.channel.QueueDeclare(
		c.config.QueueName,
		c.config.DurableQueue,
		c.config.AutoDeleteQueue,
		c.config.ExclusiveQueue,
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("consumer: failed to declare queue '%s': %w", c.config.QueueName, err)
	}
	c.queueName = q.Name

	c.Logger.Debug("Binding queue to exchange", "queue_name", c.queueName, "routing_key", c.config.RoutingKey)
	if err := c.channel.QueueBind(c.queueName, c.config.RoutingKey, c.config.ExchangeName, false, nil); err != nil {
		return fmt.Errorf("consumer: failed to bind queue '%s': %w", c.queueName, err)
	}
	return nil
}

// StartConsuming блокируется, пока не отменен ctx или не закрыто соединение.
func (c *Consumer) StartConsuming(ctx context.Context) error {
	if c.channel == nil || c.connection == nil || c.connection.IsClosed() {
		return fmt.Errorf("consumer: not connected")
	}

	msgs, err := c.channel.Consume(
		c.queueName,
		c.config.ConsumerTag,
		false, // auto-ack
		c.config.ExclusiveQueue,
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("consumer: failed to register a consumer on queue '%s': %w", c.queueName, err)
	}
	c.Logger.Info("[*] Waiting for messages on queue", "queue_name", c.queueName)

	notifyClose := c.connection.NotifyClose(make(chan *amqp.Error, 1))

	for {
		select {
		case <-ctx.Done():
			c.Logger.Info("Context cancelled. Shutting down consumer.", "queue_name", c.queueName)
			return nil
		case amqpErr, ok := <-notifyClose:
			if !ok || amqpErr == nil {
				return fmt.Errorf("consumer: connection closed")
			}
			c.Logger.Error(amqpErr, "Connection closed for consumer.", "queue_name", c.queueName)
			return amqpErr
		case d, ok := <-msgs:
			if !ok {
				c.Logger.Info("Deliveries channel closed by RabbitMQ. Exiting loop.", "queue_name", c.queueName)
				return nil
			}
			c.handle(ctx, d)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, d amqp.Delivery) {
	c.wg.Add(1)
	defer c.wg.Done()

	if err := c.handler(ctx, d); err != nil {
		c.Logger.Error(err, "Handler error for message", "delivery_tag", d.DeliveryTag)
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}

// Close ждет текущий обработчик и закрывает канал. Соединение принадлежит ConnectionManager.
func (c *Consumer) Close() error {
	c.wg.Wait()
	if c.channel == nil {
		return nil
	}
	err := c.channel.Close()
	c.channel = nil
	if err != nil {
		c.Logger.Error(err, "Error closing channel")
		return err
	}
	c.Logger.Info("Consumer closed")
	return nil
}
