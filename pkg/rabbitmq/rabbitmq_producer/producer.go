package rabbitmq_producer

import (
	"context"
	"fmt"
	"sync"

	"listings-service/pkg/rabbitmq/rabbitmq_common"

	amqp "github.com/rabbitmq/amqp091-go"
)

// PublisherConfig - настройки производителя
type PublisherConfig struct {
	ExchangeName string // имя обменника, "" - обменник по умолчанию
	ExchangeType string // direct, fanout, topic, headers
	Durable      bool

	// DeclareExchange - объявлять ли обменник при создании производителя
	DeclareExchange bool

	Logger rabbitmq_common.Logger
}

// Publisher публикует сообщения в один обменник через общий ConnectionManager
type Publisher struct {
	config      PublisherConfig
	connManager *rabbitmq_common.ConnectionManager
	channel     *amqp.Channel
	mu          sync.Mutex
	logger      rabbitmq_common.Logger
}

func NewPublisher(cfg PublisherConfig, connManager *rabbitmq_common.ConnectionManager) (*Publisher, error) {
	if connManager == nil {
		return nil, fmt.Errorf("producer: connection manager is required")
	}
	if cfg.DeclareExchange && (cfg.ExchangeName == "" || cfg.ExchangeType == "") {
		return nil, fmt.Errorf("producer: exchange name and type are required to declare an exchange")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = rabbitmq_common.NewNoopLogger()
	}

	p := &Publisher{config: cfg, connManager: connManager, logger: logger}
	if err := p.openChannel(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) openChannel() error {
	_, ch, err := p.connManager.GetChannel()
	if err != nil {
		return fmt.Errorf("producer: failed to get channel from manager: %w", err)
	}

	if p.config.DeclareExchange {
		p.logger.Debug("Declaring exchange", "name", p.config.ExchangeName, "type", p.config.ExchangeType)
		err = ch.ExchangeDeclare(p.config.ExchangeName, p.config.ExchangeType, p.config.Durable, false, false, false, nil)
		if err != nil {
			_ = ch.Close()
			return fmt.Errorf("producer: failed to declare exchange '%s': %w", p.config.ExchangeName, err)
		}
	}

	p.channel = ch
	return nil
}

// Publish отправляет сообщение. Если канал закрылся (переподключение брокера),
// один раз пытается открыть новый.
func (p *Publisher) Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil || p.channel.IsClosed() {
		p.logger.Warn("Producer channel is closed, reopening", "exchange", p.config.ExchangeName)
		if err := p.openChannel(); err != nil {
			return err
		}
	}

	if err := p.channel.PublishWithContext(ctx, p.config.ExchangeName, routingKey, false, false, msg); err != nil {
		return fmt.Errorf("producer: failed to publish message: %w", err)
	}
	return nil
}

// Close закрывает канал производителя. Соединение принадлежит ConnectionManager.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil {
		return nil
	}
	err := p.channel.Close()
	p.channel = nil
	if err != nil {
		p.logger.Error(err, "Error closing producer channel")
		return err
	}
	p.logger.Info("Producer closed")
	return nil
}
