package rabbitmq_common

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	amqp "github.com/rabbitmq/amqp091-go"
)

const maxReconnectInterval = 30 * time.Second

// ConnectionManager держит одно соединение RabbitMQ на процесс. Когда брокер
// рвет соединение, менеджер переподключается с экспоненциальной паузой.
type ConnectionManager struct {
	url    string
	Logger Logger

	mu   sync.RWMutex
	conn *amqp.Connection

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewConnectionManager подключается сразу. Ошибка первого подключения
// возвращается вызывающему, повторов нет.
func NewConnectionManager(url string, logger Logger) (*ConnectionManager, error) {
	if url == "" {
		return nil, fmt.Errorf("ConnectionManager: url is required")
	}
	logger = WithKeyValues(logger, "component", "ConnectionManager")

	conn, err := amqp.Dial(url)
	if err != nil {
		logger.Error(err, "Initial connection failed")
		return nil, fmt.Errorf("ConnectionManager: failed to dial RabbitMQ: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &ConnectionManager{url: url, Logger: logger, conn: conn, ctx: ctx, cancel: cancel}
	m.wg.Add(1)
	go m.watch(conn)
	return m, nil
}

// IsConnected - есть ли сейчас живое соединение.
func (m *ConnectionManager) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.conn != nil && !m.conn.IsClosed()
}

// GetChannel открывает новый канал на текущем соединении.
func (m *ConnectionManager) GetChannel() (*amqp.Connection, *amqp.Channel, error) {
	m.mu.RLock()
	conn := m.conn
	m.mu.RUnlock()

	if conn == nil || conn.IsClosed() {
		return nil, nil, fmt.Errorf("ConnectionManager: not connected")
	}
	ch, err := conn.Channel()
	if err != nil {
		return conn, nil, fmt.Errorf("ConnectionManager: failed to open a channel: %w", err)
	}
	return conn, ch, nil
}

// watch ждет закрытия соединения и поднимает новое.
func (m *ConnectionManager) watch(conn *amqp.Connection) {
	defer m.wg.Done()

	for {
		closed := conn.NotifyClose(make(chan *amqp.Error, 1))
		select {
		case <-m.ctx.Done():
			return
		case amqpErr := <-closed:
			if m.ctx.Err() != nil {
				return
			}
			m.Logger.Warn("Connection lost, reconnecting", "reason", fmt.Sprint(amqpErr))
		}

		next, err := m.redial()
		if err != nil {
			// сюда попадаем только после Close
			return
		}
		conn = next
	}
}

func (m *ConnectionManager) redial() (*amqp.Connection, error) {
	policy := backoff.NewExponentialBackOff()
	policy.MaxInterval = maxReconnectInterval

	for {
		conn, err := backoff.Retry(m.ctx, func() (*amqp.Connection, error) {
			return amqp.Dial(m.url)
		}, backoff.WithBackOff(policy), backoff.WithNotify(func(err error, wait time.Duration) {
			m.Logger.Error(err, "Reconnect failed", "retry_in", wait.String())
		}))
		if m.ctx.Err() != nil {
			if conn != nil {
				_ = conn.Close()
			}
			return nil, m.ctx.Err()
		}
		if err != nil {
			policy.Reset()
			continue
		}

		m.mu.Lock()
		m.conn = conn
		m.mu.Unlock()
		m.Logger.Info("Reconnected")
		return conn, nil
	}
}

// Close останавливает переподключение и закрывает соединение.
func (m *ConnectionManager) Close() error {
	m.cancel()

	m.mu.Lock()
	conn := m.conn
	m.conn = nil
	m.mu.Unlock()

	var err error
	if conn != nil && !conn.IsClosed() {
		m.Logger.Debug("Closing the connection")
		if err = conn.Close(); err != nil {
			m.Logger.Error(err, "Failed to close connection properly")
		}
	}
	m.wg.Wait()
	return err
}
