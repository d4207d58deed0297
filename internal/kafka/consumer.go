package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageHandler processes one message. A returned error makes the consumer
// redeliver the same message after a backoff; later messages wait behind it.
type MessageHandler func(ctx context.Context, msg kafka.Message) error

type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Consumer struct {
	reader        Reader
	logger        *zap.Logger
	retryDelay    time.Duration
	maxRetryDelay time.Duration
}

func NewReader(brokers []string, groupID, topic string, logger *zap.Logger) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        groupID,
		Topic:          topic,
		MinBytes:       10e3,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		MaxWait:        3 * time.Second,
		ErrorLogger:    kafka.LoggerFunc(func(msg string, args ...interface{}) { logger.Error(fmt.Sprintf(msg, args...)) }),
	})
}

func NewConsumer(reader Reader, logger *zap.Logger) *Consumer {
	return &Consumer{
		reader:        reader,
		logger:        logger.With(zap.String("component", "kafka_consumer")),
		retryDelay:    5 * time.Second,
		maxRetryDelay: time.Minute,
	}
}

// Run fetches messages until ctx is cancelled, then closes the reader.
func (c *Consumer) Run(ctx context.Context, handler MessageHandler) error {
	defer func() {
		if err := c.reader.Close(); err != nil {
			c.logger.Error("failed to close kafka reader", zap.Error(err))
		}
	}()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			c.logger.Error("failed to fetch message", zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(c.retryDelay):
			}
			continue
		}

		log := c.logger.With(
			zap.String("topic", msg.Topic),
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
		)

		if !c.handle(ctx, log, handler, msg) {
			return nil
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			log.Error("failed to commit offset", zap.Error(err))
		}
	}
}

// handle retries msg until the handler succeeds. It reports false when ctx
// ends first, in which case the offset must stay uncommitted.
func (c *Consumer) handle(ctx context.Context, log *zap.Logger, handler MessageHandler, msg kafka.Message) bool {
	delay := c.retryDelay
	for attempt := 1; ; attempt++ {
		err := handler(ctx, msg)
		if err == nil {
			return true
		}
		if ctx.Err() != nil {
			log.Warn("stopped while handling message, offset not committed", zap.Error(err))
			return false
		}
		log.Error("failed to handle message, retrying",
			zap.Int("attempt", attempt), zap.Duration("backoff", delay), zap.Error(err))

		select {
		case <-ctx.Done():
			return false
		case <-time.After(delay):
		}
		delay = min(delay*2, c.maxRetryDelay)
	}
}
