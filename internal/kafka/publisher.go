package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/parkqr/parking/internal/db"
	"github.com/parkqr/parking/internal/metrics"
	"github.com/parkqr/parking/internal/repository"
	"github.com/parkqr/parking/internal/storage"
)

type PublisherConfig struct {
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
	// Lease is how long a claimed task may stay PROCESSING before another
	// poll reclaims it.
	Lease time.Duration
}

const (
	defaultLease     = 2 * time.Minute
	writeBackTimeout = 5 * time.Second
)

// Publisher relays outbox tasks to the broker. Tasks are claimed inside a
// transaction so several publishers can share one table.
type Publisher struct {
	db             db.DB
	repo           storage.OutboxTaskRepository
	producer       Producer
	config         PublisherConfig
	logger         *zap.Logger
	timeNow        func() time.Time
	wg             sync.WaitGroup
	shutdownSignal chan struct{}
	stopOnce       sync.Once
}

func NewPublisher(db db.DB, repo storage.OutboxTaskRepository, producer Producer, config PublisherConfig, logger *zap.Logger) *Publisher {
	if config.Lease <= 0 {
		config.Lease = defaultLease
	}
	return &Publisher{
		db:             db,
		repo:           repo,
		producer:       producer,
		config:         config,
		logger:         logger.With(zap.String("component", "outbox_publisher")),
		timeNow:        time.Now,
		shutdownSignal: make(chan struct{}),
	}
}

func (p *Publisher) Run(ctx context.Context) {
	p.logger.Info("starting outbox publisher",
		zap.Duration("poll_interval", p.config.PollInterval),
		zap.Int("batch_size", p.config.BatchSize))
	p.wg.Add(1)
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := p.processBatch(ctx); err != nil {
				p.logger.Error("failed to process outbox batch", zap.Error(err))
			}
		case <-p.shutdownSignal:
			p.logger.Info("outbox publisher received shutdown signal")
			return
		case <-ctx.Done():
			p.logger.Info("outbox publisher context cancelled")
			return
		}
	}
}

func (p *Publisher) Shutdown() {
	p.stopOnce.Do(func() {
		close(p.shutdownSignal)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		done := make(chan struct{})
		go func() {
			p.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
			p.logger.Info("outbox publisher stopped")
		case <-shutdownCtx.Done():
			p.logger.Warn("outbox publisher shutdown timed out")
		}

		if err := p.producer.Close(); err != nil {
			p.logger.Error("failed to close producer", zap.Error(err))
		}
	})
}

func (p *Publisher) processBatch(ctx context.Context) error {
	tx, err := p.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for fetching tasks: %w", err)
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	staleBefore := p.timeNow().UTC().Add(-p.config.Lease)
	tasks, err := p.repo.GetProcessableTasks(ctx, tx, p.config.BatchSize, p.config.MaxAttempts, staleBefore)
	if err != nil {
		return fmt.Errorf("failed to get processable tasks: %w", err)
	}

	if len(tasks) == 0 {
		return tx.Commit(ctx)
	}

	p.logger.Debug("fetched outbox tasks", zap.Int("count", len(tasks)))

	for _, task := range tasks {
		err := p.repo.UpdateTaskStatusTx(ctx, tx, task.ID, repository.TaskStatusProcessing, task.Attempts, nil, nil)
		if err != nil {
			return fmt.Errorf("failed to mark task %s as PROCESSING: %w", task.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction after marking tasks as PROCESSING: %w", err)
	}

	for i, task := range tasks {
		select {
		case <-p.shutdownSignal:
			p.release(ctx, tasks[i:])
			return errors.New("publisher shutdown during batch processing")
		case <-ctx.Done():
			p.release(ctx, tasks[i:])
			return ctx.Err()
		default:
		}

		if err := p.processSingleTask(ctx, task); err != nil {
			p.logger.Error("failed to process outbox task", zap.Stringer("task_id", task.ID), zap.Error(err))
		}
	}

	return nil
}

// writeBackContext outlives cancellation of ctx so that a send which already
// happened is still recorded.
func writeBackContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), writeBackTimeout)
}

// release hands claimed but unsent tasks back to the queue with their
// previous status and attempt count.
func (p *Publisher) release(ctx context.Context, tasks []*repository.OutboxTask) {
	wctx, cancel := writeBackContext(ctx)
	defer cancel()

	for _, task := range tasks {
		status := task.Status
		if status == "" || status == repository.TaskStatusProcessing {
			status = repository.TaskStatusCreated
		}
		if err := p.repo.UpdateTaskStatus(wctx, p.db, task.ID, status, task.Attempts, task.LastError, nil); err != nil {
			p.logger.Error("failed to release outbox task", zap.Stringer("task_id", task.ID), zap.Error(err))
			continue
		}
		p.logger.Debug("released outbox task", zap.Stringer("task_id", task.ID), zap.String("status", string(status)))
	}
}

func (p *Publisher) processSingleTask(ctx context.Context, task *repository.OutboxTask) error {
	err := p.producer.SendMessage(ctx, task.Topic, []byte(task.ID.String()), task.Payload)
	if err != nil && ctx.Err() != nil {
		p.release(ctx, []*repository.OutboxTask{task})
		return err
	}

	wctx, cancel := writeBackContext(ctx)
	defer cancel()

	if err != nil {
		newAttempts := task.Attempts + 1
		errMsg := err.Error()

		if newAttempts >= p.config.MaxAttempts {
			p.logger.Error("outbox task reached max attempts",
				zap.Stringer("task_id", task.ID), zap.Int("attempts", newAttempts))
			metrics.OutboxTasksTotal.WithLabelValues("dead").Inc()
		} else {
			metrics.OutboxTasksTotal.WithLabelValues("failed").Inc()
		}

		updateErr := p.repo.UpdateTaskStatus(wctx, p.db, task.ID, repository.TaskStatusFailed, newAttempts, &errMsg, nil)
		if updateErr != nil {
			return fmt.Errorf("failed to update task status after send failure (send error: %v): %w", err, updateErr)
		}
		return err
	}

	now := p.timeNow().UTC()
	if err := p.repo.UpdateTaskStatus(wctx, p.db, task.ID, repository.TaskStatusDone, task.Attempts, nil, &now); err != nil {
		return fmt.Errorf("failed to update task status after successful send: %w", err)
	}
	metrics.OutboxTasksTotal.WithLabelValues("done").Inc()
	p.logger.Debug("outbox task published", zap.Stringer("task_id", task.ID), zap.String("topic", task.Topic))
	return nil
}
