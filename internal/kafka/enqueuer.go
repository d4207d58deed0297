package kafka

import (
	"context"

	"github.com/google/uuid"

	"github.com/parkqr/parking/internal/db"
	"github.com/parkqr/parking/internal/repository"
	"github.com/parkqr/parking/internal/storage"
)

// OutboxEnqueuer stores a message as an outbox task for the Publisher.
type OutboxEnqueuer struct {
	db   db.DB
	repo storage.OutboxTaskRepository
}

func NewOutboxEnqueuer(db db.DB, repo storage.OutboxTaskRepository) *OutboxEnqueuer {
	return &OutboxEnqueuer{db: db, repo: repo}
}

func (e *OutboxEnqueuer) Enqueue(ctx context.Context, topic, key string, payload []byte) error {
	task := &repository.OutboxTask{Topic: topic, Payload: payload}
	if id, err := uuid.Parse(key); err == nil {
		task.ID = id
	}
	return e.repo.Create(ctx, e.db, task)
}

// DirectEnqueuer hands messages straight to a producer. Used without a database.
type DirectEnqueuer struct {
	producer Producer
}

func NewDirectEnqueuer(producer Producer) *DirectEnqueuer {
	return &DirectEnqueuer{producer: producer}
}

func (e *DirectEnqueuer) Enqueue(ctx context.Context, topic, key string, payload []byte) error {
	return e.producer.SendMessage(ctx, topic, []byte(key), payload)
}
