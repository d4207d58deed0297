package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"

	"github.com/parkqr/parking/internal/db"
	"github.com/parkqr/parking/internal/repository"
	"github.com/parkqr/parking/internal/storage"
)

const insertOutboxTask = `
    INSERT INTO outbox_tasks (id, status, payload, topic, created_at, updated_at)
    VALUES ($1, $2, $3, $4, $5, $6)
`

type execer interface {
	Exec(ctx context.Context, query string, args ...interface{}) (pgconn.CommandTag, error)
}

type OutboxTaskRepo struct {
	timeNow func() time.Time
}

func NewOutboxTaskRepo() storage.OutboxTaskRepository {
	return &OutboxTaskRepo{timeNow: time.Now}
}

func (r *OutboxTaskRepo) Create(ctx context.Context, db db.DB, task *repository.OutboxTask) error {
	return r.insert(ctx, db, task)
}

func (r *OutboxTaskRepo) CreateTx(ctx context.Context, tx db.Tx, task *repository.OutboxTask) error {
	return r.insert(ctx, tx, task)
}

func (r *OutboxTaskRepo) insert(ctx context.Context, exec execer, task *repository.OutboxTask) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	now := r.timeNow().UTC()
	_, err := exec.Exec(ctx, insertOutboxTask,
		task.ID,
		repository.TaskStatusCreated,
		task.Payload,
		task.Topic,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert outbox task: %w", err)
	}
	return nil
}

// GetProcessableTasks locks up to limit new or retryable tasks inside tx.
// PROCESSING tasks last touched before staleBefore are reclaimed as well.
func (r *OutboxTaskRepo) GetProcessableTasks(ctx context.Context, tx db.Tx, limit, maxAttempts int, staleBefore time.Time) ([]*repository.OutboxTask, error) {
	query := `
        SELECT id, status, payload, topic, attempts, last_error, created_at, updated_at, completed_at
        FROM outbox_tasks
        WHERE status = $1
           OR (status = $2 AND attempts < $3)
           OR (status = $4 AND updated_at < $5)
        ORDER BY updated_at ASC
        LIMIT $6
        FOR UPDATE SKIP LOCKED
    `

	var tasks []*repository.OutboxTask
	err := tx.Select(ctx, &tasks, query,
		repository.TaskStatusCreated,
		repository.TaskStatusFailed, maxAttempts,
		repository.TaskStatusProcessing, staleBefore.UTC(),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get processable outbox tasks: %w", err)
	}
	return tasks, nil
}

func (r *OutboxTaskRepo) updateTaskStatus(ctx context.Context, exec execer, id uuid.UUID, status repository.TaskStatus, attempts int, lastError *string, completedAt *time.Time) error {
	query := `
        UPDATE outbox_tasks
        SET
            status = $2,
            attempts = $3,
            last_error = $4,
            completed_at = $5
        WHERE id = $1
    `

	cmdTag, err := exec.Exec(ctx, query, id, status, attempts, lastError, completedAt)
	if err != nil {
		return fmt.Errorf("failed to update outbox task status for id %s: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return repository.ErrObjectNotFound
	}
	return nil
}

func (r *OutboxTaskRepo) UpdateTaskStatusTx(ctx context.Context, tx db.Tx, id uuid.UUID, status repository.TaskStatus, attempts int, lastError *string, completedAt *time.Time) error {
	return r.updateTaskStatus(ctx, tx, id, status, attempts, lastError, completedAt)
}

func (r *OutboxTaskRepo) UpdateTaskStatus(ctx context.Context, db db.DB, id uuid.UUID, status repository.TaskStatus, attempts int, lastError *string, completedAt *time.Time) error {
	return r.updateTaskStatus(ctx, db, id, status, attempts, lastError, completedAt)
}
