package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const auditPublishTimeout = 5 * time.Second

// AuditManager batches audit entries and hands each batch to the sink from a
// small worker pool. Without a sink batches are only logged.
type AuditManager struct {
	workerCount int
	batchSize   int
	timeout     time.Duration
	sink        AuditSink
	topic       string
	logger      *zap.Logger

	inputChan  chan AuditLogEntry
	batchChan  chan []AuditLogEntry
	shutdownCh chan struct{}
	once       sync.Once

	wg sync.WaitGroup
}

func NewAuditManager(workerCount, batchSize int, timeout time.Duration, sink AuditSink, topic string, logger *zap.Logger) *AuditManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditManager{
		workerCount: workerCount,
		batchSize:   batchSize,
		timeout:     timeout,
		sink:        sink,
		topic:       topic,
		logger:      logger.With(zap.String("component", "audit")),
		inputChan:   make(chan AuditLogEntry, workerCount*batchSize*2),
		batchChan:   make(chan []AuditLogEntry, workerCount*2),
		shutdownCh:  make(chan struct{}),
	}
}

func (m *AuditManager) Start(ctx context.Context) {
	m.wg.Add(1)
	go m.runAggregator(ctx)

	for i := 0; i < m.workerCount; i++ {
		m.wg.Add(1)
		go m.runWorker(ctx, i)
	}

	go m.monitorShutdown(ctx)
}

func (m *AuditManager) Shutdown(ctx context.Context) {
	m.once.Do(func() {
		close(m.shutdownCh)

		done := make(chan struct{})
		go func() {
			m.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			m.logger.Info("audit manager stopped")
		case <-ctx.Done():
			m.logger.Warn("audit manager shutdown interrupted")
		}
	})
}

func (m *AuditManager) monitorShutdown(ctx context.Context) {
	select {
	case <-ctx.Done():
		m.Shutdown(context.Background())
	case <-m.shutdownCh:
	}
}

func (m *AuditManager) LogEntry(ctx context.Context, entry AuditLogEntry) {
	select {
	case m.inputChan <- entry:
	case <-m.shutdownCh:
		m.logDropped(entry)
	case <-ctx.Done():
		m.logDropped(entry)
	}
}

func (m *AuditManager) runAggregator(ctx context.Context) {
	defer m.wg.Done()

	var (
		batch    []AuditLogEntry
		timer    *time.Timer
		timeoutC <-chan time.Time
	)

	defer func() {
		if timer != nil {
			timer.Stop()
		}
	drain:
		for {
			select {
			case entry := <-m.inputChan:
				batch = append(batch, entry)
			default:
				break drain
			}
		}
		if len(batch) > 0 {
			m.dispatchBatch(batch)
		}
		close(m.batchChan)
	}()

	for {
		select {
		case entry := <-m.inputChan:
			batch = append(batch, entry)
			if len(batch) >= m.batchSize {
				m.dispatchBatch(batch)
				batch = nil
				timeoutC = nil
			} else if len(batch) == 1 {
				timer = time.NewTimer(m.timeout)
				timeoutC = timer.C
			}

		case <-timeoutC:
			m.dispatchBatch(batch)
			batch = nil
			timeoutC = nil

		case <-ctx.Done():
			return

		case <-m.shutdownCh:
			return
		}
	}
}

func (m *AuditManager) dispatchBatch(batch []AuditLogEntry) {
	batchCopy := make([]AuditLogEntry, len(batch))
	copy(batchCopy, batch)

	select {
	case m.batchChan <- batchCopy:
	default:
		m.publishBatch(-1, batchCopy)
	}
}

func (m *AuditManager) runWorker(ctx context.Context, id int) {
	defer m.wg.Done()

	for batch := range m.batchChan {
		m.publishBatch(id, batch)
	}
}

func (m *AuditManager) publishBatch(workerID int, batch []AuditLogEntry) {
	log := m.logger.With(zap.Int("worker", workerID), zap.Int("entries", len(batch)))

	if m.sink == nil {
		for _, entry := range batch {
			log.Info("admin action",
				zap.String("admin", entry.Admin),
				zap.String("handler", entry.Handler),
				zap.String("resource_id", entry.ResourceID),
				zap.Int("status_code", entry.StatusCode))
		}
		return
	}

	payload, err := json.Marshal(batch)
	if err != nil {
		log.Error("failed to encode audit batch", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), auditPublishTimeout)
	defer cancel()
	if err := m.sink.Enqueue(ctx, m.topic, uuid.NewString(), payload); err != nil {
		log.Error("failed to publish audit batch", zap.Error(err), zap.ByteString("batch", payload))
	}
}

func (m *AuditManager) logDropped(entry AuditLogEntry) {
	m.logger.Warn("audit entry written directly",
		zap.String("admin", entry.Admin),
		zap.String("handler", entry.Handler),
		zap.String("path", entry.Path),
		zap.Int("status_code", entry.StatusCode))
}
