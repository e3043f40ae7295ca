// Package audit persists gameplay and admin actions without blocking the
// request path. Entries are queued in memory and written in batches.
package audit

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/kuraoka/signalquest/model"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	queueDepth    = 1024
	batchSize     = 100
	flushInterval = 2 * time.Second
)

// Entry holds one action to be logged.
type Entry struct {
	TraceID    string
	AccountID  *int64
	PlayerName string
	Action     string
	Request    interface{}
	Response   interface{}
	Error      string
	IP         string
	DurationMs int
}

// Service owns the queue and the single writer goroutine.
type Service struct {
	db     *gorm.DB
	queue  chan *model.AuditLog
	done   chan struct{}
	wg     sync.WaitGroup
	logger *zap.Logger
}

// New creates a Service and starts its writer.
func New(db *gorm.DB, logger *zap.Logger) *Service {
	svc := &Service{
		db:     db,
		queue:  make(chan *model.AuditLog, queueDepth),
		done:   make(chan struct{}),
		logger: logger,
	}
	svc.wg.Add(1)
	go svc.writer()
	return svc
}

// Log enqueues an entry. When the queue is full the entry is dropped
// rather than stalling the request that produced it.
func (svc *Service) Log(entry Entry) {
	select {
	case svc.queue <- entry.record():
	default:
		svc.logger.Warn("audit queue full, dropping entry",
			zap.String("action", entry.Action))
	}
}

func (entry Entry) record() *model.AuditLog {
	reqJSON, _ := json.Marshal(entry.Request)
	respJSON, _ := json.Marshal(entry.Response)
	return &model.AuditLog{
		TraceID:    entry.TraceID,
		AccountID:  entry.AccountID,
		PlayerName: entry.PlayerName,
		Action:     entry.Action,
		Request:    datatypes.JSON(reqJSON),
		Response:   datatypes.JSON(respJSON),
		Error:      entry.Error,
		IP:         entry.IP,
		DurationMs: entry.DurationMs,
	}
}

// Stop flushes queued entries and blocks until the writer exits.
func (svc *Service) Stop(_ context.Context) {
	select {
	case <-svc.done:
	default:
		close(svc.done)
	}
	svc.wg.Wait()
}

func (svc *Service) writer() {
	defer svc.wg.Done()
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	batch := make([]*model.AuditLog, 0, batchSize)
	for {
		select {
		case rec := <-svc.queue:
			batch = append(batch, rec)
			if len(batch) >= batchSize {
				batch = svc.flush(batch)
			}
		case <-ticker.C:
			batch = svc.flush(batch)
		case <-svc.done:
			batch = svc.drain(batch)
			svc.flush(batch)
			return
		}
	}
}

func (svc *Service) drain(batch []*model.AuditLog) []*model.AuditLog {
	for {
		select {
		case rec := <-svc.queue:
			batch = append(batch, rec)
		default:
			return batch
		}
	}
}

func (svc *Service) flush(batch []*model.AuditLog) []*model.AuditLog {
	if len(batch) == 0 {
		return batch
	}
	if err := svc.db.Create(&batch).Error; err != nil {
		svc.logger.Error("audit batch write failed", zap.Error(err))
	}
	return batch[:0]
}
