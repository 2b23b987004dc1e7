package service

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// JobStatus describes the lifecycle stage of a queued batch job.
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusSucceeded JobStatus = "succeeded"
	JobStatusFailed    JobStatus = "failed"
)

// JobRecord tracks one queued batch correction and its result.
type JobRecord struct {
	ID          string      `json:"id"`
	Status      JobStatus   `json:"status"`
	Documents   int         `json:"documents"`
	Error       string      `json:"error,omitempty"`
	Items       []BatchItem `json:"items,omitempty"`
	ArtifactKey string      `json:"artifact_key,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
}

// Worker runs batch corrections asynchronously behind a bounded queue.
type Worker struct {
	service *Service
	audit   AuditLogger

	queue chan batchTask
	mu    sync.RWMutex
	jobs  map[string]*JobRecord

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type batchTask struct {
	id   string
	docs []Document
}

// NewWorker constructs a batch worker around the service.
func NewWorker(svc *Service, audit AuditLogger) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		service: svc,
		audit:   audit,
		queue:   make(chan batchTask, 32),
		jobs:    make(map[string]*JobRecord),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start begins processing queued batches.
func (w *Worker) Start() {
	w.wg.Add(1)
	go w.loop()
}

// Stop signals the worker to halt and waits for completion.
func (w *Worker) Stop(ctx context.Context) error {
	w.cancel()
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Worker) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case task := <-w.queue:
			w.process(task)
		}
	}
}

// Enqueue schedules a batch correction and returns the queued record.
func (w *Worker) Enqueue(ctx context.Context, docs []Document) (JobRecord, error) {
	if w.service == nil {
		return JobRecord{}, fmt.Errorf("correction service not configured")
	}
	if len(docs) == 0 {
		return JobRecord{}, fmt.Errorf("no documents to correct")
	}

	now := time.Now().UTC()
	record := JobRecord{
		ID:        newID(),
		Status:    JobStatusQueued,
		Documents: len(docs),
		CreatedAt: now,
		UpdatedAt: now,
	}

	w.mu.Lock()
	w.jobs[record.ID] = &record
	snapshot := record.copy()
	w.mu.Unlock()

	w.auditJob(ctx, record.ID, JobStatusQueued, "")

	select {
	case w.queue <- batchTask{id: record.ID, docs: docs}:
	default:
		w.fail(record.ID, "correction queue full")
		return JobRecord{}, fmt.Errorf("correction queue full")
	}
	return snapshot, nil
}

// GetJob returns a snapshot of one job record.
func (w *Worker) GetJob(id string) (JobRecord, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	record, ok := w.jobs[id]
	if !ok {
		return JobRecord{}, false
	}
	return record.copy(), true
}

func (w *Worker) process(task batchTask) {
	w.updateStatus(task.id, JobStatusRunning)

	result, err := w.service.CorrectBatch(w.ctx, task.docs)
	if err != nil {
		w.fail(task.id, err.Error())
		return
	}

	now := time.Now().UTC()
	w.mu.Lock()
	if record, ok := w.jobs[task.id]; ok {
		record.Status = JobStatusSucceeded
		record.Error = ""
		record.Items = result.Items
		record.ArtifactKey = result.ArtifactKey
		record.UpdatedAt = now
		record.CompletedAt = &now
	}
	w.mu.Unlock()
	w.auditJob(w.ctx, task.id, JobStatusSucceeded, "")
}

func (w *Worker) updateStatus(id string, status JobStatus) {
	w.mu.Lock()
	if record, ok := w.jobs[id]; ok {
		record.Status = status
		record.UpdatedAt = time.Now().UTC()
	}
	w.mu.Unlock()
	w.auditJob(w.ctx, id, status, "")
}

func (w *Worker) fail(id, reason string) {
	now := time.Now().UTC()
	w.mu.Lock()
	if record, ok := w.jobs[id]; ok {
		record.Status = JobStatusFailed
		record.Error = reason
		record.UpdatedAt = now
		record.CompletedAt = &now
	}
	w.mu.Unlock()
	w.auditJob(w.ctx, id, JobStatusFailed, reason)
}

func (w *Worker) auditJob(ctx context.Context, id string, status JobStatus, note string) {
	if w.audit == nil {
		return
	}
	entry := AuditEntry{
		ID:         newID(),
		Action:     "batch_job",
		Status:     string(status),
		Metadata:   map[string]any{"job_id": id},
		OccurredAt: time.Now().UTC(),
	}
	if note != "" {
		entry.Metadata["note"] = note
	}
	w.audit.Record(ctx, entry)
}

func (r JobRecord) copy() JobRecord {
	dup := r
	if len(r.Items) > 0 {
		dup.Items = append([]BatchItem(nil), r.Items...)
	}
	return dup
}
