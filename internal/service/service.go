// Package service coordinates document corrections: order detection,
// fact lookup, engine invocation, run persistence, and archiving of
// corrected artifacts.
package service

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"ordercore/internal/blob"
	"ordercore/internal/engine"
	"ordercore/internal/extract"
	"ordercore/internal/orders"
	"ordercore/pkg/facts"
	"ordercore/pkg/rules"
	"ordercore/pkg/xmldoc"
)

// Sentinel errors distinguishing detection misses from lookup misses.
var (
	ErrNoOrderID    = errors.New("order id not detected in document")
	ErrUnknownOrder = errors.New("no fact record for detected order id")
)

// Service owns the order index, the rule set, the run store, and the
// artifact archive for one client's correction pipeline.
type Service struct {
	store   orders.Store
	archive blob.Store
	set     rules.Set
	index   map[string]facts.Record
	metrics MetricsRecorder
	tracer  Tracer
	audit   AuditLogger
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithMetricsRecorder attaches a metrics recorder.
func WithMetricsRecorder(m MetricsRecorder) Option {
	return func(s *Service) { s.metrics = m }
}

// WithTracer attaches a tracer.
func WithTracer(t Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

// WithAuditLogger attaches an audit logger.
func WithAuditLogger(a AuditLogger) Option {
	return func(s *Service) { s.audit = a }
}

// New builds a service from an orders file. The file's fact maps are
// pushed into the store and indexed; the file's rule set (or the
// built-in default table) drives corrections. Store and archive may be
// nil for purely in-process use.
func New(ctx context.Context, store orders.Store, archive blob.Store, file *orders.File, opts ...Option) (*Service, error) {
	set, err := file.RuleSet()
	if err != nil {
		return nil, fmt.Errorf("rule set: %w", err)
	}
	if store != nil {
		if err := store.ReplaceOrders(ctx, file.Orders); err != nil {
			return nil, fmt.Errorf("store orders: %w", err)
		}
	}
	s := &Service{
		store:   store,
		archive: archive,
		set:     set,
		index:   file.Index(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// RuleSet returns the rule set driving corrections.
func (s *Service) RuleSet() rules.Set { return s.set }

// Record returns the indexed fact record for one order id.
func (s *Service) Record(orderID string) (facts.Record, bool) {
	record, ok := s.index[orderID]
	return record, ok
}

// CorrectDocument detects the order id carried by the document (file
// name first, then payload), then corrects it. The returned run is
// persisted even when the invocation fails, so every attempt leaves an
// audit trail.
func (s *Service) CorrectDocument(ctx context.Context, name string, xml []byte) (orders.CorrectionRun, []byte, error) {
	orderID, ok := extract.OrderIDFromName(name)
	if !ok {
		orderID, ok = extract.OrderID(xml)
	}
	if !ok {
		run := s.newRun(name, "")
		run.Status = orders.RunFailed
		run.Error = ErrNoOrderID.Error()
		s.finishRun(ctx, "correct_document", run, ErrNoOrderID)
		return run, nil, ErrNoOrderID
	}
	return s.CorrectDocumentForOrder(ctx, name, xml, orderID)
}

// CorrectDocumentForOrder corrects the document against the facts of
// an explicitly chosen order, bypassing detection.
func (s *Service) CorrectDocumentForOrder(ctx context.Context, name string, xml []byte, orderID string) (orders.CorrectionRun, []byte, error) {
	started := time.Now()
	ctx, span := s.startSpan(ctx, "correct_document")
	run := s.newRun(name, orderID)

	record, ok := s.index[orderID]
	if !ok {
		run.Status = orders.RunNoRecord
		run.Error = ErrUnknownOrder.Error()
		s.finishRun(ctx, "correct_document", run, ErrUnknownOrder)
		span.End(ErrUnknownOrder)
		s.observe(ctx, "correct_document", false, started)
		return run, nil, ErrUnknownOrder
	}

	doc, err := xmldoc.Parse(xml)
	if err != nil {
		run.Status = orders.RunFailed
		run.Error = err.Error()
		s.finishRun(ctx, "correct_document", run, err)
		span.End(err)
		s.observe(ctx, "correct_document", false, started)
		return run, nil, err
	}

	result := engine.Apply(ctx, doc, record, s.set)
	run.Outcomes = result.Outcomes
	if s.metrics != nil {
		s.metrics.CountOutcomes(ctx, result.Counts())
	}

	corrected, err := doc.Render()
	if err != nil {
		run.Status = orders.RunFailed
		run.Error = err.Error()
		s.finishRun(ctx, "correct_document", run, err)
		span.End(err)
		s.observe(ctx, "correct_document", false, started)
		return run, nil, err
	}

	if s.archive != nil {
		key := fmt.Sprintf("corrected/%s/%s.xml", orderID, run.ID)
		if _, err := s.archive.Put(ctx, key, bytes.NewReader(corrected), blob.PutOptions{
			ContentType: "application/xml",
			Metadata:    map[string]string{"order_id": orderID, "document": name},
		}); err != nil {
			run.Status = orders.RunFailed
			run.Error = fmt.Sprintf("archive artifact: %v", err)
			s.finishRun(ctx, "correct_document", run, err)
			span.End(err)
			s.observe(ctx, "correct_document", false, started)
			return run, nil, fmt.Errorf("archive artifact: %w", err)
		}
		run.ArtifactKey = key
	}

	run.Status = orders.RunCompleted
	s.finishRun(ctx, "correct_document", run, nil)
	span.End(nil)
	s.observe(ctx, "correct_document", true, started)
	return run, corrected, nil
}

// Document is one batch input.
type Document struct {
	Name string
	Data []byte
}

// BatchItem pairs a batch document with its correction run. Err is the
// textual error for failed items; successful items leave it empty.
type BatchItem struct {
	Run orders.CorrectionRun `json:"run"`
	Err string               `json:"error,omitempty"`
}

// BatchResult aggregates one batch invocation: per-document runs plus
// the ZIP bundle of every corrected output.
type BatchResult struct {
	ID          string      `json:"id"`
	Items       []BatchItem `json:"items"`
	ArtifactKey string      `json:"artifact_key,omitempty"`
	Bundle      []byte      `json:"-"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Corrected returns the number of documents that completed.
func (r BatchResult) Corrected() int {
	n := 0
	for _, item := range r.Items {
		if item.Err == "" {
			n++
		}
	}
	return n
}

// CorrectBatch corrects each document independently: one failing
// document never aborts the others. Corrected outputs are bundled into
// a ZIP archive that is also stored when an archive is configured.
func (s *Service) CorrectBatch(ctx context.Context, docs []Document) (BatchResult, error) {
	started := time.Now()
	ctx, span := s.startSpan(ctx, "correct_batch")

	batch := BatchResult{
		ID:        newID(),
		Items:     make([]BatchItem, 0, len(docs)),
		CreatedAt: time.Now().UTC(),
	}

	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, doc := range docs {
		run, corrected, err := s.CorrectDocument(ctx, doc.Name, doc.Data)
		item := BatchItem{Run: run}
		if err != nil {
			item.Err = err.Error()
			batch.Items = append(batch.Items, item)
			continue
		}
		entry, zerr := zw.Create(doc.Name)
		if zerr == nil {
			_, zerr = entry.Write(corrected)
		}
		if zerr != nil {
			span.End(zerr)
			s.observe(ctx, "correct_batch", false, started)
			return batch, fmt.Errorf("bundle %s: %w", doc.Name, zerr)
		}
		batch.Items = append(batch.Items, item)
	}
	if err := zw.Close(); err != nil {
		span.End(err)
		s.observe(ctx, "correct_batch", false, started)
		return batch, fmt.Errorf("close bundle: %w", err)
	}
	batch.Bundle = buf.Bytes()

	if s.archive != nil && batch.Corrected() > 0 {
		key := fmt.Sprintf("bundles/%s.zip", batch.ID)
		if _, err := s.archive.Put(ctx, key, bytes.NewReader(batch.Bundle), blob.PutOptions{
			ContentType: "application/zip",
			Metadata:    map[string]string{"documents": fmt.Sprintf("%d", len(docs))},
		}); err != nil {
			span.End(err)
			s.observe(ctx, "correct_batch", false, started)
			return batch, fmt.Errorf("archive bundle: %w", err)
		}
		batch.ArtifactKey = key
	}

	if s.audit != nil {
		s.audit.Record(ctx, AuditEntry{
			ID:         newID(),
			Action:     "batch_correction",
			Status:     "completed",
			Metadata:   map[string]any{"documents": len(docs), "corrected": batch.Corrected()},
			OccurredAt: time.Now().UTC(),
		})
	}
	span.End(nil)
	s.observe(ctx, "correct_batch", true, started)
	return batch, nil
}

// Runs lists every persisted correction run.
func (s *Service) Runs(ctx context.Context) ([]orders.CorrectionRun, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.ListRuns(ctx)
}

func (s *Service) newRun(document, orderID string) orders.CorrectionRun {
	return orders.CorrectionRun{
		ID:        newID(),
		OrderID:   orderID,
		Document:  document,
		CreatedAt: time.Now().UTC(),
	}
}

func (s *Service) finishRun(ctx context.Context, action string, run orders.CorrectionRun, err error) {
	if s.store != nil {
		// Persisting the audit record must not mask the correction
		// outcome; a store failure is surfaced via audit instead.
		if serr := s.store.SaveRun(ctx, run); serr != nil && s.audit != nil {
			s.audit.Record(ctx, AuditEntry{
				ID:         newID(),
				Action:     action,
				OrderID:    run.OrderID,
				Document:   run.Document,
				Status:     "store_error",
				Metadata:   map[string]any{"error": serr.Error()},
				OccurredAt: time.Now().UTC(),
			})
		}
	}
	if s.audit != nil {
		entry := AuditEntry{
			ID:         newID(),
			Action:     action,
			OrderID:    run.OrderID,
			Document:   run.Document,
			Status:     string(run.Status),
			OccurredAt: time.Now().UTC(),
		}
		if err != nil {
			entry.Metadata = map[string]any{"error": err.Error()}
		}
		s.audit.Record(ctx, entry)
	}
}

func (s *Service) startSpan(ctx context.Context, operation string) (context.Context, TraceSpan) {
	if s.tracer == nil {
		return ctx, noopSpan{}
	}
	return s.tracer.Start(ctx, operation)
}

func (s *Service) observe(ctx context.Context, operation string, success bool, started time.Time) {
	if s.metrics != nil {
		s.metrics.Observe(ctx, operation, success, time.Since(started))
	}
}

type noopSpan struct{}

func (noopSpan) End(error) {}

func newID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return fmt.Sprintf("%x", b[:])
}
