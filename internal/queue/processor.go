// Package queue drives each ingested resume through
// encode -> extract -> (optional) upload, one record at a time.
package queue

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/resume-intake/constants"
	"github.com/joseph-ayodele/resume-intake/internal/encode"
	"github.com/joseph-ayodele/resume-intake/internal/entity"
	"github.com/joseph-ayodele/resume-intake/internal/extract"
	"github.com/joseph-ayodele/resume-intake/internal/store"
	"github.com/joseph-ayodele/resume-intake/internal/upload"
)

// ParseFailedMessage is the fixed user-facing message for a record whose
// extraction pipeline failed. Details stay in the logs.
const ParseFailedMessage = "解析失敗"

// WarningFunc receives non-fatal problems the user should see, currently
// only upload failures that degraded a record to a local file reference.
type WarningFunc func(fileName string, err error)

type item struct {
	recordID uuid.UUID
	path     string
}

// Processor consumes newly ingested records strictly sequentially, in
// ingestion order. At most one run loop is active; enqueueing while a run is
// in flight appends to the same logical run. The processor is the only
// component that mutates records after ingestion.
type Processor struct {
	logger     *slog.Logger
	store      *store.RecordStore
	extractor  extract.FieldExtractor
	uploader   upload.Uploader // nil means local-only mode
	localDelay time.Duration
	warn       WarningFunc
	readFile   func(string) (encode.Payload, error)

	mu      sync.Mutex
	cond    *sync.Cond
	pending []item
	running bool
}

type Option func(*Processor)

// WithUploader configures the remote upload endpoint. Without it the
// processor runs in local-only mode.
func WithUploader(u upload.Uploader) Option {
	return func(p *Processor) { p.uploader = u }
}

// WithLocalPreviewDelay sets the artificial per-record pause applied in
// local-only mode so the processing state stays perceptible.
func WithLocalPreviewDelay(d time.Duration) Option {
	return func(p *Processor) {
		if d >= 0 {
			p.localDelay = d
		}
	}
}

// WithWarningFunc sets the hook for non-fatal, user-visible warnings.
func WithWarningFunc(fn WarningFunc) Option {
	return func(p *Processor) {
		if fn != nil {
			p.warn = fn
		}
	}
}

func NewProcessor(st *store.RecordStore, extractor extract.FieldExtractor, logger *slog.Logger, opts ...Option) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Processor{
		logger:     logger,
		store:      st,
		extractor:  extractor,
		localDelay: 800 * time.Millisecond,
		readFile:   encode.ReadFile,
	}
	p.warn = func(fileName string, err error) {
		p.logger.Warn("queue.upload.fallback", "file", fileName, "error", err)
	}
	p.cond = sync.NewCond(&p.mu)
	for _, o := range opts {
		o(p)
	}
	return p
}

// Enqueue appends the given pending records to the collection, making them
// visible to readers before any async work starts, and queues them for
// processing. If a run is already active the records join it; otherwise a
// new run starts. Enqueue never blocks on processing.
func (p *Processor) Enqueue(ctx context.Context, records []entity.ResumeRecord) {
	if len(records) == 0 {
		return
	}
	p.store.Append(records...)

	p.mu.Lock()
	for _, r := range records {
		p.pending = append(p.pending, item{recordID: r.ID, path: r.SourcePath})
	}
	p.logger.Info("queue.enqueued", "count", len(records), "depth", len(p.pending))
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.mu.Unlock()

	go p.run(ctx)
}

// Processing reports whether a run is in flight, from the first record
// claimed to the last one finished.
func (p *Processor) Processing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Wait blocks until the current run (including records enqueued onto it)
// has drained.
func (p *Processor) Wait() {
	p.mu.Lock()
	for p.running {
		p.cond.Wait()
	}
	p.mu.Unlock()
}

func (p *Processor) run(ctx context.Context) {
	p.logger.Info("queue.run.start")
	for {
		p.mu.Lock()
		if len(p.pending) == 0 {
			p.running = false
			p.cond.Broadcast()
			p.mu.Unlock()
			p.logger.Info("queue.run.drained")
			return
		}
		next := p.pending[0]
		p.pending = p.pending[1:]
		p.mu.Unlock()

		p.processOne(ctx, next)
	}
}

// processOne moves a single record PROCESSING -> {SUCCESS|ERROR}. Once a
// record is claimed it runs to completion; there is no cancellation. A
// failure here never affects the records behind it in the queue.
func (p *Processor) processOne(ctx context.Context, it item) {
	start := time.Now()
	rec, ok := p.store.Get(it.recordID)
	if !ok {
		// Collection was cleared while the record was queued; nothing to do.
		p.logger.Warn("queue.record.gone", "record_id", it.recordID)
		return
	}

	if !p.transition(it.recordID, constants.StatusProcessing, nil) {
		return
	}
	p.logger.Info("queue.record.claimed", "record_id", it.recordID, "file", rec.FileName)

	payload, err := p.readFile(it.path)
	if err != nil {
		p.fail(it.recordID, rec.FileName, err)
		return
	}

	fields, _, err := p.extractor.ExtractFields(ctx, extract.ExtractRequest{
		FileBase64: payload.Base64,
		MIMEType:   payload.MIMEType,
		FileName:   rec.FileName,
	})
	if err != nil {
		p.fail(it.recordID, rec.FileName, err)
		return
	}

	fileLink := ""
	if p.uploader != nil {
		fileLink, err = p.uploader.Upload(ctx, rec.FileName, payload.MIMEType, payload.Base64, fields)
		if err != nil {
			// Non-fatal: surface a warning and keep the extracted data with
			// a session-scoped local reference.
			p.warn(rec.FileName, err)
			p.logger.Warn("queue.upload.failed",
				"record_id", it.recordID, "file", rec.FileName, "error", err)
			fileLink = localFileLink(it.path)
		}
	} else {
		fileLink = localFileLink(it.path)
		select {
		case <-time.After(p.localDelay):
		case <-ctx.Done():
		}
	}

	p.transition(it.recordID, constants.StatusSuccess, func(r *entity.ResumeRecord) {
		r.Fields = &fields
		r.FileLink = fileLink
	})
	p.logger.Info("queue.record.success",
		"record_id", it.recordID,
		"file", rec.FileName,
		"name", fields.Name,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
}

func (p *Processor) fail(id uuid.UUID, fileName string, cause error) {
	p.transition(id, constants.StatusError, func(r *entity.ResumeRecord) {
		r.ErrorMessage = ParseFailedMessage
	})
	p.logger.Error("queue.record.error", "record_id", id, "file", fileName, "error", cause)
}

// transition moves the record to next only when the status machine allows it,
// applying extra inside the same atomic update. It returns false when the
// record is gone or the move is illegal; terminal records are never rewritten.
func (p *Processor) transition(id uuid.UUID, next constants.RecordStatus, extra func(*entity.ResumeRecord)) bool {
	applied := false
	p.store.UpdateByID(id, func(r *entity.ResumeRecord) {
		if !r.Status.CanTransition(next) {
			p.logger.Warn("queue.record.illegal_transition",
				"record_id", id, "from", string(r.Status), "to", string(next))
			return
		}
		r.Status = next
		if extra != nil {
			extra(r)
		}
		applied = true
	})
	return applied
}

// localFileLink builds the session-scoped fallback reference for a file that
// was not (or could not be) uploaded. Nothing guarantees the path outlives
// the session.
func localFileLink(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return "file://" + filepath.ToSlash(abs)
}
