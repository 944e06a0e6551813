// Package jobs runs background analytics computation on a bounded worker
// pool. The queue may hold duplicate requests for the same computation;
// coalescing happens at the cache layer, not here.
package jobs

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/shoplens/shoplens-backend/internal/config"
	"github.com/shoplens/shoplens-backend/internal/logger"
)

// ComputeRequest is one unit of background work, usually a cache warm for a
// (dataset, metric) pair.
type ComputeRequest struct {
	DatasetID uuid.UUID
	CacheKey  string
	Run       func(ctx context.Context) error
}

type Pool struct {
	queue       chan ComputeRequest
	concurrency int
	log         *logger.Logger

	wg      sync.WaitGroup
	started bool
	mu      sync.Mutex
}

func NewPool(cfg config.Worker, baseLog *logger.Logger) *Pool {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Pool{
		queue:       make(chan ComputeRequest, queueSize),
		concurrency: concurrency,
		log:         baseLog.With("component", "ComputePool"),
	}
}

func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true

	for i := 0; i < p.concurrency; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
	p.log.Info("Compute pool started", "concurrency", p.concurrency, "queue_size", cap(p.queue))
}

// Enqueue is non-blocking: a full queue drops the request and reports false.
// Dropped warms are harmless, the next read-through computes on demand.
func (p *Pool) Enqueue(req ComputeRequest) bool {
	if req.Run == nil {
		return false
	}
	select {
	case p.queue <- req:
		return true
	default:
		p.log.Warn("Compute queue full, dropping request",
			"dataset_id", req.DatasetID, "cache_key", req.CacheKey)
		return false
	}
}

// Stop closes the queue and waits for in-flight work to finish.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	close(p.queue)
	p.wg.Wait()
}

func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case req, ok := <-p.queue:
			if !ok {
				return
			}
			p.run(ctx, id, req)
		}
	}
}

func (p *Pool) run(ctx context.Context, workerID int, req ComputeRequest) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("Compute request panicked",
				"worker", workerID, "dataset_id", req.DatasetID, "cache_key", req.CacheKey, "panic", r)
		}
	}()
	if err := req.Run(ctx); err != nil {
		p.log.Warn("Compute request failed",
			"worker", workerID, "dataset_id", req.DatasetID, "cache_key", req.CacheKey, "error", err)
	}
}
