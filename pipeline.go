package aisdk

import (
	"context"
	"hash/fnv"
	"log"
	"sync"

	"go.uber.org/atomic"
)

// ──────────────────────────────────────────────
// Interaction Pipeline — background evolution with backpressure
// ──────────────────────────────────────────────

// PipelineConfig controls the background interaction pipeline.
type PipelineConfig struct {
	Workers   int // worker goroutines, default 2
	QueueSize int // per-worker buffered capacity, default 128
}

// DefaultPipelineConfig returns production defaults.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Workers:   2,
		QueueSize: 128,
	}
}

// InteractionEvent is one queued chat exchange awaiting processing.
type InteractionEvent struct {
	UserID         string
	Entity         Entity
	UserMessage    string
	AiResponse     string
	ResponseTimeMs int
	Satisfaction   *int
}

// PipelineStats is a point-in-time snapshot of pipeline counters.
type PipelineStats struct {
	Submitted int64
	Dropped   int64
	Processed int64
}

// InteractionPipeline decouples personality evolution from the chat
// hot path. Callers enqueue events via Submit after the chat response
// has been sent; background workers run the EvolutionEngine.
//
// Events are sharded by entity, so all writes to one PersonalityState
// flow through a single worker and never race each other. Submit is
// non-blocking: when a shard's queue is full the event is dropped and
// counted, which is the backpressure signal.
type InteractionPipeline struct {
	engine *EvolutionEngine
	config PipelineConfig
	queues []chan InteractionEvent
	wg     sync.WaitGroup
	cancel context.CancelFunc

	submitted atomic.Int64
	dropped   atomic.Int64
	processed atomic.Int64

	// OnProcessed is called (from a worker goroutine) after each event.
	// May be nil.
	OnProcessed func(InteractionEvent)
}

// NewInteractionPipeline creates and starts a pipeline. Call Stop() to
// drain queued events and shut down workers.
func NewInteractionPipeline(engine *EvolutionEngine, config ...PipelineConfig) *InteractionPipeline {
	cfg := DefaultPipelineConfig()
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 128
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &InteractionPipeline{
		engine: engine,
		config: cfg,
		queues: make([]chan InteractionEvent, cfg.Workers),
		cancel: cancel,
	}
	for i := range p.queues {
		p.queues[i] = make(chan InteractionEvent, cfg.QueueSize)
		p.wg.Add(1)
		go p.worker(ctx, p.queues[i])
	}
	return p
}

// Submit enqueues an event. Non-blocking; returns false when the
// entity's shard queue is full and the event was dropped.
func (p *InteractionPipeline) Submit(event InteractionEvent) bool {
	queue := p.queues[p.shardFor(event.Entity)]
	select {
	case queue <- event:
		p.submitted.Inc()
		return true
	default:
		p.dropped.Inc()
		log.Printf("[InteractionPipeline] queue full, dropping event for entity=%s user=%s", event.Entity, event.UserID)
		return false
	}
}

// shardFor pins every event for one entity to the same worker.
func (p *InteractionPipeline) shardFor(entity Entity) int {
	h := fnv.New32a()
	h.Write([]byte(entity))
	return int(h.Sum32() % uint32(len(p.queues)))
}

// Pending returns the number of events waiting across all shards.
func (p *InteractionPipeline) Pending() int {
	n := 0
	for _, q := range p.queues {
		n += len(q)
	}
	return n
}

// Stats returns a snapshot of the pipeline counters.
func (p *InteractionPipeline) Stats() PipelineStats {
	return PipelineStats{
		Submitted: p.submitted.Load(),
		Dropped:   p.dropped.Load(),
		Processed: p.processed.Load(),
	}
}

// Stop signals workers to drain remaining events and exit. Blocks until
// all queues are empty and workers have stopped.
func (p *InteractionPipeline) Stop() {
	p.cancel()
	for _, q := range p.queues {
		close(q)
	}
	p.wg.Wait()
}

func (p *InteractionPipeline) worker(ctx context.Context, queue chan InteractionEvent) {
	defer p.wg.Done()
	for {
		select {
		case event, ok := <-queue:
			if !ok {
				return
			}
			p.processEvent(event)
		case <-ctx.Done():
			// Drain remaining
			for event := range queue {
				p.processEvent(event)
			}
			return
		}
	}
}

func (p *InteractionPipeline) processEvent(event InteractionEvent) {
	// Detached from any request context: the chat response this event
	// trails behind has already been sent. Model/store timeouts are
	// enforced per call inside the engine's collaborators.
	p.engine.ProcessInteraction(context.Background(), event.UserID, event.Entity,
		event.UserMessage, event.AiResponse, event.ResponseTimeMs, event.Satisfaction)
	p.processed.Inc()
	if p.OnProcessed != nil {
		p.OnProcessed(event)
	}
}
