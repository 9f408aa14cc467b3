package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/Alias1177/FootballPredictor/internal/metrics"
	"github.com/Alias1177/FootballPredictor/models"
	"github.com/rs/zerolog"
)

const (
	defaultPersistQueue = 64
	persistTimeout      = 10 * time.Second
)

// Store receives finished predictions
type Store interface {
	SavePrediction(ctx context.Context, p *models.CompletePrediction) error
}

// persister writes predictions on a background goroutine so the caller never waits on storage
type persister struct {
	store   Store
	queue   chan *models.CompletePrediction
	done    chan struct{}
	metrics *metrics.PredictorMetrics
	logger  zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

func newPersister(store Store, size int, m *metrics.PredictorMetrics, logger zerolog.Logger) *persister {
	if size <= 0 {
		size = defaultPersistQueue
	}
	p := &persister{
		store:   store,
		queue:   make(chan *models.CompletePrediction, size),
		done:    make(chan struct{}),
		metrics: m,
		logger:  logger,
	}
	go p.run()
	return p
}

// enqueue never blocks. A full queue drops the write.
func (p *persister) enqueue(prediction *models.CompletePrediction) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		p.logger.Warn().Str("match_id", prediction.MatchID).Msg("Persister closed, prediction not stored")
		p.metrics.RecordPersistenceFailure()
		return
	}

	select {
	case p.queue <- prediction:
	default:
		p.logger.Warn().Str("match_id", prediction.MatchID).Msg("Persist queue full, dropping prediction")
		p.metrics.RecordPersistenceFailure()
	}
}

func (p *persister) run() {
	defer close(p.done)

	for prediction := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		if err := p.store.SavePrediction(ctx, prediction); err != nil {
			p.logger.Error().
				Err(err).
				Str("match_id", prediction.MatchID).
				Str("prediction_id", prediction.ID).
				Msg("Failed to store prediction")
			p.metrics.RecordPersistenceFailure()
		}
		cancel()
	}
}

// close stops accepting predictions and waits for queued writes
func (p *persister) close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	<-p.done
}
