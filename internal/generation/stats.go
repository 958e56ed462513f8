package generation

import (
	"sync"
	"time"

	"github.com/jonathan/resume-builder/internal/types"
)

// ProviderStats counts attempts of one provider kind
type ProviderStats struct {
	Attempts       int           `json:"attempts"`
	Accepted       int           `json:"accepted"`
	QualityFailed  int           `json:"quality_failed"`
	ProviderFailed int           `json:"provider_failed"`
	AvgLatency     time.Duration `json:"avg_latency_ns"`
}

type statsRecorder struct {
	mu    sync.Mutex
	stats map[types.ProviderKind]ProviderStats
}

func newStatsRecorder() *statsRecorder {
	return &statsRecorder{stats: make(map[types.ProviderKind]ProviderStats)}
}

func (r *statsRecorder) record(provider types.ProviderKind, kind types.OutcomeKind, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.stats[provider]
	s.Attempts++
	switch kind {
	case types.OutcomeAccepted:
		s.Accepted++
	case types.OutcomeQualityFailure:
		s.QualityFailed++
	case types.OutcomeProviderFailure:
		s.ProviderFailed++
	}
	// running mean
	s.AvgLatency += (elapsed - s.AvgLatency) / time.Duration(s.Attempts)
	r.stats[provider] = s
}

func (r *statsRecorder) snapshot() map[types.ProviderKind]ProviderStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[types.ProviderKind]ProviderStats, len(r.stats))
	for k, v := range r.stats {
		out[k] = v
	}
	return out
}
