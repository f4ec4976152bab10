package service

import (
	"math"
	"time"

	"github.com/guttosm/assembly-service/internal/metrics"
)

// WeightStatus classifies one raw scale sample.
type WeightStatus string

const (
	// WeightStatusDisconnected means the scale link is down or no sample exists.
	WeightStatusDisconnected WeightStatus = "disconnected"
	// WeightStatusStale means the sample is too old to trust.
	WeightStatusStale WeightStatus = "stale"
	// WeightStatusStable means the reading is settled and trustworthy.
	WeightStatusStable WeightStatus = "stable"
	// WeightStatusUnstable means the scale has not settled yet.
	WeightStatusUnstable WeightStatus = "unstable"
	// WeightStatusWarning means a settled reading jumped implausibly far.
	WeightStatusWarning WeightStatus = "warning"
	// WeightStatusError means the frame could not be interpreted at all.
	WeightStatusError WeightStatus = "error"
)

// Scale frame status suffixes as sent in the last two bytes of a frame.
const (
	stableSuffix   = "ST"
	unstableSuffix = "US"
)

const (
	// DefaultSpikeThreshold is the accepted-weight jump (kg) above which a
	// stable reading is demoted to a warning.
	DefaultSpikeThreshold = 5.0
	// DefaultSampleCacheDuration is the minimum sample age considered fresh.
	DefaultSampleCacheDuration = 1 * time.Second
	// DefaultPollInterval is the expected scale polling period.
	DefaultPollInterval = 250 * time.Millisecond
)

// ScaleSample is one raw reading pushed by the weight sample source.
type ScaleSample struct {
	// Weight is the decoded numeric reading in kilograms.
	Weight float64 `json:"weight"`
	// Raw is the frame as received, including the trailing status suffix.
	Raw []byte `json:"raw"`
	// Timestamp is when the frame was captured.
	Timestamp time.Time `json:"timestamp"`
}

// Classification is the filtered verdict on one sample. Weight carries the
// last accepted stable reading, regardless of the current sample's status.
type Classification struct {
	Status WeightStatus `json:"status"`
	Weight float64      `json:"weight"`
}

// SignalClassifier filters the raw weight-sensor stream so the weight
// validator only ever sees settled readings. Only stable samples update
// the accepted weight; everything else is surfaced for operator feedback.
type SignalClassifier interface {
	Classify(sample *ScaleSample, connected bool) Classification
	AcceptedWeight() (float64, bool)
	Reset()
}

// ClassifierOption configures a SignalClassifierService.
type ClassifierOption func(*SignalClassifierService)

// SignalClassifierService implements SignalClassifier. It is used from the
// session's serialized event loop and keeps no locking of its own.
type SignalClassifierService struct {
	clock          Clock
	cacheDuration  time.Duration
	pollInterval   time.Duration
	spikeThreshold float64

	accepted    float64
	hasAccepted bool
}

// NewSignalClassifierService creates a classifier with the given clock.
func NewSignalClassifierService(clock Clock, opts ...ClassifierOption) *SignalClassifierService {
	s := &SignalClassifierService{
		clock:          clock,
		cacheDuration:  DefaultSampleCacheDuration,
		pollInterval:   DefaultPollInterval,
		spikeThreshold: DefaultSpikeThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithStaleness overrides the cache duration and poll interval used for the
// staleness cutoff max(cacheDuration, 2*pollInterval).
func WithStaleness(cacheDuration, pollInterval time.Duration) ClassifierOption {
	return func(s *SignalClassifierService) {
		if cacheDuration > 0 {
			s.cacheDuration = cacheDuration
		}
		if pollInterval > 0 {
			s.pollInterval = pollInterval
		}
	}
}

// WithSpikeThreshold overrides the amplitude spike threshold.
func WithSpikeThreshold(kg float64) ClassifierOption {
	return func(s *SignalClassifierService) {
		if kg > 0 {
			s.spikeThreshold = kg
		}
	}
}

// Classify inspects one sample and returns its status. The disconnected flag
// overrides everything; a stale timestamp is checked next; then the frame's
// trailing status suffix decides between stable and unstable, with a spike
// guard demoting implausible stable jumps to warning.
func (s *SignalClassifierService) Classify(sample *ScaleSample, connected bool) Classification {
	status := s.classify(sample, connected)
	metrics.WeightSamplesTotal.WithLabelValues(string(status)).Inc()
	return Classification{Status: status, Weight: s.accepted}
}

func (s *SignalClassifierService) classify(sample *ScaleSample, connected bool) WeightStatus {
	if !connected || sample == nil {
		return WeightStatusDisconnected
	}

	maxAge := s.cacheDuration
	if doubled := 2 * s.pollInterval; doubled > maxAge {
		maxAge = doubled
	}
	if s.clock.Now().Sub(sample.Timestamp) > maxAge {
		return WeightStatusStale
	}

	if len(sample.Raw) < 2 {
		if len(sample.Raw) == 0 {
			return WeightStatusError
		}
		return WeightStatusUnstable
	}

	suffix := string(sample.Raw[len(sample.Raw)-2:])
	inner := sample.Raw[:len(sample.Raw)-2]

	switch suffix {
	case stableSuffix:
		// A zero reading with non-zero digits still in the frame body is a
		// half-transmitted frame, not a settled zero.
		if sample.Weight == 0 && hasNonZeroDigit(inner) {
			return WeightStatusUnstable
		}
	case unstableSuffix:
		return WeightStatusUnstable
	default:
		return WeightStatusUnstable
	}

	if s.hasAccepted && math.Abs(sample.Weight-s.accepted) > s.spikeThreshold {
		return WeightStatusWarning
	}

	s.accepted = sample.Weight
	s.hasAccepted = true
	return WeightStatusStable
}

// AcceptedWeight returns the last stable reading, and whether one exists.
func (s *SignalClassifierService) AcceptedWeight() (float64, bool) {
	return s.accepted, s.hasAccepted
}

// Reset forgets the accepted weight. Used when the operator resets a session.
func (s *SignalClassifierService) Reset() {
	s.accepted = 0
	s.hasAccepted = false
}

func hasNonZeroDigit(b []byte) bool {
	for _, c := range b {
		if c >= '1' && c <= '9' {
			return true
		}
	}
	return false
}
