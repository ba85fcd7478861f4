package progress

// Sampler suppresses repetitive progress lines, emitting only when the
// percentage crosses into a new bucket.
type Sampler struct {
	bucketSize float64
	lastBucket int
}

// NewSampler constructs a sampler that emits when the percent crosses bucket
// boundaries (default 5%).
func NewSampler(bucketSize float64) *Sampler {
	if bucketSize <= 0 {
		bucketSize = 5
	}
	return &Sampler{bucketSize: bucketSize, lastBucket: -1}
}

// ShouldLog reports whether a progress event at percent should be emitted.
// Negative percentages mean "unknown" and never emit.
func (s *Sampler) ShouldLog(percent float64) bool {
	if s == nil {
		return true
	}
	if percent < 0 {
		return false
	}
	bucket := int(percent / s.bucketSize)
	if percent >= 100 {
		bucket = int(100 / s.bucketSize)
	}
	if bucket > s.lastBucket {
		s.lastBucket = bucket
		return true
	}
	return false
}

// Reset clears the sampler state (e.g. when a new batch starts).
func (s *Sampler) Reset() {
	if s == nil {
		return
	}
	s.lastBucket = -1
}
