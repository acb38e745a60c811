// Package snapshot buffers timestamped samples of a replicated value and
// resamples them for smooth remote playback.
//
// Remote values are rendered slightly in the past (InterpolationTarget,
// -0.25s by default) so that a query usually falls between two received
// samples and can be interpolated instead of snapping to each update.
package snapshot

import (
	"github.com/MKhiriev/go-sync-framework/internal/logger"
)

const (
	DefaultSize                = 20
	DefaultInterpolationTarget = -0.25
)

// LerpFunc interpolates between a and b. t is 0 at a and 1 at b and may
// fall outside [0, 1] when extrapolating.
type LerpFunc[T any] func(a, b T, t float64) T

// Options configures a Buffer. Start from DefaultOptions.
type Options struct {
	// Size is the capacity; the oldest sample is evicted beyond it.
	Size int
	// InterpolationTarget is the offset in seconds added to the current
	// server time when sampling. Negative values render in the past.
	InterpolationTarget float64
	// AllowExtrapolation projects past the newest sample using the last two.
	AllowExtrapolation bool
}

// DefaultOptions returns size 20, target -0.25s and no extrapolation.
func DefaultOptions() Options {
	return Options{
		Size:                DefaultSize,
		InterpolationTarget: DefaultInterpolationTarget,
	}
}

// Sample is one timestamped value.
type Sample[T any] struct {
	Time  float64
	Value T
}

// Buffer is a fixed-capacity, time-ordered sample buffer.
type Buffer[T any] struct {
	samples []Sample[T]
	opts    Options
	lerp    LerpFunc[T]
	logger  *logger.Logger
}

// New creates a buffer. A nil lerp makes every interpolation return the
// later sample.
func New[T any](lerp LerpFunc[T], opts Options, log *logger.Logger) *Buffer[T] {
	if opts.Size <= 0 {
		opts.Size = DefaultSize
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Buffer[T]{
		samples: make([]Sample[T], 0, opts.Size),
		opts:    opts,
		lerp:    lerp,
		logger:  log,
	}
}

// InterpolationTarget returns the configured sampling offset in seconds.
func (b *Buffer[T]) InterpolationTarget() float64 { return b.opts.InterpolationTarget }

// Len returns the number of buffered samples.
func (b *Buffer[T]) Len() int { return len(b.samples) }

// Samples returns a copy of the buffered samples, oldest first.
func (b *Buffer[T]) Samples() []Sample[T] {
	out := make([]Sample[T], len(b.samples))
	copy(out, b.samples)
	return out
}

// Latest returns the newest sample.
func (b *Buffer[T]) Latest() (Sample[T], bool) {
	if len(b.samples) == 0 {
		return Sample[T]{}, false
	}
	return b.samples[len(b.samples)-1], true
}

// Clear drops every sample.
func (b *Buffer[T]) Clear() {
	b.samples = b.samples[:0]
}

// SaveSnapshot appends a sample. A timestamp older than the newest sample
// is dropped with a warning and the buffer is left untouched; equal
// timestamps are accepted. When full, the oldest sample is evicted.
func (b *Buffer[T]) SaveSnapshot(timestamp float64, value T) bool {
	if last, ok := b.Latest(); ok && last.Time > timestamp {
		b.logger.Warn().
			Float64("timestamp", timestamp).
			Float64("latest", last.Time).
			Msg("snapshot received out of order, dropping")
		return false
	}
	if len(b.samples) >= b.opts.Size {
		copy(b.samples, b.samples[1:])
		b.samples = b.samples[:len(b.samples)-1]
	}
	b.samples = append(b.samples, Sample[T]{Time: timestamp, Value: value})
	return true
}

// FindNearestIndexBefore returns the index of the newest sample strictly
// older than timestamp, or -1.
func (b *Buffer[T]) FindNearestIndexBefore(timestamp float64) int {
	for i := len(b.samples) - 1; i >= 0; i-- {
		if b.samples[i].Time < timestamp {
			return i
		}
	}
	return -1
}

// GetLerpedValue samples the buffer at timestamp. It reports false when no
// sample precedes timestamp, in which case the caller should fall back to
// its own latest value.
func (b *Buffer[T]) GetLerpedValue(timestamp float64) (T, bool) {
	i := b.FindNearestIndexBefore(timestamp)
	if i == -1 {
		var zero T
		return zero, false
	}

	before := b.samples[i]
	if i < len(b.samples)-1 {
		after := b.samples[i+1]
		return b.lerpSamples(before, after, inverseLerp(before.Time, after.Time, timestamp)), true
	}

	if b.opts.AllowExtrapolation && i > 0 {
		prev := b.samples[i-1]
		return b.lerpSamples(prev, before, inverseLerp(prev.Time, before.Time, timestamp)), true
	}
	return before.Value, true
}

func (b *Buffer[T]) lerpSamples(a, c Sample[T], t float64) T {
	if b.lerp == nil {
		return c.Value
	}
	return b.lerp(a.Value, c.Value, t)
}

// inverseLerp returns where value sits between lo and hi. Equal bounds
// yield 1 so the later sample wins.
func inverseLerp(lo, hi, value float64) float64 {
	if hi == lo {
		return 1
	}
	return (value - lo) / (hi - lo)
}
