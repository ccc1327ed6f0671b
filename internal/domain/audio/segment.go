package audio

import (
	"fmt"
	"math"
)

// Segment is an in-memory decoded audio buffer: interleaved PCM-16 samples
// at a fixed sample rate and channel count. All operations are immutable and
// return a new Segment; millisecond arguments are converted to whole frames.
type Segment struct {
	sampleRate int
	channels   int
	samples    []int16
}

// NewSegment wraps interleaved PCM-16 samples. The sample slice is owned by
// the returned Segment and must not be mutated by the caller afterwards.
func NewSegment(samples []int16, sampleRate, channels int) (*Segment, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}
	if channels < 1 {
		return nil, fmt.Errorf("channels must be >= 1, got %d", channels)
	}
	if len(samples)%channels != 0 {
		return nil, fmt.Errorf("sample count %d is not aligned to %d channels", len(samples), channels)
	}
	return &Segment{sampleRate: sampleRate, channels: channels, samples: samples}, nil
}

// Silence returns a segment of zero samples lasting ms milliseconds.
func Silence(ms, sampleRate, channels int) *Segment {
	if ms < 0 {
		ms = 0
	}
	frames := ms * sampleRate / 1000
	return &Segment{
		sampleRate: sampleRate,
		channels:   channels,
		samples:    make([]int16, frames*channels),
	}
}

// SampleRate returns the sample rate in Hz.
func (s *Segment) SampleRate() int { return s.sampleRate }

// Channels returns the channel count.
func (s *Segment) Channels() int { return s.channels }

// Samples returns the interleaved PCM data. Callers must treat it as read-only.
func (s *Segment) Samples() []int16 { return s.samples }

// Frames returns the number of per-channel sample frames.
func (s *Segment) Frames() int { return len(s.samples) / s.channels }

// DurationMs returns the segment length in whole milliseconds.
func (s *Segment) DurationMs() int {
	return int(int64(s.Frames()) * 1000 / int64(s.sampleRate))
}

func (s *Segment) framesForMs(ms int) int {
	return int(int64(ms) * int64(s.sampleRate) / 1000)
}

func (s *Segment) sameFormat(o *Segment) bool {
	return s.sampleRate == o.sampleRate && s.channels == o.channels
}

func clampSample(v float64) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

// Gain returns a copy with a decibel gain offset applied uniformly.
// A 0 dB offset returns an identical copy.
func (s *Segment) Gain(db float64) *Segment {
	out := make([]int16, len(s.samples))
	if db == 0 {
		copy(out, s.samples)
	} else {
		factor := math.Pow(10, db/20)
		for i, v := range s.samples {
			out[i] = clampSample(math.Round(float64(v) * factor))
		}
	}
	return &Segment{sampleRate: s.sampleRate, channels: s.channels, samples: out}
}

// Overlay mixes other on top of s starting at offset 0. The receiver
// determines the output length; any excess of other is dropped.
func (s *Segment) Overlay(other *Segment) (*Segment, error) {
	if !s.sameFormat(other) {
		return nil, fmt.Errorf("overlay format mismatch: %dHz/%dch vs %dHz/%dch",
			s.sampleRate, s.channels, other.sampleRate, other.channels)
	}
	out := make([]int16, len(s.samples))
	copy(out, s.samples)
	n := len(other.samples)
	if n > len(out) {
		n = len(out)
	}
	for i := 0; i < n; i++ {
		out[i] = clampSample(float64(s.samples[i]) + float64(other.samples[i]))
	}
	return &Segment{sampleRate: s.sampleRate, channels: s.channels, samples: out}, nil
}

// Concat returns s followed by other with no blending (hard cut).
func (s *Segment) Concat(other *Segment) (*Segment, error) {
	if !s.sameFormat(other) {
		return nil, fmt.Errorf("concat format mismatch: %dHz/%dch vs %dHz/%dch",
			s.sampleRate, s.channels, other.sampleRate, other.channels)
	}
	out := make([]int16, 0, len(s.samples)+len(other.samples))
	out = append(out, s.samples...)
	out = append(out, other.samples...)
	return &Segment{sampleRate: s.sampleRate, channels: s.channels, samples: out}, nil
}

// Repeat tiles the segment n times. n <= 0 yields an empty segment.
func (s *Segment) Repeat(n int) *Segment {
	if n < 0 {
		n = 0
	}
	out := make([]int16, 0, len(s.samples)*n)
	for i := 0; i < n; i++ {
		out = append(out, s.samples...)
	}
	return &Segment{sampleRate: s.sampleRate, channels: s.channels, samples: out}
}

// Slice returns the [fromMs, toMs) range. Bounds are clamped to the segment.
func (s *Segment) Slice(fromMs, toMs int) *Segment {
	start := s.framesForMs(fromMs) * s.channels
	end := s.framesForMs(toMs) * s.channels
	if start < 0 {
		start = 0
	}
	if end > len(s.samples) {
		end = len(s.samples)
	}
	if start > end {
		start = end
	}
	out := make([]int16, end-start)
	copy(out, s.samples[start:end])
	return &Segment{sampleRate: s.sampleRate, channels: s.channels, samples: out}
}

// Append joins other onto s, overlapping the last crossfadeMs of s with the
// first crossfadeMs of other under linear fade ramps. The crossfade must fit
// inside both segments; callers clamp beforehand. crossfadeMs == 0 degrades
// to a plain concat.
func (s *Segment) Append(other *Segment, crossfadeMs int) (*Segment, error) {
	if !s.sameFormat(other) {
		return nil, fmt.Errorf("append format mismatch: %dHz/%dch vs %dHz/%dch",
			s.sampleRate, s.channels, other.sampleRate, other.channels)
	}
	if crossfadeMs <= 0 {
		return s.Concat(other)
	}
	cfFrames := s.framesForMs(crossfadeMs)
	if cfFrames > s.Frames() || cfFrames > other.Frames() {
		return nil, fmt.Errorf("crossfade %dms exceeds segment bounds (%dms / %dms)",
			crossfadeMs, s.DurationMs(), other.DurationMs())
	}

	headLen := len(s.samples) - cfFrames*s.channels
	out := make([]int16, 0, len(s.samples)+len(other.samples)-cfFrames*s.channels)
	out = append(out, s.samples[:headLen]...)

	// Blend region: s fades out while other fades in.
	for f := 0; f < cfFrames; f++ {
		fadeIn := float64(f+1) / float64(cfFrames+1)
		fadeOut := 1 - fadeIn
		for ch := 0; ch < s.channels; ch++ {
			a := float64(s.samples[headLen+f*s.channels+ch])
			b := float64(other.samples[f*s.channels+ch])
			out = append(out, clampSample(a*fadeOut+b*fadeIn))
		}
	}

	out = append(out, other.samples[cfFrames*other.channels:]...)
	return &Segment{sampleRate: s.sampleRate, channels: s.channels, samples: out}, nil
}
