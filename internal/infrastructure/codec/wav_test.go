package codec

import (
	"path/filepath"
	"testing"

	"github.com/GuptaSandhali/BackgroundMusic/internal/domain/audio"
)

func TestWAVRoundTrip(t *testing.T) {
	samples := []int16{0, 1000, -1000, 32767, -32768, 7, 7}
	// Stereo needs an even sample count.
	seg, err := audio.NewSegment(samples[:6], canonicalSampleRate, canonicalChannels)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "roundtrip.wav")
	if err := writeWAV(path, seg); err != nil {
		t.Fatal(err)
	}

	got, err := readWAV(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.SampleRate() != canonicalSampleRate || got.Channels() != canonicalChannels {
		t.Errorf("format = %dHz/%dch", got.SampleRate(), got.Channels())
	}
	if len(got.Samples()) != 6 {
		t.Fatalf("sample count = %d, want 6", len(got.Samples()))
	}
	for i, v := range got.Samples() {
		if v != seg.Samples()[i] {
			t.Errorf("sample %d = %d, want %d", i, v, seg.Samples()[i])
		}
	}
}

func TestTailTruncatesLongOutput(t *testing.T) {
	long := make([]byte, 1000)
	for i := range long {
		long[i] = 'a'
	}
	if got := tail(long, 300); len(got) != 300 {
		t.Errorf("tail length = %d, want 300", len(got))
	}
	if got := tail([]byte("  short  "), 300); got != "short" {
		t.Errorf("tail = %q, want trimmed", got)
	}
}
