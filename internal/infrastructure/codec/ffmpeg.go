// Package codec bridges Segments to encoded audio files through an ffmpeg
// subprocess. Inputs of any format ffmpeg understands are normalized to the
// service's canonical PCM layout (44100 Hz, stereo, 16-bit) so every segment
// in a mix shares one format.
package codec

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/GuptaSandhali/BackgroundMusic/internal/domain/audio"
)

const (
	canonicalSampleRate = 44100
	canonicalChannels   = 2
	canonicalBitDepth   = 16

	// Lossy formats get a fixed bitrate; everything else uses codec defaults.
	lossyBitrate = "128k"
)

// FFmpeg implements audio.Decoder and audio.Encoder by shelling out to the
// ffmpeg binary. Every invocation is bounded by a timeout; a timed-out
// transcode is a failure, not retried.
type FFmpeg struct {
	binary  string
	timeout time.Duration
}

// NewFFmpeg creates a transcoder using the given binary name (empty means
// "ffmpeg" from PATH) and per-invocation timeout.
func NewFFmpeg(binary string, timeout time.Duration) *FFmpeg {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &FFmpeg{binary: binary, timeout: timeout}
}

// Decode converts the file at path to canonical PCM and returns it as a
// Segment. The intermediate WAV lives next to the input and is removed
// before returning.
func (f *FFmpeg) Decode(ctx context.Context, path string) (*audio.Segment, error) {
	wavPath := path + ".decoded.wav"
	defer os.Remove(wavPath)

	err := f.run(ctx,
		"-y",
		"-i", path,
		"-ar", fmt.Sprint(canonicalSampleRate),
		"-ac", fmt.Sprint(canonicalChannels),
		"-sample_fmt", "s16",
		"-f", "wav",
		wavPath,
	)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return readWAV(wavPath)
}

// Encode renders seg to dstPath in the requested container/codec. mp3 and
// aac are pinned to 128 kbit/s.
func (f *FFmpeg) Encode(ctx context.Context, seg *audio.Segment, format, dstPath string) error {
	wavPath := dstPath + ".render.wav"
	defer os.Remove(wavPath)

	if err := writeWAV(wavPath, seg); err != nil {
		return err
	}

	args := []string{"-y", "-i", wavPath}
	switch strings.ToLower(format) {
	case "mp3", "aac":
		args = append(args, "-b:a", lossyBitrate)
	}
	args = append(args, dstPath)

	if err := f.run(ctx, args...); err != nil {
		return fmt.Errorf("encode to %s: %w", format, err)
	}
	return nil
}

func (f *FFmpeg) run(ctx context.Context, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, f.binary, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("%s timed out after %s", f.binary, f.timeout)
		}
		return fmt.Errorf("%s: %w: %s", f.binary, err, tail(out, 300))
	}
	return nil
}

func readWAV(path string) (*audio.Segment, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	dec := wav.NewDecoder(file)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("read wav %s: %w", filepath.Base(path), err)
	}
	if buf.Format == nil {
		return nil, fmt.Errorf("read wav %s: missing format", filepath.Base(path))
	}

	samples := make([]int16, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = int16(v)
	}
	return audio.NewSegment(samples, buf.Format.SampleRate, buf.Format.NumChannels)
}

func writeWAV(path string, seg *audio.Segment) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := wav.NewEncoder(file, seg.SampleRate(), canonicalBitDepth, seg.Channels(), 1)
	data := make([]int, len(seg.Samples()))
	for i, v := range seg.Samples() {
		data[i] = int(v)
	}
	buf := &gaudio.IntBuffer{
		Format:         &gaudio.Format{NumChannels: seg.Channels(), SampleRate: seg.SampleRate()},
		Data:           data,
		SourceBitDepth: canonicalBitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize wav: %w", err)
	}
	return nil
}

func tail(b []byte, n int) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
