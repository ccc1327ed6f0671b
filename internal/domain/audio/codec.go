package audio

import "context"

// Decoder turns a downloaded media file into a Segment in the service's
// canonical PCM format.
// Concrete implementation wraps ffmpeg or another transcoding tool.
type Decoder interface {
	// Decode reads the file at path and returns its decoded Segment.
	Decode(ctx context.Context, path string) (*Segment, error)
}

// Encoder renders a Segment into an encoded audio file.
type Encoder interface {
	// Encode writes seg to dstPath in the given format (e.g. "mp3", "wav").
	Encode(ctx context.Context, seg *Segment, format, dstPath string) error
}
