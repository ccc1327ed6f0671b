package mix

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/GuptaSandhali/BackgroundMusic/internal/domain/audio"
	"github.com/GuptaSandhali/BackgroundMusic/internal/domain/fetch"
	domainmix "github.com/GuptaSandhali/BackgroundMusic/internal/domain/mix"
	"github.com/GuptaSandhali/BackgroundMusic/internal/infrastructure/storage"
	"github.com/GuptaSandhali/BackgroundMusic/internal/usecase"
)

var _ usecase.UseCase[MixProgramInput, MixProgramOutput] = (*MixProgram)(nil)

// InputError marks a failure caused by caller-supplied material (the voice,
// intro or outro URL). Everything else is a system failure.
type InputError struct {
	msg string
	err error
}

func (e *InputError) Error() string { return e.msg }
func (e *InputError) Unwrap() error { return e.err }

// MixProgramInput is input DTO: the request URLs with defaults already
// resolved. Empty BeginningURL/EndingURL means that clip is disabled.
type MixProgramInput struct {
	VoiceURL     string
	BeginningURL string
	EndingURL    string
	Params       domainmix.Params
}

// MixProgramOutput is output DTO.
type MixProgramOutput struct {
	ID     string
	Format string
	Data   []byte
}

// MixProgram implements usecase.UseCase. It runs one full mix pipeline:
// download the inputs into a request-scoped workspace, decode them, compose
// the program, encode it and hand back the bytes. The workspace is removed
// on every exit path.
type MixProgram struct {
	fetcher       fetch.Fetcher
	decoder       audio.Decoder
	encoder       audio.Encoder
	backgroundURL string
}

func NewMixProgram(fetcher fetch.Fetcher, decoder audio.Decoder, encoder audio.Encoder, backgroundURL string) *MixProgram {
	return &MixProgram{fetcher: fetcher, decoder: decoder, encoder: encoder, backgroundURL: backgroundURL}
}

// Execute downloads, composes and encodes one audio program.
func (uc *MixProgram) Execute(ctx context.Context, in *MixProgramInput) (*MixProgramOutput, error) {
	id := uuid.NewString()
	log.Printf("[mix] %s: voice=%s intro=%s outro=%s", id, in.VoiceURL, in.BeginningURL, in.EndingURL)

	ws, err := storage.NewWorkspace(id)
	if err != nil {
		return nil, err
	}
	defer ws.Cleanup()

	voicePath := ws.Path("voice_" + id + ".bin")
	if err := uc.fetcher.Fetch(ctx, in.VoiceURL, voicePath); err != nil {
		return nil, &InputError{msg: "Failed to download voice audio", err: err}
	}

	backgroundPath := ws.Path("background_" + id + ".bin")
	if err := uc.fetcher.Fetch(ctx, uc.backgroundURL, backgroundPath); err != nil {
		return nil, fmt.Errorf("failed to download background music: %w", err)
	}

	beginningPath := ""
	if in.BeginningURL != "" {
		beginningPath = ws.Path("beginning_" + id + ".bin")
		if err := uc.fetcher.Fetch(ctx, in.BeginningURL, beginningPath); err != nil {
			return nil, &InputError{msg: "Failed to download beginning (intro) audio", err: err}
		}
	}

	endingPath := ""
	if in.EndingURL != "" {
		endingPath = ws.Path("ending_" + id + ".bin")
		if err := uc.fetcher.Fetch(ctx, in.EndingURL, endingPath); err != nil {
			return nil, &InputError{msg: "Failed to download ending (outro) audio", err: err}
		}
	}

	voice, err := uc.decoder.Decode(ctx, voicePath)
	if err != nil {
		return nil, fmt.Errorf("decode voice: %w", err)
	}
	background, err := uc.decoder.Decode(ctx, backgroundPath)
	if err != nil {
		return nil, fmt.Errorf("decode background: %w", err)
	}

	var beginning, ending *audio.Segment
	if beginningPath != "" {
		if beginning, err = uc.decoder.Decode(ctx, beginningPath); err != nil {
			return nil, fmt.Errorf("decode beginning: %w", err)
		}
	}
	if endingPath != "" {
		if ending, err = uc.decoder.Decode(ctx, endingPath); err != nil {
			return nil, fmt.Errorf("decode ending: %w", err)
		}
	}

	program, err := domainmix.Compose(voice, background, beginning, ending, in.Params)
	if err != nil {
		return nil, fmt.Errorf("compose: %w", err)
	}

	outPath := ws.Path("mixed_" + id + "." + in.Params.OutputFormat)
	if err := uc.encoder.Encode(ctx, program, in.Params.OutputFormat, outPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("read rendered output: %w", err)
	}

	log.Printf("[mix] %s: done, %d bytes, %dms program", id, len(data), program.DurationMs())
	return &MixProgramOutput{ID: id, Format: in.Params.OutputFormat, Data: data}, nil
}
