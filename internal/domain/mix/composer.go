package mix

import (
	"errors"
	"fmt"

	"github.com/GuptaSandhali/BackgroundMusic/internal/domain/audio"
)

// ErrMissingInput is returned when a required decoded segment is absent.
var ErrMissingInput = errors.New("voice and background segments are required")

// Compose assembles the full audio program: background looped/trimmed under
// the voice, then an optional intro in front and an optional outro behind,
// joined by crossfades or hard cuts with silence gaps.
//
// Crossfade lengths are always clamped below the shorter adjoining segment's
// duration minus one millisecond; a clamp down to zero silently degrades to
// plain concatenation.
func Compose(voice, background, intro, outro *audio.Segment, p Params) (*audio.Segment, error) {
	if voice == nil || background == nil {
		return nil, ErrMissingInput
	}

	voice = voice.Gain(float64(p.VoiceVolumeDB))
	background = background.Gain(float64(p.BackgroundVolumeDB))
	if intro != nil {
		intro = intro.Gain(float64(p.BeginningVolumeDB))
	}
	if outro != nil {
		outro = outro.Gain(float64(p.EndingVolumeDB))
	}

	background, err := fitBackground(voice, background)
	if err != nil {
		return nil, err
	}

	program, err := voice.Overlay(background)
	if err != nil {
		return nil, fmt.Errorf("main mix: %w", err)
	}

	if intro != nil {
		program, err = composeIntro(intro, program, p)
		if err != nil {
			return nil, fmt.Errorf("intro: %w", err)
		}
	}

	if outro != nil {
		program, err = composeOutro(program, outro, p)
		if err != nil {
			return nil, fmt.Errorf("outro: %w", err)
		}
	}

	return program, nil
}

// fitBackground loops the background just enough to cover the voice, then
// trims it to exactly the voice duration. A background already long enough is
// trimmed without looping.
func fitBackground(voice, background *audio.Segment) (*audio.Segment, error) {
	if background.DurationMs() == 0 {
		return nil, fmt.Errorf("background track is empty")
	}
	if background.DurationMs() < voice.DurationMs() {
		loops := voice.DurationMs()/background.DurationMs() + 1
		background = background.Repeat(loops)
	}
	return background.Slice(0, voice.DurationMs()), nil
}

// clampCrossfade bounds a requested crossfade below both segment durations.
func clampCrossfade(requested int, a, b *audio.Segment) int {
	cf := requested
	if m := a.DurationMs() - 1; cf > m {
		cf = m
	}
	if m := b.DurationMs() - 1; cf > m {
		cf = m
	}
	if cf < 0 {
		cf = 0
	}
	return cf
}

func composeIntro(intro, program *audio.Segment, p Params) (*audio.Segment, error) {
	if p.CrossfadeIntroMs > 0 {
		if cf := clampCrossfade(p.CrossfadeIntroMs, intro, program); cf > 0 {
			return intro.Append(program, cf)
		}
		return intro.Concat(program)
	}
	// Hard cut, with an optional silence gap before the program.
	if p.GapBeforeMs > 0 {
		gap := audio.Silence(p.GapBeforeMs, program.SampleRate(), program.Channels())
		withGap, err := intro.Concat(gap)
		if err != nil {
			return nil, err
		}
		return withGap.Concat(program)
	}
	return intro.Concat(program)
}

func composeOutro(program, outro *audio.Segment, p Params) (*audio.Segment, error) {
	if p.CrossfadeOutroMs > 0 {
		// Crossfade straight from program into the outro; any trailing gap is
		// appended after the join so silence never takes part in the fade.
		var err error
		if cf := clampCrossfade(p.CrossfadeOutroMs, program, outro); cf > 0 {
			program, err = program.Append(outro, cf)
		} else {
			program, err = program.Concat(outro)
		}
		if err != nil {
			return nil, err
		}
		if p.GapAfterMs > 0 {
			return program.Concat(audio.Silence(p.GapAfterMs, program.SampleRate(), program.Channels()))
		}
		return program, nil
	}
	// Hard cut: the gap sits between program and outro.
	if p.GapAfterMs > 0 {
		withGap, err := program.Concat(audio.Silence(p.GapAfterMs, program.SampleRate(), program.Channels()))
		if err != nil {
			return nil, err
		}
		program = withGap
	}
	return program.Concat(outro)
}
