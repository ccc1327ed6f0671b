package mix

// Params is the fully resolved parameter set for one mix: request overrides
// already merged with the configured defaults.
type Params struct {
	VoiceVolumeDB      int
	BackgroundVolumeDB int
	BeginningVolumeDB  int
	EndingVolumeDB     int

	// Gaps apply only on the paths described in Compose: before the program
	// on a hard-cut intro, and around the outro join.
	GapBeforeMs int
	GapAfterMs  int

	CrossfadeIntroMs int
	CrossfadeOutroMs int

	OutputFormat string
}
