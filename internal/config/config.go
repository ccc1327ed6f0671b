package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Fixed source material. The background track and the default intro/outro
// clips are Google Drive share links resolved by the fetcher.
const (
	DefaultBackgroundMusicURL = "https://drive.google.com/file/d/1y5MbuIq01IldamB9HdxvmDSx4wfcn7qr/view?usp=sharing"
	DefaultBeginningAudioURL  = "https://drive.google.com/file/d/1w604zYgdQCcSpx-yd0WR7gWwj9ZCNRfb/view?usp=drive_link"
	DefaultEndingAudioURL     = "https://drive.google.com/file/d/1-2SWAFnyAQsSTNqs2rqnDySL1mV40zvJ/view?usp=drive_link"
)

// Config holds application-wide configuration populated from environment
// variables. It is constructed once at startup and treated as read-only.
type Config struct {
	Port string

	BackgroundMusicURL string
	BeginningAudioURL  string
	EndingAudioURL     string

	// Default mix parameters, applied when the request omits a field.
	VoiceVolumeDB      int
	BackgroundVolumeDB int
	BeginningVolumeDB  int
	EndingVolumeDB     int
	GapBeforeMs        int
	GapAfterMs         int
	CrossfadeIntroMs   int
	CrossfadeOutroMs   int
	OutputFormat       string

	FetchTimeout  time.Duration
	EncodeTimeout time.Duration
}

// Load reads environment variables and returns Config with defaults applied.
func Load() *Config {
	// ルートの.envを読み込む（存在しなければ無視）
	_ = godotenv.Load()
	return &Config{
		Port: getEnv("PORT", "5000"),

		BackgroundMusicURL: getEnv("BACKGROUND_MUSIC_URL", DefaultBackgroundMusicURL),
		BeginningAudioURL:  getEnv("BEGINNING_AUDIO_URL", DefaultBeginningAudioURL),
		EndingAudioURL:     getEnv("ENDING_AUDIO_URL", DefaultEndingAudioURL),

		VoiceVolumeDB:      0,
		BackgroundVolumeDB: -12,
		BeginningVolumeDB:  0,
		EndingVolumeDB:     0,
		GapBeforeMs:        250,
		GapAfterMs:         0,
		CrossfadeIntroMs:   500,
		CrossfadeOutroMs:   300,
		OutputFormat:       "mp3",

		FetchTimeout:  getEnvDuration("FETCH_TIMEOUT_SEC", 60),
		EncodeTimeout: getEnvDuration("ENCODE_TIMEOUT_SEC", 120),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvDuration(key string, defSeconds int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return time.Duration(defSeconds) * time.Second
}
