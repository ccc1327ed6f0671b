package handler

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/GuptaSandhali/BackgroundMusic/internal/config"
	"github.com/GuptaSandhali/BackgroundMusic/internal/domain/fetch"
	domainmix "github.com/GuptaSandhali/BackgroundMusic/internal/domain/mix"
	"github.com/GuptaSandhali/BackgroundMusic/internal/metrics"
	ucmix "github.com/GuptaSandhali/BackgroundMusic/internal/usecase/mix"
)

const serviceVersion = "1.3 (fixed intro/outro + safe crossfades)"

// mixRequest payload. Optional fields are pointers so an absent field (use
// the default) can be told apart from an explicit zero or empty string.
type mixRequest struct {
	VoiceAudioURL     string  `json:"voice_audio_url"`
	VoiceVolume       *int    `json:"voice_volume"`
	BackgroundVolume  *int    `json:"background_volume"`
	OutputFormat      *string `json:"output_format"`
	BeginningAudioURL *string `json:"beginning_audio_url"`
	EndingAudioURL    *string `json:"ending_audio_url"`
	BeginningVolume   *int    `json:"beginning_volume"`
	EndingVolume      *int    `json:"ending_volume"`
	GapBeforeMs       *int    `json:"gap_before_ms"`
	GapAfterMs        *int    `json:"gap_after_ms"`
	CrossfadeIntroMs  *int    `json:"crossfade_intro_ms"`
	CrossfadeOutroMs  *int    `json:"crossfade_outro_ms"`
}

// MixHandler bundles dependencies for the mixer HTTP routes.
type MixHandler struct {
	cfg *config.Config
	uc  *ucmix.MixProgram
	m   *metrics.Metrics
}

func NewMixHandler(cfg *config.Config, uc *ucmix.MixProgram, m *metrics.Metrics) *MixHandler {
	return &MixHandler{cfg: cfg, uc: uc, m: m}
}

// Register registers routes to app.
func (h *MixHandler) Register(app *fiber.App) {
	app.Get("/", h.healthCheck)
	app.Post("/mix-audio", h.mixAudio)
	// Placeholder alias: will return a URL instead of bytes once implemented.
	app.Post("/mix-audio-url", h.mixAudio)
}

func (h *MixHandler) healthCheck(c *fiber.Ctx) error {
	h.count(c.Path(), fiber.StatusOK)
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": "Audio Mixer API",
		"version": serviceVersion,
		"defaults": fiber.Map{
			"beginning_audio_url": h.cfg.BeginningAudioURL,
			"ending_audio_url":    h.cfg.EndingAudioURL,
			"beginning_volume":    h.cfg.BeginningVolumeDB,
			"ending_volume":       h.cfg.EndingVolumeDB,
			"gap_before_ms":       h.cfg.GapBeforeMs,
			"gap_after_ms":        h.cfg.GapAfterMs,
			"crossfade_intro_ms":  h.cfg.CrossfadeIntroMs,
			"crossfade_outro_ms":  h.cfg.CrossfadeOutroMs,
		},
	})
}

func (h *MixHandler) mixAudio(c *fiber.Ctx) error {
	var req mixRequest
	if err := c.BodyParser(&req); err != nil || len(c.Body()) == 0 {
		return h.fail(c, fiber.StatusBadRequest, "No JSON data provided")
	}
	if req.VoiceAudioURL == "" {
		return h.fail(c, fiber.StatusBadRequest, "voice_audio_url is required")
	}

	in := h.resolve(&req)

	h.m.ActiveMixes.Inc()
	start := time.Now()
	out, err := h.uc.Execute(c.Context(), in)
	h.m.MixDuration.Observe(time.Since(start).Seconds())
	h.m.ActiveMixes.Dec()

	if err != nil {
		return h.mapError(c, err)
	}

	h.count(c.Path(), fiber.StatusOK)
	filename := fmt.Sprintf("mixed_audio_%s.%s", out.ID, out.Format)
	c.Set(fiber.HeaderContentType, "audio/"+out.Format)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(out.Data)
}

// resolve merges the request with the configured defaults.
func (h *MixHandler) resolve(req *mixRequest) *ucmix.MixProgramInput {
	p := domainmix.Params{
		VoiceVolumeDB:      intOr(req.VoiceVolume, h.cfg.VoiceVolumeDB),
		BackgroundVolumeDB: intOr(req.BackgroundVolume, h.cfg.BackgroundVolumeDB),
		BeginningVolumeDB:  intOr(req.BeginningVolume, h.cfg.BeginningVolumeDB),
		EndingVolumeDB:     intOr(req.EndingVolume, h.cfg.EndingVolumeDB),
		GapBeforeMs:        intOr(req.GapBeforeMs, h.cfg.GapBeforeMs),
		GapAfterMs:         intOr(req.GapAfterMs, h.cfg.GapAfterMs),
		CrossfadeIntroMs:   intOr(req.CrossfadeIntroMs, h.cfg.CrossfadeIntroMs),
		CrossfadeOutroMs:   intOr(req.CrossfadeOutroMs, h.cfg.CrossfadeOutroMs),
		OutputFormat:       strings.ToLower(stringOr(req.OutputFormat, h.cfg.OutputFormat)),
	}
	return &ucmix.MixProgramInput{
		VoiceURL:     req.VoiceAudioURL,
		BeginningURL: normalizeOptionalURL(req.BeginningAudioURL, h.cfg.BeginningAudioURL),
		EndingURL:    normalizeOptionalURL(req.EndingAudioURL, h.cfg.EndingAudioURL),
		Params:       p,
	}
}

// mapError turns pipeline errors into the JSON error contract: 400 when the
// caller-supplied material was unusable, 500 for everything else.
func (h *MixHandler) mapError(c *fiber.Ctx, err error) error {
	var dlErr *fetch.DownloadError
	if errors.As(err, &dlErr) || errors.Is(err, fetch.ErrInvalidShareLink) {
		h.m.DownloadFailures.Inc()
	}

	var inputErr *ucmix.InputError
	if errors.As(err, &inputErr) {
		log.Printf("[handler] mix rejected: %v (%v)", inputErr, inputErr.Unwrap())
		return h.fail(c, fiber.StatusBadRequest, inputErr.Error())
	}

	log.Printf("[handler] mix failed: %v", err)
	return h.fail(c, fiber.StatusInternalServerError, "Processing error: "+err.Error())
}

func (h *MixHandler) fail(c *fiber.Ctx, status int, msg string) error {
	h.count(c.Path(), status)
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

func (h *MixHandler) count(endpoint string, status int) {
	h.m.HTTPRequests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
}

func intOr(v *int, def int) int {
	if v != nil {
		return *v
	}
	return def
}

func stringOr(v *string, def string) string {
	if v != nil {
		return *v
	}
	return def
}

// normalizeOptionalURL treats an absent field as "use the default" and an
// empty or blank override as "not provided" (clip disabled).
func normalizeOptionalURL(v *string, def string) string {
	if v == nil {
		return def
	}
	return strings.TrimSpace(*v)
}
