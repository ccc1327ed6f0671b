package main

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GuptaSandhali/BackgroundMusic/internal/config"
	"github.com/GuptaSandhali/BackgroundMusic/internal/infrastructure/codec"
	"github.com/GuptaSandhali/BackgroundMusic/internal/infrastructure/fetch"
	"github.com/GuptaSandhali/BackgroundMusic/internal/interface/http/handler"
	"github.com/GuptaSandhali/BackgroundMusic/internal/metrics"
	ucmix "github.com/GuptaSandhali/BackgroundMusic/internal/usecase/mix"
)

func main() {
	cfg := config.Load()

	app := fiber.New(fiber.Config{
		// Voice clips can be long; accept generously sized payloads.
		BodyLimit: 32 * 1024 * 1024,
		// Every error leaves the service in the same JSON error shape.
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})
	// Last-resort safety net: a panic mid-pipeline becomes a generic 500.
	app.Use(recover.New())

	m := metrics.New(prometheus.DefaultRegisterer)

	fetcher := fetch.NewHTTPFetcher(cfg.FetchTimeout)
	transcoder := codec.NewFFmpeg("", cfg.EncodeTimeout)
	uc := ucmix.NewMixProgram(fetcher, transcoder, transcoder, cfg.BackgroundMusicURL)

	handler.NewMixHandler(cfg, uc, m).Register(app)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	log.Printf("🚀  Audio Mixer API listening on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
