package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/patil-piyush/OceanGuard/auth"
	"github.com/patil-piyush/OceanGuard/controllers"
	"github.com/patil-piyush/OceanGuard/database"
	"github.com/patil-piyush/OceanGuard/detect"
	"github.com/patil-piyush/OceanGuard/engine"
	"github.com/patil-piyush/OceanGuard/media"
	"github.com/patil-piyush/OceanGuard/notify"
	"github.com/patil-piyush/OceanGuard/routes"
	"github.com/patil-piyush/OceanGuard/store"
	"github.com/patil-piyush/OceanGuard/weather"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("env: no .env file loaded: %v", err)
	}

	if err := database.Connect(context.Background()); err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer database.Disconnect(context.Background())

	images, err := media.NewStorage(
		getenv("MINIO_ENDPOINT", "localhost:9000"),
		getenv("MINIO_ACCESS_KEY", "minioadmin"),
		getenv("MINIO_SECRET_KEY", "minioadmin"),
		getenv("MINIO_BUCKET", "oceanguard"),
		getenv("MINIO_PUBLIC_URL", "http://localhost:9000"),
		getenv("MINIO_USE_SSL", "") == "true",
	)
	if err != nil {
		log.Fatalf("media storage init failed: %v", err)
	}
	if err := images.EnsureBucket(context.Background()); err != nil {
		log.Printf("media: bucket check failed: %v", err)
	}

	var events engine.EventSink
	if url := os.Getenv("AMQP_URL"); url != "" {
		publisher, err := notify.NewEventPublisher(url, getenv("AMQP_EXCHANGE", "oceanguard.events"))
		if err != nil {
			log.Printf("events: broker unavailable, continuing without events: %v", err)
		} else {
			defer publisher.Close()
			events = publisher
		}
	}

	eng := engine.New(
		store.NewReportStore(database.Col("reports")),
		store.NewAuthorityStore(database.Col("authorities")),
		detect.NewClient(os.Getenv("DETECTION_URL"), os.Getenv("DETECTION_API_KEY")),
		weather.NewClient(os.Getenv("OPEN_METEO_URL"), os.Getenv("OPEN_METEO_MARINE_URL")),
		images,
		notify.NewEmailNotifier(
			os.Getenv("SMTP_HOST"),
			getenv("SMTP_PORT", "587"),
			getenv("SMTP_FROM", "alerts@oceanguard.local"),
			os.Getenv("SMTP_USERNAME"),
			os.Getenv("SMTP_PASSWORD"),
		),
		events,
		engine.Config{
			RadiusKm:        envFloat("DISPATCH_RADIUS_KM", 10),
			Steps:           envInt("DRIFT_STEPS", 6),
			IntervalMinutes: envInt("DRIFT_INTERVAL_MINUTES", 30),
		},
	)

	rc := &controllers.ReportController{Engine: eng}
	ac := &controllers.AuthorityController{Authorities: store.NewAuthorityStore(database.Col("authorities"))}
	identity := auth.NewHTTPProvider(os.Getenv("IDENTITY_URL"))

	app := fiber.New(fiber.Config{BodyLimit: 25 * 1024 * 1024})
	app.Use(recover.New())

	app.Use(logger.New(logger.Config{
		TimeFormat: "15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: getenv("CORS_ORIGINS", "http://localhost:3000"),
		AllowMethods: "GET,POST,PUT,OPTIONS",
		AllowHeaders: "*",
		MaxAge:       int((12 * time.Hour).Seconds()),
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })

	routes.Register(app, rc, ac, identity)

	addr := ":" + getenv("PORT", "3005")
	log.Printf("API listening on %s", addr)
	log.Fatal(app.Listen(addr))
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envFloat(k string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}
