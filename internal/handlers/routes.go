package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pathfinder/career-advisor/internal/metrics"
	"pathfinder/career-advisor/internal/services"
)

const (
	appName    = "PathFinder Career Advisor API"
	appVersion = "1.0.0"
)

// AppOptions carries everything NewApp needs. Metrics and Gatherer may be nil.
type AppOptions struct {
	Advisor      services.AdvisorService
	Metrics      *metrics.Metrics
	Gatherer     prometheus.Gatherer
	MaxFileSize  int64
	AllowOrigins string
}

// NewApp builds the Fiber app with middleware and every route registered.
func NewApp(opts AppOptions) *fiber.App {
	bodyLimit := int(opts.MaxFileSize)
	if bodyLimit <= 0 {
		bodyLimit = fiber.DefaultBodyLimit
	}
	// Multipart overhead on top of the file itself.
	bodyLimit += 64 * 1024

	app := fiber.New(fiber.Config{
		AppName:      appName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		BodyLimit:    bodyLimit,
		ErrorHandler: ErrorHandler,
	})

	allowOrigins := opts.AllowOrigins
	if allowOrigins == "" {
		allowOrigins = "*"
	}

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path} ${locals:requestid}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	app.Use(metricsMiddleware(opts.Metrics))

	RegisterRoutes(app, opts)
	return app
}

func RegisterRoutes(app *fiber.App, opts AppOptions) {
	chatHandler := NewChatHandler(opts.Advisor)
	skillsHandler := NewSkillsHandler(opts.Advisor)
	resumeHandler := NewResumeHandler(opts.Advisor, opts.MaxFileSize)
	careerHandler := NewCareerHandler(opts.Advisor)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": appName,
			"version": appVersion,
			"endpoints": []string{
				"POST /chat",
				"POST /chatbot",
				"POST /analyze-skills",
				"POST /skills",
				"POST /extract-skills",
				"POST /resume",
				"POST /career-assessment",
				"GET /health",
				"GET /metrics",
			},
		})
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	if opts.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	app.Post("/chat", chatHandler.HandleChat)
	app.Post("/chatbot", chatHandler.HandleChatbot)
	app.Post("/analyze-skills", skillsHandler.HandleAnalyzeSkills)
	app.Post("/skills", skillsHandler.HandleReviewSkills)
	app.Post("/extract-skills", resumeHandler.HandleExtractSkills)
	app.Post("/resume", resumeHandler.HandleReviewResume)
	app.Post("/career-assessment", careerHandler.HandleCareerAssessment)
}

// metricsMiddleware records one observation per request, labelled by the
// matched route pattern rather than the raw path.
func metricsMiddleware(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m == nil {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}

		route := c.Route().Path
		if status == fiber.StatusNotFound && route == "/" && c.Path() != "/" {
			route = "unmatched"
		}

		m.RecordHTTPRequest(route, c.Method(), strconv.Itoa(status), float64(time.Since(start).Milliseconds()))
		return err
	}
}
