package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/clerky/website/internal/handler"
	"github.com/clerky/website/internal/middleware"
	"github.com/clerky/website/internal/models"
)

type Options struct {
	PublicDir         string
	AssetsDir         string
	AllowOrigins      string
	CheckoutRateLimit int
}

type Handlers struct {
	Page        *handler.PageHandler
	Translation *handler.TranslationHandler
	Checkout    *handler.CheckoutHandler
}

// Pages maps clean URLs to files under the public directory.
var Pages = map[string]string{
	"/":                     "index.html",
	"/status":               "status.html",
	"/politica-privacidade": "politica-privacidade.html",
	"/termos":               "termos.html",
	"/documentacao":         "documentacao.html",
}

func NewFiberApp(opts Options, h Handlers, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler:          handler.ErrorHandler(logger),
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger(logger))
	app.Use(cors.New(cors.Config{
		AllowOrigins: opts.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST",
	}))

	api := app.Group("/api")
	api.Get("/translations", h.Translation.GetTranslations)
	api.Get("/translations/all", h.Translation.GetAllTranslations)
	api.Get("/translations/key", h.Translation.GetTranslationKey)

	limit := opts.CheckoutRateLimit
	if limit <= 0 {
		limit = 20
	}
	api.Post("/checkout", limiter.New(limiter.Config{
		Max:        limit,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse("Muitas requisições, tente novamente em instantes"))
		},
	}), h.Checkout.CreateCheckout)

	for route, file := range Pages {
		app.Get(route, h.Page.Page(file))
	}
	app.Use(h.Page.RedirectHTML)
	app.Use(h.Page.CleanURL)

	app.Static("/assets", opts.AssetsDir)
	app.Static("/", opts.PublicDir)

	return app
}
