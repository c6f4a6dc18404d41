package services

import (
	"fmt"
	"strings"

	"github.com/alphabatem/common/context"
	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/lac-hong-legacy/salita_api/docs"
	"github.com/lac-hong-legacy/salita_api/services/handlers"
	"github.com/lac-hong-legacy/salita_api/shared"
)

const HTTP_SVC = "http_svc"

type HttpService struct {
	context.DefaultService

	port   int
	server *fiber.App
}

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	svc.port = getEnvInt("HTTP_PORT", 8000)
	return svc.DefaultService.Configure(ctx)
}

// NewApp builds the fiber app with the shared error handler and JSON codec.
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      SERVICE_NAME,
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		ErrorHandler: shared.ErrorHandler,
	})
}

func (svc *HttpService) Start() error {
	practiceSvc := svc.Service(PRACTICE_SVC).(*PracticeService)
	usageSvc := svc.Service(USAGE_SVC).(*UsageService)
	userSvc := svc.Service(USER_SVC).(*UserService)
	authSvc := svc.Service(AUTH_MIDDLEWARE_SVC).(*AuthMiddleware)
	rateLimitSvc := svc.Service(RATE_LIMIT_SVC).(*RateLimitService)

	app := NewApp()
	docs.SwaggerInfo.BasePath = ""

	app.Use(recover.New())
	if monitoringSvc, ok := svc.Service(MONITORING_SVC).(*MonitoringService); ok {
		app.Use(MonitoringMiddleware(monitoringSvc))
	}
	if strings.EqualFold(getEnv("LOG_LEVEL", ""), "trace") {
		app.Use(logger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "*"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
	}))

	app.Get("/ping", svc.ping)
	app.Get("/swagger/*", swagger.HandlerDefault)

	v1 := app.Group("/api/v1")
	v1.Get("/ping", svc.ping)

	handlers.RegisterRoutes(v1,
		authSvc.RequiredAuth(),
		rateLimitSvc,
		handlers.NewSessionHandler(practiceSvc),
		handlers.NewUsageHandler(usageSvc),
		handlers.NewUserHandler(userSvc),
	)

	app.Use(func(c *fiber.Ctx) error {
		return shared.ResponseNotFound(c)
	})

	svc.server = app
	return app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=10")

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", "pong")
}
