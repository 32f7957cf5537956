package httpserver

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/pharmagen/pharmagen/internal/core/ports"
	customMiddleware "github.com/pharmagen/pharmagen/internal/infrastructure/httpserver/middleware"
)

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	TLSCertFile  string
	TLSKeyFile   string
}

type ServerDeps struct {
	ChatService    ports.ChatService
	ReportService  ports.ReportService
	ReportRenderer ports.ReportRenderer
	TokenService   ports.TokenService
	HealthCheckers []ports.HealthChecker
}

type Server struct {
	echo           *echo.Echo
	config         *ServerConfig
	logger         *logrus.Logger
	chatService    ports.ChatService
	reportService  ports.ReportService
	reportRenderer ports.ReportRenderer
	tokenService   ports.TokenService
	middleware     *customMiddleware.MiddlewareCollection
	healthCheckers []ports.HealthChecker
}

func NewServer(serverConfig *ServerConfig, logger *logrus.Logger, deps ServerDeps) *Server {
	e := echo.New()

	server := &Server{
		echo:           e,
		config:         serverConfig,
		logger:         logger,
		chatService:    deps.ChatService,
		reportService:  deps.ReportService,
		reportRenderer: deps.ReportRenderer,
		tokenService:   deps.TokenService,
		healthCheckers: deps.HealthCheckers,
		middleware: customMiddleware.NewMiddlewareCollection(
			deps.TokenService,
			logger,
			GetRequestsTotal(),
			GetRequestDuration(),
		),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}
