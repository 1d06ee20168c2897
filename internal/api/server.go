package api

import (
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/eventhub-app/eventhub-api/docs"
	v1 "github.com/eventhub-app/eventhub-api/internal/api/handler/v1"
	"github.com/eventhub-app/eventhub-api/internal/api/middleware"
	"github.com/eventhub-app/eventhub-api/internal/config"
	"github.com/eventhub-app/eventhub-api/internal/mailer"
	"github.com/eventhub-app/eventhub-api/internal/repository"
	"github.com/eventhub-app/eventhub-api/internal/repository/dao"
	"github.com/eventhub-app/eventhub-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	authHandler := s.initAuthHandler(db)
	eventHandler := s.initEventHandler(db)
	registrationHandler := s.initRegistrationHandler(db)
	dashboardHandler := s.initDashboardHandler(db)
	s.MountHandlers(authHandler, eventHandler, registrationHandler, dashboardHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	adminDAO := dao.NewAdminDAO(db)
	repo := repository.NewAdminRepository(adminDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initEventHandler(db *gorm.DB) *v1.EventHandler {
	eventDAO := dao.NewEventDAO(db)
	repo := repository.NewEventRepository(eventDAO)
	svc := service.NewEventService(repo)
	handler := v1.NewEventHandler(s.Config.Upload, svc)

	return handler
}

func (s *Server) initRegistrationHandler(db *gorm.DB) *v1.RegistrationHandler {
	repo := repository.NewRegistrationRepository(dao.NewRegistrationDAO(db))
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	sender := mailer.NewSMTPSender(s.Config.Mail)
	mailTimeout := time.Duration(s.Config.Mail.TimeoutSeconds) * time.Second
	svc := service.NewRegistrationService(repo, eventRepo, sender, mailTimeout)
	handler := v1.NewRegistrationHandler(svc)

	return handler
}

func (s *Server) initDashboardHandler(db *gorm.DB) *v1.DashboardHandler {
	repo := repository.NewStatsRepository(dao.NewStatsDAO(db))
	svc := service.NewStatsService(repo)
	handler := v1.NewDashboardHandler(svc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
	s.Router.MaxMultipartMemory = int64(s.Config.Upload.MaxSizeMB) << 20
}

func (s *Server) MountHandlers(authHandler *v1.AuthHandler, eventHandler *v1.EventHandler, registrationHandler *v1.RegistrationHandler, dashboardHandler *v1.DashboardHandler) {
	const basePath = "/api/v1"

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/login", authHandler.HandleLogin)

		public.GET("/events", eventHandler.HandleListEvents)
		public.GET("/events/featured", eventHandler.HandleFeaturedEvents)
		public.GET("/events/categories", eventHandler.HandleGetCategories)
		public.GET("/events/calendar", eventHandler.HandleCalendarFeed)
		public.GET("/events/:eventID", eventHandler.HandleGetEvent)

		public.POST("/events/:eventID/registrations", registrationHandler.HandleCreateRegistration)
		public.GET("/registrations/:registrationID", registrationHandler.HandleGetRegistration)
	}

	admin := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		admin.POST("/events", eventHandler.HandleCreateEvent)
		admin.PUT("/events/:eventID", eventHandler.HandleUpdateEvent)
		admin.DELETE("/events/:eventID", eventHandler.HandleDeleteEvent)
		admin.POST("/events/:eventID/video", eventHandler.HandleUploadVideo)

		admin.GET("/events/:eventID/registrations", registrationHandler.HandleListRegistrations)
		admin.PATCH("/registrations/:registrationID/check-in", registrationHandler.HandleCheckIn)
		admin.PATCH("/registrations/:registrationID/confirm", registrationHandler.HandleConfirm)

		admin.GET("/dashboard", dashboardHandler.HandleDashboard)
	}

	s.Router.GET("/", v1.HandleHealthcheck)
	s.Router.Static("/uploads", s.Config.Upload.Dir)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "EventHub API"
	docs.SwaggerInfo.Description = "Event registration API with QR-coded registrations."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
