package api

import (
	"fmt"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/mecalink/admin-gateway/docs"
	v1 "github.com/mecalink/admin-gateway/internal/api/handler/v1"
	"github.com/mecalink/admin-gateway/internal/api/middleware"
	"github.com/mecalink/admin-gateway/internal/config"
	"github.com/mecalink/admin-gateway/internal/mecalink"
	"github.com/mecalink/admin-gateway/internal/pkg/sealer"
	"github.com/mecalink/admin-gateway/internal/repository"
	"github.com/mecalink/admin-gateway/internal/repository/dao"
	"github.com/mecalink/admin-gateway/internal/service"
	"github.com/mecalink/admin-gateway/internal/session"
)

type Server struct {
	Config     *config.AppConfig
	Router     *gin.Engine
	Broadcasts *service.BroadcastService

	registry *session.Registry
	client   *mecalink.Client
}

type handlers struct {
	auth          *v1.AuthHandler
	profile       *v1.ProfileHandler
	stats         *v1.StatsHandler
	catalog       *v1.CatalogHandler
	notifications *v1.NotificationHandler
	broadcasts    *v1.BroadcastHandler
}

func NewServer(conf *config.AppConfig, db *gorm.DB) (*Server, error) {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	registry, err := initRegistry(conf.Session, db)
	if err != nil {
		return nil, err
	}

	s := &Server{
		Config:   conf,
		Router:   engine,
		registry: registry,
		client:   mecalink.New(conf.MecaLink.BaseURL),
	}

	s.MountMiddlewares()

	catalog := service.NewCatalogService(registry)
	s.Broadcasts = service.NewBroadcastService(catalog, mecalink.NewDiagnosticClient(conf.MecaLink.DiagnosticURL))

	s.MountHandlers(handlers{
		auth:          v1.NewAuthHandler(conf.API, conf.Session, service.NewAuthService(registry, s.client)),
		profile:       v1.NewProfileHandler(service.NewProfileService()),
		stats:         v1.NewStatsHandler(service.NewStatsService()),
		catalog:       v1.NewCatalogHandler(catalog),
		notifications: v1.NewNotificationHandler(service.NewNotificationService()),
		broadcasts:    v1.NewBroadcastHandler(s.Broadcasts, conf.API.AllowedCORSDomains),
	})

	return s, nil
}

func initRegistry(conf *config.SessionConfig, db *gorm.DB) (*session.Registry, error) {
	box, err := sealer.New(conf.Secret)
	if err != nil {
		return nil, fmt.Errorf("sealer.New -> %w", err)
	}

	repo := repository.NewSessionRepository(dao.NewSessionDAO(db), box)

	return session.NewRegistry(repo.Persisters()), nil
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(h handlers) {
	const basePath = "/api/v1"

	authenticator := middleware.NewAuthenticator(s.Config.API.JWTSigningKey)
	resolver := service.NewSessionResolver(s.registry, s.client)

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/login", h.auth.HandleLogin)
	}

	signedIn := s.Router.Group(basePath, authenticator.VerifyJWT(), middleware.RequireSession(resolver))
	{
		signedIn.POST("/auth/logout", h.auth.HandleLogout)
	}

	admin := s.Router.Group(basePath,
		authenticator.VerifyJWT(),
		middleware.RequireSession(resolver),
		middleware.RequireAdmin(),
	)
	{
		admin.GET("/auth/me", h.profile.HandleGetMe)
		admin.PUT("/profile", h.profile.HandleUpdateProfile)

		admin.GET("/stats", h.stats.HandleGetStats)
		admin.GET("/stats/period", h.stats.HandleGetPeriodStats)

		admin.GET("/clients", h.catalog.HandleListClients)
		admin.GET("/clients/:id", h.catalog.HandleGetClient)
		admin.DELETE("/clients/:id", h.catalog.HandleDeleteClient)

		admin.GET("/garages", h.catalog.HandleListGarages)
		admin.GET("/garages/:id", h.catalog.HandleGetGarage)
		admin.DELETE("/garages/:id", h.catalog.HandleDeleteGarage)

		admin.GET("/checklists", h.catalog.HandleListChecklists)
		admin.GET("/checklists/:id", h.catalog.HandleGetChecklist)

		admin.GET("/service-requests", h.catalog.HandleListServiceRequests)
		admin.GET("/service-requests/:id", h.catalog.HandleGetServiceRequest)

		admin.GET("/advertisements", h.catalog.HandleListAdvertisements)
		admin.POST("/advertisements", h.catalog.HandleCreateAdvertisement)
		admin.GET("/advertisements/:id", h.catalog.HandleGetAdvertisement)
		admin.PUT("/advertisements/:id", h.catalog.HandleUpdateAdvertisement)
		admin.DELETE("/advertisements/:id", h.catalog.HandleDeleteAdvertisement)

		admin.POST("/notifications", h.notifications.HandleSendNotification)

		admin.POST("/broadcasts/diagnostic", h.broadcasts.HandleStartDiagnostic)
		admin.POST("/broadcasts/devices", h.broadcasts.HandleStartDevices)
		admin.GET("/broadcasts/:id", h.broadcasts.HandleGetBroadcast)
		admin.GET("/broadcasts/:id/ws", h.broadcasts.HandleBroadcastWebSocket)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "MecaLink admin gateway"
	docs.SwaggerInfo.Description = "Admin API in front of the MecaLink back end."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
