package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"firetrack/api/internal/authz"
	"firetrack/api/internal/config"
	"firetrack/api/internal/middleware"
	"firetrack/api/internal/models"
	"firetrack/api/internal/repository"
	"firetrack/api/internal/service"
	"firetrack/api/internal/storage"
)

type HandlerSet struct {
	log     zerolog.Logger
	cfg     *config.AppConfig
	auth    *service.AuthService
	reports *service.ReportService

	db    *pgxpool.Pool
	cache *redis.Client
	store *storage.ObjectStore

	accounts   *repository.AccountRepository
	profiles   *repository.ProfileRepository
	companies  *repository.CompanyRepository
	sessions   *repository.SessionRepository
	clients    *repository.ClientRepository
	locations  *repository.LocationRepository
	equipment  *repository.EquipmentRepository
	brigade    *repository.BrigadeRepository
	activities *repository.ActivityRepository
	settings   *repository.SettingsRepository
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, store *storage.ObjectStore, cfg *config.AppConfig) HandlerSet {
	accountRepo := repository.NewAccountRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	equipmentRepo := repository.NewEquipmentRepository(db)

	auth := service.NewAuthService(accountRepo, profileRepo, companyRepo, sessionRepo, cfg, log)
	reports := service.NewReportService(equipmentRepo, store, log)

	return HandlerSet{
		log:     log,
		cfg:     cfg,
		auth:    auth,
		reports: reports,

		db:    db,
		cache: cache,
		store: store,

		accounts:   accountRepo,
		profiles:   profileRepo,
		companies:  companyRepo,
		sessions:   sessionRepo,
		clients:    repository.NewClientRepository(db),
		locations:  repository.NewLocationRepository(db),
		equipment:  equipmentRepo,
		brigade:    repository.NewBrigadeRepository(db),
		activities: repository.NewActivityRepository(db),
		settings:   repository.NewSettingsRepository(db),
	}
}

// RegisterRoutes wires every route group behind the guard for its route id from
// the authz table. Group guards and the navigation endpoint read the same
// table, so menus and enforcement cannot disagree.
func (h HandlerSet) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")

	requireAuth := middleware.Auth(h.cfg, h.auth)
	throttle := middleware.RateLimit(h.cfg.RateLimit, h.cache)

	auth := v1.Group("/auth")
	{
		anonymous := auth.Group("")
		anonymous.Use(middleware.Anonymous(h.cfg, h.auth), throttle)
		anonymous.POST("/login", h.Login)
		anonymous.POST("/register", h.Register)
		auth.POST("/refresh", throttle, h.Refresh)
		auth.GET("/companies", h.PublicCompanies)

		private := auth.Group("")
		private.Use(requireAuth)
		private.POST("/logout", h.Logout)
		private.GET("/me", h.Me)
		private.GET("/navigation", h.Navigation)
		private.GET("/sessions", h.ListSessions)
		private.DELETE("/sessions/:deviceId", h.RevokeSession)
	}

	v1.GET("/branding", h.Branding)

	dashboard := v1.Group("/dashboard")
	dashboard.Use(requireAuth, middleware.Guard(h.auth, authz.RouteDashboard))
	{
		dashboard.GET("/locations", h.DashboardLocations)
		dashboard.GET("/equipment", h.ListEquipment)
		dashboard.POST("/locations/:locationId/equipment", h.CreateEquipment)
		dashboard.PUT("/equipment/:id", h.UpdateEquipment)
		dashboard.DELETE("/equipment/:id",
			middleware.Guard(h.auth, authz.RouteDashboard, models.RoleAdmin), h.DeleteEquipment)
		dashboard.GET("/locations/:locationId/brigade", h.ListBrigade)
		dashboard.POST("/locations/:locationId/brigade", h.CreateBrigadeMember)
		dashboard.PUT("/brigade/:id", h.UpdateBrigadeMember)
		dashboard.DELETE("/brigade/:id",
			middleware.Guard(h.auth, authz.RouteDashboard, models.RoleAdmin), h.DeleteBrigadeMember)
		dashboard.GET("/client", h.MyClient)
	}

	calendar := v1.Group("/calendario")
	calendar.Use(requireAuth, middleware.Guard(h.auth, authz.RouteCalendar))
	{
		calendar.GET("/activities", h.ListActivities)
		calendar.POST("/activities", h.CreateActivity)
		calendar.PUT("/activities/:id", h.UpdateActivity)
		calendar.DELETE("/activities/:id", h.DeleteActivity)
	}

	reports := v1.Group("/relatorios")
	reports.Use(requireAuth, middleware.Guard(h.auth, authz.RouteReports))
	{
		reports.GET("", h.GenerateReport)
		reports.POST("/export", h.ExportReport)
	}

	clients := v1.Group("/clientes")
	clients.Use(requireAuth, middleware.Guard(h.auth, authz.RouteClients))
	{
		clients.GET("", h.ListClients)
		clients.POST("", h.CreateClient)
		clients.GET("/:id", h.GetClient)
		clients.PUT("/:id", h.UpdateClient)
		clients.DELETE("/:id", h.DeleteClient)
	}

	companies := v1.Group("/empresas")
	companies.Use(requireAuth, middleware.Guard(h.auth, authz.RouteCompanies))
	{
		companies.GET("", h.ListCompanies)
		companies.POST("", h.CreateCompany)
		companies.PUT("/:id", h.UpdateCompany)
	}

	locations := v1.Group("/locais")
	locations.Use(requireAuth, middleware.Guard(h.auth, authz.RouteLocations))
	{
		locations.GET("", h.ListLocations)
		locations.POST("", h.CreateLocation)
		locations.GET("/:id", h.GetLocation)
		locations.PUT("/:id", h.UpdateLocation)
		locations.DELETE("/:id", h.DeleteLocation)
	}

	users := v1.Group("/usuarios")
	users.Use(requireAuth, middleware.Guard(h.auth, authz.RouteUsers))
	{
		users.GET("", h.ListUsers)
		users.PATCH("/:id", h.UpdateUser)
	}

	settings := v1.Group("/configuracoes")
	settings.Use(requireAuth, middleware.Guard(h.auth, authz.RouteSettings))
	{
		settings.GET("", h.GetSettings)
		settings.PUT("", h.UpdateSettings)
		settings.POST("/logo", h.UploadLogo)
	}
}
