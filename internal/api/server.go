package api

import (
	"fmt"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/vietanh2810/church-members-api/docs"
	v1 "github.com/vietanh2810/church-members-api/internal/api/handler/v1"
	"github.com/vietanh2810/church-members-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/church-members-api/internal/api/middleware"
	"github.com/vietanh2810/church-members-api/internal/config"
	"github.com/vietanh2810/church-members-api/internal/domain"
	"github.com/vietanh2810/church-members-api/internal/notifier"
	"github.com/vietanh2810/church-members-api/internal/repository"
	"github.com/vietanh2810/church-members-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

type handlers struct {
	auth    *v1.AuthHandler
	users   *v1.UserHandler
	forms   *v1.FormHandler
	entries *v1.EntryHandler
	stats   *v1.StatsHandler
}

func NewServer(conf *config.AppConfig, storage repository.Storage, n notifier.Notifier) (*Server, error) {
	policy, err := request.NewPasswordPolicy(conf.API.PasswordPattern)
	if err != nil {
		return nil, fmt.Errorf("request.NewPasswordPolicy -> %w", err)
	}

	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()
	s.MountHandlers(s.initHandlers(storage, n, policy))

	return s, nil
}

func (s *Server) initHandlers(storage repository.Storage, n notifier.Notifier, policy *request.PasswordPolicy) handlers {
	userRepo := repository.NewUserRepository(storage.Users)
	formRepo := repository.NewFormRepository(storage.Forms)
	entryRepo := repository.NewEntryRepository(storage.Entries)

	authSvc := service.NewAuthService(userRepo)
	userSvc := service.NewUserService(userRepo)
	formSvc := service.NewFormService(formRepo)
	entrySvc := service.NewEntryService(entryRepo, formRepo, userRepo, n)
	statsSvc := service.NewStatsService(entryRepo, formRepo)

	return handlers{
		auth:    v1.NewAuthHandler(s.Config.API, authSvc, userSvc, policy),
		users:   v1.NewUserHandler(userSvc, policy),
		forms:   v1.NewFormHandler(formSvc, entrySvc),
		entries: v1.NewEntryHandler(entrySvc),
		stats:   v1.NewStatsHandler(statsSvc),
	}
}

func (s *Server) MountMiddlewares() {
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.RequestLogger())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(h handlers) {
	const basePath = "/api"

	verify := middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT()
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	auth := s.Router.Group(basePath + "/auth")
	{
		auth.POST("/register", h.auth.HandleRegister)
		auth.POST("/login", h.auth.HandleLogin)
		auth.GET("/me", verify, h.auth.HandleMe)
	}

	staff := s.Router.Group(basePath, verify)
	{
		staff.GET("/forms", h.forms.HandleListForms)
		staff.GET("/forms/:formID", h.forms.HandleGetForm)
		staff.GET("/forms/:formID/layout", h.forms.HandleGetLayout)
		staff.POST("/forms/:formID/submissions", h.forms.HandleSubmitForm)
		staff.POST("/entries", h.entries.HandleCreateEntry)
	}

	admin := s.Router.Group(basePath, verify, adminOnly)
	{
		admin.POST("/forms", h.forms.HandleCreateForm)
		admin.PUT("/forms/:formID", h.forms.HandleUpdateForm)
		admin.DELETE("/forms/:formID", h.forms.HandleDeleteForm)

		admin.GET("/users", h.users.HandleListUsers)
		admin.POST("/users", h.users.HandleAddUser)
		admin.PUT("/users/:userID", h.users.HandleUpdateUser)
		admin.DELETE("/users/:userID", h.users.HandleDeleteUser)

		admin.GET("/entries", h.entries.HandleListEntries)
		admin.GET("/entries/:entryID", h.entries.HandleGetEntry)
		admin.PUT("/entries/:entryID", h.entries.HandleUpdateEntry)
		admin.DELETE("/entries/:entryID", h.entries.HandleDeleteEntry)

		admin.GET("/stats", h.stats.HandleGetStats)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Church Members API"
	docs.SwaggerInfo.Description = "Member intake for church festivals."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
