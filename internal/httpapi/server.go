// Package httpapi exposes the job board over HTTP with gin.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/ai"
	"github.com/spigell/jobmatch/internal/auth"
	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/logger"
	"github.com/spigell/jobmatch/internal/resume"
	"github.com/spigell/jobmatch/internal/users"
)

const SessionCookie = "jobmatch_session"

type Config struct {
	// CORSOrigins lists the browser origins allowed to call the API with
	// credentials. Empty allows any origin without credentials.
	CORSOrigins  []string
	CookieSecure bool
}

// Deps are the services behind the API. Resumes and Extractor are optional;
// their routes answer with a dependency error when unset.
type Deps struct {
	Jobs      *jobs.Service
	Users     *users.Service
	Sessions  *auth.Sessions
	Resumes   *resume.Service
	Extractor ai.SkillExtractor
	Logger    *zap.Logger
}

type Server struct {
	cfg    Config
	deps   Deps
	logger *zap.Logger
	engine *gin.Engine
}

func New(cfg Config, deps Deps) *Server {
	s := &Server{
		cfg:    cfg,
		deps:   deps,
		logger: logger.Component(deps.Logger, "http"),
	}
	s.engine = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(s.logger))
	router.Use(cors.New(corsConfig(s.cfg.CORSOrigins)))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	api := router.Group("/api/v1")
	authed := s.authenticate()

	authGroup := api.Group("/auth")
	authGroup.POST("/signup", s.signup)
	authGroup.POST("/login", s.login)
	authGroup.POST("/logout", authed, s.logout)
	authGroup.GET("/me", authed, s.me)

	api.GET("/users/:id", s.getUser)

	api.GET("/jobs", s.listJobs)
	api.GET("/jobs/:id", s.getJob)
	api.POST("/jobs", authed, s.createJob)
	api.PATCH("/jobs/:id", authed, s.updateJob)
	api.DELETE("/jobs/:id", authed, s.deleteJob)

	api.POST("/match", s.match)
	api.POST("/skills/extract", authed, s.extractSkills)

	api.POST("/resume/presign-upload", authed, s.presignUpload)
	api.GET("/resume/download-url", authed, s.downloadURL)

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions}
	cfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	cfg.MaxAge = 12 * time.Hour
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
