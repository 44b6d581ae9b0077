// Package api serves the JSON analysis endpoints and the session-gated HTML
// front end.
package api

import (
	"embed"
	"html/template"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spacesedan/reviewpulse/internal/auth"
	"github.com/spacesedan/reviewpulse/internal/batch"
	"github.com/spacesedan/reviewpulse/internal/sentiment"
	"github.com/spacesedan/reviewpulse/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxUploadBytes = 32 << 20

type Options struct {
	SessionTTL    time.Duration
	SecureCookies bool
	// DisplayLimit caps the rows rendered on the batch page.
	DisplayLimit int
}

type Server struct {
	analyzer   *sentiment.Analyzer
	aggregator *batch.Aggregator
	creds      auth.CredentialStore
	sessions   session.Store
	opts       Options
}

func NewServer(analyzer *sentiment.Analyzer, aggregator *batch.Aggregator, creds auth.CredentialStore, sessions session.Store, opts Options) *Server {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	if opts.DisplayLimit <= 0 {
		opts.DisplayLimit = 200
	}
	return &Server{
		analyzer:   analyzer,
		aggregator: aggregator,
		creds:      creds,
		sessions:   sessions,
		opts:       opts,
	}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(), gin.Recovery())
	r.MaxMultipartMemory = maxUploadBytes
	r.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	api := r.Group("/api")
	{
		api.GET("/health", s.health)
		api.POST("/analyze-review", s.analyzeReview)
		api.POST("/analyze-batch", s.analyzeBatch)
	}

	r.GET("/login", s.loginPage)
	r.POST("/login", s.login)
	r.GET("/signup", s.signupPage)
	r.POST("/signup", s.signup)
	r.POST("/logout", s.logout)

	pages := r.Group("/", s.requireSession())
	{
		pages.GET("/", s.singlePage)
		pages.POST("/", s.singleAnalyze)
		pages.GET("/batch", s.batchPage)
		pages.POST("/batch", s.batchAnalyze)
	}

	return r
}
