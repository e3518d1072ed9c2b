package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"crm/internal/domain/lead"
	"crm/internal/domain/note"
	"crm/internal/middleware"
	"crm/internal/monitoring"
	"crm/internal/pkg/cache"
	"crm/internal/pkg/events"
)

// Options tunes the router. Zero values give a router without cache or events.
type Options struct {
	AllowedOrigins []string
	CacheTTL       time.Duration
	Cache          cache.Cache
	Events         events.Publisher
	Sentry         bool
}

// NewRouter wires repositories, services and handlers on the shared pool.
func NewRouter(db *gorm.DB, opts Options) *gin.Engine {
	if opts.Cache == nil {
		opts.Cache = cache.Nop{}
	}
	if opts.Events == nil {
		opts.Events = events.Nop{}
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}

	leadRepo := lead.NewRepository(db)
	noteRepo := note.NewRepository(db)

	leadService := lead.NewService(leadRepo, opts.Cache, opts.Events, opts.CacheTTL)
	noteService := note.NewService(noteRepo, opts.Events)

	leadHandler := lead.NewHandler(leadService)
	noteHandler := note.NewHandler(noteService)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.RequestLogger())
	// Sentry wraps ErrorLogger so recovered panics reach it as 500s.
	if opts.Sentry {
		r.Use(middleware.Sentry())
	}
	r.Use(
		middleware.ErrorLogger(),
		middleware.Metrics(),
		middleware.CORS(opts.AllowedOrigins),
	)

	r.GET("/health", healthHandler(db))
	r.GET("/metrics", gin.WrapH(monitoring.Handler()))

	api := r.Group("/api")
	{
		lead.RegisterRoutes(api, leadHandler)
		note.RegisterRoutes(api, noteHandler)
	}

	return r
}
