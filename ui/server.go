package ui

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strings"
	"time"

	"gapdash/app"
	"gapdash/ui/middleware"

	"github.com/gin-gonic/gin"
)

// Server represents the web server for the dashboard UI
type Server struct {
	router    *gin.Engine
	templates *template.Template
	dashboard *app.DashboardService
	summaries *app.SummaryService
	api       http.Handler
	srv       *http.Server
}

// Config holds the collaborators the server renders
type Config struct {
	Dashboard *app.DashboardService
	Summaries *app.SummaryService
	API       http.Handler // mounted under /api when set
}

// NewServer creates a new web server; templates must be rooted at ui/templates
func NewServer(templates fs.FS, config Config) (*Server, error) {
	if config.Dashboard == nil || config.Summaries == nil {
		return nil, fmt.Errorf("dashboard and summary services are required")
	}

	tmpl, err := parseTemplates(templates)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	s := &Server{
		router:    router,
		templates: tmpl,
		dashboard: config.Dashboard,
		summaries: config.Summaries,
		api:       config.API,
		srv: &http.Server{
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

func parseTemplates(templates fs.FS) (*template.Template, error) {
	funcMap := template.FuncMap{
		"upper": strings.ToUpper,
		"formatDuration": func(d time.Duration) string {
			if d < time.Second {
				return fmt.Sprintf("%dms", d.Milliseconds())
			}
			return fmt.Sprintf("%.2fs", d.Seconds())
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templates, "*.html", "fragments/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	log.Printf("[TemplateInit] Parsed templates: %s", tmpl.DefinedTemplates())
	return tmpl, nil
}

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Logger())
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.RequestID())
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.POST("/summary", s.handleSummary)
	s.router.GET("/export.xlsx", s.handleExportXLSX)
	s.router.GET("/export.csv", s.handleExportCSV)
	s.router.GET("/healthz", s.handleHealth)

	if s.api != nil {
		s.router.Any("/api/*path", gin.WrapH(http.StripPrefix("/api", s.api)))
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on addr until Shutdown is called
func (s *Server) Start(addr string) error {
	s.srv.Addr = addr
	log.Printf("Starting gapdash UI on http://%s", addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
