// Package ui serves the dashboard: the HTML page, the JSON selection
// API the page drives, and the SSE stream that keeps open pages in
// sync with selection changes.
package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"healthdash/internal/api"
	"healthdash/internal/dataset"
	"healthdash/internal/session"
	"healthdash/ports"
)

// Server represents the web server for the health dashboard
type Server struct {
	router        *gin.Engine
	store         *dataset.Store
	sessions      *session.Manager
	snapshots     ports.SelectionStore
	hub           *api.SSEHub
	templates     *template.Template
	embeddedFiles embed.FS
}

// NewServer creates a new web server instance
func NewServer(embeddedFiles embed.FS) *Server {
	return &Server{
		router:        gin.Default(),
		embeddedFiles: embeddedFiles,
	}
}

// Initialize sets up the server with dependencies
func (s *Server) Initialize(store *dataset.Store, sessions *session.Manager, snapshots ports.SelectionStore, hub *api.SSEHub) error {
	s.store = store
	s.sessions = sessions
	s.snapshots = snapshots
	s.hub = hub

	funcMap := template.FuncMap{
		"add": func(a, b int) int { return a + b },
	}

	// The root binary embeds from the repo root ("ui/templates"); the
	// package's own tests embed from the package dir ("templates").
	templatesFS, err := findSubFS(s.embeddedFiles, "*.html", "ui/templates", "templates")
	if err != nil {
		return fmt.Errorf("failed to locate templates: %w", err)
	}

	s.templates = template.New("").Funcs(funcMap)
	files, err := fs.Glob(templatesFS, "*.html")
	if err != nil {
		return fmt.Errorf("failed to glob templates: %w", err)
	}
	for _, file := range files {
		content, err := fs.ReadFile(templatesFS, file)
		if err != nil {
			return fmt.Errorf("failed to read template %s: %w", file, err)
		}
		if _, err := s.templates.New(file).Parse(string(content)); err != nil {
			return fmt.Errorf("failed to parse template %s: %w", file, err)
		}
	}
	log.Printf("[TemplateInit] Parsed %d template files: %v", len(files), files)

	s.setupMiddleware()
	s.setupRoutes()
	return nil
}

// Router exposes the gin engine for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

// setupMiddleware configures static file serving
func (s *Server) setupMiddleware() {
	staticFS, err := findSubFS(s.embeddedFiles, "css/*", "ui/static", "static")
	if err != nil {
		log.Printf("[Static] No static files embedded: %v", err)
		return
	}
	s.router.StaticFS("/static", http.FS(staticFS))
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)

	apiGroup := s.router.Group("/api")
	{
		apiGroup.GET("/meta", s.handleMeta)
		apiGroup.GET("/events", s.hub.HandleSSE)

		apiGroup.POST("/sessions", s.handleCreateSession)
		apiGroup.GET("/sessions/:id", s.handleGetSession)
		apiGroup.DELETE("/sessions/:id", s.handleDeleteSession)
		apiGroup.PATCH("/sessions/:id/selection", s.handleSelection)

		apiGroup.GET("/sessions/:id/slices/current", s.handleCurrentSlice)
		apiGroup.GET("/sessions/:id/slices/trend", s.handleTrendSlice)
		apiGroup.GET("/sessions/:id/charts/comparison", s.handleComparisonChart)
		apiGroup.GET("/sessions/:id/charts/trend", s.handleTrendChart)
		apiGroup.GET("/sessions/:id/table", s.handleTable)
		apiGroup.GET("/sessions/:id/status", s.handleStatus)
		apiGroup.GET("/sessions/:id/choices", s.handleChoices)
		apiGroup.GET("/sessions/:id/stats", s.handleStats)

		apiGroup.GET("/sessions/:id/tutorial", s.handleTutorial)
		apiGroup.POST("/sessions/:id/tutorial/next", s.handleTutorialNext)
		apiGroup.POST("/sessions/:id/tutorial/prev", s.handleTutorialPrev)
		apiGroup.POST("/sessions/:id/tutorial/finish", s.handleTutorialFinish)
	}
}

// Start starts the web server
func (s *Server) Start(addr string) error {
	log.Printf("Starting dashboard UI on http://localhost%s", addr)
	return s.router.Run(addr)
}

// findSubFS locates the first candidate directory that contains files
// matching the probe pattern.
func findSubFS(fsys fs.FS, probe string, candidates ...string) (fs.FS, error) {
	for _, dir := range candidates {
		sub, err := fs.Sub(fsys, dir)
		if err != nil {
			continue
		}
		if matches, _ := fs.Glob(sub, probe); len(matches) > 0 {
			return sub, nil
		}
	}
	return nil, fmt.Errorf("no directory matching %q among %v", probe, candidates)
}

// renderTemplate executes a template into the response
func (s *Server) renderTemplate(c *gin.Context, templateName string, data interface{}) {
	c.Header("Content-Type", "text/html")
	if err := s.templates.ExecuteTemplate(c.Writer, templateName, data); err != nil {
		log.Printf("Template error: %v", err)
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}

// handleIndex renders the dashboard page
func (s *Server) handleIndex(c *gin.Context) {
	data := map[string]interface{}{
		"Indicators": indicatorMetas(),
		"Years":      s.store.Years(),
		"States":     s.store.States(),
		"Steps":      tutorialStepMetas(),
	}
	s.renderTemplate(c, "index.html", data)
}
