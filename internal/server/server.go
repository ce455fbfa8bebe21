// Package server exposes declarative forms over HTTP: it renders them with
// the session CSRF token and previously recorded errors, and validates
// submissions with the post/redirect/get cycle.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-formbuilder/pkg/csrf"
	"github.com/goliatone/go-formbuilder/pkg/definition"
	"github.com/goliatone/go-formbuilder/pkg/orchestrator"
	"github.com/goliatone/go-formbuilder/pkg/session"
)

const (
	// DefaultCookieName names the cookie carrying the session id.
	DefaultCookieName = "formbuilder_session"
	// SuccessKey is flashed after a submission passes validation.
	SuccessKey = "form_success"

	sessionContextKey = "formbuilder.session"
	formContextKey    = "formbuilder.form"
)

// Option customises a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Server) { s.log = log }
}

// WithCookie configures the session cookie.
func WithCookie(name string, secure bool) Option {
	return func(s *Server) {
		if name != "" {
			s.cookieName = name
		}
		s.secureCookie = secure
	}
}

// WithCSRF replaces the token manager.
func WithCSRF(manager *csrf.Manager) Option {
	return func(s *Server) {
		if manager != nil {
			s.csrf = manager
		}
	}
}

// WithSessions shares a session registry.
func WithSessions(registry *session.Registry) Option {
	return func(s *Server) {
		if registry != nil {
			s.sessions = registry
		}
	}
}

// WithOrchestratorOptions configures the orchestrator used for rendering.
// The definition store passed to New is always registered.
func WithOrchestratorOptions(options ...orchestrator.Option) Option {
	return func(s *Server) {
		s.orchestratorOptions = append(s.orchestratorOptions, options...)
	}
}

// Server serves the registered forms.
type Server struct {
	engine       *gin.Engine
	forms        *orchestrator.Orchestrator
	definitions  *definition.Store
	sessions     *session.Registry
	csrf         *csrf.Manager
	cookieName   string
	secureCookie bool
	log          zerolog.Logger

	orchestratorOptions []orchestrator.Option
}

// New builds a Server for definitions.
func New(definitions *definition.Store, options ...Option) *Server {
	if definitions == nil {
		definitions = definition.NewStore()
	}
	s := &Server{
		definitions: definitions,
		sessions:    session.NewRegistry(),
		csrf:        csrf.New(),
		cookieName:  DefaultCookieName,
		log:         zerolog.Nop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	orchestratorOptions := append([]orchestrator.Option{}, s.orchestratorOptions...)
	orchestratorOptions = append(orchestratorOptions, orchestrator.WithDefinitions(definitions))
	s.forms = orchestrator.New(orchestratorOptions...)

	s.engine = gin.New()
	s.engine.Use(gin.Recovery(), s.requestLogger())
	s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info().Msg("server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) routes() {
	s.engine.GET("/health", s.health)
	s.engine.GET("/forms", s.listForms)

	// Only form pages carry session state.
	forms := s.engine.Group("/forms/:name", s.requireForm(), s.sessionMiddleware())
	forms.GET("", s.showForm)
	forms.POST("", s.submitForm)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "forms": len(s.definitions.Names())})
}

func (s *Server) listForms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"forms": s.definitions.Names()})
}

// requireForm resolves the :name parameter, answering 404 before any session
// is issued for an unknown form.
func (s *Server) requireForm() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		form, ok := s.definitions.Form(name)
		if !ok {
			c.String(http.StatusNotFound, "form %q not found", name)
			c.Abort()
			return
		}
		c.Set(formContextKey, form)
		c.Next()
	}
}

// sessionMiddleware attaches the caller's session store, issuing a fresh id
// when the cookie is missing or unknown.
func (s *Server) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(s.cookieName)
		store, ok := s.sessions.Lookup(id)
		if err != nil || !ok {
			id = uuid.NewString()
			store = s.sessions.Get(id)
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(s.cookieName, id, 0, "/", "", s.secureCookie, true)
		}
		c.Set(sessionContextKey, store)
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := s.log.Debug()
		switch {
		case status >= http.StatusInternalServerError:
			event = s.log.Error()
		case status >= http.StatusBadRequest:
			event = s.log.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request completed")
	}
}

func formFrom(c *gin.Context) definition.Form {
	if value, ok := c.Get(formContextKey); ok {
		if form, ok := value.(definition.Form); ok {
			return form
		}
	}
	return definition.Form{}
}

func sessionFrom(c *gin.Context) *session.Store {
	if value, ok := c.Get(sessionContextKey); ok {
		if store, ok := value.(*session.Store); ok {
			return store
		}
	}
	return session.NewStore()
}
