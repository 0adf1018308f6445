package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
	"github.com/localconnect/catalog-manager/internal/dependency"
	"github.com/localconnect/catalog-manager/internal/middleware"
	"github.com/localconnect/catalog-manager/internal/ratelimit"
)

// Config is the configuration for the http server
type Config struct {
	Port            string   `mapstructure:"port"`
	Address         string   `mapstructure:"address"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	SearchPerMinute int      `mapstructure:"search_per_minute"`
}

// Server is the http server
type Server struct {
	hs      *http.Server
	c       *Config
	svc     dependency.CatalogService
	ja      *jwtauth.JWTAuth
	limiter *ratelimit.Limiter
	done    chan struct{}
}

// New creates a new server
func New(c *Config, svc dependency.CatalogService, ja *jwtauth.JWTAuth) *Server {
	s := &Server{
		c:    c,
		svc:  svc,
		ja:   ja,
		done: make(chan struct{}),
	}
	if c.SearchPerMinute > 0 {
		s.limiter = ratelimit.NewLimiter(c.SearchPerMinute, 0)
	}
	return s
}

// Done returns a channel that is closed when the http server exits
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// Router builds the HTTP API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.ClientIdentifier)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowOriginFunc: func(_ *http.Request, origin string) bool {
			return isOriginAllowed(origin, s.c.AllowedOrigins)
		},
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/health", s.health)

	r.Route("/api/catalog", func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Get("/categories", s.categoryTree)
		r.Get("/products", s.browseProducts)
		r.Get("/deals", s.deals)
		r.Get("/businesses", s.featuredBusinesses)
	})

	r.Route("/api/business", func(r chi.Router) {
		r.Use(jwtauth.Verifier(s.ja))
		r.Use(s.businessScope)
		r.Get("/products", s.listBusinessProducts)
		r.Post("/products", s.createProduct)
		r.Route("/products/{id}", func(r chi.Router) {
			r.Get("/", s.getProduct)
			r.Put("/", s.updateProduct)
			r.Delete("/", s.deleteProduct)
		})
	})

	return r
}

// Start starts the server
func (s *Server) Start(ctx context.Context) error {
	listenerAddr := fmt.Sprintf("%s:%s", s.c.Address, s.c.Port)
	s.hs = &http.Server{
		Addr:              listenerAddr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.limiter != nil {
		go s.limiter.Run(s.done)
	}

	go func() {
		slog.Default().InfoContext(ctx, fmt.Sprintf("catalog-manager new listener on: http://%v", listenerAddr))
		err := s.hs.ListenAndServe()
		if err == http.ErrServerClosed {
			slog.Default().InfoContext(ctx, "http server returned")
		} else {
			slog.Default().ErrorContext(ctx, "http server exited with an error",
				slog.String("err", err.Error()),
			)
		}
		close(s.done)
	}()

	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.hs == nil {
		return nil
	}
	return s.hs.Shutdown(ctx)
}

func isOriginAllowed(origin string, allowedOrigins []string) bool {
	// Always allow localhost origins
	if strings.HasPrefix(origin, "http://localhost:") || strings.HasPrefix(origin, "https://localhost:") {
		return true
	}
	for _, allowedOrigin := range allowedOrigins {
		if allowedOrigin == "*" || origin == allowedOrigin {
			return true
		}
	}
	return false
}
