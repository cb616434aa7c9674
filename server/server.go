// Package server assembles the HTTP surface: global middleware, the feature
// routers and the health check.
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"github.com/user/reliefhub-go/apperror"
	"github.com/user/reliefhub-go/auth"
	"github.com/user/reliefhub-go/config"
	_ "github.com/user/reliefhub-go/docs" // registers the swagger spec
	"github.com/user/reliefhub-go/logging"
	"github.com/user/reliefhub-go/recentworks"
	"github.com/user/reliefhub-go/reliefgoods"
	"github.com/user/reliefhub-go/store"
	"github.com/user/reliefhub-go/users"
)

const requestTimeout = 60 * time.Second

// NewRouter wires every service onto st and returns the application router.
// Swagger UI is mounted only outside production.
func NewRouter(cfg *config.AppConfig, st store.Store, l *zap.Logger) (http.Handler, error) {
	authModule, err := auth.NewModule(cfg.Auth, st.Users(), l)
	if err != nil {
		return nil, apperror.NewConfigError("failed to set up authentication", err)
	}

	reliefDocs, err := st.Collection(store.CollectionReliefGoods)
	if err != nil {
		return nil, fmt.Errorf("relief goods collection: %w", err)
	}
	recentDocs, err := st.Collection(store.CollectionRecentWorks)
	if err != nil {
		return nil, fmt.Errorf("recent works collection: %w", err)
	}

	userHandlers := users.NewUserHandlers(users.NewUserService(st.Users()), l)
	reliefHandler := reliefgoods.NewHandler(reliefgoods.NewService(reliefDocs, l), l)
	recentHandler := recentworks.NewHandler(recentworks.NewService(recentDocs), l)

	r := chi.NewRouter()

	// Chi requires all middleware to be registered before any routes.
	// Order matters: RequestID and RealIP run first so the request logger
	// can record them, and the recoverer sits inside the logger so a panic
	// is still logged as a 500.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(l))
	r.Use(recoverer(l))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		apperror.WriteError(w, apperror.NewNotFoundError(fmt.Sprintf("route %s %s not found", r.Method, r.URL.Path), nil))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		apperror.WriteJSON(w, http.StatusMethodNotAllowed, apperror.ErrorResponse{
			Kind:    "method_not_allowed",
			Message: fmt.Sprintf("method %s not allowed on %s", r.Method, r.URL.Path),
		})
	})

	r.Get("/", HandleHealth())

	if !cfg.Server.Production {
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/register", authModule.Handlers.HandleRegister())
		r.Post("/login", authModule.Handlers.HandleLogin())

		r.Group(func(r chi.Router) {
			r.Use(auth.JWTMiddleware(authModule.Tokens))
			r.Get("/me", userHandlers.HandleGetProfile())
		})
	})

	// The collection routes are open on purpose; only the profile above
	// needs a token.
	r.Route("/relief-goods", reliefHandler.RegisterRoutes)
	r.Route("/our-recent-works", recentHandler.RegisterRoutes)

	return r, nil
}

// recoverer turns a panicking handler into a 500 error envelope. Unlike
// middleware.Recoverer it answers in the API's JSON format and logs with zap.
func recoverer(l *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}
				l.Error("panic in handler",
					zap.Any("panic", rvr),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.Stack("stack"),
				)
				apperror.WriteError(w, apperror.NewInternalError("internal server error", nil))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
