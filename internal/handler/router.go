/*
Package handler provides the HTTP handlers and routing setup for the UniConnect server.

This file defines the main Router, applying necessary middleware like logging, CORS,
and IP-based rate limiting before delegating requests to specific handlers (API and WebSocket).
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"uniconnect/internal/pkg/auth/jwt"
	"uniconnect/internal/pkg/limiter"
	"uniconnect/internal/pkg/logx"
	"uniconnect/internal/pkg/resp"
)

const (
	// AuthRate limits register/login attempts per IP.
	AuthRate  = 0.2
	AuthBurst = 5

	// SocketRate limits WebSocket upgrade attempts per IP.
	SocketRate  = 0.5
	SocketBurst = 10
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// It initializes IP-based rate limiters, configures CORS, and applies global and per-route middleware.
func Router(deps *AppDeps) http.Handler {
	authLimiter := limiter.NewIPRateLimiter(rate.Limit(AuthRate), AuthBurst)
	socketLimiter := limiter.NewIPRateLimiter(rate.Limit(SocketRate), SocketBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	var wsUpgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.Environment == "development" {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		logx.Info("Health check endpoint hit")

		data := map[string]string{
			"status":  "ok",
			"service": "UniConnect Server",
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(jwt.IdentityExtractorMiddleware(deps.Config.JWTSecret))

		api.Route("/auth", func(auth chi.Router) {
			auth.Method(http.MethodPost, "/register", authLimiter.Middleware(HandleRegister(deps)))
			auth.Method(http.MethodPost, "/login", authLimiter.Middleware(HandleLogin(deps)))
			auth.Post("/logout", HandleLogout(deps))
		})

		api.Route("/user", func(user chi.Router) {
			user.Get("/profile", HandleGetProfile(deps))
			user.Put("/profile", HandleUpdateProfile(deps))
			user.Post("/avatar", HandleUploadAvatar(deps))
			user.Get("/search", HandleSearchUsers(deps))
			user.Get("/{id}", HandleGetUserByID(deps))
		})

		api.Route("/chats", func(chats chi.Router) {
			chats.Get("/user", HandleListUserChats(deps))
			chats.Get("/{chatId}", HandleGetChat(deps))
		})

		api.Route("/messages", func(messages chi.Router) {
			messages.Get("/{chatId}", HandleListMessages(deps))
			messages.Post("/", HandleSendMessage(deps))
		})

		api.Route("/feed", func(feed chi.Router) {
			feed.Get("/", HandleListFeed(deps))
			feed.Post("/", HandleCreatePost(deps))
			feed.Get("/user/{userId}", HandleListUserPosts(deps))
			feed.Post("/{postId}/like", HandleToggleLike(deps))
			feed.Delete("/{postId}", HandleDeletePost(deps))
		})
	})

	r.Get("/ws", HandleWebSocket(deps, wsUpgrader, socketLimiter))

	return r
}
