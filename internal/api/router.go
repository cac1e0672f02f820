package api

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	_ "github.com/rohits-web03/warbler/docs"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/rohits-web03/warbler/internal/api/handlers"
	"github.com/rohits-web03/warbler/internal/api/middleware"
	"github.com/rs/cors"
)

func SetupRouter(h *handlers.Handler, auth *middleware.Auth) http.Handler {
	mainMux := http.NewServeMux()
	c := cors.New(h.Cfg.CorsConfig)

	// ---------- PUBLIC ROUTES ----------
	mainMux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	mainMux.HandleFunc("/docs/", httpSwagger.WrapHandler)
	mainMux.Handle("GET /metrics", promhttp.Handler())

	authMux := http.NewServeMux()
	authMux.HandleFunc("POST /sign-up", h.RegisterUser)
	authMux.HandleFunc("POST /login", h.LoginUser)
	authMux.HandleFunc("GET /google/login", h.HandleGoogleLogin)
	authMux.HandleFunc("GET /google/callback", h.HandleGoogleCallback)
	authMux.Handle("POST /logout", auth.Require(http.HandlerFunc(h.Logout)))

	mainMux.Handle("/api/v1/auth/",
		http.StripPrefix("/api/v1/auth", middleware.RecordRoute(authMux)),
	)

	// ---------- PROTECTED ROUTES ----------
	protectedMux := http.NewServeMux()

	protectedMux.HandleFunc("GET /users/me", h.GetMe)
	protectedMux.HandleFunc("PATCH /users/me", h.UpdateMe)
	protectedMux.HandleFunc("DELETE /users/me", h.DeleteMe)
	protectedMux.HandleFunc("POST /users/me/avatar/presign", h.PresignAvatar)
	protectedMux.HandleFunc("POST /users/me/avatar/complete", h.CompleteAvatar)

	protectedMux.HandleFunc("GET /users/{id}", h.GetUser)
	protectedMux.HandleFunc("GET /users/{id}/followers", h.ListFollowers)
	protectedMux.HandleFunc("GET /users/{id}/following", h.ListFollowing)
	protectedMux.HandleFunc("POST /users/{id}/follow", h.FollowUser)
	protectedMux.HandleFunc("DELETE /users/{id}/follow", h.UnfollowUser)
	protectedMux.HandleFunc("GET /users/{id}/messages", h.ListUserMessages)

	protectedMux.HandleFunc("POST /messages", h.CreateMessage)
	protectedMux.HandleFunc("GET /messages/{id}", h.GetMessage)
	protectedMux.HandleFunc("DELETE /messages/{id}", h.DeleteMessage)
	protectedMux.HandleFunc("GET /timeline", h.Timeline)

	mainMux.Handle("/api/v1/",
		http.StripPrefix(
			"/api/v1",
			auth.Require(middleware.RecordRoute(protectedMux)),
		),
	)

	h.Log.Info().Msg("Router initialized")
	handler := c.Handler(mainMux)
	handler = middleware.Logger(h.Log, handler)
	return handler
}
