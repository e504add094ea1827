// Package router assembles the gin engine and its route table.
package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "heartlink/internal/feature/auth/transport/handler"
	matchhandler "heartlink/internal/feature/match/transport/handler"
	messaginghandler "heartlink/internal/feature/messaging/transport/handler"
	profilehandler "heartlink/internal/feature/profile/transport/handler"
	"heartlink/internal/platform/http/handler"
	jwtmw "heartlink/internal/platform/jwt"
	"heartlink/internal/platform/metrics"
)

// Handlers groups the feature handlers mounted under /api.
type Handlers struct {
	Auth      *authhandler.AuthHandler
	Profile   *profilehandler.ProfileHandler
	Match     *matchhandler.MatchHandler
	Messaging *messaginghandler.MessagingHandler
}

// Deps is everything NewRouter needs besides the handlers.
type Deps struct {
	Tokens      jwtmw.TokenParser
	Metrics     *metrics.Metrics
	CORSOrigins []string
	// Stores are pinged by /readyz.
	Stores map[string]handler.Pinger
}

func NewRouter(h Handlers, d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
	}
	r.Use(cors.New(corsConfig(d.CORSOrigins)))

	r.Match([]string{http.MethodGet, http.MethodHead, http.MethodOptions}, "/healthz", handler.Health)
	r.GET("/readyz", handler.Ready(d.Stores))
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	api := r.Group("/api")
	h.Auth.RegisterRoutes(api.Group("/auth"))

	// everything below requires a bearer token
	authed := api.Group("", jwtmw.AuthRequired(d.Tokens))
	h.Profile.RegisterRoutes(authed.Group("/profile"))
	h.Match.RegisterRoutes(authed.Group("/match"))
	h.Messaging.RegisterRoutes(authed.Group("/messages"))

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
