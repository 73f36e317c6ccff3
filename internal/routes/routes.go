package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/gigradar/gigradar/internal/app/domain/artists"
	"github.com/gigradar/gigradar/internal/app/domain/comments"
	"github.com/gigradar/gigradar/internal/app/domain/events"
	"github.com/gigradar/gigradar/internal/app/domain/follows"
	"github.com/gigradar/gigradar/internal/app/domain/interactions"
	"github.com/gigradar/gigradar/internal/app/domain/popularity"
	"github.com/gigradar/gigradar/internal/app/domain/profiles"
	"github.com/gigradar/gigradar/internal/app/domain/recommendations"
	"github.com/gigradar/gigradar/internal/app/middleware"
	"github.com/gigradar/gigradar/internal/app/sources/lastfm"
	"github.com/gigradar/gigradar/internal/app/sources/openmeteo"
	"github.com/gigradar/gigradar/internal/app/sources/spotify"
	"github.com/gigradar/gigradar/internal/app/sources/ticketmaster"
	"github.com/gigradar/gigradar/internal/pkg/config"
)

// AppHandlers groups every HTTP handler behind the router.
type AppHandlers struct {
	Artists         *artists.Handler
	Events          *events.Handler
	Interactions    *interactions.Handler
	Profiles        *profiles.Handler
	Comments        *comments.Handler
	Follows         *follows.Handler
	Popularity      *popularity.Handler
	Recommendations *recommendations.Handler
}

// Setup builds the full dependency graph and registers every route.
func Setup(r *gin.Engine, cfg *config.Config, pool *pgxpool.Pool, logger *zap.Logger) {
	h := buildHandlers(cfg, pool, logger)

	jwtOptional := middleware.JWTAuthMiddleware(middleware.JWTConfig{
		SecretKey:       cfg.JWTSecret,
		TokenExpiration: 24 * time.Hour,
		Logger:          logger,
		Optional:        true,
	})

	r.GET("/health", func(c *gin.Context) {
		if err := pool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(jwtOptional)
	{
		api.GET("/popular", h.Popularity.Get)

		api.GET("/search/artists", h.Artists.Search)
		api.GET("/search/events", h.Events.Search)
		api.GET("/artists/:id", h.Artists.GetDetail)
		api.GET("/events/:id", h.Events.GetDetail)

		api.GET("/comments", h.Comments.List)

		authed := api.Group("")
		authed.Use(middleware.RequireUser())
		{
			authed.GET("/recommendations", h.Recommendations.Latest)
			authed.POST("/recommendations", h.Recommendations.Compute)

			authed.POST("/interactions", h.Interactions.Record)

			authed.GET("/me/profile", h.Profiles.Get)
			authed.PUT("/me/profile", h.Profiles.Update)

			authed.POST("/comments", h.Comments.Add)
			authed.DELETE("/comments/:id", h.Comments.Delete)

			authed.POST("/follow/:userId", h.Follows.Follow)
			authed.DELETE("/follow/:userId", h.Follows.Unfollow)
			authed.GET("/follow/:userId/status", h.Follows.Status)
			authed.GET("/follow/:userId/stats", h.Follows.Stats)
			authed.GET("/follow/:userId/following", h.Follows.Following)
			authed.GET("/follow/:userId/followers", h.Follows.Followers)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.AdminMiddleware(cfg.AdminToken))
		{
			admin.POST("/ingest", h.Events.Ingest)
			admin.POST("/refresh", h.Popularity.Refresh)
		}
	}
}

func buildHandlers(cfg *config.Config, pool *pgxpool.Pool, logger *zap.Logger) *AppHandlers {
	spotifyClient := spotify.New(cfg.Providers.SpotifyAccessToken, logger)
	lastfmClient := lastfm.New(cfg.Providers.LastfmAPIKey, logger)
	ticketmasterClient := ticketmaster.New(cfg.Providers.TicketmasterAPIKey, logger)
	weatherClient := openmeteo.New(logger)

	artistRepo := artists.NewRepository(pool, logger)
	artistService := artists.NewServiceImpl(artistRepo, spotifyClient, lastfmClient, logger)

	eventRepo := events.NewRepository(pool, logger)
	eventService := events.NewServiceImpl(eventRepo, artistRepo, artistService, ticketmasterClient, weatherClient, logger)

	interactionRepo := interactions.NewRepository(pool, logger)
	interactionService := interactions.NewService(interactionRepo, artistRepo, eventRepo, logger)

	profileRepo := profiles.NewRepository(pool, logger)
	profileService := profiles.NewService(profileRepo, logger)

	commentRepo := comments.NewRepository(pool, logger)
	commentService := comments.NewService(commentRepo, logger)

	followRepo := follows.NewRepository(pool, logger)
	followService := follows.NewService(followRepo, logger)

	snapshotRepo := popularity.NewSnapshotRepository(pool, logger)
	popularityService := popularity.NewService(snapshotRepo, artistRepo, eventRepo, interactionRepo, logger)

	recommendationRepo := recommendations.NewRepository(pool, logger)
	recommenderService := recommendations.NewService(
		recommendationRepo, profileService, interactionRepo, eventRepo, artistRepo, weatherClient, logger)

	return &AppHandlers{
		Artists:         artists.NewHandler(artistService, logger),
		Events:          events.NewHandler(eventService, logger),
		Interactions:    interactions.NewHandler(interactionService, logger),
		Profiles:        profiles.NewHandler(profileService, logger),
		Comments:        comments.NewHandler(commentService, logger),
		Follows:         follows.NewHandler(followService, logger),
		Popularity:      popularity.NewHandler(popularityService, logger),
		Recommendations: recommendations.NewHandler(recommenderService, logger),
	}
}
