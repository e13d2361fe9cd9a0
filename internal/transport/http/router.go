package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/realty-api/internal/application/favorite"
	"github.com/realty-api/internal/application/property"
	"github.com/realty-api/internal/application/recommendation"
	"github.com/realty-api/internal/application/user"
	"github.com/realty-api/internal/config"
	"github.com/realty-api/internal/transport/http/handler"
	appmiddleware "github.com/realty-api/internal/transport/http/middleware"
)

// requestTimeout bounds every request; a stalled store call fails the request
// instead of pinning the connection.
const requestTimeout = 30 * time.Second

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Timeout(requestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authMw := appmiddleware.Auth(deps.JWTProvider, deps.UserRepo)

	// 5 requests/second, burst of 10, applied to credential endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	userSvc := user.NewService(deps.UserRepo, deps.JWTProvider, deps.Cache)
	propertySvc := property.NewService(deps.PropertyRepo, photoStore(deps), deps.Cache)
	favoriteSvc := favorite.NewService(deps.FavoriteRepo, propertySvc)
	recSvc := recommendation.NewService(deps.RecommendationRepo, deps.UserRepo, propertySvc, deps.SMSSender, deps.Cache, nil)

	healthH := handler.NewHealthHandler(deps.CachePinger)
	userH := handler.NewUserHandler(userSvc)
	propertyH := handler.NewPropertyHandler(propertySvc)
	favoriteH := handler.NewFavoriteHandler(favoriteSvc)
	recH := handler.NewRecommendationHandler(recSvc)

	r.Route("/api", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health", healthH.Check)
		r.With(sensitiveRL.Limit).Post("/users/register", userH.Register)
		r.With(sensitiveRL.Limit).Post("/users/login", userH.Login)
		r.Post("/users/refresh", userH.Refresh)

		r.Get("/property", propertyH.List)
		r.Get("/property/search", propertyH.Search)
		r.Get("/property/{id}", propertyH.Get)
		r.Get("/property/{id}/photos", propertyH.ListPhotoURLs)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Post("/users/logout", userH.Logout)
			r.Get("/users", userH.List)
			r.Get("/users/search", userH.Search)
			r.Get("/users/{id}", userH.Get)
			r.With(appmiddleware.RequireSelfOrAdmin).Put("/users/{id}", userH.Update)
			r.With(appmiddleware.RequireSelfOrAdmin).Delete("/users/{id}", userH.Delete)

			r.Post("/property", propertyH.Create)
			r.Put("/property/{id}", propertyH.Update)
			r.Delete("/property/{id}", propertyH.Delete)
			r.Post("/property/{id}/photos", propertyH.UploadPhoto)
			r.Delete("/property/{id}/photos", propertyH.DeletePhoto)

			r.Post("/favorites/{propertyId}", favoriteH.Add)
			r.Get("/favorites", favoriteH.List)
			r.Delete("/favorites/{propertyId}", favoriteH.Remove)

			r.Post("/recommend", recH.Recommend)
			r.Get("/recommend", recH.Received)
			r.Get("/recommend/sent", recH.Sent)
			r.Post("/recommend/{recommendationId}", recH.Unrecommend)
		})
	})

	return r
}

// photoStore avoids handing a typed nil *s3infra.Store to the property
// service when no bucket is configured.
func photoStore(deps *Deps) property.PhotoStore {
	if deps.S3Store == nil {
		return nil
	}
	return deps.S3Store
}
