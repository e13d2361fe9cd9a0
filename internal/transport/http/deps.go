package http

import (
	"github.com/realty-api/internal/cache"
	"github.com/realty-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/realty-api/internal/infrastructure/jwt"
	s3infra "github.com/realty-api/internal/infrastructure/s3"
	"github.com/realty-api/internal/infrastructure/sns"
	"github.com/realty-api/internal/transport/http/handler"
)

// Deps holds all infrastructure dependencies for the router. S3Store,
// SMSSender and CachePinger are optional; the matching features degrade when
// they are nil.
type Deps struct {
	UserRepo           *dynamo.UserRepo
	PropertyRepo       *dynamo.PropertyRepo
	FavoriteRepo       *dynamo.FavoriteRepo
	RecommendationRepo *dynamo.RecommendationRepo
	S3Store            *s3infra.Store
	SMSSender          sns.SMSSender
	JWTProvider        *jwtinfra.Provider
	Cache              *cache.Accessor
	CachePinger        handler.Pinger
}
