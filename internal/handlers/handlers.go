package handlers

import (
	"context"

	"github.com/coyotle/smotrim-rss-proxy/internal/cache"
	"github.com/coyotle/smotrim-rss-proxy/internal/config"
	"github.com/coyotle/smotrim-rss-proxy/internal/models"
	"github.com/coyotle/smotrim-rss-proxy/internal/smotrim"
)

// CatalogFetcher retrieves the raw upstream catalog for a brand.
// It's implemented by smotrim.Client, and can be mocked for testing.
type CatalogFetcher interface {
	FetchCatalog(ctx context.Context, brandID uint64, limit int) (*smotrim.Catalog, error)
}

// FeedBuilder turns a decoded catalog into a renderable feed.
// It's implemented by feed.Builder.
type FeedBuilder interface {
	Build(ctx context.Context, brandID uint64, catalog *smotrim.Catalog) (*models.BrandFeed, error)
}

type Handlers struct {
	cache   *cache.Cache
	client  CatalogFetcher
	builder FeedBuilder
	cfg     config.Config
}

func New(feedCache *cache.Cache, client CatalogFetcher, builder FeedBuilder, cfg config.Config) *Handlers {
	return &Handlers{
		cache:   feedCache,
		client:  client,
		builder: builder,
		cfg:     cfg,
	}
}
