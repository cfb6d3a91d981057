package feed

import (
	"context"
	"fmt"
	"log"

	"github.com/coyotle/smotrim-rss-proxy/internal/dates"
	"github.com/coyotle/smotrim-rss-proxy/internal/models"
	"github.com/coyotle/smotrim-rss-proxy/internal/smotrim"
)

// SizeStore is the persistent episode size store consulted before probing.
// It's implemented by db.Store, and can be mocked for testing.
type SizeStore interface {
	GetItemSize(ctx context.Context, id int64) (size uint64, found bool, err error)
	InsertItem(ctx context.Context, rec models.SizeRecord) error
}

// Upstream covers the per-episode and per-brand calls the builder makes.
// It's implemented by smotrim.Client.
type Upstream interface {
	ProbeSize(ctx context.Context, mediaURL string) (uint64, error)
	FetchBrandDescription(ctx context.Context, brandID uint64) (string, error)
	MediaURL(id int64) string
	BrandURL(brandID uint64) string
}

// Builder turns raw catalog entries into a renderable feed.
type Builder struct {
	store      SizeStore
	upstream   Upstream
	skipActive bool
}

func NewBuilder(store SizeStore, upstream Upstream, skipActive bool) *Builder {
	return &Builder{
		store:      store,
		upstream:   upstream,
		skipActive: skipActive,
	}
}

// Build assembles a brand feed from a decoded catalog, in upstream order.
// An episode whose size probe fails is dropped and logged; a publication
// date that does not parse aborts the whole build, since it means the
// upstream schema changed under us and every entry is suspect.
func (b *Builder) Build(ctx context.Context, brandID uint64, catalog *smotrim.Catalog) (*models.BrandFeed, error) {
	items := catalog.Items()

	f := &models.BrandFeed{
		ID:   brandID,
		Link: b.upstream.BrandURL(brandID),
	}
	if len(items) > 0 {
		f.Title = items[0].Title
		f.Image = items[0].Player.Preview.Source.Main
	}

	desc, err := b.upstream.FetchBrandDescription(ctx, brandID)
	if err != nil {
		log.Printf("brand %d: description scrape failed: %v", brandID, err)
		desc = ""
	}
	f.Description = desc

	for _, item := range items {
		// The upstream flag reads inverted: episodes that show up in the
		// player arrive with isActive=false. Observed polarity is kept,
		// behind config, until the upstream semantics are confirmed.
		if item.IsActive == b.skipActive {
			continue
		}

		mediaURL := b.upstream.MediaURL(item.ID)

		size, found, err := b.store.GetItemSize(ctx, item.ID)
		if err != nil {
			return nil, fmt.Errorf("size lookup for episode %d: %w", item.ID, err)
		}
		freshProbe := false
		if !found {
			size, err = b.upstream.ProbeSize(ctx, mediaURL)
			if err != nil {
				log.Printf("brand %d: skip episode %d: %v", brandID, item.ID, err)
				continue
			}
			freshProbe = true
		}

		published, err := dates.Parse(item.Published)
		if err != nil {
			return nil, fmt.Errorf("episode %d: %w", item.ID, err)
		}

		ep := models.Episode{
			ID:             item.ID,
			BrandID:        brandID,
			Title:          item.Anons,
			Description:    item.Description,
			DurationText:   item.Duration,
			PublishedAt:    published,
			Image:          item.Player.Preview.Source.Main,
			MediaURL:       mediaURL,
			MediaSizeBytes: size,
		}

		if freshProbe {
			rec := models.SizeRecord{
				ID:          ep.ID,
				BrandID:     brandID,
				Title:       ep.Title,
				Description: ep.Description,
				Size:        size,
				Duration:    ep.DurationText,
				Published:   dates.FormatRFC822(published),
				Image:       ep.Image,
			}
			if err := b.store.InsertItem(ctx, rec); err != nil {
				// The feed is still correct without the record; the next
				// request will probe again.
				log.Printf("brand %d: persist size for episode %d: %v", brandID, ep.ID, err)
			}
		}

		f.Episodes = append(f.Episodes, ep)
	}

	return f, nil
}
