package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/coyotle/smotrim-rss-proxy/internal/feed"
	"github.com/coyotle/smotrim-rss-proxy/internal/smotrim"
)

// GetBrandFeed serves GET and HEAD /brand/{id}. A fresh cached feed is
// served as-is; otherwise the pipeline (fetch, enrich, render) runs once,
// shared by all concurrent requests for the same brand.
func (h *Handlers) GetBrandFeed(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	brandID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid brand id", http.StatusBadRequest)
		return
	}

	entry, err := h.cache.GetOrBuild(vars["id"], h.cfg.CacheLifetime, func() ([]byte, error) {
		return h.buildFeed(r.Context(), brandID)
	})
	if err != nil {
		log.Printf("brand %d: %v", brandID, err)
		if errors.Is(err, smotrim.ErrUpstream) {
			http.Error(w, "Failed to fetch upstream catalog", http.StatusBadGateway)
			return
		}
		http.Error(w, "Failed to build feed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml")
	w.Header().Set("Last-Modified", entry.CachedAt.UTC().Format(http.TimeFormat))
	if r.Method == http.MethodHead {
		w.Header().Set("Content-Length", strconv.Itoa(len(entry.Body)))
		return
	}
	w.Write(entry.Body)
}

func (h *Handlers) buildFeed(ctx context.Context, brandID uint64) ([]byte, error) {
	catalog, err := h.client.FetchCatalog(ctx, brandID, h.cfg.EpisodeLimit)
	if err != nil {
		return nil, err
	}
	f, err := h.builder.Build(ctx, brandID, catalog)
	if err != nil {
		return nil, fmt.Errorf("build feed: %w", err)
	}
	return feed.RenderRSS(f)
}
